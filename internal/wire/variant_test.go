// Copyright 2025 The Cbeam Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariantRoundTripEachAlternative(t *testing.T) {
	values := []Variant{
		NewVariantInt64(-42),
		NewVariantFloat64(2.718281828),
		NewVariantBool(true),
		NewVariantPointer(0xcafebabe),
		NewVariantString("stable identity"),
	}
	for _, v := range values {
		buf := NewBuffer(32)
		PutVariant(buf, v)
		got, rest, err := GetVariant(buf.Data())
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, v, got)
	}
}

func TestVariantTagString(t *testing.T) {
	require.Equal(t, "Int64", VariantInt64.String())
	require.Equal(t, "String", VariantString.String())
	require.Contains(t, VariantTag(200).String(), "VariantTag(200)")
}
