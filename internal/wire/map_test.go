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

func TestMapRoundTrip(t *testing.T) {
	m := map[string]int64{"one": 1, "two": 2, "three": 3}
	buf := NewBuffer(64)
	EncodeMap(buf, m, PutString, PutInt64)

	got, rest, err := DecodeMap(buf.Data(), GetString, GetInt64)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, m, got)
}

func TestEmptyMapRoundTrip(t *testing.T) {
	m := map[uint64]uint32{}
	buf := NewBuffer(8)
	EncodeMap(buf, m, PutUint64AsKey, PutUint32)

	got, rest, err := DecodeMap(buf.Data(), GetUint64AsKey, GetUint32)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Empty(t, got)
}

func PutUint64AsKey(buf *Buffer, k uint64) { PutUint64(buf, k) }

func GetUint64AsKey(b []byte) (uint64, []byte, error) { return GetUint64(b) }

func TestNestedMapRoundTrip(t *testing.T) {
	root := NewNestedMap[string, int64]()
	root.Data["one"] = 1
	child := NewNestedMap[string, int64]()
	child.Data["x"] = 10
	child.Data["y"] = 20
	root.SubTables["group"] = child

	buf := NewBuffer(128)
	EncodeNestedMap(buf, root, PutString, PutInt64)

	got, rest, err := DecodeNestedMap(buf.Data(), GetString, GetInt64)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, root.Data, got.Data)
	require.Len(t, got.SubTables, 1)
	require.Equal(t, child.Data, got.SubTables["group"].Data)
	require.Empty(t, got.SubTables["group"].SubTables)
}

func TestEmptyNestedMapRoundTrip(t *testing.T) {
	root := NewNestedMap[string, int64]()
	buf := NewBuffer(16)
	EncodeNestedMap(buf, root, PutString, PutInt64)

	got, rest, err := DecodeNestedMap(buf.Data(), GetString, GetInt64)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Empty(t, got.Data)
	require.Empty(t, got.SubTables)
}
