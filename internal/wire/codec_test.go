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

func TestScalarRoundTrip(t *testing.T) {
	buf := NewBuffer(64)
	PutUint32(buf, 0xdeadbeef)
	PutUint64(buf, 1<<40)
	PutInt64(buf, -1234567890)
	PutFloat64(buf, 3.5)
	PutBool(buf, true)
	PutBool(buf, false)
	PutString(buf, "hello, cbeam")

	b := buf.Data()

	u32, b, err := GetUint32(b)
	require.NoError(t, err)
	require.EqualValues(t, 0xdeadbeef, u32)

	u64, b, err := GetUint64(b)
	require.NoError(t, err)
	require.EqualValues(t, 1<<40, u64)

	i64, b, err := GetInt64(b)
	require.NoError(t, err)
	require.EqualValues(t, -1234567890, i64)

	f64, b, err := GetFloat64(b)
	require.NoError(t, err)
	require.InDelta(t, 3.5, f64, 0)

	bv, b, err := GetBool(b)
	require.NoError(t, err)
	require.True(t, bv)

	bv2, b, err := GetBool(b)
	require.NoError(t, err)
	require.False(t, bv2)

	s, b, err := GetString(b)
	require.NoError(t, err)
	require.Equal(t, "hello, cbeam", s)
	require.Empty(t, b)
}

func TestGetTruncatedInputErrors(t *testing.T) {
	buf := NewBuffer(4)
	PutUint32(buf, 1)
	_, _, err := GetUint64(buf.Data())
	require.Error(t, err)

	buf2 := NewBuffer(8)
	PutUint64(buf2, 5) // claims a 5-byte string with no body
	_, _, err = GetString(buf2.Data())
	require.Error(t, err)
}

func TestBufferSwapAndClear(t *testing.T) {
	a := NewBuffer(8)
	a.Append([]byte("abc"))
	b := NewBuffer(8)
	b.Append([]byte("xyz"))

	a.Swap(b)
	require.Equal(t, "xyz", string(a.Data()))
	require.Equal(t, "abc", string(b.Data()))

	a.Clear()
	require.Zero(t, a.Len())
}
