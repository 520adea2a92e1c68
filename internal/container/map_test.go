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

package container

import (
	"testing"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/acrion/cbeam/internal/wire"
	"github.com/stretchr/testify/require"
)

func stringInt64Codec() MapCodec[string, int64] {
	return MapCodec[string, int64]{
		PutKey: wire.PutString,
		GetKey: wire.GetString,
		PutVal: wire.PutInt64,
		GetVal: wire.GetInt64,
	}
}

func TestMapInsertAtErase(t *testing.T) {
	m, err := NewMap[string, int64](uniqueName(t), 4096, stringInt64Codec())
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("b", 2))

	v, err := m.At("a")
	require.NoError(t, err)
	require.EqualValues(t, 1, v)

	_, err = m.At("missing")
	require.True(t, cbeamerr.HasKind(err, cbeamerr.KeyMissing))

	def, err := m.AtOrDefault("missing", 99)
	require.NoError(t, err)
	require.EqualValues(t, 99, def)

	require.NoError(t, m.Erase("a"))
	_, err = m.At("a")
	require.True(t, cbeamerr.HasKind(err, cbeamerr.KeyMissing))
}

func TestMapUpdateAndUpdateOrInsert(t *testing.T) {
	m, err := NewMap[string, int64](uniqueName(t), 4096, stringInt64Codec())
	require.NoError(t, err)
	defer m.Close()

	err = m.Update("absent", func(v int64) int64 { return v + 1 })
	require.True(t, cbeamerr.HasKind(err, cbeamerr.KeyMissing))

	fn := func(v int64) int64 { return v + 1 }

	// First call finds no existing key: def is stored verbatim, fn never runs.
	require.NoError(t, m.UpdateOrInsert("counter", fn, 100))
	v, err := m.At("counter")
	require.NoError(t, err)
	require.EqualValues(t, 100, v, "UpdateOrInsert must store def, not fn's result, when the key is absent")

	// Second call finds the key present: fn runs on the existing value, def is ignored.
	require.NoError(t, m.UpdateOrInsert("counter", fn, 100))
	v, err = m.At("counter")
	require.NoError(t, err)
	require.EqualValues(t, 101, v)
}

func TestMapSizeEmptyClearAndForEach(t *testing.T) {
	m, err := NewMap[string, int64](uniqueName(t), 4096, stringInt64Codec())
	require.NoError(t, err)
	defer m.Close()

	empty, err := m.Empty()
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, m.Insert("x", 10))
	require.NoError(t, m.Insert("y", 20))

	size, err := m.Size()
	require.NoError(t, err)
	require.Equal(t, 2, size)

	sum := int64(0)
	require.NoError(t, m.ForEach(func(_ string, v int64) bool { sum += v; return true }))
	require.EqualValues(t, 30, sum)

	seen := 0
	require.NoError(t, m.ForEach(func(string, int64) bool {
		seen++
		return false
	}))
	require.Equal(t, 1, seen, "ForEach must stop as soon as fn returns false")

	require.NoError(t, m.Clear())
	empty, err = m.Empty()
	require.NoError(t, err)
	require.True(t, empty)
}
