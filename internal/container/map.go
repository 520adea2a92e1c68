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
	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/acrion/cbeam/internal/wire"
)

// MapCodec adapts a pair of scalar put/get functions into a wire.Codec
// for map[K]V, reusing wire.EncodeMap/DecodeMap.
type MapCodec[K comparable, V any] struct {
	PutKey func(*wire.Buffer, K)
	GetKey func([]byte) (K, []byte, error)
	PutVal func(*wire.Buffer, V)
	GetVal func([]byte) (V, []byte, error)
}

func (c MapCodec[K, V]) Encode(buf *wire.Buffer, m map[K]V) {
	wire.EncodeMap(buf, m, c.PutKey, c.PutVal)
}

func (c MapCodec[K, V]) Decode(b []byte) (map[K]V, []byte, error) {
	return wire.DecodeMap(b, c.GetKey, c.GetVal)
}

// Map is the interprocess key/value map built on top of Container
// (spec.md §4.4). Every operation is atomic with respect to other
// processes holding the same name.
type Map[K comparable, V any] struct {
	c *Container[map[K]V]
}

// NewMap creates or opens the named interprocess map with the given
// fixed capacity in bytes.
func NewMap[K comparable, V any](name string, capacity uint64, codec MapCodec[K, V]) (*Map[K, V], error) {
	c, err := New[map[K]V](name, capacity, codec, map[K]V{})
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{c: c}, nil
}

// Name returns the identifier the map was constructed with.
func (m *Map[K, V]) Name() string { return m.c.Name() }

// SetCapacityEnvVar records the name of the environment variable that
// controls this map's capacity, so a future CapacityExceeded error names
// it (spec.md §7).
func (m *Map[K, V]) SetCapacityEnvVar(name string) { m.c.SetCapacityEnvVar(name) }

// Insert adds key/val, overwriting any existing value for key.
func (m *Map[K, V]) Insert(key K, val V) error {
	return m.c.Mutate(func(cur map[K]V) (map[K]V, error) {
		cur[key] = val
		return cur, nil
	})
}

// Erase removes key if present; it is not an error for key to be absent.
func (m *Map[K, V]) Erase(key K) error {
	return m.c.Mutate(func(cur map[K]V) (map[K]V, error) {
		delete(cur, key)
		return cur, nil
	})
}

// At returns the value for key, or a KeyMissing error if absent.
func (m *Map[K, V]) At(key K) (V, error) {
	var result V
	var missing bool
	err := m.c.View(func(cur map[K]V) error {
		v, ok := cur[key]
		if !ok {
			missing = true
			return nil
		}
		result = v
		return nil
	})
	if err != nil {
		return result, err
	}
	if missing {
		return result, cbeamerr.New(cbeamerr.KeyMissing, "key not found in map")
	}
	return result, nil
}

// AtOrDefault returns the value for key, or def if absent.
func (m *Map[K, V]) AtOrDefault(key K, def V) (V, error) {
	v, err := m.At(key)
	if cbeamerr.HasKind(err, cbeamerr.KeyMissing) {
		return def, nil
	}
	return v, err
}

// Count reports 1 if key is present and 0 otherwise.
func (m *Map[K, V]) Count(key K) (int, error) {
	n := 0
	err := m.c.View(func(cur map[K]V) error {
		if _, ok := cur[key]; ok {
			n = 1
		}
		return nil
	})
	return n, err
}

// Update applies fn to the current value for key if present, storing the
// result. If key is absent, fn is not called and KeyMissing is returned.
func (m *Map[K, V]) Update(key K, fn func(V) V) error {
	return m.c.Mutate(func(cur map[K]V) (map[K]V, error) {
		v, ok := cur[key]
		if !ok {
			return cur, cbeamerr.New(cbeamerr.KeyMissing, "key not found in map")
		}
		cur[key] = fn(v)
		return cur, nil
	})
}

// UpdateOrInsert applies fn to the current value for key and stores the
// result if key is present, otherwise stores def without calling fn.
func (m *Map[K, V]) UpdateOrInsert(key K, fn func(V) V, def V) error {
	return m.c.Mutate(func(cur map[K]V) (map[K]V, error) {
		if v, ok := cur[key]; ok {
			cur[key] = fn(v)
		} else {
			cur[key] = def
		}
		return cur, nil
	})
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() error {
	return m.c.Mutate(func(map[K]V) (map[K]V, error) {
		return map[K]V{}, nil
	})
}

// Size returns the number of entries.
func (m *Map[K, V]) Size() (int, error) {
	n := 0
	err := m.c.View(func(cur map[K]V) error {
		n = len(cur)
		return nil
	})
	return n, err
}

// Empty reports whether the map has no entries.
func (m *Map[K, V]) Empty() (bool, error) {
	n, err := m.Size()
	return n == 0, err
}

// ForEach snapshots the map's entries under the paired mutex, releases it,
// and then calls fn for each entry in turn, so fn is free to call back into
// m without deadlocking. Iteration stops as soon as fn returns false.
func (m *Map[K, V]) ForEach(fn func(K, V) bool) error {
	var snapshot map[K]V
	err := m.c.View(func(cur map[K]V) error {
		snapshot = make(map[K]V, len(cur))
		for k, v := range cur {
			snapshot[k] = v
		}
		return nil
	})
	if err != nil {
		return err
	}
	for k, v := range snapshot {
		if !fn(k, v) {
			break
		}
	}
	return nil
}

// Close releases the OS resources backing the map.
func (m *Map[K, V]) Close() error { return m.c.Close() }

// Transact exposes the underlying container's lock→deserialize→mutate→
// reserialize→unlock cycle directly, for callers that need to touch more
// than one key atomically (the reference-counted buffer's append
// algorithm being the motivating case).
func (m *Map[K, V]) Transact(fn func(map[K]V) (map[K]V, error)) error {
	return m.c.Mutate(fn)
}
