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

// NestedMap is a map of key/value pairs (Data) plus a map of sub-tables
// keyed by the same key type (SubTables), each itself a NestedMap. It is
// the hierarchical counterpart to the flat maps EncodeMap/DecodeMap
// handle: a table of values with named subtrees rather than a single
// level of key/value pairs.
type NestedMap[K comparable, V any] struct {
	Data      map[K]V
	SubTables map[K]*NestedMap[K, V]
}

// NewNestedMap returns an empty nested map.
func NewNestedMap[K comparable, V any]() *NestedMap[K, V] {
	return &NestedMap[K, V]{Data: map[K]V{}, SubTables: map[K]*NestedMap[K, V]{}}
}

// EncodeNestedMap serializes m by encoding its data table followed by its
// sub-tables in sorted key order, each sub-table itself encoded by
// recursing into EncodeNestedMap.
func EncodeNestedMap[K comparable, V any](buf *Buffer, m *NestedMap[K, V], putKey func(*Buffer, K), putVal func(*Buffer, V)) {
	EncodeMap(buf, m.Data, putKey, putVal)
	PutUint64(buf, uint64(len(m.SubTables)))
	for _, k := range sortedKeys(m.SubTables) {
		putKey(buf, k)
		EncodeNestedMap(buf, m.SubTables[k], putKey, putVal)
	}
}

// DecodeNestedMap deserializes a nested map previously written by
// EncodeNestedMap.
func DecodeNestedMap[K comparable, V any](b []byte, getKey func([]byte) (K, []byte, error), getVal func([]byte) (V, []byte, error)) (*NestedMap[K, V], []byte, error) {
	data, rest, err := DecodeMap(b, getKey, getVal)
	if err != nil {
		return nil, b, err
	}
	n, rest, err := GetUint64(rest)
	if err != nil {
		return nil, b, err
	}
	subTables := make(map[K]*NestedMap[K, V], n)
	for i := uint64(0); i < n; i++ {
		var k K
		k, rest, err = getKey(rest)
		if err != nil {
			return nil, b, err
		}
		var sub *NestedMap[K, V]
		sub, rest, err = DecodeNestedMap(rest, getKey, getVal)
		if err != nil {
			return nil, b, err
		}
		subTables[k] = sub
	}
	return &NestedMap[K, V]{Data: data, SubTables: subTables}, rest, nil
}
