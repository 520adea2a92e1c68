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
	"fmt"
	"sort"
)

// sortedKeys returns m's keys ordered by the string form of each key
// (fmt.Sprint), giving every encoding of the same logical map an identical
// byte image regardless of Go's randomized map iteration order.
func sortedKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}

// EncodeMap serializes m as a uint64 entry count followed by key/value
// pairs in sorted key order (§4.3's deterministic on-wire order), so two
// encodings of the same logical map always produce identical bytes.
func EncodeMap[K comparable, V any](buf *Buffer, m map[K]V, putKey func(*Buffer, K), putVal func(*Buffer, V)) {
	PutUint64(buf, uint64(len(m)))
	for _, k := range sortedKeys(m) {
		putKey(buf, k)
		putVal(buf, m[k])
	}
}

// DecodeMap deserializes a map previously written by EncodeMap.
func DecodeMap[K comparable, V any](b []byte, getKey func([]byte) (K, []byte, error), getVal func([]byte) (V, []byte, error)) (map[K]V, []byte, error) {
	n, rest, err := GetUint64(b)
	if err != nil {
		return nil, b, err
	}
	m := make(map[K]V, n)
	for i := uint64(0); i < n; i++ {
		var k K
		var v V
		k, rest, err = getKey(rest)
		if err != nil {
			return nil, b, err
		}
		v, rest, err = getVal(rest)
		if err != nil {
			return nil, b, err
		}
		m[k] = v
	}
	return m, rest, nil
}
