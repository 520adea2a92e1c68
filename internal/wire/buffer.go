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

// Package wire implements the binary serialization contract (spec.md
// §4.3, C3) shared by every container and the growable append-only
// buffer (§4.4, C4) that backs it. All multi-byte primitives are
// little-endian; lengths are uint64.
package wire

// Buffer is a growable, append-only byte buffer. It never shrinks except
// via Clear, and Swap lets a caller exchange its backing storage with
// another Buffer without copying.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty buffer with capacity hint bytes preallocated.
func NewBuffer(capacityHint int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacityHint)}
}

// Append copies p onto the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int { return len(b.data) }

// Data returns the current contents. The slice is invalidated by any
// subsequent Append that grows past the underlying array's capacity.
func (b *Buffer) Data() []byte { return b.data }

// Clear resets the buffer to empty without releasing its backing array.
func (b *Buffer) Clear() { b.data = b.data[:0] }

// Swap exchanges the backing storage of b and other in place.
func (b *Buffer) Swap(other *Buffer) {
	b.data, other.data = other.data, b.data
}
