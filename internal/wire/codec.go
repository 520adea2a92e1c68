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
	"encoding/binary"
	"math"

	"github.com/acrion/cbeam/internal/cbeamerr"
)

// Codec converts a value of type T to and from its wire representation.
// Container[T] (internal/container) uses a Codec to (de)serialize the
// entire image it keeps in a shared segment.
type Codec[T any] interface {
	Encode(buf *Buffer, v T)
	Decode(b []byte) (v T, rest []byte, err error)
}

func errShort(what string) error {
	return cbeamerr.New(cbeamerr.PlatformError, "wire: truncated while decoding %s", what)
}

// PutUint32 appends v in little-endian form.
func PutUint32(buf *Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Append(tmp[:])
}

// PutUint64 appends v in little-endian form.
func PutUint64(buf *Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Append(tmp[:])
}

// PutInt64 appends v in little-endian form.
func PutInt64(buf *Buffer, v int64) { PutUint64(buf, uint64(v)) }

// PutFloat64 appends v in little-endian IEEE-754 form.
func PutFloat64(buf *Buffer, v float64) { PutUint64(buf, math.Float64bits(v)) }

// PutBool appends a single byte, 1 for true and 0 for false.
func PutBool(buf *Buffer, v bool) {
	if v {
		buf.Append([]byte{1})
	} else {
		buf.Append([]byte{0})
	}
}

// PutString appends a uint64 byte length followed by the raw bytes.
func PutString(buf *Buffer, s string) {
	PutUint64(buf, uint64(len(s)))
	buf.Append([]byte(s))
}

// PutBytes appends a uint64 byte length followed by p itself.
func PutBytes(buf *Buffer, p []byte) {
	PutUint64(buf, uint64(len(p)))
	buf.Append(p)
}

// GetUint32 decodes a little-endian uint32 from the head of b.
func GetUint32(b []byte) (uint32, []byte, error) {
	if len(b) < 4 {
		return 0, b, errShort("uint32")
	}
	return binary.LittleEndian.Uint32(b), b[4:], nil
}

// GetUint64 decodes a little-endian uint64 from the head of b.
func GetUint64(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, b, errShort("uint64")
	}
	return binary.LittleEndian.Uint64(b), b[8:], nil
}

// GetInt64 decodes a little-endian int64 from the head of b.
func GetInt64(b []byte) (int64, []byte, error) {
	v, rest, err := GetUint64(b)
	return int64(v), rest, err
}

// GetFloat64 decodes a little-endian IEEE-754 float64 from the head of b.
func GetFloat64(b []byte) (float64, []byte, error) {
	v, rest, err := GetUint64(b)
	return math.Float64frombits(v), rest, err
}

// GetBool decodes a single boolean byte from the head of b.
func GetBool(b []byte) (bool, []byte, error) {
	if len(b) < 1 {
		return false, b, errShort("bool")
	}
	return b[0] != 0, b[1:], nil
}

// GetString decodes a length-prefixed string from the head of b.
func GetString(b []byte) (string, []byte, error) {
	n, rest, err := GetUint64(b)
	if err != nil {
		return "", b, err
	}
	if uint64(len(rest)) < n {
		return "", b, errShort("string body")
	}
	return string(rest[:n]), rest[n:], nil
}

// GetBytes decodes a length-prefixed byte slice from the head of b. The
// returned slice aliases b.
func GetBytes(b []byte) ([]byte, []byte, error) {
	n, rest, err := GetUint64(b)
	if err != nil {
		return nil, b, err
	}
	if uint64(len(rest)) < n {
		return nil, b, errShort("bytes body")
	}
	return rest[:n], rest[n:], nil
}
