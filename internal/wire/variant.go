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
	"strconv"

	"github.com/acrion/cbeam/internal/cbeamerr"
)

// VariantTag identifies which of Variant's five alternatives is active.
// Values are part of the wire format and must never be renumbered.
//
//go:generate go tool stringer -type=VariantTag
type VariantTag uint8

const (
	VariantInt64 VariantTag = iota
	VariantFloat64
	VariantBool
	VariantPointer
	VariantString
)

// Variant holds exactly one of int64, float64, bool, a foreign pointer, or
// string. The pointer alternative is only meaningful within the process
// that produced it and is never dereferenced by wire code; on the wire it
// is carried as the decimal text of the address, encoded with
// PutString/GetString like the string alternative, not as a raw integer.
type Variant struct {
	Tag VariantTag
	I   int64
	F   float64
	B   bool
	P   uintptr
	S   string
}

func NewVariantInt64(v int64) Variant     { return Variant{Tag: VariantInt64, I: v} }
func NewVariantFloat64(v float64) Variant { return Variant{Tag: VariantFloat64, F: v} }
func NewVariantBool(v bool) Variant       { return Variant{Tag: VariantBool, B: v} }
func NewVariantPointer(v uintptr) Variant { return Variant{Tag: VariantPointer, P: v} }
func NewVariantString(v string) Variant   { return Variant{Tag: VariantString, S: v} }

// PutVariant appends v's tag followed by its active alternative.
func PutVariant(buf *Buffer, v Variant) {
	buf.Append([]byte{byte(v.Tag)})
	switch v.Tag {
	case VariantInt64:
		PutInt64(buf, v.I)
	case VariantFloat64:
		PutFloat64(buf, v.F)
	case VariantBool:
		PutBool(buf, v.B)
	case VariantPointer:
		PutString(buf, strconv.FormatUint(uint64(v.P), 10))
	case VariantString:
		PutString(buf, v.S)
	default:
		cbeamerr.Defect(cbeamerr.New(cbeamerr.InvalidArgument, "wire: unknown variant tag %d", v.Tag))
	}
}

// GetVariant decodes a Variant previously written by PutVariant.
func GetVariant(b []byte) (Variant, []byte, error) {
	if len(b) < 1 {
		return Variant{}, b, errShort("variant tag")
	}
	tag := VariantTag(b[0])
	rest := b[1:]
	switch tag {
	case VariantInt64:
		v, rest, err := GetInt64(rest)
		return Variant{Tag: tag, I: v}, rest, err
	case VariantFloat64:
		v, rest, err := GetFloat64(rest)
		return Variant{Tag: tag, F: v}, rest, err
	case VariantBool:
		v, rest, err := GetBool(rest)
		return Variant{Tag: tag, B: v}, rest, err
	case VariantPointer:
		s, rest, err := GetString(rest)
		if err != nil {
			return Variant{}, b, err
		}
		v, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			return Variant{}, b, cbeamerr.Wrap(cbeamerr.InvalidArgument, perr, "wire: decode variant pointer %q", s)
		}
		return Variant{Tag: tag, P: uintptr(v)}, rest, nil
	case VariantString:
		v, rest, err := GetString(rest)
		return Variant{Tag: tag, S: v}, rest, err
	default:
		return Variant{}, b, cbeamerr.New(cbeamerr.InvalidArgument, "wire: unknown variant tag %d", tag)
	}
}
