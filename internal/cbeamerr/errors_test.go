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

package cbeamerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		PlatformError:               "platform-error",
		NameTooLong:                 "name-too-long",
		CapacityExceeded:            "capacity-exceeded",
		KeyMissing:                  "key-missing",
		TypeConflict:                "type-conflict",
		CannotAppendToUnknownLength: "cannot-append-to-unknown-length",
		OutOfMemory:                 "out-of-memory",
		OutOfRange:                  "out-of-range",
		InvalidArgument:             "invalid-argument",
		ShuttingDown:                "shutting-down",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
	assert.Contains(t, Kind(99).String(), "Kind(99)")
}

func TestErrorIsMatchesByKind(t *testing.T) {
	err := New(KeyMissing, "no such entry %q", "foo")
	require.True(t, errors.Is(err, Sentinel(KeyMissing)))
	require.False(t, errors.Is(err, Sentinel(TypeConflict)))
	assert.True(t, HasKind(err, KeyMissing))
	assert.False(t, HasKind(err, TypeConflict))
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(PlatformError, cause, "mmap failed")
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "mmap failed")
}

func TestDefectHandlerReceivesError(t *testing.T) {
	var got error
	prev := SetDefectHandler(func(err error) { got = err })
	defer SetDefectHandler(prev)

	sentinel := New(OutOfRange, "index out of range")
	Defect(sentinel)

	require.NotNil(t, got)
	assert.Same(t, sentinel, got)
}
