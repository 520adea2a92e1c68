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

// Package cbeamerr defines the error taxonomy shared by every cbeam
// component: one Kind per failure mode named in the design, wrapped in a
// single concrete error type so callers can errors.Is/errors.As uniformly.
package cbeamerr

import (
	"errors"
	"fmt"
)

//go:generate go tool stringer -type=Kind

// Kind identifies which of the documented failure modes an Error represents.
type Kind int

const (
	// PlatformError means an OS primitive failed: mutex create/lock, segment
	// map, or an invalid name for the platform.
	PlatformError Kind = iota
	// NameTooLong means an identifier exceeds the platform's shared-name limit.
	NameTooLong
	// CapacityExceeded means a container's serialized image would exceed its
	// segment's fixed capacity.
	CapacityExceeded
	// KeyMissing means a map operation addressed an absent key.
	KeyMissing
	// TypeConflict means a registry name was requested with a type
	// incompatible with its existing registration.
	TypeConflict
	// CannotAppendToUnknownLength means Append was called on a buffer
	// constructed from a foreign raw address of unknown length.
	CannotAppendToUnknownLength
	// OutOfMemory means an allocation failed.
	OutOfMemory
	// OutOfRange means a container index or key was misused.
	OutOfRange
	// InvalidArgument means an operation received an unusable argument, such
	// as copying a default-constructed reference buffer.
	InvalidArgument
	// ShuttingDown means the singleton registry has been reset and is not
	// currently operational.
	ShuttingDown
)

// Error is the concrete error type returned by every cbeam component. It
// always carries a Kind and may wrap an underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cbeam: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("cbeam: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same Kind, so callers can
// write errors.Is(err, cbeamerr.New(cbeamerr.KeyMissing, "")) or, more
// conveniently, errors.Is(err, cbeamerr.Sentinel(cbeamerr.KeyMissing)).
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.Kind == e.Kind
}

// New constructs an Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given Kind that wraps cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Sentinel returns a bare Error of the given Kind, useful as the target of
// an errors.Is comparison: errors.Is(err, cbeamerr.Sentinel(cbeamerr.KeyMissing)).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }

// HasKind reports whether err is, or wraps, a *Error of the given Kind.
func HasKind(err error, kind Kind) bool {
	return errors.Is(err, Sentinel(kind))
}
