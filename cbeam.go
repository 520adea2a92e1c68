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

// Package cbeam provides named recursive mutexes, named shared-memory
// segments, an interprocess map, a reference-counted buffer, a singleton
// registry, and a per-message-id asynchronous dispatcher, all coordinated
// across cooperating processes on the same host.
package cbeam

import (
	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/acrion/cbeam/internal/container"
	"github.com/acrion/cbeam/internal/dispatch"
	"github.com/acrion/cbeam/internal/registry"
	"github.com/acrion/cbeam/internal/shmutil"
	"github.com/acrion/cbeam/internal/srb"
	"github.com/acrion/cbeam/internal/wire"
)

// Kind classifies why an operation failed. See cbeamerr.Kind for the
// full list of values.
type Kind = cbeamerr.Kind

const (
	PlatformError               = cbeamerr.PlatformError
	NameTooLong                 = cbeamerr.NameTooLong
	CapacityExceeded            = cbeamerr.CapacityExceeded
	KeyMissing                  = cbeamerr.KeyMissing
	TypeConflict                = cbeamerr.TypeConflict
	CannotAppendToUnknownLength = cbeamerr.CannotAppendToUnknownLength
	OutOfMemory                 = cbeamerr.OutOfMemory
	OutOfRange                  = cbeamerr.OutOfRange
	InvalidArgument             = cbeamerr.InvalidArgument
	ShuttingDown                = cbeamerr.ShuttingDown
)

// HasKind reports whether err is, or wraps, a cbeam error of the given Kind.
func HasKind(err error, kind Kind) bool { return cbeamerr.HasKind(err, kind) }

// OnDefect installs a process-wide handler for internal invariant
// violations (double-unlock, negative refcount, worker join failure)
// that cbeam reports instead of panicking. It returns the previously
// installed handler.
func OnDefect(f func(error)) (previous func(error)) { return cbeamerr.SetDefectHandler(f) }

// Mutex is a named, process-shared, recursive lock (spec.md §4.1, C1).
type Mutex = shmutil.RecursiveMutex

// NewMutex creates or opens the named recursive mutex.
func NewMutex(name string) (*Mutex, error) { return shmutil.NewRecursiveMutex(name) }

// Segment is a named block of memory shared by every process that opens
// it (spec.md §4.2, C2).
type Segment = shmutil.Segment

// NewSegment creates or opens the named shared segment, paired with mu.
func NewSegment(name string, capacity uint64, mu *Mutex) (*Segment, error) {
	return shmutil.NewSegment(name, capacity, mu)
}

// Buffer is a growable, append-only byte buffer (spec.md §4.4, C4).
type Buffer = wire.Buffer

// NewBuffer returns an empty Buffer with capacityHint bytes preallocated.
func NewBuffer(capacityHint int) *Buffer { return wire.NewBuffer(capacityHint) }

// MapCodec pairs put/get functions for a map's keys and values, used to
// construct a Map's wire encoding.
type MapCodec[K comparable, V any] = container.MapCodec[K, V]

// Map is the stable interprocess key/value map (spec.md §4.4, C5).
type Map[K comparable, V any] = container.Map[K, V]

// NewMap creates or opens the named interprocess map with the given
// fixed capacity in bytes.
func NewMap[K comparable, V any](name string, capacity uint64, codec MapCodec[K, V]) (*Map[K, V], error) {
	return container.NewMap(name, capacity, codec)
}

// Registry is the process-local singleton registry (spec.md §4.5, C6).
type Registry = registry.Registry

// NewRegistry returns an empty, operational registry.
func NewRegistry() *Registry { return registry.New() }

// GetSingleton returns the named singleton of type T from r, constructing
// it with construct on first request.
func GetSingleton[T any](r *Registry, name string, construct func() (T, error)) (T, error) {
	return registry.Get(r, name, construct)
}

// ReferenceBuffer is a byte buffer whose identity survives copies,
// reference-counted so a raw view stays valid while any owner or delay
// scope is alive (spec.md §4.6, C7).
type ReferenceBuffer = srb.Buffer

// AllocateBuffer returns a new reference-counted buffer holding
// count*elemSize zeroed bytes.
func AllocateBuffer(count, elemSize int) (*ReferenceBuffer, error) {
	return srb.Allocate(count, elemSize)
}

// WrapForeignBuffer wraps data as a reference-counted buffer of unknown
// length; Append fails until the buffer is replaced by an allocation.
func WrapForeignBuffer(data []byte) (*ReferenceBuffer, error) { return srb.WrapForeign(data) }

// CopyBuffer returns a new handle aliasing other's storage, bumping its
// refcount.
func CopyBuffer(other *ReferenceBuffer) (*ReferenceBuffer, error) { return srb.Copy(other) }

// DelayScope extends the lifetime of reference-counted buffers allocated
// while it is open.
type DelayScope = srb.DelayScope

// NewDelayScope opens a delay scope; call Close to end it.
func NewDelayScope() *DelayScope { return srb.NewDelayScope() }

// MessageManager dispatches payloads to per-id handler pools
// (spec.md §4.8, C9).
type MessageManager = dispatch.Manager

// DrainOrder selects how a handler's queue is popped.
type DrainOrder = dispatch.DrainOrder

const (
	FIFO   = dispatch.FIFO
	LIFO   = dispatch.LIFO
	Random = dispatch.Random
)

// Direction tags which way a payload observed by a dispatch Logger is
// moving.
type Direction = dispatch.Direction

const (
	Outgoing = dispatch.Outgoing
	Incoming = dispatch.Incoming
)

// NewMessageManager returns an empty message manager.
func NewMessageManager() *MessageManager { return dispatch.NewManager() }
