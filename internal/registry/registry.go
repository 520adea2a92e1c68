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

// Package registry implements the process-local singleton registry
// (spec.md §4.5, C6): name-keyed, type-tagged lazy construction with a
// collective reset for coordinated shutdown.
package registry

import (
	"io"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	typ reflect.Type
	val any
}

// Registry maps names to lazily-constructed singleton values. Concurrent
// first-time construction requests for the same name are collapsed into
// a single call to the supplied constructor.
type Registry struct {
	mu          sync.RWMutex
	entries     map[string]entry
	group       singleflight.Group
	operational atomic.Bool
}

// New returns an operational, empty registry.
func New() *Registry {
	r := &Registry{entries: make(map[string]entry)}
	r.operational.Store(true)
	return r
}

// Default is the process-wide registry used by the package-level
// constructors in the root cbeam package.
var Default = New()

// Get returns the named singleton of type T, constructing it with
// construct if this is the first request for name. If name is already
// registered with a different type, TypeConflict is returned. If name is
// not registered and the registry is non-operational (after ResetAll or
// SetOperational(false)), ShuttingDown is returned without calling
// construct; an existing entry is still returned.
func Get[T any](r *Registry, name string, construct func() (T, error)) (T, error) {
	var zero T
	wantType := reflect.TypeOf(zero)

	r.mu.RLock()
	if e, ok := r.entries[name]; ok {
		r.mu.RUnlock()
		if e.typ != wantType {
			return zero, cbeamerr.New(cbeamerr.TypeConflict, "registry entry %q already holds a %s, not %s", name, e.typ, wantType)
		}
		return e.val.(T), nil
	}
	r.mu.RUnlock()

	if !r.operational.Load() {
		return zero, cbeamerr.New(cbeamerr.ShuttingDown, "registry is not operational")
	}

	result, err, _ := r.group.Do(name, func() (any, error) {
		r.mu.RLock()
		if e, ok := r.entries[name]; ok {
			r.mu.RUnlock()
			return e, nil
		}
		r.mu.RUnlock()

		if !r.operational.Load() {
			return nil, cbeamerr.New(cbeamerr.ShuttingDown, "registry is not operational")
		}
		v, cErr := construct()
		if cErr != nil {
			return nil, cErr
		}
		e := entry{typ: wantType, val: v}
		r.mu.Lock()
		r.entries[name] = e
		r.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return zero, err
	}
	e := result.(entry)
	if e.typ != wantType {
		return zero, cbeamerr.New(cbeamerr.TypeConflict, "registry entry %q already holds a %s, not %s", name, e.typ, wantType)
	}
	return e.val.(T), nil
}

// Release removes name from the registry, if present. The caller is
// responsible for closing any resources owned by the removed value.
func (r *Registry) Release(name string) {
	r.mu.Lock()
	delete(r.entries, name)
	r.mu.Unlock()
}

// ResetAll destroys every registered instance and marks the registry
// non-operational (spec.md's collective reset, P10/S6): Get refuses to
// construct anything new until a subsequent SetOperational(true). Any
// entry whose value implements io.Closer has Close called on it; a
// non-nil Close error is reported through cbeamerr.Defect rather than
// aborting the reset, so one misbehaving entry cannot block the others
// from being torn down.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]entry)
	r.mu.Unlock()
	r.operational.Store(false)

	for name, e := range entries {
		closer, ok := e.val.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			cbeamerr.Defect(cbeamerr.Wrap(cbeamerr.PlatformError, err, "registry: close entry %q during reset_all", name))
		}
	}
}

// SetOperational marks the registry as accepting (true) or refusing
// (false) new singleton construction. Existing entries remain readable
// with Get as long as their type matches; only fresh construction is
// blocked while non-operational.
func (r *Registry) SetOperational(op bool) {
	r.operational.Store(op)
}
