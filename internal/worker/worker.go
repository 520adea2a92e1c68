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

// Package worker implements the threaded worker base (spec.md §4.7, C8):
// one dedicated goroutine per instance, parked on a condition variable
// shared with its queue so producers and the "queue empty" signal are
// coordinated without polling.
package worker

import (
	"sync"

	"github.com/acrion/cbeam/internal/cbeamerr"
)

// Handler supplies the polymorphic lifecycle hooks the worker loop calls.
// If OnMessage panics, the worker recovers it and routes it to OnPanic
// when the Handler also implements PanicHandler, or reports it through
// cbeamerr.Defect otherwise, so one bad message never kills the loop.
type Handler[T any] interface {
	OnStart()
	IsMessageAvailable() bool
	GetMessage() T
	OnMessage(T)
	OnExit()
}

// PanicHandler, if implemented by a Handler, receives recovered panics
// from OnMessage instead of letting them terminate the worker.
type PanicHandler interface {
	OnPanic(recovered any)
}

// Worker runs h's loop on a dedicated goroutine, synchronized on mu/cond,
// which the caller shares with whatever produces the messages h consumes.
type Worker[T any] struct {
	mu      *sync.Mutex
	cond    *sync.Cond
	running bool
	done    chan struct{}
}

// Start launches the worker loop and returns immediately. mu and cond
// must be the same lock/condvar the message producer uses, so that a
// Signal/Broadcast after enqueuing is visible here without a race.
func Start[T any](mu *sync.Mutex, cond *sync.Cond, h Handler[T]) *Worker[T] {
	w := &Worker[T]{mu: mu, cond: cond, running: true, done: make(chan struct{})}
	go w.loop(h)
	return w
}

func (w *Worker[T]) loop(h Handler[T]) {
	defer close(w.done)
	h.OnStart()
	for {
		w.mu.Lock()
		for !h.IsMessageAvailable() && w.running {
			w.cond.Wait()
		}
		if !w.running {
			w.mu.Unlock()
			break
		}
		msg := h.GetMessage()
		w.mu.Unlock()

		w.dispatch(h, msg)
	}
	h.OnExit()
}

func (w *Worker[T]) dispatch(h Handler[T], msg T) {
	defer func() {
		if r := recover(); r != nil {
			if ph, ok := h.(PanicHandler); ok {
				ph.OnPanic(r)
			} else {
				cbeamerr.Defect(cbeamerr.New(cbeamerr.PlatformError, "worker: unhandled panic in OnMessage: %v", r))
			}
		}
	}()
	h.OnMessage(msg)
}

// Stop flips running, wakes the worker if it is parked, and blocks until
// its goroutine has returned. Calling Stop more than once is a no-op.
func (w *Worker[T]) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cond.Broadcast()
	w.mu.Unlock()
	<-w.done
}
