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

// Package dispatch implements the message manager (spec.md §4.8, C9):
// per-message-id queues drained by one or more worker (C8) threads, with
// bounded-queue backpressure, pluggable drain order, and a quiescence
// signal for callers that need to know a queue has fully drained.
package dispatch

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/acrion/cbeam/internal/worker"
)

// Direction tags which way a payload observed by a Logger is moving.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

// Logger observes every payload sent or handled for id.
type Logger func(id string, payload any, direction Direction)

// ExceptionHandler receives a panic recovered from a handler's on_message.
type ExceptionHandler func(payload any, recovered error)

type queue struct {
	id string

	mu        sync.Mutex
	notFull   *sync.Cond
	empty     *sync.Cond
	items     []any
	maxQueued int
	busy      int32
	handlers  []*worker.Worker[any]

	loggerMu sync.Mutex
	logger   Logger
}

func newQueue(id string) *queue {
	q := &queue{id: id}
	q.notFull = sync.NewCond(&q.mu)
	q.empty = sync.NewCond(&q.mu)
	return q
}

func (q *queue) currentLogger() Logger {
	q.loggerMu.Lock()
	defer q.loggerMu.Unlock()
	return q.logger
}

// Manager owns every per-id queue and its handlers.
type Manager struct {
	mu     sync.Mutex
	queues map[string]*queue
}

// NewManager returns an empty message manager.
func NewManager() *Manager {
	return &Manager{queues: make(map[string]*queue)}
}

func (m *Manager) queueFor(id string) *queue {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[id]
	if !ok {
		q = newQueue(id)
		m.queues[id] = q
	}
	return q
}

// SendMessage enqueues payload for id, blocking while the queue already
// holds maxQueued items (maxQueued<=0 means unbounded).
func (m *Manager) SendMessage(id string, payload any, maxQueued int) {
	q := m.queueFor(id)
	q.mu.Lock()
	q.maxQueued = maxQueued
	for maxQueued > 0 && len(q.items) >= maxQueued {
		q.notFull.Wait()
	}
	q.items = append(q.items, payload)
	q.mu.Unlock()
	q.notFull.Broadcast() // workers and blocked producers share this condvar; wake them all so a parked worker is never missed
	q.empty.Broadcast()
	if logger := q.currentLogger(); logger != nil {
		logger(id, payload, Outgoing)
	}
}

// AddHandler spawns a worker that drains id's queue in the given order,
// calling onMessage for every payload. A recovered panic from onMessage
// is routed to onException if set, otherwise reported as a defect.
func (m *Manager) AddHandler(id string, order DrainOrder, onMessage func(any), onException ExceptionHandler, onExit func()) {
	q := m.queueFor(id)
	h := &dispatchHandler{q: q, order: order, onMessage: onMessage, onException: onException, onExit: onExit}
	w := worker.Start[any](&q.mu, q.notFull, h)
	q.mu.Lock()
	q.handlers = append(q.handlers, w)
	q.mu.Unlock()
}

// WaitUntilEmpty blocks until id's queue holds no items and no handler is
// currently processing one. It returns immediately if id has no queue.
func (m *Manager) WaitUntilEmpty(id string) {
	m.mu.Lock()
	q, ok := m.queues[id]
	m.mu.Unlock()
	if !ok {
		return
	}
	q.mu.Lock()
	for len(q.items) != 0 || atomic.LoadInt32(&q.busy) != 0 {
		q.empty.Wait()
	}
	q.mu.Unlock()
}

// Dispose stops and joins every handler on id. The queue itself and any
// items still in it are left in place, matching spec.md's minimum
// requirement; a later AddHandler or SendMessage may reuse it.
func (m *Manager) Dispose(id string) {
	m.mu.Lock()
	q, ok := m.queues[id]
	m.mu.Unlock()
	if !ok {
		return
	}
	q.mu.Lock()
	handlers := q.handlers
	q.handlers = nil
	q.mu.Unlock()
	for _, w := range handlers {
		w.Stop()
	}
}

// SetLogger installs logger as the observer for id's traffic, replacing
// any previous one. A nil logger disables logging for id.
func (m *Manager) SetLogger(id string, logger Logger) {
	q := m.queueFor(id)
	q.loggerMu.Lock()
	q.logger = logger
	q.loggerMu.Unlock()
}

type dispatchHandler struct {
	q           *queue
	order       DrainOrder
	onMessage   func(any)
	onException ExceptionHandler
	onExit      func()
}

func (h *dispatchHandler) OnStart() {}

func (h *dispatchHandler) IsMessageAvailable() bool { return len(h.q.items) > 0 }

// GetMessage pops the next payload per h.order. It is called by the
// worker loop with q.mu held.
func (h *dispatchHandler) GetMessage() any {
	items := h.q.items
	var idx int
	switch h.order {
	case LIFO:
		idx = len(items) - 1
	case Random:
		idx = rand.IntN(len(items))
	default: // FIFO
		idx = 0
	}
	msg := items[idx]
	h.q.items = append(items[:idx], items[idx+1:]...)
	atomic.AddInt32(&h.q.busy, 1)
	h.q.notFull.Signal()
	return msg
}

func (h *dispatchHandler) OnMessage(msg any) {
	if logger := h.q.currentLogger(); logger != nil {
		logger(h.q.id, msg, Incoming)
	}
	h.invoke(msg)
	atomic.AddInt32(&h.q.busy, -1)
	h.q.mu.Lock()
	drained := len(h.q.items) == 0 && atomic.LoadInt32(&h.q.busy) == 0
	h.q.mu.Unlock()
	if drained {
		h.q.empty.Broadcast()
	}
}

func (h *dispatchHandler) invoke(msg any) {
	defer func() {
		if r := recover(); r != nil {
			if h.onException != nil {
				h.onException(msg, fmt.Errorf("%v", r))
			} else {
				cbeamerr.Defect(cbeamerr.New(cbeamerr.PlatformError, "dispatch: unhandled panic in handler for %q: %v", h.q.id, r))
			}
		}
	}()
	h.onMessage(msg)
}

func (h *dispatchHandler) OnExit() {
	if h.onExit != nil {
		h.onExit()
	}
}
