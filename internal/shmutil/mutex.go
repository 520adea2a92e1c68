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

package shmutil

import (
	"os"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/acrion/cbeam/internal/cbeamerr"
)

var mutexMagic = [8]byte{'C', 'B', 'E', 'A', 'M', 'M', 'T', 'X'}

// mutexHeader is the entire contents of a recursive-mutex segment.
// futex is 0 when free and 1 when held; owner/count are only meaningful
// while futex == 1.
type mutexHeader struct {
	magic   [8]byte
	version uint32
	futex   uint32
	owner   int32
	count   uint32
}

const mutexHeaderSize = int64(unsafe.Sizeof(mutexHeader{}))

// RecursiveMutex is a process-shared, reentrant lock identified by name
// (spec.md §4.1, C1). The same OS thread may acquire it any number of
// times and must release it the same number of times.
type RecursiveMutex struct {
	name string
	path string
	file *os.File
	mem  []byte
	hdr  *mutexHeader
}

// NewRecursiveMutex creates or opens the named recursive mutex.
func NewRecursiveMutex(name string) (*RecursiveMutex, error) {
	if !platformSupported {
		return nil, cbeamerr.New(cbeamerr.PlatformError, "named recursive mutex requires linux/amd64 or linux/arm64")
	}
	path, err := pathFor(MutexNamespace, name)
	if err != nil {
		return nil, err
	}
	f, created, err := createOrOpen(path, mutexHeaderSize)
	if err != nil {
		return nil, cbeamerr.Wrap(cbeamerr.PlatformError, err, "create/open mutex segment %q", name)
	}
	mem, err := mmapFile(f, int(mutexHeaderSize))
	if err != nil {
		f.Close()
		return nil, cbeamerr.Wrap(cbeamerr.PlatformError, err, "mmap mutex segment %q", name)
	}
	hdr := (*mutexHeader)(unsafe.Pointer(&mem[0]))
	if created {
		hdr.magic = mutexMagic
		atomic.StoreUint32(&hdr.version, 1)
		atomic.StoreUint32(&hdr.futex, 0)
		atomic.StoreInt32(&hdr.owner, -1)
		atomic.StoreUint32(&hdr.count, 0)
	} else if hdr.magic != mutexMagic {
		munmap(mem)
		f.Close()
		return nil, cbeamerr.New(cbeamerr.PlatformError, "mutex segment %q has invalid header", name)
	}
	return &RecursiveMutex{name: name, path: path, file: f, mem: mem, hdr: hdr}, nil
}

// Name returns the identifier this mutex was constructed with.
func (m *RecursiveMutex) Name() string { return m.name }

// Lock acquires the mutex, blocking if another thread holds it. The owner
// token is the calling OS thread's id, so Lock pins the calling goroutine
// to its current OS thread with runtime.LockOSThread for as long as it
// holds the mutex; otherwise the Go scheduler could migrate the goroutine
// to a different OS thread mid-critical-section and let an unrelated
// goroutine that lands on the vacated thread believe it already owns the
// lock. Every successful Lock is paired with the pin lifted in the
// matching Unlock, so recursive acquisition keeps the goroutine pinned
// across the whole nesting depth.
func (m *RecursiveMutex) Lock() error {
	if !platformSupported {
		return cbeamerr.New(cbeamerr.PlatformError, "named recursive mutex unsupported on this platform")
	}
	runtime.LockOSThread()
	self := ownerID()
	for {
		if atomic.LoadInt32(&m.hdr.owner) == self && atomic.LoadUint32(&m.hdr.futex) == 1 {
			atomic.AddUint32(&m.hdr.count, 1)
			return nil
		}
		if atomic.CompareAndSwapUint32(&m.hdr.futex, 0, 1) {
			atomic.StoreInt32(&m.hdr.owner, self)
			atomic.StoreUint32(&m.hdr.count, 1)
			return nil
		}
		if err := futexWait(&m.hdr.futex, 1); err != nil {
			runtime.UnlockOSThread()
			return cbeamerr.Wrap(cbeamerr.PlatformError, err, "lock mutex %q", m.name)
		}
	}
}

// Unlock releases one level of recursion and lifts the OS-thread pin Lock
// took out. It is a defect (reported via cbeamerr.Defect, never a panic)
// to unlock from a thread that does not currently hold the mutex; that
// case leaves the pin untouched since no matching Lock succeeded here.
func (m *RecursiveMutex) Unlock() {
	self := ownerID()
	if atomic.LoadInt32(&m.hdr.owner) != self {
		cbeamerr.Defect(cbeamerr.New(cbeamerr.PlatformError, "unlock of mutex %q by non-owner", m.name))
		return
	}
	if atomic.AddUint32(&m.hdr.count, ^uint32(0)) == 0 {
		atomic.StoreInt32(&m.hdr.owner, -1)
		atomic.StoreUint32(&m.hdr.futex, 0)
		if err := futexWake(&m.hdr.futex, 1); err != nil {
			cbeamerr.Defect(cbeamerr.Wrap(cbeamerr.PlatformError, err, "wake waiters on mutex %q", m.name))
		}
	}
	runtime.UnlockOSThread()
}

// Close releases the OS resources backing the mutex. Any recursion count
// still held by the calling thread is undefined behavior per spec.md §4.1;
// callers must not rely on it.
func (m *RecursiveMutex) Close() error {
	var firstErr error
	if err := munmap(m.mem); err != nil {
		firstErr = err
	}
	m.mem = nil
	if err := m.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
