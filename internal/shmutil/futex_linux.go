//go:build linux && (amd64 || arm64)

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
	"sync/atomic"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// The futex word lives in a MAP_SHARED file mapping that other mappings
// and processes wait on too, so the ops omit FUTEX_PRIVATE_FLAG.
const (
	futexOpWait = 0 // FUTEX_WAIT
	futexOpWake = 1 // FUTEX_WAKE
)

// futexWait blocks while *addr == val. It re-checks the value immediately
// before entering the syscall to avoid the lost-wake race, and treats
// EAGAIN/EINTR as ordinary early returns: the caller must always re-check
// its condition after this returns, since wakeups may be spurious.
func futexWait(addr *uint32, val uint32) error {
	if atomic.LoadUint32(addr) != val {
		return nil
	}
	_, _, errno := syscall.RawSyscall6(
		syscall.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexOpWait,
		uintptr(val),
		0, 0, 0,
	)
	if errno != 0 && errno != syscall.EAGAIN && errno != syscall.EINTR {
		return &platformError{op: "futex_wait", err: errno}
	}
	return nil
}

// futexWake wakes up to n waiters blocked on addr.
func futexWake(addr *uint32, n int) error {
	_, _, errno := syscall.RawSyscall6(
		syscall.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexOpWake,
		uintptr(n),
		0, 0, 0,
	)
	if errno != 0 {
		return &platformError{op: "futex_wake", err: errno}
	}
	return nil
}

// ownerID returns an identifier stable for "the same thread" per spec.md
// §4.1: the kernel thread id of the calling OS thread. Callers that need
// this to be meaningful across recursive Lock calls must have pinned the
// goroutine to its OS thread with runtime.LockOSThread, exactly as any
// native recursive-mutex binding requires.
func ownerID() int32 {
	return int32(unix.Gettid())
}

type platformError struct {
	op  string
	err error
}

func (p *platformError) Error() string { return p.op + ": " + p.err.Error() }
func (p *platformError) Unwrap() error { return p.err }
