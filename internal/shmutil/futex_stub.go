//go:build !linux || !(amd64 || arm64)

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

import "errors"

// errUnsupported is returned by every platform primitive on builds where
// futex-backed named recursive mutexes have no implementation.
var errUnsupported = errors.New("shmutil: named recursive mutex unsupported on this platform")

func futexWait(addr *uint32, val uint32) error { return errUnsupported }
func futexWake(addr *uint32, n int) error      { return errUnsupported }
func ownerID() int32                           { return 0 }

type platformError struct {
	op  string
	err error
}

func (p *platformError) Error() string { return p.op + ": " + p.err.Error() }
func (p *platformError) Unwrap() error { return p.err }
