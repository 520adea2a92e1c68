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

// Package shmutil provides the two leaf primitives everything else in
// cbeam is built on: a named, fixed-capacity shared-memory segment (C2)
// and a named, process-shared recursive mutex (C1) paired with it.
//
// Segments are memory-mapped files under /dev/shm (falling back to
// os.TempDir when /dev/shm is unavailable), created with O_EXCL and
// opened on EEXIST so that whichever process gets there first wins the
// capacity and everyone else attaches to it. Recursive mutexes are a tiny
// dedicated segment holding a futex word, an owner thread id, and a
// reentrancy count; on non-Linux platforms both primitives report
// platform-error.
package shmutil
