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
	"unsafe"

	"github.com/acrion/cbeam/internal/cbeamerr"
)

var segmentMagic = [8]byte{'C', 'B', 'E', 'A', 'M', 'S', 'E', 'G'}

// segmentHeader occupies the first bytes of every mapped segment file.
// The payload capacity is fixed at creation time and never changes: a
// process that opens an existing segment gets the capacity the creator
// chose, regardless of what it asked for (spec.md §4.2).
type segmentHeader struct {
	magic    [8]byte
	version  uint32
	capacity uint64
}

const segmentHeaderSize = int64(unsafe.Sizeof(segmentHeader{}))

// Segment is a named region of memory shared by every process that opens
// it under the same name. Access to Data must be serialized by the
// caller; WithLock does this via the paired RecursiveMutex supplied at
// construction.
type Segment struct {
	name string
	path string
	file *os.File
	mem  []byte
	hdr  *segmentHeader
	mu   *RecursiveMutex
}

// NewSegment creates or opens the named shared segment, pairing it with
// mu for WithLock. If the segment already exists, capacity is ignored in
// favor of the capacity recorded by its creator.
func NewSegment(name string, capacity uint64, mu *RecursiveMutex) (*Segment, error) {
	if !platformSupported {
		return nil, cbeamerr.New(cbeamerr.PlatformError, "named shared segment requires linux/amd64 or linux/arm64")
	}
	path, err := pathFor(SegmentNamespace, name)
	if err != nil {
		return nil, err
	}
	total := segmentHeaderSize + int64(capacity)
	f, created, err := createOrOpen(path, total)
	if err != nil {
		return nil, cbeamerr.Wrap(cbeamerr.PlatformError, err, "create/open segment %q", name)
	}
	mapSize := int(total)
	if !created {
		if st, statErr := f.Stat(); statErr == nil {
			mapSize = int(st.Size())
		}
	}
	if mapSize < int(segmentHeaderSize) {
		f.Close()
		return nil, cbeamerr.New(cbeamerr.PlatformError, "segment %q file is smaller than its header", name)
	}
	mem, err := mmapFile(f, mapSize)
	if err != nil {
		f.Close()
		return nil, cbeamerr.Wrap(cbeamerr.PlatformError, err, "mmap segment %q", name)
	}
	hdr := (*segmentHeader)(unsafe.Pointer(&mem[0]))
	if created {
		hdr.magic = segmentMagic
		hdr.version = 1
		hdr.capacity = capacity
	} else if hdr.magic != segmentMagic {
		munmap(mem)
		f.Close()
		return nil, cbeamerr.New(cbeamerr.PlatformError, "segment %q has invalid header", name)
	}
	return &Segment{name: name, path: path, file: f, mem: mem, hdr: hdr, mu: mu}, nil
}

// Name returns the identifier the segment was constructed with.
func (s *Segment) Name() string { return s.name }

// Capacity returns the fixed payload size in bytes, excluding the header.
func (s *Segment) Capacity() uint64 { return s.hdr.capacity }

// Data returns the payload region of the mapping. Callers must hold the
// paired mutex (directly or via WithLock) for the duration of any read or
// write, since the memory is visible to other processes.
func (s *Segment) Data() []byte { return s.mem[segmentHeaderSize:] }

// WithLock acquires the paired mutex, invokes fn with the payload region,
// and releases the mutex even if fn panics or returns an error.
func (s *Segment) WithLock(fn func(data []byte) error) error {
	if err := s.mu.Lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return fn(s.Data())
}

// Close unmaps the segment and closes its file descriptor. It does not
// close the paired mutex, whose lifetime the caller owns independently.
func (s *Segment) Close() error {
	err := munmap(s.mem)
	s.mem = nil
	if closeErr := s.file.Close(); err == nil {
		err = closeErr
	}
	return err
}
