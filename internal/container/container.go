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

// Package container implements the stable interprocess container
// (spec.md §4.4, C5): a named, fixed-capacity shared segment holding one
// serialized value of type T, mutated under its paired recursive mutex
// with a stage-then-commit discipline so a failed write never corrupts
// the previously committed image.
package container

import (
	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/acrion/cbeam/internal/shmutil"
	"github.com/acrion/cbeam/internal/wire"
)

const lengthPrefixSize = 8

// Container holds one value of type T, visible under the same name to
// every process that opens it. Capacity is fixed at creation and shared
// by every opener thereafter (spec.md §4.2).
type Container[T any] struct {
	name           string
	seg            *shmutil.Segment
	mu             *shmutil.RecursiveMutex
	codec          wire.Codec[T]
	capacityEnvVar string
}

// New creates or opens the named container. capacity is the total number
// of payload bytes available for the serialized value, including the
// 8-byte length prefix; it is ignored when opening an existing container.
// zero is written as the initial value if this call creates the segment.
func New[T any](name string, capacity uint64, codec wire.Codec[T], zero T) (*Container[T], error) {
	mu, err := shmutil.NewRecursiveMutex(name)
	if err != nil {
		return nil, err
	}
	seg, err := shmutil.NewSegment(name, capacity, mu)
	if err != nil {
		mu.Close()
		return nil, err
	}
	c := &Container[T]{name: name, seg: seg, mu: mu, codec: codec}
	err = seg.WithLock(func(data []byte) error {
		length, _, lenErr := wire.GetUint64(data[:lengthPrefixSize])
		if lenErr == nil && length > 0 {
			return nil // already initialized by an earlier opener
		}
		return c.commitLocked(data, zero)
	})
	if err != nil {
		seg.Close()
		mu.Close()
		return nil, err
	}
	return c, nil
}

// Name returns the identifier the container was constructed with.
func (c *Container[T]) Name() string { return c.name }

// SetCapacityEnvVar records the name of the environment variable that
// controls this container's capacity, so a future CapacityExceeded error
// names it (spec.md §7). Containers whose capacity is fixed by their
// caller at construction time, with no environment override, leave this
// unset.
func (c *Container[T]) SetCapacityEnvVar(name string) { c.capacityEnvVar = name }

// View decodes the current value and passes it to fn without allowing
// mutation. It holds the paired mutex for the duration of fn.
func (c *Container[T]) View(fn func(T) error) error {
	return c.seg.WithLock(func(data []byte) error {
		v, err := c.decodeLocked(data)
		if err != nil {
			return err
		}
		return fn(v)
	})
}

// Mutate decodes the current value, passes it to fn, and commits fn's
// returned value as the new image. If the new encoding does not fit in
// the container's fixed capacity, the previously committed image is left
// untouched and a CapacityExceeded error is returned.
func (c *Container[T]) Mutate(fn func(T) (T, error)) error {
	return c.seg.WithLock(func(data []byte) error {
		v, err := c.decodeLocked(data)
		if err != nil {
			return err
		}
		next, err := fn(v)
		if err != nil {
			return err
		}
		return c.commitLocked(data, next)
	})
}

func (c *Container[T]) decodeLocked(data []byte) (T, error) {
	var zero T
	length, _, err := wire.GetUint64(data[:lengthPrefixSize])
	if err != nil {
		return zero, err
	}
	body := data[lengthPrefixSize : lengthPrefixSize+length]
	v, _, err := c.codec.Decode(body)
	if err != nil {
		return zero, cbeamerr.Wrap(cbeamerr.PlatformError, err, "decode container %q", c.name)
	}
	return v, nil
}

func (c *Container[T]) commitLocked(data []byte, v T) error {
	staged := wire.NewBuffer(len(data))
	c.codec.Encode(staged, v)
	if uint64(staged.Len()) > uint64(len(data))-lengthPrefixSize {
		if c.capacityEnvVar == "" {
			return cbeamerr.New(cbeamerr.CapacityExceeded, "container %q: encoded value needs %d bytes, capacity is %d (fixed at construction, no environment override)", c.name, staged.Len(), len(data)-lengthPrefixSize)
		}
		return cbeamerr.New(cbeamerr.CapacityExceeded, "container %q: encoded value needs %d bytes, capacity is %d (tune via %s)", c.name, staged.Len(), len(data)-lengthPrefixSize, c.capacityEnvVar)
	}
	lenBuf := wire.NewBuffer(lengthPrefixSize)
	wire.PutUint64(lenBuf, uint64(staged.Len()))
	copy(data[:lengthPrefixSize], lenBuf.Data())
	copy(data[lengthPrefixSize:], staged.Data())
	return nil
}

// Close releases the OS resources backing the container.
func (c *Container[T]) Close() error {
	err := c.seg.Close()
	if muErr := c.mu.Close(); err == nil {
		err = muErr
	}
	return err
}
