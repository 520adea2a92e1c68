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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentDataRoundTrip(t *testing.T) {
	name := uniqueName(t)
	mu, err := NewRecursiveMutex(name)
	require.NoError(t, err)
	defer mu.Close()

	seg, err := NewSegment(name, 256, mu)
	require.NoError(t, err)
	defer seg.Close()

	require.EqualValues(t, 256, seg.Capacity())

	err = seg.WithLock(func(data []byte) error {
		copy(data, []byte("hello segment"))
		return nil
	})
	require.NoError(t, err)

	err = seg.WithLock(func(data []byte) error {
		require.Equal(t, "hello segment", string(data[:len("hello segment")]))
		return nil
	})
	require.NoError(t, err)
}

func TestOpeningExistingSegmentIgnoresRequestedCapacity(t *testing.T) {
	name := uniqueName(t)
	mu1, err := NewRecursiveMutex(name)
	require.NoError(t, err)
	defer mu1.Close()

	seg1, err := NewSegment(name, 4096, mu1)
	require.NoError(t, err)
	defer seg1.Close()

	mu2, err := NewRecursiveMutex(name)
	require.NoError(t, err)
	defer mu2.Close()

	// A second opener asks for a different capacity; the creator's wins.
	seg2, err := NewSegment(name, 8, mu2)
	require.NoError(t, err)
	defer seg2.Close()

	require.EqualValues(t, 4096, seg2.Capacity())
}
