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

package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/stretchr/testify/require"
)

type widget struct{ id int64 }

type closeableWidget struct {
	id     int64
	closed int64
}

func (w *closeableWidget) Close() error {
	atomic.AddInt64(&w.closed, 1)
	return nil
}

func TestGetConstructsOnce(t *testing.T) {
	r := New()
	var calls int64

	construct := func() (*widget, error) {
		n := atomic.AddInt64(&calls, 1)
		return &widget{id: n}, nil
	}

	v1, err := Get(r, "the-widget", construct)
	require.NoError(t, err)
	v2, err := Get(r, "the-widget", construct)
	require.NoError(t, err)

	require.Same(t, v1, v2)
	require.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestConcurrentFirstGetCollapsesConstruction(t *testing.T) {
	r := New()
	var calls int64
	const n = 64

	var wg sync.WaitGroup
	results := make([]*widget, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Get(r, "shared", func() (*widget, error) {
				atomic.AddInt64(&calls, 1)
				return &widget{id: 1}, nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt64(&calls))
	for _, v := range results {
		require.Same(t, results[0], v)
	}
}

func TestTypeConflictLeavesRegistryUnchanged(t *testing.T) {
	r := New()
	_, err := Get(r, "typed", func() (*widget, error) { return &widget{id: 1}, nil })
	require.NoError(t, err)

	_, err = Get(r, "typed", func() (int, error) { return 42, nil })
	require.True(t, cbeamerr.HasKind(err, cbeamerr.TypeConflict))

	// The original entry must still be reachable with its original type.
	v, err := Get(r, "typed", func() (*widget, error) { return &widget{id: 999}, nil })
	require.NoError(t, err)
	require.EqualValues(t, 1, v.id)
}

func TestResetAllClearsEntriesAndStopsConstruction(t *testing.T) {
	r := New()
	var calls int64
	construct := func() (*widget, error) {
		atomic.AddInt64(&calls, 1)
		return &widget{id: 1}, nil
	}
	_, err := Get(r, "gone-after-reset", construct)
	require.NoError(t, err)

	r.ResetAll()

	_, err = Get(r, "gone-after-reset", construct)
	require.True(t, cbeamerr.HasKind(err, cbeamerr.ShuttingDown))
	require.EqualValues(t, 1, atomic.LoadInt64(&calls), "construct must not run again while the registry is non-operational")

	r.SetOperational(true)
	v, err := Get(r, "gone-after-reset", construct)
	require.NoError(t, err)
	require.EqualValues(t, 2, atomic.LoadInt64(&calls))
	require.EqualValues(t, 1, v.id)
}

func TestResetAllClosesEntriesImplementingCloser(t *testing.T) {
	r := New()
	w, err := Get(r, "closeable", func() (*closeableWidget, error) { return &closeableWidget{id: 1}, nil })
	require.NoError(t, err)

	r.ResetAll()

	require.EqualValues(t, 1, atomic.LoadInt64(&w.closed))
}

func TestSetOperationalFalseBlocksNewConstructionOnly(t *testing.T) {
	r := New()
	_, err := Get(r, "existing", func() (*widget, error) { return &widget{id: 1}, nil })
	require.NoError(t, err)

	r.SetOperational(false)

	// Existing entries remain readable.
	v, err := Get(r, "existing", func() (*widget, error) { return &widget{id: 2}, nil })
	require.NoError(t, err)
	require.EqualValues(t, 1, v.id)

	// A brand new name cannot be constructed while non-operational.
	_, err = Get(r, "new-name", func() (*widget, error) { return &widget{id: 3}, nil })
	require.True(t, cbeamerr.HasKind(err, cbeamerr.ShuttingDown))

	r.SetOperational(true)
	v2, err := Get(r, "new-name", func() (*widget, error) { return &widget{id: 3}, nil })
	require.NoError(t, err)
	require.EqualValues(t, 3, v2.id)
}
