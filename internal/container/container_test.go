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

package container

import (
	"fmt"
	"testing"
	"time"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/acrion/cbeam/internal/wire"
	"github.com/stretchr/testify/require"
)

type int64Codec struct{}

func (int64Codec) Encode(buf *wire.Buffer, v int64) { wire.PutInt64(buf, v) }
func (int64Codec) Decode(b []byte) (int64, []byte, error) { return wire.GetInt64(b) }

func uniqueName(t *testing.T) string {
	return fmt.Sprintf("cbeamtest-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestContainerViewSeesInitialZeroValue(t *testing.T) {
	c, err := New[int64](uniqueName(t), 64, int64Codec{}, 0)
	require.NoError(t, err)
	defer c.Close()

	var got int64 = -1
	require.NoError(t, c.View(func(v int64) error {
		got = v
		return nil
	}))
	require.Zero(t, got)
}

func TestContainerMutateRoundTrips(t *testing.T) {
	c, err := New[int64](uniqueName(t), 64, int64Codec{}, 0)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Mutate(func(v int64) (int64, error) { return v + 41, nil }))
	require.NoError(t, c.Mutate(func(v int64) (int64, error) { return v + 1, nil }))

	var got int64
	require.NoError(t, c.View(func(v int64) error { got = v; return nil }))
	require.EqualValues(t, 42, got)
}

func TestCapacityExceededLeavesPriorImageIntact(t *testing.T) {
	// int64 always encodes to exactly 8 bytes except for a chosen trigger
	// value, whose encoding is inflated past the container's capacity, so
	// the initial commit succeeds and only the later Mutate overflows.
	padded := paddingCodec{extra: 100, trigger: 8}
	c, err := New[int64](uniqueName(t), lengthPrefixSize+8, padded, 7)
	require.NoError(t, err)
	defer c.Close()

	err = c.Mutate(func(v int64) (int64, error) { return v + 1, nil })
	require.Error(t, err)
	require.True(t, cbeamerr.HasKind(err, cbeamerr.CapacityExceeded))

	var got int64
	require.NoError(t, c.View(func(v int64) error { got = v; return nil }))
	require.EqualValues(t, 7, got, "a failed commit must not corrupt the previously committed image")
}

// paddingCodec inflates its encoding for one chosen value, to force
// capacity-exceeded on demand in tests.
type paddingCodec struct {
	int64Codec
	extra   int
	trigger int64
}

func (p paddingCodec) Encode(buf *wire.Buffer, v int64) {
	p.int64Codec.Encode(buf, v)
	if v == p.trigger {
		buf.Append(make([]byte, p.extra))
	}
}
