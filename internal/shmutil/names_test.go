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
	"strings"
	"testing"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/stretchr/testify/require"
)

func TestPathForRejectsEmptyName(t *testing.T) {
	_, err := pathFor(SegmentNamespace, "")
	require.True(t, cbeamerr.HasKind(err, cbeamerr.NameTooLong))
}

func TestPathForRejectsOverlongName(t *testing.T) {
	_, err := pathFor(SegmentNamespace, strings.Repeat("x", MaxNameLength+1))
	require.True(t, cbeamerr.HasKind(err, cbeamerr.NameTooLong))
}

func TestPathForAcceptsBoundaryLength(t *testing.T) {
	path, err := pathFor(MutexNamespace, strings.Repeat("y", MaxNameLength))
	require.NoError(t, err)
	require.Contains(t, path, filePrefix+MutexNamespace)
}

func TestSegmentExistsFalseForUnknownName(t *testing.T) {
	exists, err := SegmentExists("no-such-segment-name-in-this-test-run")
	require.NoError(t, err)
	require.False(t, exists)
}
