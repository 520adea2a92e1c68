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

import (
	"testing"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/stretchr/testify/require"
)

func TestUnsupportedPlatformReportsPlatformError(t *testing.T) {
	_, err := NewRecursiveMutex("whatever")
	require.True(t, cbeamerr.HasKind(err, cbeamerr.PlatformError))
}
