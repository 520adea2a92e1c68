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

import "os"

const platformSupported = false

func createOrOpen(path string, size int64) (f *os.File, created bool, err error) {
	return nil, false, errUnsupported
}

func mmapFile(f *os.File, size int) ([]byte, error) { return nil, errUnsupported }

func munmap(b []byte) error { return errUnsupported }
