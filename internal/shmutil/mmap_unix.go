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
	"os"

	"golang.org/x/sys/unix"
)

const platformSupported = true

// createOrOpen creates the file for path with O_EXCL, falling back to a
// plain open if it already exists (spec.md §9's open-if-exists fallback).
// It reports whether it was the creator, since only the creator initializes
// the header and fixes the segment's capacity.
func createOrOpen(path string, size int64) (f *os.File, created bool, err error) {
	f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err == nil {
		if truncErr := f.Truncate(size); truncErr != nil {
			f.Close()
			os.Remove(path)
			return nil, false, truncErr
		}
		return f, true, nil
	}
	if !os.IsExist(err) {
		return nil, false, err
	}
	f, err = os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, false, err
	}
	return f, false, nil
}

func mmapFile(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func munmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
