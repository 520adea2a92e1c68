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
	"path/filepath"

	"github.com/acrion/cbeam/internal/cbeamerr"
)

const (
	// SegmentNamespace prefixes the file name of a data segment (C2).
	SegmentNamespace = "s_"
	// MutexNamespace prefixes the file name of a recursive-mutex segment (C1).
	MutexNamespace = "m_"

	// MaxNameLength is the longest identifier accepted, chosen conservatively
	// below Linux's NAME_MAX (255) once the "cbeam_" + namespace prefix and
	// directory are accounted for.
	MaxNameLength = 200

	filePrefix = "cbeam_"
)

// pathFor derives the on-disk path for a namespaced identifier, validating
// its length against the platform limit first.
func pathFor(namespace, name string) (string, error) {
	if len(name) == 0 {
		return "", cbeamerr.New(cbeamerr.NameTooLong, "identifier must not be empty")
	}
	if len(name) > MaxNameLength {
		return "", cbeamerr.New(cbeamerr.NameTooLong, "identifier %q exceeds %d bytes", name, MaxNameLength)
	}
	fname := filePrefix + namespace + name
	return filepath.Join(shmDir(), fname), nil
}

// shmDir returns /dev/shm when it exists and is a directory, else os.TempDir.
func shmDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// SegmentExists reports whether a named segment has already been created
// by some process, without creating or opening it.
func SegmentExists(name string) (bool, error) {
	path, err := pathFor(SegmentNamespace, name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
