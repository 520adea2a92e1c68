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

package cbeamerr

import (
	"sync/atomic"

	"github.com/acrion/cbeam/internal/logging"
)

// onDefect is invoked for conditions spec.md marks as defects rather than
// recoverable errors: double-release, a negative reference count, a worker
// join failure. Destructors must not panic or propagate these, so they are
// routed here instead. The default implementation logs the error through
// logging.Default and continues; tests may swap it to observe that a
// defect was raised.
var onDefect atomic.Pointer[func(error)]

func logDefect(err error) { logging.Default.Errorf("cbeam: defect: %v", err) }

func init() {
	f := logDefect
	onDefect.Store(&f)
}

// SetDefectHandler replaces the process-wide defect hook and returns the
// previous one so callers (typically tests) can restore it.
func SetDefectHandler(f func(error)) (previous func(error)) {
	if f == nil {
		f = func(error) {}
	}
	old := onDefect.Swap(&f)
	return *old
}

// Defect reports a condition spec.md documents as a defect: it must never
// panic or block the caller.
func Defect(err error) {
	f := onDefect.Load()
	(*f)(err)
}
