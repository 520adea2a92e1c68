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

package dispatch

// DrainOrder selects how a handler's queue is popped.
//
//go:generate go tool stringer -type=DrainOrder
type DrainOrder int

const (
	// FIFO pops from the front: payloads are handled in send order.
	FIFO DrainOrder = iota
	// LIFO pops from the back.
	LIFO
	// Random pops a uniformly chosen index.
	Random
)
