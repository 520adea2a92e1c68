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

// Package srb implements the reference-counted stable buffer (spec.md
// §4.6, C7): a byte buffer whose identity survives copies, backed by a
// process-local refcount map so that a raw pointer obtained from one
// owner stays valid as long as any owner (or delay scope) is alive.
package srb

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"unsafe"

	"github.com/acrion/cbeam/internal/cbeamerr"
	"github.com/acrion/cbeam/internal/container"
	"github.com/acrion/cbeam/internal/logging"
	"github.com/acrion/cbeam/internal/registry"
	"github.com/acrion/cbeam/internal/wire"
)

const (
	defaultMapBytes = 64 * 1024
	minMapBytes     = 1024
	envMapBytes     = "CBEAM_SRB_MAP_BYTES"
)

var (
	scopeMu      sync.Mutex
	activeScopes []*DelayScope
)

// initialCount is the refcount a freshly allocated address starts with:
// 1, plus 1 per active delay scope (spec.md §4.6).
func initialCount() int64 {
	scopeMu.Lock()
	n := len(activeScopes)
	scopeMu.Unlock()
	return int64(1 + n)
}

// newBlockCount returns the initial refcount for a block created right
// now, together with the exact set of scopes that contributed to it, so
// the caller can later register the new address with precisely those
// scopes regardless of any scope opening or closing concurrently.
func newBlockCount() (int64, []*DelayScope) {
	scopeMu.Lock()
	scopes := append([]*DelayScope(nil), activeScopes...)
	scopeMu.Unlock()
	return int64(1 + len(scopes)), scopes
}

// trackFreshAddr records that addr was newly created while every scope in
// scopes was open, so each of them owes it one decrement on Close.
func trackFreshAddr(addr uint64, scopes []*DelayScope) {
	if len(scopes) == 0 {
		return
	}
	scopeMu.Lock()
	for _, s := range scopes {
		s.addrs[addr] = struct{}{}
	}
	scopeMu.Unlock()
}

// DelayScope extends the lifetime of every buffer allocated while it is
// open: new allocations start with a refcount that accounts for it, so a
// raw pointer handed out via SafeGet remains valid until the scope ends
// even if every Buffer owner has since been reset. On Close, every address
// created during the scope is decremented once and freed if it reaches
// zero, undoing exactly the extra reference this scope granted it.
type DelayScope struct {
	closed bool
	addrs  map[uint64]struct{}
}

// NewDelayScope opens a delay scope. Scopes nest: a block created while N
// scopes are open owes one decrement to each of them.
func NewDelayScope() *DelayScope {
	s := &DelayScope{addrs: make(map[uint64]struct{})}
	scopeMu.Lock()
	activeScopes = append(activeScopes, s)
	scopeMu.Unlock()
	return s
}

// Close ends the delay scope. It is a defect to call Close more than once.
func (d *DelayScope) Close() {
	scopeMu.Lock()
	if d.closed {
		scopeMu.Unlock()
		cbeamerr.Defect(cbeamerr.New(cbeamerr.InvalidArgument, "srb: delay scope closed twice"))
		return
	}
	d.closed = true
	for i, s := range activeScopes {
		if s == d {
			activeScopes = append(activeScopes[:i], activeScopes[i+1:]...)
			break
		}
	}
	addrs := d.addrs
	scopeMu.Unlock()

	if len(addrs) == 0 {
		return
	}
	rc, err := sharedRCMap()
	if err != nil {
		cbeamerr.Defect(cbeamerr.Wrap(cbeamerr.PlatformError, err, "srb: delay scope close could not reach the refcount map"))
		return
	}
	for addr := range addrs {
		if err := rc.Update(addr, func(n int64) int64 { return n - 1 }); err != nil {
			if !cbeamerr.HasKind(err, cbeamerr.KeyMissing) {
				cbeamerr.Defect(cbeamerr.Wrap(cbeamerr.PlatformError, err, "srb: delay scope close failed to release %d", addr))
			}
			continue
		}
		if n, err := rc.At(addr); err == nil && n <= 0 {
			rc.Erase(addr)
		}
	}
}

func rcMapCapacity() uint64 {
	if raw := os.Getenv(envMapBytes); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil && n >= minMapBytes {
			return n
		}
	}
	return defaultMapBytes
}

func rcMapName() string {
	return fmt.Sprintf("%d.srb", os.Getpid())
}

func rcMapCodec() container.MapCodec[uint64, int64] {
	return container.MapCodec[uint64, int64]{
		PutKey: wire.PutUint64,
		GetKey: wire.GetUint64,
		PutVal: wire.PutInt64,
		GetVal: wire.GetInt64,
	}
}

func sharedRCMap() (*container.Map[uint64, int64], error) {
	return registry.Get(registry.Default, rcMapName(), func() (*container.Map[uint64, int64], error) {
		m, err := container.NewMap(rcMapName(), rcMapCapacity(), rcMapCodec())
		if err != nil {
			return nil, err
		}
		m.SetCapacityEnvVar(envMapBytes)
		return m, nil
	})
}

func addrOf(b []byte) uint64 {
	if len(b) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&b[0])))
}

// Buffer is a byte buffer with reference-counted, address-stable identity.
// The zero value is a valid empty buffer.
type Buffer struct {
	rc   *container.Map[uint64, int64]
	base []byte
	size int
}

func (b *Buffer) rcMap() (*container.Map[uint64, int64], error) {
	if b.rc == nil {
		rc, err := sharedRCMap()
		if err != nil {
			return nil, err
		}
		b.rc = rc
	}
	return b.rc, nil
}

// Allocate returns a new buffer holding count*elemSize zeroed bytes.
func Allocate(count, elemSize int) (*Buffer, error) {
	b := &Buffer{}
	rc, err := b.rcMap()
	if err != nil {
		return nil, err
	}
	n := count * elemSize
	if n < 0 {
		return nil, cbeamerr.New(cbeamerr.InvalidArgument, "srb: negative allocation size")
	}
	b.base = make([]byte, n)
	b.size = n
	if n > 0 {
		addr := addrOf(b.base)
		count, scopes := newBlockCount()
		if err := rc.Insert(addr, count); err != nil {
			return nil, err
		}
		trackFreshAddr(addr, scopes)
	}
	return b, nil
}

// WrapForeign wraps data without recording a length: the caller is
// asserting this buffer did not originate from Allocate/Append, so its
// true extent is not tracked. Append on a wrapped buffer fails with
// CannotAppendToUnknownLength until a fresh allocation replaces it.
//
// The wrapped address is registered in the refcount map like any other
// owned address: an existing entry (a second wrap of the same address) is
// incremented, and a first-time wrap is inserted with the current initial
// count, so UseCount/SafeGet/IsKnown see this handle as a real owner.
func WrapForeign(data []byte) (*Buffer, error) {
	b := &Buffer{base: data, size: 0}
	rc, err := b.rcMap()
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		addr := addrOf(data)
		if err := rc.Update(addr, func(n int64) int64 { return n + 1 }); err != nil {
			if !cbeamerr.HasKind(err, cbeamerr.KeyMissing) {
				return nil, err
			}
			if err := rc.Insert(addr, initialCount()); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Copy returns a new Buffer aliasing other's storage and bumping its
// refcount, mirroring copy-construction of a reference-counted handle.
func Copy(other *Buffer) (*Buffer, error) {
	rc, err := other.rcMap()
	if err != nil {
		return nil, err
	}
	b := &Buffer{rc: rc, base: other.base, size: other.size}
	if other.base != nil {
		addr := addrOf(other.base)
		if err := rc.Update(addr, func(n int64) int64 { return n + 1 }); err != nil {
			if cbeamerr.HasKind(err, cbeamerr.KeyMissing) {
				if err := rc.Insert(addr, initialCount()+1); err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
	}
	return b, nil
}

// Reset decrements the refcount for the current storage, freeing the
// bookkeeping entry (not the Go memory itself, which the garbage
// collector reclaims once nothing references it) when it reaches zero,
// and leaves the buffer empty.
func (b *Buffer) Reset() error {
	if b.base == nil {
		return nil
	}
	rc, err := b.rcMap()
	if err != nil {
		return err
	}
	addr := addrOf(b.base)
	err = rc.Update(addr, func(n int64) int64 { return n - 1 })
	if err != nil && !cbeamerr.HasKind(err, cbeamerr.KeyMissing) {
		return err
	}
	if n, atErr := rc.At(addr); atErr == nil && n <= 0 {
		if n < 0 {
			cbeamerr.Defect(cbeamerr.New(cbeamerr.InvalidArgument, "srb: negative refcount %d for %d", n, addr))
		}
		rc.Erase(addr)
	}
	b.base = nil
	b.size = 0
	return nil
}

// Append implements spec.md §4.6's copy-on-write append: a shared buffer
// (refcount > 1) is never mutated in place, only a private one.
func (b *Buffer) Append(added []byte) error {
	if len(added) == 0 {
		return nil
	}
	rc, err := b.rcMap()
	if err != nil {
		return err
	}
	if b.size == 0 && b.base != nil {
		return cbeamerr.New(cbeamerr.CannotAppendToUnknownLength, "srb: append to buffer of unknown length")
	}
	count, scopes := newBlockCount()
	var newBase []byte
	var newSize int
	var freshAddr uint64
	var fresh bool
	err = rc.Transact(func(cur map[uint64]int64) (map[uint64]int64, error) {
		baseAddr := addrOf(b.base)
		if b.base != nil && cur[baseAddr] > 1 {
			newSize = b.size + len(added)
			nb := make([]byte, newSize)
			copy(nb, b.base[:b.size])
			copy(nb[b.size:], added)
			remaining := cur[baseAddr] - 1
			if remaining == 0 {
				delete(cur, baseAddr)
			} else {
				cur[baseAddr] = remaining
			}
			newBase = nb
			freshAddr, fresh = addrOf(nb), true
			cur[freshAddr] = count
			return cur, nil
		}
		oldAddr := baseAddr
		var oldCount int64
		hadOld := b.base != nil
		if hadOld {
			if c, ok := cur[oldAddr]; ok {
				oldCount = c
			} else {
				oldCount = initialCount()
			}
		}
		newSize = b.size + len(added)
		nb := make([]byte, newSize)
		copy(nb, b.base[:b.size])
		copy(nb[b.size:], added)
		newBase = nb
		newAddr := addrOf(nb)
		if newAddr != oldAddr {
			if hadOld {
				cur[newAddr] = oldCount
				delete(cur, oldAddr)
			} else {
				freshAddr, fresh = newAddr, true
				cur[freshAddr] = count
			}
		}
		return cur, nil
	})
	if err != nil {
		return err
	}
	if fresh {
		trackFreshAddr(freshAddr, scopes)
	}
	b.base = newBase
	b.size = newSize
	return nil
}

// Get returns the buffer's current contents without any safety check.
func (b *Buffer) Get() []byte {
	if b.base == nil {
		return nil
	}
	if b.size == 0 {
		return b.base
	}
	return b.base[:b.size]
}

// SafeGet returns the buffer's contents, or (nil, false) if the refcount
// is at most 1, since handing out a raw view of a soon-to-be-freed buffer
// without an outer delay scope is unsafe.
func (b *Buffer) SafeGet() ([]byte, bool) {
	n, err := b.UseCount()
	if err != nil || n <= 1 {
		logging.Default.Errorf("srb: refusing safe_get on buffer with use_count=%d", n)
		return nil, false
	}
	return b.Get(), true
}

// UseCount returns the current refcount for the buffer's storage, or 0
// for an empty buffer.
func (b *Buffer) UseCount() (int64, error) {
	if b.base == nil {
		return 0, nil
	}
	rc, err := b.rcMap()
	if err != nil {
		return 0, err
	}
	return rc.AtOrDefault(addrOf(b.base), initialCount())
}

// IsKnown reports whether addr is currently tracked by the reference
// counter of any buffer in this process.
func IsKnown(addr uintptr) (bool, error) {
	rc, err := sharedRCMap()
	if err != nil {
		return false, err
	}
	n, err := rc.Count(uint64(addr))
	return n > 0, err
}

// Swap exchanges the storage of b and other.
func (b *Buffer) Swap(other *Buffer) {
	b.base, other.base = other.base, b.base
	b.size, other.size = other.size, b.size
}

// Size returns the buffer's logical length, or 0 for an empty buffer or
// one wrapping a foreign address of unknown length.
func (b *Buffer) Size() int { return b.size }
