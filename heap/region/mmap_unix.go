// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mmap is a Provider backed by a single anonymous mmap'd mapping. It
// exists alongside Memory to exercise growth over real OS-backed pages
// rather than Go-managed memory, mirroring how other allocator code in
// the wild (buddy allocators, arena allocators) sources its region.
//
// Because a plain anonymous mapping cannot be extended in place
// portably across unix flavors without relying on Linux-only mremap,
// Mmap grows by mapping a new, larger region, copying the old content
// forward, and unmapping the old one. Growth is the uncommon path
// (spec.md §4.7 step 5 only runs on a find_fit miss) so this cost is
// acceptable; steady-state reads/writes touch the current mapping
// directly.
type Mmap struct {
	data []byte // len(data) == size; cap may exceed it is irrelevant, we always realloc on grow
	size int64
}

var _ Provider = (*Mmap)(nil)

// NewMmap returns an empty Mmap-backed Provider.
func NewMmap() *Mmap {
	return &Mmap{}
}

func (m *Mmap) Low() int64  { return 0 }
func (m *Mmap) High() int64 { return m.size }

func (m *Mmap) Grow(n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("region: invalid grow amount %d", n)
	}

	newSize := m.size + n
	newData, err := unix.Mmap(-1, 0, int(newSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOOM, err)
	}

	base := m.size
	if m.data != nil {
		copy(newData, m.data)
		_ = unix.Munmap(m.data)
	}
	m.data = newData
	m.size = newSize
	return base, nil
}

func (m *Mmap) ReadAt(p []byte, off int64) {
	m.checkRange(off, int64(len(p)))
	copy(p, m.data[off:])
}

func (m *Mmap) WriteAt(p []byte, off int64) {
	m.checkRange(off, int64(len(p)))
	copy(m.data[off:], p)
}

func (m *Mmap) checkRange(off, n int64) {
	if off < 0 || n < 0 || off+n > m.size {
		panic(fmt.Sprintf("region: access [%d, %d) out of range [0, %d)", off, off+n, m.size))
	}
}

// Close releases the backing mapping. Not part of Provider: the
// allocator's resource lifetime (spec.md §5) is the process itself and
// never calls it; it exists for callers (tests, cmd/allocbench) that
// want to release the mapping early.
func (m *Mmap) Close() error {
	if m.data == nil {
		return nil
	}

	err := unix.Munmap(m.data)
	m.data, m.size = nil, 0
	return err
}
