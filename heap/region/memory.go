// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "fmt"

// pgBits/pgSize/pgMask mirror lldb.MemFiler's page size choice: large
// enough to amortize the map lookup, small enough that a sparsely used
// region doesn't commit much backing storage.
const (
	pgBits = 12
	pgSize = 1 << pgBits
	pgMask = pgSize - 1
)

type page = [pgSize]byte

// Memory is a Provider backed by Go memory, organized as a sparse page
// table. It never fails to grow unless a MaxSize limit is configured,
// which exists only so tests can exercise the out-of-memory path
// (spec.md §8.2 calls for it indirectly via P1-P8, and a pure Go map
// otherwise "never" runs out before the process does).
type Memory struct {
	pages   map[int64]*page
	size    int64
	maxSize int64 // 0 means unlimited
}

var _ Provider = (*Memory)(nil)

// NewMemory returns a Provider with no configured size limit.
func NewMemory() *Memory {
	return &Memory{pages: map[int64]*page{}}
}

// NewMemoryLimited returns a Provider that refuses to grow past maxSize
// bytes, for deterministically exercising out-of-memory handling in
// tests.
func NewMemoryLimited(maxSize int64) *Memory {
	return &Memory{pages: map[int64]*page{}, maxSize: maxSize}
}

func (m *Memory) Low() int64  { return 0 }
func (m *Memory) High() int64 { return m.size }

func (m *Memory) Grow(n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("region: invalid grow amount %d", n)
	}

	if m.maxSize != 0 && m.size+n > m.maxSize {
		return 0, ErrOOM
	}

	base := m.size
	m.size += n
	return base, nil
}

func (m *Memory) ReadAt(p []byte, off int64) {
	m.checkRange(off, int64(len(p)))
	pgI := off >> pgBits
	pgO := int(off & pgMask)
	for len(p) != 0 {
		pg := m.pages[pgI]
		var n int
		if pg == nil {
			n = copy(p, zeroPage[pgO:])
		} else {
			n = copy(p, pg[pgO:])
		}
		p = p[n:]
		pgI++
		pgO = 0
	}
}

func (m *Memory) WriteAt(p []byte, off int64) {
	m.checkRange(off, int64(len(p)))
	pgI := off >> pgBits
	pgO := int(off & pgMask)
	for len(p) != 0 {
		pg := m.pages[pgI]
		if pg == nil {
			pg = &page{}
			m.pages[pgI] = pg
		}
		n := copy(pg[pgO:], p)
		p = p[n:]
		pgI++
		pgO = 0
	}
}

func (m *Memory) checkRange(off, n int64) {
	if off < 0 || n < 0 || off+n > m.size {
		panic(fmt.Sprintf("region: access [%d, %d) out of range [0, %d)", off, off+n, m.size))
	}
}

var zeroPage page
