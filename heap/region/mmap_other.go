// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package region

// Mmap is unavailable outside unix; NewMmap panics rather than silently
// falling back to Memory, so a caller that asks for it notices.
type Mmap struct{}

// NewMmap panics on non-unix platforms. Use NewMemory instead.
func NewMmap() *Mmap {
	panic("region: Mmap is only available on unix")
}

func (m *Mmap) Low() int64              { panic("region: Mmap is only available on unix") }
func (m *Mmap) High() int64             { panic("region: Mmap is only available on unix") }
func (m *Mmap) Grow(n int64) (int64, error) {
	panic("region: Mmap is only available on unix")
}
func (m *Mmap) ReadAt(p []byte, off int64)  { panic("region: Mmap is only available on unix") }
func (m *Mmap) WriteAt(p []byte, off int64) { panic("region: Mmap is only available on unix") }
func (m *Mmap) Close() error             { panic("region: Mmap is only available on unix") }
