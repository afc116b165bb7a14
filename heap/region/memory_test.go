// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestMemoryGrow(t *testing.T) {
	m := NewMemory()
	if g, e := m.Low(), int64(0); g != e {
		t.Fatal(g, e)
	}

	base, err := m.Grow(10)
	if err != nil {
		t.Fatal(err)
	}

	if g, e := base, int64(0); g != e {
		t.Fatal(g, e)
	}

	base, err = m.Grow(pgSize)
	if err != nil {
		t.Fatal(err)
	}

	if g, e := base, int64(10); g != e {
		t.Fatal(g, e)
	}

	if g, e := m.High(), int64(10+pgSize); g != e {
		t.Fatal(g, e)
	}
}

func TestMemoryReadWriteAt(t *testing.T) {
	const max = 3 * pgSize
	rng := rand.New(rand.NewSource(42))
	for sz := 1; sz < max; sz += 2053 {
		m := NewMemory()
		if _, err := m.Grow(int64(sz)); err != nil {
			t.Fatal(err)
		}

		b := make([]byte, sz)
		for i := range b {
			b[i] = byte(rng.Int())
		}

		m.WriteAt(b, 0)
		got := make([]byte, sz)
		m.ReadAt(got, 0)
		if !bytes.Equal(got, b) {
			t.Fatal("content differs", sz)
		}
	}
}

func TestMemoryReadWriteAtCrossPage(t *testing.T) {
	m := NewMemory()
	if _, err := m.Grow(4 * pgSize); err != nil {
		t.Fatal(err)
	}

	b := make([]byte, pgSize+8)
	for i := range b {
		b[i] = byte(i)
	}

	off := int64(pgSize - 4)
	m.WriteAt(b, off)
	got := make([]byte, len(b))
	m.ReadAt(got, off)
	if !bytes.Equal(got, b) {
		t.Fatal("content differs across page boundary")
	}
}

func TestMemoryOOM(t *testing.T) {
	m := NewMemoryLimited(100)
	if _, err := m.Grow(100); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Grow(1); err != ErrOOM {
		t.Fatal(err)
	}
}

func TestMemoryOutOfRangePanics(t *testing.T) {
	m := NewMemory()
	if _, err := m.Grow(8); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range access")
		}
	}()

	var b [1]byte
	m.ReadAt(b[:], 8)
}
