// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "testing"

func TestVerifyCleanHeap(t *testing.T) {
	h, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	var ptrs []int64
	for _, n := range []int64{24, 100, 8, 4096, 1} {
		p, ok := h.Alloc(n)
		if !ok {
			t.Fatal("alloc failed", n)
		}
		ptrs = append(ptrs, p)
	}

	for i, p := range ptrs {
		if i%2 == 0 {
			h.Free(p)
		}
	}

	stats, err := h.Verify()
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalBlocks != stats.AllocBlocks+stats.FreeBlocks {
		t.Fatal(stats)
	}
}

func TestVerifyDetectsTagMismatch(t *testing.T) {
	h, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	p, ok := h.Alloc(24)
	if !ok {
		t.Fatal("alloc failed")
	}

	hoff := headerOff(p)
	h.putTag(footerOff(hoff, h.headerAt(hoff).size()), packTag(999999, true))

	if _, err := h.Verify(); err == nil {
		t.Fatal("expected corruption to be detected")
	} else if ce, ok := err.(*CorruptionError); !ok || ce.Kind != ErrTagMismatch {
		t.Fatal(err)
	}
}

func TestVerifyDetectsAdjacentFreeBlocks(t *testing.T) {
	h, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}

	a, ok := h.Alloc(32)
	if !ok {
		t.Fatal("alloc failed")
	}

	b, ok := h.Alloc(32)
	if !ok {
		t.Fatal("alloc failed")
	}

	// Bypass Free's own coalescing to manufacture two adjacent free
	// blocks without merging them, an invariant violation Verify must
	// catch.
	h.writeBlockTags(headerOff(a), h.headerAt(headerOff(a)).size(), false)
	h.writeBlockTags(headerOff(b), h.headerAt(headerOff(b)).size(), false)

	if _, err := h.Verify(); err == nil {
		t.Fatal("expected adjacent-free corruption to be detected")
	} else if ce, ok := err.(*CorruptionError); !ok || ce.Kind != ErrAdjacentFree {
		t.Fatal(err)
	}
}

func TestVerifyOnUnbootstrappedHeapIsClean(t *testing.T) {
	h, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	stats, err := h.Verify()
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalBlocks != 0 {
		t.Fatal(stats)
	}
}
