// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "testing"

func TestPackTag(t *testing.T) {
	for _, x := range []struct {
		size int64
		alloc bool
	}{
		{16, false},
		{16, true},
		{4096, false},
		{maxBlockSize, true},
	} {
		tg := packTag(x.size, x.alloc)
		if g, e := tg.size(), x.size; g != e {
			t.Fatal(g, e)
		}

		if g, e := tg.allocated(), x.alloc; g != e {
			t.Fatal(g, e)
		}
	}
}

func TestPayloadHeaderRoundTrip(t *testing.T) {
	for hoff := int64(0); hoff < 64; hoff += 8 {
		p := payloadOff(hoff)
		if g, e := headerOff(p), hoff; g != e {
			t.Fatal(g, e)
		}
	}
}

func TestFooterOff(t *testing.T) {
	if g, e := footerOff(100, 32), int64(100+32-WSIZE); g != e {
		t.Fatal(g, e)
	}
}

func newTestHeap(t *testing.T) *Heap {
	h, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.ensureBootstrapped(); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestWriteBlockTagsRoundTrip(t *testing.T) {
	h := newTestHeap(t)
	hoff := h.base

	h.writeBlockTags(hoff, 64, true)
	hdr := h.headerAt(hoff)
	ftr := h.footerAt(hoff)
	if hdr != ftr {
		t.Fatal(hdr, ftr)
	}

	if g, e := hdr.size(), int64(64); g != e {
		t.Fatal(g, e)
	}

	if !hdr.allocated() {
		t.Fatal("expected allocated")
	}
}

func TestSucPrdLinks(t *testing.T) {
	h := newTestHeap(t)
	a := h.base
	h.writeBlockTags(a, 64, false)
	b := a + 64
	h.writeBlockTags(b, 64, false)

	h.setSucHoff(a, b)
	h.setPrdHoff(b, a)

	if g, e := h.sucHoff(a), b; g != e {
		t.Fatal(g, e)
	}

	if g, e := h.prdHoff(b), a; g != e {
		t.Fatal(g, e)
	}

	h.setSucHoff(a, 0)
	if g, e := h.sucHoff(a), int64(0); g != e {
		t.Fatal(g, e)
	}
}

func TestNextPrevBlock(t *testing.T) {
	h := newTestHeap(t)
	a := h.base
	h.writeBlockTags(a, 32, true)
	b := nextBlockHoff(a, 32)
	h.writeBlockTags(b, 48, true)

	if g, e := nextBlockHoff(a, 32), b; g != e {
		t.Fatal(g, e)
	}

	if g, e := h.prevBlockHoff(b), a; g != e {
		t.Fatal(g, e)
	}
}
