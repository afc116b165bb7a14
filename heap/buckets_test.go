// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "testing"

func TestBucketOf(t *testing.T) {
	bounds := DefaultBucketBounds
	for _, x := range []struct {
		size int64
		want int
	}{
		{0, -1},
		{15, -1},
		{16, 0},
		{28, 0},
		{29, 1},
		{64, 1},
		{4096, 12},
		{4097, 13},
		{1 << 30, 13},
	} {
		if g, e := bucketOf(bounds, x.size), x.want; g != e {
			t.Fatal(x.size, g, e)
		}
	}
}

// chain lays out n independent free blocks of size sz starting at the
// heap's base and returns their header offsets in layout order. It only
// writes their tags; callers file them into a bucket with insert.
func chain(t *testing.T, h *Heap, n int, sz int64) []int64 {
	var offs []int64
	hoff := h.base
	for i := 0; i < n; i++ {
		h.writeBlockTags(hoff, sz, false)
		offs = append(offs, hoff)
		hoff += sz
	}
	return offs
}

func TestInsertRemoveSingleton(t *testing.T) {
	h := newTestHeap(t)
	offs := chain(t, h, 1, 64)
	idx := bucketOf(h.bounds, 64)

	h.insert(offs[0])
	if g, e := h.heads[idx], offs[0]; g != e {
		t.Fatal(g, e)
	}

	h.remove(offs[0])
	if g, e := h.heads[idx], int64(0); g != e {
		t.Fatal(g, e)
	}
}

func TestInsertOrderIsLIFO(t *testing.T) {
	h := newTestHeap(t)
	offs := chain(t, h, 3, 64)
	idx := bucketOf(h.bounds, 64)

	for _, o := range offs {
		h.insert(o)
	}

	// insert files at the head, so walking the list visits the most
	// recently inserted block first.
	want := []int64{offs[2], offs[1], offs[0]}
	var got []int64
	for cur := h.heads[idx]; cur != 0; cur = h.sucHoff(cur) {
		got = append(got, cur)
	}

	if len(got) != len(want) {
		t.Fatal(got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatal(got, want)
		}
	}
}

func TestRemoveMiddle(t *testing.T) {
	h := newTestHeap(t)
	offs := chain(t, h, 3, 64)
	for _, o := range offs {
		h.insert(o)
	}

	h.remove(offs[1]) // remove the middle of the three

	idx := bucketOf(h.bounds, 64)
	var got []int64
	for cur := h.heads[idx]; cur != 0; cur = h.sucHoff(cur) {
		got = append(got, cur)
	}

	want := []int64{offs[2], offs[0]}
	if len(got) != len(want) {
		t.Fatal(got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatal(got, want)
		}
	}
}

func TestRemoveHeadAndTail(t *testing.T) {
	h := newTestHeap(t)
	offs := chain(t, h, 3, 64)
	for _, o := range offs {
		h.insert(o)
	}

	idx := bucketOf(h.bounds, 64)
	head := h.heads[idx] // offs[2]
	h.remove(head)
	if g, e := h.heads[idx], offs[1]; g != e {
		t.Fatal(g, e)
	}

	h.remove(offs[0]) // the tail of the remaining two
	if g, e := h.heads[idx], offs[1]; g != e {
		t.Fatal(g, e)
	}

	if g, e := h.sucHoff(offs[1]), int64(0); g != e {
		t.Fatal(g, e)
	}
}
