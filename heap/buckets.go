// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

// bucketOf returns the index into bounds of the lowest-indexed size
// class whose upper bound is >= size, or -1 if size is below MinBlock
// (spec.md §4.1). bounds must be strictly increasing.
//
// This is deliberately the "small ladder of comparisons" spec.md §4.1
// calls for rather than lldb/flt.go's get/put precomputed lookup table:
// that table technique only pays off because lldb bounds its largest
// class at a small constant (maxFLTRq == 4112); spec.md's top class is
// unbounded, so no fixed-size lookup array can cover it.
func bucketOf(bounds []int64, size int64) int {
	if size < MinBlock {
		return -1
	}

	for i, b := range bounds {
		if b >= size {
			return i
		}
	}

	return len(bounds) - 1
}

// insert files the free block at header offset hoff at the head of its
// size class's list (spec.md §4.2).
func (h *Heap) insert(hoff int64) {
	size := h.headerAt(hoff).size()
	idx := bucketOf(h.bounds, size)
	head := h.heads[idx]
	if head == 0 {
		h.setSucHoff(hoff, 0)
		h.setPrdHoff(hoff, 0)
	} else {
		h.setPrdHoff(head, hoff)
		h.setSucHoff(hoff, head)
		h.setPrdHoff(hoff, 0)
	}
	h.heads[idx] = hoff
}

// remove unlinks the free block at header offset hoff from its size
// class's list (spec.md §4.3). The singleton case (both links the zero
// sentinel) must be detected before any link is rewritten, or the
// write would corrupt the block's own header/footer region through its
// alias as "its own successor/predecessor".
func (h *Heap) remove(hoff int64) {
	size := h.headerAt(hoff).size()
	idx := bucketOf(h.bounds, size)

	sucRel := h.getSuc(hoff)
	prdRel := h.getPrd(hoff)

	switch {
	case sucRel == 0 && prdRel == 0:
		h.heads[idx] = 0
	case prdRel == 0: // hoff is the head
		s := h.sucHoff(hoff)
		h.heads[idx] = s
		h.setPrdHoff(s, 0)
	case sucRel == 0: // hoff is the tail
		p := h.prdHoff(hoff)
		h.setSucHoff(p, 0)
	default:
		p := h.prdHoff(hoff)
		s := h.sucHoff(hoff)
		h.setSucHoff(p, s)
		h.setPrdHoff(s, p)
	}
}
