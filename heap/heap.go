// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heap implements the core of a dynamic memory allocator over a
// contiguous, grow-only byte region: boundary-tagged block layout,
// immediate coalescing on release, a segregated collection of explicit
// free lists indexed by size class, first-fit placement, and in-place
// splitting.
//
// A Heap assumes a single goroutine driving it at a time (spec.md §5:
// "single-threaded cooperative only", no internal locking is done).
package heap

import (
	"github.com/cznic/malloc/heap/region"
	"github.com/cznic/mathutil"
)

// Heap owns a region.Provider, its bucket vector, and the offset of the
// first real block. Per spec.md §9 these are grouped in one object
// rather than replicated as package-level globals.
type Heap struct {
	region       region.Provider
	cfg          Config
	bounds       []int64
	heads        []int64 // heads[i] is the header offset of bucket i's list head, or 0 if empty
	base         int64   // header offset of the first real block
	bootstrapped bool
}

// New returns a Heap configured by cfg, or an *InvalidArgError if cfg
// carries a negative ChunkSize or a BucketBounds that is not strictly
// increasing. Bootstrap (spec.md §4.9) is deferred to the first call
// that allocates (Alloc, Calloc, or a Realloc that allocates), matching
// spec.md §4.7 step 1 and the lazily-initialized process-wide state
// spec.md §5 describes. Free does not bootstrap.
func New(cfg Config) (*Heap, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()
	return &Heap{
		region: cfg.Region,
		cfg:    cfg,
		bounds: cfg.BucketBounds,
		heads:  make([]int64, len(cfg.BucketBounds)),
	}, nil
}

func (h *Heap) ensureBootstrapped() error {
	if h.bootstrapped {
		return nil
	}
	return h.bootstrap()
}

// bootstrap lays out the sentinel prologue/epilogue on the first
// CHUNKSIZE region obtained from the provider and files the remaining
// space as one free block (spec.md §4.9).
func (h *Heap) bootstrap() error {
	base, err := h.region.Grow(h.cfg.ChunkSize)
	if err != nil {
		return err
	}

	prologueHoff := base
	h.putTag(prologueHoff, packTag(prologueSize, true))
	h.putWord(prologueHoff+WSIZE, 0) // the middle "link" word of the triple; unused
	h.putTag(prologueHoff+2*WSIZE, packTag(prologueSize, true))

	firstHoff := prologueHoff + prologueSize
	freeSize := h.cfg.ChunkSize - prologueSize - WSIZE // minus the one-word epilogue
	h.writeBlockTags(firstHoff, freeSize, false)
	h.setSucHoff(firstHoff, 0)
	h.setPrdHoff(firstHoff, 0)

	epilogueHoff := firstHoff + freeSize
	h.putTag(epilogueHoff, packTag(0, true))

	h.base = firstHoff
	h.insert(firstHoff)
	h.bootstrapped = true
	return nil
}

// extend rounds n up to a multiple of DSIZE, grows the region by that
// many bytes, overwrites the old epilogue word with the new free
// block's header, writes the matching footer and a fresh epilogue, and
// coalesces the new block with its (possibly free) left neighbor
// (spec.md §4.10).
func (h *Heap) extend(n int64) (int64, error) {
	n = roundup(n, DSIZE)

	oldHigh := h.region.High()
	if _, err := h.region.Grow(n); err != nil {
		return 0, err
	}

	hoff := oldHigh - WSIZE // reclaim the old epilogue word as the new header
	h.writeBlockTags(hoff, n, false)
	h.putTag(hoff+n, packTag(0, true)) // fresh epilogue

	return h.coalesce(hoff), nil
}

// coalesce merges the free block at hoff with any adjacent free
// neighbors and inserts the resulting block into its bucket, returning
// the resulting block's header offset (spec.md §4.4). The prologue and
// epilogue sentinels are always reported as allocated, which is what
// keeps this branch-free with respect to the ends of the heap.
func (h *Heap) coalesce(hoff int64) int64 {
	size := h.headerAt(hoff).size()

	leftHoff := h.prevBlockHoff(hoff)
	leftFooter := hoff - WSIZE
	leftFree := !h.getTag(leftFooter).allocated()

	rightHoff := nextBlockHoff(hoff, size)
	rightFree := !h.getTag(rightHoff).allocated()

	switch {
	case !leftFree && !rightFree:
		h.insert(hoff)
		return hoff
	case !leftFree && rightFree:
		rightSize := h.getTag(rightHoff).size()
		h.remove(rightHoff)
		h.writeBlockTags(hoff, size+rightSize, false)
		h.insert(hoff)
		return hoff
	case leftFree && !rightFree:
		leftSize := h.getTag(leftFooter).size()
		h.remove(leftHoff)
		h.writeBlockTags(leftHoff, leftSize+size, false)
		h.insert(leftHoff)
		return leftHoff
	default: // leftFree && rightFree
		leftSize := h.getTag(leftFooter).size()
		rightSize := h.getTag(rightHoff).size()
		h.remove(leftHoff)
		h.remove(rightHoff)
		h.writeBlockTags(leftHoff, leftSize+size+rightSize, false)
		h.insert(leftHoff)
		return leftHoff
	}
}

// findFit walks bucketOf(a) and every larger bucket, first-fit, and
// returns the header offset of the first block of size >= a
// (spec.md §4.6).
func (h *Heap) findFit(a int64) (int64, bool) {
	idx := bucketOf(h.bounds, a)
	if idx < 0 {
		return 0, false
	}

	for i := idx; i < len(h.bounds); i++ {
		for cur := h.heads[i]; cur != 0; cur = h.sucHoff(cur) {
			if h.headerAt(cur).size() >= a {
				return cur, true
			}
		}
	}

	return 0, false
}

// place removes the free block at hoff from its list and, if the
// remainder after carving out a bytes is at least MinBlock, splits off
// a fresh free block from the tail (spec.md §4.5).
func (h *Heap) place(hoff, a int64) {
	c := h.headerAt(hoff).size()
	h.remove(hoff)

	if c-a >= MinBlock {
		h.writeBlockTags(hoff, a, true)
		r := hoff + a
		h.writeBlockTags(r, c-a, false)
		h.coalesce(r)
		return
	}

	h.writeBlockTags(hoff, c, true)
}

// adjustedSize rounds a client request to a block size including
// header/footer overhead and alignment (spec.md §4.7 step 3).
func adjustedSize(n int64) int64 {
	if n <= DSIZE {
		return MinBlock
	}
	return roundup(n+DSIZE, DSIZE)
}

// Alloc implements spec.md §4.7. It returns (0, false) ("no allocation")
// for a zero-size request or when the region provider cannot grow.
func (h *Heap) Alloc(n int64) (int64, bool) {
	if n <= 0 {
		return 0, false
	}

	if err := h.ensureBootstrapped(); err != nil {
		return 0, false
	}

	a := adjustedSize(n)

	if hoff, ok := h.findFit(a); ok {
		h.place(hoff, a)
		return payloadOff(hoff), true
	}

	grow := mathutil.MaxInt64(a, h.cfg.ChunkSize)
	hoff, err := h.extend(grow)
	if err != nil {
		return 0, false
	}

	h.place(hoff, a)
	return payloadOff(hoff), true
}

// Free implements spec.md §4.8: null-tolerant, and tolerant of
// already-free pointers (double-free) as a defensive, best-effort
// check rather than a correctness guarantee.
func (h *Heap) Free(payload int64) {
	if payload == 0 {
		return
	}

	hoff := headerOff(payload)
	if !h.getTag(hoff).allocated() {
		return
	}

	size := h.getTag(hoff).size()
	h.writeBlockTags(hoff, size, false)
	h.coalesce(hoff)
}

// PayloadSize returns the writable capacity, in bytes, of the block
// backing payload: its total block size minus the header and footer
// words. Used by Realloc to bound the copy, and exported for tests
// asserting spec.md's P3 (payload capacity) and P7 (idempotent
// reallocate) properties.
func (h *Heap) PayloadSize(payload int64) int64 {
	hoff := headerOff(payload)
	return h.getTag(hoff).size() - 2*WSIZE
}

// Realloc implements spec.md §4.11/§6.1: null acts as Alloc, a
// requested size of zero acts as Free and returns "no allocation".
// Growth/shrink are always alloc-new/copy-min/free-old; in-place
// resizing is explicitly not required by spec.md §4.11 and is not
// implemented here (see SPEC_FULL.md §6).
func (h *Heap) Realloc(payload, n int64) (int64, bool) {
	if n == 0 {
		h.Free(payload)
		return 0, false
	}

	if payload == 0 {
		return h.Alloc(n)
	}

	oldCap := h.PayloadSize(payload)

	newPayload, ok := h.Alloc(n)
	if !ok {
		return 0, false
	}

	copyLen := mathutil.MinInt64(oldCap, n)
	if copyLen > 0 {
		buf := make([]byte, copyLen)
		h.region.ReadAt(buf, payload)
		h.region.WriteAt(buf, newPayload)
	}

	h.Free(payload)
	return newPayload, true
}

// Calloc implements spec.md §4.11's zero-allocate: it computes
// nmemb*size, saturating to failure ("no allocation") on overflow or on
// a zero-sized request, allocates, and zeros the requested nmemb*size
// bytes of payload. Any extra capacity from rounding the block size up
// is not zeroed.
func (h *Heap) Calloc(nmemb, size int64) (int64, bool) {
	if nmemb <= 0 || size <= 0 {
		return 0, false
	}

	total := nmemb * size
	if total/nmemb != size { // overflow
		return 0, false
	}

	payload, ok := h.Alloc(total)
	if !ok {
		return 0, false
	}

	zero := make([]byte, total)
	h.region.WriteAt(zero, payload)
	return payload, true
}
