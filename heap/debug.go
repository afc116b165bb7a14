// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"sort"

	"github.com/cznic/sortutil"
)

// Stats records statistics about a Heap, filled in by Verify on
// success. Analogous to lldb.AllocStats.
type Stats struct {
	TotalBlocks int64 // allocated blocks + free blocks
	AllocBlocks int64
	AllocBytes  int64 // sum of payload capacity of allocated blocks
	FreeBlocks  int64
	FreeBytes   int64 // sum of payload capacity of free blocks
}

// Verify walks the heap from the first real block to the epilogue and
// checks invariants 1-6 of spec.md §3.5 (invariant 5 to the extent
// verifyListMembership and verifyBucketsMatch describe), returning Stats on success or
// the first *CorruptionError found. It is not called from any
// allocation/release path (spec.md §7: "called ad hoc by the caller,
// not on every operation") and is grounded on lldb.Allocator.Verify and
// the mm_checkheap entry point of original_source/mm.c.
func (h *Heap) Verify() (Stats, error) {
	var stats Stats

	if !h.bootstrapped {
		return stats, nil
	}

	var freeOffsets []int64
	prevWasFree := false
	hoff := h.base

	for {
		hdr := h.headerAt(hoff)
		size := hdr.size()
		if size == 0 {
			// The epilogue is a lone header word with no footer of its own.
			if !hdr.allocated() {
				return stats, &CorruptionError{Kind: ErrEpilogueMissing, Off: hoff}
			}
			break // reached the epilogue
		}

		ftr := h.footerAt(hoff)
		if hdr != ftr {
			return stats, &CorruptionError{Kind: ErrTagMismatch, Off: hoff}
		}

		if size < MinBlock || size%DSIZE != 0 {
			return stats, &CorruptionError{Kind: ErrBadSize, Off: hoff, Arg: size}
		}

		if payloadOff(hoff)%Alignment != 0 {
			return stats, &CorruptionError{Kind: ErrBadAlignment, Off: hoff}
		}

		allocated := hdr.allocated()
		if !allocated {
			if prevWasFree {
				return stats, &CorruptionError{Kind: ErrAdjacentFree, Off: hoff}
			}

			if err := h.verifyListMembership(hoff, size); err != nil {
				return stats, err
			}

			freeOffsets = append(freeOffsets, hoff)
			stats.FreeBlocks++
			stats.FreeBytes += size - 2*WSIZE
		} else {
			stats.AllocBlocks++
			stats.AllocBytes += size - 2*WSIZE
		}

		stats.TotalBlocks++
		prevWasFree = !allocated
		hoff = nextBlockHoff(hoff, size)
	}

	sort.Sort(sortutil.Int64Slice(freeOffsets))
	if err := h.verifyBucketsMatch(freeOffsets); err != nil {
		return stats, err
	}

	return stats, nil
}

// verifyListMembership checks that the free block at hoff has SUC/PRD
// links that are mutual inverses with its immediate list neighbors, and
// that its successor maps to the same bucket as its own size does
// (invariant 5). It does not check that the list holding the block is
// the one headed by heads[bucketOf(size)].
func (h *Heap) verifyListMembership(hoff, size int64) error {
	idx := bucketOf(h.bounds, size)

	if s := h.sucHoff(hoff); s != 0 {
		if h.prdHoff(s) != hoff {
			return &CorruptionError{Kind: ErrBadLink, Off: hoff, Arg: s}
		}
		if bucketOf(h.bounds, h.headerAt(s).size()) != idx {
			return &CorruptionError{Kind: ErrWrongBucket, Off: s}
		}
	}

	if p := h.prdHoff(hoff); p != 0 {
		if h.sucHoff(p) != hoff {
			return &CorruptionError{Kind: ErrBadLink, Off: hoff, Arg: p}
		}
	}

	return nil
}

// verifyBucketsMatch checks that the set of free blocks reachable by
// walking every bucket's list equals, exactly, the set of free blocks
// found by the linear heap walk (invariant 4/5).
func (h *Heap) verifyBucketsMatch(wantSorted []int64) error {
	var got []int64
	for _, head := range h.heads {
		for cur := head; cur != 0; cur = h.sucHoff(cur) {
			got = append(got, cur)
		}
	}

	sort.Sort(sortutil.Int64Slice(got))

	if len(got) != len(wantSorted) {
		return &CorruptionError{Kind: ErrNotOnList, Off: h.base, Arg: int64(len(got))}
	}

	for i, off := range got {
		if off != wantSorted[i] {
			return &CorruptionError{Kind: ErrNotOnList, Off: off}
		}
	}

	return nil
}
