// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "encoding/binary"

// tag is a header/footer word: a block size (a multiple of DSIZE, so its
// low three bits are always zero) packed with a single ALLOC bit in bit
// 0 (spec.md §3.2). Per spec.md §9, a systems-language port should wrap
// the raw word in a small value type exposing size/allocated/a packed
// setter rather than expose the bits directly, mirroring how
// lldb/falloc.go never lets callers poke at a block's tag byte except
// through named helpers.
type tag uint32

func packTag(size int64, allocated bool) tag {
	v := uint32(size)
	if allocated {
		v |= 1
	}
	return tag(v)
}

func (t tag) size() int64      { return int64(uint32(t) &^ 0x7) }
func (t tag) allocated() bool  { return uint32(t)&1 != 0 }

// word reads and writes the 4-byte words the region is built from. The
// region is byte-addressed (region.Provider), so every tag/link access
// goes through these two helpers rather than indexing a local []byte
// directly: the region may be paged or mmap'd, either of which is free
// to copy bytes around internally (spec.md §6.2 says nothing about the
// provider's internal representation).
func (h *Heap) getWord(off int64) uint32 {
	var b [WSIZE]byte
	h.region.ReadAt(b[:], off)
	return binary.LittleEndian.Uint32(b[:])
}

func (h *Heap) putWord(off int64, v uint32) {
	var b [WSIZE]byte
	binary.LittleEndian.PutUint32(b[:], v)
	h.region.WriteAt(b[:], off)
}

func (h *Heap) getTag(off int64) tag   { return tag(h.getWord(off)) }
func (h *Heap) putTag(off int64, t tag) { h.putWord(off, uint32(t)) }

// Block addressing. A "header offset" hoff is the byte offset of a
// block's header word; it is the quantity stored in bucket heads and
// free-list links once converted through payload addressing.
//
//	hoff  ----> [ HDR ][ ... payload ... ][ FTR ]
//	payload = hoff + WSIZE

func payloadOff(hoff int64) int64  { return hoff + WSIZE }
func headerOff(payload int64) int64 { return payload - WSIZE }

func footerOff(hoff int64, size int64) int64 { return hoff + size - WSIZE }

// header/footer read/write for a block of known size and alloc state.
func (h *Heap) writeBlockTags(hoff, size int64, allocated bool) {
	t := packTag(size, allocated)
	h.putTag(hoff, t)
	h.putTag(footerOff(hoff, size), t)
}

func (h *Heap) headerAt(hoff int64) tag { return h.getTag(hoff) }
func (h *Heap) footerAt(hoff int64) tag {
	size := h.getTag(hoff).size()
	return h.getTag(footerOff(hoff, size))
}

// nextBlockHoff returns the header offset of the block immediately
// following the one at hoff. Unconditional, relying on the epilogue
// sentinel to stop forward navigation (spec.md §3.3).
func nextBlockHoff(hoff int64, size int64) int64 { return hoff + size }

// prevBlockHoff returns the header offset of the block immediately
// preceding the one at hoff, read via that block's footer. Unconditional,
// relying on the prologue sentinel to stop backward navigation.
func (h *Heap) prevBlockHoff(hoff int64) int64 {
	prevFooter := hoff - WSIZE
	prevSize := h.getTag(prevFooter).size()
	return hoff - prevSize
}

// Free-list links. SUC and PRD are stored at payload+0 and payload+WSIZE
// as signed 32-bit offsets self-relative to the block's own payload
// address (spec.md §3.2): to follow a link, add its value to the
// current payload offset. A value of 0 is the sentinel for "no
// neighbor"; both ends of a singleton list use 0 for both links.
func (h *Heap) getSuc(hoff int64) int32 {
	return int32(h.getWord(payloadOff(hoff)))
}

func (h *Heap) putSuc(hoff int64, rel int32) {
	h.putWord(payloadOff(hoff), uint32(rel))
}

func (h *Heap) getPrd(hoff int64) int32 {
	return int32(h.getWord(payloadOff(hoff) + WSIZE))
}

func (h *Heap) putPrd(hoff int64, rel int32) {
	h.putWord(payloadOff(hoff)+WSIZE, uint32(rel))
}

// sucHoff/prdHoff resolve a link relative to hoff into an absolute
// header offset, or 0 if the link is the sentinel.
func (h *Heap) sucHoff(hoff int64) int64 {
	rel := h.getSuc(hoff)
	if rel == 0 {
		return 0
	}
	return headerOff(payloadOff(hoff) + int64(rel))
}

func (h *Heap) prdHoff(hoff int64) int64 {
	rel := h.getPrd(hoff)
	if rel == 0 {
		return 0
	}
	return headerOff(payloadOff(hoff) + int64(rel))
}

// setSucHoff/setPrdHoff set a link to point at the block with header
// offset target, or clear it (target == 0).
func (h *Heap) setSucHoff(hoff, target int64) {
	if target == 0 {
		h.putSuc(hoff, 0)
		return
	}
	h.putSuc(hoff, int32(payloadOff(target)-payloadOff(hoff)))
}

func (h *Heap) setPrdHoff(hoff, target int64) {
	if target == 0 {
		h.putPrd(hoff, 0)
		return
	}
	h.putPrd(hoff, int32(payloadOff(target)-payloadOff(hoff)))
}
