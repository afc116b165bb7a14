// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package malloc implements a general-purpose dynamic memory allocator
// over a contiguous, grow-only byte region addressed by int64 offsets
// rather than Go pointers: allocate, release, reallocate and
// zero-allocate, backed by boundary-tagged blocks, segregated explicit
// free lists, first-fit placement and immediate coalescing (see package
// heap for the mechanism).
//
// An Allocator is not safe for concurrent use; spec.md §5 scopes
// synchronization to the caller. Most programs need only one, so the
// package-level Allocate/Release/Reallocate/ZeroAllocate functions
// operate on a lazily bootstrapped default instance, analogous to
// dbm.DB but with no file, transaction or ACID concerns: this package
// has no persisted state.
package malloc

import (
	"sync"

	"github.com/cznic/malloc/heap"
)

// Allocator is a single dynamic-memory heap. The zero value is not
// ready for use; construct one with New.
type Allocator struct {
	h *heap.Heap
}

// New returns a new Allocator configured by opts, or an
// *heap.InvalidArgError if opts carries a negative ChunkSize or a
// BucketBounds that is not strictly increasing. No bytes are requested
// from the heap-region provider until the first Allocate, ZeroAllocate
// or Reallocate call that allocates (spec.md §4.9's lazy bootstrap).
func New(opts Options) (*Allocator, error) {
	h, err := heap.New(opts.toConfig())
	if err != nil {
		return nil, err
	}
	return &Allocator{h: h}, nil
}

// Allocate reserves a block of at least n bytes and returns its
// payload offset. It reports false if n <= 0 or the heap-region
// provider cannot grow (spec.md §4.7).
func (a *Allocator) Allocate(n int64) (int64, bool) { return a.h.Alloc(n) }

// Release returns the block at payload to the heap, coalescing it with
// any free neighbors. Releasing the zero offset or an already-free
// payload is a silent no-op (spec.md §4.8).
func (a *Allocator) Release(payload int64) { a.h.Free(payload) }

// Reallocate resizes the block at payload to n bytes, preserving the
// lesser of the old and new sizes worth of content, and returns the
// (possibly different) payload offset. A payload of zero behaves like
// Allocate(n); an n of zero behaves like Release(payload) and reports
// false (spec.md §4.11).
func (a *Allocator) Reallocate(payload, n int64) (int64, bool) { return a.h.Realloc(payload, n) }

// ZeroAllocate reserves a block of at least nmemb*size bytes, with those
// nmemb*size bytes zeroed, and reports false on overflow or on a non-positive nmemb or
// size (spec.md §4.11).
func (a *Allocator) ZeroAllocate(nmemb, size int64) (int64, bool) { return a.h.Calloc(nmemb, size) }

// PayloadSize returns the writable capacity, in bytes, of the block
// backing payload.
func (a *Allocator) PayloadSize(payload int64) int64 { return a.h.PayloadSize(payload) }

// Verify walks the whole heap checking its invariants, for use in
// tests and diagnostics; it is never called on an allocate/release
// path (spec.md §7).
func (a *Allocator) Verify() (heap.Stats, error) { return a.h.Verify() }

var (
	defaultOnce sync.Once
	defaultA    *Allocator
)

// defaultAllocator lazily builds the process-wide default Allocator.
// Options{} always passes validation, so an error here would mean New
// itself is broken.
func defaultAllocator() *Allocator {
	defaultOnce.Do(func() {
		a, err := New(Options{})
		if err != nil {
			panic(err)
		}
		defaultA = a
	})
	return defaultA
}

// Allocate is Allocate on the process-wide default Allocator.
func Allocate(n int64) (int64, bool) { return defaultAllocator().Allocate(n) }

// Release is Release on the process-wide default Allocator.
func Release(payload int64) { defaultAllocator().Release(payload) }

// Reallocate is Reallocate on the process-wide default Allocator.
func Reallocate(payload, n int64) (int64, bool) { return defaultAllocator().Reallocate(payload, n) }

// ZeroAllocate is ZeroAllocate on the process-wide default Allocator.
func ZeroAllocate(nmemb, size int64) (int64, bool) {
	return defaultAllocator().ZeroAllocate(nmemb, size)
}
