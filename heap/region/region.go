// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package region implements the heap-region provider collaborator of
// spec.md §6.2: a contiguous byte region that grows, on request, by a
// number of bytes appended at its high end, and never shrinks.
//
// The provider is deliberately out of scope for the core allocator
// (spec.md §1): it is consumed through the Provider interface only.
package region

import "fmt"

// Provider grows a contiguous byte region and gives byte-addressed
// access to it. It is the heap-region provider collaborator of
// spec.md §6.2. A Provider is not safe for concurrent use; the heap
// built atop it is itself single-threaded (spec.md §5).
type Provider interface {
	// Grow appends exactly n bytes to the high end of the region and
	// returns the offset of the first appended byte. It returns
	// ErrOOM (or a wrapped form of it) if the region cannot grow.
	Grow(n int64) (base int64, err error)

	// Low returns the offset of the first byte of the region.
	Low() int64

	// High returns the offset one past the last byte of the region.
	High() int64

	// ReadAt copies len(p) bytes starting at off into p. It panics if
	// the requested range is not within [Low, High): an out of range
	// read is a bug in the caller (the allocator), not a recoverable
	// condition; see spec.md §7.3.
	ReadAt(p []byte, off int64)

	// WriteAt copies len(p) bytes from p into the region starting at
	// off. Same out-of-range convention as ReadAt.
	WriteAt(p []byte, off int64)
}

// ErrOOM is returned (possibly wrapped) by Grow when the provider
// cannot satisfy the request. It is the single channel through which
// out-of-memory (spec.md §7.1) propagates up to the client operations,
// which surface it as the "no allocation" sentinel.
var ErrOOM = fmt.Errorf("region: out of memory")
