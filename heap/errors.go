// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "fmt"

// InvalidArgError reports an invalid Config passed to New: a negative
// ChunkSize or a BucketBounds that is not strictly increasing. Heap
// methods do not return it; they report failure with a bool. Analogous
// to lldb's ErrINVAL: a message plus the offending value.
type InvalidArgError struct {
	Message string
	Arg     int64
}

func (e *InvalidArgError) Error() string {
	return fmt.Sprintf("%s: %d", e.Message, e.Arg)
}

// CorruptionKind enumerates the invariants of spec.md §3.5 that Verify
// checks.
type CorruptionKind int

const (
	_ CorruptionKind = iota
	ErrTagMismatch     // invariant 1: HDR != FTR
	ErrBadAlignment    // invariant 6: payload offset not a multiple of 8
	ErrAdjacentFree    // invariant 3: two adjacent free blocks
	ErrNotOnList       // invariant 4/5: free block missing from its bucket, or vice versa
	ErrWrongBucket     // invariant 5: block filed under the wrong bucket
	ErrBadLink         // invariant 5: SUC/PRD are not mutual inverses
	ErrBadSize         // a block's size is not a positive multiple of DSIZE, or is below MinBlock
	ErrEpilogueMissing // the walk did not terminate at a size-0 allocated epilogue
)

// CorruptionError is returned by Verify on the first invariant violation
// it finds. Analogous to lldb's ErrILSEQ: a violation kind plus the
// offset at which it was detected. Production (non-Verify) code paths
// never return this; spec.md §7 treats internal corruption as undefined
// behavior outside of the debug checker.
type CorruptionError struct {
	Kind CorruptionKind
	Off  int64
	Arg  int64
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("heap corruption (kind %d) at offset %#x, arg %d", e.Kind, e.Off, e.Arg)
}
