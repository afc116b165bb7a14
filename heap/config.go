// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "github.com/cznic/malloc/heap/region"

// Tuning constants, see spec.md §6.4.
const (
	WSIZE     = 4    // header/footer width, in bytes
	DSIZE     = 8    // doubleword; minimum payload granule
	Alignment = 8    // payload alignment
	MinBlock  = 2 * DSIZE // smallest valid block size
	prologueSize = 3 * WSIZE // header/link/header triple, spec.md §3.3

	// DefaultChunkSize is the default heap-extension unit.
	DefaultChunkSize = 4096
)

// DefaultBucketBounds is the normative fourteen-class ladder of spec.md
// §3.4: the inclusive upper bound, in bytes of total block size, of each
// size class. The last class has no upper bound.
var DefaultBucketBounds = []int64{
	28, 64, 96, 128, 192, 256, 384, 512, 768, 1024, 1536, 2048, 4096,
	maxBlockSize,
}

const maxBlockSize = 1<<31 - 8 // largest size representable by a 32-bit signed offset, rounded to DSIZE

// Config amends the behavior of New. Its zero value selects the
// normative defaults of spec.md: a 4096 byte chunk size, the fourteen-class
// bucket ladder, and an in-memory, page-backed region provider.
//
// Config follows the same compatibility promise as the Go standard
// library's own option structs: new exported fields may be added, so
// client code should assign by field name.
type Config struct {
	// ChunkSize is the number of bytes requested from Region whenever
	// the heap must grow. Rounded up to a multiple of DSIZE. Zero
	// selects DefaultChunkSize.
	ChunkSize int64

	// BucketBounds is the size-class ladder (spec.md §3.4). Must be
	// strictly increasing and end in a bound large enough to never be
	// exceeded. Nil selects DefaultBucketBounds.
	BucketBounds []int64

	// Region supplies the heap-region provider (spec.md §6.2). Nil
	// selects an in-memory, page-backed provider (region.NewMemory).
	Region region.Provider
}

// validate rejects Config values New must not silently accept. Zero
// fields are not errors (they select defaults in withDefaults); only
// values that are actively wrong are.
func (c Config) validate() error {
	if c.ChunkSize < 0 {
		return &InvalidArgError{Message: "heap: negative ChunkSize", Arg: c.ChunkSize}
	}

	for i := 1; i < len(c.BucketBounds); i++ {
		if c.BucketBounds[i] <= c.BucketBounds[i-1] {
			return &InvalidArgError{Message: "heap: BucketBounds not strictly increasing", Arg: c.BucketBounds[i]}
		}
	}

	return nil
}

func (c Config) withDefaults() Config {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	c.ChunkSize = roundup(c.ChunkSize, DSIZE)

	if c.BucketBounds == nil {
		c.BucketBounds = DefaultBucketBounds
	}

	if c.Region == nil {
		c.Region = region.NewMemory()
	}

	return c
}

// roundup rounds n up to the nearest multiple of m, m a power of two.
func roundup(n, m int64) int64 { return (n + m - 1) &^ (m - 1) }
