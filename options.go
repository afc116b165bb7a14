// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package malloc

import (
	"github.com/cznic/malloc/heap"
	"github.com/cznic/malloc/heap/region"
)

// Options amend the behavior of New. The compatibility promise is the
// same as for struct types in the Go standard library: introducing
// changes can be made only by adding new exported fields, which is
// backward compatible as long as client code assigns by field name.
// This mirrors dbm.Options, minus the persistence/ACID fields that have
// no counterpart here (spec.md §6.3: "Persisted state: None").
type Options struct {
	// ChunkSize is the number of bytes requested from the heap-region
	// provider whenever the heap must grow (spec.md §6.4's CHUNKSIZE).
	// Zero selects heap.DefaultChunkSize (4096).
	ChunkSize int64

	// BucketBounds is the size-class ladder (spec.md §3.4). Nil
	// selects heap.DefaultBucketBounds, the normative fourteen-class
	// ladder.
	BucketBounds []int64

	// Region supplies the heap-region provider (spec.md §6.2). Nil
	// selects an in-memory, page-backed provider.
	Region region.Provider
}

func (o Options) toConfig() heap.Config {
	return heap.Config{
		ChunkSize:    o.ChunkSize,
		BucketBounds: o.BucketBounds,
		Region:       o.Region,
	}
}
