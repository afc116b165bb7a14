// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command allocbench drives an Allocator through a random mix of
// allocate/reallocate/release calls and reports timing and heap
// occupancy, in the spirit of lldb/lab/1/main.go.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"runtime"
	"time"

	"github.com/cznic/malloc"
	"github.com/cznic/malloc/heap/region"
)

var (
	maxHandles = flag.Int("n", 1000, "target number of live allocations")
	maxSize    = flag.Int("sz", 1<<16, "maximum size of a single allocation, in bytes")
	seed       = flag.Int64("seed", 42, "PRNG seed")
	mmap       = flag.Bool("mmap", false, "back the heap region with an anonymous mmap instead of Go-managed memory")
)

func run(maxHandles, maxSize int, seed int64, useMmap bool) {
	opts := malloc.Options{}
	if useMmap {
		opts.Region = region.NewMmap()
	}

	a, err := malloc.New(opts)
	if err != nil {
		log.Fatal(err)
	}

	var handles []int64

	rng := rand.New(rand.NewSource(seed))
	runtime.GC()
	t0 := time.Now()

	for len(handles) < maxHandles {
		for nalloc := len(handles)/2 + 1; nalloc != 0; nalloc-- {
			n := int64(rng.Intn(maxSize) + 1)
			h, ok := a.Allocate(n)
			if !ok {
				log.Fatal("allocate failed")
			}

			handles = append(handles, h)
		}

		for nrealloc := len(handles) / 2; nrealloc != 0; nrealloc-- {
			i := rng.Intn(len(handles))
			n := int64(rng.Intn(maxSize) + 1)
			h, ok := a.Reallocate(handles[i], n)
			if !ok {
				log.Fatal("reallocate failed")
			}

			handles[i] = h
		}

		for nfree := len(handles) / 4; nfree != 0 && len(handles) > 1; nfree-- {
			i := rng.Intn(len(handles))
			a.Release(handles[i])
			last := len(handles) - 1
			handles[i] = handles[last]
			handles = handles[:last]
		}
	}

	d := time.Since(t0)
	stats, err := a.Verify()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("n=%d time=%s blocks=%d alloc_bytes=%d free_bytes=%d\n",
		len(handles), d, stats.TotalBlocks, stats.AllocBytes, stats.FreeBytes)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	run(*maxHandles, *maxSize, *seed, *mmap)
}
