// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conv

import (
	"runtime"
	"sync"

	"github.com/ajroetker/go-convpack/hwy"
)

const (
	// MinParallelOps is the co*n*k volume below which ParallelApply runs
	// sequentially; goroutine dispatch costs more than it saves.
	MinParallelOps = 64 * 64 * 64

	// RowsPerStrip is the target number of output channels per work item.
	// Strips are whole row panels, so a strip holds max(1, RowsPerStrip/MR)
	// panels.
	RowsPerStrip = 64
)

// DefaultWorkers returns the worker count ParallelApply callers should use
// when they have no better estimate.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// ParallelApply computes the same result as Apply using up to workers
// goroutines. Work is split into strips of whole row panels; strips write
// disjoint output rows, all read pa and b, and each worker owns its scratch
// tile. It returns when every strip is done.
func (c *PackedConv[T, K]) ParallelApply(workers int, pa, b, out []T, cBase, rsc, csc int) {
	if c.co*c.n*c.k < MinParallelOps {
		c.Apply(pa, b, out, cBase, rsc, csc)
		return
	}
	c.parallelApply(workers, max(1, RowsPerStrip/c.kernel.MR()), pa, b, out, cBase, rsc, csc)
}

func (c *PackedConv[T, K]) parallelApply(workers, panelsPerStrip int, pa, b, out []T, cBase, rsc, csc int) {
	c.checkApply(pa, b, out, cBase, rsc, csc)

	panels := c.rowPanels()
	numStrips := (panels + panelsPerStrip - 1) / panelsPerStrip
	workers = min(workers, numStrips)
	if workers <= 1 {
		scratch := hwy.NewTile[T](c.kernel.MR(), c.kernel.NR())
		c.applyPanels(pa, b, out, cBase, rsc, csc, 0, panels, &scratch)
		return
	}

	// Work queue of row strips
	work := make(chan int, numStrips)
	for strip := range numStrips {
		work <- strip
	}
	close(work)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			scratch := hwy.NewTile[T](c.kernel.MR(), c.kernel.NR())
			for strip := range work {
				start := strip * panelsPerStrip
				end := min(start+panelsPerStrip, panels)
				c.applyPanels(pa, b, out, cBase, rsc, csc, start, end, &scratch)
			}
		})
	}
	wg.Wait()
}
