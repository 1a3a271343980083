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
	"fmt"

	"github.com/ajroetker/go-convpack/hwy"
)

// Apply convolves input b with the packed filters pa and writes output
// element (channel i, position j) to c[cBase + i*rsc + j*csc]. Every output
// element is written exactly once; nothing else in c is touched.
//
// Row panels are visited in order and, within a panel, column panels left to
// right:
//   - full MR × NR tiles are written by the kernel straight into c;
//   - column tails, row tails and the corner are computed into a scratch
//     tile and only the real sub-rectangle is copied out.
//
// Apply panics, before writing, if pa is short or misaligned, b is shorter
// than InputReach, or the output region falls outside c.
func (c *PackedConv[T, K]) Apply(pa, b, out []T, cBase, rsc, csc int) {
	c.checkApply(pa, b, out, cBase, rsc, csc)
	scratch := hwy.NewTile[T](c.kernel.MR(), c.kernel.NR())
	c.applyPanels(pa, b, out, cBase, rsc, csc, 0, c.rowPanels(), &scratch)
}

// rowPanels returns ceil(co/mr).
func (c *PackedConv[T, K]) rowPanels() int {
	mr := c.kernel.MR()
	return (c.co + mr - 1) / mr
}

func (c *PackedConv[T, K]) checkApply(pa, b, out []T, cBase, rsc, csc int) {
	if len(pa) < c.PackedALen() {
		panic(fmt.Sprintf("conv: packed buffer too short: %d < %d", len(pa), c.PackedALen()))
	}
	if !hwy.IsAligned(pa, c.PackedAAlignment()) {
		panic(fmt.Sprintf("conv: packed buffer not %d-byte aligned", c.PackedAAlignment()))
	}
	if len(b) < c.inputReach {
		panic(fmt.Sprintf("conv: input too short: %d < %d", len(b), c.inputReach))
	}
	if !hwy.IsAligned(b, c.kernel.AlignmentBytesB()) {
		panic(fmt.Sprintf("conv: input not %d-byte aligned", c.kernel.AlignmentBytesB()))
	}
	if lo, hi := extent(cBase, c.co, rsc, c.n, csc); lo < 0 || hi >= len(out) {
		panic(fmt.Sprintf("conv: output out of range: [%d, %d] of %d", lo, hi, len(out)))
	}
}

// applyPanels runs row panels [iaStart, iaEnd). scratch must be an MR × NR
// tile owned by the caller for the duration of the call.
func (c *PackedConv[T, K]) applyPanels(pa, b, out []T, cBase, rsc, csc, iaStart, iaEnd int, scratch *hwy.Tile[T]) {
	kern := c.kernel
	mr, nr, k := kern.MR(), kern.NR(), c.k
	fullCols := c.n / nr
	colTail := c.n % nr
	fullRows := c.co / mr
	rowTail := c.co % mr
	tmp := scratch.Data()

	for ia := iaStart; ia < iaEnd; ia++ {
		panel := pa[ia*mr*k : (ia+1)*mr*k]
		rowBase := cBase + ia*mr*rsc
		rows := mr
		if ia == fullRows {
			rows = rowTail
		}

		for ib := range fullCols {
			tops := c.dataOffsets[ib*nr : (ib+1)*nr]
			dst := rowBase + ib*nr*csc
			if rows == mr {
				kern.Run(k, panel, b, tops, c.kernelOffsets, out, dst, rsc, csc)
				continue
			}
			kern.Run(k, panel, b, tops, c.kernelOffsets, tmp, 0, nr, 1)
			hwy.TileScatterSub(scratch, rows, nr, out, dst, rsc, csc)
		}

		if colTail != 0 {
			tops := c.dataOffsets[fullCols*nr : (fullCols+1)*nr]
			kern.Run(k, panel, b, tops, c.kernelOffsets, tmp, 0, nr, 1)
			hwy.TileScatterSub(scratch, rows, colTail, out, rowBase+fullCols*nr*csc, rsc, csc)
		}
	}
}
