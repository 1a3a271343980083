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

// PackA packs the [co, k] filter matrix into pa as ceil(co/mr) row panels of
// [k, mr] each: row i, contraction step t of panel p lands at
// pa[p*mr*k + t*mr + i]. For a partial last panel only the co%mr real rows
// are written; the remaining rows are left as they are and only ever feed
// scratch rows the driver discards.
//
// Source element (i, j) is a[aBase + i*rsa + j*csa]; strides may be negative,
// so a transposed filter is packed by swapping them.
//
// PackA panics, before writing, if pa is shorter than PackedALen or not
// aligned to PackedAAlignment, or if the source extent falls outside a.
func (c *PackedConv[T, K]) PackA(pa, a []T, aBase, rsa, csa int) {
	if len(pa) < c.PackedALen() {
		panic(fmt.Sprintf("conv: packed buffer too short: %d < %d", len(pa), c.PackedALen()))
	}
	if !hwy.IsAligned(pa, c.PackedAAlignment()) {
		panic(fmt.Sprintf("conv: packed buffer not %d-byte aligned", c.PackedAAlignment()))
	}
	if lo, hi := extent(aBase, c.co, rsa, c.k, csa); lo < 0 || hi >= len(a) {
		panic(fmt.Sprintf("conv: filter source out of range: [%d, %d] of %d", lo, hi, len(a)))
	}

	mr := c.kernel.MR()
	k := c.k
	fullPanels := c.co / mr
	for p := range fullPanels {
		packPanel(pa[p*mr*k:(p+1)*mr*k], a, aBase+p*mr*rsa, rsa, csa, k, mr, mr)
	}
	if rows := c.co % mr; rows != 0 {
		p := fullPanels
		packPanel(pa[p*mr*k:(p+1)*mr*k], a, aBase+p*mr*rsa, rsa, csa, k, mr, rows)
	}
}

// packPanel copies rows source rows of length k into one [k, mr] panel.
func packPanel[T hwy.Floats](panel, a []T, base, rsa, csa, k, mr, rows int) {
	if csa == 1 {
		for i := range rows {
			src := a[base+i*rsa : base+i*rsa+k]
			for t, v := range src {
				panel[t*mr+i] = v
			}
		}
		return
	}
	for t := range k {
		dst := panel[t*mr : t*mr+rows]
		src := base + t*csa
		for i := range dst {
			dst[i] = a[src+i*rsa]
		}
	}
}

// extent returns the lowest and highest index touched by a rows × cols
// strided region starting at base.
func extent(base, rows, rowStride, cols, colStride int) (lo, hi int) {
	lo, hi = base, base
	if d := (rows - 1) * rowStride; d < 0 {
		lo += d
	} else {
		hi += d
	}
	if d := (cols - 1) * colStride; d < 0 {
		lo += d
	} else {
		hi += d
	}
	return lo, hi
}
