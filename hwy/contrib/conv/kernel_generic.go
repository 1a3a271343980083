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
	"sync"

	"github.com/ajroetker/go-convpack/hwy"
)

// Generic is a portable kernel for any MR × NR tile shape. It gathers one
// B column per contraction step and accumulates outer products into an
// hwy.Tile. It is the reference the unrolled kernels are tested against and
// the fallback for element types without a registered kernel.
type Generic[T hwy.Floats] struct {
	mr, nr int
	pool   sync.Pool
}

type genericScratch[T hwy.Floats] struct {
	tile hwy.Tile[T]
	col  []T
}

// NewGeneric returns a generic kernel with the given tile shape.
func NewGeneric[T hwy.Floats](mr, nr int) *Generic[T] {
	if mr <= 0 || nr <= 0 {
		panic(fmt.Sprintf("conv: invalid generic tile %dx%d", mr, nr))
	}
	g := &Generic[T]{mr: mr, nr: nr}
	g.pool.New = func() any {
		return &genericScratch[T]{tile: hwy.NewTile[T](mr, nr), col: make([]T, nr)}
	}
	return g
}

func (g *Generic[T]) Name() string         { return fmt.Sprintf("generic%dx%d", g.mr, g.nr) }
func (g *Generic[T]) MR() int              { return g.mr }
func (g *Generic[T]) NR() int              { return g.nr }
func (g *Generic[T]) AlignmentBytesA() int { return hwy.SizeOf[T]() }
func (g *Generic[T]) AlignmentBytesB() int { return hwy.SizeOf[T]() }

func (g *Generic[T]) Run(k int, a, b []T, bTops, kernelOffsets []int, c []T, cBase, rsc, csc int) {
	s := g.pool.Get().(*genericScratch[T])
	defer g.pool.Put(s)

	hwy.TileZero(&s.tile)
	mr := g.mr
	tops := bTops[:g.nr]
	for t, off := range kernelOffsets[:k] {
		for j, top := range tops {
			s.col[j] = b[top+off]
		}
		hwy.OuterProductAdd(&s.tile, a[t*mr:(t+1)*mr], s.col)
	}
	hwy.TileScatter(&s.tile, c, cBase, rsc, csc)
}
