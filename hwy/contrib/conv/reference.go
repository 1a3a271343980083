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
	"math/rand/v2"

	"github.com/ajroetker/go-convpack/hwy"
)

// Naive computes the convolution directly from its definition, with no
// packing or offset tables:
//
//	out[o*N + x] = sum over c, pos of
//	    filters[o*K + c*kvol + pos] * input[c*ivol + sum((x_a*s_a + pos_a*d_a)*inStride_a)]
//
// The result is a dense [co, N] slice. It is the oracle the engine is tested
// against and is far too slow for real use.
func Naive[T hwy.Floats](g Geometry, filters, input []T) []T {
	outShape := g.OutputShape()
	inStrides := g.inputStrides()
	n := g.N()
	k := g.K()
	kvol := product(g.KernelShape)
	ivol := product(g.InputShape)
	out := make([]T, g.OutputChannels*n)

	x := 0
	forEachIndex(outShape, func(oidx []int) {
		for o := range g.OutputChannels {
			var sum T
			for c := range g.InputChannels {
				pos := 0
				forEachIndex(g.KernelShape, func(kidx []int) {
					off := c * ivol
					for a := range kidx {
						off += (oidx[a]*g.Stride(a) + kidx[a]*g.Dilation(a)) * inStrides[a]
					}
					sum += filters[o*k+c*kvol+pos] * input[off]
					pos++
				})
			}
			out[o*n+x] = sum
		}
		x++
	})
	return out
}

// Problem is a convolution with concrete filters and data, used to check
// kernels against Naive.
type Problem[T hwy.Floats] struct {
	Geometry
	Filters []T
	Data    []T
}

// Expected returns Naive(p.Geometry, p.Filters, p.Data).
func (p Problem[T]) Expected() []T {
	return Naive(p.Geometry, p.Filters, p.Data)
}

// Run packs the filters with c, applies it to the data into a dense [co, N]
// output pre-filled with a sentinel, and returns the output.
func (p Problem[T]) Run(c Conv[T]) []T {
	pa := hwy.AlignedSlice[T](c.PackedALen(), c.PackedAAlignment())
	c.PackA(pa, p.Filters, 0, c.K(), 1)

	found := make([]T, c.CO()*c.N())
	for i := range found {
		found[i] = 9999
	}
	c.Apply(pa, p.Data, found, 0, c.N(), 1)
	return found
}

// RandomProblem1D draws a one-dimensional problem: ci, co in [1, 40),
// kt in [1, 10), stride and dilation in [1, 5), input width within 10 of the
// kernel field, and integer values in [-10, 10). Integer values keep every
// partial sum exact, so results compare with ==.
func RandomProblem1D[T hwy.Floats](rng *rand.Rand) Problem[T] {
	ci := 1 + rng.IntN(39)
	co := 1 + rng.IntN(39)
	kt := 1 + rng.IntN(9)
	stride := 1 + rng.IntN(4)
	dilation := 1 + rng.IntN(4)
	field := (kt-1)*dilation + 1
	width := field + rng.IntN(10)

	g := Geometry{
		InputChannels:  ci,
		OutputChannels: co,
		InputShape:     []int{width},
		KernelShape:    []int{kt},
		Strides:        []int{stride},
		Dilations:      []int{dilation},
	}
	return randomValues[T](rng, g)
}

// RandomProblem2D draws a two-dimensional problem with small extents:
// ci in [1, 6), co in [1, 12), kernel extents in [1, 4), strides and
// dilations in [1, 3), and each input extent within 6 of its kernel field.
func RandomProblem2D[T hwy.Floats](rng *rand.Rand) Problem[T] {
	g := Geometry{
		InputChannels:  1 + rng.IntN(5),
		OutputChannels: 1 + rng.IntN(11),
		InputShape:     make([]int, 2),
		KernelShape:    make([]int, 2),
		Strides:        make([]int, 2),
		Dilations:      make([]int, 2),
	}
	for a := range 2 {
		g.KernelShape[a] = 1 + rng.IntN(3)
		g.Strides[a] = 1 + rng.IntN(2)
		g.Dilations[a] = 1 + rng.IntN(2)
		g.InputShape[a] = g.KernelField(a) + rng.IntN(6)
	}
	return randomValues[T](rng, g)
}

func randomValues[T hwy.Floats](rng *rand.Rand, g Geometry) Problem[T] {
	p := Problem[T]{
		Geometry: g,
		Filters:  make([]T, g.FilterLen()),
		Data:     make([]T, g.InputLen()),
	}
	for i := range p.Filters {
		p.Filters[i] = T(rng.IntN(20) - 10)
	}
	for i := range p.Data {
		p.Data[i] = T(rng.IntN(20) - 10)
	}
	return p
}
