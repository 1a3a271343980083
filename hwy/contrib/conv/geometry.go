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
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Geometry errors. Validate and the constructors wrap these with details.
var (
	ErrInvalidChannels = errors.New("conv: channel counts must be positive")
	ErrRankMismatch    = errors.New("conv: spatial rank mismatch")
	ErrInvalidKernel   = errors.New("conv: kernel extents must be positive")
	ErrInvalidStride   = errors.New("conv: strides must be positive")
	ErrInvalidDilation = errors.New("conv: dilations must be positive")
	ErrEmptyOutput     = errors.New("conv: kernel field exceeds input extent")
)

// Geometry describes an already padded, valid convolution.
//
// The input is laid out channel-major and row-major over the spatial axes:
// element (c, x0, ..., xd) lives at c*prod(InputShape) + sum(xa*inStride[a]).
// Filters are [OutputChannels, InputChannels, KernelShape...] row-major, which
// flattens to the [co, K()] matrix the packer consumes. The output is
// [OutputChannels, OutputShape...].
//
// Strides and Dilations may be nil, meaning 1 on every axis.
type Geometry struct {
	InputChannels  int
	OutputChannels int
	InputShape     []int
	KernelShape    []int
	Strides        []int
	Dilations      []int
}

// NewGeometry1D returns a validated one-dimensional geometry.
func NewGeometry1D(ci, co, kt, stride, dilation, inputWidth int) (Geometry, error) {
	g := Geometry{
		InputChannels:  ci,
		OutputChannels: co,
		InputShape:     []int{inputWidth},
		KernelShape:    []int{kt},
		Strides:        []int{stride},
		Dilations:      []int{dilation},
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Rank returns the number of spatial axes.
func (g Geometry) Rank() int {
	return len(g.InputShape)
}

// Validate checks the geometry and reports the first violation found.
func (g Geometry) Validate() error {
	if g.InputChannels <= 0 || g.OutputChannels <= 0 {
		return fmt.Errorf("%w: ci=%d co=%d", ErrInvalidChannels, g.InputChannels, g.OutputChannels)
	}
	rank := g.Rank()
	if rank == 0 || len(g.KernelShape) != rank {
		return fmt.Errorf("%w: input rank %d, kernel rank %d", ErrRankMismatch, rank, len(g.KernelShape))
	}
	if g.Strides != nil && len(g.Strides) != rank {
		return fmt.Errorf("%w: %d strides for rank %d", ErrRankMismatch, len(g.Strides), rank)
	}
	if g.Dilations != nil && len(g.Dilations) != rank {
		return fmt.Errorf("%w: %d dilations for rank %d", ErrRankMismatch, len(g.Dilations), rank)
	}
	if !lo.EveryBy(g.KernelShape, positive) {
		return fmt.Errorf("%w: %v", ErrInvalidKernel, g.KernelShape)
	}
	if !lo.EveryBy(g.Strides, positive) {
		return fmt.Errorf("%w: %v", ErrInvalidStride, g.Strides)
	}
	if !lo.EveryBy(g.Dilations, positive) {
		return fmt.Errorf("%w: %v", ErrInvalidDilation, g.Dilations)
	}
	for a := range rank {
		if field := g.KernelField(a); g.InputShape[a] < field {
			return fmt.Errorf("%w: axis %d input %d < field %d", ErrEmptyOutput, a, g.InputShape[a], field)
		}
	}
	return nil
}

// Stride returns the stride along axis a.
func (g Geometry) Stride(a int) int {
	if g.Strides == nil {
		return 1
	}
	return g.Strides[a]
}

// Dilation returns the dilation along axis a.
func (g Geometry) Dilation(a int) int {
	if g.Dilations == nil {
		return 1
	}
	return g.Dilations[a]
}

// KernelField returns the effective receptive-field extent along axis a:
// dilation*(extent-1) + 1.
func (g Geometry) KernelField(a int) int {
	return g.Dilation(a)*(g.KernelShape[a]-1) + 1
}

// K returns the contraction length: input channels times kernel volume.
func (g Geometry) K() int {
	return g.InputChannels * product(g.KernelShape)
}

// OutputShape returns the spatial output extents:
// (input - field)/stride + 1 per axis.
func (g Geometry) OutputShape() []int {
	out := make([]int, g.Rank())
	for a := range out {
		out[a] = (g.InputShape[a]-g.KernelField(a))/g.Stride(a) + 1
	}
	return out
}

// N returns the number of output positions per output channel.
func (g Geometry) N() int {
	return product(g.OutputShape())
}

// InputLen returns the number of elements in the input tensor.
func (g Geometry) InputLen() int {
	return g.InputChannels * product(g.InputShape)
}

// FilterLen returns the number of elements in the filter tensor.
func (g Geometry) FilterLen() int {
	return g.OutputChannels * g.K()
}

// OutputLen returns the number of elements in a dense output tensor.
func (g Geometry) OutputLen() int {
	return g.OutputChannels * g.N()
}

// inputStrides returns the row-major element strides of the spatial axes.
func (g Geometry) inputStrides() []int {
	strides := make([]int, g.Rank())
	s := 1
	for a := g.Rank() - 1; a >= 0; a-- {
		strides[a] = s
		s *= g.InputShape[a]
	}
	return strides
}

// KernelOffsets returns the unpadded kernel-offset table: for each input
// channel (outer) and kernel position (inner, row-major), the element offset
// channel*prod(InputShape) + sum(pos[a]*dilation[a]*inStride[a]).
// The order matches the column order of the [co, K] filter matrix.
func (g Geometry) KernelOffsets() []int {
	inStrides := g.inputStrides()
	channelStride := product(g.InputShape)
	taps := make([]int, 0, product(g.KernelShape))
	forEachIndex(g.KernelShape, func(pos []int) {
		off := 0
		for a, p := range pos {
			off += p * g.Dilation(a) * inStrides[a]
		}
		taps = append(taps, off)
	})

	offsets := make([]int, 0, g.K())
	for c := range g.InputChannels {
		for _, tap := range taps {
			offsets = append(offsets, c*channelStride+tap)
		}
	}
	return offsets
}

// DataOffsets returns the unpadded data-offset table: for each output
// position (row-major over OutputShape), the element offset of its
// receptive-field origin, sum(out[a]*stride[a]*inStride[a]).
func (g Geometry) DataOffsets() []int {
	inStrides := g.inputStrides()
	outShape := g.OutputShape()
	offsets := make([]int, 0, product(outShape))
	forEachIndex(outShape, func(idx []int) {
		off := 0
		for a, x := range idx {
			off += x * g.Stride(a) * inStrides[a]
		}
		offsets = append(offsets, off)
	})
	return offsets
}

// String formats the geometry for logs.
func (g Geometry) String() string {
	return fmt.Sprintf("ci=%d co=%d in=%v kernel=%v stride=%v dilation=%v",
		g.InputChannels, g.OutputChannels, g.InputShape, g.KernelShape, g.Strides, g.Dilations)
}

// forEachIndex calls fn with every index of shape in row-major order.
// The slice passed to fn is reused between calls.
func forEachIndex(shape []int, fn func(idx []int)) {
	if lo.SomeBy(shape, func(d int) bool { return d <= 0 }) {
		return
	}
	idx := make([]int, len(shape))
	for {
		fn(idx)
		a := len(shape) - 1
		for ; a >= 0; a-- {
			idx[a]++
			if idx[a] < shape[a] {
				break
			}
			idx[a] = 0
		}
		if a < 0 {
			return
		}
	}
}

func product(shape []int) int {
	return lo.Reduce(shape, func(acc, d, _ int) int { return acc * d }, 1)
}

func positive(v int) bool { return v > 0 }
