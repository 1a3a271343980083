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

	"github.com/ajroetker/go-convpack/hwy"
)

// ErrInvalidOutputChannels is returned when the output channel count is not positive.
var ErrInvalidOutputChannels = errors.New("conv: output channels must be positive")

// Conv is a configured convolution over element type T.
//
// PackA reorganizes a filter tensor once; Apply then convolves any number of
// inputs with the packed result. Implementations are immutable and safe for
// concurrent use as long as concurrent Apply calls write disjoint outputs.
type Conv[T hwy.Floats] interface {
	// CO returns the number of output channels (rows of the implied matmul).
	CO() int
	// N returns the number of output positions (columns).
	N() int
	// K returns the contraction length.
	K() int
	// PackedALen returns the number of elements PackA writes into.
	PackedALen() int
	// PackedAAlignment returns the byte alignment PackA and Apply require.
	PackedAAlignment() int
	// PackA packs the [co, k] filter matrix whose element (i, j) is
	// a[aBase + i*rsa + j*csa] into pa.
	PackA(pa, a []T, aBase, rsa, csa int)
	// Apply convolves input b with packed filters pa, writing output
	// element (i, j) to c[cBase + i*rsc + j*csc].
	Apply(pa, b, c []T, cBase, rsc, csc int)
}

// PackedConv is the packed-operand convolution driven by kernel type K.
// A *PackedConv is an immutable handle: share it freely between goroutines.
type PackedConv[T hwy.Floats, K Kernel[T]] struct {
	co, k, n      int
	kernelOffsets []int
	dataOffsets   []int
	inputReach    int
	kernel        K
}

var _ Conv[float32] = (*PackedConv[float32, Kernel[float32]])(nil)

// New returns a convolution for geometry g driven by kernel.
func New[T hwy.Floats, K Kernel[T]](g Geometry, kernel K) (*PackedConv[T, K], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return NewFromOffsets[T](g.OutputChannels, g.KernelOffsets(), g.DataOffsets(), kernel)
}

// NewAuto returns a convolution for geometry g driven by Best[T]().
func NewAuto[T hwy.Floats](g Geometry) (*PackedConv[T, Kernel[T]], error) {
	return New[T](g, Best[T]())
}

// NewFromOffsets returns a convolution over co output channels from raw
// (unpadded) kernel and data offset tables in element units.
func NewFromOffsets[T hwy.Floats, K Kernel[T]](co int, kernelOffsets, dataOffsets []int, kernel K) (*PackedConv[T, K], error) {
	if co <= 0 {
		return nil, fmt.Errorf("%w: co=%d", ErrInvalidOutputChannels, co)
	}
	if kernel.MR() <= 0 {
		return nil, fmt.Errorf("%w: %s mr=%d", ErrInvalidTileSize, kernel.Name(), kernel.MR())
	}
	offsets, err := NewOffsets(kernelOffsets, dataOffsets, kernel.NR())
	if err != nil {
		return nil, err
	}
	return &PackedConv[T, K]{
		co:            co,
		k:             offsets.K,
		n:             offsets.N,
		kernelOffsets: offsets.Kernel,
		dataOffsets:   offsets.Data,
		inputReach:    offsets.InputReach(),
		kernel:        kernel,
	}, nil
}

// CO returns the number of output channels.
func (c *PackedConv[T, K]) CO() int { return c.co }

// N returns the number of output positions.
func (c *PackedConv[T, K]) N() int { return c.n }

// K returns the contraction length.
func (c *PackedConv[T, K]) K() int { return c.k }

// Kernel returns the kernel driving this convolution.
func (c *PackedConv[T, K]) Kernel() K { return c.kernel }

// InputReach returns the minimum input length Apply accepts.
func (c *PackedConv[T, K]) InputReach() int { return c.inputReach }

// PackedALen returns ceil(co/mr)*mr*k.
func (c *PackedConv[T, K]) PackedALen() int {
	mr := c.kernel.MR()
	return (c.co + mr - 1) / mr * mr * c.k
}

// PackedAAlignment returns the kernel's operand A alignment in bytes.
func (c *PackedConv[T, K]) PackedAAlignment() int {
	return c.kernel.AlignmentBytesA()
}

// AllocPackedA returns a zeroed buffer of PackedALen elements aligned to
// PackedAAlignment.
func (c *PackedConv[T, K]) AllocPackedA() []T {
	return hwy.AlignedSlice[T](c.PackedALen(), c.PackedAAlignment())
}

// PackFilters allocates a packed buffer and packs filters, a dense row-major
// [co, k] matrix, into it.
func (c *PackedConv[T, K]) PackFilters(filters []T) []T {
	pa := c.AllocPackedA()
	c.PackA(pa, filters, 0, c.k, 1)
	return pa
}

// String describes the convolution and its kernel.
func (c *PackedConv[T, K]) String() string {
	return fmt.Sprintf("Conv co:%d k:%d centers:%d (%s %dx%d)",
		c.co, c.k, c.n, c.kernel.Name(), c.kernel.MR(), c.kernel.NR())
}
