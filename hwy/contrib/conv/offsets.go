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
	"slices"
)

// Offset-table errors.
var (
	ErrEmptyOffsets    = errors.New("conv: empty offset table")
	ErrNegativeOffset  = errors.New("conv: offsets reach before the input start")
	ErrInvalidTileSize = errors.New("conv: kernel tile sizes must be positive")
)

// Offsets holds the kernel-offset and data-offset tables consumed by the
// driver, each padded to a multiple of the kernel's column tile by repeating
// its final entry. Padded entries only ever feed scratch lanes that are
// discarded, so they never reach real output.
type Offsets struct {
	// Kernel holds len >= K entries; entry t is the offset of contraction
	// step t relative to a receptive-field origin.
	Kernel []int
	// Data holds len >= N entries; entry j is the receptive-field origin of
	// output position j relative to the start of the input.
	Data []int
	// K and N are the unpadded lengths.
	K, N int
}

// NewOffsets validates and pads raw kernel and data offset tables for a
// kernel with column tile nr. The input slices are not modified.
func NewOffsets(kernel, data []int, nr int) (Offsets, error) {
	if nr <= 0 {
		return Offsets{}, fmt.Errorf("%w: nr=%d", ErrInvalidTileSize, nr)
	}
	if len(kernel) == 0 {
		return Offsets{}, fmt.Errorf("%w: kernel offsets", ErrEmptyOffsets)
	}
	if len(data) == 0 {
		return Offsets{}, fmt.Errorf("%w: data offsets", ErrEmptyOffsets)
	}
	if reach := slices.Min(kernel) + slices.Min(data); reach < 0 {
		return Offsets{}, fmt.Errorf("%w: minimum offset %d", ErrNegativeOffset, reach)
	}
	return Offsets{
		Kernel: padReplicate(kernel, nr),
		Data:   padReplicate(data, nr),
		K:      len(kernel),
		N:      len(data),
	}, nil
}

// Offsets builds the padded tables for geometry g and column tile nr.
func (g Geometry) Offsets(nr int) (Offsets, error) {
	if err := g.Validate(); err != nil {
		return Offsets{}, err
	}
	return NewOffsets(g.KernelOffsets(), g.DataOffsets(), nr)
}

// InputReach returns the minimum input length every offset pair stays
// within: max(Data) + max(Kernel) + 1.
func (o Offsets) InputReach() int {
	return slices.Max(o.Data) + slices.Max(o.Kernel) + 1
}

// Scaled returns a copy whose kernel offsets are multiplied by unit. Kernels
// that address their B operand in units coarser or finer than one element
// (bytes, vector lanes) consume scaled offsets; the built-in kernels index
// typed slices and use unit 1.
func (o Offsets) Scaled(unit int) Offsets {
	kernel := make([]int, len(o.Kernel))
	for i, v := range o.Kernel {
		kernel[i] = v * unit
	}
	return Offsets{Kernel: kernel, Data: slices.Clone(o.Data), K: o.K, N: o.N}
}

// padReplicate returns a copy of s extended to a multiple of m by repeating
// its last element. s must be non-empty.
func padReplicate(s []int, m int) []int {
	n := (len(s) + m - 1) / m * m
	out := make([]int, n)
	copy(out, s)
	last := s[len(s)-1]
	for i := len(s); i < n; i++ {
		out[i] = last
	}
	return out
}
