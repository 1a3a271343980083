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

import "github.com/ajroetker/go-convpack/hwy"

// The unrolled kernels keep an MR × 4 accumulator block in a fixed-size
// array across the whole contraction loop and load the four B taps once per
// step. MR grows with the vector width of the dispatch level they are
// registered for; operand A alignment matches that width.

// Kernel4x4 is the 4 × 4 register-blocked kernel (SSE2, scalar).
type Kernel4x4[T hwy.Floats] struct{}

func (Kernel4x4[T]) Name() string         { return "unrolled4x4" }
func (Kernel4x4[T]) MR() int              { return 4 }
func (Kernel4x4[T]) NR() int              { return 4 }
func (Kernel4x4[T]) AlignmentBytesA() int { return 16 }
func (Kernel4x4[T]) AlignmentBytesB() int { return hwy.SizeOf[T]() }

func (Kernel4x4[T]) Run(k int, a, b []T, bTops, kernelOffsets []int, c []T, cBase, rsc, csc int) {
	var acc [4][4]T
	accumulateNx4(acc[:], k, a, b, bTops, kernelOffsets)
	storeNx4(acc[:], c, cBase, rsc, csc)
}

// Kernel8x4 is the 8 × 4 register-blocked kernel (AVX2, NEON, SVE).
type Kernel8x4[T hwy.Floats] struct{}

func (Kernel8x4[T]) Name() string         { return "unrolled8x4" }
func (Kernel8x4[T]) MR() int              { return 8 }
func (Kernel8x4[T]) NR() int              { return 4 }
func (Kernel8x4[T]) AlignmentBytesA() int { return 32 }
func (Kernel8x4[T]) AlignmentBytesB() int { return hwy.SizeOf[T]() }

func (Kernel8x4[T]) Run(k int, a, b []T, bTops, kernelOffsets []int, c []T, cBase, rsc, csc int) {
	var acc [8][4]T
	accumulateNx4(acc[:], k, a, b, bTops, kernelOffsets)
	storeNx4(acc[:], c, cBase, rsc, csc)
}

// Kernel16x4 is the 16 × 4 register-blocked kernel (AVX-512).
type Kernel16x4[T hwy.Floats] struct{}

func (Kernel16x4[T]) Name() string         { return "unrolled16x4" }
func (Kernel16x4[T]) MR() int              { return 16 }
func (Kernel16x4[T]) NR() int              { return 4 }
func (Kernel16x4[T]) AlignmentBytesA() int { return 64 }
func (Kernel16x4[T]) AlignmentBytesB() int { return hwy.SizeOf[T]() }

func (Kernel16x4[T]) Run(k int, a, b []T, bTops, kernelOffsets []int, c []T, cBase, rsc, csc int) {
	var acc [16][4]T
	accumulateNx4(acc[:], k, a, b, bTops, kernelOffsets)
	storeNx4(acc[:], c, cBase, rsc, csc)
}

// accumulateNx4 adds the len(acc) × 4 tile product into acc.
func accumulateNx4[T hwy.Floats](acc [][4]T, k int, a, b []T, bTops, kernelOffsets []int) {
	mr := len(acc)
	a = a[:k*mr]
	t0, t1, t2, t3 := bTops[0], bTops[1], bTops[2], bTops[3]
	for t, off := range kernelOffsets[:k] {
		b0 := b[t0+off]
		b1 := b[t1+off]
		b2 := b[t2+off]
		b3 := b[t3+off]
		for i, ai := range a[t*mr : (t+1)*mr] {
			r := &acc[i]
			r[0] += ai * b0
			r[1] += ai * b1
			r[2] += ai * b2
			r[3] += ai * b3
		}
	}
}

func storeNx4[T hwy.Floats](acc [][4]T, c []T, cBase, rsc, csc int) {
	if csc == 1 {
		for i := range acc {
			off := cBase + i*rsc
			copy(c[off:off+4], acc[i][:])
		}
		return
	}
	for i := range acc {
		off := cBase + i*rsc
		c[off] = acc[i][0]
		c[off+csc] = acc[i][1]
		c[off+2*csc] = acc[i][2]
		c[off+3*csc] = acc[i][3]
	}
}
