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
	"testing"

	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func float32Kernels() []Kernel[float32] {
	return Float32Kernels.Kernels()
}

func newTestConv[T float32 | float64](t testing.TB, g Geometry, k Kernel[T]) *PackedConv[T, Kernel[T]] {
	t.Helper()
	c, err := New[T](g, k)
	require.NoError(t, err)
	return c
}

// referenceTile computes one tile straight from the kernel contract.
func referenceTile(mr, nr, k int, a, b []float32, bTops, kernelOffsets []int) []float32 {
	out := make([]float32, mr*nr)
	for i := range mr {
		for j := range nr {
			var sum float32
			for t := range k {
				sum += a[t*mr+i] * b[bTops[j]+kernelOffsets[t]]
			}
			out[i*nr+j] = sum
		}
	}
	return out
}

// recordingKernel wraps a kernel and records where each call wrote.
type recordingKernel struct {
	Kernel[float32]
	calls []kernelCall
}

type kernelCall struct {
	cLen, cBase, rsc, csc int
	bTops                 []int
}

func (r *recordingKernel) Run(k int, a, b []float32, bTops, kernelOffsets []int, c []float32, cBase, rsc, csc int) {
	r.calls = append(r.calls, kernelCall{
		cLen: len(c), cBase: cBase, rsc: rsc, csc: csc,
		bTops: append([]int(nil), bTops...),
	})
	r.Kernel.Run(k, a, b, bTops, kernelOffsets, c, cBase, rsc, csc)
}
