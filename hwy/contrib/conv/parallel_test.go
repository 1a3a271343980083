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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelApplyStrips(t *testing.T) {
	rng := testRNG(20)
	for i := range 50 {
		p := RandomProblem1D[float32](rng)
		want := p.Expected()
		for _, kern := range float32Kernels() {
			c := newTestConv(t, p.Geometry, kern)
			pa := c.PackFilters(p.Filters)
			for _, workers := range []int{1, 2, 5} {
				out := make([]float32, p.OutputLen())
				c.parallelApply(workers, 1, pa, p.Data, out, 0, c.N(), 1)
				require.Equal(t, want, out, "case %d %s workers=%d", i, kern.Name(), workers)
			}
		}
	}
}

func TestParallelApplyLarge(t *testing.T) {
	rng := testRNG(21)
	g, err := NewGeometry1D(16, 150, 5, 1, 2, 200)
	require.NoError(t, err)
	require.GreaterOrEqual(t, g.OutputChannels*g.N()*g.K(), MinParallelOps)
	p := randomValues[float32](rng, g)
	want := p.Expected()

	for _, kern := range float32Kernels() {
		c := newTestConv(t, g, kern)
		pa := c.PackFilters(p.Filters)
		out := make([]float32, g.OutputLen())
		c.ParallelApply(4, pa, p.Data, out, 0, c.N(), 1)
		require.Equal(t, want, out, kern.Name())
	}
}

func TestConcurrentApplySharedPackedBuffer(t *testing.T) {
	rng := testRNG(22)
	p := RandomProblem2D[float32](rng)
	c := newTestConv[float32](t, p.Geometry, Kernel8x4[float32]{})
	pa := c.PackFilters(p.Filters)

	const goroutines = 8
	inputs := make([]Problem[float32], goroutines)
	for i := range inputs {
		inputs[i] = randomValues[float32](rng, p.Geometry)
		inputs[i].Filters = p.Filters
	}
	outs := make([][]float32, goroutines)

	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Go(func() {
			out := make([]float32, p.OutputLen())
			c.Apply(pa, inputs[i].Data, out, 0, c.N(), 1)
			outs[i] = out
		})
	}
	wg.Wait()

	for i := range goroutines {
		require.Equal(t, inputs[i].Expected(), outs[i], "goroutine %d", i)
	}
}

func TestDefaultWorkers(t *testing.T) {
	require.GreaterOrEqual(t, DefaultWorkers(), 1)
}
