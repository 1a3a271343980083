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

package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-convpack/hwy"
	"github.com/ajroetker/go-convpack/hwy/contrib/conv"
)

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time filter packing and convolution for the configured geometry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var results []benchResult
			var err error
			switch a.cfg.DType {
			case "float64":
				results, err = runBench(a.log, a.cfg, conv.Float64Kernels, conv.Best[float64]())
			default:
				results, err = runBench(a.log, a.cfg, conv.Float32Kernels, conv.Best[float32]())
			}
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s pack %10s  apply %10s  %7.2f GFLOP/s\n",
					r.Kernel, r.Pack, r.Apply, r.GFLOPS)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Uint64Var(&a.cfg.Seed, "seed", a.cfg.Seed, "random seed")
	flags.IntVar(&a.cfg.Bench.Iterations, "iterations", a.cfg.Bench.Iterations, "timed convolutions per kernel")
	flags.IntVar(&a.cfg.Bench.Width, "width", a.cfg.Bench.Width, "input width")
	flags.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "goroutines for --parallel")
	flags.BoolVar(&a.cfg.Bench.Parallel, "parallel", a.cfg.Bench.Parallel, "use ParallelApply")
	return cmd
}

type benchResult struct {
	Kernel string
	Pack   time.Duration
	Apply  time.Duration
	GFLOPS float64
}

func runBench[T hwy.Floats](log zerolog.Logger, cfg Config, reg *conv.Registry[T], best conv.Kernel[T]) ([]benchResult, error) {
	b := cfg.Bench
	g, err := conv.NewGeometry1D(b.InputChannels, b.OutputChannels, b.KernelSize, b.Stride, b.Dilation, b.Width)
	if err != nil {
		return nil, err
	}
	kernels, err := selectKernels(reg, cfg.Kernels, false, best)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	filters := make([]T, g.FilterLen())
	for i := range filters {
		filters[i] = T(rng.Float64()*2 - 1)
	}
	input := make([]T, g.InputLen())
	for i := range input {
		input[i] = T(rng.Float64()*2 - 1)
	}
	out := make([]T, g.OutputLen())
	flops := 2 * float64(g.OutputChannels) * float64(g.N()) * float64(g.K())

	log.Info().Stringer("geometry", g).Int("iterations", b.Iterations).Bool("parallel", b.Parallel).Msg("benchmark")

	results := make([]benchResult, 0, len(kernels))
	for _, kern := range kernels {
		c, err := conv.New[T](g, kern)
		if err != nil {
			return nil, err
		}
		pa := c.AllocPackedA()

		start := time.Now()
		c.PackA(pa, filters, 0, c.K(), 1)
		pack := time.Since(start)

		start = time.Now()
		for range b.Iterations {
			if b.Parallel {
				c.ParallelApply(cfg.Workers, pa, input, out, 0, c.N(), 1)
			} else {
				c.Apply(pa, input, out, 0, c.N(), 1)
			}
		}
		apply := time.Since(start) / time.Duration(b.Iterations)

		r := benchResult{
			Kernel: kern.Name(),
			Pack:   pack,
			Apply:  apply,
			GFLOPS: flops / apply.Seconds() / 1e9,
		}
		log.Debug().Str("kernel", r.Kernel).Dur("pack", r.Pack).Dur("apply", r.Apply).Float64("gflops", r.GFLOPS).Msg("timed")
		results = append(results, r)
	}
	return results, nil
}
