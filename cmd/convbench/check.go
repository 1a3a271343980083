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
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-convpack/hwy"
	"github.com/ajroetker/go-convpack/hwy/contrib/conv"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare kernels against the naive convolution on random problems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch a.cfg.DType {
			case "float64":
				return runCheck(cmd.Context(), a.log, a.cfg, conv.Float64Kernels)
			default:
				return runCheck(cmd.Context(), a.log, a.cfg, conv.Float32Kernels)
			}
		},
	}
	flags := cmd.Flags()
	flags.Uint64Var(&a.cfg.Seed, "seed", a.cfg.Seed, "random seed")
	flags.IntVar(&a.cfg.Cases, "cases", a.cfg.Cases, "random problems per kernel")
	flags.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "problems checked concurrently")
	return cmd
}

// runCheck verifies each selected kernel on cfg.Cases random problems. Every
// fourth problem is two-dimensional. Case i of every kernel uses the same
// problem, so a failure names a reproducible (seed, case) pair.
func runCheck[T hwy.Floats](ctx context.Context, log zerolog.Logger, cfg Config, reg *conv.Registry[T]) error {
	if ctx == nil {
		ctx = context.Background()
	}
	kernels, err := selectKernels(reg, cfg.Kernels, true, nil)
	if err != nil {
		return err
	}

	for _, kern := range kernels {
		var checked atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for i := range cfg.Cases {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				p := checkProblem[T](cfg.Seed, i)
				c, err := conv.New[T](p.Geometry, kern)
				if err != nil {
					return fmt.Errorf("%s case %d: %w", kern.Name(), i, err)
				}
				got := p.Run(c)
				want := p.Expected()
				for j := range want {
					if got[j] != want[j] {
						return fmt.Errorf("%s case %d (%s): output %d = %v, want %v",
							kern.Name(), i, p.Geometry, j, got[j], want[j])
					}
				}
				checked.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Str("kernel", kern.Name()).Msg("check failed")
			return err
		}
		log.Info().
			Str("kernel", kern.Name()).
			Int("mr", kern.MR()).
			Int("nr", kern.NR()).
			Int64("cases", checked.Load()).
			Msg("kernel matches naive convolution")
	}
	return nil
}

func checkProblem[T hwy.Floats](seed uint64, i int) conv.Problem[T] {
	rng := rand.New(rand.NewPCG(seed, uint64(i)))
	if i%4 == 3 {
		return conv.RandomProblem2D[T](rng)
	}
	return conv.RandomProblem1D[T](rng)
}
