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
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg        Config
	log        zerolog.Logger
	configPath string
	logOut     io.Writer
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{cfg: DefaultConfig(), logOut: logOut}

	root := &cobra.Command{
		Use:           "convbench",
		Short:         "Verify and benchmark packed convolution kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "TOML config file")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&a.cfg.DType, "dtype", a.cfg.DType, "element type: float32 or float64")
	flags.StringSliceVar(&a.cfg.Kernels, "kernel", nil, "kernel names to use (default: all for check, best for bench)")

	root.AddCommand(newKernelsCmd(a), newCheckCmd(a), newBenchCmd(a))
	return root
}

// setup overlays the config file under the flags the user set explicitly and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		fileCfg, err := loadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = mergeFlags(cmd, fileCfg, a.cfg)
	}
	if err := a.cfg.validate(); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.logOut, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Str("dtype", a.cfg.DType).
		Logger()
	a.log.Debug().Str("config", a.configPath).Msg("configured")
	return nil
}

// mergeFlags returns base with every explicitly set flag value taken from
// flagged.
func mergeFlags(cmd *cobra.Command, base, flagged Config) Config {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		base.LogLevel = flagged.LogLevel
	}
	if changed("dtype") {
		base.DType = flagged.DType
	}
	if changed("kernel") {
		base.Kernels = flagged.Kernels
	}
	if changed("seed") {
		base.Seed = flagged.Seed
	}
	if changed("cases") {
		base.Cases = flagged.Cases
	}
	if changed("workers") {
		base.Workers = flagged.Workers
	}
	if changed("iterations") {
		base.Bench.Iterations = flagged.Bench.Iterations
	}
	if changed("width") {
		base.Bench.Width = flagged.Bench.Width
	}
	if changed("parallel") {
		base.Bench.Parallel = flagged.Bench.Parallel
	}
	return base
}
