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
	"strings"

	"github.com/BurntSushi/toml"
)

// Config controls convbench. Defaults come from DefaultConfig, a TOML file
// overlays the keys it defines, and command-line flags override both.
type Config struct {
	LogLevel string
	DType    string
	Seed     uint64
	Cases    int
	Workers  int
	Kernels  []string
	Bench    BenchConfig
}

// BenchConfig is the 1-D geometry and loop settings of the bench command.
type BenchConfig struct {
	InputChannels  int
	OutputChannels int
	KernelSize     int
	Stride         int
	Dilation       int
	Width          int
	Iterations     int
	Parallel       bool
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		DType:    "float32",
		Seed:     1,
		Cases:    200,
		Workers:  4,
		Bench: BenchConfig{
			InputChannels:  64,
			OutputChannels: 128,
			KernelSize:     3,
			Stride:         1,
			Dilation:       1,
			Width:          1026,
			Iterations:     50,
		},
	}
}

type fileConfig struct {
	LogLevel string          `toml:"log_level"`
	DType    string          `toml:"dtype"`
	Seed     uint64          `toml:"seed"`
	Cases    int             `toml:"cases"`
	Workers  int             `toml:"workers"`
	Kernels  []string        `toml:"kernels"`
	Bench    benchFileConfig `toml:"bench"`
}

type benchFileConfig struct {
	InputChannels  int  `toml:"input_channels"`
	OutputChannels int  `toml:"output_channels"`
	KernelSize     int  `toml:"kernel_size"`
	Stride         int  `toml:"stride"`
	Dilation       int  `toml:"dilation"`
	Width          int  `toml:"width"`
	Iterations     int  `toml:"iterations"`
	Parallel       bool `toml:"parallel"`
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load convbench config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load convbench config: unknown keys %v", undecoded)
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("dtype") {
		cfg.DType = strings.TrimSpace(raw.DType)
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("cases") {
		cfg.Cases = raw.Cases
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("kernels") {
		cfg.Kernels = normalizeNames(raw.Kernels)
	}

	b := &cfg.Bench
	if meta.IsDefined("bench", "input_channels") {
		b.InputChannels = raw.Bench.InputChannels
	}
	if meta.IsDefined("bench", "output_channels") {
		b.OutputChannels = raw.Bench.OutputChannels
	}
	if meta.IsDefined("bench", "kernel_size") {
		b.KernelSize = raw.Bench.KernelSize
	}
	if meta.IsDefined("bench", "stride") {
		b.Stride = raw.Bench.Stride
	}
	if meta.IsDefined("bench", "dilation") {
		b.Dilation = raw.Bench.Dilation
	}
	if meta.IsDefined("bench", "width") {
		b.Width = raw.Bench.Width
	}
	if meta.IsDefined("bench", "iterations") {
		b.Iterations = raw.Bench.Iterations
	}
	if meta.IsDefined("bench", "parallel") {
		b.Parallel = raw.Bench.Parallel
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.DType {
	case "float32", "float64":
	default:
		return fmt.Errorf("unsupported dtype %q (want float32 or float64)", c.DType)
	}
	if c.Cases <= 0 {
		return fmt.Errorf("cases must be positive, got %d", c.Cases)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Bench.Iterations <= 0 {
		return fmt.Errorf("bench iterations must be positive, got %d", c.Bench.Iterations)
	}
	return nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
