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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "convbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := loadConfig("convbench.example.toml")
	require.NoError(t, err)
	require.NoError(t, cfg.validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "float32", cfg.DType)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 50, cfg.Cases)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"unrolled4x4", "generic3x5"}, cfg.Kernels)
	assert.Equal(t, BenchConfig{
		InputChannels:  32,
		OutputChannels: 48,
		KernelSize:     5,
		Stride:         2,
		Dilation:       1,
		Width:          515,
		Iterations:     10,
		Parallel:       true,
	}, cfg.Bench)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "cases = 9\n[bench]\nwidth = 300\n")
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Cases = 9
	want.Bench.Width = 300
	assert.Equal(t, want, cfg)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "cases = 9\nthreads = 3\n")
	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threads")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"Defaults", func(*Config) {}, ""},
		{"Float64", func(c *Config) { c.DType = "float64" }, ""},
		{"BadDType", func(c *Config) { c.DType = "int8" }, "unsupported dtype"},
		{"NoCases", func(c *Config) { c.Cases = 0 }, "cases"},
		{"NoWorkers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"NoIterations", func(c *Config) { c.Bench.Iterations = 0 }, "iterations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNormalizeNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeNames([]string{" a", "", "b ", "  "}))
	assert.Empty(t, normalizeNames(nil))
}
