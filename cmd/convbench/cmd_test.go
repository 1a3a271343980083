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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (stdout, logs string, err error) {
	t.Helper()
	var out, log bytes.Buffer
	cmd := newRootCmd(&log)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), log.String(), err
}

func TestKernelsCommand(t *testing.T) {
	out, _, err := runCmd(t, "kernels")
	require.NoError(t, err)
	assert.Contains(t, out, "dispatch level:")
	for _, name := range []string{"unrolled4x4", "unrolled8x4", "unrolled16x4", "generic3x5"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Unrolled")
	assert.Contains(t, out, "Generic")
	assert.Equal(t, 1, strings.Count(out, "*"), "exactly one kernel is selected")
}

func TestCheckCommand(t *testing.T) {
	_, logs, err := runCmd(t, "--log-level", "info", "check", "--cases", "8", "--workers", "3")
	require.NoError(t, err)
	assert.Contains(t, logs, "unrolled16x4")
	assert.Contains(t, logs, "generic6x16")
	assert.Contains(t, logs, "kernel matches naive convolution")
}

func TestCheckCommandFloat64(t *testing.T) {
	_, logs, err := runCmd(t, "--dtype", "float64", "--kernel", "unrolled8x4", "check", "--cases", "4")
	require.NoError(t, err)
	assert.Contains(t, logs, "unrolled8x4")
	assert.NotContains(t, logs, "unrolled4x4")
}

func TestCheckCommandUsesConfigFile(t *testing.T) {
	_, logs, err := runCmd(t, "--config", "convbench.example.toml", "check", "--cases", "3")
	require.NoError(t, err)
	assert.Contains(t, logs, "unrolled4x4")
	assert.Contains(t, logs, "generic3x5")
	assert.NotContains(t, logs, "unrolled8x4")
}

func TestCheckCommandUnknownKernel(t *testing.T) {
	_, _, err := runCmd(t, "--kernel", "nope", "check", "--cases", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kernel")
}

func TestBenchCommand(t *testing.T) {
	out, _, err := runCmd(t, "--kernel", "unrolled4x4,generic3x5", "bench", "--iterations", "1", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "unrolled4x4")
	assert.Contains(t, out, "generic3x5")
	assert.Contains(t, out, "GFLOP/s")
}

func TestBenchCommandParallel(t *testing.T) {
	out, _, err := runCmd(t, "bench", "--iterations", "2", "--width", "200", "--parallel", "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "GFLOP/s"))
}

func TestInvalidDType(t *testing.T) {
	_, _, err := runCmd(t, "--dtype", "int8", "kernels")
	require.Error(t, err)
}

func TestKernelFamily(t *testing.T) {
	assert.Equal(t, "unrolled", kernelFamily("unrolled16x4"))
	assert.Equal(t, "generic", kernelFamily("generic6x16"))
}
