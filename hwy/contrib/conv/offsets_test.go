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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadReplicate(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 3}, padReplicate([]int{1, 2, 3}, 4))
	assert.Equal(t, []int{1, 2, 3, 4}, padReplicate([]int{1, 2, 3, 4}, 4))
	assert.Equal(t, []int{7, 7, 7, 7, 7}, padReplicate([]int{7}, 5))
	assert.Equal(t, []int{5, 6}, padReplicate([]int{5, 6}, 1))
}

func TestNewOffsets(t *testing.T) {
	kernel := []int{0, 1, 10, 11, 20}
	data := []int{0, 2, 4, 6, 8}
	o, err := NewOffsets(kernel, data, 4)
	require.NoError(t, err)

	assert.Equal(t, 5, o.K)
	assert.Equal(t, 5, o.N)
	assert.Equal(t, []int{0, 1, 10, 11, 20, 20, 20, 20}, o.Kernel)
	assert.Equal(t, []int{0, 2, 4, 6, 8, 8, 8, 8}, o.Data)
	assert.Equal(t, 8+20+1, o.InputReach())

	// inputs untouched
	assert.Equal(t, []int{0, 1, 10, 11, 20}, kernel)
	assert.Len(t, data, 5)
}

func TestNewOffsetsErrors(t *testing.T) {
	_, err := NewOffsets(nil, []int{0}, 4)
	require.ErrorIs(t, err, ErrEmptyOffsets)

	_, err = NewOffsets([]int{0}, nil, 4)
	require.ErrorIs(t, err, ErrEmptyOffsets)

	_, err = NewOffsets([]int{0}, []int{0}, 0)
	require.ErrorIs(t, err, ErrInvalidTileSize)

	_, err = NewOffsets([]int{-3, 0}, []int{1, 2}, 4)
	require.ErrorIs(t, err, ErrNegativeOffset)

	// negative kernel offsets are fine while every pair stays in range
	_, err = NewOffsets([]int{-1, 0}, []int{1, 2}, 4)
	require.NoError(t, err)
}

func TestGeometryOffsets(t *testing.T) {
	g, err := NewGeometry1D(1, 2, 2, 1, 1, 7)
	require.NoError(t, err)

	o, err := g.Offsets(4)
	require.NoError(t, err)
	assert.Equal(t, 2, o.K)
	assert.Equal(t, 6, o.N)
	assert.Equal(t, []int{0, 1, 1, 1}, o.Kernel)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 5, 5}, o.Data)
	assert.Equal(t, g.InputLen(), o.InputReach())

	_, err = Geometry{}.Offsets(4)
	require.ErrorIs(t, err, ErrInvalidChannels)
}

func TestOffsetsScaled(t *testing.T) {
	o, err := NewOffsets([]int{0, 3, 5}, []int{0, 1}, 2)
	require.NoError(t, err)

	s := o.Scaled(4)
	assert.Equal(t, []int{0, 12, 20, 20}, s.Kernel)
	assert.Equal(t, o.Data, s.Data)
	assert.Equal(t, o.K, s.K)

	// the original is not modified
	assert.Equal(t, []int{0, 3, 5, 5}, o.Kernel)
}
