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

package hwy

import "testing"

func TestNewTile(t *testing.T) {
	tile := NewTile[float32](4, 3)
	if tile.Rows() != 4 || tile.Cols() != 3 {
		t.Errorf("tile dims = %dx%d, want 4x3", tile.Rows(), tile.Cols())
	}
	if len(tile.Data()) != 12 {
		t.Errorf("len(tile.Data()) = %d, want 12", len(tile.Data()))
	}
	for i, v := range tile.Data() {
		if v != 0 {
			t.Errorf("tile.data[%d] = %f, want 0", i, v)
		}
	}
}

func TestTileZero(t *testing.T) {
	tile := NewTile[float64](3, 5)

	// Fill with non-zero values
	for i := range tile.data {
		tile.data[i] = float64(i + 1)
	}

	TileZero(&tile)

	for i := range tile.data {
		if tile.data[i] != 0 {
			t.Errorf("after TileZero: tile.data[%d] = %f, want 0", i, tile.data[i])
		}
	}
}

func TestOuterProductAdd(t *testing.T) {
	rows, cols := 3, 4
	tile := NewTile[float32](rows, cols)

	// row = [1, 2, 3] and col = [10, 20, 30, 40]
	row := []float32{1, 2, 3}
	col := []float32{10, 20, 30, 40}

	OuterProductAdd(&tile, row, col)
	OuterProductAdd(&tile, row, col)

	for i := range rows {
		for j := range cols {
			want := 2 * row[i] * col[j]
			if got := tile.data[i*cols+j]; got != want {
				t.Errorf("tile[%d][%d] = %f, want %f", i, j, got, want)
			}
		}
	}
}

func TestTileStoreRow(t *testing.T) {
	tile := NewTile[float32](2, 3)
	copy(tile.data, []float32{1, 2, 3, 4, 5, 6})

	dst := make([]float32, 3)
	TileStoreRow(&tile, 1, dst)
	for j, want := range []float32{4, 5, 6} {
		if dst[j] != want {
			t.Errorf("dst[%d] = %f, want %f", j, dst[j], want)
		}
	}
}

func TestTileScatter(t *testing.T) {
	tile := NewTile[float32](2, 2)
	copy(tile.data, []float32{1, 2, 3, 4})

	t.Run("RowMajor", func(t *testing.T) {
		dst := make([]float32, 9)
		TileScatter(&tile, dst, 4, 3, 1)
		want := []float32{0, 0, 0, 0, 1, 2, 0, 3, 4}
		for i := range want {
			if dst[i] != want[i] {
				t.Errorf("dst[%d] = %f, want %f", i, dst[i], want[i])
			}
		}
	})

	t.Run("Transposed", func(t *testing.T) {
		dst := make([]float32, 4)
		TileScatter(&tile, dst, 0, 1, 2)
		want := []float32{1, 3, 2, 4}
		for i := range want {
			if dst[i] != want[i] {
				t.Errorf("dst[%d] = %f, want %f", i, dst[i], want[i])
			}
		}
	})

	t.Run("NegativeStride", func(t *testing.T) {
		dst := make([]float32, 4)
		TileScatter(&tile, dst, 2, -2, 1)
		want := []float32{3, 4, 1, 2}
		for i := range want {
			if dst[i] != want[i] {
				t.Errorf("dst[%d] = %f, want %f", i, dst[i], want[i])
			}
		}
	})
}

func TestTileScatterSub(t *testing.T) {
	tile := NewTile[float32](3, 3)
	for i := range tile.data {
		tile.data[i] = float32(i + 1)
	}

	sentinel := float32(-1)
	for _, colStride := range []int{1, 3} {
		dst := make([]float32, 9)
		for i := range dst {
			dst[i] = sentinel
		}
		rowStride := 3
		if colStride == 3 {
			rowStride = 1
		}
		TileScatterSub(&tile, 2, 1, dst, 0, rowStride, colStride)

		written := 0
		for _, v := range dst {
			if v != sentinel {
				written++
			}
		}
		if written != 2 {
			t.Errorf("colStride=%d: wrote %d elements, want 2", colStride, written)
		}
		if dst[0] != 1 || dst[rowStride] != 4 {
			t.Errorf("colStride=%d: got (%f, %f), want (1, 4)", colStride, dst[0], dst[rowStride])
		}
	}
}
