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

// Tile is a Rows × Cols accumulator stored row-major in a flat slice.
// Compute kernels accumulate outer products into a Tile and then write it
// out through arbitrary row/column strides; the convolution driver also uses
// one as scratch for partial output tiles.
//
// Tile instances should be created with NewTile and zeroed with TileZero.
type Tile[T Floats] struct {
	data []T
	rows int
	cols int
}

// NewTile creates a zero-initialized rows × cols tile.
func NewTile[T Floats](rows, cols int) Tile[T] {
	return Tile[T]{data: make([]T, rows*cols), rows: rows, cols: cols}
}

// Rows returns the number of tile rows.
func (t *Tile[T]) Rows() int { return t.rows }

// Cols returns the number of tile columns.
func (t *Tile[T]) Cols() int { return t.cols }

// Data returns the row-major backing slice (row stride Cols, column stride 1).
func (t *Tile[T]) Data() []T { return t.data }

// TileZero zeroes all elements of the tile.
func TileZero[T Floats](tile *Tile[T]) {
	clear(tile.data)
}

// OuterProductAdd accumulates an outer product into the tile:
//
//	tile[i][j] += row[i] * col[j]
//
// PRECONDITION: len(row) >= Rows and len(col) >= Cols.
func OuterProductAdd[T Floats](tile *Tile[T], row, col []T) {
	cols := tile.cols
	col = col[:cols]
	for i := range tile.rows {
		ri := row[i]
		dst := tile.data[i*cols : (i+1)*cols]
		for j, cj := range col {
			dst[j] += ri * cj
		}
	}
}

// TileStoreRow copies tile row rowIdx to dst.
// PRECONDITION: len(dst) >= Cols.
func TileStoreRow[T Floats](tile *Tile[T], rowIdx int, dst []T) {
	cols := tile.cols
	copy(dst[:cols], tile.data[rowIdx*cols:(rowIdx+1)*cols])
}

// TileScatter writes the whole tile to dst, element (i, j) landing at
// dst[base + i*rowStride + j*colStride]. Strides may be negative.
func TileScatter[T Floats](tile *Tile[T], dst []T, base, rowStride, colStride int) {
	TileScatterSub(tile, tile.rows, tile.cols, dst, base, rowStride, colStride)
}

// TileScatterSub writes the top-left rows × cols sub-rectangle of the tile to
// dst with the same addressing as TileScatter. Elements outside the
// sub-rectangle are never read.
func TileScatterSub[T Floats](tile *Tile[T], rows, cols int, dst []T, base, rowStride, colStride int) {
	if colStride == 1 {
		for i := range rows {
			off := base + i*rowStride
			copy(dst[off:off+cols], tile.data[i*tile.cols:i*tile.cols+cols])
		}
		return
	}
	for i := range rows {
		src := tile.data[i*tile.cols : i*tile.cols+cols]
		off := base + i*rowStride
		for j, v := range src {
			dst[off+j*colStride] = v
		}
	}
}
