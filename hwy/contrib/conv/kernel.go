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

import "github.com/ajroetker/go-convpack/hwy"

// Kernel is a compute microkernel producing one full MR × NR output tile.
//
// Run computes, for i in [0, MR) and j in [0, NR):
//
//	c[cBase + i*rsc + j*csc] = sum over t in [0, k) of
//	    a[t*MR + i] * b[bTops[j] + kernelOffsets[t]]
//
// where a is exactly one packed row panel ([k, MR] layout), bTops holds
// exactly NR receptive-field origins and kernelOffsets at least k entries.
// The tile is written, not accumulated into. Strides may be negative.
//
// Run is only ever asked for full tiles: the driver handles edges by pointing
// c at a scratch tile. Implementations must not retain any argument and must
// be safe for concurrent use.
type Kernel[T hwy.Floats] interface {
	// Name identifies the kernel in logs and the registry.
	Name() string
	// MR is the row tile: output channels per call.
	MR() int
	// NR is the column tile: output positions per call.
	NR() int
	// AlignmentBytesA is the required alignment of the packed filter buffer.
	AlignmentBytesA() int
	// AlignmentBytesB is the required alignment of the input buffer.
	AlignmentBytesB() int
	Run(k int, a, b []T, bTops, kernelOffsets []int, c []T, cBase, rsc, csc int)
}
