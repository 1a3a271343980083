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

// Package conv implements strided, dilated N-dimensional convolution as a
// register-blocked matrix multiply over a packed filter operand.
//
// No im2col buffer is built. Instead the convolution geometry is encoded as
// two integer offset tables:
//
//   - kernel offsets: for each contraction step t (input channel outer,
//     kernel position inner) the element offset of that tap relative to a
//     receptive-field origin;
//   - data offsets: for each output position the element offset of its
//     receptive-field origin relative to the start of the input.
//
// The filter tensor [co, k] is packed once into panels of MR rows
// ([panels, k, MR] layout) with PackA, and the packed buffer is then reused
// read-only by any number of Apply calls on different inputs. Apply walks the
// packed row panels and NR-wide column panels, runs the selected Kernel on
// full tiles directly against the output, and routes partial edge tiles
// through a small scratch tile so the output is never overrun.
//
// Kernels are selected by CPU dispatch level (see Best) or passed in
// explicitly; any type implementing Kernel can drive the engine.
//
// Usage:
//
//	geom, err := conv.NewGeometry1D(ci, co, kt, stride, dilation, width)
//	if err != nil {
//	    return err
//	}
//	c, err := conv.NewAuto[float32](geom)
//	if err != nil {
//	    return err
//	}
//	packed := c.PackFilters(filters)
//	out := make([]float32, geom.OutputLen())
//	c.Apply(packed, input, out, 0, geom.N(), 1)
package conv
