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

import "unsafe"

// Floats is the set of element types the compute kernels operate on.
type Floats interface {
	~float32 | ~float64
}

// SizeOf returns the size in bytes of one element of T.
func SizeOf[T Floats]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
