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

import (
	"fmt"
	"unsafe"
)

// IsAligned reports whether the first element of s sits on an align-byte
// boundary. An empty slice is considered aligned.
func IsAligned[T Floats](s []T, align int) bool {
	if len(s) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&s[0]))%uintptr(align) == 0
}

// AlignedSlice allocates n elements whose backing array starts on an
// align-byte boundary. It over-allocates by up to align bytes and slices off
// the misaligned prefix, so the result has cap >= n but must not be appended to
// if alignment is to be kept.
//
// PRECONDITION: align is a power of two and a multiple of the element size.
func AlignedSlice[T Floats](n, align int) []T {
	size := SizeOf[T]()
	if align < 0 || align&(align-1) != 0 || (align > size && align%size != 0) {
		panic(fmt.Sprintf("hwy: invalid alignment %d for %d-byte elements", align, size))
	}
	if n == 0 {
		return []T{}
	}
	if align <= size {
		return make([]T, n)
	}
	extra := align / size
	buf := make([]T, n+extra)
	ptr := uintptr(unsafe.Pointer(&buf[0]))
	offset := 0
	if mod := ptr % uintptr(align); mod != 0 {
		offset = int((uintptr(align) - mod) / uintptr(size))
	}
	return buf[offset : offset+n : offset+n]
}
