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
	"os"
	"strings"
)

// DispatchLevel identifies the widest vector instruction set usable on the
// running CPU. Levels are ordered: a higher level implies a wider register
// file, so kernels compare with >= to pick the largest tile they can hold.
type DispatchLevel int

const (
	DispatchScalar DispatchLevel = iota
	DispatchSSE2
	DispatchNEON
	DispatchAVX2
	DispatchSVE
	DispatchAVX512
)

// String returns the short lowercase name of the level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchNEON:
		return "neon"
	case DispatchAVX2:
		return "avx2"
	case DispatchSVE:
		return "sve"
	case DispatchAVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// Set by the per-architecture init in dispatch_<arch>.go.
var (
	currentLevel DispatchLevel
	currentWidth int
	currentName  string
)

// CurrentLevel returns the dispatch level detected at init.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the vector register width in bytes for the current level.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns the name of the current dispatch level.
func CurrentName() string {
	return currentName
}

// NoSimdEnv reports whether HWY_NO_SIMD is set to a truthy value.
// When set, detection is skipped and the scalar level is used.
func NoSimdEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("HWY_NO_SIMD"))) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// SetLevel overrides the detected level. It is meant for tests and
// diagnostic tools that need to exercise a specific kernel family; it is
// not safe to call concurrently with code that reads the level.
func SetLevel(level DispatchLevel) (restore func()) {
	prevLevel, prevWidth, prevName := currentLevel, currentWidth, currentName
	currentLevel = level
	currentWidth = level.Width()
	currentName = level.String()
	return func() {
		currentLevel, currentWidth, currentName = prevLevel, prevWidth, prevName
	}
}

// Width returns the vector register width in bytes for the level.
// Scalar mode reports 16 bytes for consistency with SSE2, and SVE reports
// its architectural minimum.
func (d DispatchLevel) Width() int {
	switch d {
	case DispatchAVX512:
		return 64
	case DispatchAVX2:
		return 32
	default:
		return 16
	}
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16 // Use 16-byte vectors even in scalar mode for consistency
	currentName = "scalar"
}
