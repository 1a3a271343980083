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

// Package main prints the CPU features the dispatcher looks at and the
// convolution kernel it selects.
package main

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-convpack/hwy"
	"github.com/ajroetker/go-convpack/hwy/contrib/conv"
)

func main() {
	fmt.Printf("GOOS: %s\n", runtime.GOOS)
	fmt.Printf("GOARCH: %s\n", runtime.GOARCH)
	fmt.Printf("NumCPU: %d\n", runtime.NumCPU())
	fmt.Println()

	fmt.Printf("Dispatch level: %s\n", hwy.CurrentLevel())
	fmt.Printf("Dispatch width: %d bytes\n", hwy.CurrentWidth())
	fmt.Printf("Dispatch name:  %s\n", hwy.CurrentName())
	fmt.Printf("HWY_NO_SIMD:    %v\n", hwy.NoSimdEnv())
	fmt.Println()

	switch runtime.GOARCH {
	case "arm64":
		printARM64Features()
	case "amd64":
		printAMD64Features()
	}

	fmt.Println()
	printKernel("float32", conv.Best[float32]())
	printKernel("float64", conv.Best[float64]())
}

func printKernel[T hwy.Floats](dtype string, k conv.Kernel[T]) {
	family := cases.Title(language.English).String(strings.TrimRight(k.Name(), "0123456789x"))
	fmt.Printf("%s kernel: %s (%s, %dx%d tile, A aligned to %d bytes)\n",
		dtype, k.Name(), family, k.MR(), k.NR(), k.AlignmentBytesA())
}

func printARM64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Printf("  HasASIMD:   %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
	fmt.Printf("  HasFP:      %v\n", cpu.ARM64.HasFP)
	fmt.Printf("  HasASIMDHP: %v (FP16 NEON)\n", cpu.ARM64.HasASIMDHP)
	fmt.Printf("  HasSVE:     %v (Scalable Vector Extension)\n", cpu.ARM64.HasSVE)
	fmt.Printf("  HasSVE2:    %v\n", cpu.ARM64.HasSVE2)
}

func printAMD64Features() {
	fmt.Println("=== golang.org/x/sys/cpu.X86 ===")
	fmt.Printf("  HasSSE2:     %v\n", cpu.X86.HasSSE2)
	fmt.Printf("  HasAVX:      %v\n", cpu.X86.HasAVX)
	fmt.Printf("  HasAVX2:     %v\n", cpu.X86.HasAVX2)
	fmt.Printf("  HasFMA:      %v\n", cpu.X86.HasFMA)
	fmt.Printf("  HasAVX512F:  %v\n", cpu.X86.HasAVX512F)
	fmt.Printf("  HasAVX512VL: %v\n", cpu.X86.HasAVX512VL)
}
