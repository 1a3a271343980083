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
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-convpack/hwy"
	"github.com/ajroetker/go-convpack/hwy/contrib/conv"
)

func newKernelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kernels",
		Short: "List registered kernels and the one selected for this CPU",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "dispatch level: %s (%d bytes)\n", hwy.CurrentName(), hwy.CurrentWidth())
			fmt.Fprintln(w, "NAME\tFAMILY\tTILE\tALIGN A\tLEVEL\tSELECTED")
			var err error
			switch a.cfg.DType {
			case "float32":
				err = listKernels(w, conv.Float32Kernels, conv.Best[float32]())
			case "float64":
				err = listKernels(w, conv.Float64Kernels, conv.Best[float64]())
			}
			if err != nil {
				return err
			}
			return w.Flush()
		},
	}
}

func listKernels[T hwy.Floats](w *tabwriter.Writer, reg *conv.Registry[T], best conv.Kernel[T]) error {
	title := cases.Title(language.English)
	for _, k := range reg.Kernels() {
		level, _ := reg.Level(k.Name())
		selected := ""
		if k.Name() == best.Name() {
			selected = "*"
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\t%s\n",
			k.Name(), title.String(kernelFamily(k.Name())), k.MR(), k.NR(), k.AlignmentBytesA(), level, selected)
		if err != nil {
			return err
		}
	}
	return nil
}

// kernelFamily strips the tile suffix: "unrolled8x4" -> "unrolled".
func kernelFamily(name string) string {
	return strings.TrimRight(name, "0123456789x")
}

// selectKernels resolves names against reg. With no names it returns all
// kernels, or only fallback when all is false.
func selectKernels[T hwy.Floats](reg *conv.Registry[T], names []string, all bool, fallback conv.Kernel[T]) ([]conv.Kernel[T], error) {
	if len(names) == 0 {
		if all {
			return reg.Kernels(), nil
		}
		return []conv.Kernel[T]{fallback}, nil
	}
	out := make([]conv.Kernel[T], 0, len(names))
	for _, name := range names {
		k, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown kernel %q", name)
		}
		out = append(out, k)
	}
	return out, nil
}
