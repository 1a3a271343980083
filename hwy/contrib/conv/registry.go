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
	"sync"

	"github.com/ajroetker/go-convpack/hwy"
)

// Registry is the set of kernels available for one element type, each tagged
// with the lowest dispatch level it is tuned for.
type Registry[T hwy.Floats] struct {
	mu      sync.RWMutex
	entries []registryEntry[T]
}

type registryEntry[T hwy.Floats] struct {
	kernel Kernel[T]
	level  hwy.DispatchLevel
}

// Per element type registries, populated with the built-in kernels at init.
var (
	Float32Kernels = &Registry[float32]{}
	Float64Kernels = &Registry[float64]{}
)

func init() {
	registerBuiltins(Float32Kernels)
	registerBuiltins(Float64Kernels)
}

// registerBuiltins adds the unrolled kernels, one per dispatch tier, followed
// by generic kernels with odd tile shapes. The generic ones share the scalar
// tier and never win Best over the earlier unrolled4x4.
func registerBuiltins[T hwy.Floats](r *Registry[T]) {
	r.Register(Kernel4x4[T]{}, hwy.DispatchScalar)
	r.Register(Kernel8x4[T]{}, hwy.DispatchNEON)
	r.Register(Kernel16x4[T]{}, hwy.DispatchAVX512)
	r.Register(NewGeneric[T](1, 1), hwy.DispatchScalar)
	r.Register(NewGeneric[T](3, 5), hwy.DispatchScalar)
	r.Register(NewGeneric[T](6, 16), hwy.DispatchScalar)
}

// Register adds a kernel usable at level and above. A kernel with the same
// name replaces the earlier registration in place.
func (r *Registry[T]) Register(k Kernel[T], level hwy.DispatchLevel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.kernel.Name() == k.Name() {
			r.entries[i] = registryEntry[T]{kernel: k, level: level}
			return
		}
	}
	r.entries = append(r.entries, registryEntry[T]{kernel: k, level: level})
}

// Kernels returns the registered kernels in registration order.
func (r *Registry[T]) Kernels() []Kernel[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Kernel[T], len(r.entries))
	for i, e := range r.entries {
		out[i] = e.kernel
	}
	return out
}

// Level returns the dispatch level a registered kernel was tagged with.
func (r *Registry[T]) Level(name string) (hwy.DispatchLevel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.kernel.Name() == name {
			return e.level, true
		}
	}
	return 0, false
}

// Lookup returns the kernel registered under name.
func (r *Registry[T]) Lookup(name string) (Kernel[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.kernel.Name() == name {
			return e.kernel, true
		}
	}
	return nil, false
}

// Best returns the kernel with the highest tier not above level. Ties keep
// the earlier registration. It returns nil if nothing qualifies.
func (r *Registry[T]) Best(level hwy.DispatchLevel) Kernel[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *registryEntry[T]
	for i := range r.entries {
		e := &r.entries[i]
		if e.level > level {
			continue
		}
		if best == nil || e.level > best.level {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return best.kernel
}

// RegistryFor returns the built-in registry for T, or nil when T is a named
// float type without one.
func RegistryFor[T hwy.Floats]() *Registry[T] {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(Float32Kernels).(*Registry[T])
	case float64:
		return any(Float64Kernels).(*Registry[T])
	}
	return nil
}

// Best returns the preferred kernel for T at the current dispatch level.
func Best[T hwy.Floats]() Kernel[T] {
	if r := RegistryFor[T](); r != nil {
		if k := r.Best(hwy.CurrentLevel()); k != nil {
			return k
		}
	}
	return Kernel4x4[T]{}
}
