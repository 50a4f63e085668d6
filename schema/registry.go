// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps format names to root descriptors. Registering a name again
// swaps the descriptor atomically and bumps its version; decodes already
// running keep the descriptor they started with.
type Registry struct {
	mu       sync.RWMutex
	types    map[string]Type
	versions map[string]uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:    make(map[string]Type),
		versions: make(map[string]uint64),
	}
}

// Register adds or replaces a format and returns its new version.
func (r *Registry) Register(name string, t Type) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types[name] = t
	r.versions[name]++
	return r.versions[name]
}

// Get retrieves a format by name.
func (r *Registry) Get(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Version returns the current version of a format, 0 if unknown.
func (r *Registry) Version(name string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions[name]
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decode decodes buf with the named format.
func (r *Registry) Decode(name string, buf []byte, opts ...DecodeOption) (*Result, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("format '%s' not found", name)
	}
	return Decode(t, buf, opts...)
}

var defaultRegistry = NewRegistry()

// Register adds a format to the default registry.
func Register(name string, t Type) uint64 {
	return defaultRegistry.Register(name, t)
}

// Lookup retrieves a format from the default registry.
func Lookup(name string) (Type, bool) {
	return defaultRegistry.Get(name)
}

// Formats lists the formats in the default registry.
func Formats() []string {
	return defaultRegistry.Names()
}
