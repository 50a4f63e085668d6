// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package schema decodes fixed-format binary containers into a navigable
// tree of typed values, driven by declarative, reusable type descriptors.
//
// Descriptors (Type) are built once and never mutated, so a single schema
// can serve any number of concurrent decodes. A decode produces a fresh
// Instance tree owned by the caller. Struct fields and list counts may refer
// to values decoded earlier in the same tree through path expressions such
// as "root.dos.e_lfanew".
//
// Decoding never throws away progress: when a field fails, Decode still
// returns the tree built so far with the failing slot left as a Placeholder.
package schema

import (
	"go.uber.org/zap"
)

// Type is an immutable descriptor of how to decode a byte region.
// Implementations are Blob, Numeric, Enum, Struct and List.
type Type interface {
	// String names the descriptor, e.g. "u32" or "bytes[4]".
	String() string

	// decode decodes the region starting at off into slot. On entry slot
	// holds a Placeholder; leaves replace it on success and leave it alone
	// on failure. Containers publish themselves into slot before decoding
	// their children and stay there even when they fail, so that partial
	// trees stay reachable.
	decode(c *decodeContext, off int, slot *Instance) error
}

// decodeContext is the per-call state of one decode. It is created by the
// driver and passed down explicitly; nothing here is shared between decodes.
type decodeContext struct {
	buf         []byte
	root        *Instance
	logger      *zap.Logger
	maxElements int
}

// fill installs a Placeholder into slot and decodes t into it.
func (c *decodeContext) fill(t Type, off int, slot *Instance) error {
	*slot = &Placeholder{typ: t, off: off}
	return t.decode(c, off, slot)
}

// read returns a view of n bytes at off. The view aliases the source buffer.
func (c *decodeContext) read(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(c.buf) || n > len(c.buf)-off {
		return nil, structural(off, "buffer underflow: need %d bytes at offset %d, but only %d remaining",
			n, off, max(len(c.buf)-off, 0))
	}
	return c.buf[off : off+n : off+n], nil
}

// within reports whether [off, off+n) lies inside the buffer.
func (c *decodeContext) within(off, n int) bool {
	return off >= 0 && n >= 0 && off <= len(c.buf) && n <= len(c.buf)-off
}
