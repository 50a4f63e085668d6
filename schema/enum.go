// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"maps"
)

// Enum wraps a Numeric with symbolic labels for known values.
type Enum struct {
	base   *Numeric
	labels map[uint64]string
}

// NewEnum returns an Enum over base. The labels map is copied.
func NewEnum(base *Numeric, labels map[uint64]string) *Enum {
	return &Enum{base: base, labels: maps.Clone(labels)}
}

// Base returns the wrapped numeric descriptor.
func (e *Enum) Base() *Numeric { return e.base }

// Label returns the label for v, if any.
func (e *Enum) Label(v uint64) (string, bool) {
	l, ok := e.labels[v]
	return l, ok
}

func (e *Enum) String() string {
	return "enum<" + e.base.String() + ">"
}

func (e *Enum) decode(c *decodeContext, off int, slot *Instance) error {
	num, err := e.base.read(c, off)
	if err != nil {
		return err
	}
	*slot = &EnumInst{typ: e, num: num}
	return nil
}

// EnumInst is a decoded Enum. It shares offset and length with the
// underlying numeric.
type EnumInst struct {
	typ *Enum
	num *NumericInst
}

func (i *EnumInst) Variant() Variant  { return VariantEnum }
func (i *EnumInst) Type() Type        { return i.typ }
func (i *EnumInst) Offset() int       { return i.num.Offset() }
func (i *EnumInst) Len() int          { return i.num.Len() }
func (i *EnumInst) Children() []Child { return nil }
func (i *EnumInst) sealed()           {}

// Numeric returns the wrapped numeric instance.
func (i *EnumInst) Numeric() *NumericInst { return i.num }

// Value forwards to the wrapped numeric, so enumerated fields can drive
// offsets and counts like plain numerics.
func (i *EnumInst) Value() (uint64, error) {
	return i.num.Value()
}

func (i *EnumInst) Render() string {
	if label, ok := i.typ.labels[i.num.value]; ok {
		return label + " (" + i.num.Render() + ")"
	}
	return i.num.Render()
}
