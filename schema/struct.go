// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"go.uber.org/zap"
)

// Field is one named member of a Struct. A field with a nil At follows the
// previous field's bytes; otherwise it is anchored at the address At
// evaluates to, relative to the struct's base offset.
type Field struct {
	Name string
	Type Type
	At   *Path
}

// Struct is an ordered list of named fields.
type Struct struct {
	fields []Field
}

// NewStruct returns a Struct with the given fields in declaration order.
func NewStruct(fields ...Field) *Struct {
	return &Struct{fields: append([]Field(nil), fields...)}
}

// Fields returns a copy of the struct's field list.
func (s *Struct) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

func (s *Struct) String() string { return "struct" }

// decode lays the fields out in order. The cumulative length grows by every
// field's length, anchored or not, and becomes the struct's length. For an
// anchored field that is not last, later sequential fields are therefore
// positioned past bytes that the struct does not actually cover.
func (s *Struct) decode(c *decodeContext, off int, slot *Instance) error {
	inst := &StructInst{typ: s, off: off, children: make([]Child, 0, len(s.fields))}
	*slot = inst

	for _, f := range s.fields {
		start := off + inst.length
		inst.children = append(inst.children, Child{
			Name:     f.Name,
			Anchored: f.At != nil,
			Inst:     &Placeholder{typ: f.Type, off: start},
		})
		child := &inst.children[len(inst.children)-1]

		if f.At != nil {
			rel, err := f.At.Evaluate(*c.root)
			if err != nil {
				return prefixLocation(err, f.Name)
			}
			if rel > uint64(len(c.buf)) || off+int(rel) > len(c.buf) {
				return prefixLocation(structural(off, "anchor %s = 0x%x lies outside the %d byte buffer",
					f.At, rel, len(c.buf)), f.Name)
			}
			start = off + int(rel)
			c.logger.Debug("anchored field",
				zap.String("field", f.Name),
				zap.String("at", f.At.String()),
				zap.Int("offset", start))
		}

		if err := c.fill(f.Type, start, &child.Inst); err != nil {
			return prefixLocation(err, f.Name)
		}
		inst.length += child.Inst.Len()
	}

	// The decoded struct stays in the slot; only its reported range is bad.
	if !c.within(off, inst.length) {
		return structural(off, "struct length %d at offset %d exceeds the %d byte buffer",
			inst.length, off, len(c.buf))
	}
	return nil
}

// StructInst is a decoded Struct. Its children are its fields in
// declaration order.
type StructInst struct {
	typ      *Struct
	off      int
	length   int
	children []Child
}

func (i *StructInst) Variant() Variant  { return VariantStruct }
func (i *StructInst) Type() Type        { return i.typ }
func (i *StructInst) Offset() int       { return i.off }
func (i *StructInst) Len() int          { return i.length }
func (i *StructInst) Render() string    { return "" }
func (i *StructInst) Children() []Child { return i.children }
func (i *StructInst) sealed()           {}

func (i *StructInst) Value() (uint64, error) {
	return 0, nonNumeric(i)
}

// Field returns the first field named name.
func (i *StructInst) Field(name string) (Instance, bool) {
	for _, c := range i.children {
		if c.Name == name {
			return c.Inst, true
		}
	}
	return nil, false
}
