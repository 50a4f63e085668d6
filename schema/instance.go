// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

// Variant tags the concrete kind of an Instance.
type Variant int

const (
	VariantPlaceholder Variant = iota
	VariantBlob
	VariantNumeric
	VariantEnum
	VariantStruct
	VariantList
)

func (v Variant) String() string {
	switch v {
	case VariantPlaceholder:
		return "placeholder"
	case VariantBlob:
		return "blob"
	case VariantNumeric:
		return "numeric"
	case VariantEnum:
		return "enum"
	case VariantStruct:
		return "struct"
	case VariantList:
		return "list"
	default:
		return "unknown"
	}
}

// Instance is a decoded value: the result of applying a Type to a byte
// range of the source buffer. The set of implementations is closed; switch
// on Variant (or on the concrete type) rather than probing for methods.
type Instance interface {
	Variant() Variant
	// Type is the descriptor that produced the instance. Nil for a
	// Placeholder whose slot was never attempted by a descriptor.
	Type() Type
	// Offset is the absolute offset into the source buffer.
	Offset() int
	Len() int
	Render() string
	// Children returns the ordered children of a struct or list, nil for
	// leaf instances.
	Children() []Child
	// Value is the numeric coercion used by path expressions.
	Value() (uint64, error)

	sealed()
}

// Child is one entry of a struct or list instance. Name is empty for
// unnamed list elements. Anchored marks struct fields positioned by a path
// expression; their range need not lie inside the parent's range.
type Child struct {
	Name     string
	Anchored bool
	Inst     Instance
}

// Placeholder stands in for a slot whose decode has not completed.
type Placeholder struct {
	typ Type
	off int
}

const incompleteRender = "<incomplete>"

func (p *Placeholder) Variant() Variant  { return VariantPlaceholder }
func (p *Placeholder) Type() Type        { return p.typ }
func (p *Placeholder) Offset() int       { return p.off }
func (p *Placeholder) Len() int          { return 0 }
func (p *Placeholder) Render() string    { return incompleteRender }
func (p *Placeholder) Children() []Child { return nil }
func (p *Placeholder) sealed()           {}

func (p *Placeholder) Value() (uint64, error) {
	return 0, nonNumeric(p)
}

// Incomplete reports whether inst is a Placeholder left by a failed or
// unfinished decode.
func Incomplete(inst Instance) bool {
	_, ok := inst.(*Placeholder)
	return ok
}

func end(inst Instance) int {
	return inst.Offset() + inst.Len()
}
