// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"strconv"

	"go.uber.org/zap"
)

// Count is a list repeat count: either a literal or a path expression
// evaluated against the decode root.
type Count struct {
	n    int
	path *Path
}

// Times returns a literal count.
func Times(n int) Count {
	return Count{n: n}
}

// CountAt returns a count read from the numeric instance p names.
func CountAt(p *Path) Count {
	return Count{path: p}
}

// Path returns the count expression, or nil for a literal count.
func (c Count) Path() *Path { return c.path }

func (c Count) String() string {
	if c.path != nil {
		return c.path.String()
	}
	return strconv.Itoa(c.n)
}

func (c Count) resolve(dc *decodeContext, off int) (int, error) {
	if c.path == nil {
		if c.n < 0 {
			return 0, structural(off, "negative list count %d", c.n)
		}
		return c.n, nil
	}
	v, err := c.path.Evaluate(*dc.root)
	if err != nil {
		return 0, err
	}
	if v > uint64(dc.maxElements) {
		return 0, structural(off, "list count %s = %d exceeds the limit of %d elements", c.path, v, dc.maxElements)
	}
	dc.logger.Debug("list count",
		zap.String("count", c.path.String()),
		zap.Uint64("value", v))
	return int(v), nil
}

// List repeats one element type a fixed or computed number of times.
type List struct {
	elem  Type
	count Count
	names []string
}

// NewList returns a List of count elements of elem. Names, if given, label
// the elements by position; elements past the end of names are unnamed.
func NewList(elem Type, count Count, names ...string) *List {
	return &List{elem: elem, count: count, names: append([]string(nil), names...)}
}

// Elem returns the element descriptor.
func (l *List) Elem() Type { return l.elem }

// Count returns the repeat count.
func (l *List) Count() Count { return l.count }

func (l *List) String() string {
	return "list<" + l.elem.String() + ">[" + l.count.String() + "]"
}

func (l *List) decode(c *decodeContext, off int, slot *Instance) error {
	n, err := l.count.resolve(c, off)
	if err != nil {
		return err
	}
	if n > c.maxElements {
		return structural(off, "list count %d exceeds the limit of %d elements", n, c.maxElements)
	}

	inst := &ListInst{typ: l, off: off, children: make([]Child, 0, n)}
	*slot = inst

	for i := 0; i < n; i++ {
		start := off + inst.length
		var name string
		if i < len(l.names) {
			name = l.names[i]
		}
		inst.children = append(inst.children, Child{Name: name})
		child := &inst.children[i]
		if err := c.fill(l.elem, start, &child.Inst); err != nil {
			return prefixLocation(err, "["+strconv.Itoa(i)+"]")
		}
		inst.length += child.Inst.Len()
	}

	if !c.within(off, inst.length) {
		return structural(off, "list length %d at offset %d exceeds the %d byte buffer",
			inst.length, off, len(c.buf))
	}
	return nil
}

// ListInst is a decoded List.
type ListInst struct {
	typ      *List
	off      int
	length   int
	children []Child
}

func (i *ListInst) Variant() Variant  { return VariantList }
func (i *ListInst) Type() Type        { return i.typ }
func (i *ListInst) Offset() int       { return i.off }
func (i *ListInst) Len() int          { return i.length }
func (i *ListInst) Children() []Child { return i.children }
func (i *ListInst) sealed()           {}

func (i *ListInst) Render() string {
	return strconv.Itoa(len(i.children)) + " entries"
}

func (i *ListInst) Value() (uint64, error) {
	return 0, nonNumeric(i)
}
