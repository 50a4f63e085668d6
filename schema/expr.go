// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"strconv"
	"strings"
)

const rootKeyword = "root"

// step is one instruction of a compiled path: either a lookup by field name
// or a lookup by position.
type step struct {
	name  string
	index int
	byPos bool
}

func (s step) String() string {
	if s.byPos {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return "." + s.name
}

// Path is a compiled path expression of the form
//
//	root ( "." name | "[" index "]" )*
//
// where name is any run of characters other than '.' and '['. Paths are
// immutable and safe to share between decodes.
type Path struct {
	text  string
	steps []step
}

// ParsePath compiles a path expression. The whole input must be consumed;
// any trailing text is a MalformedPath error.
func ParsePath(text string) (*Path, error) {
	if !strings.HasPrefix(text, rootKeyword) {
		return nil, malformedPath(text, "expected %q at offset 0", rootKeyword)
	}
	p := &Path{text: text}
	pos := len(rootKeyword)
	for pos < len(text) {
		switch text[pos] {
		case '.':
			start := pos + 1
			n := strings.IndexAny(text[start:], ".[")
			if n < 0 {
				n = len(text) - start
			}
			if n == 0 {
				return nil, malformedPath(text, "did not parse full text: empty field name at offset %d", pos)
			}
			p.steps = append(p.steps, step{name: text[start : start+n]})
			pos = start + n
		case '[':
			start := pos + 1
			n := 0
			for start+n < len(text) && text[start+n] >= '0' && text[start+n] <= '9' {
				n++
			}
			if n == 0 || start+n >= len(text) || text[start+n] != ']' {
				return nil, malformedPath(text, "did not parse full text: expected '[' <index> ']' at offset %d", pos)
			}
			index, err := strconv.Atoi(text[start : start+n])
			if err != nil {
				return nil, malformedPath(text, "did not parse full text: index at offset %d: %v", pos, err)
			}
			p.steps = append(p.steps, step{index: index, byPos: true})
			pos = start + n + 1
		default:
			return nil, malformedPath(text, "did not parse full text: unexpected %q at offset %d", text[pos], pos)
		}
	}
	return p, nil
}

// MustPath is like ParsePath but panics on error. It is meant for schema
// definitions built at package initialization.
func MustPath(text string) *Path {
	p, err := ParsePath(text)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the expression text.
func (p *Path) String() string {
	return p.text
}

// Resolve walks the path from root and returns the instance it names.
func (p *Path) Resolve(root Instance) (Instance, error) {
	cur := root
	for i, s := range p.steps {
		children := cur.Children()
		if children == nil {
			return nil, unresolved(p.text, "%s has no children (step %d, %s)", p.prefix(i), i, s)
		}
		next, ok := lookup(children, s)
		if !ok {
			if s.byPos {
				return nil, unresolved(p.text, "index %d out of range [0, %d) in %s", s.index, len(children), p.prefix(i))
			}
			return nil, unresolved(p.text, "no field %q in %s", s.name, p.prefix(i))
		}
		cur = next
	}
	return cur, nil
}

// Evaluate resolves the path and coerces the result to a number.
func (p *Path) Evaluate(root Instance) (uint64, error) {
	inst, err := p.Resolve(root)
	if err != nil {
		return 0, err
	}
	v, err := inst.Value()
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Expr = p.text
		}
		return 0, err
	}
	return v, nil
}

// prefix renders the first n steps of the path.
func (p *Path) prefix(n int) string {
	var b strings.Builder
	b.WriteString(rootKeyword)
	for _, s := range p.steps[:n] {
		b.WriteString(s.String())
	}
	return b.String()
}

func lookup(children []Child, s step) (Instance, bool) {
	if s.byPos {
		if s.index < 0 || s.index >= len(children) {
			return nil, false
		}
		return children[s.index].Inst, true
	}
	for _, c := range children {
		if c.Name == s.name {
			return c.Inst, true
		}
	}
	return nil, false
}
