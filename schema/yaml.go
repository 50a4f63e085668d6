// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is a named set of descriptors loaded from a schema document, with
// one of them chosen as the decode root.
type Schema struct {
	Name        string
	Description string
	Root        Type
	Types       map[string]Type
	Order       []string // type names in document order
}

// Decode decodes buf with the schema's root type.
func (s *Schema) Decode(buf []byte, opts ...DecodeOption) (*Result, error) {
	return Decode(s.Root, buf, opts...)
}

type schemaDoc struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Root        string    `yaml:"root,omitempty"`
	Types       []typeDoc `yaml:"types"`
}

// typeDoc is both a named type definition and a struct field: fields use
// the same keys plus "at".
type typeDoc struct {
	Name   string            `yaml:"name"`
	Type   string            `yaml:"type"`
	Length *int              `yaml:"length,omitempty"`
	Base   string            `yaml:"base,omitempty"`
	Values map[string]string `yaml:"values,omitempty"`
	Fields []typeDoc         `yaml:"fields,omitempty"`
	Of     yaml.Node         `yaml:"of,omitempty"`
	Count  any               `yaml:"count,omitempty"`
	Names  []string          `yaml:"names,omitempty"`
	At     string            `yaml:"at,omitempty"`
}

// ParseSchema parses a YAML (or JSON) schema document:
//
//	name: pe32
//	root: PE
//	types:
//	  - name: IMAGE_DATA_DIRECTORY
//	    type: struct
//	    fields:
//	      - {name: VirtualAddress, type: u32}
//	      - {name: Size, type: u32}
//
// Types may only refer to types defined before them. If root is omitted the
// last type is the root.
func ParseSchema(data []byte) (*Schema, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if len(doc.Types) == 0 {
		return nil, fmt.Errorf("schema %q defines no types", doc.Name)
	}

	b := &builder{defined: make(map[string]Type)}
	s := &Schema{Name: doc.Name, Description: doc.Description, Types: b.defined}
	for _, td := range doc.Types {
		if td.Name == "" {
			return nil, fmt.Errorf("schema %q: type definition without a name", doc.Name)
		}
		if _, dup := b.defined[td.Name]; dup {
			return nil, fmt.Errorf("schema %q: type %q defined twice", doc.Name, td.Name)
		}
		if td.At != "" {
			return nil, fmt.Errorf("schema %q: type %q: at is only valid on struct fields", doc.Name, td.Name)
		}
		t, err := b.build(td)
		if err != nil {
			return nil, fmt.Errorf("schema %q: type %q: %w", doc.Name, td.Name, err)
		}
		b.defined[td.Name] = t
		s.Order = append(s.Order, td.Name)
	}

	root := doc.Root
	if root == "" {
		root = s.Order[len(s.Order)-1]
	}
	t, ok := b.defined[root]
	if !ok {
		return nil, fmt.Errorf("schema %q: root type %q is not defined", doc.Name, root)
	}
	s.Root = t
	return s, nil
}

type builder struct {
	defined map[string]Type
}

func (b *builder) build(d typeDoc) (Type, error) {
	switch strings.ToLower(d.Type) {
	case "u16":
		return U16(), nil
	case "u32":
		return U32(), nil
	case "bytes", "text":
		if d.Length == nil || *d.Length < 0 {
			return nil, fmt.Errorf("%s requires a non-negative length", d.Type)
		}
		if strings.ToLower(d.Type) == "text" {
			return Text(*d.Length), nil
		}
		return Bytes(*d.Length), nil
	case "enum":
		return b.buildEnum(d)
	case "struct":
		return b.buildStruct(d)
	case "list":
		return b.buildList(d)
	case "":
		return nil, fmt.Errorf("missing type")
	}
	if t, ok := b.defined[d.Type]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", d.Type)
}

func (b *builder) buildEnum(d typeDoc) (Type, error) {
	base := U16()
	switch strings.ToLower(d.Base) {
	case "", "u16":
	case "u32":
		base = U32()
	default:
		return nil, fmt.Errorf("enum base must be u16 or u32, got %q", d.Base)
	}
	labels := make(map[uint64]string, len(d.Values))
	for k, v := range d.Values {
		n, err := strconv.ParseUint(k, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q: %w", k, err)
		}
		labels[n] = v
	}
	return NewEnum(base, labels), nil
}

func (b *builder) buildStruct(d typeDoc) (Type, error) {
	fields := make([]Field, 0, len(d.Fields))
	for i, fd := range d.Fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		t, err := b.build(fd)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		f := Field{Name: fd.Name, Type: t}
		if fd.At != "" {
			p, err := ParsePath(fd.At)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", fd.Name, err)
			}
			f.At = p
		}
		fields = append(fields, f)
	}
	return NewStruct(fields...), nil
}

func (b *builder) buildList(d typeDoc) (Type, error) {
	var elem Type
	switch d.Of.Kind {
	case yaml.ScalarNode:
		t, err := b.build(typeDoc{Type: d.Of.Value})
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		elem = t
	case yaml.MappingNode:
		var inner typeDoc
		if err := d.Of.Decode(&inner); err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		t, err := b.build(inner)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		elem = t
	default:
		return nil, fmt.Errorf("list requires an element type (of)")
	}

	var count Count
	switch c := d.Count.(type) {
	case int:
		count = Times(c)
	case string:
		p, err := ParsePath(c)
		if err != nil {
			return nil, fmt.Errorf("list count: %w", err)
		}
		count = CountAt(p)
	case nil:
		return nil, fmt.Errorf("list requires a count")
	default:
		return nil, fmt.Errorf("invalid count type: %T", d.Count)
	}
	return NewList(elem, count, d.Names...), nil
}
