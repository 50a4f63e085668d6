// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"errors"
	"testing"
)

func TestStructSequential(t *testing.T) {
	typ := NewStruct(
		Field{Name: "magic", Type: Text(2)},
		Field{Name: "count", Type: U16()},
		Field{Name: "size", Type: U32()},
	)
	buf := []byte{'M', 'Z', 0x03, 0x00, 0x10, 0x00, 0x00, 0x00}

	res, err := Decode(typ, buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	root := res.Root.(*StructInst)
	if root.Len() != 8 {
		t.Errorf("Len() = %d, want 8", root.Len())
	}

	wantOffsets := map[string]int{"magic": 0, "count": 2, "size": 4}
	for name, off := range wantOffsets {
		f, ok := root.Field(name)
		if !ok {
			t.Fatalf("Field(%q) missing", name)
		}
		if f.Offset() != off {
			t.Errorf("Field(%q).Offset() = %d, want %d", name, f.Offset(), off)
		}
	}
	if v, _ := MustPath("root.size").Evaluate(root); v != 0x10 {
		t.Errorf("root.size = %#x, want 0x10", v)
	}
}

func TestStructAnchoredField(t *testing.T) {
	typ := NewStruct(
		Field{Name: "ofs", Type: U32()},
		Field{Name: "val", Type: U32(), At: MustPath("root.ofs")},
	)
	buf := make([]byte, 0x44)
	buf[0] = 0x40
	buf[0x40] = 0xaa
	buf[0x41] = 0xbb

	res, err := Decode(typ, buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	val, _ := res.Root.(*StructInst).Field("val")
	if val.Offset() != 0x40 {
		t.Errorf("val.Offset() = %#x, want 0x40", val.Offset())
	}
	if v, _ := val.Value(); v != 0xbbaa {
		t.Errorf("val = %#x, want 0xbbaa", v)
	}
	// An anchored field still adds its length to the struct.
	if res.Root.Len() != 8 {
		t.Errorf("Len() = %d, want 8", res.Root.Len())
	}
	if !res.Root.Children()[1].Anchored {
		t.Error("Children()[1].Anchored = false, want true")
	}
}

func TestStructAnchorRelativeToStruct(t *testing.T) {
	inner := NewStruct(
		Field{Name: "skip", Type: U16()},
		Field{Name: "val", Type: U16(), At: MustPath("root.hdr.rel")},
	)
	typ := NewStruct(
		Field{Name: "hdr", Type: NewStruct(Field{Name: "rel", Type: U16()})},
		Field{Name: "body", Type: inner},
	)
	buf := []byte{0x04, 0x00, 0xff, 0xff, 0xff, 0xff, 0x07, 0x00}

	res, err := Decode(typ, buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	v, err := MustPath("root.body.val").Evaluate(res.Root)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	// body starts at 2, so the anchor lands on 2+4.
	if v != 7 {
		t.Errorf("root.body.val = %d, want 7", v)
	}
}

func TestStructAnchorErrors(t *testing.T) {
	tests := []struct {
		name    string
		at      string
		buf     []byte
		wantErr error
	}{
		{"outside buffer", "root.ofs", []byte{0xff, 0, 0, 0, 'a', 'b'}, ErrStructuralFailure},
		{"missing field", "root.nope", []byte{0x04, 0, 0, 0, 'a', 'b'}, ErrUnresolvedReference},
		{"non numeric", "root.tag", []byte{0x04, 0, 0, 0, 'a', 'b'}, ErrNonNumericValue},
		{"self reference", "root.val", []byte{0x04, 0, 0, 0, 'a', 'b'}, ErrNonNumericValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := NewStruct(
				Field{Name: "ofs", Type: U32()},
				Field{Name: "tag", Type: Text(2)},
				Field{Name: "val", Type: U16(), At: MustPath(tt.at)},
			)
			res, err := Decode(typ, tt.buf)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Decode() error = %v, want *Error", err)
			}
			if e.Location != "root.val" {
				t.Errorf("error Location = %q, want %q", e.Location, "root.val")
			}
			val, _ := res.Root.(*StructInst).Field("val")
			if !Incomplete(val) {
				t.Errorf("val = %T, want Placeholder", val)
			}
		})
	}
}

func TestStructFirstFieldNameWins(t *testing.T) {
	typ := NewStruct(
		Field{Name: "x", Type: U16()},
		Field{Name: "x", Type: U32()},
	)
	res, err := Decode(typ, []byte{1, 0, 2, 0, 0, 0})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	x, _ := res.Root.(*StructInst).Field("x")
	if x.Type() != U16() {
		t.Errorf("Field(x).Type() = %v, want u16", x.Type())
	}
}

func TestStructAnchoredFieldBeforeSequential(t *testing.T) {
	typ := NewStruct(
		Field{Name: "x", Type: U16()},
		Field{Name: "b", Type: U16(), At: MustPath("root.x")},
		Field{Name: "c", Type: U16()},
	)
	buf := []byte{0x06, 0x00, 0xff, 0xff, 0x0c, 0x00, 0x0b, 0x00}

	res, err := Decode(typ, buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	root := res.Root.(*StructInst)
	b, _ := root.Field("b")
	c, _ := root.Field("c")
	if b.Offset() != 6 {
		t.Errorf("b.Offset() = %d, want 6", b.Offset())
	}
	// c follows the cumulative length, which includes b.
	if c.Offset() != 4 {
		t.Errorf("c.Offset() = %d, want 4", c.Offset())
	}
	if v, _ := c.Value(); v != 0x0c {
		t.Errorf("c = %#x, want 0xc", v)
	}
	if root.Len() != 6 {
		t.Errorf("Len() = %d, want 6", root.Len())
	}
}

func TestStructOverrunKeepsTree(t *testing.T) {
	typ := NewStruct(
		Field{Name: "n", Type: U32()},
		Field{Name: "pad", Type: Bytes(4)},
		Field{Name: "b", Type: U32(), At: MustPath("root.n")},
	)
	buf := []byte{0x04, 0, 0, 0, 0x78, 0x56, 0x34, 0x12}

	res, err := Decode(typ, buf)
	if !errors.Is(err, ErrStructuralFailure) {
		t.Fatalf("Decode() error = %v, want StructuralFailure", err)
	}
	root, ok := res.Root.(*StructInst)
	if !ok {
		t.Fatalf("Root = %T, want *StructInst", res.Root)
	}
	if root.Len() != 12 {
		t.Errorf("Len() = %d, want 12", root.Len())
	}
	if got := len(root.Children()); got != 3 {
		t.Fatalf("len(Children()) = %d, want 3", got)
	}
	for _, c := range root.Children() {
		if Incomplete(c.Inst) {
			t.Errorf("field %s is incomplete", c.Name)
		}
	}
	if v, _ := MustPath("root.b").Evaluate(root); v != 0x12345678 {
		t.Errorf("root.b = %#x, want 0x12345678", v)
	}
	checkRanges(t, "root", root, len(buf), true)
}
