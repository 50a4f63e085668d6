// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// failingType always fails without consuming anything.
type failingType struct{}

func (failingType) String() string { return "failing" }

func (failingType) decode(c *decodeContext, off int, slot *Instance) error {
	return structural(off, "refusing to decode")
}

type panickingType struct{}

func (panickingType) String() string { return "panicking" }

func (panickingType) decode(c *decodeContext, off int, slot *Instance) error {
	panic("unexpected")
}

func TestDecodePartialTree(t *testing.T) {
	typ := NewStruct(
		Field{Name: "a", Type: U16()},
		Field{Name: "b", Type: failingType{}},
		Field{Name: "c", Type: U16()},
	)
	core, logs := observer.New(zapcore.WarnLevel)

	res, err := Decode(typ, []byte{1, 0, 2, 0}, WithLogger(zap.New(core)))
	if err == nil {
		t.Fatal("Decode() expected error")
	}
	if res == nil || res.Root == nil {
		t.Fatal("Decode() returned no partial tree")
	}
	if res.Complete() {
		t.Error("Complete() = true, want false")
	}
	if res.Err != err {
		t.Errorf("Result.Err = %v, want %v", res.Err, err)
	}

	root, ok := res.Root.(*StructInst)
	if !ok {
		t.Fatalf("Root = %T, want *StructInst", res.Root)
	}
	a, _ := root.Field("a")
	if v, _ := a.Value(); v != 1 {
		t.Errorf("a = %d, want 1", v)
	}
	b, _ := root.Field("b")
	if !Incomplete(b) {
		t.Errorf("b = %T, want Placeholder", b)
	}
	if b.Render() != "<incomplete>" {
		t.Errorf("b.Render() = %q", b.Render())
	}
	if _, ok := root.Field("c"); ok {
		t.Error("field c was attempted after b failed")
	}

	var e *Error
	if !errors.As(err, &e) || e.Location != "root.b" || e.Offset != 2 {
		t.Errorf("error = %#v, want location root.b at offset 2", err)
	}

	entries := logs.FilterMessage("decode aborted, returning partial tree").All()
	if len(entries) != 1 {
		t.Fatalf("got %d abort log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["len"]; got != int64(4) {
		t.Errorf("logged len = %v, want 4", got)
	}
}

func TestDecodeUsesPackageLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	typ := NewStruct(
		Field{Name: "n", Type: U16()},
		Field{Name: "l", Type: NewList(U16(), CountAt(MustPath("root.n")))},
	)
	if _, err := Decode(typ, []byte{1, 0, 9, 0}); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if logs.FilterMessage("list count").Len() != 1 {
		t.Errorf("list count was not logged, got %v", logs.All())
	}
}

func TestDecodeRecoversPanics(t *testing.T) {
	res, err := Decode(panickingType{}, []byte{0})
	if !errors.Is(err, ErrStructuralFailure) {
		t.Fatalf("Decode() error = %v, want StructuralFailure", err)
	}
	if !Incomplete(res.Root) {
		t.Errorf("Root = %T, want Placeholder", res.Root)
	}
}

func TestDecodeNilType(t *testing.T) {
	res, err := Decode(nil, []byte{0})
	if err == nil {
		t.Fatal("Decode(nil) expected error")
	}
	if res == nil || !Incomplete(res.Root) {
		t.Errorf("Decode(nil) root = %v, want Placeholder", res)
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{
		Kind:     KindNonNumericValue,
		Location: "root.val",
		Expr:     "root.tag",
		Offset:   0x40,
		Detail:   "blob instance has no numeric value",
	}
	want := `non_numeric_value in root.val evaluating "root.tag" (offset 0x40): blob instance has no numeric value`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Is(err, ErrStructuralFailure) {
		t.Error("errors.Is matched a different kind")
	}
}

func dumpTree(t *testing.T, root Instance) []string {
	t.Helper()
	var lines []string
	err := Walk(root, func(path string, depth int, name string, inst Instance) error {
		lines = append(lines, strings.Repeat(" ", depth)+path+" "+inst.Render())
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return lines
}

func sampleType() Type {
	return NewStruct(
		Field{Name: "magic", Type: Text(2)},
		Field{Name: "n", Type: U16()},
		Field{Name: "ofs", Type: U16()},
		Field{Name: "entries", Type: NewList(
			NewStruct(
				Field{Name: "kind", Type: NewEnum(U16(), map[uint64]string{1: "ONE"})},
				Field{Name: "data", Type: Bytes(2)},
			),
			CountAt(MustPath("root.n")),
		)},
		Field{Name: "tail", Type: U32(), At: MustPath("root.ofs")},
	)
}

func sampleBuffer() []byte {
	return []byte{
		'S', 'M',               // magic
		0x02, 0x00,             // n
		0x10, 0x00,             // ofs
		0x01, 0x00, 0xaa, 0xbb, // entries[0]
		0x02, 0x00, 0xcc, 0xdd, // entries[1]
		0, 0,                   // padding
		0x78, 0x56, 0x34, 0x12, // tail at 0x10
	}
}

func TestDecodeDeterministic(t *testing.T) {
	first, err := Decode(sampleType(), sampleBuffer())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := dumpTree(t, first.Root)
	for i := 0; i < 5; i++ {
		res, err := Decode(sampleType(), sampleBuffer())
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if diff := cmp.Diff(want, dumpTree(t, res.Root)); diff != "" {
			t.Fatalf("run %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestWalkPaths(t *testing.T) {
	res, err := Decode(sampleType(), sampleBuffer())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []string{
		"root ",
		" root.magic 'SM'",
		" root.n 0x2",
		" root.ofs 0x10",
		" root.entries 2 entries",
		"  root.entries[0] ",
		"   root.entries[0].kind ONE (0x1)",
		"   root.entries[0].data aabb",
		"  root.entries[1] ",
		"   root.entries[1].kind 0x2",
		"   root.entries[1].data ccdd",
		" root.tail 0x12345678",
	}
	if diff := cmp.Diff(want, dumpTree(t, res.Root)); diff != "" {
		t.Errorf("Walk() mismatch (-want +got):\n%s", diff)
	}

	// Every path reported by Walk resolves back to the same instance.
	err = Walk(res.Root, func(path string, depth int, name string, inst Instance) error {
		got, err := MustPath(path).Resolve(res.Root)
		if err != nil {
			return err
		}
		if got != inst {
			t.Errorf("Resolve(%s) returned a different instance", path)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	res, _ := Decode(sampleType(), sampleBuffer())
	var visited int
	err := Walk(res.Root, func(path string, depth int, name string, inst Instance) error {
		visited++
		if inst.Variant() == VariantList {
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if visited != 6 {
		t.Errorf("visited %d instances, want 6", visited)
	}
}

// checkRanges asserts that instances lie inside the buffer and that
// sequential children lie inside their parent. Placeholders are skipped. In
// a partial tree the containers on the failure path report unfinished or
// overrunning ranges, so only leaves are checked there.
func checkRanges(t *testing.T, path string, inst Instance, bufLen int, partial bool) {
	t.Helper()
	if Incomplete(inst) {
		return
	}
	leaf := inst.Children() == nil
	if (leaf || !partial) && (inst.Offset() < 0 || end(inst) > bufLen) {
		t.Errorf("%s [%d+%d] lies outside the %d byte buffer", path, inst.Offset(), inst.Len(), bufLen)
	}
	for i, c := range inst.Children() {
		if Incomplete(c.Inst) {
			continue
		}
		if partial && c.Inst.Children() != nil {
			checkRanges(t, path+"/"+c.Name, c.Inst, bufLen, partial)
			continue
		}
		if !c.Anchored && (c.Inst.Offset() < inst.Offset() || end(c.Inst) > end(inst)) {
			t.Errorf("%s child %d [%d+%d] outside parent [%d+%d]",
				path, i, c.Inst.Offset(), c.Inst.Len(), inst.Offset(), inst.Len())
		}
		checkRanges(t, path+"/"+c.Name, c.Inst, bufLen, partial)
	}
}

func TestDecodeRanges(t *testing.T) {
	buf := sampleBuffer()
	res, err := Decode(sampleType(), buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	checkRanges(t, "root", res.Root, len(buf), false)
}

func TestLocate(t *testing.T) {
	res, err := Decode(sampleType(), sampleBuffer())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	tests := []struct {
		name  string
		off   int
		depth int
		leaf  string
	}{
		{"magic", 0, 2, "'SM'"},
		{"entry data", 0x0d, 4, "ccdd"},
		{"entry kind", 0x06, 4, "ONE (0x1)"},
		{"anchored tail", 0x11, 2, "0x12345678"},
		{"past end", 0x40, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := Locate(res.Root, tt.off)
			if len(chain) != tt.depth {
				t.Fatalf("Locate(%#x) depth = %d, want %d", tt.off, len(chain), tt.depth)
			}
			if tt.depth == 0 {
				return
			}
			if got := chain[len(chain)-1].Render(); got != tt.leaf {
				t.Errorf("Locate(%#x) leaf = %q, want %q", tt.off, got, tt.leaf)
			}
		})
	}
}
