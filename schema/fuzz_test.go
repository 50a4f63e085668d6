// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"testing"
)

// Run with:
//
//	go test -fuzz=FuzzDecode -fuzztime=60s
//	go test -fuzz=FuzzParsePath -fuzztime=60s
func FuzzDecode(f *testing.F) {
	f.Add(sampleBuffer())
	f.Add([]byte{})                                 // empty
	f.Add([]byte{0x00})                             // too short
	f.Add([]byte{'S', 'M', 0xff, 0xff, 0x10, 0x00}) // huge count
	f.Add([]byte{'S', 'M', 0x00, 0x00, 0xff, 0xff}) // anchor out of range
	f.Add(make([]byte, 256))                        // all zeros

	typ := sampleType()
	f.Fuzz(func(t *testing.T, data []byte) {
		// Should never panic, and must always hand back a tree.
		res, err := Decode(typ, data, WithMaxElements(1024))
		if res == nil || res.Root == nil {
			t.Fatalf("Decode() returned no tree (err = %v)", err)
		}
		if (err == nil) != res.Complete() {
			t.Errorf("Complete() = %v with err = %v", res.Complete(), err)
		}
		checkRanges(t, "root", res.Root, len(data), err != nil)
		_ = Walk(res.Root, func(path string, depth int, name string, inst Instance) error {
			_ = inst.Render()
			return nil
		})
	})
}

func FuzzParsePath(f *testing.F) {
	f.Add("root")
	f.Add("root.dos.e_lfanew")
	f.Add("root.a[12].b")
	f.Add("root[")
	f.Add("root..")
	f.Add("root[01]")

	f.Fuzz(func(t *testing.T, text string) {
		p, err := ParsePath(text)
		if err != nil {
			return
		}
		if p.String() != text {
			t.Errorf("String() = %q, want %q", p.String(), text)
		}
		// Indexes are rebuilt without leading zeros, so compare the
		// re-parsed steps rather than the text.
		canon := p.prefix(len(p.steps))
		q, err := ParsePath(canon)
		if err != nil {
			t.Fatalf("ParsePath(%q) error = %v", canon, err)
		}
		if len(q.steps) != len(p.steps) {
			t.Fatalf("ParsePath(%q) has %d steps, want %d", canon, len(q.steps), len(p.steps))
		}
		for i := range p.steps {
			if q.steps[i] != p.steps[i] {
				t.Errorf("step %d of %q = %v, want %v", i, canon, q.steps[i], p.steps[i])
			}
		}
	})
}
