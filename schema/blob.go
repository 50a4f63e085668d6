// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// renderBudget is how many bytes of a blob are shown. Blobs of at least
// renderBudget bytes get the ellipsis. It limits display only; all bytes are
// still consumed.
const renderBudget = 10

const ellipsis = " [...]"

// Blob is a fixed-length run of raw bytes, rendered as hex or as escaped text.
type Blob struct {
	length int
	text   bool
}

// Bytes returns a Blob of n bytes rendered as hex pairs.
func Bytes(n int) *Blob {
	return &Blob{length: n}
}

// Text returns a Blob of n bytes rendered as quoted, escaped text.
func Text(n int) *Blob {
	return &Blob{length: n, text: true}
}

// Length returns the number of bytes the blob consumes.
func (b *Blob) Length() int { return b.length }

// IsText reports whether the blob renders as text.
func (b *Blob) IsText() bool { return b.text }

func (b *Blob) String() string {
	if b.text {
		return "text[" + strconv.Itoa(b.length) + "]"
	}
	return "bytes[" + strconv.Itoa(b.length) + "]"
}

func (b *Blob) decode(c *decodeContext, off int, slot *Instance) error {
	data, err := c.read(off, b.length)
	if err != nil {
		return err
	}
	*slot = &BlobInst{typ: b, off: off, data: data}
	return nil
}

// BlobInst is a decoded Blob. Data aliases the source buffer.
type BlobInst struct {
	typ  *Blob
	off  int
	data []byte
}

func (i *BlobInst) Variant() Variant  { return VariantBlob }
func (i *BlobInst) Type() Type        { return i.typ }
func (i *BlobInst) Offset() int       { return i.off }
func (i *BlobInst) Len() int          { return len(i.data) }
func (i *BlobInst) Children() []Child { return nil }
func (i *BlobInst) sealed()           {}

// Bytes returns the blob's bytes. The slice aliases the source buffer and
// must not be modified.
func (i *BlobInst) Bytes() []byte { return i.data }

// Value always fails: a blob is never an offset or count source.
func (i *BlobInst) Value() (uint64, error) {
	return 0, nonNumeric(i)
}

func (i *BlobInst) Render() string {
	shown := i.data
	elide := len(shown) >= renderBudget
	if len(shown) > renderBudget {
		shown = shown[:renderBudget]
	}

	var b strings.Builder
	if i.typ.text {
		b.WriteByte('\'')
		for _, c := range shown {
			switch {
			case isPrintable(c):
				b.WriteByte(c)
			case c == 0:
				b.WriteString(`\0`)
			default:
				b.WriteString(`\x`)
				b.WriteString(hex.EncodeToString([]byte{c}))
			}
		}
	} else {
		b.WriteString(hex.EncodeToString(shown))
	}
	if elide {
		b.WriteString(ellipsis)
	}
	if i.typ.text {
		b.WriteByte('\'')
	}
	return b.String()
}

func isPrintable(c byte) bool {
	return c >= 0x20 && c < 0x7f
}
