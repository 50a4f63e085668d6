// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Numeric is a little-endian unsigned integer of 2 or 4 bytes.
type Numeric struct {
	width int
}

var (
	u16 = &Numeric{width: 2}
	u32 = &Numeric{width: 4}
)

// U16 returns the 2-byte little-endian unsigned descriptor.
func U16() *Numeric { return u16 }

// U32 returns the 4-byte little-endian unsigned descriptor.
func U32() *Numeric { return u32 }

// NewNumeric returns the descriptor for the given width in bytes.
func NewNumeric(width int) (*Numeric, error) {
	switch width {
	case 2:
		return u16, nil
	case 4:
		return u32, nil
	default:
		return nil, fmt.Errorf("unsupported numeric width %d (want 2 or 4)", width)
	}
}

// Width returns the size in bytes.
func (n *Numeric) Width() int { return n.width }

func (n *Numeric) String() string {
	return "u" + strconv.Itoa(n.width*8)
}

func (n *Numeric) decode(c *decodeContext, off int, slot *Instance) error {
	inst, err := n.read(c, off)
	if err != nil {
		return err
	}
	*slot = inst
	return nil
}

func (n *Numeric) read(c *decodeContext, off int) (*NumericInst, error) {
	data, err := c.read(off, n.width)
	if err != nil {
		return nil, err
	}
	var v uint64
	switch n.width {
	case 2:
		v = uint64(binary.LittleEndian.Uint16(data))
	case 4:
		v = uint64(binary.LittleEndian.Uint32(data))
	default:
		return nil, structural(off, "unsupported numeric width %d", n.width)
	}
	return &NumericInst{typ: n, off: off, value: v}, nil
}

// NumericInst is a decoded Numeric.
type NumericInst struct {
	typ   *Numeric
	off   int
	value uint64
}

func (i *NumericInst) Variant() Variant       { return VariantNumeric }
func (i *NumericInst) Type() Type             { return i.typ }
func (i *NumericInst) Offset() int            { return i.off }
func (i *NumericInst) Len() int               { return i.typ.width }
func (i *NumericInst) Children() []Child      { return nil }
func (i *NumericInst) Value() (uint64, error) { return i.value, nil }
func (i *NumericInst) sealed()                {}

func (i *NumericInst) Render() string {
	return "0x" + strconv.FormatUint(i.value, 16)
}
