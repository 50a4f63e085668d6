// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/MultiTechSystems/layout-schema/schema"
)

func at(cfg *AtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.At.Parse(cc, args)
	if err != nil {
		cfg.At.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: at requires an offset and a file", cli.ErrUsage)
	}
	off, err := strconv.ParseInt(args[0], 0, 64)
	if err != nil || off < 0 {
		return fmt.Errorf("%w: invalid offset %q", cli.ErrUsage, args[0])
	}
	res, err := decodeFile(cfg.Format, cfg.Schema, args[1])
	if err != nil {
		return err
	}
	chain := schema.Locate(res.Root, int(off))
	if len(chain) == 0 {
		return fmt.Errorf("offset 0x%x is not covered by any decoded instance", off)
	}
	p := cfg.colors(cc.Out)
	for depth, inst := range chain {
		fmt.Fprintf(cc.Out, "%s%s %s %s\n", strings.Repeat("  ", depth), p.span(span(inst)), typeName(inst), p.value(inst.Render()))
	}
	return nil
}
