// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/MultiTechSystems/layout-schema/schema"
)

func eval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		cfg.Eval.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: eval requires a path and a file", cli.ErrUsage)
	}
	path, err := schema.ParsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	res, err := decodeFile(cfg.Format, cfg.Schema, args[1])
	if err != nil {
		return err
	}
	// Paths into the decoded part of a partial tree still resolve.
	inst, err := path.Resolve(res.Root)
	if err != nil {
		return err
	}
	p := cfg.colors(cc.Out)
	fmt.Fprintf(cc.Out, "%s %s %s %s\n", p.name(path.String()), p.span(span(inst)), typeName(inst), p.value(inst.Render()))
	if v, err := inst.Value(); err == nil {
		fmt.Fprintf(cc.Out, "%d\n", v)
	}
	return nil
}
