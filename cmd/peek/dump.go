// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/MultiTechSystems/layout-schema/schema"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		cfg.Dump.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: dump requires exactly one file", cli.ErrUsage)
	}
	res, err := decodeFile(cfg.Format, cfg.Schema, args[0])
	if err != nil {
		return err
	}
	if err := printTree(cc.Out, res.Root, cfg.colors(cc.Out), cfg.Paths); err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("%s: %w", args[0], res.Err)
	}
	return nil
}

// printTree writes one line per instance. Incomplete slots are printed so
// that a partial tree shows where decoding stopped.
func printTree(w io.Writer, root schema.Instance, p *palette, fullPaths bool) error {
	return schema.Walk(root, func(path string, depth int, name string, inst schema.Instance) error {
		label := path
		if !fullPaths {
			label = strings.Repeat("  ", depth) + lastSegment(path)
		}
		val := inst.Render()
		if schema.Incomplete(inst) {
			val = p.incomplete(val)
		} else if val != "" {
			val = p.value(val)
		}
		_, err := fmt.Fprintf(w, "%s %s %s %s\n", p.name(label), p.span(span(inst)), typeName(inst), val)
		return err
	})
}

func lastSegment(path string) string {
	i := strings.LastIndexAny(path, ".[")
	if i < 0 {
		return path
	}
	if path[i] == '.' {
		return path[i+1:]
	}
	return path[i:]
}
