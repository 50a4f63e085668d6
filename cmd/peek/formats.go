// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/MultiTechSystems/layout-schema/schema"
)

func formats(cfg *FormatsConfig, cc *cli.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: formats takes no arguments", cli.ErrUsage)
	}
	for _, name := range schema.Formats() {
		t, _ := schema.Lookup(name)
		fmt.Fprintf(cc.Out, "%s\t%s\n", name, t)
	}
	return nil
}
