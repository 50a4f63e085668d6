// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Command peek decodes binary files with a layout schema and prints the
// resulting tree.
package main

import (
	"context"

	"github.com/scott-cotton/cli"

	_ "github.com/MultiTechSystems/layout-schema/pe"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}
