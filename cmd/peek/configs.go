// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/MultiTechSystems/layout-schema/schema"
)

const defaultFormat = "pe32"

type MainConfig struct {
	Verbose bool `cli:"name=v desc='debug logging'"`
	Color   bool `cli:"name=color desc='force colored output'"`
	NoColor bool `cli:"name=nocolor desc='disable colored output'"`

	Main *cli.Command
}

type DumpConfig struct {
	*MainConfig
	Format string `cli:"name=f aliases=format desc='registered format to decode with (default pe32)'"`
	Schema string `cli:"name=s aliases=schema desc='schema file to decode with'"`
	Paths  bool   `cli:"name=p desc='print full paths instead of indented names'"`

	Dump *cli.Command
}

type EvalConfig struct {
	*MainConfig
	Format string `cli:"name=f aliases=format desc='registered format to decode with (default pe32)'"`
	Schema string `cli:"name=s aliases=schema desc='schema file to decode with'"`

	Eval *cli.Command
}

type AtConfig struct {
	*MainConfig
	Format string `cli:"name=f aliases=format desc='registered format to decode with (default pe32)'"`
	Schema string `cli:"name=s aliases=schema desc='schema file to decode with'"`

	At *cli.Command
}

type FormatsConfig struct {
	*MainConfig

	Formats *cli.Command
}

func (cfg *MainConfig) logger() (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zc.DisableStacktrace = true
	return zc.Build()
}

// colors decides whether output to w is colored: explicit flags win,
// otherwise color is used when w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) *palette {
	switch {
	case cfg.NoColor:
		return newPalette(false)
	case cfg.Color:
		return newPalette(true)
	}
	f, ok := w.(*os.File)
	if !ok {
		return newPalette(false)
	}
	return newPalette(isatty.IsTerminal(f.Fd()))
}

type palette struct {
	name, span, value, incomplete func(a ...any) string
}

func newPalette(enabled bool) *palette {
	if !enabled {
		return &palette{name: fmt.Sprint, span: fmt.Sprint, value: fmt.Sprint, incomplete: fmt.Sprint}
	}
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return &palette{
		name:       mk(color.FgCyan),
		span:       mk(color.FgHiBlack),
		value:      mk(color.FgGreen),
		incomplete: mk(color.FgRed, color.Bold),
	}
}

// resolveType picks the root descriptor: a schema file when given,
// otherwise a registered format.
func resolveType(format, schemaFile string) (schema.Type, error) {
	if schemaFile != "" {
		data, err := os.ReadFile(schemaFile)
		if err != nil {
			return nil, fmt.Errorf("could not read schema %q: %w", schemaFile, err)
		}
		s, err := schema.ParseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", schemaFile, err)
		}
		return s.Root, nil
	}
	if format == "" {
		format = defaultFormat
	}
	t, ok := schema.Lookup(format)
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q", cli.ErrUsage, format)
	}
	return t, nil
}

// decodeFile decodes file and returns the result even when the decode
// failed part way; the failure has already been logged by the driver.
func decodeFile(format, schemaFile, file string) (*schema.Result, error) {
	t, err := resolveType(format, schemaFile)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", file, err)
	}
	res, _ := schema.Decode(t, buf)
	return res, nil
}
