// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "peek").
		WithSynopsis("peek [opts] command [opts]").
		WithDescription("peek decodes binary files into a tree of typed values using a layout schema.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return peekMain(cfg, cc, args)
		}).
		WithSubs(
			DumpCommand(cfg),
			EvalCommand(cfg),
			AtCommand(cfg),
			FormatsCommand(cfg))
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("dump").
		WithAliases("d").
		WithSynopsis("dump [-f format | -s schema.yaml] file").
		WithDescription("decode a file and print the instance tree").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
	cfg.Dump = cmd
	return cmd
}

func EvalCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EvalConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("eval").
		WithAliases("e").
		WithSynopsis("eval [-f format | -s schema.yaml] <path> file").
		WithDescription("decode a file and resolve a path expression such as root.dos.e_lfanew").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return eval(cfg, cc, args)
		})
	cfg.Eval = cmd
	return cmd
}

func AtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &AtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("at").
		WithSynopsis("at [-f format | -s schema.yaml] <offset> file").
		WithDescription("decode a file and show the instances covering a byte offset").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return at(cfg, cc, args)
		})
	cfg.At = cmd
	return cmd
}

func FormatsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FormatsConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("formats").
		WithSynopsis("formats").
		WithDescription("list the built-in formats").
		WithRun(func(cc *cli.Context, args []string) error {
			return formats(cfg, cc, args)
		})
	cfg.Formats = cmd
	return cmd
}
