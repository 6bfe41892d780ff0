// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main runs the zenitalk development backend on its own, for
// environments where only the backend is deployed.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/zenitalk/zenitalk-tui/internal/cli"
)

func main() {
	_, args := cli.Parse(append([]string{"serve-dev"}, os.Args[1:]...))

	p := args.Parser()
	switch {
	case p.BoolFlag("help", "h"):
		printHelp()
		return
	case p.BoolFlag("version"):
		fmt.Printf("zenitalk devserver v%s\n", cli.Version)
		return
	}

	os.Exit(cli.Run(context.Background(), cli.CmdServeDev, args, cli.StdIO()))
}

func printHelp() {
	fmt.Println(`zenitalk devserver v` + cli.Version + `

Runs an in-memory backend with /auth/register, /auth/login, /auth/me
and /chat for local development.

Usage:
  devserver [--addr host:port] [--config PATH] [-v]

Options:
  --addr        Listen address (default from [devserver] addr)
  --config      Config file to read [devserver] settings from
  -v, --verbose Debug logging
  -h, --help    Show this help
  --version     Show version

Environment:
  ZENITALK_JWT_SECRET   Token signing secret`)
}
