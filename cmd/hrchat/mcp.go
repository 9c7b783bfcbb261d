package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hrchat/internal/logging"
	"github.com/HexSleeves/hrchat/internal/mcpserver"
)

// cmdMCP serves the catalog on stdio. Stdout carries the protocol, so logs
// always go to stderr.
func cmdMCP(ctx context.Context, cmd *cli.Command) error {
	rt, err := bootstrap(ctx, cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := mcpserver.New(ctx, rt.executor, version, logging.Component(rt.logger, "mcp"))
	rt.logger.Info("serving MCP on stdio", "tools", rt.executor.Registry().Len())
	return srv.Serve()
}
