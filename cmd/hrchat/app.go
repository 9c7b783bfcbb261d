package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hrchat/internal/config"
)

// version is set via ldflags at build time.
// e.g. -ldflags "-X main.version=1.2.3"
var version = "dev"

// newApp creates the CLI application with all flags and commands.
func newApp() *cli.Command {
	return &cli.Command{
		Name:        "hrchat",
		Usage:       "HR database tools and assistant",
		Version:     version,
		UsageText:   "hrchat [global options] command [command options] [arguments...]",
		Description: "hrchat exposes read-only HR query tools over HTTP, MCP and an LLM chat loop",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (.json, .yaml)",
				Value:   config.DefaultPath,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose logging and tool progress",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output newline-delimited JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "Listen host (overrides server.host)"},
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (overrides server.port)"},
				},
				Action: cmdServe,
			},
			{
				Name:  "tools",
				Usage: "Inspect and run the HR tools directly",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List the tool catalog",
						Action: cmdToolsList,
					},
					{
						Name:      "call",
						Usage:     "Execute one tool",
						ArgsUsage: "<name>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "args", Usage: "Arguments as a JSON object"},
							&cli.StringSliceFlag{Name: "arg", Usage: "Single argument as key=value (repeatable)"},
						},
						Action: cmdToolsCall,
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask the assistant one question",
				ArgsUsage: "<question>",
				Action:    cmdAsk,
			},
			{
				Name:   "repl",
				Usage:  "Chat with the assistant interactively",
				Action: cmdRepl,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the tools over MCP on stdio",
				Action: cmdMCP,
			},
			{
				Name:  "seed",
				Usage: "Create a demo SQLite HR database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "Database file (defaults to database.path, then hr.db)"},
				},
				Action: cmdSeed,
			},
			{
				Name:  "init",
				Usage: "Write a default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing file"},
				},
				Action: cmdInit,
			},
			{
				Name:   "config",
				Usage:  "Show current configuration",
				Action: cmdConfig,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// A bare question is an implicit ask.
			if cmd.Args().Len() > 0 {
				return cmdAsk(ctx, cmd)
			}
			return cli.ShowAppHelp(cmd)
		},
	}
}
