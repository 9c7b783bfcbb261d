package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hrchat/internal/config"
	"github.com/HexSleeves/hrchat/internal/output"
	"github.com/HexSleeves/hrchat/internal/server"
	"github.com/HexSleeves/hrchat/internal/store"
)

func cmdServe(ctx context.Context, cmd *cli.Command) error {
	rt, err := bootstrap(ctx, cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	if host := cmd.String("host"); host != "" {
		rt.cfg.Server.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		rt.cfg.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var chatter server.Chatter
	if rt.chat != nil {
		chatter = rt.chat
	}
	srv := server.New(rt.cfg.Server, rt.executor, chatter, rt.store, rt.logger)
	if err := srv.ListenAndServe(ctx, rt.cfg.Addr()); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	rt.logger.Info("server stopped")
	return nil
}

func cmdSeed(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path = cfg.Database.Path
	}
	if path == "" {
		path = "hr.db"
	}

	if err := store.Seed(ctx, path); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}

	if cmd.Bool("json") {
		return output.NewJSONWriter(stdout(cmd)).WriteToolResult(map[string]string{"seeded": path})
	}
	p := output.NewPrinter(output.ModePlain, cmd.Bool("verbose"), stdout(cmd))
	p.Success("Seeded demo HR database at %s", path)
	p.Info("Use it with database.driver=sqlite and database.path=%s (or DB_DRIVER/DB_PATH)", path)
	return nil
}

func cmdInit(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	p := output.NewPrinter(output.ModePlain, false, stdout(cmd))
	p.Success("Config saved to %s", configPath)
	p.Info("Set ANTHROPIC_API_KEY (or OPENAI_API_KEY) to enable chat")
	return nil
}

func cmdConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	redacted := *cfg
	redacted.LLM.APIKey = mask(cfg.LLM.APIKey)
	redacted.Database.Password = mask(cfg.Database.Password)

	if cmd.Bool("json") {
		enc := json.NewEncoder(stdout(cmd))
		enc.SetIndent("", "  ")
		return enc.Encode(&redacted)
	}

	p := output.NewPrinter(output.ModePlain, false, stdout(cmd))
	p.Header("Configuration (" + configPath + ")")
	p.KeyValue([][]string{
		{"Listen", redacted.Addr()},
		{"LLM", fmt.Sprintf("%s (%s)", redacted.LLM.Model, redacted.LLM.Provider)},
		{"API key", orNone(redacted.LLM.APIKey)},
		{"Max rounds", strconv.Itoa(redacted.LLM.MaxRounds)},
		{"Parallel tools", strconv.FormatBool(redacted.Chat.ParallelTools)},
		{"Chat timeout", redacted.Chat.Timeout.String()},
		{"Database", describeDatabase(redacted.Database)},
		{"Employee API", redacted.EmployeeAPI.BaseURL},
		{"Allowed tables", strings.Join(redacted.Safety.AllowedTables, ", ")},
		{"Max rows", strconv.Itoa(redacted.Safety.MaxRows)},
		{"Upstream failures", redacted.Tools.UpstreamFailures},
		{"Log level", redacted.Logging.Level},
	})
	if err := cfg.Validate(); err != nil {
		p.Warning("%v", err)
	}
	return nil
}

func describeDatabase(db config.DatabaseConfig) string {
	if db.Driver == "sqlite" {
		return "sqlite " + db.Path
	}
	return fmt.Sprintf("%s %s@%s:%d/%s", db.Driver, db.User, db.Host, db.Port, db.Name)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
