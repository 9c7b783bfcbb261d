package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/HexSleeves/hrchat/internal/bus"
	"github.com/HexSleeves/hrchat/internal/chat"
	"github.com/HexSleeves/hrchat/internal/config"
	"github.com/HexSleeves/hrchat/internal/employeeapi"
	"github.com/HexSleeves/hrchat/internal/llm"
	"github.com/HexSleeves/hrchat/internal/logging"
	"github.com/HexSleeves/hrchat/internal/safety"
	"github.com/HexSleeves/hrchat/internal/store"
	"github.com/HexSleeves/hrchat/internal/tools"
)

// runtime holds everything a command needs, built once from the config.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	executor *tools.Executor
	bus      *bus.MessageBus
	// chat is nil when no LLM API key is configured.
	chat *chat.Orchestrator
}

// loadConfig reads --config, applies the environment and validates.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bootstrap wires the store, the tool catalog and, when possible, the chat
// orchestrator. Logs go to logOut.
func bootstrap(ctx context.Context, cmd *cli.Command, logOut io.Writer) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	logger := logging.New(level, cfg.Logging.Format, logOut)

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	directory := employeeapi.New(cfg.EmployeeAPI.BaseURL, cfg.EmployeeAPI.Timeout, cfg.EmployeeAPI.MaxRetries,
		logging.Component(logger, "employeeapi"))

	registry, err := tools.NewRegistry(tools.Catalog(tools.Deps{
		DB:        st,
		Guard:     safety.NewGuard(cfg.Safety),
		Directory: directory,
		MaxRows:   cfg.Safety.MaxRows,
		Logger:    logging.Component(logger, "tools"),
	})...)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		executor: tools.NewExecutor(registry, tools.FailurePolicy(cfg.Tools.UpstreamFailures), logging.Component(logger, "executor")),
		bus:      bus.New(0),
	}

	if cfg.LLM.APIKey == "" {
		logger.Warn("no LLM API key configured, chat is disabled", "provider", cfg.LLM.Provider)
		return rt, nil
	}
	client, err := llm.NewFromConfig(llm.ProviderConfig{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	rt.chat = chat.New(client, rt.executor, chat.Config{
		MaxRounds:     cfg.LLM.MaxRounds,
		MaxRetries:    cfg.LLM.MaxRetries,
		ParallelTools: cfg.Chat.ParallelTools,
		Timeout:       cfg.Chat.Timeout,
		SystemPrompt:  cfg.LLM.SystemPrompt,
		HistoryTokens: cfg.Chat.HistoryTokens,
	}, rt.bus, logging.Component(logger, "chat"))
	return rt, nil
}

// requireChat returns the orchestrator or a chat_error explaining why
// there is none.
func (rt *runtime) requireChat() (*chat.Orchestrator, error) {
	if rt.chat == nil {
		return nil, errNoChat
	}
	return rt.chat, nil
}

func (rt *runtime) Close() error {
	return rt.store.Close()
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}
