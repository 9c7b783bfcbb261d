package tools

import (
	"context"
	"database/sql/driver"
	"errors"
	"log/slog"
	"time"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/logging"
)

// FailurePolicy decides what happens to network-sourced handler failures.
type FailurePolicy string

const (
	// PolicyRender turns them into an ordinary response carrying the
	// handler's explanatory text.
	PolicyRender FailurePolicy = "render"
	// PolicyRaise returns them as upstream_unavailable errors.
	PolicyRaise FailurePolicy = "raise"
)

// Executor validates and dispatches tool calls. It is shared by the HTTP,
// MCP and chat paths.
type Executor struct {
	registry *Registry
	policy   FailurePolicy
	logger   *slog.Logger
}

// NewExecutor returns an executor over registry. Unknown policies fall back
// to PolicyRender; a nil logger discards.
func NewExecutor(registry *Registry, policy FailurePolicy, logger *slog.Logger) *Executor {
	if policy != PolicyRaise {
		policy = PolicyRender
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Executor{registry: registry, policy: policy, logger: logger}
}

func (e *Executor) Registry() *Registry { return e.registry }

// Execute runs tool name with args. Failures are *errors.ToolError values.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any) (resp *Response, err error) {
	tool, ok := e.registry.Lookup(name)
	if !ok {
		return nil, hrerrors.New(hrerrors.CodeToolNotFound, "Tool '%s' not found", name)
	}

	a := Args(args)
	if a == nil {
		a = Args{}
	}
	for _, req := range tool.Spec.InputSchema.Required {
		if a.Missing(req) {
			return nil, hrerrors.New(hrerrors.CodeInvalidRequest, "%s argument is required", req)
		}
	}

	defer func() {
		if r := hrerrors.RecoverPanic(recover()); r.Recovered {
			e.logger.Error("tool panicked", "tool", name, "panic", r.ErrorMsg)
			resp = nil
			err = hrerrors.New(hrerrors.CodeExecution, "%s", r.ErrorMsg)
		}
	}()

	start := time.Now()
	result := tool.Handler(ctx, a)
	elapsed := time.Since(start)

	if result.Err == nil {
		e.logger.Debug("tool executed", "tool", name, "duration", elapsed)
		return newResponse(result.Text), nil
	}

	if result.Source == SourceNetwork && e.policy == PolicyRender && len(result.Text) > 0 {
		e.logger.Warn("tool upstream failure rendered as text", "tool", name, "error", result.Err, "duration", elapsed)
		return newResponse(result.Text), nil
	}

	e.logger.Warn("tool failed", "tool", name, "source", string(result.Source), "error", result.Err, "duration", elapsed)
	return nil, classify(result)
}

// classify maps a handler failure onto the error taxonomy. Errors that
// already carry a code keep it.
func classify(r Result) *hrerrors.ToolError {
	var te *hrerrors.ToolError
	if errors.As(r.Err, &te) {
		return te
	}
	switch r.Source {
	case SourceNetwork:
		return hrerrors.Wrap(hrerrors.CodeUpstreamUnavailable, r.Err, "")
	case SourceDatabase:
		if errors.Is(r.Err, driver.ErrBadConn) || hrerrors.IsRetryable(r.Err) {
			return hrerrors.Wrap(hrerrors.CodeUpstreamUnavailable, r.Err, "")
		}
	}
	return hrerrors.Wrap(hrerrors.CodeExecution, r.Err, "")
}
