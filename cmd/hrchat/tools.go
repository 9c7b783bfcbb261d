package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/output"
)

func cmdToolsList(ctx context.Context, cmd *cli.Command) error {
	rt, err := bootstrap(ctx, cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	descriptors := rt.executor.Registry().Descriptors()
	if cmd.Bool("json") {
		return output.NewJSONWriter(stdout(cmd)).WriteTools(descriptors)
	}

	p := output.NewPrinter(output.ModePlain, cmd.Bool("verbose"), stdout(cmd))
	rows := make([][]string, 0, len(descriptors))
	for _, d := range descriptors {
		rows = append(rows, []string{d.Name, strings.Join(d.InputSchema.Required, ", "), firstSentence(d.Description)})
	}
	p.Table([]string{"Name", "Required", "Description"}, rows)
	return nil
}

func cmdToolsCall(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("usage: hrchat tools call <name> [--args JSON] [--arg key=value ...]")
	}
	args, err := parseToolArgs(cmd.String("args"), cmd.StringSlice("arg"))
	if err != nil {
		return err
	}

	rt, err := bootstrap(ctx, cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	resp, err := rt.executor.Execute(ctx, name, args)
	if cmd.Bool("json") {
		jw := output.NewJSONWriter(stdout(cmd))
		if err != nil {
			if werr := jw.WriteError(string(hrerrors.CodeOf(err, hrerrors.CodeExecution)), hrerrors.MessageOf(err)); werr != nil {
				return werr
			}
			return err
		}
		return jw.WriteToolResult(resp)
	}
	if err != nil {
		return err
	}
	output.NewPrinter(output.ModePlain, cmd.Bool("verbose"), stdout(cmd)).Markdown(resp.Text())
	return nil
}

// parseToolArgs merges a JSON object with key=value pairs. Pair values
// that parse as JSON (numbers, booleans, null) keep their type; anything
// else is a string.
func parseToolArgs(raw string, pairs []string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, fmt.Errorf("--args must be a JSON object: %w", err)
		}
		if args == nil {
			args = map[string]any{}
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("--arg %q: expected key=value", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		args[key] = v
	}
	return args, nil
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
