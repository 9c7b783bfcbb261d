package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/HexSleeves/hrchat/internal/bus"
	"github.com/HexSleeves/hrchat/internal/chat"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
	"github.com/HexSleeves/hrchat/internal/output"
	"github.com/HexSleeves/hrchat/internal/tui"
)

var errNoChat = hrerrors.New(hrerrors.CodeChat, "chat is not configured: no LLM API key")

// turnPrinter renders chat turns in plain or JSON mode.
type turnPrinter struct {
	printer *output.Printer
	json    *output.JSONWriter
	chatID  string
}

func newTurnPrinter(cmd *cli.Command, b *bus.MessageBus) *turnPrinter {
	tp := &turnPrinter{}
	verbose := cmd.Bool("verbose")
	if cmd.Bool("json") {
		tp.json = output.NewJSONWriter(stdout(cmd))
		b.SubscribeAll(tp.json.WriteProgress)
	} else {
		tp.printer = output.NewPrinter(output.ModePlain, verbose, stdout(cmd))
		if verbose {
			b.SubscribeAll(tp.printer.Progress)
		}
	}
	b.Subscribe(bus.MsgChatStarted, func(msg bus.Message) { tp.chatID = msg.ChatID })
	return tp
}

func (tp *turnPrinter) result(res *chat.Result) error {
	if tp.json != nil {
		return tp.json.WriteChatResult(tp.chatID, res)
	}
	tp.printer.Markdown(res.Response)
	tp.printer.Divider()
	used := "none"
	if len(res.ToolsUsed) > 0 {
		used = strings.Join(res.ToolsUsed, ", ")
	}
	tp.printer.KeyValue([][]string{{"Tools used", used}})
	return nil
}

func (tp *turnPrinter) failure(err error) error {
	code := hrerrors.CodeOf(err, hrerrors.CodeChat)
	if tp.json != nil {
		return tp.json.WriteError(string(code), hrerrors.MessageOf(err))
	}
	tp.printer.Error("%s: %s", code, hrerrors.MessageOf(err))
	return nil
}

func cmdAsk(ctx context.Context, cmd *cli.Command) error {
	question := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: hrchat ask <question>")
	}

	rt, err := bootstrap(ctx, cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	orchestrator, err := rt.requireChat()
	if err != nil {
		return err
	}

	tp := newTurnPrinter(cmd, rt.bus)
	var spinner *output.SpinnerHandle
	if tp.printer != nil && !cmd.Bool("verbose") {
		spinner = tp.printer.Spinner("Thinking...")
	}

	res, err := orchestrator.Chat(ctx, question, nil)
	if err != nil {
		spinner.Fail("failed")
		if werr := tp.failure(err); werr != nil {
			return werr
		}
		return err
	}
	spinner.Stop("done")
	return tp.result(res)
}

func cmdRepl(ctx context.Context, cmd *cli.Command) error {
	isTTY := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	mode := output.DetectMode(cmd.Bool("json"), true, isTTY)

	// The TUI owns the terminal, so its logs are dropped unless verbose.
	var logOut io.Writer = os.Stderr
	if mode == output.ModeTUI && !cmd.Bool("verbose") {
		logOut = io.Discard
	}
	rt, err := bootstrap(ctx, cmd, logOut)
	if err != nil {
		return err
	}
	defer rt.Close()

	orchestrator, err := rt.requireChat()
	if err != nil {
		return err
	}

	if mode == output.ModeTUI {
		if _, err := tui.NewProgram(ctx, orchestrator, rt.bus).Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}
	return runLineRepl(ctx, orchestrator, stdin(cmd), newTurnPrinter(cmd, rt.bus), stdout(cmd), mode == output.ModePlain)
}

// runLineRepl reads one question per line until EOF, "exit" or "quit".
// The conversation history is kept here and sent with every turn.
func runLineRepl(ctx context.Context, chatter tui.Chatter, in io.Reader, tp *turnPrinter, out io.Writer, prompt bool) error {
	var history []chat.HistoryMessage
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if prompt {
			fmt.Fprint(out, "› ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		res, err := chatter.Chat(ctx, question, history)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if werr := tp.failure(err); werr != nil {
				return werr
			}
			continue
		}
		history = append(history,
			chat.HistoryMessage{Role: "user", Content: question},
			chat.HistoryMessage{Role: "assistant", Content: res.Response},
		)
		if err := tp.result(res); err != nil {
			return err
		}
	}
}
