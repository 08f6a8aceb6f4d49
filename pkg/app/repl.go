package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/zurustar/funk/pkg/compiler"
	"github.com/zurustar/funk/pkg/compiler/ast"
	"github.com/zurustar/funk/pkg/compiler/parser"
	"github.com/zurustar/funk/pkg/value"
	"github.com/zurustar/funk/pkg/vm"
)

const (
	replFile    = "<repl>"
	historyName = ".funk_history"

	promptMain = "funk> "
	promptMore = "  ... "
)

// LineReader は REPL の行入力。*liner.State が満たす。
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// runREPL 対話モードを起動
func (app *Application) runREPL() error {
	if app.lines != nil {
		return app.repl(app.lines)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	historyPath := app.historyPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		f, err := os.Create(historyPath)
		if err != nil {
			app.log.Debug("Cannot write history", "path", historyPath, "error", err)
			return
		}
		defer f.Close()
		line.WriteHistory(f)
	}()

	return app.repl(line)
}

// historyPath ~/.funk_history（ホームディレクトリがなければ空）
func (app *Application) historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		app.log.Debug("No home directory, history disabled", "error", err)
		return ""
	}
	return filepath.Join(home, historyName)
}

// repl 入力を1単位ずつ解析・実行する
// 途中で終わった入力は続きの行を待つ。エラーは報告して続行する。
func (app *Application) repl(r LineReader) error {
	machine := app.newVM()
	fmt.Fprintln(app.stdout, app.banner("Funk REPL. Type :quit or press Ctrl-D to exit."))

	var pending strings.Builder
	for {
		prompt := promptMain
		if pending.Len() > 0 {
			prompt = promptMore
		}

		input, err := r.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(app.stdout)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if pending.Len() == 0 {
			switch strings.TrimSpace(input) {
			case "":
				continue
			case ":quit", ":q":
				return nil
			}
		}

		pending.WriteString(input)
		pending.WriteString("\n")
		source := pending.String()

		program, more, err := compiler.ParseInteractive(source, replFile, parser.WithLogger(app.log))
		if more {
			continue
		}
		pending.Reset()
		r.AppendHistory(strings.TrimRight(source, "\n"))

		if err != nil {
			app.report(err, source)
			continue
		}

		result, err := app.runEntry(machine, program)
		if err != nil {
			app.report(err, source)
			continue
		}
		if endsWithExpression(program) && !result.IsNone() {
			fmt.Fprintln(app.stdout, result.Literal())
		}
	}
}

// runEntry 1回分の入力を実行する。実行中の Ctrl-C はその入力だけを中断する。
func (app *Application) runEntry(machine *vm.VM, program *ast.Program) (value.Value, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return machine.Run(ctx, program)
}

// endsWithExpression 最後の文が式文かどうか
func endsWithExpression(program *ast.Program) bool {
	if len(program.Statements) == 0 {
		return false
	}
	_, ok := program.Statements[len(program.Statements)-1].(ast.Expression)
	return ok
}

func (app *Application) banner(s string) string {
	if app.config.NoColor {
		return s
	}
	return color.New(color.FgCyan).Sprint(s)
}
