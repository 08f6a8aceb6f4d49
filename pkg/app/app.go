package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/zurustar/funk/pkg/cli"
	"github.com/zurustar/funk/pkg/compiler"
	"github.com/zurustar/funk/pkg/compiler/parser"
	"github.com/zurustar/funk/pkg/funkerr"
	"github.com/zurustar/funk/pkg/logger"
	"github.com/zurustar/funk/pkg/vm"
)

// 終了コード
const (
	ExitOK        = 0 // 正常終了
	ExitSetup     = 1 // 引数・ロガー・ソース読み込みの失敗
	ExitFunkError = 2 // プログラムがFunkのエラーを起こした
)

// ExitError は報告済みのエラーと終了コードを保持する
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config  *cli.Config
	log     *slog.Logger
	painter funkerr.Painter
	logFile *os.File

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// REPLの入力（nilならlinerを使う）
	lines LineReader
}

// Option はApplicationの設定を変更する
type Option func(*Application)

// WithStdin プログラムの入力（read）を設定
func WithStdin(r io.Reader) Option {
	return func(app *Application) {
		app.stdin = r
	}
}

// WithStdout プログラムの出力を設定
func WithStdout(w io.Writer) Option {
	return func(app *Application) {
		app.stdout = w
	}
}

// WithStderr エラー表示とログの出力先を設定
func WithStderr(w io.Writer) Option {
	return func(app *Application) {
		app.stderr = w
	}
}

// WithLineReader REPLの行入力を設定
func WithLineReader(r LineReader) Option {
	return func(app *Application) {
		app.lines = r
	}
}

// New Applicationを作成
func New(opts ...Option) *Application {
	app := &Application{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run アプリケーションを実行
// ソースファイルが指定されていればそれを実行し、なければREPLを起動する。
// Funkのエラーは報告済みの *ExitError として返す。
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer app.closeLogFile()

	app.painter = newPainter(app.config.NoColor)
	app.log.Info("Application started", "file", app.config.File, "args", len(app.config.Args))

	// 3. 実行
	var err error
	if app.config.File != "" {
		err = app.runFile()
	} else {
		err = app.runREPL()
	}
	if err != nil {
		return err
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	w := app.stderr
	if app.config.LogFile != "" {
		f, err := logger.OpenLogFile(app.config.LogFile)
		if err != nil {
			return err
		}
		app.logFile = f
		w = f
	}
	if err := logger.InitLoggerWithWriter(app.config.LogLevel, w); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

func (app *Application) closeLogFile() {
	if app.logFile != nil {
		app.logFile.Close()
		app.logFile = nil
	}
}

// runFile ソースファイルを読み込んで実行
func (app *Application) runFile() error {
	path := app.config.File

	program, source, err := compiler.ParseFile(path, app.config.Encoding,
		parser.WithArgs(app.config.Args),
		parser.WithLogger(app.log),
	)
	if funkerr.KindOf(err) == funkerr.File {
		return app.fail(err, "")
	}
	app.log.Info("Source loaded", "file", path, "encoding", app.config.Encoding, "bytes", len(source))

	// トークン列は構文エラーの場合も表示する
	if app.config.DumpTokens {
		if terr := app.dumpTokens(source, path); terr != nil {
			return app.fail(terr, source)
		}
	}
	if err != nil {
		return app.fail(err, source)
	}

	if app.config.DumpAST {
		fmt.Fprint(app.stdout, program.String())
	}

	// Ctrl-C で実行を中断
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := app.newVM().Run(ctx, program); err != nil {
		return app.fail(err, source)
	}
	return nil
}

// dumpTokens トークン列を表示
func (app *Application) dumpTokens(source, path string) error {
	tokens, err := compiler.Tokenize(source, path)
	for _, tok := range tokens {
		pos := fmt.Sprintf("%d:%d", tok.Pos.Line, tok.Pos.Column)
		fmt.Fprintf(app.stdout, "%-8s %-10s %s\n", pos, tok.Type, tok.Literal)
	}
	return err
}

func (app *Application) newVM() *vm.VM {
	return vm.New(
		vm.WithOutput(app.stdout),
		vm.WithInput(app.stdin),
		vm.WithLogger(app.log),
		vm.WithMaxDepth(app.config.MaxDepth),
		vm.WithTimeout(app.config.Timeout),
	)
}

// report エラーをトレース形式で表示
func (app *Application) report(err error, source string) {
	var ferr *funkerr.Error
	if errors.As(err, &ferr) {
		app.log.Debug("Funk error", "kind", string(ferr.Kind), "pos", ferr.Pos.String(), "message", ferr.Message)
		fmt.Fprintln(app.stderr, ferr.TraceWith(source, app.painter))
		return
	}
	app.log.Error("Unexpected error", "error", err)
	fmt.Fprintf(app.stderr, "Error: %v\n", err)
}

// fail エラーを報告し、終了コード付きで返す
func (app *Application) fail(err error, source string) error {
	app.report(err, source)
	return &ExitError{Code: exitCode(err), Err: err}
}

func exitCode(err error) int {
	switch funkerr.KindOf(err) {
	case funkerr.File, "":
		return ExitSetup
	}
	return ExitFunkError
}

// newPainter エラートレースの色付け
func newPainter(noColor bool) funkerr.Painter {
	if noColor {
		return funkerr.Painter{}
	}
	return funkerr.Painter{
		Header:  color.New(color.FgRed, color.Bold).SprintFunc(),
		Pointer: color.New(color.FgYellow, color.Bold).SprintFunc(),
	}
}
