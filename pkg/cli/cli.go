package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zurustar/funk/pkg/fileutil"
	"github.com/zurustar/funk/pkg/vm"
)

// DefaultLogLevel is used when neither --log-level nor LOG_LEVEL is given.
const DefaultLogLevel = "warn"

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	File       string        // ソースファイル（空ならREPL）
	Args       []string      // スクリプトに渡す引数（ARGS）
	LogLevel   string        // ログレベル（debug, info, warn, error）
	LogFile    string        // ログ出力先ファイル（空なら標準エラー出力）
	Encoding   string        // ソースファイルの文字エンコーディング
	Timeout    time.Duration // タイムアウト時間（0は無制限）
	MaxDepth   int           // スコープの最大深さ
	DumpTokens bool          // トークン列を表示
	DumpAST    bool          // 構文木を表示
	NoColor    bool          // エラー表示の色付けを無効化
	ShowHelp   bool          // ヘルプ表示フラグ
}

// boolFlags は値を取らないフラグ
var boolFlags = map[string]bool{
	"d":        true,
	"debug":    true,
	"tokens":   true,
	"ast":      true,
	"no-color": true,
	"h":        true,
	"help":     true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// フラグと位置引数を分離：最初の位置引数以降はすべてスクリプトの引数
	flagArgs, positional := splitArgs(args)

	fs := flag.NewFlagSet("funk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}

	var timeoutSec int
	var debug bool
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", DefaultLogLevel, "ログレベル（短縮形）")
	fs.StringVar(&config.LogFile, "log-file", "", "ログ出力先ファイル")
	fs.StringVar(&config.LogFile, "o", "", "ログ出力先ファイル（短縮形）")
	fs.BoolVar(&debug, "debug", false, "デバッグログを有効化")
	fs.BoolVar(&debug, "d", false, "デバッグログを有効化（短縮形）")
	fs.StringVar(&config.Encoding, "encoding", fileutil.DefaultEncoding, "ソースファイルのエンコーディング")
	fs.StringVar(&config.Encoding, "e", fileutil.DefaultEncoding, "ソースファイルのエンコーディング（短縮形）")
	fs.IntVar(&config.MaxDepth, "max-depth", vm.MaxScopeDepth, "スコープの最大深さ")
	fs.BoolVar(&config.DumpTokens, "tokens", false, "トークン列を表示")
	fs.BoolVar(&config.DumpAST, "ast", false, "構文木を表示")
	fs.BoolVar(&config.NoColor, "no-color", false, "色付けを無効化")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}

	// コマンドラインで指定されたフラグ
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !set["timeout"] && !set["t"] {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}
	if !set["log-level"] && !set["l"] {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}
	if !set["log-file"] && !set["o"] {
		config.LogFile = os.Getenv("FUNK_LOG_FILE")
	}
	if !set["encoding"] && !set["e"] {
		if encodingEnv := os.Getenv("FUNK_ENCODING"); encodingEnv != "" {
			config.Encoding = encodingEnv
		}
	}
	if !config.NoColor && os.Getenv("NO_COLOR") != "" {
		config.NoColor = true
	}

	// --debug は --log-level debug の短縮
	if debug {
		config.LogLevel = "debug"
	}

	// タイムアウトの検証
	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	if config.MaxDepth <= 0 {
		return nil, fmt.Errorf("max-depth must be positive, got %d", config.MaxDepth)
	}

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// 位置引数（ソースファイルとスクリプト引数）
	if len(positional) > 0 {
		config.File = positional[0]
		config.Args = append([]string(nil), positional[1:]...)
	}

	return config, nil
}

// splitArgs 引数をフラグと位置引数に分ける
// 最初の位置引数、または "--" 以降はすべて位置引数として扱う
func splitArgs(args []string) (flags, positional []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:]
		}
		if len(arg) < 2 || arg[0] != '-' {
			return flags, args[i:]
		}

		flags = append(flags, arg)

		// 値を取るフラグ（-t 5 のような場合）は次の引数も追加
		name := strings.TrimLeft(arg, "-")
		if !strings.Contains(name, "=") && !boolFlags[name] && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return flags, nil
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `funk - Funk Interpreter

Usage:
  funk [options] [file [args...]]

Arguments:
  file          実行するソースファイル（省略時は対話モード）
  args          スクリプトに ARGS として渡す引数

Options:
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: %s）
  -o, --log-file <path>       ログをファイルに出力（デフォルト: 標準エラー出力）
  -d, --debug                 --log-level debug と同じ
  -e, --encoding <name>       ソースファイルのエンコーディング（デフォルト: %s）
  -t, --timeout <seconds>     指定秒数後に実行を中断（デフォルト: 無制限）
      --max-depth <n>         スコープの最大深さ（デフォルト: %d）
      --tokens                トークン列を表示
      --ast                   構文木を表示
      --no-color              エラー表示の色付けを無効化
  -h, --help                  このヘルプを表示

Environment Variables:
  LOG_LEVEL=<level>           ログレベル
  FUNK_LOG_FILE=<path>        ログ出力先ファイル
  FUNK_ENCODING=<name>        ソースファイルのエンコーディング
  TIMEOUT=<seconds>           タイムアウト時間（秒）
  NO_COLOR=1                  色付けを無効化

Examples:
  funk hello.funk                 ファイルを実行
  funk script.funk a b c          ARGS に ["a", "b", "c"] を渡して実行
  funk -e shift_jis old.funk      Shift_JIS のソースを実行
  funk --ast hello.funk           構文木を表示してから実行
  funk                            対話モード（REPL）
`, DefaultLogLevel, fileutil.DefaultEncoding, vm.MaxScopeDepth)
}
