// Command cicin is the CLI entry point for the cicin language.
//
// Usage:
//
//	cicin <file>                   Run a source file
//	cicin tokens <file>            Print tokens
//	cicin tokens <file> --json     Print tokens as JSON
//	cicin parse  <file>            Print AST as JSON
//	cicin run    <file>            Run a source file
//	cicin repl                     Start interactive REPL
//
// Global flags: --config <path> selects a settings file, --trace enables debug logging.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"syscall"
	"time"

	"cicin-lang/internal/ast"
	"cicin-lang/internal/config"
	"cicin-lang/internal/diag"
	"cicin-lang/internal/lexer"
	"cicin-lang/internal/parser"
	"cicin-lang/internal/runtime"
)

// options holds the global flags shared by every command.
type options struct {
	configPath string
	trace      bool
	json       bool
}

func main() {
	args, opts, err := splitArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		usage()
		os.Exit(1)
	}
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Discover(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg, opts.trace)

	command := args[0]
	switch command {
	case "tokens", "parse", "run":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		source := mustReadFile(args[1])
		switch command {
		case "tokens":
			cmdTokens(source, args[1], opts.json)
		case "parse":
			cmdParse(source, args[1])
		default:
			cmdRun(cfg, source, args[1])
		}
	case "repl":
		cmdRepl(cfg)
	case "help", "-h", "--help":
		usage()
	default:
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", command)
			usage()
			os.Exit(1)
		}
		cmdRun(cfg, mustReadFile(command), command)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  cicin <file>                   Run a source file")
	fmt.Fprintln(os.Stderr, "  cicin tokens <file> [--json]   Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  cicin parse  <file>            Parse and print AST (JSON)")
	fmt.Fprintln(os.Stderr, "  cicin run    <file>            Run a source file")
	fmt.Fprintln(os.Stderr, "  cicin repl                     Start interactive REPL")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --config <path>   settings file (default: $CICIN_CONFIG, ./.cicin.yml, ~/.cicin.yml)")
	fmt.Fprintln(os.Stderr, "  --trace           log stage timings to stderr")
}

// splitArgs separates flags from positional arguments. Flags may appear anywhere.
func splitArgs(args []string) ([]string, options, error) {
	var opts options
	var rest []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--json":
			opts.json = true
		case "--trace":
			opts.trace = true
		case "--config":
			if i+1 >= len(args) {
				return nil, opts, errors.New("--config requires a path")
			}
			i++
			opts.configPath = args[i]
		default:
			rest = append(rest, arg)
		}
	}
	return rest, opts, nil
}

func setupLogging(cfg *config.Config, trace bool) {
	level := cfg.Level()
	if trace {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if cfg.Path != "" {
		slog.Debug("loaded config", "path", cfg.Path)
	}
}

func mustReadFile(filename string) string {
	source, err := readFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return source
}

// readFile reads a source file, turning common failures into short messages.
func readFile(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	switch {
	case err == nil:
		return string(source), nil
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%s does not exist", filename)
	case errors.Is(err, syscall.EISDIR):
		return "", fmt.Errorf("%s is a directory", filename)
	case errors.Is(err, fs.ErrPermission):
		return "", fmt.Errorf("you don't have permission to open %s", filename)
	default:
		return "", fmt.Errorf("cannot read file %s: %w", filename, err)
	}
}

// ---- tokens command ----

func cmdTokens(source, filename string, jsonMode bool) {
	tokens, d := lexer.New(source, filename).Tokenize()

	if jsonMode {
		printTokensJSON(os.Stdout, tokens, d)
	} else {
		printTokensText(os.Stdout, tokens)
		if d != nil {
			printDiag(os.Stderr, d, source, false)
		}
	}

	if d != nil {
		os.Exit(1)
	}
}

// ---- parse command ----

func cmdParse(source, filename string) {
	tokens, d := lexer.New(source, filename).Tokenize()

	var file *ast.File
	if d == nil {
		file, d = parser.New(tokens).ParseFile()
	}

	output := map[string]interface{}{
		"ast":         ast.NodeToMap(file),
		"diagnostics": diagsToSlice(d),
	}
	printJSON(os.Stdout, output)

	if d != nil {
		os.Exit(1)
	}
}

// ---- run command ----

func cmdRun(cfg *config.Config, source, filename string) {
	fail := func(d *diag.Diagnostic) {
		printDiag(os.Stderr, d, source, colorEnabled(cfg, os.Stderr))
		os.Exit(1)
	}

	// Tokenize
	start := time.Now()
	tokens, d := lexer.New(source, filename).Tokenize()
	if d != nil {
		fail(d)
	}
	slog.Debug("scanned", "file", filename, "tokens", len(tokens), "elapsed", time.Since(start))
	if len(tokens) == 1 {
		return
	}

	// Parse
	start = time.Now()
	file, d := parser.New(tokens).ParseFile()
	if d != nil {
		fail(d)
	}
	slog.Debug("parsed", "file", filename, "statements", len(file.Body), "elapsed", time.Since(start))

	// Interpret
	start = time.Now()
	interp := runtime.NewInterpreter(os.Stdout, runtime.NewLineReader(os.Stdin, os.Stdout))
	interp.MaxCallDepth = cfg.MaxCallDepth
	if _, d := interp.Interpret(file.Body, runtime.NewEnvironment(nil)); d != nil {
		fail(d)
	}
	slog.Debug("evaluated", "file", filename, "elapsed", time.Since(start))
}
