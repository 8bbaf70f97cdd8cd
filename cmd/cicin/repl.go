package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"cicin-lang/internal/config"
	"cicin-lang/internal/runtime"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// ---- repl command ----

func cmdRepl(cfg *config.Config) {
	color := colorEnabled(cfg, os.Stdout)
	errColor := colorEnabled(cfg, os.Stderr)
	prompt := paint(color, colorGreen, cfg.Prompt)
	contPrompt := paint(color, colorGray, strings.Repeat(".", len(strings.TrimRight(cfg.Prompt, " ")))+" ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	// Welcome banner
	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		paint(color, colorBold+colorCyan, "cicin REPL"),
		paint(color, colorGray, "(type 'exit' or Ctrl+D to quit, ':vars' to list names, ':reset' to clear them)"))

	// input_str/input_num read through the same line editor, with the script's prompt.
	input := runtime.LineReaderFunc(func(p string) (string, error) {
		rl.SetPrompt(p)
		defer rl.SetPrompt(prompt)
		return rl.Readline()
	})

	interp := runtime.NewInterpreter(rl.Stdout(), input)
	interp.MaxCallDepth = cfg.MaxCallDepth
	env := runtime.NewEnvironment(nil)

	var accumulated strings.Builder
	braceDepth := 0

	for {
		// Update prompt based on multi-line state
		if braceDepth > 0 {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if braceDepth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "%s\n", paint(color, colorGray, "(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			// EOF (Ctrl+D) or other error → exit
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 {
			switch strings.TrimSpace(line) {
			case "exit":
				return
			case ":vars":
				printVars(rl.Stdout(), env)
				continue
			case ":reset":
				env = runtime.NewEnvironment(nil)
				continue
			}
		}

		// Count braces for multi-line input
		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		// If braces are unbalanced, keep reading
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()

		if _, d := interp.RunSource("<repl>", source, env); d != nil {
			printDiag(rl.Stderr(), d, source, errColor)
		}
	}
}

// printVars lists the names bound in the REPL's root scope.
func printVars(w io.Writer, env *runtime.Environment) {
	for _, name := range env.Names() {
		val, _ := env.Get(name)
		rendered := val.String()
		if _, ok := val.(runtime.String); ok {
			rendered = fmt.Sprintf("%q", rendered)
		}
		fmt.Fprintf(w, "%s = %s (%s)\n", name, rendered, val.TypeName())
	}
}
