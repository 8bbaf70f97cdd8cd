package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"cicin-lang/internal/config"
	"cicin-lang/internal/diag"
	"cicin-lang/internal/token"
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: JSON encoding failed: %v\n", err)
		os.Exit(1)
	}
}

// colorEnabled reports whether ANSI colors should be written to f.
// Pipes and regular files never get escape codes.
func colorEnabled(cfg *config.Config, f *os.File) bool {
	return cfg.Color && f != nil && readline.IsTerminal(int(f.Fd()))
}

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + colorReset
}

// printDiag writes a diagnostic followed by the offending source line.
func printDiag(w io.Writer, d *diag.Diagnostic, source string, color bool) {
	fmt.Fprint(w, formatDiag(d, source, color))
}

// formatDiag renders a diagnostic as
//
//	Runtime Error [E3003]: division by zero
//	  --> main.cic:1:3
//	   |
//	 1 | 1 / 0;
//	   |   ^
func formatDiag(d *diag.Diagnostic, source string, color bool) string {
	var b strings.Builder
	header := fmt.Sprintf("%s [%s]", d.Kind, d.Code)
	fmt.Fprintf(&b, "%s: %s\n", paint(color, colorBold+colorRed, header), d.Message)

	start := d.Span.Start
	location := start.String()
	if start.File != "" {
		location = start.File + ":" + location
	}
	fmt.Fprintf(&b, "  %s %s\n", paint(color, colorCyan, "-->"), location)

	lines := strings.Split(source, "\n")
	if start.Line < 0 || start.Line >= len(lines) {
		return b.String()
	}
	text := []rune(strings.TrimRight(lines[start.Line], "\r"))

	gutter := strconv.Itoa(start.Line + 1)
	pad := strings.Repeat(" ", len(gutter))
	bar := paint(color, colorCyan, "|")

	col := start.Column
	if col > len(text) {
		col = len(text)
	}
	width := len(text) - col
	if d.Span.End.Line == start.Line {
		width = d.Span.End.Column - start.Column
	}
	if width < 1 {
		width = 1
	}

	fmt.Fprintf(&b, "%s %s\n", pad, bar)
	fmt.Fprintf(&b, "%s %s %s\n", paint(color, colorCyan, gutter), bar, string(text))
	fmt.Fprintf(&b, "%s %s %s%s\n", pad, bar, strings.Repeat(" ", col), paint(color, colorRed, strings.Repeat("^", width)))
	return b.String()
}

func diagsToSlice(d *diag.Diagnostic) []map[string]interface{} {
	result := []map[string]interface{}{}
	if d == nil {
		return result
	}
	return append(result, map[string]interface{}{
		"code":    d.Code,
		"kind":    d.Kind.String(),
		"message": d.Message,
		"line":    d.Span.Start.Line + 1,
		"column":  d.Span.Start.Column + 1,
		"offset":  d.Span.Start.Offset,
	})
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.STRING {
			lexeme = strconv.Quote(lexeme)
		}
		fmt.Fprintf(w, "%-12s %-20s %s\n", tok.Kind, lexeme, tok.Span.Start)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token, d *diag.Diagnostic) {
	type tokenJSON struct {
		Kind   string   `json:"kind"`
		Class  string   `json:"class"`
		Lexeme string   `json:"lexeme"`
		Value  *float64 `json:"value,omitempty"`
		Line   int      `json:"line"`
		Column int      `json:"column"`
		Offset int      `json:"offset"`
	}

	toks := []tokenJSON{}
	for _, tok := range tokens {
		entry := tokenJSON{
			Kind:   tok.Kind.String(),
			Class:  tokenClass(tok.Kind),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line + 1,
			Column: tok.Span.Start.Column + 1,
			Offset: tok.Span.Start.Offset,
		}
		if tok.Kind == token.INT || tok.Kind == token.FLOAT {
			num := tok.Num
			entry.Value = &num
		}
		toks = append(toks, entry)
	}

	output := map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(d),
	}
	printJSON(w, output)
}

func tokenClass(k token.Kind) string {
	switch {
	case k.IsKeyword():
		return "keyword"
	case k.IsLiteral():
		return "literal"
	case k == token.EOF:
		return "eof"
	default:
		return "symbol"
	}
}
