// Package span provides source position and span types used across the interpreter.
package span

import "fmt"

// Position represents a position in source code.
// Line and Column are 0-based; String renders them 1-based.
type Position struct {
	File   string `json:"file,omitempty"` // name of the source the position belongs to
	Offset int    `json:"offset"`         // byte offset from beginning of source
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Start returns the position of the first character of the named source.
func Start(file string) Position {
	return Position{File: file}
}

// Advance returns the position after consuming a character of the given byte width.
// Passing a newline moves to the next line and resets the column.
func (p Position) Advance(ch rune, width int) Position {
	p.Offset += width
	if ch == '\n' {
		p.Line++
		p.Column = 0
	} else {
		p.Column++
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Span represents a range in source code [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
