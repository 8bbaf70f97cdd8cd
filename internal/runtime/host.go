package runtime

import (
	"bufio"
	"io"
	"strings"
)

// LineReader supplies one line of input for input_str and input_num.
// The prompt is rendered by the reader, so an interactive terminal can show it
// on the editing line.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// LineReaderFunc adapts an ordinary function to the LineReader interface.
type LineReaderFunc func(prompt string) (string, error)

// ReadLine calls f(prompt).
func (f LineReaderFunc) ReadLine(prompt string) (string, error) {
	return f(prompt)
}

// streamReader reads lines from an io.Reader and writes prompts to an io.Writer.
type streamReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineReader returns a LineReader that writes each prompt to out and reads
// one line from in. The line terminator is stripped. A nil in behaves as an
// empty stream; a nil out discards prompts.
func NewLineReader(in io.Reader, out io.Writer) LineReader {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	return &streamReader{in: bufio.NewReader(in), out: out}
}

func (r *streamReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(r.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := r.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
