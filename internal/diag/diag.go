// Package diag provides the diagnostic type returned by every interpreter stage.
package diag

import (
	"fmt"

	"cicin-lang/internal/span"
)

// Kind classifies a diagnostic by the stage or rule that produced it.
type Kind int

const (
	IllegalCharacter Kind = iota
	SyntaxError
	NameNotFound
	RuntimeError
)

func (k Kind) String() string {
	switch k {
	case IllegalCharacter:
		return "Illegal Character"
	case SyntaxError:
		return "Syntax Error"
	case NameNotFound:
		return "Name Error"
	case RuntimeError:
		return "Runtime Error"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind serialize as its name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic represents a single error reported by the scanner, parser or evaluator.
type Diagnostic struct {
	Code    string    `json:"code"`    // stable error code, e.g. "E1001"
	Kind    Kind      `json:"kind"`    // error class
	Message string    `json:"message"` // human-readable description
	Span    span.Span `json:"span"`    // source location
}

// String returns a one-line representation of the diagnostic.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s at %s: %s", d.Code, d.Kind, d.Span.Start, d.Message)
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.String()
}

// Errorf creates a diagnostic of the given kind at the given span.
func Errorf(kind Kind, code string, s span.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    s,
	}
}
