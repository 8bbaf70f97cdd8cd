package runtime

import (
	"cicin-lang/internal/diag"
	"cicin-lang/internal/lexer"
	"cicin-lang/internal/parser"
)

// RunSource scans, parses and interprets source against env.
// Source with no tokens evaluates to Unit without parsing.
func (i *Interpreter) RunSource(filename, source string, env *Environment) (Value, *diag.Diagnostic) {
	tokens, d := lexer.New(source, filename).Tokenize()
	if d != nil {
		return nil, d
	}
	if len(tokens) == 1 {
		return Unit{}, nil
	}

	file, d := parser.New(tokens).ParseFile()
	if d != nil {
		return nil, d
	}
	return i.Interpret(file.Body, env)
}
