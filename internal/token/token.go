// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"

	"cicin-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT  // identifiers: x, foo, my_var
	INT    // integer literals: 123
	FLOAT  // float literals: 3.14, 1.
	STRING // string literals: "hello", 'hello'

	// Operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /
	CARET // ^

	ASSIGN // =
	EQ     // ==
	NEQ    // !=
	LT     // <
	LTE    // <=
	GT     // >
	GTE    // >=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SEMICOLON // ;

	// Keywords
	KW_VAR
	KW_AND
	KW_OR
	KW_NOT
	KW_IF
	KW_ELIF
	KW_ELSE
	KW_FOR
	KW_INPUT_STR
	KW_INPUT_NUM
	KW_PRINT
	KW_STR
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	CARET:  "^",
	ASSIGN: "=",
	EQ:     "==",
	NEQ:    "!=",
	LT:     "<",
	LTE:    "<=",
	GT:     ">",
	GTE:    ">=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	SEMICOLON: ";",

	KW_VAR:       "var",
	KW_AND:       "and",
	KW_OR:        "or",
	KW_NOT:       "not",
	KW_IF:        "if",
	KW_ELIF:      "elif",
	KW_ELSE:      "else",
	KW_FOR:       "for",
	KW_INPUT_STR: "input_str",
	KW_INPUT_NUM: "input_num",
	KW_PRINT:     "print",
	KW_STR:       "str",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_VAR && k <= KW_STR
}

// IsLiteral returns true if the kind is a literal (ident/int/float/string).
func (k Kind) IsLiteral() bool {
	return k >= IDENT && k <= STRING
}

var keywords = map[string]Kind{
	"var":       KW_VAR,
	"and":       KW_AND,
	"or":        KW_OR,
	"not":       KW_NOT,
	"if":        KW_IF,
	"elif":      KW_ELIF,
	"else":      KW_ELSE,
	"for":       KW_FOR,
	"input_str": KW_INPUT_STR,
	"input_num": KW_INPUT_NUM,
	"print":     KW_PRINT,
	"str":       KW_STR,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Return is the identifier that starts a return statement.
// It is not in the keyword table; the parser matches it by lexeme.
const Return = "return"

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`        // source text; string contents without quotes
	Num    float64   `json:"num,omitempty"` // numeric value of INT and FLOAT tokens
	Span   span.Span `json:"span"`
}

// Is reports whether the token is an identifier with the given text.
func (t Token) Is(ident string) bool {
	return t.Kind == IDENT && t.Lexeme == ident
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
