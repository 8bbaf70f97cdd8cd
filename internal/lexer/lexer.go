// Package lexer implements the lexical analysis (tokenization) for cicin.
package lexer

import (
	"strconv"
	"unicode/utf8"

	"cicin-lang/internal/diag"
	"cicin-lang/internal/span"
	"cicin-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
// Scanning stops at the first lexical error.
type Lexer struct {
	source string
	pos    span.Position
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source: source,
		pos:    span.Start(filename),
	}
}

// Tokenize scans the entire source. On success the returned slice always ends
// with a zero-width EOF token at the final position.
func (l *Lexer) Tokenize() ([]token.Token, *diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok, d := l.nextToken()
		if d != nil {
			return nil, d
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// ---- internal helpers ----

// peek returns the current character without advancing, or utf8.RuneError at end.
func (l *Lexer) peek() (rune, int) {
	if l.atEnd() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.source[l.pos.Offset:])
}

func (l *Lexer) atEnd() bool {
	return l.pos.Offset >= len(l.source)
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() rune {
	ch, width := l.peek()
	l.pos = l.pos.Advance(ch, width)
	return ch
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.pos}
}

func (l *Lexer) emit(kind token.Kind, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: l.source[start.Offset:l.pos.Offset], Span: l.makeSpan(start)}
}

// ---- token reading ----

func (l *Lexer) nextToken() (token.Token, *diag.Diagnostic) {
	for !l.atEnd() {
		ch, _ := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()
		case ch == '#':
			l.skipLineComment()
		default:
			return l.readToken()
		}
	}
	return token.Token{Kind: token.EOF, Span: l.makeSpan(l.pos)}, nil
}

// skipLineComment skips from # to end of line.
func (l *Lexer) skipLineComment() {
	for !l.atEnd() {
		if ch, _ := l.peek(); ch == '\n' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) readToken() (token.Token, *diag.Diagnostic) {
	start := l.pos
	ch, _ := l.peek()

	switch {
	case isLetter(ch):
		return l.readIdentifier(start), nil
	case isDigit(ch):
		return l.readNumber(start), nil
	case ch == '"' || ch == '\'':
		return l.readString(start)
	}

	l.advance()
	switch ch {
	case '+':
		return l.emit(token.PLUS, start), nil
	case '-':
		return l.emit(token.MINUS, start), nil
	case '*':
		return l.emit(token.STAR, start), nil
	case '/':
		return l.emit(token.SLASH, start), nil
	case '^':
		return l.emit(token.CARET, start), nil
	case '(':
		return l.emit(token.LPAREN, start), nil
	case ')':
		return l.emit(token.RPAREN, start), nil
	case '{':
		return l.emit(token.LBRACE, start), nil
	case '}':
		return l.emit(token.RBRACE, start), nil
	case ',':
		return l.emit(token.COMMA, start), nil
	case ';':
		return l.emit(token.SEMICOLON, start), nil
	case '>':
		return l.readCompound(start, token.GT, token.GTE), nil
	case '<':
		return l.readCompound(start, token.LT, token.LTE), nil
	case '=':
		return l.readCompound(start, token.ASSIGN, token.EQ), nil
	case '!':
		if next, _ := l.peek(); !l.atEnd() && next == '=' {
			l.advance()
			return l.emit(token.NEQ, start), nil
		}
		return token.Token{}, diag.Errorf(diag.IllegalCharacter, "E1002", l.makeSpan(start), "expected '=' after '!'")
	default:
		return token.Token{}, diag.Errorf(diag.IllegalCharacter, "E1003", l.makeSpan(start), "unexpected character: '%c'", ch)
	}
}

// readCompound emits compound when the next character is '=', bare otherwise.
func (l *Lexer) readCompound(start span.Position, bare, compound token.Kind) token.Token {
	if next, _ := l.peek(); !l.atEnd() && next == '=' {
		l.advance()
		return l.emit(compound, start)
	}
	return l.emit(bare, start)
}

// readString reads a string literal delimited by matching ' or " quotes.
// There are no escape sequences.
func (l *Lexer) readString(start span.Position) (token.Token, *diag.Diagnostic) {
	quote := l.advance()
	bodyStart := l.pos.Offset

	for !l.atEnd() {
		if ch, _ := l.peek(); ch == quote {
			value := l.source[bodyStart:l.pos.Offset]
			l.advance() // closing quote
			return token.Token{Kind: token.STRING, Lexeme: value, Span: l.makeSpan(start)}, nil
		}
		l.advance()
	}

	return token.Token{}, diag.Errorf(diag.IllegalCharacter, "E1001", l.makeSpan(start), "missing closing quote %q", quote)
}

// readNumber reads an integer or float literal. A second '.' ends the literal.
func (l *Lexer) readNumber(start span.Position) token.Token {
	isFloat := false
	for !l.atEnd() {
		ch, _ := l.peek()
		if ch == '.' {
			if isFloat {
				break
			}
			isFloat = true
		} else if !isDigit(ch) {
			break
		}
		l.advance()
	}

	tok := l.emit(token.INT, start)
	if isFloat {
		tok.Kind = token.FLOAT
	}
	// Digits with at most one dot always parse; overflow yields ±Inf.
	tok.Num, _ = strconv.ParseFloat(tok.Lexeme, 64)
	return tok
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	for !l.atEnd() {
		ch, _ := l.peek()
		if !isLetter(ch) && !isDigit(ch) && ch != '_' {
			break
		}
		l.advance()
	}

	tok := l.emit(token.IDENT, start)
	tok.Kind = token.LookupIdent(tok.Lexeme)
	return tok
}

// ---- character classification ----

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
