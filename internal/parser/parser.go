// Package parser implements the syntax analysis for cicin.
// It is a recursive-descent parser with one function per precedence tier;
// parsing stops at the first syntax error.
package parser

import (
	"cicin-lang/internal/ast"
	"cicin-lang/internal/diag"
	"cicin-lang/internal/span"
	"cicin-lang/internal/token"
)

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens    []token.Token
	pos       int
	funcDepth int // number of enclosing function bodies
}

// New creates a new parser from a token slice produced by the lexer.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseFile parses the entire token stream into a list of top-level statements.
func (p *Parser) ParseFile() (*ast.File, *diag.Diagnostic) {
	file := &ast.File{}
	startPos := p.peek().Span.Start

	for !p.isAtEnd() {
		node, d := p.parseTerminatedStmt()
		if d != nil {
			return nil, d
		}
		file.Body = append(file.Body, node)
	}

	file.Span = span.Span{Start: startPos, End: p.peek().Span.End}
	return file, nil
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			return token.Token{Kind: token.EOF, Span: span.Span{Start: last.Span.End, End: last.Span.End}}
		}
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, *diag.Diagnostic) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorf("E2001", "expected '%s'", kind)
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// errorf reports a syntax error at the current token.
func (p *Parser) errorf(code, format string, args ...interface{}) *diag.Diagnostic {
	return diag.Errorf(diag.SyntaxError, code, p.peek().Span, format, args...)
}

// ============================================================
// Statement parsing
// ============================================================

// parseTerminatedStmt parses one statement plus its ';' when one is required.
func (p *Parser) parseTerminatedStmt() (ast.Node, *diag.Diagnostic) {
	node, d := p.parseStmt()
	if d != nil {
		return nil, d
	}
	if !selfTerminating(node) {
		if _, d := p.expect(token.SEMICOLON); d != nil {
			return nil, d
		}
	}
	return node, nil
}

// selfTerminating reports whether a statement ends with its own closing brace,
// in which case no ';' follows it.
func selfTerminating(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.ForStmt, *ast.IfStmt, *ast.FuncLiteral:
		return true
	case *ast.VarDeclExpr:
		return isFuncLiteral(n.Value)
	case *ast.AssignExpr:
		return isFuncLiteral(n.Value)
	case *ast.ReturnStmt:
		return isFuncLiteral(n.Value)
	default:
		return false
	}
}

func isFuncLiteral(expr ast.Expr) bool {
	_, ok := expr.(*ast.FuncLiteral)
	return ok
}

func (p *Parser) parseStmt() (ast.Node, *diag.Diagnostic) {
	tok := p.peek()
	switch {
	case tok.Kind == token.KW_IF:
		return p.parseIfStmt()
	case tok.Kind == token.KW_FOR:
		return p.parseForStmt()
	case tok.Kind == token.KW_PRINT:
		return p.parsePrintStmt()
	case tok.Is(token.Return):
		return p.parseReturnStmt()
	default:
		return p.parseValueExpr()
	}
}

// parseBlock parses: { stmts }
func (p *Parser) parseBlock() ([]ast.Node, *diag.Diagnostic) {
	if _, d := p.expect(token.LBRACE); d != nil {
		return nil, d
	}

	var body []ast.Node
	for !p.check(token.RBRACE) {
		if p.isAtEnd() {
			return nil, p.errorf("E2001", "expected '}'")
		}
		node, d := p.parseTerminatedStmt()
		if d != nil {
			return nil, d
		}
		body = append(body, node)
	}

	p.advance() // consume '}'
	return body, nil
}

// parseParenExpr parses: ( expr )
func (p *Parser) parseParenExpr() (ast.Expr, *diag.Diagnostic) {
	if _, d := p.expect(token.LPAREN); d != nil {
		return nil, d
	}
	expr, d := p.parseValueExpr()
	if d != nil {
		return nil, d
	}
	if _, d := p.expect(token.RPAREN); d != nil {
		return nil, d
	}
	return expr, nil
}

// parseIfStmt parses: if (expr) block { elif (expr) block } else block
func (p *Parser) parseIfStmt() (ast.Node, *diag.Diagnostic) {
	start := p.advance() // consume 'if'
	stmt := &ast.IfStmt{}

	var d *diag.Diagnostic
	if stmt.Condition, d = p.parseParenExpr(); d != nil {
		return nil, d
	}
	if stmt.Body, d = p.parseBlock(); d != nil {
		return nil, d
	}

	for p.check(token.KW_ELIF) {
		elifStart := p.advance() // consume 'elif'
		clause := ast.ElifClause{}
		if clause.Condition, d = p.parseParenExpr(); d != nil {
			return nil, d
		}
		if clause.Body, d = p.parseBlock(); d != nil {
			return nil, d
		}
		clause.Span = p.makeSpan(elifStart.Span.Start)
		stmt.Elifs = append(stmt.Elifs, clause)
	}

	if !p.check(token.KW_ELSE) {
		return nil, p.errorf("E2003", "expected 'else'")
	}
	p.advance()
	if stmt.ElseBody, d = p.parseBlock(); d != nil {
		return nil, d
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt, nil
}

// parseForStmt parses: for ( [init]; cond; update ) block
func (p *Parser) parseForStmt() (ast.Node, *diag.Diagnostic) {
	start := p.advance() // consume 'for'
	stmt := &ast.ForStmt{}

	if _, d := p.expect(token.LPAREN); d != nil {
		return nil, d
	}

	var d *diag.Diagnostic
	if !p.check(token.SEMICOLON) {
		if stmt.Init, d = p.parseForClause(); d != nil {
			return nil, d
		}
	}
	if _, d = p.expect(token.SEMICOLON); d != nil {
		return nil, d
	}

	if stmt.Condition, d = p.parseValueExpr(); d != nil {
		return nil, d
	}
	if _, d = p.expect(token.SEMICOLON); d != nil {
		return nil, d
	}

	if stmt.Update, d = p.parseForClause(); d != nil {
		return nil, d
	}
	if _, d = p.expect(token.RPAREN); d != nil {
		return nil, d
	}

	if stmt.Body, d = p.parseBlock(); d != nil {
		return nil, d
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt, nil
}

// parseForClause parses the init or update clause of a for loop.
func (p *Parser) parseForClause() (ast.Node, *diag.Diagnostic) {
	if p.peek().Is(token.Return) {
		return nil, p.errorf("E2004", "return is not allowed in a for clause")
	}
	return p.parseStmt()
}

// parsePrintStmt parses: print ( expr )
func (p *Parser) parsePrintStmt() (ast.Node, *diag.Diagnostic) {
	start := p.advance() // consume 'print'
	value, d := p.parseParenExpr()
	if d != nil {
		return nil, d
	}
	return &ast.PrintStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Value:    value,
	}, nil
}

// parseReturnStmt parses: return expr
func (p *Parser) parseReturnStmt() (ast.Node, *diag.Diagnostic) {
	if p.funcDepth == 0 {
		return nil, p.errorf("E2004", "return statements are only allowed inside function bodies")
	}
	start := p.advance() // consume 'return'
	value, d := p.parseValueExpr()
	if d != nil {
		return nil, d
	}
	return &ast.ReturnStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Value:    value,
	}, nil
}

// ============================================================
// Expression parsing
// ============================================================

// parseValueExpr parses a declaration, an assignment or an or-chain.
//
//	valueExpr := 'var' IDENT '=' valueExpr
//	           | orChain [ '=' valueExpr ]   (only when orChain is a bare identifier)
func (p *Parser) parseValueExpr() (ast.Expr, *diag.Diagnostic) {
	if p.check(token.KW_VAR) {
		start := p.advance() // consume 'var'
		if !p.check(token.IDENT) {
			return nil, p.errorf("E2005", "expected identifier")
		}
		name := p.advance()
		if _, d := p.expect(token.ASSIGN); d != nil {
			return nil, d
		}
		value, d := p.parseValueExpr()
		if d != nil {
			return nil, d
		}
		return &ast.VarDeclExpr{
			ExprBase: makeExprBase(start.Span.Start, value.GetSpan().End),
			Name:     name,
			Value:    value,
		}, nil
	}

	head, d := p.parseOr()
	if d != nil {
		return nil, d
	}

	if ident, ok := head.(*ast.IdentExpr); ok && p.check(token.ASSIGN) {
		p.advance() // consume '='
		value, d := p.parseValueExpr()
		if d != nil {
			return nil, d
		}
		return &ast.AssignExpr{
			ExprBase: makeExprBase(ident.Span.Start, value.GetSpan().End),
			Name:     ident.Name,
			Value:    value,
		}, nil
	}

	return head, nil
}

// parseBinary parses one left-associative tier: operand { op operand }.
func (p *Parser) parseBinary(operand func() (ast.Expr, *diag.Diagnostic), ops ...token.Kind) (ast.Expr, *diag.Diagnostic) {
	left, d := operand()
	if d != nil {
		return nil, d
	}
	for p.match(ops...) {
		op := p.advance()
		right, d := operand()
		if d != nil {
			return nil, d
		}
		left = &ast.BinaryExpr{
			ExprBase: joinExprBase(left, right),
			Left:     left,
			Op:       op,
			Right:    right,
		}
	}
	return left, nil
}

// Precedence, loosest to tightest:
// or < and < == != < > >= < < <= < + - < * / < ^ < unary < atom

func (p *Parser) parseOr() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(p.parseAnd, token.KW_OR)
}

func (p *Parser) parseAnd() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(p.parseEquality, token.KW_AND)
}

func (p *Parser) parseEquality() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(p.parseGreater, token.EQ, token.NEQ)
}

func (p *Parser) parseGreater() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(p.parseLess, token.GT, token.GTE)
}

func (p *Parser) parseLess() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(p.parseAdditive, token.LT, token.LTE)
}

func (p *Parser) parseAdditive() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(p.parseMultiplicative, token.PLUS, token.MINUS)
}

func (p *Parser) parseMultiplicative() (ast.Expr, *diag.Diagnostic) {
	return p.parseBinary(p.parseExponent, token.STAR, token.SLASH)
}

// parseExponent parses a right-associative chain: atom { '^' atom }.
// A function literal is never an exponent operand.
func (p *Parser) parseExponent() (ast.Expr, *diag.Diagnostic) {
	head, d := p.parseAtom()
	if d != nil {
		return nil, d
	}
	if isFuncLiteral(head) {
		return head, nil
	}

	operands := []ast.Expr{head}
	var ops []token.Token
	for p.check(token.CARET) {
		ops = append(ops, p.advance())
		next, d := p.parseAtom()
		if d != nil {
			return nil, d
		}
		operands = append(operands, next)
	}

	// Fold from the right: a ^ b ^ c == a ^ (b ^ c).
	result := operands[len(operands)-1]
	for i := len(ops) - 1; i >= 0; i-- {
		left := operands[i]
		result = &ast.BinaryExpr{
			ExprBase: joinExprBase(left, result),
			Left:     left,
			Op:       ops[i],
			Right:    result,
		}
	}
	return result, nil
}

// parseAtom parses literals, identifiers, calls, parenthesized expressions,
// function literals, prefix operators and the input/str forms.
func (p *Parser) parseAtom() (ast.Expr, *diag.Diagnostic) {
	tok := p.peek()

	switch tok.Kind {
	case token.INT, token.FLOAT:
		p.advance()
		return &ast.NumberLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Num,
			IsFloat:  tok.Kind == token.FLOAT,
		}, nil

	case token.STRING:
		p.advance()
		return &ast.StringLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Lexeme,
		}, nil

	case token.IDENT:
		p.advance()
		if !p.check(token.LPAREN) {
			return &ast.IdentExpr{
				ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
				Name:     tok,
			}, nil
		}
		return p.parseCallExpr(tok)

	case token.LPAREN:
		return p.parseParenOrFunc()

	case token.PLUS, token.MINUS, token.KW_NOT:
		p.advance()
		operand, d := p.parseAtom()
		if d != nil {
			return nil, d
		}
		return &ast.UnaryExpr{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       tok,
			Operand:  operand,
		}, nil

	case token.KW_INPUT_STR, token.KW_INPUT_NUM:
		return p.parseInputExpr()

	case token.KW_STR:
		p.advance()
		value, d := p.parseParenExpr()
		if d != nil {
			return nil, d
		}
		return &ast.StrExpr{
			ExprBase: makeExprBase(tok.Span.Start, p.prevEnd()),
			Value:    value,
		}, nil

	default:
		return nil, p.errorf("E2002", "expected int, float, string, identifier, '(', '+', '-' or 'not'")
	}
}

// parseCallExpr parses: callee ( [ arg { , arg } [ , ] ] )
func (p *Parser) parseCallExpr(callee token.Token) (ast.Expr, *diag.Diagnostic) {
	p.advance() // consume '('
	var args []ast.Expr

	for !p.check(token.RPAREN) {
		arg, d := p.parseValueExpr()
		if d != nil {
			return nil, d
		}
		args = append(args, arg)

		if p.check(token.COMMA) {
			p.advance()
		} else if !p.check(token.RPAREN) {
			return nil, p.errorf("E2006", "expected ',' or ')'")
		}
	}
	end := p.advance() // consume ')'

	return &ast.CallExpr{
		ExprBase: makeExprBase(callee.Span.Start, end.Span.End),
		Callee:   callee,
		Args:     args,
	}, nil
}

// parseParenOrFunc resolves '(' into a parenthesized expression or a function literal:
//
//	'(' ')' block                          zero-parameter function
//	'(' IDENT ',' IDENT { ',' IDENT } ')' block    function
//	'(' IDENT ')' block                    one-parameter function
//	'(' valueExpr ')'                      parenthesized expression
func (p *Parser) parseParenOrFunc() (ast.Expr, *diag.Diagnostic) {
	open := p.advance() // consume '('

	if p.check(token.RPAREN) {
		p.advance()
		return p.parseFuncBody(open, nil)
	}

	head, d := p.parseValueExpr()
	if d != nil {
		return nil, d
	}
	ident, isIdent := head.(*ast.IdentExpr)

	if isIdent && p.check(token.COMMA) {
		params := []token.Token{ident.Name}
		p.advance() // consume ','
		for !p.check(token.RPAREN) {
			if !p.check(token.IDENT) {
				return nil, p.errorf("E2005", "expected identifier")
			}
			params = append(params, p.advance())
			if p.check(token.COMMA) {
				p.advance()
			} else if !p.check(token.RPAREN) {
				return nil, p.errorf("E2006", "expected ',' or ')'")
			}
		}
		p.advance() // consume ')'
		return p.parseFuncBody(open, params)
	}

	if _, d := p.expect(token.RPAREN); d != nil {
		return nil, d
	}

	if isIdent && p.check(token.LBRACE) {
		return p.parseFuncBody(open, []token.Token{ident.Name})
	}
	return head, nil
}

// parseFuncBody parses the { body } of a function literal whose parameter list is already consumed.
func (p *Parser) parseFuncBody(open token.Token, params []token.Token) (ast.Expr, *diag.Diagnostic) {
	if !p.check(token.LBRACE) {
		return nil, p.errorf("E2001", "expected '{'")
	}
	lbrace := p.peek()

	p.funcDepth++
	body, d := p.parseBlock()
	p.funcDepth--
	if d != nil {
		return nil, d
	}

	if len(body) == 0 {
		return nil, diag.Errorf(diag.SyntaxError, "E2007", span.Span{Start: lbrace.Span.Start, End: p.prevEnd()},
			"functions with empty bodies are not supported")
	}

	return &ast.FuncLiteral{
		ExprBase: makeExprBase(open.Span.Start, p.prevEnd()),
		Params:   params,
		Body:     body,
	}, nil
}

// parseInputExpr parses: (input_str | input_num) ( [prompt] )
func (p *Parser) parseInputExpr() (ast.Expr, *diag.Diagnostic) {
	start := p.advance() // consume keyword
	expr := &ast.InputExpr{Kind: ast.InputString}
	if start.Kind == token.KW_INPUT_NUM {
		expr.Kind = ast.InputNumber
	}

	if _, d := p.expect(token.LPAREN); d != nil {
		return nil, d
	}
	if !p.check(token.RPAREN) {
		prompt, d := p.parseValueExpr()
		if d != nil {
			return nil, d
		}
		expr.Prompt = prompt
		if _, d := p.expect(token.RPAREN); d != nil {
			return nil, d
		}
	} else {
		p.advance() // consume ')'
	}

	expr.ExprBase = makeExprBase(start.Span.Start, p.prevEnd())
	return expr, nil
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

// joinExprBase covers both operands of a binary expression.
func joinExprBase(left, right ast.Expr) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Join(left.GetSpan(), right.GetSpan())}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
