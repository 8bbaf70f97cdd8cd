// Package ast defines the abstract syntax tree for cicin.
//
// The tree is built once by the parser and never mutated afterwards.
package ast

import (
	"cicin-lang/internal/span"
	"cicin-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for nodes that produce a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for nodes that may only appear in statement position.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// File (top-level AST root)
// ============================================================

// File represents the entire source file.
type File struct {
	NodeBase
	Body []Node // top-level statements
}

// ============================================================
// Expressions
// ============================================================

// NumberLiteral represents an integer or float literal.
type NumberLiteral struct {
	ExprBase
	Value   float64
	IsFloat bool
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

// IdentExpr represents a variable access.
type IdentExpr struct {
	ExprBase
	Name token.Token
}

// UnaryExpr represents a prefix operation: +x, -x, not x.
type UnaryExpr struct {
	ExprBase
	Op      token.Token
	Operand Expr
}

// BinaryExpr represents a binary operation: a + b, x == y, p and q.
type BinaryExpr struct {
	ExprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// VarDeclExpr introduces a new binding in the current scope: var x = expr.
type VarDeclExpr struct {
	ExprBase
	Name  token.Token
	Value Expr
}

// AssignExpr rebinds an existing name: x = expr.
type AssignExpr struct {
	ExprBase
	Name  token.Token
	Value Expr
}

// FuncLiteral represents a function literal: (a, b) { body }.
type FuncLiteral struct {
	ExprBase
	Params []token.Token
	Body   []Node
}

// ParamNames returns the parameter names in order.
func (f *FuncLiteral) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Lexeme
	}
	return names
}

// CallExpr represents a call of a named function: f(a, b).
type CallExpr struct {
	ExprBase
	Callee token.Token
	Args   []Expr
}

// InputKind selects how a line read by input_str/input_num is converted.
type InputKind int

const (
	InputString InputKind = iota
	InputNumber
)

func (k InputKind) String() string {
	if k == InputNumber {
		return "number"
	}
	return "string"
}

// InputExpr reads one line of input: input_str(prompt?) / input_num(prompt?).
type InputExpr struct {
	ExprBase
	Prompt Expr // may be nil
	Kind   InputKind
}

// StrExpr converts a value to its textual form: str(expr).
type StrExpr struct {
	ExprBase
	Value Expr
}

// ============================================================
// Statements
// ============================================================

// IfStmt represents an if/elif/else chain. The else branch is mandatory but may be empty.
type IfStmt struct {
	StmtBase
	Condition Expr
	Body      []Node
	Elifs     []ElifClause
	ElseBody  []Node
}

// ElifClause represents a single "elif" branch.
type ElifClause struct {
	Span      span.Span
	Condition Expr
	Body      []Node
}

// ForStmt represents a loop: for (init; condition; update) { body }.
type ForStmt struct {
	StmtBase
	Init      Node // may be nil
	Condition Expr
	Update    Node
	Body      []Node
}

// ReturnStmt represents a return statement inside a function body.
type ReturnStmt struct {
	StmtBase
	Value Expr
}

// PrintStmt writes a value to the output sink: print(expr).
type PrintStmt struct {
	StmtBase
	Value Expr
}
