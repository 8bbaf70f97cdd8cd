package runtime

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"cicin-lang/internal/ast"
	"cicin-lang/internal/diag"
	"cicin-lang/internal/span"
	"cicin-lang/internal/token"
)

// ============================================================
// Control flow signals
// ============================================================

// ExecSignal represents a control flow signal from statement execution.
type ExecSignal int

const (
	SigNone   ExecSignal = iota
	SigReturn            // return from function
)

// ExecResult carries a control flow signal and an optional value (for return).
// A SigReturn result travels up through statement lists until a call unwraps it.
type ExecResult struct {
	Signal ExecSignal
	Value  Value
}

var resultNone = ExecResult{Signal: SigNone}

// ============================================================
// Runtime errors
// ============================================================

// DefaultMaxCallDepth is the call nesting limit used by NewInterpreter.
const DefaultMaxCallDepth = 5000

func runtimeErr(s span.Span, code, format string, args ...interface{}) *diag.Diagnostic {
	return diag.Errorf(diag.RuntimeError, code, s, format, args...)
}

func nameErr(s span.Span, code string, err error) *diag.Diagnostic {
	return diag.Errorf(diag.NameNotFound, code, s, "%s", err.Error())
}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it against a caller-owned environment.
// It is not safe for concurrent use.
type Interpreter struct {
	output io.Writer
	input  LineReader

	// MaxCallDepth bounds nested function calls; 0 or less means DefaultMaxCallDepth.
	MaxCallDepth int

	depth int
}

// NewInterpreter creates an interpreter that prints to output and reads
// input_str/input_num lines from input. A nil input behaves as an empty stream.
func NewInterpreter(output io.Writer, input LineReader) *Interpreter {
	if output == nil {
		output = io.Discard
	}
	if input == nil {
		input = NewLineReader(nil, nil)
	}
	return &Interpreter{
		output:       output,
		input:        input,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Interpret executes top-level statements in env. Bindings made by statements
// that completed before an error stay in env.
func (i *Interpreter) Interpret(stmts []ast.Node, env *Environment) (Value, *diag.Diagnostic) {
	i.depth = 0
	result, d := i.execBlock(stmts, env)
	if d != nil {
		return nil, d
	}
	if result.Signal == SigReturn {
		return result.Value, nil
	}
	return Unit{}, nil
}

// ============================================================
// Statement execution
// ============================================================

// execBlock runs a statement list in env, stopping at the first return signal.
func (i *Interpreter) execBlock(stmts []ast.Node, env *Environment) (ExecResult, *diag.Diagnostic) {
	for _, stmt := range stmts {
		result, d := i.execNode(stmt, env)
		if d != nil {
			return resultNone, d
		}
		if result.Signal == SigReturn {
			return result, nil
		}
	}
	return resultNone, nil
}

func (i *Interpreter) execNode(node ast.Node, env *Environment) (ExecResult, *diag.Diagnostic) {
	switch n := node.(type) {
	case *ast.IfStmt:
		return i.execIf(n, env)
	case *ast.ForStmt:
		return i.execFor(n, env)
	case *ast.ReturnStmt:
		val, d := i.evalExpr(n.Value, env)
		if d != nil {
			return resultNone, d
		}
		return ExecResult{Signal: SigReturn, Value: val}, nil
	case *ast.PrintStmt:
		return i.execPrint(n, env)
	case ast.Expr:
		_, d := i.evalExpr(n, env)
		return resultNone, d
	default:
		return resultNone, runtimeErr(node.GetSpan(), "E3000", "unhandled statement type: %T", node)
	}
}

func (i *Interpreter) execIf(s *ast.IfStmt, env *Environment) (ExecResult, *diag.Diagnostic) {
	ok, d := i.evalCondition(s.Condition, env)
	if d != nil {
		return resultNone, d
	}
	if ok {
		return i.execBlock(s.Body, env)
	}

	for _, elif := range s.Elifs {
		ok, d := i.evalCondition(elif.Condition, env)
		if d != nil {
			return resultNone, d
		}
		if ok {
			return i.execBlock(elif.Body, env)
		}
	}

	return i.execBlock(s.ElseBody, env)
}

func (i *Interpreter) execFor(s *ast.ForStmt, env *Environment) (ExecResult, *diag.Diagnostic) {
	if s.Init != nil {
		result, d := i.execNode(s.Init, env)
		if d != nil || result.Signal == SigReturn {
			return result, d
		}
	}

	for {
		ok, d := i.evalCondition(s.Condition, env)
		if d != nil {
			return resultNone, d
		}
		if !ok {
			break
		}

		result, d := i.execBlock(s.Body, env)
		if d != nil {
			return resultNone, d
		}
		if result.Signal == SigReturn {
			return result, nil
		}

		result, d = i.execNode(s.Update, env)
		if d != nil || result.Signal == SigReturn {
			return result, d
		}
	}

	return resultNone, nil
}

// evalCondition evaluates an if/elif/for condition. It must be a Number;
// only the value 1 selects the branch.
func (i *Interpreter) evalCondition(expr ast.Expr, env *Environment) (bool, *diag.Diagnostic) {
	val, d := i.evalExpr(expr, env)
	if d != nil {
		return false, d
	}
	num, ok := val.(Number)
	if !ok {
		return false, runtimeErr(expr.GetSpan(), "E3004", "condition must be a Number, got %s", val.TypeName())
	}
	return num.Value == 1, nil
}

func (i *Interpreter) execPrint(s *ast.PrintStmt, env *Environment) (ExecResult, *diag.Diagnostic) {
	val, d := i.evalExpr(s.Value, env)
	if d != nil {
		return resultNone, d
	}
	if _, ok := val.(*Function); ok {
		return resultNone, runtimeErr(s.Value.GetSpan(), "E3007", "cannot print functions")
	}
	if _, err := fmt.Fprintln(i.output, val.String()); err != nil {
		return resultNone, runtimeErr(s.Span, "E3009", "output failed: %v", err)
	}
	return resultNone, nil
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr, env *Environment) (Value, *diag.Diagnostic) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Number{Value: e.Value, Float: e.IsFloat}, nil
	case *ast.StringLiteral:
		return String(e.Value), nil
	case *ast.IdentExpr:
		return i.evalIdent(e, env)
	case *ast.UnaryExpr:
		return i.evalUnary(e, env)
	case *ast.BinaryExpr:
		return i.evalBinary(e, env)
	case *ast.VarDeclExpr:
		return i.evalVarDecl(e, env)
	case *ast.AssignExpr:
		return i.evalAssign(e, env)
	case *ast.FuncLiteral:
		return NewFunction(e), nil
	case *ast.CallExpr:
		return i.evalCall(e, env)
	case *ast.InputExpr:
		return i.evalInput(e, env)
	case *ast.StrExpr:
		val, d := i.evalExpr(e.Value, env)
		if d != nil {
			return nil, d
		}
		return String(val.String()), nil
	default:
		return nil, runtimeErr(expr.GetSpan(), "E3000", "unhandled expression type: %T", expr)
	}
}

func (i *Interpreter) evalIdent(e *ast.IdentExpr, env *Environment) (Value, *diag.Diagnostic) {
	val, ok := env.Get(e.Name.Lexeme)
	if !ok {
		return nil, nameErr(e.Span, "E4001", fmt.Errorf("'%s' is %w", e.Name.Lexeme, ErrUndefined))
	}
	return val, nil
}

func (i *Interpreter) evalVarDecl(e *ast.VarDeclExpr, env *Environment) (Value, *diag.Diagnostic) {
	val, d := i.evalExpr(e.Value, env)
	if d != nil {
		return nil, d
	}
	if err := env.Define(e.Name.Lexeme, val); err != nil {
		return nil, nameErr(e.Name.Span, "E4002", err)
	}
	return val, nil
}

func (i *Interpreter) evalAssign(e *ast.AssignExpr, env *Environment) (Value, *diag.Diagnostic) {
	val, d := i.evalExpr(e.Value, env)
	if d != nil {
		return nil, d
	}
	if err := env.Set(e.Name.Lexeme, val); err != nil {
		return nil, nameErr(e.Name.Span, "E4001", err)
	}
	return val, nil
}

func (i *Interpreter) evalUnary(e *ast.UnaryExpr, env *Environment) (Value, *diag.Diagnostic) {
	operand, d := i.evalExpr(e.Operand, env)
	if d != nil {
		return nil, d
	}

	if e.Op.Kind == token.KW_NOT {
		if _, ok := operand.(*Function); !ok {
			return Bool(!IsTruthy(operand)), nil
		}
	} else if n, ok := operand.(Number); ok {
		if e.Op.Kind == token.MINUS {
			n.Value = -n.Value
		}
		return n, nil
	}

	return nil, runtimeErr(e.Span, "E3002", "unsupported unary operator '%s' on type '%s'",
		e.Op.Kind, operand.TypeName())
}

// binaryAllowed reports whether op may be applied to operands of these types.
func binaryAllowed(op token.Kind, left, right Value) bool {
	_, lf := left.(*Function)
	_, rf := right.(*Function)
	if lf || rf {
		return false
	}

	switch op {
	case token.KW_AND, token.KW_OR, token.EQ, token.NEQ:
		return true
	}
	if left.TypeName() != right.TypeName() {
		return false
	}
	switch left.(type) {
	case String:
		return op == token.PLUS
	case Unit:
		return false
	}
	return true
}

func (i *Interpreter) evalBinary(e *ast.BinaryExpr, env *Environment) (Value, *diag.Diagnostic) {
	left, d := i.evalExpr(e.Left, env)
	if d != nil {
		return nil, d
	}
	right, d := i.evalExpr(e.Right, env)
	if d != nil {
		return nil, d
	}

	op := e.Op.Kind
	if !binaryAllowed(op, left, right) {
		return nil, runtimeErr(e.Span, "E3001", "unsupported binary operation '%s' on types '%s' and '%s'",
			op, left.TypeName(), right.TypeName())
	}

	switch op {
	case token.KW_AND:
		return Bool(IsTruthy(left) && IsTruthy(right)), nil
	case token.KW_OR:
		return Bool(IsTruthy(left) || IsTruthy(right)), nil
	case token.EQ:
		return Bool(valuesEqual(left, right)), nil
	case token.NEQ:
		return Bool(!valuesEqual(left, right)), nil
	}

	if ls, ok := left.(String); ok {
		return ls + right.(String), nil
	}

	l, r := left.(Number), right.(Number)
	isFloat := l.Float || r.Float
	switch op {
	case token.PLUS:
		return Number{Value: l.Value + r.Value, Float: isFloat}, nil
	case token.MINUS:
		return Number{Value: l.Value - r.Value, Float: isFloat}, nil
	case token.STAR:
		return Number{Value: l.Value * r.Value, Float: isFloat}, nil
	case token.SLASH:
		if r.Value == 0 {
			return nil, runtimeErr(e.Op.Span, "E3003", "division by zero")
		}
		return Float(l.Value / r.Value), nil
	case token.CARET:
		if l.Value == 0 && r.Value < 0 {
			return nil, runtimeErr(e.Op.Span, "E3003", "zero raised to a negative power")
		}
		return Number{Value: math.Pow(l.Value, r.Value), Float: isFloat || r.Value < 0}, nil
	case token.LT:
		return Bool(l.Value < r.Value), nil
	case token.LTE:
		return Bool(l.Value <= r.Value), nil
	case token.GT:
		return Bool(l.Value > r.Value), nil
	case token.GTE:
		return Bool(l.Value >= r.Value), nil
	default:
		return nil, runtimeErr(e.Op.Span, "E3001", "unknown operator '%s'", op)
	}
}

// ============================================================
// Calls
// ============================================================

func (i *Interpreter) evalCall(e *ast.CallExpr, env *Environment) (Value, *diag.Diagnostic) {
	name := e.Callee.Lexeme
	callee, ok := env.Get(name)
	if !ok {
		return nil, nameErr(e.Callee.Span, "E4001", fmt.Errorf("'%s' is %w", name, ErrUndefined))
	}
	fn, ok := callee.(*Function)
	if !ok {
		return nil, runtimeErr(e.Callee.Span, "E3005", "cannot call value of type %s", callee.TypeName())
	}
	if len(e.Args) != len(fn.Params) {
		return nil, runtimeErr(e.Span, "E3006", "expected %d arguments, got %d", len(fn.Params), len(e.Args))
	}

	limit := i.MaxCallDepth
	if limit <= 0 {
		limit = DefaultMaxCallDepth
	}
	if i.depth >= limit {
		return nil, runtimeErr(e.Span, "E3010", "maximum call depth exceeded (%d)", limit)
	}

	// Arguments see the caller's scope; parameters live in a child of it.
	callEnv := NewEnvironment(env)
	for idx, arg := range e.Args {
		val, d := i.evalExpr(arg, env)
		if d != nil {
			return nil, d
		}
		callEnv.Bind(fn.Params[idx], val)
	}

	return i.callFunc(fn, callEnv)
}

func (i *Interpreter) callFunc(fn *Function, callEnv *Environment) (Value, *diag.Diagnostic) {
	i.depth++
	defer func() { i.depth-- }()

	result, d := i.execBlock(fn.Body, callEnv)
	if d != nil {
		return nil, d
	}

	if result.Signal == SigReturn {
		return result.Value, nil
	}
	return Unit{}, nil
}

// ============================================================
// Input
// ============================================================

func (i *Interpreter) evalInput(e *ast.InputExpr, env *Environment) (Value, *diag.Diagnostic) {
	prompt := ""
	if e.Prompt != nil {
		val, d := i.evalExpr(e.Prompt, env)
		if d != nil {
			return nil, d
		}
		if _, ok := val.(*Function); ok {
			return nil, runtimeErr(e.Prompt.GetSpan(), "E3007", "cannot print functions")
		}
		prompt = val.String()
	}

	line, err := i.input.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, runtimeErr(e.Span, "E3009", "unexpected end of input")
		}
		return nil, runtimeErr(e.Span, "E3009", "input failed: %v", err)
	}

	if e.Kind == ast.InputString {
		return String(line), nil
	}
	num, err := parseNumber(line)
	if err != nil {
		return nil, runtimeErr(e.Span, "E3008", "could not convert '%s' to Number", line)
	}
	return num, nil
}

// parseNumber converts an input line: a float when it contains '.', an integer otherwise.
func parseNumber(line string) (Number, error) {
	s := strings.TrimSpace(line)
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		return Float(f), err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		f, ferr := strconv.ParseFloat(s, 64)
		return Int(f), ferr
	}
	return Int(float64(n)), err
}
