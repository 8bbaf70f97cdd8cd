package parser

import (
	"encoding/json"
	"strconv"
	"testing"

	"cicin-lang/internal/ast"
	"cicin-lang/internal/diag"
	"cicin-lang/internal/lexer"
	"cicin-lang/internal/token"
)

// helper: parse source and return AST + check for no errors
func parseOK(t *testing.T, source string) *ast.File {
	t.Helper()
	tokens, d := lexer.New(source, "test.cic").Tokenize()
	if d != nil {
		t.Fatalf("lex error: %v", d)
	}
	file, d := New(tokens).ParseFile()
	if d != nil {
		t.Fatalf("parse error: %v", d)
	}
	return file
}

// helper: parse source that must fail with a syntax error
func parseErr(t *testing.T, source string) *diag.Diagnostic {
	t.Helper()
	tokens, d := lexer.New(source, "test.cic").Tokenize()
	if d != nil {
		t.Fatalf("lex error: %v", d)
	}
	file, d := New(tokens).ParseFile()
	if d == nil {
		t.Fatalf("expected syntax error, got %d statements", len(file.Body))
	}
	if d.Kind != diag.SyntaxError {
		t.Errorf("expected SyntaxError, got %s", d.Kind)
	}
	return d
}

func TestParseVarDecl(t *testing.T) {
	file := parseOK(t, `var x = 42;`)
	if len(file.Body) != 1 {
		t.Fatalf("expected 1 node, got %d", len(file.Body))
	}
	decl, ok := file.Body[0].(*ast.VarDeclExpr)
	if !ok {
		t.Fatalf("expected VarDeclExpr, got %T", file.Body[0])
	}
	if decl.Name.Lexeme != "x" {
		t.Errorf("expected name 'x', got %q", decl.Name.Lexeme)
	}
	num, ok := decl.Value.(*ast.NumberLiteral)
	if !ok || num.Value != 42 || num.IsFloat {
		t.Errorf("expected integer literal 42, got %#v", decl.Value)
	}
}

func TestParseAssignment(t *testing.T) {
	file := parseOK(t, `x = 42;`)
	assign, ok := file.Body[0].(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected AssignExpr, got %T", file.Body[0])
	}
	if assign.Name.Lexeme != "x" {
		t.Errorf("expected 'x', got %q", assign.Name.Lexeme)
	}
}

func TestParseChainedAssignment(t *testing.T) {
	file := parseOK(t, `var a = b = 3;`)
	decl := file.Body[0].(*ast.VarDeclExpr)
	if _, ok := decl.Value.(*ast.AssignExpr); !ok {
		t.Fatalf("expected nested AssignExpr, got %T", decl.Value)
	}
}

func TestParseBinaryExpr(t *testing.T) {
	file := parseOK(t, `var z = 1 + 2 * 3;`)
	decl := file.Body[0].(*ast.VarDeclExpr)
	// init should be BinaryExpr: 1 + (2 * 3)
	binExpr, ok := decl.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Value)
	}
	if binExpr.Op.Kind != token.PLUS {
		t.Errorf("expected '+', got %q", binExpr.Op.Kind)
	}
	rightBin, ok := binExpr.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected right BinaryExpr, got %T", binExpr.Right)
	}
	if rightBin.Op.Kind != token.STAR {
		t.Errorf("expected '*', got %q", rightBin.Op.Kind)
	}
}

// shape renders an expression with explicit parentheses.
func shape(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		return "(" + shape(n.Left) + " " + n.Op.Kind.String() + " " + shape(n.Right) + ")"
	case *ast.UnaryExpr:
		return "(" + n.Op.Kind.String() + " " + shape(n.Operand) + ")"
	case *ast.IdentExpr:
		return n.Name.Lexeme
	case *ast.NumberLiteral:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	default:
		return "?"
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`a or b and c;`, "(a or (b and c))"},
		{`a and b == c;`, "(a and (b == c))"},
		{`a == b > c;`, "(a == (b > c))"},
		{`a > b < c;`, "(a > (b < c))"},
		{`a < b + c;`, "(a < (b + c))"},
		{`a - b - c;`, "((a - b) - c)"},
		{`a + b * c;`, "(a + (b * c))"},
		{`a / b / c;`, "((a / b) / c)"},
		{`a * b ^ c;`, "(a * (b ^ c))"},
		{`a ^ b ^ c;`, "(a ^ (b ^ c))"},
		{`-a ^ b;`, "((- a) ^ b)"},
		{`not a == b;`, "((not a) == b)"},
		{`(a + b) * c;`, "((a + b) * c)"},
		{`2 ^ 3 ^ 2;`, "(2 ^ (3 ^ 2))"},
	}
	for _, tt := range tests {
		file := parseOK(t, tt.source)
		expr, ok := file.Body[0].(ast.Expr)
		if !ok {
			t.Fatalf("%s: expected expression, got %T", tt.source, file.Body[0])
		}
		if got := shape(expr); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.source, tt.want, got)
		}
	}
}

func TestParseIfStmt(t *testing.T) {
	source := `if (x > 0) {
  print(x);
} elif (x == 0) {
  print(0);
} elif (x == 1) {
  print(1);
} else {
}`
	file := parseOK(t, source)
	ifStmt, ok := file.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", file.Body[0])
	}
	if ifStmt.Condition == nil {
		t.Fatal("condition is nil")
	}
	if len(ifStmt.Elifs) != 2 {
		t.Errorf("expected 2 elif clauses, got %d", len(ifStmt.Elifs))
	}
	if len(ifStmt.ElseBody) != 0 {
		t.Errorf("expected empty else body, got %d statements", len(ifStmt.ElseBody))
	}
}

func TestParseIfRequiresElse(t *testing.T) {
	d := parseErr(t, `if (x) { print(x); }`)
	if d.Message != "expected 'else'" {
		t.Errorf("unexpected message %q", d.Message)
	}
}

func TestParseForStmt(t *testing.T) {
	file := parseOK(t, `for (var i = 0; i < 3; i = i + 1) { print(i); }`)
	forStmt, ok := file.Body[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", file.Body[0])
	}
	if _, ok := forStmt.Init.(*ast.VarDeclExpr); !ok {
		t.Errorf("expected VarDeclExpr init, got %T", forStmt.Init)
	}
	if _, ok := forStmt.Update.(*ast.AssignExpr); !ok {
		t.Errorf("expected AssignExpr update, got %T", forStmt.Update)
	}
	if len(forStmt.Body) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(forStmt.Body))
	}
}

func TestParseForWithoutInit(t *testing.T) {
	file := parseOK(t, `for (; i < 3; i = i + 1) { print(i); }`)
	if file.Body[0].(*ast.ForStmt).Init != nil {
		t.Error("expected nil init")
	}
}

func TestParseForRequiresUpdate(t *testing.T) {
	parseErr(t, `for (var i = 0; i < 3;) { print(i); }`)
}

func TestParseFuncLiterals(t *testing.T) {
	tests := []struct {
		source string
		params []string
	}{
		{`var f = () { return 1; }`, nil},
		{`var f = (a) { return a; }`, []string{"a"}},
		{`var f = (a, b) { return a + b; }`, []string{"a", "b"}},
		{`var f = (a, b, c) { return a; }`, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		file := parseOK(t, tt.source)
		decl := file.Body[0].(*ast.VarDeclExpr)
		fn, ok := decl.Value.(*ast.FuncLiteral)
		if !ok {
			t.Fatalf("%s: expected FuncLiteral, got %T", tt.source, decl.Value)
		}
		names := fn.ParamNames()
		if len(names) != len(tt.params) {
			t.Fatalf("%s: expected params %v, got %v", tt.source, tt.params, names)
		}
		for i := range names {
			if names[i] != tt.params[i] {
				t.Errorf("%s: param %d: expected %s, got %s", tt.source, i, tt.params[i], names[i])
			}
		}
	}
}

func TestParseParenthesizedIdentIsNotFunction(t *testing.T) {
	file := parseOK(t, `var y = (x) + 1;`)
	decl := file.Body[0].(*ast.VarDeclExpr)
	bin, ok := decl.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Value)
	}
	if _, ok := bin.Left.(*ast.IdentExpr); !ok {
		t.Errorf("expected IdentExpr on the left, got %T", bin.Left)
	}
}

func TestParseSelfTerminatingStatements(t *testing.T) {
	source := `
var add = (a, b) { return a + b; }
add = (a, b) { return a - b; }
(x) { print(x); }
var outer = () { return () { return 1; } }
if (1) { print(1); } else { print(0); }
for (var i = 0; i < 1; i = i + 1) { print(i); }
print(add(1, 2));
`
	file := parseOK(t, source)
	if len(file.Body) != 7 {
		t.Errorf("expected 7 statements, got %d", len(file.Body))
	}
}

func TestParseMissingSemicolon(t *testing.T) {
	d := parseErr(t, "var x = 1\nvar y = 2;")
	if d.Message != "expected ';'" {
		t.Errorf("unexpected message %q", d.Message)
	}
	if d.Span.Start.Line != 1 {
		t.Errorf("expected error on the next token (line 1), got line %d", d.Span.Start.Line)
	}
}

func TestParseCallExpr(t *testing.T) {
	file := parseOK(t, `f(1, "two", g(3));`)
	call, ok := file.Body[0].(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", file.Body[0])
	}
	if call.Callee.Lexeme != "f" {
		t.Errorf("expected callee 'f', got %q", call.Callee.Lexeme)
	}
	if len(call.Args) != 3 {
		t.Errorf("expected 3 args, got %d", len(call.Args))
	}
	if _, ok := call.Args[2].(*ast.CallExpr); !ok {
		t.Errorf("expected nested CallExpr, got %T", call.Args[2])
	}
}

func TestParseBuiltinForms(t *testing.T) {
	file := parseOK(t, `var a = input_str(); var b = input_num("n? "); var c = str(b); print(c);`)
	in := file.Body[0].(*ast.VarDeclExpr).Value.(*ast.InputExpr)
	if in.Kind != ast.InputString || in.Prompt != nil {
		t.Errorf("unexpected input_str node %#v", in)
	}
	num := file.Body[1].(*ast.VarDeclExpr).Value.(*ast.InputExpr)
	if num.Kind != ast.InputNumber || num.Prompt == nil {
		t.Errorf("unexpected input_num node %#v", num)
	}
	if _, ok := file.Body[2].(*ast.VarDeclExpr).Value.(*ast.StrExpr); !ok {
		t.Error("expected StrExpr")
	}
	if _, ok := file.Body[3].(*ast.PrintStmt); !ok {
		t.Errorf("expected PrintStmt, got %T", file.Body[3])
	}
}

func TestParseReturnOutsideFunction(t *testing.T) {
	d := parseErr(t, `return 1;`)
	if d.Code != "E2004" {
		t.Errorf("expected E2004, got %s", d.Code)
	}
	parseErr(t, `if (1) { return 1; } else { }`)
}

func TestParseReturnInsideNestedBlocks(t *testing.T) {
	parseOK(t, `var f = (n) {
  for (var i = 0; i < n; i = i + 1) {
    if (i == 2) { return i; } else { }
  }
  return 0;
}`)
}

func TestParseEmptyFunctionBody(t *testing.T) {
	for _, source := range []string{`var f = () { }`, `var f = (a) { }`, `var f = (a, b) { }`} {
		d := parseErr(t, source)
		if d.Message != "functions with empty bodies are not supported" {
			t.Errorf("%s: unexpected message %q", source, d.Message)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{`var = 1;`, "expected identifier"},
		{`var x 1;`, "expected '='"},
		{`f(1 2);`, "expected ',' or ')'"},
		{`(a, 1) { return a; }`, "expected identifier"},
		{`print 1;`, "expected '('"},
		{`var x = (1 + 2;`, "expected ')'"},
		{`var x = ;`, "expected int, float, string, identifier, '(', '+', '-' or 'not'"},
		{`if (1) { print(1);`, "expected '}'"},
		{`var x = print(1);`, "expected int, float, string, identifier, '(', '+', '-' or 'not'"},
	}
	for _, tt := range tests {
		d := parseErr(t, tt.source)
		if d.Message != tt.message {
			t.Errorf("%s: expected %q, got %q", tt.source, tt.message, d.Message)
		}
	}
}

func TestParseSpans(t *testing.T) {
	file := parseOK(t, `var total = 10 + 20;`)
	decl := file.Body[0].(*ast.VarDeclExpr)
	s := decl.GetSpan()
	if s.Start.Offset != 0 || s.End.Offset != 19 {
		t.Errorf("declaration span: got %s (offsets %d..%d)", s, s.Start.Offset, s.End.Offset)
	}
	bin := decl.Value.(*ast.BinaryExpr)
	if bin.Span.Start.Offset != 12 || bin.Span.End.Offset != 19 {
		t.Errorf("binary span: got offsets %d..%d", bin.Span.Start.Offset, bin.Span.End.Offset)
	}
}

func TestParseJSONOutput(t *testing.T) {
	file := parseOK(t, `var x = 1;`)
	data, err := json.MarshalIndent(ast.NodeToMap(file), "", "  ")
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["kind"] != "File" {
		t.Errorf("expected kind 'File', got %v", m["kind"])
	}
	body := m["body"].([]interface{})
	if body[0].(map[string]interface{})["kind"] != "VarDeclExpr" {
		t.Errorf("unexpected first node %v", body[0])
	}
}
