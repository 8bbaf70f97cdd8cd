package ast

import (
	"cicin-lang/internal/span"
	"cicin-lang/internal/token"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return m("File", n.Span, "body", nodeSlice(n.Body))

	// ---- Expressions ----
	case *NumberLiteral:
		return m("NumberLiteral", n.Span, "value", n.Value, "isFloat", n.IsFloat)
	case *StringLiteral:
		return m("StringLiteral", n.Span, "value", n.Value)
	case *IdentExpr:
		return m("IdentExpr", n.Span, "name", n.Name.Lexeme)
	case *UnaryExpr:
		return m("UnaryExpr", n.Span, "op", opStr(n.Op), "operand", NodeToMap(n.Operand))
	case *BinaryExpr:
		return m("BinaryExpr", n.Span,
			"op", opStr(n.Op),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *VarDeclExpr:
		return m("VarDeclExpr", n.Span, "name", n.Name.Lexeme, "value", NodeToMap(n.Value))
	case *AssignExpr:
		return m("AssignExpr", n.Span, "name", n.Name.Lexeme, "value", NodeToMap(n.Value))
	case *FuncLiteral:
		return m("FuncLiteral", n.Span, "params", n.ParamNames(), "body", nodeSlice(n.Body))
	case *CallExpr:
		return m("CallExpr", n.Span,
			"callee", n.Callee.Lexeme,
			"args", exprSlice(n.Args))
	case *InputExpr:
		result := m("InputExpr", n.Span, "type", n.Kind.String())
		if n.Prompt != nil {
			result["prompt"] = NodeToMap(n.Prompt)
		}
		return result
	case *StrExpr:
		return m("StrExpr", n.Span, "value", NodeToMap(n.Value))

	// ---- Statements ----
	case *IfStmt:
		result := m("IfStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"body", nodeSlice(n.Body),
			"elseBody", nodeSlice(n.ElseBody))
		if len(n.Elifs) > 0 {
			elifs := make([]interface{}, len(n.Elifs))
			for i, ei := range n.Elifs {
				elifs[i] = map[string]interface{}{
					"kind":      "ElifClause",
					"span":      spanToMap(ei.Span),
					"condition": NodeToMap(ei.Condition),
					"body":      nodeSlice(ei.Body),
				}
			}
			result["elifs"] = elifs
		}
		return result
	case *ForStmt:
		result := m("ForStmt", n.Span,
			"condition", NodeToMap(n.Condition),
			"update", NodeToMap(n.Update),
			"body", nodeSlice(n.Body))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *ReturnStmt:
		return m("ReturnStmt", n.Span, "value", NodeToMap(n.Value))
	case *PrintStmt:
		return m("PrintStmt", n.Span, "value", NodeToMap(n.Value))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func nodeSlice(nodes []Node) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = NodeToMap(n)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}

func opStr(tok token.Token) string {
	return tok.Kind.String()
}
