// Package runtime implements the evaluator and runtime value system for cicin.
package runtime

import (
	"math"
	"strconv"
	"strings"

	"cicin-lang/internal/ast"
)

// Value is the interface for all runtime values.
// The set is closed: Number, String, *Function and Unit.
type Value interface {
	TypeName() string
	String() string
}

// ---- Primitive values ----

// Number represents every numeric value. Float records whether the value is
// float-kind (a literal with a dot, a division result, ...) or integer-kind;
// the two compare equal but render differently.
type Number struct {
	Value float64
	Float bool
}

// Int returns an integer-kind Number.
func Int(v float64) Number { return Number{Value: v} }

// Float returns a float-kind Number.
func Float(v float64) Number { return Number{Value: v, Float: true} }

func (v Number) TypeName() string { return "Number" }

// String renders integers without a fractional part and floats with at least
// one fractional digit ("2.0"), switching to exponent form outside 1e-4..1e16.
func (v Number) String() string {
	f := v.Value
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if v.Float {
			if math.Signbit(f) {
				return "-0.0"
			}
			return "0.0"
		}
		return "0"
	case !v.Float:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// String represents a string value.
type String string

func (v String) TypeName() string { return "String" }
func (v String) String() string   { return string(v) }

// Unit is the result of statements that produce no value.
type Unit struct{}

func (Unit) TypeName() string { return "Unit" }
func (Unit) String() string   { return "None" }

// ---- Callable values ----

// Function is a function literal's value. It does not capture the environment
// it was written in; a call runs in a child of the caller's environment.
type Function struct {
	Params []string
	Body   []ast.Node
}

func (v *Function) TypeName() string { return "Function" }
func (v *Function) String() string   { return "<Function object>" }

// NewFunction builds the value of a function literal.
func NewFunction(lit *ast.FuncLiteral) *Function {
	return &Function{Params: lit.ParamNames(), Body: lit.Body}
}

// ---- Truthiness ----

// IsTruthy reports the truthiness used by and, or and not:
// nonzero numbers and non-empty strings are true.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case Number:
		return val.Value != 0
	case String:
		return val != ""
	case *Function:
		return true
	default:
		return false
	}
}

// ---- Helpers ----

// Bool converts a Go boolean into the integer 1 or 0.
func Bool(b bool) Number {
	if b {
		return Int(1)
	}
	return Int(0)
}

// valuesEqual compares two values of the same dynamic type by value.
// Values of different types are never equal.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Unit:
		_, ok := b.(Unit)
		return ok
	default:
		return false
	}
}
