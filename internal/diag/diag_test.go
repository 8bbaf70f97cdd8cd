package diag

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"cicin-lang/internal/span"
)

func TestDiagnosticString(t *testing.T) {
	d := Errorf(RuntimeError, "E3001", span.Span{Start: span.Position{Line: 1, Column: 3}}, "division by %s", "zero")
	got := d.String()
	if got != "[E3001] Runtime Error at 2:4: division by zero" {
		t.Errorf("unexpected string: %q", got)
	}

	var err error = d
	var target *Diagnostic
	if !errors.As(err, &target) || target.Code != "E3001" {
		t.Errorf("errors.As failed for %v", err)
	}
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(Errorf(NameNotFound, "E4001", span.Span{}, "'x' is not defined"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"Name Error"`) {
		t.Errorf("kind not rendered by name: %s", data)
	}
}
