package span

import "testing"

func TestAdvance(t *testing.T) {
	p := Start("a.cic")
	p = p.Advance('x', 1)
	if p.Offset != 1 || p.Line != 0 || p.Column != 1 {
		t.Fatalf("after 'x': got %+v", p)
	}
	p = p.Advance('\n', 1)
	if p.Offset != 2 || p.Line != 1 || p.Column != 0 {
		t.Fatalf("after newline: got %+v", p)
	}
	p = p.Advance('é', 2)
	if p.Offset != 4 || p.Column != 1 {
		t.Fatalf("after multi-byte rune: got %+v", p)
	}
	if p.File != "a.cic" {
		t.Errorf("file lost: %q", p.File)
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 2, Column: 4}
	if got := p.String(); got != "3:5" {
		t.Errorf("expected 3:5, got %s", got)
	}
}

func TestSpanLen(t *testing.T) {
	s := Span{Start: Position{Offset: 3}, End: Position{Offset: 8}}
	if s.Len() != 5 {
		t.Errorf("expected 5, got %d", s.Len())
	}
	j := Join(Span{Start: Position{Offset: 1}}, s)
	if j.Start.Offset != 1 || j.End.Offset != 8 {
		t.Errorf("join: got %s", j)
	}
}
