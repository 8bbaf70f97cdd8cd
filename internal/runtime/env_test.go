package runtime

import (
	"errors"
	"reflect"
	"testing"
)

func TestEnvironmentDefine(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Define("x", Int(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := env.Define("x", Int(2))
	if !errors.Is(err, ErrAlreadyDeclared) {
		t.Fatalf("expected ErrAlreadyDeclared, got %v", err)
	}
	if err.Error() != "'x' is already declared" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestEnvironmentDefineShadowsParent(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("x", Int(1))
	child := NewEnvironment(root)
	if err := child.Define("x", Int(2)); err != nil {
		t.Fatalf("declaring over a parent binding should succeed: %v", err)
	}
	if v, _ := child.Get("x"); v != Int(2) {
		t.Errorf("expected child value 2, got %v", v)
	}
}

func TestEnvironmentGetReachesOneParent(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("top", String("root"))
	mid := NewEnvironment(root)
	mid.Define("mid", String("mid"))
	leaf := NewEnvironment(mid)

	if v, ok := mid.Get("top"); !ok || v != String("root") {
		t.Errorf("mid should see root binding, got %v, %v", v, ok)
	}
	if v, ok := leaf.Get("mid"); !ok || v != String("mid") {
		t.Errorf("leaf should see parent binding, got %v, %v", v, ok)
	}
	if _, ok := leaf.Get("top"); ok {
		t.Error("leaf must not see the grandparent binding")
	}
}

func TestEnvironmentSetWritesLocally(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("x", Int(1))
	child := NewEnvironment(root)

	if err := child.Set("x", Int(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := child.Get("x"); v != Int(5) {
		t.Errorf("expected shadow value 5, got %v", v)
	}
	if v, _ := root.Get("x"); v != Int(1) {
		t.Errorf("parent binding must be untouched, got %v", v)
	}
	if !reflect.DeepEqual(child.Names(), []string{"x"}) {
		t.Errorf("expected local shadow, names = %v", child.Names())
	}
}

func TestEnvironmentSetUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Set("missing", Int(1))
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
	if len(env.Names()) != 0 {
		t.Errorf("failed assignment must not bind, names = %v", env.Names())
	}
}

func TestEnvironmentNamesSorted(t *testing.T) {
	env := NewEnvironment(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		env.Define(name, Unit{})
	}
	want := []string{"alpha", "mid", "zeta"}
	if got := env.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if env.Parent() != nil {
		t.Error("root environment should have no parent")
	}
}
