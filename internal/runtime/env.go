package runtime

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrAlreadyDeclared is returned by Define when the name is bound in the current scope.
	ErrAlreadyDeclared = errors.New("already declared")
	// ErrUndefined is returned when a name is not reachable from the current scope.
	ErrUndefined = errors.New("not defined")
)

// Environment is a scope of named values with at most one parent.
//
// Lookup reaches the local bindings and the immediate parent's bindings only;
// it does not walk further up the chain. Writes always land in the local scope.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment with an optional parent scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent returns the enclosing scope, or nil for a root environment.
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define declares a new variable in the current scope.
func (e *Environment) Define(name string, value Value) error {
	if _, exists := e.values[name]; exists {
		return fmt.Errorf("'%s' is %w", name, ErrAlreadyDeclared)
	}
	e.values[name] = value
	return nil
}

// Get looks up a variable in the current scope, then in the immediate parent.
func (e *Environment) Get(name string) (Value, bool) {
	if val, exists := e.values[name]; exists {
		return val, true
	}
	if e.parent != nil {
		if val, exists := e.parent.values[name]; exists {
			return val, true
		}
	}
	return nil, false
}

// Set assigns to a reachable variable. The new value is stored in the current
// scope, shadowing a parent binding of the same name.
func (e *Environment) Set(name string, value Value) error {
	if _, ok := e.Get(name); !ok {
		return fmt.Errorf("'%s' is %w", name, ErrUndefined)
	}
	e.values[name] = value
	return nil
}

// Bind stores a value in the current scope without any checks.
// It is used for call parameters.
func (e *Environment) Bind(name string, value Value) {
	e.values[name] = value
}

// Names returns the names bound in the current scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
