package object

import (
	"log/slog"
)

// Environment maps names to values. Misses fall through to the outer
// scope; the outer reference is fixed at creation and never reassigned,
// so chains always point strictly outward.
type Environment struct {
	store map[string]Object
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

// NewEnclosedEnvironment creates a child scope, used once per function
// application to hold the call's parameter bindings.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

func (e *Environment) Set(name string, val Object) Object {
	slog.Debug("binding value", slog.String("name", name), slog.Any("value", val))
	e.store[name] = val
	return val
}
