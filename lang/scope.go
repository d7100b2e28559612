package lang

import (
	"iter"
	"slices"
)

// Scope is a runtime frame mapping names to variables, linked to an optional
// parent. A scope flagged as a function boundary keeps assignments to
// undeclared names local instead of deferring them to its parent.
type Scope struct {
	parent   *Scope
	vars     map[string]*Variable
	order    []string // insertion order of vars
	function bool
}

// NewScope returns an empty root scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]*Variable)}
}

// Child returns a new scope whose parent is s.
func (s *Scope) Child(function bool) *Scope {
	c := NewScope()
	c.parent = s
	c.function = function

	return c
}

func (s *Scope) Parent() *Scope { return s.parent }

func (s *Scope) IsFunction() bool { return s.function }

// Lookup returns the variable bound to name in s or the nearest ancestor
// that binds it.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Get returns the value bound to name, or nil when name is unbound.
func (s *Scope) Get(name string) Value {
	if v, ok := s.Lookup(name); ok {
		return v.Get()
	}

	return Nil()
}

// Set assigns v to name. A variable bound in s is updated in place. Otherwise
// a function boundary or root scope creates a new local variable, and any
// other scope passes the assignment to its parent.
func (s *Scope) Set(name string, v Value) {
	if cell, ok := s.vars[name]; ok {
		cell.Set(v)

		return
	}

	if s.function || s.parent == nil {
		s.bind(name, NewVariable(v))

		return
	}

	s.parent.Set(name, v)
}

// Global binds each name in s to the variable visible from the parent
// scope, creating it as nil when the parent cannot see one. Afterwards both
// names refer to the same variable. Global is a no-op on a root scope.
func (s *Scope) Global(names ...string) {
	if s.parent == nil {
		return
	}

	for _, name := range names {
		cell, ok := s.parent.Lookup(name)
		if !ok {
			s.parent.Set(name, Nil())
			cell, _ = s.parent.Lookup(name)
		}

		s.bind(name, cell)
	}
}

func (s *Scope) bind(name string, cell *Variable) {
	if _, ok := s.vars[name]; !ok {
		s.order = append(s.order, name)
	}

	s.vars[name] = cell
}

// Names returns the names bound directly in s in insertion order.
func (s *Scope) Names() []string { return slices.Clone(s.order) }

// Len returns the number of names bound directly in s.
func (s *Scope) Len() int { return len(s.order) }

// All returns an iterator over the names bound directly in s and their
// current values, in insertion order.
func (s *Scope) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range s.order {
			if !yield(name, s.vars[name].Get()) {
				return
			}
		}
	}
}

// Snapshot returns every name visible from s mapped to its native value
// (see [Value.Native]). Inner bindings shadow outer ones.
func (s *Scope) Snapshot() map[string]any {
	var chain []*Scope
	for sc := s; sc != nil; sc = sc.parent {
		chain = append(chain, sc)
	}

	m := make(map[string]any)

	for _, sc := range slices.Backward(chain) {
		for name, v := range sc.All() {
			m[name] = v.Native()
		}
	}

	return m
}
