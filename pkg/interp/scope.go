package interp

import "sort"

// Scope is one level of the lexical environment. Lookups walk outward
// through parents; definitions only touch the current level. A Scope is not
// safe for concurrent use.
type Scope struct {
	parent *Scope
	vars   map[string]Value
	consts map[string]struct{}
}

// NewScope creates a scope chained to parent. A nil parent makes a global
// scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		vars:   make(map[string]Value),
		consts: make(map[string]struct{}),
	}
}

// Parent returns the enclosing scope, or nil for the global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Define introduces name in this scope. Redefining a name already present
// here is a ResolutionError; shadowing an outer binding is fine.
func (s *Scope) Define(name string, v Value, constant bool) error {
	if _, exists := s.vars[name]; exists {
		return Errorf(ResolutionError, errRedefined, name)
	}
	s.vars[name] = v
	if constant {
		s.consts[name] = struct{}{}
	}
	return nil
}

// DefineNative is shorthand for defining a non-constant NativeFunc.
func (s *Scope) DefineNative(name string, fn NativeFn) error {
	return s.Define(name, NewNative(name, fn), false)
}

// Assign rebinds the nearest definition of name.
func (s *Scope) Assign(name string, v Value) error {
	owner := s.resolve(name)
	if owner == nil {
		return Errorf(ResolutionError, errUndefined, name)
	}
	if _, ok := owner.consts[name]; ok {
		return Errorf(ResolutionError, errConstant, name)
	}
	owner.vars[name] = v
	return nil
}

// Get returns the nearest binding of name.
func (s *Scope) Get(name string) (Value, error) {
	owner := s.resolve(name)
	if owner == nil {
		return nil, Errorf(ResolutionError, errUndefined, name)
	}
	return owner.vars[name], nil
}

// Lookup is Get without the error.
func (s *Scope) Lookup(name string) (Value, bool) {
	owner := s.resolve(name)
	if owner == nil {
		return nil, false
	}
	return owner.vars[name], true
}

// IsConstant reports whether any scope in the chain marks name constant,
// including ancestors whose binding is shadowed.
func (s *Scope) IsConstant(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.consts[name]; ok {
			return true
		}
	}
	return false
}

// Names returns the names defined directly in this scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scope) resolve(name string) *Scope {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			return cur
		}
	}
	return nil
}
