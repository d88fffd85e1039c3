// This file is part of klisp - https://github.com/MaxSilvesterQWE/klisp
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kernel

// NewEnvironment allocates a fresh environment with the given parents, in
// left-to-right lookup priority order (§4.5). A nil/empty parents slice
// makes an environment with no enclosing scope (the ground environment).
func (st *State) NewEnvironment(parents ...*Environment) Value {
	e := &Environment{
		Parents:  append([]*Environment(nil), parents...),
		Bindings: make(map[*Symbol]Value),
	}
	e.kind = KEnvironment
	st.Heap.track(e)
	return boxValue(KEnvironment, e)
}

// AsEnvironment returns the underlying *Environment and true, or nil, false.
func AsEnvironment(v Value) (*Environment, bool) {
	if v.kind != KEnvironment {
		return nil, false
	}
	return v.obj.(*Environment), true
}

// Define binds sym to val in e directly, overwriting any existing local
// binding (this is the internal primitive behind $define! and ptree
// matching; it never touches parent environments).
func (e *Environment) Define(sym *Symbol, val Value) {
	e.Bindings[sym] = val
}

// lookup walks e and its parents depth-first, left to right, returning the
// first binding found. visited keeps an ancestor shared by several parents
// from being walked more than once. Parents are fixed when an environment
// is made, so the parent graph has no cycles.
func (e *Environment) lookup(sym *Symbol, visited map[*Environment]bool) (Value, bool) {
	if visited[e] {
		return Value{}, false
	}
	visited[e] = true
	if v, ok := e.Bindings[sym]; ok {
		return v, true
	}
	for _, p := range e.Parents {
		if v, ok := p.lookup(sym, visited); ok {
			return v, true
		}
	}
	return Value{}, false
}

// Lookup resolves sym in e, returning ErrUnbound if no binding is visible.
func (st *State) Lookup(e *Environment, sym *Symbol) (Value, error) {
	if v, ok := e.lookup(sym, make(map[*Environment]bool)); ok {
		return v, nil
	}
	return Value{}, NewError(ErrUnbound, sym.Name, "unbound symbol", nil)
}

// setRec performs $set!'s search: find the closest environment (depth-first,
// left to right) that already binds sym, and overwrite it there. Returns
// false if no such environment exists.
func (e *Environment) setRec(sym *Symbol, val Value, visited map[*Environment]bool) bool {
	if visited[e] {
		return false
	}
	visited[e] = true
	if _, ok := e.Bindings[sym]; ok {
		e.Bindings[sym] = val
		return true
	}
	for _, p := range e.Parents {
		if p.setRec(sym, val, visited) {
			return true
		}
	}
	return false
}

// Set implements $set!'s mutation of an existing binding.
func (st *State) Set(e *Environment, sym *Symbol, val Value) error {
	if e.setRec(sym, val, make(map[*Environment]bool)) {
		return nil
	}
	return NewError(ErrUnbound, sym.Name, "unbound symbol", nil)
}
