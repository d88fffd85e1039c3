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

// Package ground installs the standard combiner catalog onto a fresh
// top-level environment: the special forms ($vau, $define!, $if,
// $sequence, $lambda, $set!, $import!/$provide!), the core applicatives
// (eval, apply, the pair/list primitives, the numeric tower operations,
// equivalence predicates, call/cc) and minimal read/write I/O. It plays the
// same role as the reference interpreter's lang/retro glue layer: it has no
// state of its own beyond what it installs into the environment it is
// handed.
package ground

import (
	"github.com/MaxSilvesterQWE/klisp/kernel"
)

// Init builds a fresh ground environment with every combiner in this
// package bound, and returns it as a kernel.Value. It also stores the
// result on st.GroundEnv, which the GC roots directly (see State.GC).
func Init(st *kernel.State) kernel.Value {
	envVal := st.NewEnvironment()
	env, _ := kernel.AsEnvironment(envVal)

	installControl(st, env)
	installData(st, env)
	installNumbers(st, env)
	installPredicates(st, env)
	installIO(st, env)
	installCallCC(st, env)
	installEnvMut(st, env)

	st.GroundEnv = envVal
	return envVal
}

// sym interns name and returns its *Symbol, for Environment.Define calls.
func sym(st *kernel.State, name string) *kernel.Symbol {
	s, _ := kernel.AsSymbol(st.Intern(name))
	return s
}

// defApplicative wraps fn as an operative, then that operative as an
// applicative, and binds it under name — the shape every ordinary
// (argument-evaluating) ground procedure takes.
func defApplicative(st *kernel.State, env *kernel.Environment, name string, fn kernel.OperativeFn) {
	op := st.NewOperative(fn)
	app := st.NewApplicative(op)
	env.Define(sym(st, name), app)
}

// defOperative binds a bare, non-argument-evaluating combiner under name —
// used for the special forms.
func defOperative(st *kernel.State, env *kernel.Environment, name string, fn kernel.OperativeFn) {
	op := st.NewOperative(fn)
	env.Define(sym(st, name), op)
}

// args converts an already-list-checked operand tree to a Go slice, raising
// ErrType tagged with who if it is improper.
func args(operands kernel.Value, who string) ([]kernel.Value, error) {
	sl, ok := kernel.ListToSlice(operands)
	if !ok {
		return nil, kernel.NewError(kernel.ErrType, who, "expected a proper list of operands", []kernel.Value{operands})
	}
	return sl, nil
}

// exactly validates that sl has exactly n elements.
func exactly(sl []kernel.Value, n int, who string) error {
	if len(sl) != n {
		return kernel.NewError(kernel.ErrArity, who, "wrong number of operands", sl)
	}
	return nil
}

// atLeast validates that sl has at least n elements.
func atLeast(sl []kernel.Value, n int, who string) error {
	if len(sl) < n {
		return kernel.NewError(kernel.ErrArity, who, "too few operands", sl)
	}
	return nil
}
