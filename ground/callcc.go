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

package ground

import "github.com/MaxSilvesterQWE/klisp/kernel"

func installCallCC(st *kernel.State, env *kernel.Environment) {
	defApplicative(st, env, "call/cc", callCCFn)
	defApplicative(st, env, "call-with-current-continuation", callCCFn)
	defApplicative(st, env, "extend-continuation", extendContinuationFn)
	defApplicative(st, env, "guard-dynamic-extent", guardDynamicExtentFn)
}

// callCCFn captures the continuation the call/cc combination itself would
// have returned to, then combines the operand (a one-argument applicative)
// with that continuation as its sole argument. Escaping later by invoking
// the captured continuation is unwound via State.ApplyContinuation/panic;
// re-entering an extent that has already returned is out of scope (see
// Continuation.Depth's doc comment in kernel/object.go).
func callCCFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "call/cc")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "call/cc"); err != nil {
		return err
	}
	if sl[0].Kind() != kernel.KApplicative {
		return kernel.NewError(kernel.ErrType, "call/cc", "not an applicative", []kernel.Value{sl[0]})
	}
	k := st.CurrentContinuation()
	underlying := kernel.Unwrap(sl[0])
	return st.Combine(underlying, st.Cons(k, kernel.Nil), env)
}

// extendContinuationFn builds a new continuation that, when invoked,
// applies an applicative to the incoming value and passes the result on to
// an existing (outer) continuation — the general-purpose way to splice Go
// or Kernel-level post-processing onto an existing continuation.
func extendContinuationFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "extend-continuation")
	if err != nil {
		return err
	}
	if err := exactly(sl, 2, "extend-continuation"); err != nil {
		return err
	}
	outerVal, applicative := sl[0], sl[1]
	outer, ok := kernel.AsContinuation(outerVal)
	if !ok {
		return kernel.NewError(kernel.ErrType, "extend-continuation", "not a continuation", []kernel.Value{outerVal})
	}
	if applicative.Kind() != kernel.KApplicative {
		return kernel.NewError(kernel.ErrType, "extend-continuation", "not an applicative", []kernel.Value{applicative})
	}
	underlying := kernel.Unwrap(applicative)
	newCont := st.NewContinuation(outer, func(st *kernel.State, xparams []kernel.Value, value kernel.Value) error {
		st.SetCC(outer)
		return st.Combine(underlying, st.Cons(value, kernel.Nil), env)
	})
	return st.Return(newCont)
}

// guardDynamicExtentFn installs entry/exit guard thunks around a
// continuation: entering/leaving the dynamic extent delimited by the inner
// continuation runs the corresponding guard (an applicative of no
// arguments), modeling Kernel's dynamic-wind-style unwind protection at a
// coarse grain.
func guardDynamicExtentFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "guard-dynamic-extent")
	if err != nil {
		return err
	}
	if err := exactly(sl, 3, "guard-dynamic-extent"); err != nil {
		return err
	}
	entryGuards, contVal, exitGuards := sl[0], sl[1], sl[2]
	inner, ok := kernel.AsContinuation(contVal)
	if !ok {
		return kernel.NewError(kernel.ErrType, "guard-dynamic-extent", "not a continuation", []kernel.Value{contVal})
	}
	if err := runGuards(st, entryGuards, env); err != nil {
		return err
	}
	wrapped := st.NewContinuation(inner, func(st *kernel.State, xparams []kernel.Value, value kernel.Value) error {
		if err := runGuards(st, exitGuards, env); err != nil {
			return err
		}
		return st.ApplyContinuation(inner, value)
	})
	return st.Return(wrapped)
}

func runGuards(st *kernel.State, guards kernel.Value, env kernel.Value) error {
	sl, ok := kernel.ListToSlice(guards)
	if !ok {
		return kernel.NewError(kernel.ErrType, "guard-dynamic-extent", "not a proper list of guards", []kernel.Value{guards})
	}
	for _, g := range sl {
		if g.Kind() != kernel.KApplicative {
			return kernel.NewError(kernel.ErrType, "guard-dynamic-extent", "not an applicative", []kernel.Value{g})
		}
		if _, err := st.Eval(st.Cons(kernel.Unwrap(g), kernel.Nil), env); err != nil {
			return err
		}
	}
	return nil
}
