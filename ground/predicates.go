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

func installPredicates(st *kernel.State, env *kernel.Environment) {
	defApplicative(st, env, "eq?", eqFn)
	defApplicative(st, env, "equal?", equalFn)
	defApplicative(st, env, "pair?", kindPred(func(v kernel.Value) bool { return v.IsPair() }))
	defApplicative(st, env, "null?", kindPred(func(v kernel.Value) bool { return v.IsNil() }))
	defApplicative(st, env, "symbol?", kindPred(func(v kernel.Value) bool { return v.IsSymbol() }))
	defApplicative(st, env, "string?", kindPred(func(v kernel.Value) bool { return v.IsString() }))
	defApplicative(st, env, "boolean?", kindPred(func(v kernel.Value) bool { return v.IsBool() }))
	defApplicative(st, env, "number?", kindPred(func(v kernel.Value) bool { return v.IsNumber() }))
	defApplicative(st, env, "inert?", kindPred(func(v kernel.Value) bool { return v.IsInert() }))
	defApplicative(st, env, "ignore?", kindPred(func(v kernel.Value) bool { return v.IsIgnore() }))
	defApplicative(st, env, "environment?", kindPred(func(v kernel.Value) bool { return v.IsEnvironment() }))
	defApplicative(st, env, "combiner?", kindPred(func(v kernel.Value) bool { return v.IsCombiner() }))
	defApplicative(st, env, "operative?", kindPred(func(v kernel.Value) bool { return v.Kind() == kernel.KOperative }))
	defApplicative(st, env, "applicative?", kindPred(func(v kernel.Value) bool { return v.Kind() == kernel.KApplicative }))
	defApplicative(st, env, "continuation?", kindPred(func(v kernel.Value) bool { return v.Kind() == kernel.KContinuation }))
	defApplicative(st, env, "error?", kindPred(func(v kernel.Value) bool { return v.IsError() }))
	defApplicative(st, env, "char?", kindPred(func(v kernel.Value) bool { return v.IsChar() }))
	defApplicative(st, env, "eof-object?", kindPred(func(v kernel.Value) bool { return v.Kind() == kernel.KEOF }))
	defApplicative(st, env, "port?", kindPred(func(v kernel.Value) bool { return v.Kind() == kernel.KPort }))
	defApplicative(st, env, "not?", notFn)
	defApplicative(st, env, "list?", listPFn)
	defApplicative(st, env, "finite-list?", finiteListPFn)
}

// kindPred wraps a single-argument Go predicate as a unary applicative's
// Go implementation — every type predicate in this file takes exactly one
// operand and maps it through a pure boolean test.
func kindPred(pred func(kernel.Value) bool) kernel.OperativeFn {
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, "type-predicate")
		if err != nil {
			return err
		}
		if err := exactly(sl, 1, "type-predicate"); err != nil {
			return err
		}
		return st.Return(kernel.Boolean(pred(sl[0])))
	}
}

func eqFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "eq?")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "eq?"); err != nil {
		return err
	}
	for i := 1; i < len(sl); i++ {
		if !kernel.Eq(sl[0], sl[i]) {
			return st.Return(kernel.False)
		}
	}
	return st.Return(kernel.True)
}

func equalFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "equal?")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "equal?"); err != nil {
		return err
	}
	for i := 1; i < len(sl); i++ {
		if !kernel.Equal(sl[0], sl[i]) {
			return st.Return(kernel.False)
		}
	}
	return st.Return(kernel.True)
}

func notFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "not?")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "not?"); err != nil {
		return err
	}
	if !sl[0].IsBool() {
		return kernel.NewError(kernel.ErrType, "not?", "not a boolean", []kernel.Value{sl[0]})
	}
	return st.Return(kernel.Boolean(!sl[0].Bool()))
}

func listPFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "list?")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "list?"); err != nil {
		return err
	}
	return st.Return(kernel.Boolean(kernel.ListLength(sl[0]) >= 0))
}

func finiteListPFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "finite-list?")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "finite-list?"); err != nil {
		return err
	}
	_, ok := kernel.ListToSlice(sl[0])
	return st.Return(kernel.Boolean(ok))
}
