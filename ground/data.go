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

func installData(st *kernel.State, env *kernel.Environment) {
	defApplicative(st, env, "cons", consFn)
	defApplicative(st, env, "car", carFn)
	defApplicative(st, env, "cdr", cdrFn)
	defApplicative(st, env, "set-car!", setCarFn)
	defApplicative(st, env, "set-cdr!", setCdrFn)
	defApplicative(st, env, "list", listFn)
	defApplicative(st, env, "list*", listStarFn)
	defApplicative(st, env, "length", lengthFn)
	defApplicative(st, env, "append", appendFn)
	defApplicative(st, env, "reverse", reverseFn)
	defApplicative(st, env, "list-tail", listTailFn)
	defApplicative(st, env, "map", mapFn)
	defApplicative(st, env, "for-each", forEachFn)
	defApplicative(st, env, "copy-es-immutable", copyEsImmutableFn)
	defApplicative(st, env, "make-environment", makeEnvironmentFn)
}

func consFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "cons")
	if err != nil {
		return err
	}
	if err := exactly(sl, 2, "cons"); err != nil {
		return err
	}
	return st.Return(st.Cons(sl[0], sl[1]))
}

func carFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "car")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "car"); err != nil {
		return err
	}
	if !sl[0].IsPair() {
		return kernel.NewError(kernel.ErrType, "car", "not a pair", []kernel.Value{sl[0]})
	}
	return st.Return(kernel.Car(sl[0]))
}

func cdrFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "cdr")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "cdr"); err != nil {
		return err
	}
	if !sl[0].IsPair() {
		return kernel.NewError(kernel.ErrType, "cdr", "not a pair", []kernel.Value{sl[0]})
	}
	return st.Return(kernel.Cdr(sl[0]))
}

func setCarFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "set-car!")
	if err != nil {
		return err
	}
	if err := exactly(sl, 2, "set-car!"); err != nil {
		return err
	}
	if !sl[0].IsPair() {
		return kernel.NewError(kernel.ErrType, "set-car!", "not a pair", []kernel.Value{sl[0]})
	}
	if err := st.SetCar(sl[0], sl[1]); err != nil {
		return err
	}
	return st.Return(kernel.Inert)
}

func setCdrFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "set-cdr!")
	if err != nil {
		return err
	}
	if err := exactly(sl, 2, "set-cdr!"); err != nil {
		return err
	}
	if !sl[0].IsPair() {
		return kernel.NewError(kernel.ErrType, "set-cdr!", "not a pair", []kernel.Value{sl[0]})
	}
	if err := st.SetCdr(sl[0], sl[1]); err != nil {
		return err
	}
	return st.Return(kernel.Inert)
}

func listFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "list")
	if err != nil {
		return err
	}
	return st.Return(st.SliceToList(sl))
}

func listStarFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "list*")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "list*"); err != nil {
		return err
	}
	out := sl[len(sl)-1]
	for i := len(sl) - 2; i >= 0; i-- {
		out = st.Cons(sl[i], out)
	}
	return st.Return(out)
}

func lengthFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "length")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "length"); err != nil {
		return err
	}
	n := kernel.ListLength(sl[0])
	if n < 0 {
		return kernel.NewError(kernel.ErrType, "length", "not a proper list", []kernel.Value{sl[0]})
	}
	return st.Return(kernel.NewFixint(int64(n)))
}

func appendFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "append")
	if err != nil {
		return err
	}
	if len(sl) == 0 {
		return st.Return(kernel.Nil)
	}
	out := sl[len(sl)-1]
	for i := len(sl) - 2; i >= 0; i-- {
		elems, ok := kernel.ListToSlice(sl[i])
		if !ok {
			return kernel.NewError(kernel.ErrType, "append", "not a proper list", []kernel.Value{sl[i]})
		}
		for j := len(elems) - 1; j >= 0; j-- {
			out = st.Cons(elems[j], out)
		}
	}
	return st.Return(out)
}

func reverseFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "reverse")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "reverse"); err != nil {
		return err
	}
	elems, ok := kernel.ListToSlice(sl[0])
	if !ok {
		return kernel.NewError(kernel.ErrType, "reverse", "not a proper list", []kernel.Value{sl[0]})
	}
	out := kernel.Nil
	for _, v := range elems {
		out = st.Cons(v, out)
	}
	return st.Return(out)
}

func listTailFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "list-tail")
	if err != nil {
		return err
	}
	if err := exactly(sl, 2, "list-tail"); err != nil {
		return err
	}
	if !sl[1].IsFixint() || sl[1].Fixint() < 0 {
		return kernel.NewError(kernel.ErrType, "list-tail", "not a non-negative fixint", []kernel.Value{sl[1]})
	}
	v := sl[0]
	for i := int64(0); i < sl[1].Fixint(); i++ {
		if !v.IsPair() {
			return kernel.NewError(kernel.ErrRange, "list-tail", "list too short", []kernel.Value{sl[0], sl[1]})
		}
		v = kernel.Cdr(v)
	}
	return st.Return(v)
}

// mapLists applies the applicative at sl[0] to the elements of the lists at
// sl[1:] in lockstep, collecting the results of each call. It drives the
// call through st.Eval on a freshly built combination whose operands are
// each wrapped in (quote v), so the already-evaluated arguments are never
// evaluated a second time — map and for-each share this walk and differ
// only in what they do with the results. Each list argument is walked with
// ListToSliceCyclic, so an encircling list is visited exactly once per
// distinct node rather than looping forever.
func mapLists(st *kernel.State, sl []kernel.Value, env kernel.Value, who string) ([]kernel.Value, error) {
	if err := atLeast(sl, 2, who); err != nil {
		return nil, err
	}
	if sl[0].Kind() != kernel.KApplicative {
		return nil, kernel.NewError(kernel.ErrType, who, "not an applicative", []kernel.Value{sl[0]})
	}
	lists := make([][]kernel.Value, len(sl)-1)
	n := -1
	for i, lv := range sl[1:] {
		elems, ok := kernel.ListToSliceCyclic(lv)
		if !ok {
			return nil, kernel.NewError(kernel.ErrType, who, "not a list", []kernel.Value{lv})
		}
		lists[i] = elems
		if n < 0 || len(elems) < n {
			n = len(elems)
		}
	}
	quoteSym := st.Intern("quote")
	out := make([]kernel.Value, n)
	for i := 0; i < n; i++ {
		operands := kernel.Nil
		for j := len(lists) - 1; j >= 0; j-- {
			quoted := st.Cons(quoteSym, st.Cons(lists[j][i], kernel.Nil))
			operands = st.Cons(quoted, operands)
		}
		v, err := st.Eval(st.Cons(sl[0], operands), env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func mapFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "map")
	if err != nil {
		return err
	}
	out, err := mapLists(st, sl, env, "map")
	if err != nil {
		return err
	}
	return st.Return(st.SliceToList(out))
}

func forEachFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "for-each")
	if err != nil {
		return err
	}
	if _, err := mapLists(st, sl, env, "for-each"); err != nil {
		return err
	}
	return st.Return(kernel.Inert)
}

func copyEsImmutableFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "copy-es-immutable")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "copy-es-immutable"); err != nil {
		return err
	}
	return st.Return(copyImmutable(st, sl[0], make(map[*kernel.Pair]kernel.Value)))
}

func copyImmutable(st *kernel.State, v kernel.Value, seen map[*kernel.Pair]kernel.Value) kernel.Value {
	if !v.IsPair() {
		return v
	}
	p, _ := kernel.AsPair(v)
	if cp, ok := seen[p]; ok {
		return cp
	}
	np := st.Cons(kernel.Nil, kernel.Nil)
	seen[p] = np
	car := copyImmutable(st, p.Car, seen)
	cdr := copyImmutable(st, p.Cdr, seen)
	st.SetCar(np, car)
	st.SetCdr(np, cdr)
	npObj, _ := kernel.AsPair(np)
	npObj.SetImmutable()
	return np
}

func makeEnvironmentFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "make-environment")
	if err != nil {
		return err
	}
	parents := make([]*kernel.Environment, 0, len(sl))
	for _, v := range sl {
		pe, ok := kernel.AsEnvironment(v)
		if !ok {
			return kernel.NewError(kernel.ErrType, "make-environment", "not an environment", []kernel.Value{v})
		}
		parents = append(parents, pe)
	}
	return st.Return(st.NewEnvironment(parents...))
}
