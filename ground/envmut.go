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

func installEnvMut(st *kernel.State, env *kernel.Environment) {
	defOperative(st, env, "$import!", importBangFn)
	defOperative(st, env, "$provide!", provideBangFn)
}

// flatSymbols converts a proper list of symbols to a Go slice, rejecting
// anything that isn't a bare symbol.
func flatSymbols(v kernel.Value) ([]*kernel.Symbol, bool) {
	sl, ok := kernel.ListToSlice(v)
	if !ok {
		return nil, false
	}
	out := make([]*kernel.Symbol, len(sl))
	for i, e := range sl {
		s, ok := kernel.AsSymbol(e)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

// importBangFn implements ($import! env-expr symbol...): it evaluates
// env-expr, then copies each named binding from that environment into the
// dynamic environment. The symbol list is run through CheckPtree first, so
// a duplicate or (degenerately) cyclic list is rejected before anything is
// imported — the conservative reading adopted for both $import! and
// $provide! (see DESIGN.md).
func importBangFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$import!")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "$import!"); err != nil {
		return err
	}
	srcVal, err := st.Eval(sl[0], env)
	if err != nil {
		return err
	}
	srcEnv, ok := kernel.AsEnvironment(srcVal)
	if !ok {
		return kernel.NewError(kernel.ErrType, "$import!", "not an environment", []kernel.Value{srcVal})
	}
	symsList := st.SliceToList(sl[1:])
	if err := kernel.CheckPtree(symsList); err != nil {
		return err
	}
	syms, ok := flatSymbols(symsList)
	if !ok {
		return kernel.NewError(kernel.ErrType, "$import!", "expected a list of symbols", nil)
	}
	dstEnv, _ := kernel.AsEnvironment(env)
	for _, s := range syms {
		v, err := st.Lookup(srcEnv, s)
		if err != nil {
			return err
		}
		dstEnv.Define(s, v)
	}
	return st.Return(kernel.Inert)
}

// provideBangFn implements ($provide! (symbol...) body...): body is
// evaluated in a fresh local environment (a child of the dynamic
// environment), then each named symbol's final local binding is copied
// back into the dynamic environment — a small module pattern for
// selectively exporting names defined by body.
func provideBangFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$provide!")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "$provide!"); err != nil {
		return err
	}
	ptree, body := sl[0], sl[1:]
	if err := kernel.CheckPtree(ptree); err != nil {
		return err
	}
	syms, ok := flatSymbols(ptree)
	if !ok {
		return kernel.NewError(kernel.ErrType, "$provide!", "expected a list of symbols", []kernel.Value{ptree})
	}
	dstEnv, _ := kernel.AsEnvironment(env)
	localVal := st.NewEnvironment(dstEnv)
	local, _ := kernel.AsEnvironment(localVal)
	for _, e := range body {
		if _, err := st.Eval(e, localVal); err != nil {
			return err
		}
	}
	for _, s := range syms {
		v, err := st.Lookup(local, s)
		if err != nil {
			return err
		}
		dstEnv.Define(s, v)
	}
	return st.Return(kernel.Inert)
}
