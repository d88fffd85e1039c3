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

func installControl(st *kernel.State, env *kernel.Environment) {
	defOperative(st, env, "$vau", vauFn)
	defOperative(st, env, "$define!", defineBangFn)
	defOperative(st, env, "$set!", setBangFn)
	defOperative(st, env, "$if", ifFn)
	defOperative(st, env, "$sequence", sequenceFn)
	defOperative(st, env, "$lambda", lambdaFn)
	defOperative(st, env, "lambda", lambdaFn)
	defOperative(st, env, "quote", quoteFn)
	defApplicative(st, env, "eval", evalFn)
	defApplicative(st, env, "apply", applyFn)
	defApplicative(st, env, "wrap", wrapFn)
	defApplicative(st, env, "unwrap", unwrapFn)
}

// evalSequenceTail evaluates every expression in body except the last as a
// non-tail sub-evaluation (for effect), then schedules the last one as the
// actual next trampoline step — the $sequence tail-position rule that every
// body-evaluating special form (here, $vau/$lambda closures and
// $sequence itself) relies on.
func evalSequenceTail(st *kernel.State, body []kernel.Value, env kernel.Value) error {
	if len(body) == 0 {
		return st.Return(kernel.Inert)
	}
	for _, e := range body[:len(body)-1] {
		if _, err := st.Eval(e, env); err != nil {
			return err
		}
	}
	return st.TailEval(body[len(body)-1], env)
}

func vauFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$vau")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 2, "$vau"); err != nil {
		return err
	}
	ptree, eparam, body := sl[0], sl[1], append([]kernel.Value(nil), sl[2:]...)
	if err := kernel.CheckPtree(ptree); err != nil {
		return err
	}
	if eparam.Kind() != kernel.KIgnore && eparam.Kind() != kernel.KSymbol {
		return kernel.NewError(kernel.ErrType, "$vau", "environment parameter must be a symbol or #ignore", []kernel.Value{eparam})
	}
	staticEnv, _ := kernel.AsEnvironment(env)

	opFn := func(st *kernel.State, xparams []kernel.Value, callOperands, dynEnv kernel.Value) error {
		callEnvVal := st.NewEnvironment(staticEnv)
		callEnv, _ := kernel.AsEnvironment(callEnvVal)
		if err := kernel.MatchPtree(callEnv, ptree, callOperands); err != nil {
			return err
		}
		if eparam.Kind() == kernel.KSymbol {
			s, _ := kernel.AsSymbol(eparam)
			callEnv.Define(s, dynEnv)
		}
		return evalSequenceTail(st, body, callEnvVal)
	}
	return st.Return(st.NewOperative(opFn))
}

func lambdaFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$lambda")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "$lambda"); err != nil {
		return err
	}
	ptree, body := sl[0], append([]kernel.Value(nil), sl[1:]...)
	if err := kernel.CheckPtree(ptree); err != nil {
		return err
	}
	staticEnv, _ := kernel.AsEnvironment(env)

	opFn := func(st *kernel.State, xparams []kernel.Value, callOperands, dynEnv kernel.Value) error {
		callEnvVal := st.NewEnvironment(staticEnv)
		callEnv, _ := kernel.AsEnvironment(callEnvVal)
		if err := kernel.MatchPtree(callEnv, ptree, callOperands); err != nil {
			return err
		}
		return evalSequenceTail(st, body, callEnvVal)
	}
	op := st.NewOperative(opFn)
	return st.Return(st.NewApplicative(op))
}

func defineBangFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$define!")
	if err != nil {
		return err
	}
	if err := exactly(sl, 2, "$define!"); err != nil {
		return err
	}
	ptree := sl[0]
	val, err := st.Eval(sl[1], env)
	if err != nil {
		return err
	}
	envObj, _ := kernel.AsEnvironment(env)
	if err := kernel.CheckPtree(ptree); err != nil {
		return err
	}
	if err := kernel.MatchPtree(envObj, ptree, val); err != nil {
		return err
	}
	return st.Return(kernel.Inert)
}

// setPtree mirrors kernel.MatchPtree's recursive shape but mutates existing
// bindings (via State.Set) instead of introducing new ones, matching
// $set!'s requirement that the symbols it touches already be bound
// somewhere in the target environment's parent chain.
func setPtree(st *kernel.State, env *kernel.Environment, ptree, val kernel.Value) error {
	switch ptree.Kind() {
	case kernel.KIgnore:
		return nil
	case kernel.KNil:
		if !val.IsNil() {
			return kernel.NewError(kernel.ErrArity, "$set!", "too many operands", nil)
		}
		return nil
	case kernel.KSymbol:
		s, _ := kernel.AsSymbol(ptree)
		return st.Set(env, s, val)
	case kernel.KPair:
		if !val.IsPair() {
			return kernel.NewError(kernel.ErrArity, "$set!", "too few operands", nil)
		}
		p, _ := kernel.AsPair(ptree)
		v, _ := kernel.AsPair(val)
		if err := setPtree(st, env, p.Car, v.Car); err != nil {
			return err
		}
		return setPtree(st, env, p.Cdr, v.Cdr)
	default:
		return kernel.NewError(kernel.ErrType, "$set!", "illegal parameter tree leaf", []kernel.Value{ptree})
	}
}

func setBangFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$set!")
	if err != nil {
		return err
	}
	if err := exactly(sl, 3, "$set!"); err != nil {
		return err
	}
	envVal, err := st.Eval(sl[0], env)
	if err != nil {
		return err
	}
	targetEnv, ok := kernel.AsEnvironment(envVal)
	if !ok {
		return kernel.NewError(kernel.ErrType, "$set!", "not an environment", []kernel.Value{envVal})
	}
	val, err := st.Eval(sl[2], env)
	if err != nil {
		return err
	}
	if err := kernel.CheckPtree(sl[1]); err != nil {
		return err
	}
	if err := setPtree(st, targetEnv, sl[1], val); err != nil {
		return err
	}
	return st.Return(kernel.Inert)
}

func quoteFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "quote")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "quote"); err != nil {
		return err
	}
	return st.Return(sl[0])
}

func ifFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$if")
	if err != nil {
		return err
	}
	if err := exactly(sl, 3, "$if"); err != nil {
		return err
	}
	test, err := st.Eval(sl[0], env)
	if err != nil {
		return err
	}
	if test.Kind() != kernel.KBool {
		return kernel.NewError(kernel.ErrType, "$if", "test did not evaluate to a boolean", []kernel.Value{test})
	}
	if test.Bool() {
		return st.TailEval(sl[1], env)
	}
	return st.TailEval(sl[2], env)
}

func sequenceFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "$sequence")
	if err != nil {
		return err
	}
	return evalSequenceTail(st, sl, env)
}

func evalFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "eval")
	if err != nil {
		return err
	}
	if err := exactly(sl, 2, "eval"); err != nil {
		return err
	}
	if sl[1].Kind() != kernel.KEnvironment {
		return kernel.NewError(kernel.ErrType, "eval", "not an environment", []kernel.Value{sl[1]})
	}
	return st.TailEval(sl[0], sl[1])
}

func applyFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "apply")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 2, "apply"); err != nil {
		return err
	}
	if len(sl) > 3 {
		return kernel.NewError(kernel.ErrArity, "apply", "too many operands", sl)
	}
	if sl[0].Kind() != kernel.KApplicative {
		return kernel.NewError(kernel.ErrType, "apply", "not an applicative", []kernel.Value{sl[0]})
	}
	dynEnv := st.NewEnvironment()
	if len(sl) == 3 {
		if sl[2].Kind() != kernel.KEnvironment {
			return kernel.NewError(kernel.ErrType, "apply", "not an environment", []kernel.Value{sl[2]})
		}
		dynEnv = sl[2]
	}
	return st.Combine(kernel.Unwrap(sl[0]), sl[1], dynEnv)
}

func wrapFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "wrap")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "wrap"); err != nil {
		return err
	}
	if !sl[0].IsCombiner() {
		return kernel.NewError(kernel.ErrType, "wrap", "not a combiner", []kernel.Value{sl[0]})
	}
	return st.Return(st.NewApplicative(sl[0]))
}

func unwrapFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "unwrap")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "unwrap"); err != nil {
		return err
	}
	if sl[0].Kind() != kernel.KApplicative {
		return kernel.NewError(kernel.ErrType, "unwrap", "not an applicative", []kernel.Value{sl[0]})
	}
	return st.Return(kernel.Unwrap(sl[0]))
}
