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

import (
	"math"

	"github.com/MaxSilvesterQWE/klisp/kernel"
	"github.com/MaxSilvesterQWE/klisp/kernel/knum"
)

func installNumbers(st *kernel.State, env *kernel.Environment) {
	defApplicative(st, env, "+", foldNum("+", st.NumAdd, kernel.NewFixint(0)))
	defApplicative(st, env, "*", foldNum("*", st.NumMul, kernel.NewFixint(1)))
	defApplicative(st, env, "-", subFn)
	defApplicative(st, env, "/", divFn)
	defApplicative(st, env, "=", cmpChain("=", func(c int) bool { return c == 0 }))
	defApplicative(st, env, "<", cmpChain("<", func(c int) bool { return c < 0 }))
	defApplicative(st, env, "<=", cmpChain("<=", func(c int) bool { return c <= 0 }))
	defApplicative(st, env, ">", cmpChain(">", func(c int) bool { return c > 0 }))
	defApplicative(st, env, ">=", cmpChain(">=", func(c int) bool { return c >= 0 }))
	defApplicative(st, env, "zero?", numUnaryPred("zero?", func(v kernel.Value) (bool, error) {
		c, err := kernel.NumCmp(v, kernel.NewFixint(0))
		return c == 0, err
	}))
	defApplicative(st, env, "positive?", numUnaryPred("positive?", func(v kernel.Value) (bool, error) {
		c, err := kernel.NumCmp(v, kernel.NewFixint(0))
		return c > 0, err
	}))
	defApplicative(st, env, "negative?", numUnaryPred("negative?", func(v kernel.Value) (bool, error) {
		c, err := kernel.NumCmp(v, kernel.NewFixint(0))
		return c < 0, err
	}))
	defApplicative(st, env, "exact?", numUnaryPred("exact?", func(v kernel.Value) (bool, error) {
		if !v.IsNumber() {
			return false, kernel.NewError(kernel.ErrType, "exact?", "not a number", []kernel.Value{v})
		}
		return kernel.IsExact(v), nil
	}))
	defApplicative(st, env, "inexact?", numUnaryPred("inexact?", func(v kernel.Value) (bool, error) {
		if !v.IsNumber() {
			return false, kernel.NewError(kernel.ErrType, "inexact?", "not a number", []kernel.Value{v})
		}
		return !kernel.IsExact(v), nil
	}))
	defApplicative(st, env, "abs", absFn)
	defApplicative(st, env, "exact->inexact", exactToInexactFn)
	defApplicative(st, env, "inexact->exact", inexactToExactFn)
}

func foldNum(who string, op func(a, b kernel.Value) (kernel.Value, error), identity kernel.Value) kernel.OperativeFn {
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, who)
		if err != nil {
			return err
		}
		acc := identity
		for _, v := range sl {
			if !v.IsNumber() {
				return kernel.NewError(kernel.ErrType, who, "not a number", []kernel.Value{v})
			}
			acc, err = op(acc, v)
			if err != nil {
				return err
			}
		}
		return st.Return(acc)
	}
}

func subFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "-")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "-"); err != nil {
		return err
	}
	if !sl[0].IsNumber() {
		return kernel.NewError(kernel.ErrType, "-", "not a number", []kernel.Value{sl[0]})
	}
	if len(sl) == 1 {
		r, err := st.NumSub(kernel.NewFixint(0), sl[0])
		if err != nil {
			return err
		}
		return st.Return(r)
	}
	acc := sl[0]
	for _, v := range sl[1:] {
		if !v.IsNumber() {
			return kernel.NewError(kernel.ErrType, "-", "not a number", []kernel.Value{v})
		}
		acc, err = st.NumSub(acc, v)
		if err != nil {
			return err
		}
	}
	return st.Return(acc)
}

func divFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "/")
	if err != nil {
		return err
	}
	if err := atLeast(sl, 1, "/"); err != nil {
		return err
	}
	if !sl[0].IsNumber() {
		return kernel.NewError(kernel.ErrType, "/", "not a number", []kernel.Value{sl[0]})
	}
	if len(sl) == 1 {
		r, err := st.NumDiv(kernel.NewFixint(1), sl[0])
		if err != nil {
			return err
		}
		return st.Return(r)
	}
	acc := sl[0]
	for _, v := range sl[1:] {
		if !v.IsNumber() {
			return kernel.NewError(kernel.ErrType, "/", "not a number", []kernel.Value{v})
		}
		acc, err = st.NumDiv(acc, v)
		if err != nil {
			return err
		}
	}
	return st.Return(acc)
}

func cmpChain(who string, test func(c int) bool) kernel.OperativeFn {
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, who)
		if err != nil {
			return err
		}
		if err := atLeast(sl, 1, who); err != nil {
			return err
		}
		for i := 0; i+1 < len(sl); i++ {
			c, err := kernel.NumCmp(sl[i], sl[i+1])
			if err != nil {
				return err
			}
			if !test(c) {
				return st.Return(kernel.False)
			}
		}
		return st.Return(kernel.True)
	}
}

func numUnaryPred(who string, pred func(kernel.Value) (bool, error)) kernel.OperativeFn {
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, who)
		if err != nil {
			return err
		}
		if err := exactly(sl, 1, who); err != nil {
			return err
		}
		b, err := pred(sl[0])
		if err != nil {
			return err
		}
		return st.Return(kernel.Boolean(b))
	}
}

func absFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "abs")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "abs"); err != nil {
		return err
	}
	if !sl[0].IsNumber() {
		return kernel.NewError(kernel.ErrType, "abs", "not a number", []kernel.Value{sl[0]})
	}
	c, err := kernel.NumCmp(sl[0], kernel.NewFixint(0))
	if err != nil {
		return err
	}
	if c >= 0 {
		return st.Return(sl[0])
	}
	r, err := st.NumSub(kernel.NewFixint(0), sl[0])
	if err != nil {
		return err
	}
	return st.Return(r)
}

func exactToInexactFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "exact->inexact")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "exact->inexact"); err != nil {
		return err
	}
	f, ok := kernel.AsFloat64(sl[0])
	if !ok {
		return kernel.NewError(kernel.ErrType, "exact->inexact", "not a number", []kernel.Value{sl[0]})
	}
	return st.Return(st.NewDouble(f))
}

func inexactToExactFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "inexact->exact")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "inexact->exact"); err != nil {
		return err
	}
	if kernel.IsExact(sl[0]) {
		return st.Return(sl[0])
	}
	f, ok := kernel.AsFloat64(sl[0])
	if !ok {
		return kernel.NewError(kernel.ErrType, "inexact->exact", "not a number", []kernel.Value{sl[0]})
	}
	return st.Return(st.NewBigint(floatToInt(f)))
}

// floatToInt truncates f toward zero into an arbitrary-precision integer,
// going through Frexp's mantissa/exponent split once f no longer fits in an
// int64 so magnitude is never lost to the float64-to-int64 conversion's
// range limit.
func floatToInt(f float64) knum.Int {
	if f == 0 {
		return knum.FromInt64(0)
	}
	neg := f < 0
	if neg {
		f = -f
	}
	f = math.Trunc(f)
	if f < 9.0e18 {
		n := int64(f)
		if neg {
			n = -n
		}
		return knum.FromInt64(n)
	}
	mant, exp := math.Frexp(f)
	mantInt := int64(mant * (1 << 53))
	z := knum.FromInt64(mantInt)
	shift := exp - 53
	if shift > 0 {
		z = z.Lsh(uint(shift))
	} else if shift < 0 {
		z = z.Rsh(uint(-shift))
	}
	if neg {
		z = z.Negate()
	}
	return z
}
