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

import (
	"math"

	"github.com/MaxSilvesterQWE/klisp/kernel/knum"
)

// fixintBits bounds the range kept as an immediate fixint rather than
// promoted to a boxed bigint: the teacher's own Cell type uses a signed
// 32-bit tagged machine word, but that width is only safe to keep if the
// host int is itself at least that wide, so it's capped against
// knum.MachineIntBits (probed via unsafe.Sizeof) rather than hardcoded.
var fixintBits = minInt(32, knum.MachineIntBits)
var fixintMax = int64(1)<<(uint(fixintBits)-1) - 1
var fixintMin = -int64(1) << (uint(fixintBits) - 1)

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// NewBigint boxes a knum.Int, normalizing it down to a fixint immediate
// when it fits (§4.7's normalization rule).
func (st *State) NewBigint(z knum.Int) Value {
	if n, ok := z.Int64(); ok && n >= fixintMin && n <= fixintMax {
		return NewFixint(n)
	}
	o := &Bigint{Val: z}
	o.kind = KBigint
	st.Heap.track(o)
	return boxValue(KBigint, o)
}

// NewBigrat boxes a knum.Rat, normalizing to an integer (fixint/bigint) when
// the denominator reduces to 1.
func (st *State) NewBigrat(r knum.Rat) Value {
	if r.IsInt() {
		return st.NewBigint(r.Num)
	}
	o := &Bigrat{Val: r}
	o.kind = KBigrat
	st.Heap.track(o)
	return boxValue(KBigrat, o)
}

// NewDouble boxes an inexact IEEE-754 double.
func (st *State) NewDouble(f float64) Value {
	o := &DoubleObj{Val: f}
	o.kind = KDouble
	st.Heap.track(o)
	return boxValue(KDouble, o)
}

var (
	eInfPos = &InfObj{Positive: true}
	eInfNeg = &InfObj{Positive: false}
	iInfPos = &InfObj{Positive: true}
	iInfNeg = &InfObj{Positive: false}
)

func init() {
	eInfPos.kind, eInfNeg.kind = KEInf, KEInf
	iInfPos.kind, iInfNeg.kind = KIInf, KIInf
}

// EInf returns the exact +∞/-∞ sentinel.
func EInf(positive bool) Value {
	if positive {
		return boxValue(KEInf, eInfPos)
	}
	return boxValue(KEInf, eInfNeg)
}

// IInf returns the inexact (double) +∞/-∞ sentinel.
func IInf(positive bool) Value {
	if positive {
		return boxValue(KIInf, iInfPos)
	}
	return boxValue(KIInf, iInfNeg)
}

// AsBigint extracts a knum.Int from a fixint or bigint value.
func AsBigint(v Value) (knum.Int, bool) {
	switch v.kind {
	case KFixint:
		return knum.FromInt64(v.Fixint()), true
	case KBigint:
		return v.obj.(*Bigint).Val, true
	}
	return knum.Zero, false
}

// AsRat extracts a knum.Rat from any exact numeric value (fixint, bigint or
// bigrat).
func AsRat(v Value) (knum.Rat, bool) {
	switch v.kind {
	case KFixint, KBigint:
		z, _ := AsBigint(v)
		return knum.NewRat(z, knum.FromInt64(1)), true
	case KBigrat:
		return v.obj.(*Bigrat).Val, true
	}
	return knum.Rat{}, false
}

// AsFloat64 coerces any numeric kind (including ±∞) to a float64.
func AsFloat64(v Value) (float64, bool) {
	switch v.kind {
	case KFixint:
		return float64(v.Fixint()), true
	case KBigint:
		return v.obj.(*Bigint).Val.Float64(), true
	case KBigrat:
		return v.obj.(*Bigrat).Val.Float64(), true
	case KDouble:
		return v.obj.(*DoubleObj).Val, true
	case KIInf, KEInf:
		if v.obj.(*InfObj).Positive {
			return math.Inf(1), true
		}
		return math.Inf(-1), true
	}
	return 0, false
}

// IsExact reports whether v is an exact numeric value (fixint, bigint,
// bigrat, or exact infinity).
func IsExact(v Value) bool {
	switch v.kind {
	case KFixint, KBigint, KBigrat, KEInf:
		return true
	}
	return false
}

// numRank orders numeric kinds for promotion: higher rank absorbs lower.
func numRank(v Value) int {
	switch v.kind {
	case KFixint:
		return 0
	case KBigint:
		return 1
	case KBigrat:
		return 2
	case KDouble, KIInf:
		return 3
	case KEInf:
		return 4
	}
	return -1
}

// NumAdd returns a+b, promoting to the least-general numeric representation
// that is closed over both operands.
func (st *State) NumAdd(a, b Value) (Value, error) {
	return st.numBinOp(a, b, "+",
		func(x, y knum.Int) knum.Int { return x.Add(y) },
		func(x, y knum.Rat) knum.Rat { return x.Add(y) },
		func(x, y float64) float64 { return x + y },
	)
}

// NumSub returns a-b.
func (st *State) NumSub(a, b Value) (Value, error) {
	return st.numBinOp(a, b, "-",
		func(x, y knum.Int) knum.Int { return x.Sub(y) },
		func(x, y knum.Rat) knum.Rat { return x.Sub(y) },
		func(x, y float64) float64 { return x - y },
	)
}

// NumMul returns a*b.
func (st *State) NumMul(a, b Value) (Value, error) {
	return st.numBinOp(a, b, "*",
		func(x, y knum.Int) knum.Int { return x.Mul(y) },
		func(x, y knum.Rat) knum.Rat { return x.Mul(y) },
		func(x, y float64) float64 { return x * y },
	)
}

// NumDiv returns a/b, signaling ErrDivByZero for exact division by zero.
func (st *State) NumDiv(a, b Value) (Value, error) {
	if IsExact(a) && IsExact(b) {
		rb, _ := AsRat(b)
		if rb.Sign() == 0 {
			return Value{}, NewError(ErrDivByZero, "/", "division by zero", nil)
		}
	}
	return st.numBinOp(a, b, "/",
		nil, // integer/integer division promotes to rational, handled below
		func(x, y knum.Rat) knum.Rat { return x.Quo(y) },
		func(x, y float64) float64 { return x / y },
	)
}

// numBinOp implements the promotion ladder described in §4.7: exact
// int op exact int stays exact int when intOp is given (nil forces rational
// promotion, as / always does); otherwise exact rational; otherwise double;
// infinities propagate through IEEE rules via the float64 path.
func (st *State) numBinOp(a, b Value, who string,
	intOp func(x, y knum.Int) knum.Int,
	ratOp func(x, y knum.Rat) knum.Rat,
	fltOp func(x, y float64) float64) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, NewError(ErrType, who, "not a number", []Value{a, b})
	}
	if a.kind == KEInf || b.kind == KEInf || a.kind == KIInf || b.kind == KIInf {
		fa, _ := AsFloat64(a)
		fb, _ := AsFloat64(b)
		r := fltOp(fa, fb)
		if IsExact(a) && IsExact(b) {
			return EInf(r >= 0), nil
		}
		return IInf(r >= 0), nil
	}
	rank := numRank(a)
	if rb := numRank(b); rb > rank {
		rank = rb
	}
	switch rank {
	case 0, 1:
		if intOp != nil {
			za, _ := AsBigint(a)
			zb, _ := AsBigint(b)
			return st.NewBigint(intOp(za, zb)), nil
		}
		fallthrough
	case 2:
		ra, _ := AsRat(a)
		rb, _ := AsRat(b)
		return st.NewBigrat(ratOp(ra, rb)), nil
	default:
		fa, _ := AsFloat64(a)
		fb, _ := AsFloat64(b)
		return st.NewDouble(fltOp(fa, fb)), nil
	}
}

// NumCmp compares two numeric values: -1, 0, 1.
func NumCmp(a, b Value) (int, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return 0, NewError(ErrType, "compare", "not a number", []Value{a, b})
	}
	if IsExact(a) && IsExact(b) {
		ra, _ := AsRat(a)
		rb, _ := AsRat(b)
		return ra.Cmp(rb), nil
	}
	fa, _ := AsFloat64(a)
	fb, _ := AsFloat64(b)
	switch {
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	default:
		return 0, nil
	}
}

// NumEqual reports numeric equality (Kernel's `=`).
func NumEqual(a, b Value) (bool, error) {
	c, err := NumCmp(a, b)
	return c == 0, err
}
