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

package knum

// Rat is an exact rational in lowest terms with a strictly positive
// denominator: gcd(|Num|, Den) == 1, Den > 0.
type Rat struct {
	Num Int
	Den Int
}

// NewRat builds a reduced rational from num/den. Panics if den is zero;
// callers (the kernel numeric tower) must check for division by zero first
// and raise a Kernel error instead.
func NewRat(num, den Int) Rat {
	if den.IsZero() {
		panic("knum: zero denominator")
	}
	if den.Neg {
		num, den = num.Negate(), den.Negate()
	}
	g := GCD(num, den)
	if !g.IsZero() && g.Cmp(FromInt64(1)) != 0 {
		num, _, _ = num.QuoRem(g)
		den, _, _ = den.QuoRem(g)
	}
	return Rat{Num: num, Den: den}
}

// IsInt reports whether r reduces to an integer (denominator 1).
func (r Rat) IsInt() bool { return r.Den.Cmp(FromInt64(1)) == 0 }

// Add returns r+other.
func (r Rat) Add(other Rat) Rat {
	return NewRat(r.Num.Mul(other.Den).Add(other.Num.Mul(r.Den)), r.Den.Mul(other.Den))
}

// Sub returns r-other.
func (r Rat) Sub(other Rat) Rat {
	return NewRat(r.Num.Mul(other.Den).Sub(other.Num.Mul(r.Den)), r.Den.Mul(other.Den))
}

// Mul returns r*other.
func (r Rat) Mul(other Rat) Rat {
	return NewRat(r.Num.Mul(other.Num), r.Den.Mul(other.Den))
}

// Quo returns r/other. Panics on division by zero; callers must check first.
func (r Rat) Quo(other Rat) Rat {
	return NewRat(r.Num.Mul(other.Den), r.Den.Mul(other.Num))
}

// Negate returns -r.
func (r Rat) Negate() Rat { return Rat{Num: r.Num.Negate(), Den: r.Den} }

// Sign returns -1, 0 or 1.
func (r Rat) Sign() int { return r.Num.Sign() }

// Cmp returns -1, 0 or 1 as r is numerically less than, equal to, or
// greater than other.
func (r Rat) Cmp(other Rat) int {
	return r.Num.Mul(other.Den).Cmp(other.Num.Mul(r.Den))
}

// Float64 converts r to the nearest IEEE-754 double.
func (r Rat) Float64() float64 {
	// Straightforward: render both as decimal-scaled floats via big division
	// is overkill for the precision Kernel programs exercise; since Float64
	// is only a display/coercion helper (exact arithmetic stays in Rat),
	// converting through the decimal string is sufficiently accurate and
	// keeps this package free of a second float-from-bigint code path.
	numF, numOK := r.Num.Int64()
	denF, denOK := r.Den.Int64()
	if numOK && denOK {
		return float64(numF) / float64(denF)
	}
	return ratioFloat(r.Num, r.Den)
}

// ratioFloat approximates num/den as a float64 by reducing each operand to
// its top 64 significant bits plus a power-of-two scale, then dividing in
// hardware float arithmetic. This is a display/coercion helper only — exact
// Kernel arithmetic always stays in Rat/Int.
func ratioFloat(num, den Int) float64 {
	return bigToFloat(num) / bigToFloat(den)
}

func bigToFloat(z Int) float64 {
	if z.IsZero() {
		return 0
	}
	bits := z.BitLen()
	shift := bits - 64
	var mant Int
	if shift > 0 {
		mant = z.AbsVal().Rsh(uint(shift))
	} else {
		mant = z.AbsVal().Lsh(uint(-shift))
		shift = 0
	}
	m, ok := mant.Int64()
	if !ok {
		m = 1 << 62
	}
	f := float64(m) * pow2(shift)
	if z.Neg {
		f = -f
	}
	return f
}

func pow2(n int) float64 {
	if n == 0 {
		return 1
	}
	if n > 0 {
		x := 1.0
		for i := 0; i < n; i++ {
			x *= 2
		}
		return x
	}
	x := 1.0
	for i := 0; i < -n; i++ {
		x /= 2
	}
	return x
}

// String renders r as "num/den", or just "num" when the denominator is 1.
func (r Rat) String() string {
	if r.IsInt() {
		return r.Num.String()
	}
	return r.Num.String() + "/" + r.Den.String()
}
