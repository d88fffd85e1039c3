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

import "testing"

func TestAddSubRoundTrip(t *testing.T) {
	a := FromInt64(123456789012345)
	b := FromInt64(-987654321098765)
	sum := a.Add(b)
	if got := sum.Sub(b); got.Cmp(a) != 0 {
		t.Fatalf("(a+b)-b = %s, want %s", got.String(), a.String())
	}
}

func TestMulSchoolVsKaratsuba(t *testing.T) {
	// big*7 has a one-limb operand and so takes the schoolbook path; big*big
	// has both operands over karatsubaThreshold and takes Karatsuba. Both
	// must agree with the schoolbook result.
	big, err := ParseInt("1"+stringsRepeat("0", 400), 10)
	if err != nil {
		t.Fatal(err)
	}
	small := FromInt64(7)
	got := big.Mul(small)
	want, err := ParseInt("7"+stringsRepeat("0", 400), 10)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(want) != 0 {
		t.Fatalf("big*7 = %s, want %s", got.String(), want.String())
	}
	sq := big.Mul(big)
	if school := mulAbsSchool(big.Abs, big.Abs); cmpAbs(sq.Abs, school) != 0 {
		t.Fatalf("big*big: Karatsuba and schoolbook results differ")
	}
}

func TestQuoRem(t *testing.T) {
	a := FromInt64(100)
	b := FromInt64(7)
	q, r, err := a.QuoRem(b)
	if err != nil {
		t.Fatal(err)
	}
	if q.Cmp(FromInt64(14)) != 0 || r.Cmp(FromInt64(2)) != 0 {
		t.Fatalf("100/7 = %s r %s, want 14 r 2", q.String(), r.String())
	}
}

func TestRadixRoundTrip(t *testing.T) {
	z := FromInt64(-123456789)
	for radix := 2; radix <= 36; radix++ {
		s := z.Format(radix)
		got, err := ParseInt(s, radix)
		if err != nil {
			t.Fatalf("radix %d: %v", radix, err)
		}
		if got.Cmp(z) != 0 {
			t.Fatalf("radix %d: round-trip %s -> %s, want %s", radix, s, got.String(), z.String())
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 255, -255, 65536, -65536, 1 << 40, -(1 << 40)} {
		z := FromInt64(v)
		got := FromBytes(z.Bytes())
		if got.Cmp(z) != 0 {
			t.Fatalf("Bytes round-trip of %d: got %s", v, got.String())
		}
	}
}

func TestUnsignedBytesRoundTrip(t *testing.T) {
	z := FromInt64(1 << 50)
	got := FromUnsignedBytes(z.UnsignedBytes())
	if got.Cmp(z) != 0 {
		t.Fatalf("UnsignedBytes round-trip: got %s, want %s", got.String(), z.String())
	}
}

func TestLshRsh(t *testing.T) {
	z := FromInt64(1)
	shifted := z.Lsh(70)
	back := shifted.Rsh(70)
	if back.Cmp(z) != 0 {
		t.Fatalf("Lsh/Rsh round-trip: got %s, want %s", back.String(), z.String())
	}
}

func TestGCD(t *testing.T) {
	g := GCD(FromInt64(48), FromInt64(180))
	if g.Cmp(FromInt64(12)) != 0 {
		t.Fatalf("gcd(48, 180) = %s, want 12", g.String())
	}
}

func stringsRepeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
