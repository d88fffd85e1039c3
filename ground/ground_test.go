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
	"strings"
	"testing"

	"github.com/MaxSilvesterQWE/klisp/kernel"
	"github.com/MaxSilvesterQWE/klisp/syntax"
)

// evalAll reads every datum in src and evaluates each in turn in a fresh
// ground environment, returning the value of the last one.
func evalAll(t *testing.T, src string) (kernel.Value, *kernel.State, kernel.Value) {
	t.Helper()
	st := kernel.NewState()
	env := Init(st)
	rd := syntax.NewReader(st, strings.NewReader(src), "test")
	var last kernel.Value
	for {
		datum, err := rd.Read()
		if err != nil {
			break
		}
		v, err := st.Eval(datum, env)
		if err != nil {
			t.Fatalf("eval %q: %v", src, err)
		}
		last = v
	}
	return last, st, env
}

func TestSequence(t *testing.T) {
	v, _, _ := evalAll(t, `($sequence 1 2 3)`)
	if got := syntax.Write(v); got != "3" {
		t.Fatalf("($sequence 1 2 3) = %s, want 3", got)
	}
}

func TestIf(t *testing.T) {
	v, _, _ := evalAll(t, `($if #t 1 2)`)
	if got := syntax.Write(v); got != "1" {
		t.Fatalf("($if #t 1 2) = %s, want 1", got)
	}

	st := kernel.NewState()
	env := Init(st)
	rd := syntax.NewReader(st, strings.NewReader(`($if 0 1 2)`), "test")
	datum, err := rd.Read()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Eval(datum, env); err == nil {
		t.Fatal("($if 0 1 2) should error: test is not a boolean")
	}
}

func TestDefinePtreeDestructure(t *testing.T) {
	v, _, _ := evalAll(t, `($define! (a b . c) (list 1 2 3 4)) (list a b c)`)
	if got := syntax.Write(v); got != "(1 2 (3 4))" {
		t.Fatalf("destructured list = %s, want (1 2 (3 4))", got)
	}
}

func TestWriterCycleRoundTrip(t *testing.T) {
	v, st, _ := evalAll(t, `($define! x (list 1)) (set-cdr! x x) x`)
	out := syntax.Write(v)
	if !strings.Contains(out, "#0=") || !strings.Contains(out, "#0#") {
		t.Fatalf("write(x) = %q, want a #0=/#0# label pair", out)
	}
	rd := syntax.NewReader(st, strings.NewReader(out), "reread")
	reread, err := rd.Read()
	if err != nil {
		t.Fatalf("re-reading %q: %v", out, err)
	}
	p, ok := kernel.AsPair(reread)
	if !ok {
		t.Fatalf("re-read value is not a pair: %s", syntax.Write(reread))
	}
	if !kernel.Eq(p.Cdr, reread) {
		t.Fatalf("re-read value's cdr is not itself")
	}
}

func TestForEachPlainList(t *testing.T) {
	v, _, _ := evalAll(t, `(for-each (lambda (x) x) (list 1 2 3))`)
	if !v.IsInert() {
		t.Fatalf("for-each over a plain list = %s, want #inert", syntax.Write(v))
	}
}

// TestForEachCyclicList drives for-each over a cyclic list of length-to-cycle
// k=1 and cycle length c=2 (three distinct operand nodes: 1, 2, 3, with the
// list looping back from 3 to 2) and checks the applicative ran exactly
// once per distinct node, per spec.md §8 scenario (5).
func TestForEachCyclicList(t *testing.T) {
	v, _, _ := evalAll(t, `($define! n (list 0))
($define! x (list 1 2 3))
(set-cdr! (cdr (cdr x)) (cdr x))
(for-each ($lambda (v) (set-car! n (+ (car n) 1))) x)
(car n)`)
	if !v.IsFixint() || v.Fixint() != 3 {
		t.Fatalf("for-each over a 3-node cyclic list ran %s times, want 3", syntax.Write(v))
	}
}

func TestBigintAddition(t *testing.T) {
	v, _, _ := evalAll(t, `(+ 100000000000000000000 1)`)
	if got := syntax.Write(v); got != "100000000000000000001" {
		t.Fatalf("bigint add = %s, want 100000000000000000001", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	st := kernel.NewState()
	env := Init(st)
	rd := syntax.NewReader(st, strings.NewReader(`(/ 1 0)`), "test")
	datum, err := rd.Read()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Eval(datum, env); err == nil {
		t.Fatal("(/ 1 0) should error: division by zero")
	}
}

func TestPtreeMatchAllOrNothing(t *testing.T) {
	st := kernel.NewState()
	env := Init(st)
	rd := syntax.NewReader(st, strings.NewReader(`($define! y 99)`), "setup")
	datum, _ := rd.Read()
	if _, err := st.Eval(datum, env); err != nil {
		t.Fatal(err)
	}
	envObj, _ := kernel.AsEnvironment(env)
	before, err := st.Lookup(envObj, sym(st, "y"))
	if err != nil {
		t.Fatal(err)
	}

	rd = syntax.NewReader(st, strings.NewReader(`($define! (y z . z) (list 1 2 3))`), "bad")
	datum, _ = rd.Read()
	if _, err := st.Eval(datum, env); err == nil {
		t.Fatal("duplicate symbol in ptree should fail to match")
	}
	after, err := st.Lookup(envObj, sym(st, "y"))
	if err != nil {
		t.Fatal(err)
	}
	if !kernel.Eq(before, after) {
		t.Fatalf("failed match mutated y: before %s, after %s", syntax.Write(before), syntax.Write(after))
	}
}
