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

// contJump is the panic payload used to unwind the Go stack when a
// continuation invocation escapes out of one or more nested evalAt frames
// (see eval.go). Frames whose Depth is at or below the target's absorb the
// jump and resume as if they had returned target.value normally; all others
// re-panic so the unwind continues outward.
type contJump struct {
	target *Continuation
	value  Value
}

// CurrentContinuation captures the current continuation as a first-class
// Value, stamped with the evaluator's current nesting depth so that later
// invoking it can tell whether it is an ordinary forward return or an
// escape to an enclosing dynamic extent.
func (st *State) CurrentContinuation() Value {
	return boxValue(KContinuation, st.cc)
}

// NewContinuation wraps an arbitrary Go continuation function as a
// first-class Continuation value, chained in front of parent. Used by
// extend-continuation and guard-dynamic-extent, which need to splice their
// own handling in before control reaches an existing continuation.
func (st *State) NewContinuation(parent *Continuation, fn ContinuationFn) Value {
	c := &Continuation{Parent: parent, Fn: fn, Depth: st.evalDepth}
	c.kind = KContinuation
	st.Heap.track(c)
	return boxValue(KContinuation, c)
}

// AsContinuation returns the underlying *Continuation and true, or nil,
// false.
func AsContinuation(v Value) (*Continuation, bool) {
	if v.kind != KContinuation {
		return nil, false
	}
	return v.obj.(*Continuation), true
}

// ApplyContinuation invokes target with value: Kernel's abnormal pass. When
// target is still within the currently active dynamic extent (it was made
// current at this nesting depth or a deeper one still on the Go stack), the
// trampoline is simply redirected there, costing nothing beyond the next
// step. Otherwise this escapes one or more nested evalAt calls via panic,
// unwound by the matching recover in eval.go.
func (st *State) ApplyContinuation(target *Continuation, value Value) error {
	if target.Depth >= st.evalDepth {
		st.cc = target
		st.nextFunc = func(st *State) error {
			return target.Fn(st, target.XParams, value)
		}
		return nil
	}
	panic(contJump{target: target, value: value})
}

// NewOperative wraps fn as a primitive operative combiner.
func (st *State) NewOperative(fn OperativeFn, xparams ...Value) Value {
	o := &Operative{Fn: fn, XParams: append([]Value(nil), xparams...)}
	o.kind = KOperative
	st.Heap.track(o)
	return boxValue(KOperative, o)
}

// NewApplicative wraps a combiner value (operative or applicative) so that
// the evaluator evaluates its operand list before combining.
func (st *State) NewApplicative(underlying Value) Value {
	a := &Applicative{Underlying: underlying}
	a.kind = KApplicative
	st.Heap.track(a)
	return boxValue(KApplicative, a)
}

// Unwrap returns the combiner one level under an applicative, or v itself
// if v is not an applicative.
func Unwrap(v Value) Value {
	if v.kind == KApplicative {
		return v.obj.(*Applicative).Underlying
	}
	return v
}
