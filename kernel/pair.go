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

// Cons allocates a new mutable pair.
func (st *State) Cons(car, cdr Value) Value {
	p := &Pair{Car: car, Cdr: cdr}
	p.kind = KPair
	st.Heap.track(p)
	return boxValue(KPair, p)
}

// AsPair returns the underlying *Pair of v and true, or nil, false if v is
// not a pair.
func AsPair(v Value) (*Pair, bool) {
	if v.kind != KPair {
		return nil, false
	}
	return v.obj.(*Pair), true
}

// Car returns the car of a pair value. Panics if v is not a pair; callers
// in the evaluator check IsPair first, ground-environment combiners should
// use the type-checked accessors in ground instead.
func Car(v Value) Value { return v.obj.(*Pair).Car }

// Cdr returns the cdr of a pair value.
func Cdr(v Value) Value { return v.obj.(*Pair).Cdr }

// SetCar mutates the car of a pair, checking immutability and running the
// incremental collector's write barrier (see Heap.WriteBarrier) so a pair
// already scanned black this cycle gets re-grayed before the new car is
// installed.
func (st *State) SetCar(v Value, val Value) error {
	p := v.obj.(*Pair)
	if p.Immutable() {
		return NewError(ErrImmutable, "set-car!", "the pair is immutable", nil)
	}
	st.Heap.WriteBarrier(p)
	p.Car = val
	return nil
}

// SetCdr mutates the cdr of a pair, checking immutability and running the
// write barrier (see SetCar).
func (st *State) SetCdr(v Value, val Value) error {
	p := v.obj.(*Pair)
	if p.Immutable() {
		return NewError(ErrImmutable, "set-cdr!", "the pair is immutable", nil)
	}
	st.Heap.WriteBarrier(p)
	p.Cdr = val
	return nil
}

// ListToSlice converts a proper (non-cyclic) list to a Go slice. Returns
// ok=false if the value is not a proper list.
func ListToSlice(v Value) (out []Value, ok bool) {
	for v.IsPair() {
		p := v.obj.(*Pair)
		out = append(out, p.Car)
		v = p.Cdr
	}
	return out, v.IsNil()
}

// ListToSliceCyclic converts a list value to a Go slice of its distinct
// pair nodes' cars in order, same as ListToSlice, except a list that circles back
// on itself is accepted rather than looped over forever: the walk stops the
// instant it revisits an already-seen pair, so an encircling list of
// length-to-cycle k and cycle length c yields exactly k+c elements. Used by
// map/for-each, which the Kernel report allows to operate on such lists; an
// improperly terminated (non-nil, non-pair tail) list is still rejected.
func ListToSliceCyclic(v Value) (out []Value, ok bool) {
	seen := make(map[*Pair]bool)
	for v.IsPair() {
		p := v.obj.(*Pair)
		if seen[p] {
			return out, true
		}
		seen[p] = true
		out = append(out, p.Car)
		v = p.Cdr
	}
	return out, v.IsNil()
}

// SliceToList builds a proper list out of vs, consing from the right.
func (st *State) SliceToList(vs []Value) Value {
	out := Nil
	for i := len(vs) - 1; i >= 0; i-- {
		out = st.Cons(vs[i], out)
	}
	return out
}

// ListLength returns the length of a proper list, or -1 if v is improper or
// cyclic (detected via Floyd's tortoise-and-hare so it terminates on cycles
// without relying on pair marks).
func ListLength(v Value) int {
	slow, fast := v, v
	n := 0
	for {
		if fast.IsNil() {
			return n
		}
		if !fast.IsPair() {
			return -1
		}
		fast = Cdr(fast)
		n++
		if fast.IsNil() {
			return n
		}
		if !fast.IsPair() {
			return -1
		}
		fast = Cdr(fast)
		n++
		slow = Cdr(slow)
		if Eq(slow, fast) {
			return -1 // cyclic
		}
	}
}
