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

// Heap is the tracing arena backing every boxed Kernel value. It implements
// an incremental tri-color mark-sweep collector: objects are allocated into
// the cycle's current white, the mutator's root stacks hold values that may
// not yet be reachable from the continuation chain, and a GC step advances
// the marking frontier by a bounded work budget whenever allocation crosses
// a threshold.
type Heap struct {
	objects []Object
	white   Color // the "not yet proven reachable" color for this cycle
	gray    []Object

	rootedValues []Value
	rootedVars   []*Value

	allocatedSince int
	stepWork       int // GC work units performed per Step call
	threshold      int // allocations between automatic GC steps

	cycles int64
	freed  int64
}

// HeapOption configures a Heap's GC tuning knobs.
type HeapOption func(*Heap)

// StepWork sets how many objects a single incremental GC step scans.
func StepWork(n int) HeapOption { return func(h *Heap) { h.stepWork = n } }

// Threshold sets how many allocations trigger an automatic GC step.
func Threshold(n int) HeapOption { return func(h *Heap) { h.threshold = n } }

// NewHeap creates an empty Heap ready to allocate.
func NewHeap(opts ...HeapOption) *Heap {
	h := &Heap{white: White0, stepWork: 256, threshold: 1024}
	for _, o := range opts {
		o(h)
	}
	return h
}

// track registers a freshly constructed Object with the heap, in allocation
// color (current white), and runs an incremental GC step if the allocation
// budget has been exceeded.
func (h *Heap) track(o Object) {
	hd := o.hdr()
	hd.color = h.white
	h.objects = append(h.objects, o)
	h.allocatedSince++
	if h.allocatedSince >= h.threshold {
		h.allocatedSince = 0
		h.Step(h.stepWork)
	}
}

// PushRoot roots v for the duration of an allocation-heavy computation. The
// caller must PopRoot before returning control to its own caller (§5's
// stack-discipline rule).
func (h *Heap) PushRoot(v Value) { h.rootedValues = append(h.rootedValues, v) }

// PopRoot removes the most recently pushed root value.
func (h *Heap) PopRoot() {
	h.rootedValues = h.rootedValues[:len(h.rootedValues)-1]
}

// RootsLen reports the current depth of the value root stack, for snapshot
// truncation during error unwinding (§5's "long-jump discipline").
func (h *Heap) RootsLen() int { return len(h.rootedValues) }

// TruncateRoots truncates the value root stack back to the given depth.
func (h *Heap) TruncateRoots(n int) { h.rootedValues = h.rootedValues[:n] }

// PushRootVar roots the variable pointed to by p: the GC re-reads *p at
// every mark pass, so reassignments through p are tracked automatically.
func (h *Heap) PushRootVar(p *Value) { h.rootedVars = append(h.rootedVars, p) }

// PopRootVar removes the most recently pushed root variable.
func (h *Heap) PopRootVar() {
	h.rootedVars = h.rootedVars[:len(h.rootedVars)-1]
}

// Grey seeds the gray worklist with v directly, for callers (State.GC) that
// need to root values the generic Heap doesn't know about, such as the
// symbol table or the current continuation chain.
func (h *Heap) Grey(v Value) { h.greyValue(v) }

// WriteBarrier preserves the tricolor invariant across a pair mutation
// (SetCar/SetCdr): if o has already been scanned this cycle (Black), a
// pointer it holds may now lead to a White object that the collector would
// otherwise never revisit. Re-graying o puts it back on the worklist so its
// new children get scanned before the cycle completes.
func (h *Heap) WriteBarrier(o Object) {
	hd := o.hdr()
	if hd.color == Black {
		hd.color = Gray
		h.gray = append(h.gray, o)
	}
}

func (h *Heap) greyValue(v Value) {
	if !v.kind.boxed() || v.obj == nil {
		return
	}
	hd := v.obj.hdr()
	if hd.color == h.white {
		hd.color = Gray
		h.gray = append(h.gray, v.obj)
	}
}

// markRoots seeds the gray worklist from both root stacks and from extra.
// The evaluator pushes nothing onto the root stacks itself; values it holds
// only in Go-stack locals are greyed only when a caller passes them as
// extra.
func (h *Heap) markRoots(extra ...Value) {
	for _, v := range h.rootedValues {
		h.greyValue(v)
	}
	for _, p := range h.rootedVars {
		h.greyValue(*p)
	}
	for _, v := range extra {
		h.greyValue(v)
	}
}

// Step performs up to budget units of incremental marking work, sweeping
// and flipping the white color once the gray worklist drains. It returns
// true once a full cycle has completed (useful for tests asserting GC
// progress).
func (h *Heap) Step(budget int) bool {
	if len(h.gray) == 0 && budget > 0 {
		// nothing in flight: this call both seeds and may finish a cycle
	}
	for budget > 0 && len(h.gray) > 0 {
		o := h.gray[len(h.gray)-1]
		h.gray = h.gray[:len(h.gray)-1]
		hd := o.hdr()
		hd.color = Black
		for _, child := range children(o) {
			h.greyValue(child)
		}
		budget--
	}
	if len(h.gray) > 0 {
		return false
	}
	h.sweep()
	return true
}

// Collect seeds the gray worklist with all current roots and runs a full
// GC cycle to completion.
func (h *Heap) Collect(extra ...Value) {
	h.markRoots(extra...)
	for !h.Step(1 << 30) {
	}
}

func (h *Heap) sweep() {
	live := h.objects[:0]
	for _, o := range h.objects {
		hd := o.hdr()
		switch hd.color {
		case h.white:
			h.freed++
			continue
		case Black:
			live = append(live, o)
		default:
			// Gray should not survive to sweep; treat defensively as live.
			live = append(live, o)
		}
	}
	h.objects = live
	// flip white for next cycle; black objects (this cycle's survivors)
	// implicitly become next cycle's un-marked (will be grayed from roots
	// again, or swept if truly unreachable) by resetting their color to
	// the new white.
	newWhite := otherWhite(h.white)
	for _, o := range h.objects {
		o.hdr().color = newWhite
	}
	h.white = newWhite
	h.cycles++
}

func otherWhite(w Color) Color {
	if w == White0 {
		return White1
	}
	return White0
}

// Live returns the number of objects currently tracked by the heap
// (reachable as of the last completed sweep, plus anything allocated since).
func (h *Heap) Live() int { return len(h.objects) }

// Cycles returns the number of completed GC cycles.
func (h *Heap) Cycles() int64 { return h.cycles }

// children enumerates the Values directly reachable from o, dispatching by
// kind the same way the evaluator and writer do (§9's design note: "dispatch
// ... is by tag match").
func children(o Object) []Value {
	switch v := o.(type) {
	case *Pair:
		return []Value{v.Car, v.Cdr}
	case *Environment:
		out := make([]Value, 0, len(v.Bindings)+len(v.Parents))
		for _, val := range v.Bindings {
			out = append(out, val)
		}
		for _, p := range v.Parents {
			out = append(out, boxValue(KEnvironment, p))
		}
		return out
	case *Continuation:
		out := make([]Value, 0, len(v.XParams)+1)
		out = append(out, v.XParams...)
		if v.Parent != nil {
			out = append(out, boxValue(KContinuation, v.Parent))
		}
		return out
	case *Operative:
		return append([]Value(nil), v.XParams...)
	case *Applicative:
		return []Value{v.Underlying}
	case *VectorObj:
		return append([]Value(nil), v.Slots...)
	case *Table:
		out := make([]Value, 0, len(v.M)*2)
		for k, val := range v.M {
			out = append(out, k, val)
		}
		return out
	case *KError:
		out := append([]Value(nil), v.Irrit...)
		if v.Cont != nil {
			out = append(out, boxValue(KContinuation, v.Cont))
		}
		return out
	case *Encapsulation:
		return []Value{v.Payload}
	case *Promise:
		return []Value{v.Value, v.Expr, v.Env}
	default:
		// Symbol, StringObj, Bigint, Bigrat, DoubleObj, InfObj, Bytevector,
		// EncapType, Port implementations: leaf objects, no Value children.
		return nil
	}
}
