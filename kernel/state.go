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

import "sync"

// State is a single interpreter instance: it owns the heap, the symbol
// table, the current continuation chain and the evaluator's "next" four
// registers that the trampoline in eval.go dispatches on.
type State struct {
	Heap *Heap

	symtabMu sync.Mutex
	symtab   map[string]*Symbol

	cc *Continuation // current continuation

	// next* are the scheduler's dispatch registers: runLoop takes nextFunc,
	// clears it, and calls it; the step reads NextValue/NextEnv/NextXParams
	// as it needs them. Any combiner wishing to "return" to its
	// continuation or tail-call another stores a new tuple and returns.
	nextFunc    func(st *State) error
	NextValue   Value
	NextEnv     Value
	NextXParams []Value

	GroundEnv Value // set by ground.Init

	// evalDepth counts nested non-tail sub-evaluations (see evalAt in
	// eval.go). It tags every Continuation at creation time so
	// ApplyContinuation can tell an ordinary return from an escape that
	// must unwind several Go frames via panic/recover.
	evalDepth int
}

// Option configures a new State.
type Option func(*State)

// HeapOptions forwards GC tuning options to the underlying Heap.
func HeapOptions(opts ...HeapOption) Option {
	return func(st *State) {
		for _, o := range opts {
			o(st.Heap)
		}
	}
}

// NewState creates a fresh interpreter instance with an empty symbol table
// and no current continuation.
func NewState(opts ...Option) *State {
	st := &State{
		Heap:   NewHeap(),
		symtab: make(map[string]*Symbol),
	}
	for _, o := range opts {
		o(st)
	}
	return st
}

// CC returns the current continuation, or nil if none is installed (i.e.
// we are at the top of the trampoline).
func (st *State) CC() *Continuation { return st.cc }

// SetCC installs c as the current continuation.
func (st *State) SetCC(c *Continuation) { st.cc = c }

// GC runs a full garbage collection cycle, rooting everything the Heap's
// generic root stacks don't know about: the symbol table, the ground
// environment, the current continuation chain and the evaluator's next-step
// registers.
func (st *State) GC() {
	st.Heap.markRoots()
	st.symtabMu.Lock()
	for _, sym := range st.symtab {
		st.Heap.Grey(boxValue(KSymbol, sym))
	}
	st.symtabMu.Unlock()
	st.Heap.Grey(st.GroundEnv)
	st.Heap.Grey(st.NextValue)
	st.Heap.Grey(st.NextEnv)
	for _, v := range st.NextXParams {
		st.Heap.Grey(v)
	}
	for c := st.cc; c != nil; c = c.Parent {
		st.Heap.Grey(boxValue(KContinuation, c))
	}
	for !st.Heap.Step(1 << 30) {
	}
}
