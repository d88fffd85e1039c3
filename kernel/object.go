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

import "github.com/MaxSilvesterQWE/klisp/kernel/knum"

// Color is a tri-color mark-sweep GC color.
type Color uint8

const (
	White0 Color = iota
	White1
	Gray
	Black
)

// Object header flags, mirroring the original klisp flag bits.
const (
	flagHasName uint8 = 1 << iota
	flagHasSourceInfo
	flagImmutable
	flagHasExtRep
	flagBoolCheck
)

// SourceInfo records where a value was read from, for error messages.
type SourceInfo struct {
	Filename string
	Line     int
	Col      int
}

// header is embedded in every boxed heap Object. It carries the GC's
// tri-color bookkeeping plus a scratch mark slot. The reader, the writer
// and the cyclic-operand evaluator track shared structure in Go maps keyed
// by object identity and do not use the mark slot.
type header struct {
	kind  Kind
	color Color
	flags uint8
	mark  int32 // scratch slot; see Mark
	si    *SourceInfo
	name  string
	next  Object // unused: the heap keeps its all-objects list in Heap
}

func (h *header) Kind() Kind { return h.kind }
func (h *header) hdr() *header { return h }

func (h *header) SourceInfo() *SourceInfo { return h.si }
func (h *header) SetSourceInfo(si SourceInfo) {
	h.si = &si
	h.flags |= flagHasSourceInfo
}
func (h *header) HasSourceInfo() bool { return h.flags&flagHasSourceInfo != 0 }

func (h *header) Name() string { return h.name }
func (h *header) SetName(n string) {
	h.name = n
	h.flags |= flagHasName
}
func (h *header) HasName() bool { return h.flags&flagHasName != 0 }

func (h *header) Immutable() bool { return h.flags&flagImmutable != 0 }
func (h *header) SetImmutable()   { h.flags |= flagImmutable }

func (h *header) BoolCheck() bool { return h.flags&flagBoolCheck != 0 }
func (h *header) SetBoolCheck()   { h.flags |= flagBoolCheck }

// Mark returns the scratch mark slot. The GC keeps its state in color, and
// no traversal in this module reads or writes the slot.
func (h *header) Mark() int32     { return h.mark }
func (h *header) SetMark(m int32) { h.mark = m }

// Object is any boxed (heap-allocated) Kernel value.
type Object interface {
	hdr() *header
	Kind() Kind
}

// Pair is a mutable cons cell. Mutable pairs may form cycles; once
// SetImmutable is called (copy-es-immutable in the original) cdr must never
// point into a cycle through this pair again, by construction.
type Pair struct {
	header
	Car, Cdr Value
}

func (p *Pair) SetCar(v Value) { p.Car = v }
func (p *Pair) SetCdr(v Value) { p.Cdr = v }

// StringObj is a mutable character buffer.
type StringObj struct {
	header
	Runes []rune
}

// Symbol is an interned identifier. Two symbols with the same name are
// always the same Object (see symbol.go).
type Symbol struct {
	header
	Name string
}

// Bigint is an arbitrary precision integer.
type Bigint struct {
	header
	Val knum.Int
}

// Bigrat is an exact reduced rational.
type Bigrat struct {
	header
	Val knum.Rat
}

// DoubleObj boxes an inexact IEEE-754 double so it can carry a GC header
// like every other numeric tower member.
type DoubleObj struct {
	header
	Val float64
}

// InfObj is the ±∞ sentinel, exact (EInf) or inexact (IInf).
type InfObj struct {
	header
	Positive bool
}

// Environment is a multi-parent lexical frame.
type Environment struct {
	header
	Parents  []*Environment
	Bindings map[*Symbol]Value
}

// ContinuationFn is the Go closure a Continuation resumes with.
type ContinuationFn func(st *State, xparams []Value, value Value) error

// Continuation is an immutable, parent-chained activation record.
//
// Depth is the evaluator's nesting level (how many non-tail sub-evaluations
// are outstanding on the Go stack) at the moment the continuation was made
// current. It lets ApplyContinuation tell an ordinary forward return (target
// created at or below the invoking frame) from an escape to an enclosing
// dynamic extent (target created above it), which must unwind via panic
// instead of a plain function return. Kernel continuations captured by
// call/cc can be invoked any number of times, but only to escape outward to
// an extent that is still active on the Go stack; resuming an extent whose
// evalAt frame has already returned is not supported (see DESIGN.md).
type Continuation struct {
	header
	Parent  *Continuation
	Fn      ContinuationFn
	XParams []Value
	Depth   int
}

// OperativeFn is the Go closure backing a primitive or derived operative.
type OperativeFn func(st *State, xparams []Value, operands, dynEnv Value) error

// Operative is a combiner that receives its operand tree unevaluated.
type Operative struct {
	header
	Fn      OperativeFn
	XParams []Value
}

// Applicative wraps a combiner (operative or another applicative) and
// causes the evaluator to evaluate its operand list before calling it.
type Applicative struct {
	header
	Underlying Value
}

// Bytevector is a mutable buffer of bytes.
type Bytevector struct {
	header
	Bytes []byte
}

// VectorObj is a mutable array of Values.
type VectorObj struct {
	header
	Slots []Value
}

// Table is a general hash map keyed by Value identity/equality. The symbol
// table is a separate map on State, not a Table.
type Table struct {
	header
	M map[Value]Value
}

// KError is a thrown error object: a message, irritants, and the
// continuation active at the point of the throw.
type KError struct {
	header
	KindTag ErrKind
	Message string
	Who     string
	Irrit   []Value
	Cont    *Continuation
}

// Encapsulation is an opaque wrapped value tied to a unique encapsulation
// type. The ground environment binds no combiner that creates one.
type Encapsulation struct {
	header
	TypeTag *EncapType
	Payload Value
}

// EncapType is the unique identity object an Encapsulation is tied to.
type EncapType struct {
	header
}

// Promise is a memoizing promise. The ground environment binds no
// combiner that creates or forces one.
type Promise struct {
	header
	Forced bool
	Value  Value
	Expr   Value
	Env    Value
}

// Port is the minimal interface for a boxed port Object: enough to box a
// port Value and let the GC trace it (ports hold no further Kernel values,
// so tracing is a no-op). kernel.PortObj (port.go) implements it.
type Port interface {
	Object
	Close() error
}
