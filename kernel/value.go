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

// Package kernel implements the core object model and evaluator of a Kernel
// Lisp: tagged values, a tracing heap, environments, continuations and the
// trampolined evaluator. Ground-environment bindings, the reader/writer and
// port I/O are external collaborators layered on top in sibling packages.
package kernel

import "fmt"

// Kind tags the dynamic type of a Value.
type Kind uint8

// Value kinds. Immediate kinds carry their payload directly in a Value;
// boxed kinds carry a reference into the heap.
const (
	KNil Kind = iota
	KInert
	KIgnore
	KEOF
	KBool
	KChar
	KFixint

	KPair
	KString
	KSymbol
	KBigint
	KBigrat
	KDouble
	KEInf
	KIInf
	KEnvironment
	KContinuation
	KOperative
	KApplicative
	KPort
	KBytevector
	KVector
	KTable
	KErr
	KEncapsulation
	KPromise
)

var kindNames = [...]string{
	KNil: "nil", KInert: "inert", KIgnore: "ignore", KEOF: "eof",
	KBool: "boolean", KChar: "char", KFixint: "fixint",
	KPair: "pair", KString: "string", KSymbol: "symbol",
	KBigint: "bigint", KBigrat: "bigrat", KDouble: "double",
	KEInf: "exact-infinity", KIInf: "inexact-infinity",
	KEnvironment: "environment", KContinuation: "continuation",
	KOperative: "operative", KApplicative: "applicative",
	KPort: "port", KBytevector: "bytevector", KVector: "vector",
	KTable: "table", KErr: "error", KEncapsulation: "encapsulation",
	KPromise: "promise",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// boxed marks which kinds carry an Object reference rather than an immediate
// payload.
func (k Kind) boxed() bool { return k >= KPair }

// Value is a uniform dynamically-typed Kernel value: either an immediate
// (fixint, char, bool, nil, inert, ignore, eof) whose payload lives in imm,
// or a boxed reference to a heap Object.
type Value struct {
	kind Kind
	imm  int64
	obj  Object
}

// Nil, Inert, Ignore and EOF are the singleton immediate sentinels.
var (
	Nil    = Value{kind: KNil}
	Inert  = Value{kind: KInert}
	Ignore = Value{kind: KIgnore}
	EOFObj = Value{kind: KEOF}
	True   = Value{kind: KBool, imm: 1}
	False  = Value{kind: KBool, imm: 0}
)

// Kind returns the dynamic type tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the empty list.
func (v Value) IsNil() bool { return v.kind == KNil }

// IsInert reports whether v is #inert.
func (v Value) IsInert() bool { return v.kind == KInert }

// IsIgnore reports whether v is #ignore.
func (v Value) IsIgnore() bool { return v.kind == KIgnore }

// IsBool reports whether v is a boolean.
func (v Value) IsBool() bool { return v.kind == KBool }

// Bool returns the boolean payload of a KBool value. The caller must check
// IsBool first.
func (v Value) Bool() bool { return v.imm != 0 }

// Boolean wraps a Go bool as a Kernel boolean Value.
func Boolean(b bool) Value {
	if b {
		return True
	}
	return False
}

// IsChar reports whether v is a character.
func (v Value) IsChar() bool { return v.kind == KChar }

// Char returns the rune payload of a KChar value.
func (v Value) Char() rune { return rune(v.imm) }

// NewChar wraps a rune as a Kernel character.
func NewChar(r rune) Value { return Value{kind: KChar, imm: int64(r)} }

// IsFixint reports whether v is a small exact integer immediate.
func (v Value) IsFixint() bool { return v.kind == KFixint }

// Fixint returns the int64 payload of a KFixint value.
func (v Value) Fixint() int64 { return v.imm }

// NewFixint wraps a machine integer as a Kernel fixint.
func NewFixint(n int64) Value { return Value{kind: KFixint, imm: n} }

// Object returns the boxed payload of v, or nil for immediates.
func (v Value) Object() Object { return v.obj }

// boxValue wraps a heap Object with the given kind into a Value.
func boxValue(k Kind, o Object) Value { return Value{kind: k, obj: o} }

// Eq implements Kernel's eq? — identity for boxed values, payload equality
// for immediates.
func Eq(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind.boxed() {
		return a.obj == b.obj
	}
	return a.imm == b.imm
}

// IsPair reports whether v is a pair.
func (v Value) IsPair() bool { return v.kind == KPair }

// IsList reports whether v is nil or a pair (the two things that may appear
// in list position).
func (v Value) IsList() bool { return v.kind == KNil || v.kind == KPair }

// IsSymbol reports whether v is a symbol.
func (v Value) IsSymbol() bool { return v.kind == KSymbol }

// IsEnvironment reports whether v is an environment.
func (v Value) IsEnvironment() bool { return v.kind == KEnvironment }

// IsCombiner reports whether v is an operative, applicative, or
// continuation (continuations are themselves one-argument applicative
// combiners — see State.Combine's KContinuation case).
func (v Value) IsCombiner() bool {
	return v.kind == KOperative || v.kind == KApplicative || v.kind == KContinuation
}

// IsString reports whether v is a string.
func (v Value) IsString() bool { return v.kind == KString }

// IsError reports whether v is an error object.
func (v Value) IsError() bool { return v.kind == KErr }

// IsNumber reports whether v is any numeric kind.
func (v Value) IsNumber() bool {
	switch v.kind {
	case KFixint, KBigint, KBigrat, KDouble, KEInf, KIInf:
		return true
	}
	return false
}
