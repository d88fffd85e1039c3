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
	"fmt"
	"strings"
)

// ErrKind classifies a thrown Kernel error (§7); it is not a Go type, just a
// tag carried on the KError heap object.
type ErrKind uint8

const (
	ErrRange ErrKind = iota
	ErrType
	ErrArity
	ErrUnbound
	ErrImmutable
	ErrDivByZero
	ErrMemory
	ErrIO
	ErrRead
	ErrBadContinuation
	ErrUser
)

var errKindNames = [...]string{
	ErrRange: "range", ErrType: "type", ErrArity: "arity",
	ErrUnbound: "unbound", ErrImmutable: "immutable",
	ErrDivByZero: "division-by-zero", ErrMemory: "memory", ErrIO: "io",
	ErrRead: "read", ErrBadContinuation: "bad-continuation", ErrUser: "user",
}

func (k ErrKind) String() string {
	if int(k) < len(errKindNames) {
		return errKindNames[k]
	}
	return "unknown"
}

// Error renders the KError as a single line: "kind: who: message", followed
// by the irritants' kinds in parentheses and " at file:line:col" when source
// info is present.
func (e *KError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.KindTag.String())
	if e.Who != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Who)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if len(e.Irrit) > 0 {
		sb.WriteString(" (")
		for i, v := range e.Irrit {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%v", v.kind)
		}
		sb.WriteString(")")
	}
	if e.HasSourceInfo() {
		si := e.SourceInfo()
		fmt.Fprintf(&sb, " at %s:%d:%d", si.Filename, si.Line, si.Col)
	}
	return sb.String()
}

// NewError constructs a *KError and returns it as a Go error. It is not
// tracked by the heap; State.NewErrorValue allocates one that is and wraps
// it as a Value.
func NewError(kind ErrKind, who, msg string, irritants []Value) error {
	return &KError{KindTag: kind, Who: who, Message: msg, Irrit: irritants}
}

// NewErrorValue allocates a KError as a heap Object and wraps it as a Value,
// capturing the current continuation as the point of the throw.
func (st *State) NewErrorValue(kind ErrKind, who, msg string, irritants []Value) Value {
	e := &KError{KindTag: kind, Who: who, Message: msg, Irrit: irritants, Cont: st.cc}
	e.kind = KErr
	st.Heap.track(e)
	return boxValue(KErr, e)
}

// AsKError extracts the *KError from a Go error value produced by this
// package, if any.
func AsKError(err error) (*KError, bool) {
	ke, ok := err.(*KError)
	return ke, ok
}
