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

// Package syntax implements Kernel's external representation: a
// text/scanner-based reader that reconstructs shared and cyclic structure
// from #n=/#n# datum labels, and a two-pass writer that detects that same
// structure and emits it back out without recursing unboundedly on cycles.
package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MaxSilvesterQWE/klisp/kernel"
)

// Write renders v as Kernel's external representation, detecting shared and
// cyclic pair structure and emitting #n=/#n# labels for it. Strings are not
// labelled: a string reached more than once is written out in full each
// time.
func Write(v kernel.Value) string {
	w := &writer{labels: make(map[kernel.Object]int)}
	w.mark(v, make(map[kernel.Object]bool))
	w.emit(v)
	return w.sb.String()
}

// Display renders v the way `display`-style output would: strings and
// characters are written without quoting/escaping. Sharing/cycles are still
// handled identically to Write.
func Display(v kernel.Value) string {
	w := &writer{labels: make(map[kernel.Object]int), display: true}
	w.mark(v, make(map[kernel.Object]bool))
	w.emit(v)
	return w.sb.String()
}

type writer struct {
	sb      strings.Builder
	labels  map[kernel.Object]int // object -> assigned label, once shared/cyclic
	nextLbl int
	needed  map[kernel.Object]bool // objects seen more than once
	display bool
}

// mark is the first DFS pass: any pair visited a second time is flagged as
// needing a label. visited is never unwound, so a back-edge (cycle) is
// recognized the same way a DAG re-entry is. The pass recurses on both car
// and cdr.
func (w *writer) mark(v kernel.Value, visited map[kernel.Object]bool) {
	obj := v.Object()
	if obj == nil {
		return
	}
	switch v.Kind() {
	case kernel.KPair:
	default:
		return
	}
	if w.needed == nil {
		w.needed = make(map[kernel.Object]bool)
	}
	if visited[obj] {
		w.needed[obj] = true
		return
	}
	visited[obj] = true
	p, _ := kernel.AsPair(v)
	w.mark(p.Car, visited)
	w.mark(p.Cdr, visited)
}

// emit is the second pass: rather than recursing directly on Cdr (which would blow the Go stack on long or cyclic lists),
// each pending list keeps walking via a loop, only recursing into the Go
// stack for a Car, whose own structure is assumed to be of bounded depth in
// practice.
func (w *writer) emit(v kernel.Value) {
	if v.Kind() != kernel.KPair {
		w.emitAtom(v)
		return
	}
	obj := v.Object()
	if lbl, ok := w.labels[obj]; ok {
		fmt.Fprintf(&w.sb, "#%d#", lbl)
		return
	}
	if w.needed[obj] {
		lbl := w.nextLbl
		w.nextLbl++
		w.labels[obj] = lbl
		fmt.Fprintf(&w.sb, "#%d=", lbl)
	}
	w.sb.WriteByte('(')
	first := true
	cur := v
	for {
		p, _ := kernel.AsPair(cur)
		if !first {
			w.sb.WriteByte(' ')
		}
		first = false
		w.emit(p.Car)
		next := p.Cdr
		if next.IsNil() {
			break
		}
		if next.Kind() != kernel.KPair {
			w.sb.WriteString(" . ")
			w.emitAtom(next)
			break
		}
		nobj := next.Object()
		if lbl, ok := w.labels[nobj]; ok {
			w.sb.WriteString(" . ")
			fmt.Fprintf(&w.sb, "#%d#", lbl)
			break
		}
		if w.needed[nobj] {
			lbl := w.nextLbl
			w.nextLbl++
			w.labels[nobj] = lbl
			w.sb.WriteString(" . ")
			fmt.Fprintf(&w.sb, "#%d=(", lbl)
			cur = next
			first = true
			continue
		}
		cur = next
	}
	w.sb.WriteByte(')')
}

func (w *writer) emitAtom(v kernel.Value) {
	switch v.Kind() {
	case kernel.KNil:
		w.sb.WriteString("()")
	case kernel.KInert:
		w.sb.WriteString("#inert")
	case kernel.KIgnore:
		w.sb.WriteString("#ignore")
	case kernel.KEOF:
		w.sb.WriteString("#eof")
	case kernel.KBool:
		if v.Bool() {
			w.sb.WriteString("#t")
		} else {
			w.sb.WriteString("#f")
		}
	case kernel.KChar:
		if w.display {
			w.sb.WriteRune(v.Char())
		} else {
			w.sb.WriteString(writeChar(v.Char()))
		}
	case kernel.KString:
		s := kernel.GoString(v)
		if w.display {
			w.sb.WriteString(s)
		} else {
			w.sb.WriteString(writeString(s))
		}
	case kernel.KSymbol:
		w.sb.WriteString(kernel.SymbolName(v))
	case kernel.KFixint:
		w.sb.WriteString(strconv.FormatInt(v.Fixint(), 10))
	case kernel.KEnvironment:
		w.sb.WriteString("#[environment]")
	case kernel.KContinuation:
		w.sb.WriteString("#[continuation]")
	case kernel.KOperative:
		w.sb.WriteString("#[operative]")
	case kernel.KApplicative:
		w.sb.WriteString("#[applicative]")
	case kernel.KPort:
		w.sb.WriteString("#[port]")
	case kernel.KErr:
		w.sb.WriteString("#[error]")
	case kernel.KEncapsulation:
		w.sb.WriteString("#[encapsulation]")
	case kernel.KPromise:
		w.sb.WriteString("#[promise]")
	default:
		w.sb.WriteString(writeNumber(v))
	}
}

func writeChar(r rune) string {
	switch r {
	case ' ':
		return "#\\space"
	case '\n':
		return "#\\newline"
	case '\t':
		return "#\\tab"
	default:
		return "#\\" + string(r)
	}
}

func writeString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func writeNumber(v kernel.Value) string {
	switch v.Kind() {
	case kernel.KBigint:
		z, _ := kernel.AsBigint(v)
		return z.String()
	case kernel.KBigrat:
		r, _ := kernel.AsRat(v)
		return r.String()
	case kernel.KDouble:
		f, _ := kernel.AsFloat64(v)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case kernel.KEInf:
		f, _ := kernel.AsFloat64(v)
		if f >= 0 {
			return "#e+infinity"
		}
		return "#e-infinity"
	case kernel.KIInf:
		f, _ := kernel.AsFloat64(v)
		if f >= 0 {
			return "+inf.0"
		}
		return "-inf.0"
	default:
		return "#[unknown]"
	}
}
