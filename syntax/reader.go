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

package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"

	"github.com/MaxSilvesterQWE/klisp/kernel"
	"github.com/MaxSilvesterQWE/klisp/kernel/knum"
)

// pendingUse records one place a forward/cyclic reference to a still-open
// label was stored, so it can be back-patched once the label's real value
// is known.
type pendingUse struct {
	p     *kernel.Pair
	isCar bool
}

// Reader tokenizes and parses Kernel source text into kernel.Value datums,
// one Read call per top-level datum, resolving #n=/#n# datum labels as it
// goes.
type Reader struct {
	st     *kernel.State
	s      scanner.Scanner
	labels map[int]kernel.Value

	// openLabel maps a placeholder pair (allocated when #n= is first seen)
	// back to its label number while that label is still being read, so
	// that any #n# encountered deeper in the datum can be recognized and
	// its use site recorded in pending for back-patching once #n='s datum
	// finishes (§4.6's reader forward-reference rule).
	openLabel map[*kernel.Pair]int
	pending   map[int][]pendingUse
}

// NewReader builds a reader that consumes source text from r; name is used
// only for position reporting (e.g. a filename or "<stdin>").
func NewReader(st *kernel.State, r io.Reader, name string) *Reader {
	rd := &Reader{
		st:        st,
		labels:    make(map[int]kernel.Value),
		openLabel: make(map[*kernel.Pair]int),
		pending:   make(map[int][]pendingUse),
	}
	rd.s.Init(r)
	rd.s.Filename = name
	rd.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings | scanner.ScanChars | scanner.ScanComments | scanner.SkipComments
	rd.s.IsIdentRune = isIdentRune
	return rd
}

// isIdentRune widens text/scanner's default identifier class to Kernel's
// symbol syntax: anything printable that isn't whitespace or a delimiter.
// A leading '#' is left to readHash.
func isIdentRune(ch rune, i int) bool {
	switch ch {
	case '(', ')', '"', ';', '\'', '`', ',', '|':
		return false
	}
	if ch == '#' && i == 0 {
		return false
	}
	if ch <= ' ' {
		return false
	}
	return true
}

// errf builds a malformed-syntax diagnostic as a *kernel.KError tagged
// ErrRead, carrying the scanner position as source info the way the
// teacher's asm.ErrAsm carries a scanner.Position per diagnostic.
func (rd *Reader) errf(format string, args ...interface{}) error {
	e := kernel.NewError(kernel.ErrRead, "", fmt.Sprintf(format, args...), nil).(*kernel.KError)
	pos := rd.s.Position
	e.SetSourceInfo(kernel.SourceInfo{Filename: pos.Filename, Line: pos.Line, Col: pos.Column})
	return e
}

// Read parses and returns the next top-level datum, or io.EOF if the input
// is exhausted.
func (rd *Reader) Read() (kernel.Value, error) {
	tok := rd.s.Scan()
	if tok == scanner.EOF {
		return kernel.Value{}, io.EOF
	}
	return rd.readDatum(tok)
}

func (rd *Reader) readDatum(tok rune) (kernel.Value, error) {
	switch tok {
	case '(':
		return rd.readList()
	case ')':
		return kernel.Value{}, rd.errf("unexpected ')'")
	case '\'':
		return rd.readWrapped("quote")
	case '`':
		return rd.readWrapped("quasiquote")
	case ',':
		if rd.s.Peek() == '@' {
			rd.s.Next()
			return rd.readWrapped("unquote-splicing")
		}
		return rd.readWrapped("unquote")
	case scanner.String:
		return rd.readString()
	case scanner.Char:
		return rd.readChar()
	case scanner.Int, scanner.Float:
		return rd.readNumberToken(tok)
	case '#':
		return rd.readHash()
	case scanner.Ident:
		return rd.readIdentOrNumber(rd.s.TokenText())
	default:
		return rd.readIdentOrNumber(string(tok))
	}
}

func (rd *Reader) readWrapped(sym string) (kernel.Value, error) {
	tok := rd.s.Scan()
	if tok == scanner.EOF {
		return kernel.Value{}, rd.errf("unexpected EOF after %s", sym)
	}
	inner, err := rd.readDatum(tok)
	if err != nil {
		return kernel.Value{}, err
	}
	return rd.st.Cons(rd.st.Intern(sym), rd.st.Cons(inner, kernel.Nil)), nil
}

// readList parses the contents of a "(" up to its matching ")", handling an
// optional ". tail" improper ending and #n= labels attached to interior
// cells via back-patching through rd.pending.
func (rd *Reader) readList() (kernel.Value, error) {
	var headPair *kernel.Pair
	var headVal kernel.Value
	var tailPair *kernel.Pair

	for {
		tok := rd.s.Scan()
		if tok == scanner.EOF {
			return kernel.Value{}, rd.errf("unexpected EOF in list")
		}
		if tok == ')' {
			if tailPair != nil {
				tailPair.SetCdr(kernel.Nil)
			}
			if headPair == nil {
				return kernel.Nil, nil
			}
			return headVal, nil
		}
		isDot := tok == '.' || (tok == scanner.Ident && rd.s.TokenText() == ".")
		if isDot && headPair != nil {
			tok2 := rd.s.Scan()
			tail, err := rd.readDatum(tok2)
			if err != nil {
				return kernel.Value{}, err
			}
			if rd.s.Scan() != ')' {
				return kernel.Value{}, rd.errf("malformed dotted list")
			}
			tailPair.SetCdr(tail)
			rd.noteIfPlaceholder(tailPair, false, tail)
			return headVal, nil
		}
		elem, err := rd.readDatum(tok)
		if err != nil {
			return kernel.Value{}, err
		}
		cell := rd.st.Cons(elem, kernel.Nil)
		p, _ := kernel.AsPair(cell)
		rd.noteIfPlaceholder(p, true, elem)
		if headPair == nil {
			headPair, headVal = p, cell
		} else {
			tailPair.SetCdr(cell)
		}
		tailPair = p
	}
}

func (rd *Reader) readString() (kernel.Value, error) {
	raw := rd.s.TokenText()
	unquoted, err := strconv.Unquote(raw)
	if err != nil {
		return kernel.Value{}, rd.errf("malformed string literal: %v", err)
	}
	return rd.st.NewString(unquoted), nil
}

func (rd *Reader) readChar() (kernel.Value, error) {
	raw := rd.s.TokenText()
	unquoted, err := strconv.Unquote(raw)
	if err != nil || len(unquoted) == 0 {
		return kernel.Value{}, rd.errf("malformed character literal")
	}
	return kernel.NewChar([]rune(unquoted)[0]), nil
}

func (rd *Reader) readNumberToken(tok rune) (kernel.Value, error) {
	text := rd.s.TokenText()
	return parseNumber(rd.st, text, 10, true)
}

func (rd *Reader) readIdentOrNumber(text string) (kernel.Value, error) {
	if text == "" {
		return kernel.Value{}, rd.errf("empty token")
	}
	if v, ok, err := tryParseNumber(rd.st, text, 10); ok {
		return v, err
	}
	return rd.st.Intern(text), nil
}

// readHash handles every "#..." construct: booleans, #inert/#ignore/#eof,
// #\ characters, exactness/radix-prefixed numbers, and datum labels #n= / #n#.
func (rd *Reader) readHash() (kernel.Value, error) {
	ch := rd.s.Next()
	switch ch {
	case 't':
		rd.consumeWord("rue")
		return kernel.True, nil
	case 'f':
		rd.consumeWord("alse")
		return kernel.False, nil
	case 'i':
		if rd.consumeWord("nert") {
			return kernel.Inert, nil
		}
		return rd.readPrefixedNumber('i')
	case 'e':
		if rd.consumeWord("of") {
			return kernel.EOFObj, nil
		}
		return rd.readPrefixedNumber('e')
	case 'g':
		rd.consumeWord("nore")
		return kernel.Ignore, nil
	case 'b', 'o', 'd', 'x':
		return rd.readPrefixedNumber(ch)
	case '\\':
		tok := rd.s.Scan()
		if tok != scanner.Char && tok != scanner.Ident {
			return kernel.Value{}, rd.errf("malformed character literal")
		}
		text := rd.s.TokenText()
		if len(text) == 0 {
			return kernel.Value{}, rd.errf("malformed character literal")
		}
		return rd.readCharName(text)
	default:
		if ch >= '0' && ch <= '9' {
			return rd.readLabel(ch)
		}
		return kernel.Value{}, rd.errf("unsupported # syntax: #%c", ch)
	}
}

func (rd *Reader) readCharName(text string) (kernel.Value, error) {
	switch text {
	case "space":
		return kernel.NewChar(' '), nil
	case "newline":
		return kernel.NewChar('\n'), nil
	case "tab":
		return kernel.NewChar('\t'), nil
	default:
		return kernel.NewChar([]rune(text)[0]), nil
	}
}

// readPrefixedNumber handles #e/#i exactness and #b/#o/#d/#x radix prefixes,
// which may be chained (e.g. #e#x1A).
func (rd *Reader) readPrefixedNumber(first rune) (kernel.Value, error) {
	exact := 0 // 0 unspecified, 1 exact, -1 inexact
	radix := 10
	ch := first
	for {
		switch ch {
		case 'e':
			exact = 1
		case 'i':
			exact = -1
		case 'b':
			radix = 2
		case 'o':
			radix = 8
		case 'd':
			radix = 10
		case 'x':
			radix = 16
		default:
			return kernel.Value{}, rd.errf("unsupported number prefix #%c", ch)
		}
		if rd.s.Peek() != '#' {
			break
		}
		rd.s.Next()
		ch = rd.s.Next()
	}
	rd.s.Scan()
	text := rd.s.TokenText()
	v, err := parseNumber(rd.st, text, radix, exact != -1)
	if err != nil {
		return kernel.Value{}, rd.errf("%v", err)
	}
	if exact == -1 {
		f, _ := kernel.AsFloat64(v)
		return rd.st.NewDouble(f), nil
	}
	return v, nil
}

// readLabel handles #n= (define label n as the next datum, possibly
// self-referential if that datum is a list containing #n#) and #n#
// (reference to a previously-defined label).
func (rd *Reader) readLabel(first rune) (kernel.Value, error) {
	var sb strings.Builder
	sb.WriteRune(first)
	for rd.s.Peek() >= '0' && rd.s.Peek() <= '9' {
		sb.WriteRune(rd.s.Next())
	}
	n, _ := strconv.Atoi(sb.String())
	marker := rd.s.Next()
	switch marker {
	case '=':
		// Reserve a placeholder pair so that a cyclic reference inside the
		// datum (#n# used before the datum is finished) can be back-patched
		// once we know the real value.
		placeholder := rd.st.Cons(kernel.Inert, kernel.Inert)
		pp, _ := kernel.AsPair(placeholder)
		rd.labels[n] = placeholder
		rd.openLabel[pp] = n
		tok := rd.s.Scan()
		val, err := rd.readDatum(tok)
		if err != nil {
			return kernel.Value{}, err
		}
		rd.labels[n] = val
		delete(rd.openLabel, pp)
		for _, use := range rd.pending[n] {
			if use.isCar {
				use.p.SetCar(val)
			} else {
				use.p.SetCdr(val)
			}
		}
		delete(rd.pending, n)
		return val, nil
	case '#':
		if v, ok := rd.labels[n]; ok {
			return v, nil
		}
		return kernel.Value{}, rd.errf("label #%d# referenced before defined", n)
	default:
		return kernel.Value{}, rd.errf("malformed datum label")
	}
}

// noteIfPlaceholder records that p's car (or cdr) now holds a reference to
// v, if v is currently an open label's placeholder pair — i.e. a forward or
// cyclic #n# reference that must be back-patched once #n='s real datum is
// known.
func (rd *Reader) noteIfPlaceholder(p *kernel.Pair, isCar bool, v kernel.Value) {
	vp, ok := kernel.AsPair(v)
	if !ok {
		return
	}
	if n, open := rd.openLabel[vp]; open {
		rd.pending[n] = append(rd.pending[n], pendingUse{p: p, isCar: isCar})
	}
}

func (rd *Reader) consumeWord(rest string) bool {
	for _, want := range rest {
		if rd.s.Peek() != want {
			return false
		}
		rd.s.Next()
	}
	return true
}

func tryParseNumber(st *kernel.State, text string, radix int) (kernel.Value, bool, error) {
	if text == "" {
		return kernel.Value{}, false, nil
	}
	c := text[0]
	if !(c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')) {
		return kernel.Value{}, false, nil
	}
	if text == "+" || text == "-" || text == "..." || text == "." {
		return kernel.Value{}, false, nil
	}
	v, err := parseNumber(st, text, radix, true)
	if err != nil {
		return kernel.Value{}, false, nil
	}
	return v, true, nil
}

// parseNumber parses an integer, rational ("n/d") or decimal float literal
// in the given radix (radix only applies to the integer/rational forms;
// decimal-point/exponent literals are always base 10 per Kernel syntax).
func parseNumber(st *kernel.State, text string, radix int, exact bool) (kernel.Value, error) {
	if strings.ContainsAny(text, "./") && radix == 10 {
		if idx := strings.IndexByte(text, '/'); idx >= 0 {
			numTxt, denTxt := text[:idx], text[idx+1:]
			num, err1 := knum.ParseInt(numTxt, 10)
			den, err2 := knum.ParseInt(denTxt, 10)
			if err1 != nil || err2 != nil {
				return kernel.Value{}, errors.Errorf("malformed rational literal %q", text)
			}
			return st.NewBigrat(knum.NewRat(num, den)), nil
		}
		if strings.ContainsAny(text, ".eE") {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return kernel.Value{}, errors.Wrapf(err, "malformed number literal %q", text)
			}
			return st.NewDouble(f), nil
		}
	}
	z, err := knum.ParseInt(text, radix)
	if err != nil {
		return kernel.Value{}, errors.Wrapf(err, "malformed number literal %q", text)
	}
	return st.NewBigint(z), nil
}
