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
	"os"

	"github.com/MaxSilvesterQWE/klisp/kernel"
	"github.com/MaxSilvesterQWE/klisp/port"
	"github.com/MaxSilvesterQWE/klisp/syntax"
)

// installIO installs the standard-input/standard-output ports under the
// names write/display/read fall back to when called without an explicit
// port operand, mirroring a Scheme-style current-input-port/
// current-output-port pair without the full parameter-object machinery.
func installIO(st *kernel.State, env *kernel.Environment) {
	stdin := st.NewPort(port.WrapReader("*stdin*", os.Stdin))
	stdout := st.NewPort(port.WrapWriter("*stdout*", os.Stdout))
	env.Define(sym(st, "*stdin-port*"), stdin)
	env.Define(sym(st, "*stdout-port*"), stdout)

	defApplicative(st, env, "current-input-port", constPort(stdin))
	defApplicative(st, env, "current-output-port", constPort(stdout))
	defApplicative(st, env, "write", writeFn(stdout, false))
	defApplicative(st, env, "display", writeFn(stdout, true))
	defApplicative(st, env, "newline", newlineFn(stdout))
	defApplicative(st, env, "read", readFn(stdin))
	defApplicative(st, env, "eof-object", eofObjectFn)
	defApplicative(st, env, "open-input-file", openInputFileFn)
	defApplicative(st, env, "open-output-file", openOutputFileFn)
	defApplicative(st, env, "close-port", closePortFn)
	defApplicative(st, env, "flush-port", flushPortFn)
}

func constPort(p kernel.Value) kernel.OperativeFn {
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, "current-port")
		if err != nil {
			return err
		}
		if err := exactly(sl, 0, "current-port"); err != nil {
			return err
		}
		return st.Return(p)
	}
}

func portOperand(sl []kernel.Value, idx int, def kernel.Value, who string) (*port.Port, error) {
	v := def
	if idx < len(sl) {
		v = sl[idx]
	}
	p, ok := kernel.AsPort(v)
	if !ok {
		return nil, kernel.NewError(kernel.ErrType, who, "not a port", []kernel.Value{v})
	}
	return p, nil
}

func writeFn(defaultPort kernel.Value, display bool) kernel.OperativeFn {
	who := "write"
	if display {
		who = "display"
	}
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, who)
		if err != nil {
			return err
		}
		if err := atLeast(sl, 1, who); err != nil {
			return err
		}
		if len(sl) > 2 {
			return kernel.NewError(kernel.ErrArity, who, "too many operands", sl)
		}
		p, err := portOperand(sl, 1, defaultPort, who)
		if err != nil {
			return err
		}
		var s string
		if display {
			s = syntax.Display(sl[0])
		} else {
			s = syntax.Write(sl[0])
		}
		if err := p.WriteString(s); err != nil {
			return kernel.NewError(kernel.ErrIO, who, err.Error(), nil)
		}
		return st.Return(kernel.Inert)
	}
}

func newlineFn(defaultPort kernel.Value) kernel.OperativeFn {
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, "newline")
		if err != nil {
			return err
		}
		if len(sl) > 1 {
			return kernel.NewError(kernel.ErrArity, "newline", "too many operands", sl)
		}
		p, err := portOperand(sl, 0, defaultPort, "newline")
		if err != nil {
			return err
		}
		if err := p.WriteRune('\n'); err != nil {
			return kernel.NewError(kernel.ErrIO, "newline", err.Error(), nil)
		}
		return st.Return(kernel.Inert)
	}
}

func readFn(defaultPort kernel.Value) kernel.OperativeFn {
	return func(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
		sl, err := args(operands, "read")
		if err != nil {
			return err
		}
		if len(sl) > 1 {
			return kernel.NewError(kernel.ErrArity, "read", "too many operands", sl)
		}
		v := defaultPort
		if len(sl) == 1 {
			v = sl[0]
		}
		p, ok := kernel.AsPort(v)
		if !ok {
			return kernel.NewError(kernel.ErrType, "read", "not a port", []kernel.Value{v})
		}
		rd := syntax.NewReader(st, portReader{p}, p.Name)
		datum, err := rd.Read()
		if err != nil {
			return err
		}
		return st.Return(datum)
	}
}

// portReader adapts *port.Port to io.Reader one rune at a time, since the
// reader only needs to pull runes and the port already buffers internally.
type portReader struct{ p *port.Port }

func (r portReader) Read(buf []byte) (int, error) {
	ch, _, err := r.p.ReadRune()
	if err != nil {
		return 0, err
	}
	n := copy(buf, string(ch))
	return n, nil
}

func eofObjectFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "eof-object")
	if err != nil {
		return err
	}
	if err := exactly(sl, 0, "eof-object"); err != nil {
		return err
	}
	return st.Return(kernel.EOFObj)
}

func openInputFileFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "open-input-file")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "open-input-file"); err != nil {
		return err
	}
	so, ok := kernel.AsString(sl[0])
	if !ok {
		return kernel.NewError(kernel.ErrType, "open-input-file", "not a string", []kernel.Value{sl[0]})
	}
	p, err := port.OpenInputFile(string(so.Runes))
	if err != nil {
		return kernel.NewError(kernel.ErrIO, "open-input-file", err.Error(), nil)
	}
	return st.Return(st.NewPort(p))
}

func openOutputFileFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "open-output-file")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "open-output-file"); err != nil {
		return err
	}
	so, ok := kernel.AsString(sl[0])
	if !ok {
		return kernel.NewError(kernel.ErrType, "open-output-file", "not a string", []kernel.Value{sl[0]})
	}
	p, err := port.OpenOutputFile(string(so.Runes))
	if err != nil {
		return kernel.NewError(kernel.ErrIO, "open-output-file", err.Error(), nil)
	}
	return st.Return(st.NewPort(p))
}

func closePortFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "close-port")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "close-port"); err != nil {
		return err
	}
	p, ok := kernel.AsPort(sl[0])
	if !ok {
		return kernel.NewError(kernel.ErrType, "close-port", "not a port", []kernel.Value{sl[0]})
	}
	if err := p.Close(); err != nil {
		return kernel.NewError(kernel.ErrIO, "close-port", err.Error(), nil)
	}
	return st.Return(kernel.Inert)
}

func flushPortFn(st *kernel.State, xparams []kernel.Value, operands, env kernel.Value) error {
	sl, err := args(operands, "flush-port")
	if err != nil {
		return err
	}
	if err := exactly(sl, 1, "flush-port"); err != nil {
		return err
	}
	p, ok := kernel.AsPort(sl[0])
	if !ok {
		return kernel.NewError(kernel.ErrType, "flush-port", "not a port", []kernel.Value{sl[0]})
	}
	if err := p.Flush(); err != nil {
		return kernel.NewError(kernel.ErrIO, "flush-port", err.Error(), nil)
	}
	return st.Return(kernel.Inert)
}
