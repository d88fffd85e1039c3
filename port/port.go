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

// Package port implements Kernel's textual/binary port objects: file-backed
// and string/buffer-backed readers and writers behind one small interface,
// wrapping whatever the caller hands in up to a rune-at-a-time API the same
// way the reference interpreter's vm package wraps a plain io.Writer/Reader
// into a rune-capable one.
package port

import (
	"bufio"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Kind records the two independent axes a port can vary along.
type Kind uint8

const (
	Input Kind = 1 << iota
	Output
	Binary
)

// Port is the minimal surface the kernel and ground packages need: read or
// write a character/byte, know whether it is still open, and close it.
type Port struct {
	Name   string
	Kind   Kind
	closed bool

	r *bufio.Reader
	w *bufio.Writer
	c io.Closer
}

// Closed reports whether the port has already been closed.
func (p *Port) Closed() bool { return p.closed }

// IsInput reports whether the port was opened for reading.
func (p *Port) IsInput() bool { return p.Kind&Input != 0 }

// IsOutput reports whether the port was opened for writing.
func (p *Port) IsOutput() bool { return p.Kind&Output != 0 }

// IsBinary reports whether the port transfers bytes rather than runes.
func (p *Port) IsBinary() bool { return p.Kind&Binary != 0 }

// ReadRune reads one rune from an input port.
func (p *Port) ReadRune() (rune, int, error) {
	if p.closed {
		return 0, 0, errors.Errorf("port %s: read on closed port", p.Name)
	}
	if p.r == nil {
		return 0, 0, errors.Errorf("port %s: not an input port", p.Name)
	}
	r, size, err := p.r.ReadRune()
	if err != nil && err != io.EOF {
		return 0, 0, errors.Wrapf(err, "port %s: read error", p.Name)
	}
	return r, size, err
}

// PeekRune reads one rune without consuming it.
func (p *Port) PeekRune() (rune, int, error) {
	if p.closed || p.r == nil {
		return 0, 0, errors.Errorf("port %s: not an open input port", p.Name)
	}
	r, size, err := p.r.ReadRune()
	if err == nil {
		uerr := p.r.UnreadRune()
		if uerr != nil {
			return 0, 0, errors.Wrapf(uerr, "port %s: unread failed", p.Name)
		}
	}
	return r, size, err
}

// ReadByte reads one byte from a binary input port.
func (p *Port) ReadByte() (byte, error) {
	if p.closed || p.r == nil {
		return 0, errors.Errorf("port %s: not an open input port", p.Name)
	}
	b, err := p.r.ReadByte()
	if err != nil && err != io.EOF {
		return 0, errors.Wrapf(err, "port %s: read error", p.Name)
	}
	return b, err
}

// WriteRune writes one rune to an output port.
func (p *Port) WriteRune(r rune) error {
	if p.closed || p.w == nil {
		return errors.Errorf("port %s: not an open output port", p.Name)
	}
	buf := [utf8.UTFMax]byte{}
	n := utf8.EncodeRune(buf[:], r)
	if _, err := p.w.Write(buf[:n]); err != nil {
		return errors.Wrapf(err, "port %s: write error", p.Name)
	}
	return nil
}

// WriteString writes s verbatim to an output port.
func (p *Port) WriteString(s string) error {
	if p.closed || p.w == nil {
		return errors.Errorf("port %s: not an open output port", p.Name)
	}
	if _, err := p.w.WriteString(s); err != nil {
		return errors.Wrapf(err, "port %s: write error", p.Name)
	}
	return nil
}

// WriteByte writes one byte to a binary output port.
func (p *Port) WriteByte(b byte) error {
	if p.closed || p.w == nil {
		return errors.Errorf("port %s: not an open output port", p.Name)
	}
	if err := p.w.WriteByte(b); err != nil {
		return errors.Wrapf(err, "port %s: write error", p.Name)
	}
	return nil
}

// Flush pushes any buffered output through to the underlying writer.
func (p *Port) Flush() error {
	if p.w == nil {
		return nil
	}
	if err := p.w.Flush(); err != nil {
		return errors.Wrapf(err, "port %s: flush error", p.Name)
	}
	return nil
}

// Close flushes (for output ports) and closes the underlying resource, if
// any; string-backed ports have nothing to close and simply mark closed.
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.Flush(); err != nil {
		return err
	}
	if p.c != nil {
		if err := p.c.Close(); err != nil {
			return errors.Wrapf(err, "port %s: close error", p.Name)
		}
	}
	return nil
}

// OpenInputFile opens name for reading as a textual input port.
func OpenInputFile(name string) (*Port, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open input file %s", name)
	}
	return &Port{Name: name, Kind: Input, r: bufio.NewReader(f), c: f}, nil
}

// OpenOutputFile creates or truncates name as a textual output port.
func OpenOutputFile(name string) (*Port, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrapf(err, "create output file %s", name)
	}
	return &Port{Name: name, Kind: Output, w: bufio.NewWriter(f), c: f}, nil
}

// WrapReader turns an arbitrary io.Reader (e.g. os.Stdin, a string reader)
// into a textual input port named name.
func WrapReader(name string, r io.Reader) *Port {
	return &Port{Name: name, Kind: Input, r: bufio.NewReader(r)}
}

// WrapWriter turns an arbitrary io.Writer into a textual output port named
// name.
func WrapWriter(name string, w io.Writer) *Port {
	return &Port{Name: name, Kind: Output, w: bufio.NewWriter(w)}
}
