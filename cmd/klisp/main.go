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

// Command klisp is a small REPL and script runner for the Kernel
// interpreter: it reads one datum at a time, evaluates it in the ground
// environment, writes the result, and recovers from errors without
// aborting the session — modeled on the reference retro command's
// read-run-report loop.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MaxSilvesterQWE/klisp/ground"
	"github.com/MaxSilvesterQWE/klisp/kernel"
	"github.com/MaxSilvesterQWE/klisp/syntax"
	"github.com/pkg/errors"
)

type fileList []string

func (f *fileList) String() string     { return "" }
func (f *fileList) Set(s string) error { *f = append(*f, s); return nil }

var (
	debug bool
	quiet bool
)

func main() {
	var loadFiles fileList

	evalExpr := flag.String("e", "", "evaluate `expr` and exit instead of starting the REPL")
	flag.Var(&loadFiles, "load", "load `filename` into the ground environment before the REPL (may be repeated)")
	heapThreshold := flag.Int("size", 1024, "allocations between automatic GC steps")
	gcWork := flag.Int("gcwork", 256, "objects scanned per incremental GC step")
	flag.BoolVar(&quiet, "q", false, "suppress the startup banner")
	flag.BoolVar(&debug, "debug", false, "print full error causes and source info on failures")
	flag.Parse()

	st := kernel.NewState(kernel.HeapOptions(
		kernel.Threshold(*heapThreshold),
		kernel.StepWork(*gcWork),
	))
	groundEnv := ground.Init(st)

	for _, name := range loadFiles {
		if err := loadFile(st, groundEnv, name); err != nil {
			fatal(err)
		}
	}

	if *evalExpr != "" {
		v, err := evalString(st, groundEnv, *evalExpr)
		if err != nil {
			fatal(err)
		}
		fmt.Println(syntax.Write(v))
		return
	}

	if !quiet {
		fmt.Fprintln(os.Stderr, "klisp - a Kernel Lisp REPL")
	}
	repl(st, groundEnv, os.Stdin, os.Stdout)
}

func loadFile(st *kernel.State, env kernel.Value, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrapf(err, "load %s", name)
	}
	defer f.Close()
	rd := syntax.NewReader(st, bufio.NewReader(f), name)
	for {
		datum, err := rd.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "load %s", name)
		}
		if _, err := st.Eval(datum, env); err != nil {
			return err
		}
	}
}

func evalString(st *kernel.State, env kernel.Value, src string) (kernel.Value, error) {
	rd := syntax.NewReader(st, strings.NewReader(src), "-e")
	datum, err := rd.Read()
	if err != nil {
		return kernel.Value{}, errors.Wrap(err, "parse")
	}
	return st.Eval(datum, env)
}

func repl(st *kernel.State, env kernel.Value, in io.Reader, out io.Writer) {
	rd := syntax.NewReader(st, bufio.NewReader(in), "-")
	w := bufio.NewWriter(out)
	defer w.Flush()
	for {
		datum, err := rd.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			reportError(err)
			continue
		}
		v, err := st.Eval(datum, env)
		if err != nil {
			reportError(err)
			continue
		}
		w.WriteString(syntax.Write(v))
		w.WriteByte('\n')
		w.Flush()
	}
}

func reportError(err error) {
	if debug {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
}

func fatal(err error) {
	reportError(err)
	os.Exit(1)
}
