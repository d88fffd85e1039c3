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

// This file implements the trampolined evaluator. Every step function
// (evalStep, a continuation's Fn, an operative's Fn) does a bounded amount
// of work and then either schedules the next step by setting st.nextFunc
// plus the Next* registers (TailEval, Return, ReturnTo) or returns a value
// all the way out through Combine, never recursing back into the loop
// itself. The loop living in evalAt/runLoop is therefore the only place
// where a tail call's Go-stack frame is reused, giving combinations in tail
// position the O(1)-frame guarantee; non-tail sub-evaluations (an operand,
// an $if test) pay for a nested evalAt call instead.

// TailEval schedules evaluation of expr in env as the very next step of the
// trampoline. It performs no recursion itself.
func (st *State) TailEval(expr, env Value) error {
	st.NextValue = expr
	st.NextEnv = env
	st.nextFunc = evalStep
	return nil
}

// ReturnTo schedules passing value to continuation c as the next step.
func (st *State) ReturnTo(c *Continuation, value Value) error {
	st.nextFunc = func(st *State) error {
		return c.Fn(st, c.XParams, value)
	}
	return nil
}

// Return passes value to the current continuation.
func (st *State) Return(value Value) error {
	return st.ReturnTo(st.cc, value)
}

// evalStep is the step function installed by TailEval. It dispatches on the
// expression's kind: self-evaluating values return themselves, symbols
// resolve against the environment, and pairs are combinations.
func evalStep(st *State) error {
	expr, env := st.NextValue, st.NextEnv
	envObj, ok := AsEnvironment(env)
	if !ok {
		return NewError(ErrType, "eval", "not an environment", []Value{env})
	}
	switch expr.kind {
	case KSymbol:
		v, err := st.Lookup(envObj, expr.obj.(*Symbol))
		if err != nil {
			return err
		}
		return st.Return(v)
	case KPair:
		p := expr.obj.(*Pair)
		return st.evalCombination(p.Car, p.Cdr, env)
	default:
		return st.Return(expr)
	}
}

// evalCombination evaluates the operator, then combines it with the
// (as-yet-unevaluated) operand tree. The operator's evaluation is chained
// through a fresh continuation on the trampoline rather than a nested
// evalAt call, so evaluating the operator costs no Go-stack frame; when
// operator position is a symbol or a literal combiner this chain resolves
// in one trampoline step.
func (st *State) evalCombination(operator, operands, env Value) error {
	parent := st.cc
	k := &Continuation{Parent: parent, Depth: st.evalDepth}
	k.kind = KContinuation
	k.Fn = func(st *State, xparams []Value, combiner Value) error {
		st.cc = parent
		return st.Combine(combiner, operands, env)
	}
	st.Heap.track(k)
	st.cc = k
	return st.TailEval(operator, env)
}

// Combine applies combiner to operands (unevaluated) in the dynamic
// environment env. Operatives receive the operand tree as-is; applicatives
// evaluate it one level and recombine with their underlying combiner, which
// may itself be an applicative (double-wrapping evaluates twice, matching
// the classic Kernel semantics of wrap/unwrap).
func (st *State) Combine(combiner, operands, env Value) error {
	switch combiner.kind {
	case KOperative:
		op := combiner.obj.(*Operative)
		return op.Fn(st, op.XParams, operands, env)
	case KApplicative:
		app := combiner.obj.(*Applicative)
		evaluated, err := st.EvalOperandsList(operands, env)
		if err != nil {
			return err
		}
		return st.Combine(app.Underlying, evaluated, env)
	case KContinuation:
		// Continuations are applicative combiners of exactly one argument:
		// (k expr) evaluates expr, then abnormally passes its value to k,
		// exactly as if k itself wrapped a primitive operative.
		c := combiner.obj.(*Continuation)
		evaluated, err := st.EvalOperandsList(operands, env)
		if err != nil {
			return err
		}
		sl, ok := ListToSlice(evaluated)
		if !ok || len(sl) != 1 {
			return NewError(ErrArity, "continuation", "expected exactly one operand", []Value{evaluated})
		}
		return st.ApplyContinuation(c, sl[0])
	default:
		return NewError(ErrType, "combine", "not a combiner", []Value{combiner})
	}
}

// EvalOperandsList evaluates every element of operands (which must be a
// possibly-shared, possibly-cyclic proper list) in env, returning a freshly
// consed list of the results with the same sharing/cycle shape as the
// input. Each unique cons cell's car is evaluated exactly once no matter how
// many times that cell is reachable while walking the spine, matching the
// cyclic-operand-safety invariant carried over from the reference
// evaluator's argument-list walk.
func (st *State) EvalOperandsList(operands, env Value) (Value, error) {
	var nodes []*Pair
	index := make(map[*Pair]int)
	cycleAt := -1
	cur := operands
	for cur.IsPair() {
		p := cur.obj.(*Pair)
		if i, seen := index[p]; seen {
			cycleAt = i
			break
		}
		index[p] = len(nodes)
		nodes = append(nodes, p)
		cur = p.Cdr
	}
	if cycleAt < 0 && !cur.IsNil() {
		return Value{}, NewError(ErrType, "combine", "not a list in applicative combination", []Value{operands})
	}

	results := make([]*Pair, len(nodes))
	for i, n := range nodes {
		v, err := st.evalAt(n.Car, env)
		if err != nil {
			return Value{}, err
		}
		np := &Pair{Car: v}
		np.kind = KPair
		st.Heap.track(np)
		results[i] = np
	}
	for i, np := range results {
		if i+1 < len(results) {
			np.Cdr = boxValue(KPair, results[i+1])
		} else if cycleAt >= 0 {
			np.Cdr = boxValue(KPair, results[cycleAt])
		} else {
			np.Cdr = Nil
		}
	}
	if len(results) == 0 {
		return Nil, nil
	}
	return boxValue(KPair, results[0]), nil
}

// evalAt runs expr to completion in env as a non-tail sub-evaluation: it
// saves the current trampoline registers, installs a terminal continuation
// that stops the nested loop and captures its value, runs the loop, then
// restores the saved registers. This is what operand evaluation and every
// other non-tail-position evaluation in the ground combiners use; the outer tail-call chain itself never calls evalAt on its
// own continuation, which is what keeps genuine Kernel tail calls at O(1)
// Go-stack frames.
func (st *State) evalAt(expr, env Value) (Value, error) {
	myDepth := st.evalDepth + 1
	st.evalDepth = myDepth
	savedCC := st.cc
	savedFn := st.nextFunc
	savedVal, savedEnv, savedXP := st.NextValue, st.NextEnv, st.NextXParams
	defer func() {
		st.evalDepth = myDepth - 1
		st.cc = savedCC
		st.nextFunc = savedFn
		st.NextValue, st.NextEnv, st.NextXParams = savedVal, savedEnv, savedXP
	}()

	term := &Continuation{Parent: savedCC, Depth: myDepth}
	term.kind = KContinuation
	term.Fn = func(st *State, xparams []Value, value Value) error {
		st.NextValue = value
		st.nextFunc = nil
		return nil
	}
	st.Heap.track(term)
	st.cc = term
	st.nextFunc = nil

	if err := st.TailEval(expr, env); err != nil {
		return Value{}, err
	}

	var result Value
	var outErr error
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			jump, ok := r.(contJump)
			if !ok {
				panic(r)
			}
			if jump.target.Depth >= myDepth {
				result = jump.value
				return
			}
			panic(jump)
		}()
		result, outErr = st.runLoop()
	}()
	return result, outErr
}

// Eval evaluates expr in env and runs it to completion, returning its
// value. This is the entry point used by apply, the REPL and any Go code
// driving the interpreter from outside the trampoline.
func (st *State) Eval(expr, env Value) (Value, error) {
	return st.evalAt(expr, env)
}

// runLoop drains the trampoline's step register until it goes empty,
// returning whatever value the terminal continuation captured.
func (st *State) runLoop() (Value, error) {
	for st.nextFunc != nil {
		fn := st.nextFunc
		st.nextFunc = nil
		if err := fn(st); err != nil {
			return Value{}, err
		}
	}
	return st.NextValue, nil
}
