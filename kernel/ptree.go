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

// CheckPtree validates that ptree is a legal parameter tree (§4.5): every
// leaf is #ignore, a symbol, or nil; no symbol appears twice; and the tree
// is acyclic. It is run once, ahead of any binding attempt, so a malformed
// ptree is rejected all-or-nothing before a single binding is made.
func CheckPtree(ptree Value) error {
	seen := make(map[*Symbol]bool)
	visiting := make(map[*Pair]bool)
	return checkPtreeNode(ptree, seen, visiting)
}

func checkPtreeNode(v Value, seen map[*Symbol]bool, visiting map[*Pair]bool) error {
	switch v.kind {
	case KIgnore, KNil:
		return nil
	case KSymbol:
		s := v.obj.(*Symbol)
		if seen[s] {
			return NewError(ErrType, "ptree", "duplicate symbol in parameter tree: "+s.Name, nil)
		}
		seen[s] = true
		return nil
	case KPair:
		p := v.obj.(*Pair)
		if visiting[p] {
			return NewError(ErrType, "ptree", "cyclic parameter tree", nil)
		}
		visiting[p] = true
		if err := checkPtreeNode(p.Car, seen, visiting); err != nil {
			return err
		}
		if err := checkPtreeNode(p.Cdr, seen, visiting); err != nil {
			return err
		}
		delete(visiting, p)
		return nil
	default:
		return NewError(ErrType, "ptree", "illegal parameter tree leaf", []Value{v})
	}
}

// MatchPtree destructures operands against ptree and defines the resulting
// bindings in env. ptree must already have passed CheckPtree (the
// combiner-construction operatives run that check once, ahead of time, so
// every later call just matches). Matching is itself all-or-nothing: no
// binding is committed to env until the whole tree has matched, so a
// mismatched arity never leaves env partially populated.
func MatchPtree(env *Environment, ptree, operands Value) error {
	pending := make(map[*Symbol]Value)
	if err := matchPtreeNode(ptree, operands, pending); err != nil {
		return err
	}
	for s, val := range pending {
		env.Define(s, val)
	}
	return nil
}

func matchPtreeNode(ptree, operand Value, pending map[*Symbol]Value) error {
	switch ptree.kind {
	case KIgnore:
		return nil
	case KNil:
		if !operand.IsNil() {
			return NewError(ErrArity, "combine", "too many operands", []Value{operand})
		}
		return nil
	case KSymbol:
		pending[ptree.obj.(*Symbol)] = operand
		return nil
	case KPair:
		if !operand.IsPair() {
			return NewError(ErrArity, "combine", "too few operands", nil)
		}
		p := ptree.obj.(*Pair)
		o := operand.obj.(*Pair)
		if err := matchPtreeNode(p.Car, o.Car, pending); err != nil {
			return err
		}
		return matchPtreeNode(p.Cdr, o.Cdr, pending)
	default:
		return NewError(ErrType, "combine", "illegal parameter tree leaf", []Value{ptree})
	}
}
