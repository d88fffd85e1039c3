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

// Intern returns the unique Symbol object for name, allocating it on first
// use. Interned symbols are immutable and compare equal (eq?) iff their
// names are equal. The table is guarded by symtabMu so Intern is safe to
// call from multiple goroutines sharing a State.
func (st *State) Intern(name string) Value {
	st.symtabMu.Lock()
	defer st.symtabMu.Unlock()
	if s, ok := st.symtab[name]; ok {
		return boxValue(KSymbol, s)
	}
	s := &Symbol{Name: name}
	s.kind = KSymbol
	s.SetImmutable()
	st.Heap.track(s)
	st.symtab[name] = s
	return boxValue(KSymbol, s)
}

// SymbolName returns the name of a symbol value.
func SymbolName(v Value) string { return v.obj.(*Symbol).Name }

// AsSymbol returns the underlying *Symbol and true, or nil, false.
func AsSymbol(v Value) (*Symbol, bool) {
	if v.kind != KSymbol {
		return nil, false
	}
	return v.obj.(*Symbol), true
}
