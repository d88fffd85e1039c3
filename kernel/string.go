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

// NewString allocates a new mutable Kernel string from a Go string.
func (st *State) NewString(s string) Value {
	o := &StringObj{Runes: []rune(s)}
	o.kind = KString
	st.Heap.track(o)
	return boxValue(KString, o)
}

// GoString renders a Kernel string as a Go string.
func GoString(v Value) string { return string(v.obj.(*StringObj).Runes) }

// AsString returns the underlying *StringObj and true, or nil, false.
func AsString(v Value) (*StringObj, bool) {
	if v.kind != KString {
		return nil, false
	}
	return v.obj.(*StringObj), true
}

// NewBytevector allocates a mutable byte buffer.
func (st *State) NewBytevector(b []byte) Value {
	o := &Bytevector{Bytes: append([]byte(nil), b...)}
	o.kind = KBytevector
	st.Heap.track(o)
	return boxValue(KBytevector, o)
}

// NewVector allocates a mutable Value array.
func (st *State) NewVector(vs []Value) Value {
	o := &VectorObj{Slots: append([]Value(nil), vs...)}
	o.kind = KVector
	st.Heap.track(o)
	return boxValue(KVector, o)
}
