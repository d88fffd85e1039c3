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

import "github.com/MaxSilvesterQWE/klisp/port"

// PortObj boxes a *port.Port as a heap Object so it can be carried around as
// a first-class Value; ports hold no Kernel values themselves so the GC
// tracer treats them as a leaf (see children in heap.go).
type PortObj struct {
	header
	P *port.Port
}

func (p *PortObj) Close() error { return p.P.Close() }

// NewPort boxes an already-open port.Port as a Kernel Value.
func (st *State) NewPort(p *port.Port) Value {
	o := &PortObj{P: p}
	o.kind = KPort
	st.Heap.track(o)
	return boxValue(KPort, o)
}

// AsPort returns the underlying *port.Port and true, or nil, false.
func AsPort(v Value) (*port.Port, bool) {
	if v.kind != KPort {
		return nil, false
	}
	return v.obj.(*PortObj).P, true
}
