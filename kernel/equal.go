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

// pairKey identifies one side of a pair-vs-pair comparison in progress, so
// Equal can detect that it has looped back onto a comparison it already
// assumed true and terminate on cyclic structures instead of recursing
// forever.
type pairKey struct{ a, b *Pair }

// Equal implements Kernel's equal?: structural equality for pairs, strings,
// bytevectors and vectors, numeric equality for numbers, and eq? for
// everything else. Cyclic structure is handled by assuming pairs already
// being compared are equal (co-inductive equality), matching the
// termination behavior expected of equal? on cyclic data.
func Equal(a, b Value) bool {
	return equalRec(a, b, make(map[pairKey]bool))
}

func equalRec(a, b Value, visiting map[pairKey]bool) bool {
	if a.kind != b.kind {
		if a.IsNumber() && b.IsNumber() {
			eq, err := NumEqual(a, b)
			return err == nil && eq
		}
		return false
	}
	switch a.kind {
	case KPair:
		pa, pb := a.obj.(*Pair), b.obj.(*Pair)
		if pa == pb {
			return true
		}
		key := pairKey{pa, pb}
		if visiting[key] {
			return true
		}
		visiting[key] = true
		return equalRec(pa.Car, pb.Car, visiting) && equalRec(pa.Cdr, pb.Cdr, visiting)
	case KString:
		sa, sb := a.obj.(*StringObj), b.obj.(*StringObj)
		if len(sa.Runes) != len(sb.Runes) {
			return false
		}
		for i, r := range sa.Runes {
			if sb.Runes[i] != r {
				return false
			}
		}
		return true
	case KBytevector:
		ba, bb := a.obj.(*Bytevector), b.obj.(*Bytevector)
		if len(ba.Bytes) != len(bb.Bytes) {
			return false
		}
		for i, r := range ba.Bytes {
			if bb.Bytes[i] != r {
				return false
			}
		}
		return true
	case KVector:
		va, vb := a.obj.(*VectorObj), b.obj.(*VectorObj)
		if len(va.Slots) != len(vb.Slots) {
			return false
		}
		for i := range va.Slots {
			if !equalRec(va.Slots[i], vb.Slots[i], visiting) {
				return false
			}
		}
		return true
	case KFixint, KBigint, KBigrat, KDouble, KEInf, KIInf:
		eq, err := NumEqual(a, b)
		return err == nil && eq
	default:
		return Eq(a, b)
	}
}
