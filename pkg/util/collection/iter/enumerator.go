// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package iter

// EnumerateElements returns an enumerator over all arrays of size n whose
// items are drawn from a given set of elements.  For example, if n==2 and
// elems contained two elements A and B, then this will return
// [[A,A],[B,A],[A,B],[B,B]].  Arrays are enumerated by treating them as
// counters in base len(elems), with the least significant digit first.
func EnumerateElements[E any](n uint, elems []E) Enumerator[[]E] {
	if len(elems) == 0 && n > 0 {
		return &enumerator[E]{nil, elems}
	}
	//
	return &enumerator[E]{make([]uint, n), elems}
}

type enumerator[E any] struct {
	// Current digits, or nil once exhausted.
	digits   []uint
	elements []E
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *enumerator[E]) HasNext() bool {
	return p.digits != nil
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *enumerator[E]) Next() []E {
	var (
		item = make([]E, len(p.digits))
		base = uint(len(p.elements))
	)
	//
	for i, d := range p.digits {
		item[i] = p.elements[d]
	}
	// Increment counter, stopping at the first digit which does not wrap.
	for i := range p.digits {
		if p.digits[i]+1 < base {
			p.digits[i]++
			return item
		}
		//
		p.digits[i] = 0
	}
	// Every digit wrapped, hence enumeration is complete.
	p.digits = nil
	//
	return item
}
