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

// Predicate identifies those items of interest.
type Predicate[T any] func(T) bool

// Enumerator visits the items of a sequence one at a time.
type Enumerator[T any] interface {
	// HasNext checks whether any items remain to be visited.
	HasNext() bool
	// Next returns the next item, advancing the enumerator.
	Next() T
}

// Iterator is an enumerator over a finite sequence.  Iteration can be
// restarted from any point by cloning the iterator beforehand.
type Iterator[T any] interface {
	Enumerator[T]
	// Clone returns an independent copy of this iterator at its current
	// position.
	Clone() Iterator[T]
	// Collect drains this iterator into a freshly allocated slice.
	Collect() []T
	// Count returns the number of items remaining, without advancing this
	// iterator.
	Count() uint
	// Find advances this iterator past the first item matching a predicate,
	// returning its offset from the current position (or false if none).
	Find(Predicate[T]) (uint, bool)
}

// Find advances a given enumerator past the first item matching a predicate,
// and is shared by the iterator implementations.
//
//nolint:revive
func Find[T any, S Enumerator[T]](iter S, predicate Predicate[T]) (uint, bool) {
	for index := uint(0); iter.HasNext(); index++ {
		if predicate(iter.Next()) {
			return index, true
		}
	}
	//
	return 0, false
}

// Collect drains a given enumerator into a slice, and is shared by the
// iterator implementations.
//
//nolint:revive
func Collect[T any, S Enumerator[T]](iter S) []T {
	var items []T
	//
	for iter.HasNext() {
		items = append(items, iter.Next())
	}
	//
	return items
}
