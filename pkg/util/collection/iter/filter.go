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

// typeIterator visits only those items of an underlying iterator which have
// the concrete type T, presenting them as T.
type typeIterator[S, T any] struct {
	iter Iterator[S]
	// Lookahead item, if one is pending.
	next    T
	pending bool
}

// NewTypeIterator constructs an iterator which filters out every item of the
// underlying iterator whose dynamic type is not T.
func NewTypeIterator[S, T any](iter Iterator[S]) Iterator[T] {
	var empty T
	//
	return &typeIterator[S, T]{iter, empty, false}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *typeIterator[S, T]) HasNext() bool {
	for !p.pending && p.iter.HasNext() {
		if item, ok := any(p.iter.Next()).(T); ok {
			p.next, p.pending = item, true
		}
	}
	//
	return p.pending
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *typeIterator[S, T]) Next() T {
	if !p.HasNext() {
		panic("iterator out-of-bounds")
	}
	//
	p.pending = false
	//
	return p.next
}

// Clone creates a copy of this iterator at the given cursor position.
//
//nolint:revive
func (p *typeIterator[S, T]) Clone() Iterator[T] {
	return &typeIterator[S, T]{p.iter.Clone(), p.next, p.pending}
}

// Collect allocates a new array containing all items of this iterator. This
// drains the iterator.
//
//nolint:revive
func (p *typeIterator[S, T]) Collect() []T {
	return Collect[T](p)
}

// Count returns the number of items left in the iterator.  Since items must be
// filtered, this requires traversing a clone of the iterator.
//
//nolint:revive
func (p *typeIterator[S, T]) Count() uint {
	var (
		count = uint(0)
		clone = p.Clone()
	)
	//
	for clone.HasNext() {
		clone.Next()
		//
		count++
	}
	//
	return count
}

// Find returns the index of the first match for a given predicate, or
// return false if no match is found.
//
//nolint:revive
func (p *typeIterator[S, T]) Find(predicate Predicate[T]) (uint, bool) {
	return Find(p, predicate)
}

// filterIterator visits only those items of an underlying iterator matching a
// given predicate.
type filterIterator[T any] struct {
	iter      Iterator[T]
	predicate Predicate[T]
	next      T
	pending   bool
}

// NewFilterIterator constructs an iterator which filters out every item of the
// underlying iterator not matching a given predicate.
func NewFilterIterator[T any](iter Iterator[T], predicate Predicate[T]) Iterator[T] {
	var empty T
	//
	return &filterIterator[T]{iter, predicate, empty, false}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *filterIterator[T]) HasNext() bool {
	for !p.pending && p.iter.HasNext() {
		if item := p.iter.Next(); p.predicate(item) {
			p.next, p.pending = item, true
		}
	}
	//
	return p.pending
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *filterIterator[T]) Next() T {
	if !p.HasNext() {
		panic("iterator out-of-bounds")
	}
	//
	p.pending = false
	//
	return p.next
}

// Clone creates a copy of this iterator at the given cursor position.
//
//nolint:revive
func (p *filterIterator[T]) Clone() Iterator[T] {
	return &filterIterator[T]{p.iter.Clone(), p.predicate, p.next, p.pending}
}

// Collect allocates a new array containing all items of this iterator. This
// drains the iterator.
//
//nolint:revive
func (p *filterIterator[T]) Collect() []T {
	return Collect[T](p)
}

// Count returns the number of items left in the iterator, without modifying
// it.
//
//nolint:revive
func (p *filterIterator[T]) Count() uint {
	var (
		count = uint(0)
		clone = p.Clone()
	)
	//
	for clone.HasNext() {
		clone.Next()
		//
		count++
	}
	//
	return count
}

// Find returns the index of the first match for a given predicate, or
// return false if no match is found.
//
//nolint:revive
func (p *filterIterator[T]) Find(predicate Predicate[T]) (uint, bool) {
	return Find(p, predicate)
}
