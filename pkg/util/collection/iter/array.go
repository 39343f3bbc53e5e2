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

// sliceIterator walks the items of a slice in order, without copying them.
type sliceIterator[T any] struct {
	items []T
	// Index of the next item to return.
	cursor int
}

// NewArrayIterator constructs an iterator over a slice of items.  The slice is
// shared with the iterator, hence it should not be modified whilst iterating.
func NewArrayIterator[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items, 0}
}

//nolint:revive
func (p *sliceIterator[T]) HasNext() bool {
	return p.cursor < len(p.items)
}

//nolint:revive
func (p *sliceIterator[T]) Next() T {
	p.cursor++
	//
	return p.items[p.cursor-1]
}

//nolint:revive
func (p *sliceIterator[T]) Clone() Iterator[T] {
	return &sliceIterator[T]{p.items, p.cursor}
}

// Collect copies out the remaining items, leaving this iterator exhausted.
//
//nolint:revive
func (p *sliceIterator[T]) Collect() []T {
	remaining := append([]T(nil), p.items[p.cursor:]...)
	p.cursor = len(p.items)
	//
	return remaining
}

//nolint:revive
func (p *sliceIterator[T]) Count() uint {
	return uint(len(p.items) - p.cursor)
}

//nolint:revive
func (p *sliceIterator[T]) Find(predicate Predicate[T]) (uint, bool) {
	return Find(p, predicate)
}
