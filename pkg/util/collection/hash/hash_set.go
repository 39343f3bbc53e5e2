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
package hash

import (
	"fmt"
	"slices"
	"strings"
)

// Hasher is implemented by any item which can be stored in a Set.  Equality is
// required in addition to hashing, since distinct items may share a hashcode.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// Set is a hashtable of items which tolerates collisions, by chaining items of
// the same hashcode together.  Thus, two distinct schedules whose fingerprints
// collide are never mistaken for one another.
type Set[T Hasher[T]] struct {
	// Chains of items, indexed by hashcode.
	chains map[uint64][]T
	// Number of items across all chains.
	size uint
}

// NewSet creates an empty set, with space for a given number of hashcodes.
func NewSet[T Hasher[T]](capacity uint) *Set[T] {
	return &Set[T]{make(map[uint64][]T, capacity), 0}
}

// Size returns the number of distinct items in this set.
func (p *Set[T]) Size() uint {
	return p.size
}

// Insert an item into this set, returning true if an equal item was already
// present (in which case the set is unchanged).
func (p *Set[T]) Insert(item T) bool {
	var (
		hash  = item.Hash()
		chain = p.chains[hash]
	)
	//
	if slices.ContainsFunc(chain, item.Equals) {
		return true
	}
	//
	p.chains[hash] = append(chain, item)
	p.size++
	//
	return false
}

// Contains checks whether an item equal to the given item is in this set.
func (p *Set[T]) Contains(item T) bool {
	return slices.ContainsFunc(p.chains[item.Hash()], item.Equals)
}

// Clear removes all items from this set.
func (p *Set[T]) Clear() {
	clear(p.chains)
	p.size = 0
}

func (p *Set[T]) String() string {
	var items []string
	//
	for _, chain := range p.chains {
		for _, item := range chain {
			items = append(items, fmt.Sprintf("%v", any(item)))
		}
	}
	//
	return fmt.Sprintf("{%s}", strings.Join(items, ","))
}
