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

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// ============================================================================
// UintKey Implementation
// ============================================================================

var _ Hasher[UintKey] = UintKey(0)

// UintKey wraps an unsigned integer as something which can be safely placed
// into a HashSet.
type UintKey uint

// Equals compares two keys for equality.
func (p UintKey) Equals(other UintKey) bool {
	return p == other
}

// Hash generates a 64-bit hashcode by mixing the bytes of the underlying
// value (FNV1a).
func (p UintKey) Hash() uint64 {
	var (
		hash  = offset64
		value = uint64(p)
	)
	//
	for range 8 {
		hash ^= value & 0xff
		hash *= prime64
		value >>= 8
	}
	//
	return hash
}

// ============================================================================
// Array Implementation
// ============================================================================

var _ Hasher[Array[UintKey]] = Array[UintKey]{}

// Array provides a mechanism for hashing ordered sequences of hashable items.
// Two arrays are equal only when they hold equal items in the same order.
type Array[F Hasher[F]] struct {
	elements []F
}

// NewArray constructs a new array key.
func NewArray[F Hasher[F]](elements []F) Array[F] {
	return Array[F]{elements}
}

// Len returns the number of items in this array.
func (p Array[F]) Len() uint {
	return uint(len(p.elements))
}

// Equals compares two arrays to check whether they hold the same items in the
// same order.
func (p Array[F]) Equals(other Array[F]) bool {
	var (
		n = len(p.elements)
		m = len(other.elements)
	)
	//
	if n != m {
		return false
	}
	//
	for i := range n {
		if !p.elements[i].Equals(other.elements[i]) {
			return false
		}
	}
	//
	return true
}

// Hash generates a 64-bit hashcode from the underlying items (FNV1a over their
// hashcodes).
func (p Array[F]) Hash() uint64 {
	hash := offset64
	//
	for _, c := range p.elements {
		hash ^= c.Hash()
		hash *= prime64
	}
	//
	return hash
}
