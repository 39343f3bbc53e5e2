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
package source

import (
	"fmt"
)

// Span represents a contiguous slice of the original string.  Instead of
// representing this as a string slice, however, it is useful to retain the
// actual indices.
type Span struct {
	// The first character of this span in the original string.
	start int
	// One past the final character of this span in the original string.
	end int
}

// NewSpan constructs a new span whilst checking that the invariant start <= end
// is properly maintained.
func NewSpan(start int, end int) Span {
	if start > end {
		panic("invalid span")
	}
	//
	return Span{start, end}
}

// Start returns the starting index of this span in the original string.
func (p Span) Start() int {
	return p.start
}

// End returns one past the last index of this span in the original string.
func (p Span) End() int {
	return p.end
}

// Length returns the number of characters covered by this span.
func (p Span) Length() int {
	return p.end - p.start
}

// Map maps terms from a given source file to the spans of text they were
// parsed from.  This is used, for example, to report errors against a term
// found to be malformed after parsing.
type Map[T comparable] struct {
	mapping map[T]Span
	// Enclosing source file
	file *File
}

// NewMap constructs an initially empty source map for a given file.
func NewMap[T comparable](file *File) *Map[T] {
	return &Map[T]{make(map[T]Span), file}
}

// File returns the source file to which this map applies.
func (p *Map[T]) File() *File {
	return p.file
}

// Put registers a new term with this source map.  Every term should be
// registered at most once.
func (p *Map[T]) Put(item T, span Span) {
	if _, ok := p.mapping[item]; ok {
		panic(fmt.Sprintf("source map key already exists: %v", item))
	}
	//
	p.mapping[item] = span
}

// Has determines whether a given term is registered with this map.
func (p *Map[T]) Has(item T) bool {
	_, ok := p.mapping[item]
	return ok
}

// Get determines the span associated with a given term, which must be
// registered with this map.
func (p *Map[T]) Get(item T) Span {
	if s, ok := p.mapping[item]; ok {
		return s
	}
	//
	panic(fmt.Sprintf("invalid source map key: %v", item))
}

// SyntaxError constructs a syntax error covering the span of a given term.
func (p *Map[T]) SyntaxError(item T, msg string) *SyntaxError {
	return p.file.SyntaxError(p.Get(item), msg)
}
