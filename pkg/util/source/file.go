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
	"os"
)

// File represents a given source file (typically stored on disk).
type File struct {
	// File name for this source file.
	filename string
	// Contents of this file.
	contents []rune
}

// NewFile constructs a new source file from a given byte array.
func NewFile(filename string, bytes []byte) *File {
	return &File{filename, []rune(string(bytes))}
}

// ReadFile reads a source file from disk.
func ReadFile(filename string) (*File, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return NewFile(filename, bytes), nil
}

// Filename returns the filename associated with this source file.
func (p *File) Filename() string {
	return p.filename
}

// Contents returns the contents of this source file.
func (p *File) Contents() []rune {
	return p.contents
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (p *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{p, span, msg}
}

// EnclosingLine determines the first line of this file which encloses the
// start of a given span.
func (p *File) EnclosingLine(span Span) Line {
	var (
		number = 1
		start  = 0
	)
	//
	for i := 0; i < span.start && i < len(p.contents); i++ {
		if p.contents[i] == '\n' {
			number++
			start = i + 1
		}
	}
	//
	end := start
	//
	for end < len(p.contents) && p.contents[end] != '\n' {
		end++
	}
	//
	return Line{p.contents, Span{start, end}, number}
}

// Line provides information about a given line within the original string.
type Line struct {
	// Original text
	text []rune
	// Span within original text of this line.
	span Span
	// Line number of this line (counting from 1).
	number int
}

func (p Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number returns the line number of this line, counting from 1.
func (p Line) Number() int {
	return p.number
}

// Start returns the offset of this line within the file.
func (p Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p Line) Length() int {
	return p.span.Length()
}

// SyntaxError is a structured error which retains the index into the original
// string where an error occurred, along with an error message.
type SyntaxError struct {
	file *File
	// Span of the original text where the error arose.
	span Span
	// Error message being reported
	msg string
}

// File returns the source file in which this error arose.
func (p *SyntaxError) File() *File {
	return p.file
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line := p.EnclosingLine()
	//
	return fmt.Sprintf("%s:%d:%d: %s", p.file.Filename(), line.Number(), p.span.start-line.Start()+1, p.msg)
}

// EnclosingLine determines the line on which this error starts.
func (p *SyntaxError) EnclosingLine() Line {
	return p.file.EnclosingLine(p.span)
}
