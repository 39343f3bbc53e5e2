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
package sexp

import (
	"unicode"

	"github.com/Serge45/mfmasched/pkg/util/source"
)

// ParseAll converts a given source file into zero or more S-expressions, or
// returns an error if the file is malformed.  A source map is also returned
// for reporting errors against individual terms.
func ParseAll(file *source.File) ([]SExp, *source.Map[SExp], *source.SyntaxError) {
	var (
		p     = NewParser(file)
		terms []SExp
	)
	//
	for {
		term, err := p.Parse()
		//
		if err != nil {
			return nil, nil, err
		} else if term == nil {
			// EOF reached
			return terms, p.srcmap, nil
		}
		//
		terms = append(terms, term)
	}
}

// Parser represents a parser in the process of parsing a given string into one
// or more S-expressions.
type Parser struct {
	// Source file being parsed
	file *source.File
	// Cache (for simplicity)
	text []rune
	// Determine current position within text
	index int
	// Mapping from constructed S-Expressions to their spans in the original text.
	srcmap *source.Map[SExp]
}

// NewParser constructs a new instance of Parser
func NewParser(file *source.File) *Parser {
	return &Parser{
		file:   file,
		text:   file.Contents(),
		index:  0,
		srcmap: source.NewMap[SExp](file),
	}
}

// SourceMap returns the internal source map constructed during parsing.
func (p *Parser) SourceMap() *source.Map[SExp] {
	return p.srcmap
}

// Parse the next S-Expression, returning nil at the end of the input.
func (p *Parser) Parse() (SExp, *source.SyntaxError) {
	var term SExp
	// Skip over any whitespace.  This is important to get the correct starting
	// point for this term.
	p.skipWhiteSpace()
	//
	start := p.index
	//
	switch token := p.next(); {
	case token == nil:
		return nil, nil
	case len(token) == 1 && token[0] == ')':
		p.index-- // backup
		return nil, p.error("unexpected end-of-list")
	case len(token) == 1 && token[0] == '(':
		elements, err := p.parseList()
		if err != nil {
			return nil, err
		}
		//
		term = &List{elements}
	default:
		term = &Symbol{string(token)}
	}
	// Register item in source map
	p.srcmap.Put(term, source.NewSpan(start, p.index))
	//
	return term, nil
}

// Extract the next token from the stream.
func (p *Parser) next() []rune {
	p.skipWhiteSpace()
	// Catch end-of-file
	if p.index == len(p.text) {
		return nil
	}
	//
	switch p.text[p.index] {
	case '(', ')':
		p.index++
		return p.text[p.index-1 : p.index]
	}
	// Symbol
	start := p.index
	//
	for p.index < len(p.text) && isSymbolLetter(p.text[p.index]) {
		p.index++
	}
	//
	return p.text[start:p.index]
}

// Skip over any whitespace, including comments.
func (p *Parser) skipWhiteSpace() {
	for p.index < len(p.text) {
		switch c := p.text[p.index]; {
		case c == ';':
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		case unicode.IsSpace(c):
			p.index++
		default:
			return
		}
	}
}

func (p *Parser) parseList() ([]SExp, *source.SyntaxError) {
	var elements []SExp
	//
	for {
		p.skipWhiteSpace()
		//
		if p.index == len(p.text) {
			return nil, p.error("unexpected end-of-file")
		} else if p.text[p.index] == ')' {
			// Consume terminator
			p.index++
			return elements, nil
		}
		//
		element, err := p.Parse()
		if err != nil {
			return nil, err
		}
		//
		elements = append(elements, element)
	}
}

// Construct a parser error at the current position in the input stream.
func (p *Parser) error(msg string) *source.SyntaxError {
	span := source.NewSpan(p.index, min(p.index+1, len(p.text)))
	return p.file.SyntaxError(span, msg)
}

func isSymbolLetter(r rune) bool {
	return r != '(' && r != ')' && r != ';' && !unicode.IsSpace(r)
}
