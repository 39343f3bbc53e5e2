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
package termio

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths        []uint
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a new table with a given number of columns, and
// initially no rows.
func NewTablePrinter(width uint) *TablePrinter {
	return &TablePrinter{make([]uint, width), nil, nil, true}
}

// AddRow appends a row onto this table, returning its index.
func (p *TablePrinter) AddRow(vals ...string) uint {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, val := range vals {
		p.widths[i] = max(p.widths[i], uint(len(val)))
	}
	//
	p.rows = append(p.rows, vals)
	p.escapes = append(p.escapes, make([]string, len(vals)))
	//
	return uint(len(p.rows) - 1)
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// SetEscape set the colour to use when printing the contents of a given cell
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape.Build()
}

// SetRowEscape sets the colour to use for every cell in a given row.
func (p *TablePrinter) SetRowEscape(row uint, escape AnsiEscape) {
	for col := range p.widths {
		p.SetEscape(uint(col), row, escape)
	}
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful in environments that don't support
// escapes as, otherwise, you get a lot of visible excape characters being
// printed.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetMaxWidth puts an upper bound on the width of a given column.  Contents
// exceeding this are truncated when printed.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) {
	p.widths[col] = min(p.widths[col], max(width, 3))
}

// Print the table to a given writer.
func (p *TablePrinter) Print(w io.Writer) error {
	var builder strings.Builder
	//
	for i, row := range p.rows {
		for j, col := range row {
			var (
				width  = p.widths[j]
				escape = p.escapes[i][j]
				// Escapes only apply when enabled
				escaped = p.enableEscapes && escape != ""
			)
			//
			if escaped {
				builder.WriteString(escape)
			}
			//
			if uint(len(col)) > width {
				builder.WriteString(fmt.Sprintf(" %s..", col[:width-2]))
			} else {
				builder.WriteString(fmt.Sprintf(" %*s", width, col))
			}
			//
			if escaped {
				builder.WriteString(ResetAnsiEscape().Build())
			}
			//
			builder.WriteString(" |")
		}
		//
		builder.WriteString("\n")
	}
	//
	_, err := io.WriteString(w, builder.String())
	//
	return err
}
