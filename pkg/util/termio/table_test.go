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
	"strings"
	"testing"
)

func Test_Table_01(t *testing.T) {
	table := NewTablePrinter(2)
	table.AddRow("MFMA", "slack")
	table.AddRow("0", "-12")
	//
	check_Table(t, table, " MFMA | slack |\n    0 |   -12 |\n")
}

func Test_Table_02(t *testing.T) {
	table := NewTablePrinter(1)
	table.AddRow("v_mfma_f32_32x32x8f16")
	table.SetMaxWidth(0, 8)
	//
	check_Table(t, table, " v_mfma.. |\n")
}

func Test_Table_03(t *testing.T) {
	table := NewTablePrinter(1)
	row := table.AddRow("x")
	table.SetRowEscape(row, NewAnsiEscape().FgColour(TERM_RED))
	//
	check_Table(t, table, "\033[31m x\033[0m |\n")
	//
	table.AnsiEscapes(false)
	check_Table(t, table, " x |\n")
}

func Test_Escape_01(t *testing.T) {
	if e := BoldAnsiEscape().FgColour(TERM_YELLOW).BgColour(TERM_GREEN).Build(); e != "\033[1;33;42m" {
		t.Errorf("unexpected escape %q", e)
	}
}

func check_Table(t *testing.T, table *TablePrinter, expected string) {
	t.Helper()
	//
	var builder strings.Builder
	//
	if err := table.Print(&builder); err != nil {
		t.Fatal(err)
	} else if builder.String() != expected {
		t.Errorf("expected %q, got %q", expected, builder.String())
	}
}
