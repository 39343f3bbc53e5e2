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
package parser

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Serge45/mfmasched/pkg/asm/block"
	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/Serge45/mfmasched/pkg/util/source"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the sample listings are found.
const TestDir = "../../../testdata/sched"

func Test_Parse_01(t *testing.T) {
	check_Instruction[*insn.Label](t, "(label loop)", "loop:")
}

func Test_Parse_02(t *testing.T) {
	check_Instruction[*insn.Mfma](t, "(v_mfma_f32_32x32x8f16 acc[0:15] v[0:1] v[2:3])",
		"v_mfma_f32_32x32x8f16 acc[0:15], v[0:1], v[2:3], acc[0:15]")
}

func Test_Parse_03(t *testing.T) {
	read := check_Instruction[*insn.GlobalRead](t, "(buffer_load_dwordx4 v[8:11] v1 :latency 8)",
		"buffer_load_dwordx4 v[8:11], v1")
	//
	if read.Latency != 8 {
		t.Errorf("expected latency 8, got %d", read.Latency)
	}
}

func Test_Parse_04(t *testing.T) {
	check_Instruction[*insn.GlobalRead](t, "(global_load_dword v[2] v[3] :latency 4)", "global_load_dword v2, v3")
}

func Test_Parse_05(t *testing.T) {
	check_Instruction[*insn.LocalWrite](t, "(ds_write_b128 v[20] v[8:11])", "ds_write_b128 v20, v[8:11]")
}

func Test_Parse_06(t *testing.T) {
	wait := check_Instruction[*insn.WaitCnt](t, "(s_waitcnt :lgkmcnt 1 :vmcnt 0)", "s_waitcnt vmcnt(0) lgkmcnt(1)")
	//
	if wait.VmCnt != 0 || wait.LgkmCnt != 1 {
		t.Errorf("unexpected counts %s", wait)
	}
}

func Test_Parse_07(t *testing.T) {
	wait := check_Instruction[*insn.WaitCnt](t, "(s_waitcnt :lgkmcnt 2)", "s_waitcnt lgkmcnt(2)")
	//
	if wait.VmCnt != insn.UNSET_COUNT {
		t.Errorf("expected unset vmcnt, got %d", wait.VmCnt)
	}
}

func Test_Parse_08(t *testing.T) {
	check_Instruction[*insn.Barrier](t, "(s_barrier)", "s_barrier")
	check_Instruction[*insn.SetPrio](t, "(s_setprio 3)", "s_setprio 3")
}

func Test_Parse_09(t *testing.T) {
	check_Instruction[*insn.Move](t, "(v_mov_b32 v0 v1)", "v_mov_b32 v0, v1")
	check_Instruction[*insn.Move](t, "(v_mov_b64 v[0:1] v[2:3])", "v_mov_b64 v[0:1], v[2:3]")
}

func Test_Parse_10(t *testing.T) {
	add := check_Instruction[*insn.Common](t, "(v_add_u32 v0 v1 s[2])", "v_add_u32 v0, v1, s2")
	//
	if len(add.Srcs) != 2 {
		t.Errorf("expected 2 sources, got %d", len(add.Srcs))
	}
}

func Test_Parse_11(t *testing.T) {
	// Non-register operands make an instruction opaque
	generic := check_Instruction[*insn.Generic](t, "(s_branch loop)", "s_branch loop")
	//
	if generic.Dst.HasValue() {
		t.Errorf("unexpected destination %s", generic.Dst)
	}
}

func Test_Parse_12(t *testing.T) {
	generic := check_Instruction[*insn.Generic](t, "(generic s_getreg_b32 :dst s[4] hwreg)", "s_getreg_b32 s4, hwreg")
	//
	if !generic.Dst.HasValue() {
		t.Errorf("expected destination")
	}
	//
	check_Instruction[*insn.Generic](t, "(generic s_nop 0)", "s_nop 0")
	check_Instruction[*insn.Generic](t, "(s_endpgm)", "s_endpgm")
}

func Test_Parse_13(t *testing.T) {
	mod := check_Module(t, "(label a)\n(module inner (s_barrier) (module deeper (s_setprio 1)))\n(s_barrier)")
	//
	if len(mod.Items) != 3 || len(mod.Flatten()) != 4 {
		t.Errorf("unexpected module structure:\n%s", mod)
	}
	//
	if inner, ok := mod.Items[1].(*block.Module); !ok || inner.Name != "inner" {
		t.Errorf("expected nested module, got %s", mod.Items[1])
	}
}

func Test_Invalid_01(t *testing.T) {
	check_Invalid(t, "(buffer_load_dword v0 v1)", "expected issue latency (e.g. :latency 8)")
}

func Test_Invalid_02(t *testing.T) {
	check_Invalid(t, "(v_mfma_f32_32x32x8f16 acc[0:15] v[0:1])", "expected 3 operand(s)")
}

func Test_Invalid_03(t *testing.T) {
	check_Invalid(t, "(v_mfma_f32_32x32x8f16 acc[0:15] v[0:1] x3)", "invalid register \"x3\"")
}

func Test_Invalid_04(t *testing.T) {
	check_Invalid(t, "(s_waitcnt :expcnt 0)", "unknown wait count \":expcnt\"")
	check_Invalid(t, "(s_waitcnt :vmcnt)", "expected keyword value pairs")
	check_Invalid(t, "(s_waitcnt :vmcnt -1)", "expected unsigned integer")
}

func Test_Invalid_05(t *testing.T) {
	check_Invalid(t, "s_barrier", "expected instruction or module")
	check_Invalid(t, "(module)", "expected module name")
	check_Invalid(t, "((s_barrier))", "expected instruction or module")
}

func Test_Invalid_06(t *testing.T) {
	check_Invalid(t, "(s_barrier 0)", "expected 0 operand(s)")
	check_Invalid(t, "(label (a))", "expected operand")
}

func Test_Write_01(t *testing.T) {
	check_RoundTrip(t, "(label a)\n(module inner\n  (s_barrier)\n  (module deeper\n    (s_setprio 1)\n  )\n)\n")
}

func Test_Write_02(t *testing.T) {
	check_RoundTrip(t, "(generic s_getreg_b32 :dst s4 hwreg)\n(s_waitcnt :vmcnt 0 :lgkmcnt 1)\n(s_waitcnt)\n")
}

func Test_Write_03(t *testing.T) {
	check_RoundTrip(t, "(buffer_load_dwordx4 v[8:11] v1 :latency 8)\n(ds_write_b128 v20 v[8:11])\n(v_mov_b64 v[0:1] v[2:3])\n")
}

func Test_Listings_01(t *testing.T) {
	check_Listing(t, "gemm_loop")
}

func Test_Listings_02(t *testing.T) {
	check_Listing(t, "no_boundary")
}

func Test_Listings_03(t *testing.T) {
	check_Listing(t, "overflow_chain")
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Module(t *testing.T, input string) *block.Module {
	t.Helper()
	//
	mod, err := Parse(source.NewFile("test.lisp", []byte(input)))
	if err != nil {
		t.Fatal(err)
	}
	//
	return mod
}

func check_Instruction[T insn.Instruction](t *testing.T, input string, expected string) T {
	t.Helper()
	//
	insts := check_Module(t, input).Flatten()
	//
	if len(insts) != 1 {
		t.Fatalf("expected one instruction, got %d", len(insts))
	}
	//
	inst, ok := insts[0].(T)
	//
	if !ok {
		t.Fatalf("unexpected instruction kind %T", insts[0])
	} else if inst.String() != expected {
		t.Errorf("expected \"%s\", got \"%s\"", expected, inst.String())
	}
	//
	return inst
}

func check_Invalid(t *testing.T, input string, msg string) {
	t.Helper()
	//
	if _, err := Parse(source.NewFile("test.lisp", []byte(input))); err == nil {
		t.Errorf("expected error for %s", input)
	} else if err.Message() != msg {
		t.Errorf("expected error \"%s\", got \"%s\"", msg, err.Message())
	}
}

func check_RoundTrip(t *testing.T, input string) {
	t.Helper()
	//
	var builder strings.Builder
	//
	if err := Write(&builder, check_Module(t, input)); err != nil {
		t.Fatal(err)
	} else if builder.String() != input {
		t.Errorf("expected:\n%s\ngot:\n%s", input, builder.String())
	}
}

func check_Listing(t *testing.T, test string) {
	t.Helper()
	//
	var (
		filename = fmt.Sprintf("%s/%s.lisp", TestDir, test)
		builder  strings.Builder
	)
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	//
	mod, serr := Parse(source.NewFile(filename, bytes))
	if serr != nil {
		t.Fatal(serr)
	} else if mod.Name != test {
		t.Errorf("expected module %s, got %s", test, mod.Name)
	}
	// Writing then parsing gives the same instructions
	if err := Write(&builder, mod); err != nil {
		t.Fatal(err)
	}
	//
	reparsed := check_Module(t, builder.String())
	//
	if a, b := flatText(mod), flatText(reparsed); a != b {
		t.Errorf("round trip mismatch:\n%s\nvs\n%s", a, b)
	}
}

func flatText(mod *block.Module) string {
	var lines []string
	//
	for _, inst := range mod.Flatten() {
		lines = append(lines, fmt.Sprintf("%T %s", inst, inst))
	}
	//
	return strings.Join(lines, "\n")
}
