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
package insn

import (
	"testing"

	"github.com/Serge45/mfmasched/pkg/asm/register"
)

var (
	v0   = register.Vector(0)
	v1   = register.Vector(1)
	v2   = register.Vector(2)
	v8   = register.New(register.VECTOR_REGISTER, 8, 4)
	acc0 = register.New(register.ACCUMULATION_REGISTER, 0, 16)
)

func Test_Dependency_01(t *testing.T) {
	// Read result of an add.
	check_Dependency(t, NewCommon("v_add_u32", v0, v1, v2), NewCommon("v_add_u32", v2, v0, v1), true)
}

func Test_Dependency_02(t *testing.T) {
	check_Dependency(t, NewCommon("v_add_u32", v0, v1, v2), NewCommon("v_add_u32", v2, v1, v1), false)
}

func Test_Dependency_03(t *testing.T) {
	// Matrix operands are sources.
	check_Dependency(t, NewMove(32, v1, v2), NewMfma("v_mfma_f32_32x32x8f16", acc0, v0, v1), true)
}

func Test_Dependency_04(t *testing.T) {
	// Accumulator is not a source of a matrix instruction.
	check_Dependency(t, NewMfma("v_mfma_f32_32x32x8f16", acc0, v0, v1), NewMfma("v_mfma_f32_32x32x8f16", acc0, v0, v1), false)
}

func Test_Dependency_05(t *testing.T) {
	// Global read address.
	check_Dependency(t, NewCommon("v_add_u32", v1, v1, v2), NewGlobalRead("buffer_load_dwordx4", v8, v1, 8), true)
}

func Test_Dependency_06(t *testing.T) {
	// Local write reads the stored register.
	check_Dependency(t, NewGlobalRead("buffer_load_dwordx4", v8, v1, 8), NewLocalWrite("ds_write_b128", v2, v8), true)
}

func Test_Dependency_07(t *testing.T) {
	// Local write address register acts as its destination.
	check_Dependency(t, NewLocalWrite("ds_write_b128", v2, v8), NewMove(32, v0, v2), true)
}

func Test_Dependency_08(t *testing.T) {
	// Priority changes are never the source of a dependency.
	check_Dependency(t, NewSetPrio(3), NewCommon("v_add_u32", v0, v1, v2), false)
}

func Test_Dependency_09(t *testing.T) {
	// Unknown destinations are conservatively assumed to be dependencies.
	check_Dependency(t, NewBarrier(), NewCommon("v_add_u32", v0, v1, v2), true)
	check_Dependency(t, NewWaitCnt(0, UNSET_COUNT), NewMove(32, v0, v1), true)
	check_Dependency(t, NewGeneric("s_nop", "0"), NewMove(32, v0, v1), true)
	check_Dependency(t, NewLabel("loop"), NewMove(32, v0, v1), true)
}

func Test_Dependency_10(t *testing.T) {
	// Instructions with unknown sources never depend on anything.
	check_Dependency(t, NewMove(32, v0, v1), NewGeneric("s_nop", "0"), false)
	check_Dependency(t, NewMove(32, v0, v1), NewBarrier(), false)
}

func Test_Dependency_11(t *testing.T) {
	// Registers are compared by identity, not by overlap.
	check_Dependency(t, NewGlobalRead("buffer_load_dwordx4", v8, v1, 8), NewMove(32, v0, register.Vector(8)), false)
}

func Test_Dependency_12(t *testing.T) {
	// Generic instruction with a known destination.
	check_Dependency(t, NewGenericWithDst("v_perm_b32", v0, "v1", "v2", "s0"), NewMove(32, v1, v0), true)
}

func Test_IssueCost_01(t *testing.T) {
	check_IssueCost(t, NewLabel("loop"), 0)
	check_IssueCost(t, NewGlobalRead("buffer_load_dwordx4", v8, v1, 8), 8)
	check_IssueCost(t, NewMove(64, v0, v1), 1)
	check_IssueCost(t, NewBarrier(), 1)
	check_IssueCost(t, NewWaitCnt(0, 0), 1)
	check_IssueCost(t, NewSetPrio(0), 1)
	check_IssueCost(t, NewLocalWrite("ds_write_b128", v2, v8), 1)
}

func Test_Mobile_01(t *testing.T) {
	if IsMobile(NewBarrier()) || IsMobile(NewWaitCnt(0, 0)) || IsMobile(NewMfma("v_mfma", acc0, v0, v1)) {
		t.Errorf("expected barriers, waits and matrix instructions to be immobile")
	}
	//
	if !IsMobile(NewMove(32, v0, v1)) || !IsMobile(NewGlobalRead("buffer_load_dword", v0, v1, 4)) {
		t.Errorf("expected moves and reads to be mobile")
	}
}

func Test_String_01(t *testing.T) {
	check_String(t, NewWaitCnt(0, UNSET_COUNT), "s_waitcnt vmcnt(0)")
	check_String(t, NewWaitCnt(UNSET_COUNT, 2), "s_waitcnt lgkmcnt(2)")
	check_String(t, NewWaitCnt(UNSET_COUNT, UNSET_COUNT), "s_waitcnt")
	check_String(t, NewMove(64, v0, v1), "v_mov_b64 v0, v1")
	check_String(t, NewMfma("v_mfma_f32_32x32x8f16", acc0, v0, v1), "v_mfma_f32_32x32x8f16 acc[0:15], v0, v1, acc[0:15]")
	check_String(t, NewLabel("loop"), "loop:")
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Dependency(t *testing.T, a Instruction, b Instruction, expected bool) {
	if actual := HasDependency(a, b); actual != expected {
		t.Errorf("expected dependency %s -> %s to be %t", a, b, expected)
	}
}

func check_IssueCost(t *testing.T, inst Instruction, expected int) {
	if actual := IssueCost(inst); actual != expected {
		t.Errorf("expected issue cost of %s to be %d, got %d", inst, expected, actual)
	}
}

func check_String(t *testing.T, inst Instruction, expected string) {
	if actual := inst.String(); actual != expected {
		t.Errorf("expected \"%s\", got \"%s\"", expected, actual)
	}
}
