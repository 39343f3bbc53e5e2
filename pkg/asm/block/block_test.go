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
package block

import (
	"testing"

	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/Serge45/mfmasched/pkg/asm/register"
)

var (
	v0   = register.Vector(0)
	v1   = register.Vector(1)
	v2   = register.Vector(2)
	acc0 = register.New(register.ACCUMULATION_REGISTER, 0, 4)
)

func Test_Module_01(t *testing.T) {
	var (
		mfma = insn.NewMfma("v_mfma_f32_16x16x16f16", acc0, v0, v1)
		read = insn.NewGlobalRead("buffer_load_dword", v2, v1, 4)
		wait = insn.NewWaitCnt(0, insn.UNSET_COUNT)
		mov  = insn.NewMove(32, v0, v2)
	)
	//
	inner := NewModule("inner").AddAll(read, wait)
	outer := NewModule("outer").Add(mfma).Add(inner).Add(mov)
	//
	check_Instructions(t, outer.Flatten(), mfma, read, wait, mov)
}

func Test_Module_02(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected unknown item to panic")
		}
	}()
	//
	NewModule("m").Add(register.Vector(0))
}

func Test_BasicBlock_01(t *testing.T) {
	var (
		read1 = insn.NewGlobalRead("buffer_load_dword", v2, v1, 4)
		read2 = insn.NewGlobalRead("buffer_load_dword", v0, v1, 4)
		mfma  = insn.NewMfma("v_mfma_f32_16x16x16f16", acc0, v0, v1)
		bb    = FromInstructions(read1, mfma, insn.NewBarrier(), read2)
	)
	//
	reads := OfType[*insn.GlobalRead](bb)
	restart := reads.Clone()
	//
	if n := reads.Count(); n != 2 {
		t.Errorf("expected 2 global reads, got %d", n)
	}
	//
	if items := reads.Collect(); len(items) != 2 || items[0] != read1 || items[1] != read2 {
		t.Errorf("unexpected global reads %v", items)
	}
	// Iteration can be restarted
	if !restart.HasNext() || restart.Next() != read1 {
		t.Errorf("expected restarted iterator to begin at first read")
	}
}

func Test_BasicBlock_02(t *testing.T) {
	var (
		mfma = insn.NewMfma("v_mfma_f32_16x16x16f16", acc0, v0, v1)
		bb   = FromInstructions(insn.NewLabel("loop"), mfma, insn.NewBarrier())
	)
	//
	immobile := bb.Filter(func(inst insn.Instruction) bool { return !insn.IsMobile(inst) })
	//
	if n := immobile.Count(); n != 2 {
		t.Errorf("expected 2 immobile instructions, got %d", n)
	}
}

func Test_BasicBlock_03(t *testing.T) {
	var (
		mfma = insn.NewMfma("v_mfma_f32_16x16x16f16", acc0, v0, v1)
		mov  = insn.NewMove(64, v0, v2)
		bb   = New(NewModule("loop").Add(NewModule("body").AddAll(mfma, mov)))
		mod  = bb.ToModule("optimized")
	)
	// Round trip through a module
	if mod.Name != "optimized" || len(mod.Items) != 2 {
		t.Errorf("unexpected module %s", mod)
	}
	//
	check_Instructions(t, New(mod).Instructions(), mfma, mov)
	//
	if bb.Len() != 2 || bb.Instruction(1) != mov {
		t.Errorf("unexpected block contents")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Instructions(t *testing.T, actual []insn.Instruction, expected ...insn.Instruction) {
	if len(actual) != len(expected) {
		t.Errorf("expected %d instructions, got %d", len(expected), len(actual))
		return
	}
	//
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("expected %s at position %d, got %s", expected[i], i, actual[i])
		}
	}
}
