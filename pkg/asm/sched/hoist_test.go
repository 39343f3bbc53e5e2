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
package sched

import (
	"testing"

	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/Serge45/mfmasched/pkg/asm/register"
)

func Test_Hoist_01(t *testing.T) {
	// Read immediately preceded by its boundary stays put.
	var (
		wait = insn.NewWaitCnt(0, insn.UNSET_COUNT)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), wait, read)
	//
	check_Hoist(t, s, 0)
	check_Instructions(t, s.Group(0).Instructions, wait, read)
}

func Test_Hoist_02(t *testing.T) {
	// Without any boundary, the read is left alone.
	var (
		c0   = add(12)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), c0, mfma(0, 1), read)
	//
	check_Hoist(t, s, 0)
	check_Latencies(t, s, 7, 4)
}

func Test_Hoist_03(t *testing.T) {
	// Hoist into an earlier group, stopping just after the barrier.
	var (
		bar  = insn.NewBarrier()
		c0   = add(12)
		c1   = add(13)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), bar, c0, c1, mfma(0, 1), read)
	//
	check_Hoist(t, s, 1)
	check_Instructions(t, s.Group(0).Instructions, bar, read, c0, c1)
	check_Latencies(t, s, 1, 8)
}

func Test_Hoist_04(t *testing.T) {
	// Hoisting stops at an instruction writing the read address.
	var (
		bar  = insn.NewBarrier()
		c0   = add(11)
		c1   = add(13)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), bar, c0, c1, read)
	//
	check_Hoist(t, s, 1)
	check_Instructions(t, s.Group(0).Instructions, bar, c0, read, c1)
}

func Test_Hoist_05(t *testing.T) {
	// Hoisting stops at an instruction reading the loaded register.
	var (
		bar  = insn.NewBarrier()
		c0   = add(12, 10)
		c1   = add(13)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), bar, c0, c1, read)
	//
	check_Hoist(t, s, 1)
	check_Instructions(t, s.Group(0).Instructions, bar, c0, read, c1)
}

func Test_Hoist_06(t *testing.T) {
	// A matrix instruction using the loaded register cannot be crossed.
	var (
		bar  = insn.NewBarrier()
		c0   = add(12)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), bar, c0, mfma(10, 1), read)
	//
	check_Hoist(t, s, 0)
	check_Instructions(t, s.Group(1).Instructions, read)
}

func Test_Hoist_07(t *testing.T) {
	// Reads never overtake one another.
	var (
		bar   = insn.NewBarrier()
		c0    = add(12)
		read1 = load(10, 11, 2)
		read2 = load(14, 15, 2)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), bar, c0, mfma(0, 1), read1, read2)
	//
	check_Hoist(t, s, 2)
	check_Instructions(t, s.Group(0).Instructions, bar, read1, read2, c0)
	check_Latencies(t, s, 2, 8)
}

func Test_Hoist_08(t *testing.T) {
	// A move reading the loaded register is a boundary.
	var (
		c0   = add(12)
		mov  = insn.NewMove(32, register.Vector(13), register.Vector(10))
		c1   = add(14)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), c0, mov, c1, mfma(0, 1), read)
	//
	check_Hoist(t, s, 1)
	check_Instructions(t, s.Group(0).Instructions, c0, mov, read, c1)
}

func Test_Hoist_09(t *testing.T) {
	// Wait counts which don't wait on loads are not boundaries, but still
	// cannot be crossed.
	var (
		wait = insn.NewWaitCnt(insn.UNSET_COUNT, 0)
		c0   = add(12)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), insn.NewBarrier(), wait, c0, read)
	//
	check_Hoist(t, s, 1)
	check_Instructions(t, s.Group(0).Instructions[1:], wait, read, c0)
}

func Test_Hoist_10(t *testing.T) {
	// Boundary in the same group as the read.
	var (
		c0   = add(12)
		bar  = insn.NewBarrier()
		c1   = add(13)
		read = load(10, 11, 4)
	)
	//
	_, s := check_Partition(t, 8, mfma(0, 1), c0, mfma(0, 1), bar, c1, read)
	//
	check_Hoist(t, s, 1)
	check_Instructions(t, s.Group(0).Instructions, c0)
	check_Instructions(t, s.Group(1).Instructions, bar, read, c1)
}

func check_Hoist(t *testing.T, s *Schedule, expected uint) {
	t.Helper()
	//
	before := s.Flatten()
	//
	if moved := s.HoistGlobalReads(); moved != expected {
		t.Errorf("expected %d reads hoisted, got %d:\n%s", expected, moved, s)
	}
	//
	if err := Verify(before, s.Flatten()); err != nil {
		t.Error(err)
	}
	// Hoisting is a fixpoint
	if moved := s.HoistGlobalReads(); moved != 0 {
		t.Errorf("expected no further reads hoisted, got %d", moved)
	}
}
