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
	"fmt"

	"github.com/Serge45/mfmasched/pkg/asm/register"
	"github.com/Serge45/mfmasched/pkg/util"
)

// IssueCost returns the number of cycles taken to issue a given instruction.
// Global reads carry an explicit issue latency, labels are free and everything
// else takes a single cycle.
func IssueCost(inst Instruction) int {
	switch inst := inst.(type) {
	case *Label:
		return 0
	case *GlobalRead:
		return int(inst.Latency)
	case *Generic, *Common, *Mfma, *LocalWrite, *WaitCnt, *Barrier, *Move, *SetPrio:
		return 1
	default:
		panic(unknownInstruction(inst))
	}
}

// Sources returns the set of registers read by a given instruction, as far as
// the scheduler is concerned.  Instructions whose operands are not understood
// read nothing.
func Sources(inst Instruction) []register.Register {
	switch inst := inst.(type) {
	case *Common:
		return inst.Srcs
	case *Mfma:
		return []register.Register{inst.A, inst.B}
	case *GlobalRead:
		return []register.Register{inst.VAddr}
	case *LocalWrite:
		return []register.Register{inst.Src}
	case *Move:
		return []register.Register{inst.Src}
	case *Label, *Generic, *WaitCnt, *Barrier, *SetPrio:
		return nil
	default:
		panic(unknownInstruction(inst))
	}
}

// Destination returns the register written by a given instruction (if any).
// Observe that, for a local write, this is the register holding the target
// address.
func Destination(inst Instruction) util.Option[register.Register] {
	switch inst := inst.(type) {
	case *Generic:
		return inst.Dst
	case *Common:
		return inst.Dst
	case *Mfma:
		return util.Some(inst.Acc)
	case *GlobalRead:
		return util.Some(inst.Dst)
	case *LocalWrite:
		return util.Some(inst.DstAddr)
	case *Move:
		return util.Some(inst.Dst)
	case *Label, *WaitCnt, *Barrier, *SetPrio:
		return util.None[register.Register]()
	default:
		panic(unknownInstruction(inst))
	}
}

// HasDependency checks whether instruction b reads the register written by
// instruction a (i.e. a -> b).  Priority changes never act as the source of a
// dependency.  Otherwise, when a exposes no destination register, a
// dependency is assumed since nothing is known about what a writes.
func HasDependency(a Instruction, b Instruction) bool {
	if _, ok := a.(*SetPrio); ok {
		return false
	}
	//
	dst := Destination(a)
	// Unknown effect, so assume the worst.
	if dst.IsEmpty() {
		return true
	}
	//
	for _, src := range Sources(b) {
		if src == dst.Unwrap() {
			return true
		}
	}
	//
	return false
}

// IsMobile determines whether a given instruction may ever be relocated by the
// scheduler.  Matrix instructions, barriers and waits are fixed in place.
func IsMobile(inst Instruction) bool {
	switch inst.(type) {
	case *Mfma, *WaitCnt, *Barrier:
		return false
	default:
		return true
	}
}

func unknownInstruction(inst Instruction) string {
	return fmt.Sprintf("unknown instruction encountered (%s)", inst.String())
}
