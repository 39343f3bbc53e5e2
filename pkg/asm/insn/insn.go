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
	"strings"

	"github.com/Serge45/mfmasched/pkg/asm/register"
	"github.com/Serge45/mfmasched/pkg/util"
)

// Instruction represents a single operation within the unrolled loop body of a
// generated matrix kernel.  The set of instructions is closed: every
// implementation lives in this package, and analyses over instructions switch
// exhaustively on the concrete kind.  Instructions are always handled by
// pointer, such that two occurrences of the same mnemonic and operands remain
// distinguishable.
type Instruction interface {
	// Produce a suitable (assembly-like) string representation of this
	// instruction.
	String() string
	// Seal the set of instructions.
	isInstruction()
}

// NOTE: This is used for compile time type checking if the given types
// satisfy the given interface.
var (
	_ Instruction = (*Label)(nil)
	_ Instruction = (*Generic)(nil)
	_ Instruction = (*Common)(nil)
	_ Instruction = (*Mfma)(nil)
	_ Instruction = (*GlobalRead)(nil)
	_ Instruction = (*LocalWrite)(nil)
	_ Instruction = (*WaitCnt)(nil)
	_ Instruction = (*Barrier)(nil)
	_ Instruction = (*Move)(nil)
	_ Instruction = (*SetPrio)(nil)
)

// ============================================================================
// Label
// ============================================================================

// Label marks a position in the instruction stream.  It has no effect on
// registers and takes no time to issue.
type Label struct {
	Name string
}

// NewLabel constructs a new label marker.
func NewLabel(name string) *Label {
	return &Label{name}
}

func (p *Label) isInstruction() {}

func (p *Label) String() string {
	return fmt.Sprintf("%s:", p.Name)
}

// ============================================================================
// Generic
// ============================================================================

// Generic represents an instruction whose source registers are not known to
// the scheduler.  It may write a destination register.
type Generic struct {
	Mnemonic string
	// Destination register (if known)
	Dst util.Option[register.Register]
	// Operands, kept only for printing.
	Args []string
}

// NewGeneric constructs an opaque instruction with no known destination.
func NewGeneric(mnemonic string, args ...string) *Generic {
	return &Generic{mnemonic, util.None[register.Register](), args}
}

// NewGenericWithDst constructs an opaque instruction which writes a given
// destination register.
func NewGenericWithDst(mnemonic string, dst register.Register, args ...string) *Generic {
	return &Generic{mnemonic, util.Some(dst), args}
}

func (p *Generic) isInstruction() {}

func (p *Generic) String() string {
	var operands []string
	//
	if p.Dst.HasValue() {
		operands = append(operands, p.Dst.Unwrap().String())
	}
	//
	return format(p.Mnemonic, append(operands, p.Args...)...)
}

// ============================================================================
// Common
// ============================================================================

// Common represents an ordinary register-effecting instruction, which reads
// zero or more source registers and (optionally) writes a destination
// register.
type Common struct {
	Mnemonic string
	Dst      util.Option[register.Register]
	Srcs     []register.Register
}

// NewCommon constructs a register-effecting instruction with a given
// destination.
func NewCommon(mnemonic string, dst register.Register, srcs ...register.Register) *Common {
	return &Common{mnemonic, util.Some(dst), srcs}
}

func (p *Common) isInstruction() {}

func (p *Common) String() string {
	var operands []string
	//
	if p.Dst.HasValue() {
		operands = append(operands, p.Dst.Unwrap().String())
	}
	//
	for _, src := range p.Srcs {
		operands = append(operands, src.String())
	}
	//
	return format(p.Mnemonic, operands...)
}

// ============================================================================
// Mfma
// ============================================================================

// Mfma represents a matrix fused-multiply-add instruction, which reads operand
// registers A and B, and accumulates into Acc.  These instructions anchor the
// schedule and are never moved.
type Mfma struct {
	Mnemonic string
	Acc      register.Register
	A        register.Register
	B        register.Register
}

// NewMfma constructs a new matrix instruction.
func NewMfma(mnemonic string, acc, a, b register.Register) *Mfma {
	return &Mfma{mnemonic, acc, a, b}
}

func (p *Mfma) isInstruction() {}

func (p *Mfma) String() string {
	return format(p.Mnemonic, p.Acc.String(), p.A.String(), p.B.String(), p.Acc.String())
}

// ============================================================================
// GlobalRead
// ============================================================================

// GlobalRead represents a load from global memory into Dst using the address
// held in VAddr.  Unlike most instructions, this has an explicit issue latency.
type GlobalRead struct {
	Mnemonic string
	Dst      register.Register
	VAddr    register.Register
	// Number of cycles needed to issue this read.
	Latency uint
}

// NewGlobalRead constructs a new global read with a given issue latency.
func NewGlobalRead(mnemonic string, dst, vaddr register.Register, latency uint) *GlobalRead {
	return &GlobalRead{mnemonic, dst, vaddr, latency}
}

func (p *GlobalRead) isInstruction() {}

func (p *GlobalRead) String() string {
	return format(p.Mnemonic, p.Dst.String(), p.VAddr.String())
}

// ============================================================================
// LocalWrite
// ============================================================================

// LocalWrite represents a store of Src into local (shared) memory at the
// address held in DstAddr.
type LocalWrite struct {
	Mnemonic string
	DstAddr  register.Register
	Src      register.Register
}

// NewLocalWrite constructs a new local memory write.
func NewLocalWrite(mnemonic string, dstAddr, src register.Register) *LocalWrite {
	return &LocalWrite{mnemonic, dstAddr, src}
}

func (p *LocalWrite) isInstruction() {}

func (p *LocalWrite) String() string {
	return format(p.Mnemonic, p.DstAddr.String(), p.Src.String())
}

// ============================================================================
// WaitCnt
// ============================================================================

// UNSET_COUNT marks a wait count field which is not set.
const UNSET_COUNT = -1

// WaitCnt waits until the number of outstanding memory operations drops to the
// given counts.  A field holding UNSET_COUNT is not waited upon.
type WaitCnt struct {
	// Number of outstanding vector memory loads permitted.
	VmCnt int
	// Number of outstanding local memory operations permitted.
	LgkmCnt int
}

// NewWaitCnt constructs a new wait instruction.
func NewWaitCnt(vmcnt int, lgkmcnt int) *WaitCnt {
	return &WaitCnt{vmcnt, lgkmcnt}
}

func (p *WaitCnt) isInstruction() {}

func (p *WaitCnt) String() string {
	var counts []string
	//
	if p.VmCnt != UNSET_COUNT {
		counts = append(counts, fmt.Sprintf("vmcnt(%d)", p.VmCnt))
	}
	//
	if p.LgkmCnt != UNSET_COUNT {
		counts = append(counts, fmt.Sprintf("lgkmcnt(%d)", p.LgkmCnt))
	}
	//
	if len(counts) == 0 {
		return "s_waitcnt"
	}
	//
	return fmt.Sprintf("s_waitcnt %s", strings.Join(counts, " "))
}

// ============================================================================
// Barrier
// ============================================================================

// Barrier synchronises all waves of a workgroup.
type Barrier struct{}

// NewBarrier constructs a new barrier.
func NewBarrier() *Barrier {
	return &Barrier{}
}

func (p *Barrier) isInstruction() {}

func (p *Barrier) String() string {
	return "s_barrier"
}

// ============================================================================
// Move
// ============================================================================

// Move copies Src into Dst, where Width is either 32 or 64 bits.
type Move struct {
	Width uint
	Dst   register.Register
	Src   register.Register
}

// NewMove constructs a new register move of a given width.
func NewMove(width uint, dst, src register.Register) *Move {
	if width != 32 && width != 64 {
		panic(fmt.Sprintf("unsupported move width (%d)", width))
	}
	//
	return &Move{width, dst, src}
}

func (p *Move) isInstruction() {}

func (p *Move) String() string {
	return format(fmt.Sprintf("v_mov_b%d", p.Width), p.Dst.String(), p.Src.String())
}

// ============================================================================
// SetPrio
// ============================================================================

// SetPrio changes the issue priority of the current wave.
type SetPrio struct {
	Priority uint
}

// NewSetPrio constructs a new priority instruction.
func NewSetPrio(priority uint) *SetPrio {
	return &SetPrio{priority}
}

func (p *SetPrio) isInstruction() {}

func (p *SetPrio) String() string {
	return fmt.Sprintf("s_setprio %d", p.Priority)
}

// ============================================================================
// Helpers
// ============================================================================

func format(mnemonic string, operands ...string) string {
	if len(operands) == 0 {
		return mnemonic
	}
	//
	return fmt.Sprintf("%s %s", mnemonic, strings.Join(operands, ", "))
}
