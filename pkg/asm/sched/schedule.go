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
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/Serge45/mfmasched/pkg/asm/block"
	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/Serge45/mfmasched/pkg/util/collection/hash"
)

// ErrNoMfma signals an attempt to schedule a block containing no matrix
// instruction.
var ErrNoMfma = errors.New("no matrix instruction found in block")

// Group captures a single matrix instruction, together with the instructions
// which are issued after it and before the next matrix instruction.  Since the
// matrix instruction executes for a fixed number of cycles, instructions
// issued in its shadow are (in principle) free.
type Group struct {
	// Matrix instruction anchoring this group
	Anchor *insn.Mfma
	// Remaining latency budget of this group.  A negative value indicates the
	// instructions of this group take longer to issue than the anchor takes to
	// execute.
	LatencyLeft int
	// Instructions issued after the anchor, in program order.
	Instructions []insn.Instruction
}

// Overflowing determines whether the instructions of this group exceed its
// latency budget.
func (p *Group) Overflowing() bool {
	return p.LatencyLeft < 0
}

// Append an instruction onto the end of this group.
func (p *Group) append(inst insn.Instruction) {
	p.Instructions = append(p.Instructions, inst)
	p.LatencyLeft -= insn.IssueCost(inst)
}

// Insert an instruction at a given index within this group.
func (p *Group) insert(index uint, inst insn.Instruction) {
	p.Instructions = append(p.Instructions, nil)
	copy(p.Instructions[index+1:], p.Instructions[index:])
	p.Instructions[index] = inst
	p.LatencyLeft -= insn.IssueCost(inst)
}

// Remove the instruction at a given index from this group.
func (p *Group) remove(index uint) insn.Instruction {
	inst := p.Instructions[index]
	p.Instructions = append(p.Instructions[:index], p.Instructions[index+1:]...)
	p.LatencyLeft += insn.IssueCost(inst)
	//
	return inst
}

// Position identifies an instruction within a schedule by the index of its
// group, and its index within that group.
type Position struct {
	Group uint
	Index uint
}

// Before determines whether this position precedes another in program order.
func (p Position) Before(other Position) bool {
	return p.Group < other.Group || (p.Group == other.Group && p.Index < other.Index)
}

func (p Position) String() string {
	return fmt.Sprintf("MFMA-%d[%d]", p.Group, p.Index)
}

// Schedule is the body of a basic block, partitioned into groups.  Groups are
// never created or destroyed once the schedule is constructed; only their
// instructions move between them.
type Schedule struct {
	miLatency uint
	groups    []Group
	// Identity of every instruction in the schedule, used for fingerprinting.
	ids map[insn.Instruction]uint
}

// Partition splits a basic block into its prologue (the instructions preceding
// the first matrix instruction) and a schedule covering the remainder.  Each
// group is given an initial latency budget of miLatency, less the issue cost
// of its instructions.  An error is returned if the block contains no matrix
// instruction.
func Partition(bb *block.BasicBlock, miLatency uint) ([]insn.Instruction, *Schedule, error) {
	var (
		insts    = bb.Instructions()
		schedule = &Schedule{miLatency, nil, make(map[insn.Instruction]uint, len(insts))}
		start    = len(insts)
	)
	// Find first matrix instruction
	for i, inst := range insts {
		if _, ok := inst.(*insn.Mfma); ok {
			start = i
			break
		}
	}
	//
	if start == len(insts) {
		return nil, nil, fmt.Errorf("%w (%d instructions)", ErrNoMfma, len(insts))
	}
	//
	for i, inst := range insts[start:] {
		schedule.ids[inst] = uint(i)
		//
		if mfma, ok := inst.(*insn.Mfma); ok {
			schedule.groups = append(schedule.groups, Group{mfma, int(miLatency), nil})
		} else {
			schedule.groups[len(schedule.groups)-1].append(inst)
		}
	}
	//
	prologue := make([]insn.Instruction, start)
	copy(prologue, insts[:start])
	//
	return prologue, schedule, nil
}

// MiLatency returns the latency budget given to each group.
func (p *Schedule) MiLatency() uint {
	return p.miLatency
}

// Len returns the number of groups in this schedule.
func (p *Schedule) Len() uint {
	return uint(len(p.groups))
}

// Group returns the ith group of this schedule.  This should not be modified
// by the caller.
func (p *Schedule) Group(i uint) *Group {
	return &p.groups[i]
}

// At returns the instruction at a given position.
func (p *Schedule) At(pos Position) insn.Instruction {
	return p.groups[pos.Group].Instructions[pos.Index]
}

// Overflowing returns the number of groups whose instructions exceed their
// latency budget.
func (p *Schedule) Overflowing() uint {
	var count uint
	//
	for i := range p.groups {
		if p.groups[i].Overflowing() {
			count++
		}
	}
	//
	return count
}

// Score rates this schedule, where 1.0 indicates no group exceeds its latency
// budget.  The score decreases in proportion to the total overflow, relative
// to the total budget of all groups.
func (p *Schedule) Score() float64 {
	var overflow int
	//
	for _, g := range p.groups {
		if g.LatencyLeft < 0 {
			overflow -= g.LatencyLeft
		}
	}
	//
	return 1 - float64(overflow)/float64(uint(len(p.groups))*p.miLatency)
}

// Flatten returns the instructions of this schedule in program order, with
// each anchor followed by the instructions of its group.
func (p *Schedule) Flatten() []insn.Instruction {
	var insts = make([]insn.Instruction, 0, len(p.ids))
	//
	for _, g := range p.groups {
		insts = append(insts, g.Anchor)
		insts = append(insts, g.Instructions...)
	}
	//
	return insts
}

// Forward traverses the instructions of this schedule in program order,
// starting from (and including) a given position.
func (p *Schedule) Forward(from Position) iter.Seq2[Position, insn.Instruction] {
	return func(yield func(Position, insn.Instruction) bool) {
		for g := from.Group; g < uint(len(p.groups)); g++ {
			var (
				insts = p.groups[g].Instructions
				start = uint(0)
			)
			//
			if g == from.Group {
				start = from.Index
			}
			//
			for i := start; i < uint(len(insts)); i++ {
				if !yield(Position{g, i}, insts[i]) {
					return
				}
			}
		}
	}
}

// Reverse traverses the instructions of this schedule in reverse program
// order, starting from the position immediately preceding (and excluding) a
// given position.
func (p *Schedule) Reverse(before Position) iter.Seq2[Position, insn.Instruction] {
	return func(yield func(Position, insn.Instruction) bool) {
		for g := min(before.Group+1, uint(len(p.groups))); g > 0; g-- {
			var (
				insts = p.groups[g-1].Instructions
				end   = uint(len(insts))
			)
			//
			if g-1 == before.Group {
				end = min(before.Index, end)
			}
			//
			for i := end; i > 0; i-- {
				if !yield(Position{g - 1, i - 1}, insts[i-1]) {
					return
				}
			}
		}
	}
}

// Start returns the position of the first instruction slot in this schedule.
func (p *Schedule) Start() Position {
	return Position{0, 0}
}

// End returns the position one past the last instruction of this schedule.
func (p *Schedule) End() Position {
	return Position{uint(len(p.groups)), 0}
}

// relocate moves the instruction at one position to another, adjusting the
// latency budgets of both groups.  The target index is interpreted after the
// instruction has been removed from its original position.
func (p *Schedule) relocate(from Position, to Position) insn.Instruction {
	inst := p.groups[from.Group].remove(from.Index)
	p.groups[to.Group].insert(to.Index, inst)
	//
	return inst
}

// Fingerprint identifies the current order of instructions in this schedule.
// Two schedules over the same instructions have equal fingerprints if, and
// only if, their instructions are in the same order.
func (p *Schedule) Fingerprint() Fingerprint {
	var keys = make([]hash.UintKey, 0, len(p.ids))
	//
	for _, g := range p.groups {
		keys = append(keys, hash.UintKey(p.ids[g.Anchor]))
		//
		for _, inst := range g.Instructions {
			keys = append(keys, hash.UintKey(p.ids[inst]))
		}
	}
	//
	return hash.NewArray(keys)
}

// Fingerprint provides a content-derived identifier of a schedule.
type Fingerprint = hash.Array[hash.UintKey]

// snapshot captures the current contents of every group, such that they can
// be restored later.
func (p *Schedule) snapshot() []Group {
	groups := make([]Group, len(p.groups))
	//
	for i, g := range p.groups {
		groups[i] = Group{g.Anchor, g.LatencyLeft, append([]insn.Instruction(nil), g.Instructions...)}
	}
	//
	return groups
}

func (p *Schedule) restore(groups []Group) {
	p.groups = groups
}

func (p *Schedule) String() string {
	var builder strings.Builder
	//
	for i, g := range p.groups {
		builder.WriteString(fmt.Sprintf("MFMA-%d (%d): %s\n", i, g.LatencyLeft, g.Anchor))
		//
		for _, inst := range g.Instructions {
			builder.WriteString(fmt.Sprintf("\t%s\n", inst))
		}
	}
	//
	return builder.String()
}
