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
	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/Serge45/mfmasched/pkg/util/collection/iter"
)

// BasicBlock is a flat sequence of instructions in program order, as extracted
// from a module.  The position of an instruction within the block is the only
// ordering information there is.
type BasicBlock struct {
	instructions []insn.Instruction
}

// New constructs a basic block by flattening a given module.
func New(mod *Module) *BasicBlock {
	return &BasicBlock{mod.Flatten()}
}

// FromInstructions constructs a basic block from a given sequence of
// instructions.
func FromInstructions(insts ...insn.Instruction) *BasicBlock {
	return &BasicBlock{insts}
}

// Len returns the number of instructions in this block.
func (p *BasicBlock) Len() uint {
	return uint(len(p.instructions))
}

// Instruction returns the ith instruction of this block.
func (p *BasicBlock) Instruction(i uint) insn.Instruction {
	return p.instructions[i]
}

// Instructions returns the underlying instructions of this block.  This should
// not be modified by the caller.
func (p *BasicBlock) Instructions() []insn.Instruction {
	return p.instructions
}

// SetInstructions replaces the instructions of this block, for example after
// they have been reordered.
func (p *BasicBlock) SetInstructions(insts []insn.Instruction) {
	p.instructions = insts
}

// Iter returns an iterator over the instructions of this block, in program
// order.
func (p *BasicBlock) Iter() iter.Iterator[insn.Instruction] {
	return iter.NewArrayIterator(p.instructions)
}

// Filter returns an iterator over those instructions of this block matching a
// given predicate.
func (p *BasicBlock) Filter(predicate iter.Predicate[insn.Instruction]) iter.Iterator[insn.Instruction] {
	return iter.NewFilterIterator(p.Iter(), predicate)
}

// ToModule reconstructs a module from this block by emitting its instructions
// in their current order.  No validation is performed.
func (p *BasicBlock) ToModule(name string) *Module {
	return NewModule(name).AddAll(p.instructions...)
}

// OfType returns an iterator over those instructions of a block which are of
// a given kind.  For example, OfType[*insn.GlobalRead](bb) visits every global
// read.  The iterator is lazy, and may be restarted by cloning it before use.
func OfType[T insn.Instruction](bb *BasicBlock) iter.Iterator[T] {
	return iter.NewTypeIterator[insn.Instruction, T](bb.Iter())
}
