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
	"github.com/Serge45/mfmasched/pkg/asm/insn"
	log "github.com/sirupsen/logrus"
)

// HoistGlobalReads moves global reads as early as possible in the schedule, so
// as to overlap their latency with that of matrix instructions.  A read is
// only hoisted when a boundary it logically belongs to can be found above it
// (i.e. a wait on vector memory, a barrier, or a move consuming its result).
// Within that boundary, the read is placed before the earliest run of
// instructions which are independent of it.  This is repeated, one move at a
// time, until no read can be moved.  The number of reads moved is returned.
func (p *Schedule) HoistGlobalReads() uint {
	var moved uint
	//
	for p.hoistGlobalRead() {
		moved++
	}
	//
	return moved
}

// Hoist the first global read (in program order) which can be moved, returning
// true if such a read was found.
func (p *Schedule) hoistGlobalRead() bool {
	var (
		from, to Position
		found    bool
	)
	//
	for pos, inst := range p.Forward(p.Start()) {
		read, ok := inst.(*insn.GlobalRead)
		//
		if !ok {
			continue
		}
		// Without a boundary, the read would be moved to the top of the loop.
		boundary, ok := p.findReadBoundary(pos, read)
		if !ok {
			continue
		}
		//
		if to, found = p.findHoistTarget(pos, read, boundary); found {
			from = pos
			break
		}
	}
	//
	if found {
		read := p.relocate(from, to)
		log.Debugf("hoisted %s from %s to %s", read, from, to)
	}
	//
	return found
}

// Find the nearest synchronisation point above a given global read.  This is
// either a wait on vector memory, a barrier or a move which consumes the
// result of the read.
func (p *Schedule) findReadBoundary(pos Position, read *insn.GlobalRead) (Position, bool) {
	for bpos, inst := range p.Reverse(pos) {
		switch inst := inst.(type) {
		case *insn.WaitCnt:
			if inst.VmCnt >= 0 {
				return bpos, true
			}
		case *insn.Barrier:
			return bpos, true
		case *insn.Move:
			if insn.HasDependency(read, inst) {
				return bpos, true
			}
		}
	}
	//
	return Position{}, false
}

// Find the earliest position, strictly between a given boundary and a given
// read, such that every instruction from that position up to the read is
// independent of it.  Matrix instructions crossed along the way must also be
// independent of the read.  Global reads are never reordered amongst
// themselves, since wait counts on vector memory rely on their issue order.
func (p *Schedule) findHoistTarget(pos Position, read *insn.GlobalRead, boundary Position) (Position, bool) {
	var (
		target Position
		found  bool
		// Group of the last position visited
		group = pos.Group
	)
	//
	for tpos, inst := range p.Reverse(pos) {
		if !boundary.Before(tpos) {
			break
		}
		// Check any anchors crossed by moving into an earlier group
		for ; group > tpos.Group; group-- {
			if conflicts(read, p.groups[group].Anchor) {
				return target, found
			}
		}
		//
		if _, ok := inst.(*insn.GlobalRead); ok || conflicts(read, inst) {
			break
		}
		//
		target, found = tpos, true
	}
	//
	return target, found
}

// Check whether two instructions cannot be reordered.  That is, whether either
// depends upon the other.
func conflicts(a insn.Instruction, b insn.Instruction) bool {
	return insn.HasDependency(a, b) || insn.HasDependency(b, a)
}
