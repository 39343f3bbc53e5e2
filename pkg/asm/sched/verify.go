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
	"fmt"

	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/bits-and-blooms/bitset"
	"go.uber.org/multierr"
)

// Verify checks that one instruction sequence is a legal reordering of
// another.  Specifically, that: every instruction appears in both sequences
// the same number of times; the prologue (i.e. everything before the first
// matrix instruction) is unchanged; every dependency between two instructions
// is respected; wait-count and barrier instructions retain their relative
// order; and, no global read is moved across a wait-count or barrier.
// Instructions are matched by their textual form, hence the two sequences need
// not share instruction values (e.g. when one is parsed from a file).  All
// violations found are combined into the error returned, from which they can
// be recovered with multierr.Errors.
func Verify(before []insn.Instruction, after []insn.Instruction) error {
	at, err := matchInstructions(before, after)
	// Ordering checks are meaningless unless all instructions were matched.
	if err != nil {
		return err
	}
	//
	var (
		boundaries = bitset.New(uint(len(before)))
		reads      = bitset.New(uint(len(before)))
		prologue   = len(before)
	)
	//
	for i, inst := range before {
		switch inst.(type) {
		case *insn.WaitCnt, *insn.Barrier:
			boundaries.Set(uint(i))
		case *insn.GlobalRead:
			reads.Set(uint(i))
		case *insn.Mfma:
			prologue = min(prologue, i)
		}
	}
	//
	for i := 0; i < prologue; i++ {
		if at[i] != i {
			err = multierr.Append(err, fmt.Errorf("prologue instruction %d (%s) moved to %d", i, before[i], at[i]))
		}
	}
	//
	for i := range before {
		for j := i + 1; j < len(before); j++ {
			if at[i] < at[j] {
				continue
			}
			//
			a, b := uint(i), uint(j)
			//
			switch {
			case boundaries.Test(a) && boundaries.Test(b):
				err = multierr.Append(err, fmt.Errorf("boundaries %d (%s) and %d (%s) reordered",
					i, before[i], j, before[j]))
			case boundaries.Test(a) && reads.Test(b), reads.Test(a) && boundaries.Test(b):
				err = multierr.Append(err, fmt.Errorf("global read %s moved across boundary %s",
					readOf(before, a, b), boundaryOf(before, a, b)))
			case insn.HasDependency(before[i], before[j]):
				err = multierr.Append(err, fmt.Errorf("%d (%s) no longer precedes dependent %d (%s)",
					i, before[i], j, before[j]))
			}
		}
	}
	//
	return err
}

// Match each instruction of the original sequence with its position in the
// reordered sequence.  Instructions with identical text are matched in order of
// appearance.
func matchInstructions(before []insn.Instruction, after []insn.Instruction) ([]int, error) {
	var (
		err     error
		at      = make([]int, len(before))
		matched = bitset.New(uint(len(before)))
		pending = make(map[string][]int)
	)
	//
	for i, inst := range before {
		key := inst.String()
		pending[key] = append(pending[key], i)
	}
	//
	for j, inst := range after {
		key := inst.String()
		//
		if candidates := pending[key]; len(candidates) > 0 {
			at[candidates[0]] = j
			matched.Set(uint(candidates[0]))
			pending[key] = candidates[1:]
		} else {
			err = multierr.Append(err, fmt.Errorf("instruction %d (%s) not in original block", j, inst))
		}
	}
	//
	for i, ok := matched.NextClear(0); ok && i < uint(len(before)); i, ok = matched.NextClear(i + 1) {
		err = multierr.Append(err, fmt.Errorf("instruction %d (%s) missing from reordered block", i, before[i]))
	}
	//
	return at, err
}

func readOf(insts []insn.Instruction, a uint, b uint) insn.Instruction {
	if _, ok := insts[a].(*insn.GlobalRead); ok {
		return insts[a]
	}
	//
	return insts[b]
}

func boundaryOf(insts []insn.Instruction, a uint, b uint) insn.Instruction {
	if _, ok := insts[a].(*insn.GlobalRead); ok {
		return insts[b]
	}
	//
	return insts[a]
}
