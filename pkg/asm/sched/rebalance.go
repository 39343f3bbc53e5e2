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

// Sweep makes a single rebalancing pass over the interior groups of this
// schedule (i.e. excluding the first and last), visiting them in either
// forward or reverse order.  Each overflowing group has (at most) one
// instruction pushed from its tail into the following group.  The number of
// instructions moved is returned.
func (p *Schedule) Sweep(reverse bool) uint {
	var (
		moved uint
		n     = uint(len(p.groups))
	)
	//
	if n < 3 {
		return 0
	}
	//
	for k := uint(1); k < n-1; k++ {
		i := k
		//
		if reverse {
			i = n - 1 - k
		}
		//
		if p.relieve(i) {
			moved++
		}
	}
	//
	return moved
}

// Attempt to relieve an overflowing group by moving its last instruction to
// the front of the following group.  This is only possible when the following
// group has latency to spare, and the instruction can be safely reordered with
// the following group's anchor.  Barriers and waits are never moved.
func (p *Schedule) relieve(i uint) bool {
	var (
		group = &p.groups[i]
		n     = uint(len(group.Instructions))
	)
	//
	if !group.Overflowing() || n == 0 || i+1 >= uint(len(p.groups)) {
		return false
	}
	//
	var (
		next = &p.groups[i+1]
		last = group.Instructions[n-1]
	)
	//
	if next.Overflowing() || conflicts(last, next.Anchor) {
		log.Debugf("unable to optimize MFMA-%d", i)
		return false
	} else if !insn.IsMobile(last) {
		return false
	}
	//
	p.relocate(Position{i, n - 1}, Position{i + 1, 0})
	log.Debugf("moved %s from MFMA-%d to MFMA-%d", last, i, i+1)
	//
	return true
}
