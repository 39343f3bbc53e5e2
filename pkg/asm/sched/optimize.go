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

	"github.com/Serge45/mfmasched/pkg/asm/block"
	"github.com/Serge45/mfmasched/pkg/util/collection/hash"
	log "github.com/sirupsen/logrus"
)

// Report summarises what happened during a scheduling run.
type Report struct {
	// Number of groups exceeding their latency budget before optimisation.
	Optimizable uint `json:"optimizable"`
	// Score of the schedule before any optimisation.
	ScoreBefore float64 `json:"score_before"`
	// Score of the schedule after global reads were hoisted.
	ScoreAfterHoist float64 `json:"score_after_hoist"`
	// Score of the final schedule.
	ScoreAfter float64 `json:"score_after"`
	// Number of global reads hoisted.
	Hoisted uint `json:"hoisted"`
	// Number of instructions moved when rebalancing.
	Moved uint `json:"moved"`
	// Number of rebalancing sweeps performed (including any rolled back).
	Sweeps uint `json:"sweeps"`
	// Indicates rebalancing stopped because a schedule repeated.
	Cycle bool `json:"cycle"`
	// Indicates rebalancing stopped because a sweep lowered the score.
	RolledBack bool `json:"rolled_back"`
}

func (p Report) String() string {
	return fmt.Sprintf("optimizable=%d score=%0.4f->%0.4f->%0.4f hoisted=%d moved=%d sweeps=%d",
		p.Optimizable, p.ScoreBefore, p.ScoreAfterHoist, p.ScoreAfter, p.Hoisted, p.Moved, p.Sweeps)
}

// Optimize reorders the instructions of a basic block representing one
// unrolled loop iteration, so as to hide the latency of global reads and
// other instructions behind matrix instructions.  The block is modified in
// place: its prologue (everything before the first matrix instruction) is
// retained verbatim, followed by each matrix instruction and the
// instructions now scheduled after it.  The block is left untouched if an
// error is returned, which happens when the configuration is invalid or the
// block contains no matrix instruction.
func Optimize(bb *block.BasicBlock, cfg Config) (Report, error) {
	var report Report
	//
	if err := cfg.Validate(); err != nil {
		return report, err
	}
	//
	prologue, schedule, err := Partition(bb, cfg.MiLatency)
	if err != nil {
		return report, err
	}
	//
	report.Optimizable = schedule.Overflowing()
	report.ScoreBefore = schedule.Score()
	//
	log.Infof("optimizable # of MFMAs: %d", report.Optimizable)
	log.Infof("score before global read optimization: %0.4f", report.ScoreBefore)
	//
	report.Hoisted = schedule.HoistGlobalReads()
	report.ScoreAfterHoist = schedule.Score()
	//
	log.Infof("score after global read optimization: %0.4f (%d reads hoisted)", report.ScoreAfterHoist, report.Hoisted)
	//
	schedule.rebalance(cfg, &report)
	report.ScoreAfter = schedule.Score()
	//
	log.Infof("%d instructions moved", report.Moved)
	log.Infof("score after optimization: %0.4f", report.ScoreAfter)
	//
	bb.SetInstructions(append(prologue, schedule.Flatten()...))
	//
	return report, nil
}

// Repeatedly sweep this schedule until a sweep moves nothing.  A sweep which
// lowers the score is undone, and ends rebalancing.  Since accepted sweeps
// never lower the score, the current schedule is always the best seen so far.
// Rebalancing also stops if a schedule is seen for a second time, since
// sweeps would otherwise oscillate between schedules indefinitely.
func (p *Schedule) rebalance(cfg Config, report *Report) {
	var (
		history = hash.NewSet[Fingerprint](0)
		score   = p.Score()
	)
	//
	history.Insert(p.Fingerprint())
	//
	for n := uint(0); cfg.MaxSweeps == 0 || n < cfg.MaxSweeps; n++ {
		var (
			before = p.snapshot()
			moved  = p.Sweep(cfg.Sweep.Reverse(n))
			next   = p.Score()
		)
		//
		report.Sweeps++
		//
		if next < score {
			log.Debugf("sweep %d lowered score from %0.4f to %0.4f, undone", n, score, next)
			p.restore(before)
			report.RolledBack = true
			//
			return
		}
		//
		report.Moved += moved
		score = next
		//
		if moved == 0 {
			return
		} else if history.Insert(p.Fingerprint()) {
			log.Infof("duplicated pattern met after %d sweeps, stopping", report.Sweeps)
			report.Cycle = true
			//
			return
		}
	}
	//
	log.Debugf("stopped rebalancing after %d sweeps", report.Sweeps)
}
