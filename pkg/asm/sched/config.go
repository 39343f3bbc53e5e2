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
	"strings"
)

// SweepOrder determines the order in which groups are visited by a single
// rebalancing sweep.
type SweepOrder uint8

const (
	// REVERSE_SWEEP visits groups from last to first on every sweep.
	REVERSE_SWEEP SweepOrder = iota
	// FORWARD_SWEEP visits groups from first to last on every sweep.
	FORWARD_SWEEP
	// ALTERNATE_SWEEP alternates between reverse and forward sweeps, starting
	// with a reverse sweep.
	ALTERNATE_SWEEP
)

var sweepOrderNames = []string{"reverse", "forward", "alternate"}

// ParseSweepOrder parses a sweep order from its name.
func ParseSweepOrder(name string) (SweepOrder, error) {
	for i, n := range sweepOrderNames {
		if strings.EqualFold(n, name) {
			return SweepOrder(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown sweep order \"%s\" (expected one of %s)", name,
		strings.Join(sweepOrderNames, ", "))
}

// Reverse determines whether the nth sweep (counting from 0) visits groups in
// reverse.
func (p SweepOrder) Reverse(n uint) bool {
	switch p {
	case REVERSE_SWEEP:
		return true
	case FORWARD_SWEEP:
		return false
	default:
		return n%2 == 0
	}
}

func (p SweepOrder) String() string {
	return sweepOrderNames[p]
}

// Config captures the parameters of a scheduling run.
type Config struct {
	// Number of cycles taken by the matrix instruction to retire.  This is the
	// latency budget available to the instructions of each group.
	MiLatency uint
	// Order in which rebalancing sweeps visit groups.
	Sweep SweepOrder
	// Upper bound on the number of rebalancing sweeps (0 means unbounded).
	MaxSweeps uint
}

// DefaultConfig returns the configuration used when nothing else is specified.
func DefaultConfig() Config {
	return Config{MiLatency: 16, Sweep: REVERSE_SWEEP, MaxSweeps: 0}
}

// Validate that this configuration is usable.
func (p Config) Validate() error {
	if p.MiLatency == 0 {
		return errors.New("matrix instruction latency must be positive")
	} else if p.Sweep > ALTERNATE_SWEEP {
		return fmt.Errorf("invalid sweep order (%d)", p.Sweep)
	}
	//
	return nil
}
