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
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats records the time and heap allocation at the point it was created,
// such that the cost of some piece of work can be reported afterwards.
type PerfStats struct {
	start time.Time
	// Bytes allocated (in total) at start
	allocated uint64
	// Garbage collections completed at start
	collections uint32
}

// NewPerfStats takes a snapshot of the current time and allocation.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Log reports (at debug level) the time elapsed and memory allocated since this
// snapshot was taken.
func (p *PerfStats) Log(prefix string) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	var (
		elapsed = time.Since(p.start)
		alloc   = float64(m.TotalAlloc-p.allocated) / (1024 * 1024)
		gcs     = m.NumGC - p.collections
	)
	//
	log.Debugf("%s took %s allocating %0.2fMB (%d collections)", prefix, elapsed, alloc, gcs)
}
