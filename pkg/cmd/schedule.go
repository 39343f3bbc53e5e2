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
package cmd

import (
	"fmt"
	"os"

	"github.com/Serge45/mfmasched/pkg/asm/block"
	"github.com/Serge45/mfmasched/pkg/asm/sched"
	"github.com/Serge45/mfmasched/pkg/util"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [flags] listing_file",
	Short: "reorder a listing to hide latency behind its matrix instructions.",
	Long: `Reorder the instructions of a given listing, such that global reads
	are issued as early as possible and the instructions following each matrix
	instruction fit within its latency.  The optimised listing is written to
	stdout (or the given output file), whilst a report of the optimisation is
	written to stderr.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg    = readConfig(cmd)
			output = GetString(cmd, "output")
			asJson = GetFlag(cmd, "json")
			mod    = readListing(args[0])
			bb     = block.New(mod)
			stats  = util.NewPerfStats()
		)
		//
		report, err := sched.Optimize(bb, cfg)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		stats.Log("Scheduling")
		writeListing(output, bb.ToModule(mod.Name))
		printReport(report, asJson)
	},
}

// Print a report to stderr, either as text or JSON.
func printReport(report sched.Report, asJson bool) {
	if !asJson {
		fmt.Fprintln(os.Stderr, report.String())
		return
	}
	//
	bytes, err := json.Marshal(report)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	fmt.Fprintln(os.Stderr, string(bytes))
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	addConfigFlags(scheduleCmd)
	scheduleCmd.Flags().StringP("output", "o", "", "write optimised listing to the given file")
	scheduleCmd.Flags().Bool("json", false, "report optimisation results as JSON")
}
