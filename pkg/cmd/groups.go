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
	"github.com/Serge45/mfmasched/pkg/util/termio"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups [flags] listing_file",
	Short: "show how a listing partitions into matrix instruction groups.",
	Long: `Partition a given listing into groups, each starting with a matrix
	instruction, and print a table showing the latency left in each group.
	Groups whose instructions overflow their latency budget are highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg       = readConfig(cmd)
			optimized = GetFlag(cmd, "optimized")
			escapes   = GetFlag(cmd, "ansi-escapes") && termio.IsTerminal(os.Stdout)
			bb        = readBlock(args[0])
		)
		//
		if optimized {
			if _, err := sched.Optimize(bb, cfg); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		//
		printGroups(bb, cfg.MiLatency, escapes)
	},
}

// Print the groups of a given block as a table, highlighting any overflowing
// groups.
func printGroups(bb *block.BasicBlock, miLatency uint, escapes bool) {
	prologue, schedule, err := sched.Partition(bb, miLatency)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	var (
		table = termio.NewTablePrinter(4)
		red   = termio.NewAnsiEscape().FgColour(termio.TERM_RED)
		// Leave room for the remaining columns
		width = termio.Width(os.Stdout)
	)
	//
	table.AddRow("#", "anchor", "insts", "left")
	table.SetRowEscape(0, termio.BoldAnsiEscape())
	//
	for i := range schedule.Len() {
		var (
			group = schedule.Group(i)
			row   = table.AddRow(fmt.Sprintf("MFMA-%d", i), group.Anchor.String(),
				fmt.Sprintf("%d", len(group.Instructions)), fmt.Sprintf("%d", group.LatencyLeft))
		)
		//
		if group.Overflowing() {
			table.SetRowEscape(row, red)
		}
	}
	//
	table.SetMaxWidth(1, width-min(width, 40))
	table.AnsiEscapes(escapes)
	//
	if err := table.Print(os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	//
	fmt.Printf("prologue=%d groups=%d overflowing=%d score=%0.4f\n", len(prologue), schedule.Len(),
		schedule.Overflowing(), schedule.Score())
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	addConfigFlags(groupsCmd)
	groupsCmd.Flags().Bool("optimized", false, "show groups after optimisation")
	groupsCmd.Flags().Bool("ansi-escapes", true, "specify whether to allow ANSI escapes or not (e.g. for colour support)")
}
