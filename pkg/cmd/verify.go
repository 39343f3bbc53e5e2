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
	"slices"

	"github.com/Serge45/mfmasched/pkg/asm/sched"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] listing_file [optimised_file]",
	Short: "check a reordered listing preserves the meaning of the original.",
	Long: `Check that the second listing is a permutation of the first, such that
	no dependent instructions have been reordered and no global read has moved
	across a synchronisation boundary.  When only one listing is given, it is
	optimised in memory and the result checked against the original.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 || len(args) > 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			cfg    = readConfig(cmd)
			bb     = readBlock(args[0])
			before = slices.Clone(bb.Instructions())
		)
		//
		if len(args) == 2 {
			bb = readBlock(args[1])
		} else if _, err := sched.Optimize(bb, cfg); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		errs := multierr.Errors(sched.Verify(before, bb.Instructions()))
		//
		for _, err := range errs {
			fmt.Println(err)
		}
		//
		if len(errs) > 0 {
			os.Exit(1)
		}
		//
		fmt.Println("ok")
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	addConfigFlags(verifyCmd)
}
