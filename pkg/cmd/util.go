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
	"strings"

	"github.com/Serge45/mfmasched/pkg/asm/block"
	"github.com/Serge45/mfmasched/pkg/asm/parser"
	"github.com/Serge45/mfmasched/pkg/asm/sched"
	"github.com/Serge45/mfmasched/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// Register the flags controlling the scheduler with a given command.
func addConfigFlags(cmd *cobra.Command) {
	defaults := sched.DefaultConfig()
	//
	cmd.Flags().UintP("mi-latency", "l", defaults.MiLatency, "cycles taken by a matrix instruction to retire")
	cmd.Flags().String("sweep", defaults.Sweep.String(), "order of rebalancing sweeps (reverse, forward or alternate)")
	cmd.Flags().Uint("max-sweeps", defaults.MaxSweeps, "maximum number of rebalancing sweeps (0 for unbounded)")
}

// Configure logging, and read the scheduler configuration from the flags of a
// given command.
func readConfig(cmd *cobra.Command) sched.Config {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	sweep, err := sched.ParseSweepOrder(GetString(cmd, "sweep"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	cfg := sched.Config{
		MiLatency: GetUint(cmd, "mi-latency"),
		Sweep:     sweep,
		MaxSweeps: GetUint(cmd, "max-sweeps"),
	}
	//
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return cfg
}

// Read a listing from disk, reporting any syntax errors.
func readListing(filename string) *block.Module {
	file, err := source.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	mod, serr := parser.Parse(file)
	if serr != nil {
		printSyntaxError(serr)
		os.Exit(2)
	}
	//
	log.Debugf("read %d instructions from %s", len(mod.Flatten()), filename)
	//
	return mod
}

// Read a listing from disk, and flatten it into a basic block.
func readBlock(filename string) *block.BasicBlock {
	return block.New(readListing(filename))
}

// Write a listing to a given file, or to stdout when no file is given.
func writeListing(filename string, mod *block.Module) {
	var out = os.Stdout
	//
	if filename != "" {
		file, err := os.Create(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		defer file.Close()
		//
		out = file
	}
	//
	if err := parser.Write(out, mod); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(err *source.SyntaxError) {
	var (
		span = err.Span()
		line = err.EnclosingLine()
		// Highlight at least one character, but never beyond the line.
		start  = span.Start() - line.Start()
		length = max(1, min(span.Length(), line.Length()-start))
	)
	// Print error + line number
	fmt.Println(err.Error())
	// Print line
	fmt.Println(line.String())
	// Print indent
	fmt.Print(strings.Repeat(" ", start))
	// Print highlight
	fmt.Println(strings.Repeat("^", length))
}
