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
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Serge45/mfmasched/pkg/asm/block"
	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/Serge45/mfmasched/pkg/asm/register"
	"github.com/Serge45/mfmasched/pkg/util/source/sexp"
)

// Write a module as an instruction listing, such that parsing the listing
// reproduces the items of the module.  Instructions are only guaranteed to
// parse back into the same variant when their mnemonics follow the naming
// conventions of the listing format (e.g. matrix instructions start with
// "v_mfma").
func Write(w io.Writer, mod *block.Module) error {
	for _, item := range mod.Items {
		if err := writeItem(w, item, 0); err != nil {
			return err
		}
	}
	//
	return nil
}

func writeItem(w io.Writer, item block.Item, indent int) error {
	var prefix = strings.Repeat("  ", indent)
	//
	switch item := item.(type) {
	case *block.Module:
		if _, err := fmt.Fprintf(w, "%s(module %s\n", prefix, item.Name); err != nil {
			return err
		}
		//
		for _, inner := range item.Items {
			if err := writeItem(w, inner, indent+1); err != nil {
				return err
			}
		}
		//
		_, err := fmt.Fprintf(w, "%s)\n", prefix)
		//
		return err
	case insn.Instruction:
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, ToSExp(item).String())
		return err
	default:
		panic(fmt.Sprintf("unknown module item (%s)", item.String()))
	}
}

// ToSExp converts an instruction into its listing form.
func ToSExp(inst insn.Instruction) sexp.SExp {
	switch inst := inst.(type) {
	case *insn.Label:
		return list("label", inst.Name)
	case *insn.Generic:
		args := []string{inst.Mnemonic}
		//
		if inst.Dst.HasValue() {
			args = append(args, ":dst", inst.Dst.Unwrap().String())
		}
		//
		return list("generic", append(args, inst.Args...)...)
	case *insn.Common:
		if inst.Dst.IsEmpty() {
			return list("generic", append([]string{inst.Mnemonic}, registers(inst.Srcs...)...)...)
		}
		//
		return list(inst.Mnemonic, registers(append([]register.Register{inst.Dst.Unwrap()}, inst.Srcs...)...)...)
	case *insn.Mfma:
		return list(inst.Mnemonic, registers(inst.Acc, inst.A, inst.B)...)
	case *insn.GlobalRead:
		return list(inst.Mnemonic, inst.Dst.String(), inst.VAddr.String(), ":latency", strconv.Itoa(int(inst.Latency)))
	case *insn.LocalWrite:
		return list(inst.Mnemonic, registers(inst.DstAddr, inst.Src)...)
	case *insn.WaitCnt:
		var args []string
		//
		if inst.VmCnt != insn.UNSET_COUNT {
			args = append(args, ":vmcnt", strconv.Itoa(inst.VmCnt))
		}
		//
		if inst.LgkmCnt != insn.UNSET_COUNT {
			args = append(args, ":lgkmcnt", strconv.Itoa(inst.LgkmCnt))
		}
		//
		return list("s_waitcnt", args...)
	case *insn.Barrier:
		return list("s_barrier")
	case *insn.Move:
		return list(fmt.Sprintf("v_mov_b%d", inst.Width), registers(inst.Dst, inst.Src)...)
	case *insn.SetPrio:
		return list("s_setprio", strconv.Itoa(int(inst.Priority)))
	default:
		panic(fmt.Sprintf("unknown instruction encountered (%s)", inst.String()))
	}
}

func list(head string, args ...string) *sexp.List {
	var elements = []sexp.SExp{sexp.NewSymbol(head)}
	//
	for _, arg := range args {
		elements = append(elements, sexp.NewSymbol(arg))
	}
	//
	return sexp.NewList(elements...)
}

func registers(regs ...register.Register) []string {
	var strs = make([]string, len(regs))
	//
	for i, r := range regs {
		strs[i] = r.String()
	}
	//
	return strs
}
