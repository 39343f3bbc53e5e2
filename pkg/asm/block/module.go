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
package block

import (
	"fmt"
	"strings"

	"github.com/Serge45/mfmasched/pkg/asm/insn"
)

// Item represents something which can be placed into a module.  This is either
// an instruction, or a nested module.
type Item interface {
	fmt.Stringer
}

// Module is a named, hierarchical container of instructions, as produced by a
// kernel generator.  Nesting carries no semantics beyond grouping: the program
// order of a module is that obtained by flattening it depth first.
type Module struct {
	Name  string
	Items []Item
}

// NewModule constructs a new (initially empty) module.
func NewModule(name string) *Module {
	return &Module{name, nil}
}

// Add a given instruction (or nested module) onto the end of this module.
func (p *Module) Add(item Item) *Module {
	switch item.(type) {
	case insn.Instruction, *Module:
		p.Items = append(p.Items, item)
	default:
		panic(fmt.Sprintf("unknown module item (%s)", item.String()))
	}
	//
	return p
}

// AddAll adds zero or more instructions onto the end of this module.
func (p *Module) AddAll(insts ...insn.Instruction) *Module {
	for _, inst := range insts {
		p.Items = append(p.Items, inst)
	}
	//
	return p
}

// Flatten returns the instructions of this module (and any nested modules)
// in program order.
func (p *Module) Flatten() []insn.Instruction {
	var insts []insn.Instruction
	//
	p.flatten(&insts)
	//
	return insts
}

func (p *Module) flatten(insts *[]insn.Instruction) {
	for _, item := range p.Items {
		switch item := item.(type) {
		case *Module:
			item.flatten(insts)
		case insn.Instruction:
			*insts = append(*insts, item)
		}
	}
}

func (p *Module) String() string {
	var builder strings.Builder
	//
	p.write(&builder, 0)
	//
	return builder.String()
}

func (p *Module) write(builder *strings.Builder, indent int) {
	builder.WriteString(fmt.Sprintf("%s/* %s */\n", strings.Repeat("  ", indent), p.Name))
	//
	for _, item := range p.Items {
		switch item := item.(type) {
		case *Module:
			item.write(builder, indent+1)
		default:
			builder.WriteString(fmt.Sprintf("%s%s\n", strings.Repeat("  ", indent+1), item.String()))
		}
	}
}
