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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Serge45/mfmasched/pkg/asm/block"
	"github.com/Serge45/mfmasched/pkg/asm/insn"
	"github.com/Serge45/mfmasched/pkg/asm/register"
	"github.com/Serge45/mfmasched/pkg/util/source"
	"github.com/Serge45/mfmasched/pkg/util/source/sexp"
)

// Prefixes of mnemonics identifying instructions with a dedicated form.
var (
	mfmaPrefixes       = []string{"v_mfma"}
	globalReadPrefixes = []string{"buffer_load", "global_load"}
	localWritePrefixes = []string{"ds_write", "ds_store"}
)

// Parse an instruction listing into a module.  Each top-level term of the
// listing is an item of the module returned, which is named after the file
// being parsed.
func Parse(file *source.File) (*block.Module, *source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(file)
	//
	if err != nil {
		return nil, err
	}
	//
	var (
		p    = parser{srcmap}
		name = strings.TrimSuffix(filepath.Base(file.Filename()), filepath.Ext(file.Filename()))
	)
	//
	return p.parseModule(name, terms)
}

// ParseFile reads and parses an instruction listing from disk.
func ParseFile(filename string) (*block.Module, error) {
	file, err := source.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	mod, serr := Parse(file)
	// Avoid returning a typed nil
	if serr != nil {
		return nil, serr
	}
	//
	return mod, nil
}

type parser struct {
	srcmap *source.Map[sexp.SExp]
}

func (p *parser) parseModule(name string, terms []sexp.SExp) (*block.Module, *source.SyntaxError) {
	mod := block.NewModule(name)
	//
	for _, term := range terms {
		item, err := p.parseItem(term)
		if err != nil {
			return nil, err
		}
		//
		mod.Add(item)
	}
	//
	return mod, nil
}

func (p *parser) parseItem(term sexp.SExp) (block.Item, *source.SyntaxError) {
	list := term.AsList()
	//
	if list == nil || list.Head() == nil {
		return nil, p.srcmap.SyntaxError(term, "expected instruction or module")
	} else if list.Head().Value == "module" {
		if list.Len() < 2 || list.Get(1).AsSymbol() == nil {
			return nil, p.srcmap.SyntaxError(term, "expected module name")
		}
		//
		return p.parseModule(list.Get(1).AsSymbol().Value, list.Elements[2:])
	}
	//
	return p.parseInstruction(list)
}

func (p *parser) parseInstruction(list *sexp.List) (insn.Instruction, *source.SyntaxError) {
	var (
		mnemonic = list.Head().Value
		args     = list.Elements[1:]
	)
	//
	switch {
	case mnemonic == "label":
		names, err := p.parseSymbols(list, args, 1)
		if err != nil {
			return nil, err
		}
		//
		return insn.NewLabel(names[0]), nil
	case mnemonic == "generic":
		return p.parseGeneric(list, args)
	case mnemonic == "s_waitcnt":
		return p.parseWaitCnt(list, args)
	case mnemonic == "s_barrier":
		if _, err := p.parseSymbols(list, args, 0); err != nil {
			return nil, err
		}
		//
		return insn.NewBarrier(), nil
	case mnemonic == "s_setprio":
		priority, err := p.parseSingleUint(list, args)
		if err != nil {
			return nil, err
		}
		//
		return insn.NewSetPrio(priority), nil
	case mnemonic == "v_mov_b32" || mnemonic == "v_mov_b64":
		regs, err := p.parseRegisters(list, args, 2)
		if err != nil {
			return nil, err
		}
		//
		width, _ := strconv.ParseUint(mnemonic[len("v_mov_b"):], 10, 32)
		//
		return insn.NewMove(uint(width), regs[0], regs[1]), nil
	case hasPrefix(mnemonic, mfmaPrefixes):
		regs, err := p.parseRegisters(list, args, 3)
		if err != nil {
			return nil, err
		}
		//
		return insn.NewMfma(mnemonic, regs[0], regs[1], regs[2]), nil
	case hasPrefix(mnemonic, globalReadPrefixes):
		return p.parseGlobalRead(list, mnemonic, args)
	case hasPrefix(mnemonic, localWritePrefixes):
		regs, err := p.parseRegisters(list, args, 2)
		if err != nil {
			return nil, err
		}
		//
		return insn.NewLocalWrite(mnemonic, regs[0], regs[1]), nil
	default:
		return p.parseCommon(list, mnemonic, args)
	}
}

// Parse an opaque instruction of the form "(generic mnemonic [:dst reg] args...)".
func (p *parser) parseGeneric(list *sexp.List, args []sexp.SExp) (insn.Instruction, *source.SyntaxError) {
	operands, err := p.parseSymbols(list, args, -1)
	//
	if err != nil {
		return nil, err
	} else if len(operands) == 0 {
		return nil, p.srcmap.SyntaxError(list, "missing mnemonic")
	}
	//
	mnemonic, operands := operands[0], operands[1:]
	//
	if len(operands) >= 2 && operands[0] == ":dst" {
		dst, err := register.Parse(operands[1])
		if err != nil {
			return nil, p.srcmap.SyntaxError(args[2], err.Error())
		}
		//
		return insn.NewGenericWithDst(mnemonic, dst, operands[2:]...), nil
	}
	//
	return insn.NewGeneric(mnemonic, operands...), nil
}

// Parse a wait count of the form "(s_waitcnt [:vmcnt n] [:lgkmcnt n])".
func (p *parser) parseWaitCnt(list *sexp.List, args []sexp.SExp) (insn.Instruction, *source.SyntaxError) {
	var counts = map[string]int{":vmcnt": insn.UNSET_COUNT, ":lgkmcnt": insn.UNSET_COUNT}
	//
	keywords, err := p.parseKeywords(list, args)
	if err != nil {
		return nil, err
	}
	//
	for key, value := range keywords {
		if _, ok := counts[key]; !ok {
			return nil, p.srcmap.SyntaxError(list, "unknown wait count \""+key+"\"")
		}
		//
		counts[key] = int(value)
	}
	//
	return insn.NewWaitCnt(counts[":vmcnt"], counts[":lgkmcnt"]), nil
}

// Parse a global read of the form "(mnemonic dst vaddr :latency n)".
func (p *parser) parseGlobalRead(list *sexp.List, mnemonic string, args []sexp.SExp) (insn.Instruction,
	*source.SyntaxError) {
	if len(args) < 2 {
		return nil, p.srcmap.SyntaxError(list, "expected destination and address registers")
	}
	//
	regs, err := p.parseRegisters(list, args[:2], 2)
	if err != nil {
		return nil, err
	}
	//
	keywords, err := p.parseKeywords(list, args[2:])
	if err != nil {
		return nil, err
	}
	//
	latency, ok := keywords[":latency"]
	//
	if !ok || len(keywords) != 1 {
		return nil, p.srcmap.SyntaxError(list, "expected issue latency (e.g. :latency 8)")
	}
	//
	return insn.NewGlobalRead(mnemonic, regs[0], regs[1], latency), nil
}

// Parse an instruction with register operands, the first of which is its
// destination.  Instructions with other operands cannot be analysed, and are
// treated as opaque.
func (p *parser) parseCommon(list *sexp.List, mnemonic string, args []sexp.SExp) (insn.Instruction,
	*source.SyntaxError) {
	operands, err := p.parseSymbols(list, args, -1)
	if err != nil {
		return nil, err
	}
	//
	regs := make([]register.Register, len(operands))
	//
	for i, operand := range operands {
		reg, err := register.Parse(operand)
		if err != nil {
			return insn.NewGeneric(mnemonic, operands...), nil
		}
		//
		regs[i] = reg
	}
	//
	if len(regs) == 0 {
		return insn.NewGeneric(mnemonic), nil
	}
	//
	return insn.NewCommon(mnemonic, regs[0], regs[1:]...), nil
}

// Parse a fixed number of symbols (or any number, when n is negative).
func (p *parser) parseSymbols(list *sexp.List, args []sexp.SExp, n int) ([]string, *source.SyntaxError) {
	if n >= 0 && len(args) != n {
		return nil, p.srcmap.SyntaxError(list, "expected "+strconv.Itoa(n)+" operand(s)")
	}
	//
	symbols := make([]string, len(args))
	//
	for i, arg := range args {
		if arg.AsSymbol() == nil {
			return nil, p.srcmap.SyntaxError(arg, "expected operand")
		}
		//
		symbols[i] = arg.AsSymbol().Value
	}
	//
	return symbols, nil
}

func (p *parser) parseRegisters(list *sexp.List, args []sexp.SExp, n int) ([]register.Register,
	*source.SyntaxError) {
	symbols, err := p.parseSymbols(list, args, n)
	if err != nil {
		return nil, err
	}
	//
	regs := make([]register.Register, n)
	//
	for i, symbol := range symbols {
		reg, err := register.Parse(symbol)
		if err != nil {
			return nil, p.srcmap.SyntaxError(args[i], err.Error())
		}
		//
		regs[i] = reg
	}
	//
	return regs, nil
}

func (p *parser) parseSingleUint(list *sexp.List, args []sexp.SExp) (uint, *source.SyntaxError) {
	symbols, err := p.parseSymbols(list, args, 1)
	if err != nil {
		return 0, err
	}
	//
	return p.parseUint(args[0], symbols[0])
}

// Parse a sequence of keyword arguments, such as ":vmcnt 0 :lgkmcnt 1".
func (p *parser) parseKeywords(list *sexp.List, args []sexp.SExp) (map[string]uint, *source.SyntaxError) {
	symbols, err := p.parseSymbols(list, args, -1)
	//
	if err != nil {
		return nil, err
	} else if len(symbols)%2 != 0 {
		return nil, p.srcmap.SyntaxError(list, "expected keyword value pairs")
	}
	//
	keywords := make(map[string]uint)
	//
	for i := 0; i < len(symbols); i += 2 {
		if !strings.HasPrefix(symbols[i], ":") {
			return nil, p.srcmap.SyntaxError(args[i], "expected keyword")
		} else if _, ok := keywords[symbols[i]]; ok {
			return nil, p.srcmap.SyntaxError(args[i], "duplicate keyword")
		}
		//
		value, err := p.parseUint(args[i+1], symbols[i+1])
		if err != nil {
			return nil, err
		}
		//
		keywords[symbols[i]] = value
	}
	//
	return keywords, nil
}

func (p *parser) parseUint(term sexp.SExp, text string) (uint, *source.SyntaxError) {
	value, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, p.srcmap.SyntaxError(term, "expected unsigned integer")
	}
	//
	return uint(value), nil
}

func hasPrefix(mnemonic string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(mnemonic, prefix) {
			return true
		}
	}
	//
	return false
}
