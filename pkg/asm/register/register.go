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
package register

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the register file a register belongs to.
type Kind uint8

const (
	// VECTOR_REGISTER identifies a vector general purpose register (v).
	VECTOR_REGISTER Kind = iota
	// SCALAR_REGISTER identifies a scalar general purpose register (s).
	SCALAR_REGISTER
	// ACCUMULATION_REGISTER identifies an accumulation register (acc), as
	// written by matrix instructions.
	ACCUMULATION_REGISTER
)

var kindPrefixes = []string{"v", "s", "acc"}

// Register identifies a contiguous range of registers in a given register
// file.  Registers carry no value and are only ever compared for equality.
// Thus, v[0:1] and v[0] are distinct registers, even though they overlap.
type Register struct {
	// Register file of this register
	Kind Kind
	// Index of the first register in the range
	Index uint
	// Number of consecutive registers covered (at least one)
	Count uint
}

// New constructs a register range of a given kind.
func New(kind Kind, index uint, count uint) Register {
	if count == 0 {
		panic("register range must cover at least one register")
	}
	//
	return Register{kind, index, count}
}

// Vector constructs a single vector register.
func Vector(index uint) Register {
	return Register{VECTOR_REGISTER, index, 1}
}

// Scalar constructs a single scalar register.
func Scalar(index uint) Register {
	return Register{SCALAR_REGISTER, index, 1}
}

// Parse a register from its textual form, such as "v4", "v[4:7]", "s[2]" or
// "acc[0:15]".
func Parse(text string) (Register, error) {
	for kind := len(kindPrefixes) - 1; kind >= 0; kind-- {
		prefix := kindPrefixes[kind]
		//
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		//
		rest := text[len(prefix):]
		//
		if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
			return parseRange(Kind(kind), text, rest[1:len(rest)-1])
		} else if index, err := strconv.ParseUint(rest, 10, 32); err == nil {
			return Register{Kind(kind), uint(index), 1}, nil
		}
	}
	//
	return Register{}, fmt.Errorf("invalid register \"%s\"", text)
}

func parseRange(kind Kind, text string, body string) (Register, error) {
	var (
		split      = strings.Split(body, ":")
		start, end uint64
		err        error
	)
	//
	if len(split) > 2 {
		return Register{}, fmt.Errorf("invalid register range \"%s\"", text)
	} else if start, err = strconv.ParseUint(split[0], 10, 32); err != nil {
		return Register{}, fmt.Errorf("invalid register range \"%s\"", text)
	}
	//
	end = start
	//
	if len(split) == 2 {
		if end, err = strconv.ParseUint(split[1], 10, 32); err != nil || end < start {
			return Register{}, fmt.Errorf("invalid register range \"%s\"", text)
		}
	}
	//
	return Register{kind, uint(start), uint(end-start) + 1}, nil
}

// IsRegister checks whether a given piece of text parses as a register.
func IsRegister(text string) bool {
	_, err := Parse(text)
	return err == nil
}

func (p Register) String() string {
	prefix := kindPrefixes[p.Kind]
	//
	if p.Count == 1 {
		return fmt.Sprintf("%s%d", prefix, p.Index)
	}
	//
	return fmt.Sprintf("%s[%d:%d]", prefix, p.Index, p.Index+p.Count-1)
}
