package bytecode

import (
	"fmt"

	"github.com/gosc-lang/gosc/op"
)

// Instruction is one opcode together with its data cell, if it has one.
type Instruction struct {
	Offset  int
	Op      op.Code
	Data    op.Index
	HasData bool
}

// Width returns the number of cells the instruction occupies.
func (i Instruction) Width() int {
	if i.HasData {
		return 2
	}
	return 1
}

func (i Instruction) String() string {
	if i.HasData {
		return fmt.Sprintf("%s %d", i.Op, i.Data)
	}
	return i.Op.String()
}

// InstructionIter iterates over the instructions of a Function.
// The stream is assumed to be well formed; see Verify.
type InstructionIter struct {
	fn  *Function
	pos int
}

// Next returns the next instruction.
// Returns false when there are no more instructions.
func (i *InstructionIter) Next() (Instruction, bool) {
	if i.pos >= i.fn.CodeCount() {
		return Instruction{}, false
	}
	instr := Instruction{Offset: i.pos, Op: i.fn.CodeAt(i.pos).Op()}
	i.pos++
	if op.GetInfo(instr.Op).Arity == 1 && i.pos < i.fn.CodeCount() {
		instr.Data = i.fn.CodeAt(i.pos).Data()
		instr.HasData = true
		i.pos++
	}
	return instr, true
}

// All returns all remaining instructions as a newly allocated slice.
// This is a convenience method that collects all results from Next().
func (i *InstructionIter) All() []Instruction {
	var results []Instruction
	for {
		instr, ok := i.Next()
		if !ok {
			break
		}
		results = append(results, instr)
	}
	return results
}

// NewInstructionIter creates a new instruction iterator for the given
// function.
func NewInstructionIter(fn *Function) *InstructionIter {
	return &InstructionIter{fn: fn}
}
