package bytecode

import (
	"fmt"

	"github.com/gosc-lang/gosc/op"
)

// CodeData is one cell of an instruction stream: either an opcode or the
// data cell that immediately follows an opcode of arity one.
type CodeData struct {
	code   op.Code
	data   op.Index
	isData bool
}

// Code returns an opcode cell.
func Code(c op.Code) CodeData { return CodeData{code: c} }

// Data returns a data cell.
func Data(i op.Index) CodeData { return CodeData{data: i, isData: true} }

// IsData returns true for data cells.
func (c CodeData) IsData() bool { return c.isData }

// Op returns the opcode of an opcode cell, or op.Invalid for a data cell.
func (c CodeData) Op() op.Code {
	if c.isData {
		return op.Invalid
	}
	return c.code
}

// Data returns the payload of a data cell, or 0 for an opcode cell.
func (c CodeData) Data() op.Index {
	if !c.isData {
		return 0
	}
	return c.data
}

func (c CodeData) String() string {
	if c.isData {
		return fmt.Sprintf("#%d", c.data)
	}
	return c.code.String()
}

// SourceLocation is the position in source that produced a cell. The file
// name is stored once on the Function.
type SourceLocation struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns "line:column".
func (s SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}
