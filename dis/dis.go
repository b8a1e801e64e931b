// Package dis supports analysis of compiled programs by disassembling them.
// This works with the opcodes defined in the `op` package and uses the
// InstructionIter type from the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/internal/table"
	"github.com/gosc-lang/gosc/op"
)

// Instruction represents a single instruction and its operand.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operand    op.Index
	HasOperand bool
	Annotation string
	// Constant is the pushed constant, for PUSH_CONST only.
	Constant *bytecode.Value
}

var (
	bold     = color.New(color.Bold)
	yellow   = color.New(color.FgYellow)
	green    = color.New(color.FgGreen)
	magenta  = color.New(color.FgMagenta)
	cyan     = color.New(color.FgHiCyan)
	faint    = color.New(color.Faint)
	headings = color.New(color.FgHiBlue, color.Bold)
)

// Disassemble returns a parsed representation of the code of fn.
func Disassemble(fn *bytecode.Function) ([]Instruction, error) {
	return disassemble(fn, nil, nil)
}

func disassemble(fn *bytecode.Function, program *bytecode.Program, pkg *bytecode.Package) ([]Instruction, error) {
	var instructions []Instruction
	iter := fn.Instructions()
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		instr := Instruction{
			Offset:     val.Offset,
			Name:       op.GetInfo(val.Op).Name,
			Opcode:     val.Op,
			Operand:    val.Data,
			HasOperand: val.HasData,
		}
		if instr.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at offset %d", val.Op, val.Offset)
		}
		index := int(val.Data)
		switch val.Op {
		case op.PushConst:
			if index < 0 || index >= fn.ConstantCount() {
				return nil, fmt.Errorf("constant index out of range: %d", index)
			}
			c := fn.ConstantAt(index)
			instr.Constant = &c
			instr.Annotation = describeValue(c, program)
		case op.LoadLocal, op.StoreLocal:
			if index < 0 || index >= fn.LocalAlloc() {
				return nil, fmt.Errorf("local variable index out of range: %d", index)
			}
			instr.Annotation = localName(fn, index)
		case op.LoadUpvalue, op.StoreUpvalue:
			if index < 0 || index >= fn.UpValueCount() {
				return nil, fmt.Errorf("captured variable index out of range: %d", index)
			}
			instr.Annotation = fn.UpValueAt(index).String()
		case op.LoadThisPkgField, op.StoreThisPkgField:
			if pkg != nil {
				if index < 0 || index >= pkg.MemberCount() {
					return nil, fmt.Errorf("package member index out of range: %d", index)
				}
				instr.Annotation = pkg.MemberName(index)
			}
		case op.PushImm:
			instr.Annotation = strconv.Itoa(index)
		default:
			if slot, ok := val.Op.InlineLocal(); ok {
				instr.Annotation = localName(fn, int(slot))
			}
		}
		instructions = append(instructions, instr)
	}
	return instructions, nil
}

// localName names a slot by its role in the frame layout.
func localName(fn *bytecode.Function, slot int) string {
	switch {
	case slot < fn.RetCount():
		return fmt.Sprintf("result_%d", slot)
	case slot < fn.RetCount()+fn.ParamCount():
		return fmt.Sprintf("param_%d", slot-fn.RetCount())
	default:
		return fmt.Sprintf("local_%d", slot)
	}
}

func describeValue(v bytecode.Value, program *bytecode.Program) string {
	switch v.Kind() {
	case bytecode.ValFunction:
		if program != nil {
			if fn := program.FunctionAt(v.FunctionKey()); fn != nil {
				return "func:" + functionName(fn)
			}
		}
		return "func:" + v.FunctionKey().String()
	case bytecode.ValString:
		s := v.StringValue()
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return strconv.Quote(s)
	default:
		return v.String()
	}
}

func functionName(fn *bytecode.Function) string {
	if fn.Name() == "" {
		return "<anonymous>"
	}
	return fn.Name()
}

func annotation(instr Instruction) string {
	if instr.Constant == nil {
		if instr.Annotation == "" {
			return ""
		}
		return cyan.Sprint(instr.Annotation)
	}
	switch instr.Constant.Kind() {
	case bytecode.ValInt, bytecode.ValFloat, bytecode.ValComplex:
		return yellow.Sprint(instr.Annotation)
	case bytecode.ValString:
		return green.Sprint(instr.Annotation)
	case bytecode.ValFunction, bytecode.ValNative:
		return magenta.Sprint(instr.Annotation)
	default:
		return bold.Sprint(instr.Annotation)
	}
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		operand := ""
		if instr.HasOperand {
			operand = strconv.Itoa(int(instr.Operand))
		}
		lines = append(lines, []string{
			strconv.Itoa(instr.Offset),
			bold.Sprint(instr.Name),
			operand,
			annotation(instr),
		})
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// PrintFunction writes a heading describing fn followed by its code.
func PrintFunction(program *bytecode.Program, fn *bytecode.Function, writer io.Writer) error {
	pkg := program.PackageAt(fn.Package())
	instructions, err := disassemble(fn, program, pkg)
	if err != nil {
		return fmt.Errorf("%s: %w", functionName(fn), err)
	}
	pkgName := "?"
	if pkg != nil {
		pkgName = pkg.Name()
	}
	fmt.Fprintf(writer, "%s %s\n", headings.Sprintf("%s.%s", pkgName, functionName(fn)),
		faint.Sprintf("(%s, %s) params=%d results=%d locals=%d consts=%d upvalues=%d",
			fn.Key(), fn.Flag(), fn.ParamCount(), fn.RetCount(), fn.LocalCount(),
			fn.ConstantCount(), fn.UpValueCount()))
	for i := 0; i < fn.UpValueCount(); i++ {
		fmt.Fprintf(writer, "  upvalue %d: %s\n", i, fn.UpValueAt(i))
	}
	Print(instructions, writer)
	return nil
}

// PrintProgram writes every function of the program, in key order.
func PrintProgram(program *bytecode.Program, writer io.Writer) error {
	if entry, ok := program.Entry(); ok {
		fmt.Fprintf(writer, "entry: %s\n\n", functionName(entry))
	}
	for i, fn := range program.Functions() {
		if fn == nil {
			continue
		}
		if i > 0 {
			fmt.Fprintln(writer)
		}
		if err := PrintFunction(program, fn, writer); err != nil {
			return err
		}
	}
	return nil
}
