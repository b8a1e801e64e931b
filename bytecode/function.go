package bytecode

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/gosc-lang/gosc/ast"
)

// FuncFlag records how a function came to exist.
type FuncFlag uint8

const (
	// FuncDecl is a named function declared at package level.
	FuncDecl FuncFlag = iota
	// FuncLit is a function literal, instantiated as a closure.
	FuncLit
	// FuncPkgInit is a package initializer.
	FuncPkgInit
)

func (f FuncFlag) String() string {
	switch f {
	case FuncDecl:
		return "decl"
	case FuncLit:
		return "literal"
	case FuncPkgInit:
		return "init"
	default:
		return "invalid"
	}
}

// Function is a sealed compiled function.
// It is immutable after creation and contains all the static information
// the engine needs to create activations and closures of it.
//
// Local slots are laid out as [results][params][body locals], dense from 0.
type Function struct {
	key        FunctionKey
	pkg        PackageKey
	name       string
	flag       FuncFlag
	filename   string
	pos        SourceLocation
	code       []CodeData
	locations  []SourceLocation
	consts     []Value
	upvalues   []UpValue
	paramCount int
	retCount   int
	variadic   bool
	localAlloc int
	entities   map[ast.EntityKey]EntIndex
}

// FunctionParams contains parameters for creating a new Function.
type FunctionParams struct {
	Key        FunctionKey
	Package    PackageKey
	Name       string
	Flag       FuncFlag
	Filename   string
	Position   SourceLocation
	Code       []CodeData
	Locations  []SourceLocation
	Constants  []Value
	UpValues   []UpValue
	ParamCount int
	RetCount   int
	Variadic   bool
	LocalAlloc int
	Entities   map[ast.EntityKey]EntIndex
}

// NewFunction creates a new immutable Function from the given parameters.
// Input slices and maps are copied to ensure immutability.
func NewFunction(params FunctionParams) *Function {
	return &Function{
		key:        params.Key,
		pkg:        params.Package,
		name:       params.Name,
		flag:       params.Flag,
		filename:   params.Filename,
		pos:        params.Position,
		code:       copySlice(params.Code),
		locations:  copySlice(params.Locations),
		consts:     copySlice(params.Constants),
		upvalues:   copySlice(params.UpValues),
		paramCount: params.ParamCount,
		retCount:   params.RetCount,
		variadic:   params.Variadic,
		localAlloc: params.LocalAlloc,
		entities:   copyMap(params.Entities),
	}
}

// Key returns the function's key within its program.
func (f *Function) Key() FunctionKey { return f.key }

// Package returns the package the function belongs to.
func (f *Function) Package() PackageKey { return f.pkg }

// Name returns the function name, or empty string for function literals.
func (f *Function) Name() string { return f.name }

// Flag returns how the function was declared.
func (f *Function) Flag() FuncFlag { return f.flag }

// Filename returns the source file the function was compiled from.
func (f *Function) Filename() string { return f.filename }

// Position returns the location of the function's declaration.
func (f *Function) Position() SourceLocation { return f.pos }

// CodeCount returns the number of cells in the instruction stream.
func (f *Function) CodeCount() int { return len(f.code) }

// CodeAt returns the cell at the given offset.
func (f *Function) CodeAt(offset int) CodeData { return f.code[offset] }

// LocationAt returns the source location that produced the cell at the
// given offset. A zero location is returned when none was recorded.
func (f *Function) LocationAt(offset int) SourceLocation {
	if offset < 0 || offset >= len(f.locations) {
		return SourceLocation{}
	}
	return f.locations[offset]
}

// ConstantCount returns the number of constant pool entries.
func (f *Function) ConstantCount() int { return len(f.consts) }

// ConstantAt returns the constant pool entry at the given index.
func (f *Function) ConstantAt(index int) Value { return f.consts[index] }

// UpValueCount returns the number of captured-variable descriptors.
func (f *Function) UpValueCount() int { return len(f.upvalues) }

// UpValueAt returns the captured-variable descriptor at the given index.
func (f *Function) UpValueAt(index int) UpValue { return f.upvalues[index] }

// ParamCount returns the number of parameter slots.
func (f *Function) ParamCount() int { return f.paramCount }

// RetCount returns the number of result slots.
func (f *Function) RetCount() int { return f.retCount }

// Variadic returns true if the last parameter is variadic.
func (f *Function) Variadic() bool { return f.variadic }

// LocalAlloc returns the total number of slots in an activation.
func (f *Function) LocalAlloc() int { return f.localAlloc }

// LocalCount returns the number of body locals, excluding parameter and
// result slots.
func (f *Function) LocalCount() int {
	return f.localAlloc - f.paramCount - f.retCount
}

// Entity returns the storage class bound to a declaration identity in this
// function's entity table.
func (f *Function) Entity(key ast.EntityKey) (EntIndex, bool) {
	e, ok := f.entities[key]
	return e, ok
}

// EntityCount returns the number of entries in the entity table.
func (f *Function) EntityCount() int { return len(f.entities) }

// EntityKeys returns the entity table keys in ascending order.
func (f *Function) EntityKeys() []ast.EntityKey {
	keys := make([]ast.EntityKey, 0, len(f.entities))
	for k := range f.entities {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Instructions returns an iterator over the function's instruction stream.
func (f *Function) Instructions() *InstructionIter {
	return NewInstructionIter(f)
}

// String returns a short description of the function and its code.
func (f *Function) String() string {
	var out bytes.Buffer
	name := f.name
	if name == "" {
		name = "<literal>"
	}
	fmt.Fprintf(&out, "func %s (%s) params=%d results=%d locals=%d {",
		name, f.key, f.paramCount, f.retCount, f.LocalCount())
	iter := f.Instructions()
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		out.WriteString("\n    ")
		out.WriteString(instr.String())
	}
	out.WriteString("\n}")
	return out.String()
}
