package compiler

import (
	"fmt"
	"go/token"
	"math"

	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
	"github.com/gosc-lang/gosc/op"
)

// maxIndex is the largest slot, constant or upvalue index a data cell can
// carry.
const maxIndex = math.MaxInt16

// FunctionBuilder accumulates the state of one function while its body is
// compiled. Every table is append-only: an index, once returned, never
// changes. Seal turns the builder into an immutable bytecode.Function.
type FunctionBuilder struct {
	key      bytecode.FunctionKey
	pkg      bytecode.PackageKey
	name     string
	flag     bytecode.FuncFlag
	filename string
	pos      bytecode.SourceLocation

	code      []bytecode.CodeData
	locations []bytecode.SourceLocation
	consts    []bytecode.Value
	upvalues  []bytecode.UpValue
	entities  map[ast.EntityKey]bytecode.EntIndex

	paramCount int
	retCount   int
	variadic   bool
	localAlloc int

	// Location recorded for every cell emitted from now on
	loc bytecode.SourceLocation
}

// NewFunctionBuilder returns an empty builder for the function with the
// given key.
func NewFunctionBuilder(key bytecode.FunctionKey, pkg bytecode.PackageKey, name string, flag bytecode.FuncFlag) *FunctionBuilder {
	return &FunctionBuilder{
		key:      key,
		pkg:      pkg,
		name:     name,
		flag:     flag,
		entities: map[ast.EntityKey]bytecode.EntIndex{},
	}
}

// Key returns the key reserved for the function.
func (b *FunctionBuilder) Key() bytecode.FunctionKey { return b.key }

// Name returns the function name, or "" for a literal.
func (b *FunctionBuilder) Name() string { return b.name }

// Lookup returns the entity table entry for key.
func (b *FunctionBuilder) Lookup(key ast.EntityKey) (bytecode.EntIndex, bool) {
	e, ok := b.entities[key]
	return e, ok
}

// Constant returns the constant pool entry at index i.
func (b *FunctionBuilder) Constant(i op.Index) bytecode.Value { return b.consts[i] }

// SetLocation sets the source location recorded for subsequently emitted
// cells.
func (b *FunctionBuilder) SetLocation(loc bytecode.SourceLocation) { b.loc = loc }

func (b *FunctionBuilder) bind(entity ast.EntityKey, e bytecode.EntIndex) error {
	if entity == ast.NoEntity {
		return nil
	}
	if _, exists := b.entities[entity]; exists {
		return errors.Internalf(errors.E2206, "entity %d is already declared in %s", entity, b.describe())
	}
	b.entities[entity] = e
	return nil
}

// AddLocal allocates the next local slot. The slot is bound to entity
// unless entity is ast.NoEntity, which allocates an anonymous slot.
func (b *FunctionBuilder) AddLocal(entity ast.EntityKey) (bytecode.EntIndex, error) {
	if b.localAlloc > maxIndex {
		return bytecode.EntIndex{}, errors.Limitf(errors.E2007,
			"%s exceeds the limit of %d local variables", b.describe(), maxIndex+1)
	}
	e := bytecode.LocalVar(op.Index(b.localAlloc))
	if err := b.bind(entity, e); err != nil {
		return bytecode.EntIndex{}, err
	}
	b.localAlloc++
	return e, nil
}

// AddConst appends a value to the constant pool and returns its reference,
// optionally binding it to entity. Equal values are not merged.
func (b *FunctionBuilder) AddConst(entity ast.EntityKey, value bytecode.Value) (bytecode.EntIndex, error) {
	if len(b.consts) > maxIndex {
		return bytecode.EntIndex{}, errors.Limitf(errors.E2008,
			"%s exceeds the limit of %d constants", b.describe(), maxIndex+1)
	}
	e := bytecode.Const(op.Index(len(b.consts)))
	if err := b.bind(entity, e); err != nil {
		return bytecode.EntIndex{}, err
	}
	b.consts = append(b.consts, value)
	return e, nil
}

// TryAddUpValue returns the captured-variable reference for entity, adding
// desc to the descriptor list if entity has not been captured before.
func (b *FunctionBuilder) TryAddUpValue(entity ast.EntityKey, desc bytecode.UpValue) (bytecode.EntIndex, error) {
	if e, ok := b.entities[entity]; ok {
		return e, nil
	}
	for i, uv := range b.upvalues {
		if uv == desc {
			e := bytecode.CapturedVar(op.Index(i))
			b.entities[entity] = e
			return e, nil
		}
	}
	if len(b.upvalues) > maxIndex {
		return bytecode.EntIndex{}, errors.Limitf(errors.E2009,
			"%s exceeds the limit of %d captured variables", b.describe(), maxIndex+1)
	}
	e := bytecode.CapturedVar(op.Index(len(b.upvalues)))
	b.upvalues = append(b.upvalues, desc)
	b.entities[entity] = e
	return e, nil
}

// AddParams allocates one slot per declared name in fields, or one
// anonymous slot for a field without names, and returns the number of
// slots allocated.
func (b *FunctionBuilder) AddParams(fields *ast.FieldList) (int, error) {
	if fields == nil {
		return 0, nil
	}
	count := 0
	for _, f := range fields.List {
		if len(f.Names) == 0 {
			if _, err := b.AddLocal(ast.NoEntity); err != nil {
				return 0, err
			}
			count++
			continue
		}
		for _, name := range f.Names {
			if _, err := b.AddLocal(name.Entity); err != nil {
				return 0, err
			}
			count++
		}
	}
	return count, nil
}

// DeclareSignature allocates the result slots followed by the parameter
// slots of ft. It must be called before anything else is allocated.
func (b *FunctionBuilder) DeclareSignature(ft *ast.FuncType) error {
	if b.localAlloc != 0 {
		return errors.Internalf(errors.E2206, "%s: signature declared after %d slots were allocated", b.describe(), b.localAlloc)
	}
	if ft == nil {
		return nil
	}
	results, err := b.AddParams(ft.Results)
	if err != nil {
		return err
	}
	params, err := b.AddParams(ft.Params)
	if err != nil {
		return err
	}
	b.retCount = results
	b.paramCount = params
	if ft.Params != nil && len(ft.Params.List) > 0 {
		_, b.variadic = ft.Params.List[len(ft.Params.List)-1].Type.(*ast.Ellipsis)
	}
	return nil
}

// emit appends an instruction and returns its offset. The number of data
// cells must match the opcode's arity.
func (b *FunctionBuilder) emit(code op.Code, data ...op.Index) int {
	info := op.GetInfo(code)
	if info.Name == "" || len(data) != info.Arity {
		panic(fmt.Sprintf("compile error: %s takes %d data cells, got %d", code, info.Arity, len(data)))
	}
	pos := len(b.code)
	b.code = append(b.code, bytecode.Code(code))
	b.locations = append(b.locations, b.loc)
	for _, d := range data {
		b.code = append(b.code, bytecode.Data(d))
		b.locations = append(b.locations, b.loc)
	}
	return pos
}

// EmitLoad pushes the value referenced by e.
func (b *FunctionBuilder) EmitLoad(e bytecode.EntIndex) error {
	i, err := e.Index()
	if err != nil {
		return errors.Internalf(errors.E2204, "%s: cannot load the blank identifier", b.describe())
	}
	switch e.Kind() {
	case bytecode.EntConst:
		b.emit(op.PushConst, i)
	case bytecode.EntLocal:
		if code := op.LoadLocalFor(i); code == op.LoadLocal {
			b.emit(code, i)
		} else {
			b.emit(code)
		}
	case bytecode.EntCaptured:
		b.emit(op.LoadUpvalue, i)
	case bytecode.EntPackageMember:
		b.emit(op.LoadThisPkgField, i)
	default:
		return errors.Internalf(errors.E2201, "%s: cannot load %s", b.describe(), e)
	}
	return nil
}

// EmitStore stores the value on top of the stack into e and pops it. A
// store to the blank identifier only pops.
func (b *FunctionBuilder) EmitStore(e bytecode.EntIndex) error {
	if e.IsBlank() {
		b.emit(op.Pop)
		return nil
	}
	i, _ := e.Index()
	switch e.Kind() {
	case bytecode.EntConst:
		return errors.Internalf(errors.E2202, "%s: cannot store to constant %d", b.describe(), i)
	case bytecode.EntLocal:
		b.emit(op.StoreLocal, i)
	case bytecode.EntCaptured:
		b.emit(op.StoreUpvalue, i)
	case bytecode.EntPackageMember:
		b.emit(op.StoreThisPkgField, i)
	default:
		return errors.Internalf(errors.E2201, "%s: cannot store to %s", b.describe(), e)
	}
	b.emit(op.Pop)
	return nil
}

var binaryOps = map[token.Token]op.Code{
	token.ADD:     op.Add,
	token.SUB:     op.Sub,
	token.MUL:     op.Mul,
	token.QUO:     op.Quo,
	token.REM:     op.Rem,
	token.AND:     op.And,
	token.OR:      op.Or,
	token.XOR:     op.Xor,
	token.SHL:     op.Shl,
	token.SHR:     op.Shr,
	token.AND_NOT: op.AndNot,
	token.EQL:     op.Eql,
	token.LSS:     op.Lss,
	token.GTR:     op.Gtr,
	token.NEQ:     op.Neq,
	token.LEQ:     op.Leq,
	token.GEQ:     op.Geq,
}

var unaryOps = map[token.Token]op.Code{
	token.ADD: op.UnaryAdd,
	token.SUB: op.UnarySub,
	token.XOR: op.UnaryXor,
	token.NOT: op.Not,
}

// EmitBinary emits the operator for tok, which combines the two values on
// top of the stack.
func (b *FunctionBuilder) EmitBinary(tok token.Token) error {
	code, ok := binaryOps[tok]
	if !ok {
		return errors.Unsupportedf("unsupported construct: binary operator %s", tok)
	}
	b.emit(code)
	return nil
}

// EmitUnary emits the operator for tok, applied to the value on top of the
// stack.
func (b *FunctionBuilder) EmitUnary(tok token.Token) error {
	code, ok := unaryOps[tok]
	if !ok {
		return errors.Unsupportedf("unsupported construct: unary operator %s", tok)
	}
	b.emit(code)
	return nil
}

// EmitPreCall marks the start of a call's argument list. The callee is
// already on the stack.
func (b *FunctionBuilder) EmitPreCall() { b.emit(op.PreCall) }

// EmitCall performs the call opened by the matching EmitPreCall. With
// ellipsis set, the last argument is spread into the variadic parameter.
func (b *FunctionBuilder) EmitCall(ellipsis bool) {
	if ellipsis {
		b.emit(op.CallEllipsis)
		return
	}
	b.emit(op.Call)
}

// EmitNewClosure turns the function constant on top of the stack into a
// closure over its captured variables.
func (b *FunctionBuilder) EmitNewClosure() { b.emit(op.NewClosure) }

// EmitReturn emits the function's return instruction.
func (b *FunctionBuilder) EmitReturn() { b.emit(op.Return) }

// EmitPop discards the top n values of the stack.
func (b *FunctionBuilder) EmitPop(n int) {
	for i := 0; i < n; i++ {
		b.emit(op.Pop)
	}
}

// EmitPushImm pushes a small integer encoded in the data cell.
func (b *FunctionBuilder) EmitPushImm(v op.Index) { b.emit(op.PushImm, v) }

// EmitPushBool pushes true or false.
func (b *FunctionBuilder) EmitPushBool(v bool) {
	if v {
		b.emit(op.PushTrue)
	} else {
		b.emit(op.PushFalse)
	}
}

// EmitPushNil pushes nil.
func (b *FunctionBuilder) EmitPushNil() { b.emit(op.PushNil) }

// EmitOp emits an opcode that takes no data cell, such as a builtin.
func (b *FunctionBuilder) EmitOp(code op.Code) { b.emit(code) }

// Seal returns the immutable function record. The builder must not be used
// afterwards.
func (b *FunctionBuilder) Seal() *bytecode.Function {
	return bytecode.NewFunction(bytecode.FunctionParams{
		Key:        b.key,
		Package:    b.pkg,
		Name:       b.name,
		Flag:       b.flag,
		Filename:   b.filename,
		Position:   b.pos,
		Code:       b.code,
		Locations:  b.locations,
		Constants:  b.consts,
		UpValues:   b.upvalues,
		ParamCount: b.paramCount,
		RetCount:   b.retCount,
		Variadic:   b.variadic,
		LocalAlloc: b.localAlloc,
		Entities:   b.entities,
	})
}

func (b *FunctionBuilder) describe() string {
	if b.name == "" {
		return fmt.Sprintf("function literal %s", b.key)
	}
	return fmt.Sprintf("function %q", b.name)
}
