// Package op defines the instruction set shared by the gosc compiler and the
// execution engine that runs its output.
//
// An instruction is an opcode cell optionally followed by exactly one data
// cell. Whether a data cell follows is fixed per opcode (see Info.Arity) and
// is part of the binary contract with the engine: the numbering below must
// not change once images have been written.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

// Index is the payload of a data cell: a slot, pool or member index, or an
// immediate value.
type Index = int16

// MaxInlineLocalIndex is the largest local slot that has a dedicated load
// opcode. Loads of higher slots use LoadLocal followed by a data cell.
const MaxInlineLocalIndex Index = 15

// Variadic marks a stack effect that depends on run-time state, such as the
// number of arguments between PreCall and Call.
const Variadic = -128

const (
	Invalid Code = 0

	// Push and pop
	PushConst Code = 100
	PushNil   Code = 101
	PushFalse Code = 102
	PushTrue  Code = 103
	PushImm   Code = 104
	Pop       Code = 110

	// Locals
	LoadLocal0   Code = 200
	LoadLocal1   Code = 201
	LoadLocal2   Code = 202
	LoadLocal3   Code = 203
	LoadLocal4   Code = 204
	LoadLocal5   Code = 205
	LoadLocal6   Code = 206
	LoadLocal7   Code = 207
	LoadLocal8   Code = 208
	LoadLocal9   Code = 209
	LoadLocal10  Code = 210
	LoadLocal11  Code = 211
	LoadLocal12  Code = 212
	LoadLocal13  Code = 213
	LoadLocal14  Code = 214
	LoadLocal15  Code = 215
	LoadLocal    Code = 220
	StoreLocal   Code = 221
	StoreLocalNT Code = 222 // stores a value that is not on top of the stack
	StoreLocalOp Code = 223 // stores with an operation, for += and friends

	// Captured variables
	LoadUpvalue    Code = 230
	StoreUpvalue   Code = 231
	StoreUpvalueNT Code = 232
	StoreUpvalueOp Code = 233

	// Fields
	LoadField       Code = 240
	StoreField      Code = 241
	StoreFieldNT    Code = 242
	StoreFieldOp    Code = 243
	LoadFieldImm    Code = 250
	StoreFieldImm   Code = 251
	StoreFieldImmNT Code = 252
	StoreFieldImmOp Code = 253

	// Members of the package being executed
	LoadThisPkgField    Code = 260
	StoreThisPkgField   Code = 261
	StoreThisPkgFieldNT Code = 262
	StoreThisPkgFieldOp Code = 263

	// Pointers
	StoreDeref   Code = 270
	StoreDerefNT Code = 271
	StoreDerefOp Code = 272

	// Arithmetic, logical, comparison
	Add      Code = 300 // +
	Sub      Code = 301 // -
	Mul      Code = 302 // *
	Quo      Code = 303 // /
	Rem      Code = 304 // %
	And      Code = 305 // &
	Or       Code = 306 // |
	Xor      Code = 307 // ^
	Shl      Code = 308 // <<
	Shr      Code = 309 // >>
	AndNot   Code = 310 // &^
	UnaryAdd Code = 311 // +x
	UnarySub Code = 312 // -x
	UnaryXor Code = 313 // ^x
	Ref      Code = 314 // &x
	Deref    Code = 315 // *x
	Arrow    Code = 316 // <-x
	Not      Code = 317 // !x
	Eql      Code = 318 // ==
	Lss      Code = 319 // <
	Gtr      Code = 320 // >
	Neq      Code = 321 // !=
	Leq      Code = 322 // <=
	Geq      Code = 323 // >=

	// Calls and closures
	PreCall       Code = 400
	Call          Code = 401
	CallEllipsis  Code = 402
	CloseUpvalue  Code = 403
	Return        Code = 404
	ReturnInitPkg Code = 405
	NewClosure    Code = 406

	// Jumps
	Jump      Code = 500
	JumpIf    Code = 501
	JumpIfNot Code = 502
	Loop      Code = 503
	Range     Code = 504

	// Built-in functionality
	Import    Code = 600
	Slice     Code = 601
	SliceFull Code = 602
	New       Code = 603
	Make      Code = 604
	Len       Code = 605
	Cap       Code = 606
	Append    Code = 607
	Assert    Code = 608
)

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	// Arity is the number of data cells that follow the opcode: 0 or 1.
	Arity int
	// StackEffect is the net change in stack depth, or Variadic.
	StackEffect int
}

const maxCode = Assert

var infos = make([]Info, maxCode+1)

func init() {
	type opInfo struct {
		op     Code
		name   string
		arity  int
		effect int
	}
	ops := []opInfo{
		{PushConst, "PUSH_CONST", 1, 1},
		{PushNil, "PUSH_NIL", 0, 1},
		{PushFalse, "PUSH_FALSE", 0, 1},
		{PushTrue, "PUSH_TRUE", 0, 1},
		{PushImm, "PUSH_IMM", 1, 1},
		{Pop, "POP", 0, -1},
		{LoadLocal, "LOAD_LOCAL", 1, 1},
		{StoreLocal, "STORE_LOCAL", 1, 0},
		{StoreLocalNT, "STORE_LOCAL_NT", 1, 0},
		{StoreLocalOp, "STORE_LOCAL_OP", 1, -1},
		{LoadUpvalue, "LOAD_UPVALUE", 1, 1},
		{StoreUpvalue, "STORE_UPVALUE", 1, 0},
		{StoreUpvalueNT, "STORE_UPVALUE_NT", 1, 0},
		{StoreUpvalueOp, "STORE_UPVALUE_OP", 1, -1},
		{LoadField, "LOAD_FIELD", 0, -1},
		{StoreField, "STORE_FIELD", 0, 0},
		{StoreFieldNT, "STORE_FIELD_NT", 0, 0},
		{StoreFieldOp, "STORE_FIELD_OP", 0, -1},
		{LoadFieldImm, "LOAD_FIELD_IMM", 1, 0},
		{StoreFieldImm, "STORE_FIELD_IMM", 1, 0},
		{StoreFieldImmNT, "STORE_FIELD_IMM_NT", 1, 0},
		{StoreFieldImmOp, "STORE_FIELD_IMM_OP", 1, -1},
		{LoadThisPkgField, "LOAD_THIS_PKG_FIELD", 1, 1},
		{StoreThisPkgField, "STORE_THIS_PKG_FIELD", 1, 0},
		{StoreThisPkgFieldNT, "STORE_THIS_PKG_FIELD_NT", 1, 0},
		{StoreThisPkgFieldOp, "STORE_THIS_PKG_FIELD_OP", 1, -1},
		{StoreDeref, "STORE_DEREF", 0, 0},
		{StoreDerefNT, "STORE_DEREF_NT", 0, 0},
		{StoreDerefOp, "STORE_DEREF_OP", 0, -1},
		{Add, "ADD", 0, -1},
		{Sub, "SUB", 0, -1},
		{Mul, "MUL", 0, -1},
		{Quo, "QUO", 0, -1},
		{Rem, "REM", 0, -1},
		{And, "AND", 0, -1},
		{Or, "OR", 0, -1},
		{Xor, "XOR", 0, -1},
		{Shl, "SHL", 0, -1},
		{Shr, "SHR", 0, -1},
		{AndNot, "AND_NOT", 0, -1},
		{UnaryAdd, "UNARY_ADD", 0, 0},
		{UnarySub, "UNARY_SUB", 0, 0},
		{UnaryXor, "UNARY_XOR", 0, 0},
		{Ref, "REF", 0, 0},
		{Deref, "DEREF", 0, 0},
		{Arrow, "ARROW", 0, 0},
		{Not, "NOT", 0, 0},
		{Eql, "EQL", 0, -1},
		{Lss, "LSS", 0, -1},
		{Gtr, "GTR", 0, -1},
		{Neq, "NEQ", 0, -1},
		{Leq, "LEQ", 0, -1},
		{Geq, "GEQ", 0, -1},
		{PreCall, "PRE_CALL", 0, Variadic},
		{Call, "CALL", 0, Variadic},
		{CallEllipsis, "CALL_ELLIPSIS", 0, Variadic},
		{CloseUpvalue, "CLOSE_UPVALUE", 0, -1},
		{Return, "RETURN", 0, Variadic},
		{ReturnInitPkg, "RETURN_INIT_PKG", 0, Variadic},
		{NewClosure, "NEW_CLOSURE", 0, 0},
		{Jump, "JUMP", 1, 0},
		{JumpIf, "JUMP_IF", 1, -1},
		{JumpIfNot, "JUMP_IF_NOT", 1, -1},
		{Loop, "LOOP", 1, 0},
		{Range, "RANGE", 0, 1},
		{Import, "IMPORT", 1, 1},
		{Slice, "SLICE", 0, -2},
		{SliceFull, "SLICE_FULL", 0, -3},
		{New, "NEW", 0, 0},
		{Make, "MAKE", 0, 0},
		{Len, "LEN", 0, 0},
		{Cap, "CAP", 0, 0},
		{Append, "APPEND", 0, Variadic},
		{Assert, "ASSERT", 0, 0},
	}
	for i := Index(0); i <= MaxInlineLocalIndex; i++ {
		ops = append(ops, opInfo{LoadLocal0 + Code(i), loadLocalNames[i], 0, 1})
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:        o.op,
			Name:        o.name,
			Arity:       o.arity,
			StackEffect: o.effect,
		}
	}
}

var loadLocalNames = [...]string{
	"LOAD_LOCAL0", "LOAD_LOCAL1", "LOAD_LOCAL2", "LOAD_LOCAL3",
	"LOAD_LOCAL4", "LOAD_LOCAL5", "LOAD_LOCAL6", "LOAD_LOCAL7",
	"LOAD_LOCAL8", "LOAD_LOCAL9", "LOAD_LOCAL10", "LOAD_LOCAL11",
	"LOAD_LOCAL12", "LOAD_LOCAL13", "LOAD_LOCAL14", "LOAD_LOCAL15",
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(code Code) Info {
	if code > maxCode {
		return Info{}
	}
	return infos[code]
}

// Known returns true if code is part of the instruction set.
func Known(code Code) bool {
	return GetInfo(code).Name != ""
}

// String returns the mnemonic of the opcode.
func (c Code) String() string {
	if name := GetInfo(c).Name; name != "" {
		return name
	}
	return "INVALID"
}

// LoadLocalFor returns the opcode that loads local slot i. Slots up to
// MaxInlineLocalIndex have a dedicated opcode that takes no data cell;
// everything else is LoadLocal.
func LoadLocalFor(i Index) Code {
	if i >= 0 && i <= MaxInlineLocalIndex {
		return LoadLocal0 + Code(i)
	}
	return LoadLocal
}

// InlineLocal reports the slot loaded by one of the LoadLocal0..15 opcodes.
func (c Code) InlineLocal() (Index, bool) {
	if c >= LoadLocal0 && c <= LoadLocal15 {
		return Index(c - LoadLocal0), true
	}
	return 0, false
}
