package ast

import "go/token"

// BadExpr is a placeholder for an expression the front end could not convert.
type BadExpr struct {
	From Position
}

func (x *BadExpr) exprNode()     {}
func (x *BadExpr) Pos() Position { return x.From }

// Ident refers to a declaration by name.
type Ident struct {
	NamePos Position
	Name    string
	Entity  EntityKey // NoEntity for "_" and predeclared builtins
}

func (x *Ident) exprNode()     {}
func (x *Ident) Pos() Position { return x.NamePos }

// IsBlank returns true for the write-only identifier "_".
func (x *Ident) IsBlank() bool { return x.Name == BlankName }

// LitKind describes the kind of a basic literal.
type LitKind uint8

const (
	LitInt LitKind = iota + 1
	LitFloat
	LitImag
	LitChar
	LitString
	LitBool
	LitNil
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitImag:
		return "imag"
	case LitChar:
		return "char"
	case LitString:
		return "string"
	case LitBool:
		return "bool"
	case LitNil:
		return "nil"
	default:
		return "invalid"
	}
}

// BasicLit is a literal of basic type. Value holds the literal as written in
// source (quoted for strings and chars); bools are "true" or "false".
type BasicLit struct {
	ValuePos Position
	Kind     LitKind
	Value    string
}

func (x *BasicLit) exprNode()     {}
func (x *BasicLit) Pos() Position { return x.ValuePos }

// FuncLit is an anonymous function.
type FuncLit struct {
	Type *FuncType
	Body *BlockStmt
}

func (x *FuncLit) exprNode()     {}
func (x *FuncLit) Pos() Position { return x.Type.Pos() }

// CallExpr is a function call. Results is the number of values the call
// produces, as determined by the front end.
type CallExpr struct {
	Fun      Expr
	Lparen   Position
	Args     []Expr
	Ellipsis Position // valid if the last argument is followed by "..."
	Results  int
}

func (x *CallExpr) exprNode()     {}
func (x *CallExpr) Pos() Position { return x.Fun.Pos() }

// BinaryExpr is an expression of the form "X op Y".
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    token.Token
	Y     Expr
}

func (x *BinaryExpr) exprNode()     {}
func (x *BinaryExpr) Pos() Position { return x.X.Pos() }

// UnaryExpr is an expression of the form "op X".
type UnaryExpr struct {
	OpPos Position
	Op    token.Token
	X     Expr
}

func (x *UnaryExpr) exprNode()     {}
func (x *UnaryExpr) Pos() Position { return x.OpPos }

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Lparen Position
	X      Expr
}

func (x *ParenExpr) exprNode()     {}
func (x *ParenExpr) Pos() Position { return x.Lparen }

// SelectorExpr is an expression of the form "X.Sel".
type SelectorExpr struct {
	X   Expr
	Sel *Ident
}

func (x *SelectorExpr) exprNode()     {}
func (x *SelectorExpr) Pos() Position { return x.X.Pos() }

// IndexExpr is an expression of the form "X[Index]".
type IndexExpr struct {
	X      Expr
	Lbrack Position
	Index  Expr
}

func (x *IndexExpr) exprNode()     {}
func (x *IndexExpr) Pos() Position { return x.X.Pos() }

// SliceExpr is an expression of the form "X[Low:High]" or "X[Low:High:Max]".
type SliceExpr struct {
	X      Expr
	Lbrack Position
	Low    Expr
	High   Expr
	Max    Expr
	Slice3 bool
}

func (x *SliceExpr) exprNode()     {}
func (x *SliceExpr) Pos() Position { return x.X.Pos() }

// StarExpr is a dereference "*X" or a pointer type.
type StarExpr struct {
	Star Position
	X    Expr
}

func (x *StarExpr) exprNode()     {}
func (x *StarExpr) Pos() Position { return x.Star }

// TypeAssertExpr is an expression of the form "X.(Type)".
type TypeAssertExpr struct {
	X      Expr
	Lparen Position
	Type   Expr // nil for the "X.(type)" form of a type switch
}

func (x *TypeAssertExpr) exprNode()     {}
func (x *TypeAssertExpr) Pos() Position { return x.X.Pos() }

// CompositeLit is a composite literal such as "T{1, 2}".
type CompositeLit struct {
	Type   Expr
	Lbrace Position
	Elts   []Expr
}

func (x *CompositeLit) exprNode() {}
func (x *CompositeLit) Pos() Position {
	if x.Type != nil {
		return x.Type.Pos()
	}
	return x.Lbrace
}

// KeyValueExpr is a "Key: Value" pair inside a composite literal.
type KeyValueExpr struct {
	Key   Expr
	Colon Position
	Value Expr
}

func (x *KeyValueExpr) exprNode()     {}
func (x *KeyValueExpr) Pos() Position { return x.Key.Pos() }

// Ellipsis is the "...T" of a variadic parameter or "[...]T" array length.
type Ellipsis struct {
	Ellipsis Position
	Elt      Expr
}

func (x *Ellipsis) exprNode()     {}
func (x *Ellipsis) Pos() Position { return x.Ellipsis }

// TypeKind names the category of a TypeExpr.
type TypeKind uint8

const (
	ArrayType TypeKind = iota + 1
	StructType
	InterfaceType
	MapType
	ChanType
	// NamedType is a reference to a declared or predeclared type, as in the
	// callee of a conversion "T(x)".
	NamedType
)

func (k TypeKind) String() string {
	switch k {
	case ArrayType:
		return "array type"
	case StructType:
		return "struct type"
	case InterfaceType:
		return "interface type"
	case MapType:
		return "map type"
	case ChanType:
		return "channel type"
	case NamedType:
		return "named type"
	default:
		return "type"
	}
}

// TypeExpr is a type literal appearing in expression position. Function
// types are represented by FuncType instead.
type TypeExpr struct {
	TypePos Position
	Kind    TypeKind
}

func (x *TypeExpr) exprNode()     {}
func (x *TypeExpr) Pos() Position { return x.TypePos }

// Field is a parameter or result declaration. A field without names still
// occupies one slot.
type Field struct {
	Names []*Ident
	Type  Expr
}

func (f *Field) Pos() Position {
	if len(f.Names) > 0 {
		return f.Names[0].Pos()
	}
	if f.Type != nil {
		return f.Type.Pos()
	}
	return Position{}
}

// FieldList is a parenthesized list of fields.
type FieldList struct {
	Opening Position
	List    []*Field
}

func (l *FieldList) Pos() Position { return l.Opening }

// NumFields returns the number of slots the list declares: one per name, or
// one for each unnamed field.
func (l *FieldList) NumFields() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, f := range l.List {
		if len(f.Names) == 0 {
			n++
		} else {
			n += len(f.Names)
		}
	}
	return n
}

// FuncType is the signature of a function literal or declaration.
type FuncType struct {
	Func    Position
	Params  *FieldList
	Results *FieldList // may be nil
}

func (x *FuncType) exprNode()     {}
func (x *FuncType) Pos() Position { return x.Func }
