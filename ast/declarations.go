package ast

import "go/token"

// ImportSpec is a single package import.
type ImportSpec struct {
	Name    *Ident // local package name, or nil
	PathPos Position
	Path    string // unquoted import path
}

func (s *ImportSpec) specNode()     {}
func (s *ImportSpec) Pos() Position { return s.PathPos }

// ValueSpec is a constant or variable declaration. For constants the front
// end folds each value into a BasicLit.
type ValueSpec struct {
	Names  []*Ident
	Type   Expr
	Values []Expr
}

func (s *ValueSpec) specNode()     {}
func (s *ValueSpec) Pos() Position { return s.Names[0].Pos() }

// TypeSpec is a type declaration.
type TypeSpec struct {
	Name *Ident
	Type Expr
}

func (s *TypeSpec) specNode()     {}
func (s *TypeSpec) Pos() Position { return s.Name.Pos() }

// BadDecl is a placeholder for a declaration the front end could not convert.
type BadDecl struct {
	From Position
}

func (d *BadDecl) declNode()     {}
func (d *BadDecl) Pos() Position { return d.From }

// GenDecl is an import, const, type or var declaration.
type GenDecl struct {
	TokPos Position
	Tok    token.Token // IMPORT, CONST, TYPE or VAR
	Specs  []Spec
}

func (d *GenDecl) declNode()     {}
func (d *GenDecl) Pos() Position { return d.TokPos }

// FuncDecl is a function or method declaration. A nil Body declares a
// function implemented outside the program, such as a native routine.
type FuncDecl struct {
	Recv *FieldList // nil for functions
	Name *Ident
	Type *FuncType
	Body *BlockStmt
}

func (d *FuncDecl) declNode()     {}
func (d *FuncDecl) Pos() Position { return d.Type.Pos() }
