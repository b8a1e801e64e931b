// Package ast defines the program tree consumed by the gosc compiler.
//
// The tree mirrors the shape of Go source, but it is produced by a front end
// that has already validated the program and bound every identifier to a
// declaration identity (EntityKey). The compiler never allocates or
// interprets entity keys beyond comparing them.
//
// Each syntactic category (declarations, statements, expressions, specs) is a
// closed set of node types distinguished by an unexported marker method.
package ast

import "fmt"

// EntityKey identifies a declaration. Two identifiers carrying the same key
// refer to the same variable, constant or function.
type EntityKey int32

// NoEntity is carried by identifiers that are not bound to a declaration:
// the blank identifier "_" and predeclared builtins.
const NoEntity EntityKey = 0

// BlankName is the write-only identifier that discards values.
const BlankName = "_"

// Position describes a location in source code.
type Position struct {
	Filename string
	Line     int // 1-based line number
	Column   int // 1-based column number
}

// IsValid returns true if the position has a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String returns "file:line:column", omitting the parts that are unknown.
func (p Position) String() string {
	switch {
	case !p.IsValid() && p.Filename == "":
		return "-"
	case !p.IsValid():
		return p.Filename
	case p.Filename == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
}

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() Position
}

// Expr represents an expression node. Expressions evaluate to one or more
// values and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents a declaration node.
type Decl interface {
	Node
	declNode()
}

// Spec represents a single import, constant, type or variable specification
// inside a GenDecl.
type Spec interface {
	Node
	specNode()
}

// File is a single source file of a compilation unit.
type File struct {
	Filename string
	Path     string   // import path of the package, if known
	Package  Position // position of the "package" keyword
	Name     *Ident   // package name
	Imports  []*ImportSpec
	Decls    []Decl
}

func (f *File) Pos() Position { return f.Package }
