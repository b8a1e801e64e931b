package compiler

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
)

// Helpers that build resolved trees by hand, the way the front end would.

func pos(line, col int) ast.Position {
	return ast.Position{Filename: "main.go", Line: line, Column: col}
}

func ident(name string, entity ast.EntityKey) *ast.Ident {
	return &ast.Ident{Name: name, Entity: entity}
}

func blank() *ast.Ident { return &ast.Ident{Name: "_"} }

func intLit(v string) *ast.BasicLit { return &ast.BasicLit{Kind: ast.LitInt, Value: v} }

func strLit(v string) *ast.BasicLit { return &ast.BasicLit{Kind: ast.LitString, Value: v} }

func named(names ...*ast.Ident) *ast.FieldList {
	list := &ast.FieldList{}
	for _, n := range names {
		list.List = append(list.List, &ast.Field{Names: []*ast.Ident{n}, Type: ident("int", ast.NoEntity)})
	}
	return list
}

func unnamed(n int) *ast.FieldList {
	list := &ast.FieldList{}
	for i := 0; i < n; i++ {
		list.List = append(list.List, &ast.Field{Type: ident("int", ast.NoEntity)})
	}
	return list
}

func signature(params, results *ast.FieldList) *ast.FuncType {
	return &ast.FuncType{Params: params, Results: results}
}

func funcDecl(name *ast.Ident, ft *ast.FuncType, body ...ast.Stmt) *ast.FuncDecl {
	if ft == nil {
		ft = signature(nil, nil)
	}
	return &ast.FuncDecl{Name: name, Type: ft, Body: &ast.BlockStmt{List: body}}
}

func funcLit(ft *ast.FuncType, body ...ast.Stmt) *ast.FuncLit {
	if ft == nil {
		ft = signature(nil, nil)
	}
	return &ast.FuncLit{Type: ft, Body: &ast.BlockStmt{List: body}}
}

func call(fun ast.Expr, results int, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Fun: fun, Args: args, Results: results}
}

func define(lhs []ast.Expr, rhs ...ast.Expr) *ast.AssignStmt {
	return &ast.AssignStmt{Lhs: lhs, Tok: token.DEFINE, Rhs: rhs}
}

func assignTo(tok token.Token, lhs []ast.Expr, rhs ...ast.Expr) *ast.AssignStmt {
	return &ast.AssignStmt{Lhs: lhs, Tok: tok, Rhs: rhs}
}

func exprs(xs ...ast.Expr) []ast.Expr { return xs }

func ret(results ...ast.Expr) *ast.ReturnStmt { return &ast.ReturnStmt{Results: results} }

func stmt(x ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{X: x} }

func file(pkg string, decls ...ast.Decl) *ast.File {
	return &ast.File{
		Filename: "main.go",
		Name:     ident(pkg, ast.NoEntity),
		Decls:    decls,
	}
}

func compileTest(t *testing.T, cfg *Config, files ...*ast.File) *bytecode.Program {
	t.Helper()
	program, err := Compile(cfg, files...)
	require.NoError(t, err)
	return program
}

// listing renders the instructions of fn, one string per instruction.
func listing(fn *bytecode.Function) []string {
	var out []string
	for _, instr := range fn.Instructions().All() {
		out = append(out, instr.String())
	}
	return out
}

func function(t *testing.T, program *bytecode.Program, key bytecode.FunctionKey) *bytecode.Function {
	t.Helper()
	fn := program.FunctionAt(key)
	require.NotNil(t, fn, "function %s", key)
	return fn
}
