package compiler

import (
	"go/token"

	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
	"github.com/gosc-lang/gosc/op"
)

// Binary operator of each operator assignment
var assignOps = map[token.Token]token.Token{
	token.ADD_ASSIGN:     token.ADD,
	token.SUB_ASSIGN:     token.SUB,
	token.MUL_ASSIGN:     token.MUL,
	token.QUO_ASSIGN:     token.QUO,
	token.REM_ASSIGN:     token.REM,
	token.AND_ASSIGN:     token.AND,
	token.OR_ASSIGN:      token.OR,
	token.XOR_ASSIGN:     token.XOR,
	token.SHL_ASSIGN:     token.SHL,
	token.SHR_ASSIGN:     token.SHR,
	token.AND_NOT_ASSIGN: token.AND_NOT,
}

func (c *Compiler) compileBlock(block *ast.BlockStmt) error {
	if block == nil {
		return nil
	}
	b, err := c.current()
	if err != nil {
		return err
	}
	for _, stmt := range block.List {
		if err := c.compileStmt(b, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStmt(b *FunctionBuilder, stmt ast.Stmt) error {
	c.at(stmt.Pos())
	switch stmt := stmt.(type) {
	case *ast.BlockStmt:
		return c.compileBlock(stmt)
	case *ast.EmptyStmt:
		return nil
	case *ast.ExprStmt:
		return c.compileExprStmt(b, stmt)
	case *ast.AssignStmt:
		return c.compileAssign(b, stmt)
	case *ast.IncDecStmt:
		return c.compileIncDec(b, stmt)
	case *ast.ReturnStmt:
		return c.compileReturn(b, stmt)
	case *ast.DeclStmt:
		return c.compileDeclStmt(b, stmt)
	case *ast.BadStmt:
		return c.unsupported(stmt, "malformed statement")
	case *ast.LabeledStmt:
		return c.unsupported(stmt, "labeled statement")
	case *ast.SendStmt:
		return c.unsupported(stmt, "send statement")
	case *ast.GoStmt:
		return c.unsupported(stmt, "go statement")
	case *ast.DeferStmt:
		return c.unsupported(stmt, "defer statement")
	case *ast.BranchStmt:
		return c.unsupported(stmt, stmt.Tok.String()+" statement")
	case *ast.IfStmt:
		return c.unsupported(stmt, "if statement")
	case *ast.CaseClause:
		return c.unsupported(stmt, "case clause")
	case *ast.SwitchStmt:
		return c.unsupported(stmt, "switch statement")
	case *ast.TypeSwitchStmt:
		return c.unsupported(stmt, "type switch statement")
	case *ast.CommClause:
		return c.unsupported(stmt, "select case")
	case *ast.SelectStmt:
		return c.unsupported(stmt, "select statement")
	case *ast.ForStmt:
		return c.unsupported(stmt, "for statement")
	case *ast.RangeStmt:
		return c.unsupported(stmt, "range statement")
	default:
		return c.unsupported(stmt, "statement")
	}
}

// compileExprStmt evaluates the expression and discards what it leaves on
// the stack.
func (c *Compiler) compileExprStmt(b *FunctionBuilder, stmt *ast.ExprStmt) error {
	if err := c.compileExpr(b, stmt.X); err != nil {
		return err
	}
	if call, ok := unparen(stmt.X).(*ast.CallExpr); ok {
		b.EmitPop(call.Results)
	} else {
		b.EmitPop(1)
	}
	return nil
}

func (c *Compiler) compileAssign(b *FunctionBuilder, stmt *ast.AssignStmt) error {
	switch stmt.Tok {
	case token.ASSIGN:
		targets := make([]bytecode.EntIndex, len(stmt.Lhs))
		for i, lhs := range stmt.Lhs {
			id, ok := unparen(lhs).(*ast.Ident)
			if !ok {
				return c.unsupported(lhs, "assignment to "+exprKind(lhs))
			}
			target, err := c.resolve(id)
			if err != nil {
				return c.locate(err, id.Pos())
			}
			targets[i] = target
		}
		return c.assign(b, stmt, targets, stmt.Rhs)
	case token.DEFINE:
		targets := make([]bytecode.EntIndex, len(stmt.Lhs))
		for i, lhs := range stmt.Lhs {
			id, ok := lhs.(*ast.Ident)
			if !ok {
				return c.unsupported(lhs, "short variable declaration of "+exprKind(lhs))
			}
			target, err := c.declare(b, id, true)
			if err != nil {
				return c.locate(err, id.Pos())
			}
			targets[i] = target
		}
		return c.assign(b, stmt, targets, stmt.Rhs)
	}

	binary, ok := assignOps[stmt.Tok]
	if !ok {
		return c.unsupported(stmt, "assignment operator "+stmt.Tok.String())
	}
	if len(stmt.Lhs) != 1 || len(stmt.Rhs) != 1 {
		return c.unsupported(stmt, "multi-value operator assignment")
	}
	id, ok := unparen(stmt.Lhs[0]).(*ast.Ident)
	if !ok {
		return c.unsupported(stmt.Lhs[0], "assignment to "+exprKind(stmt.Lhs[0]))
	}
	target, err := c.resolve(id)
	if err != nil {
		return c.locate(err, id.Pos())
	}
	if err := b.EmitLoad(target); err != nil {
		return c.locate(err, id.Pos())
	}
	if err := c.compileExpr(b, stmt.Rhs[0]); err != nil {
		return err
	}
	c.at(stmt.TokPos)
	if err := b.EmitBinary(binary); err != nil {
		return c.locate(err, stmt.TokPos)
	}
	return c.locate(b.EmitStore(target), stmt.Pos())
}

// declare returns the storage for a name introduced by a declaration. The
// blank identifier gets Blank. With redeclare set, a name already declared
// in the current function keeps its storage, as ":=" allows.
func (c *Compiler) declare(b *FunctionBuilder, id *ast.Ident, redeclare bool) (bytecode.EntIndex, error) {
	if id.IsBlank() {
		return bytecode.Blank, nil
	}
	if redeclare {
		if e, ok := b.Lookup(id.Entity); ok {
			return e, nil
		}
	}
	if id.Entity == ast.NoEntity {
		return bytecode.EntIndex{}, errors.Internalf(errors.E2201,
			"declared name %q is not bound to a declaration", id.Name)
	}
	return b.AddLocal(id.Entity)
}

// assign evaluates values left to right and stores them into targets in
// reverse order, so the last value, which is on top of the stack, goes to
// the last target. A single call may supply every value.
func (c *Compiler) assign(b *FunctionBuilder, node ast.Node, targets []bytecode.EntIndex, values []ast.Expr) error {
	switch {
	case len(values) == len(targets):
		for _, value := range values {
			if err := c.compileExpr(b, value); err != nil {
				return err
			}
		}
	case len(values) == 1:
		call, ok := unparen(values[0]).(*ast.CallExpr)
		if !ok || call.Results != len(targets) {
			return c.unsupported(node, "assignment of 1 value to "+countOf(len(targets), "targets"))
		}
		if err := c.compileExpr(b, call); err != nil {
			return err
		}
	default:
		return c.unsupported(node, "assignment of "+countOf(len(values), "values")+" to "+countOf(len(targets), "targets"))
	}
	c.at(node.Pos())
	for i := len(targets) - 1; i >= 0; i-- {
		if err := b.EmitStore(targets[i]); err != nil {
			return c.locate(err, node.Pos())
		}
	}
	return nil
}

func (c *Compiler) compileIncDec(b *FunctionBuilder, stmt *ast.IncDecStmt) error {
	id, ok := unparen(stmt.X).(*ast.Ident)
	if !ok {
		return c.unsupported(stmt, stmt.Tok.String()+" of "+exprKind(stmt.X))
	}
	target, err := c.resolve(id)
	if err != nil {
		return c.locate(err, id.Pos())
	}
	if err := b.EmitLoad(target); err != nil {
		return c.locate(err, id.Pos())
	}
	b.EmitPushImm(1)
	if stmt.Tok == token.DEC {
		b.EmitOp(op.Sub)
	} else {
		b.EmitOp(op.Add)
	}
	return c.locate(b.EmitStore(target), stmt.Pos())
}

// compileReturn stores each result into its result slot, which comes first
// in the activation, and returns. A bare return leaves the named results as
// they are.
func (c *Compiler) compileReturn(b *FunctionBuilder, stmt *ast.ReturnStmt) error {
	results := stmt.Results
	if len(results) == 1 && b.retCount > 1 {
		call, ok := unparen(results[0]).(*ast.CallExpr)
		if !ok || call.Results != b.retCount {
			return c.unsupported(stmt, "return of 1 value from a function with "+countOf(b.retCount, "results"))
		}
		if err := c.compileExpr(b, call); err != nil {
			return err
		}
		c.at(stmt.Pos())
		for i := b.retCount - 1; i >= 0; i-- {
			if err := b.EmitStore(bytecode.LocalVar(op.Index(i))); err != nil {
				return c.locate(err, stmt.Pos())
			}
		}
		b.EmitReturn()
		return nil
	}
	if len(results) != 0 && len(results) != b.retCount {
		return c.unsupported(stmt, "return of "+countOf(len(results), "values")+" from a function with "+countOf(b.retCount, "results"))
	}
	for i, result := range results {
		if err := c.compileExpr(b, result); err != nil {
			return err
		}
		if err := b.EmitStore(bytecode.LocalVar(op.Index(i))); err != nil {
			return c.locate(err, result.Pos())
		}
	}
	c.at(stmt.Pos())
	b.EmitReturn()
	return nil
}

func (c *Compiler) compileDeclStmt(b *FunctionBuilder, stmt *ast.DeclStmt) error {
	decl := stmt.Decl
	switch decl.Tok {
	case token.VAR:
		for _, spec := range decl.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				return c.unsupported(spec, "variable specification")
			}
			if err := c.compileVarSpec(b, vs); err != nil {
				return err
			}
		}
		return nil
	case token.CONST:
		for _, spec := range decl.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				return c.unsupported(spec, "constant specification")
			}
			if err := c.compileConstSpec(b, vs); err != nil {
				return err
			}
		}
		return nil
	case token.TYPE:
		return c.unsupported(stmt, "local type declaration")
	default:
		return c.unsupported(stmt, "local "+decl.Tok.String()+" declaration")
	}
}

// compileVarSpec declares a local variable per name and initializes it. The
// front end supplies the zero value of variables declared without one.
func (c *Compiler) compileVarSpec(b *FunctionBuilder, spec *ast.ValueSpec) error {
	if len(spec.Values) == 0 {
		return c.unsupported(spec, "variable declaration without initializer")
	}
	targets := make([]bytecode.EntIndex, len(spec.Names))
	for i, name := range spec.Names {
		target, err := c.declare(b, name, false)
		if err != nil {
			return c.locate(err, name.Pos())
		}
		targets[i] = target
	}
	return c.assign(b, spec, targets, spec.Values)
}

// compileConstSpec adds one constant per name to the pool. No code is
// emitted; uses of the names load the constants.
func (c *Compiler) compileConstSpec(b *FunctionBuilder, spec *ast.ValueSpec) error {
	if len(spec.Values) != len(spec.Names) {
		return c.unsupported(spec, "constant declaration without values")
	}
	for i, name := range spec.Names {
		lit, ok := unparen(spec.Values[i]).(*ast.BasicLit)
		if !ok {
			return c.unsupported(spec.Values[i], "constant expression")
		}
		if name.IsBlank() {
			continue
		}
		value, err := literal(lit)
		if err != nil {
			return c.locate(err, lit.Pos())
		}
		if _, err := b.AddConst(name.Entity, value); err != nil {
			return c.locate(err, name.Pos())
		}
	}
	return nil
}
