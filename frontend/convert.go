package frontend

import (
	goast "go/ast"
	"go/token"
	"go/types"
	"strconv"

	"github.com/gosc-lang/gosc/ast"
	"golang.org/x/tools/go/ast/astutil"
)

// converter converts one checked file.
type converter struct {
	fe   *Frontend
	info *types.Info
}

func (c *converter) pos(p token.Pos) ast.Position {
	if !p.IsValid() {
		return ast.Position{}
	}
	return c.fe.Position(p)
}

func (c *converter) file(f *goast.File, path string) *ast.File {
	out := &ast.File{
		Filename: c.fe.fset.Position(f.Package).Filename,
		Path:     path,
		Package:  c.pos(f.Package),
		Name:     &ast.Ident{NamePos: c.pos(f.Name.Pos()), Name: f.Name.Name},
	}
	for _, spec := range f.Imports {
		out.Imports = append(out.Imports, c.importSpec(spec))
	}
	for _, decl := range f.Decls {
		out.Decls = append(out.Decls, c.decl(decl))
	}
	return out
}

// ident converts an identifier, binding it to the declaration it defines or
// uses. The blank identifier and predeclared objects stay unbound.
func (c *converter) ident(id *goast.Ident) *ast.Ident {
	if id == nil {
		return nil
	}
	out := &ast.Ident{NamePos: c.pos(id.Pos()), Name: id.Name}
	if id.Name == ast.BlankName {
		return out
	}
	obj := c.info.Defs[id]
	if obj == nil {
		obj = c.info.Uses[id]
	}
	if obj == nil || obj.Parent() == types.Universe {
		return out
	}
	if _, ok := obj.(*types.Builtin); ok {
		return out
	}
	out.Entity = c.fe.key(obj)
	return out
}

func (c *converter) idents(ids []*goast.Ident) []*ast.Ident {
	if ids == nil {
		return nil
	}
	out := make([]*ast.Ident, len(ids))
	for i, id := range ids {
		out[i] = c.ident(id)
	}
	return out
}

// Declarations

func (c *converter) decl(decl goast.Decl) ast.Decl {
	switch d := decl.(type) {
	case *goast.FuncDecl:
		out := &ast.FuncDecl{
			Recv: c.fieldList(d.Recv),
			Name: c.ident(d.Name),
			Type: c.funcType(d.Type),
		}
		if d.Body != nil {
			out.Body = c.block(d.Body)
		}
		return out
	case *goast.GenDecl:
		return c.genDecl(d)
	default:
		return &ast.BadDecl{From: c.pos(decl.Pos())}
	}
}

func (c *converter) genDecl(d *goast.GenDecl) *ast.GenDecl {
	out := &ast.GenDecl{TokPos: c.pos(d.TokPos), Tok: d.Tok}
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *goast.ImportSpec:
			out.Specs = append(out.Specs, c.importSpec(s))
		case *goast.ValueSpec:
			if d.Tok == token.CONST {
				out.Specs = append(out.Specs, c.constSpec(s))
			} else {
				out.Specs = append(out.Specs, c.varSpec(s))
			}
		case *goast.TypeSpec:
			out.Specs = append(out.Specs, &ast.TypeSpec{Name: c.ident(s.Name), Type: c.typeExpr(s.Type)})
		}
	}
	return out
}

func (c *converter) importSpec(s *goast.ImportSpec) *ast.ImportSpec {
	path, err := strconv.Unquote(s.Path.Value)
	if err != nil {
		path = s.Path.Value
	}
	return &ast.ImportSpec{Name: c.ident(s.Name), PathPos: c.pos(s.Path.Pos()), Path: path}
}

// constSpec folds the value of every name, including names whose value is
// implied by a previous spec.
func (c *converter) constSpec(s *goast.ValueSpec) *ast.ValueSpec {
	out := &ast.ValueSpec{Names: c.idents(s.Names), Type: c.typeExpr(s.Type)}
	for i, name := range s.Names {
		pos := c.pos(name.Pos())
		if obj, ok := c.info.Defs[name].(*types.Const); ok {
			if lit := constLit(obj.Val(), obj.Type(), pos); lit != nil {
				out.Values = append(out.Values, lit)
				continue
			}
		}
		if i < len(s.Values) {
			out.Values = append(out.Values, c.expr(s.Values[i]))
		} else {
			out.Values = append(out.Values, &ast.BadExpr{From: pos})
		}
	}
	return out
}

// varSpec supplies zero values when the declaration has none and every
// variable's type has a literal zero value.
func (c *converter) varSpec(s *goast.ValueSpec) *ast.ValueSpec {
	out := &ast.ValueSpec{Names: c.idents(s.Names), Type: c.typeExpr(s.Type), Values: c.exprs(s.Values)}
	if len(s.Values) > 0 {
		return out
	}
	var zeros []ast.Expr
	for _, name := range s.Names {
		obj := c.info.Defs[name]
		if obj == nil {
			return out
		}
		zero := zeroLit(obj.Type(), c.pos(name.Pos()))
		if zero == nil {
			return out
		}
		zeros = append(zeros, zero)
	}
	out.Values = zeros
	return out
}

func (c *converter) fieldList(l *goast.FieldList) *ast.FieldList {
	if l == nil {
		return nil
	}
	out := &ast.FieldList{Opening: c.pos(l.Opening)}
	for _, f := range l.List {
		out.List = append(out.List, &ast.Field{Names: c.idents(f.Names), Type: c.typeExpr(f.Type)})
	}
	return out
}

func (c *converter) funcType(t *goast.FuncType) *ast.FuncType {
	if t == nil {
		return nil
	}
	pos := t.Func
	if !pos.IsValid() && t.Params != nil {
		pos = t.Params.Opening
	}
	return &ast.FuncType{
		Func:    c.pos(pos),
		Params:  c.fieldList(t.Params),
		Results: c.fieldList(t.Results),
	}
}

// Statements

func (c *converter) block(b *goast.BlockStmt) *ast.BlockStmt {
	if b == nil {
		return nil
	}
	return &ast.BlockStmt{Lbrace: c.pos(b.Lbrace), List: c.stmts(b.List)}
}

func (c *converter) stmts(list []goast.Stmt) []ast.Stmt {
	if list == nil {
		return nil
	}
	out := make([]ast.Stmt, len(list))
	for i, s := range list {
		out[i] = c.stmt(s)
	}
	return out
}

func (c *converter) optStmt(s goast.Stmt) ast.Stmt {
	if s == nil {
		return nil
	}
	return c.stmt(s)
}

func (c *converter) stmt(s goast.Stmt) ast.Stmt {
	switch s := s.(type) {
	case *goast.DeclStmt:
		if d, ok := s.Decl.(*goast.GenDecl); ok {
			return &ast.DeclStmt{Decl: c.genDecl(d)}
		}
	case *goast.EmptyStmt:
		return &ast.EmptyStmt{Semicolon: c.pos(s.Semicolon)}
	case *goast.LabeledStmt:
		return &ast.LabeledStmt{Label: c.ident(s.Label), Stmt: c.stmt(s.Stmt)}
	case *goast.ExprStmt:
		return &ast.ExprStmt{X: c.expr(s.X)}
	case *goast.SendStmt:
		return &ast.SendStmt{Chan: c.expr(s.Chan), Arrow: c.pos(s.Arrow), Value: c.expr(s.Value)}
	case *goast.IncDecStmt:
		return &ast.IncDecStmt{X: c.expr(s.X), TokPos: c.pos(s.TokPos), Tok: s.Tok}
	case *goast.AssignStmt:
		return &ast.AssignStmt{Lhs: c.exprs(s.Lhs), TokPos: c.pos(s.TokPos), Tok: s.Tok, Rhs: c.exprs(s.Rhs)}
	case *goast.GoStmt:
		return &ast.GoStmt{Go: c.pos(s.Go), Call: c.call(s.Call)}
	case *goast.DeferStmt:
		return &ast.DeferStmt{Defer: c.pos(s.Defer), Call: c.call(s.Call)}
	case *goast.ReturnStmt:
		return &ast.ReturnStmt{Return: c.pos(s.Return), Results: c.exprs(s.Results)}
	case *goast.BranchStmt:
		return &ast.BranchStmt{TokPos: c.pos(s.TokPos), Tok: s.Tok, Label: c.ident(s.Label)}
	case *goast.BlockStmt:
		return c.block(s)
	case *goast.IfStmt:
		return &ast.IfStmt{If: c.pos(s.If), Init: c.optStmt(s.Init), Cond: c.expr(s.Cond), Body: c.block(s.Body), Else: c.optStmt(s.Else)}
	case *goast.CaseClause:
		return &ast.CaseClause{Case: c.pos(s.Case), List: c.exprs(s.List), Body: c.stmts(s.Body)}
	case *goast.SwitchStmt:
		return &ast.SwitchStmt{Switch: c.pos(s.Switch), Init: c.optStmt(s.Init), Tag: c.optExpr(s.Tag), Body: c.block(s.Body)}
	case *goast.TypeSwitchStmt:
		return &ast.TypeSwitchStmt{Switch: c.pos(s.Switch), Init: c.optStmt(s.Init), Assign: c.stmt(s.Assign), Body: c.block(s.Body)}
	case *goast.CommClause:
		return &ast.CommClause{Case: c.pos(s.Case), Comm: c.optStmt(s.Comm), Body: c.stmts(s.Body)}
	case *goast.SelectStmt:
		return &ast.SelectStmt{Select: c.pos(s.Select), Body: c.block(s.Body)}
	case *goast.ForStmt:
		return &ast.ForStmt{For: c.pos(s.For), Init: c.optStmt(s.Init), Cond: c.optExpr(s.Cond), Post: c.optStmt(s.Post), Body: c.block(s.Body)}
	case *goast.RangeStmt:
		return &ast.RangeStmt{For: c.pos(s.For), Key: c.optExpr(s.Key), Value: c.optExpr(s.Value), Tok: s.Tok, X: c.expr(s.X), Body: c.block(s.Body)}
	}
	return &ast.BadStmt{From: c.pos(s.Pos())}
}

// Expressions

func (c *converter) exprs(list []goast.Expr) []ast.Expr {
	if list == nil {
		return nil
	}
	out := make([]ast.Expr, len(list))
	for i, x := range list {
		out[i] = c.expr(x)
	}
	return out
}

func (c *converter) optExpr(x goast.Expr) ast.Expr {
	if x == nil {
		return nil
	}
	return c.expr(x)
}

// expr converts an expression. Constant expressions become literals, and
// type expressions become TypeExpr nodes.
func (c *converter) expr(x goast.Expr) ast.Expr {
	tv := c.info.Types[x]
	if tv.IsType() {
		return c.typeExpr(x)
	}
	if tv.IsNil() {
		return &ast.BasicLit{ValuePos: c.pos(x.Pos()), Kind: ast.LitNil, Value: "nil"}
	}
	if tv.Value != nil && !c.isLocalConst(x) {
		if lit := constLit(tv.Value, tv.Type, c.pos(x.Pos())); lit != nil {
			return lit
		}
	}

	switch x := x.(type) {
	case *goast.BadExpr:
		return &ast.BadExpr{From: c.pos(x.From)}
	case *goast.Ident:
		if _, ok := c.info.Uses[x].(*types.Nil); ok {
			return &ast.BasicLit{ValuePos: c.pos(x.Pos()), Kind: ast.LitNil, Value: "nil"}
		}
		return c.ident(x)
	case *goast.BasicLit:
		return basicLit(x, c.pos(x.ValuePos))
	case *goast.FuncLit:
		return &ast.FuncLit{Type: c.funcType(x.Type), Body: c.block(x.Body)}
	case *goast.CompositeLit:
		return &ast.CompositeLit{Type: c.typeExpr(x.Type), Lbrace: c.pos(x.Lbrace), Elts: c.exprs(x.Elts)}
	case *goast.ParenExpr:
		return &ast.ParenExpr{Lparen: c.pos(x.Lparen), X: c.expr(x.X)}
	case *goast.SelectorExpr:
		return &ast.SelectorExpr{X: c.expr(x.X), Sel: c.ident(x.Sel)}
	case *goast.IndexExpr:
		return &ast.IndexExpr{X: c.expr(x.X), Lbrack: c.pos(x.Lbrack), Index: c.expr(x.Index)}
	case *goast.IndexListExpr:
		return &ast.IndexExpr{X: c.expr(x.X), Lbrack: c.pos(x.Lbrack), Index: c.expr(x.Indices[0])}
	case *goast.SliceExpr:
		return &ast.SliceExpr{
			X:      c.expr(x.X),
			Lbrack: c.pos(x.Lbrack),
			Low:    c.optExpr(x.Low),
			High:   c.optExpr(x.High),
			Max:    c.optExpr(x.Max),
			Slice3: x.Slice3,
		}
	case *goast.TypeAssertExpr:
		out := &ast.TypeAssertExpr{X: c.expr(x.X), Lparen: c.pos(x.Lparen)}
		if x.Type != nil {
			out.Type = c.typeExpr(x.Type)
		}
		return out
	case *goast.CallExpr:
		return c.call(x)
	case *goast.StarExpr:
		return &ast.StarExpr{Star: c.pos(x.Star), X: c.expr(x.X)}
	case *goast.UnaryExpr:
		return &ast.UnaryExpr{OpPos: c.pos(x.OpPos), Op: x.Op, X: c.expr(x.X)}
	case *goast.BinaryExpr:
		return &ast.BinaryExpr{X: c.expr(x.X), OpPos: c.pos(x.OpPos), Op: x.Op, Y: c.expr(x.Y)}
	case *goast.KeyValueExpr:
		return &ast.KeyValueExpr{Key: c.expr(x.Key), Colon: c.pos(x.Colon), Value: c.expr(x.Value)}
	case *goast.Ellipsis, *goast.FuncType, *goast.ArrayType, *goast.StructType,
		*goast.InterfaceType, *goast.MapType, *goast.ChanType:
		return c.typeExpr(x)
	}
	return &ast.BadExpr{From: c.pos(x.Pos())}
}

// call converts a call, recording how many values it produces. A callee
// that denotes a type makes the call a conversion.
func (c *converter) call(x *goast.CallExpr) *ast.CallExpr {
	out := &ast.CallExpr{
		Fun:     c.expr(x.Fun),
		Lparen:  c.pos(x.Lparen),
		Args:    c.exprs(x.Args),
		Results: resultCount(c.info.Types[x]),
	}
	if x.Ellipsis.IsValid() {
		out.Ellipsis = c.pos(x.Ellipsis)
	}
	return out
}

// typeExpr converts an expression in type position.
func (c *converter) typeExpr(x goast.Expr) ast.Expr {
	if x == nil {
		return nil
	}
	pos := c.pos(x.Pos())
	switch t := x.(type) {
	case *goast.ParenExpr:
		return c.typeExpr(t.X)
	case *goast.Ellipsis:
		return &ast.Ellipsis{Ellipsis: c.pos(t.Ellipsis), Elt: c.typeExpr(t.Elt)}
	case *goast.FuncType:
		return c.funcType(t)
	case *goast.ArrayType:
		return &ast.TypeExpr{TypePos: pos, Kind: ast.ArrayType}
	case *goast.StructType:
		return &ast.TypeExpr{TypePos: pos, Kind: ast.StructType}
	case *goast.InterfaceType:
		return &ast.TypeExpr{TypePos: pos, Kind: ast.InterfaceType}
	case *goast.MapType:
		return &ast.TypeExpr{TypePos: pos, Kind: ast.MapType}
	case *goast.ChanType:
		return &ast.TypeExpr{TypePos: pos, Kind: ast.ChanType}
	default:
		return &ast.TypeExpr{TypePos: pos, Kind: ast.NamedType}
	}
}

// isLocalConst reports whether x names a constant declared inside a
// function. Those keep their identity so the compiler resolves them through
// the function's constant pool.
func (c *converter) isLocalConst(x goast.Expr) bool {
	id, ok := astutil.Unparen(x).(*goast.Ident)
	if !ok {
		return false
	}
	obj, ok := c.info.Uses[id].(*types.Const)
	if !ok || obj.Pkg() == nil {
		return false
	}
	scope := obj.Parent()
	return scope != nil && scope != types.Universe && scope != obj.Pkg().Scope()
}

func resultCount(tv types.TypeAndValue) int {
	switch {
	case tv.IsVoid(), tv.Type == nil:
		return 0
	}
	if tuple, ok := tv.Type.(*types.Tuple); ok {
		return tuple.Len()
	}
	return 1
}
