package compiler

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
	"github.com/gosc-lang/gosc/op"
)

func TestEmptyMain(t *testing.T) {
	program := compileTest(t, nil, file("main", funcDecl(ident("main", 1), nil)))

	require.Equal(t, 1, program.FunctionCount())
	entry, ok := program.Entry()
	require.True(t, ok)
	assert.Equal(t, "main", entry.Name())
	assert.Equal(t, []string{"RETURN"}, listing(entry))
	assert.Equal(t, 0, entry.LocalAlloc())

	pkg, ok := program.Package("main")
	require.True(t, ok)
	main, ok := pkg.Main()
	require.True(t, ok)
	assert.Equal(t, entry.Key(), main)
}

func TestSlotLayout(t *testing.T) {
	// func f(a, b int) (r int) { x := a; return x }
	r, a, b, x := ident("r", 1), ident("a", 2), ident("b", 3), ident("x", 4)
	f := funcDecl(ident("f", 5), signature(named(a, b), named(r)),
		define(exprs(x), ident("a", 2)),
		ret(ident("x", 4)),
	)
	program := compileTest(t, nil, file("main", f))
	fn := function(t, program, 0)

	assert.Equal(t, 2, fn.ParamCount())
	assert.Equal(t, 1, fn.RetCount())
	assert.Equal(t, 4, fn.LocalAlloc())
	assert.Equal(t, 1, fn.LocalCount())
	for entity, slot := range map[ast.EntityKey]op.Index{1: 0, 2: 1, 3: 2, 4: 3} {
		e, ok := fn.Entity(entity)
		require.True(t, ok)
		assert.Equal(t, bytecode.LocalVar(slot), e)
	}
	assert.Equal(t, []string{
		"LOAD_LOCAL1", "STORE_LOCAL 3", "POP",
		"LOAD_LOCAL3", "STORE_LOCAL 0", "POP", "RETURN",
		"RETURN",
	}, listing(fn))
}

func TestVariadicSignature(t *testing.T) {
	ft := signature(&ast.FieldList{List: []*ast.Field{
		{Names: []*ast.Ident{ident("format", 1)}, Type: ident("string", ast.NoEntity)},
		{Names: []*ast.Ident{ident("args", 2)}, Type: &ast.Ellipsis{Elt: ident("any", ast.NoEntity)}},
	}}, nil)
	program := compileTest(t, nil, file("main", funcDecl(ident("printf", 3), ft)))
	fn := function(t, program, 0)
	assert.True(t, fn.Variadic())
	assert.Equal(t, 2, fn.ParamCount())
}

func TestConstantsAreNotMerged(t *testing.T) {
	main := funcDecl(ident("main", 1), nil,
		define(exprs(ident("x", 2)), intLit("1")),
		define(exprs(ident("y", 3)), intLit("1")),
	)
	fn := function(t, compileTest(t, nil, file("main", main)), 0)

	require.Equal(t, 2, fn.ConstantCount())
	assert.Equal(t, bytecode.Int(1), fn.ConstantAt(0))
	assert.Equal(t, bytecode.Int(1), fn.ConstantAt(1))
	assert.Equal(t, []string{
		"PUSH_CONST 0", "STORE_LOCAL 0", "POP",
		"PUSH_CONST 1", "STORE_LOCAL 1", "POP",
		"RETURN",
	}, listing(fn))
}

func TestLiterals(t *testing.T) {
	main := funcDecl(ident("main", 1), nil,
		define(exprs(ident("a", 2), ident("b", 3), ident("c", 4), ident("d", 5)),
			intLit("0x10"),
			&ast.BasicLit{Kind: ast.LitFloat, Value: "2.5"},
			&ast.BasicLit{Kind: ast.LitChar, Value: "'a'"},
			strLit(`"hi\n"`),
		),
		define(exprs(ident("e", 6), ident("f", 7), ident("g", 8)),
			&ast.BasicLit{Kind: ast.LitImag, Value: "2i"},
			&ast.BasicLit{Kind: ast.LitBool, Value: "true"},
			&ast.BasicLit{Kind: ast.LitNil, Value: "nil"},
		),
	)
	fn := function(t, compileTest(t, nil, file("main", main)), 0)

	require.Equal(t, 5, fn.ConstantCount())
	assert.Equal(t, bytecode.Int(16), fn.ConstantAt(0))
	assert.Equal(t, bytecode.Float(2.5), fn.ConstantAt(1))
	assert.Equal(t, bytecode.Int('a'), fn.ConstantAt(2))
	assert.Equal(t, bytecode.String("hi\n"), fn.ConstantAt(3))
	assert.Equal(t, bytecode.Complex(2i), fn.ConstantAt(4))
	assert.Equal(t, []string{
		"PUSH_CONST 0", "PUSH_CONST 1", "PUSH_CONST 2", "PUSH_CONST 3",
		"STORE_LOCAL 3", "POP", "STORE_LOCAL 2", "POP",
		"STORE_LOCAL 1", "POP", "STORE_LOCAL 0", "POP",
		"PUSH_CONST 4", "PUSH_TRUE", "PUSH_NIL",
		"STORE_LOCAL 6", "POP", "STORE_LOCAL 5", "POP", "STORE_LOCAL 4", "POP",
		"RETURN",
	}, listing(fn))
}

func TestReverseStoreOrder(t *testing.T) {
	// func two() (int, int) { return 1, 2 }
	// func main() { a, b := two(); _, c := b, a }
	two := funcDecl(ident("two", 1), signature(nil, unnamed(2)),
		ret(intLit("1"), intLit("2")),
	)
	main := funcDecl(ident("main", 2), nil,
		define(exprs(ident("a", 3), ident("b", 4)), call(ident("two", 1), 2)),
		define(exprs(blank(), ident("c", 5)), ident("b", 4), ident("a", 3)),
	)
	program := compileTest(t, nil, file("main", two, main))

	assert.Equal(t, []string{
		"PUSH_CONST 0", "STORE_LOCAL 0", "POP",
		"PUSH_CONST 1", "STORE_LOCAL 1", "POP",
		"RETURN", "RETURN",
	}, listing(function(t, program, 0)))

	assert.Equal(t, []string{
		"LOAD_THIS_PKG_FIELD 0", "PRE_CALL", "CALL",
		"STORE_LOCAL 1", "POP", "STORE_LOCAL 0", "POP",
		"LOAD_LOCAL1", "LOAD_LOCAL0", "STORE_LOCAL 2", "POP", "POP",
		"RETURN",
	}, listing(function(t, program, 1)))
}

func TestReturnMultiValueCall(t *testing.T) {
	// func pair() (int, int) { return 1, 2 }
	// func swap() (x, y int) { return pair() }
	pair := funcDecl(ident("pair", 1), signature(nil, unnamed(2)), ret(intLit("1"), intLit("2")))
	swap := funcDecl(ident("swap", 2), signature(nil, named(ident("x", 3), ident("y", 4))),
		ret(call(ident("pair", 1), 2)),
	)
	program := compileTest(t, nil, file("main", pair, swap))
	assert.Equal(t, []string{
		"LOAD_THIS_PKG_FIELD 0", "PRE_CALL", "CALL",
		"STORE_LOCAL 1", "POP", "STORE_LOCAL 0", "POP",
		"RETURN", "RETURN",
	}, listing(function(t, program, 1)))
}

func TestBareReturn(t *testing.T) {
	f := funcDecl(ident("f", 1), signature(nil, named(ident("n", 2))),
		assignTo(token.ASSIGN, exprs(ident("n", 2)), intLit("7")),
		ret(),
	)
	fn := function(t, compileTest(t, nil, file("main", f)), 0)
	assert.Equal(t, []string{"PUSH_CONST 0", "STORE_LOCAL 0", "POP", "RETURN", "RETURN"}, listing(fn))
}

func TestExpressionStatementPopsResults(t *testing.T) {
	two := funcDecl(ident("two", 1), signature(nil, unnamed(2)), ret(intLit("1"), intLit("2")))
	none := funcDecl(ident("none", 2), nil)
	main := funcDecl(ident("main", 3), nil,
		stmt(call(ident("two", 1), 2)),
		stmt(call(ident("none", 2), 0)),
	)
	program := compileTest(t, nil, file("main", two, none, main))
	assert.Equal(t, []string{
		"LOAD_THIS_PKG_FIELD 0", "PRE_CALL", "CALL", "POP", "POP",
		"LOAD_THIS_PKG_FIELD 1", "PRE_CALL", "CALL",
		"RETURN",
	}, listing(function(t, program, 2)))
}

func TestCallArguments(t *testing.T) {
	// func sum(xs ...int) int
	// func forward(xs []int) { sum(1, 2); sum(xs...) }
	sumType := signature(&ast.FieldList{List: []*ast.Field{
		{Names: []*ast.Ident{ident("xs", 1)}, Type: &ast.Ellipsis{Elt: ident("int", ast.NoEntity)}},
	}}, unnamed(1))
	sum := &ast.FuncDecl{Name: ident("sum", 2), Type: sumType}
	spread := call(ident("sum", 2), 1, ident("xs", 1))
	spread.Ellipsis = pos(4, 10)
	forward := funcDecl(ident("forward", 3), signature(named(ident("xs", 1)), nil),
		stmt(call(ident("sum", 2), 1, intLit("1"), intLit("2"))),
		stmt(spread),
	)
	program := compileTest(t, nil, file("main", sum, forward))
	assert.Equal(t, []string{
		"LOAD_THIS_PKG_FIELD 0", "PRE_CALL", "PUSH_CONST 0", "PUSH_CONST 1", "CALL", "POP",
		"LOAD_THIS_PKG_FIELD 0", "PRE_CALL", "LOAD_LOCAL0", "CALL_ELLIPSIS", "POP",
		"RETURN",
	}, listing(function(t, program, 0)))
}

func TestOperators(t *testing.T) {
	x := func() *ast.Ident { return ident("x", 2) }
	main := funcDecl(ident("main", 1), nil,
		define(exprs(x()), &ast.BinaryExpr{X: intLit("1"), Op: token.MUL, Y: &ast.ParenExpr{X: intLit("2")}}),
		assignTo(token.ADD_ASSIGN, exprs(x()), intLit("3")),
		&ast.IncDecStmt{X: x(), Tok: token.INC},
		&ast.IncDecStmt{X: x(), Tok: token.DEC},
		define(exprs(ident("y", 3)), &ast.UnaryExpr{Op: token.SUB, X: x()}),
		define(exprs(ident("z", 4)), &ast.UnaryExpr{Op: token.NOT, X: &ast.BinaryExpr{X: x(), Op: token.LSS, Y: ident("y", 3)}}),
	)
	fn := function(t, compileTest(t, nil, file("main", main)), 0)
	assert.Equal(t, []string{
		"PUSH_CONST 0", "PUSH_CONST 1", "MUL", "STORE_LOCAL 0", "POP",
		"LOAD_LOCAL0", "PUSH_CONST 2", "ADD", "STORE_LOCAL 0", "POP",
		"LOAD_LOCAL0", "PUSH_IMM 1", "ADD", "STORE_LOCAL 0", "POP",
		"LOAD_LOCAL0", "PUSH_IMM 1", "SUB", "STORE_LOCAL 0", "POP",
		"LOAD_LOCAL0", "UNARY_SUB", "STORE_LOCAL 1", "POP",
		"LOAD_LOCAL0", "LOAD_LOCAL1", "LSS", "NOT", "STORE_LOCAL 2", "POP",
		"RETURN",
	}, listing(fn))
}

func TestShortDeclarationReusesExistingVariable(t *testing.T) {
	main := funcDecl(ident("main", 1), nil,
		define(exprs(ident("a", 2)), intLit("1")),
		define(exprs(ident("a", 2), ident("b", 3)), intLit("2"), intLit("3")),
	)
	fn := function(t, compileTest(t, nil, file("main", main)), 0)
	assert.Equal(t, 2, fn.LocalAlloc())
	assert.Equal(t, []string{
		"PUSH_CONST 0", "STORE_LOCAL 0", "POP",
		"PUSH_CONST 1", "PUSH_CONST 2", "STORE_LOCAL 1", "POP", "STORE_LOCAL 0", "POP",
		"RETURN",
	}, listing(fn))
}

func TestLocalDeclarations(t *testing.T) {
	// const k = 5; var v int = 0; var _ = k
	main := funcDecl(ident("main", 1), nil,
		&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.CONST, Specs: []ast.Spec{
			&ast.ValueSpec{Names: []*ast.Ident{ident("k", 2)}, Values: exprs(intLit("5"))},
		}}},
		&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.VAR, Specs: []ast.Spec{
			&ast.ValueSpec{Names: []*ast.Ident{ident("v", 3)}, Values: exprs(intLit("0"))},
			&ast.ValueSpec{Names: []*ast.Ident{blank()}, Values: exprs(ident("k", 2))},
		}}},
	)
	fn := function(t, compileTest(t, nil, file("main", main)), 0)

	k, ok := fn.Entity(2)
	require.True(t, ok)
	assert.Equal(t, bytecode.Const(0), k)
	assert.Equal(t, 1, fn.LocalAlloc())
	assert.Equal(t, []string{
		"PUSH_CONST 1", "STORE_LOCAL 0", "POP",
		"PUSH_CONST 0", "POP",
		"RETURN",
	}, listing(fn))
}

func TestBuiltins(t *testing.T) {
	s := ident("s", 2)
	f := funcDecl(ident("f", 1), signature(named(s), nil),
		define(exprs(ident("n", 3)), call(ident("len", ast.NoEntity), 1, ident("s", 2))),
		define(exprs(ident("m", 4)), call(ident("cap", ast.NoEntity), 1, ident("s", 2))),
	)
	fn := function(t, compileTest(t, nil, file("main", f)), 0)
	assert.Equal(t, []string{
		"LOAD_LOCAL0", "LEN", "STORE_LOCAL 1", "POP",
		"LOAD_LOCAL0", "CAP", "STORE_LOCAL 2", "POP",
		"RETURN",
	}, listing(fn))
}

func TestLoadEncodings(t *testing.T) {
	var params []*ast.Ident
	for i := 0; i < 21; i++ {
		params = append(params, ident("p", ast.EntityKey(100+i)))
	}
	f := funcDecl(ident("f", 1), signature(named(params...), nil),
		define(exprs(ident("x", 2)), ident("p", 103)),
		define(exprs(ident("y", 3)), ident("p", 120)),
	)
	fn := function(t, compileTest(t, nil, file("main", f)), 0)

	assert.Equal(t, []string{
		"LOAD_LOCAL3", "STORE_LOCAL 21", "POP",
		"LOAD_LOCAL 20", "STORE_LOCAL 22", "POP",
		"RETURN",
	}, listing(fn))
	// The inline form takes a single cell; the general form two.
	assert.Equal(t, op.LoadLocal3, fn.CodeAt(0).Op())
	assert.Equal(t, op.LoadLocal, fn.CodeAt(4).Op())
	assert.True(t, fn.CodeAt(5).IsData())
	assert.Equal(t, op.Index(20), fn.CodeAt(5).Data())
	assert.Equal(t, 10, fn.CodeCount())
}

func TestEntryPoint(t *testing.T) {
	helper := funcDecl(ident("helper", 1), nil)
	main := funcDecl(ident("main", 2), nil)
	program := compileTest(t, nil, file("main", helper, main))

	entry, ok := program.Entry()
	require.True(t, ok)
	assert.Equal(t, bytecode.FunctionKey(1), entry.Key())
	assert.Equal(t, "main", entry.Name())

	t.Run("custom name", func(t *testing.T) {
		start := funcDecl(ident("start", 1), nil)
		program := compileTest(t, &Config{EntryPoint: "start"}, file("app", start))
		entry, ok := program.Entry()
		require.True(t, ok)
		assert.Equal(t, "start", entry.Name())
	})

	t.Run("main package wins", func(t *testing.T) {
		lib := file("lib", funcDecl(ident("main", 1), nil))
		app := file("main", funcDecl(ident("main", 2), nil))
		program := compileTest(t, nil, lib, app)
		assert.Equal(t, bytecode.FunctionKey(1), program.EntryKey())
	})

	t.Run("no entry point", func(t *testing.T) {
		program := compileTest(t, nil, file("lib", funcDecl(ident("helper", 1), nil)))
		_, ok := program.Entry()
		assert.False(t, ok)
	})

	t.Run("duplicate", func(t *testing.T) {
		first := file("main", funcDecl(ident("main", 1), nil))
		second := file("main", funcDecl(ident("main", 2), nil))
		_, err := Compile(nil, first, second)
		require.Error(t, err)
		assert.True(t, errors.IsInternal(err))
		assert.Equal(t, errors.E2203, errors.CodeOf(err))
	})
}

func TestForwardReference(t *testing.T) {
	main := funcDecl(ident("main", 1), nil, stmt(call(ident("helper", 2), 0)))
	helper := funcDecl(ident("helper", 2), nil, stmt(call(ident("helper", 2), 0)))
	program := compileTest(t, nil, file("main", main, helper))

	assert.Equal(t, []string{"LOAD_THIS_PKG_FIELD 1", "PRE_CALL", "CALL", "RETURN"},
		listing(function(t, program, 0)))
	assert.Equal(t, []string{"LOAD_THIS_PKG_FIELD 1", "PRE_CALL", "CALL", "RETURN"},
		listing(function(t, program, 1)))

	pkg, ok := program.Package("main")
	require.True(t, ok)
	require.Equal(t, 2, pkg.MemberCount())
	assert.Equal(t, bytecode.FunctionValue(0), pkg.MemberAt(0))
	assert.Equal(t, bytecode.FunctionValue(1), pkg.MemberAt(1))
	assert.Equal(t, "helper", pkg.MemberName(1))
}

func TestReferenceAcrossFiles(t *testing.T) {
	first := file("main", funcDecl(ident("main", 1), nil, stmt(call(ident("helper", 2), 0))))
	second := file("main", funcDecl(ident("helper", 2), nil))
	second.Filename = "helper.go"
	program := compileTest(t, nil, first, second)

	assert.Equal(t, []string{"LOAD_THIS_PKG_FIELD 1", "PRE_CALL", "CALL", "RETURN"},
		listing(function(t, program, 0)))
	pkg, ok := program.Package("main")
	require.True(t, ok)
	require.Equal(t, 2, pkg.MemberCount())
	assert.Equal(t, "helper", pkg.MemberName(1))
	assert.Equal(t, bytecode.FunctionValue(1), pkg.MemberAt(1))
}

func TestReserveThenCompileFiles(t *testing.T) {
	first := file("main", funcDecl(ident("main", 1), nil, stmt(call(ident("helper", 2), 0))))
	second := file("main", funcDecl(ident("helper", 2), nil))

	c := New(nil)
	require.NoError(t, c.Reserve(first, second))
	require.NoError(t, c.CompileFile(first))
	require.NoError(t, c.CompileFile(second))
	program, err := c.Program()
	require.NoError(t, err)
	main, ok := program.Entry()
	require.True(t, ok)
	assert.Equal(t, "main", main.Name())

	assert.ErrorIs(t, c.Reserve(first), errors.ErrPoisoned)
}

func TestNativeMember(t *testing.T) {
	exit := &ast.FuncDecl{Name: ident("exit", 1), Type: signature(named(ident("code", 2)), nil)}
	main := funcDecl(ident("main", 3), nil, stmt(call(ident("exit", 1), 0, intLit("1"))))
	program := compileTest(t, nil, file("main", exit, main))

	pkg, ok := program.Package("main")
	require.True(t, ok)
	v, ok := pkg.MemberByName("exit")
	require.True(t, ok)
	assert.Equal(t, bytecode.Native("main.exit"), v)
	assert.Equal(t, 1, program.FunctionCount())
}

func TestImports(t *testing.T) {
	f := file("main",
		&ast.GenDecl{Tok: token.IMPORT, Specs: []ast.Spec{
			&ast.ImportSpec{Path: "fmt"},
			&ast.ImportSpec{Path: "math/rand"},
			&ast.ImportSpec{Path: "fmt"},
		}},
		funcDecl(ident("main", 1), nil),
	)
	program := compileTest(t, nil, f)

	assert.Equal(t, []string{"fmt", "main", "rand"}, program.PackageNames())
	pkg, ok := program.Package("main")
	require.True(t, ok)
	require.Equal(t, 2, pkg.ImportCount())
	assert.Equal(t, "fmt", program.PackageAt(pkg.ImportAt(0)).Name())
	assert.Equal(t, "math/rand", program.PackageAt(pkg.ImportAt(1)).Path())
}

func TestClosure(t *testing.T) {
	// func main() { f := func(n int) int { return n }; f(1) }
	lit := funcLit(signature(named(ident("n", 3)), unnamed(1)), ret(ident("n", 3)))
	main := funcDecl(ident("main", 1), nil,
		define(exprs(ident("f", 2)), lit),
		stmt(call(ident("f", 2), 1, intLit("1"))),
	)
	program := compileTest(t, nil, file("main", main))

	outer := function(t, program, 0)
	inner := function(t, program, 1)
	assert.Equal(t, bytecode.FuncLit, inner.Flag())
	assert.Equal(t, "", inner.Name())
	assert.Equal(t, bytecode.FunctionValue(1), outer.ConstantAt(0))
	assert.Equal(t, []string{
		"PUSH_CONST 0", "NEW_CLOSURE", "STORE_LOCAL 0", "POP",
		"LOAD_LOCAL0", "PRE_CALL", "PUSH_CONST 1", "CALL", "POP",
		"RETURN",
	}, listing(outer))
	assert.Equal(t, []string{"LOAD_LOCAL1", "STORE_LOCAL 0", "POP", "RETURN", "RETURN"}, listing(inner))
}

// captureTree builds
//
//	func main() {
//		x := 1
//		f := func() {
//			g := func() {
//				y := x
//				z := x
//			}
//		}
//	}
func captureTree() *ast.File {
	g := funcLit(nil,
		define(exprs(ident("y", 13)), ident("x", 10)),
		define(exprs(ident("z", 14)), ident("x", 10)),
	)
	f := funcLit(nil, define(exprs(ident("g", 12)), g))
	main := funcDecl(ident("main", 1), nil,
		define(exprs(ident("x", 10)), intLit("1")),
		define(exprs(ident("f", 11)), f),
	)
	return file("main", main)
}

func TestCaptureChain(t *testing.T) {
	program := compileTest(t, nil, captureTree())
	require.Equal(t, 3, program.FunctionCount())
	main, f, g := function(t, program, 0), function(t, program, 1), function(t, program, 2)

	assert.Equal(t, 0, main.UpValueCount())

	require.Equal(t, 1, f.UpValueCount())
	assert.Equal(t, bytecode.UpValue{Func: 0, Index: 0}, f.UpValueAt(0))

	require.Equal(t, 1, g.UpValueCount())
	assert.Equal(t, bytecode.UpValue{Func: 1, Index: 0, Nested: true}, g.UpValueAt(0))
	assert.Equal(t, []string{
		"LOAD_UPVALUE 0", "STORE_LOCAL 0", "POP",
		"LOAD_UPVALUE 0", "STORE_LOCAL 1", "POP",
		"RETURN",
	}, listing(g))

	assert.Equal(t, []string{
		"PUSH_CONST 0", "NEW_CLOSURE", "STORE_LOCAL 0", "POP", "RETURN",
	}, listing(f))
	assert.Equal(t, []string{
		"PUSH_CONST 0", "STORE_LOCAL 0", "POP",
		"PUSH_CONST 1", "NEW_CLOSURE", "STORE_LOCAL 1", "POP",
		"RETURN",
	}, listing(main))
}

func TestCaptureDirect(t *testing.T) {
	program := compileTest(t, &Config{Captures: CaptureDirect}, captureTree())
	f, g := function(t, program, 1), function(t, program, 2)

	assert.Equal(t, 0, f.UpValueCount())
	require.Equal(t, 1, g.UpValueCount())
	assert.Equal(t, bytecode.UpValue{Func: 0, Index: 0}, g.UpValueAt(0))
	assert.Equal(t, "LOAD_UPVALUE 0", listing(g)[3])
}

func TestCaptureStore(t *testing.T) {
	// func main() { n := 0; inc := func() { n++ } }
	inc := funcLit(nil, &ast.IncDecStmt{X: ident("n", 2), Tok: token.INC})
	main := funcDecl(ident("main", 1), nil,
		define(exprs(ident("n", 2)), intLit("0")),
		define(exprs(ident("inc", 3)), inc),
	)
	program := compileTest(t, nil, file("main", main))
	assert.Equal(t, []string{
		"LOAD_UPVALUE 0", "PUSH_IMM 1", "ADD", "STORE_UPVALUE 0", "POP", "RETURN",
	}, listing(function(t, program, 1)))
}

func TestCaptureConstant(t *testing.T) {
	// func main() { const k = "s"; f := func() { v := k } }
	lit := funcLit(nil, define(exprs(ident("v", 4)), ident("k", 2)))
	main := funcDecl(ident("main", 1), nil,
		&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.CONST, Specs: []ast.Spec{
			&ast.ValueSpec{Names: []*ast.Ident{ident("k", 2)}, Values: exprs(strLit(`"s"`))},
		}}},
		define(exprs(ident("f", 3)), lit),
	)
	program := compileTest(t, nil, file("main", main))
	inner := function(t, program, 1)

	assert.Equal(t, 0, inner.UpValueCount())
	require.Equal(t, 1, inner.ConstantCount())
	assert.Equal(t, bytecode.String("s"), inner.ConstantAt(0))
	assert.Equal(t, []string{"PUSH_CONST 0", "STORE_LOCAL 0", "POP", "RETURN"}, listing(inner))
}

func TestDeterministic(t *testing.T) {
	build := func() []string {
		program := compileTest(t, nil, captureTree())
		var out []string
		for _, fn := range program.Functions() {
			out = append(out, listing(fn)...)
		}
		return out
	}
	assert.Equal(t, build(), build())
}

func TestSourceLocations(t *testing.T) {
	x := ident("x", 2)
	x.NamePos = pos(3, 2)
	main := funcDecl(ident("main", 1), nil, define(exprs(x), intLit("1")))
	main.Type.Func = pos(2, 1)
	fn := function(t, compileTest(t, nil, file("main", main)), 0)

	assert.Equal(t, bytecode.SourceLocation{Line: 2, Column: 1}, fn.Position())
	assert.Equal(t, bytecode.SourceLocation{Line: 3, Column: 2}, fn.LocationAt(0))
	assert.Equal(t, "main.go", fn.Filename())
}

func TestUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name string
		body ast.Stmt
		want string
	}{
		{"if", &ast.IfStmt{If: pos(3, 2), Cond: ident("ok", 9), Body: &ast.BlockStmt{}}, "if statement"},
		{"for", &ast.ForStmt{For: pos(3, 2), Body: &ast.BlockStmt{}}, "for statement"},
		{"range", &ast.RangeStmt{For: pos(3, 2), X: ident("xs", 9), Body: &ast.BlockStmt{}}, "range statement"},
		{"go", &ast.GoStmt{Go: pos(3, 2), Call: call(ident("main", 1), 0)}, "go statement"},
		{"defer", &ast.DeferStmt{Defer: pos(3, 2), Call: call(ident("main", 1), 0)}, "defer statement"},
		{"break", &ast.BranchStmt{TokPos: pos(3, 2), Tok: token.BREAK}, "break statement"},
		{"selector", stmt(call(&ast.SelectorExpr{X: &ast.Ident{NamePos: pos(3, 2), Name: "fmt"}, Sel: ident("Println", 9)}, 0)), "selector expression"},
		{"conversion", define(exprs(&ast.Ident{NamePos: pos(3, 2), Name: "x", Entity: 8}), call(&ast.TypeExpr{TypePos: pos(3, 7), Kind: ast.NamedType}, 1, intLit("1"))), "conversion to named type"},
		{"builtin", define(exprs(&ast.Ident{NamePos: pos(3, 2), Name: "x", Entity: 8}), call(&ast.Ident{NamePos: pos(3, 7), Name: "new"}, 1, ident("T", 9))), "builtin function new"},
		{"logical", define(exprs(&ast.Ident{NamePos: pos(3, 2), Name: "x", Entity: 8}), &ast.BinaryExpr{X: ident("a", 9), OpPos: pos(3, 9), Op: token.LAND, Y: ident("b", 9)}), "logical operator &&"},
		{"address", define(exprs(&ast.Ident{NamePos: pos(3, 2), Name: "x", Entity: 8}), &ast.UnaryExpr{OpPos: pos(3, 7), Op: token.AND, X: ident("main", 1)}), "unary operator &"},
		{"type", &ast.DeclStmt{Decl: &ast.GenDecl{TokPos: pos(3, 2), Tok: token.TYPE}}, "local type declaration"},
		{"index assignment", assignTo(token.ASSIGN, exprs(&ast.IndexExpr{X: &ast.Ident{NamePos: pos(3, 2), Name: "m"}, Index: intLit("0")}), intLit("1")), "assignment to index expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := funcDecl(ident("main", 1), nil, tt.body)
			_, err := Compile(nil, file("main", main))
			require.Error(t, err)
			assert.True(t, errors.IsUnsupported(err), err.Error())
			assert.Equal(t, errors.E2101, errors.CodeOf(err))
			assert.Contains(t, err.Error(), "unsupported construct: "+tt.want)

			ce, ok := errors.AsCompileError(err)
			require.True(t, ok)
			assert.Equal(t, 3, ce.Line)
			assert.Equal(t, "main.go", ce.Filename)
		})
	}
}

func TestUnsupportedDeclarations(t *testing.T) {
	tests := []struct {
		name string
		decl ast.Decl
		want string
	}{
		{"var", &ast.GenDecl{TokPos: pos(1, 1), Tok: token.VAR}, "package-level var declaration"},
		{"const", &ast.GenDecl{TokPos: pos(1, 1), Tok: token.CONST}, "package-level const declaration"},
		{"method", &ast.FuncDecl{Recv: named(ident("r", 5)), Name: ident("M", 6), Type: &ast.FuncType{Func: pos(1, 1)}, Body: &ast.BlockStmt{}}, "method declaration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(nil, file("main", tt.decl))
			require.Error(t, err)
			assert.True(t, errors.IsUnsupported(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInternalErrors(t *testing.T) {
	t.Run("blank is never loaded", func(t *testing.T) {
		main := funcDecl(ident("main", 1), nil, define(exprs(ident("x", 2)), blank()))
		_, err := Compile(nil, file("main", main))
		require.Error(t, err)
		assert.True(t, errors.IsInternal(err))
		assert.Equal(t, errors.E2204, errors.CodeOf(err))
	})

	t.Run("unresolved identity", func(t *testing.T) {
		main := funcDecl(ident("main", 1), nil, define(exprs(ident("x", 2)), ident("y", 99)))
		_, err := Compile(nil, file("main", main))
		require.Error(t, err)
		assert.True(t, errors.IsInternal(err))
		assert.Equal(t, errors.E2201, errors.CodeOf(err))
	})

	t.Run("unbound identifier", func(t *testing.T) {
		main := funcDecl(ident("main", 1), nil, define(exprs(ident("x", 2)), ident("y", ast.NoEntity)))
		_, err := Compile(nil, file("main", main))
		require.Error(t, err)
		assert.Equal(t, errors.E2201, errors.CodeOf(err))
	})

	t.Run("store to constant", func(t *testing.T) {
		main := funcDecl(ident("main", 1), nil,
			&ast.DeclStmt{Decl: &ast.GenDecl{Tok: token.CONST, Specs: []ast.Spec{
				&ast.ValueSpec{Names: []*ast.Ident{ident("k", 2)}, Values: exprs(intLit("1"))},
			}}},
			assignTo(token.ASSIGN, exprs(ident("k", 2)), intLit("2")),
		)
		_, err := Compile(nil, file("main", main))
		require.Error(t, err)
		assert.Equal(t, errors.E2202, errors.CodeOf(err))
	})
}

func TestCompilerIsPoisonedAfterFailure(t *testing.T) {
	c := New(nil)
	bad := funcDecl(ident("main", 1), nil, &ast.ForStmt{Body: &ast.BlockStmt{}})
	require.Error(t, c.CompileFile(file("main", bad)))

	err := c.CompileFile(file("main", funcDecl(ident("other", 2), nil)))
	assert.ErrorIs(t, err, errors.ErrPoisoned)
	_, err = c.Program()
	assert.ErrorIs(t, err, errors.ErrPoisoned)
}

func TestProgramIsFinal(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.CompileFile(file("main", funcDecl(ident("main", 1), nil))))
	first, err := c.Program()
	require.NoError(t, err)
	second, err := c.Program()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.ErrorIs(t, c.CompileFile(file("main", funcDecl(ident("other", 2), nil))), errors.ErrPoisoned)
}

func TestCompiledProgramVerifies(t *testing.T) {
	program := compileTest(t, nil, captureTree())
	assert.NoError(t, bytecode.Verify(program))
	data, err := bytecode.Marshal(program)
	require.NoError(t, err)
	decoded, err := bytecode.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, program.ID(), decoded.ID())
}
