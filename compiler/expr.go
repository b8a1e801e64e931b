package compiler

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
	"github.com/gosc-lang/gosc/op"
)

// Builtins with a dedicated opcode. Their operand is pushed and the opcode
// replaces the call.
var builtinOps = map[string]op.Code{
	"len": op.Len,
	"cap": op.Cap,
}

// compileExpr emits code that leaves the value of x on the stack. A call
// leaves as many values as it has results.
func (c *Compiler) compileExpr(b *FunctionBuilder, x ast.Expr) error {
	switch x := x.(type) {
	case *ast.Ident:
		e, err := c.resolve(x)
		if err != nil {
			return c.locate(err, x.Pos())
		}
		return c.locate(b.EmitLoad(e), x.Pos())
	case *ast.BasicLit:
		return c.compileBasicLit(b, x)
	case *ast.FuncLit:
		return c.compileFuncLit(b, x)
	case *ast.CallExpr:
		return c.compileCall(b, x)
	case *ast.BinaryExpr:
		return c.compileBinary(b, x)
	case *ast.UnaryExpr:
		if err := c.compileExpr(b, x.X); err != nil {
			return err
		}
		c.at(x.OpPos)
		return c.locate(b.EmitUnary(x.Op), x.OpPos)
	case *ast.ParenExpr:
		return c.compileExpr(b, x.X)
	default:
		return c.unsupported(x, exprKind(x))
	}
}

func (c *Compiler) compileBasicLit(b *FunctionBuilder, lit *ast.BasicLit) error {
	switch lit.Kind {
	case ast.LitBool:
		b.EmitPushBool(lit.Value == "true")
		return nil
	case ast.LitNil:
		b.EmitPushNil()
		return nil
	}
	value, err := literal(lit)
	if err != nil {
		return c.locate(err, lit.Pos())
	}
	ref, err := b.AddConst(ast.NoEntity, value)
	if err != nil {
		return c.locate(err, lit.Pos())
	}
	return c.locate(b.EmitLoad(ref), lit.Pos())
}

// compileFuncLit compiles the literal as a function of its own and pushes a
// closure over it.
func (c *Compiler) compileFuncLit(b *FunctionBuilder, lit *ast.FuncLit) error {
	key, err := c.compileFunction("", bytecode.FuncLit, lit.Type, lit.Body)
	if err != nil {
		return err
	}
	c.at(lit.Pos())
	ref, err := b.AddConst(ast.NoEntity, bytecode.FunctionValue(key))
	if err != nil {
		return c.locate(err, lit.Pos())
	}
	if err := b.EmitLoad(ref); err != nil {
		return c.locate(err, lit.Pos())
	}
	b.EmitNewClosure()
	return nil
}

func (c *Compiler) compileCall(b *FunctionBuilder, call *ast.CallExpr) error {
	switch fun := unparen(call.Fun).(type) {
	case *ast.TypeExpr:
		return c.unsupported(call, "conversion to "+fun.Kind.String())
	case *ast.FuncType:
		return c.unsupported(call, "conversion to function type")
	case *ast.Ident:
		if fun.Entity == ast.NoEntity && !fun.IsBlank() {
			return c.compileBuiltin(b, fun, call)
		}
	}
	if err := c.compileExpr(b, call.Fun); err != nil {
		return err
	}
	b.EmitPreCall()
	for _, arg := range call.Args {
		if err := c.compileExpr(b, arg); err != nil {
			return err
		}
	}
	c.at(call.Lparen)
	b.EmitCall(call.Ellipsis.IsValid())
	return nil
}

func (c *Compiler) compileBuiltin(b *FunctionBuilder, fun *ast.Ident, call *ast.CallExpr) error {
	code, ok := builtinOps[fun.Name]
	if !ok {
		return c.unsupported(call, "builtin function "+fun.Name)
	}
	if len(call.Args) != 1 || call.Ellipsis.IsValid() {
		return c.unsupported(call, fmt.Sprintf("call of %s with %s", fun.Name, countOf(len(call.Args), "arguments")))
	}
	if err := c.compileExpr(b, call.Args[0]); err != nil {
		return err
	}
	c.at(call.Lparen)
	b.EmitOp(code)
	return nil
}

func (c *Compiler) compileBinary(b *FunctionBuilder, x *ast.BinaryExpr) error {
	if x.Op == token.LAND || x.Op == token.LOR {
		return c.locate(errors.Unsupportedf("unsupported construct: logical operator %s", x.Op), x.OpPos)
	}
	if err := c.compileExpr(b, x.X); err != nil {
		return err
	}
	if err := c.compileExpr(b, x.Y); err != nil {
		return err
	}
	c.at(x.OpPos)
	return c.locate(b.EmitBinary(x.Op), x.OpPos)
}

// literal converts a literal to a constant value. Characters are their code
// point as an int.
func literal(lit *ast.BasicLit) (bytecode.Value, error) {
	switch lit.Kind {
	case ast.LitInt:
		v, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return bytecode.Value{}, errors.Unsupportedf("unsupported construct: integer literal %s does not fit in 64 bits", lit.Value)
		}
		return bytecode.Int(v), nil
	case ast.LitFloat:
		v, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return bytecode.Value{}, errors.Unsupportedf("unsupported construct: float literal %s", lit.Value)
		}
		return bytecode.Float(v), nil
	case ast.LitImag:
		v, err := strconv.ParseFloat(strings.TrimSuffix(lit.Value, "i"), 64)
		if err != nil {
			return bytecode.Value{}, errors.Unsupportedf("unsupported construct: imaginary literal %s", lit.Value)
		}
		return bytecode.Complex(complex(0, v)), nil
	case ast.LitChar:
		s, err := strconv.Unquote(lit.Value)
		runes := []rune(s)
		if err != nil || len(runes) != 1 {
			return bytecode.Value{}, errors.Internalf(errors.E2201, "malformed character literal %s", lit.Value)
		}
		return bytecode.Int(int64(runes[0])), nil
	case ast.LitString:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return bytecode.Value{}, errors.Internalf(errors.E2201, "malformed string literal %s", lit.Value)
		}
		return bytecode.String(s), nil
	case ast.LitBool:
		return bytecode.Bool(lit.Value == "true"), nil
	case ast.LitNil:
		return bytecode.Nil(), nil
	default:
		return bytecode.Value{}, errors.Unsupportedf("unsupported construct: %s literal", lit.Kind)
	}
}

func unparen(x ast.Expr) ast.Expr {
	for {
		p, ok := x.(*ast.ParenExpr)
		if !ok {
			return x
		}
		x = p.X
	}
}

// exprKind names the category of x for error messages.
func exprKind(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Ident:
		return "identifier"
	case *ast.BasicLit:
		return x.Kind.String() + " literal"
	case *ast.FuncLit:
		return "function literal"
	case *ast.CallExpr:
		return "call expression"
	case *ast.BinaryExpr:
		return "binary expression"
	case *ast.UnaryExpr:
		return "unary expression"
	case *ast.ParenExpr:
		return exprKind(x.X)
	case *ast.SelectorExpr:
		return "selector expression"
	case *ast.IndexExpr:
		return "index expression"
	case *ast.SliceExpr:
		return "slice expression"
	case *ast.StarExpr:
		return "pointer indirection"
	case *ast.TypeAssertExpr:
		return "type assertion"
	case *ast.CompositeLit:
		return "composite literal"
	case *ast.KeyValueExpr:
		return "key-value expression"
	case *ast.Ellipsis:
		return "ellipsis"
	case *ast.TypeExpr:
		return x.Kind.String()
	case *ast.FuncType:
		return "function type"
	case *ast.BadExpr:
		return "malformed expression"
	default:
		return "expression"
	}
}

// countOf formats n with noun, which is given in the plural.
func countOf(n int, noun string) string {
	if n == 1 {
		noun = strings.TrimSuffix(noun, "s")
	}
	return strconv.Itoa(n) + " " + noun
}
