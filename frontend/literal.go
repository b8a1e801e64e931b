package frontend

import (
	goast "go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"

	"github.com/gosc-lang/gosc/ast"
)

var litKinds = map[token.Token]ast.LitKind{
	token.INT:    ast.LitInt,
	token.FLOAT:  ast.LitFloat,
	token.IMAG:   ast.LitImag,
	token.CHAR:   ast.LitChar,
	token.STRING: ast.LitString,
}

func basicLit(x *goast.BasicLit, pos ast.Position) ast.Expr {
	kind, ok := litKinds[x.Kind]
	if !ok {
		return &ast.BadExpr{From: pos}
	}
	return &ast.BasicLit{ValuePos: pos, Kind: kind, Value: x.Value}
}

// constLit returns the literal for a constant of type t, or nil if the value
// has no literal form, as for a complex number with a real part.
func constLit(v constant.Value, t types.Type, pos ast.Position) *ast.BasicLit {
	lit := func(kind ast.LitKind, value string) *ast.BasicLit {
		return &ast.BasicLit{ValuePos: pos, Kind: kind, Value: value}
	}
	var info types.BasicInfo
	if t != nil {
		if b, ok := t.Underlying().(*types.Basic); ok {
			info = b.Info()
		}
	}

	switch v.Kind() {
	case constant.Bool:
		return lit(ast.LitBool, strconv.FormatBool(constant.BoolVal(v)))
	case constant.String:
		return lit(ast.LitString, strconv.Quote(constant.StringVal(v)))
	case constant.Int, constant.Float:
		switch {
		case info&types.IsComplex != 0:
			if constant.Sign(v) != 0 {
				return nil
			}
			return lit(ast.LitImag, "0i")
		case info&types.IsFloat != 0, info == 0 && v.Kind() == constant.Float:
			return lit(ast.LitFloat, formatFloat(v))
		}
		i := constant.ToInt(v)
		if i.Kind() != constant.Int {
			return nil
		}
		return lit(ast.LitInt, i.ExactString())
	case constant.Complex:
		if constant.Sign(constant.Real(v)) != 0 {
			return nil
		}
		return lit(ast.LitImag, formatFloat(constant.Imag(v))+"i")
	}
	return nil
}

func formatFloat(v constant.Value) string {
	f, _ := constant.Float64Val(constant.ToFloat(v))
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'I' || r == 'N' {
			return s
		}
	}
	return s + ".0"
}

// zeroLit returns the literal zero value of t, or nil if t has none.
func zeroLit(t types.Type, pos ast.Position) *ast.BasicLit {
	lit := func(kind ast.LitKind, value string) *ast.BasicLit {
		return &ast.BasicLit{ValuePos: pos, Kind: kind, Value: value}
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case info&types.IsBoolean != 0:
			return lit(ast.LitBool, "false")
		case info&types.IsString != 0:
			return lit(ast.LitString, `""`)
		case info&types.IsInteger != 0:
			return lit(ast.LitInt, "0")
		case info&types.IsFloat != 0:
			return lit(ast.LitFloat, "0.0")
		case info&types.IsComplex != 0:
			return lit(ast.LitImag, "0i")
		case u.Kind() == types.UnsafePointer:
			return lit(ast.LitNil, "nil")
		}
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return lit(ast.LitNil, "nil")
	}
	return nil
}
