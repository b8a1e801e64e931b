package bytecode

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/gosc-lang/gosc/op"
)

// VerifyError describes one violation of the image contract.
type VerifyError struct {
	Function FunctionKey
	Package  PackageKey
	Offset   int
	Message  string
}

func (e *VerifyError) Error() string {
	switch {
	case e.Function.IsValid() && e.Offset >= 0:
		return fmt.Sprintf("%s at offset %d: %s", e.Function, e.Offset, e.Message)
	case e.Function.IsValid():
		return fmt.Sprintf("%s: %s", e.Function, e.Message)
	case e.Package.IsValid():
		return fmt.Sprintf("%s: %s", e.Package, e.Message)
	default:
		return e.Message
	}
}

// Verify checks that a program honors the binary contract shared with the
// loader: every opcode is known, every opcode of arity one is followed by
// exactly one data cell and no data cell appears elsewhere, every index
// operand is within the table it addresses, every function ends with
// RETURN, and every function and package reference resolves. All
// violations are reported together.
func Verify(p *Program) error {
	var result *multierror.Error
	for i, fn := range p.functions {
		if fn == nil {
			result = multierror.Append(result, &VerifyError{
				Function: FunctionKey(i), Package: NoPackage, Offset: -1,
				Message: "missing function",
			})
			continue
		}
		if fn.Key() != FunctionKey(i) {
			result = multierror.Append(result, &VerifyError{
				Function: FunctionKey(i), Package: NoPackage, Offset: -1,
				Message: fmt.Sprintf("function stored under key %d claims key %d", i, fn.Key()),
			})
		}
		for _, err := range verifyFunction(p, fn) {
			result = multierror.Append(result, err)
		}
	}
	for i, pkg := range p.packages {
		if pkg == nil {
			result = multierror.Append(result, &VerifyError{
				Function: NoFunction, Package: PackageKey(i), Offset: -1,
				Message: "missing package",
			})
			continue
		}
		for _, err := range verifyPackage(p, pkg) {
			result = multierror.Append(result, err)
		}
	}
	if p.entry != NoFunction && p.FunctionAt(p.entry) == nil {
		result = multierror.Append(result, &VerifyError{
			Function: NoFunction, Package: NoPackage, Offset: -1,
			Message: fmt.Sprintf("entry function %s does not exist", p.entry),
		})
	}
	return result.ErrorOrNil()
}

func verifyFunction(p *Program, fn *Function) []error {
	var errs []error
	fail := func(offset int, format string, args ...any) {
		errs = append(errs, &VerifyError{
			Function: fn.Key(),
			Package:  fn.Package(),
			Offset:   offset,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	if fn.ParamCount() < 0 || fn.RetCount() < 0 || fn.LocalCount() < 0 {
		fail(-1, "inconsistent slot counts (params=%d results=%d alloc=%d)",
			fn.ParamCount(), fn.RetCount(), fn.LocalAlloc())
	}
	if p.PackageAt(fn.Package()) == nil {
		fail(-1, "unknown package %s", fn.Package())
	}

	var last op.Code
	for pos := 0; pos < fn.CodeCount(); {
		cell := fn.CodeAt(pos)
		if cell.IsData() {
			fail(pos, "data cell %d does not follow an opcode", cell.Data())
			pos++
			continue
		}
		code := cell.Op()
		info := op.GetInfo(code)
		if info.Name == "" {
			fail(pos, "unknown opcode %d", uint16(code))
			pos++
			continue
		}
		last = code
		start := pos
		pos++
		if info.Arity == 0 {
			if slot, ok := code.InlineLocal(); ok && int(slot) >= fn.LocalAlloc() {
				fail(start, "%s: slot out of range (alloc=%d)", code, fn.LocalAlloc())
			}
			continue
		}
		if pos >= fn.CodeCount() || !fn.CodeAt(pos).IsData() {
			fail(start, "%s is missing its data cell", code)
			continue
		}
		data := int(fn.CodeAt(pos).Data())
		pos++
		if msg := checkOperand(p, fn, code, data); msg != "" {
			fail(start, "%s %d: %s", code, data, msg)
		}
	}
	if last != op.Return && last != op.ReturnInitPkg {
		fail(-1, "function does not end with RETURN")
	}

	for i := 0; i < fn.ConstantCount(); i++ {
		v := fn.ConstantAt(i)
		if v.Kind() == ValFunction && p.FunctionAt(v.FunctionKey()) == nil {
			fail(-1, "constant %d refers to unknown %s", i, v.FunctionKey())
		}
	}
	for i := 0; i < fn.UpValueCount(); i++ {
		uv := fn.UpValueAt(i)
		owner := p.FunctionAt(uv.Func)
		switch {
		case owner == nil:
			fail(-1, "upvalue %d refers to unknown %s", i, uv.Func)
		case uv.Nested && int(uv.Index) >= owner.UpValueCount():
			fail(-1, "upvalue %d refers to missing upvalue %d of %s", i, uv.Index, uv.Func)
		case !uv.Nested && int(uv.Index) >= owner.LocalAlloc():
			fail(-1, "upvalue %d refers to missing slot %d of %s", i, uv.Index, uv.Func)
		}
	}
	return errs
}

func checkOperand(p *Program, fn *Function, code op.Code, data int) string {
	inRange := func(n int) string {
		if data < 0 || data >= n {
			return fmt.Sprintf("index out of range (size %d)", n)
		}
		return ""
	}
	switch code {
	case op.PushConst:
		return inRange(fn.ConstantCount())
	case op.LoadLocal, op.StoreLocal, op.StoreLocalNT, op.StoreLocalOp:
		return inRange(fn.LocalAlloc())
	case op.LoadUpvalue, op.StoreUpvalue, op.StoreUpvalueNT, op.StoreUpvalueOp:
		return inRange(fn.UpValueCount())
	case op.LoadThisPkgField, op.StoreThisPkgField, op.StoreThisPkgFieldNT, op.StoreThisPkgFieldOp:
		pkg := p.PackageAt(fn.Package())
		if pkg == nil {
			return "no enclosing package"
		}
		return inRange(pkg.MemberCount())
	case op.Import:
		return inRange(p.PackageCount())
	case op.Jump, op.JumpIf, op.JumpIfNot, op.Loop:
		return inRange(fn.CodeCount() + 1)
	}
	return ""
}

func verifyPackage(p *Program, pkg *Package) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &VerifyError{
			Function: NoFunction,
			Package:  pkg.Key(),
			Offset:   -1,
			Message:  fmt.Sprintf(format, args...),
		})
	}
	if main, ok := pkg.Main(); ok && p.FunctionAt(main) == nil {
		fail("entry function %s does not exist", main)
	}
	for i := 0; i < pkg.ImportCount(); i++ {
		if p.PackageAt(pkg.ImportAt(i)) == nil {
			fail("import %d refers to unknown %s", i, pkg.ImportAt(i))
		}
	}
	for i := 0; i < pkg.MemberCount(); i++ {
		v := pkg.MemberAt(i)
		if v.Kind() == ValFunction && p.FunctionAt(v.FunctionKey()) == nil {
			fail("member %d refers to unknown %s", i, v.FunctionKey())
		}
	}
	for _, idx := range pkg.lookup {
		if int(idx) < 0 || int(idx) >= pkg.MemberCount() {
			fail("lookup entry refers to missing member %d", idx)
		}
	}
	return errs
}
