package compiler

import (
	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
)

// resolve returns the storage class of the identifier, trying in order the
// innermost function's entity table, the enclosing functions (materializing
// a captured variable), and the current package's members. The blank
// identifier always resolves to bytecode.Blank.
func (c *Compiler) resolve(id *ast.Ident) (bytecode.EntIndex, error) {
	if id.IsBlank() {
		return bytecode.Blank, nil
	}
	if id.Entity == ast.NoEntity {
		return bytecode.EntIndex{}, errors.Internalf(errors.E2201,
			"identifier %q is not bound to a declaration", id.Name)
	}
	b, err := c.current()
	if err != nil {
		return bytecode.EntIndex{}, err
	}
	if e, ok := b.Lookup(id.Entity); ok {
		return e, nil
	}
	if e, ok, err := c.capture(id.Entity); err != nil || ok {
		return e, err
	}
	if i, ok := c.pkg.Lookup(id.Entity); ok {
		return bytecode.PackageMember(i), nil
	}
	return bytecode.EntIndex{}, errors.Internalf(errors.E2201,
		"identifier %q (entity %d) does not resolve to any storage", id.Name, id.Entity)
}

// capture looks for entity in the functions enclosing the innermost one,
// nearest first. When found, it registers a captured variable in the
// innermost function, and in chain mode in every function in between, and
// returns the innermost function's reference. Constants are copied into the
// innermost constant pool instead, since they cannot change.
func (c *Compiler) capture(entity ast.EntityKey) (bytecode.EntIndex, bool, error) {
	n := len(c.stack)
	owner := -1
	for i := n - 2; i >= 0; i-- {
		if _, ok := c.stack[i].Lookup(entity); ok {
			owner = i
			break
		}
	}
	if owner < 0 {
		return bytecode.EntIndex{}, false, nil
	}
	inner := c.stack[n-1]
	e, _ := c.stack[owner].Lookup(entity)

	if e.Kind() == bytecode.EntConst {
		i, _ := e.Index()
		ref, err := inner.AddConst(entity, c.stack[owner].Constant(i))
		return ref, true, err
	}

	if c.captures == CaptureDirect {
		ref, err := inner.TryAddUpValue(entity, descriptor(c.stack[owner], e))
		c.log.Debug().
			Int32("entity", int32(entity)).
			Str("owner", c.stack[owner].Key().String()).
			Str("ref", ref.String()).
			Msg("captured variable")
		return ref, true, err
	}

	for i := owner + 1; i < n; i++ {
		next, err := c.stack[i].TryAddUpValue(entity, descriptor(c.stack[i-1], e))
		if err != nil {
			return bytecode.EntIndex{}, true, err
		}
		c.log.Debug().
			Int32("entity", int32(entity)).
			Str("function", c.stack[i].Key().String()).
			Str("via", c.stack[i-1].Key().String()).
			Str("ref", next.String()).
			Msg("captured variable")
		e = next
	}
	return e, true, nil
}

// descriptor returns the open descriptor for the storage e of function b.
func descriptor(b *FunctionBuilder, e bytecode.EntIndex) bytecode.UpValue {
	i, _ := e.Index()
	return bytecode.UpValue{
		Func:   b.Key(),
		Index:  i,
		Nested: e.Kind() == bytecode.EntCaptured,
	}
}
