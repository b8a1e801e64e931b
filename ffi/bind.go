package ffi

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
)

// Bindings maps the qualified name of each native member of a program to
// the routine that implements it.
type Bindings map[string]Ffi

// Bind resolves every native member of program through the manifest and
// the factory. All unbound members are reported together. A nil manifest
// binds every member by its own name.
func Bind(program *bytecode.Program, factory *Factory, manifest *Manifest) (Bindings, error) {
	bindings := Bindings{}
	var result *multierror.Error
	for _, pkg := range program.Packages() {
		for i := 0; i < pkg.MemberCount(); i++ {
			member := pkg.MemberAt(i)
			if member.Kind() != bytecode.ValNative {
				continue
			}
			name := member.NativeName()
			if _, ok := bindings[name]; ok {
				continue
			}
			routine, err := factory.Create(manifest.Routine(name))
			if err != nil {
				result = multierror.Append(result, unbound(name, err))
				continue
			}
			bindings[name] = routine
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return bindings, nil
}

func unbound(name string, err error) *errors.CompileError {
	msg := err.Error()
	var suggestions []errors.Suggestion
	if ce, ok := errors.AsCompileError(err); ok {
		msg = ce.Message
		suggestions = ce.Suggestions
	}
	e := errors.Newf(errors.Image, errors.E3004, "native member %s is not bound: %s", name, msg)
	e.Suggestions = suggestions
	return e
}

// Call dispatches to the routine bound to c.FuncName, so Bindings is itself
// an Ffi.
func (b Bindings) Call(ctx context.Context, c *Ctx, params []bytecode.Value) <-chan Result {
	routine, ok := b[c.FuncName]
	if !ok {
		ch := make(chan Result, 1)
		ch <- Result{Err: errors.Newf(errors.Image, errors.E3004, "native member %s is not bound", c.FuncName)}
		return ch
	}
	return routine.Call(ctx, c, params)
}
