// Package ffi is the boundary between compiled programs and routines
// implemented by the host.
//
// The compiler never emits a dedicated foreign-call instruction: a package
// member declared without a body is compiled as a native member, and calls
// to it are ordinary calls. A loader binds each native member to a routine
// registered with a Factory, optionally renamed by a Manifest.
package ffi

import (
	"context"
	stderrors "errors"

	"github.com/gosc-lang/gosc/bytecode"
)

// Result is the outcome of a foreign call. Err is set when the routine
// failed; Values is ignored in that case.
type Result struct {
	Values []bytecode.Value
	Err    error
}

// Ctx describes the call site of a foreign call.
type Ctx struct {
	// FuncName is the qualified name of the native member being called.
	FuncName string
	// Program is the program that made the call.
	Program *bytecode.Program
	// Stack holds the caller's operand stack below the arguments.
	Stack []bytecode.Value
	// Memory is host state shared by every call made through the same
	// Ctx.
	Memory map[string]bytecode.Value
}

// NewCtx returns a context for calls made on behalf of program.
func NewCtx(program *bytecode.Program, funcName string) *Ctx {
	return &Ctx{
		FuncName: funcName,
		Program:  program,
		Memory:   map[string]bytecode.Value{},
	}
}

// ZeroValue returns the zero value of kind.
func (c *Ctx) ZeroValue(kind bytecode.ValueKind) bytecode.Value {
	switch kind {
	case bytecode.ValBool:
		return bytecode.Bool(false)
	case bytecode.ValInt:
		return bytecode.Int(0)
	case bytecode.ValFloat:
		return bytecode.Float(0)
	case bytecode.ValComplex:
		return bytecode.Complex(0)
	case bytecode.ValString:
		return bytecode.String("")
	default:
		return bytecode.Nil()
	}
}

// Ffi is a routine implemented by the host. Call must not block: it returns
// a channel that receives exactly one Result.
type Ffi interface {
	Call(ctx context.Context, c *Ctx, params []bytecode.Value) <-chan Result
}

// Func adapts a synchronous function to the Ffi interface. The function
// runs on its own goroutine.
type Func func(ctx context.Context, c *Ctx, params []bytecode.Value) ([]bytecode.Value, error)

// Call implements Ffi.
func (f Func) Call(ctx context.Context, c *Ctx, params []bytecode.Value) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		values, err := f(ctx, c, params)
		ch <- Result{Values: values, Err: err}
	}()
	return ch
}

// ErrNoResult is returned by Await when the result channel is closed
// without a result.
var ErrNoResult = stderrors.New("foreign call produced no result")

// Await waits for the result of a foreign call.
func Await(ctx context.Context, ch <-chan Result) ([]bytecode.Value, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r, ok := <-ch:
		if !ok {
			return nil, ErrNoResult
		}
		return r.Values, r.Err
	}
}
