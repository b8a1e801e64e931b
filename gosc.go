// Package gosc compiles Go source into program images for a stack-based
// virtual machine.
//
// Compile handles a single self-contained file; CompilePackages loads
// package patterns the way the go command does. Both return an immutable,
// verified *bytecode.Program:
//
//	program, err := gosc.Compile(ctx, "main.go", src)
//	if err != nil {
//		return err
//	}
//	image, err := bytecode.Marshal(program)
//
// Failures are *errors.CompileError values, or several of them aggregated
// when the source has more than one front-end error.
package gosc

import (
	"context"

	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/compiler"
	"github.com/gosc-lang/gosc/frontend"
)

// Compile parses, type checks and compiles one file that forms a package
// on its own.
func Compile(ctx context.Context, filename string, src []byte, opts ...Option) (*bytecode.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := collectOptions(opts...)
	file, err := frontend.New(o.logger).ParseFile(filename, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return compiler.Compile(o.compilerConfig(src), file)
}

// CompilePackages loads the packages matching patterns and compiles every
// file of them into one program.
func CompilePackages(ctx context.Context, patterns []string, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	files, err := frontend.New(o.logger).Load(ctx, o.dir, patterns...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return compiler.Compile(o.compilerConfig(nil), files...)
}
