// Package compiler turns a resolved program tree into a bytecode.Program.
//
// # Builders
//
// Each function being compiled has a FunctionBuilder on the compiler's
// builder stack; the innermost builder receives every emitted instruction.
// Entering a function declaration or literal pushes a builder, and finishing
// its body appends RETURN, seals the builder into an immutable
// bytecode.Function and pops it. Function keys are reserved when a builder
// is pushed, so constants and captured-variable descriptors can name a
// function before it is sealed.
//
// # Two-Pass Compilation Strategy
//
// Before a file's declarations are compiled, every top-level function is
// reserved a member index in its package. This lets a function reference
// functions declared later in the source, including itself.
//
// # Storage Classes
//
// Every identifier resolves to exactly one storage class:
//
//   - Const: an entry in the function's constant pool
//   - LocalVar: a slot of the function's activation, laid out as
//     [results][params][body locals]
//   - CapturedVar: a variable of an enclosing function, reached through an
//     open captured-variable descriptor
//   - PackageMember: a member of the package being compiled
//   - Blank: the write-only "_" identifier
//
// Resolution tries the innermost function first, then the enclosing
// functions (see CaptureMode), then the package.
//
// # Failures
//
// Constructs without a lowering fail with an unsupported-construct error;
// broken invariants fail with an internal error. Either way compilation stops
// at the first failure and the Compiler cannot be reused.
package compiler

import (
	"go/token"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
)

// Compiler compiles files into a single program. It is not safe for
// concurrent use.
type Compiler struct {
	entryPoint string
	captures   CaptureMode
	log        zerolog.Logger
	source     string

	// Arena of sealed functions, indexed by key. Entries are nil between
	// reservation and sealing.
	functions []*bytecode.Function

	packages Packages

	// Package of the file being compiled
	pkg *PackageBuilder

	// Functions being compiled, innermost last
	stack []*FunctionBuilder

	// Source filename of the file being compiled
	filename string

	// Set on a compilation error
	failure error

	program *bytecode.Program
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	c := &Compiler{
		entryPoint: cfg.entryPoint(),
		log:        cfg.logger(),
	}
	if cfg != nil {
		c.captures = cfg.Captures
		c.source = cfg.Source
	}
	return c
}

// Compile compiles the given files and returns the program.
// Pass nil for cfg to use default settings.
func Compile(cfg *Config, files ...*ast.File) (*bytecode.Program, error) {
	c := New(cfg)
	if err := c.Reserve(files...); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := c.CompileFile(f); err != nil {
			return nil, err
		}
	}
	return c.Program()
}

// Reserve registers the top-level functions of every file as members of
// their packages, so that a function may call one declared in a file that
// is compiled later. CompileFile reserves the members of its own file, so
// calling Reserve is only needed for references across files.
func (c *Compiler) Reserve(files ...*ast.File) error {
	if c.failure != nil || c.program != nil {
		return errors.ErrPoisoned
	}
	for _, file := range files {
		if err := c.reserveFile(file); err != nil {
			c.failure = err
			return err
		}
	}
	return nil
}

// CompileFile compiles one file into the package it declares. Files of the
// same package may be compiled one after another.
func (c *Compiler) CompileFile(file *ast.File) error {
	if c.failure != nil || c.program != nil {
		return errors.ErrPoisoned
	}
	if err := c.compileFile(file); err != nil {
		c.failure = err
		c.log.Debug().Err(err).Str("file", file.Filename).Msg("compilation failed")
		return err
	}
	return nil
}

// Program seals every package and returns the compiled program. No file may
// be compiled afterwards. The entry function is the entry point of the
// package named "main" or, failing that, of the first package that has one.
func (c *Compiler) Program() (*bytecode.Program, error) {
	if c.failure != nil {
		return nil, errors.ErrPoisoned
	}
	if c.program != nil {
		return c.program, nil
	}
	if len(c.stack) != 0 {
		c.failure = errors.Internalf(errors.E2205, "%d functions are still being compiled", len(c.stack))
		return nil, c.failure
	}
	entry := bytecode.NoFunction
	mainFound := false
	packages := make([]*bytecode.Package, len(c.packages.builders))
	for i, pb := range c.packages.builders {
		packages[i] = pb.Seal()
		main, ok := pb.Main()
		switch {
		case !ok || mainFound:
		case pb.Name() == "main":
			entry, mainFound = main, true
		case !entry.IsValid():
			entry = main
		}
	}
	program := bytecode.NewProgram(bytecode.ProgramParams{
		Functions: c.functions,
		Packages:  packages,
		Entry:     entry,
	})
	if err := bytecode.Verify(program); err != nil {
		c.failure = errors.Internalf(errors.E3001, "compiled program is invalid: %v", err)
		return nil, c.failure
	}
	c.program = program
	c.log.Debug().
		Str("id", program.ID()).
		Int("functions", program.FunctionCount()).
		Int("packages", program.PackageCount()).
		Msg("program sealed")
	return program, nil
}

// reserveFile makes the package of file current and reserves a member for
// each of its top-level functions. Reserving twice is a no-op.
func (c *Compiler) reserveFile(file *ast.File) error {
	if file == nil || file.Name == nil {
		return errors.Internalf(errors.E2201, "file has no package clause")
	}
	c.filename = file.Filename
	c.pkg = c.packages.Register(file.Name.Name, file.Path, c.entryPoint)
	// An import may have registered the unit under the last element of its
	// path; the package clause is authoritative.
	c.pkg.name = file.Name.Name

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv != nil || fd.Name.IsBlank() {
			continue
		}
		if _, err := c.pkg.Reserve(fd.Name.Entity, fd.Name.Name); err != nil {
			return c.locate(err, fd.Pos())
		}
	}
	return nil
}

func (c *Compiler) compileFile(file *ast.File) error {
	// First pass: reserve members for top-level functions to allow forward
	// references
	if err := c.reserveFile(file); err != nil {
		return err
	}

	// Second pass: actual compilation
	for _, decl := range file.Decls {
		if err := c.compileDecl(decl); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileDecl(decl ast.Decl) error {
	switch decl := decl.(type) {
	case *ast.FuncDecl:
		return c.compileFuncDecl(decl)
	case *ast.GenDecl:
		if decl.Tok != token.IMPORT {
			return c.unsupported(decl, "package-level "+decl.Tok.String()+" declaration")
		}
		return c.compileImports(decl)
	case *ast.BadDecl:
		return c.unsupported(decl, "malformed declaration")
	default:
		return c.unsupported(decl, "declaration")
	}
}

func (c *Compiler) compileImports(decl *ast.GenDecl) error {
	for _, spec := range decl.Specs {
		is, ok := spec.(*ast.ImportSpec)
		if !ok {
			return c.unsupported(spec, "import specification")
		}
		name := is.Path[strings.LastIndex(is.Path, "/")+1:]
		imported := c.packages.Register(name, is.Path, c.entryPoint)
		c.pkg.AddImport(imported.Key())
		c.log.Debug().Str("package", c.pkg.Name()).Str("import", is.Path).Msg("import")
	}
	return nil
}

func (c *Compiler) compileFuncDecl(decl *ast.FuncDecl) error {
	if decl.Recv != nil {
		return c.unsupported(decl, "method declaration")
	}
	name := decl.Name
	if decl.Body == nil {
		if name.IsBlank() {
			return nil
		}
		if _, err := c.pkg.AddNative(name.Entity, name.Name); err != nil {
			return c.locate(err, decl.Pos())
		}
		c.log.Debug().Str("package", c.pkg.Name()).Str("name", name.Name).Msg("native member")
		return nil
	}
	key, err := c.compileFunction(name.Name, bytecode.FuncDecl, decl.Type, decl.Body)
	if err != nil {
		return err
	}
	if name.IsBlank() {
		return nil
	}
	if _, err := c.pkg.AddFunc(name.Entity, name.Name, key); err != nil {
		return c.locate(err, decl.Pos())
	}
	if main, ok := c.pkg.Main(); ok && main == key {
		c.log.Debug().Str("package", c.pkg.Name()).Str("entry", key.String()).Msg("entry point")
	}
	return nil
}

// compileFunction compiles a function declaration or literal with its own
// builder and returns the key of the sealed function.
func (c *Compiler) compileFunction(name string, flag bytecode.FuncFlag, ft *ast.FuncType, body *ast.BlockStmt) (bytecode.FunctionKey, error) {
	b := c.push(name, flag, ft)
	if err := b.DeclareSignature(ft); err != nil {
		return bytecode.NoFunction, c.locate(err, ft.Pos())
	}
	if err := c.compileBlock(body); err != nil {
		return bytecode.NoFunction, err
	}
	// Emitted even after an explicit return
	b.EmitReturn()
	return c.pop()
}

func (c *Compiler) push(name string, flag bytecode.FuncFlag, ft *ast.FuncType) *FunctionBuilder {
	key := bytecode.FunctionKey(len(c.functions))
	c.functions = append(c.functions, nil)
	b := NewFunctionBuilder(key, c.pkg.Key(), name, flag)
	b.filename = c.filename
	if ft != nil {
		pos := ft.Pos()
		b.pos = bytecode.SourceLocation{Line: pos.Line, Column: pos.Column}
		b.loc = b.pos
	}
	c.stack = append(c.stack, b)
	c.log.Debug().
		Str("function", key.String()).
		Str("name", name).
		Int("depth", len(c.stack)).
		Msg("push builder")
	return b
}

func (c *Compiler) pop() (bytecode.FunctionKey, error) {
	b, err := c.current()
	if err != nil {
		return bytecode.NoFunction, err
	}
	c.stack = c.stack[:len(c.stack)-1]
	fn := b.Seal()
	c.functions[fn.Key()] = fn
	c.log.Debug().
		Str("function", fn.Key().String()).
		Int("cells", fn.CodeCount()).
		Int("locals", fn.LocalAlloc()).
		Int("upvalues", fn.UpValueCount()).
		Msg("seal builder")
	return fn.Key(), nil
}

// current returns the innermost builder.
func (c *Compiler) current() (*FunctionBuilder, error) {
	if len(c.stack) == 0 {
		return nil, errors.Internalf(errors.E2205, "no function is being compiled")
	}
	return c.stack[len(c.stack)-1], nil
}

// at records pos as the source location of the instructions that follow.
func (c *Compiler) at(pos ast.Position) {
	if len(c.stack) == 0 || !pos.IsValid() {
		return
	}
	c.stack[len(c.stack)-1].SetLocation(bytecode.SourceLocation{Line: pos.Line, Column: pos.Column})
}

func (c *Compiler) unsupported(node ast.Node, what string) error {
	return c.locate(errors.Unsupportedf("unsupported construct: %s", what), node.Pos())
}

// locate attaches pos to err unless it already carries a location.
func (c *Compiler) locate(err error, pos ast.Position) error {
	ce, ok := errors.AsCompileError(err)
	if !ok || ce.Line > 0 || !pos.IsValid() {
		return err
	}
	filename := pos.Filename
	if filename == "" {
		filename = c.filename
	}
	located := ce.At(filename, pos.Line, pos.Column)
	located.SourceLine = c.sourceLine(pos.Line)
	return located
}

func (c *Compiler) sourceLine(line int) string {
	if c.source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
