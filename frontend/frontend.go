// Package frontend turns Go source into the resolved tree consumed by the
// compiler.
//
// Source is parsed with go/parser and checked with go/types. Every
// types.Object met during conversion gets one ast.EntityKey, so identifiers
// that denote the same declaration carry the same key across all files
// converted by one Frontend. The front end also records what the compiler
// cannot work out from the tree alone: the number of values a call
// produces, the folded value of constant expressions, the zero value of
// variables declared without one, and which call expressions are
// conversions.
package frontend

import (
	"context"
	goast "go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"

	"github.com/gosc-lang/gosc/ast"
)

// Frontend converts files and packages. Entity keys are unique across
// everything one Frontend converts. It is not safe for concurrent use.
type Frontend struct {
	fset *token.FileSet
	keys map[types.Object]ast.EntityKey
	next ast.EntityKey
	log  zerolog.Logger
}

// New returns a Frontend. Pass nil for logger to disable tracing.
func New(logger *zerolog.Logger) *Frontend {
	fe := &Frontend{
		fset: token.NewFileSet(),
		keys: map[types.Object]ast.EntityKey{},
		log:  zerolog.Nop(),
	}
	if logger != nil {
		fe.log = *logger
	}
	return fe
}

// ParseFile parses and type checks a single file that forms a package on
// its own, and converts it. Imports are type checked from source.
func (fe *Frontend) ParseFile(filename string, src []byte) (*ast.File, error) {
	file, err := parser.ParseFile(fe.fset, filename, src, parser.AllErrors|parser.SkipObjectResolution)
	if err != nil {
		return nil, syntaxErrors(err)
	}
	info := newInfo()
	var typeErrs []error
	conf := types.Config{
		Importer: importer.ForCompiler(fe.fset, "source", nil),
		Error:    func(err error) { typeErrs = append(typeErrs, err) },
	}
	// The result is incomplete when typeErrs is not empty
	_, _ = conf.Check(file.Name.Name, fe.fset, []*goast.File{file}, info)
	if len(typeErrs) > 0 {
		return nil, typeErrors(typeErrs)
	}
	return fe.convert(file, info, ""), nil
}

// Load loads the packages matching patterns, relative to dir, and converts
// every file of the matched packages. Dependencies are type checked but not
// converted.
func (fe *Frontend) Load(ctx context.Context, dir string, patterns ...string) ([]*ast.File, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedImports,
		Dir:  dir,
		Env:  append(os.Environ(), "GOWORK=off"),
		Fset: fe.fset,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, loadError(err)
	}
	if err := packageErrors(pkgs); err != nil {
		return nil, err
	}
	var files []*ast.File
	for _, pkg := range pkgs {
		fe.log.Debug().
			Str("package", pkg.PkgPath).
			Int("files", len(pkg.Syntax)).
			Msg("loaded package")
		for _, file := range pkg.Syntax {
			files = append(files, fe.convert(file, pkg.TypesInfo, pkg.PkgPath))
		}
	}
	return files, nil
}

// Position returns the position of p in the files seen by the Frontend.
func (fe *Frontend) Position(p token.Pos) ast.Position {
	pos := fe.fset.Position(p)
	return ast.Position{Filename: pos.Filename, Line: pos.Line, Column: pos.Column}
}

func (fe *Frontend) convert(file *goast.File, info *types.Info, path string) *ast.File {
	before := fe.next
	c := &converter{fe: fe, info: info}
	out := c.file(file, path)
	fe.log.Debug().
		Str("file", out.Filename).
		Str("package", out.Name.Name).
		Int("entities", int(fe.next-before)).
		Msg("converted file")
	return out
}

// key returns the entity key of obj, allocating one on first use.
func (fe *Frontend) key(obj types.Object) ast.EntityKey {
	if k, ok := fe.keys[obj]; ok {
		return k
	}
	fe.next++
	fe.keys[obj] = fe.next
	return fe.next
}

func newInfo() *types.Info {
	return &types.Info{
		Types: map[goast.Expr]types.TypeAndValue{},
		Defs:  map[*goast.Ident]types.Object{},
		Uses:  map[*goast.Ident]types.Object{},
	}
}
