package bytecode

import (
	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/op"
)

// Package is a sealed compilation unit.
type Package struct {
	key         PackageKey
	name        string
	path        string
	main        FunctionKey
	imports     []PackageKey
	members     []Value
	memberNames []string
	lookup      map[ast.EntityKey]op.Index
}

// PackageParams contains parameters for creating a new Package.
// MemberNames must be parallel to Members.
type PackageParams struct {
	Key         PackageKey
	Name        string
	Path        string
	Main        FunctionKey
	Imports     []PackageKey
	Members     []Value
	MemberNames []string
	Lookup      map[ast.EntityKey]op.Index
}

// NewPackage creates a new immutable Package from the given parameters.
// Input slices and maps are copied to ensure immutability.
func NewPackage(params PackageParams) *Package {
	return &Package{
		key:         params.Key,
		name:        params.Name,
		path:        params.Path,
		main:        params.Main,
		imports:     copySlice(params.Imports),
		members:     copySlice(params.Members),
		memberNames: copySlice(params.MemberNames),
		lookup:      copyMap(params.Lookup),
	}
}

// Key returns the package's key within its program.
func (p *Package) Key() PackageKey { return p.key }

// Name returns the package name.
func (p *Package) Name() string { return p.name }

// Path returns the import path of the package, if it has one.
func (p *Package) Path() string { return p.path }

// Main returns the package's entry function, if one was declared.
func (p *Package) Main() (FunctionKey, bool) {
	return p.main, p.main.IsValid()
}

// ImportCount returns the number of imported packages.
func (p *Package) ImportCount() int { return len(p.imports) }

// ImportAt returns the imported package at the given index.
func (p *Package) ImportAt(index int) PackageKey { return p.imports[index] }

// MemberCount returns the number of package members.
func (p *Package) MemberCount() int { return len(p.members) }

// MemberAt returns the member at the given index.
func (p *Package) MemberAt(index int) Value { return p.members[index] }

// MemberName returns the declared name of the member at the given index.
func (p *Package) MemberName(index int) string {
	if index < 0 || index >= len(p.memberNames) {
		return ""
	}
	return p.memberNames[index]
}

// Lookup returns the member index bound to a declaration identity.
func (p *Package) Lookup(key ast.EntityKey) (op.Index, bool) {
	i, ok := p.lookup[key]
	return i, ok
}

// MemberByName returns the member with the given declared name.
func (p *Package) MemberByName(name string) (Value, bool) {
	for i, n := range p.memberNames {
		if n == name {
			return p.members[i], true
		}
	}
	return Value{}, false
}
