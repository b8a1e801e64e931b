package compiler

import (
	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/bytecode"
	"github.com/gosc-lang/gosc/errors"
	"github.com/gosc-lang/gosc/op"
)

// PackageBuilder accumulates the members of one compilation unit. Members
// are function values, or native placeholders for functions declared
// without a body.
type PackageBuilder struct {
	key        bytecode.PackageKey
	name       string
	path       string
	entryPoint string
	main       bytecode.FunctionKey
	imports    []bytecode.PackageKey
	members    []bytecode.Value
	names      []string
	set        []bool
	lookup     map[ast.EntityKey]op.Index
}

// NewPackageBuilder returns an empty builder for a package.
func NewPackageBuilder(key bytecode.PackageKey, name, path, entryPoint string) *PackageBuilder {
	if entryPoint == "" {
		entryPoint = DefaultEntryPoint
	}
	return &PackageBuilder{
		key:        key,
		name:       name,
		path:       path,
		entryPoint: entryPoint,
		main:       bytecode.NoFunction,
		lookup:     map[ast.EntityKey]op.Index{},
	}
}

// Key returns the package's key.
func (p *PackageBuilder) Key() bytecode.PackageKey { return p.key }

// Name returns the package name.
func (p *PackageBuilder) Name() string { return p.name }

// Main returns the entry function, if one has been added.
func (p *PackageBuilder) Main() (bytecode.FunctionKey, bool) {
	return p.main, p.main.IsValid()
}

// Lookup returns the member index bound to entity.
func (p *PackageBuilder) Lookup(entity ast.EntityKey) (op.Index, bool) {
	i, ok := p.lookup[entity]
	return i, ok
}

// Reserve allocates a member index for entity before its value is known, so
// references that precede the declaration resolve. Reserving an entity twice
// returns the same index.
func (p *PackageBuilder) Reserve(entity ast.EntityKey, name string) (op.Index, error) {
	if i, ok := p.lookup[entity]; ok {
		return i, nil
	}
	if len(p.members) > maxIndex {
		return 0, errors.Limitf(errors.E2008, "package %q exceeds the limit of %d members", p.name, maxIndex+1)
	}
	i := op.Index(len(p.members))
	p.members = append(p.members, bytecode.Nil())
	p.names = append(p.names, name)
	p.set = append(p.set, false)
	if entity != ast.NoEntity {
		p.lookup[entity] = i
	}
	return i, nil
}

func (p *PackageBuilder) define(entity ast.EntityKey, name string, value bytecode.Value) (op.Index, error) {
	i, err := p.Reserve(entity, name)
	if err != nil {
		return 0, err
	}
	if p.set[i] {
		return 0, errors.Internalf(errors.E2206, "package %q: member %q is already defined", p.name, name)
	}
	p.members[i] = value
	p.set[i] = true
	return i, nil
}

// AddFunc binds the function with the given key to entity. If name is the
// entry-point name the function also becomes the package's entry point,
// which may happen only once.
func (p *PackageBuilder) AddFunc(entity ast.EntityKey, name string, key bytecode.FunctionKey) (op.Index, error) {
	if name == p.entryPoint && p.main.IsValid() {
		return 0, errors.Internalf(errors.E2203,
			"package %q: entry point %q is already set to %s", p.name, name, p.main)
	}
	i, err := p.define(entity, name, bytecode.FunctionValue(key))
	if err != nil {
		return 0, err
	}
	if name == p.entryPoint {
		p.main = key
	}
	return i, nil
}

// AddNative binds entity to a routine supplied by the host at load time.
// The member's native name is "<package>.<name>".
func (p *PackageBuilder) AddNative(entity ast.EntityKey, name string) (op.Index, error) {
	return p.define(entity, name, bytecode.Native(p.name+"."+name))
}

// AddImport records an imported package. Repeated imports are recorded
// once.
func (p *PackageBuilder) AddImport(key bytecode.PackageKey) {
	for _, k := range p.imports {
		if k == key {
			return
		}
	}
	p.imports = append(p.imports, key)
}

// Seal returns the immutable package record.
func (p *PackageBuilder) Seal() *bytecode.Package {
	return bytecode.NewPackage(bytecode.PackageParams{
		Key:         p.key,
		Name:        p.name,
		Path:        p.path,
		Main:        p.main,
		Imports:     p.imports,
		Members:     p.members,
		MemberNames: p.names,
		Lookup:      p.lookup,
	})
}

// Packages is the set of compilation units known to a compiler. A unit is
// identified by its import path, or by its name when it has no path.
type Packages struct {
	builders []*PackageBuilder
	byID     map[string]bytecode.PackageKey
}

func packageID(name, path string) string {
	if path != "" {
		return path
	}
	return name
}

// Register returns the builder for the unit, creating it if needed.
func (ps *Packages) Register(name, path, entryPoint string) *PackageBuilder {
	if pb, ok := ps.Lookup(name, path); ok {
		return pb
	}
	if ps.byID == nil {
		ps.byID = map[string]bytecode.PackageKey{}
	}
	key := bytecode.PackageKey(len(ps.builders))
	pb := NewPackageBuilder(key, name, path, entryPoint)
	ps.builders = append(ps.builders, pb)
	ps.byID[packageID(name, path)] = key
	return pb
}

// Lookup returns the builder for the unit.
func (ps *Packages) Lookup(name, path string) (*PackageBuilder, bool) {
	key, ok := ps.byID[packageID(name, path)]
	if !ok {
		return nil, false
	}
	return ps.builders[key], true
}

// Len returns the number of registered units.
func (ps *Packages) Len() int { return len(ps.builders) }
