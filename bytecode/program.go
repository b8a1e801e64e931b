package bytecode

import (
	"sort"

	"github.com/gofrs/uuid"
)

// Program is the immutable result of a compilation: every sealed function
// and package, addressed by key.
type Program struct {
	id        string
	functions []*Function
	packages  []*Package
	names     map[string]PackageKey
	entry     FunctionKey
}

// ProgramParams contains parameters for creating a new Program.
type ProgramParams struct {
	// ID is the build id. A random one is generated when empty.
	ID        string
	Functions []*Function
	Packages  []*Package
	Entry     FunctionKey
}

// NewProgram creates a new immutable Program from the given parameters.
// Input slices are copied to ensure immutability.
func NewProgram(params ProgramParams) *Program {
	id := params.ID
	if id == "" {
		id = uuid.Must(uuid.NewV4()).String()
	}
	names := make(map[string]PackageKey, len(params.Packages))
	for _, pkg := range params.Packages {
		if pkg == nil {
			continue
		}
		if _, exists := names[pkg.Name()]; !exists {
			names[pkg.Name()] = pkg.Key()
		}
	}
	return &Program{
		id:        id,
		functions: copySlice(params.Functions),
		packages:  copySlice(params.Packages),
		names:     names,
		entry:     params.Entry,
	}
}

// ID returns the build id of the program.
func (p *Program) ID() string { return p.id }

// FunctionCount returns the number of functions.
func (p *Program) FunctionCount() int { return len(p.functions) }

// FunctionAt returns the function with the given key, or nil if there is
// none.
func (p *Program) FunctionAt(key FunctionKey) *Function {
	if !key.IsValid() || int(key) >= len(p.functions) {
		return nil
	}
	return p.functions[key]
}

// Functions returns a copy of the function arena, ordered by key.
func (p *Program) Functions() []*Function { return copySlice(p.functions) }

// PackageCount returns the number of packages.
func (p *Program) PackageCount() int { return len(p.packages) }

// PackageAt returns the package with the given key, or nil if there is
// none.
func (p *Program) PackageAt(key PackageKey) *Package {
	if !key.IsValid() || int(key) >= len(p.packages) {
		return nil
	}
	return p.packages[key]
}

// Packages returns a copy of the package arena, ordered by key.
func (p *Program) Packages() []*Package { return copySlice(p.packages) }

// Package returns the package with the given name.
func (p *Program) Package(name string) (*Package, bool) {
	key, ok := p.names[name]
	if !ok {
		return nil, false
	}
	return p.packages[key], true
}

// PackageNames returns the package names in sorted order.
func (p *Program) PackageNames() []string {
	names := make([]string, 0, len(p.names))
	for name := range p.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry returns the program's entry function, if it has one.
func (p *Program) Entry() (*Function, bool) {
	fn := p.FunctionAt(p.entry)
	return fn, fn != nil
}

// EntryKey returns the key of the entry function, or NoFunction.
func (p *Program) EntryKey() FunctionKey { return p.entry }

// Stats returns statistics about the program.
func (p *Program) Stats() Stats {
	stats := Stats{
		FunctionCount: len(p.functions),
		PackageCount:  len(p.packages),
	}
	for _, fn := range p.functions {
		if fn == nil {
			continue
		}
		stats.CellCount += fn.CodeCount()
		stats.ConstantCount += fn.ConstantCount()
		stats.UpValueCount += fn.UpValueCount()
		for i := 0; i < fn.CodeCount(); i++ {
			if !fn.CodeAt(i).IsData() {
				stats.InstructionCount++
			}
		}
	}
	for _, pkg := range p.packages {
		if pkg != nil {
			stats.MemberCount += pkg.MemberCount()
		}
	}
	return stats
}
