package bytecode

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/gosc-lang/gosc/ast"
	"github.com/gosc-lang/gosc/op"
)

// ImageVersion is bumped whenever the encoded layout changes.
const ImageVersion = 1

var encMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

var decMode = func() cbor.DecMode {
	mode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// Marshal encodes a Program as a deterministic CBOR image.
func Marshal(p *Program) ([]byte, error) {
	return encMode.Marshal(stateFromProgram(p))
}

// Unmarshal decodes a CBOR image produced by Marshal. The decoded program
// is verified before it is returned.
func Unmarshal(data []byte) (*Program, error) {
	var state programState
	if err := decMode.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	p, err := programFromState(&state)
	if err != nil {
		return nil, err
	}
	if err := Verify(p); err != nil {
		return nil, fmt.Errorf("invalid image: %w", err)
	}
	return p, nil
}

// MarshalJSON returns a JSON view of the program, in the same shape as the
// CBOR image.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateFromProgram(p))
}

// MarshalYAML returns a value that YAML encoders render in the same shape
// as the CBOR image.
func (p *Program) MarshalYAML() (any, error) {
	return stateFromProgram(p), nil
}

// Serialization types

type programState struct {
	Version   int              `cbor:"version" json:"version" yaml:"version"`
	ID        string           `cbor:"id" json:"id" yaml:"id"`
	Entry     int32            `cbor:"entry" json:"entry" yaml:"entry"`
	Functions []*functionState `cbor:"functions" json:"functions" yaml:"functions"`
	Packages  []*packageState  `cbor:"packages" json:"packages" yaml:"packages"`
}

type cellState struct {
	_      struct{} `cbor:",toarray"`
	IsData bool     `json:"is_data,omitempty" yaml:"is_data,omitempty"`
	Value  int32    `json:"value" yaml:"value"`
}

type locationState struct {
	_      struct{} `cbor:",toarray"`
	Line   int      `json:"line" yaml:"line"`
	Column int      `json:"column" yaml:"column"`
}

type valueState struct {
	Kind  uint8   `cbor:"k" json:"kind" yaml:"kind"`
	Bool  bool    `cbor:"b,omitempty" json:"bool,omitempty" yaml:"bool,omitempty"`
	Int   int64   `cbor:"i,omitempty" json:"int,omitempty" yaml:"int,omitempty"`
	Float float64 `cbor:"f,omitempty" json:"float,omitempty" yaml:"float,omitempty"`
	Imag  float64 `cbor:"m,omitempty" json:"imag,omitempty" yaml:"imag,omitempty"`
	Str   string  `cbor:"s,omitempty" json:"str,omitempty" yaml:"str,omitempty"`
	Func  int32   `cbor:"fn" json:"func" yaml:"func"`
}

type upvalueState struct {
	_      struct{} `cbor:",toarray"`
	Func   int32    `json:"func" yaml:"func"`
	Index  int16    `json:"index" yaml:"index"`
	Nested bool     `json:"nested,omitempty" yaml:"nested,omitempty"`
}

type entityState struct {
	_     struct{} `cbor:",toarray"`
	Key   int32    `json:"key" yaml:"key"`
	Kind  uint8    `json:"kind" yaml:"kind"`
	Index int16    `json:"index" yaml:"index"`
}

type functionState struct {
	Key        int32           `cbor:"key" json:"key" yaml:"key"`
	Package    int32           `cbor:"pkg" json:"package" yaml:"package"`
	Name       string          `cbor:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Flag       uint8           `cbor:"flag" json:"flag" yaml:"flag"`
	Filename   string          `cbor:"file,omitempty" json:"filename,omitempty" yaml:"filename,omitempty"`
	Line       int             `cbor:"line,omitempty" json:"line,omitempty" yaml:"line,omitempty"`
	Column     int             `cbor:"col,omitempty" json:"column,omitempty" yaml:"column,omitempty"`
	Code       []cellState     `cbor:"code" json:"code" yaml:"code"`
	Locations  []locationState `cbor:"locs,omitempty" json:"locations,omitempty" yaml:"locations,omitempty"`
	Constants  []valueState    `cbor:"consts,omitempty" json:"constants,omitempty" yaml:"constants,omitempty"`
	UpValues   []upvalueState  `cbor:"upvalues,omitempty" json:"upvalues,omitempty" yaml:"upvalues,omitempty"`
	ParamCount int             `cbor:"params" json:"params" yaml:"params"`
	RetCount   int             `cbor:"results" json:"results" yaml:"results"`
	Variadic   bool            `cbor:"variadic,omitempty" json:"variadic,omitempty" yaml:"variadic,omitempty"`
	LocalAlloc int             `cbor:"alloc" json:"alloc" yaml:"alloc"`
	Entities   []entityState   `cbor:"entities,omitempty" json:"entities,omitempty" yaml:"entities,omitempty"`
}

type memberState struct {
	Name  string     `cbor:"name" json:"name" yaml:"name"`
	Value valueState `cbor:"value" json:"value" yaml:"value"`
}

type lookupState struct {
	_     struct{} `cbor:",toarray"`
	Key   int32    `json:"key" yaml:"key"`
	Index int16    `json:"index" yaml:"index"`
}

type packageState struct {
	Key     int32         `cbor:"key" json:"key" yaml:"key"`
	Name    string        `cbor:"name" json:"name" yaml:"name"`
	Path    string        `cbor:"path,omitempty" json:"path,omitempty" yaml:"path,omitempty"`
	Main    int32         `cbor:"main" json:"main" yaml:"main"`
	Imports []int32       `cbor:"imports,omitempty" json:"imports,omitempty" yaml:"imports,omitempty"`
	Members []memberState `cbor:"members,omitempty" json:"members,omitempty" yaml:"members,omitempty"`
	Lookup  []lookupState `cbor:"lookup,omitempty" json:"lookup,omitempty" yaml:"lookup,omitempty"`
}

func stateFromValue(v Value) valueState {
	return valueState{
		Kind:  uint8(v.kind),
		Bool:  v.b,
		Int:   v.i,
		Float: v.f,
		Imag:  v.imag,
		Str:   v.s,
		Func:  int32(v.fn),
	}
}

func valueFromState(s valueState) (Value, error) {
	kind := ValueKind(s.Kind)
	if kind > ValNative {
		return Value{}, fmt.Errorf("unknown value kind %d", s.Kind)
	}
	fn := FunctionKey(s.Func)
	if kind != ValFunction {
		fn = NoFunction
	}
	return Value{kind: kind, b: s.Bool, i: s.Int, f: s.Float, imag: s.Imag, s: s.Str, fn: fn}, nil
}

func stateFromProgram(p *Program) *programState {
	state := &programState{
		Version:   ImageVersion,
		ID:        p.id,
		Entry:     int32(p.entry),
		Functions: make([]*functionState, len(p.functions)),
		Packages:  make([]*packageState, len(p.packages)),
	}
	for i, fn := range p.functions {
		state.Functions[i] = stateFromFunction(fn)
	}
	for i, pkg := range p.packages {
		state.Packages[i] = stateFromPackage(pkg)
	}
	return state
}

func stateFromFunction(fn *Function) *functionState {
	code := make([]cellState, len(fn.code))
	for i, c := range fn.code {
		if c.isData {
			code[i] = cellState{IsData: true, Value: int32(c.data)}
		} else {
			code[i] = cellState{Value: int32(c.code)}
		}
	}
	var locations []locationState
	if len(fn.locations) > 0 {
		locations = make([]locationState, len(fn.locations))
		for i, loc := range fn.locations {
			locations[i] = locationState{Line: loc.Line, Column: loc.Column}
		}
	}
	var consts []valueState
	if len(fn.consts) > 0 {
		consts = make([]valueState, len(fn.consts))
		for i, v := range fn.consts {
			consts[i] = stateFromValue(v)
		}
	}
	var upvalues []upvalueState
	if len(fn.upvalues) > 0 {
		upvalues = make([]upvalueState, len(fn.upvalues))
		for i, uv := range fn.upvalues {
			upvalues[i] = upvalueState{Func: int32(uv.Func), Index: uv.Index, Nested: uv.Nested}
		}
	}
	var entities []entityState
	for _, key := range fn.EntityKeys() {
		e := fn.entities[key]
		entities = append(entities, entityState{Key: int32(key), Kind: uint8(e.kind), Index: e.index})
	}
	return &functionState{
		Key:        int32(fn.key),
		Package:    int32(fn.pkg),
		Name:       fn.name,
		Flag:       uint8(fn.flag),
		Filename:   fn.filename,
		Line:       fn.pos.Line,
		Column:     fn.pos.Column,
		Code:       code,
		Locations:  locations,
		Constants:  consts,
		UpValues:   upvalues,
		ParamCount: fn.paramCount,
		RetCount:   fn.retCount,
		Variadic:   fn.variadic,
		LocalAlloc: fn.localAlloc,
		Entities:   entities,
	}
}

func stateFromPackage(pkg *Package) *packageState {
	var imports []int32
	for _, k := range pkg.imports {
		imports = append(imports, int32(k))
	}
	var members []memberState
	for i, v := range pkg.members {
		members = append(members, memberState{Name: pkg.MemberName(i), Value: stateFromValue(v)})
	}
	keys := make([]ast.EntityKey, 0, len(pkg.lookup))
	for k := range pkg.lookup {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var lookup []lookupState
	for _, k := range keys {
		lookup = append(lookup, lookupState{Key: int32(k), Index: pkg.lookup[k]})
	}
	return &packageState{
		Key:     int32(pkg.key),
		Name:    pkg.name,
		Path:    pkg.path,
		Main:    int32(pkg.main),
		Imports: imports,
		Members: members,
		Lookup:  lookup,
	}
}

func programFromState(state *programState) (*Program, error) {
	if state.Version != ImageVersion {
		return nil, fmt.Errorf("unsupported image version %d (want %d)", state.Version, ImageVersion)
	}
	functions := make([]*Function, len(state.Functions))
	for i, def := range state.Functions {
		if def == nil {
			return nil, fmt.Errorf("function %d: missing definition", i)
		}
		fn, err := functionFromState(def)
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		functions[i] = fn
	}
	packages := make([]*Package, len(state.Packages))
	for i, def := range state.Packages {
		if def == nil {
			return nil, fmt.Errorf("package %d: missing definition", i)
		}
		pkg, err := packageFromState(def)
		if err != nil {
			return nil, fmt.Errorf("package %d: %w", i, err)
		}
		packages[i] = pkg
	}
	return NewProgram(ProgramParams{
		ID:        state.ID,
		Functions: functions,
		Packages:  packages,
		Entry:     FunctionKey(state.Entry),
	}), nil
}

func functionFromState(def *functionState) (*Function, error) {
	code := make([]CodeData, len(def.Code))
	for i, c := range def.Code {
		if c.IsData {
			code[i] = Data(op.Index(c.Value))
		} else {
			code[i] = Code(op.Code(c.Value))
		}
	}
	locations := make([]SourceLocation, len(def.Locations))
	for i, loc := range def.Locations {
		locations[i] = SourceLocation{Line: loc.Line, Column: loc.Column}
	}
	consts := make([]Value, len(def.Constants))
	for i, c := range def.Constants {
		v, err := valueFromState(c)
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		consts[i] = v
	}
	upvalues := make([]UpValue, len(def.UpValues))
	for i, uv := range def.UpValues {
		upvalues[i] = UpValue{Func: FunctionKey(uv.Func), Index: uv.Index, Nested: uv.Nested}
	}
	entities := make(map[ast.EntityKey]EntIndex, len(def.Entities))
	for _, e := range def.Entities {
		kind := EntKind(e.Kind)
		if kind < EntConst || kind > EntBlank {
			return nil, fmt.Errorf("entity %d: unknown kind %d", e.Key, e.Kind)
		}
		entities[ast.EntityKey(e.Key)] = EntIndex{kind: kind, index: e.Index}
	}
	return NewFunction(FunctionParams{
		Key:        FunctionKey(def.Key),
		Package:    PackageKey(def.Package),
		Name:       def.Name,
		Flag:       FuncFlag(def.Flag),
		Filename:   def.Filename,
		Position:   SourceLocation{Line: def.Line, Column: def.Column},
		Code:       code,
		Locations:  locations,
		Constants:  consts,
		UpValues:   upvalues,
		ParamCount: def.ParamCount,
		RetCount:   def.RetCount,
		Variadic:   def.Variadic,
		LocalAlloc: def.LocalAlloc,
		Entities:   entities,
	}), nil
}

func packageFromState(def *packageState) (*Package, error) {
	imports := make([]PackageKey, len(def.Imports))
	for i, k := range def.Imports {
		imports[i] = PackageKey(k)
	}
	members := make([]Value, len(def.Members))
	names := make([]string, len(def.Members))
	for i, m := range def.Members {
		v, err := valueFromState(m.Value)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Name, err)
		}
		members[i] = v
		names[i] = m.Name
	}
	lookup := make(map[ast.EntityKey]op.Index, len(def.Lookup))
	for _, l := range def.Lookup {
		lookup[ast.EntityKey(l.Key)] = l.Index
	}
	return NewPackage(PackageParams{
		Key:         PackageKey(def.Key),
		Name:        def.Name,
		Path:        def.Path,
		Main:        FunctionKey(def.Main),
		Imports:     imports,
		Members:     members,
		MemberNames: names,
		Lookup:      lookup,
	}), nil
}
