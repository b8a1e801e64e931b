package bytecode

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosc-lang/gosc/op"
)

func singleFunctionProgram(params FunctionParams) *Program {
	params.Key = 0
	params.Package = 0
	return NewProgram(ProgramParams{
		Functions: []*Function{NewFunction(params)},
		Packages:  []*Package{NewPackage(PackageParams{Name: "main", Main: NoFunction})},
		Entry:     NoFunction,
	})
}

func TestVerifySample(t *testing.T) {
	require.NoError(t, Verify(sampleProgram(t)))
}

func TestVerifyViolations(t *testing.T) {
	tests := []struct {
		name   string
		params FunctionParams
		want   string
	}{
		{
			name:   "missing return",
			params: FunctionParams{Code: []CodeData{Code(op.PushNil), Code(op.Pop)}},
			want:   "does not end with RETURN",
		},
		{
			name:   "missing data cell",
			params: FunctionParams{Code: []CodeData{Code(op.PushConst), Code(op.Return)}, Constants: []Value{Int(1)}},
			want:   "PUSH_CONST is missing its data cell",
		},
		{
			name:   "stray data cell",
			params: FunctionParams{Code: []CodeData{Data(1), Code(op.Return)}},
			want:   "data cell 1 does not follow an opcode",
		},
		{
			name:   "unknown opcode",
			params: FunctionParams{Code: []CodeData{Code(op.Code(999)), Code(op.Return)}},
			want:   "unknown opcode 999",
		},
		{
			name:   "constant out of range",
			params: FunctionParams{Code: []CodeData{Code(op.PushConst), Data(3), Code(op.Return)}},
			want:   "PUSH_CONST 3: index out of range (size 0)",
		},
		{
			name:   "local out of range",
			params: FunctionParams{Code: []CodeData{Code(op.LoadLocal2), Code(op.Return)}, LocalAlloc: 1},
			want:   "LOAD_LOCAL2: slot out of range",
		},
		{
			name:   "unknown function constant",
			params: FunctionParams{Code: []CodeData{Code(op.Return)}, Constants: []Value{FunctionValue(7)}},
			want:   "constant 0 refers to unknown func#7",
		},
		{
			name:   "upvalue slot missing",
			params: FunctionParams{Code: []CodeData{Code(op.Return)}, UpValues: []UpValue{{Func: 0, Index: 4}}},
			want:   "upvalue 0 refers to missing slot 4 of func#0",
		},
		{
			name:   "member out of range",
			params: FunctionParams{Code: []CodeData{Code(op.LoadThisPkgField), Data(0), Code(op.Return)}},
			want:   "LOAD_THIS_PKG_FIELD 0: index out of range (size 0)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(singleFunctionProgram(tt.params))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVerifyAggregatesErrors(t *testing.T) {
	p := singleFunctionProgram(FunctionParams{
		Code: []CodeData{Data(0), Code(op.PushConst), Data(2)},
	})
	err := Verify(p)
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
}

func TestVerifyPackageReferences(t *testing.T) {
	fn := NewFunction(FunctionParams{Key: 0, Package: 0, Code: []CodeData{Code(op.Return)}})
	pkg := NewPackage(PackageParams{
		Key:     0,
		Name:    "main",
		Main:    3,
		Imports: []PackageKey{5},
	})
	err := Verify(NewProgram(ProgramParams{
		Functions: []*Function{fn},
		Packages:  []*Package{pkg},
		Entry:     9,
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry function func#3 does not exist")
	assert.Contains(t, err.Error(), "import 0 refers to unknown pkg#5")
	assert.Contains(t, err.Error(), "entry function func#9 does not exist")
}
