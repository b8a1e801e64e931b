package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(PushConst)
	assert.Equal(t, "PUSH_CONST", info.Name)
	assert.Equal(t, 1, info.Arity)
	assert.Equal(t, PushConst, info.Code)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code  Code
		name  string
		arity int
	}{
		{PushConst, "PUSH_CONST", 1},
		{PushNil, "PUSH_NIL", 0},
		{PushImm, "PUSH_IMM", 1},
		{Pop, "POP", 0},
		{LoadLocal0, "LOAD_LOCAL0", 0},
		{LoadLocal15, "LOAD_LOCAL15", 0},
		{LoadLocal, "LOAD_LOCAL", 1},
		{StoreLocal, "STORE_LOCAL", 1},
		{LoadUpvalue, "LOAD_UPVALUE", 1},
		{StoreUpvalue, "STORE_UPVALUE", 1},
		{LoadThisPkgField, "LOAD_THIS_PKG_FIELD", 1},
		{StoreThisPkgField, "STORE_THIS_PKG_FIELD", 1},
		{Add, "ADD", 0},
		{AndNot, "AND_NOT", 0},
		{Not, "NOT", 0},
		{Geq, "GEQ", 0},
		{PreCall, "PRE_CALL", 0},
		{Call, "CALL", 0},
		{Return, "RETURN", 0},
		{NewClosure, "NEW_CLOSURE", 0},
		{Jump, "JUMP", 1},
		{Import, "IMPORT", 1},
		{Assert, "ASSERT", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.name, info.Name)
			assert.Equal(t, tt.arity, info.Arity)
		})
	}
}

func TestGetInfoUnknown(t *testing.T) {
	assert.Equal(t, "", GetInfo(Code(999)).Name)
	assert.Equal(t, "", GetInfo(Code(105)).Name)
	assert.False(t, Known(Invalid))
	assert.Equal(t, "INVALID", Code(60000).String())
}

func TestArityIsZeroOrOne(t *testing.T) {
	for c := Code(0); c <= maxCode; c++ {
		info := GetInfo(c)
		if info.Name == "" {
			continue
		}
		require.Contains(t, []int{0, 1}, info.Arity, info.Name)
	}
}

func TestLoadLocalFor(t *testing.T) {
	for i := Index(0); i <= MaxInlineLocalIndex; i++ {
		code := LoadLocalFor(i)
		require.Equal(t, 0, GetInfo(code).Arity)
		slot, ok := code.InlineLocal()
		require.True(t, ok)
		require.Equal(t, i, slot)
	}
	assert.Equal(t, LoadLocal3, LoadLocalFor(3))
	assert.Equal(t, LoadLocal, LoadLocalFor(16))
	assert.Equal(t, LoadLocal, LoadLocalFor(20))
	assert.Equal(t, LoadLocal, LoadLocalFor(-1))

	_, ok := LoadLocal.InlineLocal()
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "LOAD_LOCAL7", LoadLocal7.String())
	assert.Equal(t, "STORE_LOCAL", StoreLocal.String())
}
