package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{}, "-"},
		{Position{Filename: "main.go"}, "main.go"},
		{Position{Line: 3, Column: 7}, "3:7"},
		{Position{Filename: "main.go", Line: 3, Column: 7}, "main.go:3:7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.pos.String())
	}
	assert.False(t, Position{Filename: "main.go"}.IsValid())
	assert.True(t, Position{Line: 1}.IsValid())
}

func TestNumFields(t *testing.T) {
	var nilList *FieldList
	assert.Equal(t, 0, nilList.NumFields())

	a := &Ident{Name: "a", Entity: 1}
	b := &Ident{Name: "b", Entity: 2}
	list := &FieldList{List: []*Field{
		{Names: []*Ident{a, b}, Type: &Ident{Name: "int"}},
		{Type: &Ident{Name: "string"}},
		{Names: []*Ident{{Name: BlankName}}, Type: &Ident{Name: "bool"}},
	}}
	assert.Equal(t, 4, list.NumFields())
}

func TestFieldPos(t *testing.T) {
	named := &Field{
		Names: []*Ident{{Name: "x", NamePos: Position{Line: 2, Column: 9}}},
		Type:  &Ident{Name: "int", NamePos: Position{Line: 2, Column: 11}},
	}
	assert.Equal(t, Position{Line: 2, Column: 9}, named.Pos())

	unnamed := &Field{Type: &Ident{Name: "int", NamePos: Position{Line: 4, Column: 3}}}
	assert.Equal(t, Position{Line: 4, Column: 3}, unnamed.Pos())
	assert.Equal(t, Position{}, (&Field{}).Pos())
}

func TestIdent(t *testing.T) {
	assert.True(t, (&Ident{Name: "_"}).IsBlank())
	assert.False(t, (&Ident{Name: "x", Entity: 4}).IsBlank())
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "int", LitInt.String())
	assert.Equal(t, "nil", LitNil.String())
	assert.Equal(t, "invalid", LitKind(0).String())
	assert.Equal(t, "channel type", ChanType.String())
	assert.Equal(t, "type", TypeKind(0).String())
}
