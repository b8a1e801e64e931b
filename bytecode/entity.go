package bytecode

import (
	"errors"
	"fmt"

	"github.com/gosc-lang/gosc/op"
)

// ErrBlankIndex is returned when a numeric index is requested for the blank
// storage class, which has none.
var ErrBlankIndex = errors.New("the blank identifier has no index")

// EntKind is the storage class of a resolved identifier.
type EntKind uint8

const (
	// EntConst is an entry in the function's constant pool.
	EntConst EntKind = iota + 1
	// EntLocal is a local slot of the function's activation.
	EntLocal
	// EntCaptured is an entry in the function's captured-variable list.
	EntCaptured
	// EntPackageMember is a member of the package being compiled.
	EntPackageMember
	// EntBlank is the write-only discard target.
	EntBlank
)

func (k EntKind) String() string {
	switch k {
	case EntConst:
		return "const"
	case EntLocal:
		return "local"
	case EntCaptured:
		return "upvalue"
	case EntPackageMember:
		return "member"
	case EntBlank:
		return "blank"
	default:
		return "invalid"
	}
}

// EntIndex is a storage-class reference: a kind plus, for every kind except
// EntBlank, an index into the matching table.
type EntIndex struct {
	kind  EntKind
	index op.Index
}

// Const refers to constant pool entry i.
func Const(i op.Index) EntIndex { return EntIndex{kind: EntConst, index: i} }

// LocalVar refers to local slot i.
func LocalVar(i op.Index) EntIndex { return EntIndex{kind: EntLocal, index: i} }

// CapturedVar refers to captured-variable descriptor i.
func CapturedVar(i op.Index) EntIndex { return EntIndex{kind: EntCaptured, index: i} }

// PackageMember refers to member i of the current package.
func PackageMember(i op.Index) EntIndex { return EntIndex{kind: EntPackageMember, index: i} }

// Blank is the discard reference. It may be stored to but never loaded.
var Blank = EntIndex{kind: EntBlank}

// Kind returns the storage class.
func (e EntIndex) Kind() EntKind { return e.kind }

// IsBlank returns true for the discard reference.
func (e EntIndex) IsBlank() bool { return e.kind == EntBlank }

// Index returns the numeric index of the reference. It fails for Blank.
func (e EntIndex) Index() (op.Index, error) {
	if e.kind == EntBlank {
		return 0, ErrBlankIndex
	}
	return e.index, nil
}

func (e EntIndex) String() string {
	if e.kind == EntBlank {
		return "blank"
	}
	return fmt.Sprintf("%s(%d)", e.kind, e.index)
}

// UpValue is an open captured-variable descriptor. It names the enclosing
// function that supplies the variable and the index of the storage within
// that function's activation. When Nested is false, Index is a local slot of
// Func; when it is true, Index is one of Func's own captured variables, so
// the capture is threaded through an intermediate closure.
//
// Resolving the descriptor to live storage, and later closing it over when
// the enclosing activation returns, is the execution engine's job.
type UpValue struct {
	Func   FunctionKey
	Index  op.Index
	Nested bool
}

func (u UpValue) String() string {
	if u.Nested {
		return fmt.Sprintf("%s.upvalue(%d)", u.Func, u.Index)
	}
	return fmt.Sprintf("%s.local(%d)", u.Func, u.Index)
}
