// Package errors defines the failures reported while turning Go source into
// a program image: front-end diagnostics, unsupported constructs, internal
// consistency faults and exceeded limits.
package errors

import (
	stderrors "errors"
)

// Kind classifies a CompileError.
type Kind uint8

const (
	// Unsupported means the input uses a construct the compiler has no
	// lowering for. The input itself may be valid Go.
	Unsupported Kind = iota + 1
	// Internal means the compiler or its input broke an invariant that a
	// validated tree always honors, such as an unresolved identity.
	Internal
	// Limit means a per-function table outgrew its index type.
	Limit
	// Frontend means the source failed to parse, type check or load.
	Frontend
	// Image means a program image is malformed or cannot be bound to its
	// host routines.
	Image
)

func (k Kind) String() string {
	switch k {
	case Unsupported:
		return "unsupported"
	case Internal:
		return "internal"
	case Limit:
		return "limit"
	case Frontend:
		return "frontend"
	case Image:
		return "image"
	default:
		return "unknown"
	}
}

// ErrPoisoned is returned by a compiler that is used again after it
// reported a failure.
var ErrPoisoned = stderrors.New("compiler cannot be reused after a failure or once its program is built")

// KindOf returns the kind of the first CompileError in err's chain, or zero
// if there is none.
func KindOf(err error) Kind {
	var ce *CompileError
	if stderrors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// IsUnsupported returns true if err reports an unsupported construct.
func IsUnsupported(err error) bool { return KindOf(err) == Unsupported }

// IsInternal returns true if err reports an internal consistency fault.
func IsInternal(err error) bool { return KindOf(err) == Internal }

// IsLimit returns true if err reports an exceeded table limit.
func IsLimit(err error) bool { return KindOf(err) == Limit }

// CodeOf returns the code of the first CompileError in err's chain.
func CodeOf(err error) ErrorCode {
	var ce *CompileError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// AsCompileError returns the first CompileError in err's chain.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
