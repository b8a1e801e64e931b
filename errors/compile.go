package errors

import (
	"fmt"
	"strings"
)

// CompileError represents a compilation error with rich context.
type CompileError struct {
	Kind        Kind
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int
	Column      int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// Newf returns a CompileError of the given kind and code.
func Newf(kind Kind, code ErrorCode, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Unsupportedf reports a construct the compiler has no lowering for.
func Unsupportedf(format string, args ...any) *CompileError {
	return Newf(Unsupported, E2101, format, args...)
}

// Internalf reports a broken invariant.
func Internalf(code ErrorCode, format string, args ...any) *CompileError {
	return Newf(Internal, code, format, args...)
}

// Limitf reports an exceeded table limit.
func Limitf(code ErrorCode, format string, args ...any) *CompileError {
	return Newf(Limit, code, format, args...)
}

// At returns a copy of the error located at the given position. A zero line
// leaves the location unset.
func (e *CompileError) At(filename string, line, column int) *CompileError {
	c := *e
	if line > 0 {
		c.Filename = filename
		c.Line = line
		c.Column = column
	}
	return &c
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:     e.Code,
		Kind:     "error",
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Note:     e.Note,
	}
	if e.Kind == Internal {
		fe.Kind = "internal error"
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}
