package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Front-end errors
//   - E2xxx: Compile errors
//   - E3xxx: Image and foreign-function errors
type ErrorCode string

const (
	// Front-end errors (E1xxx)
	E1001 ErrorCode = "E1001" // Syntax error
	E1002 ErrorCode = "E1002" // Type error
	E1003 ErrorCode = "E1003" // Package load error

	// Limits (E200x)
	E2007 ErrorCode = "E2007" // Too many local variables
	E2008 ErrorCode = "E2008" // Too many constants
	E2009 ErrorCode = "E2009" // Too many captured variables

	// Unsupported constructs (E21xx)
	E2101 ErrorCode = "E2101" // Unsupported construct

	// Internal consistency (E22xx)
	E2201 ErrorCode = "E2201" // Unresolved identity
	E2202 ErrorCode = "E2202" // Store to constant
	E2203 ErrorCode = "E2203" // Duplicate entry point
	E2204 ErrorCode = "E2204" // Index of blank
	E2205 ErrorCode = "E2205" // Builder stack underflow
	E2206 ErrorCode = "E2206" // Duplicate entity

	// Image and foreign functions (E3xxx)
	E3001 ErrorCode = "E3001" // Invalid image
	E3002 ErrorCode = "E3002" // Foreign function not found
	E3003 ErrorCode = "E3003" // Foreign function already registered
	E3004 ErrorCode = "E3004" // Native member not bound
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "syntax error",
	E1002: "type error",
	E1003: "package load error",

	E2007: "too many local variables",
	E2008: "too many constants",
	E2009: "too many captured variables",
	E2101: "unsupported construct",
	E2201: "unresolved identity",
	E2202: "store to constant",
	E2203: "duplicate entry point",
	E2204: "index of blank identifier",
	E2205: "builder stack underflow",
	E2206: "duplicate entity",

	E3001: "invalid image",
	E3002: "foreign function not found",
	E3003: "foreign function already registered",
	E3004: "native member not bound",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "frontend"
	case '2':
		return "compile"
	case '3':
		return "image"
	default:
		return "unknown"
	}
}
