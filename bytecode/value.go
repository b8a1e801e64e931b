package bytecode

import (
	"strconv"
)

// ValueKind describes the type of a constant or package member.
type ValueKind uint8

const (
	ValNil ValueKind = iota
	ValBool
	ValInt
	ValFloat
	ValComplex
	ValString
	ValFunction
	ValNative
)

func (k ValueKind) String() string {
	switch k {
	case ValNil:
		return "nil"
	case ValBool:
		return "bool"
	case ValInt:
		return "int"
	case ValFloat:
		return "float"
	case ValComplex:
		return "complex"
	case ValString:
		return "string"
	case ValFunction:
		return "function"
	case ValNative:
		return "native"
	default:
		return "invalid"
	}
}

// Value is a compile-time value: a literal in a constant pool, a function
// reference, or a package member bound to a native routine. Values are
// compared by content; the compiler never deduplicates them.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	imag float64
	s    string
	fn   FunctionKey
}

// Nil returns the nil value.
func Nil() Value { return Value{kind: ValNil, fn: NoFunction} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: ValBool, b: b, fn: NoFunction} }

// Int returns an integer value. Character literals are integers too.
func Int(i int64) Value { return Value{kind: ValInt, i: i, fn: NoFunction} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: ValFloat, f: f, fn: NoFunction} }

// Complex returns a complex value.
func Complex(c complex128) Value {
	return Value{kind: ValComplex, f: real(c), imag: imag(c), fn: NoFunction}
}

// String returns a string value.
func String(s string) Value { return Value{kind: ValString, s: s, fn: NoFunction} }

// FunctionValue returns a reference to a compiled function.
func FunctionValue(key FunctionKey) Value { return Value{kind: ValFunction, fn: key} }

// Native returns a package member implemented by the host. The name is the
// member's qualified name, which the loader uses to find the routine.
func Native(name string) Value { return Value{kind: ValNative, s: name, fn: NoFunction} }

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// BoolValue returns the value of a ValBool.
func (v Value) BoolValue() bool { return v.b }

// IntValue returns the value of a ValInt.
func (v Value) IntValue() int64 { return v.i }

// FloatValue returns the value of a ValFloat.
func (v Value) FloatValue() float64 { return v.f }

// ComplexValue returns the value of a ValComplex.
func (v Value) ComplexValue() complex128 { return complex(v.f, v.imag) }

// StringValue returns the value of a ValString.
func (v Value) StringValue() string { return v.s }

// FunctionKey returns the function referenced by a ValFunction, or
// NoFunction for any other kind.
func (v Value) FunctionKey() FunctionKey {
	if v.kind != ValFunction {
		return NoFunction
	}
	return v.fn
}

// NativeName returns the routine name of a ValNative.
func (v Value) NativeName() string {
	if v.kind != ValNative {
		return ""
	}
	return v.s
}

func (v Value) String() string {
	switch v.kind {
	case ValBool:
		return strconv.FormatBool(v.b)
	case ValInt:
		return strconv.FormatInt(v.i, 10)
	case ValFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValComplex:
		return strconv.FormatComplex(v.ComplexValue(), 'g', -1, 128)
	case ValString:
		return strconv.Quote(v.s)
	case ValFunction:
		return v.fn.String()
	case ValNative:
		return "native:" + v.s
	default:
		return "nil"
	}
}
