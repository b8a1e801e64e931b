package bytecode

import "fmt"

// FunctionKey identifies a function within a Program.
type FunctionKey int32

// NoFunction is the zero reference, used for example by a package that has
// no entry point.
const NoFunction FunctionKey = -1

// IsValid returns true if the key refers to a function.
func (k FunctionKey) IsValid() bool { return k >= 0 }

func (k FunctionKey) String() string {
	if !k.IsValid() {
		return "func#none"
	}
	return fmt.Sprintf("func#%d", int32(k))
}

// PackageKey identifies a package within a Program.
type PackageKey int32

// NoPackage is the zero package reference.
const NoPackage PackageKey = -1

// IsValid returns true if the key refers to a package.
func (k PackageKey) IsValid() bool { return k >= 0 }

func (k PackageKey) String() string {
	if !k.IsValid() {
		return "pkg#none"
	}
	return fmt.Sprintf("pkg#%d", int32(k))
}
