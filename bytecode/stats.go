package bytecode

// Stats contains statistics about a compiled program.
// This is useful for auditing an image before loading it.
type Stats struct {
	// FunctionCount is the number of functions, including closures.
	FunctionCount int

	// PackageCount is the number of packages.
	PackageCount int

	// CellCount is the total number of instruction cells, opcodes and
	// data cells together.
	CellCount int

	// InstructionCount is the number of opcode cells.
	InstructionCount int

	// ConstantCount is the number of constant pool entries.
	ConstantCount int

	// UpValueCount is the number of captured-variable descriptors.
	UpValueCount int

	// MemberCount is the number of package members.
	MemberCount int
}
