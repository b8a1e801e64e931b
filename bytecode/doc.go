// Package bytecode provides the immutable records produced by the gosc
// compiler and consumed by the loader and execution engine.
//
// # Key Types
//
//   - [Program]: every sealed function and package of one compilation
//   - [Function]: a sealed function: instruction cells, constant pool,
//     captured-variable descriptors, slot counts and entity table
//   - [Package]: a sealed compilation unit: members, imports, entry point
//   - [CodeData]: one cell of an instruction stream (opcode or data)
//   - [EntIndex]: the storage class an identifier resolved to
//   - [UpValue]: an open captured-variable descriptor
//   - [Value]: a constant pool entry or package member
//
// # Immutability Guarantees
//
// All record types are immutable after construction. Fields are unexported,
// constructors copy their input slices and maps, and collections are read
// through index-based accessors:
//
//	fn.CodeAt(0)
//	fn.ConstantAt(i)
//	pkg.MemberAt(j)
//
// A Program may therefore be shared by any number of goroutines and engine
// instances.
//
// # Functions and packages by key
//
// Functions and packages reference each other through FunctionKey and
// PackageKey, which index the program's arenas. Function-valued constants,
// package members and captured-variable descriptors all use keys rather than
// pointers, which keeps records acyclic and serializable (see Marshal).
package bytecode
