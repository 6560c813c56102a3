// Package rtabi holds the ABI shared by the swarm compiler and its task
// runtime. The values must match runtime/swarm_rt.h.
package rtabi

// Default target. Both can be replaced through the codegen configuration.
const (
	TargetTriple = "x86_64-unknown-linux-gnu"
	DataLayout   = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128"
)

// Basic type sizes in bytes.
const (
	SizeInt    = 8  // int64_t
	SizeFloat  = 8  // double
	SizeBool   = 1  // int8_t (stored), i1 (SSA)
	SizePtr    = 8  // pointer
	SizeString = 16 // { ptr, len }
)

// Basic type alignments in bytes.
const (
	AlignInt    = 8
	AlignFloat  = 8
	AlignBool   = 1
	AlignPtr    = 8
	AlignString = 8
)

// Enum values are stored as int.
const (
	SizeEnum  = SizeInt
	AlignEnum = AlignInt
)

// LLVM type names for code generation.
const (
	LLVMTypeInt    = "i64"
	LLVMTypeFloat  = "double"
	LLVMTypeBool   = "i8" // in memory
	LLVMTypeBoolI1 = "i1" // in SSA
	LLVMTypePtr    = "ptr"
	LLVMTypeString = "{ ptr, i64 }"
	LLVMTypeDomain = "i32"
)
