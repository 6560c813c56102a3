package codegen

import (
	"strings"

	"github.com/you-not-fish/swarm/internal/rtabi"
	"github.com/you-not-fish/swarm/internal/types"
)

// basicTypes maps basic kinds, typed and untyped, to LLVM types. A bool
// is i1 in registers and in memory.
var basicTypes = map[types.BasicKind]string{
	types.Int:           rtabi.LLVMTypeInt,
	types.UntypedInt:    rtabi.LLVMTypeInt,
	types.Float:         rtabi.LLVMTypeFloat,
	types.UntypedFloat:  rtabi.LLVMTypeFloat,
	types.Bool:          rtabi.LLVMTypeBoolI1,
	types.UntypedBool:   rtabi.LLVMTypeBoolI1,
	types.String:        rtabi.LLVMTypeString,
	types.UntypedString: rtabi.LLVMTypeString,
}

// llvmType returns the LLVM type of values of type t, or void.
func llvmType(t types.Type) string {
	if t != nil {
		switch u := t.Underlying().(type) {
		case *types.Basic:
			if s, ok := basicTypes[u.Kind()]; ok {
				return s
			}
		case *types.Enum:
			return rtabi.LLVMTypeInt
		case *types.Func:
			return rtabi.LLVMTypePtr
		}
	}
	return "void"
}

// llvmReturnType returns the LLVM result type of sig.
func llvmReturnType(sig *types.Func) string {
	if sig == nil {
		return "void"
	}
	return llvmType(sig.Result())
}

// llvmFuncType returns the LLVM function type of sig, as written in an
// indirect call.
func llvmFuncType(sig *types.Func) string {
	params := make([]string, sig.NumParams())
	for i := range params {
		params[i] = llvmType(sig.Param(i).Type())
	}
	return llvmReturnType(sig) + " (" + strings.Join(params, ", ") + ")"
}
