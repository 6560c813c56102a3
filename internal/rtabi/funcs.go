package rtabi

// Runtime function names (must match runtime/swarm_rt.h).
const (
	FnInit     = "rt_init"
	FnShutdown = "rt_shutdown"

	FnPanicString = "rt_panic_string"

	FnPrintI64    = "rt_print_i64"
	FnPrintF64    = "rt_print_f64"
	FnPrintBool   = "rt_print_bool"
	FnPrintString = "rt_print_string"
	FnPrintln     = "rt_println"

	FnStringConcat  = "rt_string_concat"
	FnStringCompare = "rt_string_compare"

	// Task interface. rt_task_detach(ts, has_ts, domain) requests that the
	// code up to the matching rt_task_reattach run as an ordered task.
	FnTaskDetach   = "rt_task_detach"
	FnTaskReattach = "rt_task_reattach"
	FnTaskSync     = "rt_task_sync"
)

// LLVM intrinsics.
const (
	LLVMLifetimeEnd = "llvm.lifetime.end.p0"
)

// Symbols of user code. Every package-level name is emitted as
// SymbolPrefix + name; the initializer name cannot be spelled in source.
const (
	SymbolPrefix = "swarm."
	UserMain     = SymbolPrefix + "main"
	PackageInit  = SymbolPrefix + ".init"
)

// Domain values passed to rt_task_detach. They match syntax.DomainKind.
const (
	DomainSame  = 0
	DomainSub   = 1
	DomainSuper = 2
)

// FuncSignature describes a runtime function's signature for code generation.
type FuncSignature struct {
	Name       string
	ReturnType string
	ParamTypes []string
	NoReturn   bool
}

// RuntimeFunctions returns the signatures of all runtime functions.
func RuntimeFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: FnInit, ReturnType: "void"},
		{Name: FnShutdown, ReturnType: "void"},

		{Name: FnPanicString, ReturnType: "void", ParamTypes: []string{LLVMTypeString}, NoReturn: true},

		{Name: FnPrintI64, ReturnType: "void", ParamTypes: []string{LLVMTypeInt}},
		{Name: FnPrintF64, ReturnType: "void", ParamTypes: []string{LLVMTypeFloat}},
		{Name: FnPrintBool, ReturnType: "void", ParamTypes: []string{LLVMTypeBool}},
		{Name: FnPrintString, ReturnType: "void", ParamTypes: []string{LLVMTypeString}},
		{Name: FnPrintln, ReturnType: "void"},

		{Name: FnStringConcat, ReturnType: LLVMTypeString, ParamTypes: []string{LLVMTypeString, LLVMTypeString}},
		{Name: FnStringCompare, ReturnType: LLVMTypeInt, ParamTypes: []string{LLVMTypeString, LLVMTypeString}},

		{Name: FnTaskDetach, ReturnType: "void", ParamTypes: []string{LLVMTypeInt, LLVMTypeBoolI1, LLVMTypeDomain}},
		{Name: FnTaskReattach, ReturnType: "void"},
		{Name: FnTaskSync, ReturnType: "void"},
	}
}

// Intrinsics returns the declarations of the LLVM intrinsics the compiler uses.
func Intrinsics() []FuncSignature {
	return []FuncSignature{
		{Name: LLVMLifetimeEnd, ReturnType: "void", ParamTypes: []string{"i64", LLVMTypePtr}},
	}
}

// Lookup returns the runtime signature named name.
func Lookup(name string) (FuncSignature, bool) {
	for _, fs := range append(RuntimeFunctions(), Intrinsics()...) {
		if fs.Name == name {
			return fs, true
		}
	}
	return FuncSignature{}, false
}
