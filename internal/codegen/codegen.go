// Package codegen emits LLVM IR text for an SSA program.
//
// A detach block calls rt_task_detach with the promoted timestamp, a flag
// telling whether one was given, and the domain, then falls into the task
// body. The matching reattach block calls rt_task_reattach and continues
// after the spawn. The runtime decides how the region delimited by the
// two calls is scheduled.
package codegen

import (
	"bytes"
	"fmt"
	"go/constant"
	"io"
	"strings"

	"github.com/you-not-fish/swarm/internal/rtabi"
	"github.com/you-not-fish/swarm/internal/ssa"
	"github.com/you-not-fish/swarm/internal/types"
)

// Config controls the module header and type layout.
type Config struct {
	Sizes        *types.Sizes // types.DefaultSizes if nil
	TargetTriple string       // rtabi.TargetTriple if empty
	DataLayout   string       // rtabi.DataLayout if empty
	SourceFile   string       // recorded as source_filename when set
	BuildID      string       // recorded in the header comment when set
}

// generator holds the module-wide state while lowering functions.
type generator struct {
	e     *emitter
	sizes *types.Sizes
	init  *ssa.Func
	err   error // first lowering error

	strings   []string
	stringMap map[string]int
}

// Generate writes the LLVM IR module for prog to w.
//
// Function bodies and global initializers are lowered first so that the
// string table is complete when the module header is written.
func Generate(w io.Writer, prog *ssa.Program, cfg Config) error {
	if cfg.Sizes == nil {
		cfg.Sizes = types.DefaultSizes
	}
	if cfg.TargetTriple == "" {
		cfg.TargetTriple = rtabi.TargetTriple
	}
	if cfg.DataLayout == "" {
		cfg.DataLayout = rtabi.DataLayout
	}

	var body bytes.Buffer
	g := &generator{
		e:         &emitter{w: &body},
		sizes:     cfg.Sizes,
		stringMap: make(map[string]int),
		init:      prog.Init,
	}
	inits := make([]string, len(prog.Globals))
	for i, gl := range prog.Globals {
		inits[i] = g.globalInit(gl)
	}
	for _, fn := range prog.Funcs {
		g.e.tmp = 0
		g.lowerFunc(fn)
		g.e.emitLine()
	}
	if prog.Func("main") != nil {
		g.lowerEntryPoint(prog)
	}
	if g.err != nil {
		return g.err
	}
	if g.e.err != nil {
		return g.e.err
	}

	e := &emitter{w: w}
	if cfg.BuildID != "" {
		e.emitComment("swarm build " + cfg.BuildID)
	}
	if cfg.SourceFile != "" {
		e.emit("source_filename = \"%s\"", llvmEscapeString(cfg.SourceFile))
	}
	e.emit("target datalayout = \"%s\"", cfg.DataLayout)
	e.emit("target triple = \"%s\"", cfg.TargetTriple)
	e.emitLine()

	if len(g.strings) > 0 {
		for i, s := range g.strings {
			e.emit("@.str.%d = private unnamed_addr constant [%d x i8] c\"%s\", align 1", i, len(s), llvmEscapeString(s))
		}
		e.emitLine()
	}

	if len(prog.Globals) > 0 {
		for i, gl := range prog.Globals {
			e.emit("%s = internal global %s %s, align %d",
				globalName(gl.Name), llvmType(gl.Type), inits[i], cfg.Sizes.Alignof(gl.Type))
		}
		e.emitLine()
	}

	emitDecls(e)
	e.emitLine()

	if e.err != nil {
		return e.err
	}
	_, err := w.Write(body.Bytes())
	return err
}

// emitDecls declares the runtime functions and intrinsics.
func emitDecls(e *emitter) {
	for _, fs := range append(rtabi.RuntimeFunctions(), rtabi.Intrinsics()...) {
		attrs := ""
		if fs.NoReturn {
			attrs = " noreturn"
		}
		e.emit("declare %s @%s(%s)%s", fs.ReturnType, fs.Name, strings.Join(fs.ParamTypes, ", "), attrs)
	}
}

// lowerEntryPoint emits the C main: it starts the runtime, runs the
// package initializer and the user's main, waits for every outstanding
// task and shuts the runtime down.
func (g *generator) lowerEntryPoint(prog *ssa.Program) {
	g.e.emit("define i32 @main() {")
	g.e.emit("entry:")
	g.e.emitInst("call void @%s()", rtabi.FnInit)
	if prog.Init != nil {
		g.e.emitInst("call void @%s()", ident(rtabi.PackageInit))
	}
	g.e.emitInst("call void @%s()", ident(rtabi.UserMain))
	g.e.emitInst("call void @%s()", rtabi.FnTaskSync)
	g.e.emitInst("call void @%s()", rtabi.FnShutdown)
	g.e.emitInst("ret i32 0")
	g.e.emit("}")
}

// globalInit returns the LLVM initializer of a package variable.
func (g *generator) globalInit(gl *ssa.Global) string {
	if gl.Value == nil {
		return "zeroinitializer"
	}
	switch {
	case types.IsBooleanType(gl.Type):
		if constant.BoolVal(gl.Value) {
			return "true"
		}
		return "false"
	case types.IsStringType(gl.Type):
		s := constant.StringVal(gl.Value)
		if s == "" {
			return "zeroinitializer"
		}
		return fmt.Sprintf("{ ptr @.str.%d, i64 %d }", g.stringIndex(s), len(s))
	case types.IsFloatType(gl.Type):
		f, _ := constant.Float64Val(constant.ToFloat(gl.Value))
		return formatFloat(f)
	}
	n, _ := constant.Int64Val(constant.ToInt(gl.Value))
	return fmt.Sprint(n)
}

// funcSymbol returns the LLVM symbol of an SSA function.
func (g *generator) funcSymbol(fn *ssa.Func) string {
	if fn == g.init {
		return "@" + ident(rtabi.PackageInit)
	}
	return globalName(fn.Name)
}

// errorf records the first lowering error.
func (g *generator) errorf(format string, args ...interface{}) {
	if g.err == nil {
		g.err = fmt.Errorf("codegen: "+format, args...)
	}
}
