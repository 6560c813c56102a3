package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/swarm/internal/rtabi"
	"github.com/you-not-fish/swarm/internal/ssa"
)

// emitter writes LLVM IR text line by line and keeps the first write
// error, after which it writes nothing.
type emitter struct {
	w   io.Writer
	err error
	tmp int // next anonymous temporary, %tN
}

func (e *emitter) write(indent, format string, args []interface{}) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, indent+format+"\n", args...)
	}
}

// emit writes a top-level line.
func (e *emitter) emit(format string, args ...interface{}) { e.write("", format, args) }

// emitInst writes an instruction inside a function body.
func (e *emitter) emitInst(format string, args ...interface{}) { e.write("  ", format, args) }

func (e *emitter) emitLine()              { e.write("", "", nil) }
func (e *emitter) emitComment(s string)   { e.emit("; %s", s) }
func (e *emitter) emitLabel(b *ssa.Block) { e.emit("%s:", blockName(b)) }

// nextTmp returns a fresh temporary name.
func (e *emitter) nextTmp() string {
	e.tmp++
	return fmt.Sprintf("%%t%d", e.tmp-1)
}

func valueName(v *ssa.Value) string { return fmt.Sprintf("%%v%d", v.ID) }

// blockName returns the label of b. The entry block is "entry".
func blockName(b *ssa.Block) string {
	if b.ID == 0 {
		return "entry"
	}
	return fmt.Sprintf("b%d", b.ID)
}

// globalName returns the symbol of a package-level name. User names are
// prefixed so that they cannot clash with the C entry point or the
// runtime.
func globalName(name string) string {
	return "@" + ident(rtabi.SymbolPrefix+name)
}

// paramName returns the name of parameter i. Named parameters get a
// "p." prefix; blank and unnamed ones are numbered.
func paramName(i int, name string) string {
	if name == "" || name == "_" {
		return fmt.Sprintf("%%arg%d", i)
	}
	return "%" + ident("p."+name)
}

const identChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-$._"

// ident returns name as an LLVM identifier, quoted if it has characters
// an unquoted identifier cannot hold.
func ident(name string) string {
	for i := 0; i < len(name); i++ {
		if strings.IndexByte(identChars, name[i]) < 0 {
			return `"` + llvmEscapeString(name) + `"`
		}
	}
	return name
}

// llvmEscapeString escapes s for a c"..." literal or a quoted name.
// Quotes, backslashes and bytes outside printable ASCII become \HH.
func llvmEscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&b, "\\%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
