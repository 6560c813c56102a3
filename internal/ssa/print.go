package ssa

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/you-not-fish/swarm/internal/types"
)

// Fprint writes the SSA representation of a function to w:
//
//	func name(params) result:
//	  b0: (entry)
//	    v1 = Arg <int> [0] {n}
//	    v2 = Const64 <int> [42]
//	    v3 = Add64 <int> v1 v2
//	    Return v3
//
// Functions containing a spawn are marked "(protected)". A detach block
// prints its timestamp and domain, a reattach the detach it closes.
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s%s", f.Name, signature(f.Sig))
	if f.Protected {
		io.WriteString(w, " (protected)")
	}
	io.WriteString(w, ":\n")
	for _, b := range f.Blocks {
		fmt.Fprintf(w, "  %s\n", blockHeader(f, b))
		for _, v := range b.Values {
			fmt.Fprintf(w, "    %s\n", v.LongString())
		}
		fmt.Fprintf(w, "    %s\n", terminatorString(b))
	}
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// FprintProgram writes the globals and every function of p to w,
// separated by blank lines.
func FprintProgram(w io.Writer, p *Program) {
	for _, g := range p.Globals {
		fmt.Fprintf(w, "var %s %s", g.Name, g.Type)
		if g.Value != nil {
			fmt.Fprintf(w, " = %s", g.Value.ExactString())
		}
		io.WriteString(w, "\n")
	}
	for i, f := range p.Funcs {
		if i > 0 || len(p.Globals) > 0 {
			io.WriteString(w, "\n")
		}
		Fprint(w, f)
	}
}

func signature(sig *types.Func) string {
	if sig == nil {
		return ""
	}
	params := make([]string, sig.NumParams())
	for i := range params {
		p := sig.Param(i)
		params[i] = p.Name() + " " + p.Type().String()
	}
	s := "(" + strings.Join(params, ", ") + ")"
	if r := sig.Result(); r != nil {
		s += " " + r.String()
	}
	return s
}

func blockHeader(f *Func, b *Block) string {
	s := b.String() + ":"
	if b == f.Entry {
		s += " (entry)"
	}
	if len(b.Preds) > 0 {
		s += " <- " + blockList(b.Preds)
	}
	return s
}

func blockList(bs []*Block) string {
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.String()
	}
	return strings.Join(names, " ")
}

// LongString returns the value as printed in a function dump. Void
// operations have no "vN =" prefix.
func (v *Value) LongString() string {
	var sb strings.Builder
	if !v.Op.IsVoid() {
		fmt.Fprintf(&sb, "%s = ", v)
	}
	sb.WriteString(v.Op.String())
	if v.Type != nil {
		fmt.Fprintf(&sb, " <%s>", v.Type)
	}
	switch v.Op {
	case OpConst64, OpConstBool, OpArg:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	default:
		if v.AuxInt != 0 {
			fmt.Fprintf(&sb, " [%d]", v.AuxInt)
		}
	}
	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", auxString(v))
	}
	for _, a := range v.Args {
		fmt.Fprintf(&sb, " %s", a)
	}
	return sb.String()
}

func auxString(v *Value) string {
	switch a := v.Aux.(type) {
	case string:
		if v.Op == OpConstString {
			return strconv.Quote(a)
		}
		return a
	case *types.FuncObj:
		return a.Name()
	case *Global:
		return "@" + a.Name
	case types.Type:
		return a.String()
	}
	return fmt.Sprint(v.Aux)
}

func terminatorString(b *Block) string {
	succs := blockList(b.Succs)
	switch b.Kind {
	case BlockPlain:
		if len(b.Succs) == 0 {
			return "Plain"
		}
		return "Plain -> " + succs
	case BlockIf:
		if len(b.Controls) == 0 || len(b.Succs) < 2 {
			return "If (malformed)"
		}
		return fmt.Sprintf("If %s -> %s", b.Controls[0], succs)
	case BlockReturn:
		if len(b.Controls) == 0 || b.Controls[0] == nil {
			return "Return"
		}
		return fmt.Sprintf("Return %s", b.Controls[0])
	case BlockExit:
		return "Exit"
	case BlockDetach:
		if len(b.Succs) < 2 {
			return "Detach (malformed)"
		}
		ts := "-"
		if b.HasTimestamp() {
			ts = b.Controls[0].String()
		}
		return fmt.Sprintf("Detach %s [%s] -> %s", ts, b.Domain(), succs)
	case BlockReattach:
		if len(b.Succs) == 0 || b.Detach == nil {
			return "Reattach (malformed)"
		}
		return fmt.Sprintf("Reattach %s -> %s", b.Detach, b.Succs[0])
	}
	return "???"
}
