package passes

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/you-not-fish/swarm/internal/ssa"
)

// Pass describes a single SSA optimization pass.
type Pass struct {
	Name string
	Fn   func(f *ssa.Func)
}

// registry lists the known passes in their default order.
var registry = []Pass{
	{Name: "mem2reg", Fn: Mem2Reg},
}

// Default returns the default pass pipeline.
func Default() []Pass {
	return append([]Pass(nil), registry...)
}

// Names returns the names of the known passes.
func Names() []string {
	names := make([]string, len(registry))
	for i, p := range registry {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the passes with the given names, in the given order.
func Lookup(names []string) ([]Pass, error) {
	out := make([]Pass, 0, len(names))
	for _, name := range names {
		p, ok := find(name)
		if !ok {
			return nil, fmt.Errorf("unknown SSA pass %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}

func find(name string) (Pass, bool) {
	for _, p := range registry {
		if p.Name == name {
			return p, true
		}
	}
	return Pass{}, false
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string // dump SSA before this pass ("*" for all)
	DumpAfter  string // dump SSA after this pass ("*" for all)
	Verify     bool   // verify SSA before/after each pass
	DumpFunc   string // restrict dumps to this function name

	Dump   io.Writer    // destination of dumps; os.Stderr if nil
	Logger *slog.Logger // optional
}

// Run executes the given passes on f in order.
func Run(f *ssa.Func, passes []Pass, cfg Config) error {
	dump := cfg.Dump
	if dump == nil {
		dump = os.Stderr
	}
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(dump, "--- before %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(dump, f)
			fmt.Fprintln(dump)
		}

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return fmt.Errorf("verify before %s: %w", p.Name, err)
			}
		}

		start := time.Now()
		p.Fn(f)
		if cfg.Logger != nil {
			cfg.Logger.Debug("ssa pass",
				slog.String("pass", p.Name),
				slog.String("func", f.Name),
				slog.Int("values", f.NumValues()),
				slog.Duration("elapsed", time.Since(start)))
		}

		if cfg.Verify {
			ssa.ComputeDom(f)
			if err := ssa.VerifyDom(f); err != nil {
				return fmt.Errorf("verify after %s: %w", p.Name, err)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(dump, "--- after %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(dump, f)
			fmt.Fprintln(dump)
		}
	}
	return nil
}

// RunProgram runs passes over every function of prog.
func RunProgram(prog *ssa.Program, passes []Pass, cfg Config) error {
	for _, f := range prog.Funcs {
		if err := Run(f, passes, cfg); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
