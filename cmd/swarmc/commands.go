package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/swarm/internal/driver"
	"github.com/you-not-fish/swarm/internal/ssa"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
	"github.com/you-not-fish/swarm/internal/types2"
)

// ValidASTFormats lists the accepted values of ast --format.
var ValidASTFormats = []string{"text", "json", "src"}

func newTokensCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file.swarm>",
		Short: "Print the token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(opts, cmd, args[0])
		},
	}
}

// runTokens scans the file and prints every token with its position.
func runTokens(opts *RootOptions, cmd *cobra.Command, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	var errs []string
	s := syntax.NewScanner(filename, f, func(pos syntax.Pos, msg string) {
		errs = append(errs, fmt.Sprintf("%s: error: %s [syntax]", pos, msg))
	})
	s.SetASIEnabled(opts.cfg.ASI)

	fmt.Fprintf(out, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(out, "%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for {
		s.Next()
		tok := s.Token()
		fmt.Fprintf(out, "%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}

	for _, e := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
	if len(errs) > 0 {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

// formatLiteral quotes a literal for display, escaping control characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return `""`
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func newASTCommand(opts *RootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast <file.swarm>",
		Short: "Print the syntax tree",
		Long: `Print the syntax tree of a file.

The text format is an indented tree, json is a machine-readable dump and
src prints the file back as canonical source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !oneOf(format, ValidASTFormats) {
				return &ExitError{Code: ExitUsage, Err: fmt.Errorf("invalid format %q: must be one of %v", format, ValidASTFormats)}
			}
			u, err := opts.run(cmd, args[0], driver.StageParse)
			if u == nil || u.File == nil {
				return err
			}
			if perr := printAST(cmd.OutOrStdout(), u.File, format); perr != nil {
				return &ExitError{Code: ExitFailure, Err: perr}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json|src)")
	return cmd
}

func printAST(w io.Writer, file *syntax.File, format string) error {
	switch format {
	case "json":
		return syntax.FprintJSON(w, file)
	case "src":
		return syntax.Format(w, file)
	}
	syntax.Fprint(w, file)
	return nil
}

func newCheckCommand(opts *RootOptions) *cobra.Command {
	var spawns bool
	cmd := &cobra.Command{
		Use:   "check <file.swarm>",
		Short: "Parse and type-check a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.run(cmd, args[0], driver.StageCheck)
			if err == nil && spawns {
				printSpawns(cmd.OutOrStdout(), u.Info)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&spawns, "spawns", false, "print the accepted spawns, protected functions and captured variables")
	return cmd
}

// printSpawns writes what the checker recorded about spawns, in source
// order.
func printSpawns(w io.Writer, info *types2.Info) {
	stmts := make([]*syntax.SpawnStmt, 0, len(info.Spawns))
	for s := range info.Spawns {
		stmts = append(stmts, s)
	}
	sort.Slice(stmts, func(i, j int) bool { return stmts[i].Pos().Before(stmts[j].Pos()) })
	for _, s := range stmts {
		sp := info.Spawns[s]
		fmt.Fprintf(w, "%s: %s", s.Pos(), sp.Domain.Keyword())
		if sp.HasTimestamp() {
			fmt.Fprintf(w, " timestamp %s", sp.Timestamp)
			if !types.Identical(sp.Timestamp, sp.Promoted) {
				fmt.Fprintf(w, " promoted to %s", sp.Promoted)
			}
		}
		if sp.CondVar != nil {
			fmt.Fprintf(w, " condvar %s", sp.CondVar.Name())
		}
		fmt.Fprintln(w)
	}

	var protected []*syntax.FuncDecl
	for fn, ok := range info.Protected {
		if ok {
			protected = append(protected, fn)
		}
	}
	sort.Slice(protected, func(i, j int) bool { return protected[i].Pos().Before(protected[j].Pos()) })
	for _, fn := range protected {
		fmt.Fprintf(w, "%s: protected %s\n", fn.Pos(), fn.Name.Value)
	}

	var captured []*types.Var
	for v, ok := range info.Captured {
		if ok {
			captured = append(captured, v)
		}
	}
	sort.Slice(captured, func(i, j int) bool { return captured[i].Pos().Before(captured[j].Pos()) })
	for _, v := range captured {
		fmt.Fprintf(w, "%s: captured %s %s\n", v.Pos(), v.Name(), v.Type())
	}
}

func newSSACommand(opts *RootOptions) *cobra.Command {
	var fn string
	var pipeline []string
	cmd := &cobra.Command{
		Use:   "ssa <file.swarm>",
		Short: "Print the SSA form after the pass pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("passes") {
				opts.cfg.SSA.Passes = pipeline
			}
			u, err := opts.run(cmd, args[0], driver.StageSSA)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if fn == "" {
				ssa.FprintProgram(out, u.Prog)
				return nil
			}
			f := u.Prog.Func(fn)
			if f == nil {
				return &ExitError{Code: ExitUsage, Err: fmt.Errorf("no function %q", fn)}
			}
			ssa.Fprint(out, f)
			return nil
		},
	}
	cmd.Flags().StringVar(&fn, "func", "", "print only this function")
	cmd.Flags().StringSliceVar(&pipeline, "passes", nil, "comma-separated pass pipeline (default from config)")
	return cmd
}

func newLLCommand(opts *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "ll <file.swarm>",
		Short: "Compile a file to LLVM IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.run(cmd, args[0], driver.StageLL)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(u.IR)
				return err
			}
			if err := os.WriteFile(output, u.IR, 0o644); err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func oneOf(s string, valid []string) bool {
	for _, v := range valid {
		if v == s {
			return true
		}
	}
	return false
}
