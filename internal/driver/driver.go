// Package driver runs the compiler pipeline on one translation unit:
// parse, check, SSA construction, the pass pipeline and LLVM IR emission.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/you-not-fish/swarm/internal/codegen"
	"github.com/you-not-fish/swarm/internal/config"
	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/ssa"
	"github.com/you-not-fish/swarm/internal/ssa/passes"
	"github.com/you-not-fish/swarm/internal/syntax"
	"github.com/you-not-fish/swarm/internal/types"
	"github.com/you-not-fish/swarm/internal/types2"
)

// Stage names a point in the pipeline. A unit run up to a stage has the
// results of that stage and every stage before it.
type Stage int

const (
	StageParse Stage = iota
	StageCheck
	StageSSA
	StageLL
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageCheck:
		return "check"
	case StageSSA:
		return "ssa"
	case StageLL:
		return "ll"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Unit holds the results of compiling one file.
type Unit struct {
	Filename string
	Diags    diag.List

	File *syntax.File
	Info *types2.Info
	Pkg  *types.Package
	Prog *ssa.Program
	IR   []byte
}

// Driver compiles translation units with a fixed configuration.
type Driver struct {
	cfg     *config.Config
	log     *slog.Logger
	buildID string
	passes  []passes.Pass
}

// New returns a Driver for cfg. A nil logger discards log output.
func New(cfg *config.Config, logger *slog.Logger) (*Driver, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pipeline, err := passes.Lookup(cfg.SSA.Passes)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate build id: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{
		cfg:     cfg,
		log:     logger.With("build", id.String()),
		buildID: id.String(),
		passes:  pipeline,
	}, nil
}

// BuildID identifies this driver's invocation in logs and in the IR header.
func (d *Driver) BuildID() string { return d.buildID }

// Run compiles src up to and including stage. The unit is returned even on
// failure so the caller can report its diagnostics. The returned error is
// the first error diagnostic, or a *diag.InternalError.
func (d *Driver) Run(filename string, src io.Reader, stage Stage) (u *Unit, err error) {
	u = &Unit{Filename: filename}
	defer diag.Recover(&err)
	defer u.Diags.Sort()

	if err := d.parse(u, src); err != nil || stage == StageParse {
		return u, err
	}
	if err := d.check(u); err != nil || stage == StageCheck {
		return u, err
	}
	if err := d.build(u); err != nil || stage == StageSSA {
		return u, err
	}
	return u, d.generate(u)
}

func (d *Driver) parse(u *Unit, src io.Reader) error {
	start := time.Now()
	p := syntax.NewParser(u.Filename, src, u.Diags.Handler())
	p.SetASIEnabled(d.cfg.ASI)
	p.SetMaxErrors(d.cfg.MaxErrors)
	u.File = p.Parse()
	d.log.Debug("stage done", "stage", StageParse.String(), "file", u.Filename,
		"decls", len(u.File.Decls), "elapsed", time.Since(start))
	return d.failed(u)
}

func (d *Driver) check(u *Unit) error {
	start := time.Now()
	u.Info = types2.NewInfo()
	conf := &types2.Config{
		Error:              u.Diags.Handler(),
		IgnoreUnusedResult: !d.cfg.UnusedResult,
	}
	pkg, err := types2.Check(u.File, conf, u.Info)
	u.Pkg = pkg
	if ice := internal(err); ice != nil {
		return ice
	}
	if d.cfg.CautionsAsErrors {
		u.Diags.PromoteCautions()
	}
	d.log.Debug("stage done", "stage", StageCheck.String(), "file", u.Filename,
		"spawns", len(u.Info.Spawns), "protected", len(u.Info.Protected), "elapsed", time.Since(start))
	return d.failed(u)
}

func (d *Driver) build(u *Unit) error {
	start := time.Now()
	prog, err := ssa.BuildFile(u.File, u.Info, types.DefaultSizes)
	if err != nil {
		return err
	}
	u.Prog = prog

	cfg := d.cfg.PassConfig()
	cfg.Logger = d.log
	if err := passes.RunProgram(prog, d.passes, cfg); err != nil {
		return diag.Internalf(syntax.Pos{}, "ssa: %v", err)
	}
	d.log.Debug("stage done", "stage", StageSSA.String(), "file", u.Filename,
		"funcs", len(prog.Funcs), "spawns", len(u.Info.Spawns), "elapsed", time.Since(start))
	return nil
}

func (d *Driver) generate(u *Unit) error {
	start := time.Now()
	var buf bytes.Buffer
	err := codegen.Generate(&buf, u.Prog, codegen.Config{
		TargetTriple: d.cfg.Codegen.TargetTriple,
		DataLayout:   d.cfg.Codegen.DataLayout,
		SourceFile:   u.Filename,
		BuildID:      d.buildID,
	})
	if err != nil {
		return diag.Internalf(syntax.Pos{}, "%v", err)
	}
	u.IR = buf.Bytes()
	d.log.Debug("stage done", "stage", StageLL.String(), "file", u.Filename,
		"bytes", len(u.IR), "elapsed", time.Since(start))
	return nil
}

// failed returns the first error collected so far, as a diagnostic.
func (d *Driver) failed(u *Unit) error {
	errs := u.Diags.Errors()
	if len(errs) == 0 {
		return nil
	}
	d.log.Debug("diagnostics", "file", u.Filename, "errors", len(errs), "cautions", len(u.Diags.Cautions()))
	for _, e := range errs {
		if e.Severity == diag.Internal {
			return &diag.InternalError{Pos: e.Pos, Msg: e.Msg}
		}
	}
	return errs[0]
}

// internal returns err if it is an internal error, and nil otherwise.
func internal(err error) error {
	var ice *diag.InternalError
	if errors.As(err, &ice) {
		return ice
	}
	return nil
}

// IsInternal reports whether err is an internal compiler error.
func IsInternal(err error) bool {
	return internal(err) != nil
}
