package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/swarm/internal/config"
	"github.com/you-not-fish/swarm/internal/diag"
)

const spawnProgram = `package main

func main() {
	x := 1
	spawn_sub (t := x; t) {
		println(t)
	}
	println(x)
}
`

func run(t *testing.T, cfg *config.Config, src string, stage Stage) (*Unit, error) {
	t.Helper()
	d, err := New(cfg, nil)
	require.NoError(t, err)
	return d.Run("test.swarm", strings.NewReader(src), stage)
}

func TestNew(t *testing.T) {
	d, err := New(nil, nil)
	require.NoError(t, err)
	id, err := uuid.Parse(d.BuildID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	cfg := config.Default()
	cfg.Log.Format = "yaml"
	_, err = New(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRunAllStages(t *testing.T) {
	u, err := run(t, nil, spawnProgram, StageLL)
	require.NoError(t, err)
	require.NotNil(t, u.File)
	require.NotNil(t, u.Info)
	require.NotNil(t, u.Prog)
	assert.Len(t, u.Info.Spawns, 1)
	assert.NotNil(t, u.Prog.Func("main"))

	ir := string(u.IR)
	assert.Contains(t, ir, `source_filename = "test.swarm"`)
	assert.Contains(t, ir, "call void @rt_task_detach(")
	assert.Contains(t, ir, "i32 1)", "spawn_sub passes the subdomain")
	assert.Contains(t, ir, "define i32 @main()")
}

func TestRunStopsAtStage(t *testing.T) {
	tests := []struct {
		stage             Stage
		info, prog, hasIR bool
	}{
		{StageParse, false, false, false},
		{StageCheck, true, false, false},
		{StageSSA, true, true, false},
		{StageLL, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			u, err := run(t, nil, spawnProgram, tt.stage)
			require.NoError(t, err)
			assert.NotNil(t, u.File)
			assert.Equal(t, tt.info, u.Info != nil)
			assert.Equal(t, tt.prog, u.Prog != nil)
			assert.Equal(t, tt.hasIR, u.IR != nil)
		})
	}
}

func TestRunSyntaxError(t *testing.T) {
	u, err := run(t, nil, "package main\nfunc main() {\n\tspawn_super println(1)\n}\n", StageLL)
	require.Error(t, err)
	assert.False(t, IsInternal(err))

	var d diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.DomainSpawnWithoutTimestamp, d.Code)
	assert.Nil(t, u.Info, "checking is skipped after a syntax error")
}

func TestRunTypeError(t *testing.T) {
	u, err := run(t, nil, `package main
func f() int {
	spawn (1) {
		return 2
	}
	return 0
}
`, StageLL)
	require.Error(t, err)
	assert.NotEmpty(t, u.Diags.WithCode(diag.ReturnInSpawn))
	assert.Nil(t, u.Prog)
}

func TestRunCautions(t *testing.T) {
	src := `package main
func main() {
	b := true
	spawn (b) println(1)
}
`
	u, err := run(t, nil, src, StageCheck)
	require.NoError(t, err)
	require.Len(t, u.Diags.Cautions(), 1)
	assert.Equal(t, diag.BoolTimestamp, u.Diags.Cautions()[0].Code)

	cfg := config.Default()
	cfg.CautionsAsErrors = true
	u, err = run(t, cfg, src, StageCheck)
	require.Error(t, err)
	assert.Empty(t, u.Diags.Cautions())
	assert.Len(t, u.Diags.Errors(), 1)
}

func TestRunDiagnosticsSorted(t *testing.T) {
	u, err := run(t, nil, `package main
func main() {
	var a int = "x"
	var b bool = 1
}
`, StageCheck)
	require.Error(t, err)
	all := u.Diags.All()
	require.GreaterOrEqual(t, len(all), 2)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Pos.Before(all[i-1].Pos))
	}
}

func TestRunMaxErrors(t *testing.T) {
	src := "package main\n" + strings.Repeat("func )\n", 20)
	cfg := config.Default()
	cfg.MaxErrors = 2
	u, err := run(t, cfg, src, StageParse)
	require.Error(t, err)
	assert.LessOrEqual(t, len(u.Diags.Errors()), 3, "two errors plus the abort notice")
}

func TestRunNoASI(t *testing.T) {
	cfg := config.Default()
	cfg.ASI = false
	_, err := run(t, cfg, "package main\nfunc main() {\n\tprintln(1)\n}\n", StageParse)
	require.Error(t, err)

	_, err = run(t, cfg, "package main; func main() { println(1); }", StageParse)
	require.NoError(t, err)
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.Log.Level = "debug"
	d, err := New(cfg, cfg.Log.NewLogger(&buf))
	require.NoError(t, err)

	_, err = d.Run("test.swarm", strings.NewReader(spawnProgram), StageLL)
	require.NoError(t, err)
	out := buf.String()
	for _, stage := range []string{"stage=parse", "stage=check", "stage=ssa", "stage=ll"} {
		assert.Contains(t, out, stage)
	}
	assert.Contains(t, out, "build="+d.BuildID())
	assert.Contains(t, out, "spawns=1")
	assert.Contains(t, out, `msg="ssa pass"`)
}

func TestRunTargetTriple(t *testing.T) {
	cfg := config.Default()
	cfg.Codegen.TargetTriple = "aarch64-apple-darwin"
	u, err := run(t, cfg, spawnProgram, StageLL)
	require.NoError(t, err)
	assert.Contains(t, string(u.IR), `target triple = "aarch64-apple-darwin"`)
}

func TestRunDump(t *testing.T) {
	cfg := config.Default()
	cfg.SSA.DumpAfter = "mem2reg"
	cfg.SSA.DumpFunc = "nothing"
	_, err := run(t, cfg, spawnProgram, StageSSA)
	require.NoError(t, err)
}

func TestRunWithoutPasses(t *testing.T) {
	cfg := config.Default()
	cfg.SSA.Passes = nil
	cfg.SSA.Verify = true
	u, err := run(t, cfg, spawnProgram, StageLL)
	require.NoError(t, err)
	assert.Contains(t, string(u.IR), "alloca", "without mem2reg every local stays in memory")
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "ll", StageLL.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}
