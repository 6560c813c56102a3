package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/driver"
	"github.com/you-not-fish/swarm/internal/src"
)

const taskProgram = `package main

func main() {
	x := 1
	spawn_sub (t := x + 1; t) {
		println(t, x)
	}
	println(x)
}
`

func writeSwarmFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.swarm")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// execute runs the command line and returns stdout, stderr and the exit
// code main would use.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), exitCode(err)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "swarmc", cmd.Use)
	assert.Contains(t, cmd.Long, "spawn_sub")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"tokens", "ast", "check", "ssa", "ll", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	werror := cmd.PersistentFlags().Lookup("werror")
	require.NotNil(t, werror)
	assert.Equal(t, "W", werror.Shorthand)
	for _, name := range []string{"config", "log-level", "log-format", "no-asi"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestVersion(t *testing.T) {
	out, _, code := execute(t, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "swarmc version "+Version)
	assert.Contains(t, out, "go version go")
}

func TestCheck(t *testing.T) {
	out, errOut, code := execute(t, "check", writeSwarmFile(t, taskProgram))
	assert.Equal(t, ExitSuccess, code, errOut)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestCheckSpawns(t *testing.T) {
	path := writeSwarmFile(t, taskProgram)
	out, errOut, code := execute(t, "check", "--spawns", path)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, path+":5:2: spawn_sub timestamp int\n"+
		path+":3:1: protected main\n"+
		path+":4:2: captured x int\n", out)
}

func TestCheckDiagnostics(t *testing.T) {
	path := writeSwarmFile(t, "package main\nfunc main() {\n\tspawn_super println(1)\n}\n")
	out, errOut, code := execute(t, "check", path)
	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, out)
	assert.True(t, strings.HasPrefix(errOut, path+":3:2: error: "), errOut)
	assert.Contains(t, errOut, "[domain-spawn-without-timestamp]\n")
}

func TestCheckWerror(t *testing.T) {
	path := writeSwarmFile(t, "package main\nfunc main() {\n\tb := true\n\tspawn (b) println(1)\n}\n")

	_, errOut, code := execute(t, "check", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, ": caution: ")
	assert.Contains(t, errOut, "[bool-timestamp]")

	_, errOut, code = execute(t, "-W", "check", path)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, ": error: ")
}

func TestCheckMissingFile(t *testing.T) {
	_, _, code := execute(t, "check", filepath.Join(t.TempDir(), "nope.swarm"))
	assert.Equal(t, ExitFailure, code)
}

func TestUsageErrors(t *testing.T) {
	path := writeSwarmFile(t, taskProgram)
	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{"check"}},
		{"unknown flag", []string{"check", "--frobnicate", path}},
		{"unknown command", []string{"frobnicate"}},
		{"bad log level", []string{"--log-level", "loud", "check", path}},
		{"bad ast format", []string{"ast", "--format", "xml", path}},
		{"bad pass", []string{"ssa", "--passes", "dce", path}},
		{"missing config", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "check", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, code := execute(t, tt.args...)
			assert.Equal(t, ExitUsage, code)
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "swarmc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("codegen:\n  target_triple: wasm32-unknown-unknown\n"), 0o644))

	out, errOut, code := execute(t, "--config", cfgPath, "ll", writeSwarmFile(t, taskProgram))
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, `target triple = "wasm32-unknown-unknown"`)

	require.NoError(t, os.WriteFile(cfgPath, []byte("optimize: true\n"), 0o644))
	_, errOut, code = execute(t, "--config", cfgPath, "version")
	assert.Equal(t, ExitUsage, code, errOut)
}

func TestTokens(t *testing.T) {
	out, _, code := execute(t, "tokens", writeSwarmFile(t, "package main\nfunc main() { spawn_sub (1) println(\"a\\tb\") }\n"))
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "POSITION")
	assert.Contains(t, out, "spawn_sub")
	assert.Contains(t, out, `"a\tb"`)
	assert.Contains(t, out, "EOF")
}

func TestTokensNoASI(t *testing.T) {
	path := writeSwarmFile(t, "package main\n")
	out, _, _ := execute(t, "tokens", path)
	withASI := strings.Count(out, "\n")
	out, _, _ = execute(t, "--no-asi", "tokens", path)
	assert.Less(t, strings.Count(out, "\n"), withASI, "no semicolon is inserted after main")
}

func TestAST(t *testing.T) {
	path := writeSwarmFile(t, taskProgram)

	out, _, code := execute(t, "ast", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "SpawnStmt")

	out, _, code = execute(t, "ast", "--format", "json", path)
	assert.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), out)

	out, _, code = execute(t, "ast", "--format", "src", path)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "spawn_sub (t := x + 1; t) {")
}

func TestASTWithErrors(t *testing.T) {
	out, errOut, code := execute(t, "ast", writeSwarmFile(t, "package main\nfunc main() {\n\tspawn_super println(1)\n}\n"))
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, out, "File", "the partial tree is still printed")
	assert.Contains(t, errOut, "[domain-spawn-without-timestamp]")
}

func TestSSA(t *testing.T) {
	path := writeSwarmFile(t, taskProgram)

	out, errOut, code := execute(t, "ssa", path)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "func main() (protected):")
	assert.Contains(t, out, "Detach")
	assert.Contains(t, out, "[sub]")

	out, _, code = execute(t, "ssa", "--func", "main", "--passes", "", path)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Alloca", "without passes locals stay in memory")

	_, _, code = execute(t, "ssa", "--func", "nothing", path)
	assert.Equal(t, ExitUsage, code)
}

func TestLL(t *testing.T) {
	path := writeSwarmFile(t, taskProgram)

	out, errOut, code := execute(t, "ll", path)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.True(t, strings.HasPrefix(out, "; swarm build "))
	assert.Contains(t, out, "call void @rt_task_detach(")

	outFile := filepath.Join(t.TempDir(), "main.ll")
	out, _, code = execute(t, "ll", "-o", outFile, path)
	require.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "define i32 @main()")
}

func TestLogFlags(t *testing.T) {
	_, errOut, code := execute(t, "--log-level", "debug", "--log-format", "json", "ll", writeSwarmFile(t, taskProgram))
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, errOut, `"stage":"ll"`)
	assert.Contains(t, errOut, `"build":"`)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitInternal, exitCode(&ExitError{Code: ExitInternal}))
	assert.Equal(t, ExitInternal, exitCode(diag.Internalf(src.Pos{}, "broken")))
	assert.Equal(t, ExitUsage, exitCode(errors.New(`unknown command "x"`)))
}

func TestReportInternal(t *testing.T) {
	var buf bytes.Buffer
	err := report(&buf, nil, diag.Internalf(src.Pos{}, "lost block"))
	assert.Equal(t, ExitInternal, exitCode(err))
	assert.Contains(t, buf.String(), "internal compiler error: lost block")
	assert.True(t, silent(err))
}

func TestReportDiagnostics(t *testing.T) {
	u := &driver.Unit{Filename: "a.swarm"}
	u.Diags.Add(diag.Cautionf(src.NewPos("a.swarm", 4, 2), diag.BoolTimestamp, "boolean spawn timestamp b is promoted to int"))
	u.Diags.Add(diag.Errorf(src.NewPos("a.swarm", 5, 3), diag.InvalidTimestamp, "invalid spawn timestamp int"))

	var buf bytes.Buffer
	err := report(&buf, u, u.Diags.Err())
	assert.Equal(t, ExitFailure, exitCode(err))
	assert.Equal(t, "a.swarm:4:2: caution: boolean spawn timestamp b is promoted to int [bool-timestamp]\n"+
		"a.swarm:5:3: error: invalid spawn timestamp int [invalid-timestamp]\n", buf.String())
}

func TestFormatLiteral(t *testing.T) {
	assert.Equal(t, `""`, formatLiteral(""))
	assert.Equal(t, `"a\nb\"c"`, formatLiteral("a\nb\"c"))
}
