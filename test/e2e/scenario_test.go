package e2e

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/driver"
	"github.com/you-not-fish/swarm/internal/ssa"
)

// TestScenarios runs every scenario under testdata/.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no scenarios in testdata/")

	for _, file := range files {
		s, err := LoadScenario(file)
		require.NoError(t, err, file)
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, s)
		})
	}
}

func runScenario(t *testing.T, s *Scenario) {
	cfg, err := s.config()
	require.NoError(t, err)
	stage, err := s.stage()
	require.NoError(t, err)
	d, err := driver.New(cfg, nil)
	require.NoError(t, err)

	u, err := d.Run(s.Name+".swarm", strings.NewReader(s.Source), stage)
	require.NotNil(t, u)
	if s.Expect.OK {
		require.NoError(t, err, "diagnostics:\n%s", dump(u))
	} else {
		require.Error(t, err)
		assert.False(t, driver.IsInternal(err), "%v", err)
	}

	for _, want := range s.Expect.Diagnostics {
		assert.True(t, hasDiag(u, want), "no diagnostic %+v in:\n%s", want, dump(u))
	}
	if n := s.Expect.Errors; n != nil {
		assert.Len(t, u.Diags.Errors(), *n, dump(u))
	}
	if n := s.Expect.Cautions; n != nil {
		assert.Len(t, u.Diags.Cautions(), *n, dump(u))
	}
	if n := s.Expect.Spawns; n != nil {
		require.NotNil(t, u.Info)
		assert.Len(t, u.Info.Spawns, *n)
	}

	if len(s.Expect.SSAContains) > 0 {
		require.NotNil(t, u.Prog)
		var buf bytes.Buffer
		ssa.FprintProgram(&buf, u.Prog)
		for _, sub := range s.Expect.SSAContains {
			assert.Contains(t, buf.String(), sub)
		}
	}
	for _, sub := range s.Expect.IRContains {
		assert.Contains(t, string(u.IR), sub)
	}
	for _, sub := range s.Expect.IRExcludes {
		assert.NotContains(t, string(u.IR), sub)
	}
}

func hasDiag(u *driver.Unit, want ExpectDiag) bool {
	for _, d := range u.Diags.All() {
		if matchDiag(d, want) {
			return true
		}
	}
	return false
}

func matchDiag(d diag.Diagnostic, want ExpectDiag) bool {
	switch {
	case d.Code.String() != want.Code:
		return false
	case want.Line != 0 && d.Pos.Line() != want.Line:
		return false
	case want.Col != 0 && d.Pos.Col() != want.Col:
		return false
	case want.Severity != "" && d.Severity.String() != want.Severity:
		return false
	}
	return strings.Contains(d.Msg, want.Contains)
}

func dump(u *driver.Unit) string {
	var b strings.Builder
	for _, d := range u.Diags.All() {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"unknown key", "name: a\ndescription: b\nsource: c\nexpected: {}\n", "failed to parse YAML"},
		{"no name", "description: b\nsource: c\n", "name is required"},
		{"no source", "name: a\ndescription: b\n", "source is required"},
		{"bad stage", "name: a\ndescription: b\nsource: c\nstage: link\n", `unknown stage "link"`},
		{"no code", "name: a\ndescription: b\nsource: c\nexpect:\n  diagnostics:\n    - line: 1\n", "code is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestScenarioConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: overlay
description: config keys reach the driver
source: "package main"
config:
  asi: false
  cautions_as_errors: true
`), 0o644))
	s, err := LoadScenario(path)
	require.NoError(t, err)
	cfg, err := s.config()
	require.NoError(t, err)
	assert.False(t, cfg.ASI)
	assert.True(t, cfg.CautionsAsErrors)
	assert.True(t, cfg.UnusedResult)
}

func TestScenarioConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\ndescription: b\nsource: c\nconfig:\n  inline: true\n"), 0o644))
	s, err := LoadScenario(path)
	require.NoError(t, err)
	_, err = s.config()
	require.Error(t, err)
}
