// Package e2e runs compiler scenarios described in YAML files. A scenario
// compiles one source file up to a stage and checks the diagnostics and
// the SSA or LLVM IR it produced.
package e2e

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/swarm/internal/config"
	"github.com/you-not-fish/swarm/internal/driver"
)

// Scenario is one end-to-end compiler run.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description says what the scenario validates.
	Description string `yaml:"description"`

	// Source is the program text, compiled as "<name>.swarm".
	Source string `yaml:"source"`

	// Stage is the last stage to run: parse, check, ssa or ll.
	// Defaults to ll.
	Stage string `yaml:"stage,omitempty"`

	// Config is overlaid onto the default compiler configuration with the
	// same keys as a configuration file.
	Config yaml.Node `yaml:"config,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect lists what a scenario must produce.
type Expect struct {
	// OK tells whether the run must succeed.
	OK bool `yaml:"ok"`

	// Diagnostics must each match a reported diagnostic.
	// This is a subset match; other diagnostics are allowed.
	Diagnostics []ExpectDiag `yaml:"diagnostics,omitempty"`

	// Errors and Cautions, when set, are the exact counts.
	Errors   *int `yaml:"errors,omitempty"`
	Cautions *int `yaml:"cautions,omitempty"`

	// Spawns, when set, is the number of spawns the checker accepted.
	Spawns *int `yaml:"spawns,omitempty"`

	// SSAContains and IRContains are substrings of the printed SSA and of
	// the LLVM module.
	SSAContains []string `yaml:"ssa_contains,omitempty"`
	IRContains  []string `yaml:"ir_contains,omitempty"`
	IRExcludes  []string `yaml:"ir_excludes,omitempty"`
}

// ExpectDiag matches one diagnostic. Zero fields match anything.
type ExpectDiag struct {
	Line     uint32 `yaml:"line,omitempty"`
	Col      uint32 `yaml:"col,omitempty"`
	Severity string `yaml:"severity,omitempty"`
	Code     string `yaml:"code"`
	Contains string `yaml:"contains,omitempty"`
}

// LoadScenario reads and validates a scenario file. Unknown keys are
// errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Source == "" {
		return fmt.Errorf("source is required")
	}
	if _, err := s.stage(); err != nil {
		return err
	}
	for i, d := range s.Expect.Diagnostics {
		if d.Code == "" {
			return fmt.Errorf("diagnostics[%d]: code is required", i)
		}
	}
	return nil
}

// stage returns the driver stage named by s.Stage.
func (s *Scenario) stage() (driver.Stage, error) {
	switch s.Stage {
	case "parse":
		return driver.StageParse, nil
	case "check":
		return driver.StageCheck, nil
	case "ssa":
		return driver.StageSSA, nil
	case "", "ll":
		return driver.StageLL, nil
	}
	return 0, fmt.Errorf("unknown stage %q", s.Stage)
}

// config returns the default configuration with the scenario's overlay.
func (s *Scenario) config() (*config.Config, error) {
	cfg := config.Default()
	if s.Config.Kind == 0 {
		return cfg, nil
	}
	data, err := yaml.Marshal(&s.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Decode(data); err != nil {
		return nil, err
	}
	return cfg, nil
}
