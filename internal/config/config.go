// Package config holds the compiler settings shared by the driver and the
// command line. Settings come from an optional YAML file, then from SWARMC_*
// environment variables, then from flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/swarm/internal/ssa/passes"
	"github.com/you-not-fish/swarm/internal/syntax"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvASI       = "SWARMC_ASI"
	EnvMaxErrors = "SWARMC_MAX_ERRORS"
	EnvWerror    = "SWARMC_WERROR"
	EnvLogLevel  = "SWARMC_LOG_LEVEL"
	EnvLogFormat = "SWARMC_LOG_FORMAT"
	EnvSSAVerify = "SWARMC_SSA_VERIFY"
	EnvTriple    = "SWARMC_TRIPLE"
)

// ValidLogLevels and ValidLogFormats list the accepted logging settings.
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"text", "json"}
)

// Config is the complete compiler configuration.
type Config struct {
	// ASI enables automatic semicolon insertion.
	ASI bool `yaml:"asi"`

	// MaxErrors stops parsing after this many errors. Zero or less means
	// no limit.
	MaxErrors int `yaml:"max_errors"`

	// CautionsAsErrors turns every caution into an error.
	CautionsAsErrors bool `yaml:"cautions_as_errors"`

	// UnusedResult reports spawned expressions whose value is discarded.
	UnusedResult bool `yaml:"unused_result"`

	Log     LogConfig     `yaml:"log"`
	SSA     SSAConfig     `yaml:"ssa"`
	Codegen CodegenConfig `yaml:"codegen"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// SSAConfig controls the pass pipeline.
type SSAConfig struct {
	Verify     bool     `yaml:"verify"`
	Passes     []string `yaml:"passes"`
	DumpBefore string   `yaml:"dump_before"`
	DumpAfter  string   `yaml:"dump_after"`
	DumpFunc   string   `yaml:"dump_func"`
}

// CodegenConfig overrides the LLVM module header.
type CodegenConfig struct {
	TargetTriple string `yaml:"target_triple"`
	DataLayout   string `yaml:"data_layout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ASI:          true,
		MaxErrors:    syntax.DefaultMaxErrors,
		UnusedResult: true,
		Log:          LogConfig{Level: "warn", Format: "text"},
		SSA:          SSAConfig{Passes: passes.Names()},
	}
}

// Load returns the default configuration overlaid with the YAML file at
// path and then with the environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.Decode(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Decode overlays the YAML document data onto c. Unknown keys are errors.
func (c *Config) Decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		// An empty document leaves c unchanged.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// ApplyEnv overrides c with the SWARMC_* variables that are set. The
// environment is reread on every call.
func (c *Config) ApplyEnv() {
	env.Load()
	if env.Has(EnvASI) {
		c.ASI = env.Bool(EnvASI)
	}
	if env.Has(EnvMaxErrors) {
		c.MaxErrors = env.Int(EnvMaxErrors, c.MaxErrors)
	}
	if env.Has(EnvWerror) {
		c.CautionsAsErrors = env.Bool(EnvWerror)
	}
	c.Log.Level = env.Str(EnvLogLevel, c.Log.Level)
	c.Log.Format = env.Str(EnvLogFormat, c.Log.Format)
	if env.Has(EnvSSAVerify) {
		c.SSA.Verify = env.Bool(EnvSSAVerify)
	}
	c.Codegen.TargetTriple = env.Str(EnvTriple, c.Codegen.TargetTriple)
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if !oneOf(strings.ToLower(c.Log.Level), ValidLogLevels) {
		return fmt.Errorf("invalid log level %q: must be one of %v", c.Log.Level, ValidLogLevels)
	}
	if !oneOf(c.Log.Format, ValidLogFormats) {
		return fmt.Errorf("invalid log format %q: must be one of %v", c.Log.Format, ValidLogFormats)
	}
	if _, err := passes.Lookup(c.SSA.Passes); err != nil {
		return err
	}
	for _, name := range []string{c.SSA.DumpBefore, c.SSA.DumpAfter} {
		if name == "" || name == "*" {
			continue
		}
		if _, err := passes.Lookup([]string{name}); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
	}
	return nil
}

// PassConfig returns the pass runner settings.
func (c *Config) PassConfig() passes.Config {
	return passes.Config{
		DumpBefore: c.SSA.DumpBefore,
		DumpAfter:  c.SSA.DumpAfter,
		DumpFunc:   c.SSA.DumpFunc,
		Verify:     c.SSA.Verify,
	}
}

// NewLogger returns a logger writing to w in the configured format and at
// the configured level.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SlogLevel maps the level name to its slog value. Unknown names map to
// slog.LevelWarn.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

func oneOf(s string, valid []string) bool {
	for _, v := range valid {
		if v == s {
			return true
		}
	}
	return false
}
