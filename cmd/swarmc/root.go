package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/swarm/internal/config"
	"github.com/you-not-fish/swarm/internal/driver"
)

// Version of the compiler.
const Version = "0.1.0-dev"

// RootOptions holds the persistent flags shared by every command.
type RootOptions struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	NoASI      bool
	Werror     bool

	cfg *config.Config
	log *slog.Logger
}

// NewRootCommand creates the swarmc command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "swarmc",
		Short: "swarmc - the swarm compiler",
		Long: `swarmc compiles swarm programs to LLVM IR.

A spawn statement starts a task that runs in parallel with the code after
it. spawn_sub and spawn_super start the task in the child or parent
domain and must carry an ordering timestamp.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")
	cmd.PersistentFlags().BoolVar(&opts.NoASI, "no-asi", false, "disable automatic semicolon insertion")
	cmd.PersistentFlags().BoolVarP(&opts.Werror, "werror", "W", false, "treat cautions as errors")

	cmd.AddCommand(newTokensCommand(opts))
	cmd.AddCommand(newASTCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newSSACommand(opts))
	cmd.AddCommand(newLLCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// load builds the configuration from the file, the environment and the
// flags that were set, in that order.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.LogFormat
	}
	if flags.Changed("no-asi") {
		cfg.ASI = !o.NoASI
	}
	if flags.Changed("werror") {
		cfg.CautionsAsErrors = o.Werror
	}
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	o.cfg = cfg
	o.log = cfg.Log.NewLogger(cmd.ErrOrStderr())
	return nil
}

// run compiles the file named by path up to stage.
func (o *RootOptions) run(cmd *cobra.Command, path string, stage driver.Stage) (*driver.Unit, error) {
	d, err := driver.New(o.cfg, o.log)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Err: err}
	}
	defer f.Close()

	u, err := d.Run(path, f, stage)
	return u, report(cmd.ErrOrStderr(), u, err)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compiler version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion(cmd.OutOrStdout())
			return nil
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "swarmc version %s\n", Version)
	fmt.Fprintf(w, "go version %s\n", goVersion())
}
