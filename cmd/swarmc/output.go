package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/driver"
)

// Exit codes.
const (
	ExitSuccess  = 0
	ExitFailure  = 1 // the input has errors
	ExitUsage    = 2 // bad flags, arguments or configuration
	ExitInternal = 3 // internal compiler error
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCode returns the exit code for the error returned by a command.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	if driver.IsInternal(err) {
		return ExitInternal
	}
	// Pipeline failures are always ExitErrors; anything else comes from
	// cobra rejecting the command line.
	return ExitUsage
}

// report prints the diagnostics of u and converts a pipeline error into an
// ExitError. Everything is printed here, so the ExitError has no message.
func report(w io.Writer, u *driver.Unit, err error) error {
	if u != nil {
		for _, d := range u.Diags.All() {
			fmt.Fprintln(w, d.String())
		}
	}
	if err == nil {
		return nil
	}
	var ice *diag.InternalError
	if errors.As(err, &ice) {
		if u == nil || !hasInternal(u) {
			fmt.Fprintln(w, ice)
		}
		return &ExitError{Code: ExitInternal}
	}
	if u == nil || u.Diags.Len() == 0 {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return &ExitError{Code: ExitFailure}
}

func hasInternal(u *driver.Unit) bool {
	for _, d := range u.Diags.All() {
		if d.Severity == diag.Internal {
			return true
		}
	}
	return false
}
