// Command swarmc is the swarm compiler.
package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil && !silent(err) {
		fmt.Fprintf(os.Stderr, "swarmc: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// silent reports whether err was already reported as diagnostics.
func silent(err error) bool {
	exit, ok := err.(*ExitError)
	return ok && exit.Err == nil
}

func goVersion() string { return runtime.Version() }
