// Package types2 type-checks swarm source files and validates spawn
// statements, recording the facts the SSA builder relies on.
package types2

import (
	"github.com/you-not-fish/swarm/internal/diag"
	"github.com/you-not-fish/swarm/internal/src"
)

// errorf reports an error with the given code.
func (c *Checker) errorf(pos src.Pos, code diag.Code, format string, args ...interface{}) {
	c.report(diag.Errorf(pos, code, format, args...))
}

// typeErrorf reports a general type error.
func (c *Checker) typeErrorf(pos src.Pos, format string, args ...interface{}) {
	c.errorf(pos, diag.Type, format, args...)
}

// cautionf reports a caution. Cautions never fail the check.
func (c *Checker) cautionf(pos src.Pos, code diag.Code, format string, args ...interface{}) {
	c.report(diag.Cautionf(pos, code, format, args...))
}

func (c *Checker) report(d diag.Diagnostic) {
	if d.Severity != diag.Caution {
		if c.errors == 0 {
			c.first = d
		}
		c.errors++
	}
	if c.conf.Error != nil {
		c.conf.Error(d)
	}
}

// invalidAST reports a tree shape the parser never produces.
func (c *Checker) invalidAST(pos src.Pos, format string, args ...interface{}) {
	diag.ICE(pos, "invalid AST: "+format, args...)
}
