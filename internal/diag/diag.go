// Package diag defines the diagnostics reported by the swarm compiler:
// their codes, severities, and the collector used by the driver.
package diag

//go:generate go tool stringer -type Code -linecomment

import (
	"fmt"
	"sort"

	"github.com/you-not-fish/swarm/internal/src"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	// Error rejects the construct; compilation fails.
	Error Severity = iota
	// Caution flags a suspicious but accepted construct.
	Caution
	// Internal marks a compiler defect rather than a problem in the input.
	Internal
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Caution:
		return "caution"
	case Internal:
		return "internal error"
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// Code identifies the kind of a diagnostic.
type Code int

const (
	Syntax                      Code = iota // syntax
	DomainSpawnWithoutTimestamp             // domain-spawn-without-timestamp
	BadSpawnHeader                          // bad-spawn-header
	Type                                    // type
	InvalidTimestamp                        // invalid-timestamp
	MissingTimestamp                        // missing-timestamp
	TimestampNotIntegral                    // timestamp-not-integral
	ReturnInSpawn                           // return-in-spawn
	BranchCrossesSpawn                      // branch-crosses-spawn
	UnusedResult                            // unused-result
	BoolTimestamp                           // bool-timestamp
	EmptySpawnBody                          // empty-spawn-body
	EmptyBody                               // empty-body
	Contract                                // contract
)

// Diagnostic is a single message about the input program.
type Diagnostic struct {
	Pos      src.Pos
	Severity Severity
	Code     Code
	Msg      string
}

// Error formats d as "pos: msg".
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
}

// String formats d for display, including its severity and code.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Pos, d.Severity, d.Msg, d.Code)
}

// Errorf builds an error-severity diagnostic.
func Errorf(pos src.Pos, code Code, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Pos: pos, Severity: Error, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Cautionf builds a caution-severity diagnostic.
func Cautionf(pos src.Pos, code Code, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Pos: pos, Severity: Caution, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Handler receives diagnostics as they are reported.
type Handler func(Diagnostic)

// List collects diagnostics in report order.
type List struct {
	items []Diagnostic
}

// Add appends d.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Handler returns a Handler that appends to l.
func (l *List) Handler() Handler {
	return l.Add
}

// Len returns the number of collected diagnostics.
func (l *List) Len() int { return len(l.items) }

// All returns every collected diagnostic.
func (l *List) All() []Diagnostic { return l.items }

// Errors returns the diagnostics of Error or Internal severity.
func (l *List) Errors() []Diagnostic {
	return l.filter(func(d Diagnostic) bool { return d.Severity != Caution })
}

// Cautions returns the caution diagnostics.
func (l *List) Cautions() []Diagnostic {
	return l.filter(func(d Diagnostic) bool { return d.Severity == Caution })
}

// WithCode returns the diagnostics carrying code c.
func (l *List) WithCode(c Code) []Diagnostic {
	return l.filter(func(d Diagnostic) bool { return d.Code == c })
}

// HasErrors reports whether any non-caution diagnostic was collected.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity != Caution {
			return true
		}
	}
	return false
}

// PromoteCautions turns every caution into an error.
func (l *List) PromoteCautions() {
	for i := range l.items {
		if l.items[i].Severity == Caution {
			l.items[i].Severity = Error
		}
	}
}

// Sort orders the diagnostics by position, keeping report order for ties.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Pos.Before(l.items[j].Pos)
	})
}

// Err returns the first error diagnostic, or nil.
func (l *List) Err() error {
	for _, d := range l.items {
		if d.Severity != Caution {
			return d
		}
	}
	return nil
}

func (l *List) filter(keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
