package diag

import (
	"fmt"

	"github.com/you-not-fish/swarm/internal/src"
)

// InternalError reports a broken compiler invariant. It is raised with ICE
// and recovered at the translation-unit boundary with Recover.
type InternalError struct {
	Pos src.Pos
	Msg string
}

func (e *InternalError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("internal compiler error: %s: %s", e.Pos, e.Msg)
	}
	return "internal compiler error: " + e.Msg
}

// Diagnostic converts e into an Internal-severity diagnostic.
func (e *InternalError) Diagnostic() Diagnostic {
	return Diagnostic{Pos: e.Pos, Severity: Internal, Code: Contract, Msg: e.Msg}
}

// Internalf builds an InternalError without raising it.
func Internalf(pos src.Pos, format string, args ...interface{}) *InternalError {
	return &InternalError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ICE aborts the current translation unit with an internal error.
func ICE(pos src.Pos, format string, args ...interface{}) {
	panic(Internalf(pos, format, args...))
}

// Recover converts a panic raised by ICE into *errp. Other panics are
// re-raised. It must be called directly by a deferred statement.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if ice, ok := r.(*InternalError); ok {
		*errp = ice
		return
	}
	panic(r)
}
