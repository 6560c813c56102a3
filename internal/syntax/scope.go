package syntax

import "strings"

// scopeFlags describe what a parse scope admits.
type scopeFlags uint8

const (
	declScope     scopeFlags = 1 << iota // names may be declared
	controlScope                         // header of a control statement
	breakScope                           // break leaves the scope's statement
	continueScope                        // continue restarts the scope's statement
	fnScope                              // function body; branches never cross it
	spawnScope                           // body of a spawned task
)

var scopeFlagNames = [...]string{"decl", "control", "break", "continue", "fn", "spawn"}

func (f scopeFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for i, name := range scopeFlagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// parseScope is one entry of the parser's scope stack. Branch statements
// bound to it are resolved once the owning statement has been built.
type parseScope struct {
	flags    scopeFlags
	branches []*BranchStmt
}

// resolve sets target as the Target of every branch bound to sc.
func (sc *parseScope) resolve(target Stmt) {
	for _, b := range sc.branches {
		b.Target = target
	}
	sc.branches = nil
}

// scopeStack is the explicit scope context threaded through the parser.
type scopeStack struct {
	scopes []*parseScope
}

func (s *scopeStack) push(flags scopeFlags) *parseScope {
	sc := &parseScope{flags: flags}
	s.scopes = append(s.scopes, sc)
	return sc
}

func (s *scopeStack) pop() *parseScope {
	n := len(s.scopes)
	if n == 0 {
		panic("syntax: scope stack underflow")
	}
	sc := s.scopes[n-1]
	s.scopes = s.scopes[:n-1]
	return sc
}

// addFlags extends the flags of the innermost scope.
func (s *scopeStack) addFlags(f scopeFlags) {
	if len(s.scopes) == 0 {
		panic("syntax: addFlags on empty scope stack")
	}
	s.scopes[len(s.scopes)-1].flags |= f
}

func (s *scopeStack) depth() int { return len(s.scopes) }

// bind attaches b to the innermost scope that admits it and reports
// whether there was one. The search stops at the enclosing function.
func (s *scopeStack) bind(b *BranchStmt) bool {
	want := breakScope
	if b.Tok == _Continue {
		want = continueScope
	}
	for i := len(s.scopes) - 1; i >= 0; i-- {
		sc := s.scopes[i]
		if sc.flags&want != 0 {
			sc.branches = append(sc.branches, b)
			return true
		}
		if sc.flags&fnScope != 0 {
			break
		}
	}
	return false
}
