package types

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/you-not-fish/swarm/internal/src"
)

// A Scope maps names to objects. Scopes nest: a spawn header and a spawn
// body each get their own, under the scope of the enclosing block.
type Scope struct {
	parent   *Scope
	children []*Scope
	elems    map[string]Object
	pos, end src.Pos
	comment  string // "func main", "spawn", ...
}

// NewScope creates a scope and links it under parent, if any.
func NewScope(parent *Scope, pos, end src.Pos, comment string) *Scope {
	s := &Scope{parent: parent, elems: map[string]Object{}, pos: pos, end: end, comment: comment}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

func (s *Scope) Parent() *Scope     { return s.parent }
func (s *Scope) Children() []*Scope { return s.children }
func (s *Scope) Pos() src.Pos       { return s.pos }
func (s *Scope) End() src.Pos       { return s.end }
func (s *Scope) NumObjects() int    { return len(s.elems) }

// Lookup returns the object named name in s itself, or nil.
func (s *Scope) Lookup(name string) Object { return s.elems[name] }

// LookupParent returns the innermost object named name visible from s,
// with the scope that declares it. Both are nil if there is none.
func (s *Scope) LookupParent(name string) (Object, *Scope) {
	for ; s != nil; s = s.parent {
		if obj, ok := s.elems[name]; ok {
			return obj, s
		}
	}
	return nil, nil
}

// Insert adds obj to s and makes s its parent. If s already declares
// the name, the existing object is returned and s is unchanged.
func (s *Scope) Insert(obj Object) Object {
	if prev, ok := s.elems[obj.Name()]; ok {
		return prev
	}
	s.elems[obj.Name()] = obj
	obj.setParent(s)
	return nil
}

// Contains reports whether t is s or nested inside s.
func (s *Scope) Contains(t *Scope) bool {
	for t != nil && t != s {
		t = t.parent
	}
	return t != nil
}

// Names returns the declared names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String dumps the scope tree rooted at s.
func (s *Scope) String() string {
	var b strings.Builder
	s.dump(&b, "")
	return b.String()
}

func (s *Scope) dump(w io.Writer, indent string) {
	fmt.Fprintf(w, "%sscope %s {\n", indent, s.comment)
	for _, name := range s.Names() {
		fmt.Fprintf(w, "%s  %s: %s\n", indent, name, s.elems[name].Type())
	}
	for _, c := range s.children {
		c.dump(w, indent+"  ")
	}
	fmt.Fprintf(w, "%s}\n", indent)
}
