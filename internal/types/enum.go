package types

import "strings"

// Enum is the underlying type of an enum declaration. Members are
// constants of the named enum type, numbered from 0.
type Enum struct {
	typ
	members []*Const
}

// NewEnum returns an enum type with no members.
func NewEnum() *Enum { return &Enum{} }

// AddMember appends m, assigning it the next ordinal.
func (e *Enum) AddMember(m *Const) {
	m.val = int64(len(e.members))
	e.members = append(e.members, m)
}

// NumMembers returns the number of members.
func (e *Enum) NumMembers() int { return len(e.members) }

// Member returns the i'th member.
func (e *Enum) Member(i int) *Const { return e.members[i] }

// Lookup returns the member named name, or nil.
func (e *Enum) Lookup(name string) *Const {
	for _, m := range e.members {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func (e *Enum) Underlying() Type { return e }

func (e *Enum) String() string {
	names := make([]string, len(e.members))
	for i, m := range e.members {
		names[i] = m.Name()
	}
	return "enum{" + strings.Join(names, ", ") + "}"
}
