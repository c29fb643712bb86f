// Package ledger records which participant belongs to which group.
//
// A Ledger has a fixed number of groups and only grows: there is no removal
// or reassignment. A participant appears in at most one group at any time.
package ledger

import (
	"github.com/Iron-Ham/groupspin/internal/errors"
)

// Ledger maps participants to groups. It is not safe for concurrent use; the
// session controller is its single writer.
type Ledger struct {
	groups  [][]string
	members map[string]int // participant -> group index
}

// New creates a Ledger with numGroups empty groups.
func New(numGroups int) (*Ledger, error) {
	if numGroups <= 0 {
		return nil, errors.NewConfigurationError("group count must be positive").
			WithField("numGroups").
			WithValue(numGroups)
	}
	return &Ledger{
		groups:  make([][]string, numGroups),
		members: make(map[string]int),
	}, nil
}

// NumGroups returns the fixed number of groups.
func (l *Ledger) NumGroups() int {
	return len(l.groups)
}

// Assign appends person to group target.
//
// The caller guarantees person is unassigned; a violation is reported as an
// invalid-configuration error and leaves the ledger unchanged.
func (l *Ledger) Assign(person string, target int) error {
	if target < 0 || target >= len(l.groups) {
		return errors.NewConfigurationError("cannot assign participant").
			WithField("target").
			WithValue(target).
			WithCause(errors.ErrGroupOutOfRange)
	}
	if existing, ok := l.members[person]; ok {
		return errors.NewConfigurationError("cannot assign participant").
			WithField("participant").
			WithValue(person).
			WithCause(errors.Wrapf(errors.ErrDuplicateAssignment, "already in group %d", existing))
	}

	l.groups[target] = append(l.groups[target], person)
	l.members[person] = target
	return nil
}

// GroupOf returns the group index holding person.
func (l *Ledger) GroupOf(person string) (int, bool) {
	idx, ok := l.members[person]
	return idx, ok
}

// IsAssigned reports whether person is in any group.
func (l *Ledger) IsAssigned(person string) bool {
	_, ok := l.members[person]
	return ok
}

// Unassigned returns the roster members not present in any group, in roster order.
func (l *Ledger) Unassigned(roster []string) []string {
	out := make([]string, 0, len(roster))
	for _, p := range roster {
		if !l.IsAssigned(p) {
			out = append(out, p)
		}
	}
	return out
}

// Groups returns a copy of every group's members in insertion order. Empty
// groups are empty, non-nil slices.
func (l *Ledger) Groups() [][]string {
	out := make([][]string, len(l.groups))
	for i, g := range l.groups {
		out[i] = append(make([]string, 0, len(g)), g...)
	}
	return out
}

// Sizes returns the current size of every group.
func (l *Ledger) Sizes() []int {
	sizes := make([]int, len(l.groups))
	for i, g := range l.groups {
		sizes[i] = len(g)
	}
	return sizes
}

// Len returns the number of assigned participants.
func (l *Ledger) Len() int {
	return len(l.members)
}
