package names

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/schemaplan/item"
)

// ConflictError reports a fixed or already checked name that collides with a
// name claimed earlier in the same scope.
type ConflictError struct {
	Name  string
	Scope string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("name %q already used in %s", e.Name, e.Scope)
}

// Scope hands out unique names. Conflicts between generated names are resolved
// by a numeric suffix; names that may not change are reported instead.
type Scope struct {
	label    string
	fold     bool
	used     map[string]bool
	assigned map[*item.Name]bool
}

// NewScope returns a case-sensitive scope, such as the fields of one class.
func NewScope(label string) *Scope {
	return &Scope{label: label, used: make(map[string]bool), assigned: make(map[*item.Name]bool)}
}

// NewClassScope returns a scope that treats names differing only in case as
// equal, since class names map to file names.
func NewClassScope(label string) *Scope {
	s := NewScope(label)
	s.fold = true
	return s
}

func (s *Scope) key(name string) string {
	if s.fold {
		return strings.ToLower(name)
	}
	return name
}

// Has reports whether name is taken.
func (s *Scope) Has(name string) bool {
	return s.used[s.key(name)]
}

// Reserve claims name exactly and reports whether it was free.
func (s *Scope) Reserve(name string) bool {
	k := s.key(name)
	if s.used[k] {
		return false
	}
	s.used[k] = true
	return true
}

// Claim claims base, or base followed by the smallest suffix from 2 up that is
// free, and returns the claimed name.
func (s *Scope) Claim(base string) string {
	name := base
	for i := 2; !s.Reserve(name); i++ {
		name = base + strconv.Itoa(i)
	}
	return name
}

// Assign gives n a unique name in the scope and checks it. An unfixed,
// unchecked name takes base (or a suffixed variant). Fixed and checked names
// keep their text; a collision is returned as a *ConflictError. Assigning the
// same shared name twice is a no-op.
func (s *Scope) Assign(n *item.Name, base string) error {
	if s.assigned[n] {
		return nil
	}
	s.assigned[n] = true
	if n.IsFixed() || n.IsChecked() {
		if !s.Reserve(n.Text()) {
			return &ConflictError{Name: n.Text(), Scope: s.label}
		}
		n.Check()
		return nil
	}
	if err := n.SetText(s.Claim(base)); err != nil {
		return err
	}
	n.Check()
	return nil
}
