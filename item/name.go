package item

import "github.com/broady/schemaplan/diag"

// Name is a mutable text holder that two tree positions may share, for example an
// element and the single value it wraps. A fixed name never changes; an unfixed
// name may change until Check locks it.
type Name struct {
	text    string
	fixed   bool
	checked bool
}

// NewName returns an unfixed name.
func NewName(text string) *Name {
	return &Name{text: text}
}

// FixedName returns a name set by configuration that can never change.
func FixedName(text string) *Name {
	return &Name{text: text, fixed: true}
}

// Text returns the current text, "" when unassigned.
func (n *Name) Text() string { return n.text }

// IsSet reports whether text has been assigned.
func (n *Name) IsSet() bool { return n.text != "" }

// IsFixed reports whether the name was fixed by configuration.
func (n *Name) IsFixed() bool { return n.fixed }

// IsChecked reports whether the name has passed conflict resolution.
func (n *Name) IsChecked() bool { return n.checked }

// SetText changes the text. Changing a fixed or checked name is an internal
// consistency failure. Setting the current text again is always allowed.
func (n *Name) SetText(text string) error {
	if text == n.text {
		return nil
	}
	if n.fixed {
		return diag.Internalf("rename", "name "+n.text, "fixed name cannot change to %q", text)
	}
	if n.checked {
		return diag.Internalf("rename", "name "+n.text, "checked name cannot change to %q", text)
	}
	n.text = text
	return nil
}

// Check locks the name after conflict resolution. It is a one-way transition.
func (n *Name) Check() { n.checked = true }

// String returns the text.
func (n *Name) String() string { return n.text }

// clone returns an unchecked copy; fixed names stay fixed.
func (n *Name) clone() *Name {
	return &Name{text: n.text, fixed: n.fixed}
}
