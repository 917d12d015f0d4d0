package item

import (
	"github.com/broady/schemaplan/component"
	"github.com/broady/schemaplan/diag"
)

// Group is an ordered sequence of owned children: a compositor, an element body,
// or the inlined copy of a definition.
type Group struct {
	base
	multiplicity

	children   []Item
	classified bool

	// self is the outermost value embedding this group (the *Definition for
	// definitions), used as the parent of children.
	self Container
}

// NewGroup returns an empty group.
func NewGroup(name *Name, comp component.Component, ext *component.Extension) *Group {
	g := &Group{base: newBase(name, comp, ext)}
	g.self = g
	return g
}

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// Children returns a copy of the ordered child list.
func (g *Group) Children() []Item {
	out := make([]Item, len(g.children))
	copy(out, g.children)
	return out
}

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// Child returns the i'th child.
func (g *Group) Child(i int) Item { return g.children[i] }

func (g *Group) group() *Group { return g }

// IsClassified reports whether Classify has computed this group's content.
func (g *Group) IsClassified() bool { return g.classified }

// Append adds child as the last child. The child must be detached.
func (g *Group) Append(child Item) error {
	if child == nil {
		return diag.Internalf("append", Subject(g.self), "nil child")
	}
	if _, ok := child.(*Definition); ok {
		return diag.Internalf("append", Subject(child), "definitions are top-level and cannot be children")
	}
	cb := child.core()
	if cb.parent != nil {
		return diag.Internalf("append", Subject(child), "already owned by %s", Subject(cb.parent))
	}
	cb.parent = g.self
	g.children = append(g.children, child)
	return nil
}

// ReplaceChild swaps old for replacement at the same position. old becomes
// detached; replacement must be detached beforehand.
func (g *Group) ReplaceChild(old, replacement Item) error {
	if replacement == nil {
		return diag.Internalf("replace", Subject(old), "nil replacement")
	}
	if replacement.core().parent != nil {
		return diag.Internalf("replace", Subject(replacement), "replacement already owned by %s", Subject(replacement.Parent()))
	}
	for i, c := range g.children {
		if c == old {
			g.children[i] = replacement
			replacement.core().parent = g.self
			old.core().parent = nil
			return nil
		}
	}
	return diag.Internalf("replace", Subject(old), "not a child of %s", Subject(g.self))
}

// indexOf returns the position of child, or -1.
func (g *Group) indexOf(child Item) int {
	for i, c := range g.children {
		if c == child {
			return i
		}
	}
	return -1
}
