// Package item defines the tree that schema content is normalized into before
// planning. The variant set is closed: Definition, Group, Reference, Value and Any.
// Consumers dispatch with a type switch on the concrete type or on Kind.
package item

import (
	"github.com/broady/schemaplan/component"
)

// Kind identifies the variant of an Item.
type Kind int

const (
	KindDefinition Kind = iota + 1 // top-level, independently addressable structure
	KindGroup                      // compositor or embedded content body
	KindReference                  // use of a Definition
	KindValue                      // simple-type leaf
	KindAny                        // wildcard leaf
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindDefinition:
		return "definition"
	case KindGroup:
		return "group"
	case KindReference:
		return "reference"
	case KindValue:
		return "value"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// Item is one node of the tree.
type Item interface {
	// Kind returns the variant for type switching.
	Kind() Kind

	// Name returns the (possibly shared) name holder. Never nil.
	Name() *Name

	// Component returns the originating schema component.
	Component() component.Component

	// Extension returns the customization record, or nil.
	Extension() *component.Extension

	// Parent returns the owning container, or nil for top-level definitions
	// and detached items.
	Parent() Container

	// IsOptional reports whether the item may be absent.
	IsOptional() bool

	// IsCollection reports whether the item may repeat.
	IsCollection() bool

	// Content returns the classification computed by Classify.
	Content() Content

	core() *base
}

// Container is an Item that owns children: *Group or *Definition.
type Container interface {
	Item

	// Children returns a copy of the ordered child list.
	Children() []Item

	group() *Group
}

// Content is the classification of an item's content.
type Content struct {
	Attributes  bool // attribute data present
	Elements    bool // element data present
	Text        bool // character data present
	AllOptional bool // every piece of content may be absent
}

// Empty reports whether no content kind is present.
func (c Content) Empty() bool { return !c.Attributes && !c.Elements && !c.Text }

// base holds the attributes shared by all variants.
type base struct {
	name    *Name
	comp    component.Component
	ext     *component.Extension
	parent  Container
	content Content
}

func newBase(name *Name, comp component.Component, ext *component.Extension) base {
	if name == nil {
		name = NewName("")
	}
	return base{name: name, comp: comp, ext: ext}
}

func (b *base) Name() *Name                     { return b.name }
func (b *base) Component() component.Component  { return b.comp }
func (b *base) Extension() *component.Extension { return b.ext }
func (b *base) Parent() Container               { return b.parent }
func (b *base) Content() Content                { return b.content }
func (b *base) core() *base                     { return b }

// componentKind returns the kind of the item's component, or 0 without one.
func (b *base) componentKind() component.Kind {
	if b.comp == nil {
		return 0
	}
	return b.comp.Kind()
}

// multiplicity is the optional/repeated pair carried by every variant except Value.
type multiplicity struct {
	optional bool
	repeated bool
}

// IsOptional reports whether the item may be absent.
func (m *multiplicity) IsOptional() bool { return m.optional }

// IsCollection reports whether the item may repeat.
func (m *multiplicity) IsCollection() bool { return m.repeated }

// SetOptional sets the optional flag.
func (m *multiplicity) SetOptional(optional bool) { m.optional = optional }

// SetCollection sets the repeated flag.
func (m *multiplicity) SetCollection(repeated bool) { m.repeated = repeated }

// Subject returns a short description of an item for logs and errors.
func Subject(it Item) string {
	if it == nil {
		return "<nil>"
	}
	if d, ok := it.(*Definition); ok {
		return "definition " + d.QName()
	}
	name := it.Name().Text()
	if name == "" {
		name = component.Describe(it.Component())
	}
	return it.Kind().String() + " " + name
}

// Walk calls fn for it and every descendant in declaration order. References are
// not followed into their targets. Returning false from fn skips the item's children.
func Walk(it Item, fn func(Item) bool) {
	if !fn(it) {
		return
	}
	if c, ok := it.(Container); ok {
		for _, child := range c.group().children {
			Walk(child, fn)
		}
	}
}
