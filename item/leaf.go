package item

import (
	"github.com/broady/schemaplan/component"
	"github.com/broady/schemaplan/typemap"
)

// Value is a simple-type leaf. It is never optional and never repeating;
// multiplicity belongs to its container.
type Value struct {
	base

	mapping    typemap.Mapping
	schemaType string
}

// NewValue returns a value leaf. Its classification is fixed at construction
// from its component: attribute data for attributes, element data for elements,
// character data otherwise.
func NewValue(name *Name, comp component.Component, ext *component.Extension, mapping typemap.Mapping, schemaType string) *Value {
	v := &Value{base: newBase(name, comp, ext), mapping: mapping, schemaType: schemaType}
	switch v.componentKind() {
	case component.KindAttribute:
		v.content = Content{Attributes: true}
	case component.KindElement:
		v.content = Content{Elements: true}
	default:
		v.content = Content{Text: true}
	}
	return v
}

// Kind returns KindValue.
func (v *Value) Kind() Kind { return KindValue }

// IsOptional always returns false.
func (v *Value) IsOptional() bool { return false }

// IsCollection always returns false.
func (v *Value) IsCollection() bool { return false }

// Mapping returns the type mapping.
func (v *Value) Mapping() typemap.Mapping { return v.mapping }

// SchemaType returns the original schema type name.
func (v *Value) SchemaType() string { return v.schemaType }

// Any is a wildcard content leaf. It carries no type mapping of its own.
type Any struct {
	base
	multiplicity
}

// NewAny returns a wildcard leaf, classified as attribute data for attribute
// wildcards and element data otherwise.
func NewAny(name *Name, comp component.Component, ext *component.Extension) *Any {
	a := &Any{base: newBase(name, comp, ext)}
	if a.componentKind() == component.KindAnyAttribute {
		a.content = Content{Attributes: true}
	} else {
		a.content = Content{Elements: true}
	}
	return a
}

// Kind returns KindAny.
func (a *Any) Kind() Kind { return KindAny }

// Content returns the fixed classification; AllOptional follows multiplicity.
func (a *Any) Content() Content {
	c := a.content
	c.AllOptional = a.optional
	return c
}

// IsAttributeWildcard reports whether a matches attributes.
func (a *Any) IsAttributeWildcard() bool { return a.componentKind() == component.KindAnyAttribute }

// Mapping returns the sentinel mapping for the wildcard kind.
func (a *Any) Mapping() typemap.Mapping {
	if a.IsAttributeWildcard() {
		return typemap.AnyAttribute()
	}
	return typemap.AnyElement()
}
