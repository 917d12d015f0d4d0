package item

import (
	"github.com/broady/schemaplan/component"
)

// Reference is a use site of a Definition. It points to, but does not own, its
// target, and carries its own multiplicity.
type Reference struct {
	base
	multiplicity

	target     *Definition
	consumed   bool
	classified bool
}

// NewReference returns a reference to target and counts it against target.
func NewReference(name *Name, comp component.Component, ext *component.Extension, target *Definition) *Reference {
	r := &Reference{base: newBase(name, comp, ext), target: target}
	target.refCount++
	return r
}

// Kind returns KindReference.
func (r *Reference) Kind() Kind { return KindReference }

// Target returns the referenced definition.
func (r *Reference) Target() *Definition { return r.target }

// Consumed reports whether the reference was replaced by inlining or released.
func (r *Reference) Consumed() bool { return r.consumed }

// IsStructural reports whether the reference is to an element or attribute
// (classified from its own component) rather than to a type or group.
func (r *Reference) IsStructural() bool {
	k := r.componentKind()
	return k.IsElement() || k.IsAttribute()
}

// release drops r's count on its target. Each reference is released at most once.
func (r *Reference) release() {
	if r.consumed {
		return
	}
	r.consumed = true
	r.target.refCount--
}
