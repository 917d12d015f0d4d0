package item

import (
	"strings"

	"github.com/broady/schemaplan/component"
	"github.com/broady/schemaplan/diag"
)

// TypeData describes a resolved output class.
type TypeData struct {
	// FullName is the dotted fully qualified name (pkg.Outer.Inner).
	FullName string

	// BindingName is the name used by the serialization mapping; nested classes
	// use '$' between outer and inner names (pkg.Outer$Inner).
	BindingName string

	// Pregenerated marks a class supplied externally that is never regenerated.
	Pregenerated bool

	// SimpleValue marks a class that behaves as a scalar.
	SimpleValue bool
}

// NewTypeData returns type data for a top-level class.
func NewTypeData(fullName string) *TypeData {
	return &TypeData{FullName: fullName, BindingName: fullName}
}

// Package returns the package part of FullName, derived from BindingName so that
// nested classes resolve to the package of their outer class.
func (t *TypeData) Package() string {
	top := t.BindingName
	if i := strings.IndexByte(top, '$'); i >= 0 {
		top = top[:i]
	}
	if i := strings.LastIndexByte(top, '.'); i >= 0 {
		return top[:i]
	}
	return ""
}

// SimpleName returns the last segment of FullName.
func (t *TypeData) SimpleName() string {
	if i := strings.LastIndexByte(t.FullName, '.'); i >= 0 {
		return t.FullName[i+1:]
	}
	return t.FullName
}

// Definition is a top-level schema structure (global type, element, group or
// attribute group) eligible to become its own generated class.
type Definition struct {
	Group

	refCount       int
	inlineBlocked  bool
	inlined        bool
	checked        bool // classification in progress
	typeIsomorphic bool
	synthesized    bool

	qname     string
	qnameDone bool

	class *TypeData
}

// NewDefinition returns a top-level definition. A ClassName override in ext binds
// it to an external class, which makes it pregenerated and blocks inlining.
func NewDefinition(name *Name, comp component.Component, ext *component.Extension) *Definition {
	d := &Definition{}
	d.Group = Group{base: newBase(name, comp, ext)}
	d.self = d
	if ext != nil && ext.ClassName != "" {
		d.class = &TypeData{FullName: ext.ClassName, BindingName: ext.ClassName, Pregenerated: true}
		d.inlineBlocked = true
	}
	return d
}

// Kind returns KindDefinition.
func (d *Definition) Kind() Kind { return KindDefinition }

// RefCount returns the number of live references to d.
func (d *Definition) RefCount() int { return d.refCount }

// Pregenerated reports whether d is bound to an externally supplied class.
func (d *Definition) Pregenerated() bool { return d.class != nil && d.class.Pregenerated }

// InlineBlocked reports whether d is forced to stay a standalone class.
func (d *Definition) InlineBlocked() bool { return d.inlineBlocked }

// SetInlineBlocked sets the blocked flag. Unblocking a pregenerated definition
// is an internal consistency failure.
func (d *Definition) SetInlineBlocked(blocked bool) error {
	if !blocked && d.Pregenerated() {
		return diag.Internalf("unblock", Subject(d), "pregenerated definition can never be inlined")
	}
	d.inlineBlocked = blocked
	return nil
}

// CanInline reports whether d is currently eligible for inlining.
func (d *Definition) CanInline() bool {
	return !d.inlineBlocked && !d.Pregenerated() && d.refCount <= 1
}

// Inlined reports whether d's single use has been replaced by a copy, so that d
// no longer owns a generated class.
func (d *Definition) Inlined() bool { return d.inlined }

// IsStandalone reports whether d owns (or shares) a generated class.
func (d *Definition) IsStandalone() bool { return !d.inlined }

// TypeIsomorphic reports whether d shares the class of the type it references
// while still needing its own mapping entry.
func (d *Definition) TypeIsomorphic() bool { return d.typeIsomorphic }

// SetTypeIsomorphic sets the type-isomorphic flag.
func (d *Definition) SetTypeIsomorphic(v bool) { d.typeIsomorphic = v }

// Synthesized reports whether d was created by promoting an embedded group.
func (d *Definition) Synthesized() bool { return d.synthesized }

// Class returns the class assigned to d itself, or nil.
func (d *Definition) Class() *TypeData { return d.class }

// SetClass assigns d's own generated class. Pregenerated classes cannot be replaced.
func (d *Definition) SetClass(t *TypeData) error {
	if d.Pregenerated() {
		return diag.Internalf("assign class", Subject(d), "pregenerated class %s cannot be replaced", d.class.FullName)
	}
	d.class = t
	return nil
}

// QName returns the qualified name used for binding entries. It is derived from
// the component once and cached. Group and attribute-group definitions get a
// suffix so they cannot collide with a type or element of the same name.
func (d *Definition) QName() string {
	if d.qnameDone {
		return d.qname
	}
	var q string
	if d.comp != nil && !d.comp.Name().IsZero() {
		q = d.comp.Name().String()
		switch d.comp.Kind() {
		case component.KindGroup:
			q += "$group"
		case component.KindAttributeGroup:
			q += "$attributeGroup"
		}
	} else {
		q = d.name.Text()
	}
	if q == "" {
		// Unnamed and not yet assigned: don't cache.
		return "<anonymous>"
	}
	d.qname = q
	d.qnameDone = true
	return q
}

// GeneratedClass resolves the class that represents d. A definition without its
// own class (or marked type-isomorphic) must consist of exactly one reference;
// the chain of such references is followed to the class owner.
func (d *Definition) GeneratedClass() (*TypeData, error) {
	seen := make(map[*Definition]bool)
	cur := d
	for {
		if cur.class != nil && (!cur.typeIsomorphic || cur.Pregenerated()) {
			return cur.class, nil
		}
		if seen[cur] {
			return nil, diag.Internalf("generated class", Subject(d), "reference chain loops through %s", Subject(cur))
		}
		seen[cur] = true
		if len(cur.children) != 1 {
			return nil, diag.Internalf("generated class", Subject(d), "%s has %d children, want a single reference", Subject(cur), len(cur.children))
		}
		ref, ok := cur.children[0].(*Reference)
		if !ok {
			return nil, diag.Internalf("generated class", Subject(d), "%s has a single %s child, want a reference", Subject(cur), cur.children[0].Kind())
		}
		cur = ref.target
	}
}
