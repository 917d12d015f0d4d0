package item

import (
	"github.com/broady/schemaplan/diag"
)

// copier clones subtrees, keeping names shared inside the copy where they were
// shared in the original.
type copier struct {
	names map[*Name]*Name
}

func newCopier() *copier {
	return &copier{names: make(map[*Name]*Name)}
}

func (c *copier) name(n *Name) *Name {
	if cp, ok := c.names[n]; ok {
		return cp
	}
	cp := n.clone()
	c.names[n] = cp
	return cp
}

// item returns a detached clone of it. Definitions are cloned as groups.
func (c *copier) item(it Item) Item {
	switch n := it.(type) {
	case *Definition:
		return c.group(&n.Group)
	case *Group:
		return c.group(n)
	case *Reference:
		r := NewReference(c.name(n.name), n.comp, n.ext, n.target)
		r.multiplicity = n.multiplicity
		r.content = n.content
		r.classified = n.classified
		return r
	case *Value:
		v := &Value{base: newBase(c.name(n.name), n.comp, n.ext), mapping: n.mapping, schemaType: n.schemaType}
		v.content = n.content
		return v
	case *Any:
		a := &Any{base: newBase(c.name(n.name), n.comp, n.ext), multiplicity: n.multiplicity}
		a.content = n.content
		return a
	default:
		panic("item: unknown item variant")
	}
}

func (c *copier) group(src *Group) *Group {
	g := NewGroup(c.name(src.name), src.comp, src.ext)
	g.multiplicity = src.multiplicity
	g.content = src.content
	g.classified = src.classified
	c.children(src, g)
	return g
}

func (c *copier) children(src, dst *Group) {
	for _, child := range src.children {
		cp := c.item(child)
		cp.core().parent = dst.self
		dst.children = append(dst.children, cp)
	}
}

// Copy returns a detached structural clone of it. Copied references count
// against their targets. Copying a Definition yields a Group.
func Copy(it Item) Item {
	return newCopier().item(it)
}

// CopyInto clones it and appends the clone to parent.
func CopyInto(it Item, parent Container) (Item, error) {
	cp := Copy(it)
	if err := parent.group().Append(cp); err != nil {
		Release(cp)
		return nil, err
	}
	return cp, nil
}

// Release drops the counts held by every reference in a detached subtree.
func Release(it Item) {
	Walk(it, func(n Item) bool {
		if r, ok := n.(*Reference); ok {
			r.release()
		}
		return true
	})
}

// InlineReference replaces ref, in place, with a fresh Group holding a copy of its
// target's content. The group takes the reference's name and multiplicity; its
// extension comes from the reference site for element and attribute references
// and from the definition for type and group references. ref is consumed.
func InlineReference(ref *Reference) (*Group, error) {
	if ref.consumed {
		return nil, diag.Internalf("inline", Subject(ref), "reference already consumed")
	}
	target := ref.target
	if target.Pregenerated() {
		return nil, diag.Internalf("inline", Subject(target), "pregenerated definition cannot be inlined")
	}
	if target.refCount > 1 {
		return nil, diag.Internalf("inline", Subject(target), "definition has %d references", target.refCount)
	}
	parent := ref.parent
	if parent == nil {
		return nil, diag.Internalf("inline", Subject(ref), "reference has no parent")
	}

	comp, ext := target.comp, target.ext
	if ref.IsStructural() {
		comp, ext = ref.comp, ref.ext
	}
	g := NewGroup(ref.name, comp, ext)
	g.multiplicity = ref.multiplicity
	if target.classified {
		g.content = target.content
		if ref.optional {
			g.content.AllOptional = true
		}
		g.classified = true
	}
	newCopier().children(&target.Group, g)

	if err := parent.group().ReplaceChild(ref, g); err != nil {
		Release(g)
		return nil, err
	}
	ref.release()
	target.inlined = true
	return g, nil
}

// PromoteGroup converts an embedded group into a synthesized top-level Definition
// that takes over the group's children, and puts a Reference to it where the
// group was. The reference keeps the group's name and multiplicity.
func PromoteGroup(g *Group, name *Name) (*Definition, *Reference, error) {
	parent := g.parent
	if parent == nil {
		return nil, nil, diag.Internalf("promote", Subject(g), "group has no parent")
	}
	d := NewDefinition(name, g.comp, g.ext)
	d.synthesized = true
	d.children = g.children
	for _, child := range d.children {
		child.core().parent = d
	}
	g.children = nil
	d.content = g.content
	d.classified = g.classified

	r := NewReference(g.name, g.comp, g.ext, d)
	r.multiplicity = g.multiplicity
	r.content = g.content
	r.classified = g.classified
	if err := parent.group().ReplaceChild(g, r); err != nil {
		return nil, nil, err
	}
	return d, r, nil
}

// MergeGroup replaces g with a Reference to d, an existing definition holding
// content isomorphic to g. The discarded subtree releases its references.
func MergeGroup(g *Group, d *Definition) (*Reference, error) {
	parent := g.parent
	if parent == nil {
		return nil, diag.Internalf("merge", Subject(g), "group has no parent")
	}
	r := NewReference(g.name, g.comp, g.ext, d)
	r.multiplicity = g.multiplicity
	r.content = g.content
	r.classified = g.classified
	if err := parent.group().ReplaceChild(g, r); err != nil {
		r.release()
		return nil, err
	}
	Release(g)
	return r, nil
}
