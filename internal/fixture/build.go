package fixture

import (
	"github.com/broady/schemaplan/component"
	"github.com/broady/schemaplan/diag"
	"github.com/broady/schemaplan/item"
	"github.com/broady/schemaplan/typemap"
)

// Result is a built schema: its global definitions, in declaration order
// (types, elements, groups, attribute groups), and the problems found.
// Content with problems is left out, so the tree is best effort.
type Result struct {
	Definitions []*item.Definition
	Diagnostics *diag.List
}

// Definition returns the definition with the given qualified name, or nil.
func (r *Result) Definition(qname string) *item.Definition {
	for _, d := range r.Definitions {
		if d.QName() == qname {
			return d
		}
	}
	return nil
}

type parent interface {
	Append(item.Item) error
}

type multiplier interface {
	SetOptional(bool)
	SetCollection(bool)
}

type builder struct {
	ns    string
	diags *diag.List
	err   error

	simple     map[string]typemap.Mapping
	types      map[string]*item.Definition
	elements   map[string]*item.Definition
	groups     map[string]*item.Definition
	attrGroups map[string]*item.Definition
}

// Build builds the definitions of s. Parse has already checked its shape;
// unknown types and unresolved names become diagnostics. An error is
// returned only for internal-consistency failures.
func (s *Schema) Build() (*Result, error) {
	b := &builder{
		ns:         s.Namespace,
		diags:      &diag.List{},
		simple:     make(map[string]typemap.Mapping),
		types:      make(map[string]*item.Definition),
		elements:   make(map[string]*item.Definition),
		groups:     make(map[string]*item.Definition),
		attrGroups: make(map[string]*item.Definition),
	}

	// Simple types first, so complex content can use them in any order.
	for _, t := range s.Types {
		if t.Simple == "" {
			continue
		}
		m, def, ok := b.lookup(t.Simple)
		if !ok || def != nil {
			b.diags.Errorf(diag.CodeUnknownType, "simpleType "+t.Name, "restriction base %s is not a simple type", t.Simple)
			continue
		}
		b.simple[t.Name] = m
	}

	typeDefs := make([]*item.Definition, len(s.Types))
	for i, t := range s.Types {
		if t.Simple == "" {
			typeDefs[i] = b.declare(b.types, component.KindComplexType, t.Name, t.Custom)
		}
	}
	elemDefs := make([]*item.Definition, len(s.Elements))
	for i, e := range s.Elements {
		elemDefs[i] = b.declare(b.elements, component.KindElement, e.Name, e.Custom)
	}
	groupDefs := make([]*item.Definition, len(s.Groups))
	for i, g := range s.Groups {
		groupDefs[i] = b.declare(b.groups, component.KindGroup, g.Name, g.Custom)
	}
	attrGroupDefs := make([]*item.Definition, len(s.AttributeGroups))
	for i, g := range s.AttributeGroups {
		attrGroupDefs[i] = b.declare(b.attrGroups, component.KindAttributeGroup, g.Name, g.Custom)
	}

	res := &Result{Diagnostics: b.diags}
	for i, t := range s.Types {
		if d := typeDefs[i]; d != nil {
			b.fillBody(d, t.Body, "complexType "+t.Name)
			res.Definitions = append(res.Definitions, d)
		}
	}
	for i, e := range s.Elements {
		if d := elemDefs[i]; d != nil {
			b.globalElement(d, e)
			res.Definitions = append(res.Definitions, d)
		}
	}
	for i, g := range s.Groups {
		if d := groupDefs[i]; d != nil {
			subject := "group " + g.Name
			b.add(d, b.compositor(component.KindSequence, g.Sequence, subject))
			b.add(d, b.compositor(component.KindChoice, g.Choice, subject))
			b.add(d, b.compositor(component.KindAll, g.All, subject))
			res.Definitions = append(res.Definitions, d)
		}
	}
	for i, g := range s.AttributeGroups {
		if d := attrGroupDefs[i]; d != nil {
			for _, a := range g.Attributes {
				b.add(d, b.attribute(a, "attributeGroup "+g.Name))
			}
			res.Definitions = append(res.Definitions, d)
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return res, nil
}

func (b *builder) declare(table map[string]*item.Definition, kind component.Kind, name string, c Custom) *item.Definition {
	subject := kind.String() + " " + name
	if table[name] != nil {
		b.diags.Errorf(diag.CodeDuplicateDefName, subject, "%s %s is declared twice", kind, name)
		return nil
	}
	d := item.NewDefinition(b.name(name, c), component.New(kind, b.ns, name), b.extension(c, subject))
	table[name] = d
	return d
}

func (b *builder) name(text string, c Custom) *item.Name {
	if c.Rename != "" {
		return item.FixedName(c.Rename)
	}
	return item.NewName(text)
}

func (b *builder) extension(c Custom, subject string) *component.Extension {
	if c.External && c.Class == "" {
		b.diags.Errorf(diag.CodeMissingOverride, subject, "external component has no class binding")
	}
	ext := &component.Extension{
		BaseClass:          c.BaseClass,
		ClassName:          c.Class,
		ListImplementation: c.ListImplementation,
	}
	if ext.IsZero() {
		return nil
	}
	return ext
}

// lookup resolves a type name to a simple type mapping or a complex type
// definition.
func (b *builder) lookup(typeName string) (typemap.Mapping, *item.Definition, bool) {
	if m, ok := b.simple[typeName]; ok {
		return m, nil, true
	}
	if m, ok := typemap.Lookup(typeName); ok {
		return m, nil, true
	}
	if d := b.types[typeName]; d != nil {
		return typemap.Mapping{}, d, true
	}
	return typemap.Mapping{}, nil, false
}

// add appends it to p. A nil item is skipped.
func (b *builder) add(p parent, it item.Item) {
	if it == nil {
		return
	}
	if err := p.Append(it); err != nil && b.err == nil {
		b.err = err
	}
}

func (b *builder) fillBody(p parent, body Body, subject string) {
	if body.Base != "" {
		if base := b.types[body.Base]; base != nil {
			b.add(p, item.NewReference(nil, component.NewRef(base.Component()), nil, base))
		} else {
			b.diags.Errorf(diag.CodeUnresolvedRef, subject, "base type %s is not declared", body.Base)
		}
	}
	if body.Text != "" {
		m, def, ok := b.lookup(body.Text)
		if ok && def == nil {
			b.add(p, item.NewValue(nil, nil, nil, m, body.Text))
		} else {
			b.diags.Errorf(diag.CodeUnknownType, subject, "text content type %s is not a simple type", body.Text)
		}
	}
	b.add(p, b.compositor(component.KindSequence, body.Sequence, subject))
	b.add(p, b.compositor(component.KindChoice, body.Choice, subject))
	b.add(p, b.compositor(component.KindAll, body.All, subject))
	for _, a := range body.Attributes {
		b.add(p, b.attribute(a, subject))
	}
}

// compositor returns a group of the given compositor kind, or nil when
// there are no particles.
func (b *builder) compositor(kind component.Kind, particles []Particle, subject string) item.Item {
	if len(particles) == 0 {
		return nil
	}
	g := item.NewGroup(nil, component.New(kind, "", ""), nil)
	for _, pt := range particles {
		b.add(g, b.particle(pt, subject))
	}
	return g
}

func (b *builder) particle(pt Particle, subject string) item.Item {
	ext := b.extension(pt.Custom, subject)
	var it item.Item
	switch {
	case pt.Any:
		it = item.NewAny(nil, component.New(component.KindAny, "", ""), ext)
	case pt.Ref != "":
		d := b.elements[pt.Ref]
		if d == nil {
			b.diags.Errorf(diag.CodeUnresolvedRef, subject, "element %s is not declared", pt.Ref)
			return nil
		}
		it = item.NewReference(b.name("", pt.Custom), component.NewRef(d.Component()), ext, d)
	case pt.Group != "":
		d := b.groups[pt.Group]
		if d == nil {
			b.diags.Errorf(diag.CodeUnresolvedRef, subject, "group %s is not declared", pt.Group)
			return nil
		}
		it = item.NewReference(nil, component.NewRef(d.Component()), ext, d)
	case pt.Element != "":
		it = b.localElement(pt, ext)
	case len(pt.Sequence) > 0:
		it = b.compositor(component.KindSequence, pt.Sequence, subject)
	case len(pt.Choice) > 0:
		it = b.compositor(component.KindChoice, pt.Choice, subject)
	default:
		it = b.compositor(component.KindAll, pt.All, subject)
	}
	if it == nil {
		return nil
	}
	if m, ok := it.(multiplier); ok {
		m.SetOptional(pt.Optional)
		m.SetCollection(pt.Repeated)
	}
	return it
}

func (b *builder) localElement(pt Particle, ext *component.Extension) item.Item {
	subject := "element " + pt.Element
	comp := component.New(component.KindElement, "", pt.Element)
	n := b.name(pt.Element, pt.Custom)

	typeName := pt.Type
	if typeName == "" && pt.Body.textOnly() {
		typeName = pt.Text
	}
	if typeName == "" {
		if pt.Body.empty() {
			b.diags.Errorf(diag.CodeUnknownType, subject, "element has neither a type nor content")
			return nil
		}
		g := item.NewGroup(n, comp, ext)
		b.fillBody(g, pt.Body, subject)
		return g
	}

	m, def, ok := b.lookup(typeName)
	switch {
	case !ok:
		b.diags.Errorf(diag.CodeUnknownType, subject, "type %s has no mapping", typeName)
		return nil
	case def != nil:
		return item.NewReference(n, comp, ext, def)
	}
	g := item.NewGroup(n, comp, ext)
	b.add(g, item.NewValue(n, comp, nil, m, typeName))
	return g
}

func (b *builder) attribute(a Attr, subject string) item.Item {
	ext := b.extension(a.Custom, subject)
	switch {
	case a.Any:
		return item.NewAny(nil, component.New(component.KindAnyAttribute, "", ""), ext)
	case a.Group != "":
		d := b.attrGroups[a.Group]
		if d == nil {
			b.diags.Errorf(diag.CodeUnresolvedRef, subject, "attributeGroup %s is not declared", a.Group)
			return nil
		}
		return item.NewReference(nil, component.NewRef(d.Component()), ext, d)
	}

	typeName := a.Type
	if typeName == "" {
		typeName = "string"
	}
	m, def, ok := b.lookup(typeName)
	if !ok || def != nil {
		b.diags.Errorf(diag.CodeUnknownType, "attribute "+a.Attribute, "type %s is not a simple type", typeName)
		return nil
	}
	comp := component.New(component.KindAttribute, "", a.Attribute)
	n := b.name(a.Attribute, a.Custom)
	g := item.NewGroup(n, comp, ext)
	b.add(g, item.NewValue(n, comp, nil, m, typeName))
	g.SetOptional(!a.Required)
	return g
}

func (b *builder) globalElement(d *item.Definition, e ElementDecl) {
	subject := "element " + e.Name
	if e.Type == "" {
		b.fillBody(d, e.Body, subject)
		return
	}
	m, def, ok := b.lookup(e.Type)
	switch {
	case !ok:
		b.diags.Errorf(diag.CodeUnknownType, subject, "type %s has no mapping", e.Type)
	case def != nil:
		b.add(d, item.NewReference(nil, component.NewRef(def.Component()), nil, def))
	default:
		// The value carries the element's component so that an inlined ref
		// reads as element data. Its name stays separate from the class name.
		b.add(d, item.NewValue(nil, d.Component(), nil, m, e.Type))
	}
}
