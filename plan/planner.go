package plan

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/broady/schemaplan/component"
	"github.com/broady/schemaplan/diag"
	"github.com/broady/schemaplan/imports"
	"github.com/broady/schemaplan/item"
	"github.com/broady/schemaplan/names"
	"github.com/broady/schemaplan/typemap"
)

// Options configures a Planner.
type Options struct {
	// Package is the package of generated classes. Empty means the default package.
	Package string

	// ListType is the declared type of repeated fields.
	// Default: "java.util.List"
	ListType string

	// ListImplementation is the collection class instantiated for repeated
	// fields when no customization overrides it.
	// Default: "java.util.ArrayList"
	ListImplementation string

	// Interfaces are implemented by every top-level class.
	Interfaces []string

	// Logger receives debug output. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Diagnostics receives configuration diagnostics. If nil, they are dropped.
	Diagnostics *diag.List
}

// Planner builds a Model from resolved definitions. A Planner is used for one run.
type Planner struct {
	opts    Options
	logger  *slog.Logger
	diags   *diag.List
	classes *names.Scope
}

// New returns a Planner.
func New(opts Options) *Planner {
	if opts.ListType == "" {
		opts.ListType = "java.util.List"
	}
	if opts.ListImplementation == "" {
		opts.ListImplementation = "java.util.ArrayList"
	}
	p := &Planner{opts: opts, logger: opts.Logger, diags: opts.Diagnostics}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.diags == nil {
		p.diags = &diag.List{}
	}
	p.classes = names.NewClassScope("package " + opts.Package)
	return p
}

func (p *Planner) qualify(simple string) string {
	if p.opts.Package == "" {
		return simple
	}
	return p.opts.Package + "." + simple
}

// Plan assigns classes to the standalone definitions and describes every class
// to generate. defs is normally the output of the resolver.
func (p *Planner) Plan(defs []*item.Definition) (*Model, error) {
	model := &Model{Package: p.opts.Package}

	// External classes in the target package keep their names.
	for _, d := range defs {
		if d.Pregenerated() && d.Class().Package() == p.opts.Package {
			p.classes.Reserve(d.Class().SimpleName())
		}
	}

	var owners []*item.Definition
	for _, d := range defs {
		if !d.IsStandalone() || d.Pregenerated() || d.TypeIsomorphic() {
			continue
		}
		if err := p.assignClass(d); err != nil {
			return nil, err
		}
		owners = append(owners, d)
	}

	seen := make(map[string]bool)
	for _, d := range defs {
		if !d.IsStandalone() {
			continue
		}
		td, err := d.GeneratedClass()
		if err != nil {
			return nil, err
		}
		q := d.QName()
		if seen[q] {
			p.diags.Errorf(diag.CodeDuplicateDefName, item.Subject(d), "qualified name %s is bound twice", q)
			continue
		}
		seen[q] = true
		model.Bindings = append(model.Bindings, Binding{
			QName:        q,
			Class:        td.BindingName,
			Pregenerated: td.Pregenerated,
			Shared:       d.TypeIsomorphic(),
		})
	}

	for _, d := range owners {
		classes, err := p.planUnit(d)
		if err != nil {
			return nil, err
		}
		model.Classes = append(model.Classes, classes...)
	}
	return model, nil
}

func (p *Planner) assignClass(d *item.Definition) error {
	base := d.Name().Text()
	if base == "" && d.Component() != nil {
		base = d.Component().Name().Local
	}
	if base == "" {
		base = "Anonymous"
	}
	simple := names.ClassName(base)
	if d.Name().IsFixed() {
		simple = d.Name().Text()
	}
	err := p.classes.Assign(d.Name(), simple)
	var conflict *names.ConflictError
	switch {
	case errors.As(err, &conflict):
		p.diags.Errorf(diag.CodeNameConflict, item.Subject(d), "class name %s is already used", conflict.Name)
		simple = p.classes.Claim(simple)
	case err != nil:
		return err
	default:
		simple = d.Name().Text()
	}
	return d.SetClass(item.NewTypeData(p.qualify(simple)))
}

// unit collects the classes generated into one top-level class file.
type unit struct {
	p       *Planner
	alloc   *imports.Allocator
	nested  *names.Scope
	classes []*ClassDescriptor
	pending []pendingField
	supers  []pendingSuper
}

type pendingField struct {
	cls *ClassDescriptor
	idx int
	typ typeExpr
}

type pendingSuper struct {
	cls *ClassDescriptor
	typ typeExpr
}

func (p *Planner) planUnit(d *item.Definition) ([]*ClassDescriptor, error) {
	td := d.Class()
	simple := td.SimpleName()
	u := &unit{
		p:      p,
		alloc:  imports.New(p.opts.Package, simple),
		nested: names.NewClassScope("class " + td.FullName),
	}
	u.nested.Reserve(simple)
	topType := imports.Type{Package: p.opts.Package, Name: simple}
	if err := u.alloc.AddLocal(topType); err != nil {
		return nil, err
	}

	top := &ClassDescriptor{
		SimpleName:  simple,
		FullName:    td.FullName,
		BindingName: td.BindingName,
		Definition:  d.QName(),
		Interfaces:  p.opts.Interfaces,
	}
	for _, iface := range p.opts.Interfaces {
		if err := parseType(iface).request(u.alloc); err != nil {
			return nil, err
		}
	}
	if err := u.fill(top, topType, d, d.Extension()); err != nil {
		return nil, err
	}
	if err := u.finish(); err != nil {
		return nil, err
	}
	top.Imports = u.alloc.Freeze()

	if top.SimpleValue {
		td.SimpleValue = true
	}
	if len(top.Fields) == 0 && top.SuperClass == "" {
		p.diags.Warnf(diag.CodeEmptyDefinition, item.Subject(d), "class %s has no content", top.FullName)
	}
	p.logger.Debug("planned class",
		slog.String("class", top.FullName),
		slog.Int("fields", len(top.Fields)),
		slog.Int("nested", len(u.classes)-1),
		slog.Int("imports", len(top.Imports)))
	return u.classes, nil
}

// fill adds cls to the unit and populates it from the children of c.
func (u *unit) fill(cls *ClassDescriptor, typ imports.Type, c item.Container, ext *component.Extension) error {
	u.classes = append(u.classes, cls)
	if ext != nil && ext.BaseClass != "" {
		cls.SuperClass = ext.BaseClass
		cls.ForcedSuper = true
		u.supers = append(u.supers, pendingSuper{cls: cls, typ: parseType(ext.BaseClass)})
	}
	b := &classBuilder{u: u, cls: cls, typ: typ, scope: names.NewScope("class " + cls.FullName)}
	for _, child := range c.Children() {
		if err := b.add(child, multiplicity{}); err != nil {
			return err
		}
	}
	cls.SimpleValue = len(cls.Fields) == 1 && cls.Fields[0].Kind == FieldText && cls.SuperClass == ""
	return nil
}

// finish registers every type the unit uses, then resolves the names to write
// and builds the accessors. Registration completes before the first
// resolution so that local names are settled first.
func (u *unit) finish() error {
	for _, s := range u.supers {
		if err := s.typ.request(u.alloc); err != nil {
			return err
		}
	}
	for _, pf := range u.pending {
		if err := pf.typ.request(u.alloc); err != nil {
			return err
		}
	}
	for _, pf := range u.pending {
		f := &pf.cls.Fields[pf.idx]
		f.LocalType = pf.typ.local(u.alloc)
		prefix := "get"
		if f.Type == "boolean" {
			prefix = "is"
		}
		pf.cls.Methods = append(pf.cls.Methods,
			MethodDescriptor{Name: names.PropertyMethod(prefix, f.Name), Returns: f.LocalType, Field: f.Name},
			MethodDescriptor{
				Name:    names.PropertyMethod("set", f.Name),
				Returns: "void",
				Params:  []ParamDescriptor{{Name: f.Name, Type: f.LocalType}},
				Field:   f.Name,
			})
	}
	return nil
}

type multiplicity struct {
	optional bool
	repeated bool
}

func (m multiplicity) with(it item.Item) multiplicity {
	return multiplicity{optional: m.optional || it.IsOptional(), repeated: m.repeated || it.IsCollection()}
}

// classBuilder adds the fields of one class.
type classBuilder struct {
	u     *unit
	cls   *ClassDescriptor
	typ   imports.Type
	scope *names.Scope
}

func (b *classBuilder) add(it item.Item, m multiplicity) error {
	switch n := it.(type) {
	case *item.Group:
		m = m.with(n)
		kind := componentKind(n)
		if kind.IsElement() || kind.IsAttribute() {
			if v, ok := singleValue(n); ok {
				return b.valueField(n, v, m)
			}
			if kind.IsElement() {
				return b.nestedField(n, m)
			}
		}
		if kind == component.KindChoice {
			m.optional = true
		}
		for _, child := range n.Children() {
			if err := b.add(child, m); err != nil {
				return err
			}
		}
		return nil
	case *item.Reference:
		return b.referenceField(n, m.with(n))
	case *item.Value:
		return b.valueField(nil, n, m)
	case *item.Any:
		return b.anyField(n, m.with(n))
	default:
		return diag.Internalf("plan", item.Subject(it), "unexpected %s in class body", it.Kind())
	}
}

func componentKind(it item.Item) component.Kind {
	if it.Component() == nil {
		return 0
	}
	return it.Component().Kind()
}

// singleValue returns the value of a group that wraps exactly one value.
func singleValue(g *item.Group) (*item.Value, bool) {
	if g.Len() != 1 {
		return nil, false
	}
	v, ok := g.Child(0).(*item.Value)
	return v, ok
}

// schemaName returns the local name of the component behind it, following
// ref="..." particles, or the item's name text.
func schemaName(it item.Item) string {
	if comp := it.Component(); comp != nil {
		if !comp.Name().IsZero() {
			return comp.Name().Local
		}
		if ref := comp.Ref(); ref != nil && !ref.Name().IsZero() {
			return ref.Name().Local
		}
	}
	return it.Name().Text()
}

func (b *classBuilder) list(elem typeExpr) typeExpr {
	return generic(imports.Parse(b.u.p.opts.ListType), elem)
}

func (b *classBuilder) listImplementation(it item.Item) string {
	if ext := it.Extension(); ext != nil && ext.ListImplementation != "" {
		return ext.ListImplementation
	}
	return b.u.p.opts.ListImplementation
}

// addField names f, records it and queues its type for import resolution.
func (b *classBuilder) addField(it item.Item, base string, f FieldDescriptor, typ typeExpr) error {
	n := it.Name()
	if n.IsSet() {
		base = n.Text()
	}
	err := b.scope.Assign(n, names.FieldName(base))
	var conflict *names.ConflictError
	switch {
	case errors.As(err, &conflict):
		b.u.p.diags.Errorf(diag.CodeNameConflict, item.Subject(it), "field name %s is already used in %s", conflict.Name, b.cls.FullName)
		f.Name = b.scope.Claim(names.FieldName(base))
	case err != nil:
		return err
	default:
		f.Name = n.Text()
	}
	f.Type = typ.String()
	if f.Repeated && f.Implementation == "" {
		f.Implementation = b.listImplementation(it)
	}
	b.cls.Fields = append(b.cls.Fields, f)
	b.u.pending = append(b.u.pending, pendingField{cls: b.cls, idx: len(b.cls.Fields) - 1, typ: typ})
	return nil
}

func (b *classBuilder) valueField(g *item.Group, v *item.Value, m multiplicity) error {
	var holder item.Item = v
	if g != nil {
		holder = g
	}
	mapping := v.Mapping()
	f := FieldDescriptor{
		SchemaName: schemaName(holder),
		Optional:   m.optional,
		Repeated:   m.repeated,
		Format:     mapping.Format,
	}
	content := v.Content()
	base := f.SchemaName
	switch {
	case g == nil && ownValue(v):
		f.Kind = FieldText
		f.SchemaName = ""
		base = "value"
	case content.Attributes:
		f.Kind = FieldAttribute
	case content.Elements:
		f.Kind = FieldElement
	default:
		f.Kind = FieldText
		f.SchemaName = ""
		base = "value"
	}
	typ := parseType(mapping.TypeFor(m.optional, m.repeated))
	if m.repeated {
		typ = b.list(typ)
	}
	return b.addField(holder, base, f, typ)
}

// ownValue reports whether v is the simple content of the definition it sits
// in, as for a global element with a simple type.
func ownValue(v *item.Value) bool {
	p := v.Parent()
	return p != nil && v.Component() != nil && p.Component() == v.Component()
}

func (b *classBuilder) referenceField(r *item.Reference, m multiplicity) error {
	td, err := r.Target().GeneratedClass()
	if err != nil {
		return err
	}
	elem := named(classType(td))
	targetKind := componentKind(r.Target())

	// A required type reference ahead of all other content is the base type.
	if !r.IsStructural() && targetKind.IsType() && !m.optional && !m.repeated &&
		len(b.cls.Fields) == 0 && b.cls.SuperClass == "" {
		b.cls.SuperClass = td.FullName
		b.u.supers = append(b.u.supers, pendingSuper{cls: b.cls, typ: elem})
		return nil
	}

	f := FieldDescriptor{
		SchemaName: schemaName(r),
		Kind:       FieldElement,
		Optional:   m.optional,
		Repeated:   m.repeated,
	}
	if componentKind(r).IsAttribute() {
		f.Kind = FieldAttribute
	}
	base := f.SchemaName
	if !r.IsStructural() {
		f.SchemaName = ""
		base = td.SimpleName()
	}
	typ := elem
	if m.repeated {
		typ = b.list(elem)
	}
	return b.addField(r, base, f, typ)
}

func (b *classBuilder) nestedField(g *item.Group, m multiplicity) error {
	schema := schemaName(g)
	simple := b.u.nested.Claim(names.ClassName(schema))
	nestedType := imports.Type{Package: b.typ.Package, Name: b.typ.Name + "." + simple}
	if err := b.u.alloc.AddLocal(nestedType); err != nil {
		return err
	}
	nested := &ClassDescriptor{
		SimpleName:  simple,
		FullName:    b.cls.FullName + "." + simple,
		BindingName: b.cls.BindingName + "$" + simple,
		Outer:       b.cls.FullName,
	}
	if err := b.u.fill(nested, nestedType, g, g.Extension()); err != nil {
		return err
	}

	f := FieldDescriptor{
		SchemaName: schema,
		Kind:       FieldElement,
		Optional:   m.optional,
		Repeated:   m.repeated,
	}
	typ := named(nestedType)
	if m.repeated {
		typ = b.list(typ)
	}
	return b.addField(g, schema, f, typ)
}

func (b *classBuilder) anyField(a *item.Any, m multiplicity) error {
	mapping := a.Mapping()
	f := FieldDescriptor{
		Kind:     FieldAny,
		Optional: m.optional,
		Format:   mapping.Format,
	}
	if a.IsAttributeWildcard() {
		return b.addField(a, "otherAttributes", f, parseType(mapping.Object))
	}
	f.Repeated = m.repeated
	typ := parseType(typemap.AnyElement().Object)
	if m.repeated {
		typ = b.list(typ)
	}
	return b.addField(a, "any", f, typ)
}

// classType splits a class into package and class path using the binding
// name, which marks nesting with '$'.
func classType(td *item.TypeData) imports.Type {
	pkg := td.Package()
	name := td.FullName
	if pkg != "" {
		name = strings.TrimPrefix(name, pkg+".")
	}
	return imports.Type{Package: pkg, Name: name}
}
