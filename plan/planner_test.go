package plan

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/broady/schemaplan/component"
	"github.com/broady/schemaplan/diag"
	"github.com/broady/schemaplan/item"
	"github.com/broady/schemaplan/resolve"
	"github.com/broady/schemaplan/typemap"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func simple(t *testing.T, kind component.Kind, name, typ string) *item.Group {
	t.Helper()
	comp := component.New(kind, "", name)
	n := item.NewName(name)
	g := item.NewGroup(n, comp, nil)
	if err := g.Append(item.NewValue(n, comp, nil, typemap.MustLookup(typ), typ)); err != nil {
		t.Fatal(err)
	}
	return g
}

func element(t *testing.T, name, typ string) *item.Group {
	return simple(t, component.KindElement, name, typ)
}

func attribute(t *testing.T, name, typ string) *item.Group {
	return simple(t, component.KindAttribute, name, typ)
}

func complexType(t *testing.T, name string, ext *component.Extension, children ...item.Item) *item.Definition {
	t.Helper()
	d := item.NewDefinition(item.NewName(name), component.New(component.KindComplexType, "", name), ext)
	appendAll(t, d, children...)
	return d
}

func appendAll(t *testing.T, c interface{ Append(item.Item) error }, children ...item.Item) {
	t.Helper()
	for _, child := range children {
		if err := c.Append(child); err != nil {
			t.Fatal(err)
		}
	}
}

func sequence() *item.Group {
	return item.NewGroup(nil, component.New(component.KindSequence, "", ""), nil)
}

func newPlanner(diags *diag.List) *Planner {
	return New(Options{Package: "com.example", Logger: discard, Diagnostics: diags})
}

func TestPlan_ClassFields(t *testing.T) {
	seq := sequence()
	age := element(t, "age", "int")
	age.SetOptional(true)
	nick := element(t, "nickname", "string")
	nick.SetCollection(true)
	addr := item.NewGroup(item.NewName("address"), component.New(component.KindElement, "", "address"), nil)
	appendAll(t, addr, element(t, "street", "string"), element(t, "city", "string"))
	wildcard := item.NewAny(nil, component.New(component.KindAny, "", ""), nil)
	appendAll(t, seq, element(t, "name", "string"), age, element(t, "active", "boolean"), nick, addr, wildcard)
	person := complexType(t, "Person", nil, seq, attribute(t, "id", "int"))

	var diags diag.List
	m, err := newPlanner(&diags).Plan([]*item.Definition{person})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(m.Classes) != 2 {
		t.Fatalf("got %d classes, want 2", len(m.Classes))
	}
	top := m.Classes[0]
	if top.FullName != "com.example.Person" || top.Definition != "Person" {
		t.Errorf("top class = %s (definition %s)", top.FullName, top.Definition)
	}

	wantFields := []FieldDescriptor{
		{Name: "name", Type: "java.lang.String", LocalType: "String", Kind: FieldElement, SchemaName: "name"},
		{Name: "age", Type: "java.lang.Integer", LocalType: "Integer", Kind: FieldElement, SchemaName: "age", Optional: true, Format: "xsd:int"},
		{Name: "active", Type: "boolean", LocalType: "boolean", Kind: FieldElement, SchemaName: "active", Format: "xsd:boolean"},
		{Name: "nickname", Type: "java.util.List<java.lang.String>", LocalType: "List<String>", Kind: FieldElement, SchemaName: "nickname", Repeated: true, Implementation: "java.util.ArrayList"},
		{Name: "address", Type: "com.example.Person.Address", LocalType: "Address", Kind: FieldElement, SchemaName: "address"},
		{Name: "any", Type: "org.w3c.dom.Element", LocalType: "Element", Kind: FieldAny, Format: "dom-element"},
		{Name: "id", Type: "int", LocalType: "int", Kind: FieldAttribute, SchemaName: "id", Format: "xsd:int"},
	}
	if diff := cmp.Diff(wantFields, top.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"java.util.List", "org.w3c.dom.Element"}, top.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	nested := m.Classes[1]
	if nested.FullName != "com.example.Person.Address" || nested.BindingName != "com.example.Person$Address" || nested.Outer != "com.example.Person" {
		t.Errorf("nested class = %+v", nested)
	}
	if len(nested.Imports) != 0 || len(nested.Fields) != 2 {
		t.Errorf("nested class has %d imports, %d fields", len(nested.Imports), len(nested.Fields))
	}

	methods := make(map[string]MethodDescriptor)
	for _, md := range top.Methods {
		methods[md.Name] = md
	}
	if got := methods["isActive"]; got.Returns != "boolean" {
		t.Errorf("isActive = %+v", got)
	}
	if got := methods["getAge"]; got.Returns != "Integer" {
		t.Errorf("getAge = %+v", got)
	}
	if got := methods["setNickname"]; got.Returns != "void" || len(got.Params) != 1 || got.Params[0].Type != "List<String>" {
		t.Errorf("setNickname = %+v", got)
	}
	if len(top.Methods) != 2*len(top.Fields) {
		t.Errorf("got %d methods for %d fields", len(top.Methods), len(top.Fields))
	}

	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.Items())
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate: %v", errs)
	}
}

func TestPlan_TypeIsomorphicBindings(t *testing.T) {
	personType := complexType(t, "PersonType", nil, element(t, "name", "string"))
	person := item.NewDefinition(item.NewName("person"), component.New(component.KindElement, "", "person"), nil)
	employee := item.NewDefinition(item.NewName("employee"), component.New(component.KindElement, "", "employee"), nil)
	appendAll(t, person, item.NewReference(nil, component.NewRef(personType.Component()), nil, personType))
	appendAll(t, employee, item.NewReference(nil, component.NewRef(personType.Component()), nil, personType))

	defs, err := resolve.New(resolve.WithLogger(discard)).Resolve([]*item.Definition{person, employee, personType})
	if err != nil {
		t.Fatal(err)
	}
	m, err := newPlanner(nil).Plan(defs)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Classes) != 1 || m.Classes[0].FullName != "com.example.PersonType" {
		t.Fatalf("classes = %v", classNames(m))
	}
	want := []Binding{
		{QName: "person", Class: "com.example.PersonType", Shared: true},
		{QName: "employee", Class: "com.example.PersonType", Shared: true},
		{QName: "PersonType", Class: "com.example.PersonType"},
	}
	if diff := cmp.Diff(want, m.Bindings); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}
}

func classNames(m *Model) []string {
	var out []string
	for _, c := range m.Classes {
		out = append(out, c.FullName)
	}
	return out
}

func TestPlan_SuperClassFromLeadingTypeReference(t *testing.T) {
	base := complexType(t, "Base", nil, element(t, "id", "string"))
	derived := complexType(t, "Derived", nil)
	other := complexType(t, "Other", nil)
	appendAll(t, derived, item.NewReference(nil, component.NewRef(base.Component()), nil, base), element(t, "extra", "int"))
	appendAll(t, other, item.NewReference(nil, component.NewRef(base.Component()), nil, base))

	defs, err := resolve.New(resolve.WithLogger(discard)).Resolve([]*item.Definition{derived, other, base})
	if err != nil {
		t.Fatal(err)
	}
	m, err := newPlanner(nil).Plan(defs)
	if err != nil {
		t.Fatal(err)
	}
	d := m.Class("com.example.Derived")
	if d == nil {
		t.Fatalf("classes = %v", classNames(m))
	}
	if d.SuperClass != "com.example.Base" || d.ForcedSuper {
		t.Errorf("SuperClass = %q forced=%v", d.SuperClass, d.ForcedSuper)
	}
	if len(d.Fields) != 1 || d.Fields[0].Name != "extra" {
		t.Errorf("fields = %+v", d.Fields)
	}
}

func TestPlan_CustomizationsAndPregenerated(t *testing.T) {
	money := item.NewDefinition(item.NewName("Money"), component.New(component.KindComplexType, "", "Money"),
		&component.Extension{ClassName: "com.acme.Money"})
	lines := element(t, "line", "string")
	lines.SetCollection(true)
	total := item.NewReference(item.NewName("total"), component.New(component.KindElement, "", "total"), nil, money)
	order := complexType(t, "Order", &component.Extension{BaseClass: "com.acme.Entity"}, total)

	custom := item.NewReference(item.NewName("items"), component.New(component.KindElement, "", "items"),
		&component.Extension{ListImplementation: "java.util.LinkedList"}, money)
	custom.SetCollection(true)
	appendAll(t, order, lines, custom)

	m, err := newPlanner(nil).Plan([]*item.Definition{order, money})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Classes) != 1 {
		t.Fatalf("classes = %v", classNames(m))
	}
	c := m.Classes[0]
	if c.SuperClass != "com.acme.Entity" || !c.ForcedSuper {
		t.Errorf("SuperClass = %q forced=%v", c.SuperClass, c.ForcedSuper)
	}
	if c.Fields[0].Type != "com.acme.Money" || c.Fields[0].LocalType != "Money" {
		t.Errorf("total field = %+v", c.Fields[0])
	}
	if c.Fields[1].Implementation != "java.util.ArrayList" {
		t.Errorf("default implementation = %q", c.Fields[1].Implementation)
	}
	if c.Fields[2].Implementation != "java.util.LinkedList" || c.Fields[2].LocalType != "List<Money>" {
		t.Errorf("customized field = %+v", c.Fields[2])
	}
	if diff := cmp.Diff([]string{"com.acme.Entity", "com.acme.Money", "java.util.List"}, c.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
	wantBinding := Binding{QName: "Money", Class: "com.acme.Money", Pregenerated: true}
	if diff := cmp.Diff(wantBinding, m.Bindings[1]); diff != "" {
		t.Errorf("binding mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_ConflictingSimpleNamesStayQualified(t *testing.T) {
	date1 := item.NewDefinition(item.NewName("D1"), component.New(component.KindComplexType, "", "D1"),
		&component.Extension{ClassName: "com.acme.Date"})
	date2 := item.NewDefinition(item.NewName("D2"), component.New(component.KindComplexType, "", "D2"),
		&component.Extension{ClassName: "org.other.Date"})
	event := complexType(t, "Event", nil,
		item.NewReference(item.NewName("start"), component.New(component.KindElement, "", "start"), nil, date1),
		item.NewReference(item.NewName("end"), component.New(component.KindElement, "", "end"), nil, date2))

	m, err := newPlanner(nil).Plan([]*item.Definition{event, date1, date2})
	if err != nil {
		t.Fatal(err)
	}
	c := m.Classes[0]
	if c.Fields[0].LocalType != "Date" || c.Fields[1].LocalType != "org.other.Date" {
		t.Errorf("local types = %q, %q", c.Fields[0].LocalType, c.Fields[1].LocalType)
	}
	if diff := cmp.Diff([]string{"com.acme.Date"}, c.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_UnitClassShadowsImport(t *testing.T) {
	other := item.NewDefinition(item.NewName("OtherFoo"), component.New(component.KindComplexType, "", "OtherFoo"),
		&component.Extension{ClassName: "org.other.Foo"})
	foo := complexType(t, "Foo", nil,
		item.NewReference(item.NewName("x"), component.New(component.KindElement, "", "x"), nil, other))

	m, err := newPlanner(nil).Plan([]*item.Definition{foo, other})
	if err != nil {
		t.Fatal(err)
	}
	c := m.Classes[0]
	if c.FullName != "com.example.Foo" {
		t.Fatalf("class = %s", c.FullName)
	}
	x := c.Fields[0]
	if x.Type != "org.other.Foo" || x.LocalType != "org.other.Foo" {
		t.Errorf("field x type = %q local = %q, want qualified", x.Type, x.LocalType)
	}
	if len(c.Imports) != 0 {
		t.Errorf("imports = %v, want none", c.Imports)
	}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestPlan_ElementRefToSimpleGlobal(t *testing.T) {
	global := func(name string) *item.Definition {
		d := item.NewDefinition(item.NewName(name), component.New(component.KindElement, "", name), nil)
		appendAll(t, d, item.NewValue(nil, d.Component(), nil, typemap.MustLookup("string"), "string"))
		return d
	}
	nick, email := global("nick"), global("email")
	seq := sequence()
	nickRef := item.NewReference(nil, component.NewRef(nick.Component()), nil, nick)
	nickRef.SetOptional(true)
	appendAll(t, seq, nickRef, item.NewReference(nil, component.NewRef(email.Component()), nil, email))
	person := complexType(t, "Person", nil, seq)

	defs, err := resolve.New(resolve.WithLogger(discard)).Resolve([]*item.Definition{person, nick, email})
	if err != nil {
		t.Fatal(err)
	}
	if c := person.Content(); !c.Elements || c.Text {
		t.Errorf("Person content = %+v, want element data only", c)
	}
	m, err := newPlanner(nil).Plan(defs)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"com.example.Person"}, classNames(m)); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	type field struct {
		Name, SchemaName string
		Kind             FieldKind
		Optional         bool
	}
	var got []field
	for _, f := range m.Classes[0].Fields {
		got = append(got, field{f.Name, f.SchemaName, f.Kind, f.Optional})
	}
	want := []field{
		{"nick", "nick", FieldElement, true},
		{"email", "email", FieldElement, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_NameConflicts(t *testing.T) {
	fixed := item.NewGroup(item.FixedName("item"), component.New(component.KindElement, "", "thing"), nil)
	appendAll(t, fixed, item.NewValue(fixed.Name(), fixed.Component(), nil, typemap.MustLookup("string"), "string"))
	order := complexType(t, "Order", nil, element(t, "item", "string"), element(t, "Item", "string"), fixed)
	lower := item.NewDefinition(item.NewName("order"), component.New(component.KindElement, "", "order"), nil)
	appendAll(t, lower, element(t, "x", "string"))

	var diags diag.List
	m, err := newPlanner(&diags).Plan([]*item.Definition{order, lower})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"com.example.Order", "com.example.Order2"}, classNames(m)); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	var got []string
	for _, f := range m.Classes[0].Fields {
		got = append(got, f.Name)
	}
	if diff := cmp.Diff([]string{"item", "item2", "item3"}, got); diff != "" {
		t.Errorf("field names mismatch (-want +got):\n%s", diff)
	}
	items := diags.Items()
	if len(items) != 1 || items[0].Code != diag.CodeNameConflict || !diags.Failed() {
		t.Errorf("diagnostics = %v", items)
	}
	if fixed.Name().Text() != "item" {
		t.Error("fixed name was changed")
	}
}

func TestPlan_SimpleValueAndEmpty(t *testing.T) {
	text := item.NewDefinition(item.NewName("title"), component.New(component.KindElement, "", "title"), nil)
	appendAll(t, text, item.NewValue(nil, nil, nil, typemap.MustLookup("string"), "string"))
	empty := complexType(t, "Marker", nil)

	var diags diag.List
	m, err := newPlanner(&diags).Plan([]*item.Definition{text, empty})
	if err != nil {
		t.Fatal(err)
	}
	c := m.Classes[0]
	if !c.SimpleValue || len(c.Fields) != 1 || c.Fields[0].Name != "value" || c.Fields[0].Kind != FieldText {
		t.Errorf("simple value class = %+v", c)
	}
	if !text.Class().SimpleValue {
		t.Error("type data should be marked simple value")
	}
	items := diags.Items()
	if len(items) != 1 || items[0].Code != diag.CodeEmptyDefinition || diags.Failed() {
		t.Errorf("diagnostics = %v", items)
	}
}

func TestValidate_Failures(t *testing.T) {
	m := &Model{
		Classes: []*ClassDescriptor{
			{SimpleName: "A", FullName: "p.A", BindingName: "p.A", Fields: []FieldDescriptor{
				{Name: "x", Type: "int", LocalType: "int", Kind: FieldElement},
				{Name: "x", Type: "int", LocalType: "int", Kind: FieldElement},
			}},
			{SimpleName: "B", FullName: "p.A.B", BindingName: "p.A$B", Outer: "p.Missing"},
			{FullName: "p.C", BindingName: "p.C"},
		},
		Bindings: []Binding{
			{QName: "a", Class: "p.A"},
			{QName: "a", Class: "p.Nope"},
		},
	}
	codes := make(map[string]bool)
	for _, err := range Validate(m) {
		ve, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("unexpected error type %T", err)
		}
		codes[ve.Code] = true
	}
	for _, want := range []string{"invalid_required", "duplicate_field", "missing_outer", "duplicate_binding", "missing_binding_class"} {
		if !codes[want] {
			t.Errorf("missing validation code %s (got %v)", want, codes)
		}
	}
}

func TestModel_JSON(t *testing.T) {
	seq := sequence()
	addr := item.NewGroup(item.NewName("address"), component.New(component.KindElement, "", "address"), nil)
	appendAll(t, addr, element(t, "city", "string"))
	appendAll(t, seq, addr)
	person := complexType(t, "Person", nil, seq)

	m, err := newPlanner(nil).Plan([]*item.Definition{person})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"kind": "class"`) || !strings.Contains(out, `"kind": "nested"`) {
		t.Errorf("missing kind discriminators:\n%s", out)
	}
	if !strings.Contains(out, `"kind": "element"`) {
		t.Errorf("field kind not marshalled as text:\n%s", out)
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m, back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseType(t *testing.T) {
	tests := []string{
		"int",
		"byte[]",
		"java.lang.String[]",
		"java.util.List<com.example.Person.Address>",
		"java.util.Map<javax.xml.namespace.QName,java.lang.String>",
		"java.util.List<java.util.List<byte[]>>",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			if got := parseType(s).String(); got != s {
				t.Errorf("parseType(%q).String() = %q", s, got)
			}
		})
	}
}
