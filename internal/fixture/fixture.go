// Package fixture loads schema descriptions written in YAML and builds the
// definitions of an item tree from them. It stands in for a schema parser
// in tests and in the command line tool.
//
// A description lists global types, elements, groups and attribute groups:
//
//	namespace: urn:example
//	types:
//	  - name: Person
//	    sequence:
//	      - element: name
//	        type: string
//	      - element: home
//	        type: Address
//	        optional: true
//	    attributes:
//	      - attribute: id
//	        type: int
//	        required: true
//	elements:
//	  - name: person
//	    type: Person
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Schema is a schema description.
type Schema struct {
	Namespace       string          `yaml:"namespace"`
	Types           []TypeDecl      `yaml:"types"`
	Elements        []ElementDecl   `yaml:"elements"`
	Groups          []GroupDecl     `yaml:"groups"`
	AttributeGroups []AttrGroupDecl `yaml:"attributeGroups"`
}

// Custom holds customization overrides for one component.
type Custom struct {
	// Rename fixes the name of the generated class or field.
	Rename string `yaml:"rename"`

	// Class binds the component to an external class.
	Class string `yaml:"class"`

	// External marks a component whose class is supplied elsewhere. It
	// requires Class.
	External bool `yaml:"external"`

	BaseClass          string `yaml:"baseClass"`
	ListImplementation string `yaml:"listImplementation"`
}

// Body is the content of a complex type, an anonymous local element or a
// global element.
type Body struct {
	// Base names a complex type extended by this content.
	Base string `yaml:"base"`

	// Text is the simple type of character content.
	Text string `yaml:"text"`

	Sequence   []Particle `yaml:"sequence"`
	Choice     []Particle `yaml:"choice"`
	All        []Particle `yaml:"all"`
	Attributes []Attr     `yaml:"attributes"`
}

func (b Body) empty() bool {
	return b.Base == "" && b.Text == "" && len(b.Sequence) == 0 && len(b.Choice) == 0 &&
		len(b.All) == 0 && len(b.Attributes) == 0
}

// textOnly reports whether the body is nothing but character content.
func (b Body) textOnly() bool {
	text := b.Text
	b.Text = ""
	return text != "" && b.empty()
}

// TypeDecl declares a global type. A declaration with Simple is a simple
// type restricting a built-in type; it produces no definition of its own.
type TypeDecl struct {
	Name   string `yaml:"name"`
	Simple string `yaml:"simple"`
	Body   `yaml:",inline"`
	Custom `yaml:",inline"`
}

// ElementDecl declares a global element, either by naming its type or with
// an anonymous body.
type ElementDecl struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Body   `yaml:",inline"`
	Custom `yaml:",inline"`
}

// GroupDecl declares a named model group.
type GroupDecl struct {
	Name     string     `yaml:"name"`
	Sequence []Particle `yaml:"sequence"`
	Choice   []Particle `yaml:"choice"`
	All      []Particle `yaml:"all"`
	Custom   `yaml:",inline"`
}

// AttrGroupDecl declares a named attribute group.
type AttrGroupDecl struct {
	Name       string `yaml:"name"`
	Attributes []Attr `yaml:"attributes"`
	Custom     `yaml:",inline"`
}

// Particle is one entry of a compositor. Exactly one of Element, Ref, Group
// and Any selects its kind; with none of them it is a nested compositor.
type Particle struct {
	Element string `yaml:"element"`
	Ref     string `yaml:"ref"`
	Group   string `yaml:"group"`
	Any     bool   `yaml:"any"`

	// Type is the type of a local element.
	Type string `yaml:"type"`

	Optional bool `yaml:"optional"`
	Repeated bool `yaml:"repeated"`

	Body   `yaml:",inline"`
	Custom `yaml:",inline"`
}

// Attr is one attribute use. Exactly one of Attribute, Group and Any
// selects its kind.
type Attr struct {
	Attribute string `yaml:"attribute"`
	Group     string `yaml:"group"`
	Any       bool   `yaml:"any"`
	Type      string `yaml:"type"`
	Required  bool   `yaml:"required"`
	Custom    `yaml:",inline"`
}

// Parse decodes a schema description. Unknown keys are errors.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField())
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing schema description: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("invalid schema description: %w", err)
	}
	return &s, nil
}

// check reports declarations that name nothing or several things at once.
func (s *Schema) check() error {
	var errs []error
	named := func(kind, name string) {
		if name == "" {
			errs = append(errs, fmt.Errorf("%s without a name", kind))
		}
	}
	var body func(where string, b Body)
	var particles func(where string, ps []Particle)
	attrs := func(where string, as []Attr) {
		for i, a := range as {
			if count(a.Attribute != "", a.Group != "", a.Any) != 1 {
				errs = append(errs, fmt.Errorf("%s: attribute %d must set exactly one of attribute, group, any", where, i))
			}
		}
	}
	particles = func(where string, ps []Particle) {
		for i, p := range ps {
			switch n := count(p.Element != "", p.Ref != "", p.Group != "", p.Any); {
			case n > 1:
				errs = append(errs, fmt.Errorf("%s: particle %d sets more than one of element, ref, group, any", where, i))
			case n == 0 && count(len(p.Sequence) > 0, len(p.Choice) > 0, len(p.All) > 0) != 1:
				errs = append(errs, fmt.Errorf("%s: particle %d must be an element, ref, group, any or a single compositor", where, i))
			}
			body(fmt.Sprintf("%s particle %d", where, i), p.Body)
		}
	}
	body = func(where string, b Body) {
		particles(where, b.Sequence)
		particles(where, b.Choice)
		particles(where, b.All)
		attrs(where, b.Attributes)
	}

	for _, t := range s.Types {
		named("type", t.Name)
		if t.Simple != "" && !t.Body.empty() {
			errs = append(errs, fmt.Errorf("simple type %s has content", t.Name))
		}
		body("type "+t.Name, t.Body)
	}
	for _, e := range s.Elements {
		named("element", e.Name)
		if e.Type != "" && !e.Body.empty() {
			errs = append(errs, fmt.Errorf("element %s has both a type and content", e.Name))
		}
		body("element "+e.Name, e.Body)
	}
	for _, g := range s.Groups {
		named("group", g.Name)
		particles("group "+g.Name, g.Sequence)
		particles("group "+g.Name, g.Choice)
		particles("group "+g.Name, g.All)
	}
	for _, g := range s.AttributeGroups {
		named("attributeGroup", g.Name)
		attrs("attributeGroup "+g.Name, g.Attributes)
	}
	return errors.Join(errs...)
}

func count(conds ...bool) int {
	n := 0
	for _, c := range conds {
		if c {
			n++
		}
	}
	return n
}

// Load reads a schema description and builds its definitions.
func Load(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return s.Build()
}
