// Package plan turns a resolved item tree into class descriptors: the
// language-neutral contract handed to the source builder, plus the binding
// entries of the serialization mapping.
package plan

import "fmt"

// FieldKind identifies what a field binds to in the document.
type FieldKind int

const (
	FieldElement FieldKind = iota + 1 // child element
	FieldAttribute                    // attribute
	FieldText                         // character content
	FieldAny                          // wildcard content
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case FieldElement:
		return "element"
	case FieldAttribute:
		return "attribute"
	case FieldText:
		return "text"
	case FieldAny:
		return "any"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FieldKind) UnmarshalText(b []byte) error {
	for _, c := range []FieldKind{FieldElement, FieldAttribute, FieldText, FieldAny} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown field kind %q", b)
}

// Model is the output of one planning run.
type Model struct {
	// Package is the default package of generated classes.
	Package string `json:"package"`

	// Classes lists top-level classes in definition order, each followed by
	// its nested classes.
	Classes []*ClassDescriptor `json:"classes" validate:"dive"`

	// Bindings maps definition qualified names to the classes that represent
	// them in the serialization mapping.
	Bindings []Binding `json:"bindings" validate:"dive"`
}

// Class returns the class with the given fully qualified name, or nil.
func (m *Model) Class(fullName string) *ClassDescriptor {
	for _, c := range m.Classes {
		if c.FullName == fullName {
			return c
		}
	}
	return nil
}

// ClassDescriptor is one class to generate.
type ClassDescriptor struct {
	// SimpleName is the declared name.
	SimpleName string `json:"simpleName" validate:"required"`

	// FullName is the dotted fully qualified name.
	FullName string `json:"fullName" validate:"required"`

	// BindingName is the name the serialization mapping uses; nested classes
	// use '$' between outer and inner names.
	BindingName string `json:"bindingName" validate:"required"`

	// Outer is the FullName of the enclosing class, or "" for top-level classes.
	Outer string `json:"outer,omitempty"`

	// SuperClass is the fully qualified superclass, or "".
	SuperClass string `json:"superClass,omitempty"`

	// ForcedSuper is set when SuperClass comes from a customization.
	ForcedSuper bool `json:"forcedSuper,omitempty"`

	Fields     []FieldDescriptor  `json:"fields" validate:"dive"`
	Methods    []MethodDescriptor `json:"methods" validate:"dive"`
	Interfaces []string           `json:"interfaces,omitempty"`

	// Imports is the sorted import list of the unit. Only top-level classes
	// carry one; nested classes share their outer class's unit.
	Imports []string `json:"imports,omitempty"`

	// Definition is the qualified name of the definition the class was
	// generated for, or "" for nested classes.
	Definition string `json:"definition,omitempty"`

	// SimpleValue marks a class whose only field is its text content.
	SimpleValue bool `json:"simpleValue,omitempty"`
}

// FieldDescriptor is one field of a class.
type FieldDescriptor struct {
	// Name is the field identifier.
	Name string `json:"name" validate:"required"`

	// Type is the declared type with fully qualified class names.
	Type string `json:"type" validate:"required"`

	// LocalType is Type as written inside the unit, after import resolution.
	LocalType string `json:"localType" validate:"required"`

	Kind FieldKind `json:"kind" validate:"required"`

	// SchemaName is the element or attribute name the field binds to.
	SchemaName string `json:"schemaName,omitempty"`

	Optional bool `json:"optional,omitempty"`
	Repeated bool `json:"repeated,omitempty"`

	// Format is the serialization format tag of simple values.
	Format string `json:"format,omitempty"`

	// Implementation is the concrete collection class for repeated fields.
	Implementation string `json:"implementation,omitempty" validate:"required_if=Repeated true"`
}

// MethodDescriptor is one accessor method of a class.
type MethodDescriptor struct {
	Name    string            `json:"name" validate:"required"`
	Returns string            `json:"returns" validate:"required"`
	Params  []ParamDescriptor `json:"params,omitempty" validate:"dive"`

	// Field is the name of the field the method accesses.
	Field string `json:"field,omitempty"`
}

// ParamDescriptor is one method parameter.
type ParamDescriptor struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// Binding is a serialization mapping entry.
type Binding struct {
	// QName is the definition's qualified name.
	QName string `json:"qname" validate:"required"`

	// Class is the binding name of the representing class.
	Class string `json:"class" validate:"required"`

	// Pregenerated marks classes supplied externally.
	Pregenerated bool `json:"pregenerated,omitempty"`

	// Shared marks definitions that reuse another definition's class.
	Shared bool `json:"shared,omitempty"`
}
