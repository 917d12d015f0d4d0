// Package typemap maps schema built-in datatype names to the generated-language
// types and the conversion methods used by the serialization mapping.
package typemap

// Runtime is the class holding the conversion methods referenced by mappings.
const Runtime = "org.schemaplan.runtime.Converters"

// Mapping describes how one schema primitive type is represented.
type Mapping struct {
	// SchemaName is the built-in type's local name (e.g. "int").
	SchemaName string

	// Primitive is the unboxed language type, or "" when there is none.
	Primitive string

	// Object is the fully qualified object type (the boxed form for primitives).
	Object string

	// Format is the serialization format tag, or "" for the default conversion.
	Format string

	// Serializer, Deserializer and Check are method references on Runtime,
	// or "" when the default conversion applies.
	Serializer   string
	Deserializer string
	Check        string
}

// IsZero reports whether the mapping is empty.
func (m Mapping) IsZero() bool { return m.SchemaName == "" && m.Object == "" }

// HasPrimitive reports whether the mapping has an unboxed form.
func (m Mapping) HasPrimitive() bool { return m.Primitive != "" }

// TypeFor returns the type to declare for a value with the given multiplicity.
// Optional and repeated values need the object form.
func (m Mapping) TypeFor(optional, repeated bool) string {
	if m.Primitive != "" && !optional && !repeated {
		return m.Primitive
	}
	return m.Object
}

var (
	anyElement = Mapping{
		SchemaName: "##any",
		Object:     "org.w3c.dom.Element",
		Format:     "dom-element",
	}
	anyAttribute = Mapping{
		SchemaName: "##anyAttribute",
		Object:     "java.util.Map<javax.xml.namespace.QName,java.lang.String>",
		Format:     "dom-attributes",
	}
)

// AnyElement returns the mapping used for element wildcard content.
func AnyElement() Mapping { return anyElement }

// AnyAttribute returns the mapping used for attribute wildcard content.
func AnyAttribute() Mapping { return anyAttribute }

// Lookup returns the mapping for a schema built-in type local name.
// A false result means the type needs an explicit customization.
func Lookup(name string) (Mapping, bool) {
	m, ok := table[name]
	return m, ok
}

// MustLookup is like Lookup but panics when name is unknown.
// Use it only for names known at compile time.
func MustLookup(name string) Mapping {
	m, ok := table[name]
	if !ok {
		panic("typemap: no mapping for " + name)
	}
	return m
}

// Names returns the sorted list of mapped schema type names.
func Names() []string {
	out := make([]string, len(sortedNames))
	copy(out, sortedNames)
	return out
}
