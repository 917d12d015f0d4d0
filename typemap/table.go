package typemap

import "sort"

// table is built once at init and never modified afterwards.
var (
	table       map[string]Mapping
	sortedNames []string
)

func conv(name string) string { return Runtime + "." + name }

// primitive builds a mapping with an unboxed form and named converters.
func primitive(schemaName, prim, object, suffix string, check bool) Mapping {
	m := Mapping{
		SchemaName:   schemaName,
		Primitive:    prim,
		Object:       object,
		Format:       "xsd:" + schemaName,
		Serializer:   conv("serialize" + suffix),
		Deserializer: conv("parse" + suffix),
	}
	if check {
		m.Check = conv("is" + suffix + "Default")
	}
	return m
}

// object builds a mapping for a reference type with named converters.
func object(schemaName, object, suffix string) Mapping {
	return Mapping{
		SchemaName:   schemaName,
		Object:       object,
		Format:       "xsd:" + schemaName,
		Serializer:   conv("serialize" + suffix),
		Deserializer: conv("parse" + suffix),
	}
}

// text builds a mapping for string-valued types using the default conversion.
func text(schemaName string) Mapping {
	return Mapping{SchemaName: schemaName, Object: "java.lang.String"}
}

func init() {
	entries := []Mapping{
		// string family
		text("string"),
		text("normalizedString"),
		text("token"),
		text("language"),
		text("Name"),
		text("NCName"),
		text("NMTOKEN"),
		text("ID"),
		text("IDREF"),
		text("ENTITY"),
		text("anyURI"),
		text("anySimpleType"),
		text("NOTATION"),
		object("NMTOKENS", "java.lang.String[]", "TokenList"),
		object("IDREFS", "java.lang.String[]", "TokenList"),
		object("ENTITIES", "java.lang.String[]", "TokenList"),

		// numeric family
		primitive("boolean", "boolean", "java.lang.Boolean", "Boolean", true),
		primitive("byte", "byte", "java.lang.Byte", "Byte", true),
		primitive("short", "short", "java.lang.Short", "Short", true),
		primitive("int", "int", "java.lang.Integer", "Int", true),
		primitive("long", "long", "java.lang.Long", "Long", true),
		primitive("float", "float", "java.lang.Float", "Float", true),
		primitive("double", "double", "java.lang.Double", "Double", true),
		primitive("unsignedByte", "short", "java.lang.Short", "UnsignedByte", true),
		primitive("unsignedShort", "int", "java.lang.Integer", "UnsignedShort", true),
		primitive("unsignedInt", "long", "java.lang.Long", "UnsignedInt", true),
		object("decimal", "java.math.BigDecimal", "Decimal"),
		object("integer", "java.math.BigInteger", "Integer"),
		object("nonNegativeInteger", "java.math.BigInteger", "NonNegativeInteger"),
		object("nonPositiveInteger", "java.math.BigInteger", "NonPositiveInteger"),
		object("negativeInteger", "java.math.BigInteger", "NegativeInteger"),
		object("positiveInteger", "java.math.BigInteger", "PositiveInteger"),
		object("unsignedLong", "java.math.BigInteger", "UnsignedLong"),

		// date and time family
		object("dateTime", "java.time.OffsetDateTime", "DateTime"),
		object("date", "java.time.LocalDate", "Date"),
		object("time", "java.time.OffsetTime", "Time"),
		object("duration", "java.time.Duration", "Duration"),
		object("gYear", "java.time.Year", "GYear"),
		object("gYearMonth", "java.time.YearMonth", "GYearMonth"),
		object("gMonthDay", "java.time.MonthDay", "GMonthDay"),
		object("gMonth", "java.time.Month", "GMonth"),
		text("gDay"),

		// binary and qualified names
		object("base64Binary", "byte[]", "Base64"),
		object("hexBinary", "byte[]", "HexBinary"),
		object("QName", "javax.xml.namespace.QName", "QName"),
	}

	table = make(map[string]Mapping, len(entries))
	sortedNames = make([]string, 0, len(entries))
	for _, m := range entries {
		if _, dup := table[m.SchemaName]; dup {
			panic("typemap: duplicate entry " + m.SchemaName)
		}
		table[m.SchemaName] = m
		sortedNames = append(sortedNames, m.SchemaName)
	}
	sort.Strings(sortedNames)
}
