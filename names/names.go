// Package names converts schema names into identifiers for the generated class
// model and keeps them unique within a naming scope.
package names

import (
	"strings"
	"unicode"
)

// Java keywords and literals.
var reservedWords = map[string]bool{
	"abstract":     true,
	"assert":       true,
	"boolean":      true,
	"break":        true,
	"byte":         true,
	"case":         true,
	"catch":        true,
	"char":         true,
	"class":        true,
	"const":        true,
	"continue":     true,
	"default":      true,
	"do":           true,
	"double":       true,
	"else":         true,
	"enum":         true,
	"extends":      true,
	"false":        true,
	"final":        true,
	"finally":      true,
	"float":        true,
	"for":          true,
	"goto":         true,
	"if":           true,
	"implements":   true,
	"import":       true,
	"instanceof":   true,
	"int":          true,
	"interface":    true,
	"long":         true,
	"native":       true,
	"new":          true,
	"null":         true,
	"package":      true,
	"private":      true,
	"protected":    true,
	"public":       true,
	"return":       true,
	"short":        true,
	"static":       true,
	"strictfp":     true,
	"super":        true,
	"switch":       true,
	"synchronized": true,
	"this":         true,
	"throw":        true,
	"throws":       true,
	"transient":    true,
	"true":         true,
	"try":          true,
	"void":         true,
	"volatile":     true,
	"while":        true,
	"_":            true,
}

// IsReserved reports whether name is a keyword or literal.
func IsReserved(name string) bool {
	return reservedWords[name]
}

// EscapeReserved escapes a reserved word by appending an underscore.
func EscapeReserved(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// IsValid reports whether name can be used as an identifier as is.
func IsValid(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !isIdentRune(r) {
			return false
		}
	}
	return !reservedWords[name]
}

// Sanitize makes name a valid identifier: invalid characters become
// underscores, a leading digit gets an underscore prefix and reserved words
// are escaped.
func Sanitize(name string) string {
	if name == "" {
		return "_"
	}

	var result strings.Builder

	if unicode.IsDigit([]rune(name)[0]) {
		result.WriteRune('_')
	}
	for _, r := range name {
		if isIdentRune(r) {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}

	return EscapeReserved(result.String())
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

// words splits a schema name at separators and at lower-to-upper case changes.
// Runs of capitals stay together ("HTTPServer" gives "HTTP", "Server").
func words(name string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(name)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// ClassName converts a schema name to an upper camel case class name.
func ClassName(schemaName string) string {
	ws := words(schemaName)
	if len(ws) == 0 {
		return "_"
	}
	var b strings.Builder
	for _, w := range ws {
		b.WriteString(upperFirst(w))
	}
	return Sanitize(b.String())
}

// FieldName converts a schema name to a lower camel case field name.
func FieldName(schemaName string) string {
	ws := words(schemaName)
	if len(ws) == 0 {
		return "_"
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(ws[0]))
	for _, w := range ws[1:] {
		b.WriteString(upperFirst(w))
	}
	return Sanitize(b.String())
}

// ConstantName converts a schema name to an upper snake case constant name.
func ConstantName(schemaName string) string {
	ws := words(schemaName)
	if len(ws) == 0 {
		return "_"
	}
	for i, w := range ws {
		ws[i] = strings.ToUpper(w)
	}
	return Sanitize(strings.Join(ws, "_"))
}

// PropertyMethod returns the accessor name for a field: "get" or, for
// primitive booleans, "is", followed by the capitalized field name.
func PropertyMethod(prefix, field string) string {
	return prefix + upperFirst(strings.TrimSuffix(field, "_"))
}
