package plan

import (
	"strings"

	"github.com/broady/schemaplan/imports"
)

// typeExpr is a parsed type string such as "java.util.List<com.x.Foo>" or
// "byte[]". Class names are kept as imports.Type so nested classes with
// lower case names are not split at the wrong dot.
type typeExpr struct {
	t    imports.Type
	args []typeExpr
	dims int
}

func named(t imports.Type) typeExpr { return typeExpr{t: t} }

func generic(t imports.Type, args ...typeExpr) typeExpr { return typeExpr{t: t, args: args} }

// parseType parses a type string whose class names follow the package
// convention of imports.Parse.
func parseType(s string) typeExpr {
	s = strings.TrimSpace(s)
	var e typeExpr
	for strings.HasSuffix(s, "[]") {
		s = strings.TrimSuffix(s, "[]")
		e.dims++
	}
	open := strings.IndexByte(s, '<')
	if open < 0 || !strings.HasSuffix(s, ">") {
		e.t = imports.Parse(s)
		return e
	}
	e.t = imports.Parse(s[:open])
	for _, arg := range splitArgs(s[open+1 : len(s)-1]) {
		e.args = append(e.args, parseType(arg))
	}
	return e
}

// splitArgs splits at commas outside nested angle brackets.
func splitArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func (e typeExpr) render(name func(imports.Type) string) string {
	var b strings.Builder
	b.WriteString(name(e.t))
	if len(e.args) > 0 {
		b.WriteByte('<')
		for i, a := range e.args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(a.render(name))
		}
		b.WriteByte('>')
	}
	for i := 0; i < e.dims; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

// String returns the type with fully qualified class names.
func (e typeExpr) String() string {
	return e.render(imports.Type.String)
}

// local returns the type as written in the allocator's unit.
func (e typeExpr) local(a *imports.Allocator) string {
	return e.render(a.Resolve)
}

// request adds every class named in e to the allocator.
func (e typeExpr) request(a *imports.Allocator) error {
	if _, err := a.Add(e.t, false); err != nil {
		return err
	}
	for _, arg := range e.args {
		if err := arg.request(a); err != nil {
			return err
		}
	}
	return nil
}
