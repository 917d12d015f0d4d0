// Package imports tracks, for one generated unit, which types can be written by
// their short name and which import lines the unit needs.
//
// An Allocator moves through three states. While open, imports and local names
// may be added and a forced import may displace an earlier one. The first
// Resolve (or BuildNameMap) call fixes the existing short-name assignments:
// new non-conflicting imports are still accepted, but nothing is displaced.
// Freeze extracts the final import list; any addition after that is an
// internal consistency failure.
package imports

import (
	"sort"
	"strings"
	"unicode"

	"github.com/broady/schemaplan/diag"
)

// LangPackage is the package whose top-level types are visible without an
// import line.
const LangPackage = "java.lang"

// Type is a class reference split into package and class path. Name may be
// nested ("Outer.Inner").
type Type struct {
	Package string
	Name    string
}

// Parse splits a dotted fully qualified name. The package ends before the first
// segment that starts with an upper case letter. Names without such a segment
// (primitives) have no package.
func Parse(full string) Type {
	segs := strings.Split(full, ".")
	for i, s := range segs {
		if s != "" && unicode.IsUpper([]rune(s)[0]) {
			return Type{Package: strings.Join(segs[:i], "."), Name: strings.Join(segs[i:], ".")}
		}
	}
	return Type{Name: full}
}

// String returns the fully qualified name.
func (t Type) String() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Simple returns the innermost class name.
func (t Type) Simple() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// TopLevel returns the outermost class name.
func (t Type) TopLevel() string {
	if i := strings.IndexByte(t.Name, '.'); i >= 0 {
		return t.Name[:i]
	}
	return t.Name
}

// Nested reports whether t is a member class.
func (t Type) Nested() bool { return strings.IndexByte(t.Name, '.') >= 0 }

// Builtin reports whether t is a primitive or otherwise package-less name that
// never needs an import.
func (t Type) Builtin() bool {
	return t.Package == "" && (t.Name == "" || !unicode.IsUpper([]rune(t.Name)[0]))
}

// AutoVisible reports whether t is visible in every unit without an import.
func (t Type) AutoVisible() bool {
	return t.Package == LangPackage && !t.Nested()
}

// State is the allocator lifecycle stage.
type State int

const (
	StateOpen State = iota
	StateMapped
	StateFrozen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateMapped:
		return "mapped"
	case StateFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Allocator manages short names and imports for one unit, the top-level class
// Top in package Package.
type Allocator struct {
	pkg   string
	top   string
	state State

	locals  map[string]Type // short name to locally declared type
	imports map[string]Type // short name to imported or visible type

	frozen []string
}

// New returns an open allocator for the unit generating class top in pkg.
func New(pkg, top string) *Allocator {
	return &Allocator{
		pkg:     pkg,
		top:     top,
		locals:  make(map[string]Type),
		imports: make(map[string]Type),
	}
}

// State returns the current lifecycle stage.
func (a *Allocator) State() State { return a.state }

// Unit returns the fully qualified name of the unit's top-level class.
func (a *Allocator) Unit() Type { return Type{Package: a.pkg, Name: a.top} }

func (a *Allocator) checkOpen(op string, t Type) error {
	if a.state == StateFrozen {
		return diag.Internalf(op, t.String(), "import list of %s already frozen", a.Unit())
	}
	return nil
}

// AddLocal declares a type of the unit itself, such as a nested class. Local
// names always win while the allocator is open: an import with the same short
// name is evicted. Once the name map is built an import that already holds the
// short name stays, and declaring the local is an internal error.
func (a *Allocator) AddLocal(t Type) error {
	if err := a.checkOpen("add local", t); err != nil {
		return err
	}
	short := t.Simple()
	if cur, ok := a.locals[short]; ok && cur != t {
		return diag.Internalf("add local", t.String(), "local name %s already declared for %s", short, cur)
	}
	if cur, ok := a.imports[short]; ok && a.state != StateOpen {
		return diag.Internalf("add local", t.String(), "short name %s already assigned to %s", short, cur)
	}
	a.locals[short] = t
	delete(a.imports, short)
	return nil
}

// Add requests that t be usable by its short name and reports whether it is.
// A false result means the short name belongs to another type and t must be
// written fully qualified. While open, a conflicting holder is displaced if it
// is auto-visible or force is set; afterwards conflicts are never displaced.
func (a *Allocator) Add(t Type, force bool) (bool, error) {
	if err := a.checkOpen("import", t); err != nil {
		return false, err
	}
	if t.Builtin() {
		return true, nil
	}
	short := t.Simple()
	if cur, ok := a.locals[short]; ok {
		return cur == t, nil
	}
	cur, ok := a.imports[short]
	switch {
	case !ok:
		a.imports[short] = t
		return true, nil
	case cur == t:
		return true, nil
	case a.state == StateOpen && (cur.AutoVisible() || force):
		a.imports[short] = t
		return true, nil
	default:
		return false, nil
	}
}

// BuildNameMap ends the open stage. It is implied by the first Resolve.
func (a *Allocator) BuildNameMap() {
	if a.state == StateOpen {
		a.state = StateMapped
	}
}

// Resolve returns the name to write for t in this unit: the short name when t
// holds it, otherwise the fully qualified name.
func (a *Allocator) Resolve(t Type) string {
	a.BuildNameMap()
	if t.Builtin() {
		return t.Name
	}
	short := t.Simple()
	if cur, ok := a.locals[short]; ok {
		if cur == t {
			return short
		}
		return t.String()
	}
	if cur, ok := a.imports[short]; ok && cur == t {
		return short
	}
	return t.String()
}

// Freeze ends the unit and returns the sorted import lines. Auto-visible types
// and top-level types of the unit's own package need no line; types nested in
// another top-level class of the same package still do. Freezing again returns
// the same list.
func (a *Allocator) Freeze() []string {
	if a.state == StateFrozen {
		return a.frozen
	}
	a.state = StateFrozen
	lines := make([]string, 0, len(a.imports))
	for _, t := range a.imports {
		if a.needsLine(t) {
			lines = append(lines, t.String())
		}
	}
	sort.Strings(lines)
	a.frozen = lines
	return lines
}

func (a *Allocator) needsLine(t Type) bool {
	if t.AutoVisible() {
		return false
	}
	if t.Package == a.pkg {
		return t.Nested() && t.TopLevel() != a.top
	}
	return true
}
