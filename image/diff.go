package image

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/broady/schemaplan/plan"
)

// Diff compares two images and returns a report of the differences, or ""
// when they describe the same classes and fields. Classes are matched by
// name and fields by field name; inputs written by FromPlan are already in
// that order, anything else is sorted first.
func Diff(a, b Image) string {
	a, b = sorted(a), sorted(b)
	var out strings.Builder
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i].Name < b[j].Name):
			fmt.Fprintf(&out, "missing class %s\n", a[i].Name)
			for _, f := range a[i].Fields {
				fmt.Fprintf(&out, " %s (%s)\n", f.Name, f.Type)
			}
			i++
		case i == len(a) || b[j].Name < a[i].Name:
			fmt.Fprintf(&out, "added class %s\n", b[j].Name)
			j++
		default:
			diffFields(&out, a[i].Name, a[i].Fields, b[j].Fields)
			i++
			j++
		}
	}
	return out.String()
}

func diffFields(out *strings.Builder, class string, a, b []Field) {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i].Name < b[j].Name):
			fmt.Fprintf(out, "%s: missing field %s (%s)\n", class, a[i].Name, a[i].Type)
			i++
		case i == len(a) || b[j].Name < a[i].Name:
			fmt.Fprintf(out, "%s: added field %s (%s)\n", class, b[j].Name, b[j].Type)
			j++
		default:
			if a[i].Type != b[j].Type {
				fmt.Fprintf(out, "%s: field %s type changed from %s to %s\n", class, a[i].Name, a[i].Type, b[j].Type)
			}
			i++
			j++
		}
	}
}

func sorted(img Image) Image {
	byName := func(x, y Class) int { return cmp.Compare(x.Name, y.Name) }
	fieldByName := func(x, y Field) int { return cmp.Compare(x.Name, y.Name) }
	ok := slices.IsSortedFunc(img, byName)
	for _, c := range img {
		ok = ok && slices.IsSortedFunc(c.Fields, fieldByName)
	}
	if ok {
		return img
	}
	out := make(Image, len(img))
	for i, c := range img {
		out[i] = Class{Name: c.Name, Fields: slices.Clone(c.Fields)}
		slices.SortStableFunc(out[i].Fields, fieldByName)
	}
	slices.SortStableFunc(out, byName)
	return out
}

// FromPlan builds the image of m: every class, nested ones included, sorted
// by full name with fields sorted by name.
func FromPlan(m *plan.Model) Image {
	img := make(Image, 0, len(m.Classes))
	for _, c := range m.Classes {
		cl := Class{Name: c.FullName}
		for _, f := range c.Fields {
			cl.Fields = append(cl.Fields, Field{Name: f.Name, Type: f.Type})
		}
		img = append(img, cl)
	}
	return sorted(img)
}

// LineDiff renders a line-level diff of two image texts. Removed lines are
// prefixed with "- ", added lines with "+ " and unchanged lines with two
// spaces. It returns "" when the texts are equal.
func LineDiff(a, b string) string {
	if a == b {
		return ""
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}
	return out.String()
}
