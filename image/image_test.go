package image

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/broady/schemaplan/plan"
)

const sample = `com.example.Baz
 id (java.lang.String)
com.example.Empty
com.example.Foo
 bar (java.lang.String)
 count (int)
`

func TestReadWrite_RoundTrip(t *testing.T) {
	img, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	want := Image{
		{Name: "com.example.Baz", Fields: []Field{{"id", "java.lang.String"}}},
		{Name: "com.example.Empty"},
		{Name: "com.example.Foo", Fields: []Field{{"bar", "java.lang.String"}, {"count", "int"}}},
	}
	if diff := cmp.Diff(want, img); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}
	if got := img.String(); got != sample {
		t.Errorf("Write = %q, want %q", got, sample)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"field before class", " a (int)\n", 1},
		{"empty line", "com.x.A\n\ncom.x.B\n", 2},
		{"no type", "com.x.A\n a\n", 2},
		{"unterminated type", "com.x.A\n a (int\n", 2},
		{"no name", "com.x.A\n  (int)\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Read error = %v, want *ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestRead_Empty(t *testing.T) {
	img, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(img) != 0 || img.String() != "" {
		t.Errorf("empty image = %v", img)
	}
}

func TestDiff(t *testing.T) {
	base := Image{
		{Name: "com.example.Foo", Fields: []Field{{"bar", "java.lang.String"}}},
	}
	tests := []struct {
		name string
		a, b Image
		want string
	}{
		{
			name: "identical",
			a:    base,
			b:    base,
			want: "",
		},
		{
			name: "field and class added",
			a:    base,
			b: Image{
				{Name: "com.example.Foo", Fields: []Field{{"bar", "java.lang.String"}, {"baz", "int"}}},
				{Name: "com.example.Qux"},
			},
			want: "com.example.Foo: added field baz (int)\n" +
				"added class com.example.Qux\n",
		},
		{
			name: "class missing",
			a: Image{
				{Name: "com.example.Bar"},
				{Name: "com.example.Foo", Fields: []Field{{"bar", "java.lang.String"}, {"count", "int"}}},
			},
			b: Image{{Name: "com.example.Bar"}},
			want: "missing class com.example.Foo\n" +
				" bar (java.lang.String)\n" +
				" count (int)\n",
		},
		{
			name: "field changes",
			a: Image{
				{Name: "A", Fields: []Field{{"a", "int"}, {"b", "int"}, {"c", "int"}}},
			},
			b: Image{
				{Name: "A", Fields: []Field{{"b", "long"}, {"c", "int"}, {"d", "int"}}},
			},
			want: "A: missing field a (int)\n" +
				"A: field b type changed from int to long\n" +
				"A: added field d (int)\n",
		},
		{
			name: "unsorted input",
			a: Image{
				{Name: "B"},
				{Name: "A", Fields: []Field{{"y", "int"}, {"x", "int"}}},
			},
			b: Image{
				{Name: "A", Fields: []Field{{"x", "int"}, {"y", "int"}}},
				{Name: "B"},
			},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diff(tt.a, tt.b); got != tt.want {
				t.Errorf("Diff =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestDiff_LeavesInputUnchanged(t *testing.T) {
	a := Image{{Name: "B"}, {Name: "A"}}
	Diff(a, nil)
	if a[0].Name != "B" {
		t.Errorf("Diff reordered its input: %v", a)
	}
}

func TestFromPlan(t *testing.T) {
	m := &plan.Model{
		Package: "com.example",
		Classes: []*plan.ClassDescriptor{
			{
				SimpleName: "Zed", FullName: "com.example.Zed",
				Fields: []plan.FieldDescriptor{
					{Name: "value", Type: "java.lang.String"},
					{Name: "id", Type: "int"},
				},
			},
			{
				SimpleName: "Inner", FullName: "com.example.Zed.Inner", Outer: "com.example.Zed",
				Fields: []plan.FieldDescriptor{{Name: "items", Type: "java.util.List<java.lang.String>"}},
			},
			{SimpleName: "Alpha", FullName: "com.example.Alpha"},
		},
	}
	want := "com.example.Alpha\n" +
		"com.example.Zed\n" +
		" id (int)\n" +
		" value (java.lang.String)\n" +
		"com.example.Zed.Inner\n" +
		" items (java.util.List<java.lang.String>)\n"
	if got := FromPlan(m).String(); got != want {
		t.Errorf("FromPlan =\n%s\nwant\n%s", got, want)
	}
}

func TestLineDiff(t *testing.T) {
	if got := LineDiff(sample, sample); got != "" {
		t.Errorf("LineDiff of equal texts = %q", got)
	}
	a := "A\n x (int)\nB\n"
	b := "A\n x (long)\nB\n"
	want := "  A\n-  x (int)\n+  x (long)\n  B\n"
	if got := LineDiff(a, b); got != want {
		t.Errorf("LineDiff =\n%s\nwant\n%s", got, want)
	}
}
