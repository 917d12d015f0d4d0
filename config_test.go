package schemaplan

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplyConfigDefaults(t *testing.T) {
	tests := []struct {
		name   string
		input  *Config
		check  func(*Config) bool
		errMsg string
	}{
		{
			name:  "empty config gets defaults",
			input: &Config{},
			check: func(c *Config) bool {
				return c.ListType == "java.util.List" &&
					c.ListImplementation == "java.util.ArrayList" &&
					c.ImageFile == "model.image" &&
					c.ClassesFile == "classes.json"
			},
			errMsg: "defaults not applied correctly",
		},
		{
			name: "explicit values preserved",
			input: &Config{
				ListType:           "java.util.Collection",
				ListImplementation: "java.util.LinkedList",
				ImageFile:          "out/shape.image",
			},
			check: func(c *Config) bool {
				return c.ListType == "java.util.Collection" &&
					c.ListImplementation == "java.util.LinkedList" &&
					c.ImageFile == "out/shape.image" &&
					c.ClassesFile == "classes.json"
			},
			errMsg: "explicit values not preserved",
		},
		{
			name:  "preserves interfaces",
			input: &Config{Interfaces: []string{"java.io.Serializable"}},
			check: func(c *Config) bool {
				return len(c.Interfaces) == 1 && c.Interfaces[0] == "java.io.Serializable"
			},
			errMsg: "Interfaces not preserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := applyConfigDefaults(tt.input)
			if !tt.check(result) {
				t.Error(tt.errMsg)
			}
		})
	}
}

func TestApplyConfigDefaults_DoesNotMutateInput(t *testing.T) {
	in := &Config{Package: "com.example"}
	out := applyConfigDefaults(in)
	if in.ListType != "" || in.ImageFile != "" {
		t.Errorf("input mutated: %+v", in)
	}
	if out == in {
		t.Error("applyConfigDefaults returned its input")
	}
}

func TestParseOptions(t *testing.T) {
	values := url.Values{
		"package":      {"com.example.orders"},
		"interface":    {"java.io.Serializable", "java.lang.Cloneable"},
		"skip_classes": {"true"},
	}
	cfg, err := ParseOptions(values)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Package:     "com.example.orders",
		Interfaces:  []string{"java.io.Serializable", "java.lang.Cloneable"},
		SkipClasses: true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOptions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"unknown key", url.Values{"colour": {"red"}}, "colour"},
		{"bad package", url.Values{"package": {"com.3rd"}}, "Package"},
		{"reserved package segment", url.Values{"package": {"com.class"}}, "Package"},
		{"unqualified list type", url.Values{"list_type": {"List"}}, "ListType"},
		{"bad interface", url.Values{"interface": {"java.io.Serializable", "nope"}}, "Interfaces[1]"},
		{"escaping image path", url.Values{"image_file": {"../model.image"}}, "ImageFile"},
		{"bad bool", url.Values{"skip_classes": {"maybe"}}, "skip_classes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.values)
			if err == nil {
				t.Fatal("expected error")
			}
			e := ToError(err)
			if e.Code != CodeInvalidConfig {
				t.Fatalf("code = %s, want %s (%v)", e.Code, CodeInvalidConfig, err)
			}
			if _, ok := e.Details[tt.field]; !ok {
				t.Errorf("details %v missing %q", e.Details, tt.field)
			}
		})
	}
}

func TestParseSettings(t *testing.T) {
	got, err := ParseSettings([]string{"package=com.example", "interface=a.B", "interface=c.D", "image_file="})
	if err != nil {
		t.Fatal(err)
	}
	want := url.Values{
		"package":    {"com.example"},
		"interface":  {"a.B", "c.D"},
		"image_file": {""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"package", "=value"} {
		if _, err := ParseSettings([]string{bad}); err == nil {
			t.Errorf("ParseSettings(%q) succeeded", bad)
		}
	}
}
