package names

import (
	"errors"
	"testing"

	"github.com/broady/schemaplan/item"
)

func TestEscapeReserved(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"class", "class_"},
		{"interface", "interface_"},
		{"null", "null_"},
		{"goto", "goto_"},
		{"_", "__"},
		{"MyType", "MyType"},
		{"userName", "userName"},
		{"type", "type"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EscapeReserved(tt.input); got != tt.want {
				t.Errorf("EscapeReserved(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"123abc", false},
		{"my-field", false},
		{"my.field", false},
		{"int", false},
		{"myField", true},
		{"_field", true},
		{"$field", true},
		{"field123", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "_"},
		{"123abc", "_123abc"},
		{"my-field", "my_field"},
		{"my.field", "my_field"},
		{"static", "static_"},
		{"validName", "validName"},
		{"$dollar", "$dollar"},
		{"café", "café"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassAndFieldName(t *testing.T) {
	tests := []struct {
		input     string
		wantClass string
		wantField string
	}{
		{"purchaseOrder", "PurchaseOrder", "purchaseOrder"},
		{"purchase-order", "PurchaseOrder", "purchaseOrder"},
		{"first_name", "FirstName", "firstName"},
		{"USAddress", "USAddress", "usAddress"},
		{"HTTPServer", "HTTPServer", "httpServer"},
		{"item2Name", "Item2Name", "item2Name"},
		{"2ndLine", "_2ndLine", "_2ndLine"},
		{"class", "Class", "class_"},
		{"Default", "Default", "default_"},
		{"--", "_", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ClassName(tt.input); got != tt.wantClass {
				t.Errorf("ClassName(%q) = %q, want %q", tt.input, got, tt.wantClass)
			}
			if got := FieldName(tt.input); got != tt.wantField {
				t.Errorf("FieldName(%q) = %q, want %q", tt.input, got, tt.wantField)
			}
		})
	}
}

func TestConstantName(t *testing.T) {
	if got := ConstantName("maxLength"); got != "MAX_LENGTH" {
		t.Errorf("ConstantName() = %q", got)
	}
}

func TestPropertyMethod(t *testing.T) {
	tests := []struct {
		prefix, field, want string
	}{
		{"get", "name", "getName"},
		{"is", "active", "isActive"},
		{"set", "class_", "setClass"},
	}
	for _, tt := range tests {
		if got := PropertyMethod(tt.prefix, tt.field); got != tt.want {
			t.Errorf("PropertyMethod(%q, %q) = %q, want %q", tt.prefix, tt.field, got, tt.want)
		}
	}
}

func TestScope_Claim(t *testing.T) {
	s := NewScope("class Person")
	for i, want := range []string{"name", "name2", "name3"} {
		if got := s.Claim("name"); got != want {
			t.Errorf("Claim #%d = %q, want %q", i, got, want)
		}
	}
	if s.Reserve("name2") {
		t.Error("Reserve should fail for a claimed name")
	}
	if !s.Reserve("Name") {
		t.Error("case-sensitive scope should accept Name next to name")
	}
}

func TestClassScope_FoldsCase(t *testing.T) {
	s := NewClassScope("package com.example")
	s.Reserve("Person")
	if got := s.Claim("PERSON"); got != "PERSON2" {
		t.Errorf("Claim() = %q, want PERSON2", got)
	}
	if !s.Has("person") {
		t.Error("Has should ignore case")
	}
}

func TestScope_Assign(t *testing.T) {
	s := NewScope("class Order")

	first := item.NewName("")
	if err := s.Assign(first, "item"); err != nil {
		t.Fatal(err)
	}
	second := item.NewName("")
	if err := s.Assign(second, "item"); err != nil {
		t.Fatal(err)
	}
	if first.Text() != "item" || second.Text() != "item2" {
		t.Errorf("assigned %q and %q", first.Text(), second.Text())
	}
	if !first.IsChecked() || !second.IsChecked() {
		t.Error("assigned names should be checked")
	}

	// A shared name is only assigned once.
	if err := s.Assign(first, "other"); err != nil || first.Text() != "item" {
		t.Errorf("reassign shared name: %v, text %q", err, first.Text())
	}

	fixed := item.FixedName("item")
	err := s.Assign(fixed, "ignored")
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Name != "item" {
		t.Fatalf("Assign(fixed) = %v, want conflict", err)
	}
	if fixed.Text() != "item" {
		t.Error("fixed name must never be renamed")
	}

	ok := item.FixedName("total")
	if err := s.Assign(ok, "ignored"); err != nil || ok.Text() != "total" {
		t.Errorf("Assign(free fixed) = %v, text %q", err, ok.Text())
	}
}
