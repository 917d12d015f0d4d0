package plan

import (
	"encoding/json"
	"io"
)

// JSON serialization support for plan types.
// Classes include a "kind" field: "class" for top-level classes and "nested"
// for member classes.

// MarshalJSON implements json.Marshaler for ClassDescriptor.
func (c *ClassDescriptor) MarshalJSON() ([]byte, error) {
	type Alias ClassDescriptor
	kind := "class"
	if c.Outer != "" {
		kind = "nested"
	}
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Kind:  kind,
		Alias: (*Alias)(c),
	})
}

// UnmarshalJSON implements json.Unmarshaler for ClassDescriptor.
// The kind field is derived from Outer and ignored on input.
func (c *ClassDescriptor) UnmarshalJSON(data []byte) error {
	type Alias ClassDescriptor
	aux := &struct {
		Kind string `json:"kind"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}
	return json.Unmarshal(data, aux)
}

// WriteJSON writes m as indented JSON.
func (m *Model) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadJSON decodes a model written by WriteJSON.
func ReadJSON(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
