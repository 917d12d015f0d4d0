package fixture

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
)

// Archive file names.
const (
	SchemaFile      = "schema.yaml"
	OptionsFile     = "options"
	ImageFile       = "model.image"
	PreviousFile    = "previous.image"
	DiagnosticsFile = "diagnostics"
	DriftFile       = "drift"
)

// Case is a golden test case read from a txtar archive. The archive holds a
// schema description and the expected outputs of planning it.
type Case struct {
	// Name is the archive file name without extension.
	Name string

	// Comment is the archive's leading comment.
	Comment string

	files map[string]string
}

// ReadCase reads the txtar archive at path.
func ReadCase(path string) (*Case, error) {
	ar, err := txtar.ParseFile(path)
	if err != nil {
		return nil, err
	}
	c := &Case{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Comment: strings.TrimSpace(string(ar.Comment)),
		files:   make(map[string]string, len(ar.Files)),
	}
	for _, f := range ar.Files {
		if _, dup := c.files[f.Name]; dup {
			return nil, fmt.Errorf("%s: file %s appears twice", path, f.Name)
		}
		c.files[f.Name] = string(f.Data)
	}
	if !c.Has(SchemaFile) {
		return nil, fmt.Errorf("%s: no %s", path, SchemaFile)
	}
	return c, nil
}

// Has reports whether the archive contains name.
func (c *Case) Has(name string) bool {
	_, ok := c.files[name]
	return ok
}

// File returns the content of name, or "" if absent.
func (c *Case) File(name string) string {
	return c.files[name]
}

// Schema parses and builds the case's schema description.
func (c *Case) Schema() (*Result, error) {
	s, err := Parse([]byte(c.File(SchemaFile)))
	if err != nil {
		return nil, err
	}
	return s.Build()
}

// Lines returns the non-empty lines of name.
func (c *Case) Lines(name string) []string {
	var out []string
	for line := range strings.SplitSeq(c.File(name), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Format builds an archive from a comment and files in the given order.
// Used to write updated golden files.
func Format(comment string, files ...txtar.File) []byte {
	return txtar.Format(&txtar.Archive{Comment: []byte(comment), Files: files})
}
