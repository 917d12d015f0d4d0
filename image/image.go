// Package image reads, writes and compares model images: the class and field
// shape of a generation run in a line-oriented text form.
//
// Each class starts an unindented line holding its fully qualified name.
// Each of its fields follows on a line starting with exactly one space:
//
//	com.example.Foo
//	 bar (java.lang.String)
//	 count (int)
//
// Writing an image read from text reproduces the text byte for byte.
package image

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Field is one field line.
type Field struct {
	Name string
	Type string
}

// Class is a class line and its fields, in image order.
type Class struct {
	Name   string
	Fields []Field
}

// Image is an ordered list of classes.
type Image []Class

// ParseError reports a malformed image line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("image line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Write writes img to w.
func Write(w io.Writer, img Image) error {
	bw := bufio.NewWriter(w)
	for _, c := range img {
		bw.WriteString(c.Name)
		bw.WriteByte('\n')
		for _, f := range c.Fields {
			fmt.Fprintf(bw, " %s (%s)\n", f.Name, f.Type)
		}
	}
	return bw.Flush()
}

// String returns the text form of img.
func (img Image) String() string {
	var b strings.Builder
	Write(&b, img)
	return b.String()
}

// Read parses an image. Field lines before the first class line, empty lines
// and field lines without a parenthesized type are errors.
func Read(r io.Reader) (Image, error) {
	var img Image
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		switch {
		case line == "":
			return nil, &ParseError{Line: n, Text: line, Msg: "empty line"}
		case line[0] == ' ':
			if len(img) == 0 {
				return nil, &ParseError{Line: n, Text: line, Msg: "field before first class"}
			}
			f, ok := parseField(line[1:])
			if !ok {
				return nil, &ParseError{Line: n, Text: line, Msg: "malformed field"}
			}
			last := &img[len(img)-1]
			last.Fields = append(last.Fields, f)
		default:
			img = append(img, Class{Name: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return img, nil
}

func parseField(s string) (Field, bool) {
	name, rest, ok := strings.Cut(s, " (")
	if !ok || name == "" || !strings.HasSuffix(rest, ")") {
		return Field{}, false
	}
	return Field{Name: name, Type: strings.TrimSuffix(rest, ")")}, true
}
