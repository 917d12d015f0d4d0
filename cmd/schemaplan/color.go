package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/broady/schemaplan/diag"
)

// palette colors report lines. Disabled palettes format plainly.
type palette struct {
	added   func(string, ...any) string
	removed func(string, ...any) string
	changed func(string, ...any) string
}

// newPalette returns the palette for output written to w. In auto mode colors
// are used only when w is a terminal.
func newPalette(mode string, w io.Writer) *palette {
	enabled := mode == "always" ||
		(mode == "auto" && isTerminal(w) && os.Getenv("NO_COLOR") == "")
	if !enabled {
		return &palette{added: fmt.Sprintf, removed: fmt.Sprintf, changed: fmt.Sprintf}
	}
	green, red, yellow := color.New(color.FgGreen), color.New(color.FgRed), color.New(color.FgYellow)
	for _, c := range []*color.Color{green, red, yellow} {
		c.EnableColor()
	}
	return &palette{added: green.SprintfFunc(), removed: red.SprintfFunc(), changed: yellow.SprintfFunc()}
}

// report colors the lines of an image.Diff report.
func (p *palette) report(s string) string {
	var b strings.Builder
	removed := false
	for _, line := range splitLines(s) {
		switch {
		case strings.HasPrefix(line, "missing class "):
			removed = true
			b.WriteString(p.removed("%s", line))
		case strings.HasPrefix(line, " ") && removed:
			b.WriteString(p.removed("%s", line))
		case strings.HasPrefix(line, "added class "), strings.Contains(line, ": added field "):
			removed = false
			b.WriteString(p.added("%s", line))
		case strings.Contains(line, ": missing field "):
			removed = false
			b.WriteString(p.removed("%s", line))
		default:
			removed = false
			b.WriteString(p.changed("%s", line))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// lines colors the output of image.LineDiff.
func (p *palette) lines(s string) string {
	var b strings.Builder
	for _, line := range splitLines(s) {
		switch {
		case strings.HasPrefix(line, "+ "):
			b.WriteString(p.added("%s", line))
		case strings.HasPrefix(line, "- "):
			b.WriteString(p.removed("%s", line))
		default:
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *palette) diagnostic(d diag.Diagnostic) string {
	return severityColor(p, d.Severity)("%s", d.String())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
