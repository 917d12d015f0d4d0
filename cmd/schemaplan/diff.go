package main

import (
	"fmt"
	"os"

	"github.com/broady/schemaplan/image"
)

type DiffCmd struct {
	Old   string `arg:"" help:"Model image of the previous run." type:"existingfile"`
	New   string `arg:"" help:"Model image of the current run." type:"existingfile"`
	Lines bool   `help:"Show a line diff of the image text instead of the class report." short:"l"`
	Color string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
}

// Run prints the differences and exits with status 1 when there are any.
func (c *DiffCmd) Run(e *Env) error {
	pal := newPalette(c.Color, e.Stdout)

	var out string
	if c.Lines {
		a, err := os.ReadFile(c.Old)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(c.New)
		if err != nil {
			return err
		}
		out = pal.lines(image.LineDiff(string(a), string(b)))
	} else {
		a, err := readImage(c.Old)
		if err != nil {
			return err
		}
		b, err := readImage(c.New)
		if err != nil {
			return err
		}
		out = pal.report(image.Diff(a, b))
	}

	if out == "" {
		return nil
	}
	fmt.Fprint(e.Stdout, out)
	return &exitError{code: 1}
}
