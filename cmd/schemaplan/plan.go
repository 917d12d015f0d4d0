package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/broady/schemaplan"
	"github.com/broady/schemaplan/diag"
	"github.com/broady/schemaplan/image"
	"github.com/broady/schemaplan/internal/fixture"
)

type PlanCmd struct {
	Schema      string   `arg:"" help:"Schema description (YAML)." type:"existingfile"`
	Out         string   `help:"Output directory. Without it the model image is printed." short:"o" type:"path"`
	Set         []string `help:"Configuration option as key=value (repeatable)." short:"s" sep:"none"`
	Compare     string   `help:"Model image of a previous run to compare against." short:"c" type:"existingfile"`
	FailOnDrift bool     `help:"Exit with status 1 when the image differs from --compare." name:"fail-on-drift"`
	Color       string   `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	Verbose     bool     `help:"Log planning decisions." short:"v"`
}

func (c *PlanCmd) Run(e *Env) error {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(e.Stderr, &slog.HandlerOptions{Level: level}))
	pal := newPalette(c.Color, e.Stderr)

	values, err := schemaplan.ParseSettings(c.Set)
	if err != nil {
		return err
	}
	cfg, err := schemaplan.ParseOptions(values)
	if err != nil {
		return err
	}

	f, err := os.Open(c.Schema)
	if err != nil {
		return err
	}
	built, err := fixture.Load(f)
	f.Close()
	if err != nil {
		return err
	}
	logger.Debug("loaded schema", "file", c.Schema, "definitions", len(built.Definitions))

	g := schemaplan.FromDefinitions(built.Definitions...).
		WithConfig(*cfg).
		Logger(logger).
		Diagnostics(built.Diagnostics)
	if c.Compare != "" {
		prev, err := readImage(c.Compare)
		if err != nil {
			return err
		}
		g = g.CompareWith(prev)
	}

	var res *schemaplan.Result
	if c.Out != "" {
		res, err = g.ToDir(c.Out)
	} else {
		res, err = g.Generate()
	}
	if res != nil {
		for _, d := range res.Diagnostics {
			fmt.Fprintln(e.Stderr, pal.diagnostic(d))
		}
	}
	if err != nil {
		return err
	}
	if res.Failed() {
		return &exitError{code: 1}
	}
	if c.Out == "" {
		fmt.Fprint(e.Stdout, res.Image.String())
	} else {
		fmt.Fprintf(e.Stderr, "wrote %d classes to %s\n", len(res.Model.Classes), c.Out)
	}

	if res.Drift != "" {
		fmt.Fprintf(e.Stderr, "model differs from %s:\n", c.Compare)
		fmt.Fprint(e.Stderr, pal.report(res.Drift))
		if c.FailOnDrift {
			return &exitError{code: 1}
		}
	}
	return nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := image.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func severityColor(p *palette, s diag.Severity) func(string, ...any) string {
	if s >= diag.SeverityError {
		return p.removed
	}
	return p.changed
}
