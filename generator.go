// Package schemaplan plans the classes generated from a schema: it decides
// which definitions become classes, names them, lays out their fields and
// imports, and records the result as a model image for drift checks.
//
// The pipeline runs classify, resolve, plan and image in that order:
//
//	res, err := schemaplan.FromDefinitions(defs...).
//	    Package("com.example.orders").
//	    CompareWith(previous).
//	    ToDir("./out")
package schemaplan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/broady/schemaplan/diag"
	"github.com/broady/schemaplan/image"
	"github.com/broady/schemaplan/item"
	"github.com/broady/schemaplan/plan"
	"github.com/broady/schemaplan/resolve"
	"github.com/broady/schemaplan/sink"
)

// Generator provides a fluent API for a planning run.
// Create with FromDefinitions and configure with method chaining.
// A Generator runs once: the pipeline rewrites the definitions in place.
type Generator struct {
	defs    []*item.Definition
	cfg     Config
	logger  *slog.Logger
	diags   *diag.List
	compare image.Image
	hasPrev bool
}

// FromDefinitions creates a Generator for the global definitions of a schema.
func FromDefinitions(defs ...*item.Definition) *Generator {
	return &Generator{defs: defs}
}

// WithConfig replaces the configuration.
func (g *Generator) WithConfig(cfg Config) *Generator {
	g.cfg = cfg
	return g
}

// Package sets the package of generated classes.
func (g *Generator) Package(pkg string) *Generator {
	g.cfg.Package = pkg
	return g
}

// Logger sets the logger. If not set, slog.Default() will be used.
func (g *Generator) Logger(logger *slog.Logger) *Generator {
	g.logger = logger
	return g
}

// Diagnostics seeds the run with diagnostics found while building the
// definitions, so they are reported together with the run's own.
func (g *Generator) Diagnostics(l *diag.List) *Generator {
	g.diags = l
	return g
}

// CompareWith sets the image of a previous run. The result's Drift reports
// how the new image differs from it.
func (g *Generator) CompareWith(prev image.Image) *Generator {
	g.compare = prev
	g.hasPrev = true
	return g
}

// Result is the outcome of a run.
type Result struct {
	// Model describes every class to generate.
	Model *plan.Model

	// Image is the model image of Model.
	Image image.Image

	// Diagnostics lists configuration and data problems in the order found.
	Diagnostics []diag.Diagnostic

	// Drift is the difference report against the image given to
	// CompareWith. Empty when there is no difference or no comparison.
	Drift string
}

// Failed reports whether a diagnostic reached error severity.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SeverityError {
			return true
		}
	}
	return false
}

// Generate runs the pipeline and returns the result in memory.
// Internal-consistency failures abort the run and are returned as errors;
// data problems are collected in Result.Diagnostics.
func (g *Generator) Generate() (*Result, error) {
	cfg := applyConfigDefaults(&g.cfg)
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	logger := g.logger
	if logger == nil {
		logger = slog.Default()
	}
	diags := &diag.List{}
	diags.Merge(g.diags)

	for _, d := range g.defs {
		item.Classify(d)
	}

	r := resolve.New(resolve.WithLogger(logger), resolve.WithDiagnostics(diags))
	standalone, err := r.Resolve(g.defs)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	logger.Debug("resolved definitions", "input", len(g.defs), "standalone", len(standalone))

	p := plan.New(plan.Options{
		Package:            cfg.Package,
		ListType:           cfg.ListType,
		ListImplementation: cfg.ListImplementation,
		Interfaces:         cfg.Interfaces,
		Logger:             logger,
		Diagnostics:        diags,
	})
	model, err := p.Plan(standalone)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	if errs := plan.Validate(model); len(errs) > 0 {
		return nil, diag.Internalf("validate", cfg.Package, "planned model is inconsistent: %v", errors.Join(errs...))
	}

	res := &Result{
		Model:       model,
		Image:       image.FromPlan(model),
		Diagnostics: diags.Items(),
	}
	if g.hasPrev {
		res.Drift = image.Diff(g.compare, res.Image)
	}
	logger.Debug("planned classes", "classes", len(model.Classes), "diagnostics", len(res.Diagnostics), "drift", res.Drift != "")
	return res, nil
}

// ToDir runs the pipeline and writes the outputs to dir.
func (g *Generator) ToDir(dir string) (*Result, error) {
	return g.ToSink(context.Background(), sink.NewDir(dir))
}

// ToSink runs the pipeline and writes the model image and, unless disabled,
// the class descriptor JSON to s. Nothing is written when the run fails.
func (g *Generator) ToSink(ctx context.Context, s sink.Sink) (*Result, error) {
	res, err := g.Generate()
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return res, Errorf(CodeFailed, "%d diagnostics, outputs not written", len(res.Diagnostics))
	}
	cfg := applyConfigDefaults(&g.cfg)

	if err := s.WriteFile(ctx, cfg.ImageFile, []byte(res.Image.String())); err != nil {
		return res, fmt.Errorf("writing image: %w", err)
	}
	if !cfg.SkipClasses {
		var buf bytes.Buffer
		if err := res.Model.WriteJSON(&buf); err != nil {
			return res, fmt.Errorf("encoding classes: %w", err)
		}
		if err := s.WriteFile(ctx, cfg.ClassesFile, buf.Bytes()); err != nil {
			return res, fmt.Errorf("writing classes: %w", err)
		}
	}
	return res, nil
}
