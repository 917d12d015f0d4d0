// Package resolve decides which definitions of an item tree stay standalone
// classes and which are inlined at their single use site.
package resolve

import (
	"log/slog"
	"strconv"

	"github.com/broady/schemaplan/component"
	"github.com/broady/schemaplan/diag"
	"github.com/broady/schemaplan/item"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	done
)

// Resolver rewrites an item tree in place. A Resolver is used for one run.
type Resolver struct {
	logger *slog.Logger
	diags  *diag.List

	state  map[*item.Definition]visitState
	defs   []*item.Definition
	qnames map[string]bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for resolver decisions.
// If not set, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithDiagnostics sets the list that receives data diagnostics.
func WithDiagnostics(diags *diag.List) Option {
	return func(r *Resolver) { r.diags = diags }
}

// New returns a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		state:  make(map[*item.Definition]visitState),
		qnames: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.diags == nil {
		r.diags = &diag.List{}
	}
	return r
}

// Resolve processes every definition in defs, in order, and returns the
// definitions that remain standalone: the surviving inputs followed by any
// synthesized definitions, in creation order.
//
// The walk is depth first over references. A target is fully resolved before
// its users copy it, so a copied body never needs revisiting. Reaching a
// definition that is still being resolved blocks it from inlining.
func (r *Resolver) Resolve(defs []*item.Definition) ([]*item.Definition, error) {
	for _, d := range defs {
		r.track(d)
		item.Classify(d)
	}
	for _, d := range defs {
		if err := r.visit(d); err != nil {
			return nil, err
		}
	}
	if err := r.promoteShared(); err != nil {
		return nil, err
	}
	for _, d := range r.defs {
		if d.RefCount() > 1 && !d.InlineBlocked() {
			if err := r.block(d, "shared"); err != nil {
				return nil, err
			}
		}
	}
	r.markTypeIsomorphic()

	var out []*item.Definition
	for _, d := range r.defs {
		if d.IsStandalone() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *Resolver) track(d *item.Definition) {
	if _, ok := r.state[d]; ok {
		return
	}
	r.state[d] = unvisited
	r.defs = append(r.defs, d)
	r.qnames[d.QName()] = true
}

func (r *Resolver) visit(d *item.Definition) error {
	switch r.state[d] {
	case done:
		return nil
	case visiting:
		return diag.Internalf("resolve", item.Subject(d), "re-entered definition under resolution")
	}
	if _, ok := r.state[d]; !ok {
		r.track(d)
	}
	r.state[d] = visiting

	// Collect first: inlining mutates the tree under the walk.
	var refs []*item.Reference
	item.Walk(d, func(it item.Item) bool {
		if ref, ok := it.(*item.Reference); ok {
			refs = append(refs, ref)
		}
		return true
	})

	for _, ref := range refs {
		if ref.Consumed() {
			continue
		}
		target := ref.Target()
		if _, ok := r.state[target]; !ok {
			r.diags.Warnf(diag.CodeUnresolvedRef, item.Subject(ref), "reference target %s is not a root definition", target.QName())
			r.track(target)
		}
		switch r.state[target] {
		case visiting:
			if err := r.block(target, "cycle"); err != nil {
				return err
			}
			continue
		case unvisited:
			if err := r.visit(target); err != nil {
				return err
			}
		}
		if !target.CanInline() {
			continue
		}
		if err := r.inline(ref); err != nil {
			return err
		}
	}

	r.state[d] = done
	return nil
}

func (r *Resolver) inline(ref *item.Reference) error {
	target := ref.Target()
	g, err := item.InlineReference(ref)
	if err != nil {
		return err
	}
	// The discarded original no longer holds live references.
	for _, child := range target.Children() {
		item.Release(child)
	}
	r.logger.Debug("inlined definition",
		slog.String("definition", target.QName()),
		slog.String("site", item.Subject(g.Parent())))
	return nil
}

func (r *Resolver) block(d *item.Definition, reason string) error {
	if d.InlineBlocked() {
		return nil
	}
	if err := d.SetInlineBlocked(true); err != nil {
		return err
	}
	r.logger.Debug("blocked inlining",
		slog.String("definition", d.QName()),
		slog.String("reason", reason),
		slog.Int("refs", d.RefCount()))
	return nil
}

type groupKey struct {
	comp component.Component
	sig  string
}

// promoteShared converts embedded groups that occur more than once with
// identical structure into synthesized definitions. Outer groups are handled
// before the groups nested inside them; the scan repeats until nothing is left
// to promote.
func (r *Resolver) promoteShared() error {
	for {
		sites := make(map[groupKey][]*item.Group)
		var order []groupKey
		for _, d := range r.defs {
			if !d.IsStandalone() || d.Pregenerated() {
				continue
			}
			for _, child := range d.Children() {
				item.Walk(child, func(it item.Item) bool {
					g, ok := it.(*item.Group)
					if !ok || !structured(g) {
						return true
					}
					k := groupKey{comp: g.Component(), sig: item.Signature(g)}
					if _, seen := sites[k]; !seen {
						order = append(order, k)
					}
					sites[k] = append(sites[k], g)
					return true
				})
			}
		}

		promoted := false
		for _, k := range order {
			gs := live(sites[k])
			if len(gs) < 2 {
				continue
			}
			if err := r.promote(gs); err != nil {
				return err
			}
			promoted = true
		}
		if !promoted {
			return nil
		}
	}
}

func (r *Resolver) promote(gs []*item.Group) error {
	d, _, err := item.PromoteGroup(gs[0], item.NewName(r.synthName(gs[0])))
	if err != nil {
		return err
	}
	for _, g := range gs[1:] {
		if _, err := item.MergeGroup(g, d); err != nil {
			return err
		}
	}
	r.track(d)
	r.state[d] = done
	r.logger.Debug("promoted shared group",
		slog.String("definition", d.QName()),
		slog.Int("sites", len(gs)))
	return nil
}

// synthName picks a definition name unique among tracked qualified names.
func (r *Resolver) synthName(g *item.Group) string {
	base := g.Name().Text()
	if base == "" && g.Component() != nil {
		base = g.Component().Name().Local
	}
	if base == "" {
		base = "Group"
	}
	name := base
	for i := 2; r.qnames[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	r.qnames[name] = true
	return name
}

// structured reports whether g would produce content beyond a single field.
func structured(g *item.Group) bool {
	if g.Component() == nil || g.Len() == 0 {
		return false
	}
	if g.Len() > 1 {
		return true
	}
	_, leaf := g.Child(0).(*item.Value)
	return !leaf
}

// live drops groups that an earlier promotion in the same scan detached or
// absorbed.
func live(gs []*item.Group) []*item.Group {
	var out []*item.Group
	for _, g := range gs {
		if attached(g) {
			out = append(out, g)
		}
	}
	return out
}

// attached reports whether g still hangs from a definition.
func attached(g *item.Group) bool {
	var it item.Item = g
	for {
		p := it.Parent()
		if p == nil {
			_, ok := it.(*item.Definition)
			return ok
		}
		it = p
	}
}

// markTypeIsomorphic flags element definitions that consist of one required,
// non-repeating reference to a standalone type definition. Such elements reuse
// the type's class.
func (r *Resolver) markTypeIsomorphic() {
	for _, d := range r.defs {
		if !d.IsStandalone() || d.Pregenerated() || d.Component() == nil || !d.Component().Kind().IsElement() {
			continue
		}
		if d.Len() != 1 {
			continue
		}
		ref, ok := d.Child(0).(*item.Reference)
		if !ok || ref.IsOptional() || ref.IsCollection() {
			continue
		}
		target := ref.Target()
		if !target.IsStandalone() || target.Component() == nil || !target.Component().Kind().IsType() {
			continue
		}
		d.SetTypeIsomorphic(true)
		r.logger.Debug("type-isomorphic definition",
			slog.String("definition", d.QName()),
			slog.String("type", target.QName()))
	}
}
