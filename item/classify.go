package item

// Classify computes the content classification of it and its descendants, bottom
// up, and returns it. Results are memoized: classifying an item again returns the
// stored result without recomputation or repeated propagation.
func Classify(it Item) Content {
	switch n := it.(type) {
	case *Definition:
		return classifyDefinition(n)
	case *Group:
		return classifyGroup(n)
	case *Reference:
		return classifyReference(n)
	case *Value:
		return n.Content()
	case *Any:
		return n.Content()
	default:
		panic("item: unknown item variant")
	}
}

func classifyDefinition(d *Definition) Content {
	if d.classified {
		return d.content
	}
	if d.checked {
		// Re-entered through a reference cycle: the partial result stands in.
		return d.content
	}
	d.checked = true
	classifyGroup(&d.Group)
	d.checked = false
	return d.content
}

func classifyGroup(g *Group) Content {
	if g.classified {
		return g.content
	}
	c := Content{AllOptional: true}
	for _, child := range g.children {
		cc := Classify(child)
		c.Attributes = c.Attributes || cc.Attributes
		c.Elements = c.Elements || cc.Elements
		c.Text = c.Text || cc.Text
		c.AllOptional = c.AllOptional && cc.AllOptional
	}
	if g.optional {
		c.AllOptional = true
	}
	g.content = c
	g.classified = true
	return c
}

func classifyReference(r *Reference) Content {
	if r.classified {
		return r.content
	}
	var c Content
	switch {
	case r.componentKind().IsElement():
		c = Content{Elements: true, AllOptional: r.optional}
	case r.componentKind().IsAttribute():
		c = Content{Attributes: true, AllOptional: r.optional}
	default:
		c = classifyDefinition(r.target)
		if r.optional {
			c.AllOptional = true
		}
	}
	r.content = c
	r.classified = true
	if !r.IsStructural() {
		if p := disjointParent(r); p != nil {
			force(p, c)
		}
	}
	return c
}

// disjointParent returns the nearest ancestor whose component differs from the
// reference's own component.
func disjointParent(r *Reference) Container {
	for p := r.parent; p != nil; p = p.Parent() {
		if p.Component() != r.comp {
			return p
		}
	}
	return nil
}

// force OR-merges c into already classified containers, starting at p and moving
// up while something changes. Unclassified containers will pick the content up
// when they are classified themselves.
func force(p Container, c Content) {
	for cur := p; cur != nil; cur = cur.Parent() {
		g := cur.group()
		if !g.classified {
			return
		}
		if !g.forceContent(c) {
			return
		}
	}
}

// forceContent merges c into g and reports whether anything changed.
func (g *Group) forceContent(c Content) bool {
	changed := false
	if c.Attributes && !g.content.Attributes {
		g.content.Attributes = true
		changed = true
	}
	if c.Elements && !g.content.Elements {
		g.content.Elements = true
		changed = true
	}
	if c.Text && !g.content.Text {
		g.content.Text = true
		changed = true
	}
	if !c.AllOptional && g.content.AllOptional && !g.optional {
		g.content.AllOptional = false
		changed = true
	}
	return changed
}
