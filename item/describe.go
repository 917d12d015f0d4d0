package item

import (
	"strconv"
	"strings"
)

// Describe returns an indented, deterministic dump of the subtree rooted at it.
// References print their target's qualified name but are not expanded.
func Describe(it Item) string {
	var b strings.Builder
	describe(&b, it, 0)
	return b.String()
}

func describe(b *strings.Builder, it Item, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(it.Kind().String())
	if name := it.Name().Text(); name != "" {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(name))
	}
	if it.IsOptional() {
		b.WriteString(" optional")
	}
	if it.IsCollection() {
		b.WriteString(" repeated")
	}
	switch n := it.(type) {
	case *Definition:
		b.WriteString(" qname=")
		b.WriteString(n.QName())
		b.WriteString(" refs=")
		b.WriteString(strconv.Itoa(n.refCount))
		if n.inlineBlocked {
			b.WriteString(" blocked")
		}
		if n.Pregenerated() {
			b.WriteString(" pregenerated")
		}
		if n.typeIsomorphic {
			b.WriteString(" isomorphic")
		}
	case *Reference:
		b.WriteString(" -> ")
		b.WriteString(n.target.QName())
	case *Value:
		b.WriteString(" type=")
		b.WriteString(n.schemaType)
	}
	b.WriteString(contentFlags(it.Content()))
	b.WriteString("\n")
	if c, ok := it.(Container); ok {
		for _, child := range c.group().children {
			describe(b, child, depth+1)
		}
	}
}

func contentFlags(c Content) string {
	var flags []string
	if c.Attributes {
		flags = append(flags, "A")
	}
	if c.Elements {
		flags = append(flags, "E")
	}
	if c.Text {
		flags = append(flags, "T")
	}
	if c.AllOptional {
		flags = append(flags, "opt")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ",") + "]"
}

// Signature returns a structural fingerprint of the subtree: two subtrees with
// equal signatures generate identical class content. Names, multiplicities,
// value types and reference targets contribute; classification does not.
func Signature(it Item) string {
	var b strings.Builder
	signature(&b, it)
	return b.String()
}

func signature(b *strings.Builder, it Item) {
	b.WriteString(it.Kind().String()[:1])
	b.WriteString(strconv.Quote(it.Name().Text()))
	if it.IsOptional() {
		b.WriteString("?")
	}
	if it.IsCollection() {
		b.WriteString("*")
	}
	if comp := it.Component(); comp != nil {
		b.WriteString(comp.Kind().String()[:2])
	}
	switch n := it.(type) {
	case *Reference:
		b.WriteString("->")
		b.WriteString(strconv.Quote(n.target.QName()))
	case *Value:
		b.WriteString(":")
		b.WriteString(n.schemaType)
	}
	if c, ok := it.(Container); ok {
		b.WriteString("(")
		for i, child := range c.group().children {
			if i > 0 {
				b.WriteString(",")
			}
			signature(b, child)
		}
		b.WriteString(")")
	}
}
