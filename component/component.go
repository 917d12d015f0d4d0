// Package component defines the read-only view of the schema object model that the
// planner consumes. Parsing schemas into components happens elsewhere; this package
// only fixes the contract, plus a small in-memory implementation.
package component

// Kind discriminates schema component constructs.
type Kind int

const (
	KindElement Kind = iota + 1
	KindAttribute
	KindComplexType
	KindSimpleType
	KindGroup          // named model group
	KindAttributeGroup // named attribute group
	KindSequence
	KindChoice
	KindAll
	KindAny          // element wildcard
	KindAnyAttribute // attribute wildcard
)

// String returns the schema construct name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindComplexType:
		return "complexType"
	case KindSimpleType:
		return "simpleType"
	case KindGroup:
		return "group"
	case KindAttributeGroup:
		return "attributeGroup"
	case KindSequence:
		return "sequence"
	case KindChoice:
		return "choice"
	case KindAll:
		return "all"
	case KindAny:
		return "any"
	case KindAnyAttribute:
		return "anyAttribute"
	default:
		return "unknown"
	}
}

// IsElement reports whether k is an element declaration.
func (k Kind) IsElement() bool { return k == KindElement }

// IsAttribute reports whether k is an attribute declaration.
func (k Kind) IsAttribute() bool { return k == KindAttribute }

// IsType reports whether k is a type definition.
func (k Kind) IsType() bool { return k == KindComplexType || k == KindSimpleType }

// IsGroupKind reports whether k is a named model group or attribute group.
func (k Kind) IsGroupKind() bool { return k == KindGroup || k == KindAttributeGroup }

// IsCompositor reports whether k is sequence, choice or all.
func (k Kind) IsCompositor() bool {
	return k == KindSequence || k == KindChoice || k == KindAll
}

// QName is a namespace-qualified schema name.
type QName struct {
	Space string
	Local string
}

// IsZero reports whether the name is absent.
func (q QName) IsZero() bool { return q.Space == "" && q.Local == "" }

// String returns "{space}local", or just local when there is no namespace.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// Component is one node of the schema object model.
type Component interface {
	// Kind returns the construct type.
	Kind() Kind

	// Name returns the component name, or the zero QName if anonymous.
	Name() QName

	// Ref returns the referenced component for ref="..." particles, else nil.
	Ref() Component
}

// Extension holds customization overrides attached to a component.
// The planner only reads it.
type Extension struct {
	// BaseClass forces the superclass of the generated class.
	BaseClass string

	// ClassName binds the component to an externally supplied class.
	// A non-empty value makes the definition pregenerated.
	ClassName string

	// ListImplementation overrides the collection implementation class.
	ListImplementation string
}

// IsZero reports whether no override is set.
func (e *Extension) IsZero() bool {
	return e == nil || (e.BaseClass == "" && e.ClassName == "" && e.ListImplementation == "")
}

// Node is an in-memory Component.
type Node struct {
	NodeKind Kind
	NodeName QName
	Target   Component
}

// Kind implements Component.
func (n *Node) Kind() Kind { return n.NodeKind }

// Name implements Component.
func (n *Node) Name() QName { return n.NodeName }

// Ref implements Component.
func (n *Node) Ref() Component {
	if n.Target == nil {
		return nil
	}
	return n.Target
}

// New returns a Node with the given kind and local name in namespace ns.
func New(kind Kind, ns, local string) *Node {
	n := &Node{NodeKind: kind}
	if local != "" {
		n.NodeName = QName{Space: ns, Local: local}
	}
	return n
}

// NewRef returns a reference particle of the target's kind pointing at target.
func NewRef(target Component) *Node {
	return &Node{NodeKind: target.Kind(), Target: target}
}

// Describe returns "kind name" for diagnostics, using the referenced name for
// reference particles.
func Describe(c Component) string {
	if c == nil {
		return "<nil>"
	}
	name := c.Name()
	if name.IsZero() {
		if ref := c.Ref(); ref != nil {
			return c.Kind().String() + " ref=" + ref.Name().String()
		}
		return c.Kind().String() + " (anonymous)"
	}
	return c.Kind().String() + " " + name.String()
}
