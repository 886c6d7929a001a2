package types

// AliasNode is the definition side of a type alias. Target is assigned after
// construction so self-referential aliases can tie the knot; once assigned it
// is never changed. Recursive is set by the definition stage when the target
// reaches back to the alias itself.
type AliasNode struct {
	Name      string
	Target    Type
	Recursive bool
}

// AliasType is a use of a type alias. Lattice operations see through it via
// Proper; it exists as a distinct variant so that self-referential type
// graphs stay finite.
type AliasType struct {
	Node *AliasNode
}

func (t *AliasType) String() string { return t.Node.Name }

// NewRecursiveAlias creates an alias node whose target may refer back to the
// alias. The caller assigns Target after wrapping the node in an AliasType.
func NewRecursiveAlias(name string) *AliasNode {
	return &AliasNode{Name: name, Recursive: true}
}

// Proper resolves top-level aliases, returning a non-alias descriptor. Alias
// chains are followed through identifier indirection; a cycle of aliases with
// no concrete node in between resolves to Any rather than looping.
func Proper(t Type) Type {
	visited := map[*AliasNode]bool{}
	for {
		alias, ok := t.(*AliasType)
		if !ok {
			return t
		}
		if visited[alias.Node] || alias.Node.Target == nil {
			return AnyType{Source: AnyFromError}
		}
		visited[alias.Node] = true
		t = alias.Node.Target
	}
}

// ProperAll resolves top-level aliases in a slice.
func ProperAll(ts []Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Proper(t)
	}
	return out
}

// IsRecursivePair reports whether both operands are uses of structurally
// self-referential aliases. General recursion over such a pair can fail to
// terminate, so the meet engine falls back to a trivial comparison.
func IsRecursivePair(s, t Type) bool {
	sa, ok := s.(*AliasType)
	if !ok || !sa.Node.Recursive {
		return false
	}
	ta, ok := t.(*AliasType)
	return ok && ta.Node.Recursive
}
