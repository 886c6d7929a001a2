// Package types defines the type descriptors the lattice engines operate on.
//
// Type is a closed sum: the set of variants below never grows at runtime.
// Every node is an immutable value; composite nodes own their children and
// children may be shared between parents (a fallback Instance reused across
// several Literal nodes is fine because nothing ever mutates a node).
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every type variant.
type Type interface {
	String() string
}

// AnySource records where an Any type came from.
type AnySource int

const (
	AnyExplicit AnySource = iota
	AnySpecialForm
	AnyFromError
	AnyImplementationArtifact
)

// AnyType is the absorbing element: meet(Any, x) = x.
type AnyType struct {
	Source AnySource
}

func (t AnyType) String() string { return "Any" }

// NoneType is the type of None. Under strict-optional it sits just above
// bottom; with strict-optional off it absorbs in meets.
type NoneType struct{}

func (t NoneType) String() string { return "None" }

// UninhabitedType is the true bottom element: no value has it.
type UninhabitedType struct{}

func (t UninhabitedType) String() string { return "<nothing>" }

// UnboundType is a name that failed to resolve. Treated permissively.
type UnboundType struct {
	Name string
}

func (t UnboundType) String() string { return t.Name + "?" }

// ErasedType replaces type variables during type erasure.
type ErasedType struct{}

func (t ErasedType) String() string { return "<erased>" }

// DeletedType marks a variable deleted by a `del` statement.
type DeletedType struct {
	Source string
}

func (t DeletedType) String() string { return "<deleted>" }

// UnionType is a disjunction of at least two alternatives. Members are
// simplified (flattened, deduplicated) before being stored; use MakeUnion.
type UnionType struct {
	Items []Type
}

func (t UnionType) String() string {
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.String()
	}
	return "Union[" + strings.Join(parts, ", ") + "]"
}

// Instance is a nominal class possibly applied to type arguments.
type Instance struct {
	Class *ClassInfo
	Args  []Type
}

func (t *Instance) String() string {
	if len(t.Args) == 0 {
		return t.Class.FullName
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", t.Class.FullName, strings.Join(parts, ", "))
}

// TupleType is a fixed-arity tuple. A variable-arity sequence is represented
// as an Instance of builtins.tuple whose single argument is the element type.
type TupleType struct {
	Items    []Type
	Fallback *Instance
}

func (t *TupleType) String() string {
	if len(t.Items) == 0 {
		return "Tuple[()]"
	}
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.String()
	}
	return "Tuple[" + strings.Join(parts, ", ") + "]"
}

// Length returns the tuple arity.
func (t *TupleType) Length() int { return len(t.Items) }

// TypedDictType is a structural record: a statically known, possibly partial
// set of named fields, a subset of which is required. Field iteration aligns
// by name, never by position.
type TypedDictType struct {
	Fields   map[string]Type
	Required map[string]bool
	Fallback *Instance
}

func (t *TypedDictType) String() string {
	keys := t.SortedKeys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		opt := ""
		if !t.Required[k] {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("%q%s: %s", k, opt, t.Fields[k]))
	}
	return "TypedDict({" + strings.Join(parts, ", ") + "})"
}

// SortedKeys returns the field names in deterministic order.
func (t *TypedDictType) SortedKeys() []string {
	keys := make([]string, 0, len(t.Fields))
	for k := range t.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasRequired reports whether any field is required.
func (t *TypedDictType) HasRequired() bool {
	for k := range t.Required {
		if t.Required[k] {
			return true
		}
	}
	return false
}

// CallableType is a call signature with positional parameters. A callable
// with IsTypeObj set represents a class object; TypeObj then names the class
// it constructs.
type CallableType struct {
	Name      string
	Params    []Type
	Ret       Type
	Fallback  *Instance
	IsTypeObj bool
	TypeObj   *ClassInfo
	TypeVars  []TypeVarType

	// FromTypeType suppresses errors when a collection of concrete class
	// objects is inferred as their common abstract superclass.
	FromTypeType bool
}

func (t *CallableType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("Callable[[%s], %s]", strings.Join(parts, ", "), t.Ret)
}

// IsGeneric reports whether the signature binds its own type variables.
func (t *CallableType) IsGeneric() bool { return len(t.TypeVars) > 0 }

// TypeObject returns the class constructed by a type-object callable.
func (t *CallableType) TypeObject() *ClassInfo { return t.TypeObj }

// CopyModified clones the callable with new parameter and return types.
func (t *CallableType) CopyModified(params []Type, ret Type, fallback *Instance) *CallableType {
	c := *t
	c.Name = ""
	c.Params = params
	c.Ret = ret
	if fallback != nil {
		c.Fallback = fallback
	}
	return &c
}

// Overloaded is an ordered list of call signature alternatives.
type Overloaded struct {
	Items []*CallableType
}

func (t *Overloaded) String() string {
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.String()
	}
	return "Overload(" + strings.Join(parts, ", ") + ")"
}

// Fallback returns the fallback Instance shared by the alternatives.
func (t *Overloaded) Fallback() *Instance { return t.Items[0].Fallback }

// TypeVarType is a type variable. When Values is non-empty the variable is
// constrained and decomposes to its values; otherwise it stands for its
// upper bound.
type TypeVarType struct {
	Name       string
	ID         int
	Values     []Type
	UpperBound Type
}

func (t TypeVarType) String() string { return t.Name }

// LiteralType is a concrete constant value together with the instance type
// it is a literal of. Value must be a comparable scalar (bool, int64,
// float64 or string).
type LiteralType struct {
	Value    any
	Fallback *Instance
}

func (t *LiteralType) String() string {
	if s, ok := t.Value.(string); ok {
		return fmt.Sprintf("Literal[%q]", s)
	}
	return fmt.Sprintf("Literal[%v]", t.Value)
}

// TypeType is the type of a class object: Type[Item].
type TypeType struct {
	Item Type
}

func (t *TypeType) String() string { return fmt.Sprintf("Type[%s]", t.Item) }

// MakeTypeType wraps item in a TypeType in normalized form: Type[Union[...]]
// becomes a union of Type[...] items, and Type[Any] stays flat.
func MakeTypeType(item Type) Type {
	if u, ok := item.(UnionType); ok {
		items := make([]Type, len(u.Items))
		for i, it := range u.Items {
			items[i] = MakeTypeType(it)
		}
		return MakeUnion(items)
	}
	return &TypeType{Item: item}
}

// GuardedType is narrowing evidence produced by a type guard. It forces the
// narrowed type even when it does not overlap the declared one.
type GuardedType struct {
	Guard Type
}

func (t *GuardedType) String() string { return fmt.Sprintf("TypeGuard[%s]", t.Guard) }

// PartialType is a partially inferred type. It must be resolved before any
// lattice operation; encountering one here is a caller bug.
type PartialType struct{}

func (t PartialType) String() string { return "<partial>" }

// UnpackType is a variadic unpack marker. The lattice has no rules for it
// yet; meets involving it report an unsupported-feature condition.
type UnpackType struct {
	Inner Type
}

func (t *UnpackType) String() string { return fmt.Sprintf("Unpack[%s]", t.Inner) }
