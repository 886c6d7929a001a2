package types

import (
	"github.com/v-danh/typelattice/internal/config"
)

// Variance of a class type parameter.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TypeParam is a declared type parameter of a class.
type TypeParam struct {
	Name     string
	Variance Variance
}

// ClassInfo is the identity of a nominal class: its qualified name, type
// parameters, base classes (with the type arguments they were declared
// with), and linearized ancestry. ClassInfo nodes are built once by the
// (out of scope) semantic analysis stage and never mutated afterwards.
type ClassInfo struct {
	FullName   string
	TypeParams []TypeParam

	// Bases holds the direct base classes. Their Args may mention this
	// class's own type parameters as TypeVarType nodes by name.
	Bases []*Instance

	// MRO is the linearized ancestry, self first.
	MRO []*ClassInfo

	// Metaclass is the declared metaclass, if any.
	Metaclass *Instance

	// Promotions lists types this class implicitly promotes to (e.g. int
	// promotes to float).
	Promotions []*Instance

	IsProtocol bool
	IsAbstract bool
}

// NewClass builds a ClassInfo and linearizes its ancestry. Bases must be
// fully constructed already.
func NewClass(fullName string, params []TypeParam, bases ...*Instance) *ClassInfo {
	c := &ClassInfo{
		FullName:   fullName,
		TypeParams: params,
		Bases:      bases,
	}
	c.MRO = []*ClassInfo{c}
	seen := map[string]bool{fullName: true}
	for _, base := range bases {
		for _, anc := range base.Class.MRO {
			if !seen[anc.FullName] {
				seen[anc.FullName] = true
				c.MRO = append(c.MRO, anc)
			}
		}
	}
	return c
}

// HasBase reports whether fullName names this class or one of its ancestors.
func (c *ClassInfo) HasBase(fullName string) bool {
	return c.BaseByName(fullName) != nil
}

// BaseByName returns the ancestor with the given qualified name, or nil.
func (c *ClassInfo) BaseByName(fullName string) *ClassInfo {
	for _, anc := range c.MRO {
		if anc.FullName == fullName {
			return anc
		}
	}
	return nil
}

// MetaclassType returns the first declared metaclass along the MRO, or nil.
func (c *ClassInfo) MetaclassType() *Instance {
	for _, anc := range c.MRO {
		if anc.Metaclass != nil {
			return anc.Metaclass
		}
	}
	return nil
}

// IsMetaclass reports whether the class derives from builtins.type.
func (c *ClassInfo) IsMetaclass() bool {
	return c.HasBase(config.TypeClassName)
}
