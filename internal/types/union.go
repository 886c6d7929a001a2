package types

import (
	"reflect"
	"sort"
)

// MakeUnion builds a union in normalized form: nested unions are flattened,
// duplicates removed and members sorted for deterministic comparison. Zero
// members collapse to bottom, a single member is returned directly.
func MakeUnion(items []Type) Type {
	flat := make([]Type, 0, len(items))
	for _, it := range items {
		if u, ok := it.(UnionType); ok {
			flat = append(flat, u.Items...)
		} else {
			flat = append(flat, it)
		}
	}

	seen := make(map[string]bool)
	unique := make([]Type, 0, len(flat))
	for _, it := range flat {
		s := it.String()
		if !seen[s] {
			seen[s] = true
			unique = append(unique, it)
		}
	}

	switch len(unique) {
	case 0:
		return UninhabitedType{}
	case 1:
		return unique[0]
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})
	return UnionType{Items: unique}
}

// RelevantItems returns the union members that matter for comparisons: with
// strict-optional off, None carries no constraint and is dropped.
func (t UnionType) RelevantItems(strictOptional bool) []Type {
	if strictOptional {
		return t.Items
	}
	items := make([]Type, 0, len(t.Items))
	for _, it := range t.Items {
		if _, isNone := it.(NoneType); !isNone {
			items = append(items, it)
		}
	}
	return items
}

// Equal reports structural equality of two type descriptors.
func Equal(a, b Type) bool {
	return reflect.DeepEqual(a, b)
}

// IsNone reports whether t is the None type.
func IsNone(t Type) bool {
	_, ok := t.(NoneType)
	return ok
}

// IsAny reports whether t is Any of any provenance.
func IsAny(t Type) bool {
	_, ok := t.(AnyType)
	return ok
}

// IsUninhabited reports whether t is the bottom type.
func IsUninhabited(t Type) bool {
	_, ok := t.(UninhabitedType)
	return ok
}
