package lattice

import (
	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/subtype"
	"github.com/v-danh/typelattice/internal/types"
)

// TypedDictsOverlapping reports whether two structural records can describe
// a common value: every required key of either side must exist on the other
// side with overlapping value types. Additional optional keys on either side
// never affect the result: the records would still overlap if those keys
// happened to be missing.
func TypedDictsOverlapping(ses *config.Session, left, right *types.TypedDictType,
	ignorePromotions, prohibitNoneTypevarOverlap bool) bool {

	for key, req := range left.Required {
		if !req {
			continue
		}
		rt, ok := right.Fields[key]
		if !ok {
			return false
		}
		if !Overlaps(ses, left.Fields[key], rt, ignorePromotions, prohibitNoneTypevarOverlap) {
			return false
		}
	}
	for key, req := range right.Required {
		if !req {
			continue
		}
		lt, ok := left.Fields[key]
		if !ok {
			return false
		}
		if !Overlaps(ses, lt, right.Fields[key], ignorePromotions, prohibitNoneTypevarOverlap) {
			return false
		}
	}
	return true
}

// isTypedDictMappingPair reports whether exactly one operand is a structural
// record and the other derives from the mapping base class.
func isTypedDictMappingPair(left, right types.Type) bool {
	var other types.Type
	if _, ok := left.(*types.TypedDictType); ok {
		other = right
	} else if _, ok := right.(*types.TypedDictType); ok {
		other = left
	} else {
		return false
	}
	inst, ok := other.(*types.Instance)
	return ok && inst.Class.HasBase(config.MappingClassName)
}

// typedDictMappingOverlap decides overlap between a structural record and a
// mapping instance. Two rules:
//
//   - a record with required keys overlaps Mapping[K, V] iff its key type
//     overlaps K and every required key's value type overlaps V;
//   - a record with no required keys overlaps iff its key type overlaps K
//     and at least one optional key's value type overlaps V.
//
// Empty collections are a gray area: a record with no required keys is
// considered non-overlapping with an ordinary Mapping[str, V] but
// overlapping with the empty-mapping shape Mapping[<nothing>, <nothing>].
// The asymmetry avoids false positives for overload checking while keeping
// equality comparisons against an empty mapping literal meaningful. Preserve
// it as is; it is tuned against both pressures, not derived from a rule.
func typedDictMappingOverlap(left, right types.Type,
	overlapping func(types.Type, types.Type) bool) bool {

	var typed *types.TypedDictType
	var other *types.Instance
	if lt, ok := left.(*types.TypedDictType); ok {
		typed = lt
		other = right.(*types.Instance)
	} else {
		typed = right.(*types.TypedDictType)
		other = left.(*types.Instance)
	}

	mapping := other.Class.BaseByName(config.MappingClassName)
	mapped := subtype.MapToSupertype(other, mapping)
	if len(mapped.Args) < 2 {
		return false
	}
	keyType := types.Proper(mapped.Args[0])
	valueType := types.Proper(mapped.Args[1])

	// The record's implicit key type comes from its structural base.
	recordKey := types.Proper(subtype.MapToSupertype(typed.Fallback, mapping).Args[0])

	// The empty-mapping literal shape overlaps exactly the records with no
	// required keys.
	if types.IsUninhabited(keyType) && types.IsUninhabited(valueType) {
		return !typed.HasRequired()
	}

	if !overlapping(recordKey, keyType) {
		return false
	}
	if typed.HasRequired() {
		for key, req := range typed.Required {
			if req && !overlapping(typed.Fields[key], valueType) {
				return false
			}
		}
		return true
	}
	for key := range typed.Fields {
		if !typed.Required[key] && overlapping(typed.Fields[key], valueType) {
			return true
		}
	}
	return false
}

// isTupleLike reports whether t is a fixed-arity tuple or the instance form
// of a variable-arity sequence.
func isTupleLike(t types.Type) bool {
	switch t := types.Proper(t).(type) {
	case *types.TupleType:
		return true
	case *types.Instance:
		return t.Class.FullName == config.TupleClassName
	}
	return false
}

// TuplesOverlapping reports whether two tuple-like types overlap: after
// materializing variable-arity operands to a fixed arity, the arities must
// match and every position must overlap.
func TuplesOverlapping(ses *config.Session, left, right types.Type,
	ignorePromotions, prohibitNoneTypevarOverlap bool) bool {

	left = types.Proper(left)
	right = types.Proper(right)
	if adjusted := AdjustTuple(left, right); adjusted != nil {
		left = adjusted
	}
	if adjusted := AdjustTuple(right, left); adjusted != nil {
		right = adjusted
	}
	lt, ok := left.(*types.TupleType)
	if !ok {
		panic("type " + left.String() + " is not a tuple")
	}
	rt, ok := right.(*types.TupleType)
	if !ok {
		panic("type " + right.String() + " is not a tuple")
	}
	if lt.Length() != rt.Length() {
		return false
	}
	for i := range lt.Items {
		if !Overlaps(ses, lt.Items[i], rt.Items[i], ignorePromotions, prohibitNoneTypevarOverlap) {
			return false
		}
	}
	return true
}

// AdjustTuple materializes a variable-arity sequence into a fixed-arity
// tuple matching other's arity (or arity 1 when other is not fixed-arity),
// replicating the element type. Returns nil when t is not the instance form
// of a variable-arity sequence.
func AdjustTuple(t, other types.Type) *types.TupleType {
	inst, ok := t.(*types.Instance)
	if !ok || inst.Class.FullName != config.TupleClassName || len(inst.Args) == 0 {
		return nil
	}
	n := 1
	if ot, ok := other.(*types.TupleType); ok {
		n = ot.Length()
	}
	items := make([]types.Type, n)
	for i := range items {
		items[i] = inst.Args[0]
	}
	return &types.TupleType{Items: items, Fallback: inst}
}
