package lattice

import (
	"fmt"
	"reflect"

	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/subtype"
	"github.com/v-danh/typelattice/internal/types"
)

// Overlaps reports whether some value could be of type left and of type
// right simultaneously. It is symmetric, and weaker than "meet is not
// bottom": it is a reachability heuristic, not a lattice operation.
//
// With ignorePromotions set, implicit numeric promotions are not considered.
// With prohibitNoneTypevarOverlap set, None never overlaps an unconstrained
// type variable, in either strictness mode.
func Overlaps(ses *config.Session, left, right types.Type,
	ignorePromotions, prohibitNoneTypevarOverlap bool) bool {

	// A type guard forces the new type even if it doesn't overlap the old.
	if _, ok := left.(*types.GuardedType); ok {
		return true
	}
	if _, ok := right.(*types.GuardedType); ok {
		return true
	}

	left = types.Proper(left)
	right = types.Proper(right)

	overlapping := func(l, r types.Type) bool {
		return Overlaps(ses, l, r, ignorePromotions, prohibitNoneTypevarOverlap)
	}

	// Partial types must be resolved before they get here.
	if _, ok := left.(types.PartialType); ok {
		panic("unexpectedly encountered partial type")
	}
	if _, ok := right.(types.PartialType); ok {
		panic("unexpectedly encountered partial type")
	}

	// Transient internal markers are treated permissively.
	if isIllegalOverlapOperand(left) || isIllegalOverlapOperand(right) {
		return true
	}

	// With strict-optional off, None inside a union carries no constraint.
	if !ses.StrictOptional {
		if u, ok := left.(types.UnionType); ok {
			left = types.Proper(types.MakeUnion(u.RelevantItems(false)))
		}
		if u, ok := right.(types.UnionType); ok {
			right = types.Proper(types.MakeUnion(u.RelevantItems(false)))
		}
	}

	if types.IsAny(left) || types.IsAny(right) {
		return true
	}

	// No value inhabits bottom, so it cannot overlap anything, itself
	// included. This must run before the subtype fast path below, which
	// would otherwise answer true: bottom is a subtype of everything.
	if types.IsUninhabited(left) || types.IsUninhabited(right) {
		return false
	}

	// Complete-overlap fast path. This also takes care of the None and
	// bottom cases for the common shapes.
	if subtype.IsProperSubtype(ses, left, right, ignorePromotions) ||
		subtype.IsProperSubtype(ses, right, left, ignorePromotions) {
		return true
	}

	if prohibitNoneTypevarOverlap {
		if isNoneTypeVarPair(left, right) || isNoneTypeVarPair(right, left) {
			return false
		}
	}

	// Union-like types and type variables are decomposed first: overlap
	// holds if any pair of alternatives overlaps. Running this before the
	// single-variant rules below simulates binding a type variable; doing
	// it later would let the return-early rules hide such overlaps.
	leftPossible := DecomposeVariants(left)
	rightPossible := DecomposeVariants(right)
	_, leftTV := left.(types.TypeVarType)
	_, rightTV := right.(types.TypeVarType)
	if len(leftPossible) > 1 || len(rightPossible) > 1 || leftTV || rightTV {
		for _, l := range leftPossible {
			for _, r := range rightPossible {
				if overlapping(l, r) {
					return true
				}
			}
		}
		return false
	}

	// Type variables are fully handled above, so in strict-optional mode a
	// mismatch in None-ness is now definitive.
	if ses.StrictOptional && types.IsNone(left) != types.IsNone(right) {
		return false
	}

	// Inherently partially-overlapping single-variant shapes: records and
	// tuples. When no bespoke rule applies they degrade to their instance
	// fallbacks.

	leftTD, leftIsTD := left.(*types.TypedDictType)
	rightTD, rightIsTD := right.(*types.TypedDictType)
	switch {
	case leftIsTD && rightIsTD:
		return TypedDictsOverlapping(ses, leftTD, rightTD, ignorePromotions, prohibitNoneTypevarOverlap)
	case isTypedDictMappingPair(left, right):
		return typedDictMappingOverlap(left, right, overlapping)
	case leftIsTD:
		left = leftTD.Fallback
	case rightIsTD:
		right = rightTD.Fallback
	}

	if isTupleLike(left) && isTupleLike(right) {
		return TuplesOverlapping(ses, left, right, ignorePromotions, prohibitNoneTypevarOverlap)
	}
	if lt, ok := left.(*types.TupleType); ok {
		left = subtype.TupleFallback(lt)
	}
	if rt, ok := right.(*types.TupleType); ok {
		right = subtype.TupleFallback(rt)
	}

	// Single-variant shapes that cannot partially overlap but need custom
	// inspection.

	if lt, ok := left.(*types.TypeType); ok {
		if rt, ok := right.(*types.TypeType); ok {
			return overlapping(lt.Item, rt.Item)
		}
	}
	_, leftTT := left.(*types.TypeType)
	_, rightTT := right.(*types.TypeType)
	if leftTT || rightTT {
		return typeObjectOverlap(ses, left, right, overlapping) ||
			typeObjectOverlap(ses, right, left, overlapping)
	}

	if lc, ok := left.(*types.CallableType); ok {
		if rc, ok := right.(*types.CallableType); ok {
			return subtype.IsCallableCompatible(ses, lc, rc, overlapping, true, true)
		}
	}
	if lc, ok := left.(*types.CallableType); ok {
		left = lc.Fallback
	}
	if rc, ok := right.(*types.CallableType); ok {
		right = rc.Fallback
	}

	if ll, ok := left.(*types.LiteralType); ok {
		if rl, ok := right.(*types.LiteralType); ok {
			if ll.Value == rl.Value {
				// Same value, but the fallbacks must still overlap; keep
				// degrading and let the instance case decide.
				left = ll.Fallback
				right = rl.Fallback
			} else {
				return false
			}
		}
	}
	if ll, ok := left.(*types.LiteralType); ok {
		left = ll.Fallback
	}
	if rl, ok := right.(*types.LiteralType); ok {
		right = rl.Fallback
	}

	// Terminal case: two instances.
	if li, ok := left.(*types.Instance); ok {
		if ri, ok := right.(*types.Instance); ok {
			return instancesOverlap(ses, li, ri, ignorePromotions, overlapping)
		}
	}

	// Every pairing should be handled by now; identical unhandled shapes
	// reaching this point mean a rule is missing.
	if reflect.TypeOf(left) == reflect.TypeOf(right) {
		panic(fmt.Sprintf("internal error: unhandled overlap between %T operands", left))
	}
	return false
}

// OverlapsErased erases both operands before checking overlap, so only the
// outer generic shape influences the answer. The None/type-variable
// prohibition is always enabled here.
func OverlapsErased(ses *config.Session, left, right types.Type, ignorePromotions bool) bool {
	return Overlaps(ses, subtype.Erase(left), subtype.Erase(right), ignorePromotions, true)
}

func isIllegalOverlapOperand(t types.Type) bool {
	switch t.(type) {
	case types.UnboundType, types.ErasedType, types.DeletedType:
		return true
	}
	return false
}

func isNoneTypeVarPair(t1, t2 types.Type) bool {
	if !types.IsNone(types.Proper(t1)) {
		return false
	}
	_, ok := types.Proper(t2).(types.TypeVarType)
	return ok
}

// typeObjectOverlap covers the bespoke metatype pairings. These sit in a
// gray area; the rules are tuned, not derived.
func typeObjectOverlap(ses *config.Session, left, right types.Type,
	overlapping func(types.Type, types.Type) bool) bool {

	lt, ok := left.(*types.TypeType)
	if !ok {
		return false
	}

	// Type[C] vs Callable[..., C] where the callable is a class object.
	if rc, ok := right.(*types.CallableType); ok && rc.IsTypeObj {
		return overlapping(lt.Item, rc.Ret)
	}

	// Type[C] vs Meta where Meta is a metaclass for C.
	if ri, ok := right.(*types.Instance); ok {
		switch item := types.Proper(lt.Item).(type) {
		case *types.Instance:
			if meta := item.Class.MetaclassType(); meta != nil {
				return overlapping(meta, ri)
			}
			// The default metaclass overlaps with every metaclass.
			return ri.Class.HasBase(config.TypeClassName)
		case types.AnyType:
			return ri.Class.HasBase(config.TypeClassName)
		}
	}

	// Callable[..., C] vs Meta is handled via fallbacks by the caller.
	return false
}

func instancesOverlap(ses *config.Session, left, right *types.Instance,
	ignorePromotions bool, overlapping func(types.Type, types.Type) bool) bool {

	// Promotions and structural compatibility for instances that arrived
	// as fallbacks are handled by the subtype check.
	sub := subtype.IsSubtype
	if ignorePromotions {
		sub = subtype.IsSubtypeIgnoringPromotions
	}
	if sub(ses, left, right) || sub(ses, right, left) {
		return true
	}

	// Nominally unrelated instances are disjoint.
	if left.Class.HasBase(right.Class.FullName) {
		left = subtype.MapToSupertype(left, right.Class)
	} else if right.Class.HasBase(left.Class.FullName) {
		right = subtype.MapToSupertype(right, left.Class)
	} else {
		return false
	}

	// Variance is irrelevant here: the check is symmetric and partial
	// overlaps count. Every pair of corresponding arguments must overlap
	// (conjunctive, unlike the existential decomposition step).
	if len(left.Args) == len(right.Args) {
		all := true
		for i := range left.Args {
			if !overlapping(left.Args[i], right.Args[i]) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
