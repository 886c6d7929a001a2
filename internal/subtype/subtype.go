// Package subtype implements the subtyping relation family the lattice
// engines are defined against: IsSubtype, IsProperSubtype, IsEquivalent and
// callable compatibility, plus the structural helpers built on top of them
// (type erasure, supertype mapping, union simplification).
package subtype

import (
	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/types"
)

type options struct {
	proper           bool
	ignorePromotions bool
}

// typePair tracks an (left, right) comparison on the active call stack, so
// self-referential type graphs terminate by co-induction.
type typePair struct {
	left  types.Type
	right types.Type
}

// IsSubtype reports whether left is a subtype of right, with Any compatible
// in both directions.
func IsSubtype(ses *config.Session, left, right types.Type) bool {
	return check(ses, left, right, options{}, nil)
}

// IsSubtypeIgnoringPromotions is IsSubtype without implicit numeric
// promotions (int -> float -> complex).
func IsSubtypeIgnoringPromotions(ses *config.Session, left, right types.Type) bool {
	return check(ses, left, right, options{ignorePromotions: true}, nil)
}

// IsProperSubtype reports whether left is a subtype of right without relying
// on Any compatibility.
func IsProperSubtype(ses *config.Session, left, right types.Type, ignorePromotions bool) bool {
	return check(ses, left, right, options{proper: true, ignorePromotions: ignorePromotions}, nil)
}

// IsEquivalent reports mutual subtyping.
func IsEquivalent(ses *config.Session, left, right types.Type) bool {
	return IsSubtype(ses, left, right) && IsSubtype(ses, right, left)
}

func check(ses *config.Session, left, right types.Type, opts options, visited []typePair) bool {
	left = types.Proper(left)
	right = types.Proper(right)
	if g, ok := left.(*types.GuardedType); ok {
		left = types.Proper(g.Guard)
	}
	if g, ok := right.(*types.GuardedType); ok {
		right = types.Proper(g.Guard)
	}

	for _, p := range visited {
		if types.Equal(p.left, left) && types.Equal(p.right, right) {
			// Already comparing this pair further up the stack: assume
			// success (co-induction).
			return true
		}
	}
	visited = append(visited, typePair{left: left, right: right})

	if types.Equal(left, right) {
		return true
	}

	if types.IsAny(left) || types.IsAny(right) {
		if opts.proper {
			return types.IsAny(left) && types.IsAny(right)
		}
		return true
	}

	if types.IsUninhabited(left) {
		return true
	}

	// Transient internal markers are treated permissively.
	switch left.(type) {
	case types.UnboundType, types.ErasedType, types.DeletedType:
		return true
	}

	if u, ok := left.(types.UnionType); ok {
		for _, item := range u.Items {
			if !check(ses, item, right, opts, visited) {
				return false
			}
		}
		return true
	}

	if _, ok := left.(types.NoneType); ok {
		return noneSubtype(ses, right, opts, visited)
	}

	if u, ok := right.(types.UnionType); ok {
		for _, item := range u.Items {
			if check(ses, left, item, opts, visited) {
				return true
			}
		}
		return false
	}

	switch l := left.(type) {
	case *types.Instance:
		return instanceSubtype(ses, l, right, opts, visited)
	case *types.TupleType:
		return tupleSubtype(ses, l, right, opts, visited)
	case *types.TypedDictType:
		return typedDictSubtype(ses, l, right, opts, visited)
	case *types.CallableType:
		return callableSubtype(ses, l, right, opts, visited)
	case *types.Overloaded:
		return overloadedSubtype(ses, l, right, opts, visited)
	case types.TypeVarType:
		return typeVarSubtype(ses, l, right, opts, visited)
	case *types.LiteralType:
		return check(ses, l.Fallback, right, opts, visited)
	case *types.TypeType:
		return typeTypeSubtype(ses, l, right, opts, visited)
	default:
		return false
	}
}

func noneSubtype(ses *config.Session, right types.Type, opts options, visited []typePair) bool {
	if !ses.StrictOptional {
		return !types.IsUninhabited(right)
	}
	switch r := right.(type) {
	case types.NoneType:
		return true
	case *types.Instance:
		return r.Class.FullName == config.ObjectClassName
	default:
		return false
	}
}

func instanceSubtype(ses *config.Session, l *types.Instance, right types.Type, opts options, visited []typePair) bool {
	if !opts.ignorePromotions {
		for _, promo := range l.Class.Promotions {
			if check(ses, promo, right, opts, visited) {
				return true
			}
		}
	}

	switch r := right.(type) {
	case *types.Instance:
		if !l.Class.HasBase(r.Class.FullName) {
			return false
		}
		mapped := MapToSupertype(l, r.Class)
		// Zip, not assert: argument lists can go stale independently.
		n := len(mapped.Args)
		if len(r.Args) < n {
			n = len(r.Args)
		}
		for i := 0; i < n; i++ {
			la, ra := mapped.Args[i], r.Args[i]
			variance := types.Invariant
			if i < len(r.Class.TypeParams) {
				variance = r.Class.TypeParams[i].Variance
			}
			switch variance {
			case types.Covariant:
				if !check(ses, la, ra, opts, visited) {
					return false
				}
			case types.Contravariant:
				if !check(ses, ra, la, opts, visited) {
					return false
				}
			default:
				if !check(ses, la, ra, opts, visited) || !check(ses, ra, la, opts, visited) {
					return false
				}
			}
		}
		return true
	case *types.TypeType:
		// A metaclass instance describes class objects.
		return l.Class.IsMetaclass() && types.IsAny(types.Proper(r.Item))
	default:
		return false
	}
}

func tupleSubtype(ses *config.Session, l *types.TupleType, right types.Type, opts options, visited []typePair) bool {
	switch r := right.(type) {
	case *types.TupleType:
		if len(l.Items) != len(r.Items) {
			return false
		}
		for i := range l.Items {
			if !check(ses, l.Items[i], r.Items[i], opts, visited) {
				return false
			}
		}
		return true
	case *types.Instance:
		return check(ses, TupleFallback(l), r, opts, visited)
	default:
		return false
	}
}

func typedDictSubtype(ses *config.Session, l *types.TypedDictType, right types.Type, opts options, visited []typePair) bool {
	switch r := right.(type) {
	case *types.TypedDictType:
		for name, rt := range r.Fields {
			lt, ok := l.Fields[name]
			if !ok {
				return false
			}
			if !check(ses, lt, rt, opts, visited) || !check(ses, rt, lt, opts, visited) {
				return false
			}
			if r.Required[name] && !l.Required[name] {
				return false
			}
		}
		return true
	case *types.Instance:
		return check(ses, l.Fallback, r, opts, visited)
	default:
		return false
	}
}

func callableSubtype(ses *config.Session, l *types.CallableType, right types.Type, opts options, visited []typePair) bool {
	switch r := right.(type) {
	case *types.CallableType:
		compat := func(a, b types.Type) bool { return check(ses, a, b, opts, visited) }
		return IsCallableCompatible(ses, l, r, compat, true, false)
	case *types.Overloaded:
		// A plain callable must support every alternative of the overload.
		for _, item := range r.Items {
			if !callableSubtype(ses, l, item, opts, visited) {
				return false
			}
		}
		return true
	case *types.Instance:
		return check(ses, l.Fallback, r, opts, visited)
	case *types.TypeType:
		return l.IsTypeObj && check(ses, l.Ret, r.Item, opts, visited)
	default:
		return false
	}
}

func overloadedSubtype(ses *config.Session, l *types.Overloaded, right types.Type, opts options, visited []typePair) bool {
	switch r := right.(type) {
	case *types.CallableType, *types.TypeType:
		for _, item := range l.Items {
			if check(ses, item, r, opts, visited) {
				return true
			}
		}
		return false
	case *types.Overloaded:
		// Every right alternative must be matched by some left alternative.
		for _, ri := range r.Items {
			matched := false
			for _, li := range l.Items {
				if check(ses, li, ri, opts, visited) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	case *types.Instance:
		return check(ses, l.Fallback(), r, opts, visited)
	default:
		return false
	}
}

func typeVarSubtype(ses *config.Session, l types.TypeVarType, right types.Type, opts options, visited []typePair) bool {
	if r, ok := right.(types.TypeVarType); ok && r.ID == l.ID {
		return true
	}
	if len(l.Values) > 0 {
		for _, v := range l.Values {
			if !check(ses, v, right, opts, visited) {
				return false
			}
		}
		return true
	}
	if l.UpperBound == nil {
		return false
	}
	return check(ses, l.UpperBound, right, opts, visited)
}

func typeTypeSubtype(ses *config.Session, l *types.TypeType, right types.Type, opts options, visited []typePair) bool {
	switch r := right.(type) {
	case *types.TypeType:
		return check(ses, l.Item, r.Item, opts, visited)
	case *types.Instance:
		switch r.Class.FullName {
		case config.TypeClassName, config.ObjectClassName:
			return true
		}
		if r.Class.IsMetaclass() {
			if item, ok := types.Proper(l.Item).(*types.Instance); ok {
				if meta := item.Class.MetaclassType(); meta != nil {
					return check(ses, meta, r, opts, visited)
				}
			}
			return r.Class.FullName == config.TypeClassName
		}
		return false
	case *types.CallableType:
		return r.IsTypeObj && check(ses, l.Item, r.Ret, opts, visited)
	default:
		return false
	}
}

// IsCallableCompatible checks two signatures with a caller-supplied
// comparison. Parameters are compared contravariantly (right against left)
// and the return types covariantly. Signatures carry positional parameter
// types only, so ignorePosArgNames has no additional effect and
// allowPartialOverlap only relaxes the return comparison when either return
// type is uninhabited.
func IsCallableCompatible(ses *config.Session, left, right *types.CallableType,
	isCompat func(types.Type, types.Type) bool,
	ignorePosArgNames, allowPartialOverlap bool) bool {

	if len(left.Params) != len(right.Params) {
		return false
	}
	for i := range left.Params {
		if !isCompat(right.Params[i], left.Params[i]) {
			return false
		}
	}
	if allowPartialOverlap {
		if types.IsUninhabited(types.Proper(left.Ret)) || types.IsUninhabited(types.Proper(right.Ret)) {
			return true
		}
	}
	return isCompat(left.Ret, right.Ret)
}
