package lattice

import (
	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/subtype"
	"github.com/v-danh/typelattice/internal/types"
)

// Join returns the least upper bound of s and t, approximated upward where
// no exact bound exists. The meet engine needs it for contravariant
// combination of callable parameter types; it is exported because
// exhaustiveness callers use it the same way.
func Join(ses *config.Session, s, t types.Type) types.Type {
	s = canonical(s)
	t = canonical(t)

	if types.IsAny(s) {
		return s
	}
	if types.IsAny(t) {
		return t
	}
	if types.IsUninhabited(s) {
		return t
	}
	if types.IsUninhabited(t) {
		return s
	}
	if _, ok := s.(types.ErasedType); ok {
		return t
	}
	if _, ok := t.(types.ErasedType); ok {
		return s
	}

	if types.IsNone(s) || types.IsNone(t) {
		if !ses.StrictOptional {
			if types.IsNone(s) {
				return t
			}
			return s
		}
		return subtype.SimplifyUnion(ses, []types.Type{s, t})
	}

	if subtype.IsProperSubtype(ses, s, t, false) {
		return t
	}
	if subtype.IsProperSubtype(ses, t, s, false) {
		return s
	}

	_, sUnion := s.(types.UnionType)
	_, tUnion := t.(types.UnionType)
	if sUnion || tUnion {
		return subtype.SimplifyUnion(ses, []types.Type{s, t})
	}

	switch sv := s.(type) {
	case *types.Instance:
		if tv, ok := t.(*types.Instance); ok {
			return joinInstances(ses, sv, tv)
		}
	case *types.TupleType:
		if tv, ok := t.(*types.TupleType); ok {
			if sv.Length() == tv.Length() {
				items := make([]types.Type, sv.Length())
				for i := range items {
					items[i] = Join(ses, sv.Items[i], tv.Items[i])
				}
				return &types.TupleType{Items: items, Fallback: subtype.TupleFallback(sv)}
			}
			return Join(ses, subtype.TupleFallback(sv), subtype.TupleFallback(tv))
		}
	case *types.CallableType:
		if tv, ok := t.(*types.CallableType); ok {
			if isSimilarCallables(sv, tv) {
				return joinSimilarCallables(ses, sv, tv)
			}
			return Join(ses, sv.Fallback, tv.Fallback)
		}
	case *types.TypeType:
		if tv, ok := t.(*types.TypeType); ok {
			return types.MakeTypeType(Join(ses, sv.Item, tv.Item))
		}
	}

	// Unrelated shapes: join the instance forms when both sides have one,
	// otherwise give up upward with a union.
	si, siOK := instanceForm(s)
	ti, tiOK := instanceForm(t)
	if siOK && tiOK {
		return joinInstances(ses, si, ti)
	}
	return subtype.SimplifyUnion(ses, []types.Type{s, t})
}

// joinInstances joins two nominal instances through their closest common
// ancestor.
func joinInstances(ses *config.Session, s, t *types.Instance) types.Type {
	if s.Class.FullName == t.Class.FullName {
		n := len(s.Args)
		if len(t.Args) < n {
			n = len(t.Args)
		}
		var args []types.Type
		for i := 0; i < n; i++ {
			variance := types.Invariant
			if i < len(s.Class.TypeParams) {
				variance = s.Class.TypeParams[i].Variance
			}
			switch {
			case variance == types.Covariant:
				args = append(args, Join(ses, s.Args[i], t.Args[i]))
			case subtype.IsEquivalent(ses, s.Args[i], t.Args[i]):
				args = append(args, s.Args[i])
			default:
				args = append(args, types.AnyType{Source: types.AnyImplementationArtifact})
			}
		}
		return &types.Instance{Class: s.Class, Args: args}
	}
	for _, anc := range s.Class.MRO {
		if t.Class.HasBase(anc.FullName) {
			return joinInstances(ses,
				subtype.MapToSupertype(s, anc),
				subtype.MapToSupertype(t, anc))
		}
	}
	// Unreachable for well-formed hierarchies: every MRO ends at object.
	return types.AnyType{Source: types.AnyImplementationArtifact}
}

// joinSimilarCallables combines two similar signatures dually to the meet:
// parameter types are met and the return types joined.
func joinSimilarCallables(ses *config.Session, s, t *types.CallableType) *types.CallableType {
	params := make([]types.Type, len(s.Params))
	for i := range s.Params {
		params[i] = Meet(ses, s.Params[i], t.Params[i])
	}
	fallback := t.Fallback
	if s.Fallback.Class.FullName != config.FunctionClassName {
		fallback = s.Fallback
	}
	return s.CopyModified(params, Join(ses, s.Ret, t.Ret), fallback)
}

// instanceForm extracts the nominal instance a structural type degrades to.
func instanceForm(t types.Type) (*types.Instance, bool) {
	switch t := t.(type) {
	case *types.Instance:
		return t, true
	case *types.TupleType:
		return subtype.TupleFallback(t), true
	case *types.TypedDictType:
		return t.Fallback, true
	case *types.CallableType:
		return t.Fallback, true
	case *types.Overloaded:
		return t.Fallback(), true
	case *types.LiteralType:
		return t.Fallback, true
	default:
		return nil, false
	}
}
