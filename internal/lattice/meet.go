package lattice

import (
	"fmt"

	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/subtype"
	"github.com/v-danh/typelattice/internal/types"
)

// Meet returns the greatest lower bound of s and t under the subtyping
// order, approximated where an exact lattice meet does not exist.
func Meet(ses *config.Session, s, t types.Type) types.Type {
	if types.IsRecursivePair(s, t) {
		// General recursion over a pair of self-referential aliases can
		// fail to terminate, so compare trivially instead.
		return TrivialMeet(ses, s, t)
	}
	s = canonical(s)
	t = canonical(t)

	if _, ok := s.(types.ErasedType); ok {
		return s
	}
	if types.IsAny(s) {
		return t
	}
	// Keep union distribution on the dispatch side.
	if _, sUnion := s.(types.UnionType); sUnion {
		if _, tUnion := t.(types.UnionType); !tUnion {
			s, t = t, s
		}
	}
	return meetInto(ses, s, t)
}

// TrivialMeet returns one of the operands if it is a subtype of the other,
// and bottom otherwise. It never recurses into the operands' structure.
func TrivialMeet(ses *config.Session, s, t types.Type) types.Type {
	if subtype.IsSubtype(ses, s, t) {
		return canonical(s)
	}
	if subtype.IsSubtype(ses, t, s) {
		return canonical(t)
	}
	return bottom(ses)
}

// MeetList folds Meet over the slice. An empty slice yields Any: the result
// is unconstrained, not uninhabited.
func MeetList(ses *config.Session, items []types.Type) types.Type {
	if len(items) == 0 {
		return types.AnyType{Source: types.AnyImplementationArtifact}
	}
	met := items[0]
	for _, t := range items[1:] {
		met = Meet(ses, met, t)
	}
	return met
}

// canonical resolves aliases and strips guard wrappers.
func canonical(t types.Type) types.Type {
	t = types.Proper(t)
	if g, ok := t.(*types.GuardedType); ok {
		t = types.Proper(g.Guard)
	}
	return t
}

// bottom is the conservative "no common value" result: the uninhabited type
// under strict-optional, None otherwise.
func bottom(ses *config.Session) types.Type {
	if ses.StrictOptional {
		return types.UninhabitedType{}
	}
	return types.NoneType{}
}

// meetDefault is the rule for unhandled or incompatible pairings: bottom,
// except that an unbound operand yields Any.
func meetDefault(ses *config.Session, s types.Type) types.Type {
	if _, ok := s.(types.UnboundType); ok {
		return types.AnyType{Source: types.AnySpecialForm}
	}
	return bottom(ses)
}

// meetInto dispatches on t's variant with s fixed as the other operand.
// Pairings t does not handle degrade through meetDefault.
func meetInto(ses *config.Session, s, t types.Type) types.Type {
	switch t := t.(type) {
	case types.UnboundType:
		if types.IsNone(s) {
			if ses.StrictOptional {
				return types.AnyType{Source: types.AnySpecialForm}
			}
			return s
		}
		if types.IsUninhabited(s) {
			return s
		}
		return types.AnyType{Source: types.AnySpecialForm}

	case types.AnyType:
		return s

	case types.UnionType:
		var meets []types.Type
		if su, ok := s.(types.UnionType); ok {
			for _, x := range t.Items {
				for _, y := range su.Items {
					meets = append(meets, Meet(ses, x, y))
				}
			}
		} else {
			for _, x := range t.Items {
				meets = append(meets, Meet(ses, x, s))
			}
		}
		return subtype.SimplifyUnion(ses, meets)

	case types.NoneType:
		if !ses.StrictOptional {
			// Optional erasure: None absorbs.
			return t
		}
		if types.IsNone(s) {
			return t
		}
		if inst, ok := s.(*types.Instance); ok && inst.Class.FullName == config.ObjectClassName {
			return t
		}
		return types.UninhabitedType{}

	case types.UninhabitedType:
		return t

	case types.DeletedType:
		if types.IsNone(s) {
			if ses.StrictOptional {
				return t
			}
			return s
		}
		if types.IsUninhabited(s) {
			return s
		}
		return t

	case types.ErasedType:
		return s

	case types.TypeVarType:
		if sv, ok := s.(types.TypeVarType); ok && sv.ID == t.ID {
			return s
		}
		return meetDefault(ses, s)

	case *types.Instance:
		return meetInstance(ses, s, t)

	case *types.CallableType:
		return meetCallable(ses, s, t)

	case *types.Overloaded:
		return meetOverloaded(ses, s, t)

	case *types.TupleType:
		return meetTuple(ses, s, t)

	case *types.TypedDictType:
		return meetTypedDict(ses, s, t)

	case *types.LiteralType:
		return meetLiteral(ses, s, t)

	case *types.TypeType:
		return meetTypeType(ses, s, t)

	case *types.UnpackType:
		panic("meet of unpack types is not implemented")

	case types.PartialType:
		panic("internal error: partial type in meet")

	default:
		panic(fmt.Sprintf("internal error: meet got %T", t))
	}
}

func meetInstance(ses *config.Session, s types.Type, t *types.Instance) types.Type {
	switch s := s.(type) {
	case *types.Instance:
		if s.Class.FullName == t.Class.FullName {
			if subtype.IsSubtype(ses, t, s) || subtype.IsSubtype(ses, s, t) {
				// Combine type arguments pairwise. Zip, not assert: the
				// lists may briefly disagree in length when one side went
				// stale during incremental reprocessing.
				n := len(t.Args)
				if len(s.Args) < n {
					n = len(s.Args)
				}
				var args []types.Type
				for i := 0; i < n; i++ {
					args = append(args, Meet(ses, t.Args[i], s.Args[i]))
				}
				return &types.Instance{Class: t.Class, Args: args}
			}
			return bottom(ses)
		}
		if subtype.IsSubtype(ses, t, s) {
			return t
		}
		if subtype.IsSubtype(ses, s, t) {
			return s
		}
		return bottom(ses)

	case *types.CallableType:
		if s.IsTypeObj && t.Class.IsMetaclass() {
			if subtype.IsSubtype(ses, s.Fallback, t) {
				return s
			}
		}
		return meetDefault(ses, s)

	case *types.Overloaded:
		if isTypeObjectLike(s) && t.Class.IsMetaclass() {
			if subtype.IsSubtype(ses, s.Fallback(), t) {
				return s
			}
		}
		return meetDefault(ses, s)

	case *types.TypeType, *types.TupleType, *types.LiteralType, *types.TypedDictType:
		// Degrade-to-fallback logic for these pairings lives in the other
		// variant's rule; re-dispatch with operands swapped.
		return Meet(ses, t, s)

	default:
		return meetDefault(ses, s)
	}
}

func meetCallable(ses *config.Session, s types.Type, t *types.CallableType) types.Type {
	switch s := s.(type) {
	case *types.CallableType:
		if isSimilarCallables(t, s) {
			if subtype.IsEquivalent(ses, t, s) {
				return combineSimilarCallables(ses, t, s)
			}
			result := meetSimilarCallables(ses, t, s)
			if !(t.IsTypeObj && t.TypeObject().IsAbstract) &&
				!(s.IsTypeObj && s.TypeObject().IsAbstract) {
				result.FromTypeType = true
			}
			if types.IsUninhabited(types.Proper(result.Ret)) {
				// A function that accepts anything and returns nothing is
				// uninformative; fall back instead of keeping it.
				return meetDefault(ses, s)
			}
			return result
		}
		return meetDefault(ses, s)

	case *types.TypeType:
		if t.IsTypeObj && !t.IsGeneric() {
			res := Meet(ses, s.Item, t.Ret)
			if !types.IsNone(res) && !types.IsUninhabited(res) {
				return types.MakeTypeType(res)
			}
		}
		return meetDefault(ses, s)

	default:
		return meetDefault(ses, s)
	}
}

func meetOverloaded(ses *config.Session, s types.Type, t *types.Overloaded) types.Type {
	switch s := s.(type) {
	case *types.CallableType, *types.Overloaded:
		if items := functionItems(s); len(items) == len(t.Items) {
			same := true
			for i := range items {
				if !types.Equal(items[i], t.Items[i]) {
					same = false
					break
				}
			}
			if same {
				return &types.Overloaded{Items: t.Items}
			}
		}
		if subtype.IsSubtype(ses, s, t) {
			return s
		}
		if subtype.IsSubtype(ses, t, s) {
			return t
		}
		return Meet(ses, t.Fallback(), functionFallback(s))

	default:
		return Meet(ses, t.Fallback(), s)
	}
}

func meetTuple(ses *config.Session, s types.Type, t *types.TupleType) types.Type {
	switch s := s.(type) {
	case *types.TupleType:
		if s.Length() == t.Length() {
			items := make([]types.Type, 0, t.Length())
			for i := range t.Items {
				items = append(items, Meet(ses, t.Items[i], s.Items[i]))
			}
			return &types.TupleType{Items: items, Fallback: subtype.TupleFallback(t)}
		}
		return meetDefault(ses, s)

	case *types.Instance:
		if s.Class.FullName == config.TupleClassName && len(s.Args) > 0 {
			// meet(Tuple[t1, t2], Tuple[e, ...]) meets every item against
			// the element type.
			items := make([]types.Type, 0, len(t.Items))
			for _, it := range t.Items {
				items = append(items, Meet(ses, it, s.Args[0]))
			}
			return &types.TupleType{Items: items, Fallback: t.Fallback}
		}
		if subtype.IsProperSubtype(ses, t, s, false) {
			// A named tuple that inherits from a normal class.
			return t
		}
		return meetDefault(ses, s)

	default:
		return meetDefault(ses, s)
	}
}

func meetTypedDict(ses *config.Session, s types.Type, t *types.TypedDictType) types.Type {
	switch s := s.(type) {
	case *types.TypedDictType:
		// Fields present in both must agree exactly, in type and in
		// required status. Alignment is by name.
		for name, st := range s.Fields {
			tt, ok := t.Fields[name]
			if !ok {
				continue
			}
			if !subtype.IsEquivalent(ses, st, tt) || s.Required[name] != t.Required[name] {
				return meetDefault(ses, s)
			}
		}
		fields := make(map[string]types.Type, len(s.Fields)+len(t.Fields))
		for name, st := range s.Fields {
			fields[name] = st
		}
		for name, tt := range t.Fields {
			if _, ok := fields[name]; !ok {
				fields[name] = tt
			}
		}
		required := make(map[string]bool)
		for name := range s.Required {
			if s.Required[name] {
				required[name] = true
			}
		}
		for name := range t.Required {
			if t.Required[name] {
				required[name] = true
			}
		}
		return &types.TypedDictType{Fields: fields, Required: required, Fallback: s.Fallback}

	case *types.Instance:
		if subtype.IsSubtype(ses, t, s) {
			return t
		}
		return meetDefault(ses, s)

	default:
		return meetDefault(ses, s)
	}
}

func meetLiteral(ses *config.Session, s types.Type, t *types.LiteralType) types.Type {
	switch s := s.(type) {
	case *types.LiteralType:
		if types.Equal(s, t) {
			return t
		}
		return meetDefault(ses, s)
	case *types.Instance:
		if subtype.IsSubtype(ses, t.Fallback, s) {
			return t
		}
		return meetDefault(ses, s)
	default:
		return meetDefault(ses, s)
	}
}

func meetTypeType(ses *config.Session, s types.Type, t *types.TypeType) types.Type {
	switch s := s.(type) {
	case *types.TypeType:
		met := Meet(ses, t.Item, s.Item)
		if types.IsNone(met) {
			// Propagate None rather than wrapping it.
			return met
		}
		return types.MakeTypeType(met)
	case *types.Instance:
		if s.Class.FullName == config.TypeClassName {
			return t
		}
		return meetDefault(ses, s)
	case *types.CallableType:
		return Meet(ses, t, s)
	default:
		return meetDefault(ses, s)
	}
}

// isSimilarCallables reports whether two signatures have the same arity
// shape, making a pointwise combination meaningful.
func isSimilarCallables(t, s *types.CallableType) bool {
	return len(t.Params) == len(s.Params)
}

// meetSimilarCallables combines two similar signatures: parameter types are
// joined (contravariance) and the return types met.
func meetSimilarCallables(ses *config.Session, t, s *types.CallableType) *types.CallableType {
	params := make([]types.Type, len(t.Params))
	for i := range t.Params {
		params[i] = Join(ses, t.Params[i], s.Params[i])
	}
	// The result keeps 'function' as fallback only if both operands have it.
	fallback := s.Fallback
	if t.Fallback.Class.FullName != config.FunctionClassName {
		fallback = t.Fallback
	}
	return t.CopyModified(params, Meet(ses, t.Ret, s.Ret), fallback)
}

// combineSimilarCallables merges two equivalent signatures by joining both
// parameter and return types.
func combineSimilarCallables(ses *config.Session, t, s *types.CallableType) *types.CallableType {
	params := make([]types.Type, len(t.Params))
	for i := range t.Params {
		params[i] = Join(ses, t.Params[i], s.Params[i])
	}
	fallback := s.Fallback
	if t.Fallback.Class.FullName != config.FunctionClassName {
		fallback = t.Fallback
	}
	return t.CopyModified(params, Join(ses, t.Ret, s.Ret), fallback)
}

// functionItems lists the signature alternatives of a function-like type.
func functionItems(s types.Type) []*types.CallableType {
	switch s := s.(type) {
	case *types.CallableType:
		return []*types.CallableType{s}
	case *types.Overloaded:
		return s.Items
	default:
		return nil
	}
}

// functionFallback returns the fallback instance of a function-like type.
func functionFallback(s types.Type) *types.Instance {
	switch s := s.(type) {
	case *types.CallableType:
		return s.Fallback
	case *types.Overloaded:
		return s.Fallback()
	default:
		panic(fmt.Sprintf("internal error: %T is not function-like", s))
	}
}

// isTypeObjectLike reports whether every alternative of a function-like type
// represents a class object.
func isTypeObjectLike(s types.Type) bool {
	items := functionItems(s)
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.IsTypeObj {
			return false
		}
	}
	return true
}
