package lattice

import (
	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/subtype"
	"github.com/v-danh/typelattice/internal/types"
)

// Narrow restricts a declared type using evidence from control-flow
// analysis (an isinstance-style guard, an equality check, a match arm).
func Narrow(ses *config.Session, declared, narrowed types.Type) types.Type {
	// Guard evidence overrides: the guarded type wins even when it does not
	// overlap the declared one.
	if g, ok := narrowed.(*types.GuardedType); ok {
		return g.Guard
	}

	declared = types.Proper(declared)
	narrowed = types.Proper(narrowed)

	if types.Equal(declared, narrowed) {
		return declared
	}

	if u, ok := declared.(types.UnionType); ok {
		items := u.RelevantItems(ses.StrictOptional)
		results := make([]types.Type, 0, len(items))
		for _, item := range items {
			results = append(results, Narrow(ses, item, narrowed))
		}
		return subtype.SimplifyUnion(ses, results)
	}

	if !Overlaps(ses, declared, narrowed, false, true) {
		return bottom(ses)
	}

	if u, ok := narrowed.(types.UnionType); ok {
		items := u.RelevantItems(ses.StrictOptional)
		results := make([]types.Type, 0, len(items))
		for _, item := range items {
			results = append(results, Narrow(ses, declared, item))
		}
		return subtype.SimplifyUnion(ses, results)
	}

	if types.IsAny(narrowed) {
		return narrowed
	}

	if tv, ok := narrowed.(types.TypeVarType); ok {
		if tv.UpperBound != nil && subtype.IsSubtype(ses, tv.UpperBound, declared) {
			return narrowed
		}
	}

	if dt, ok := declared.(*types.TypeType); ok {
		if nt, ok := narrowed.(*types.TypeType); ok {
			return types.MakeTypeType(Narrow(ses, dt.Item, nt.Item))
		}
		if ni, ok := narrowed.(*types.Instance); ok && ni.Class.IsMetaclass() {
			// A precise result would need an intersection type; keep the
			// declared type.
			return declared
		}
	}

	switch d := declared.(type) {
	case *types.Instance, *types.TupleType, *types.TypeType, *types.LiteralType:
		return Meet(ses, declared, narrowed)
	case *types.TypedDictType:
		if ni, ok := narrowed.(*types.Instance); ok {
			// Narrowing a record by a generic dict check (isinstance(x,
			// dict)) should not destroy the record's precise shape.
			if ni.Class.FullName == config.DictClassName && allAnyArgs(ni.Args) {
				return d
			}
		}
		return Meet(ses, declared, narrowed)
	}

	return narrowed
}

func allAnyArgs(args []types.Type) bool {
	for _, a := range args {
		if !types.IsAny(types.Proper(a)) {
			return false
		}
	}
	return true
}
