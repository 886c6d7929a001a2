package subtype

import (
	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/types"
)

// TupleFallback returns the builtins.tuple instance a fixed-arity tuple
// degrades to.
func TupleFallback(t *types.TupleType) *types.Instance {
	if t.Fallback == nil {
		panic("tuple type has no fallback instance")
	}
	return t.Fallback
}

// SimplifyUnion builds a union from items, dropping members subsumed by
// other members. An empty item list yields the bottom type.
func SimplifyUnion(ses *config.Session, items []types.Type) types.Type {
	flat := types.MakeUnion(items)
	u, ok := flat.(types.UnionType)
	if !ok {
		return flat
	}

	removed := make([]bool, len(u.Items))
	for i, it := range u.Items {
		for j, other := range u.Items {
			if i == j || removed[j] {
				continue
			}
			if !IsProperSubtype(ses, it, other, false) {
				continue
			}
			// Keep the earlier of two equivalent members.
			if IsProperSubtype(ses, other, it, false) && j > i {
				continue
			}
			removed[i] = true
			break
		}
	}

	kept := make([]types.Type, 0, len(u.Items))
	for i, it := range u.Items {
		if !removed[i] {
			kept = append(kept, it)
		}
	}
	return types.MakeUnion(kept)
}
