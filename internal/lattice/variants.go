// Package lattice implements the meet (greatest lower bound), overlap and
// narrowing operations over the type representation. The three engines are
// mutually recursive free functions; comparison configuration is passed
// explicitly so every call is independently testable.
package lattice

import (
	"github.com/v-danh/typelattice/internal/types"
)

// DecomposeVariants turns any union-like type into the list of alternatives
// it stands for:
//
//   - a union yields its members;
//   - a constrained type variable yields its value restriction, and an
//     unconstrained one its upper bound;
//   - an overloaded signature yields its alternatives.
//
// Any other type is returned as a singleton list, as if it were wrapped in a
// one-member union. Normalizing union-like types this way lets the overlap
// check run the same existential algorithm over unions, type variables and
// overloads alike.
func DecomposeVariants(t types.Type) []types.Type {
	switch t := types.Proper(t).(type) {
	case types.TypeVarType:
		if len(t.Values) > 0 {
			return types.ProperAll(t.Values)
		}
		if t.UpperBound != nil {
			return []types.Type{t.UpperBound}
		}
		return []types.Type{types.AnyType{Source: types.AnySpecialForm}}
	case types.UnionType:
		return types.ProperAll(t.Items)
	case *types.Overloaded:
		items := make([]types.Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = it
		}
		return items
	default:
		return []types.Type{t}
	}
}
