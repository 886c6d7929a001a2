package subtype

import (
	"github.com/v-danh/typelattice/internal/types"
)

// Erase reduces a descriptor to its outer generic shape: instance arguments
// become Any, tuples and records collapse to their fallback instances, and
// type variables become the erased placeholder. Used where only the shape,
// not the exact identity, should influence a comparison.
func Erase(t types.Type) types.Type {
	switch t := types.Proper(t).(type) {
	case *types.Instance:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]types.Type, len(t.Args))
		for i := range args {
			args[i] = types.AnyType{Source: types.AnySpecialForm}
		}
		return &types.Instance{Class: t.Class, Args: args}
	case *types.TupleType:
		return Erase(TupleFallback(t))
	case *types.TypedDictType:
		return Erase(t.Fallback)
	case *types.CallableType:
		// Keep the callable shape but forget what it takes and returns.
		params := make([]types.Type, len(t.Params))
		for i := range params {
			params[i] = types.AnyType{Source: types.AnySpecialForm}
		}
		return t.CopyModified(params, types.AnyType{Source: types.AnySpecialForm}, nil)
	case *types.Overloaded:
		return Erase(t.Fallback())
	case *types.LiteralType:
		return Erase(t.Fallback)
	case types.TypeVarType:
		return types.ErasedType{}
	case *types.TypeType:
		return &types.TypeType{Item: Erase(t.Item)}
	case types.UnionType:
		erased := make([]types.Type, len(t.Items))
		for i, it := range t.Items {
			erased[i] = Erase(it)
		}
		return types.MakeUnion(erased)
	default:
		return t
	}
}
