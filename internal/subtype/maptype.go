package subtype

import (
	"github.com/v-danh/typelattice/internal/types"
)

// MapToSupertype expresses inst in the type-parameter frame of target, which
// must be an ancestor of inst's class. Type arguments are pushed down the
// base-class declarations by name substitution. If target is somehow not an
// ancestor, an instance of target with Any arguments is returned rather than
// failing: staleness here must degrade, not crash.
func MapToSupertype(inst *types.Instance, target *types.ClassInfo) *types.Instance {
	if inst.Class == target || inst.Class.FullName == target.FullName {
		return inst
	}
	env := paramEnv(inst)
	for _, base := range inst.Class.Bases {
		if !base.Class.HasBase(target.FullName) {
			continue
		}
		args := make([]types.Type, len(base.Args))
		for i, a := range base.Args {
			args[i] = substitute(a, env)
		}
		return MapToSupertype(&types.Instance{Class: base.Class, Args: args}, target)
	}
	args := make([]types.Type, len(target.TypeParams))
	for i := range args {
		args[i] = types.AnyType{Source: types.AnyFromError}
	}
	return &types.Instance{Class: target, Args: args}
}

func paramEnv(inst *types.Instance) map[string]types.Type {
	env := make(map[string]types.Type, len(inst.Class.TypeParams))
	for i, p := range inst.Class.TypeParams {
		if i < len(inst.Args) {
			env[p.Name] = inst.Args[i]
		} else {
			env[p.Name] = types.AnyType{Source: types.AnyFromError}
		}
	}
	return env
}

// substitute replaces type variables by name throughout a descriptor,
// constructing fresh nodes and never mutating the input. Alias nodes are
// left untouched: base-class declarations do not route through aliases, and
// descending into them could recurse through a self-referential graph.
func substitute(t types.Type, env map[string]types.Type) types.Type {
	switch t := t.(type) {
	case types.TypeVarType:
		if repl, ok := env[t.Name]; ok {
			return repl
		}
		return t
	case *types.Instance:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = substitute(a, env)
		}
		return &types.Instance{Class: t.Class, Args: args}
	case *types.TupleType:
		items := make([]types.Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = substitute(it, env)
		}
		fallback, _ := substitute(t.Fallback, env).(*types.Instance)
		return &types.TupleType{Items: items, Fallback: fallback}
	case *types.TypedDictType:
		fields := make(map[string]types.Type, len(t.Fields))
		for k, v := range t.Fields {
			fields[k] = substitute(v, env)
		}
		return &types.TypedDictType{Fields: fields, Required: t.Required, Fallback: t.Fallback}
	case *types.CallableType:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = substitute(p, env)
		}
		return t.CopyModified(params, substitute(t.Ret, env), nil)
	case *types.Overloaded:
		items := make([]*types.CallableType, len(t.Items))
		for i, it := range t.Items {
			items[i] = substitute(it, env).(*types.CallableType)
		}
		return &types.Overloaded{Items: items}
	case types.UnionType:
		items := make([]types.Type, len(t.Items))
		for i, it := range t.Items {
			items[i] = substitute(it, env)
		}
		return types.MakeUnion(items)
	case *types.TypeType:
		return &types.TypeType{Item: substitute(t.Item, env)}
	default:
		return t
	}
}
