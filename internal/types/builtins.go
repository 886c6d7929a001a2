package types

import (
	"fmt"

	"github.com/v-danh/typelattice/internal/config"
)

// Builtins bundles the ClassInfo nodes every checking session needs. The
// semantic analysis stage of the full checker builds these from stub files;
// here they are constructed directly so the lattice is usable standalone.
type Builtins struct {
	Object   *ClassInfo
	Type     *ClassInfo
	Function *ClassInfo
	Int      *ClassInfo
	Float    *ClassInfo
	Complex  *ClassInfo
	Bool     *ClassInfo
	Str      *ClassInfo
	Bytes    *ClassInfo
	TupleCls *ClassInfo
	Mapping  *ClassInfo
	Dict     *ClassInfo
	List     *ClassInfo
	Set      *ClassInfo
}

// NewBuiltins constructs the standard class hierarchy: object at the root,
// bool under int, the numeric promotion chain int -> float -> complex, and
// dict deriving from Mapping.
func NewBuiltins() *Builtins {
	b := &Builtins{}

	b.Object = NewClass(config.ObjectClassName, nil)
	obj := b.Instance(b.Object)

	b.Type = NewClass(config.TypeClassName, nil, obj)
	b.Function = NewClass(config.FunctionClassName, nil, obj)

	b.Complex = NewClass("builtins.complex", nil, obj)
	b.Float = NewClass("builtins.float", nil, obj)
	b.Float.Promotions = []*Instance{b.Instance(b.Complex)}
	b.Int = NewClass("builtins.int", nil, obj)
	b.Int.Promotions = []*Instance{b.Instance(b.Float)}
	b.Bool = NewClass("builtins.bool", nil, b.Instance(b.Int))

	b.Str = NewClass("builtins.str", nil, obj)
	b.Bytes = NewClass("builtins.bytes", nil, obj)

	b.TupleCls = NewClass(config.TupleClassName,
		[]TypeParam{{Name: "T", Variance: Covariant}}, obj)

	b.Mapping = NewClass(config.MappingClassName,
		[]TypeParam{{Name: "KT"}, {Name: "VT", Variance: Covariant}}, obj)
	b.Dict = NewClass(config.DictClassName,
		[]TypeParam{{Name: "K"}, {Name: "V"}},
		b.Instance(b.Mapping, TypeVarType{Name: "K"}, TypeVarType{Name: "V"}))
	b.List = NewClass("builtins.list", []TypeParam{{Name: "T"}}, obj)
	b.Set = NewClass("builtins.set", []TypeParam{{Name: "T"}}, obj)

	return b
}

// Instance builds an instance of cls with the given type arguments.
func (b *Builtins) Instance(cls *ClassInfo, args ...Type) *Instance {
	return &Instance{Class: cls, Args: args}
}

// Tuple builds a fixed-arity tuple with its builtins.tuple fallback.
func (b *Builtins) Tuple(items ...Type) *TupleType {
	arg := MakeUnion(items)
	if len(items) == 0 {
		arg = UninhabitedType{}
	}
	return &TupleType{
		Items:    items,
		Fallback: b.Instance(b.TupleCls, arg),
	}
}

// VarTuple builds the variable-arity sequence form Tuple[item, ...], which
// is represented as an instance of builtins.tuple.
func (b *Builtins) VarTuple(item Type) *Instance {
	return b.Instance(b.TupleCls, item)
}

// TypedDict builds a structural record. required lists the field names that
// must be present; it must be a subset of the field set.
func (b *Builtins) TypedDict(fields map[string]Type, required ...string) *TypedDictType {
	req := make(map[string]bool, len(required))
	for _, k := range required {
		if _, ok := fields[k]; !ok {
			panic(fmt.Sprintf("typed dict: required key %q not among fields", k))
		}
		req[k] = true
	}
	return &TypedDictType{
		Fields:   fields,
		Required: req,
		Fallback: b.Instance(b.Mapping, b.Instance(b.Str), b.Instance(b.Object)),
	}
}

// Callable builds a plain function signature with the function fallback.
func (b *Builtins) Callable(params []Type, ret Type) *CallableType {
	return &CallableType{
		Params:   params,
		Ret:      ret,
		Fallback: b.Instance(b.Function),
	}
}

// ClassObject builds the type-object callable for cls: the signature of
// calling the class with the given constructor parameters.
func (b *Builtins) ClassObject(cls *ClassInfo, params ...Type) *CallableType {
	return &CallableType{
		Name:      cls.FullName,
		Params:    params,
		Ret:       b.Instance(cls),
		Fallback:  b.Instance(b.Type),
		IsTypeObj: true,
		TypeObj:   cls,
	}
}

// Literal builds a literal type, inferring the fallback from the Go value.
func (b *Builtins) Literal(value any) *LiteralType {
	var cls *ClassInfo
	switch value.(type) {
	case bool:
		cls = b.Bool
	case int, int64:
		cls = b.Int
	case float64:
		cls = b.Float
	case string:
		cls = b.Str
	default:
		panic(fmt.Sprintf("literal: unsupported value %T", value))
	}
	return &LiteralType{Value: value, Fallback: b.Instance(cls)}
}
