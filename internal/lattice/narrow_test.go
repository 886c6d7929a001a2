package lattice

import (
	"testing"

	"github.com/v-danh/typelattice/internal/types"
)

func TestNarrowDisjointEvidence(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	got := Narrow(ses, b.Instance(b.Int), b.Instance(b.Str))
	if !types.IsUninhabited(got) {
		t.Errorf("narrow(int, str) = %s, want bottom", got)
	}
}

func TestNarrowUnionDeclared(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)

	got := Narrow(ses, types.MakeUnion([]types.Type{intT, strT}), intT)
	if !types.Equal(got, intT) {
		t.Errorf("narrow(int | str, int) = %s, want int", got)
	}

	got = Narrow(ses, types.MakeUnion([]types.Type{intT, types.NoneType{}}), types.NoneType{})
	if !types.IsNone(got) {
		t.Errorf("narrow(int | None, None) = %s, want None", got)
	}
}

func TestNarrowGuardOverrides(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	strT := b.Instance(b.Str)

	// The guard wins even against non-overlapping declarations.
	got := Narrow(ses, b.Instance(b.Int), &types.GuardedType{Guard: strT})
	if !types.Equal(got, strT) {
		t.Errorf("narrow(int, guard[str]) = %s, want str", got)
	}
}

func TestNarrowAnyEvidence(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	evidence := types.AnyType{Source: types.AnyExplicit}
	got := Narrow(ses, b.Instance(b.Int), evidence)
	if !types.IsAny(got) {
		t.Errorf("narrow(int, Any) = %s, want Any", got)
	}
}

func TestNarrowTypeVarEvidence(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	tv := types.TypeVarType{Name: "T", ID: 1, UpperBound: b.Instance(b.Int)}
	got := Narrow(ses, b.Instance(b.Object), tv)
	if !types.Equal(got, tv) {
		t.Errorf("narrow(object, T) = %s, want the variable preserved", got)
	}
}

func TestNarrowInstance(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	got := Narrow(ses, b.Instance(b.Object), b.Instance(b.Int))
	if !types.Equal(got, b.Instance(b.Int)) {
		t.Errorf("narrow(object, int) = %s, want int", got)
	}

	got = Narrow(ses, b.Instance(b.Str), b.Literal("a"))
	if !types.Equal(got, b.Literal("a")) {
		t.Errorf("narrow(str, Literal['a']) = %s, want the literal", got)
	}
}

func TestNarrowTypeTypes(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)

	got := Narrow(ses, types.MakeTypeType(b.Instance(b.Object)), types.MakeTypeType(intT))
	if !types.Equal(got, types.MakeTypeType(intT)) {
		t.Errorf("narrow(Type[object], Type[int]) = %s, want Type[int]", got)
	}

	// Narrowing a metatype by a metaclass instance keeps the declared type;
	// anything more precise needs intersections.
	meta := types.NewClass("example.Meta", nil, b.Instance(b.Type))
	declared := types.MakeTypeType(intT)
	got = Narrow(ses, declared, b.Instance(meta))
	if !types.Equal(got, declared) {
		t.Errorf("narrow(Type[int], Meta) = %s, want Type[int] unchanged", got)
	}
}

func TestNarrowTypedDictByDictCheck(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	any := types.AnyType{Source: types.AnyExplicit}

	record := b.TypedDict(map[string]types.Type{"x": b.Instance(b.Int)}, "x")
	got := Narrow(ses, record, b.Instance(b.Dict, any, any))
	if !types.Equal(got, record) {
		t.Errorf("narrow(record, dict[Any, Any]) = %s, want the record preserved", got)
	}
}

func TestNarrowNonStrictOptional(t *testing.T) {
	ses := lenientSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)

	// With strict-optional off, None in the declared union is ignored.
	got := Narrow(ses, types.MakeUnion([]types.Type{intT, types.NoneType{}}), intT)
	if !types.Equal(got, intT) {
		t.Errorf("narrow(int | None, int) = %s, want int", got)
	}
}
