package lattice

import (
	"testing"

	"github.com/v-danh/typelattice/internal/types"
)

func TestOverlapSymmetryAndReflexivity(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	operands := []types.Type{
		b.Instance(b.Int),
		b.Instance(b.Str),
		b.Instance(b.List, b.Instance(b.Int)),
		types.MakeUnion([]types.Type{b.Instance(b.Int), b.Instance(b.Str)}),
		b.Tuple(b.Instance(b.Int), b.Instance(b.Str)),
		b.Literal("x"),
		types.NoneType{},
		types.AnyType{Source: types.AnyExplicit},
		b.Callable([]types.Type{b.Instance(b.Int)}, b.Instance(b.Str)),
	}

	for _, a := range operands {
		if !Overlaps(ses, a, a, false, false) {
			t.Errorf("overlaps(%s, %s) = false, want true", a, a)
		}
		for _, c := range operands {
			l := Overlaps(ses, a, c, false, false)
			r := Overlaps(ses, c, a, false, false)
			if l != r {
				t.Errorf("asymmetric: overlaps(%s, %s)=%v but overlaps(%s, %s)=%v", a, c, l, c, a, r)
			}
		}
	}

	// Bottom has no inhabitants, so it overlaps nothing, itself included.
	bot := types.UninhabitedType{}
	if Overlaps(ses, bot, bot, false, false) {
		t.Error("overlaps(bottom, bottom) = true, want false")
	}
	if Overlaps(ses, bot, b.Instance(b.Int), false, false) {
		t.Error("overlaps(bottom, int) = true, want false")
	}
}

func TestOverlapInstances(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)

	tests := []struct {
		name        string
		left, right types.Type
		want        bool
	}{
		{"unrelated classes", intT, strT, false},
		{"subclass", b.Instance(b.Bool), intT, true},
		{"any side", types.AnyType{Source: types.AnyExplicit}, strT, true},
		{"list element disjoint", b.Instance(b.List, intT), b.Instance(b.List, strT), false},
		{
			"list elements share a member",
			b.Instance(b.List, types.MakeUnion([]types.Type{intT, strT})),
			b.Instance(b.List, types.MakeUnion([]types.Type{strT, b.Instance(b.Bytes)})),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(ses, tt.left, tt.right, false, false); got != tt.want {
				t.Errorf("overlaps(%s, %s) = %v, want %v", tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestOverlapPromotions(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	floatT := b.Instance(b.Float)

	if !Overlaps(ses, intT, floatT, false, false) {
		t.Error("int should overlap float through promotion")
	}
	if Overlaps(ses, intT, floatT, true, false) {
		t.Error("int should not overlap float when promotions are ignored")
	}
}

func TestOverlapStrictNone(t *testing.T) {
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)

	strict := strictSession()
	if Overlaps(strict, types.NoneType{}, intT, false, false) {
		t.Error("strict: None should not overlap int")
	}
	if !Overlaps(strict, types.NoneType{}, types.NoneType{}, false, false) {
		t.Error("strict: None should overlap None")
	}
	optInt := types.MakeUnion([]types.Type{intT, types.NoneType{}})
	if !Overlaps(strict, optInt, types.NoneType{}, false, false) {
		t.Error("strict: Optional[int] should overlap None")
	}

	lenient := lenientSession()
	if !Overlaps(lenient, types.NoneType{}, intT, false, false) {
		t.Error("lenient: None should overlap int")
	}
	// None is stripped from unions before comparing.
	optStr := types.MakeUnion([]types.Type{b.Instance(b.Str), types.NoneType{}})
	if Overlaps(lenient, optStr, intT, false, false) {
		t.Error("lenient: Optional[str] should not overlap int")
	}
}

func TestOverlapNoneTypeVarProhibition(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	tv := types.TypeVarType{Name: "T", ID: 1, UpperBound: b.Instance(b.Object)}

	if !Overlaps(ses, types.NoneType{}, tv, false, false) {
		t.Error("None could bind to T, so they should overlap by default")
	}
	if Overlaps(ses, types.NoneType{}, tv, false, true) {
		t.Error("the prohibition flag should suppress the None/T overlap")
	}
	if Overlaps(ses, tv, types.NoneType{}, false, true) {
		t.Error("the prohibition must hold under argument swap")
	}
}

func TestOverlapTypeVarBinding(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)

	constrained := types.TypeVarType{Name: "S", ID: 2, Values: []types.Type{intT, b.Instance(b.Bytes)}}
	if !Overlaps(ses, constrained, intT, false, false) {
		t.Error("a constrained variable overlaps any of its values")
	}
	if Overlaps(ses, constrained, strT, false, false) {
		t.Error("a constrained variable does not overlap outside its values")
	}

	bounded := types.TypeVarType{Name: "T", ID: 3, UpperBound: intT}
	if !Overlaps(ses, bounded, intT, false, false) {
		t.Error("an unconstrained variable overlaps through its bound")
	}
	if Overlaps(ses, bounded, strT, false, false) {
		t.Error("the bound limits what an unconstrained variable can reach")
	}
}

func TestOverlapTuples(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)
	boolT := b.Instance(b.Bool)

	if Overlaps(ses, b.Tuple(intT, strT), b.Tuple(intT, strT, boolT), false, false) {
		t.Error("tuples of different arity should not overlap")
	}
	if !Overlaps(ses, b.Tuple(intT), b.VarTuple(intT), false, false) {
		t.Error("a 1-tuple should overlap the variable-arity sequence after materialization")
	}
	if !Overlaps(ses, b.Tuple(intT, intT), b.VarTuple(intT), false, false) {
		t.Error("materialization should match the fixed operand's arity")
	}
	if Overlaps(ses, b.Tuple(intT, strT), b.Tuple(intT, boolT), false, false) {
		t.Error("positionally disjoint tuples should not overlap")
	}
	if !Overlaps(ses, b.Tuple(intT, strT), b.Tuple(boolT, strT), false, false) {
		t.Error("itemwise-overlapping tuples should overlap")
	}
}

func TestOverlapTypedDicts(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)

	left := b.TypedDict(map[string]types.Type{"x": intT, "extra": strT}, "x")
	right := b.TypedDict(map[string]types.Type{"x": intT, "other": strT}, "x")
	if !TypedDictsOverlapping(ses, left, right, false, false) {
		t.Error("records sharing their required keys should overlap")
	}

	missing := b.TypedDict(map[string]types.Type{"y": intT}, "y")
	if TypedDictsOverlapping(ses, left, missing, false, false) {
		t.Error("a required key absent on the other side should prevent overlap")
	}

	conflict := b.TypedDict(map[string]types.Type{"x": strT}, "x")
	if TypedDictsOverlapping(ses, left, conflict, false, false) {
		t.Error("a required key with a disjoint value type should prevent overlap")
	}
}

func TestOverlapTypedDictMapping(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)
	bot := types.UninhabitedType{}

	emptyMapping := b.Instance(b.Dict, bot, bot)
	noRequired := b.TypedDict(map[string]types.Type{"x": strT})
	withRequired := b.TypedDict(map[string]types.Type{"x": intT}, "x")

	// The documented asymmetry around empty collections: a record with no
	// required keys matches the empty-mapping literal shape, one with
	// required keys does not.
	if !Overlaps(ses, noRequired, emptyMapping, false, false) {
		t.Error("a fully optional record should overlap the empty-mapping shape")
	}
	if Overlaps(ses, withRequired, emptyMapping, false, false) {
		t.Error("a record with required keys should not overlap the empty-mapping shape")
	}

	// Ordinary mappings: required keys are checked conjunctively.
	if !Overlaps(ses, withRequired, b.Instance(b.Dict, strT, intT), false, false) {
		t.Error("required value types all overlap, so the pair should overlap")
	}
	if Overlaps(ses, withRequired, b.Instance(b.Dict, strT, strT), false, false) {
		t.Error("a required value type disjoint from the mapping value should prevent overlap")
	}

	// With no required keys a single overlapping optional key suffices,
	// but a plain non-empty mapping with disjoint values does not match.
	if !Overlaps(ses, noRequired, b.Instance(b.Dict, strT, strT), false, false) {
		t.Error("an optional key overlapping the value type should suffice")
	}
	if Overlaps(ses, noRequired, b.Instance(b.Dict, strT, intT), false, false) {
		t.Error("no key type overlaps the mapping value, so the pair should not overlap")
	}
}

func TestOverlapTypeObjects(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)

	if !Overlaps(ses, types.MakeTypeType(intT), types.MakeTypeType(intT), false, false) {
		t.Error("identical metatypes should overlap")
	}
	if Overlaps(ses, types.MakeTypeType(intT), types.MakeTypeType(b.Instance(b.Str)), false, false) {
		t.Error("metatypes of disjoint items should not overlap")
	}

	// Type[C] against the class-object callable constructing C.
	ctor := b.ClassObject(b.Int)
	if !Overlaps(ses, types.MakeTypeType(intT), ctor, false, false) {
		t.Error("Type[int] should overlap the int class object")
	}
	if Overlaps(ses, types.MakeTypeType(b.Instance(b.Str)), ctor, false, false) {
		t.Error("Type[str] should not overlap the int class object")
	}

	// Type[C] against a metaclass instance: the default metaclass overlaps
	// every metaclass.
	meta := types.NewClass("example.Meta", nil, b.Instance(b.Type))
	if !Overlaps(ses, types.MakeTypeType(intT), b.Instance(meta), false, false) {
		t.Error("Type[int] should overlap a metaclass instance")
	}
}

func TestOverlapCallables(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)

	if !Overlaps(ses,
		b.Callable([]types.Type{intT}, intT),
		b.Callable([]types.Type{intT}, intT), false, false) {
		t.Error("identical signatures should overlap")
	}
	if Overlaps(ses,
		b.Callable([]types.Type{intT}, intT),
		b.Callable([]types.Type{strT}, intT), false, false) {
		t.Error("signatures with disjoint parameters should not overlap")
	}
	// A callable against a non-callable degrades to its fallback.
	if Overlaps(ses, b.Callable([]types.Type{intT}, intT), intT, false, false) {
		t.Error("a function does not overlap int")
	}
}

func TestOverlapLiterals(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	if !Overlaps(ses, b.Literal("a"), b.Literal("a"), false, false) {
		t.Error("equal literals should overlap")
	}
	if Overlaps(ses, b.Literal("a"), b.Literal("b"), false, false) {
		t.Error("distinct literal values never overlap")
	}
	if !Overlaps(ses, b.Literal("a"), b.Instance(b.Str), false, false) {
		t.Error("a literal overlaps its fallback instance")
	}
	if Overlaps(ses, b.Literal("a"), b.Instance(b.Int), false, false) {
		t.Error("a str literal should not overlap int")
	}
}

func TestOverlapTransientMarkers(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	for _, marker := range []types.Type{
		types.UnboundType{Name: "X"},
		types.ErasedType{},
		types.DeletedType{Source: "x"},
	} {
		if !Overlaps(ses, marker, b.Instance(b.Int), false, false) {
			t.Errorf("%s should be treated permissively", marker)
		}
	}
}

func TestOverlapGuardForces(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	guard := &types.GuardedType{Guard: b.Instance(b.Str)}
	if !Overlaps(ses, b.Instance(b.Int), guard, false, false) {
		t.Error("a guard wrapper always overlaps")
	}
	if !Overlaps(ses, guard, b.Instance(b.Int), false, false) {
		t.Error("a guard wrapper always overlaps, on either side")
	}
}

func TestOverlapPartialPanics(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()

	defer func() {
		if recover() == nil {
			t.Error("overlap with a partial type did not panic")
		}
	}()
	Overlaps(ses, types.PartialType{}, b.Instance(b.Int), false, false)
}

func TestOverlapsErased(t *testing.T) {
	ses := strictSession()
	b := types.NewBuiltins()
	intT := b.Instance(b.Int)
	strT := b.Instance(b.Str)

	if !OverlapsErased(ses, b.Instance(b.List, intT), b.Instance(b.List, strT), false) {
		t.Error("after erasure only the outer shape should matter")
	}
	if OverlapsErased(ses, intT, strT, false) {
		t.Error("erasure does not relate nominally distinct classes")
	}
}
