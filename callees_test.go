package lifetime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocxxlifetime/lifetime"
	"github.com/gocxxlifetime/lifetime/astbuilder"
)

func TestGetCalleesWalksCallElements(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	helper := astbuilder.Function("helper").Param(intPtr).Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(astbuilder.Ret(astbuilder.Arg(0))),
		)).
		Build()

	caller := astbuilder.Function("caller").Param(intPtr).Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.CallInto(astbuilder.Return(), helper, nil, astbuilder.Arg(0)),
				astbuilder.Ret(astbuilder.Return()),
			),
		)).
		Build()

	callees := lifetime.GetCallees(caller)
	assert.Equal(t, []lifetime.FunctionDecl{helper}, callees)
}

func TestGetCalleesDedupsRepeatedCalls(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	helper := astbuilder.Function("helper").Param(intPtr).
		Body(astbuilder.CFG(astbuilder.NewBlock())).
		Build()

	caller := astbuilder.Function("caller").Param(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Call(helper, nil, astbuilder.Arg(0)),
				astbuilder.Call(helper, nil, astbuilder.Arg(0)),
			),
		)).
		Build()

	assert.Len(t, lifetime.GetCallees(caller), 1, "GetCallees must dedup repeated calls to the same callee")
}

func TestGetCalleesNoBodyReturnsNil(t *testing.T) {
	declOnly := astbuilder.Function("declOnly").Build()
	assert.Nil(t, lifetime.GetCallees(declOnly))
}

func TestGetCalleesDistinguishesMultipleCallees(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	first := astbuilder.Function("first").Param(intPtr).
		Body(astbuilder.CFG(astbuilder.NewBlock())).
		Build()
	second := astbuilder.Function("second").Param(intPtr).
		Body(astbuilder.CFG(astbuilder.NewBlock())).
		Build()

	caller := astbuilder.Function("caller").Param(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Call(first, nil, astbuilder.Arg(0)),
				astbuilder.Call(second, nil, astbuilder.Arg(0)),
			),
		)).
		Build()

	assert.Equal(t, []lifetime.FunctionDecl{first, second}, lifetime.GetCallees(caller))
}

func TestGetDefaultedFunctionCalleesWalksBasesThenFields(t *testing.T) {
	base := astbuilder.Record("Base")
	baseType := base.Type()
	baseCtor := astbuilder.Function("Base::Base").Method(baseType).
		DefaultConstructor(baseType.Record()).
		Build()

	member := astbuilder.Record("Member")
	memberType := member.Type()
	memberCtor := astbuilder.Function("Member::Member").Method(memberType).
		DefaultConstructor(memberType.Record()).
		Build()

	derived := astbuilder.Record("Derived").Base(baseType).Field("m", memberType)
	derivedType := derived.Type()
	derivedCtor := astbuilder.Function("Derived::Derived").Method(derivedType).
		DefaultConstructor(derivedType.Record()).
		Build()

	lookup := map[lifetime.Type]lifetime.FunctionDecl{
		baseType:   baseCtor,
		memberType: memberCtor,
	}
	lookupFn := func(t lifetime.Type) (lifetime.FunctionDecl, bool) {
		d, ok := lookup[t]
		return d, ok
	}

	callees := lifetime.GetDefaultedFunctionCallees(derivedCtor, lookupFn)
	assert.Equal(t, []lifetime.FunctionDecl{baseCtor, memberCtor}, callees)
}

func TestGetDefaultedFunctionCalleesSkipsScalarFields(t *testing.T) {
	intT := astbuilder.Value("int")
	rec := astbuilder.Record("Widget").Field("count", intT)
	recType := rec.Type()
	ctor := astbuilder.Function("Widget::Widget").Method(recType).
		DefaultConstructor(recType.Record()).
		Build()

	lookupFn := func(lifetime.Type) (lifetime.FunctionDecl, bool) {
		t.Fatal("lookupDefaultCtor should never be consulted for a scalar field")
		return nil, false
	}
	assert.Empty(t, lifetime.GetDefaultedFunctionCallees(ctor, lookupFn))
}

func TestGetDefaultedFunctionCalleesNotADefaultConstructor(t *testing.T) {
	rec := astbuilder.Record("Widget")
	recType := rec.Type()
	copyCtor := astbuilder.Function("Widget::Widget").Method(recType).
		Param(astbuilder.Reference(recType)).
		Defaulted().
		Build()

	lookupFn := func(lifetime.Type) (lifetime.FunctionDecl, bool) {
		t.Fatal("lookupDefaultCtor should never be consulted for a non-default-constructor")
		return nil, false
	}
	assert.Nil(t, lifetime.GetDefaultedFunctionCallees(copyCtor, lookupFn))
}
