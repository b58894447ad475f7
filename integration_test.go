package lifetime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocxxlifetime/lifetime"
	"github.com/gocxxlifetime/lifetime/astbuilder"
)

// These exercise the full pipeline - astbuilder fixture, driver, worklist
// dataflow, extraction, and the printer - end to end, mirroring the two
// documented example signatures.

func TestAnalyzeIdentityEndToEnd(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	identity := astbuilder.Function("identity").
		Param(intPtr).
		Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Ret(astbuilder.Arg(0)),
			),
		)).
		Build()

	d := lifetime.NewDriver(nil, nil, nil)
	fl, err := d.AnalyzeFunction(identity)
	require.NoError(t, err)
	assert.Equal(t, "a -> a", fl.String())
}

func TestAnalyzeChooseFirstEndToEnd(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	chooseFirst := astbuilder.Function("choose_first").
		Param(intPtr).
		Param(intPtr).
		Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Ret(astbuilder.Arg(0)),
			),
		)).
		Build()

	d := lifetime.NewDriver(nil, nil, nil)
	fl, err := d.AnalyzeFunction(chooseFirst)
	require.NoError(t, err)
	assert.Equal(t, "a, b -> a", fl.String())
}

func TestAnalyzeSetterEndToEnd(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)
	holder := astbuilder.Record("Holder").Field("value", intPtr)

	setValue := astbuilder.Function("Holder::set_value").
		Method(holder.Type()).
		Param(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Assign(astbuilder.Field(astbuilder.This(), "value"), astbuilder.Arg(0)),
			),
		)).
		Build()

	d := lifetime.NewDriver(nil, nil, nil)
	fl, err := d.AnalyzeFunction(setValue)
	require.NoError(t, err)
	// A method's `this` is rendered as the leading lifetime set before the
	// colon; the assignment ties the field to the single incoming argument.
	assert.Contains(t, fl.String(), ":")
}

func TestAnalyzeReturnsLocalIsRejected(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	dangling := astbuilder.Function("dangling").
		Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Local("x", intT, nil),
				astbuilder.Ret(astbuilder.AddrOf(astbuilder.Var("x"))),
			),
		)).
		Build()

	d := lifetime.NewDriver(nil, nil, nil)
	_, err := d.AnalyzeFunction(dangling)
	assert.ErrorIs(t, err, lifetime.ErrReturnsLocal)
}

func TestAnalyzeTranslationUnitCollectsDiagnosticsInsteadOfAborting(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	dangling := astbuilder.Function("dangling").
		Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Local("x", intT, nil),
				astbuilder.Ret(astbuilder.AddrOf(astbuilder.Var("x"))),
			),
		)).
		Build()

	identity := astbuilder.Function("identity").
		Param(intPtr).
		Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Ret(astbuilder.Arg(0)),
			),
		)).
		Build()

	sink := &lifetime.CollectingSink{}
	d := lifetime.NewDriver(nil, sink, nil)
	d.AnalyzeTranslationUnit([]lifetime.FunctionDecl{dangling, identity})

	fl, ok := d.Lifetimes(identity)
	require.True(t, ok)
	assert.Equal(t, "a -> a", fl.String())
	assert.NotEmpty(t, sink.Diagnostics)
}
