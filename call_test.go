package lifetime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocxxlifetime/lifetime"
	"github.com/gocxxlifetime/lifetime/astbuilder"
)

// A local's storage escaping through a call's conservative result-aliasing
// step (transfer.go's transferCall/Extend) must still be caught, exactly as
// if it had escaped directly - the call must not hide it.
func TestDriverCallPropagatesLocalThroughReturn(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	identity := astbuilder.Function("identity").Param(intPtr).Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(astbuilder.Ret(astbuilder.Arg(0))),
		)).
		Build()

	caller := astbuilder.Function("caller").Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.Local("x", intT, nil),
				astbuilder.Local("p", intPtr, astbuilder.AddrOf(astbuilder.Var("x"))),
				astbuilder.CallInto(astbuilder.Return(), identity, nil, astbuilder.Var("p")),
			),
		)).
		Build()

	d := lifetime.NewDriver(nil, nil, nil)
	_, err := d.AnalyzeFunction(caller)
	assert.ErrorIs(t, err, lifetime.ErrReturnsLocal)
}

// A call whose arguments never touch a local must not be flagged: only the
// specific aliasing the call actually performs matters, not every call.
func TestDriverCallWithoutLocalArgumentIsClean(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	identity := astbuilder.Function("identity").Param(intPtr).Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(astbuilder.Ret(astbuilder.Arg(0))),
		)).
		Build()

	caller := astbuilder.Function("caller").Param(intPtr).Returns(intPtr).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(
				astbuilder.CallInto(astbuilder.Return(), identity, nil, astbuilder.Arg(0)),
			),
		)).
		Build()

	d := lifetime.NewDriver(nil, nil, nil)
	_, err := d.AnalyzeFunction(caller)
	assert.NoError(t, err)
}

// Mutually-recursive functions must converge to a fixed point rather than
// recursing forever or being rejected outright (spec §4.8).
func TestDriverRecursiveCycleConverges(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)

	pingDecl := astbuilder.Function("ping").Param(intPtr).Returns(intPtr)
	pongDecl := astbuilder.Function("pong").Param(intPtr).Returns(intPtr)

	// Build returns the builder's own FunctionDecl and a block stays
	// mutable after it is wrapped in a CFG, so pong is built over a
	// still-empty block, ping is built calling pong, and only then does
	// pong's block get its call back to ping.
	var ping, pong lifetime.FunctionDecl
	pongBody := astbuilder.NewBlock()
	pong = pongDecl.Body(astbuilder.CFG(pongBody)).Build()
	pingBody := astbuilder.NewBlock().Add(
		astbuilder.CallInto(astbuilder.Return(), pong, nil, astbuilder.Arg(0)),
	)
	ping = pingDecl.Body(astbuilder.CFG(pingBody)).Build()
	pongBody.Add(
		astbuilder.CallInto(astbuilder.Return(), ping, nil, astbuilder.Arg(0)),
	)

	sink := &lifetime.CollectingSink{}
	d := lifetime.NewDriver(nil, sink, nil)
	_, err := d.AnalyzeFunction(ping)
	assert.NoError(t, err)

	for _, diag := range sink.Diagnostics {
		assert.NotContains(t, diag.Message, "did not converge")
	}

	_, ok := d.Lifetimes(pong)
	assert.True(t, ok, "both members of the cycle must end up analyzed")
}

// A virtual override that always returns the address of a static object
// forces the base method's signature - the one every caller through the
// vtable actually sees - to widen to static too (spec §4.8).
func TestDriverOverrideWideningPromotesBaseToStatic(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)
	widget := astbuilder.Record("Widget").Field("value", intPtr)
	widgetType := widget.Type()

	base := astbuilder.Function("Widget::get").Method(widgetType).Returns(intPtr).Virtual().
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(astbuilder.Ret(astbuilder.Field(astbuilder.This(), "value"))),
		)).
		Build()

	override := astbuilder.Function("Derived::get").Method(widgetType).Returns(intPtr).Virtual().
		Overrides(base).
		Body(astbuilder.CFG(
			astbuilder.NewBlock().Add(astbuilder.Ret(astbuilder.Static(intT))),
		)).
		Build()

	d := lifetime.NewDriver(nil, nil, nil)
	_, err := d.AnalyzeFunction(override)
	require.NoError(t, err)

	widenedBase, ok := d.Lifetimes(base)
	require.True(t, ok)
	assert.True(t, widenedBase.Return.Own().IsStatic(),
		"the base's cached signature must widen once an override always returns a static object")
}

// An override whose parameter count does not match its base's cannot be
// widened positionally; the mismatch must be reported, not silently
// ignored or panicked on.
func TestDriverOverrideArityMismatchIsReported(t *testing.T) {
	intT := astbuilder.Value("int")
	intPtr := astbuilder.Pointer(intT)
	widget := astbuilder.Record("Widget")
	widgetType := widget.Type()

	base := astbuilder.Function("Widget::set").Method(widgetType).Param(intPtr).Virtual().
		Body(astbuilder.CFG(astbuilder.NewBlock())).
		Build()

	override := astbuilder.Function("Derived::set").Method(widgetType).
		Param(intPtr).Param(intPtr).
		Virtual().Overrides(base).
		Body(astbuilder.CFG(astbuilder.NewBlock())).
		Build()

	sink := &lifetime.CollectingSink{}
	d := lifetime.NewDriver(nil, sink, nil)
	_, err := d.AnalyzeFunction(override)
	assert.NoError(t, err, "the override's own analysis succeeds independent of whether widening its base succeeds")

	found := false
	for _, diag := range sink.Diagnostics {
		if diag.Function == base.Name() {
			assert.Contains(t, diag.Message, lifetime.ErrOverrideArityMismatch.Error())
			found = true
		}
	}
	assert.True(t, found, "a parameter-count mismatch between an override and its base must be reported against the base")
}
