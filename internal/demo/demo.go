// Package demo builds a handful of fixed FunctionDecl/CFG examples with
// astbuilder for the lifetimeinfer command to analyze, since this module
// has no C-family parser of its own.
package demo

import (
	"github.com/gocxxlifetime/lifetime"
	"github.com/gocxxlifetime/lifetime/astbuilder"
)

// TranslationUnit returns a small, self-contained set of example
// functions: an identity-like passthrough, a two-argument chooser that
// returns its first parameter, and a setter method that stores its one
// parameter into a field of `this`.
func TranslationUnit() []lifetime.FunctionDecl {
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

	return []lifetime.FunctionDecl{identity, chooseFirst, setValue}
}
