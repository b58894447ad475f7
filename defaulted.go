package lifetime

// AnalyzeDefaultedDefaultConstructor synthesizes the signature of a
// defaulted default constructor without walking a body: there isn't one.
// Its effect is exactly "default-construct each base, then each
// record-typed field, in declaration order" (GetDefaultedFunctionCallees
// enumerates those callees for the driver's call graph). Because a
// record's lifetime parameters are, in this analysis, bound directly to
// the record object's own lifetime at the point a field or base is
// projected (transfer.go's fieldObject/baseObject), a defaulted default
// constructor never needs to import constraints from its bases' or
// fields' own default constructors to produce a correct signature: `this`
// already is the lifetime every subobject inherits. The signature is
// therefore always the plain skeleton ConstructFunctionLifetimes would
// build for a method with no parameters and no return value.
func AnalyzeDefaultedDefaultConstructor(fn FunctionDecl) FunctionLifetimes {
	return ConstructFunctionLifetimes(fn)
}

// AnalyzeDefaultedFunction dispatches a defaulted special member to its
// synthesis rule. Only the default constructor is modeled; a defaulted
// copy/move constructor or assignment operator is analyzed as an
// ordinary function over its (compiler-synthesized) body instead, since
// its effect - aliasing every field/base to the corresponding field/base
// of its argument - is exactly what the normal Assign/FieldInit transfer
// rules already compute given that body.
func AnalyzeDefaultedFunction(fn FunctionDecl) (FunctionLifetimes, bool) {
	if fn.IsDefaultConstructor() {
		return AnalyzeDefaultedDefaultConstructor(fn), true
	}
	return FunctionLifetimes{}, false
}
