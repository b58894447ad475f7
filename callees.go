package lifetime

import "github.com/gocxxlifetime/lifetime/slices"

// GetCallees walks fn's CFG and returns every distinct function it calls,
// in first-encountered order. Frontends are expected to hand back the
// same FunctionDecl value for every reference to a given function (the
// way a compiler canonicalizes redeclarations to one definition); GetCallees
// still defensively dedups by identity rather than trusting that.
func GetCallees(fn FunctionDecl) []FunctionDecl {
	if !fn.HasBody() {
		return nil
	}
	seen := map[FunctionDecl]bool{}
	var out []FunctionDecl
	add := func(callee FunctionDecl) {
		if callee == nil || seen[callee] {
			return
		}
		seen[callee] = true
		out = append(out, callee)
	}

	for _, b := range fn.CFG().Blocks() {
		for _, el := range b.Elements {
			if call, ok := el.(CallElement); ok {
				add(call.Callee)
			}
		}
	}
	return out
}

// GetDefaultedFunctionCallees returns the callees implied by a defaulted
// special member that has no body of its own to walk: a defaulted
// default constructor calls each base's and each field's own default
// constructor, in declaration order (spec's Supplemented Feature on
// defaulted-function handling, grounded in the member-by-member
// synthesis the original analysis performs).
func GetDefaultedFunctionCallees(fn FunctionDecl, lookupDefaultCtor func(Type) (FunctionDecl, bool)) []FunctionDecl {
	if !fn.IsDefaultConstructor() {
		return nil
	}
	rec := fn.RecordType()
	if rec == nil {
		return nil
	}
	var out []FunctionDecl
	var seenCtors []FunctionDecl
	addCtor := func(t Type) {
		ctor, ok := lookupDefaultCtor(t)
		if !ok || slices.Contains(seenCtors, ctor) {
			return
		}
		seenCtors = append(seenCtors, ctor)
		out = append(out, ctor)
	}
	for _, base := range rec.Bases {
		addCtor(base.Type)
	}
	for _, field := range rec.Fields {
		if field.Type.Kind() != KindRecord {
			continue
		}
		addCtor(field.Type)
	}
	return out
}
