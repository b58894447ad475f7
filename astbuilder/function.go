package astbuilder

import "github.com/gocxxlifetime/lifetime"

// FuncBuilder assembles a lifetime.FunctionDecl fixture.
type FuncBuilder struct {
	fn *funcDecl
}

// Function starts building a free function or method named name.
func Function(name string) *FuncBuilder {
	return &FuncBuilder{fn: &funcDecl{name: name}}
}

func (b *FuncBuilder) Method(thisType lifetime.Type) *FuncBuilder {
	b.fn.isMethod = true
	b.fn.thisType = thisType
	return b
}

func (b *FuncBuilder) Param(t lifetime.Type) *FuncBuilder {
	b.fn.paramTypes = append(b.fn.paramTypes, t)
	return b
}

func (b *FuncBuilder) Returns(t lifetime.Type) *FuncBuilder {
	b.fn.hasReturn = true
	b.fn.returnType = t
	return b
}

func (b *FuncBuilder) Virtual() *FuncBuilder      { b.fn.isVirtual = true; return b }
func (b *FuncBuilder) PureVirtual() *FuncBuilder  { b.fn.isVirtual = true; b.fn.isPure = true; return b }
func (b *FuncBuilder) Defaulted() *FuncBuilder    { b.fn.isDefaulted = true; return b }
func (b *FuncBuilder) DefaultConstructor(rec *lifetime.RecordType) *FuncBuilder {
	b.fn.isDefaulted = true
	b.fn.isDefaultCtor = true
	b.fn.recordType = rec
	return b
}

func (b *FuncBuilder) Overrides(base lifetime.FunctionDecl) *FuncBuilder {
	b.fn.overrides = append(b.fn.overrides, base)
	return b
}

// Initializer adds one member-initializer-list entry, used for a
// constructor (either user-provided or one this package needs to model
// as if the frontend had already synthesized the defaulted body).
func (b *FuncBuilder) Initializer(fieldName string, baseType lifetime.Type, init lifetime.Expr) *FuncBuilder {
	b.fn.initializers = append(b.fn.initializers, lifetime.MemberInitializer{
		FieldName: fieldName,
		BaseType:  baseType,
		Init:      init,
	})
	return b
}

// Annotated marks fn as already having a known signature, short-circuiting
// analysis - the astbuilder equivalent of a lifetime annotation attached
// to a declaration in source.
func (b *FuncBuilder) Annotated(fl lifetime.FunctionLifetimes) *FuncBuilder {
	b.fn.annotated = &fl
	return b
}

// Body attaches cfg as fn's control-flow graph; a FuncBuilder with no
// Body call and no Annotated call is a declaration-only function.
func (b *FuncBuilder) Body(cfg lifetime.CFG) *FuncBuilder {
	b.fn.cfg = cfg
	return b
}

func (b *FuncBuilder) Build() lifetime.FunctionDecl { return b.fn }
func (b *FuncBuilder) BuildConstructor() ConstructorHandle {
	return ConstructorHandle{fn: b.fn}
}

// ConstructorHandle exposes the ConstructorDecl view of a built function,
// since lifetime.ConstructorDecl is a stricter interface than
// lifetime.FunctionDecl.
type ConstructorHandle struct{ fn *funcDecl }

func (c ConstructorHandle) Decl() lifetime.ConstructorDecl { return c.fn }

type funcDecl struct {
	name string

	isMethod   bool
	thisType   lifetime.Type
	paramTypes []lifetime.Type
	hasReturn  bool
	returnType lifetime.Type

	isVirtual bool
	isPure    bool
	overrides []lifetime.FunctionDecl

	isDefaulted   bool
	isDefaultCtor bool
	recordType    *lifetime.RecordType
	initializers  []lifetime.MemberInitializer

	cfg       lifetime.CFG
	annotated *lifetime.FunctionLifetimes
}

func (f *funcDecl) Name() string               { return f.name }
func (f *funcDecl) IsMethod() bool             { return f.isMethod }
func (f *funcDecl) ThisType() lifetime.Type    { return f.thisType }
func (f *funcDecl) ParamTypes() []lifetime.Type { return f.paramTypes }
func (f *funcDecl) ReturnType() lifetime.Type  { return f.returnType }
func (f *funcDecl) HasReturnType() bool        { return f.hasReturn }

func (f *funcDecl) IsVirtual() bool     { return f.isVirtual }
func (f *funcDecl) IsPureVirtual() bool { return f.isPure }
func (f *funcDecl) Overrides() []lifetime.FunctionDecl { return f.overrides }

func (f *funcDecl) IsDefaulted() bool               { return f.isDefaulted }
func (f *funcDecl) IsDefaultConstructor() bool      { return f.isDefaultCtor }
func (f *funcDecl) RecordType() *lifetime.RecordType { return f.recordType }

func (f *funcDecl) HasBody() bool   { return f.cfg != nil }
func (f *funcDecl) CFG() lifetime.CFG { return f.cfg }

func (f *funcDecl) Annotated() (lifetime.FunctionLifetimes, bool) {
	if f.annotated == nil {
		return lifetime.FunctionLifetimes{}, false
	}
	return *f.annotated, true
}

func (f *funcDecl) Initializers() []lifetime.MemberInitializer { return f.initializers }
