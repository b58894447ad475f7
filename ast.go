package lifetime

// FunctionDecl is the minimal view of a function or method declaration
// the analysis needs from the external AST collaborator (spec §6). A
// frontend adapts its own parse tree to this interface; nothing in this
// package constructs a FunctionDecl itself outside of tests and the
// astbuilder fixture package.
type FunctionDecl interface {
	Name() string
	// IsMethod reports whether this is a non-static member function; if
	// so ThisType must return the (possibly const) pointee record type.
	IsMethod() bool
	ThisType() Type
	ParamTypes() []Type
	ReturnType() Type
	HasReturnType() bool

	IsVirtual() bool
	IsPureVirtual() bool
	// Overrides returns the base-class methods this one directly
	// overrides, used to propagate and widen virtual signatures (spec
	// §4.8's override handling).
	Overrides() []FunctionDecl

	IsDefaulted() bool
	// IsDefaultConstructor reports whether this is a defaulted default
	// constructor, whose lifetimes are synthesized from its record's
	// bases and fields rather than analyzed from a body.
	IsDefaultConstructor() bool
	RecordType() *RecordType

	// HasBody reports whether a CFG is available; a declaration-only
	// function is resolved from ExternalAnnotations instead.
	HasBody() bool
	CFG() CFG

	// Annotated reports whether the frontend already supplied this
	// function's lifetimes (e.g. from a lifetime annotation in source),
	// short-circuiting analysis entirely.
	Annotated() (FunctionLifetimes, bool)
}

// MemberInitializer describes one entry of a constructor's
// initializer list: a field or base subobject initialized to the value
// produced by Init before the constructor body runs (spec §4.5's
// FieldInit-at-construction handling, supplemented from the member
// initializer list semantics of the original analysis).
type MemberInitializer struct {
	// FieldName is set when this initializer targets a field; BaseType
	// is set (and FieldName empty) when it targets a base subobject.
	FieldName string
	BaseType  Type
	Init      Expr
}

// Initializers returns a defaulted or user-provided constructor's member
// initializer list, applied after the constructor body's dataflow
// reaches a fixed point (spec §4.5, Design Note on initializer ordering).
type ConstructorDecl interface {
	FunctionDecl
	Initializers() []MemberInitializer
}
