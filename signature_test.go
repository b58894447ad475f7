package lifetime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnoseReturnLocalReturnValue(t *testing.T) {
	intT := &valueType{name: "int"}
	fl := FunctionLifetimes{
		HasReturn: true,
		Return:    NewReferenceLifetimes(&pointerType{name: "int*", pointee: intT}, LocalLifetime(), NewValueLifetimes(intT)),
	}

	err := DiagnoseReturnLocal(nil, fl)
	assert.ErrorIs(t, err, ErrReturnsLocal)
}

// A void function has no return value at all, but can still leak a local
// through an output parameter - the case the previous nested checks missed
// because they only ran when fl.HasReturn was true.
func TestDiagnoseReturnLocalThroughOutParam(t *testing.T) {
	intT := &valueType{name: "int"}
	innerPtr := &pointerType{name: "int*", pointee: intT}
	outParamType := &pointerType{name: "int**", pointee: innerPtr}

	param := NewReferenceLifetimes(outParamType, NewVariable(),
		NewReferenceLifetimes(innerPtr, LocalLifetime(), NewValueLifetimes(intT)))

	fl := FunctionLifetimes{
		HasReturn: false,
		Params:    []ObjectLifetimes{param},
	}

	err := DiagnoseReturnLocal(nil, fl)
	assert.ErrorIs(t, err, ErrReturnsLocal)
	assert.Contains(t, err.Error(), "arg0")
}

// A void method can likewise leak a local purely through `this`, with no
// return value and no parameters at all to flag it.
func TestDiagnoseReturnLocalThroughThis(t *testing.T) {
	intT := &valueType{name: "int"}
	thisPtr := &pointerType{name: "Widget*", pointee: intT}
	this := NewReferenceLifetimes(thisPtr, NewVariable(),
		NewReferenceLifetimes(&pointerType{name: "int*", pointee: intT}, LocalLifetime(), NewValueLifetimes(intT)))

	fl := FunctionLifetimes{
		HasReturn: false,
		This:      &this,
	}

	err := DiagnoseReturnLocal(nil, fl)
	assert.ErrorIs(t, err, ErrReturnsLocal)
	assert.Contains(t, err.Error(), "'this'")
}

func TestDiagnoseReturnLocalNoLeak(t *testing.T) {
	intT := &valueType{name: "int"}
	intPtr := &pointerType{name: "int*", pointee: intT}

	fl := FunctionLifetimes{
		HasReturn: true,
		Return:    NewReferenceLifetimes(intPtr, NewVariable(), NewValueLifetimes(intT)),
		Params:    []ObjectLifetimes{NewReferenceLifetimes(intPtr, NewVariable(), NewValueLifetimes(intT))},
	}

	assert.NoError(t, DiagnoseReturnLocal(nil, fl))
}

func TestConstructFunctionLifetimesMintsFreshVariables(t *testing.T) {
	intT := &valueType{name: "int"}
	intPtr := &pointerType{name: "int*", pointee: intT}
	fn := &testFuncDecl{
		paramTypes: []Type{intPtr},
		hasReturn:  true,
		returnType: intPtr,
	}

	fl := ConstructFunctionLifetimes(fn)
	assert.Len(t, fl.Params, 1)
	assert.True(t, fl.Params[0].Own().IsVariable())
	assert.True(t, fl.Return.Own().IsVariable())
	assert.NotEqual(t, fl.Params[0].Own(), fl.Return.Own())
}

// testFuncDecl is a minimal internal FunctionDecl fake for tests that only
// need a type shape, not a callable body; astbuilder's richer fixture
// builder cannot be imported here without an import cycle (it imports this
// package).
type testFuncDecl struct {
	isMethod   bool
	thisType   Type
	paramTypes []Type
	hasReturn  bool
	returnType Type
}

func (f *testFuncDecl) Name() string                { return "test" }
func (f *testFuncDecl) IsMethod() bool              { return f.isMethod }
func (f *testFuncDecl) ThisType() Type              { return f.thisType }
func (f *testFuncDecl) ParamTypes() []Type          { return f.paramTypes }
func (f *testFuncDecl) ReturnType() Type            { return f.returnType }
func (f *testFuncDecl) HasReturnType() bool         { return f.hasReturn }
func (f *testFuncDecl) IsVirtual() bool             { return false }
func (f *testFuncDecl) IsPureVirtual() bool         { return false }
func (f *testFuncDecl) Overrides() []FunctionDecl   { return nil }
func (f *testFuncDecl) IsDefaulted() bool           { return false }
func (f *testFuncDecl) IsDefaultConstructor() bool  { return false }
func (f *testFuncDecl) RecordType() *RecordType     { return nil }
func (f *testFuncDecl) HasBody() bool               { return false }
func (f *testFuncDecl) CFG() CFG                    { return nil }
func (f *testFuncDecl) Annotated() (FunctionLifetimes, bool) { return FunctionLifetimes{}, false }
