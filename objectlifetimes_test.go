package lifetime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type valueType struct{ name string }

func (t *valueType) Kind() TypeKind    { return KindValue }
func (t *valueType) Pointee() Type     { return nil }
func (t *valueType) Record() *RecordType { return nil }
func (t *valueType) String() string    { return t.name }

type pointerType struct {
	name    string
	pointee Type
}

func (t *pointerType) Kind() TypeKind      { return KindPointer }
func (t *pointerType) Pointee() Type       { return t.pointee }
func (t *pointerType) Record() *RecordType { return nil }
func (t *pointerType) String() string      { return t.name }

func TestObjectLifetimesValue(t *testing.T) {
	intT := &valueType{name: "int"}
	ol := NewValueLifetimes(intT)

	assert.Equal(t, KindValueLifetimes, ol.LifetimesKind())
	assert.Equal(t, intT, ol.Type())

	var seen []Lifetime
	ol.ForEachLifetime(func(l Lifetime) { seen = append(seen, l) })
	assert.Empty(t, seen)
	assert.False(t, ol.HasAny(func(Lifetime) bool { return true }))
}

func TestObjectLifetimesReference(t *testing.T) {
	intT := &valueType{name: "int"}
	ptrT := &pointerType{name: "int*", pointee: intT}

	own := NewVariable()
	ol := NewReferenceLifetimes(ptrT, own, NewValueLifetimes(intT))

	assert.Equal(t, KindReferenceLifetimes, ol.LifetimesKind())
	assert.Equal(t, own, ol.Own())
	assert.Equal(t, intT, ol.Pointee().Type())

	var seen []Lifetime
	ol.ForEachLifetime(func(l Lifetime) { seen = append(seen, l) })
	assert.Equal(t, []Lifetime{own}, seen)

	assert.Panics(t, func() { ol.RecordParams() })
}

func TestObjectLifetimesHasAnyLocal(t *testing.T) {
	intT := &valueType{name: "int"}
	ptrT := &pointerType{name: "int*", pointee: intT}

	ol := NewReferenceLifetimes(ptrT, LocalLifetime(), NewValueLifetimes(intT))
	assert.True(t, ol.HasAny(func(l Lifetime) bool { return l.IsLocal() }))
	assert.False(t, ol.HasAny(func(l Lifetime) bool { return l.IsStatic() }))
}

func TestObjectLifetimesSubstitute(t *testing.T) {
	intT := &valueType{name: "int"}
	ptrT := &pointerType{name: "int*", pointee: intT}
	a := NewVariable()

	ol := NewReferenceLifetimes(ptrT, a, NewValueLifetimes(intT))
	substituted := ol.Substitute(func(Lifetime) Lifetime { return Static() })

	assert.True(t, substituted.Own().IsStatic())
	assert.Equal(t, a, ol.Own(), "Substitute must not mutate the receiver")
}

func TestObjectLifetimesRecordParams(t *testing.T) {
	recT := &valueType{name: "Box"}

	a := NewVariable()
	ol := NewRecordLifetimes(recT, []RecordParamLifetime{{Param: "a", Lifetime: a}})

	assert.Equal(t, KindRecordLifetimes, ol.LifetimesKind())
	assert.Equal(t, []RecordParamLifetime{{Param: "a", Lifetime: a}}, ol.RecordParams())
	assert.Panics(t, func() { ol.Own() })
}
