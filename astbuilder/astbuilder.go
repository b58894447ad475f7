// Package astbuilder builds in-memory FunctionDecl and CFG fixtures for
// tests and for the lifetimeinfer demo command. There is no C-family
// parser in this module - parsing a real translation unit is explicitly
// out of scope (spec's Non-goals) - so every example function in this
// repository's tests is assembled by hand with this package instead.
package astbuilder

import "github.com/gocxxlifetime/lifetime"

// Value returns a scalar type with no lifetime of its own.
func Value(name string) lifetime.Type { return &simpleType{name: name, kind: lifetime.KindValue} }

// Pointer returns the pointer-to-t type.
func Pointer(t lifetime.Type) lifetime.Type {
	return &simpleType{name: "*" + t.String(), kind: lifetime.KindPointer, pointee: t}
}

// Reference returns the reference-to-t type.
func Reference(t lifetime.Type) lifetime.Type {
	return &simpleType{name: "&" + t.String(), kind: lifetime.KindReference, pointee: t}
}

// RecordBuilder assembles a lifetime.RecordType incrementally.
type RecordBuilder struct {
	rec *lifetime.RecordType
	typ *simpleType
}

// Record starts building a record type named name.
func Record(name string) *RecordBuilder {
	rec := &lifetime.RecordType{Name: name}
	return &RecordBuilder{
		rec: rec,
		typ: &simpleType{name: name, kind: lifetime.KindRecord, record: rec},
	}
}

func (b *RecordBuilder) Field(name string, t lifetime.Type) *RecordBuilder {
	b.rec.Fields = append(b.rec.Fields, lifetime.Field{Name: name, Type: t})
	return b
}

func (b *RecordBuilder) Base(t lifetime.Type) *RecordBuilder {
	b.rec.Bases = append(b.rec.Bases, lifetime.Base{Type: t})
	return b
}

func (b *RecordBuilder) LifetimeParam(name string) *RecordBuilder {
	b.rec.LifetimeParams = append(b.rec.LifetimeParams, name)
	return b
}

// Type returns the lifetime.Type for the record built so far; further
// Field/Base/LifetimeParam calls still mutate the same underlying
// RecordType, so it is safe to call Type before the record is complete
// and use the result in a recursive/self-referential field.
func (b *RecordBuilder) Type() lifetime.Type { return b.typ }

type simpleType struct {
	name    string
	kind    lifetime.TypeKind
	pointee lifetime.Type
	record  *lifetime.RecordType
}

func (t *simpleType) Kind() lifetime.TypeKind    { return t.kind }
func (t *simpleType) Pointee() lifetime.Type     { return t.pointee }
func (t *simpleType) Record() *lifetime.RecordType { return t.record }
func (t *simpleType) String() string             { return t.name }
