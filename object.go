package lifetime

import "fmt"

// ObjectID is a stable, never-recycled identity for an Object within the
// ObjectRepository that minted it. It exists for debug output and for
// numbering the field, base, and static objects the transfer function
// synthesizes (transfer.go counts those down from zero); code that needs
// to compare objects for identity should compare *Object pointers
// directly.
type ObjectID int

// Object is an abstract memory cell: a stable identity, a static type, and
// a lifetime. Objects are created only by an ObjectRepository and are
// immutable after creation - only their assignments in a PointsToMap change
// as the dataflow analysis runs.
type Object struct {
	id       ObjectID
	typ      Type
	lifetime Lifetime
}

func (o *Object) ID() ObjectID       { return o.id }
func (o *Object) Type() Type         { return o.typ }
func (o *Object) Lifetime() Lifetime { return o.lifetime }

func (o *Object) String() string {
	return fmt.Sprintf("obj#%d(%s @ %s)", o.id, o.typ, o.lifetime)
}
