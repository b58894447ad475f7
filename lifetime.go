package lifetime

import "fmt"

// Lifetime is a symbolic tag related to other lifetimes only through a
// LifetimeConstraintSet. Lifetimes carry no duration of their own.
//
// Local and Static are distinct, and no two Variable lifetimes created by
// separate calls to NewVariable compare equal.
type Lifetime struct {
	kind lifetimeKind
	id   int
}

type lifetimeKind uint8

const (
	kindStatic lifetimeKind = iota
	kindLocal
	kindVariable
)

// Static is the lifetime shared by every object that lives for the entire
// program.
func Static() Lifetime { return Lifetime{kind: kindStatic} }

// LocalLifetime is the lifetime of a function-local stack object. A
// FunctionLifetimes that still mentions LocalLifetime anywhere in a
// parameter, `this`, or the return value is invalid: see the
// return-local diagnostic in signature.go.
func LocalLifetime() Lifetime { return Lifetime{kind: kindLocal} }

var freshVariableID = func() func() int {
	var counter int
	return func() int {
		counter++
		return counter
	}
}()

// NewVariable returns a lifetime distinct from every other lifetime this
// process has produced so far. Variables are unified or constrained by a
// LifetimeConstraintSet; the numeric id has no meaning beyond identity.
func NewVariable() Lifetime {
	return Lifetime{kind: kindVariable, id: freshVariableID()}
}

func (l Lifetime) IsStatic() bool   { return l.kind == kindStatic }
func (l Lifetime) IsLocal() bool    { return l.kind == kindLocal }
func (l Lifetime) IsVariable() bool { return l.kind == kindVariable }

// VariableID returns the numeric identity of a variable lifetime and
// true, or (0, false) if l is not a variable. Meaningful only for
// reproducing the exact same Lifetime value via VariableWithID, e.g.
// when a cache round-trips a previously-computed FunctionLifetimes
// (persist/cache.go); ordinary analysis code should never branch on it.
func (l Lifetime) VariableID() (int, bool) {
	if !l.IsVariable() {
		return 0, false
	}
	return l.id, true
}

// VariableWithID reconstructs the variable lifetime with the given id.
// It exists solely to let a cache deserialize a FunctionLifetimes that
// was serialized with VariableID, preserving which positions shared a
// lifetime; it never draws from the live NewVariable counter, so it must
// not be mixed with fresh variables from the same in-progress analysis.
func VariableWithID(id int) Lifetime {
	return Lifetime{kind: kindVariable, id: id}
}

func (l Lifetime) String() string {
	switch l.kind {
	case kindStatic:
		return "static"
	case kindLocal:
		return "local"
	default:
		return fmt.Sprintf("'%d", l.id)
	}
}
