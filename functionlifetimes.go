package lifetime

import "strings"

// FunctionLifetimes is the inferred (or annotated) signature of a function:
// an ObjectLifetimes for each parameter, for `this` if it is a non-static
// method, and for the return value if it has one. The shape of each tree
// matches the corresponding declared type.
type FunctionLifetimes struct {
	This      *ObjectLifetimes
	Params    []ObjectLifetimes
	HasReturn bool
	Return    ObjectLifetimes
}

// Substitute returns a copy of fl with every lifetime replaced by f(l).
func (fl FunctionLifetimes) Substitute(f func(Lifetime) Lifetime) FunctionLifetimes {
	out := FunctionLifetimes{HasReturn: fl.HasReturn}
	if fl.This != nil {
		this := fl.This.Substitute(f)
		out.This = &this
	}
	if len(fl.Params) > 0 {
		out.Params = make([]ObjectLifetimes, len(fl.Params))
		for i, p := range fl.Params {
			out.Params[i] = p.Substitute(f)
		}
	}
	if fl.HasReturn {
		out.Return = fl.Return.Substitute(f)
	}
	return out
}

// ForEachLifetime visits every lifetime in fl, `this` first, then
// parameters in order, then the return value.
func (fl FunctionLifetimes) ForEachLifetime(f func(Lifetime)) {
	if fl.This != nil {
		fl.This.ForEachLifetime(f)
	}
	for _, p := range fl.Params {
		p.ForEachLifetime(f)
	}
	if fl.HasReturn {
		fl.Return.ForEachLifetime(f)
	}
}

// printer assigns the sequential letters a, b, c, ... of the printable
// form below to each distinct lifetime the first time it is seen while
// printing `this` and the parameters. The return value never mints a new
// letter: a return lifetime that was never seen among `this`/the
// parameters prints as the anonymous "_", matching a function whose
// result is unconstrained by its inputs (scenario 1 in spec §8).
type printer struct {
	names map[Lifetime]string
	next  int
}

func newPrinter() *printer { return &printer{names: map[Lifetime]string{}} }

func (p *printer) define(l Lifetime) string {
	if l.IsStatic() {
		return "static"
	}
	if name, ok := p.names[l]; ok {
		return name
	}
	name := string(rune('a' + p.next))
	p.next++
	p.names[l] = name
	return name
}

func (p *printer) reference(l Lifetime) string {
	if l.IsStatic() {
		return "static"
	}
	if name, ok := p.names[l]; ok {
		return name
	}
	return "_"
}

func (p *printer) render(ol ObjectLifetimes, label func(Lifetime) string) string {
	ls := ol.collectLifetimes()
	switch len(ls) {
	case 0:
		return "()"
	case 1:
		return label(ls[0])
	default:
		parts := make([]string, len(ls))
		for i, l := range ls {
			parts[i] = label(l)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

// String renders fl in the grammar of spec §6: comma-separated parameter
// groups, an optional "T: " prefix for the `this` lifetime, and an
// optional " -> R" return section. Nested reference layers and record
// lifetime parameters become a parenthesized list; a parameter or return
// of a type with no lifetime of its own prints as "()".
func (fl FunctionLifetimes) String() string {
	p := newPrinter()

	var b strings.Builder
	if fl.This != nil {
		b.WriteString(p.render(*fl.This, p.define))
		b.WriteString(": ")
	}

	parts := make([]string, len(fl.Params))
	for i, param := range fl.Params {
		parts[i] = p.render(param, p.define)
	}
	b.WriteString(strings.Join(parts, ", "))

	if fl.HasReturn {
		b.WriteString(" -> ")
		b.WriteString(p.render(fl.Return, p.reference))
	}

	return b.String()
}
