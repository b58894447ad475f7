package lifetime

// CFG is the control-flow graph collaborator (spec §6): an entry block, a
// set of blocks each with a successor list, and nothing else. Loop
// structure, unreachable-block elimination, and construction from source
// all live upstream; the analysis only ever walks blocks and their
// successors.
type CFG interface {
	Entry() *Block
	Blocks() []*Block
}

// Block is a straight-line sequence of Elements ending in zero or more
// successors. A block with zero successors is an exit block; the
// analysis joins every exit block's lattice to get the function's
// overall result (spec §4.6).
type Block struct {
	Elements   []Element
	Successors []*Block
}

// Element is one statement or expression in the closed vocabulary spec
// §4.5 gives a transfer rule for. The vocabulary is fixed by the
// specification, so it is represented as a small family of concrete
// types rather than as another frontend-implemented interface, the same
// way a compiler's own IR defines a closed instruction set.
type Element interface {
	element()
}

// Expr is the closed vocabulary of value-producing expressions that can
// appear on the right-hand side of an Assign or as a Call argument.
type Expr interface {
	expr()
}

// LocalDecl introduces a new named local object of type Type, optionally
// initialized by Init (nil for a default-initialized local).
type LocalDecl struct {
	Name string
	Type Type
	Init Expr
}

// Assign stores the value of Value into the object(s) LHS may refer to.
type Assign struct {
	LHS   Expr
	Value Expr
}

// FieldInit is a constructor-only element: it initializes Field of the
// this-pointee object to the value of Init (spec §4.5; analyzer.go also
// builds one per constructor member initializer after the body's fixed
// point).
type FieldInit struct {
	FieldName string
	BaseType  Type // set instead of FieldName when initializing a base
	Init      Expr
}

// CallElement invokes Callee with Args, binding the result (if any) to
// Result. Result is nil when the call's value is discarded.
type CallElement struct {
	Callee FunctionDecl
	This   Expr // nil for a non-method call
	Args   []Expr
	Result *VarUse
}

// ReturnElement returns the value of Value (nil for a void function) from
// the enclosing function.
type ReturnElement struct {
	Value Expr
}

func (LocalDecl) element()     {}
func (Assign) element()        {}
func (FieldInit) element()     {}
func (CallElement) element()   {}
func (ReturnElement) element() {}

// VarUse refers to a previously-declared local, a parameter (by its
// synthetic name arg0, arg1, ...), `this`, or the return slot (by the
// reserved name __return).
type VarUse struct {
	Name string
}

// AddrOf takes the address of the object Operand refers to, producing a
// pointer.
type AddrOf struct {
	Operand Expr
}

// Deref dereferences Operand, producing an lvalue for the pointee.
type Deref struct {
	Operand Expr
}

// FieldAccess projects the Field subobject of Operand.
type FieldAccess struct {
	Operand Expr
	Field   string
}

// BaseAccess projects the BaseType base-class subobject of Operand.
type BaseAccess struct {
	Operand  Expr
	BaseType Type
}

// ThisExpr refers to the this-pointee object inside a method body.
type ThisExpr struct{}

// StaticExpr denotes a reference to a global or other object known to
// have `static` lifetime (a string literal, a global variable, etc.).
type StaticExpr struct {
	Type Type
}

func (VarUse) expr()      {}
func (AddrOf) expr()      {}
func (Deref) expr()       {}
func (FieldAccess) expr() {}
func (BaseAccess) expr()  {}
func (ThisExpr) expr()    {}
func (StaticExpr) expr()  {}
func (CallElement) expr() {}
