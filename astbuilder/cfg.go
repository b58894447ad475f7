package astbuilder

import "github.com/gocxxlifetime/lifetime"

// BlockBuilder assembles one lifetime.Block and its outgoing edges.
type BlockBuilder struct {
	block *lifetime.Block
}

// NewBlock starts an empty block.
func NewBlock() *BlockBuilder {
	return &BlockBuilder{block: &lifetime.Block{}}
}

// Add appends elements to the block, in order.
func (b *BlockBuilder) Add(elements ...lifetime.Element) *BlockBuilder {
	b.block.Elements = append(b.block.Elements, elements...)
	return b
}

// Then records succ as one of the block's successors.
func (b *BlockBuilder) Then(succ *BlockBuilder) *BlockBuilder {
	b.block.Successors = append(b.block.Successors, succ.block)
	return b
}

func (b *BlockBuilder) Block() *lifetime.Block { return b.block }

// simpleCFG is the trivial lifetime.CFG built by CFG below: every block
// reachable from entry via Then, discovered by traversal at Blocks time
// rather than tracked incrementally.
type simpleCFG struct {
	entry *lifetime.Block
}

func (c *simpleCFG) Entry() *lifetime.Block { return c.entry }

func (c *simpleCFG) Blocks() []*lifetime.Block {
	seen := map[*lifetime.Block]bool{}
	var order []*lifetime.Block
	var visit func(*lifetime.Block)
	visit = func(b *lifetime.Block) {
		if seen[b] {
			return
		}
		seen[b] = true
		order = append(order, b)
		for _, s := range b.Successors {
			visit(s)
		}
	}
	visit(c.entry)
	return order
}

// CFG builds a lifetime.CFG rooted at entry.
func CFG(entry *BlockBuilder) lifetime.CFG {
	return &simpleCFG{entry: entry.block}
}

// Convenience constructors for the closed CFG statement/expression
// vocabulary, so a test can write astbuilder.Var("x") instead of
// spelling out lifetime.VarUse{Name: "x"}.

func Var(name string) lifetime.VarUse { return lifetime.VarUse{Name: name} }
func Arg(i int) lifetime.VarUse       { return lifetime.VarUse{Name: paramNameFor(i)} }
func This() lifetime.ThisExpr         { return lifetime.ThisExpr{} }
func Return() lifetime.VarUse         { return lifetime.VarUse{Name: "__return"} }

func AddrOf(e lifetime.Expr) lifetime.AddrOf { return lifetime.AddrOf{Operand: e} }
func Deref(e lifetime.Expr) lifetime.Deref   { return lifetime.Deref{Operand: e} }
func Field(e lifetime.Expr, name string) lifetime.FieldAccess {
	return lifetime.FieldAccess{Operand: e, Field: name}
}
func Base(e lifetime.Expr, t lifetime.Type) lifetime.BaseAccess {
	return lifetime.BaseAccess{Operand: e, BaseType: t}
}
func Static(t lifetime.Type) lifetime.StaticExpr { return lifetime.StaticExpr{Type: t} }

func Local(name string, t lifetime.Type, init lifetime.Expr) lifetime.LocalDecl {
	return lifetime.LocalDecl{Name: name, Type: t, Init: init}
}
func Assign(lhs, value lifetime.Expr) lifetime.Assign {
	return lifetime.Assign{LHS: lhs, Value: value}
}
func FieldInit(fieldName string, init lifetime.Expr) lifetime.FieldInit {
	return lifetime.FieldInit{FieldName: fieldName, Init: init}
}
func BaseInit(baseType lifetime.Type, init lifetime.Expr) lifetime.FieldInit {
	return lifetime.FieldInit{BaseType: baseType, Init: init}
}
func Call(callee lifetime.FunctionDecl, this lifetime.Expr, args ...lifetime.Expr) lifetime.CallElement {
	return lifetime.CallElement{Callee: callee, This: this, Args: args}
}
func CallInto(result lifetime.VarUse, callee lifetime.FunctionDecl, this lifetime.Expr, args ...lifetime.Expr) lifetime.CallElement {
	return lifetime.CallElement{Callee: callee, This: this, Args: args, Result: &result}
}
func Ret(value lifetime.Expr) lifetime.ReturnElement {
	return lifetime.ReturnElement{Value: value}
}

// paramNameFor mirrors the unexported paramName convention transfer.go
// uses to resolve a VarUse to the i'th parameter object.
func paramNameFor(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "arg" + string(digits[i])
	}
	// Fixture functions in this repository never exceed ten parameters.
	return "arg9"
}
