// Package lifetime infers, for the parameters, the implicit `this`, and the
// return value of a C-family function, a set of symbolic lifetimes and a
// partial order among them such that no reference reachable from an output
// outlives any input it may alias.
//
// The package does not parse source, build a CFG, or render diagnostics; it
// consumes an already-built [FunctionDecl] / [CFG] pair (see ast.go and
// cfg.go for the collaborator interfaces) and produces a [FunctionLifetimes]
// or an error, function by function, across a whole translation unit via
// [Driver].
package lifetime
