// Package ast defines the syntax tree produced by the parser and consumed by
// the interpreter.
//
// Nodes own their subtrees. Call [Node.Release] on the root exactly once
// when the tree is no longer needed; payloads attached by later passes are
// released first. [Live] reports how many nodes are outstanding, which tests
// use to verify that every error path releases what it built.
package ast
