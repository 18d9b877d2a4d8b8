package ast

import (
	"sync/atomic"

	"github.com/ardnew/tinyscript/lang/lexer"
)

// Payload is data attached to a node by a later pass. Each payload type
// releases whatever it owns when its node is released.
type Payload interface {
	Release()
}

// Node is one element of the syntax tree.
//
// A node exclusively owns its token, both slots, its children and its
// payload. Binary constructs use Left and Right; n-ary constructs (blocks,
// argument lists, object members) use Children. Some constructs use both.
type Node struct {
	Token    *lexer.Token
	Left     *Node
	Right    *Node
	Payload  Payload
	Children []*Node
	Symbol   Symbol
	released bool
}

var live atomic.Int64

// Live returns the number of nodes created and not yet released.
func Live() int64 { return live.Load() }

// New returns a leaf node.
func New(sym Symbol) *Node {
	live.Add(1)

	return &Node{Symbol: sym}
}

// NewToken returns a leaf node that takes ownership of tok.
func NewToken(sym Symbol, tok lexer.Token) *Node {
	n := New(sym)
	n.Token = &tok

	return n
}

// NewBinary returns a node owning left and right. Either may be nil.
func NewBinary(sym Symbol, left, right *Node) *Node {
	n := New(sym)
	n.Left = left
	n.Right = right

	return n
}

// Add appends child to the children of n.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)

	return n
}

// TakeLeft detaches and returns the left slot.
func (n *Node) TakeLeft() *Node {
	l := n.Left
	n.Left = nil

	return l
}

// Text returns the text of the node's token, or "".
func (n *Node) Text() string {
	if n == nil || n.Token == nil {
		return ""
	}

	return n.Token.Text
}

// Release frees the subtree rooted at n in post order: the payload first,
// then the token, both slots and every child. Releasing a node twice
// panics. A nil node is ignored.
func (n *Node) Release() {
	if n == nil {
		return
	}

	if n.released {
		panic("ast: " + n.Symbol.String() + " node released twice")
	}

	n.released = true
	live.Add(-1)

	if n.Payload != nil {
		n.Payload.Release()
		n.Payload = nil
	}

	n.Token = nil

	n.Left.Release()
	n.Right.Release()

	for _, c := range n.Children {
		c.Release()
	}

	n.Left, n.Right, n.Children = nil, nil, nil
}

// Walk visits the subtree rooted at n in pre order (node, left, right,
// children). If fn returns false the node's descendants are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	Walk(n.Left, fn)
	Walk(n.Right, fn)

	for _, c := range n.Children {
		Walk(c, fn)
	}
}
