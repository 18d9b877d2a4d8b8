package ast

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

// Print writes an indented, human-readable rendering of the subtree.
func (n *Node) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	printNode(bw, n, 0, "")

	return bw.Flush()
}

func printNode(w *bufio.Writer, n *Node, depth int, label string) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(label)

	if n == nil {
		w.WriteString("<nil>\n")

		return
	}

	w.WriteString(n.Symbol.String())

	if n.Token != nil {
		fmt.Fprintf(w, " %q (%d:%d)", n.Token.Lexeme(), n.Token.Line, n.Token.Column)
	}

	w.WriteByte('\n')

	if n.Left != nil || n.Right != nil {
		printNode(w, n.Left, depth+1, "L ")
		printNode(w, n.Right, depth+1, "R ")
	}

	for _, c := range n.Children {
		printNode(w, c, depth+1, "- ")
	}
}

const (
	flagLeft  = 1 << 0
	flagRight = 1 << 1
)

// Encode writes the positional binary serialization of the subtree in
// little endian byte order. Each node is written as: a flags byte (bit 0
// left present, bit 1 right present), an int16 symbol, a uint16 child
// count, an int32 integer field, a float32 float field, the left and right
// subtrees, every child, then a uint16 length-prefixed text blob.
func (n *Node) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := encodeNode(bw, n); err != nil {
		return err
	}

	return bw.Flush()
}

func encodeNode(w io.Writer, n *Node) error {
	if len(n.Children) > math.MaxUint16 {
		return fmt.Errorf("%s node has %d children", n.Symbol, len(n.Children))
	}

	var (
		flags uint8
		i     int32
		f     float32
		text  string
	)

	if n.Left != nil {
		flags |= flagLeft
	}

	if n.Right != nil {
		flags |= flagRight
	}

	if n.Token != nil {
		i = int32(n.Token.Int)
		f = float32(n.Token.Float)
		text = n.Token.Text
	}

	if len(text) > math.MaxUint16 {
		text = text[:math.MaxUint16]
	}

	head := struct {
		Flags    uint8
		Symbol   int16
		Children uint16
		Int      int32
		Float    float32
	}{flags, int16(n.Symbol), uint16(len(n.Children)), i, f}

	if err := binary.Write(w, binary.LittleEndian, head); err != nil {
		return err
	}

	for _, sub := range []*Node{n.Left, n.Right} {
		if sub != nil {
			if err := encodeNode(w, sub); err != nil {
				return err
			}
		}
	}

	for _, c := range n.Children {
		if err := encodeNode(w, c); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(text))); err != nil {
		return err
	}

	_, err := io.WriteString(w, text)

	return err
}

// Dump is a serializable snapshot of a subtree for YAML and JSON output.
type Dump struct {
	Symbol   string  `json:"symbol"             yaml:"symbol"`
	Text     string  `json:"text,omitempty"     yaml:"text,omitempty"`
	Line     int     `json:"line,omitempty"     yaml:"line,omitempty"`
	Column   int     `json:"column,omitempty"   yaml:"column,omitempty"`
	Left     *Dump   `json:"left,omitempty"     yaml:"left,omitempty"`
	Right    *Dump   `json:"right,omitempty"    yaml:"right,omitempty"`
	Children []*Dump `json:"children,omitempty" yaml:"children,omitempty"`
}

// Dump returns a snapshot of the subtree, or nil for a nil node.
func (n *Node) Dump() *Dump {
	if n == nil {
		return nil
	}

	d := &Dump{
		Symbol: n.Symbol.String(),
		Left:   n.Left.Dump(),
		Right:  n.Right.Dump(),
	}

	if n.Token != nil {
		d.Text = n.Token.Lexeme()
		d.Line = n.Token.Line
		d.Column = n.Token.Column
	}

	for _, c := range n.Children {
		d.Children = append(d.Children, c.Dump())
	}

	return d
}
