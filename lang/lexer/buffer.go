package lexer

import (
	"errors"
	"io"
)

// Buffer is a one-token lookahead cursor over a [Lexer].
//
// The pending token is owned by the buffer until it is dropped or moved out
// with [Buffer.Take]. Pointers returned by [Buffer.Current] and friends are
// valid only until the next call that consumes a token.
type Buffer struct {
	lex     *Lexer
	err     error
	pending []Token
	done    bool
}

// NewBuffer returns a Buffer reading from lex.
func NewBuffer(lex *Lexer) *Buffer {
	return &Buffer{lex: lex, pending: make([]Token, 0, 1)}
}

func (b *Buffer) fill() bool {
	if len(b.pending) > 0 {
		return true
	}

	if b.done {
		return false
	}

	tok, err := b.lex.Next()
	if err != nil {
		b.done = true

		if !errors.Is(err, io.EOF) {
			b.err = err
		}

		return false
	}

	b.pending = append(b.pending, tok)

	return true
}

// Current returns the pending token, pulling one from the lexer if needed.
// It returns nil at end of input or after a lexical error.
func (b *Buffer) Current() *Token {
	if !b.fill() {
		return nil
	}

	return &b.pending[0]
}

// Check returns the pending token if it has symbol sym.
func (b *Buffer) Check(sym Symbol) *Token {
	if t := b.Current(); t != nil && t.Symbol == sym {
		return t
	}

	return nil
}

// CheckSequence returns the pending token if it is a sequence token with
// symbol sym and exactly the given text.
func (b *Buffer) CheckSequence(sym Symbol, text string) *Token {
	if t := b.Check(sym); t != nil && t.Class == ClassSequence && t.Text == text {
		return t
	}

	return nil
}

// Accept consumes the pending token if it has symbol sym.
func (b *Buffer) Accept(sym Symbol) bool {
	if b.Check(sym) == nil {
		return false
	}

	b.Drop()

	return true
}

// AcceptSequence consumes the pending token if [Buffer.CheckSequence]
// matches.
func (b *Buffer) AcceptSequence(sym Symbol, text string) bool {
	if b.CheckSequence(sym, text) == nil {
		return false
	}

	b.Drop()

	return true
}

// Drop discards the pending token.
func (b *Buffer) Drop() {
	if len(b.pending) == 0 {
		return
	}

	b.pending[0] = Token{}
	b.pending = b.pending[:0]
}

// Take moves the pending token out of the buffer.
func (b *Buffer) Take() (Token, bool) {
	if !b.fill() {
		return Token{}, false
	}

	tok := b.pending[0]
	b.Drop()

	return tok, true
}

// Skip consumes consecutive tokens with symbol sym and returns how many were
// consumed.
func (b *Buffer) Skip(sym Symbol) int {
	n := 0
	for b.Accept(sym) {
		n++
	}

	return n
}

// Err returns the lexical error that ended the token stream, if any.
func (b *Buffer) Err() error { return b.err }

// Position returns the position of the pending token, or of the lexer when
// no token is pending.
func (b *Buffer) Position() Position {
	if len(b.pending) > 0 {
		return b.pending[0].Pos()
	}

	return b.lex.Position()
}
