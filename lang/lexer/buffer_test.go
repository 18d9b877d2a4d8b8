package lexer

import (
	"errors"
	"testing"
)

func TestBuffer_Primitives(t *testing.T) {
	buf := NewBuffer(New([]byte("if x\n\n\ny"), testRules()))

	if buf.CheckSequence(symIdent, "else") != nil {
		t.Fatal("CheckSequence matched wrong text")
	}

	if !buf.AcceptSequence(symIdent, "if") {
		t.Fatal("expected AcceptSequence to consume 'if'")
	}

	if buf.Accept(symNewline) {
		t.Fatal("Accept consumed a non-matching token")
	}

	tok, ok := buf.Take()
	if !ok || tok.Text != "x" {
		t.Fatalf("expected to take x, got %v %v", tok, ok)
	}

	if n := buf.Skip(symNewline); n != 3 {
		t.Fatalf("expected to skip 3 newlines, got %d", n)
	}

	if got := buf.Check(symIdent); got == nil || got.Text != "y" {
		t.Fatalf("expected y, got %v", got)
	}

	if buf.Position() != (Position{Line: 4, Column: 1}) {
		t.Errorf("unexpected position %v", buf.Position())
	}

	buf.Drop()

	if buf.Current() != nil {
		t.Fatal("expected end of input")
	}

	if buf.Err() != nil {
		t.Fatalf("unexpected error %v", buf.Err())
	}

	buf.Drop()
	if _, ok := buf.Take(); ok {
		t.Fatal("Take succeeded at end of input")
	}
}

func TestBuffer_LexicalError(t *testing.T) {
	buf := NewBuffer(New([]byte("a ~"), testRules()))

	if !buf.Accept(symIdent) {
		t.Fatal("expected identifier")
	}

	if buf.Current() != nil {
		t.Fatal("expected no token after lexical error")
	}

	if !errors.Is(buf.Err(), ErrUnexpectedChar) {
		t.Fatalf("expected ErrUnexpectedChar, got %v", buf.Err())
	}

	if buf.Position() != (Position{Line: 1, Column: 3}) {
		t.Errorf("unexpected error position %v", buf.Position())
	}
}
