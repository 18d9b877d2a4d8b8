package lexer

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

const (
	symIdent Symbol = iota + 1
	symInt
	symReal
	symString
	symNewline
	symAssign
	symEquals
	symPlus
	symDot
	symAppend
	symLParen
	symRParen
	symComma
)

func testRules() []Rule {
	return []Rule{
		Comment('#', '\n'),
		Word(symAppend, ".."),
		Word(symEquals, "=="),
		Char(symAssign, '='),
		Char(symPlus, '+'),
		Char(symDot, '.'),
		Char(symNewline, '\n'),
		Char(symLParen, '('),
		Char(symRParen, ')'),
		Char(symComma, ','),
		Number(symInt, 10).WithDecimal('.', symReal),
		Number(symInt, 16).WithOpening('$'),
		Sequence(symIdent,
			Range{'a', 'z'}, Range{'A', 'Z'}, Range{'0', '9'}, Range{'_', '_'}),
		String(symString, '\'', '\'', '\\', FormatC),
	}
}

func collect(t *testing.T, src string, opts ...Option) ([]Token, error) {
	t.Helper()

	var toks []Token

	lex := New([]byte(src), testRules(), opts...)

	for {
		tok, err := lex.Next()
		if errors.Is(err, io.EOF) {
			return toks, nil
		}

		if err != nil {
			return toks, err
		}

		toks = append(toks, tok)
	}
}

func TestLexer_Tokens(t *testing.T) {
	type want struct {
		sym    Symbol
		lexeme string
		line   int
		column int
		indent int
	}

	tests := []struct {
		name  string
		input string
		want  []want
	}{
		{
			name:  "assignment",
			input: "x = 1 + 2.5\n",
			want: []want{
				{symIdent, "x", 1, 1, 0},
				{symAssign, "=", 1, 3, 1},
				{symInt, "1", 1, 5, 2},
				{symPlus, "+", 1, 7, 3},
				{symReal, "2.5", 1, 9, 4},
				{symNewline, "\n", 1, 12, 0},
			},
		},
		{
			name:  "words before chars",
			input: "a==b..c",
			want: []want{
				{symIdent, "a", 1, 1, 0},
				{symEquals, "==", 1, 2, 0},
				{symIdent, "b", 1, 4, 0},
				{symAppend, "..", 1, 5, 0},
				{symIdent, "c", 1, 7, 0},
			},
		},
		{
			name:  "word rollback",
			input: "a.b",
			want: []want{
				{symIdent, "a", 1, 1, 0},
				{symDot, ".", 1, 2, 0},
				{symIdent, "b", 1, 3, 0},
			},
		},
		{
			name:  "comment keeps newline",
			input: "x # note\ny",
			want: []want{
				{symIdent, "x", 1, 1, 0},
				{symNewline, "\n", 1, 9, 0},
				{symIdent, "y", 2, 1, 0},
			},
		},
		{
			name:  "comment at end of input",
			input: "x # note",
			want:  []want{{symIdent, "x", 1, 1, 0}},
		},
		{
			name:  "indentation",
			input: "if\n    y\n\tz",
			want: []want{
				{symIdent, "if", 1, 1, 0},
				{symNewline, "\n", 1, 3, 0},
				{symIdent, "y", 2, 5, 4},
				{symNewline, "\n", 2, 6, 0},
				{symIdent, "z", 3, 2, 1},
			},
		},
		{
			name:  "multibyte columns",
			input: "'héllo' x",
			want: []want{
				{symString, "héllo", 1, 1, 0},
				{symIdent, "x", 1, 9, 1},
			},
		},
		{
			name:  "repeated decimal",
			input: "1.2.3",
			want: []want{
				{symReal, "1.2", 1, 1, 0},
				{symDot, ".", 1, 4, 0},
				{symInt, "3", 1, 5, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := collect(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(toks) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.want), len(toks), toks)
			}

			for i, w := range tt.want {
				got := toks[i]
				if got.Symbol != w.sym || got.Lexeme() != w.lexeme ||
					got.Line != w.line || got.Column != w.column || got.Indent != w.indent {
					t.Errorf("token %d: expected {%d %q %d:%d indent %d}, got %v",
						i, w.sym, w.lexeme, w.line, w.column, w.indent, got)
				}
			}
		})
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input string
		sym   Symbol
		i     int64
		f     float64
	}{
		{"42", symInt, 42, 42},
		{"2.5", symReal, 2, 2.5},
		{"7.", symReal, 7, 7},
		{"$ff", symInt, 255, 255},
		{"$7fffffffffffffff", symInt, 1<<63 - 1, float64(1<<63 - 1)},
		{"$ffffffffffffffff", symInt, -1, -1},
		{"18446744073709551615", symInt, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := collect(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %v", toks)
			}

			if toks[0].Symbol != tt.sym || toks[0].Int != tt.i || toks[0].Float != tt.f {
				t.Errorf("expected sym %d int %d float %g, got %v (int %d float %g)",
					tt.sym, tt.i, tt.f, toks[0], toks[0].Int, toks[0].Float)
			}
		})
	}
}

func TestLexer_OpeningWithoutDigits(t *testing.T) {
	_, err := collect(t, "$g")
	if !errors.Is(err, ErrUnexpectedChar) {
		t.Fatalf("expected ErrUnexpectedChar, got %v", err)
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	toks, err := collect(t, `'it\'s\ttab\n\\'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(toks) != 1 || toks[0].Text != "it's\ttab\n\\" {
		t.Fatalf("unexpected tokens %v", toks)
	}
}

func TestLexer_StrictErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
		pos   Position
		count int
	}{
		{"unknown char", "x ~ y", ErrUnexpectedChar, Position{1, 3}, 1},
		{"unterminated string", "x\n  'abc", ErrUnterminatedString, Position{2, 3}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := New([]byte(tt.input), testRules())

			var toks []Token

			var err error

			for {
				var tok Token

				tok, err = lex.Next()
				if err != nil {
					break
				}

				toks = append(toks, tok)
			}

			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}

			if len(toks) != tt.count {
				t.Errorf("expected %d tokens before error, got %v", tt.count, toks)
			}

			if lex.Position() != tt.pos {
				t.Errorf("expected error at %v, got %v", tt.pos, lex.Position())
			}

			if _, again := lex.Next(); !errors.Is(again, tt.err) {
				t.Errorf("expected sticky error, got %v", again)
			}
		})
	}
}

func TestLexer_Lenient(t *testing.T) {
	toks, err := collect(t, "x ~ y 'abc", WithLenient(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, tok := range toks {
		got = append(got, tok.Lexeme())
	}

	if strings.Join(got, ",") != "x,y,abc" {
		t.Errorf("expected x,y,abc got %v", got)
	}
}

func TestLexer_DecodeError(t *testing.T) {
	lex := New([]byte{'a', ' ', 0xff, 'b'}, testRules())

	tok, err := lex.Next()
	if err != nil || tok.Text != "a" {
		t.Fatalf("expected token a, got %v %v", tok, err)
	}

	if _, err = lex.Next(); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}

	if _, err = lex.Next(); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode to persist, got %v", err)
	}
}

func TestLexer_TruncatedMultibyte(t *testing.T) {
	_, err := collect(t, "'ab\xc3")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestLexer_InvalidRule(t *testing.T) {
	lex := New([]byte("1"), []Rule{Number(symInt, 40)})

	if _, err := lex.Next(); !errors.Is(err, ErrRule) {
		t.Fatalf("expected ErrRule, got %v", err)
	}
}

func TestLexer_Observer(t *testing.T) {
	var seen []Token

	toks, err := collect(t, "a + b\n", WithObserver(func(tok Token) {
		seen = append(seen, tok)
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != len(toks) {
		t.Fatalf("observer saw %d tokens, lexer returned %d", len(seen), len(toks))
	}

	for i := range seen {
		if seen[i] != toks[i] {
			t.Errorf("token %d: observer saw %v, lexer returned %v", i, seen[i], toks[i])
		}
	}
}

func TestLexer_All(t *testing.T) {
	var n int

	for tok, err := range New([]byte("a b c"), testRules()).All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Symbol != symIdent {
			t.Errorf("unexpected token %v", tok)
		}

		n++
	}

	if n != 3 {
		t.Errorf("expected 3 tokens, got %d", n)
	}
}

// TestLexer_PositionsMatchSource checks that every token's recorded line and
// column locate its own lexeme in the source text.
func TestLexer_PositionsMatchSource(t *testing.T) {
	src := "total = 0\n" +
		"iterate n in (1, 2, $1f)\n" +
		"    total = total + n  # running\n" +
		"say(total..'é', 1.5 == x)\n"

	lines := strings.Split(src, "\n")

	toks, err := collect(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tok := range toks {
		if tok.Class == ClassString || tok.Symbol == symNewline {
			continue
		}

		line := lines[tok.Line-1]
		if tok.Column-1 > utf8.RuneCountInString(line) {
			t.Fatalf("token %v column beyond line %q", tok, line)
		}

		rest := string([]rune(line)[tok.Column-1:])

		lexeme := tok.Lexeme()
		if tok.Class == ClassNumber && strings.HasPrefix(rest, "$") {
			lexeme = "$" + lexeme
		}

		if !strings.HasPrefix(rest, lexeme) {
			t.Errorf("token %v: source at position is %q", tok, rest)
		}

		indent := 0
		for _, r := range []rune(line)[:tok.Column-1] {
			if r == ' ' || r == '\t' || r == '\r' {
				indent++
			}
		}

		if tok.Indent != indent {
			t.Errorf("token %v: expected indent %d", tok, indent)
		}
	}
}
