package lexer

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/tinyscript/log"
)

// DefaultWhitespace is the set of codepoints skipped between tokens when no
// [WithWhitespace] option is given. Newline is deliberately absent so that
// rule tables can emit it as a statement terminator.
var DefaultWhitespace = []rune{' ', '\t', '\r'}

// cursor is the complete scanning state needed to roll the lexer back.
type cursor struct {
	off       int
	line      int
	lineStart int
	column    int
	indent    int
}

// Lexer produces tokens from a byte slice. It is not safe for concurrent
// use.
type Lexer struct {
	ctx        context.Context
	logger     log.Logger
	observer   func(Token)
	err        error
	input      []byte
	rules      []Rule
	whitespace []rune
	cur        cursor
	prev       cursor
	errAt      Position
	lenient    bool
}

// Option configures a [Lexer].
type Option func(*Lexer)

// WithWhitespace replaces the set of skipped codepoints.
func WithWhitespace(ws ...rune) Option {
	return func(l *Lexer) { l.whitespace = slices.Clone(ws) }
}

// WithObserver registers fn to receive every token before it is returned.
func WithObserver(fn func(Token)) Option {
	return func(l *Lexer) { l.observer = fn }
}

// WithLogger sets the logger used to report lexical anomalies.
func WithLogger(logger log.Logger) Option {
	return func(l *Lexer) { l.logger = logger }
}

// WithContext sets the context passed to the logger.
func WithContext(ctx context.Context) Option {
	return func(l *Lexer) { l.ctx = ctx }
}

// WithLenient controls how unknown codepoints and unterminated strings are
// handled. By default both end the stream with an error. In lenient mode
// they are logged as warnings: unknown codepoints are skipped and an
// unterminated string yields a token holding the text up to end of input.
func WithLenient(lenient bool) Option {
	return func(l *Lexer) { l.lenient = lenient }
}

// New returns a Lexer over input using rules in priority order.
// The input slice must not be modified while the Lexer is in use.
func New(input []byte, rules []Rule, opts ...Option) *Lexer {
	l := &Lexer{
		ctx:        context.Background(),
		input:      input,
		rules:      rules,
		whitespace: DefaultWhitespace,
		cur:        cursor{line: 1},
	}

	for _, opt := range opts {
		opt(l)
	}

	for _, r := range rules {
		if err := r.Validate(); err != nil {
			l.err = err

			break
		}
	}

	return l
}

// Next returns the next token. At end of input it returns [io.EOF]; any
// other error is permanent and is returned by every later call.
func (l *Lexer) Next() (Token, error) {
	for {
		if l.err != nil {
			return Token{}, l.err
		}

		start := l.cur

		r, ok := l.read()
		if !ok {
			if l.err != nil {
				return Token{}, l.err
			}

			return Token{}, io.EOF
		}

		if slices.Contains(l.whitespace, r) {
			l.cur.indent++

			continue
		}

		tok, rule, err := l.match(r, start)
		if err != nil {
			if l.err == nil {
				l.fail(err, start)
			}

			return Token{}, l.err
		}

		if rule == nil {
			l.unknown(r, start)

			continue
		}

		if rule.Purpose == PurposeComment {
			continue
		}

		if l.observer != nil {
			l.observer(tok)
		}

		return tok, nil
	}
}

// All returns an iterator over the remaining tokens. Iteration stops after
// the first error, which is yielded with a zero Token; end of input is not
// yielded.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err == io.EOF {
				return
			}

			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Position returns the location of the most recent error, or the current
// scan position if no error occurred.
func (l *Lexer) Position() Position {
	if l.err != nil && l.errAt.Line > 0 {
		return l.errAt
	}

	return Position{Line: l.cur.line, Column: l.cur.column + 1}
}

// Err returns the permanent error that ended the stream, if any.
func (l *Lexer) Err() error { return l.err }

func (l *Lexer) fail(err error, at cursor) {
	l.err = err
	l.errAt = Position{Line: at.line, Column: at.column + 1}
}

func (l *Lexer) unknown(r rune, start cursor) {
	pos := Position{Line: start.line, Column: start.column + 1}

	if l.lenient {
		l.logger.WarnContext(l.ctx, "skipping unknown character",
			slog.String("char", strconv.QuoteRune(r)),
			slog.Int("line", pos.Line),
			slog.Int("column", pos.Column),
		)

		return
	}

	l.fail(ErrUnexpectedChar.
		Wrap(fmt.Errorf("%s", strconv.QuoteRune(r))).
		With(slog.Int("line", pos.Line), slog.Int("column", pos.Column)), start)
}

// read decodes one codepoint and advances the cursor. It reports false at
// end of input or on malformed UTF-8, in which case l.err is set.
func (l *Lexer) read() (rune, bool) {
	if l.cur.off >= len(l.input) {
		return 0, false
	}

	r, size := utf8.DecodeRune(l.input[l.cur.off:])
	if r == utf8.RuneError && size <= 1 {
		l.fail(ErrDecode.With(
			slog.Int("offset", l.cur.off),
			slog.Int("line", l.cur.line),
			slog.Int("column", l.cur.column+1),
		), l.cur)

		return 0, false
	}

	l.prev = l.cur
	l.cur.off += size

	if r == '\n' {
		l.cur.line++
		l.cur.lineStart = l.cur.off
		l.cur.column = 0
		l.cur.indent = 0
	} else {
		l.cur.column++
	}

	return r, true
}

// unread pushes back the codepoint returned by the last read.
func (l *Lexer) unread() { l.cur = l.prev }

// match tries each rule against the codepoint r read at start. It returns
// the matching rule, or nil if none matched.
func (l *Lexer) match(r rune, start cursor) (Token, *Rule, error) {
	after, afterPrev := l.cur, l.prev

	for i := range l.rules {
		rule := &l.rules[i]

		tok := Token{
			Class:  rule.Class,
			Symbol: rule.Symbol,
			Line:   start.line,
			Column: start.column + 1,
			Indent: after.indent,
		}

		ok, err := l.scan(rule, r, &tok)
		if err != nil {
			return Token{}, nil, err
		}

		if ok {
			return tok, rule, nil
		}

		l.cur, l.prev = after, afterPrev
	}

	return Token{}, nil, nil
}

func (l *Lexer) scan(rule *Rule, r rune, tok *Token) (bool, error) {
	switch rule.Class {
	case ClassChar:
		if r != rule.Char {
			return false, nil
		}

		tok.Char = r

		return true, nil

	case ClassWord:
		if !l.scanWord(rule, r) {
			return false, l.err
		}

		tok.Text = rule.Word

		return true, nil

	case ClassSequence:
		return l.scanSequence(rule, r, tok)

	case ClassString:
		return l.scanString(rule, r, tok)

	case ClassNumber:
		return l.scanNumber(rule, r, tok)
	}

	return false, nil
}

func (l *Lexer) scanWord(rule *Rule, r rune) bool {
	for i, w := range rule.Word {
		if i > 0 {
			var ok bool
			if r, ok = l.read(); !ok {
				return false
			}
		}

		if r != w {
			return false
		}
	}

	return true
}

func (l *Lexer) scanSequence(rule *Rule, r rune, tok *Token) (bool, error) {
	if !rule.inRanges(r) {
		return false, nil
	}

	var sb strings.Builder

	sb.WriteRune(r)

	for {
		c, ok := l.read()
		if !ok {
			break
		}

		if !rule.inRanges(c) {
			l.unread()

			break
		}

		sb.WriteRune(c)
	}

	tok.Text = sb.String()

	return true, l.err
}

func (l *Lexer) scanString(rule *Rule, r rune, tok *Token) (bool, error) {
	if r != rule.Open {
		return false, nil
	}

	var (
		sb      strings.Builder
		escaped bool
	)

	comment := rule.Purpose == PurposeComment

	for {
		c, ok := l.read()
		if !ok {
			if l.err != nil {
				return false, l.err
			}

			if comment {
				return true, nil
			}

			pos := tok.Pos()
			if !l.lenient {
				return false, ErrUnterminatedString.
					With(slog.Int("line", pos.Line), slog.Int("column", pos.Column))
			}

			l.logger.WarnContext(l.ctx, "unterminated string",
				slog.Int("line", pos.Line),
				slog.Int("column", pos.Column),
			)

			tok.Text = sb.String()

			return true, nil
		}

		if !escaped && rule.Escape != 0 && c == rule.Escape {
			escaped = true

			continue
		}

		if !escaped && c == rule.Close {
			if comment && c == '\n' {
				l.unread()
			}

			break
		}

		if escaped && rule.Format == FormatC {
			switch c {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			}
		}

		escaped = false

		if !comment {
			sb.WriteRune(c)
		}
	}

	tok.Text = sb.String()

	return true, nil
}

func (l *Lexer) scanNumber(rule *Rule, r rune, tok *Token) (bool, error) {
	c := r

	if rule.Char != 0 {
		if r != rule.Char {
			return false, nil
		}

		var ok bool
		if c, ok = l.read(); !ok {
			return false, l.err
		}
	}

	if digitValue(c, rule.Base) < 0 {
		return false, nil
	}

	var (
		sb      strings.Builder
		decimal bool
	)

	sb.WriteRune(c)

	for {
		c, ok := l.read()
		if !ok {
			if l.err != nil {
				return false, l.err
			}

			break
		}

		if digitValue(c, rule.Base) >= 0 {
			sb.WriteRune(c)

			continue
		}

		if rule.Decimal != 0 && c == rule.Decimal {
			if !decimal {
				decimal = true

				sb.WriteByte('.')

				continue
			}

			l.logger.WarnContext(l.ctx, "repeated decimal marker ends number",
				slog.String("literal", sb.String()),
				slog.Int("line", tok.Line),
				slog.Int("column", tok.Column),
			)
		}

		l.unread()

		break
	}

	text := sb.String()
	tok.Text = text

	if decimal {
		if rule.DecimalSymbol != 0 {
			tok.Symbol = rule.DecimalSymbol
		}

		tok.Float = parseFloat(text, rule.Base)
		tok.Int = int64(tok.Float)

		return true, nil
	}

	v, err := strconv.ParseInt(text, rule.Base, 64)
	if err != nil {
		// Keep the bit pattern of literals that only fit unsigned.
		u, uerr := strconv.ParseUint(text, rule.Base, 64)
		if uerr != nil {
			l.logger.WarnContext(l.ctx, "integer literal overflows 64 bits",
				slog.String("literal", text),
				slog.Int("line", tok.Line),
				slog.Int("column", tok.Column),
			)
		}

		v = int64(u)
	}

	tok.Int = v
	tok.Float = float64(v)

	return true, nil
}

// parseFloat converts digits with a '.' separator in base to a float64.
func parseFloat(text string, base int) float64 {
	if base == 10 {
		f, _ := strconv.ParseFloat(text, 64)

		return f
	}

	whole, frac, _ := strings.Cut(text, ".")

	var f float64

	for _, c := range whole {
		f = f*float64(base) + float64(digitValue(c, base))
	}

	scale := 1.0

	for _, c := range frac {
		scale /= float64(base)
		f += float64(digitValue(c, base)) * scale
	}

	if math.IsInf(f, 0) {
		return math.MaxFloat64
	}

	return f
}
