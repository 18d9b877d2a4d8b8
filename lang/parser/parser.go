package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/lexer"
	"github.com/ardnew/tinyscript/log"
)

type config struct {
	logger   log.Logger
	observer func(lexer.Token)
	lenient  bool
}

// Option configures [Parse].
type Option func(config) config

// WithLogger sets the logger used by the parser and its lexer.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithLenient makes unknown codepoints and unterminated strings warnings
// instead of errors. See [lexer.WithLenient].
func WithLenient(lenient bool) Option {
	return func(c config) config {
		c.lenient = lenient

		return c
	}
}

// WithObserver registers fn to receive every token the parser consumes.
func WithObserver(fn func(lexer.Token)) Option {
	return func(c config) config {
		c.observer = fn

		return c
	}
}

// Parse parses src and returns a script node whose payload is the
// declared-global set (see [GlobalsOf]). The caller owns the returned tree
// and must release it.
//
// On failure no tree is returned and the error is a *[SyntaxError]
// matching [ErrSyntax]. Every node built before the failure is released.
func Parse(ctx context.Context, name string, src []byte, opts ...Option) (*ast.Node, error) {
	var cfg config
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	lopts := []lexer.Option{
		lexer.WithContext(ctx),
		lexer.WithLogger(cfg.logger),
		lexer.WithLenient(cfg.lenient),
	}

	if cfg.observer != nil {
		lopts = append(lopts, lexer.WithObserver(cfg.observer))
	}

	p := &parser{
		buf:     lexer.NewBuffer(lexer.New(src, Rules(), lopts...)),
		name:    name,
		src:     src,
		globals: &Globals{},
	}

	root := p.script()
	if p.err != nil {
		cfg.logger.DebugContext(ctx, "parse failed", slog.Any("error", p.err))

		return nil, p.err
	}

	cfg.logger.DebugContext(ctx, "parsed script",
		slog.String("file", name),
		slog.Int("statements", len(root.Children)),
		slog.Any("globals", p.globals.Names()),
	)

	return root, nil
}

type parser struct {
	buf     *lexer.Buffer
	globals *Globals
	err     *SyntaxError
	name    string
	src     []byte
	depth   int
	// blockEnded is set when a block finishes and cleared before each
	// statement; a statement ending in a nested block needs no newline of
	// its own.
	blockEnded bool
}

func (p *parser) failed() bool { return p.err != nil }

// fail records the first failure at the current position. A lexical error
// that ended the token stream takes precedence over msg.
func (p *parser) fail(format string, args ...any) {
	if p.err != nil {
		return
	}

	pos := p.buf.Position()
	e := &SyntaxError{
		File:   p.name,
		Line:   pos.Line,
		Column: pos.Column,
		Msg:    fmt.Sprintf(format, args...),
	}

	if err := p.buf.Err(); err != nil {
		e.Msg = err.Error()
		e.Err = err
	}

	e.Source = sourceLine(p.src, e.Line)
	p.err = e
}

func (p *parser) skipNewlines() { p.buf.Skip(SymNewline) }

func (p *parser) keyword(word string) bool {
	return p.buf.AcceptSequence(SymIdent, word)
}

func (p *parser) script() *ast.Node {
	script := ast.New(ast.Script)
	script.Payload = p.globals

	for !p.failed() {
		p.skipNewlines()

		if p.keyword("global") {
			p.declare()

			continue
		}

		block := p.block()
		if block == nil {
			break
		}

		script.Add(block)
	}

	if !p.failed() && p.buf.Current() != nil {
		p.fail("unrecognized token in input")
	}

	if !p.failed() && p.buf.Err() != nil {
		p.fail("")
	}

	if p.failed() {
		script.Release()

		return nil
	}

	return script
}

// declare parses the name list of a global statement.
func (p *parser) declare() {
	for {
		tok := p.buf.Check(SymIdent)
		if tok == nil {
			break
		}

		p.globals.Add(tok.Text)
		p.buf.Drop()

		if !p.buf.Accept(SymComma) {
			break
		}

		p.skipNewlines()
	}

	if !p.buf.Accept(SymNewline) && p.buf.Current() != nil {
		p.fail("expected ',' or new line")
	}
}

// block parses statements sharing the indentation of the first one. A
// token indented less than that ends the block without being consumed.
func (p *parser) block() *ast.Node {
	var block *ast.Node

	p.depth++
	defer func() { p.depth-- }()

	indent := -1

	p.skipNewlines()

	for {
		tok := p.buf.Current()
		if tok == nil {
			break
		}

		if indent < 0 {
			indent = tok.Indent
		} else if tok.Indent < indent {
			break
		}

		if p.buf.CheckSequence(SymIdent, "global") != nil {
			if p.depth > 1 {
				p.fail("global declarations are only allowed at top level")
			}

			break
		}

		p.blockEnded = false

		stmt := p.statement()
		if stmt == nil {
			break
		}

		if block == nil {
			block = ast.New(ast.Block)
		}

		block.Add(stmt)

		if !p.blockEnded && !p.buf.Accept(SymNewline) && p.buf.Current() != nil {
			p.fail("expected new line after statement")

			break
		}

		p.skipNewlines()
	}

	if p.failed() {
		block.Release()

		return nil
	}

	p.blockEnded = true

	return block
}

func (p *parser) statement() *ast.Node {
	switch {
	case p.keyword("break"):
		return ast.New(ast.Break)
	case p.keyword("if"):
		return p.ifStatement()
	case p.keyword("iterate"):
		return p.iterate()
	case p.keyword("return"):
		val := p.expression()
		if p.failed() {
			val.Release()

			return nil
		}

		return ast.NewBinary(ast.Return, val, nil)
	case p.keyword("while"):
		return p.while()
	default:
		return p.expression()
	}
}

// condition parses the expression after a keyword.
func (p *parser) condition(keyword string) *ast.Node {
	p.skipNewlines()

	expr := p.expression()
	if p.failed() {
		expr.Release()

		return nil
	}

	if expr == nil {
		p.fail("expected expression following '%s'", keyword)
	}

	return expr
}

// body parses a required block.
func (p *parser) body(what string) *ast.Node {
	block := p.block()
	if p.failed() {
		return nil
	}

	if block == nil {
		p.fail("expected code block%s", what)
	}

	return block
}

func (p *parser) ifStatement() *ast.Node {
	n := ast.New(ast.If)

	if n.Left = p.condition("if"); n.Left == nil {
		n.Release()

		return nil
	}

	if n.Right = p.body(""); n.Right == nil {
		n.Release()

		return nil
	}

	p.skipNewlines()

	if p.keyword("else") {
		alt := p.body(" following 'else'")
		if alt == nil {
			n.Release()

			return nil
		}

		n.Add(alt)
	}

	return n
}

func (p *parser) iterate() *ast.Node {
	n := ast.New(ast.Iterate)

	p.skipNewlines()

	if n.Left = p.ident(); n.Left == nil {
		p.fail("expected iterator name")
		n.Release()

		return nil
	}

	p.skipNewlines()

	if !p.keyword("in") {
		p.fail("expected 'in'")
		n.Release()

		return nil
	}

	p.skipNewlines()

	n.Right = p.expression()
	if p.failed() || n.Right == nil {
		p.fail("expected expression")
		n.Release()

		return nil
	}

	body := p.body(" following 'iterate'")
	if body == nil {
		n.Release()

		return nil
	}

	return n.Add(body)
}

func (p *parser) while() *ast.Node {
	n := ast.New(ast.While)

	if n.Left = p.condition("while"); n.Left == nil {
		n.Release()

		return nil
	}

	if n.Right = p.body(""); n.Right == nil {
		n.Release()

		return nil
	}

	return n
}

type binaryOp struct {
	tok  lexer.Symbol
	node ast.Symbol
	text string
}

var (
	bitwiseOps = []binaryOp{
		{SymBinAnd, ast.BinAnd, "&"},
		{SymBinOr, ast.BinOr, "|"},
	}
	equalityOps = []binaryOp{
		{SymEquals, ast.Equals, "=="},
		{SymNotEquals, ast.NotEquals, "!="},
	}
	additiveOps = []binaryOp{
		{SymAppend, ast.Append, ".."},
		{SymPlus, ast.Add, "+"},
		{SymMinus, ast.Subtract, "-"},
	}
	multiplicativeOps = []binaryOp{
		{SymMultiply, ast.Multiply, "*"},
		{SymDivide, ast.Divide, "/"},
	}
)

// binary parses a left associative chain of ops over operands parsed by
// next. Newlines may follow an operator.
func (p *parser) binary(next func() *ast.Node, ops []binaryOp) *ast.Node {
	expr := next()
	if expr == nil {
		return nil
	}

loop:
	for {
		for _, op := range ops {
			if !p.buf.Accept(op.tok) {
				continue
			}

			p.skipNewlines()

			right := next()
			if p.failed() || right == nil {
				p.fail("expected expression following '%s'", op.text)
				expr.Release()
				right.Release()

				return nil
			}

			expr = ast.NewBinary(op.node, expr, right)

			continue loop
		}

		return expr
	}
}

func (p *parser) expression() *ast.Node { return p.binary(p.equality, bitwiseOps) }

func (p *parser) equality() *ast.Node { return p.binary(p.assignment, equalityOps) }

// assignment is right associative.
func (p *parser) assignment() *ast.Node {
	expr := p.additive()
	if expr == nil || !p.buf.Accept(SymAssign) {
		return expr
	}

	p.skipNewlines()

	right := p.assignment()
	if p.failed() || right == nil {
		p.fail("expected expression following '='")
		expr.Release()
		right.Release()

		return nil
	}

	return ast.NewBinary(ast.Assign, expr, right)
}

func (p *parser) additive() *ast.Node { return p.binary(p.multiplicative, additiveOps) }

func (p *parser) multiplicative() *ast.Node { return p.binary(p.unary, multiplicativeOps) }

func (p *parser) unary() *ast.Node {
	var sym ast.Symbol

	switch {
	case p.buf.Accept(SymMinus):
		sym = ast.Subtract
	case p.buf.Accept(SymNot):
		sym = ast.Not
	default:
		return p.postfix()
	}

	operand := p.unary()
	if p.failed() || operand == nil {
		if sym == ast.Subtract {
			p.fail("expected expression following '-'")
		} else {
			p.fail("expected expression following '!'")
		}

		operand.Release()

		return nil
	}

	// Negation keeps its operand on the right so that it reads as a
	// subtraction with no left side.
	if sym == ast.Subtract {
		return ast.NewBinary(ast.Subtract, nil, operand)
	}

	return ast.NewBinary(ast.Not, operand, nil)
}

func (p *parser) postfix() *ast.Node {
	expr := p.atomic()
	if expr == nil {
		return nil
	}

	for {
		switch {
		case p.buf.Accept(SymLSquare):
			p.skipNewlines()

			key := p.expression()
			if p.failed() || key == nil {
				p.fail("expected an expression")
				expr.Release()
				key.Release()

				return nil
			}

			p.skipNewlines()

			if !p.buf.Accept(SymRSquare) {
				p.fail("expected ']'")
				expr.Release()
				key.Release()

				return nil
			}

			expr = ast.NewBinary(ast.Index, expr, key)

		case p.buf.Accept(SymPeriod):
			p.skipNewlines()

			name := p.ident()
			if name == nil {
				p.fail("expected member name")
				expr.Release()

				return nil
			}

			expr = ast.NewBinary(ast.Member, expr, name)

		default:
			args := p.list(SymLParen, SymRParen)
			if p.failed() {
				expr.Release()

				return nil
			}

			if args == nil {
				return expr
			}

			expr = ast.NewBinary(ast.Call, expr, args)
		}
	}
}

// statementKeywords cannot name a function, so that a body may start on
// the same line as an anonymous function keyword.
var statementKeywords = map[string]bool{
	"break":   true,
	"if":      true,
	"iterate": true,
	"return":  true,
	"while":   true,
}

func (p *parser) ident() *ast.Node {
	if p.buf.Check(SymIdent) == nil {
		return nil
	}

	tok, _ := p.buf.Take()

	return ast.NewToken(ast.Ident, tok)
}

func (p *parser) literal(sym lexer.Symbol, node ast.Symbol) *ast.Node {
	if p.buf.Check(sym) == nil {
		return nil
	}

	tok, _ := p.buf.Take()

	return ast.NewToken(node, tok)
}

func (p *parser) atomic() *ast.Node {
	switch {
	case p.keyword("null"):
		return ast.New(ast.Null)
	case p.keyword("false"):
		return ast.New(ast.False)
	case p.keyword("true"):
		return ast.New(ast.True)
	case p.keyword("function"):
		return p.function()
	case p.buf.Accept(SymLCurly):
		return p.object()
	}

	if n := p.literal(SymInt, ast.Int); n != nil {
		return n
	}

	if n := p.literal(SymReal, ast.Real); n != nil {
		return n
	}

	if n := p.literal(SymString, ast.String); n != nil {
		return n
	}

	if n := p.ident(); n != nil {
		return n
	}

	if p.buf.Check(SymLSquare) != nil {
		return p.list(SymLSquare, SymRSquare)
	}

	return p.list(SymLParen, SymRParen)
}

// function parses the remainder of a function literal. A named function
// is declared global and becomes an assignment of the literal to its name.
func (p *parser) function() *ast.Node {
	fn := ast.New(ast.Function)

	if tok := p.buf.Check(SymIdent); tok != nil && !statementKeywords[tok.Text] {
		fn.Left = p.ident()
	}

	fn.Right = p.list(SymLParen, SymRParen)
	if p.failed() {
		fn.Release()

		return nil
	}

	body := p.block()
	if p.failed() {
		fn.Release()

		return nil
	}

	if body == nil {
		body = ast.New(ast.Null)
	}

	fn.Add(body)

	if fn.Left == nil {
		return fn
	}

	name := fn.TakeLeft()
	p.globals.Add(name.Text())

	return ast.NewBinary(ast.Assign, name, fn)
}

// object parses the remainder of an object literal after '{'. Members are
// Assign nodes of a name and a value. A comma after a function member is
// optional.
func (p *parser) object() *ast.Node {
	obj := ast.New(ast.Object)

	for {
		p.skipNewlines()

		if p.buf.Accept(SymRCurly) {
			return obj
		}

		name := p.ident()
		if name == nil {
			p.fail("expected member name")
			obj.Release()

			return nil
		}

		p.skipNewlines()

		if !p.buf.Accept(SymColon) {
			p.fail("expected ':'")
			name.Release()
			obj.Release()

			return nil
		}

		p.skipNewlines()

		val := p.expression()
		if p.failed() || val == nil {
			p.fail("expected expression")
			name.Release()
			val.Release()
			obj.Release()

			return nil
		}

		obj.Add(ast.NewBinary(ast.Assign, name, val))

		p.skipNewlines()

		if p.buf.Accept(SymComma) || val.Symbol == ast.Function {
			continue
		}

		if !p.buf.Accept(SymRCurly) {
			p.fail("expected ',' or '}'")
			obj.Release()

			return nil
		}

		return obj
	}
}

// list parses a delimited, comma separated list. It returns nil without
// failing when the opening delimiter is absent.
//
// An empty element is Null. A square bracket list, or a parenthesized
// list with a trailing comma, keeps its opening or trailing token so that
// evaluation never reduces it to its single element.
func (p *parser) list(open, close lexer.Symbol) *ast.Node {
	if p.buf.Check(open) == nil {
		return nil
	}

	opener, _ := p.buf.Take()
	list := ast.New(ast.List)

	if open == SymLSquare {
		list.Token = &opener
	}

	p.skipNewlines()

	if p.buf.Accept(close) {
		return list
	}

	for {
		p.skipNewlines()

		elem := p.expression()
		if p.failed() {
			elem.Release()
			list.Release()

			return nil
		}

		if elem == nil {
			elem = ast.New(ast.Null)
		}

		list.Add(elem)

		p.skipNewlines()

		if p.buf.Check(SymComma) == nil {
			break
		}

		comma, _ := p.buf.Take()

		p.skipNewlines()

		if p.buf.Check(close) != nil {
			if list.Token == nil {
				list.Token = &comma
			}

			break
		}
	}

	if !p.buf.Accept(close) {
		if close == SymRSquare {
			p.fail("expected ',' or ']'")
		} else {
			p.fail("expected ',' or ')'")
		}

		list.Release()

		return nil
	}

	return list
}
