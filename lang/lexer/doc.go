// Package lexer converts UTF-8 source text into a stream of tokens
// according to a configurable, ordered table of token rules.
//
// A rule table is a slice of [Rule] values built with [Char], [Number],
// [Sequence], [String], [Comment] and [Word]. At each input position the
// [Lexer] skips whitespace (counting it as indentation), then tries the
// rules in order; the first rule that matches produces the token.
//
// Tokens are consumed by parsers through a [Buffer], which provides one
// token of lookahead with check/accept primitives.
package lexer
