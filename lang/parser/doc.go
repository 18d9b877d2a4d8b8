// Package parser builds the syntax tree of a tinyscript program.
//
// The grammar is indentation sensitive: a block is the run of statements
// whose first tokens are indented at least as far as the block's first
// statement, and a newline terminates each statement. Operators bind, from
// tightest to loosest:
//
//	postfix   a[i]  a.b  f(x)
//	prefix    -a  !a
//	product   *  /
//	sum       +  -  ..
//	assign    =        (right associative)
//	equality  ==  !=
//	bitwise   &  |
//
// Top level "global a, b" statements and named function definitions add
// to the script's declared-global set, available through [GlobalsOf].
package parser
