package ast

import "strconv"

// Symbol identifies the syntactic construct a [Node] represents.
type Symbol int16

const (
	Add Symbol = iota + 1
	Append
	Assign
	BinAnd
	BinOr
	Block
	Break
	Call
	Divide
	Equals
	False
	Function
	Ident
	If
	Index
	Int
	Iterate
	List
	Member
	Multiply
	Not
	NotEquals
	Null
	Object
	Real
	Return
	Script
	String
	Subtract
	True
	While
)

var symbolNames = [...]string{
	Add:       "ADD",
	Append:    "APPEND",
	Assign:    "ASSIGN",
	BinAnd:    "BIN_AND",
	BinOr:     "BIN_OR",
	Block:     "BLOCK",
	Break:     "BREAK",
	Call:      "CALL",
	Divide:    "DIVIDE",
	Equals:    "EQUALS",
	False:     "FALSE",
	Function:  "FUNCTION",
	Ident:     "IDENT",
	If:        "IF",
	Index:     "INDEX",
	Int:       "INT",
	Iterate:   "ITERATE",
	List:      "LIST",
	Member:    "MEMBER",
	Multiply:  "MULTIPLY",
	Not:       "NOT",
	NotEquals: "NOT_EQUALS",
	Null:      "NULL",
	Object:    "OBJECT",
	Real:      "REAL",
	Return:    "RETURN",
	Script:    "SCRIPT",
	String:    "STRING",
	Subtract:  "SUBTRACT",
	True:      "TRUE",
	While:     "WHILE",
}

func (s Symbol) String() string {
	if s > 0 && int(s) < len(symbolNames) {
		return symbolNames[s]
	}

	return "SYMBOL(" + strconv.Itoa(int(s)) + ")"
}
