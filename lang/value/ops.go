package value

// Operators borrow their operands and return an owned result.

func intLike(v Value) bool { return v.kind == KindBool || v.kind == KindInt }

func numLike(v Value) bool { return intLike(v) || v.kind == KindFloat }

func arith(a, b Value, i func(x, y int64) int64, f func(x, y float64) float64) Value {
	if intLike(a) && intLike(b) {
		return Int(i(a.n, b.n))
	}

	if !numLike(a) || !numLike(b) {
		return Null()
	}

	return Float(f(a.Float(), b.Float()))
}

// Add returns a+b. Int and bool operands produce an int, any float operand
// produces a float.
func Add(a, b Value) Value {
	return arith(a, b,
		func(x, y int64) int64 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub returns a-b with the promotion rules of [Add].
func Sub(a, b Value) Value {
	return arith(a, b,
		func(x, y int64) int64 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul returns a*b with the promotion rules of [Add].
func Mul(a, b Value) Value {
	return arith(a, b,
		func(x, y int64) int64 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div returns a/b as a float. Both operands must be numeric.
func Div(a, b Value) Value {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Null()
	}

	return Float(a.Float() / b.Float())
}

// BinAnd returns the bitwise and of a and b converted to integers.
func BinAnd(a, b Value) Value {
	if !numLike(a) || !numLike(b) {
		return Null()
	}

	return Int(a.Int() & b.Int())
}

// BinOr returns the bitwise or of a and b converted to integers.
func BinOr(a, b Value) Value {
	if !numLike(a) || !numLike(b) {
		return Null()
	}

	return Int(a.Int() | b.Int())
}

// Not returns the logical negation of v: Int 0 or 1 for bool, int and null
// operands, Float 0 or 1 for floats, Null otherwise.
func Not(v Value) Value {
	switch v.kind {
	case KindNull, KindBool, KindInt:
		if v.n == 0 {
			return Int(1)
		}

		return Int(0)
	case KindFloat:
		if v.f == 0 {
			return Float(1)
		}

		return Float(0)
	default:
		return Null()
	}
}

// Negate returns -v for ints and floats, Null otherwise.
func Negate(v Value) Value {
	switch v.kind {
	case KindInt:
		return Int(-v.n)
	case KindFloat:
		return Float(-v.f)
	default:
		return Null()
	}
}

// Append pushes item onto list and returns list. Both are moved in. If list
// is not a list, both are released and Null is returned.
func Append(list, item Value) Value {
	if list.kind != KindList {
		list.Release()
		item.Release()

		return Null()
	}

	list.list.Push(item)

	return list
}

// Concat returns a new string joining a and b. Both are borrowed. If either
// is not a string, Null is returned.
func Concat(a, b Value) Value {
	if a.kind != KindString || b.kind != KindString {
		return Null()
	}

	joined := make([]byte, 0, len(a.str.b)+len(b.str.b))
	joined = append(joined, a.str.b...)
	joined = append(joined, b.str.b...)

	return NewBytes(joined)
}
