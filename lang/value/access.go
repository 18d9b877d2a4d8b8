package value

// Entry returns v[key]. Lists accept numeric indices within bounds (floats
// are truncated), objects match keys with [Equals], and strings yield the
// byte at a numeric index as an int. Both operands are borrowed and the
// result is owned. Any other combination returns Null.
func Entry(v, key Value) Value {
	switch v.kind {
	case KindList:
		if i, ok := index(key, v.list.Len()); ok {
			return v.list.items[i].Ref()
		}
	case KindObject:
		if val, ok := v.obj.Find(key); ok {
			return val.Ref()
		}
	case KindString:
		if i, ok := index(key, v.str.Len()); ok {
			return Int(int64(v.str.b[i]))
		}
	}

	return Null()
}

// SetEntry assigns v[key] = val. The container v is borrowed; key and val
// are moved in. Objects add or replace the member; lists replace an item at
// an in-range numeric index. It reports whether the assignment happened.
// Values that could not be stored are released.
func SetEntry(v, key, val Value) bool {
	switch v.kind {
	case KindObject:
		v.obj.set(key, val)

		return true
	case KindList:
		if i, ok := index(key, v.list.Len()); ok {
			key.Release()
			v.list.items[i].Release()
			v.list.items[i] = val

			return true
		}
	}

	key.Release()
	val.Release()

	return false
}

// Member returns the member name of v (owned). Objects are searched first;
// objects embedding a native record and native values fall back to the
// record's [MemberGetter].
func Member(v Value, name string) Value {
	switch v.kind {
	case KindObject:
		if val, ok := v.obj.Lookup(name); ok {
			return val.Ref()
		}
	case KindNative:
	default:
		return Null()
	}

	if n := v.Native(); n != nil {
		if g, ok := n.Data.(MemberGetter); ok {
			if val, ok := g.GetMember(name); ok {
				return val
			}
		}
	}

	return Null()
}

// SetMember assigns the member name of object v to val (moved in).
func SetMember(v Value, name string, val Value) bool {
	if v.kind != KindObject {
		val.Release()

		return false
	}

	if i := v.obj.indexName(name); i >= 0 {
		v.obj.members[i].Val.Release()
		v.obj.members[i].Val = val

		return true
	}

	v.obj.members = append(v.obj.members, Pair{Key: NewString(name), Val: val})

	return true
}

func index(key Value, n int) (int, bool) {
	if !key.IsNumeric() {
		return 0, false
	}

	i := key.Int()
	if i < 0 || i >= int64(n) {
		return 0, false
	}

	return int(i), true
}
