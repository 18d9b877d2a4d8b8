package sqldb

import (
	"context"
	"slices"
	"testing"

	"github.com/ardnew/tinyscript/lang/value"
)

func call(me value.Value, fn value.NativeFunc, args ...value.Value) value.Value {
	defer func() {
		for _, a := range args {
			a.Release()
		}
	}()

	return fn(&value.CallContext{Context: context.Background(), Me: me}, args)
}

func method(t *testing.T, db value.Value, name string) value.NativeFunc {
	t.Helper()

	fn := value.Member(db, name)
	if fn.Kind() != value.KindFunc {
		t.Fatalf("%s: kind %s", name, fn.Kind())
	}

	return fn.Func()
}

func TestDrivers(t *testing.T) {
	list := call(value.Null(), drivers)
	defer list.Release()

	var names []string
	for _, v := range list.List().All() {
		names = append(names, v.Text())
	}

	for _, want := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		if !slices.Contains(names, want) {
			t.Errorf("driver %q not registered: %v", want, names)
		}
	}
}

func TestSQLite(t *testing.T) {
	live := value.Live()

	db := call(value.Null(), open, value.NewString("sqlite"), value.NewString(":memory:"))
	if db.Native() == nil || db.Native().Type != DBType {
		t.Fatalf("open = %s", db)
	}

	exec := method(t, db, "exec")
	query := method(t, db, "query")

	res := call(db, exec, value.NewString("create table t (n integer, s text)"))
	res.Release()

	for i, s := range []string{"one", "two"} {
		res = call(db, exec, value.NewString("insert into t values (?, ?)"), value.Int(int64(i+1)), value.NewString(s))

		affected := value.Member(res, "rows_affected")
		if affected.Int() != 1 {
			t.Errorf("rows_affected = %s", affected)
		}

		res.Release()
	}

	rows := call(db, query, value.NewString("select n, s from t where n > ? order by n"), value.Int(0))
	if rows.Kind() != value.KindList || rows.List().Len() != 2 {
		t.Fatalf("rows = %s", rows)
	}

	for i, want := range []string{"one", "two"} {
		row := rows.List().At(i)

		n, s := value.Member(row, "n"), value.Member(row, "s")
		if n.Int() != int64(i+1) || s.Text() != want {
			t.Errorf("row %d = %s", i, row)
		}

		s.Release()
	}

	rows.Release()

	if got := call(db, query, value.NewString("select * from missing")); !got.IsNull() {
		t.Errorf("bad query = %s", got)
	}

	if got := call(db, method(t, db, "ping")); !got.Bool() {
		t.Error("ping failed")
	}

	call(db, method(t, db, "close"))

	if got := call(db, query, value.NewString("select 1")); !got.IsNull() {
		t.Errorf("query after close = %s", got)
	}

	db.Release()

	if value.Live() != live {
		t.Errorf("%d values leaked", value.Live()-live)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		args []value.Value
	}{
		{"unknown driver", []value.Value{value.NewString("nope"), value.NewString("")}},
		{"missing dsn", []value.Value{value.NewString("sqlite")}},
		{"not strings", []value.Value{value.Int(1), value.Int(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := call(value.Null(), open, tt.args...); !got.IsNull() {
				t.Errorf("got %s", got)
			}
		})
	}
}
