// Package sqldb is the sql native module. It opens database/sql
// connections through the registered drivers and exposes them to scripts
// as objects:
//
//	load_module('sql')
//	db = sql.open('sqlite', ':memory:')
//	db.exec('create table t (n integer, s text)')
//	db.exec('insert into t values (?, ?)', 1, 'one')
//	iterate row in db.query('select n, s from t')
//	  say(row.n, row.s)
//	db.close()
//
// Driver names are sqlite, postgres, mysql and sqlserver.
package sqldb

import (
	"database/sql"
	"log/slog"
	"slices"

	// Drivers available to sql.open.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/module/native"
	"github.com/ardnew/tinyscript/pkg"
)

// Name is the name the module is registered under.
const Name = "sql"

// DBType is the native type name of the handle embedded in connection
// objects.
const DBType = "sql.DB"

var (
	ErrArgument = pkg.NewError("invalid argument")
	ErrDriver   = pkg.NewError("unknown database driver")
	ErrOpen     = pkg.NewError("failed to open database")
	ErrQuery    = pkg.NewError("query failed")
	ErrClosed   = pkg.NewError("database closed")
)

var members = []native.Member{
	{Name: "open", Fn: open},
	{Name: "drivers", Fn: drivers},
}

// Load binds the sql object in globals and returns it.
func Load(name string, globals value.Value) value.Value {
	return native.Bind(globals, name, native.Object(members...))
}

// conn is the native data of a connection object.
type conn struct {
	db     *sql.DB
	driver string
}

func (c *conn) Close() error {
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil

	return err
}

// drivers() lists the registered driver names.
func drivers(_ *value.CallContext, _ []value.Value) value.Value {
	names := sql.Drivers()
	list := value.NewList(len(names))

	for _, n := range names {
		list.List().Push(value.NewString(n))
	}

	return list
}

// open(driver, dsn) connects and returns a connection object with the
// members query, exec, ping and close.
func open(ctx *value.CallContext, args []value.Value) value.Value {
	driver, ok1 := native.String(args, 0)
	dsn, ok2 := native.String(args, 1)

	if !ok1 || !ok2 {
		return native.Fail(ctx, "sql.open", ErrArgument)
	}

	if !slices.Contains(sql.Drivers(), driver) {
		return native.Fail(ctx, "sql.open", ErrDriver, slog.String("driver", driver))
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return native.Fail(ctx, "sql.open", ErrOpen.Wrap(err), slog.String("driver", driver))
	}

	if driver == "sqlite" {
		// Every pooled connection to an in-memory database is a separate
		// database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return native.Fail(ctx, "sql.open", ErrOpen.Wrap(err), slog.String("driver", driver))
	}

	ctx.Logger.DebugContext(ctx, "sql.open", slog.String("driver", driver))

	obj := value.NewNativeObject(DBType, &conn{db: db, driver: driver}, 4)
	value.SetMember(obj, "query", value.Func(query))
	value.SetMember(obj, "exec", value.Func(exec))
	value.SetMember(obj, "ping", value.Func(ping))
	value.SetMember(obj, "close", value.Func(closeDB))

	return obj
}

// receiver returns the open connection bound to me.
func receiver(ctx *value.CallContext) (*conn, error) {
	n := ctx.Me.Native()
	if n == nil || n.Type != DBType {
		return nil, ErrArgument
	}

	c, ok := n.Data.(*conn)
	if !ok || c.db == nil {
		return nil, ErrClosed
	}

	return c, nil
}

// statement splits a call's arguments into the SQL text and its bind
// parameters.
func statement(args []value.Value) (string, []any, bool) {
	text, ok := native.String(args, 0)
	if !ok {
		return "", nil, false
	}

	params := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		params = append(params, value.ToNative(a))
	}

	return text, params, true
}

// query(sql, params...) returns the result rows as a list of objects
// keyed by column name.
func query(ctx *value.CallContext, args []value.Value) value.Value {
	c, err := receiver(ctx)
	if err != nil {
		return native.Fail(ctx, "db.query", err)
	}

	text, params, ok := statement(args)
	if !ok {
		return native.Fail(ctx, "db.query", ErrArgument)
	}

	rows, err := c.db.QueryContext(ctx, text, params...)
	if err != nil {
		return native.Fail(ctx, "db.query", ErrQuery.Wrap(err), slog.String("sql", text))
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return native.Fail(ctx, "db.query", ErrQuery.Wrap(err), slog.String("sql", text))
	}

	out := value.NewList(0)
	cells := make([]any, len(cols))
	ptrs := make([]any, len(cols))

	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			out.Release()

			return native.Fail(ctx, "db.query", ErrQuery.Wrap(err), slog.String("sql", text))
		}

		row := value.NewObject(len(cols))
		for i, col := range cols {
			value.SetMember(row, col, value.FromNative(cells[i]))
		}

		out.List().Push(row)
	}

	if err := rows.Err(); err != nil {
		out.Release()

		return native.Fail(ctx, "db.query", ErrQuery.Wrap(err), slog.String("sql", text))
	}

	return out
}

// exec(sql, params...) runs a statement and returns an object with
// rows_affected and last_insert_id. Values a driver cannot report are null.
func exec(ctx *value.CallContext, args []value.Value) value.Value {
	c, err := receiver(ctx)
	if err != nil {
		return native.Fail(ctx, "db.exec", err)
	}

	text, params, ok := statement(args)
	if !ok {
		return native.Fail(ctx, "db.exec", ErrArgument)
	}

	res, err := c.db.ExecContext(ctx, text, params...)
	if err != nil {
		return native.Fail(ctx, "db.exec", ErrQuery.Wrap(err), slog.String("sql", text))
	}

	out := value.NewObject(2)

	if n, err := res.RowsAffected(); err == nil {
		value.SetMember(out, "rows_affected", value.Int(n))
	} else {
		value.SetMember(out, "rows_affected", value.Null())
	}

	if n, err := res.LastInsertId(); err == nil {
		value.SetMember(out, "last_insert_id", value.Int(n))
	} else {
		value.SetMember(out, "last_insert_id", value.Null())
	}

	return out
}

// ping() reports whether the connection is alive.
func ping(ctx *value.CallContext, _ []value.Value) value.Value {
	c, err := receiver(ctx)
	if err != nil {
		return value.Bool(false)
	}

	return value.Bool(c.db.PingContext(ctx) == nil)
}

// close() closes the connection. Later calls on it return null.
func closeDB(ctx *value.CallContext, _ []value.Value) value.Value {
	c, err := receiver(ctx)
	if err != nil {
		return value.Null()
	}

	if err := c.Close(); err != nil {
		return native.Fail(ctx, "db.close", err, slog.String("driver", c.driver))
	}

	return value.Null()
}
