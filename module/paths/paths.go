// Package paths is the paths native module: file system predicates, path
// manipulation and PATH-style list munging.
//
//	load_module('paths')
//	PATH = paths.prefixif(paths.env('PATH'), 'dir', '/opt/bin', '~/bin')
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/module/native"
	"github.com/ardnew/tinyscript/pkg"
)

// Name is the name the module is registered under.
const Name = "paths"

var ErrArgument = pkg.NewError("invalid argument")

var members = []native.Member{
	{Name: "abs", Fn: stringFunc(abs)},
	{Name: "base", Fn: stringFunc(filepath.Base)},
	{Name: "dir", Fn: stringFunc(filepath.Dir)},
	{Name: "env", Fn: stringFunc(os.Getenv)},
	{Name: "exists", Fn: predicateFunc(exists)},
	{Name: "is_dir", Fn: predicateFunc(isDir)},
	{Name: "is_file", Fn: predicateFunc(isRegular)},
	{Name: "is_link", Fn: predicateFunc(isSymlink)},
	{Name: "join", Fn: join},
	{Name: "rel", Fn: rel},
	{Name: "split", Fn: split},
	{Name: "prefix", Fn: prefix},
	{Name: "prefixif", Fn: prefixIf},
}

// predicates are the filters prefixif accepts by name.
var predicates = map[string]func(string) bool{
	"exists": exists,
	"dir":    isDir,
	"file":   isRegular,
	"link":   isSymlink,
}

// Load binds the paths object in globals and returns it.
func Load(name string, globals value.Value) value.Value {
	return native.Bind(globals, name, native.Object(members...))
}

func stringFunc(fn func(string) string) value.NativeFunc {
	return func(ctx *value.CallContext, args []value.Value) value.Value {
		s, ok := native.String(args, 0)
		if !ok || len(args) != 1 {
			return native.Fail(ctx, "paths", ErrArgument)
		}

		return value.NewString(fn(s))
	}
}

func predicateFunc(fn func(string) bool) value.NativeFunc {
	return func(ctx *value.CallContext, args []value.Value) value.Value {
		s, ok := native.String(args, 0)
		if !ok || len(args) != 1 {
			return native.Fail(ctx, "paths", ErrArgument)
		}

		return value.Bool(fn(expand(s)))
	}
}

// expand replaces a leading ~ with the user's home directory.
func expand(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return home + path[1:]
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeSymlink != 0
}

func abs(path string) string {
	p, err := filepath.Abs(expand(path))
	if err != nil {
		return path
	}

	return p
}

// join(elem...) joins path elements.
func join(ctx *value.CallContext, args []value.Value) value.Value {
	elem, ok := native.Strings(args, 0)
	if !ok {
		return native.Fail(ctx, "paths.join", ErrArgument)
	}

	return value.NewString(filepath.Join(elem...))
}

// rel(from, to) returns to relative to from, or the two joined if no
// relative path exists.
func rel(ctx *value.CallContext, args []value.Value) value.Value {
	from, ok1 := native.String(args, 0)
	to, ok2 := native.String(args, 1)

	if !ok1 || !ok2 {
		return native.Fail(ctx, "paths.rel", ErrArgument)
	}

	p, err := filepath.Rel(abs(from), abs(to))
	if err != nil {
		return value.NewString(filepath.Join(from, to))
	}

	return value.NewString(p)
}

// split(list) splits a PATH-style list into a list of strings.
func split(ctx *value.CallContext, args []value.Value) value.Value {
	s, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "paths.split", ErrArgument)
	}

	items := filepath.SplitList(s)
	out := value.NewList(len(items))

	for _, item := range items {
		out.List().Push(value.NewString(item))
	}

	return out
}

// prefix(list, item...) moves or adds items to the front of a PATH-style
// list, removing duplicates.
func prefix(ctx *value.CallContext, args []value.Value) value.Value {
	subject, ok := native.String(args, 0)
	if !ok {
		return native.Fail(ctx, "paths.prefix", ErrArgument)
	}

	items, ok := native.Strings(args, 1)
	if !ok {
		return native.Fail(ctx, "paths.prefix", ErrArgument)
	}

	return value.NewString(munge(subject, items, nil))
}

// prefixif(list, predicate, item...) is prefix restricted to the items that
// satisfy the named predicate: exists, dir, file or link.
func prefixIf(ctx *value.CallContext, args []value.Value) value.Value {
	subject, ok1 := native.String(args, 0)
	name, ok2 := native.String(args, 1)
	items, ok3 := native.Strings(args, 2)

	if !ok1 || !ok2 || !ok3 {
		return native.Fail(ctx, "paths.prefixif", ErrArgument)
	}

	pred, ok := predicates[name]
	if !ok {
		return native.Fail(ctx, "paths.prefixif", ErrArgument.Wrap(os.ErrInvalid))
	}

	return value.NewString(munge(subject, items, func(p string) bool { return pred(expand(p)) }))
}

func munge(subject string, items []string, filter func(string) bool) string {
	if filter == nil {
		return mung.Make(
			mung.WithSubjectItems(subject),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(items...),
		).String()
	}

	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
		mung.WithFilter(filter),
	).String()
}
