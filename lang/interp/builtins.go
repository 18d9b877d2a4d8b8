package interp

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/tinyscript/lang/value"
)

// FileType is the native type name of the handle embedded in file objects.
const FileType = "File"

type builtin struct {
	name string
	fn   value.NativeFunc
}

var builtins = []builtin{
	{"say", say},
	{"open_file", openFile},
	{"create_file", createFile},
	{"_strdrop", strDrop},
	{"_strexpand", strExpand},
}

// joinArgs renders args separated by single spaces. Strings are written
// raw and every other value in its printed form.
func joinArgs(args []value.Value) string {
	var sb strings.Builder

	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(a.Text())
	}

	return sb.String()
}

// say(args...) prints its arguments and a newline.
func say(ctx *value.CallContext, args []value.Value) value.Value {
	if _, err := io.WriteString(ctx.Out, joinArgs(args)+"\n"); err != nil {
		ctx.Logger.WarnContext(ctx, "say", slog.Any("error", err))
	}

	return value.Null()
}

// file is the native data of a file object.
type file struct {
	f *os.File
	r *bufio.Reader
}

func (f *file) Close() error {
	if f.f == nil {
		return nil
	}

	err := f.f.Close()
	f.f, f.r = nil, nil

	return err
}

func newFile(f *os.File) value.Value {
	obj := value.NewNativeObject(FileType, &file{f: f, r: bufio.NewReader(f)}, 3)
	value.SetMember(obj, "read_line", value.Func(fileReadLine))
	value.SetMember(obj, "write", value.Func(fileWrite))
	value.SetMember(obj, "close", value.Func(fileClose))

	return obj
}

// receiver returns the open file bound to me, or nil.
func receiver(ctx *value.CallContext) *file {
	n := ctx.Me.Native()
	if n == nil || n.Type != FileType {
		return nil
	}

	if f, ok := n.Data.(*file); ok && f.f != nil {
		return f
	}

	return nil
}

func pathArg(args []value.Value) (string, bool) {
	if len(args) != 1 || args[0].Kind() != value.KindString {
		return "", false
	}

	return args[0].Str().String(), true
}

// open_file(path) opens path for reading.
func openFile(ctx *value.CallContext, args []value.Value) value.Value {
	path, ok := pathArg(args)
	if !ok {
		return value.Null()
	}

	f, err := os.Open(path)
	if err != nil {
		ctx.Logger.WarnContext(ctx, "open_file", slog.String("path", path), slog.Any("error", err))

		return value.Null()
	}

	return newFile(f)
}

// create_file(path) creates or truncates path for writing.
func createFile(ctx *value.CallContext, args []value.Value) value.Value {
	path, ok := pathArg(args)
	if !ok {
		return value.Null()
	}

	f, err := os.Create(path)
	if err != nil {
		ctx.Logger.WarnContext(ctx, "create_file", slog.String("path", path), slog.Any("error", err))

		return value.Null()
	}

	return newFile(f)
}

// read_line() returns the next line without its newline, or null at the
// end of the file.
func fileReadLine(ctx *value.CallContext, args []value.Value) value.Value {
	f := receiver(ctx)
	if f == nil || len(args) != 0 {
		return value.Null()
	}

	line, err := f.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if !errors.Is(err, io.EOF) {
			ctx.Logger.WarnContext(ctx, "read_line", slog.Any("error", err))
		}

		return value.Null()
	}

	return value.NewString(strings.TrimSuffix(line, "\n"))
}

// write(args...) writes its arguments and a newline.
func fileWrite(ctx *value.CallContext, args []value.Value) value.Value {
	f := receiver(ctx)
	if f == nil {
		return value.Null()
	}

	if _, err := f.f.WriteString(joinArgs(args) + "\n"); err != nil {
		ctx.Logger.WarnContext(ctx, "write", slog.Any("error", err))

		return value.Null()
	}

	return value.Int(0)
}

// close() closes the file. Later reads and writes return null.
func fileClose(ctx *value.CallContext, _ []value.Value) value.Value {
	if f := receiver(ctx); f != nil {
		if err := f.Close(); err != nil {
			ctx.Logger.WarnContext(ctx, "close", slog.Any("error", err))
		}
	}

	return value.Null()
}

// _strdrop(str, n) returns str without its first n bytes.
func strDrop(_ *value.CallContext, args []value.Value) value.Value {
	if len(args) != 2 || args[0].Kind() != value.KindString || args[1].Kind() != value.KindInt {
		return value.Null()
	}

	b := args[0].Str().Bytes()
	n := min(max(args[1].Int(), 0), int64(len(b)))

	return value.NewString(string(b[n:]))
}

// _strexpand(str, obj) replaces each ${name} in str with the string member
// name of obj. Names bound to other kinds expand to nothing; a '$' that
// does not start a complete reference is kept.
func strExpand(_ *value.CallContext, args []value.Value) value.Value {
	if len(args) != 2 || args[0].Kind() != value.KindString || args[1].Kind() != value.KindObject {
		return value.Null()
	}

	src := args[0].Str().String()
	obj := args[1]

	var sb strings.Builder

	for {
		i := strings.Index(src, "${")
		if i < 0 {
			break
		}

		end := strings.IndexByte(src[i+2:], '}')
		if end < 0 {
			break
		}

		sb.WriteString(src[:i])

		name := src[i+2 : i+2+end]
		v := value.Member(obj, name)
		if v.Kind() == value.KindString {
			sb.WriteString(v.Str().String())
		}

		v.Release()

		src = src[i+3+end:]
	}

	sb.WriteString(src)

	return value.NewString(sb.String())
}

// loadModule implements load_module(name).
func (in *Interp) loadModule(ctx *value.CallContext, args []value.Value) value.Value {
	name, ok := pathArg(args)
	if !ok {
		ctx.Logger.WarnContext(ctx, "load_module: invalid argument(s)")

		return value.Null()
	}

	m, ok := in.modules.Lookup(name)
	if !ok {
		ctx.Logger.WarnContext(ctx, "load_module: module not found",
			slog.String("module", name),
			slog.Any("available", in.modules.Names()),
		)

		return value.Null()
	}

	ctx.Logger.DebugContext(ctx, "load_module", slog.String("module", name))

	return m(name, ctx.Globals)
}
