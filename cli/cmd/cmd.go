package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/wildwinter/expression-parser/binding"
	"github.com/wildwinter/expression-parser/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	bindingFilesKey struct{}
	overridesKey    struct{}
	stdioKey        struct{}

	// BindingFiles lists the bindings documents to load, in order.
	BindingFiles struct {
		Paths    []string
		HasStdin bool
	}

	stdio struct {
		in  io.Reader
		out io.Writer
	}
)

// IsZero reports whether there are no bindings documents.
func (b *BindingFiles) IsZero() bool {
	return b == nil || len(b.Paths) == 0 && !b.HasStdin
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithBindingFiles returns a new context.Context listing the bindings
// documents at paths.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs, and files that cannot be opened are skipped. All occurrences of "-"
// are replaced with a single stdin document, loaded last.
func WithBindingFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, bindingFilesKey{}, buildBindingFiles(paths))
}

func buildBindingFiles(sources []string) *BindingFiles {
	if len(sources) == 0 {
		return nil
	}

	var files BindingFiles

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniqueFile(src, seen)
		if !ok {
			continue
		}

		files.Paths = append(files.Paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, files.HasStdin = seen[stdinKey]

	if files.IsZero() {
		return nil
	}

	return &files
}

// uniqueFile resolves path and reports whether it names a regular file not
// already in seen, adding it if so.
func uniqueFile(path string, seen map[fileKey]struct{}) (string, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// bindingFilesFrom retrieves the list stored in ctx by WithBindingFiles.
// Returns nil if none was stored.
func bindingFilesFrom(ctx context.Context) *BindingFiles {
	b, _ := ctx.Value(bindingFilesKey{}).(*BindingFiles)

	return b
}

// WithOverrides returns a new context.Context carrying "name=value"
// assignments applied over the loaded bindings.
func WithOverrides(ctx context.Context, assignments []string) context.Context {
	return context.WithValue(ctx, overridesKey{}, assignments)
}

func overridesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(overridesKey{}).([]string)

	return s
}

// WithStdio returns a new context.Context whose commands read from in and
// write results to out instead of the process's standard streams.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdioFrom(ctx context.Context) (io.Reader, io.Writer) {
	s, _ := ctx.Value(stdioKey{}).(stdio)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	return s.in, s.out
}

// loadBindings loads the documents stored by WithBindingFiles, merges them
// in order and applies the assignments stored by WithOverrides.
func loadBindings(ctx context.Context) (*binding.Bindings, error) {
	logger := log.Default()
	files := bindingFilesFrom(ctx)

	loaded := make([]*binding.Bindings, 0, 1)

	if !files.IsZero() {
		for _, path := range files.Paths {
			b, err := binding.LoadFile(ctx, path, binding.WithLogger(logger))
			if err != nil {
				return nil, ErrLoadBindings.Wrap(err)
			}

			loaded = append(loaded, b)
		}

		if files.HasStdin {
			stdin, _ := stdioFrom(ctx)

			b, err := binding.Load(ctx, stdin, binding.WithLogger(logger))
			if err != nil {
				return nil, ErrLoadBindings.
					With(slog.String("file", stdinSource)).
					Wrap(err)
			}

			loaded = append(loaded, b)
		}
	}

	bindings := binding.Merge(loaded...)

	for _, assignment := range overridesFrom(ctx) {
		name, value, err := binding.ParseAssignment(assignment)
		if err != nil {
			return nil, ErrLoadBindings.Wrap(err)
		}

		if bindings, err = bindings.Set(name, value); err != nil {
			return nil, ErrLoadBindings.Wrap(err)
		}
	}

	logger.DebugContext(ctx, "bindings loaded",
		slog.Int("files", len(loaded)),
		slog.Int("bindings", bindings.Len()))

	return bindings, nil
}

// readExpression joins args into one expression. A sole "-" reads it from
// the command's input instead.
func readExpression(ctx context.Context, args []string) (string, error) {
	if len(args) == 1 && args[0] == stdinSource {
		in, _ := stdioFrom(ctx)

		data, err := io.ReadAll(in)
		if err != nil {
			return "", ErrReadSource.Wrap(err).With(slog.String("file", stdinSource))
		}

		return strings.TrimSpace(string(data)), nil
	}

	return strings.Join(args, " "), nil
}
