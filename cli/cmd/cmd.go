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

	"github.com/ardnew/quant/lang"
	"github.com/ardnew/quant/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
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

// Setup describes how every command prepares its [lang.Instance].
type Setup struct {
	// Prelude loads the embedded prelude first.
	Prelude bool
	// Catalogs are YAML catalog files loaded after the prelude, in order.
	Catalogs []string
	// SearchPath is a list of directories separated by
	// [os.PathListSeparator] that is searched for relative file names not
	// found in the working directory.
	SearchPath string
}

type (
	setupKey  struct{}
	stdioKey  struct{}
	stdioPair struct {
		in  io.Reader
		out io.Writer
	}
)

// WithSetup returns a new context.Context carrying s.
func WithSetup(ctx context.Context, s Setup) context.Context {
	return context.WithValue(ctx, setupKey{}, s)
}

func setupFrom(ctx context.Context) Setup {
	s, ok := ctx.Value(setupKey{}).(Setup)
	if !ok {
		return Setup{Prelude: true}
	}

	return s
}

// WithStdio returns a new context.Context whose commands read from in and
// write to out instead of [os.Stdin] and [os.Stdout].
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdioPair{in: in, out: out})
}

func stdinFrom(ctx context.Context) io.Reader {
	if p, ok := ctx.Value(stdioKey{}).(stdioPair); ok && p.in != nil {
		return p.in
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if p, ok := ctx.Value(stdioKey{}).(stdioPair); ok && p.out != nil {
		return p.out
	}

	return os.Stdout
}

// NewInstance returns an instance prepared according to the [Setup] in ctx,
// writing the output of show statements to w.
func NewInstance(ctx context.Context, w io.Writer, opts ...lang.Option) (*lang.Instance, error) {
	setup := setupFrom(ctx)

	in := lang.New(append([]lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithOutput(w),
	}, opts...)...)

	if setup.Prelude {
		if err := in.LoadPrelude(ctx); err != nil {
			return nil, ErrPrelude.Wrap(err)
		}
	}

	sources, err := openSources(ctx, setup.Catalogs...)
	if err != nil {
		return nil, err
	}

	defer sources.Close()

	for _, src := range sources {
		if err := in.LoadCatalog(ctx, src); err != nil {
			return nil, ErrReadSource.Wrap(err).With(slog.String("catalog", src.name))
		}
	}

	return in, nil
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is an opened input with the name it was requested by.
type source struct {
	io.Reader

	name   string
	closer io.Closer
}

type sources []source

// Close closes every opened file.
func (s sources) Close() {
	for _, src := range s {
		if src.closer != nil {
			_ = src.closer.Close()
		}
	}
}

// openSources opens each named input once, in order.
//
// Relative names that do not exist in the working directory are looked up in
// the search path of the [Setup] in ctx. Duplicates are detected by resolving
// symlinks and comparing device/inode pairs, so a file named twice (or through
// two different paths) is read once. "-" reads stdin.
func openSources(ctx context.Context, names ...string) (sources, error) {
	searchPath := setupFrom(ctx).SearchPath

	var (
		opened sources
		seen   = make(map[fileKey]struct{})
		stdin  bool
	)

	for _, name := range names {
		if name == stdinSource {
			if !stdin {
				stdin = true

				opened = append(opened, source{Reader: stdinFrom(ctx), name: name})
			}

			continue
		}

		path, err := findFile(name, searchPath)
		if err != nil {
			opened.Close()

			return nil, ErrReadSource.Wrap(err).With(slog.String("file", name))
		}

		file, ok, err := openUniqueFile(path, seen)
		if err != nil {
			opened.Close()

			return nil, ErrReadSource.Wrap(err).With(slog.String("file", name))
		}

		if !ok {
			log.DebugContext(ctx, "skip duplicate source", slog.String("file", name))

			continue
		}

		opened = append(opened, source{Reader: file, name: name, closer: file})
	}

	return opened, nil
}

// findFile returns name if it exists, otherwise the first directory in
// searchPath that contains it.
func findFile(name, searchPath string) (string, error) {
	_, err := os.Stat(name)
	if err == nil || filepath.IsAbs(name) || searchPath == "" {
		return name, err
	}

	for dir := range strings.SplitSeq(searchPath, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}

		path := filepath.Join(dir, name)
		if _, serr := os.Stat(path); serr == nil {
			return path, nil
		}
	}

	return name, err
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It reports false with a nil error for a file already in seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
