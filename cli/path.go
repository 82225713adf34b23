package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/quant/pkg"
)

// baseConfig is the base name of the configuration file and the optional
// top-level namespace within it.
const baseConfig = "config"

// configFile is the name of the configuration file in [configDir].
const configFile = baseConfig + ".yaml"

// searchPathEnv is the environment variable holding the default catalog and
// program search path.
var searchPathEnv = strings.ToUpper(pkg.Name) + "_PATH"

// defaultDirMode is the permission mode of created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the path to the
// configuration and cache directories.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with cmd
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		return id
	},
)

// userDir returns the per-user directory reported by lookup, joined with
// [basePrefix]. When lookup fails, fallback under the home directory is used,
// and failing that the working directory.
func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

// configDir returns the directory holding the configuration file and the
// default catalogs directory.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the directory holding transient files such as the REPL
// history.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// searchPath returns the catalog and program search path: the include
// directories in order, followed by the entries of $QUANT_PATH and the
// catalogs directory under [configDir]. Entries that are not directories are
// dropped.
func searchPath(include ...string) string {
	delim := string(os.PathListSeparator)

	return mung.Make(
		mung.WithSubjectItems(os.Getenv(searchPathEnv)+delim+configPath("catalogs")),
		mung.WithDelim(delim),
		mung.WithPrefixItems(include...),
		mung.WithFilter(isDir),
	).String()
}

func isDir(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
