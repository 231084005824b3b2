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

// stdinSource is the special source operand for reading from stdin.
const stdinSource = "-"

// openSource opens a source operand for reading: the named file, or stdin
// when the operand is "-".
func openSource(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

// scriptSearchPath returns the directories searched for bare script names.
// The list is assembled by the cli package and carried in the parser's
// variable set.
func scriptSearchPath(ctx context.Context) []string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return []string{"."}
	}

	return filepath.SplitList(ktx.Model.Vars()[ScriptPathIdentifier])
}

// fileKey uniquely identifies a file by its device and inode numbers so a
// script reached through a symlink or a different relative path is not
// loaded twice.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// findScript resolves a script name to a file path. Names containing a
// path separator, and absolute names, resolve as ordinary paths; bare
// names are searched for in each directory of searchPath in order.
func findScript(name string, searchPath []string) (string, error) {
	if filepath.IsAbs(name) ||
		strings.ContainsRune(name, os.PathSeparator) {
		if _, err := os.Stat(name); err != nil {
			return "", ErrScriptNotFound.
				With(slog.String("script", name)).
				Wrap(err)
		}

		return name, nil
	}

	for _, dir := range searchPath {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", ErrScriptNotFound.
		With(slog.String("script", name)).
		With(slog.String("path", strings.Join(searchPath, string(os.PathListSeparator))))
}

// resolveScripts resolves each script name against searchPath and drops
// later names that refer to a file already resolved, comparing by
// device/inode after following symlinks.
func resolveScripts(names []string, searchPath []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	resolved := make([]string, 0, len(names))
	seen := make(map[fileKey]struct{}, len(names))

	for _, name := range names {
		path, err := findScript(name, searchPath)
		if err != nil {
			return nil, err
		}

		key, ok := statKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		resolved = append(resolved, path)
	}

	return resolved, nil
}

// statKey resolves symlinks and returns the file's identity key.
func statKey(path string) (fileKey, bool) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(target)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}
