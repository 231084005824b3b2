package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// TestOpenSourceFile tests reading a named source file.
func TestOpenSourceFile(t *testing.T) {
	script := filepath.Join(t.TempDir(), "source.pls")

	content := "(define x 1)"
	if err := os.WriteFile(script, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := openSource(script)
	if err != nil {
		t.Fatalf("openSource() error = %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != content {
		t.Errorf("got %q, want %q", string(data), content)
	}
}

// TestOpenSourceStdin tests that the "-" operand opens stdin without
// taking ownership of it.
func TestOpenSourceStdin(t *testing.T) {
	file, err := openSource(stdinSource)
	if err != nil {
		t.Fatalf("openSource() error = %v", err)
	}

	if err := file.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Closing the returned reader must not close os.Stdin itself.
	if _, err := os.Stdin.Stat(); err != nil {
		t.Errorf("os.Stdin unusable after Close(): %v", err)
	}
}

// TestFindScriptSearchOrder tests that bare names resolve against the
// search path directories in order.
func TestFindScriptSearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	// Same name in both directories; the first directory wins.
	for _, dir := range []string{first, second} {
		script := filepath.Join(dir, "startup.pls")
		if err := os.WriteFile(script, []byte("(define x 1)"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	path, err := findScript("startup.pls", []string{first, second})
	if err != nil {
		t.Fatalf("findScript() error = %v", err)
	}

	if path != filepath.Join(first, "startup.pls") {
		t.Errorf("findScript() = %q, want file in first directory", path)
	}
}

// TestFindScriptSecondDirectory tests falling through to a later search
// path directory when earlier ones miss.
func TestFindScriptSecondDirectory(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	script := filepath.Join(second, "late.pls")
	if err := os.WriteFile(script, []byte("(define x 2)"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := findScript("late.pls", []string{first, second})
	if err != nil {
		t.Fatalf("findScript() error = %v", err)
	}

	if path != script {
		t.Errorf("findScript() = %q, want %q", path, script)
	}
}

// TestFindScriptPathName tests that names containing a path separator
// resolve as ordinary paths and bypass the search path.
func TestFindScriptPathName(t *testing.T) {
	tmpdir := t.TempDir()

	script := filepath.Join(tmpdir, "lib.pls")
	if err := os.WriteFile(script, []byte("(define tau (* 2 pi))"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Absolute path resolves even when the search path is unrelated.
	path, err := findScript(script, []string{"/nonexistent"})
	if err != nil {
		t.Fatalf("findScript() error = %v", err)
	}

	if path != script {
		t.Errorf("findScript() = %q, want %q", path, script)
	}

	// Relative path with a separator is not searched either.
	sub := filepath.Join(tmpdir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	nested := filepath.Join(sub, "inner.pls")
	if err := os.WriteFile(nested, []byte("(define x 3)"), 0o644); err != nil {
		t.Fatal(err)
	}

	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	if err := os.Chdir(tmpdir); err != nil {
		t.Fatal(err)
	}

	rel := "sub" + string(os.PathSeparator) + "inner.pls"

	path, err = findScript(rel, []string{"/nonexistent"})
	if err != nil {
		t.Fatalf("findScript() error = %v", err)
	}

	if path != rel {
		t.Errorf("findScript() = %q, want %q", path, rel)
	}
}

// TestFindScriptMissing tests the error for unresolvable names.
func TestFindScriptMissing(t *testing.T) {
	_, err := findScript("no-such-script.pls", []string{t.TempDir()})
	if err == nil {
		t.Fatal("findScript() expected error for missing bare name")
	}

	if !strings.Contains(err.Error(), "script not found") {
		t.Errorf("findScript() error = %v, want script-not-found", err)
	}

	_, err = findScript(filepath.Join(t.TempDir(), "gone.pls"), nil)
	if err == nil {
		t.Fatal("findScript() expected error for missing path")
	}

	if !strings.Contains(err.Error(), "script not found") {
		t.Errorf("findScript() error = %v, want script-not-found", err)
	}
}

// TestResolveScriptsEmpty tests that an empty name list resolves to nothing.
func TestResolveScriptsEmpty(t *testing.T) {
	resolved, err := resolveScripts(nil, []string{"."})
	if err != nil {
		t.Fatalf("resolveScripts() error = %v", err)
	}

	if resolved != nil {
		t.Errorf("resolveScripts(nil) = %v, want nil", resolved)
	}
}

// TestResolveScriptsOrder tests that distinct scripts keep argument order.
func TestResolveScriptsOrder(t *testing.T) {
	tmpdir := t.TempDir()

	first := filepath.Join(tmpdir, "a.pls")
	second := filepath.Join(tmpdir, "b.pls")

	for _, script := range []string{first, second} {
		if err := os.WriteFile(script, []byte("(define x 1)"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	resolved, err := resolveScripts([]string{second, first}, nil)
	if err != nil {
		t.Fatalf("resolveScripts() error = %v", err)
	}

	if len(resolved) != 2 || resolved[0] != second || resolved[1] != first {
		t.Errorf("resolveScripts() = %v, want [%s %s]", resolved, second, first)
	}
}

// TestResolveScriptsDuplicatePaths tests dedup of identical paths.
func TestResolveScriptsDuplicatePaths(t *testing.T) {
	script := filepath.Join(t.TempDir(), "dup.pls")
	if err := os.WriteFile(script, []byte("(define x 1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Same file listed 3 times resolves once.
	resolved, err := resolveScripts([]string{script, script, script}, nil)
	if err != nil {
		t.Fatalf("resolveScripts() error = %v", err)
	}

	if len(resolved) != 1 || resolved[0] != script {
		t.Errorf("resolveScripts() = %v, want single %q", resolved, script)
	}
}

// TestResolveScriptsSymlinkDuplicates tests dedup of a symlink and its
// target.
func TestResolveScriptsSymlinkDuplicates(t *testing.T) {
	tmpdir := t.TempDir()

	realFile := filepath.Join(tmpdir, "real.pls")
	if err := os.WriteFile(realFile, []byte("(define x 1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	symlink := filepath.Join(tmpdir, "link.pls")
	if err := os.Symlink(realFile, symlink); err != nil {
		t.Fatal(err)
	}

	resolved, err := resolveScripts([]string{realFile, symlink}, nil)
	if err != nil {
		t.Fatalf("resolveScripts() error = %v", err)
	}

	// The symlink reaches the same inode, so only the first entry stays.
	if len(resolved) != 1 || resolved[0] != realFile {
		t.Errorf("resolveScripts() = %v, want single %q", resolved, realFile)
	}
}

// TestScriptSearchPathFallback tests the default search path when no
// parser context is present.
func TestScriptSearchPathFallback(t *testing.T) {
	path := scriptSearchPath(context.Background())

	if len(path) != 1 || path[0] != "." {
		t.Errorf(`scriptSearchPath() = %v, want ["."]`, path)
	}
}

// TestScriptSearchPathFromVars tests that the search path carried in the
// parser's variable set splits into directories.
func TestScriptSearchPathFromVars(t *testing.T) {
	dirs := []string{"/opt/plots", "/home/user/scripts", "."}

	var cli struct{}

	parser, err := kong.New(&cli, kong.Vars{
		ScriptPathIdentifier: strings.Join(dirs, string(os.PathListSeparator)),
	})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	got := scriptSearchPath(WithContext(context.Background(), ktx))

	if len(got) != len(dirs) {
		t.Fatalf("scriptSearchPath() = %v, want %v", got, dirs)
	}

	for i := range dirs {
		if got[i] != dirs[i] {
			t.Errorf("scriptSearchPath()[%d] = %q, want %q", i, got[i], dirs[i])
		}
	}
}
