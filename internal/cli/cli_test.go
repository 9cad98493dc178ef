package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/treeforge/internal/scaffold"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// runCLI executes the root command with args and returns its stdout.
// Flags are reset first because command state is package-level.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupEnv isolates config and returns a scratch directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("TREEFORGE_HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
	return t.TempDir()
}

func writeLayout(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "layout.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing layout: %v", err)
	}
	return path
}

func assertIsDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", path)
	}
}

func assertIsEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if !info.Mode().IsRegular() || info.Size() != 0 {
		t.Errorf("%s: mode=%v size=%d, want empty regular file", path, info.Mode(), info.Size())
	}
}

const scenarioA = "a:\n  b: [x.txt, y.txt]\n"

func TestApplyScenarioA(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, scenarioA)
	root := filepath.Join(dir, "out")

	out, err := runCLI(t, "", "apply", root, "-f", layout)
	if err != nil {
		t.Fatalf("apply: %v\n%s", err, out)
	}

	assertIsDir(t, filepath.Join(root, "a"))
	assertIsDir(t, filepath.Join(root, "a", "b"))
	assertIsEmptyFile(t, filepath.Join(root, "a", "b", "x.txt"))
	assertIsEmptyFile(t, filepath.Join(root, "a", "b", "y.txt"))

	if !strings.Contains(out, "Folder structure created at: "+root) {
		t.Errorf("missing confirmation line:\n%s", out)
	}
	if !strings.Contains(out, "4 created, 0 already present") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestApplyIsIdempotentAndNonDestructive(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, scenarioA)
	root := filepath.Join(dir, "out")

	if _, err := runCLI(t, "", "apply", root, "-f", layout); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	x := filepath.Join(root, "a", "b", "x.txt")
	if err := os.WriteFile(x, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "apply", root, "-f", layout)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if !strings.Contains(out, "0 created, 4 already present") {
		t.Errorf("second run should change nothing:\n%s", out)
	}

	data, err := os.ReadFile(x)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("x.txt = %q, want %q", data, "content")
	}
}

func TestApplyConflictNamesPath(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, "first.txt:\na:\n  b: [x.txt]\nlast.txt:\n")
	root := filepath.Join(dir, "out")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "", "apply", root, "-f", layout)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), filepath.Join(root, "a")) {
		t.Errorf("error %q does not name the conflicting path", err)
	}

	assertIsEmptyFile(t, filepath.Join(root, "first.txt"))
	if _, err := os.Stat(filepath.Join(root, "last.txt")); !os.IsNotExist(err) {
		t.Errorf("last.txt should not exist after fail-fast, stat err = %v", err)
	}
}

func TestApplyInvalidLayout(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, "a: 42\n")
	root := filepath.Join(dir, "out")

	_, err := runCLI(t, "", "apply", root, "-f", layout)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if _, statErr := os.Stat(root); !os.IsNotExist(statErr) {
		t.Errorf("root should not be created for an invalid layout")
	}
}

func TestApplyFromStdin(t *testing.T) {
	dir := setupEnv(t)
	root := filepath.Join(dir, "out")

	_, err := runCLI(t, `{"f.txt": null}`, "apply", root, "-f", "-")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	assertIsEmptyFile(t, filepath.Join(root, "f.txt"))
}

func TestApplyDryRunBuiltin(t *testing.T) {
	dir := setupEnv(t)
	root := filepath.Join(dir, "out")

	out, err := runCLI(t, "", "apply", root, "--dry-run")
	if err != nil {
		t.Fatalf("apply --dry-run: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", root)
	}
	if !strings.Contains(out, "would mkdir") || !strings.Contains(out, "backend/server.js") {
		t.Errorf("dry run output missing entries:\n%s", out)
	}
	if !strings.Contains(out, "Dry run: 90 entries would be created") {
		t.Errorf("dry run summary wrong:\n%s", out)
	}
}

func TestApplyUsesLayoutRoot(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, "treeforge: \"1\"\nroot: named\ntree:\n  f.txt:\n")
	t.Chdir(dir)

	if _, err := runCLI(t, "", "apply", "-f", layout); err != nil {
		t.Fatalf("apply: %v", err)
	}
	assertIsEmptyFile(t, filepath.Join(dir, "named", "f.txt"))
}

func TestApplyUsesConfiguredRootAndModes(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, "d: [f.txt]\n")
	t.Chdir(dir)
	t.Setenv("TREEFORGE_DEFAULT_ROOT", "from-config")
	t.Setenv("TREEFORGE_FILE_MODE", "0600")

	if _, err := runCLI(t, "", "apply", "-f", layout, "--dir-mode", "0700"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	f := filepath.Join(dir, "from-config", "d", "f.txt")
	assertIsEmptyFile(t, f)
	if os.PathSeparator == '/' {
		info, _ := os.Stat(f)
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("file perm = %o, want 600", perm)
		}
		info, _ = os.Stat(filepath.Dir(f))
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("dir perm = %o, want 700", perm)
		}
	}
}

func TestApplyBuiltinHonorsConfiguredRoot(t *testing.T) {
	dir := setupEnv(t)
	t.Chdir(dir)

	if _, err := runCLI(t, "", "config", "set", "default_root", "configured"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, err := runCLI(t, "", "apply", "--dry-run")
	if err != nil {
		t.Fatalf("apply --dry-run: %v", err)
	}
	if !strings.Contains(out, "at "+filepath.Join(dir, "configured")+" from "+builtinSource) {
		t.Errorf("built-in layout ignored default_root:\n%s", out)
	}
}

func TestApplyBadModeFlag(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, scenarioA)

	_, err := runCLI(t, "", "apply", filepath.Join(dir, "out"), "-f", layout, "--file-mode", "rw-")
	if err == nil || !strings.Contains(err.Error(), "--file-mode") {
		t.Errorf("expected --file-mode error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := setupEnv(t)

	good := writeLayout(t, dir, scenarioA)
	out, err := runCLI(t, "", "validate", "-f", good)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "is valid: 2 directories, 2 files") {
		t.Errorf("unexpected output:\n%s", out)
	}

	bad := writeLayout(t, dir, "a:\n  b: hello\n")
	out, err = runCLI(t, "", "validate", "-f", bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "/a/b") {
		t.Errorf("issue path missing:\n%s", out)
	}
}

func TestValidateBuiltin(t *testing.T) {
	setupEnv(t)
	out, err := runCLI(t, "", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, builtinSource+" is valid: 24 directories, 66 files") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	dir := setupEnv(t)
	layout := writeLayout(t, dir, "a:\n  b: [x.txt, y.txt]\nf.txt:\n")

	out, err := runCLI(t, "", "show", "proj", "-f", layout)
	if err != nil {
		t.Fatalf("show: %v", err)
	}

	want := `proj/
├── a/
│   └── b/
│       ├── x.txt
│       └── y.txt
└── f.txt

2 directories, 3 files
`
	if out != want {
		t.Errorf("show output:\n%s\nwant:\n%s", out, want)
	}
}

func TestConfigSetGet(t *testing.T) {
	setupEnv(t)

	if _, err := runCLI(t, "", "config", "set", "default_root", "my-root"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	out, err := runCLI(t, "", "config", "get", "default_root")
	if err != nil {
		t.Fatalf("config get: %v", err)
	}
	if strings.TrimSpace(out) != "my-root" {
		t.Errorf("config get = %q, want %q", out, "my-root")
	}

	if _, err := runCLI(t, "", "config", "set", "nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-10-19"

	out, err := runCLI(t, "", "version", "--short")
	if err != nil || strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q, %v", out, err)
	}

	out, err = runCLI(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("parsing JSON: %v\n%s", err, out)
	}
	if info["commit"] != "abc123" {
		t.Errorf("commit = %q", info["commit"])
	}

	out, _ = runCLI(t, "", "version")
	if !strings.Contains(out, "treeforge version 1.2.3") {
		t.Errorf("version output = %q", out)
	}
}

func TestResolveRootDefault(t *testing.T) {
	setupEnv(t)
	if got := resolveRoot(nil, nil); got != "IoT-Data-Marketplace" {
		t.Errorf("resolveRoot = %q", got)
	}
}

func TestDefaultModes(t *testing.T) {
	setupEnv(t)
	resetFlags(rootCmd)
	opts, err := applyOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.DirMode != scaffold.DefaultDirMode || opts.FileMode != scaffold.DefaultFileMode {
		t.Errorf("modes = %o/%o", opts.DirMode, opts.FileMode)
	}
}
