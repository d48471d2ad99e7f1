package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListSkipsNoiseDirsAndFiles(t *testing.T) {
	dir := writeFiles(t,
		"main.py",
		"src/app.js",
		"node_modules/lib/index.js",
		"__pycache__/main.cpython-311.pyc",
		".git/config",
		"bundle.min.js",
		"app.js.map",
		"poetry.lock",
	)

	files, err := NewWalker(dir, nil, 0).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	want := []string{"main.py", "src/app.js"}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, files)
		}
	}
}

func TestListAppliesExcludeGlobs(t *testing.T) {
	dir := writeFiles(t,
		"main.py",
		"generated/schema.py",
		"generated/deep/types.py",
	)

	files, err := NewWalker(dir, []string{"generated/**"}, 0).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(files) != 1 || files[0] != "main.py" {
		t.Fatalf("expected [main.py], got %v", files)
	}
}

func TestListRespectsMaxFiles(t *testing.T) {
	dir := writeFiles(t, "a.py", "b.py", "c.py", "d.py", "e.py")

	files, err := NewWalker(dir, nil, 3).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
}

func TestListOutputIsSorted(t *testing.T) {
	dir := writeFiles(t, "z.py", "a/deep.py", "m.py", "a/b.py")

	files, err := NewWalker(dir, nil, 0).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if !sort.StringsAreSorted(files) {
		t.Fatalf("output not sorted: %v", files)
	}
	if len(files) != 4 {
		t.Fatalf("expected 4 files, got %v", files)
	}
}
