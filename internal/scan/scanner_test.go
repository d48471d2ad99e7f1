package scan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scopemap/cli/internal/domain"
)

func TestScanFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewScanner(nil).ScanFile(path)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestScanFileMissing(t *testing.T) {
	_, err := NewScanner(nil).ScanFile(filepath.Join(t.TempDir(), "missing.py"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestScanFilePython(t *testing.T) {
	source := `import os


class Store:
    def get(self, key):
        return self.data[key]


def main():
    pass
`
	path := filepath.Join(t.TempDir(), "store.py")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewScanner(nil).ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if result.Language != "Python" {
		t.Fatalf("expected Python, got %s", result.Language)
	}
	if len(result.Imports) != 1 {
		t.Fatalf("expected 1 import, got %v", result.Imports)
	}
	if len(result.Definitions) != 3 {
		t.Fatalf("expected 3 definitions, got %v", result.Definitions)
	}
}

func TestScanFileRust(t *testing.T) {
	source := `use std::fmt;

pub struct Point {
    x: i64,
}

impl Point {
    fn x(&self) -> i64 {
        self.x
    }
}
`
	path := filepath.Join(t.TempDir(), "point.rs")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewScanner(nil).ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if result.Language != "Rust" {
		t.Fatalf("expected Rust, got %s", result.Language)
	}
	if len(result.Imports) != 1 {
		t.Fatalf("expected 1 import, got %v", result.Imports)
	}
	// struct, impl block, and method.
	if len(result.Definitions) != 3 {
		t.Fatalf("expected 3 definitions, got %v", result.Definitions)
	}
}

func TestScanFileSQL(t *testing.T) {
	source := "CREATE TABLE users (id INT);\n\nCREATE VIEW names AS SELECT id FROM users;\n"
	path := filepath.Join(t.TempDir(), "schema.sql")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewScanner(nil).ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile() error: %v", err)
	}
	if result.Language != "SQL" {
		t.Fatalf("expected SQL, got %s", result.Language)
	}
	if len(result.Definitions) != 2 {
		t.Fatalf("expected 2 definitions, got %v", result.Definitions)
	}
}

func TestFormatTree(t *testing.T) {
	result := &Result{
		Path:       "/tmp/example.py",
		Language:   "Python",
		TotalLines: 50,
		Imports: []domain.ImportInfo{
			{TargetModule: "os", Line: 1},
			{TargetModule: "sys", Line: 12},
		},
		Definitions: []domain.DefinitionInfo{
			{ID: 0, Name: "UserManager", Kind: domain.DefClass, Parent: -1, StartLine: 5, EndLine: 25},
			{ID: 1, Name: "__init__", Kind: domain.DefMethod, Parent: 0, StartLine: 6, EndLine: 8},
			{ID: 2, Name: "create_user", Kind: domain.DefMethod, Parent: 0, StartLine: 10, EndLine: 15},
			{ID: 3, Name: "main", Kind: domain.DefFunction, Parent: -1, StartLine: 34, EndLine: 50},
		},
	}

	tree := result.FormatTree()
	for _, want := range []string{
		"example.py (1-50)",
		"├─ imports: 2 statements (1-12)",
		"├─ class: UserManager (5-25)",
		"│  ├─ method: __init__ (6-8)",
		"│  └─ method: create_user (10-15)",
		"└─ function: main (34-50)",
	} {
		if !strings.Contains(tree, want) {
			t.Fatalf("expected tree to contain %q, got:\n%s", want, tree)
		}
	}
}

func TestFormatTreeEmpty(t *testing.T) {
	result := &Result{Path: "empty.py", TotalLines: 1}
	if !strings.Contains(result.FormatTree(), "(no structure found)") {
		t.Fatalf("expected placeholder for empty file, got:\n%s", result.FormatTree())
	}
}
