package analyzer

import (
	"testing"

	"github.com/scopemap/cli/internal/domain"
)

type stubAnalyzer struct {
	name     string
	exts     []string
	priority int
}

func (s *stubAnalyzer) LanguageName() string           { return s.name }
func (s *stubAnalyzer) Extensions() []string           { return s.exts }
func (s *stubAnalyzer) Priority() int                  { return s.priority }
func (s *stubAnalyzer) ShouldAnalyze(path string) bool { return true }

func (s *stubAnalyzer) ExtractImports(src *Source) []domain.ImportInfo { return nil }
func (s *stubAnalyzer) FindEntryPoints(src *Source) []domain.EntryPointInfo {
	return nil
}

func TestRegistryHigherPriorityWinsExtension(t *testing.T) {
	low := &stubAnalyzer{name: "low", exts: []string{".x"}, priority: 1}
	high := &stubAnalyzer{name: "high", exts: []string{".x"}, priority: 5}

	// Registration order must not matter.
	for _, reg := range []*Registry{
		NewRegistry(NewGenericAnalyzer(), low, high),
		NewRegistry(NewGenericAnalyzer(), high, low),
	} {
		got := reg.ForPath("file.x")
		if got.LanguageName() != "high" {
			t.Fatalf("expected high-priority analyzer, got %s", got.LanguageName())
		}
	}
}

func TestRegistryForPathCaseInsensitive(t *testing.T) {
	a := &stubAnalyzer{name: "x", exts: []string{".x"}, priority: 1}
	reg := NewRegistry(NewGenericAnalyzer(), a)
	if got := reg.ForPath("FILE.X"); got.LanguageName() != "x" {
		t.Fatalf("expected extension match to ignore case, got %s", got.LanguageName())
	}
}

func TestRegistryFallback(t *testing.T) {
	reg := NewRegistry(NewGenericAnalyzer(), &stubAnalyzer{name: "x", exts: []string{".x"}, priority: 1})
	got := reg.ForPath("README.md")
	if _, ok := got.(*GenericAnalyzer); !ok {
		t.Fatalf("expected generic fallback, got %T", got)
	}
}

func TestDefaultRegistryLanguages(t *testing.T) {
	langs := DefaultRegistry().Languages()
	want := map[string]bool{
		"Python": false, "JavaScript": false, "TypeScript": false,
		"Go": false, "Rust": false, "SQL": false,
	}
	for _, l := range langs {
		if _, ok := want[l]; ok {
			want[l] = true
		}
	}
	for l, seen := range want {
		if !seen {
			t.Fatalf("expected %s in %v", l, langs)
		}
	}
}
