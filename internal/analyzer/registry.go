package analyzer

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry maps file extensions to the single analyzer responsible for
// them. It is built once and read-only afterwards; pass it into the pipeline
// explicitly so tests can swap in fakes.
type Registry struct {
	byExt    map[string]Analyzer
	fallback Analyzer
}

// NewRegistry builds a registry from the given analyzers plus a catch-all
// fallback. When two analyzers claim the same extension the one with the
// higher Priority wins, independent of registration order.
func NewRegistry(fallback Analyzer, analyzers ...Analyzer) *Registry {
	ordered := make([]Analyzer, len(analyzers))
	copy(ordered, analyzers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	byExt := make(map[string]Analyzer)
	for _, a := range ordered {
		for _, ext := range a.Extensions() {
			byExt[strings.ToLower(ext)] = a
		}
	}
	return &Registry{byExt: byExt, fallback: fallback}
}

// ForPath returns the analyzer responsible for the given file path. Files
// without a registered extension get the catch-all analyzer.
func (r *Registry) ForPath(path string) Analyzer {
	ext := strings.ToLower(filepath.Ext(path))
	if a, ok := r.byExt[ext]; ok {
		return a
	}
	return r.fallback
}

// Languages returns the distinct language names of the registered analyzers,
// fallback excluded, sorted for stable output.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)
	for _, a := range r.byExt {
		seen[a.LanguageName()] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry with all built-in
// analyzers. It is built lazily on first use and reused afterwards.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(
			NewGenericAnalyzer(),
			NewPythonAnalyzer(),
			NewJavaScriptAnalyzer(),
			NewTypeScriptAnalyzer(),
			NewGoAnalyzer(),
			NewRustAnalyzer(),
			NewSQLAnalyzer(),
		)
	})
	return defaultRegistry
}
