package codemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scopemap/cli/internal/domain"
)

func TestBuildImportGraphChain(t *testing.T) {
	files := []string{"a.py", "b.py", "c.py"}
	imports := []domain.ImportInfo{
		{SourceFile: "a.py", TargetModule: "b", Line: 1},
		{SourceFile: "b.py", TargetModule: "c", Line: 1},
	}

	graph, deps := buildImportGraph(files, imports)
	require.Len(t, graph, 3)
	require.Len(t, deps, 2)

	assert.Equal(t, []string{"b.py"}, graph["a.py"].Imports)
	assert.Equal(t, []string{"a.py"}, graph["b.py"].ImportedBy)
	assert.Equal(t, []string{"b.py"}, graph["c.py"].ImportedBy)

	// a imports 1: score 1. b is imported once and imports once: 2+1. c is
	// imported once: 2.
	calculateFileCentrality(graph)
	assert.Equal(t, 1, graph["a.py"].Centrality)
	assert.Equal(t, 3, graph["b.py"].Centrality)
	assert.Equal(t, 2, graph["c.py"].Centrality)
}

func TestBuildImportGraphExternalImportNoEdge(t *testing.T) {
	files := []string{"a.py"}
	imports := []domain.ImportInfo{
		{SourceFile: "a.py", TargetModule: "numpy", Line: 1},
	}

	graph, deps := buildImportGraph(files, imports)
	assert.Empty(t, deps)
	assert.Empty(t, graph["a.py"].Imports)
	// The unresolved import is kept as metadata.
	require.Len(t, graph["a.py"].RawImports, 1)
	assert.Empty(t, graph["a.py"].RawImports[0].ResolvedFile)
}

func TestBuildImportGraphDuplicateImportsCollapse(t *testing.T) {
	files := []string{"a.py", "b.py"}
	imports := []domain.ImportInfo{
		{SourceFile: "a.py", TargetModule: "b", Line: 1},
		{SourceFile: "a.py", TargetModule: "b", Line: 2},
	}

	graph, deps := buildImportGraph(files, imports)
	assert.Len(t, deps, 1)
	assert.Equal(t, []string{"b.py"}, graph["a.py"].Imports)
	assert.Equal(t, []string{"a.py"}, graph["b.py"].ImportedBy)
}

func TestResolveImportToFile(t *testing.T) {
	files := []string{
		"pkg/utils.py",
		"pkg/models/__init__.py",
		"src/index.ts",
		"internal/server/server.go",
		"internal/server/handler.go",
	}
	fileSet := make(map[string]struct{})
	dirFiles := make(map[string][]string)
	for _, f := range files {
		fileSet[f] = struct{}{}
	}
	dirFiles["pkg"] = []string{"pkg/utils.py"}
	dirFiles["pkg/models"] = []string{"pkg/models/__init__.py"}
	dirFiles["src"] = []string{"src/index.ts"}
	dirFiles["internal/server"] = []string{"internal/server/handler.go", "internal/server/server.go"}

	cases := []struct {
		module string
		want   string
	}{
		{"pkg.utils", "pkg/utils.py"},
		{"pkg.models", "pkg/models/__init__.py"},
		{"pkg/utils", "pkg/utils.py"},
		{"src", "src/index.ts"},
		// Go package path: module prefix stripped, first file of the
		// directory in sorted order.
		{"github.com/acme/app/internal/server", "internal/server/handler.go"},
		{"requests", ""},
		{"", ""},
	}
	for _, tc := range cases {
		got := resolveImportToFile(tc.module, fileSet, dirFiles)
		assert.Equal(t, tc.want, got, "module %q", tc.module)
	}
}
