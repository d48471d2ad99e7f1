package codemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scopemap/cli/internal/domain"
)

func TestClassifyFilePriorityChain(t *testing.T) {
	cases := []struct {
		name        string
		node        *domain.FileNode
		entryPoints int
		want        domain.ClusterName
	}{
		{
			// An entry point outranks everything, even a test-looking name.
			name:        "entry point wins over test name",
			node:        &domain.FileNode{Path: "tests/test_main.py"},
			entryPoints: 1,
			want:        domain.ClusterEntryPoints,
		},
		{
			name: "test file",
			node: &domain.FileNode{Path: "tests/test_api.py"},
			want: domain.ClusterTests,
		},
		{
			name: "go test file",
			node: &domain.FileNode{Path: "internal/server/server_test.go"},
			want: domain.ClusterTests,
		},
		{
			name: "spec file",
			node: &domain.FileNode{Path: "src/api.spec.ts"},
			want: domain.ClusterTests,
		},
		{
			name: "config by extension",
			node: &domain.FileNode{Path: "deploy/settings.yaml"},
			want: domain.ClusterConfig,
		},
		{
			name: "config by name",
			node: &domain.FileNode{Path: "src/config.py"},
			want: domain.ClusterConfig,
		},
		{
			// Config outranks core logic even when heavily imported.
			name: "config wins over in-degree",
			node: &domain.FileNode{Path: "settings.py", ImportedBy: []string{"a.py", "b.py", "c.py"}},
			want: domain.ClusterConfig,
		},
		{
			name: "core logic by in-degree",
			node: &domain.FileNode{Path: "src/engine.py", ImportedBy: []string{"a.py", "b.py"}},
			want: domain.ClusterCoreLogic,
		},
		{
			// One importer is not enough for core.
			name: "single importer plugin name",
			node: &domain.FileNode{Path: "src/auth_handler.py", ImportedBy: []string{"a.py"}},
			want: domain.ClusterPlugins,
		},
		{
			// The bare word is not a plugin suffix match.
			name: "bare handler name",
			node: &domain.FileNode{Path: "src/handler.py"},
			want: domain.ClusterUtilities,
		},
		{
			name: "everything else",
			node: &domain.FileNode{Path: "src/helpers.py"},
			want: domain.ClusterUtilities,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyFile(tc.node, tc.entryPoints))
		})
	}
}
