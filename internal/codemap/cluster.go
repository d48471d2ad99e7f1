package codemap

import (
	"path"
	"strings"

	"github.com/scopemap/cli/internal/domain"
)

// coreInDegreeThreshold is the minimum number of importers that marks a file
// as core logic.
const coreInDegreeThreshold = 2

// pluginNameSuffixes are file naming conventions that suggest a pluggable
// component when the file itself is barely imported.
var pluginNameSuffixes = []string{
	"_plugin", "_handler", "_adapter", "_provider", "_backend",
	"_driver", "_analyzer", "_detector",
	"plugin", "handler", "adapter", "provider", "backend",
}

var configExtensions = map[string]struct{}{
	".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".cfg": {},
	".conf": {}, ".env": {}, ".properties": {},
}

// classifyFile assigns exactly one cluster per file. The order is a fixed
// priority chain and the rendered architecture summary depends on it:
// entry point, then test, then config, then core logic (by in-degree), then
// plugin naming, then utility.
func classifyFile(node *domain.FileNode, entryPoints int) domain.ClusterName {
	if entryPoints > 0 {
		return domain.ClusterEntryPoints
	}
	if isTestFile(node.Path) {
		return domain.ClusterTests
	}
	if isConfigFile(node.Path) {
		return domain.ClusterConfig
	}
	if len(node.ImportedBy) >= coreInDegreeThreshold {
		return domain.ClusterCoreLogic
	}
	if isPluginName(node.Path) {
		return domain.ClusterPlugins
	}
	return domain.ClusterUtilities
}

func isTestFile(p string) bool {
	base := path.Base(p)
	if strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.go") ||
		strings.HasSuffix(base, "_test.py") {
		return true
	}
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, seg := range strings.Split(path.Dir(p), "/") {
		if seg == "test" || seg == "tests" || seg == "__tests__" || seg == "spec" {
			return true
		}
	}
	return false
}

func isConfigFile(p string) bool {
	base := path.Base(p)
	ext := path.Ext(base)
	if _, ok := configExtensions[ext]; ok {
		return true
	}
	if strings.HasPrefix(base, ".env") {
		return true
	}
	name := strings.TrimSuffix(base, ext)
	name = strings.ToLower(name)
	return name == "config" || name == "settings" || name == "setup" ||
		strings.HasSuffix(name, ".config") || strings.HasSuffix(name, "_config")
}

func isPluginName(p string) bool {
	base := path.Base(p)
	name := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	for _, suffix := range pluginNameSuffixes {
		if name != suffix && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
