package codemap

import (
	"path"
	"sort"
	"strings"

	"github.com/scopemap/cli/internal/domain"
)

// sourceExtensions are tried, in order, when resolving an extensionless
// import target to a concrete file.
var sourceExtensions = []string{
	".py", ".pyw", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".go", ".rs",
}

// indexBasenames cover languages where importing a directory means
// importing its index file.
var indexBasenames = []string{
	"__init__.py", "index.ts", "index.tsx", "index.js", "index.jsx", "mod.rs",
}

// buildImportGraph assembles the file-level dependency graph. Every
// discovered file gets a node; an edge A -> B is added only when A's import
// resolves to project file B. Unresolvable imports stay on the node as
// metadata without producing an edge.
func buildImportGraph(files []string, imports []domain.ImportInfo) (map[string]*domain.FileNode, []domain.Dependency) {
	graph := make(map[string]*domain.FileNode, len(files))
	for _, f := range files {
		graph[f] = &domain.FileNode{Path: f}
	}

	fileSet := make(map[string]struct{}, len(files))
	dirFiles := make(map[string][]string)
	for _, f := range files {
		fileSet[f] = struct{}{}
		dir := path.Dir(f)
		dirFiles[dir] = append(dirFiles[dir], f)
	}
	for _, fs := range dirFiles {
		sort.Strings(fs)
	}

	var deps []domain.Dependency
	for i := range imports {
		imp := &imports[i]
		source, ok := graph[imp.SourceFile]
		if !ok {
			continue
		}
		source.RawImports = append(source.RawImports, *imp)

		target := resolveImportToFile(imp.TargetModule, fileSet, dirFiles)
		if target == "" || target == imp.SourceFile {
			continue
		}
		imp.ResolvedFile = target
		source.RawImports[len(source.RawImports)-1].ResolvedFile = target

		if !contains(source.Imports, target) {
			source.Imports = append(source.Imports, target)
			deps = append(deps, domain.Dependency{From: imp.SourceFile, To: target})
		}
		if node := graph[target]; !contains(node.ImportedBy, imp.SourceFile) {
			node.ImportedBy = append(node.ImportedBy, imp.SourceFile)
		}
	}

	return graph, deps
}

// resolveImportToFile maps a module name or path to a project file, or ""
// when the import is external or unresolvable. Candidate order is fixed so
// resolution is deterministic.
func resolveImportToFile(module string, fileSet map[string]struct{}, dirFiles map[string][]string) string {
	if module == "" {
		return ""
	}

	if strings.Contains(module, "/") {
		// Already path-like: relative imports resolved by the analyzer, or a
		// package path (Go).
		if _, ok := fileSet[module]; ok && hasSourceExtension(module) {
			return module
		}
		for _, ext := range sourceExtensions {
			if _, ok := fileSet[module+ext]; ok {
				return module + ext
			}
		}
		for _, base := range indexBasenames {
			if _, ok := fileSet[module+"/"+base]; ok {
				return module + "/" + base
			}
		}
		// A Rust use path names an item inside a module: "store/Db" lives
		// in store.rs or store/mod.rs.
		if i := strings.LastIndex(module, "/"); i >= 0 {
			parent := module[:i]
			if _, ok := fileSet[parent+".rs"]; ok {
				return parent + ".rs"
			}
			if _, ok := fileSet[parent+"/mod.rs"]; ok {
				return parent + "/mod.rs"
			}
		}
		return resolvePackageDir(module, dirFiles)
	}

	// Dotted module names (Python style): foo.bar.baz.
	parts := strings.Split(module, ".")
	candidates := []string{
		strings.Join(parts, "/") + ".py",
		strings.Join(parts, "/") + "/__init__.py",
	}
	if len(parts) > 1 {
		// Imports written against an installed package name often map to
		// paths with the leading package segment stripped.
		candidates = append(candidates,
			strings.Join(parts[1:], "/")+".py",
			strings.Join(parts[1:], "/")+"/__init__.py",
		)
	} else {
		for _, ext := range sourceExtensions {
			candidates = append(candidates, module+ext)
		}
		// A bare directory import (JS "./src" resolved to "src").
		for _, base := range indexBasenames {
			candidates = append(candidates, module+"/"+base)
		}
	}
	for _, c := range candidates {
		if _, ok := fileSet[c]; ok {
			return c
		}
	}
	return ""
}

// resolvePackageDir matches a package-path import (Go style) against project
// directories by progressively stripping leading segments, resolving to the
// first file of the matched directory.
func resolvePackageDir(module string, dirFiles map[string][]string) string {
	segments := strings.Split(module, "/")
	for i := 0; i < len(segments); i++ {
		dir := strings.Join(segments[i:], "/")
		files, ok := dirFiles[dir]
		if !ok {
			continue
		}
		for _, f := range files {
			if strings.HasSuffix(f, ".go") {
				return f
			}
		}
	}
	return ""
}

// calculateFileCentrality scores every node. The x2 weight biases toward
// being depended upon: a file many others import is more central than one
// that merely imports a lot.
func calculateFileCentrality(graph map[string]*domain.FileNode) {
	for _, node := range graph {
		node.Centrality = len(node.ImportedBy)*2 + len(node.Imports)
	}
}

func hasSourceExtension(p string) bool {
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
