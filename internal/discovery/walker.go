// Package discovery lists candidate files for analysis, filtering out the
// noise directories and artifacts no code map should look at.
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are directory names excluded at any depth: VCS internals, package
// caches, virtualenvs, build outputs, IDE state.
var skipDirs = map[string]struct{}{
	".git": {}, ".svn": {}, ".hg": {},
	"node_modules": {}, "bower_components": {}, "vendor": {},
	"__pycache__": {}, ".venv": {}, "venv": {}, ".virtualenv": {}, "virtualenv": {},
	".tox": {}, ".nox": {}, ".pytest_cache": {}, ".mypy_cache": {}, ".ruff_cache": {},
	"dist": {}, "build": {}, "out": {}, "target": {}, "obj": {},
	"coverage": {}, "htmlcov": {}, ".nyc_output": {},
	".next": {}, ".nuxt": {}, ".output": {}, ".cache": {},
	".idea": {}, ".vscode": {}, ".vs": {},
	".terraform": {}, ".gradle": {},
}

// skipFileSuffixes are single files that are pure noise for structural
// analysis.
var skipFileSuffixes = []string{
	".min.js", ".min.css", ".map",
	".pyc", ".pyo", ".class", ".o", ".so", ".dylib", ".dll", ".exe",
	".lock",
}

// Walker lists project files under a root, applying built-in skip rules plus
// caller-supplied exclude globs. The pipeline treats its output as a finite,
// ordered, already-filtered input.
type Walker struct {
	root     string
	excludes []string
	maxFiles int
}

// NewWalker creates a Walker for root. excludes are doublestar globs matched
// against root-relative paths; maxFiles caps the listing as a safety limit
// (0 means no cap).
func NewWalker(root string, excludes []string, maxFiles int) *Walker {
	return &Walker{root: root, excludes: excludes, maxFiles: maxFiles}
}

// List returns root-relative paths of all candidate files, sorted for
// deterministic downstream output.
func (w *Walker) List() ([]string, error) {
	var files []string

	err := filepath.WalkDir(w.root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if de != nil && de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if de.IsDir() {
			if _, skip := skipDirs[de.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if w.skipFile(rel) {
			return nil
		}
		if w.maxFiles > 0 && len(files) >= w.maxFiles {
			return filepath.SkipAll
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (w *Walker) skipFile(rel string) bool {
	for _, suffix := range skipFileSuffixes {
		if strings.HasSuffix(rel, suffix) {
			return true
		}
	}
	base := filepath.Base(rel)
	if base == ".DS_Store" || strings.HasPrefix(base, ".#") {
		return true
	}
	for _, pattern := range w.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
