// Package scan provides the single-file structure scan: a table of contents
// for one source file, with line ranges for every class, function, and
// method.
package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scopemap/cli/internal/analyzer"
	"github.com/scopemap/cli/internal/domain"
)

// ErrUnsupported marks file types no analyzer can extract structure from.
var ErrUnsupported = errors.New("unsupported file type")

// Result is the structure of a single scanned file.
type Result struct {
	Path        string                  `json:"path"`
	Language    string                  `json:"language"`
	TotalLines  int                     `json:"total_lines"`
	Imports     []domain.ImportInfo     `json:"imports,omitempty"`
	Definitions []domain.DefinitionInfo `json:"definitions,omitempty"`
}

// Scanner scans individual files through the same analyzer contract the
// pipeline uses.
type Scanner struct {
	registry *analyzer.Registry
}

func NewScanner(registry *analyzer.Registry) *Scanner {
	if registry == nil {
		registry = analyzer.DefaultRegistry()
	}
	return &Scanner{registry: registry}
}

// ScanFile reads and analyzes one file. Unsupported extensions return
// ErrUnsupported; unreadable files return the underlying error.
func (s *Scanner) ScanFile(path string) (*Result, error) {
	a := s.registry.ForPath(path)
	if _, generic := a.(*analyzer.GenericAnalyzer); generic {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rel := filepath.ToSlash(path)
	src := analyzer.NewSourceFor(a, rel, content)
	defer src.Close()

	res := &Result{
		Path:       path,
		Language:   a.LanguageName(),
		TotalLines: strings.Count(string(content), "\n") + 1,
		Imports:    a.ExtractImports(src),
	}
	if de, ok := a.(analyzer.DefinitionExtractor); ok {
		res.Definitions = de.ExtractDefinitions(src)
	}
	return res, nil
}

// FormatTree renders the result as an indented tree with line ranges:
//
//	example.py (1-50)
//	├─ imports: 3 statements (1-12)
//	├─ class: UserManager (5-25)
//	│  ├─ method: __init__ (6-8)
//	│  └─ method: create_user (10-15)
//	└─ function: main (34-50)
func (r *Result) FormatTree() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (1-%d)\n", filepath.Base(r.Path), r.TotalLines)

	type entry struct {
		text     string
		children []string
	}
	var entries []entry

	if len(r.Imports) > 0 {
		first, last := r.Imports[0].Line, r.Imports[0].Line
		for _, imp := range r.Imports {
			if imp.Line < first {
				first = imp.Line
			}
			if imp.Line > last {
				last = imp.Line
			}
		}
		entries = append(entries, entry{
			text: fmt.Sprintf("imports: %d statements (%d-%d)", len(r.Imports), first, last),
		})
	}

	for i, d := range r.Definitions {
		if d.Parent >= 0 {
			continue
		}
		e := entry{text: fmt.Sprintf("%s: %s (%d-%d)", d.Kind, d.Name, d.StartLine, d.EndLine)}
		for _, m := range r.Definitions {
			if m.Parent == i {
				e.children = append(e.children, fmt.Sprintf("%s: %s (%d-%d)", m.Kind, m.Name, m.StartLine, m.EndLine))
			}
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		b.WriteString("(no structure found)\n")
		return b.String()
	}

	for i, e := range entries {
		branch, indent := "├─", "│  "
		if i == len(entries)-1 {
			branch, indent = "└─", "   "
		}
		fmt.Fprintf(&b, "%s %s\n", branch, e.text)
		for j, child := range e.children {
			childBranch := "├─"
			if j == len(e.children)-1 {
				childBranch = "└─"
			}
			fmt.Fprintf(&b, "%s%s %s\n", indent, childBranch, child)
		}
	}
	return b.String()
}
