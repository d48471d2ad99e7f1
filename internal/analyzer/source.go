package analyzer

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// Source bundles a file's content with a lazily parsed syntax tree so that
// import, entry-point, definition, and call extraction all share one parse.
// A Source is used by a single worker at a time and must be Closed when the
// file's extraction phase is done.
type Source struct {
	Path    string
	Content []byte

	ctx      context.Context
	lang     *sitter.Language
	tree     *sitter.Tree
	parseErr error
	parsed   bool
}

// NewSource creates a Source for a file. lang may be nil for analyzers that
// work purely on text patterns.
func NewSource(path string, content []byte, lang *sitter.Language) *Source {
	return &Source{Path: path, Content: content, ctx: context.Background(), lang: lang}
}

// WithContext attaches a context to parsing, letting the pipeline bound the
// time one malformed file can consume.
func (s *Source) WithContext(ctx context.Context) *Source {
	if ctx != nil {
		s.ctx = ctx
	}
	return s
}

// Tree parses the content on first use and returns the cached tree
// afterwards. It returns nil when no grammar is attached or parsing failed;
// callers are expected to fall back to pattern extraction in that case.
func (s *Source) Tree() *sitter.Tree {
	if s.parsed || s.lang == nil {
		return s.tree
	}
	s.parsed = true

	parser := sitter.NewParser()
	parser.SetLanguage(s.lang)
	tree, err := parser.ParseCtx(s.ctx, nil, s.Content)
	if err != nil {
		s.parseErr = err
		return nil
	}
	s.tree = tree
	return s.tree
}

// ParseFailed reports whether a parse was attempted and failed. Files for
// which this is true are recorded as low-confidence by the pipeline.
func (s *Source) ParseFailed() bool {
	return s.parsed && s.parseErr != nil
}

// Close releases the parse tree, if any.
func (s *Source) Close() {
	if s.tree != nil {
		s.tree.Close()
		s.tree = nil
	}
}

// runQuery executes a tree-sitter query against the source tree and invokes
// fn once per match with the match's captures keyed by capture name. It
// returns false when the tree is unavailable or the query does not compile,
// signalling the caller to use its pattern-based fallback path.
func runQuery(src *Source, queryStr string, fn func(caps map[string]*sitter.Node)) bool {
	tree := src.Tree()
	if tree == nil {
		return false
	}

	q, err := sitter.NewQuery([]byte(queryStr), src.lang)
	if err != nil {
		return false
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, src.Content)
		if len(m.Captures) == 0 {
			continue
		}
		caps := make(map[string]*sitter.Node, len(m.Captures))
		for _, c := range m.Captures {
			caps[q.CaptureNameForId(c.Index)] = c.Node
		}
		fn(caps)
	}
	return true
}

// nodeLine returns the 1-based start line of a node.
func nodeLine(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// nodeEndLine returns the 1-based end line of a node.
func nodeEndLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}
