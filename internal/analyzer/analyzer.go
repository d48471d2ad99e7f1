package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/scopemap/cli/internal/domain"
)

// Analyzer is the fixed per-language extraction contract. Implementations
// must never fail hard: when the underlying parser cannot handle a file they
// degrade to pattern-based extraction, and on total failure they return
// empty slices. The pipeline records such files as low-confidence instead of
// dropping them.
type Analyzer interface {
	// LanguageName is the human-readable language name (e.g. "Python").
	LanguageName() string
	// Extensions lists the file extensions this analyzer claims, with dots
	// (".py"). The registry resolves overlaps by Priority.
	Extensions() []string
	// Priority breaks ties when two analyzers claim the same extension.
	// Higher wins.
	Priority() int
	// ShouldAnalyze lets an analyzer veto individual files (generated
	// output, caches) even when the extension matches.
	ShouldAnalyze(path string) bool

	ExtractImports(src *Source) []domain.ImportInfo
	FindEntryPoints(src *Source) []domain.EntryPointInfo
}

// DefinitionExtractor is the optional deeper capability of extracting
// class/function/method definitions. Analyzers without it simply don't
// implement the interface; the pipeline checks with a type assertion.
//
// Returned definitions use file-local indices: ID is the index within the
// returned slice and Parent references that same slice (-1 for top-level).
// The pipeline rebases both into run-global IDs during aggregation.
type DefinitionExtractor interface {
	ExtractDefinitions(src *Source) []domain.DefinitionInfo
}

// CallExtractor is the optional capability of extracting raw call sites.
// CallerID uses the same file-local definition indices (-1 for module-level
// code). Callee names stay unresolved; resolution is a later phase.
type CallExtractor interface {
	ExtractCalls(src *Source, defs []domain.DefinitionInfo) []domain.CallInfo
}

// grammarProvider is implemented by analyzers backed by a tree-sitter
// grammar.
type grammarProvider interface {
	Grammar() *sitter.Language
}

// NewSourceFor builds a Source for the file, attaching the analyzer's
// grammar when it has one.
func NewSourceFor(a Analyzer, path string, content []byte) *Source {
	if gp, ok := a.(grammarProvider); ok {
		return NewSource(path, content, gp.Grammar())
	}
	return NewSource(path, content, nil)
}
