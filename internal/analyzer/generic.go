package analyzer

import (
	"path/filepath"

	"github.com/go-enry/go-enry/v2"

	"github.com/scopemap/cli/internal/domain"
)

// GenericAnalyzer is the catch-all for extensions no specific analyzer
// claims. It contributes nothing to the graphs but keeps the file present in
// discovery and clustering output.
type GenericAnalyzer struct{}

func NewGenericAnalyzer() *GenericAnalyzer { return &GenericAnalyzer{} }

// LanguageName is only used for display, so a best-effort enry guess by file
// name is enough.
func (g *GenericAnalyzer) LanguageName() string { return "Generic" }

// LanguageFor guesses the language of a file by name, falling back to the
// extension when enry has no opinion.
func (g *GenericAnalyzer) LanguageFor(path string) string {
	if lang, ok := enry.GetLanguageByExtension(path); ok {
		return lang
	}
	if lang, ok := enry.GetLanguageByFilename(path); ok {
		return lang
	}
	return filepath.Ext(path)
}

func (g *GenericAnalyzer) Extensions() []string { return nil }

func (g *GenericAnalyzer) Priority() int { return 0 }

func (g *GenericAnalyzer) ShouldAnalyze(path string) bool { return true }

func (g *GenericAnalyzer) ExtractImports(src *Source) []domain.ImportInfo { return nil }

func (g *GenericAnalyzer) FindEntryPoints(src *Source) []domain.EntryPointInfo { return nil }
