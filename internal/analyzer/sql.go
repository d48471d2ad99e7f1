package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/scopemap/cli/internal/domain"
)

// SQLAnalyzer extracts schema-level structure from SQL files: tables and
// views as class-like definitions, functions, procedures, and triggers as
// callables. SQL has no cross-file import statements, so these files never
// contribute edges to the import graph. Extraction is pattern-based; the
// tree-sitter bindings in use ship no SQL grammar.
type SQLAnalyzer struct{}

func NewSQLAnalyzer() *SQLAnalyzer { return &SQLAnalyzer{} }

func (s *SQLAnalyzer) LanguageName() string { return "SQL" }
func (s *SQLAnalyzer) Extensions() []string { return []string{".sql"} }
func (s *SQLAnalyzer) Priority() int        { return 10 }

func (s *SQLAnalyzer) ShouldAnalyze(path string) bool {
	// Migration dumps can be huge and generated; still structurally useful.
	return true
}

func (s *SQLAnalyzer) ExtractImports(src *Source) []domain.ImportInfo { return nil }

func (s *SQLAnalyzer) FindEntryPoints(src *Source) []domain.EntryPointInfo { return nil }

// One pattern per CREATE form. OR REPLACE, IF NOT EXISTS, and TEMP qualifiers
// are tolerated; quoting and backticks are stripped from the captured name.
var sqlCreateRes = []struct {
	re   *regexp.Regexp
	kind domain.DefinitionKind
}{
	{regexp.MustCompile(`(?im)^\s*CREATE\s+(?:TEMP(?:ORARY)?\s+)?TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?([\w."` + "`" + `]+)`), domain.DefClass},
	{regexp.MustCompile(`(?im)^\s*CREATE\s+(?:OR\s+REPLACE\s+)?(?:MATERIALIZED\s+)?VIEW\s+(?:IF\s+NOT\s+EXISTS\s+)?([\w."` + "`" + `]+)`), domain.DefClass},
	{regexp.MustCompile(`(?im)^\s*CREATE\s+(?:OR\s+REPLACE\s+)?FUNCTION\s+([\w."` + "`" + `]+)`), domain.DefFunction},
	{regexp.MustCompile(`(?im)^\s*CREATE\s+(?:OR\s+REPLACE\s+)?PROCEDURE\s+([\w."` + "`" + `]+)`), domain.DefFunction},
	{regexp.MustCompile(`(?im)^\s*CREATE\s+(?:OR\s+REPLACE\s+)?TRIGGER\s+(?:IF\s+NOT\s+EXISTS\s+)?([\w."` + "`" + `]+)`), domain.DefFunction},
	{regexp.MustCompile(`(?im)^\s*CREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:CONCURRENTLY\s+)?(?:IF\s+NOT\s+EXISTS\s+)?([\w."` + "`" + `]+)`), domain.DefFunction},
}

func (s *SQLAnalyzer) ExtractDefinitions(src *Source) []domain.DefinitionInfo {
	content := string(src.Content)

	var defs []domain.DefinitionInfo
	for _, cre := range sqlCreateRes {
		for _, m := range cre.re.FindAllStringSubmatchIndex(content, -1) {
			start := lineOfOffset(src.Content, m[0])
			defs = append(defs, domain.DefinitionInfo{
				ID:        len(defs),
				Name:      sqlObjectName(content[m[2]:m[3]]),
				Kind:      cre.kind,
				Parent:    -1,
				Signature: signatureAt(src.Content, start),
				File:      src.Path,
				StartLine: start,
				EndLine:   sqlStatementEnd(src.Content, m[0]),
			})
		}
	}

	// Pattern groups run one CREATE form at a time; restore source order.
	// IDs are file-local indices, so they follow the sort.
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].StartLine < defs[j].StartLine })
	for i := range defs {
		defs[i].ID = i
	}
	return defs
}

// sqlObjectName strips quoting and a leading schema qualifier:
// `public."Users"` reports as Users.
func sqlObjectName(raw string) string {
	raw = strings.Trim(raw, "\"`")
	if i := strings.LastIndex(raw, "."); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.Trim(raw, "\"`")
}

// sqlStatementEnd returns the line of the semicolon terminating the statement
// starting at offset, or the statement's own line when none follows.
func sqlStatementEnd(content []byte, offset int) int {
	if i := strings.IndexByte(string(content[offset:]), ';'); i >= 0 {
		return lineOfOffset(content, offset+i)
	}
	return lineOfOffset(content, offset)
}
