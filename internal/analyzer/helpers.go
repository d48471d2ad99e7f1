package analyzer

import (
	"strings"

	"github.com/scopemap/cli/internal/domain"
)

// signatureAt returns the trimmed source text of the given 1-based line,
// used as a definition's signature.
func signatureAt(content []byte, line int) string {
	lines := strings.Split(string(content), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	sig := strings.TrimSpace(lines[line-1])
	sig = strings.TrimSuffix(sig, "{")
	sig = strings.TrimSuffix(sig, ":")
	return strings.TrimSpace(sig)
}

// enclosingDefinition returns the file-local index of the innermost function
// or method definition whose line range contains the given line, or -1 when
// the line belongs to module-level code.
func enclosingDefinition(defs []domain.DefinitionInfo, line int) int {
	best := -1
	for i, d := range defs {
		if d.Kind == domain.DefClass {
			continue
		}
		if line < d.StartLine || line > d.EndLine {
			continue
		}
		if best == -1 || d.StartLine > defs[best].StartLine {
			best = i
		}
	}
	return best
}

// lineOfOffset converts a byte offset into a 1-based line number.
func lineOfOffset(content []byte, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(string(content[:offset]), "\n") + 1
}
