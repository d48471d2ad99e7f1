package analyzer

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/scopemap/cli/internal/domain"
)

// RustAnalyzer extracts structure from Rust sources. Inherent-impl blocks
// become class-like definitions named after their type, so methods nest the
// same way Python methods nest under their class.
type RustAnalyzer struct{}

func NewRustAnalyzer() *RustAnalyzer { return &RustAnalyzer{} }

func (r *RustAnalyzer) LanguageName() string      { return "Rust" }
func (r *RustAnalyzer) Extensions() []string      { return []string{".rs"} }
func (r *RustAnalyzer) Priority() int             { return 10 }
func (r *RustAnalyzer) Grammar() *sitter.Language { return tsrust.GetLanguage() }

func (r *RustAnalyzer) ShouldAnalyze(path string) bool {
	return !strings.Contains(path, "/target/")
}

const rustImportQuery = `
(use_declaration
    argument: (_) @path) @stmt
`

var rustUseRe = regexp.MustCompile(`(?m)^\s*(?:pub\s+)?use\s+([\w:]+)`)

func (r *RustAnalyzer) ExtractImports(src *Source) []domain.ImportInfo {
	var imports []domain.ImportInfo

	ok := runQuery(src, rustImportQuery, func(caps map[string]*sitter.Node) {
		p := caps["path"]
		if p == nil {
			return
		}
		imports = append(imports, rustImportFor(src.Path, p.Content(src.Content), nodeLine(caps["stmt"])))
	})
	if ok {
		return imports
	}

	content := string(src.Content)
	for _, m := range rustUseRe.FindAllStringSubmatchIndex(content, -1) {
		imports = append(imports, rustImportFor(src.Path, content[m[2]:m[3]], lineOfOffset(src.Content, m[0])))
	}
	return imports
}

// rustImportFor reports a use declaration. crate/self/super paths are
// crate-relative, so they are rewritten to slash paths the import graph can
// match against project files; external crates stay verbatim.
func rustImportFor(file, module string, line int) domain.ImportInfo {
	// Drop grouped or glob tails: "util::{a, b}", "util::*".
	if i := strings.IndexAny(module, "{*"); i >= 0 {
		module = module[:i]
	}
	module = strings.TrimSuffix(strings.TrimSpace(module), "::")
	imp := domain.ImportInfo{
		SourceFile:   file,
		TargetModule: module,
		Line:         line,
	}
	parts := strings.Split(module, "::")
	switch parts[0] {
	case "crate":
		// The crate root is taken to be the conventional src/ directory.
		imp.IsRelative = true
		imp.TargetModule = "src/" + strings.Join(parts[1:], "/")
	case "self", "super":
		dir := ""
		if i := strings.LastIndex(file, "/"); i >= 0 {
			dir = file[:i]
		}
		if parts[0] == "super" && dir != "" {
			if j := strings.LastIndex(dir, "/"); j >= 0 {
				dir = dir[:j]
			} else {
				dir = ""
			}
		}
		rest := strings.Join(parts[1:], "/")
		imp.IsRelative = true
		if dir != "" {
			imp.TargetModule = dir + "/" + rest
		} else {
			imp.TargetModule = rest
		}
	}
	return imp
}

const rustMainQuery = `
(function_item
    name: (identifier) @name
    (#eq? @name "main")) @main_func
`

var rustMainFuncRe = regexp.MustCompile(`(?m)^(?:pub\s+)?(?:async\s+)?fn\s+main\s*\(`)

func (r *RustAnalyzer) FindEntryPoints(src *Source) []domain.EntryPointInfo {
	var eps []domain.EntryPointInfo
	ok := runQuery(src, rustMainQuery, func(caps map[string]*sitter.Node) {
		if n := caps["main_func"]; n != nil {
			eps = append(eps, domain.EntryPointInfo{
				File: src.Path,
				Kind: domain.EntryMainFunction,
				Name: "main",
				Line: nodeLine(n),
			})
		}
	})
	if !ok {
		if m := rustMainFuncRe.FindStringIndex(string(src.Content)); m != nil {
			eps = append(eps, domain.EntryPointInfo{
				File: src.Path,
				Kind: domain.EntryMainFunction,
				Name: "main",
				Line: lineOfOffset(src.Content, m[0]),
			})
		}
	}
	return eps
}

const rustDefinitionQuery = `
(struct_item
    name: (type_identifier) @type_name) @type_def

(enum_item
    name: (type_identifier) @type_name) @type_def

(trait_item
    name: (type_identifier) @type_name) @type_def

(impl_item
    type: (_) @impl_name) @impl_def

(function_item
    name: (identifier) @func_name) @func_def
`

var (
	rustTypeDefRe = regexp.MustCompile(`(?m)^\s*(?:pub\s+)?(?:struct|enum|trait)\s+(\w+)`)
	rustFnDefRe   = regexp.MustCompile(`(?m)^(\s*)(?:pub\s+)?(?:async\s+)?fn\s+(\w+)`)
)

func (r *RustAnalyzer) ExtractDefinitions(src *Source) []domain.DefinitionInfo {
	var defs []domain.DefinitionInfo
	add := func(name string, kind domain.DefinitionKind, start, end int) {
		defs = append(defs, domain.DefinitionInfo{
			ID:        len(defs),
			Name:      name,
			Kind:      kind,
			Parent:    -1,
			Signature: signatureAt(src.Content, start),
			File:      src.Path,
			StartLine: start,
			EndLine:   end,
		})
	}

	ok := runQuery(src, rustDefinitionQuery, func(caps map[string]*sitter.Node) {
		switch {
		case caps["type_def"] != nil:
			n := caps["type_def"]
			add(caps["type_name"].Content(src.Content), domain.DefClass, nodeLine(n), nodeEndLine(n))
		case caps["impl_def"] != nil:
			// The impl block is the class-like container its functions nest
			// under; the name is the implemented type, generics stripped.
			n := caps["impl_def"]
			name := caps["impl_name"].Content(src.Content)
			if i := strings.Index(name, "<"); i >= 0 {
				name = name[:i]
			}
			add(name, domain.DefClass, nodeLine(n), nodeEndLine(n))
		case caps["func_def"] != nil:
			n := caps["func_def"]
			add(caps["func_name"].Content(src.Content), domain.DefFunction, nodeLine(n), nodeEndLine(n))
		}
	})
	if !ok {
		defs = r.extractDefinitionsRegex(src)
	}

	attachMethodsToClasses(defs)
	return defs
}

func (r *RustAnalyzer) extractDefinitionsRegex(src *Source) []domain.DefinitionInfo {
	content := string(src.Content)
	lines := strings.Split(content, "\n")

	var defs []domain.DefinitionInfo
	for _, m := range rustTypeDefRe.FindAllStringSubmatchIndex(content, -1) {
		line := lineOfOffset(src.Content, m[0])
		defs = append(defs, domain.DefinitionInfo{
			ID: len(defs), Name: content[m[2]:m[3]], Kind: domain.DefClass, Parent: -1,
			Signature: signatureAt(src.Content, line), File: src.Path, StartLine: line, EndLine: line,
		})
	}
	for _, m := range rustFnDefRe.FindAllStringSubmatchIndex(content, -1) {
		line := lineOfOffset(src.Content, m[0])
		defs = append(defs, domain.DefinitionInfo{
			ID: len(defs), Name: content[m[4]:m[5]], Kind: domain.DefFunction, Parent: -1,
			Signature: signatureAt(src.Content, line), File: src.Path, StartLine: line, EndLine: len(lines),
		})
	}
	return defs
}

const rustCallQuery = `
(call_expression
    function: (identifier) @simple_callee) @call

(call_expression
    function: (field_expression
        field: (field_identifier) @attr_callee)) @call

(call_expression
    function: (scoped_identifier
        name: (identifier) @attr_callee)) @call
`

func (r *RustAnalyzer) ExtractCalls(src *Source, defs []domain.DefinitionInfo) []domain.CallInfo {
	var calls []domain.CallInfo
	runQuery(src, rustCallQuery, func(caps map[string]*sitter.Node) {
		call := caps["call"]
		line := nodeLine(call)
		info := domain.CallInfo{
			CallerID: enclosingDefinition(defs, line),
			Line:     line,
		}
		switch {
		case caps["simple_callee"] != nil:
			info.CalleeName = caps["simple_callee"].Content(src.Content)
			info.Qualifier = domain.CallSimple
		case caps["attr_callee"] != nil:
			info.CalleeName = caps["attr_callee"].Content(src.Content)
			info.Qualifier = domain.CallAttribute
		default:
			return
		}
		calls = append(calls, info)
	})
	return calls
}
