package analyzer

import (
	"path"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsjavascript "github.com/smacker/go-tree-sitter/javascript"
	tstypescript "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/scopemap/cli/internal/domain"
)

// ScriptAnalyzer covers JavaScript and TypeScript, which share node shapes
// across their tree-sitter grammars. Two instances are registered, one per
// grammar.
type ScriptAnalyzer struct {
	language   string
	extensions []string
	grammar    *sitter.Language
}

func NewJavaScriptAnalyzer() *ScriptAnalyzer {
	return &ScriptAnalyzer{
		language:   "JavaScript",
		extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		grammar:    tsjavascript.GetLanguage(),
	}
}

func NewTypeScriptAnalyzer() *ScriptAnalyzer {
	return &ScriptAnalyzer{
		language:   "TypeScript",
		extensions: []string{".ts", ".tsx"},
		grammar:    tstypescript.GetLanguage(),
	}
}

func (s *ScriptAnalyzer) LanguageName() string      { return s.language }
func (s *ScriptAnalyzer) Extensions() []string      { return s.extensions }
func (s *ScriptAnalyzer) Priority() int             { return 10 }
func (s *ScriptAnalyzer) Grammar() *sitter.Language { return s.grammar }

func (s *ScriptAnalyzer) ShouldAnalyze(p string) bool {
	base := path.Base(p)
	// Bundled or minified output carries no structure worth mapping.
	return !strings.Contains(base, ".min.") && !strings.HasSuffix(base, ".bundle.js")
}

const scriptImportQuery = `
(import_statement
    source: (string) @source) @stmt

(call_expression
    function: (identifier) @fn
    arguments: (arguments (string) @source)
    (#eq? @fn "require")) @stmt
`

var (
	jsImportRe  = regexp.MustCompile(`(?m)^\s*import\s+(?:.+?\s+from\s+)?['"]([^'"]+)['"]`)
	jsRequireRe = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

func (s *ScriptAnalyzer) ExtractImports(src *Source) []domain.ImportInfo {
	var imports []domain.ImportInfo

	ok := runQuery(src, scriptImportQuery, func(caps map[string]*sitter.Node) {
		source := caps["source"]
		if source == nil {
			return
		}
		module := strings.Trim(source.Content(src.Content), `'"`)
		imports = append(imports, s.importFor(src.Path, module, nodeLine(caps["stmt"])))
	})
	if ok {
		return imports
	}

	content := string(src.Content)
	for _, m := range jsImportRe.FindAllStringSubmatchIndex(content, -1) {
		imports = append(imports, s.importFor(src.Path, content[m[2]:m[3]], lineOfOffset(src.Content, m[0])))
	}
	for _, m := range jsRequireRe.FindAllStringSubmatchIndex(content, -1) {
		imports = append(imports, s.importFor(src.Path, content[m[2]:m[3]], lineOfOffset(src.Content, m[0])))
	}
	return imports
}

func (s *ScriptAnalyzer) importFor(file, module string, line int) domain.ImportInfo {
	imp := domain.ImportInfo{
		SourceFile:   file,
		TargetModule: module,
		Line:         line,
	}
	if strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../") {
		imp.IsRelative = true
		imp.TargetModule = path.Clean(path.Join(path.Dir(file), module))
	}
	return imp
}

var (
	jsMainFuncRe      = regexp.MustCompile(`(?m)^(?:async\s+)?function\s+main\s*\(`)
	jsListenRe        = regexp.MustCompile(`(\w+)\.listen\s*\(`)
	jsCreateServerRe  = regexp.MustCompile(`(?:createServer|createApp)\s*\(`)
	jsExportDefaultRe = regexp.MustCompile(`(?m)^export\s+default\s+(\w+)?`)
	jsModuleExportsRe = regexp.MustCompile(`(?m)^module\.exports\s*=`)
)

func (s *ScriptAnalyzer) FindEntryPoints(src *Source) []domain.EntryPointInfo {
	var eps []domain.EntryPointInfo
	content := string(src.Content)

	if m := jsMainFuncRe.FindStringIndex(content); m != nil {
		eps = append(eps, domain.EntryPointInfo{
			File: src.Path,
			Kind: domain.EntryMainFunction,
			Name: "main",
			Line: lineOfOffset(src.Content, m[0]),
		})
	}
	if m := jsListenRe.FindStringSubmatchIndex(content); m != nil {
		eps = append(eps, domain.EntryPointInfo{
			File:      src.Path,
			Kind:      domain.EntryAppInstance,
			Name:      content[m[2]:m[3]],
			Line:      lineOfOffset(src.Content, m[0]),
			Framework: "http",
		})
	} else if m := jsCreateServerRe.FindStringIndex(content); m != nil {
		eps = append(eps, domain.EntryPointInfo{
			File:      src.Path,
			Kind:      domain.EntryAppInstance,
			Name:      "server",
			Line:      lineOfOffset(src.Content, m[0]),
			Framework: "http",
		})
	}

	base := path.Base(src.Path)
	isIndex := strings.HasPrefix(base, "index.")
	if m := jsExportDefaultRe.FindStringSubmatchIndex(content); m != nil && isIndex {
		name := "default"
		if m[2] >= 0 {
			name = content[m[2]:m[3]]
		}
		eps = append(eps, domain.EntryPointInfo{
			File: src.Path,
			Kind: domain.EntryExport,
			Name: name,
			Line: lineOfOffset(src.Content, m[0]),
		})
	}
	if m := jsModuleExportsRe.FindStringIndex(content); m != nil && isIndex {
		eps = append(eps, domain.EntryPointInfo{
			File: src.Path,
			Kind: domain.EntryExport,
			Name: "module.exports",
			Line: lineOfOffset(src.Content, m[0]),
		})
	}
	return eps
}

const scriptDefinitionQuery = `
(function_declaration
    name: (identifier) @func_name) @func_def

(class_declaration
    name: (identifier) @class_name) @class_def

(method_definition
    name: (property_identifier) @method_name) @method_def

(variable_declarator
    name: (identifier) @arrow_name
    value: (arrow_function)) @arrow_def
`

var (
	jsFuncDefRe  = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)`)
	jsClassDefRe = regexp.MustCompile(`(?m)^\s*(?:export\s+)?class\s+(\w+)`)
)

func (s *ScriptAnalyzer) ExtractDefinitions(src *Source) []domain.DefinitionInfo {
	var defs []domain.DefinitionInfo
	add := func(name string, node *sitter.Node, kind domain.DefinitionKind) {
		defs = append(defs, domain.DefinitionInfo{
			ID:        len(defs),
			Name:      name,
			Kind:      kind,
			Parent:    -1,
			Signature: signatureAt(src.Content, nodeLine(node)),
			File:      src.Path,
			StartLine: nodeLine(node),
			EndLine:   nodeEndLine(node),
		})
	}

	ok := runQuery(src, scriptDefinitionQuery, func(caps map[string]*sitter.Node) {
		switch {
		case caps["func_def"] != nil:
			add(caps["func_name"].Content(src.Content), caps["func_def"], domain.DefFunction)
		case caps["class_def"] != nil:
			add(caps["class_name"].Content(src.Content), caps["class_def"], domain.DefClass)
		case caps["method_def"] != nil:
			add(caps["method_name"].Content(src.Content), caps["method_def"], domain.DefFunction)
		case caps["arrow_def"] != nil:
			add(caps["arrow_name"].Content(src.Content), caps["arrow_def"], domain.DefFunction)
		}
	})
	if !ok {
		content := string(src.Content)
		for _, m := range jsClassDefRe.FindAllStringSubmatchIndex(content, -1) {
			line := lineOfOffset(src.Content, m[0])
			defs = append(defs, domain.DefinitionInfo{
				ID: len(defs), Name: content[m[2]:m[3]], Kind: domain.DefClass, Parent: -1,
				Signature: signatureAt(src.Content, line), File: src.Path, StartLine: line, EndLine: line,
			})
		}
		for _, m := range jsFuncDefRe.FindAllStringSubmatchIndex(content, -1) {
			line := lineOfOffset(src.Content, m[0])
			defs = append(defs, domain.DefinitionInfo{
				ID: len(defs), Name: content[m[2]:m[3]], Kind: domain.DefFunction, Parent: -1,
				Signature: signatureAt(src.Content, line), File: src.Path, StartLine: line, EndLine: line,
			})
		}
	}

	attachMethodsToClasses(defs)
	return defs
}

const scriptCallQuery = `
(call_expression
    function: (identifier) @simple_callee) @call

(call_expression
    function: (member_expression
        property: (property_identifier) @attr_callee)) @call
`

func (s *ScriptAnalyzer) ExtractCalls(src *Source, defs []domain.DefinitionInfo) []domain.CallInfo {
	var calls []domain.CallInfo
	runQuery(src, scriptCallQuery, func(caps map[string]*sitter.Node) {
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
