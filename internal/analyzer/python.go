package analyzer

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"

	"github.com/scopemap/cli/internal/domain"
)

// PythonAnalyzer extracts imports, entry points, definitions, and call sites
// from Python sources. Tree-sitter is the primary parser; every extraction
// has a regex fallback so malformed files still yield partial results.
type PythonAnalyzer struct{}

func NewPythonAnalyzer() *PythonAnalyzer { return &PythonAnalyzer{} }

func (p *PythonAnalyzer) LanguageName() string      { return "Python" }
func (p *PythonAnalyzer) Extensions() []string      { return []string{".py", ".pyw"} }
func (p *PythonAnalyzer) Priority() int             { return 10 }
func (p *PythonAnalyzer) Grammar() *sitter.Language { return tspython.GetLanguage() }

func (p *PythonAnalyzer) ShouldAnalyze(path string) bool {
	return !strings.Contains(path, "__pycache__")
}

const pythonImportQuery = `
(import_statement
    name: (dotted_name) @module) @stmt

(import_statement
    name: (aliased_import
        name: (dotted_name) @module
        alias: (identifier) @alias)) @stmt

(import_from_statement
    module_name: (dotted_name) @from_module) @stmt

(import_from_statement
    module_name: (relative_import) @relative_module) @stmt
`

var (
	pyFromImportRe = regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import\s+.+$`)
	pyImportRe     = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)(?:\s+as\s+(\w+))?\s*(?:#.*)?$`)
)

func (p *PythonAnalyzer) ExtractImports(src *Source) []domain.ImportInfo {
	var imports []domain.ImportInfo

	ok := runQuery(src, pythonImportQuery, func(caps map[string]*sitter.Node) {
		stmt := caps["stmt"]
		switch {
		case caps["module"] != nil:
			imp := domain.ImportInfo{
				SourceFile:   src.Path,
				TargetModule: caps["module"].Content(src.Content),
				Line:         nodeLine(stmt),
			}
			if alias := caps["alias"]; alias != nil {
				imp.Alias = alias.Content(src.Content)
			}
			imports = append(imports, imp)
		case caps["from_module"] != nil:
			imports = append(imports, domain.ImportInfo{
				SourceFile:   src.Path,
				TargetModule: caps["from_module"].Content(src.Content),
				Line:         nodeLine(stmt),
			})
		case caps["relative_module"] != nil:
			module := caps["relative_module"].Content(src.Content)
			imports = append(imports, domain.ImportInfo{
				SourceFile:   src.Path,
				TargetModule: resolvePythonRelative(src.Path, module),
				Line:         nodeLine(stmt),
				IsRelative:   true,
			})
		}
	})
	if ok {
		return imports
	}
	return p.extractImportsRegex(src)
}

// extractImportsRegex is the degraded path used when parsing fails.
func (p *PythonAnalyzer) extractImportsRegex(src *Source) []domain.ImportInfo {
	var imports []domain.ImportInfo
	content := string(src.Content)

	for _, m := range pyFromImportRe.FindAllStringSubmatchIndex(content, -1) {
		module := content[m[2]:m[3]]
		imp := domain.ImportInfo{
			SourceFile:   src.Path,
			TargetModule: module,
			Line:         lineOfOffset(src.Content, m[0]),
		}
		if strings.HasPrefix(module, ".") {
			imp.IsRelative = true
			imp.TargetModule = resolvePythonRelative(src.Path, module)
		}
		imports = append(imports, imp)
	}
	for _, m := range pyImportRe.FindAllStringSubmatchIndex(content, -1) {
		imp := domain.ImportInfo{
			SourceFile:   src.Path,
			TargetModule: content[m[2]:m[3]],
			Line:         lineOfOffset(src.Content, m[0]),
		}
		if m[4] >= 0 {
			imp.Alias = content[m[4]:m[5]]
		}
		imports = append(imports, imp)
	}
	return imports
}

// resolvePythonRelative turns a relative import ("..utils.helpers") into a
// root-relative slash path ("pkg/utils/helpers") based on the importing
// file's directory. Returns the module unchanged when it escapes the root.
func resolvePythonRelative(filePath, module string) string {
	dots := 0
	for dots < len(module) && module[dots] == '.' {
		dots++
	}
	rest := module[dots:]

	dir := ""
	if i := strings.LastIndex(filePath, "/"); i >= 0 {
		dir = filePath[:i]
	}
	// One dot means the file's own package, each extra dot walks one level up.
	for i := 1; i < dots; i++ {
		if dir == "" {
			return module
		}
		if j := strings.LastIndex(dir, "/"); j >= 0 {
			dir = dir[:j]
		} else {
			dir = ""
		}
	}

	parts := []string{}
	if dir != "" {
		parts = append(parts, dir)
	}
	if rest != "" {
		parts = append(parts, strings.ReplaceAll(rest, ".", "/"))
	}
	if len(parts) == 0 {
		return module
	}
	return strings.Join(parts, "/")
}

const pythonMainQuery = `
(function_definition
    name: (identifier) @name
    (#eq? @name "main")) @main_function

(if_statement
    condition: (comparison_operator
        (identifier) @name_var
        (string) @main_str)
    (#eq? @name_var "__name__")
    (#match? @main_str "__main__")) @main_if_block
`

var (
	pyMainFuncRe    = regexp.MustCompile(`(?m)^def\s+main\s*\(`)
	pyIfMainRe      = regexp.MustCompile(`if\s+__name__\s*==\s*["']__main__["']`)
	pyAppInstanceRe = regexp.MustCompile(`(?m)^(app|server|mcp|api)\s*=\s*(Flask|FastAPI|FastMCP|Starlette)\(`)
	pyAllExportRe   = regexp.MustCompile(`(?s)__all__\s*=\s*\[(.*?)\]`)
	pyReexportRe    = regexp.MustCompile(`(?m)^from\s+\.\S*\s+import\s+(\w+)`)
)

func (p *PythonAnalyzer) FindEntryPoints(src *Source) []domain.EntryPointInfo {
	var eps []domain.EntryPointInfo
	content := string(src.Content)

	ok := runQuery(src, pythonMainQuery, func(caps map[string]*sitter.Node) {
		if n := caps["main_function"]; n != nil {
			eps = append(eps, domain.EntryPointInfo{
				File: src.Path,
				Kind: domain.EntryMainFunction,
				Name: "main",
				Line: nodeLine(n),
			})
		}
		if n := caps["main_if_block"]; n != nil {
			eps = append(eps, domain.EntryPointInfo{
				File: src.Path,
				Kind: domain.EntryConditionalMain,
				Name: "__main__",
				Line: nodeLine(n),
			})
		}
	})
	if !ok {
		// Regex versions of the same two patterns.
		if m := pyMainFuncRe.FindStringIndex(content); m != nil {
			eps = append(eps, domain.EntryPointInfo{
				File: src.Path,
				Kind: domain.EntryMainFunction,
				Name: "main",
				Line: lineOfOffset(src.Content, m[0]),
			})
		}
		if m := pyIfMainRe.FindStringIndex(content); m != nil {
			eps = append(eps, domain.EntryPointInfo{
				File: src.Path,
				Kind: domain.EntryConditionalMain,
				Name: "__main__",
				Line: lineOfOffset(src.Content, m[0]),
			})
		}
	}

	// Framework app instances (Flask/FastAPI/FastMCP/Starlette).
	for _, m := range pyAppInstanceRe.FindAllStringSubmatchIndex(content, -1) {
		eps = append(eps, domain.EntryPointInfo{
			File:      src.Path,
			Kind:      domain.EntryAppInstance,
			Name:      content[m[2]:m[3]],
			Line:      lineOfOffset(src.Content, m[0]),
			Framework: content[m[4]:m[5]],
		})
	}

	// Package surface of __init__.py files.
	if strings.HasSuffix(src.Path, "__init__.py") {
		if m := pyAllExportRe.FindStringSubmatchIndex(content); m != nil {
			count := 0
			for _, item := range strings.Split(content[m[2]:m[3]], ",") {
				if strings.TrimSpace(item) != "" {
					count++
				}
			}
			if count > 0 {
				eps = append(eps, domain.EntryPointInfo{
					File: src.Path,
					Kind: domain.EntryExport,
					Name: "__all__",
					Line: lineOfOffset(src.Content, m[0]),
				})
			}
		}
		if names := pyReexportRe.FindAllString(content, -1); len(names) > 0 {
			eps = append(eps, domain.EntryPointInfo{
				File: src.Path,
				Kind: domain.EntryExport,
				Name: "re-exports",
				Line: 1,
			})
		}
	}

	return eps
}

const pythonDefinitionQuery = `
(class_definition
    name: (identifier) @class_name) @class_def

(function_definition
    name: (identifier) @func_name) @func_def
`

var (
	pyClassDefRe = regexp.MustCompile(`(?m)^class\s+(\w+)`)
	pyFuncDefRe  = regexp.MustCompile(`(?m)^(\s*)def\s+(\w+)`)
)

func (p *PythonAnalyzer) ExtractDefinitions(src *Source) []domain.DefinitionInfo {
	var defs []domain.DefinitionInfo

	ok := runQuery(src, pythonDefinitionQuery, func(caps map[string]*sitter.Node) {
		if n := caps["class_def"]; n != nil {
			defs = append(defs, domain.DefinitionInfo{
				ID:        len(defs),
				Name:      caps["class_name"].Content(src.Content),
				Kind:      domain.DefClass,
				Parent:    -1,
				Signature: signatureAt(src.Content, nodeLine(n)),
				File:      src.Path,
				StartLine: nodeLine(n),
				EndLine:   nodeEndLine(n),
			})
		}
		if n := caps["func_def"]; n != nil {
			defs = append(defs, domain.DefinitionInfo{
				ID:        len(defs),
				Name:      caps["func_name"].Content(src.Content),
				Kind:      domain.DefFunction,
				Parent:    -1,
				Signature: signatureAt(src.Content, nodeLine(n)),
				File:      src.Path,
				StartLine: nodeLine(n),
				EndLine:   nodeEndLine(n),
			})
		}
	})
	if !ok {
		defs = p.extractDefinitionsRegex(src)
	}

	attachMethodsToClasses(defs)
	return defs
}

// attachMethodsToClasses marks functions nested in a class range as methods
// of the innermost such class. Containment is shallow: only class -> method
// is modeled.
func attachMethodsToClasses(defs []domain.DefinitionInfo) {
	for i := range defs {
		if defs[i].Kind != domain.DefFunction {
			continue
		}
		parent := -1
		for j := range defs {
			if defs[j].Kind != domain.DefClass || i == j {
				continue
			}
			if defs[i].StartLine <= defs[j].StartLine || defs[i].EndLine > defs[j].EndLine {
				continue
			}
			if parent == -1 || defs[j].StartLine > defs[parent].StartLine {
				parent = j
			}
		}
		if parent >= 0 {
			defs[i].Kind = domain.DefMethod
			defs[i].Parent = parent
		}
	}
}

// extractDefinitionsRegex recovers class and def declarations by indentation
// when parsing fails. End lines are approximated by the next declaration at
// the same or lower indent.
func (p *PythonAnalyzer) extractDefinitionsRegex(src *Source) []domain.DefinitionInfo {
	content := string(src.Content)
	lines := strings.Split(content, "\n")

	type marker struct {
		line   int
		indent int
		name   string
		class  bool
	}
	var markers []marker
	for _, m := range pyClassDefRe.FindAllStringSubmatchIndex(content, -1) {
		markers = append(markers, marker{
			line:  lineOfOffset(src.Content, m[0]),
			name:  content[m[2]:m[3]],
			class: true,
		})
	}
	for _, m := range pyFuncDefRe.FindAllStringSubmatchIndex(content, -1) {
		markers = append(markers, marker{
			line:   lineOfOffset(src.Content, m[0]),
			indent: m[3] - m[2],
			name:   content[m[4]:m[5]],
		})
	}

	var defs []domain.DefinitionInfo
	for _, mk := range markers {
		end := len(lines)
		for _, other := range markers {
			if other.line > mk.line && other.indent <= mk.indent && other.line-1 < end {
				end = other.line - 1
			}
		}
		kind := domain.DefFunction
		if mk.class {
			kind = domain.DefClass
		}
		defs = append(defs, domain.DefinitionInfo{
			ID:        len(defs),
			Name:      mk.name,
			Kind:      kind,
			Parent:    -1,
			Signature: signatureAt(src.Content, mk.line),
			File:      src.Path,
			StartLine: mk.line,
			EndLine:   end,
		})
	}
	return defs
}

const pythonCallQuery = `
(call
    function: (identifier) @simple_callee) @call

(call
    function: (attribute
        attribute: (identifier) @attr_callee)) @call
`

func (p *PythonAnalyzer) ExtractCalls(src *Source, defs []domain.DefinitionInfo) []domain.CallInfo {
	var calls []domain.CallInfo
	runQuery(src, pythonCallQuery, func(caps map[string]*sitter.Node) {
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
