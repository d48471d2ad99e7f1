package analyzer

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsgolang "github.com/smacker/go-tree-sitter/golang"

	"github.com/scopemap/cli/internal/domain"
)

// GoAnalyzer extracts structure from Go sources. Go import paths are package
// paths rather than file paths, so imports are reported verbatim and the
// import graph builder matches them against project directories.
type GoAnalyzer struct{}

func NewGoAnalyzer() *GoAnalyzer { return &GoAnalyzer{} }

func (g *GoAnalyzer) LanguageName() string      { return "Go" }
func (g *GoAnalyzer) Extensions() []string      { return []string{".go"} }
func (g *GoAnalyzer) Priority() int             { return 10 }
func (g *GoAnalyzer) Grammar() *sitter.Language { return tsgolang.GetLanguage() }

func (g *GoAnalyzer) ShouldAnalyze(path string) bool {
	return !strings.HasSuffix(path, ".pb.go") && !strings.HasSuffix(path, "_gen.go")
}

const goImportQuery = `
(import_spec
    path: (interpreted_string_literal) @path) @stmt
`

var goImportRe = regexp.MustCompile(`(?m)^\s*(?:\w+\s+)?"([^"]+)"`)

func (g *GoAnalyzer) ExtractImports(src *Source) []domain.ImportInfo {
	var imports []domain.ImportInfo

	ok := runQuery(src, goImportQuery, func(caps map[string]*sitter.Node) {
		p := caps["path"]
		if p == nil {
			return
		}
		imports = append(imports, domain.ImportInfo{
			SourceFile:   src.Path,
			TargetModule: strings.Trim(p.Content(src.Content), `"`),
			Line:         nodeLine(p),
		})
	})
	if ok {
		return imports
	}

	// Degraded path: only scan the import block.
	content := string(src.Content)
	start := strings.Index(content, "import (")
	if start < 0 {
		return nil
	}
	end := strings.Index(content[start:], ")")
	if end < 0 {
		return nil
	}
	block := content[start : start+end]
	for _, m := range goImportRe.FindAllStringSubmatchIndex(block, -1) {
		imports = append(imports, domain.ImportInfo{
			SourceFile:   src.Path,
			TargetModule: block[m[2]:m[3]],
			Line:         lineOfOffset(src.Content, start+m[0]),
		})
	}
	return imports
}

const goMainQuery = `
(function_declaration
    name: (identifier) @name
    (#eq? @name "main")) @main_func
`

var (
	goMainFuncRe    = regexp.MustCompile(`(?m)^func\s+main\s*\(`)
	goPackageMainRe = regexp.MustCompile(`(?m)^package\s+main\b`)
)

func (g *GoAnalyzer) FindEntryPoints(src *Source) []domain.EntryPointInfo {
	// Only package main can start a program.
	if !goPackageMainRe.Match(src.Content) {
		return nil
	}

	var eps []domain.EntryPointInfo
	ok := runQuery(src, goMainQuery, func(caps map[string]*sitter.Node) {
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
		if m := goMainFuncRe.FindStringIndex(string(src.Content)); m != nil {
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

const goDefinitionQuery = `
(function_declaration
    name: (identifier) @func_name) @func_def

(method_declaration
    receiver: (parameter_list) @receiver
    name: (field_identifier) @method_name) @method_def

(type_spec
    name: (type_identifier) @type_name
    type: [(struct_type) (interface_type)]) @type_def
`

var (
	goFuncDefRe = regexp.MustCompile(`(?m)^func\s+(?:\(([^)]+)\)\s+)?(\w+)\s*\(`)
	goTypeDefRe = regexp.MustCompile(`(?m)^type\s+(\w+)\s+(?:struct|interface)\b`)
	goRecvRe    = regexp.MustCompile(`\*?(\w+)\s*[,)\]]?$`)
)

func (g *GoAnalyzer) ExtractDefinitions(src *Source) []domain.DefinitionInfo {
	var defs []domain.DefinitionInfo
	receivers := make(map[int]string) // def index -> receiver type name

	ok := runQuery(src, goDefinitionQuery, func(caps map[string]*sitter.Node) {
		switch {
		case caps["type_def"] != nil:
			n := caps["type_def"]
			defs = append(defs, domain.DefinitionInfo{
				ID: len(defs), Name: caps["type_name"].Content(src.Content), Kind: domain.DefClass,
				Parent: -1, Signature: signatureAt(src.Content, nodeLine(n)), File: src.Path,
				StartLine: nodeLine(n), EndLine: nodeEndLine(n),
			})
		case caps["func_def"] != nil:
			n := caps["func_def"]
			defs = append(defs, domain.DefinitionInfo{
				ID: len(defs), Name: caps["func_name"].Content(src.Content), Kind: domain.DefFunction,
				Parent: -1, Signature: signatureAt(src.Content, nodeLine(n)), File: src.Path,
				StartLine: nodeLine(n), EndLine: nodeEndLine(n),
			})
		case caps["method_def"] != nil:
			n := caps["method_def"]
			defs = append(defs, domain.DefinitionInfo{
				ID: len(defs), Name: caps["method_name"].Content(src.Content), Kind: domain.DefMethod,
				Parent: -1, Signature: signatureAt(src.Content, nodeLine(n)), File: src.Path,
				StartLine: nodeLine(n), EndLine: nodeEndLine(n),
			})
			receivers[len(defs)-1] = receiverTypeName(caps["receiver"].Content(src.Content))
		}
	})
	if !ok {
		defs, receivers = g.extractDefinitionsRegex(src)
	}

	// Go methods live outside their type's lines, so containment comes from
	// the receiver type name instead of line ranges.
	byName := make(map[string]int)
	for i, d := range defs {
		if d.Kind == domain.DefClass {
			byName[d.Name] = i
		}
	}
	for i, recv := range receivers {
		if parent, found := byName[recv]; found {
			defs[i].Parent = parent
		}
	}
	return defs
}

// receiverTypeName extracts the bare type name from a receiver parameter
// list such as "(s *Server)" or "(c Config)".
func receiverTypeName(recv string) string {
	recv = strings.Trim(recv, "()")
	fields := strings.Fields(recv)
	if len(fields) == 0 {
		return ""
	}
	name := fields[len(fields)-1]
	name = strings.TrimPrefix(name, "*")
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	return name
}

func (g *GoAnalyzer) extractDefinitionsRegex(src *Source) ([]domain.DefinitionInfo, map[int]string) {
	content := string(src.Content)
	var defs []domain.DefinitionInfo
	receivers := make(map[int]string)

	for _, m := range goTypeDefRe.FindAllStringSubmatchIndex(content, -1) {
		line := lineOfOffset(src.Content, m[0])
		defs = append(defs, domain.DefinitionInfo{
			ID: len(defs), Name: content[m[2]:m[3]], Kind: domain.DefClass, Parent: -1,
			Signature: signatureAt(src.Content, line), File: src.Path, StartLine: line, EndLine: line,
		})
	}
	for _, m := range goFuncDefRe.FindAllStringSubmatchIndex(content, -1) {
		line := lineOfOffset(src.Content, m[0])
		kind := domain.DefFunction
		if m[2] >= 0 {
			kind = domain.DefMethod
		}
		defs = append(defs, domain.DefinitionInfo{
			ID: len(defs), Name: content[m[4]:m[5]], Kind: kind, Parent: -1,
			Signature: signatureAt(src.Content, line), File: src.Path, StartLine: line, EndLine: line,
		})
		if m[2] >= 0 {
			if rm := goRecvRe.FindStringSubmatch(content[m[2]:m[3]]); rm != nil {
				receivers[len(defs)-1] = rm[1]
			}
		}
	}
	return defs, receivers
}

const goCallQuery = `
(call_expression
    function: (identifier) @simple_callee) @call

(call_expression
    function: (selector_expression
        field: (field_identifier) @attr_callee)) @call
`

func (g *GoAnalyzer) ExtractCalls(src *Source, defs []domain.DefinitionInfo) []domain.CallInfo {
	var calls []domain.CallInfo
	runQuery(src, goCallQuery, func(caps map[string]*sitter.Node) {
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
