package domain

// ImportInfo represents a single import statement found in a source file.
type ImportInfo struct {
	SourceFile   string `json:"source_file"`
	TargetModule string `json:"target_module"`
	Alias        string `json:"alias,omitempty"`
	Line         int    `json:"line"`
	IsRelative   bool   `json:"is_relative"`
	// ResolvedFile is filled in by the import graph builder, never by an
	// analyzer, so resolution policy stays in one place.
	ResolvedFile string `json:"resolved_file,omitempty"`
}

// EntryPointKind classifies how a file can start a program.
type EntryPointKind string

const (
	EntryMainFunction    EntryPointKind = "main_function"
	EntryConditionalMain EntryPointKind = "if_main"
	EntryAppInstance     EntryPointKind = "app_instance"
	EntryExport          EntryPointKind = "export"
)

// EntryPointInfo represents a detected program entry point.
type EntryPointInfo struct {
	File      string         `json:"file"`
	Kind      EntryPointKind `json:"kind"`
	Name      string         `json:"name"`
	Line      int            `json:"line"`
	Framework string         `json:"framework,omitempty"`
}

// DefinitionKind is the kind of a code definition.
type DefinitionKind string

const (
	DefClass    DefinitionKind = "class"
	DefFunction DefinitionKind = "function"
	DefMethod   DefinitionKind = "method"
)

// DefinitionInfo represents a class, function, or method definition.
// IDs are unique within a single pipeline run. Parent is the index of the
// containing definition in the run's flat definition slice, or -1 for
// top-level definitions; containment is a shallow tree (class -> methods).
type DefinitionInfo struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Kind      DefinitionKind `json:"kind"`
	Parent    int            `json:"parent_id"`
	Signature string         `json:"signature,omitempty"`
	File      string         `json:"file"`
	StartLine int            `json:"start_line"`
	EndLine   int            `json:"end_line"`
}

// CallQualifier says how a call site names its target.
type CallQualifier string

const (
	CallSimple    CallQualifier = "simple"    // foo()
	CallAttribute CallQualifier = "attribute" // obj.foo()
)

// CallInfo is a raw, unresolved call site. Resolution to definitions is a
// separate phase and never happens inside an analyzer.
type CallInfo struct {
	CallerID   int           `json:"caller_id"`
	CalleeName string        `json:"callee_name"`
	Qualifier  CallQualifier `json:"qualifier"`
	Line       int           `json:"line"`
}

// ClusterName is one of the fixed architectural roles assigned to files.
type ClusterName string

const (
	ClusterEntryPoints ClusterName = "entry_points"
	ClusterCoreLogic   ClusterName = "core_logic"
	ClusterPlugins     ClusterName = "plugins"
	ClusterUtilities   ClusterName = "utilities"
	ClusterConfig      ClusterName = "config"
	ClusterTests       ClusterName = "tests"
)

// FileNode is a node in the file-level import graph.
type FileNode struct {
	Path       string       `json:"path"`
	Imports    []string     `json:"imports"`
	ImportedBy []string     `json:"imported_by"`
	RawImports []ImportInfo `json:"raw_imports,omitempty"`
	Cluster    ClusterName  `json:"cluster"`
	Language   string       `json:"language,omitempty"`
	Centrality int          `json:"centrality"`
}

// CallGraphNode wraps a definition with its resolved call relationships.
// Callers and Callees hold distinct definition IDs, so a function invoked
// three times from one caller still counts a single caller.
type CallGraphNode struct {
	Definition DefinitionInfo   `json:"definition"`
	Callers    map[int]struct{} `json:"-"`
	Callees    map[int]struct{} `json:"-"`
	Centrality int              `json:"centrality"`
}

// CallersCount returns the number of distinct calling definitions.
func (n *CallGraphNode) CallersCount() int { return len(n.Callers) }

// CalleesCount returns the number of distinct call targets.
func (n *CallGraphNode) CalleesCount() int { return len(n.Callees) }

// Dependency is one resolved file-level import edge.
type Dependency struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SoftError records a file that could not be fully analyzed. Soft errors
// never abort a run.
type SoftError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// HotFunction is a definition ranked by call-graph centrality.
type HotFunction struct {
	Definition DefinitionInfo `json:"definition"`
	Callers    int            `json:"callers"`
	Callees    int            `json:"callees"`
	Centrality int            `json:"centrality"`
}

// Layer names reported in CodeMapResult.LayersRun.
const (
	Layer1 = "layer1"
	Layer2 = "layer2"
)

// CodeMapResult is the aggregate output of one pipeline run. It is built
// once and treated as immutable afterwards; the rendering layers only read
// from it.
type CodeMapResult struct {
	RootPath      string                   `json:"root_path"`
	TotalFiles    int                      `json:"total_files"`
	Files         []*FileNode              `json:"files"`
	EntryPoints   []EntryPointInfo         `json:"entry_points"`
	Clusters      map[ClusterName][]string `json:"clusters"`
	Dependencies  []Dependency             `json:"dependencies"`
	Definitions   []DefinitionInfo         `json:"definitions,omitempty"`
	CallGraph     map[int]*CallGraphNode   `json:"-"`
	HotFunctions  []HotFunction            `json:"hot_functions,omitempty"`
	LayersRun     []string                 `json:"layers_run"`
	SoftErrors    []SoftError              `json:"soft_errors,omitempty"`
	TimingSeconds float64                  `json:"timing_seconds"`
}
