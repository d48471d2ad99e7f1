// Package codemap builds a structural and relational map of a source tree:
// a file-level import graph with entry points and architectural clusters
// (layer 1), and optionally a definition-level call graph with centrality
// scoring and hot-function ranking (layer 2).
package codemap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scopemap/cli/internal/analyzer"
	"github.com/scopemap/cli/internal/discovery"
	"github.com/scopemap/cli/internal/domain"
)

// Options control a pipeline run.
type Options struct {
	// MaxFiles caps discovery as a safety limit. 0 uses the default.
	MaxFiles int
	// EnableLayer2 turns on definition and call extraction. Disabling it
	// leaves every layer-1 field untouched.
	EnableLayer2 bool
	// Workers bounds the per-file analysis pool. 0 uses the CPU count.
	Workers int
	// FileTimeout bounds analysis of a single file; on expiry the file is a
	// soft failure, never a fatal one.
	FileTimeout time.Duration
	// TopN is the number of hot functions to report.
	TopN int
	// Excludes are extra doublestar globs filtered out during discovery.
	Excludes []string
}

// DefaultOptions match the defaults of the map command.
func DefaultOptions() Options {
	return Options{
		MaxFiles:     10000,
		EnableLayer2: true,
		FileTimeout:  10 * time.Second,
		TopN:         10,
	}
}

// Pipeline orchestrates one code-map run. The registry is injected so tests
// can swap in fake analyzers.
type Pipeline struct {
	root     string
	registry *analyzer.Registry
	opts     Options
}

// New validates the root path and prepares a pipeline. An invalid root is
// the one fatal configuration error: it aborts before any phase runs.
func New(root string, registry *analyzer.Registry, opts Options) (*Pipeline, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("invalid root path %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", abs)
	}
	if registry == nil {
		registry = analyzer.DefaultRegistry()
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultOptions().MaxFiles
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultOptions().TopN
	}
	return &Pipeline{root: abs, registry: registry, opts: opts}, nil
}

// fileResult is the immutable per-file output of the parallel stage.
// Definition IDs and call caller IDs are file-local indices until the
// aggregation phase rebases them into run-global IDs.
type fileResult struct {
	path        string
	language    string
	imports     []domain.ImportInfo
	entryPoints []domain.EntryPointInfo
	definitions []domain.DefinitionInfo
	calls       []domain.CallInfo
	softErr     *domain.SoftError
	unreadable  bool
}

// Run executes all phases and returns the aggregate result. Per-file
// problems surface as soft errors inside the result; only discovery or an
// invalid configuration fail the run outright.
func (p *Pipeline) Run(ctx context.Context) (*domain.CodeMapResult, error) {
	start := time.Now()

	files, err := discovery.NewWalker(p.root, p.opts.Excludes, p.opts.MaxFiles).List()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	// Parallel per-file stage. Workers share no mutable state; each writes
	// only its own slot.
	results := make([]*fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, f := range files {
		g.Go(func() error {
			results[i] = p.analyzeFile(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Everything below is single-threaded aggregation over the collected
	// results, in discovery order for deterministic output.
	result := &domain.CodeMapResult{
		RootPath:   p.root,
		TotalFiles: len(files),
		Clusters:   make(map[domain.ClusterName][]string),
		LayersRun:  []string{domain.Layer1},
	}

	var (
		graphFiles  []string
		allImports  []domain.ImportInfo
		allDefs     []domain.DefinitionInfo
		allCalls    []domain.CallInfo
		entryCounts = make(map[string]int)
		languages   = make(map[string]string)
	)
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.softErr != nil {
			result.SoftErrors = append(result.SoftErrors, *res.softErr)
		}
		if res.unreadable {
			// Unreadable files are excluded from all graphs.
			continue
		}
		graphFiles = append(graphFiles, res.path)
		languages[res.path] = res.language
		allImports = append(allImports, res.imports...)
		result.EntryPoints = append(result.EntryPoints, res.entryPoints...)
		entryCounts[res.path] = len(res.entryPoints)

		if p.opts.EnableLayer2 {
			base := len(allDefs)
			for _, d := range res.definitions {
				d.ID += base
				if d.Parent >= 0 {
					d.Parent += base
				}
				allDefs = append(allDefs, d)
			}
			for _, c := range res.calls {
				if c.CallerID >= 0 {
					c.CallerID += base
				}
				allCalls = append(allCalls, c)
			}
		}
	}

	graph, deps := buildImportGraph(graphFiles, allImports)
	calculateFileCentrality(graph)
	result.Dependencies = deps

	for _, f := range graphFiles {
		node := graph[f]
		node.Language = languages[f]
		node.Cluster = classifyFile(node, entryCounts[f])
		result.Clusters[node.Cluster] = append(result.Clusters[node.Cluster], f)
		result.Files = append(result.Files, node)
	}

	if p.opts.EnableLayer2 {
		result.LayersRun = append(result.LayersRun, domain.Layer2)
		if len(allDefs) > 0 {
			table := buildSymbolTable(allDefs)
			edges := resolveCalls(allDefs, allCalls, table)
			callGraph := buildCallGraph(allDefs, edges)
			calculateCallCentrality(callGraph)
			result.Definitions = allDefs
			result.CallGraph = callGraph
			result.HotFunctions = findHotFunctions(callGraph, p.opts.TopN)
		}
	}

	result.TimingSeconds = time.Since(start).Seconds()
	return result, nil
}

// analyzeFile runs the per-file extraction stage: one read, one parse,
// shared across import, entry-point, definition, and call extraction.
func (p *Pipeline) analyzeFile(ctx context.Context, rel string) *fileResult {
	a := p.registry.ForPath(rel)
	res := &fileResult{path: rel, language: a.LanguageName()}
	if g, ok := a.(*analyzer.GenericAnalyzer); ok {
		res.language = g.LanguageFor(rel)
	}

	if !a.ShouldAnalyze(rel) {
		return res
	}

	content, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(rel)))
	if err != nil {
		res.unreadable = true
		res.softErr = &domain.SoftError{File: rel, Reason: fmt.Sprintf("unreadable: %v", err)}
		return res
	}

	fileCtx := ctx
	if p.opts.FileTimeout > 0 {
		var cancel context.CancelFunc
		fileCtx, cancel = context.WithTimeout(ctx, p.opts.FileTimeout)
		defer cancel()
	}

	src := analyzer.NewSourceFor(a, rel, content).WithContext(fileCtx)
	defer src.Close()

	res.imports = a.ExtractImports(src)
	res.entryPoints = a.FindEntryPoints(src)

	if p.opts.EnableLayer2 {
		if de, ok := a.(analyzer.DefinitionExtractor); ok {
			res.definitions = de.ExtractDefinitions(src)
			if ce, ok := a.(analyzer.CallExtractor); ok {
				res.calls = ce.ExtractCalls(src, res.definitions)
			}
		}
	}

	switch {
	case errors.Is(fileCtx.Err(), context.DeadlineExceeded):
		res.softErr = &domain.SoftError{File: rel, Reason: "analysis timed out"}
	case src.ParseFailed():
		res.softErr = &domain.SoftError{File: rel, Reason: "parse failed, pattern fallback used"}
	}
	return res
}
