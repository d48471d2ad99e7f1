package codemap

import (
	"sort"
	"strings"

	"github.com/scopemap/cli/internal/domain"
)

// symbolTable maps a definition's leaf name to every definition carrying it.
// Collisions across files are intentional: no uniqueness is assumed and
// ambiguity is handled at resolution time.
type symbolTable map[string][]int

func buildSymbolTable(defs []domain.DefinitionInfo) symbolTable {
	table := make(symbolTable, len(defs))
	for _, d := range defs {
		table[d.Name] = append(table[d.Name], d.ID)
	}
	return table
}

// callEdge is one resolved caller -> callee pair.
type callEdge struct {
	caller int
	callee int
}

// resolveCalls turns raw call sites into definition-level edges:
//
//  1. Same containing class first, then the same file at large.
//  2. Otherwise the global symbol table by leaf name.
//  3. A unique global candidate resolves directly; multiple candidates all
//     receive the edge. This over-counts deliberately — without type
//     inference, attributing an ambiguous name to every definition beats
//     guessing one of them.
//  4. Zero candidates means an external or dynamic call; it contributes to
//     no counts.
//
// Calls from module-level code have no caller definition and are dropped.
func resolveCalls(defs []domain.DefinitionInfo, calls []domain.CallInfo, table symbolTable) []callEdge {
	var edges []callEdge
	for _, call := range calls {
		if call.CallerID < 0 || call.CallerID >= len(defs) {
			continue
		}
		caller := defs[call.CallerID]
		name := leafName(call.CalleeName)
		candidates := table[name]
		if len(candidates) == 0 {
			continue
		}

		if targets := localCandidates(defs, caller, candidates); len(targets) > 0 {
			for _, t := range targets {
				edges = append(edges, callEdge{caller: caller.ID, callee: t})
			}
			continue
		}
		for _, t := range candidates {
			edges = append(edges, callEdge{caller: caller.ID, callee: t})
		}
	}
	return edges
}

// localCandidates narrows candidates to the caller's own scope: siblings in
// the same class when the caller is a method, otherwise any same-file match.
func localCandidates(defs []domain.DefinitionInfo, caller domain.DefinitionInfo, candidates []int) []int {
	if caller.Parent >= 0 {
		var sameClass []int
		for _, id := range candidates {
			d := defs[id]
			if d.File == caller.File && d.Parent == caller.Parent {
				sameClass = append(sameClass, id)
			}
		}
		if len(sameClass) > 0 {
			return sameClass
		}
	}
	var sameFile []int
	for _, id := range candidates {
		if defs[id].File == caller.File {
			sameFile = append(sameFile, id)
		}
	}
	return sameFile
}

// leafName strips any receiver or attribute prefix from a callee name.
func leafName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// buildCallGraph creates one node per definition and applies the resolved
// edges. Caller and callee sets hold distinct definition IDs, so repeated
// call sites between the same pair collapse into one relationship.
func buildCallGraph(defs []domain.DefinitionInfo, edges []callEdge) map[int]*domain.CallGraphNode {
	graph := make(map[int]*domain.CallGraphNode, len(defs))
	for _, d := range defs {
		graph[d.ID] = &domain.CallGraphNode{
			Definition: d,
			Callers:    make(map[int]struct{}),
			Callees:    make(map[int]struct{}),
		}
	}
	for _, e := range edges {
		caller, callee := graph[e.caller], graph[e.callee]
		if caller == nil || callee == nil {
			continue
		}
		caller.Callees[e.callee] = struct{}{}
		callee.Callers[e.caller] = struct{}{}
	}
	return graph
}

// calculateCallCentrality mirrors the file-level formula: being called is
// weighted double because it signals infrastructure status more strongly
// than calling others.
func calculateCallCentrality(graph map[int]*domain.CallGraphNode) {
	for _, node := range graph {
		node.Centrality = node.CallersCount()*2 + node.CalleesCount()
	}
}

// findHotFunctions returns the topN most central definitions. Ties break by
// caller count, then by (file, start line), so the ordering is byte-stable
// across runs regardless of extraction order.
func findHotFunctions(graph map[int]*domain.CallGraphNode, topN int) []domain.HotFunction {
	nodes := make([]*domain.CallGraphNode, 0, len(graph))
	for _, n := range graph {
		nodes = append(nodes, n)
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Centrality != b.Centrality {
			return a.Centrality > b.Centrality
		}
		if a.CallersCount() != b.CallersCount() {
			return a.CallersCount() > b.CallersCount()
		}
		if a.Definition.File != b.Definition.File {
			return a.Definition.File < b.Definition.File
		}
		return a.Definition.StartLine < b.Definition.StartLine
	})

	if topN > len(nodes) {
		topN = len(nodes)
	}
	hot := make([]domain.HotFunction, 0, topN)
	for _, n := range nodes[:topN] {
		hot = append(hot, domain.HotFunction{
			Definition: n.Definition,
			Callers:    n.CallersCount(),
			Callees:    n.CalleesCount(),
			Centrality: n.Centrality,
		})
	}
	return hot
}
