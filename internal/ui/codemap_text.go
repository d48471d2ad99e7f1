package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scopemap/cli/internal/domain"
)

// clusterOrder fixes the section order of the architecture summary.
var clusterOrder = []domain.ClusterName{
	domain.ClusterEntryPoints,
	domain.ClusterCoreLogic,
	domain.ClusterPlugins,
	domain.ClusterUtilities,
	domain.ClusterConfig,
	domain.ClusterTests,
}

var clusterLabels = map[domain.ClusterName]string{
	domain.ClusterEntryPoints: "Entry Points",
	domain.ClusterCoreLogic:   "Core Logic",
	domain.ClusterPlugins:     "Plugins",
	domain.ClusterUtilities:   "Utilities",
	domain.ClusterConfig:      "Configuration",
	domain.ClusterTests:       "Tests",
}

var entryKindLabels = map[domain.EntryPointKind]string{
	domain.EntryMainFunction:    "main function",
	domain.EntryConditionalMain: "script entry",
	domain.EntryAppInstance:     "app instance",
	domain.EntryExport:          "public export",
}

// RenderCodeMap returns a styled, sectioned string for the code-map output.
// maxEntries caps each list section; zero or negative means no cap.
func RenderCodeMap(result *domain.CodeMapResult, maxEntries int) string {
	if result == nil {
		return ""
	}
	if maxEntries <= 0 {
		maxEntries = len(result.Files) + len(result.EntryPoints)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", "🗺️  Code Map")
	b.WriteString(strings.Repeat("=", 32))
	b.WriteString("\n\n")

	summary := []string{
		fmt.Sprintf("📂 Project Path: %s", result.RootPath),
		fmt.Sprintf("📄 Files Analyzed: %d", result.TotalFiles),
		fmt.Sprintf("🔗 Dependencies: %d", len(result.Dependencies)),
		fmt.Sprintf("🚪 Entry Points: %d", len(result.EntryPoints)),
	}
	if len(result.Definitions) > 0 {
		summary = append(summary, fmt.Sprintf("🧩 Definitions: %d", len(result.Definitions)))
	}
	b.WriteString(strings.Join(summary, "\n"))
	b.WriteString("\n\n")

	renderEntryPoints(&b, result, maxEntries)
	renderCoreFiles(&b, result, maxEntries)
	renderArchitecture(&b, result)
	renderDependencies(&b, result, maxEntries)
	renderHotFunctions(&b, result)
	renderSoftErrors(&b, result)

	fmt.Fprintf(&b, "Analysis: %d files in %.2fs (%s)\n",
		result.TotalFiles, result.TimingSeconds, strings.Join(result.LayersRun, "+"))
	return b.String()
}

func renderEntryPoints(b *strings.Builder, result *domain.CodeMapResult, maxEntries int) {
	if len(result.EntryPoints) == 0 {
		return
	}
	b.WriteString("🚪 Entry Points:\n")
	b.WriteString(strings.Repeat("-", 16))
	b.WriteString("\n")

	eps := append([]domain.EntryPointInfo(nil), result.EntryPoints...)
	sort.Slice(eps, func(i, j int) bool {
		if eps[i].File == eps[j].File {
			return eps[i].Line < eps[j].Line
		}
		return eps[i].File < eps[j].File
	})
	shown := eps
	if len(shown) > maxEntries {
		shown = shown[:maxEntries]
	}
	for _, ep := range shown {
		label := entryKindLabels[ep.Kind]
		if label == "" {
			label = string(ep.Kind)
		}
		if ep.Framework != "" {
			label += ", " + ep.Framework
		}
		fmt.Fprintf(b, "  • %s:%d — %s (%s)\n", ep.File, ep.Line, ep.Name, label)
	}
	if extra := len(eps) - len(shown); extra > 0 {
		fmt.Fprintf(b, "  … and %d more\n", extra)
	}
	b.WriteString("\n")
}

func renderCoreFiles(b *strings.Builder, result *domain.CodeMapResult, maxEntries int) {
	files := append([]*domain.FileNode(nil), result.Files...)
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Centrality != files[j].Centrality {
			return files[i].Centrality > files[j].Centrality
		}
		return files[i].Path < files[j].Path
	})

	var core []*domain.FileNode
	for _, f := range files {
		if f.Centrality > 0 {
			core = append(core, f)
		}
	}
	if len(core) == 0 {
		return
	}
	if len(core) > maxEntries {
		core = core[:maxEntries]
	}

	b.WriteString("⭐ Core Files (by centrality):\n")
	b.WriteString(strings.Repeat("-", 30))
	b.WriteString("\n")
	for _, f := range core {
		fmt.Fprintf(b, "  • %s — score %d (imported by %d, imports %d)\n",
			f.Path, f.Centrality, len(f.ImportedBy), len(f.Imports))
	}
	b.WriteString("\n")
}

func renderArchitecture(b *strings.Builder, result *domain.CodeMapResult) {
	if len(result.Clusters) == 0 {
		return
	}
	b.WriteString("🏛️  Architecture:\n")
	b.WriteString(strings.Repeat("-", 16))
	b.WriteString("\n")
	for _, cluster := range clusterOrder {
		files := result.Clusters[cluster]
		if len(files) == 0 {
			continue
		}
		fmt.Fprintf(b, "  %s: %d file(s)\n", clusterLabels[cluster], len(files))
	}
	b.WriteString("\n")
}

func renderDependencies(b *strings.Builder, result *domain.CodeMapResult, maxEntries int) {
	if len(result.Dependencies) == 0 {
		return
	}
	b.WriteString("🔗 Key Dependencies:\n")
	b.WriteString(strings.Repeat("-", 20))
	b.WriteString("\n")

	deps := append([]domain.Dependency(nil), result.Dependencies...)
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].From == deps[j].From {
			return deps[i].To < deps[j].To
		}
		return deps[i].From < deps[j].From
	})
	shown := deps
	if len(shown) > maxEntries {
		shown = shown[:maxEntries]
	}
	for _, d := range shown {
		fmt.Fprintf(b, "  • %s → %s\n", d.From, d.To)
	}
	if extra := len(deps) - len(shown); extra > 0 {
		fmt.Fprintf(b, "  … and %d more\n", extra)
	}
	b.WriteString("\n")
}

func renderHotFunctions(b *strings.Builder, result *domain.CodeMapResult) {
	if len(result.HotFunctions) == 0 {
		return
	}
	b.WriteString("🔥 Hot Functions:\n")
	b.WriteString(strings.Repeat("-", 17))
	b.WriteString("\n")
	for i, hf := range result.HotFunctions {
		d := hf.Definition
		fmt.Fprintf(b, "  %2d. %s (%s:%d) — %d caller(s), %d callee(s), score %d\n",
			i+1, d.Name, d.File, d.StartLine, hf.Callers, hf.Callees, hf.Centrality)
	}
	b.WriteString("\n")
}

func renderSoftErrors(b *strings.Builder, result *domain.CodeMapResult) {
	if len(result.SoftErrors) == 0 {
		return
	}
	fmt.Fprintf(b, "⚠️  Degraded Files: %d\n", len(result.SoftErrors))
	b.WriteString(strings.Repeat("-", 18))
	b.WriteString("\n")
	for _, se := range result.SoftErrors {
		fmt.Fprintf(b, "  • %s: %s\n", se.File, se.Reason)
	}
	b.WriteString("\n")
}
