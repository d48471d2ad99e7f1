package analyzer

import (
	"testing"

	"github.com/scopemap/cli/internal/domain"
)

const goSample = `package main

import (
	"fmt"

	"github.com/acme/app/internal/store"
)

type Server struct {
	db *store.DB
}

func (s *Server) Handle(name string) error {
	return s.save(name)
}

func (s *Server) save(name string) error {
	fmt.Println(name)
	return nil
}

func main() {
	s := &Server{}
	s.Handle("x")
}
`

func goSource(t *testing.T, path, content string) *Source {
	t.Helper()
	src := NewSourceFor(NewGoAnalyzer(), path, []byte(content))
	t.Cleanup(src.Close)
	if src.ParseFailed() {
		t.Fatal("expected sample to parse")
	}
	return src
}

func TestGoShouldAnalyzeSkipsGenerated(t *testing.T) {
	g := NewGoAnalyzer()
	if g.ShouldAnalyze("api.pb.go") || g.ShouldAnalyze("models_gen.go") {
		t.Fatal("expected generated files to be skipped")
	}
	if !g.ShouldAnalyze("cmd/main.go") {
		t.Fatal("expected regular files to be analyzed")
	}
}

func TestGoExtractImports(t *testing.T) {
	g := NewGoAnalyzer()
	src := goSource(t, "cmd/main.go", goSample)

	imports := g.ExtractImports(src)
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %v", imports)
	}
	modules := map[string]bool{}
	for _, imp := range imports {
		modules[imp.TargetModule] = true
	}
	if !modules["fmt"] || !modules["github.com/acme/app/internal/store"] {
		t.Fatalf("unexpected import set: %v", modules)
	}
}

func TestGoFindEntryPointsRequiresPackageMain(t *testing.T) {
	g := NewGoAnalyzer()

	src := goSource(t, "cmd/main.go", goSample)
	eps := g.FindEntryPoints(src)
	if len(eps) != 1 || eps[0].Kind != domain.EntryMainFunction {
		t.Fatalf("expected one main entry point, got %v", eps)
	}

	// A main function in a library package is not an entry point.
	lib := goSource(t, "lib.go", "package lib\n\nfunc main() {}\n")
	if eps := g.FindEntryPoints(lib); len(eps) != 0 {
		t.Fatalf("expected no entry points for package lib, got %v", eps)
	}
}

func TestGoExtractDefinitionsAttachesReceivers(t *testing.T) {
	g := NewGoAnalyzer()
	src := goSource(t, "cmd/main.go", goSample)

	defs := g.ExtractDefinitions(src)

	server := findDef(t, defs, "Server")
	if server.Kind != domain.DefClass {
		t.Fatalf("expected struct as class definition, got %+v", server)
	}
	for _, name := range []string{"Handle", "save"} {
		m := findDef(t, defs, name)
		if m.Kind != domain.DefMethod || m.Parent != server.ID {
			t.Fatalf("expected %s attached to Server, got %+v", name, m)
		}
	}
	mainDef := findDef(t, defs, "main")
	if mainDef.Kind != domain.DefFunction || mainDef.Parent != -1 {
		t.Fatalf("expected top-level main, got %+v", mainDef)
	}
}

func TestGoExtractCalls(t *testing.T) {
	g := NewGoAnalyzer()
	src := goSource(t, "cmd/main.go", goSample)

	defs := g.ExtractDefinitions(src)
	calls := g.ExtractCalls(src, defs)

	handle := findDef(t, defs, "Handle")
	mainDef := findDef(t, defs, "main")

	var sawSave, sawHandle bool
	for _, c := range calls {
		switch c.CalleeName {
		case "save":
			sawSave = true
			if c.CallerID != handle.ID || c.Qualifier != domain.CallAttribute {
				t.Fatalf("unexpected save call: %+v", c)
			}
		case "Handle":
			sawHandle = true
			if c.CallerID != mainDef.ID {
				t.Fatalf("unexpected Handle call: %+v", c)
			}
		}
	}
	if !sawSave || !sawHandle {
		t.Fatalf("missing expected calls in %v", calls)
	}
}

func TestReceiverTypeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"(s *Server)", "Server"},
		{"(c Config)", "Config"},
		{"(q *Queue[T])", "Queue"},
	}
	for _, tc := range cases {
		if got := receiverTypeName(tc.in); got != tc.want {
			t.Fatalf("receiverTypeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
