package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scopemap/cli/internal/codemap"
)

func callRequest(t *testing.T, name string, args map[string]any) *mcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatal(err)
	}
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: raw,
		},
	}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in tool result")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestHandleScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.py")
	source := "class Store:\n    def get(self):\n        pass\n"
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	s := New("test", codemap.DefaultOptions())
	result, err := s.handleScanFile(context.Background(), callRequest(t, "scan_file", map[string]any{
		"file_path": path,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	out := textOf(t, result)
	if !strings.Contains(out, "class: Store") {
		t.Fatalf("expected class in scan output, got:\n%s", out)
	}
}

func TestHandleScanFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New("test", codemap.DefaultOptions())
	result, err := s.handleScanFile(context.Background(), callRequest(t, "scan_file", map[string]any{
		"file_path": path,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected in-band tool error for unsupported file")
	}
}

func TestHandleCodeMap(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"app.py":   "import store\n\ndef main():\n    pass\n\nif __name__ == \"__main__\":\n    main()\n",
		"store.py": "def save():\n    pass\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	s := New("test", codemap.DefaultOptions())
	result, err := s.handleCodeMap(context.Background(), callRequest(t, "code_map", map[string]any{
		"directory": dir,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	out := textOf(t, result)
	for _, want := range []string{"Entry Points", "app.py", "layer1+layer2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in code map output, got:\n%s", want, out)
		}
	}
}

func TestHandleCodeMapBadDirectory(t *testing.T) {
	s := New("test", codemap.DefaultOptions())
	result, err := s.handleCodeMap(context.Background(), callRequest(t, "code_map", map[string]any{
		"directory": filepath.Join(t.TempDir(), "missing"),
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected in-band tool error for invalid directory")
	}
	if msg := textOf(t, result); !strings.Contains(msg, "invalid root path") {
		t.Fatalf("unexpected error message: %s", msg)
	}
}

func TestHandleCodeMapOverrides(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, fmt.Sprintf("f%d.py", i))
		if err := os.WriteFile(name, []byte("x = 1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	s := New("test", codemap.DefaultOptions())
	result, err := s.handleCodeMap(context.Background(), callRequest(t, "code_map", map[string]any{
		"directory":     dir,
		"max_files":     2,
		"enable_layer2": false,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	out := textOf(t, result)
	if !strings.Contains(out, "Analysis: 2 files") {
		t.Fatalf("expected max_files override to apply, got:\n%s", out)
	}
	if strings.Contains(out, "layer2") {
		t.Fatalf("expected layer 2 to be disabled, got:\n%s", out)
	}
}
