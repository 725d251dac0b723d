package docgen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func renderConfigMarkdown(t *testing.T) string {
	t.Helper()
	s, err := GenerateConfigSchema()
	if err != nil {
		t.Fatalf("GenerateConfigSchema: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, s); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	return buf.String()
}

func TestRenderMarkdownConfigSchema(t *testing.T) {
	md := renderConfigMarkdown(t)
	if !strings.HasPrefix(md, "# rtwd Configuration") {
		t.Errorf("unexpected title: %q", strings.SplitN(md, "\n", 2)[0])
	}
	for _, section := range []string{"## File", "## Watchdog", "## Selftest", "## Telemetry"} {
		if !strings.Contains(md, section) {
			t.Errorf("missing section %q", section)
		}
	}
	if strings.Index(md, "## File") > strings.Index(md, "## Selftest") {
		t.Error("root File section should come first")
	}
}

func TestRenderMarkdownTableFormat(t *testing.T) {
	for _, line := range strings.Split(renderConfigMarkdown(t), "\n") {
		if !strings.HasPrefix(line, "|") {
			continue
		}
		actual := strings.Count(line, "|") - strings.Count(line, "\\|")
		if actual != 6 {
			t.Errorf("table row has %d columns (expected 5): %s", actual-1, line)
		}
	}
}

func TestRenderMarkdownEnumAndDefaults(t *testing.T) {
	md := renderConfigMarkdown(t)
	for _, want := range []string{"`realtime-or-fallback`", "`fallback`", "`100ms`", "| `strategy` | string |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestWriteMarkdown(t *testing.T) {
	s, err := GenerateConfigSchema()
	if err != nil {
		t.Fatalf("GenerateConfigSchema: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.md")
	if err := WriteMarkdown(path, s); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "## Watchdog") {
		t.Error("written file missing Watchdog section")
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestSchemaTypeString(t *testing.T) {
	s, err := GenerateConfigSchema()
	if err != nil {
		t.Fatalf("GenerateConfigSchema: %v", err)
	}
	root := s.Definitions["File"]
	if root == nil {
		t.Fatal("no File definition")
	}
	wd, ok := root.Properties.Get("watchdog")
	if !ok {
		t.Fatal("File has no watchdog property")
	}
	if got := schemaTypeString(wd); got != "Watchdog" {
		t.Errorf("schemaTypeString(watchdog) = %q, want Watchdog", got)
	}
}
