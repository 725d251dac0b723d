// Package docsync verifies that the guide and the testscript txtar files
// cover the same set of rtwd commands, and that generated reference docs
// match the code. Every `$ rtwd <verb>` in the guide must have a
// corresponding `exec rtwd <verb>` in some txtar.
package docsync

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/steveyegge/rtwatchdog/internal/docgen"
)

func repoRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

// verbsFromMarkdown extracts unique rtwd subcommands from code blocks.
func verbsFromMarkdown(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	verbs := make(map[string]bool)
	inCodeBlock := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			continue
		}
		after, ok := strings.CutPrefix(line, "$ rtwd ")
		if !ok {
			continue
		}
		if verb := extractVerb(after); verb != "" {
			verbs[verb] = true
		}
	}
	return verbs, scanner.Err()
}

// verbsFromTxtar extracts unique rtwd subcommands from exec lines,
// including negated ones.
func verbsFromTxtar(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	verbs := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "! ")
		after, ok := strings.CutPrefix(line, "exec rtwd ")
		if !ok {
			continue
		}
		if verb := extractVerb(after); verb != "" {
			verbs[verb] = true
		}
	}
	return verbs, scanner.Err()
}

// extractVerb pulls the subcommand (up to 2 lowercase words) from args,
// skipping leading global flags and their values.
// "--config x.toml config show" → "config show", "selftest --stall" → "selftest".
func extractVerb(args string) string {
	words := strings.Fields(args)
	for len(words) >= 2 && strings.HasPrefix(words[0], "-") {
		words = words[2:]
	}
	var parts []string
	for i, w := range words {
		if i >= 2 || !isLowerAlpha(w) {
			break
		}
		parts = append(parts, w)
	}
	return strings.Join(parts, " ")
}

func isLowerAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func TestExtractVerb(t *testing.T) {
	tests := map[string]string{
		"selftest --stall":                "selftest",
		"config show":                     "config show",
		"--config bad.toml config show":   "config show",
		"-c rtwd.yaml selftest --beats 1": "selftest",
		"events --file run/events.jsonl":  "events",
		"doctor fix-me":                   "doctor",
		"--config":                        "",
	}
	for in, want := range tests {
		if got := extractVerb(in); got != want {
			t.Errorf("extractVerb(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGuideCommandSync(t *testing.T) {
	root := repoRoot()
	mdVerbs, err := verbsFromMarkdown(filepath.Join(root, "docs", "guide.md"))
	if err != nil {
		t.Fatalf("parsing guide: %v", err)
	}

	scripts, err := filepath.Glob(filepath.Join(root, "cmd", "rtwd", "testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	txtarVerbs := make(map[string]bool)
	for _, s := range scripts {
		verbs, err := verbsFromTxtar(s)
		if err != nil {
			t.Fatalf("parsing %s: %v", s, err)
		}
		for v := range verbs {
			txtarVerbs[v] = true
		}
	}

	var missing []string
	for verb := range mdVerbs {
		if !txtarVerbs[verb] {
			missing = append(missing, verb)
		}
	}
	sort.Strings(missing)
	for _, v := range missing {
		t.Errorf("rtwd %s is in the guide but no txtar runs it", v)
	}

	var extra []string
	for verb := range txtarVerbs {
		if !mdVerbs[verb] {
			extra = append(extra, verb)
		}
	}
	sort.Strings(extra)
	for _, v := range extra {
		t.Errorf("rtwd %s is tested but missing from the guide", v)
	}
}

func TestSchemaFreshness(t *testing.T) {
	root := repoRoot()
	tests := []struct {
		name     string
		generate func() ([]byte, error)
		path     string
	}{
		{
			name: "rtwd-schema.json",
			generate: func() ([]byte, error) {
				s, err := docgen.GenerateConfigSchema()
				if err != nil {
					return nil, err
				}
				data, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return nil, err
				}
				return append(data, '\n'), nil
			},
			path: filepath.Join(root, "docs", "schema", "rtwd-schema.json"),
		},
		{
			name: "config.md",
			generate: func() ([]byte, error) {
				s, err := docgen.GenerateConfigSchema()
				if err != nil {
					return nil, err
				}
				var buf bytes.Buffer
				if err := docgen.RenderMarkdown(&buf, s); err != nil {
					return nil, err
				}
				return buf.Bytes(), nil
			},
			path: filepath.Join(root, "docs", "reference", "config.md"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			committed, err := os.ReadFile(tt.path)
			if os.IsNotExist(err) {
				t.Skipf("%s not generated yet. Run: go run ./cmd/genschema", tt.path)
			}
			if err != nil {
				t.Fatalf("reading %s: %v", tt.path, err)
			}
			generated, err := tt.generate()
			if err != nil {
				t.Fatalf("generating %s: %v", tt.name, err)
			}
			if !bytes.Equal(generated, committed) {
				t.Errorf("%s is stale. Run: go run ./cmd/genschema", tt.name)
			}
		})
	}
}
