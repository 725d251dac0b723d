package docgen

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// RenderMarkdown writes a markdown reference document from a JSON Schema.
// It walks the $defs, rendering one section per type with a table of
// fields. The root type comes first.
func RenderMarkdown(w io.Writer, s *jsonschema.Schema) error {
	m := &mdWriter{w: w}
	title := s.Title
	if title == "" {
		title = "Configuration Reference"
	}
	m.printf("# %s\n\n", title)
	if s.Description != "" {
		m.printf("%s\n\n", s.Description)
	}
	m.printf(generatedNote)

	rootName := ""
	if s.Ref != "" {
		rootName = refName(s.Ref)
	}
	names := make([]string, 0, len(s.Definitions))
	for name := range s.Definitions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == rootName || names[j] == rootName {
			return names[i] == rootName
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		def := s.Definitions[name]
		if def == nil || def.Properties == nil {
			continue
		}
		m.printf("## %s\n\n", name)
		if def.Description != "" {
			m.printf("%s\n\n", def.Description)
		}
		required := make(map[string]bool, len(def.Required))
		for _, r := range def.Required {
			required[r] = true
		}
		m.printf("| Field | Type | Required | Default | Description |\n")
		m.printf("|-------|------|----------|---------|-------------|\n")
		for pair := def.Properties.Oldest(); pair != nil; pair = pair.Next() {
			req := ""
			if required[pair.Key] {
				req = "**yes**"
			}
			m.printf("| `%s` | %s | %s | %s | %s |\n",
				pair.Key, schemaTypeString(pair.Value), req, formatDefault(pair.Value), formatDescription(pair.Value))
		}
		m.printf("\n")
	}
	return m.err
}

// WriteMarkdown renders s to path atomically.
func WriteMarkdown(path string, s *jsonschema.Schema) error {
	return WriteFile(path, func(w io.Writer) error {
		return RenderMarkdown(w, s)
	})
}

// schemaTypeString returns a human-readable type string for a property.
func schemaTypeString(prop *jsonschema.Schema) string {
	if prop.Ref != "" {
		return refName(prop.Ref)
	}
	switch prop.Type {
	case "array":
		if prop.Items == nil {
			return "array"
		}
		if prop.Items.Ref != "" {
			return "[]" + refName(prop.Items.Ref)
		}
		return "[]" + prop.Items.Type
	case "object":
		if prop.AdditionalProperties == nil {
			return "object"
		}
		if prop.AdditionalProperties.Ref != "" {
			return "map[string]" + refName(prop.AdditionalProperties.Ref)
		}
		return "map[string]" + prop.AdditionalProperties.Type
	case "":
		return "any"
	}
	return prop.Type
}

// refName extracts the type name from a $ref like "#/$defs/Watchdog".
func refName(ref string) string {
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func formatDefault(prop *jsonschema.Schema) string {
	if prop.Default != nil {
		return fmt.Sprintf("`%v`", prop.Default)
	}
	return ""
}

// formatDescription returns the description with any enum values appended,
// flattened to fit a markdown table cell.
func formatDescription(prop *jsonschema.Schema) string {
	desc := prop.Description
	if len(prop.Enum) > 0 {
		vals := make([]string, len(prop.Enum))
		for i, v := range prop.Enum {
			vals[i] = fmt.Sprintf("`%v`", v)
		}
		desc = strings.TrimSpace(desc + " Enum: " + strings.Join(vals, ", "))
	}
	desc = strings.ReplaceAll(desc, "\n", " ")
	return strings.ReplaceAll(desc, "|", "\\|")
}
