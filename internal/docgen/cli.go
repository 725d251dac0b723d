package docgen

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const generatedNote = "> **Auto-generated**, do not edit. Run `go run ./cmd/genschema` to regenerate.\n\n"

// RenderCLIMarkdown writes a CLI reference by walking a cobra command tree.
// Hidden commands and flags are skipped. Each command gets an H2 heading,
// its synopsis, example, local flags, and a subcommands table.
func RenderCLIMarkdown(w io.Writer, root *cobra.Command) error {
	m := &mdWriter{w: w}
	m.printf("# CLI Reference\n\n")
	m.printf(generatedNote)

	var global []flagInfo
	root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			global = append(global, newFlagInfo(f))
		}
	})
	if len(global) > 0 {
		m.printf("## Global Flags\n\n")
		writeFlagTable(m, global)
	}

	walkCommands(m, root)
	return m.err
}

// WriteCLIMarkdown writes the CLI reference to path atomically.
func WriteCLIMarkdown(path string, root *cobra.Command) error {
	return WriteFile(path, func(w io.Writer) error {
		return RenderCLIMarkdown(w, root)
	})
}

func walkCommands(m *mdWriter, cmd *cobra.Command) {
	renderCommand(m, cmd)
	for _, child := range visibleChildren(cmd) {
		walkCommands(m, child)
	}
}

func visibleChildren(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

func renderCommand(m *mdWriter, cmd *cobra.Command) {
	m.printf("## %s\n\n", cmd.CommandPath())

	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc != "" {
		m.printf("%s\n\n", strings.TrimSpace(desc))
	}
	m.printf("```\n%s\n```\n\n", cmd.UseLine())
	if cmd.Example != "" {
		m.printf("**Example:**\n\n```\n%s\n```\n\n", strings.TrimSpace(cmd.Example))
	}

	// Inherited flags are documented once under Global Flags.
	var local []flagInfo
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			local = append(local, newFlagInfo(f))
		}
	})
	if len(local) > 0 {
		writeFlagTable(m, local)
	}

	children := visibleChildren(cmd)
	if len(children) == 0 {
		return
	}
	m.printf("| Subcommand | Description |\n")
	m.printf("|------------|-------------|\n")
	for _, c := range children {
		anchor := strings.ToLower(strings.ReplaceAll(c.CommandPath(), " ", "-"))
		m.printf("| [%s](#%s) | %s |\n", c.CommandPath(), anchor, c.Short)
	}
	m.printf("\n")
}

type flagInfo struct {
	Name    string
	Type    string
	Default string
	Desc    string
}

func newFlagInfo(f *pflag.Flag) flagInfo {
	name := "`--" + f.Name + "`"
	if f.Shorthand != "" {
		name = "`-" + f.Shorthand + "`, `--" + f.Name + "`"
	}
	defVal := ""
	if !isZeroDefault(f.DefValue, f.Value.Type()) {
		defVal = "`" + f.DefValue + "`"
	}
	return flagInfo{
		Name:    name,
		Type:    f.Value.Type(),
		Default: defVal,
		Desc:    strings.ReplaceAll(f.Usage, "|", "\\|"),
	}
}

// isZeroDefault reports whether val is the zero value for a pflag type name.
func isZeroDefault(val, typ string) bool {
	switch typ {
	case "bool":
		return val == "false"
	case "int", "int32", "int64", "uint", "uint32", "uint64", "float32", "float64":
		return val == "0"
	case "duration":
		return val == "0s"
	case "stringSlice", "stringArray":
		return val == "[]"
	}
	return val == ""
}

func writeFlagTable(m *mdWriter, flags []flagInfo) {
	m.printf("| Flag | Type | Default | Description |\n")
	m.printf("|------|------|---------|-------------|\n")
	for _, f := range flags {
		m.printf("| %s | %s | %s | %s |\n", f.Name, f.Type, f.Default, f.Desc)
	}
	m.printf("\n")
}
