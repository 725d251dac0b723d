// Package docgen generates JSON Schema and markdown documentation from
// rtwd's Go config structs and cobra command tree.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/steveyegge/rtwatchdog/internal/config"
	"github.com/steveyegge/rtwatchdog/watchdog"
)

// ModuleRoot finds the repo root by walking up from the current directory
// looking for go.mod. Returns the absolute path.
func ModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent of %s", dir)
		}
		dir = parent
	}
}

// textTypes maps config types that encode as strings to their schemas.
func textTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(watchdog.Strategy(0)):
		var enum []any
		for _, s := range watchdog.Strategies() {
			enum = append(enum, s.String())
		}
		return &jsonschema.Schema{Type: "string", Enum: enum}
	case reflect.TypeOf(config.Duration(0)):
		return &jsonschema.Schema{
			Type:    "string",
			Pattern: `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		}
	}
	return nil
}

// newReflector creates a jsonschema.Reflector configured for TOML field
// names with Go doc comments extracted from the source tree.
//
// AddGoComments joins the walked directory onto the module path, so the
// walk has to start from the module root with a relative path.
func newReflector() (*jsonschema.Reflector, error) {
	root, err := ModuleRoot()
	if err != nil {
		return nil, err
	}

	orig, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	if err := os.Chdir(root); err != nil {
		return nil, fmt.Errorf("chdir to module root: %w", err)
	}
	defer func() { _ = os.Chdir(orig) }()

	r := &jsonschema.Reflector{
		FieldNameTag: "toml",
		Mapper:       textTypes,
	}
	if err := r.AddGoComments("github.com/steveyegge/rtwatchdog", "./internal/config"); err != nil {
		return nil, fmt.Errorf("extracting Go comments: %w", err)
	}
	return r, nil
}

// GenerateConfigSchema produces a JSON Schema for rtwd.toml. It reflects
// config.File using TOML field names and extracts doc comments as
// descriptions.
func GenerateConfigSchema() (*jsonschema.Schema, error) {
	r, err := newReflector()
	if err != nil {
		return nil, err
	}
	s := r.Reflect(&config.File{})
	s.Title = "rtwd Configuration"
	s.Description = "Schema for rtwd.toml, the watchdog and selftest configuration. The same keys are accepted in rtwd.yaml."
	return s, nil
}
