package docgen

import (
	"encoding/json"
	"testing"
)

// defProperties extracts the properties map for a named $defs entry.
func defProperties(t *testing.T, raw map[string]interface{}, defName string) map[string]interface{} {
	t.Helper()
	defs, ok := raw["$defs"].(map[string]interface{})
	if !ok {
		t.Fatal("no $defs")
	}
	def, ok := defs[defName].(map[string]interface{})
	if !ok {
		t.Fatalf("no %s definition in $defs", defName)
	}
	props, ok := def["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("%s has no properties", defName)
	}
	return props
}

func configSchemaRaw(t *testing.T) map[string]interface{} {
	t.Helper()
	s, err := GenerateConfigSchema()
	if err != nil {
		t.Fatalf("GenerateConfigSchema: %v", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return raw
}

func TestGenerateConfigSchema(t *testing.T) {
	raw := configSchemaRaw(t)

	if raw["title"] != "rtwd Configuration" {
		t.Errorf("title = %v", raw["title"])
	}
	props := defProperties(t, raw, "File")
	for _, expected := range []string{"watchdog", "selftest", "telemetry"} {
		if _, ok := props[expected]; !ok {
			t.Errorf("missing File property %q", expected)
		}
	}
	for _, bad := range []string{"Watchdog", "Selftest", "Telemetry"} {
		if _, ok := props[bad]; ok {
			t.Errorf("found Go-style property %q, expected TOML name", bad)
		}
	}
}

func TestConfigSchemaStrategyEnum(t *testing.T) {
	props := defProperties(t, configSchemaRaw(t), "Watchdog")
	strategy, ok := props["strategy"].(map[string]interface{})
	if !ok {
		t.Fatal("strategy property not a map")
	}
	if strategy["type"] != "string" {
		t.Errorf("strategy type = %v, want string", strategy["type"])
	}
	enum, ok := strategy["enum"].([]interface{})
	if !ok {
		t.Fatal("strategy has no enum")
	}
	want := map[string]bool{"realtime-or-fallback": true, "realtime": true, "fallback": true}
	if len(enum) != len(want) {
		t.Errorf("enum = %v, want %d values", enum, len(want))
	}
	for _, v := range enum {
		if !want[v.(string)] {
			t.Errorf("unexpected enum value %v", v)
		}
	}
	if strategy["default"] != "realtime-or-fallback" {
		t.Errorf("strategy default = %v", strategy["default"])
	}
}

func TestConfigSchemaDurations(t *testing.T) {
	props := defProperties(t, configSchemaRaw(t), "Watchdog")
	ci, ok := props["check_interval"].(map[string]interface{})
	if !ok {
		t.Fatal("check_interval property not a map")
	}
	if ci["type"] != "string" {
		t.Errorf("check_interval type = %v, want string", ci["type"])
	}
	if ci["default"] != "100ms" {
		t.Errorf("check_interval default = %v, want 100ms", ci["default"])
	}
	if _, ok := ci["pattern"].(string); !ok {
		t.Error("check_interval has no pattern")
	}
}

func TestConfigSchemaDescriptions(t *testing.T) {
	props := defProperties(t, configSchemaRaw(t), "Selftest")
	beats, ok := props["beats"].(map[string]interface{})
	if !ok {
		t.Fatal("beats property not a map")
	}
	desc, ok := beats["description"].(string)
	if !ok || desc == "" {
		t.Error("Selftest.beats has no description; AddGoComments may not be extracting comments")
	}
	if beats["type"] != "integer" {
		t.Errorf("beats type = %v, want integer", beats["type"])
	}
}
