package telemetry

import (
	"context"
	"strings"
	"testing"
)

func TestInit_Disabled(t *testing.T) {
	p, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Init = %v, want nil", err)
	}
	if p != nil {
		t.Errorf("Init returned provider %v, want nil when no endpoints", p)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("nil Provider Shutdown = %v, want nil", err)
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty Config should be disabled")
	}
	if !(Config{LogsURL: "http://localhost:4318/v1/logs"}).Enabled() {
		t.Error("Config with LogsURL should be enabled")
	}
}

func TestInit_MetricsOnly(t *testing.T) {
	// The exporter connects lazily; nothing listens on this port.
	p, err := Init(context.Background(), Config{MetricsURL: "http://127.0.0.1:1/v1/metrics"})
	if err != nil {
		t.Fatalf("Init = %v", err)
	}
	if p == nil || p.meters == nil {
		t.Fatal("expected meter provider")
	}
	if p.loggers != nil {
		t.Error("logger provider should be nil without LogsURL")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = p.Shutdown(ctx) // export to a dead endpoint may fail
}

func TestResourceAttrs(t *testing.T) {
	t.Setenv(EnvInstance, "")
	attrs := resourceAttrs("")
	if len(attrs) != 2 {
		t.Fatalf("len(attrs) = %d, want 2", len(attrs))
	}
	if attrs[0].Value.AsString() != "rtwd" {
		t.Errorf("service.name = %q, want rtwd", attrs[0].Value.AsString())
	}

	t.Setenv(EnvInstance, "edge-7")
	attrs = resourceAttrs("svc")
	var found bool
	for _, kv := range attrs {
		if string(kv.Key) == "service.instance.id" && strings.Contains(kv.Value.AsString(), "edge-7") {
			found = true
		}
	}
	if !found {
		t.Errorf("service.instance.id missing: %v", attrs)
	}
}
