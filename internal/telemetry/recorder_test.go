package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
)

// resetForTest rebuilds instruments against the current (noop) global
// MeterProvider during tests.
func resetForTest(t *testing.T) {
	t.Helper()
	resetInstruments()
	t.Cleanup(resetInstruments)
}

// --- helper functions ---

func TestStatusStr(t *testing.T) {
	if got := statusStr(nil); got != "ok" {
		t.Errorf("statusStr(nil) = %q, want \"ok\"", got)
	}
	if got := statusStr(errors.New("boom")); got != "error" {
		t.Errorf("statusStr(err) = %q, want \"error\"", got)
	}
}

func TestSeverity_Nil(t *testing.T) {
	if got := severity(nil); got != otellog.SeverityInfo {
		t.Errorf("severity(nil) = %v, want SeverityInfo", got)
	}
}

func TestSeverity_Error(t *testing.T) {
	if got := severity(errors.New("err")); got != otellog.SeverityError {
		t.Errorf("severity(err) = %v, want SeverityError", got)
	}
}

func TestErrKV_Nil(t *testing.T) {
	kv := errKV(nil)
	if kv.Value.AsString() != "" {
		t.Errorf("errKV(nil) value = %q, want empty", kv.Value.AsString())
	}
}

func TestErrKV_NonNil(t *testing.T) {
	kv := errKV(errors.New("test error"))
	if kv.Value.AsString() != "test error" {
		t.Errorf("errKV(err) value = %q, want %q", kv.Value.AsString(), "test error")
	}
}

// --- Record* functions (noop providers, must not panic) ---

func TestRecordWatchdogStart(t *testing.T) {
	resetForTest(t)
	ctx := context.Background()

	RecordWatchdogStart(ctx, "realtime", "realtime", 100*time.Millisecond, nil)
	RecordWatchdogStart(ctx, "realtime", "none", time.Second, errors.New("unsupported"))
}

func TestRecordDegraded(t *testing.T) {
	resetForTest(t)
	RecordDegraded(context.Background(), "realtime-or-fallback", "realtime monitor unavailable")
}

func TestRecordProbe(t *testing.T) {
	resetForTest(t)
	ctx := context.Background()

	RecordProbe(ctx, nil)
	RecordProbe(ctx, errors.New("operation not permitted"))
}

func TestRecordSelftest(t *testing.T) {
	resetForTest(t)
	RecordSelftest(context.Background(), "fallback", "fallback", 10)
	RecordSelftest(context.Background(), "fallback", "fallback", 0)
}
