package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterRecorderName = "github.com/steveyegge/rtwatchdog"
	loggerName        = "rtwatchdog"
)

// recorderInstruments holds all lazy-initialized OTel metric instruments.
type recorderInstruments struct {
	watchdogStartTotal    metric.Int64Counter
	watchdogDegradedTotal metric.Int64Counter
	probeTotal            metric.Int64Counter
	selftestBeatsTotal    metric.Int64Counter
}

var (
	instMu   sync.Mutex
	instOnce sync.Once
	inst     recorderInstruments
)

// initInstruments registers the instruments against the current global
// MeterProvider. Called lazily from every Record function.
func initInstruments() {
	instMu.Lock()
	defer instMu.Unlock()
	instOnce.Do(func() {
		m := otel.GetMeterProvider().Meter(meterRecorderName)

		inst.watchdogStartTotal, _ = m.Int64Counter("rtwd.watchdog.starts.total",
			metric.WithDescription("Total watchdog starts by strategy and monitor mode"),
		)
		inst.watchdogDegradedTotal, _ = m.Int64Counter("rtwd.watchdog.degraded.total",
			metric.WithDescription("Total watchdog starts that used the fallback monitor"),
		)
		inst.probeTotal, _ = m.Int64Counter("rtwd.probe.total",
			metric.WithDescription("Total SCHED_DEADLINE capability probes"),
		)
		inst.selftestBeatsTotal, _ = m.Int64Counter("rtwd.selftest.beats.total",
			metric.WithDescription("Total heartbeats fed by rtwd selftest"),
		)
	})
}

// resetInstruments forces the next Record call to rebuild instruments.
func resetInstruments() {
	instMu.Lock()
	defer instMu.Unlock()
	instOnce = sync.Once{}
}

// statusStr returns "ok" or "error" depending on whether err is nil.
func statusStr(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// emit sends an OTel log event with the given body and key-value attributes.
func emit(ctx context.Context, body string, sev otellog.Severity, attrs ...otellog.KeyValue) {
	logger := global.GetLoggerProvider().Logger(loggerName)
	var r otellog.Record
	r.SetBody(otellog.StringValue(body))
	r.SetSeverity(sev)
	r.AddAttributes(attrs...)
	logger.Emit(ctx, r)
}

// errKV returns a log KeyValue with the error message, or empty string if nil.
func errKV(err error) otellog.KeyValue {
	if err != nil {
		return otellog.String("error", err.Error())
	}
	return otellog.String("error", "")
}

// severity returns SeverityInfo on success, SeverityError on failure.
func severity(err error) otellog.Severity {
	if err != nil {
		return otellog.SeverityError
	}
	return otellog.SeverityInfo
}

// RecordWatchdogStart records a watchdog start attempt (metrics + log event).
// mode is the monitor that ended up running, "none" on failure.
func RecordWatchdogStart(ctx context.Context, strategy, mode string, interval time.Duration, err error) {
	initInstruments()
	status := statusStr(err)
	inst.watchdogStartTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("mode", mode),
			attribute.String("status", status),
		),
	)
	emit(ctx, "watchdog.start", severity(err),
		otellog.String("strategy", strategy),
		otellog.String("mode", mode),
		otellog.Int64("interval_ms", interval.Milliseconds()),
		otellog.String("status", status),
		errKV(err),
	)
}

// RecordDegraded records a start that settled for the fallback monitor.
func RecordDegraded(ctx context.Context, strategy, reason string) {
	initInstruments()
	inst.watchdogDegradedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("strategy", strategy)),
	)
	emit(ctx, "watchdog.degraded", otellog.SeverityWarn,
		otellog.String("strategy", strategy),
		otellog.String("reason", reason),
	)
}

// RecordProbe records the outcome of a SCHED_DEADLINE capability probe.
// A nil err means deadline scheduling is usable.
func RecordProbe(ctx context.Context, err error) {
	initInstruments()
	supported := err == nil
	inst.probeTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("supported", supported)),
	)
	sev := otellog.SeverityInfo
	if !supported {
		sev = otellog.SeverityWarn
	}
	emit(ctx, "watchdog.probe", sev,
		otellog.Bool("supported", supported),
		errKV(err),
	)
}

// RecordSelftest records a completed selftest run.
func RecordSelftest(ctx context.Context, strategy, mode string, beats int) {
	initInstruments()
	inst.selftestBeatsTotal.Add(ctx, int64(beats),
		metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("mode", mode),
		),
	)
	emit(ctx, "selftest.run", otellog.SeverityInfo,
		otellog.String("strategy", strategy),
		otellog.String("mode", mode),
		otellog.Int("beats", beats),
	)
}
