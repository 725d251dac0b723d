// Package telemetry wires OpenTelemetry metrics and logs for rtwd.
//
// Nothing is exported unless an OTLP endpoint is configured. Without one
// the global providers stay no-op and every Record* call is free.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// EnvInstance names the service.instance.id resource attribute. Endpoint
// overrides live in the config package.
const EnvInstance = "RTWD_INSTANCE"

// exportInterval is how often the periodic reader pushes metrics.
const exportInterval = 10 * time.Second

// Config selects the OTLP/HTTP endpoints. Empty URLs disable that signal.
type Config struct {
	MetricsURL  string
	LogsURL     string
	ServiceName string
}

// Enabled reports whether any signal is configured.
func (c Config) Enabled() bool {
	return c.MetricsURL != "" || c.LogsURL != ""
}

// Provider owns the SDK providers installed by Init.
type Provider struct {
	meters  *sdkmetric.MeterProvider
	loggers *sdklog.LoggerProvider
}

// Init installs global meter and logger providers exporting over OTLP/HTTP.
// It returns a Provider whose Shutdown flushes pending data. When cfg has no
// endpoints, Init does nothing and returns a nil Provider.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	res := resource.NewSchemaless(resourceAttrs(cfg.ServiceName)...)
	p := &Provider{}

	if cfg.MetricsURL != "" {
		exp, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(cfg.MetricsURL))
		if err != nil {
			return nil, fmt.Errorf("creating metrics exporter: %w", err)
		}
		p.meters = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(exportInterval))),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(p.meters)
		// Instruments bound to the previous provider must be rebuilt.
		resetInstruments()
	}

	if cfg.LogsURL != "" {
		exp, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(cfg.LogsURL))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("creating logs exporter: %w", err), p.Shutdown(ctx))
		}
		p.loggers = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(p.loggers)
	}
	return p, nil
}

// Shutdown flushes and stops the providers. Safe on a nil Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.meters != nil {
		errs = append(errs, p.meters.Shutdown(ctx))
	}
	if p.loggers != nil {
		errs = append(errs, p.loggers.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// resourceAttrs describes this process. RTWD_INSTANCE, when set, labels
// the instance so several watchdog hosts can share a backend.
func resourceAttrs(service string) []attribute.KeyValue {
	if service == "" {
		service = "rtwd"
	}
	attrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("process.pid", strconv.Itoa(os.Getpid())),
	}
	if v := os.Getenv(EnvInstance); v != "" {
		attrs = append(attrs, attribute.String("service.instance.id", v))
	}
	return attrs
}
