package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	importRecords   metric.Int64Counter
	webhookEvents   metric.Int64Counter
	upsertOutcomes  metric.Int64Counter
	operatorAlerts  metric.Int64Counter
	webhookDuration metric.Int64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "storesync"
	}
	meter := provider.Meter(name)

	importRecords, err := meter.Int64Counter("storesync_import_records_total")
	if err != nil {
		return nil, err
	}
	webhookEvents, err := meter.Int64Counter("storesync_webhook_events_total")
	if err != nil {
		return nil, err
	}
	upsertOutcomes, err := meter.Int64Counter("storesync_upsert_outcomes_total")
	if err != nil {
		return nil, err
	}
	operatorAlerts, err := meter.Int64Counter("storesync_operator_alerts_total")
	if err != nil {
		return nil, err
	}
	webhookDuration, err := meter.Int64Histogram("storesync_webhook_duration_ms")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		importRecords:   importRecords,
		webhookEvents:   webhookEvents,
		upsertOutcomes:  upsertOutcomes,
		operatorAlerts:  operatorAlerts,
		webhookDuration: webhookDuration,
	}, nil
}

// RecordImportRecord counts one processed record of a bulk import.
func (m *Metrics) RecordImportRecord(ctx context.Context, entity, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("entity", strings.TrimSpace(entity)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.importRecords.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordWebhookEvent counts one inbound webhook delivery.
func (m *Metrics) RecordWebhookEvent(ctx context.Context, topic, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("topic", strings.TrimSpace(topic)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.webhookEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.webhookDuration.Record(ctx, duration.Milliseconds(), metric.WithAttributes(attrs...))
}

// RecordUpsertOutcome counts reconciler decisions per entity type.
func (m *Metrics) RecordUpsertOutcome(ctx context.Context, entity, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("entity", strings.TrimSpace(entity)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.upsertOutcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordOperatorAlert counts raised operator alerts.
func (m *Metrics) RecordOperatorAlert(ctx context.Context, topic string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("topic", strings.TrimSpace(topic)))
	m.operatorAlerts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"entity":      {},
	"outcome":     {},
	"topic":       {},
	"status":      {},
	"status_code": {},
	"endpoint":    {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
