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
	proposalsCreated  metric.Int64Counter
	paymentsConfirmed metric.Int64Counter
	sharesResolved    metric.Int64Counter
	notificationsSent metric.Int64Counter
	rateLimitDenied   metric.Int64Counter
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
		name = "valentine"
	}
	meter := provider.Meter(name)

	proposalsCreated, err := meter.Int64Counter("valentine_proposals_created_total")
	if err != nil {
		return nil, err
	}
	paymentsConfirmed, err := meter.Int64Counter("valentine_payments_confirmed_total")
	if err != nil {
		return nil, err
	}
	sharesResolved, err := meter.Int64Counter("valentine_shares_resolved_total")
	if err != nil {
		return nil, err
	}
	notificationsSent, err := meter.Int64Counter("valentine_notifications_sent_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("valentine_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		proposalsCreated:  proposalsCreated,
		paymentsConfirmed: paymentsConfirmed,
		sharesResolved:    sharesResolved,
		notificationsSent: notificationsSent,
		rateLimitDenied:   rateLimitDenied,
	}, nil
}

// RecordProposalCreated increments proposal creation counts.
func (m *Metrics) RecordProposalCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.proposalsCreated.Add(ctx, 1)
}

// RecordPaymentConfirmed increments confirmed payment counts.
// Remint is false when the call was an idempotent replay.
func (m *Metrics) RecordPaymentConfirmed(ctx context.Context, minted bool) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.Bool("minted", minted))
	m.paymentsConfirmed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordShareResolved increments share resolution counts by outcome.
func (m *Metrics) RecordShareResolved(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.sharesResolved.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordNotificationSent increments notification delivery counts by outcome.
func (m *Metrics) RecordNotificationSent(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.notificationsSent.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
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
	"endpoint": {},
	"outcome":  {},
	"minted":   {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
// Slug values must never appear as labels.
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
