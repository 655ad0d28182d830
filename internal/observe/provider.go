package observe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider is an initialised metrics pipeline.
type Provider struct {
	Metrics *Metrics
	// Handler serves the Prometheus exposition format.
	Handler http.Handler

	meterProvider *sdkmetric.MeterProvider
}

// InitProvider sets up a MeterProvider with a Prometheus exporter on its own
// registry and registers it as the global provider.
func InitProvider() (*Provider, error) {
	registry := prometheus.NewRegistry()
	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("promexporter.New() > %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, fmt.Errorf("NewMetrics() > %w", err)
	}

	return &Provider{
		Metrics:       metrics,
		Handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		meterProvider: mp,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("meterProvider.Shutdown() > %w", err)
	}
	return nil
}
