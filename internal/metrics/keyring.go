package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// KeyRingStats reports the observable state of the encryption key ring.
type KeyRingStats interface {
	Len() int
}

// RegisterKeyRingGauge exports the number of keys held by the ring as an
// observable gauge named {namespace}_key_ring_keys. The value is read on every scrape.
func RegisterKeyRingGauge(meterProvider metric.MeterProvider, namespace string, ring KeyRingStats) error {
	meter := meterProvider.Meter(namespace)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_key_ring_keys", namespace),
		metric.WithDescription("Number of encryption keys loaded in the key ring"),
		metric.WithUnit("{key}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(ring.Len()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create key ring gauge: %w", err)
	}
	return nil
}
