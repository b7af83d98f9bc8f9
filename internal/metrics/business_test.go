package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), DomainPayment, "payment_method_store", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), DomainPayment, "payment_method_store", "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), DomainPayment, "payment_method_store", "success")
		bm.RecordOperation(context.Background(), DomainCrypto, "encrypt_card", "success")
		bm.RecordOperation(context.Background(), DomainCrypto, "key_rotate", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), DomainPayment, "payment_method_store", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), DomainPayment, "payment_method_store", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordDuration(context.Background(), DomainPayment, "payment_method_store", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), DomainCrypto, "encrypt_card", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), DomainCrypto, "key_rotate", 300*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), DomainPayment, "payment_method_store", "success")
		noOpMetrics.RecordOperation(context.Background(), DomainCrypto, "encrypt_card", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			DomainPayment,
			"payment_method_store",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), DomainCrypto, "encrypt_card", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	// Record various operations
	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, DomainPayment, "payment_method_store", "success")
	bm.RecordOperation(ctx, DomainPayment, "payment_method_store", "success")
	bm.RecordOperation(ctx, DomainPayment, "payment_method_store", "error")
	bm.RecordOperation(ctx, DomainCrypto, "encrypt_card", "success")
	bm.RecordOperation(ctx, DomainCrypto, "decrypt_card", "success")
	bm.RecordOperation(ctx, DomainCrypto, "key_rotate", "success")

	// Record operation durations
	bm.RecordDuration(ctx, DomainPayment, "payment_method_store", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, DomainPayment, "payment_method_store", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, DomainPayment, "payment_method_store", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, DomainCrypto, "encrypt_card", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, DomainCrypto, "decrypt_card", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, DomainCrypto, "key_rotate", 150*time.Millisecond, "success")

	// Metrics should be recorded without errors
	// Verify metrics in Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="payment".*operation="payment_method_store".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="payment".*operation="payment_method_store".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="crypto".*operation="encrypt_card".*status="success"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="payment".*operation="payment_method_store".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="payment".*operation="payment_method_store".*status="success"`,
		``,
	)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, Status(nil))
	assert.Equal(t, StatusError, Status(errors.New("boom")))
}
