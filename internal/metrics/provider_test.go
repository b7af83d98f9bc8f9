package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewProvider(t *testing.T) {
	t.Run("registers runtime collectors", func(t *testing.T) {
		provider, err := NewProvider("vault")
		require.NoError(t, err)
		t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

		body := scrape(t, provider)
		assert.Contains(t, body, "go_goroutines")
	})

	t.Run("empty namespace", func(t *testing.T) {
		provider, err := NewProvider("")
		require.NoError(t, err)
		assert.NotNil(t, provider.MeterProvider())
		assert.NotNil(t, provider.Meter())
	})
}

func TestProvider_MeterExportsInstruments(t *testing.T) {
	provider, err := NewProvider("vault")
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	counter, err := provider.Meter().Int64Counter("vault_probe_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	body := scrape(t, provider)
	assert.Contains(t, body, "vault_probe_total")
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("flushes provider", func(t *testing.T) {
		provider, err := NewProvider("vault")
		require.NoError(t, err)
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("zero value", func(t *testing.T) {
		provider := &Provider{}
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
