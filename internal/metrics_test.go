package internal

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserve(t *testing.T) {
	metrics := NewMetrics()
	metrics.Observe(testSummary(), &RunError{Failed: 1})

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.tables.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.tables.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.tables.WithLabelValues("skipped")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.tables.WithLabelValues("empty")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.records.WithLabelValues("b")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.lastSuccess))
}

func TestMetricsLastSuccess(t *testing.T) {
	metrics := NewMetrics()
	metrics.Observe(Summary{}, nil)
	assert.Greater(t, testutil.ToFloat64(metrics.lastSuccess), float64(0))

	metrics = NewMetrics()
	metrics.Observe(Summary{}, errors.New("failed"))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.lastSuccess))
}

func TestMetricsPush(t *testing.T) {
	var method, path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		method, path, body = r.Method, r.URL.Path, string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	metrics := NewMetrics()
	metrics.Observe(testSummary(), nil)
	require.NoError(t, metrics.Push(server.URL))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/notion_backup", path)
	assert.NotEmpty(t, body)
}

func TestMetricsPushError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Error(t, NewMetrics().Push(server.URL))
}
