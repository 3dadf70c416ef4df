package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arloliu/go-tagwire/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ExportsCounters(t *testing.T) {
	m := &transport.Metrics{}
	m.FrameRecvCount.Add(3)
	m.ByteRecvCount.Add(3 * 196)
	m.TimeoutCount.Add(1)
	m.ErrCount.Add(2)

	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg, m, func() int { return 4 }))

	rec := httptest.NewRecorder()
	NewHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "tagwire_frames_received_total 3")
	assert.Contains(t, body, "tagwire_bytes_received_total 588")
	assert.Contains(t, body, "tagwire_frames_sent_total 0")
	assert.Contains(t, body, "tagwire_timeouts_total 1")
	assert.Contains(t, body, "tagwire_errors_total 2")
	assert.Contains(t, body, "tagwire_active_connections 4")

	// collectors read the counters at scrape time
	m.FrameRecvCount.Add(1)
	rec = httptest.NewRecorder()
	NewHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "tagwire_frames_received_total 4")
}

func TestRegister_WithoutActiveGauge(t *testing.T) {
	assert.Len(t, NewCollectors(&transport.Metrics{}, nil), 6)
	assert.Len(t, NewCollectors(&transport.Metrics{}, func() int { return 0 }), 7)
}

func TestRegister_Duplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg, &transport.Metrics{}, nil))
	require.Error(t, Register(reg, &transport.Metrics{}, nil))
}

func TestHandler_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(prometheus.NewRegistry()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
