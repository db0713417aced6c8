package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMuxRoutes(t *testing.T) {
	hooked := false
	webhook := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hooked = true
		w.WriteHeader(http.StatusAccepted)
	})

	mux := NewMux(false, webhook)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, WebhookPath, nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.True(t, hooked)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMuxExposesMetrics(t *testing.T) {
	rr := httptest.NewRecorder()
	NewMux(true, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
