package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
)

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	_, err := NewHTTPServer(config.Config{}, logging.NewNop())
	require.Error(t, err)
}

func TestNewHTTPServer_ServesShellAndHealth(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		HTTPAddr:         ":0",
		ReadTimeout:      5 * time.Second,
		AnalyticsBaseURL: "http://127.0.0.1:1",
		AnalyticsTimeout: time.Second,
	}
	srv, err := NewHTTPServer(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), shellTitle))
}
