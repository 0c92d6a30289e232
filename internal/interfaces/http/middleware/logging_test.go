package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
)

func TestLoggingMiddlewareRecordsRequest(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	m := NewLoggingMiddleware(logging.NewLoggerFromCore(core), DefaultLoggingConfig())

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/volcano-data", nil))

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request served", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/volcano-data", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.EqualValues(t, 11, fields["bytes"])
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantLevel  zapcore.Level
		wantPrefix string
	}{
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel, "request failed"},
		{"client error", http.StatusUnprocessableEntity, zapcore.WarnLevel, "request rejected"},
		{"success", http.StatusOK, zapcore.InfoLevel, "request served"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.DebugLevel)
			m := NewLoggingMiddleware(logging.NewLoggerFromCore(core), DefaultLoggingConfig())

			h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

			entries := observed.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, tt.wantPrefix, entries[0].Message)
		})
	}
}

func TestLoggingMiddlewareSkipsConfiguredPaths(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	m := NewLoggingMiddleware(logging.NewLoggerFromCore(core), DefaultLoggingConfig())

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, observed.All())
}
