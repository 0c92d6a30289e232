// Package middleware holds the HTTP middleware chain: CORS, request
// logging, and metrics instrumentation.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls cross-origin access to the API.  The plot frontend is
// served from a different origin during development, so the data endpoints
// must answer preflight requests.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins; "*" allows all.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is how long, in seconds, browsers may cache preflight results.
	MaxAge int
}

// DefaultCORSConfig returns the configuration used by the API server:
// read-plus-POST methods and the headers the frontend actually sends.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 86400,
	}
}

// CORSMiddleware answers preflight requests and stamps CORS headers on
// responses to allowed origins.  Requests from other origins pass through
// without CORS headers; the browser enforces the block.
type CORSMiddleware struct {
	cfg        CORSConfig
	allowAll   bool
	originSet  map[string]bool
	methodsStr string
	headersStr string
	maxAgeStr  string
}

// NewCORSMiddleware creates a CORSMiddleware from cfg.
func NewCORSMiddleware(cfg CORSConfig) *CORSMiddleware {
	m := &CORSMiddleware{
		cfg:        cfg,
		originSet:  make(map[string]bool, len(cfg.AllowedOrigins)),
		methodsStr: strings.Join(cfg.AllowedMethods, ", "),
		headersStr: strings.Join(cfg.AllowedHeaders, ", "),
		maxAgeStr:  strconv.Itoa(cfg.MaxAge),
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			m.allowAll = true
			continue
		}
		m.originSet[strings.ToLower(origin)] = true
	}
	return m
}

func (m *CORSMiddleware) allowed(origin string) bool {
	return m.allowAll || m.originSet[strings.ToLower(origin)]
}

// Handler is the middleware entry point.
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || !m.allowed(origin) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Origin")
		if m.allowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", m.methodsStr)
			w.Header().Set("Access-Control-Allow-Headers", m.headersStr)
			if m.cfg.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", m.maxAgeStr)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
