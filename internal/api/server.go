// Package api provides the werset REST and WebSocket API server.
package api

import (
	"net/http"

	"github.com/biblianet/werset/core/biblia"
	"github.com/biblianet/werset/internal/logging"
	"github.com/biblianet/werset/internal/server"
)

// Config holds API server configuration.
type Config struct {
	ListenAddr        string
	AllowedOrigins    []string
	RateLimitRequests int // requests per minute per client, 0 disables
	RateLimitBurst    int
}

// Server serves scripture lookups over HTTP.
type Server struct {
	cfg    Config
	engine *biblia.Engine
}

// NewServer wires an engine into an HTTP surface.
func NewServer(cfg Config, engine *biblia.Engine) *Server {
	return &Server{cfg: cfg, engine: engine}
}

// Handler builds the full middleware chain around the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/translations", s.handleTranslations)
	mux.HandleFunc("/api/v1/passage", s.handlePassage)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/api/v1/original", s.handleOriginal)
	mux.HandleFunc("/api/v1/original/stream", s.handleOriginalStream)

	var handler http.Handler = server.SecurityHeadersMiddleware(mux)
	handler = logging.CombinedMiddleware(handler)

	if s.cfg.RateLimitRequests > 0 {
		rlCfg := RateLimiterConfig{
			RequestsPerMinute: s.cfg.RateLimitRequests,
			BurstSize:         s.cfg.RateLimitBurst,
		}
		if rlCfg.BurstSize == 0 {
			rlCfg.BurstSize = 10
		}
		handler = NewRateLimiter(rlCfg).Middleware(handler)
		logging.Info("rate limiting enabled",
			"requests_per_minute", rlCfg.RequestsPerMinute,
			"burst_size", rlCfg.BurstSize)
	}

	corsConfig := server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}
	return server.CORSMiddlewareWithConfig(corsConfig, handler)
}

// Start runs the server until the listener fails.
func Start(cfg Config, engine *biblia.Engine) error {
	s := NewServer(cfg, engine)
	logging.ServerStartup("rest_api", cfg.ListenAddr,
		"websocket_endpoint", "/api/v1/original/stream")
	return http.ListenAndServe(cfg.ListenAddr, s.Handler())
}
