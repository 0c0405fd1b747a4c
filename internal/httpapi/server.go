package httpapi

import (
	"net/http"
	"time"

	"sza-server/internal/config"
)

func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           requestLogger(rateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, handler)),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
