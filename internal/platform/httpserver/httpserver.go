// Package httpserver builds the API's *http.Server.
package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"confcentral/internal/platform/config"
)

// writeSlack lets a handler that hit the request timeout still write its
// 504 before the connection deadline.
const writeSlack = 5 * time.Second

// New builds a server for handler. The write deadline follows the request
// timeout; server-level errors go to logger at warn level.
func New(cfg config.Server, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + writeSlack,
		IdleTimeout:       2 * time.Minute,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
