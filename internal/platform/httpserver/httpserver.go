package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with defaults for this project. WriteTimeout is
// left open because login waits on the slowest backend domain and report
// downloads stream binary bodies; handlers bound their own work instead.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
