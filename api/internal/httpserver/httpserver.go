package httpserver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Start runs an HTTP server with sane timeouts. Blocks until the listener
// fails.
func Start(addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		// No write timeout: the model call may legitimately take a while and
		// there is no cancellation at this layer.
	}
	log.Info().Str("addr", addr).Msg("listening")
	return srv.ListenAndServe()
}
