package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS builds a CORS middleware restricted to the given origins. The
// dashboard frontend is the only expected cross-origin consumer.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler
}
