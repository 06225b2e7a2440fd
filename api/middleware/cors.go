package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/calderapos/caldera-backend/pkg/config"
)

// CORS returns middleware that applies the API's allowed origin policy. The
// dashboard authenticates with cookies, so credentials must be allowed and
// origins can never be a wildcard.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token", "X-Requested-With", "X-Tenant", "X-Store-Location"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
