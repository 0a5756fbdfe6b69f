package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// CORS adapts go-chi/cors to gin. Preflight requests are answered by the
// cors handler and never reach the routes.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", headerRequestID},
		ExposedHeaders:   []string{headerRequestID, "X-Rate-Limit-Limit", "X-Rate-Limit-Remaining", "X-Rate-Limit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return func(c *gin.Context) {
		passed := false
		handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}
