package routes

import (
	"net/http"
	"time"

	"timetable/handlers"
	"timetable/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the chat agent fulfillment endpoints.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", hb.LiveHandler)

	webhook := r.Group("/webhook")
	{
		webhook.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))
		webhook.POST("", hb.FulfillmentHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.HealthHandler != nil {
		r.GET("/health", hb.HealthHandler)
		return
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
