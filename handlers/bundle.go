// File: timetable/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	// Webhook endpoints
	FulfillmentHandler gin.HandlerFunc
	LiveHandler        gin.HandlerFunc

	// Operations
	HealthHandler gin.HandlerFunc

	// Rate limit per client IP.
	MaxRequestsPerMin int
}
