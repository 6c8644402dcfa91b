package handlers

import (
	"net/http"

	"timetable/models"
	"timetable/services/assistant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgWebhookFailure = "Something went wrong. Please try again later."

// WebhookHandler serves Dialogflow fulfillment requests.
type WebhookHandler struct {
	Assistant assistant.AssistantService
}

func NewWebhookHandler(svc assistant.AssistantService) *WebhookHandler {
	return &WebhookHandler{Assistant: svc}
}

// FulfillmentHandler answers one intent. Dialogflow shows fulfillmentText to
// the user, so failures are reported as a friendly text with status 200.
func (h *WebhookHandler) FulfillmentHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("FulfillmentHandler: invalid request body", zap.Error(err))
		c.JSON(http.StatusOK, models.WebhookResponse{FulfillmentText: msgWebhookFailure})
		return
	}

	text, err := h.Assistant.Fulfill(c.Request.Context(), req)
	if err != nil {
		logger.Error("FulfillmentHandler: webhook error",
			zap.String("intent", req.QueryResult.Intent.DisplayName), zap.Error(err))
		c.JSON(http.StatusOK, models.WebhookResponse{FulfillmentText: msgWebhookFailure})
		return
	}
	c.JSON(http.StatusOK, models.WebhookResponse{FulfillmentText: text})
}

// LiveHandler lets hosting platforms check that the webhook is up.
func (h *WebhookHandler) LiveHandler(c *gin.Context) {
	c.String(http.StatusOK, "✅ Webhook is live and working!")
}
