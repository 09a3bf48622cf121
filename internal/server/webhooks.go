package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/picksmart/storesync/internal/shopify/webhook"
)

func (s *Server) HandleShopifyWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	delivery := webhook.Delivery{
		WebhookID: c.GetHeader("X-Shopify-Webhook-Id"),
		Topic:     c.GetHeader("X-Shopify-Topic"),
		Signature: c.GetHeader("X-Shopify-Hmac-Sha256"),
		Body:      body,
	}
	c.Set("webhook_topic", delivery.Topic)

	result, err := s.webhookSvc.Process(c.Request.Context(), delivery)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"topic":   result.Topic.String(),
		"handled": result.Status,
	})
}
