package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	categorydomain "github.com/picksmart/storesync/internal/category/domain"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	orderdomain "github.com/picksmart/storesync/internal/order/domain"
	"github.com/picksmart/storesync/internal/shopify/webhook"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, webhook.ErrInvalidSignature):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "signature verification failed",
		}
	case errors.Is(err, webhook.ErrBusy):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "entity is being processed, retry later",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, webhook.ErrMalformedPayload),
		errors.Is(err, catalogdomain.ErrInvalidHandle),
		errors.Is(err, catalogdomain.ErrInvalidTitle),
		errors.Is(err, categorydomain.ErrInvalidPath),
		errors.Is(err, customerdomain.ErrInvalidKey),
		errors.Is(err, orderdomain.ErrInvalidName):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, categorydomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog maps an error to (type, code) for the request log.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status == http.StatusUnauthorized:
		return "auth", payload.Type
	case status >= 500:
		return "internal", payload.Type
	default:
		return "request", payload.Type
	}
}
