package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	"github.com/picksmart/storesync/internal/reconcile"
	"github.com/picksmart/storesync/internal/shopify/webhook"
	"github.com/picksmart/storesync/internal/webhooklog"
)

type stubWebhookService struct {
	result webhook.Result
	err    error
	last   webhook.Delivery
}

func (s *stubWebhookService) Process(_ context.Context, delivery webhook.Delivery) (webhook.Result, error) {
	s.last = delivery
	return s.result, s.err
}

func newTestServer(t *testing.T, stub *stubWebhookService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:        engine,
		WebhookSvc: stub,
	})
	return engine
}

func postWebhook(engine *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHandleShopifyWebhook_Success(t *testing.T) {
	stub := &stubWebhookService{
		result: webhook.Result{
			Topic:   webhook.TopicProductsUpdate,
			Status:  webhooklog.StatusProcessed,
			Outcome: reconcile.OutcomeUpdated,
		},
	}
	engine := newTestServer(t, stub)

	rec := postWebhook(engine, `{"handle":"mug"}`, map[string]string{
		"X-Shopify-Webhook-Id":  "wh-1",
		"X-Shopify-Topic":       "products/update",
		"X-Shopify-Hmac-Sha256": "sig",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "wh-1", stub.last.WebhookID)
	assert.Equal(t, "products/update", stub.last.Topic)
	assert.Equal(t, "sig", stub.last.Signature)
	assert.JSONEq(t, `{"status":"ok","topic":"products/update","handled":"processed"}`, rec.Body.String())
}

func TestHandleShopifyWebhook_InvalidSignature(t *testing.T) {
	stub := &stubWebhookService{err: webhook.ErrInvalidSignature}
	engine := newTestServer(t, stub)

	rec := postWebhook(engine, `{}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp.Error.Type)
}

func TestHandleShopifyWebhook_Busy(t *testing.T) {
	stub := &stubWebhookService{err: webhook.ErrBusy}
	engine := newTestServer(t, stub)

	rec := postWebhook(engine, `{}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		typ    string
	}{
		{webhook.ErrInvalidSignature, http.StatusUnauthorized, "unauthorized"},
		{webhook.ErrBusy, http.StatusConflict, "conflict"},
		{webhook.ErrMalformedPayload, http.StatusBadRequest, "validation_error"},
		{catalogdomain.ErrInvalidHandle, http.StatusBadRequest, "validation_error"},
		{catalogdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		status, payload := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.typ, payload.Type, tc.err.Error())
	}
}
