package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	catalogrepo "github.com/picksmart/storesync/internal/catalog/repository"
	catalogsvc "github.com/picksmart/storesync/internal/catalog/service"
	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	customerrepo "github.com/picksmart/storesync/internal/customer/repository"
	customersvc "github.com/picksmart/storesync/internal/customer/service"
	"github.com/picksmart/storesync/internal/locks"
	"github.com/picksmart/storesync/internal/observability/metrics"
	orderdomain "github.com/picksmart/storesync/internal/order/domain"
	orderrepo "github.com/picksmart/storesync/internal/order/repository"
	ordersvc "github.com/picksmart/storesync/internal/order/service"
	"github.com/picksmart/storesync/internal/reconcile"
	"github.com/picksmart/storesync/internal/webhooklog"
)

const testSecret = "testsecret"

func sign(t *testing.T, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTestStack(t *testing.T) (Service, *gorm.DB, catalogdomain.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.Variant{},
		&catalogdomain.Image{},
		&catalogdomain.Metafield{},
		&customerdomain.Customer{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&webhooklog.Event{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewSystem()

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)

	products := catalogsvc.New(catalogsvc.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: catalogrepo.NewRepository(),
	})
	customers := customersvc.New(customersvc.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: customerrepo.NewRepository(),
	})
	orders := ordersvc.New(ordersvc.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo: orderrepo.NewRepository(), Customers: customers,
	})
	events := webhooklog.New(webhooklog.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Metrics:  m,
		Importer: (*config.ImporterConfigHolder)(nil),
	})

	svc := New(Params{
		Cfg:       config.Config{ShopifyWebhookSecret: testSecret},
		Log:       log,
		Locker:    locks.NewLocalLocker(),
		Events:    events,
		Products:  products,
		Customers: customers,
		Orders:    orders,
	})
	return svc, db, products
}

func TestProcess_RejectsInvalidSignature(t *testing.T) {
	svc, db, _ := newTestStack(t)
	body := []byte(`{"id":1,"handle":"mug","title":"Mug"}`)

	_, err := svc.Process(context.Background(), Delivery{
		WebhookID: "wh-1",
		Topic:     "products/create",
		Signature: "bogus",
		Body:      body,
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// Nothing is written, not even a delivery row.
	var products, events int64
	db.Model(&catalogdomain.Product{}).Count(&products)
	db.Model(&webhooklog.Event{}).Count(&events)
	assert.Zero(t, products)
	assert.Zero(t, events)
}

func TestProcess_UpdateForUnknownHandleCreates(t *testing.T) {
	svc, _, products := newTestStack(t)
	body := []byte(`{
		"id": 5501,
		"handle": "yoga-mat",
		"title": "Yoga Mat",
		"status": "active",
		"variants": [{"sku": "YM1", "price": "25.00", "inventory_quantity": 3, "option1": "Purple"}]
	}`)

	result, err := svc.Process(context.Background(), Delivery{
		WebhookID: "wh-2",
		Topic:     "products/update",
		Signature: sign(t, body),
		Body:      body,
	})
	require.NoError(t, err)
	assert.Equal(t, webhooklog.StatusProcessed, result.Status)
	assert.Equal(t, reconcile.OutcomeCreated, result.Outcome)

	product, err := products.GetByHandle(context.Background(), "yoga-mat")
	require.NoError(t, err)
	assert.Equal(t, int64(5501), product.ShopifyID)
	assert.Equal(t, int64(2500), product.Price)
	require.Len(t, product.Variants, 1)
}

func TestProcess_DuplicateDeliveryIsIdempotent(t *testing.T) {
	svc, db, _ := newTestStack(t)
	body := []byte(`{"id":5501,"handle":"yoga-mat","title":"Yoga Mat","status":"active"}`)
	delivery := Delivery{
		WebhookID: "wh-dup",
		Topic:     "products/update",
		Signature: sign(t, body),
		Body:      body,
	}

	first, err := svc.Process(context.Background(), delivery)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeCreated, first.Outcome)

	second, err := svc.Process(context.Background(), delivery)
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeUpdated, second.Outcome)

	var products int64
	db.Model(&catalogdomain.Product{}).Count(&products)
	assert.Equal(t, int64(1), products)

	var event webhooklog.Event
	require.NoError(t, db.Where("webhook_id = ?", "wh-dup").First(&event).Error)
	assert.Equal(t, 2, event.Attempts)
}

func TestProcess_UnknownTopicIsAcknowledged(t *testing.T) {
	svc, db, _ := newTestStack(t)
	body := []byte(`{"id":1}`)

	result, err := svc.Process(context.Background(), Delivery{
		WebhookID: "wh-3",
		Topic:     "collections/create",
		Signature: sign(t, body),
		Body:      body,
	})
	require.NoError(t, err)
	assert.Equal(t, TopicUnknown, result.Topic)
	assert.Equal(t, webhooklog.StatusIgnored, result.Status)

	var event webhooklog.Event
	require.NoError(t, db.Where("webhook_id = ?", "wh-3").First(&event).Error)
	assert.Equal(t, webhooklog.StatusIgnored, event.Status)
}

func TestProcess_DeleteArchivesByNumericID(t *testing.T) {
	svc, _, products := newTestStack(t)
	ctx := context.Background()

	createBody := []byte(`{"id":9001,"handle":"towel","title":"Towel","status":"active"}`)
	_, err := svc.Process(ctx, Delivery{
		WebhookID: "wh-create",
		Topic:     "products/create",
		Signature: sign(t, createBody),
		Body:      createBody,
	})
	require.NoError(t, err)

	deleteBody := []byte(`{"id":9001}`)
	result, err := svc.Process(ctx, Delivery{
		WebhookID: "wh-delete",
		Topic:     "products/delete",
		Signature: sign(t, deleteBody),
		Body:      deleteBody,
	})
	require.NoError(t, err)
	assert.Equal(t, webhooklog.StatusProcessed, result.Status)

	product, err := products.GetByHandle(ctx, "towel")
	require.NoError(t, err)
	assert.Equal(t, catalogdomain.StatusArchived, product.Status)
}

func TestProcess_MalformedPayloadFails(t *testing.T) {
	svc, db, _ := newTestStack(t)
	body := []byte(`{"handle": `)

	_, err := svc.Process(context.Background(), Delivery{
		WebhookID: "wh-bad",
		Topic:     "products/create",
		Signature: sign(t, body),
		Body:      body,
	})
	assert.ErrorIs(t, err, ErrMalformedPayload)

	var event webhooklog.Event
	require.NoError(t, db.Where("webhook_id = ?", "wh-bad").First(&event).Error)
	assert.Equal(t, webhooklog.StatusFailed, event.Status)
	assert.NotEmpty(t, event.Error)
}

func TestProcess_OrderLinksKnownCustomer(t *testing.T) {
	svc, db, _ := newTestStack(t)
	ctx := context.Background()

	customerBody := []byte(`{"id":4400,"email":"jane@example.com","first_name":"Jane"}`)
	_, err := svc.Process(ctx, Delivery{
		WebhookID: "wh-cust",
		Topic:     "customers/create",
		Signature: sign(t, customerBody),
		Body:      customerBody,
	})
	require.NoError(t, err)

	orderBody := []byte(`{
		"id": 6600,
		"name": "#1001",
		"currency": "USD",
		"subtotal_price": "20.00",
		"total_price": "22.50",
		"customer": {"id": 4400, "email": "jane@example.com"},
		"line_items": [{"title": "Towel", "sku": "T1", "quantity": 2, "price": "10.00"}]
	}`)
	result, err := svc.Process(ctx, Delivery{
		WebhookID: "wh-order",
		Topic:     "orders/create",
		Signature: sign(t, orderBody),
		Body:      orderBody,
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeCreated, result.Outcome)

	var order orderdomain.Order
	require.NoError(t, db.Where("name = ?", "#1001").First(&order).Error)
	assert.Equal(t, int64(2250), order.Total)
	require.NotNil(t, order.CustomerID)

	var customer customerdomain.Customer
	require.NoError(t, db.Where("shopify_id = ?", 4400).First(&customer).Error)
	assert.Equal(t, customer.ID, *order.CustomerID)
}
