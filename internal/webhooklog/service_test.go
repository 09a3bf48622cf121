package webhooklog

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
	"github.com/picksmart/storesync/internal/observability/metrics"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewSystem(),
		Metrics:  m,
		Importer: (*config.ImporterConfigHolder)(nil),
	})
	return svc, db
}

func TestRecord_RedeliveryIncrementsAttempts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, Entry{
		WebhookID: "wh-1",
		Topic:     "products/update",
		Status:    StatusFailed,
		Error:     "boom",
	}))
	require.NoError(t, svc.Record(ctx, Entry{
		WebhookID: "wh-1",
		Topic:     "products/update",
		Status:    StatusProcessed,
	}))

	var count int64
	db.Model(&Event{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var event Event
	require.NoError(t, db.Where("webhook_id = ?", "wh-1").First(&event).Error)
	assert.Equal(t, 2, event.Attempts)
	assert.Equal(t, StatusProcessed, event.Status)
}

func TestSuccessRate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// An empty window is healthy, not zero.
	rate, total, err := svc.SuccessRate(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
	assert.Zero(t, total)

	for i, status := range []Status{StatusProcessed, StatusProcessed, StatusProcessed, StatusFailed, StatusIgnored} {
		require.NoError(t, svc.Record(ctx, Entry{
			WebhookID: string(rune('a' + i)),
			Topic:     "orders/create",
			Status:    status,
		}))
	}

	// Ignored deliveries count neither way.
	rate, total, err = svc.SuccessRate(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.InDelta(t, 0.75, rate, 0.001)
}
