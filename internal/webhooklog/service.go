package webhooklog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/picksmart/storesync/internal/clock"
	"github.com/picksmart/storesync/internal/config"
	"github.com/picksmart/storesync/internal/observability/metrics"
)

// Entry describes one finished delivery attempt.
type Entry struct {
	WebhookID string
	Topic     string
	Status    Status
	Error     string
	Duration  time.Duration
}

type Service interface {
	// Record upserts the delivery row keyed by the sender's webhook ID and
	// raises an operator alert when one topic keeps failing.
	Record(ctx context.Context, entry Entry) error

	// SuccessRate reports processed/(processed+failed) over the window.
	// Ignored deliveries do not count either way. A window with no
	// deliveries reports 1.0.
	SuccessRate(ctx context.Context, window time.Duration) (float64, int64, error)
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Metrics  *metrics.Metrics
	Importer *config.ImporterConfigHolder
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	metrics  *metrics.Metrics
	importer *config.ImporterConfigHolder

	mu       sync.Mutex
	failures map[string]int
}

func New(p Params) Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("webhooklog"),
		genID:    p.GenID,
		clock:    p.Clock,
		metrics:  p.Metrics,
		importer: p.Importer,
		failures: make(map[string]int),
	}
}

func (s *service) Record(ctx context.Context, entry Entry) error {
	now := s.clock.Now()

	var event Event
	err := s.db.WithContext(ctx).
		Where("webhook_id = ?", entry.WebhookID).
		First(&event).Error
	switch {
	case err == nil:
		event.Topic = entry.Topic
		event.Status = entry.Status
		event.Attempts++
		event.Error = entry.Error
		event.DurationMS = entry.Duration.Milliseconds()
		event.UpdatedAt = now
		err = s.db.WithContext(ctx).Save(&event).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		event = Event{
			ID:         s.genID.Generate().Int64(),
			WebhookID:  entry.WebhookID,
			Topic:      entry.Topic,
			Status:     entry.Status,
			Attempts:   1,
			Error:      entry.Error,
			DurationMS: entry.Duration.Milliseconds(),
			ReceivedAt: now,
			UpdatedAt:  now,
		}
		err = s.db.WithContext(ctx).Create(&event).Error
	}
	if err != nil {
		return err
	}

	s.metrics.RecordWebhookEvent(ctx, entry.Topic, string(entry.Status), entry.Duration)
	s.trackFailures(ctx, entry)
	return nil
}

// trackFailures counts consecutive failures per topic in-process. The alert
// threshold is small; persistence across restarts buys nothing.
func (s *service) trackFailures(ctx context.Context, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch entry.Status {
	case StatusFailed:
		s.failures[entry.Topic]++
	case StatusProcessed:
		s.failures[entry.Topic] = 0
		return
	default:
		return
	}

	threshold := s.importer.Get().Alerts.FailureThreshold
	if count := s.failures[entry.Topic]; threshold > 0 && count >= threshold {
		s.log.Error("webhook topic failing repeatedly",
			zap.String("topic", entry.Topic),
			zap.Int("consecutive_failures", count),
			zap.String("last_error", entry.Error),
		)
		s.metrics.RecordOperatorAlert(ctx, entry.Topic)
		s.failures[entry.Topic] = 0
	}
}

func (s *service) SuccessRate(ctx context.Context, window time.Duration) (float64, int64, error) {
	since := s.clock.Now().Add(-window)

	type tally struct {
		Status Status
		Count  int64
	}
	var rows []tally
	if err := s.db.WithContext(ctx).
		Model(&Event{}).
		Select("status, count(*) as count").
		Where("received_at >= ?", since).
		Where("status IN ?", []Status{StatusProcessed, StatusFailed}).
		Group("status").
		Scan(&rows).Error; err != nil {
		return 0, 0, err
	}

	var processed, total int64
	for _, row := range rows {
		total += row.Count
		if row.Status == StatusProcessed {
			processed += row.Count
		}
	}
	if total == 0 {
		return 1.0, 0, nil
	}
	return float64(processed) / float64(total), total, nil
}

var Module = fx.Module("webhooklog",
	fx.Provide(New),
)
