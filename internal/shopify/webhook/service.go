package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	catalogdomain "github.com/picksmart/storesync/internal/catalog/domain"
	"github.com/picksmart/storesync/internal/config"
	customerdomain "github.com/picksmart/storesync/internal/customer/domain"
	"github.com/picksmart/storesync/internal/locks"
	orderdomain "github.com/picksmart/storesync/internal/order/domain"
	"github.com/picksmart/storesync/internal/reconcile"
	"github.com/picksmart/storesync/internal/webhooklog"
)

var (
	// ErrInvalidSignature rejects the delivery before the body is parsed.
	ErrInvalidSignature = errors.New("webhook_signature_mismatch")
	// ErrBusy means another delivery for the same entity holds the lease.
	// The sender's redelivery makes a non-2xx response safe.
	ErrBusy = errors.New("webhook_entity_busy")
	// ErrMalformedPayload covers bodies that fail JSON decoding.
	ErrMalformedPayload = errors.New("webhook_malformed_payload")
)

// lockTTL bounds how long a crashed delivery can wedge its entity key.
const lockTTL = 30 * time.Second

// Delivery is one inbound notification, captured raw so the signature can be
// verified over the exact bytes received.
type Delivery struct {
	WebhookID string
	Topic     string
	Signature string
	Body      []byte
}

type Result struct {
	Topic   Topic
	Status  webhooklog.Status
	Outcome reconcile.Outcome
}

type Service interface {
	// Process runs the delivery through verify, classify, apply and
	// acknowledge. The returned error maps to a non-2xx response; the
	// sender's retry policy is the only redelivery mechanism.
	Process(ctx context.Context, delivery Delivery) (Result, error)
}

type Params struct {
	fx.In

	Cfg       config.Config
	Log       *zap.Logger
	Locker    locks.KeyedLocker
	Events    webhooklog.Service
	Products  catalogdomain.Service
	Customers customerdomain.Service
	Orders    orderdomain.Service
}

type service struct {
	secret    string
	log       *zap.Logger
	locker    locks.KeyedLocker
	events    webhooklog.Service
	products  catalogdomain.Service
	customers customerdomain.Service
	orders    orderdomain.Service
}

func New(p Params) Service {
	return &service{
		secret:    p.Cfg.ShopifyWebhookSecret,
		log:       p.Log.Named("shopify.webhook"),
		locker:    p.Locker,
		events:    p.Events,
		products:  p.Products,
		customers: p.Customers,
		orders:    p.Orders,
	}
}

func (s *service) Process(ctx context.Context, delivery Delivery) (Result, error) {
	if !VerifySignature(s.secret, delivery.Body, delivery.Signature) {
		s.log.Warn("rejected delivery with invalid signature",
			zap.String("topic", delivery.Topic),
		)
		return Result{}, ErrInvalidSignature
	}

	webhookID := delivery.WebhookID
	if webhookID == "" {
		webhookID = ulid.Make().String()
	}

	topic := ParseTopic(delivery.Topic)
	start := time.Now()

	if topic == TopicUnknown {
		// Forward compatible: topics added by the platform later are
		// acknowledged without processing.
		s.log.Info("ignoring unknown webhook topic",
			zap.String("topic", delivery.Topic),
		)
		s.record(ctx, webhookID, delivery.Topic, webhooklog.StatusIgnored, nil, start)
		return Result{Topic: TopicUnknown, Status: webhooklog.StatusIgnored}, nil
	}

	outcome, err := s.apply(ctx, topic, delivery.Body)
	if err != nil {
		s.record(ctx, webhookID, topic.String(), webhooklog.StatusFailed, err, start)
		return Result{Topic: topic, Status: webhooklog.StatusFailed}, err
	}

	s.record(ctx, webhookID, topic.String(), webhooklog.StatusProcessed, nil, start)
	return Result{Topic: topic, Status: webhooklog.StatusProcessed, Outcome: outcome}, nil
}

// apply dispatches on the closed topic set. Reconcilers run in update mode;
// an update for an unknown external key becomes a create, which keeps the
// handlers safe under out-of-order delivery.
func (s *service) apply(ctx context.Context, topic Topic, body []byte) (reconcile.Outcome, error) {
	switch topic {
	case TopicProductsCreate, TopicProductsUpdate:
		var payload productPayload
		if err := decode(body, &payload); err != nil {
			return "", err
		}
		return s.withLock(ctx, "product:"+payload.Handle, func() (reconcile.Outcome, error) {
			return s.products.Upsert(ctx, payload.toInput(), reconcile.ConflictUpdate)
		})

	case TopicProductsDelete:
		var payload productDeletePayload
		if err := decode(body, &payload); err != nil {
			return "", err
		}
		return s.withLock(ctx, fmt.Sprintf("product-id:%d", payload.ID), func() (reconcile.Outcome, error) {
			if _, err := s.products.ArchiveByShopifyID(ctx, payload.ID); err != nil {
				return "", err
			}
			return reconcile.OutcomeUpdated, nil
		})

	case TopicCustomersCreate, TopicCustomersUpdate:
		var payload customerPayload
		if err := decode(body, &payload); err != nil {
			return "", err
		}
		return s.withLock(ctx, fmt.Sprintf("customer:%d", payload.ID), func() (reconcile.Outcome, error) {
			return s.customers.Upsert(ctx, payload.toInput(), reconcile.ConflictUpdate)
		})

	case TopicOrdersCreate, TopicOrdersUpdated:
		var payload orderPayload
		if err := decode(body, &payload); err != nil {
			return "", err
		}
		return s.withLock(ctx, "order:"+payload.Name, func() (reconcile.Outcome, error) {
			return s.orders.Upsert(ctx, payload.toInput(), reconcile.ConflictUpdate)
		})

	case TopicUnknown:
	}
	return "", fmt.Errorf("unhandled topic %q", topic)
}

// withLock serializes concurrent deliveries for one entity key so the
// delete-then-insert child replacement never interleaves.
func (s *service) withLock(ctx context.Context, key string, fn func() (reconcile.Outcome, error)) (reconcile.Outcome, error) {
	token, acquired, err := s.locker.Acquire(ctx, key, lockTTL)
	if err != nil {
		return "", fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !acquired {
		return "", fmt.Errorf("%w: %s", ErrBusy, key)
	}
	defer func() {
		if err := s.locker.Release(ctx, key, token); err != nil {
			s.log.Warn("lock release failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}()

	return fn()
}

func (s *service) record(ctx context.Context, webhookID, topic string, status webhooklog.Status, cause error, start time.Time) {
	entry := webhooklog.Entry{
		WebhookID: webhookID,
		Topic:     topic,
		Status:    status,
		Duration:  time.Since(start),
	}
	if cause != nil {
		entry.Error = cause.Error()
	}
	if err := s.events.Record(ctx, entry); err != nil {
		s.log.Warn("webhook event not recorded",
			zap.String("webhook_id", webhookID),
			zap.Error(err),
		)
	}
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

var Module = fx.Module("shopify.webhook",
	fx.Provide(New),
)
