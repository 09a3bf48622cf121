package webhooklog

import "time"

type Status string

const (
	// StatusProcessed means the delta was applied and acknowledged.
	StatusProcessed Status = "processed"
	// StatusFailed means apply errored; the sender is expected to redeliver.
	StatusFailed Status = "failed"
	// StatusIgnored covers unknown topics acknowledged without processing.
	StatusIgnored Status = "ignored"
)

// Event is the persisted record of one inbound webhook delivery. WebhookID
// is the sender's delivery ID, so redeliveries increment Attempts on the
// same row instead of inserting twins.
type Event struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	WebhookID string `json:"webhook_id" gorm:"type:text;not null;uniqueIndex:ux_webhook_events_webhook_id"`
	Topic     string `json:"topic" gorm:"type:text;not null;index"`
	Status    Status `json:"status" gorm:"type:text;not null;index"`
	Attempts  int    `json:"attempts" gorm:"not null;default:1"`
	Error     string `json:"error" gorm:"type:text"`

	DurationMS int64     `json:"duration_ms" gorm:"not null;default:0"`
	ReceivedAt time.Time `json:"received_at" gorm:"not null;index"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null"`
}

func (Event) TableName() string { return "webhook_events" }
