// Package events publishes order and enquiry lifecycle events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/imrishuroy/bakery-storefront/internal/aws"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
)

// Event types
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderDeleted       = "order.deleted"
	TypeEnquiryCreated     = "enquiry.created"
)

// Event is the message body sent to the order events queue.
type Event struct {
	Type           string    `json:"type"`
	OrderID        string    `json:"order_id,omitempty"`
	OrderNumber    string    `json:"order_number,omitempty"`
	EnquiryID      string    `json:"enquiry_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	GrandTotal     int64     `json:"grand_total,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher sends events somewhere.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// SQSPublisher sends events as JSON to an SQS queue.
type SQSPublisher struct {
	publisher *aws.Publisher
}

// NewSQSPublisher returns an SQSPublisher bound to queueURL.
func NewSQSPublisher(client aws.SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{publisher: aws.NewPublisher(client, queueURL)}
}

func (p *SQSPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.publisher.SendMessage(ctx, string(body), map[string]string{
		"event_type":     ev.Type,
		"correlation_id": logger.RequestID(ctx),
	})
}
