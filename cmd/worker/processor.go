package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/imrishuroy/bakery-storefront/internal/aws"
	bakeryevents "github.com/imrishuroy/bakery-storefront/internal/events"
	"github.com/imrishuroy/bakery-storefront/internal/logger"
)

// Processor turns storefront events from SQS into CloudWatch metrics.
type Processor struct {
	metrics *aws.MetricsClient
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, namespace string) *Processor {
	return &Processor{
		metrics: aws.NewMetricsClient(clients.CloudWatch, namespace),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			logger.Log.Error("worker error", zap.String("message_id", rec.MessageId), zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg bakeryevents.Event
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Type == "" {
		return fmt.Errorf("message %s has no event type", rec.MessageId)
	}

	logger.Log.Info("[worker] received event",
		zap.String("type", msg.Type),
		zap.String("order_id", msg.OrderID),
		zap.String("correlation_id", correlationID(rec)))

	switch msg.Type {
	case bakeryevents.TypeOrderPlaced:
		return p.metrics.PutMetrics(ctx,
			aws.Datum{Name: MetricOrdersPlaced, Value: 1, Unit: cwtypes.StandardUnitCount},
			aws.Datum{Name: MetricOrderValue, Value: float64(msg.GrandTotal), Unit: cwtypes.StandardUnitNone},
		)
	case bakeryevents.TypeOrderStatusChanged:
		return p.metrics.IncrementCounter(ctx, MetricOrderStatusChanged, map[string]string{"status": msg.Status})
	case bakeryevents.TypeOrderDeleted:
		return p.metrics.IncrementCounter(ctx, MetricOrdersDeleted, nil)
	case bakeryevents.TypeEnquiryCreated:
		return p.metrics.IncrementCounter(ctx, MetricEnquiriesCreated, nil)
	default:
		// newer producers may emit types this worker does not project yet
		logger.Log.Warn("[worker] skipping unknown event type", zap.String("type", msg.Type))
		return nil
	}
}

func correlationID(rec events.SQSMessage) string {
	if attr, ok := rec.MessageAttributes["correlation_id"]; ok && attr.StringValue != nil {
		return *attr.StringValue
	}
	return ""
}
