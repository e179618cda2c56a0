package services

import (
	"context"

	"github.com/nagarseva/nagarseva-api/pkg/logger"
)

// Notification event constants
const (
	EventDemandCreated   = "demand_created"
	EventDemandOverdue   = "demand_overdue"
	EventPaymentSuccess  = "payment_success"
	EventPaymentFailed   = "payment_failed"
	EventRefundApproved  = "refund_approved"
	EventRefundRejected  = "refund_rejected"
	EventRefundProcessed = "refund_processed"
	EventDuesCleared     = "dues_cleared"
)

// Notifier delivers citizen-facing notifications. Delivery (SMS/email) is
// an external collaborator; this service only emits events.
type Notifier interface {
	Notify(ctx context.Context, arn, event, subject, message string) error
}

// LogNotifier is the default Notifier; it records events in the service log
// so deployments without a delivery channel still leave a trace.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, arn, event, subject, message string) error {
	logger.Info("Notification emitted",
		"arn", arn,
		"event", event,
		"subject", subject,
		"message", message,
	)
	return nil
}
