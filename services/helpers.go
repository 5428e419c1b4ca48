package services

import (
	"context"
	"encoding/json"
	"time"

	"bakery-service/models"
	awspkg "bakery-service/pkg/aws"

	"go.uber.org/zap"
)

// OrderEventPublisher is implemented by kafka.Producer.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, evt models.OrderStatusChangedEvent) error
}

// recordCount sends a counter in the background; metrics never block or fail
// a request.
func recordCount(metrics awspkg.MetricsRecorder, name string, dims map[string]string) {
	if metrics == nil || !metrics.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metrics.RecordCount(ctx, name, dims)
	}()
}

func recordValue(metrics awspkg.MetricsRecorder, name string, value float64, dims map[string]string) {
	if metrics == nil || !metrics.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metrics.RecordValue(ctx, name, value, dims)
	}()
}

// publishSNS marshals an event and publishes it (non-fatal on error).
func publishSNS(ctx context.Context, logger *zap.Logger, client awspkg.SNSPublisher, topicArn string, event interface{}) {
	if client == nil || topicArn == "" {
		logger.Debug("SNS not configured, skipping event publish")
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal SNS event", zap.Error(err))
		return
	}
	if err := client.Publish(ctx, topicArn, b); err != nil {
		logger.Error("Failed to publish SNS event", zap.Error(err), zap.String("topic", topicArn))
		return
	}
	logger.Info("Published SNS event", zap.String("topic", topicArn))
}
