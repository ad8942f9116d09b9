package service

import (
	"context"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/nikolayk812/storefront-core/internal/port"
	"github.com/sirupsen/logrus"
)

// LogNotifier writes cart events to a logger.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	if logger == nil {
		logger = discardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, event domain.CartEvent) {
	n.logger.WithContext(ctx).WithFields(logrus.Fields{
		"event_id":   event.ID.String(),
		"event":      string(event.Kind),
		"product_id": event.ProductID,
		"product":    event.ProductName,
		"quantity":   event.Quantity,
	}).Info(event.Message)
}

// Notifiers fans an event out to every notifier in order.
type Notifiers []port.Notifier

func (ns Notifiers) Notify(ctx context.Context, event domain.CartEvent) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, event)
		}
	}
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, domain.CartEvent) {}
