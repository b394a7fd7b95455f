package webhook

import (
	"context"
	"log/slog"

	"github.com/mattjoyce/chainhook/internal/log"
)

// LogSink logs each verified delivery and keeps nothing.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a Sink that writes deliveries to logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Accept logs the full payload, then the nested event fields if present.
func (s *LogSink) Accept(ctx context.Context, d Delivery) {
	l := log.WithDelivery(s.logger, d.ID)

	l.InfoContext(ctx, "webhook payload received",
		"fingerprint", d.Fingerprint,
		"subscription_id", d.Payload.SubscriptionID,
		"type", d.Payload.Type,
		"payload", d.Payload.Fields,
	)

	if ev := d.Payload.Data; ev != nil {
		l.InfoContext(ctx, "webhook event",
			"tx_id", ev.TxID,
			"address", ev.Address,
			"amount", ev.Amount,
			"chain", ev.Chain,
		)
	}
}
