package logsync

import (
	"context"

	"github.com/sirupsen/logrus"
	"gitlab.com/skao/slt_backend/config"
)

// Notifier announces a completed reconciliation write. Implementations must
// be safe to call concurrently; a failed notification never fails the write.
type Notifier interface {
	LogsUpdated(ctx context.Context, msg config.ShiftLogsMessage)
}

// PubSubNotifier publishes notifications to the configured topic.
type PubSubNotifier struct {
	log *logrus.Logger
}

func NewPubSubNotifier(log *logrus.Logger) *PubSubNotifier {
	return &PubSubNotifier{log: log}
}

func (n *PubSubNotifier) LogsUpdated(ctx context.Context, msg config.ShiftLogsMessage) {
	id, err := config.PublishShiftLogsUpdated(ctx, msg)
	if err != nil {
		n.log.WithFields(logrus.Fields{
			"shift_id": msg.ShiftID,
		}).WithError(err).Warn("logs-updated notification failed")
		return
	}
	n.log.WithFields(logrus.Fields{
		"shift_id":   msg.ShiftID,
		"message_id": id,
	}).Debug("logs-updated notification published")
}
