package queue

import (
	"fmt"

	"go.uber.org/zap"
)

// StartLifecycleLogger subscribes to TopicLifecycle and logs every event. Orphan reports log at Warn
// so they stand out for manual cleanup.
func StartLifecycleLogger(q Queue, log *zap.Logger) error {
	err := q.Subscribe(TopicLifecycle, func(payload any) error {
		event, ok := payload.(LifecycleEvent)
		if !ok {
			log.Warn("⚠️ Invalid payload type, expected LifecycleEvent", zap.String("type", fmt.Sprintf("%T", payload)))
			return nil // no retry
		}

		fields := []zap.Field{
			zap.String("event", string(event.Type)),
			zap.String("campaign_id", event.CampaignID),
		}
		if event.Name != "" {
			fields = append(fields, zap.String("name", event.Name))
		}
		if event.Path != "" {
			fields = append(fields, zap.String("path", event.Path))
		}
		if event.Error != "" {
			fields = append(fields, zap.String("error", event.Error))
		}

		if event.IsOrphan() {
			log.Warn("🧹 Manual cleanup required", fields...)
			return nil
		}
		log.Info("📩 Campaign lifecycle event", fields...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicLifecycle, err)
	}
	return nil
}
