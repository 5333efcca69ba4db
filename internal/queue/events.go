package queue

import "time"

// TopicLifecycle carries every campaign lifecycle event.
const TopicLifecycle = "campaign.lifecycle"

type EventType string

const (
	EventCreated      EventType = "campaign.created"
	EventUpdated      EventType = "campaign.updated"
	EventDeleted      EventType = "campaign.deleted"
	EventPlayed       EventType = "campaign.played"
	EventCoverSet     EventType = "campaign.cover_set"
	EventCoverRemoved EventType = "campaign.cover_removed"

	// Orphan reports. Nothing reconciles them automatically.
	EventOrphanedRow  EventType = "campaign.orphaned_row"
	EventOrphanedTree EventType = "campaign.orphaned_tree"
)

// LifecycleEvent is the payload published on TopicLifecycle.
type LifecycleEvent struct {
	Type       EventType `json:"type"`
	CampaignID string    `json:"campaignId"`
	Name       string    `json:"name,omitempty"`
	Path       string    `json:"path,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// IsOrphan reports whether the event describes state left behind for manual cleanup.
func (e LifecycleEvent) IsOrphan() bool {
	return e.Type == EventOrphanedRow || e.Type == EventOrphanedTree
}
