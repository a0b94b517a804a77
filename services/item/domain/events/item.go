package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicItemCreated is the Watermill topic published when an item description is built.
const TopicItemCreated = "item.created"

// TopicTemplateUploaded is the Watermill topic published after a workspace template is saved.
const TopicTemplateUploaded = "item.template_uploaded"

// ItemCreatedEvent is published after the item builder produced a record.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	EventID     uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version     int       `json:"version"`  // Schema version; increment on breaking changes
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Material    string    `json:"material"`
	Name        string    `json:"name"`
	Lore        []string  `json:"lore"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// TemplateUploadedEvent is published in the same transaction that stores a template.
type TemplateUploadedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     int       `json:"version"`
	TemplateID  uuid.UUID `json:"template_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	FileName    string    `json:"file_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}
