package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/itemforge/pkg/events"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/schema"
	"github.com/ghuser/itemforge/pkg/telemetry"
	domainevents "github.com/ghuser/itemforge/services/item/domain/events"
	"github.com/ghuser/itemforge/services/item/domain/models"
	domainsvcs "github.com/ghuser/itemforge/services/item/domain/services"
)

// EventPublisher is the subset of events.EventBus the item service publishes through.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// ItemService builds item descriptions and announces them.
type ItemService struct {
	out       io.Writer
	log       logger.Logger
	metrics   *telemetry.ItemMetrics
	publisher EventPublisher
	schemas   *schema.Validator
}

// NewItemService returns an ItemService. out receives the "Item Created:"
// report; publisher and metrics may be nil.
func NewItemService(out io.Writer, log logger.Logger, metrics *telemetry.ItemMetrics, publisher EventPublisher, schemas *schema.Validator) *ItemService {
	return &ItemService{
		out:       out,
		log:       log,
		metrics:   metrics,
		publisher: publisher,
		schemas:   schemas,
	}
}

// Create builds the item and publishes ItemCreatedEvent for the workspace.
// The record is returned even when publishing fails.
func (s *ItemService) Create(ctx context.Context, workspaceID uuid.UUID, material, name string, lore []string) (models.ItemDescription, error) {
	item := domainsvcs.CreateItem(s.out, material, name, lore)

	s.log.InfoContext(ctx, "item created",
		"workspace_id", workspaceID,
		"material", item.Material,
		"lore_lines", len(item.Lore),
	)
	s.metrics.ItemCreated(ctx)

	if s.publisher == nil {
		return item, nil
	}

	event := domainevents.ItemCreatedEvent{
		EventID:     uuid.New(),
		Version:     1,
		WorkspaceID: workspaceID,
		Material:    item.Material,
		Name:        item.Name,
		Lore:        item.Lore,
		OccurredAt:  time.Now().UTC(),
	}
	msg, err := events.NewJSONMessage(event.EventID.String(), event.Version, event)
	if err != nil {
		return item, fmt.Errorf("publish item created: %w", err)
	}
	if err := s.publisher.Publish(ctx, domainevents.TopicItemCreated, msg); err != nil {
		return item, fmt.Errorf("publish item created: %w", err)
	}
	return item, nil
}

// Import validates a designer custom item document and builds the item it describes.
// Returns ErrInvalidItem when the document does not match the custom item schema.
func (s *ItemService) Import(ctx context.Context, workspaceID uuid.UUID, data []byte) (models.ItemDescription, error) {
	desc, err := ParseCustomItem(s.schemas, data)
	if err != nil {
		return models.ItemDescription{}, err
	}
	return s.Create(ctx, workspaceID, desc.Material, desc.Name, desc.Lore)
}
