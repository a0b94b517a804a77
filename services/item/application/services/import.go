package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ghuser/itemforge/pkg/schema"
	itemdomain "github.com/ghuser/itemforge/services/item/domain"
	"github.com/ghuser/itemforge/services/item/domain/models"
)

type tooltipLine struct {
	Text string `json:"text"`
}

// customItem is the part of a designer custom item an export needs.
type customItem struct {
	Entity      string        `json:"entity"`
	DisplayName *tooltipLine  `json:"displayName"`
	Lore        []tooltipLine `json:"lore"`
}

// ParseCustomItem validates data against the custom item schema and maps it
// to an ItemDescription. A missing display name yields an empty name and
// missing lore yields no lore lines.
func ParseCustomItem(v *schema.Validator, data []byte) (models.ItemDescription, error) {
	if _, err := v.Validate(schema.CustomItem, data); err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			return models.ItemDescription{}, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
		}
		return models.ItemDescription{}, fmt.Errorf("validate custom item: %w", err)
	}

	var ci customItem
	if err := json.Unmarshal(data, &ci); err != nil {
		return models.ItemDescription{}, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItem, err)
	}

	desc := models.ItemDescription{
		Material: ci.Entity,
		Lore:     make([]string, len(ci.Lore)),
	}
	if ci.DisplayName != nil {
		desc.Name = ci.DisplayName.Text
	}
	for i, line := range ci.Lore {
		desc.Lore[i] = line.Text
	}
	return desc, nil
}
