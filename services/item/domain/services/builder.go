// Package services contains stateless domain services for the item bounded context.
// Domain services operate purely on domain types and have zero external
// dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"io"
	"slices"

	"github.com/ghuser/itemforge/services/item/domain/models"
)

// CreateItem builds an ItemDescription from the three values and reports it
// to w as a single "Item Created: <record>" line. Inputs are taken as-is; the
// lore slice is copied so later changes by the caller do not leak into the
// returned record. A failing writer does not prevent the record from being
// returned.
func CreateItem(w io.Writer, material, itemName string, itemLore []string) models.ItemDescription {
	item := models.ItemDescription{
		Material: material,
		Name:     itemName,
		Lore:     slices.Clone(itemLore),
	}

	if w != nil {
		_, _ = fmt.Fprintln(w, "Item Created:", item)
	}

	return item
}
