package services

import (
	"strings"

	"github.com/ghuser/itemforge/services/item/domain/models"
)

// DefaultExportPrefix names exports of items that have no material.
const DefaultExportPrefix = "Item"

var fileNameUnsafe = strings.NewReplacer("/", "_", `\`, "_", "\x00", "")

// ExportFileName is the download name for tmpl rendered with an item of the
// given material: "<material>_<template file name>".
func ExportFileName(material string, tmpl models.TemplateFileName) string {
	prefix := fileNameUnsafe.Replace(material)
	if prefix == "" {
		prefix = DefaultExportPrefix
	}
	return prefix + "_" + tmpl.String()
}

// Export renders tmpl for item.
func Export(tmpl *models.ExportTemplate, item models.ItemDescription) models.ExportResult {
	return models.ExportResult{
		FileName:    ExportFileName(item.Material, tmpl.FileName),
		ContentType: ContentType(tmpl.FileName.String()),
		Content:     Render(tmpl.Content, tmpl.FileName.Ext(), item),
	}
}
