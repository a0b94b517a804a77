package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/ghuser/itemforge/services/item/domain/models"
)

// Placeholder tokens recognised in export templates.
const (
	TokenEntity      = "%item_entity%"
	TokenDisplayName = "%item_display_name%"
	TokenLoreAll     = "%item_lore_all%"
)

// token matches every placeholder; group 1 holds the lore index of %item_lore_<N>%.
var token = regexp.MustCompile(`%item_(?:entity|display_name|lore_all|lore_(\d+))%`)

// Render substitutes every placeholder token in content with the values of
// item in a single pass, so values that themselves look like tokens are
// left alone. ext is the template's file extension (without dot) and
// selects the list syntax used for %item_lore_all%.
func Render(content, ext string, item models.ItemDescription) string {
	return token.ReplaceAllStringFunc(content, func(match string) string {
		switch match {
		case TokenEntity:
			return item.Material
		case TokenDisplayName:
			return item.Name
		case TokenLoreAll:
			return LoreList(ext, item.Lore)
		}
		n, err := strconv.Atoi(token.FindStringSubmatch(match)[1])
		if err != nil {
			return ""
		}
		return LoreLine(item.Lore, n)
	})
}

// LoreLine returns the n-th lore line (1-based), or "" when n is out of range.
func LoreLine(lore []string, n int) string {
	if n < 1 || n > len(lore) {
		return ""
	}
	return lore[n-1]
}

// LoreList renders lore as a list literal for the given template format:
// a YAML sequence for yml/yaml, an array of {"text": ...} objects for json,
// and a comma-separated list of double-quoted strings otherwise.
func LoreList(ext string, lore []string) string {
	lines := make([]string, len(lore))
	switch strings.ToLower(ext) {
	case "yml", "yaml":
		for i, l := range lore {
			lines[i] = `    - "` + l + `"`
		}
		return "\n" + strings.Join(lines, "\n")
	case "json":
		for i, l := range lore {
			lines[i] = `      { "text": ` + jsonString(l) + ` }`
		}
		return "\n" + strings.Join(lines, ",\n")
	default:
		for i, l := range lore {
			lines[i] = `"` + l + `"`
		}
		return strings.Join(lines, ", ")
	}
}

// jsonString quotes s as a JSON string without HTML escaping.
func jsonString(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(b.String(), "\n")
}
