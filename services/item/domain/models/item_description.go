package models

import (
	"strings"
)

// ItemDescription describes a single in-game item: its material, display
// name and lore lines. Lore order is display order.
type ItemDescription struct {
	Material string   `json:"material" yaml:"material"`
	Name     string   `json:"name" yaml:"name"`
	Lore     []string `json:"lore" yaml:"lore"`
}

// String renders the record as
//
//	{material: 'DIAMOND_SWORD', name: 'Excalibur', lore: ['A legendary blade']}
//
// Backslashes and single quotes inside values are escaped.
func (d ItemDescription) String() string {
	var b strings.Builder
	b.WriteString("{material: ")
	writeQuoted(&b, d.Material)
	b.WriteString(", name: ")
	writeQuoted(&b, d.Name)
	b.WriteString(", lore: [")
	for i, line := range d.Lore {
		if i > 0 {
			b.WriteString(", ")
		}
		writeQuoted(&b, line)
	}
	b.WriteString("]}")
	return b.String()
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('\'')
	_, _ = quoteEscaper.WriteString(b, s)
	b.WriteByte('\'')
}
