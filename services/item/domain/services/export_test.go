package services

import (
	"testing"

	"github.com/ghuser/itemforge/services/item/domain/models"
)

func TestExportFileName(t *testing.T) {
	tests := []struct {
		material string
		tmpl     models.TemplateFileName
		want     string
	}{
		{"DIAMOND_SWORD", "bukkit_item.yml", "DIAMOND_SWORD_bukkit_item.yml"},
		{"", "python_template.py", "Item_python_template.py"},
		{"minecraft:stone", "datapack_item.json", "minecraft:stone_datapack_item.json"},
		{"../etc/passwd", "a.txt", ".._etc_passwd_a.txt"},
		{`a\b`, "a.txt", "a_b_a.txt"},
		{"\x00", "a.txt", "Item_a.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ExportFileName(tt.material, tt.tmpl); got != tt.want {
				t.Fatalf("ExportFileName(%q, %q) = %q, want %q", tt.material, tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	tmpl := &models.ExportTemplate{
		FileName: "bukkit_item.yml",
		Content:  "material: %item_entity%\nname: \"%item_display_name%\"\nlore:%item_lore_all%\n",
	}
	item := models.ItemDescription{
		Material: "DIAMOND_SWORD",
		Name:     "Excalibur",
		Lore:     []string{"A legendary blade", "Forged in starlight"},
	}

	got := Export(tmpl, item)

	want := models.ExportResult{
		FileName:    "DIAMOND_SWORD_bukkit_item.yml",
		ContentType: "text/yaml",
		Content: "material: DIAMOND_SWORD\nname: \"Excalibur\"\nlore:\n" +
			"    - \"A legendary blade\"\n" +
			"    - \"Forged in starlight\"\n",
	}
	if got != want {
		t.Fatalf("Export mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}
