package services

import (
	"testing"

	"github.com/ghuser/itemforge/services/item/domain/models"
)

var excalibur = models.ItemDescription{
	Material: "DIAMOND_SWORD",
	Name:     "Excalibur",
	Lore:     []string{"A legendary blade", "Forged in starlight"},
}

func TestRender_PythonTemplate(t *testing.T) {
	tmpl := `material = "%item_entity%"
name = "%item_display_name%"
lore = ["%item_lore_1%", "%item_lore_2%"]`

	want := `material = "DIAMOND_SWORD"
name = "Excalibur"
lore = ["A legendary blade", "Forged in starlight"]`

	if got := Render(tmpl, "py", excalibur); got != want {
		t.Fatalf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_LoreAllByFormat(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		tmpl string
		want string
	}{
		{
			name: "java list",
			ext:  "java",
			tmpl: "itemMeta.setLore(Arrays.asList(%item_lore_all%));",
			want: `itemMeta.setLore(Arrays.asList("A legendary blade", "Forged in starlight"));`,
		},
		{
			name: "yaml sequence",
			ext:  "yml",
			tmpl: "lore:%item_lore_all%",
			want: "lore:\n    - \"A legendary blade\"\n    - \"Forged in starlight\"",
		},
		{
			name: "yaml long extension",
			ext:  "YAML",
			tmpl: "lore:%item_lore_all%",
			want: "lore:\n    - \"A legendary blade\"\n    - \"Forged in starlight\"",
		},
		{
			name: "json objects",
			ext:  "json",
			tmpl: `"lore": [%item_lore_all%]`,
			want: "\"lore\": [\n      { \"text\": \"A legendary blade\" },\n      { \"text\": \"Forged in starlight\" }]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.tmpl, tt.ext, excalibur); got != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_LoreIndexOutOfRange(t *testing.T) {
	got := Render("[%item_lore_0%|%item_lore_2%|%item_lore_3%|%item_lore_99999999999999999999%]", "txt", excalibur)
	if got != "[|Forged in starlight||]" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRender_ReplacesEveryOccurrence(t *testing.T) {
	got := Render("%item_entity% %item_entity% %item_display_name%%item_display_name%", "txt", excalibur)
	if got != "DIAMOND_SWORD DIAMOND_SWORD ExcaliburExcalibur" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRender_ValuesAreNotReexpanded(t *testing.T) {
	item := models.ItemDescription{Material: "%item_display_name%", Name: "%item_lore_1%", Lore: []string{"x"}}
	got := Render("%item_entity%/%item_display_name%", "txt", item)
	if got != "%item_display_name%/%item_lore_1%" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestRender_UnknownTokensUntouched(t *testing.T) {
	got := Render("%item_color% %entity%", "txt", excalibur)
	if got != "%item_color% %entity%" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestLoreList_Empty(t *testing.T) {
	if got := LoreList("py", nil); got != "" {
		t.Errorf("default: got %q", got)
	}
	if got := LoreList("yml", nil); got != "\n" {
		t.Errorf("yml: got %q", got)
	}
	if got := LoreList("json", []string{}); got != "\n" {
		t.Errorf("json: got %q", got)
	}
}

func TestLoreList_JSONEscaping(t *testing.T) {
	got := LoreList("json", []string{`Say "hi" <b>`})
	want := "\n      { \"text\": \"Say \\\"hi\\\" <b>\" }"
	if got != want {
		t.Fatalf("LoreList() = %q, want %q", got, want)
	}
}

func TestLoreLine(t *testing.T) {
	lore := []string{"one", "two"}
	tests := map[int]string{-1: "", 0: "", 1: "one", 2: "two", 3: ""}
	for n, want := range tests {
		if got := LoreLine(lore, n); got != want {
			t.Errorf("LoreLine(%d) = %q, want %q", n, got, want)
		}
	}
}
