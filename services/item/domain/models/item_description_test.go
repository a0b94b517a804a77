package models

import "testing"

func TestItemDescription_String(t *testing.T) {
	tests := []struct {
		name string
		item ItemDescription
		want string
	}{
		{
			name: "two lore lines",
			item: ItemDescription{
				Material: "DIAMOND_SWORD",
				Name:     "Excalibur",
				Lore:     []string{"A legendary blade", "Forged in starlight"},
			},
			want: "{material: 'DIAMOND_SWORD', name: 'Excalibur', lore: ['A legendary blade', 'Forged in starlight']}",
		},
		{
			name: "empty record",
			item: ItemDescription{Lore: []string{}},
			want: "{material: '', name: '', lore: []}",
		},
		{
			name: "nil lore renders like empty lore",
			item: ItemDescription{Material: "STONE", Name: "Rock"},
			want: "{material: 'STONE', name: 'Rock', lore: []}",
		},
		{
			name: "quotes and backslashes are escaped",
			item: ItemDescription{Material: "PAPER", Name: "Merlin's Note", Lore: []string{`C:\scroll`}},
			want: `{material: 'PAPER', name: 'Merlin\'s Note', lore: ['C:\\scroll']}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
