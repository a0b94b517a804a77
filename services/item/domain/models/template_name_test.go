package models

import (
	"strings"
	"testing"
)

func TestNewTemplateFileName(t *testing.T) {
	t.Run("valid python template", func(t *testing.T) {
		n, err := NewTemplateFileName("python_template.py")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "python_template.py" {
			t.Fatalf("expected %q, got %q", "python_template.py", n.String())
		}
	})

	t.Run("valid 255 characters", func(t *testing.T) {
		s := strings.Repeat("x", 251) + ".yml"
		if _, err := NewTemplateFileName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	invalid := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"256 characters", strings.Repeat("x", 252) + ".yml"},
		{"parent traversal", "../secrets.yml"},
		{"nested path", "configs/item.yml"},
		{"windows separator", `configs\item.yml`},
		{"dot", "."},
		{"dot dot", ".."},
		{"no extension", "Makefile"},
		{"hidden file without extension", ".env"},
		{"nul byte", "item\x00.py"},
	}
	for _, tt := range invalid {
		t.Run(tt.name+" returns error", func(t *testing.T) {
			if _, err := NewTemplateFileName(tt.input); err == nil {
				t.Fatalf("expected error for %q, got nil", tt.input)
			}
		})
	}
}

func TestTemplateFileName_Ext(t *testing.T) {
	tests := map[TemplateFileName]string{
		"python_template.py":    "py",
		"config.YML":            "yml",
		"unity_item_creator.cs": "cs",
		"archive.tar.json":      "json",
	}
	for in, want := range tests {
		if got := in.Ext(); got != want {
			t.Errorf("%q.Ext() = %q, want %q", in, got, want)
		}
	}
}
