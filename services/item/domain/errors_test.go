package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrTemplateNotFound, "template not found"},
		{ErrTemplateAlreadyExists, "template already exists"},
		{ErrInvalidTemplateName, "invalid template name"},
		{ErrInvalidTemplate, "invalid template"},
		{ErrInvalidItem, "invalid item"},
	}
	for _, tt := range tests {
		if tt.err == nil {
			t.Fatalf("sentinel for %q must not be nil", tt.want)
		}
		if tt.err.Error() != tt.want {
			t.Fatalf("unexpected message: %q", tt.err.Error())
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("get template: %w", ErrTemplateNotFound)
	if !errors.Is(wrapped, ErrTemplateNotFound) {
		t.Fatal("errors.Is must match wrapped ErrTemplateNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidTemplateName, errors.New("missing extension"))
	if !errors.Is(wrapped2, ErrInvalidTemplateName) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidTemplateName")
	}
	if errors.Is(wrapped2, ErrInvalidItem) {
		t.Fatal("errors.Is must not match an unrelated sentinel")
	}
}
