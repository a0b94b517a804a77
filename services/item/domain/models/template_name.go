package models

import (
	"fmt"
	"path"
	"strings"
)

// TemplateFileName is a value object for an export template's file name.
// Encapsulates validation rules: 1 <= len(name) <= 255, a bare file name with
// an extension, no path separators.
type TemplateFileName string

const (
	minTemplateNameLength = 1
	maxTemplateNameLength = 255
)

// NewTemplateFileName constructs a valid TemplateFileName or returns an error if constraints are violated.
func NewTemplateFileName(s string) (TemplateFileName, error) {
	if len(s) < minTemplateNameLength {
		return "", fmt.Errorf("template name must be at least %d character", minTemplateNameLength)
	}
	if len(s) > maxTemplateNameLength {
		return "", fmt.Errorf("template name must not exceed %d characters", maxTemplateNameLength)
	}
	if strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
		return "", fmt.Errorf("template name must be a bare file name")
	}
	if strings.ContainsRune(s, 0) {
		return "", fmt.Errorf("template name must not contain NUL bytes")
	}
	ext := path.Ext(s)
	if ext == "" || ext == s {
		return "", fmt.Errorf("template name must have an extension")
	}
	return TemplateFileName(s), nil
}

// String returns the underlying string value.
func (n TemplateFileName) String() string {
	return string(n)
}

// Ext returns the lower-cased extension without the leading dot, e.g. "py".
func (n TemplateFileName) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(string(n)), "."))
}
