package services

import (
	"path"
	"strings"
)

const defaultContentType = "text/plain"

var contentTypes = map[string]string{
	".cs":   "text/x-csharp",
	".cpp":  "text/x-c++src",
	".json": "application/json",
	".yml":  "text/yaml",
	".yaml": "text/yaml",
	".java": "text/x-java",
	".lua":  "text/x-lua",
	".js":   "text/javascript",
	".py":   "text/x-python",
	".txt":  "text/plain",
}

// ContentType maps a template file name to the MIME type it is served with.
// Unknown extensions fall back to text/plain.
func ContentType(fileName string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(fileName))]; ok {
		return ct
	}
	return defaultContentType
}
