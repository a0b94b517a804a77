// Package schema validates JSON documents against the JSON Schemas embedded
// in this package. Schemas are compiled once by New.
package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema names accepted by Validate.
const (
	CustomItem = "custom_item"
)

const schemaSuffix = ".schema.json"

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// ErrUnknownSchema is returned by Validate for a name with no embedded schema.
var ErrUnknownSchema = errors.New("unknown schema")

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(e.Violations, "; "))
}

// Validator holds the compiled schemas. It is safe for concurrent use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	return NewFromFS(schemaFS)
}

// NewFromFS compiles every *.schema.json file found under fsys.
func NewFromFS(fsys fs.FS) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	names := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, schemaSuffix) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		if err := compiler.AddResource(p, doc); err != nil {
			return fmt.Errorf("add %s: %w", p, err)
		}
		names[strings.TrimSuffix(path.Base(p), schemaSuffix)] = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for name, p := range names {
		sch, err := compiler.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", p, err)
		}
		v.schemas[name] = sch
	}
	return v, nil
}

// Validate parses data as JSON and checks it against the named schema.
// The parsed document is returned so callers need not decode twice.
func (v *Validator) Validate(name string, data []byte) (any, error) {
	sch, ok := v.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Schema: name, Violations: []string{"document is not valid JSON"}}
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validate %s: %w", name, err)
		}
		var violations []string
		collectViolations(ve, &violations)
		return nil, &ValidationError{Schema: name, Violations: violations}
	}
	return doc, nil
}

// collectViolations flattens the leaves of the error tree. Interior nodes only
// say "doesn't validate" and are skipped.
func collectViolations(err *jsonschema.ValidationError, out *[]string) {
	if len(err.Causes) == 0 {
		*out = append(*out, formatViolation(err))
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}

func formatViolation(err *jsonschema.ValidationError) string {
	location := "/" + strings.Join(err.InstanceLocation, "/")
	if err.ErrorKind == nil {
		return fmt.Sprintf("at %s: validation failed", location)
	}
	keywords := strings.Join(err.ErrorKind.KeywordPath(), ".")
	if keywords == "" {
		return fmt.Sprintf("at %s: validation failed", location)
	}
	return fmt.Sprintf("at %s: %s validation failed", location, keywords)
}
