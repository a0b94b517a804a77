// Package validator decodes JSON request bodies and validates them with
// go-playground/validator struct tags. Field names in error reports follow
// the json tags, so a bad field of the second batch item is reported as
// "items[1].material".
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/itemforge/pkg/httpx"
)

// ValidationFailure is the 422 response body written by ValidateRequest.
type ValidationFailure struct {
	Error  string            `json:"error"  example:"Validation failed"`
	Fields map[string]string `json:"fields"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field path → human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[fieldPath(e)] = formatFieldError(e)
	}
	return errs
}

// fieldPath is the error's namespace without the root struct name, such as
// "items[1].material".
func fieldPath(e validator.FieldError) string {
	if _, path, ok := strings.Cut(e.Namespace(), "."); ok {
		return path
	}
	return e.Field()
}

func formatFieldError(e validator.FieldError) string {
	collection := e.Kind() == reflect.Slice || e.Kind() == reflect.Array
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		if collection {
			return fmt.Sprintf("Must contain at least %s entries", e.Param())
		}
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		if collection {
			return fmt.Sprintf("Must contain at most %s entries", e.Param())
		}
		return fmt.Sprintf("Maximum length is %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// ValidateRequest decodes the JSON request body into T, validates it, and
// writes an error response if either step fails: 400 for an empty or
// malformed body, 413 past the body limit, 422 with a ValidationFailure
// for tag violations.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if status, msg := decode(r.Body, &req); status != 0 {
		httpx.JSONError(w, status, msg)
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, ValidationFailure{
			Error:  "Validation failed",
			Fields: FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}

// decode reads exactly one JSON value from body. It returns a zero status on
// success.
func decode(body io.Reader, v any) (int, string) {
	if body == nil || body == http.NoBody {
		return http.StatusBadRequest, "Request body is empty"
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return http.StatusRequestEntityTooLarge, "Request body too large"
		case errors.Is(err, io.EOF):
			return http.StatusBadRequest, "Request body is empty"
		default:
			return http.StatusBadRequest, "Invalid JSON"
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return http.StatusBadRequest, "Invalid JSON"
	}
	return 0, ""
}
