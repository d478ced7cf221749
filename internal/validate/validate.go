// Package validate holds the form schemas shared by the client flows and the
// server handlers. Schemas never panic: failures come back as FieldErrors
// keyed by the JSON field name so callers can annotate individual inputs.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ImageTypeMessage is shown when a non-image file is picked or dropped.
const ImageTypeMessage = "Please select an image file (JPG, PNG, or GIF)"

// FieldErrors maps a field name to a human-readable message.
type FieldErrors map[string]string

// Error joins the messages in field order.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// Err returns fe as an error, or nil when there are no failures.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Result is either validated data or the field errors that rejected it.
type Result[T any] struct {
	Value  T
	Errors FieldErrors
}

// OK reports whether validation passed.
func (r Result[T]) OK() bool {
	return len(r.Errors) == 0
}

var requiredMessages = map[string]string{
	"email":   "Invalid email address",
	"approve": "You must approve.",
	"image":   "Please upload an image.",
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

func check[T any](in T) Result[T] {
	res := Result[T]{Value: in}

	err := v.Struct(in)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = FieldErrors{"": err.Error()}
		return res
	}

	res.Errors = make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := topLevelField(fe.Namespace())
		if _, seen := res.Errors[field]; seen {
			continue
		}
		res.Errors[field] = message(field, fe)
	}
	return res
}

// topLevelField turns "PostDraft.image.type" into "image".
func topLevelField(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return namespace
	}
	return parts[1]
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[field]; ok {
			return msg
		}
		return "Required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case "email":
		return "Invalid email address"
	case "eqfield":
		return "Passwords do not match"
	case "startswith":
		return ImageTypeMessage
	default:
		return "Invalid value"
	}
}
