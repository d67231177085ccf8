// Package validation checks request structs and reports failures per field,
// e.g. {"email": [{"error": "invalid", "value": "foo"}]}.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	Blank        = "blank"
	Invalid      = "invalid"
	Taken        = "taken"
	TooShort     = "too_short"
	TooLong      = "too_long"
	Confirmation = "confirmation"
)

var emojiNameRe = regexp.MustCompile(`^[a-z0-9\-+_]+$`)

type FieldError struct {
	Error string      `json:"error"`
	Value interface{} `json:"value,omitempty"`
}

type Errors map[string][]FieldError

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))

	for _, f := range fields {
		for _, fe := range e[f] {
			parts = append(parts, f+" "+fe.Error)
		}
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

func (e Errors) Add(field, code string, value interface{}) {
	e[field] = append(e[field], FieldError{Error: code, Value: value})
}

// Is reports whether err carries a failure with code for field.
func Is(err error, field, code string) bool {
	var verr Errors
	if !errors.As(err, &verr) {
		return false
	}

	for _, fe := range verr[field] {
		if fe.Error == code {
			return true
		}
	}

	return false
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0] //nolint:gomnd
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	//nolint:errcheck
	v.RegisterValidation("emojiname", func(fl validator.FieldLevel) bool {
		return emojiNameRe.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct validates s. It returns Errors when a rule fails.
func (vl *Validator) Struct(s interface{}) error {
	err := vl.v.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validate error: %w", err)
	}

	out := make(Errors, len(ves))

	for _, fe := range ves {
		var value interface{}
		if !strings.Contains(fe.Field(), "password") {
			value = fe.Value()
		}

		out.Add(fe.Field(), code(fe.Tag()), value)
	}

	return out
}

func code(tag string) string {
	switch tag {
	case "required", "required_with":
		return Blank
	case "min":
		return TooShort
	case "max":
		return TooLong
	case "eqfield":
		return Confirmation
	default:
		return Invalid
	}
}
