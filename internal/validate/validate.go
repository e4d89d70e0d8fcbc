// Package validate wraps go-playground/validator with the clinic's custom rules and
// turns validation failures into short human-readable messages keyed by JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

var (
	// at least one upper-case letter and one non-alphanumeric character
	upperRe   = regexp.MustCompile(`[A-Z]`)
	specialRe = regexp.MustCompile(`[\W_]`)
	// "10:00 AM to 10:30 AM"
	timeSlotRe = regexp.MustCompile(`^(0[1-9]|1[0-2]):[0-5][0-9]\s?(AM|PM)\s+to\s+(0[1-9]|1[0-2]):[0-5][0-9]\s?(AM|PM)$`)
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return upperRe.MatchString(s) && specialRe.MatchString(s)
		})
		_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
			return timeSlotRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return dateRe.MatchString(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Errors maps a JSON field name to its failure messages.
type Errors map[string][]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e[k]...)
	}
	return strings.Join(msgs, "; ")
}

// Struct validates s. It returns nil or an Errors value; non-validation failures
// (e.g. a non-struct argument) are returned as-is.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(Errors, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = append(out[fe.Field()], fieldError(fe))
	}
	return out
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, lowerFirst(fe.Param()))
	case "strongpassword":
		return field + " must contain an upper-case letter and a special character"
	case "timeslot":
		return field + ` must look like "10:00 AM to 10:30 AM"`
	case "isodate":
		return field + " must be a date (YYYY-MM-DD)"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
