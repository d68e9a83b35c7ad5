package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jobtracker/jobtracker-go/internal/model"
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidationError reports whether err should be answered with 400.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}
	mustRegister("job-status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || model.JobStatus(s).Valid()
	})
	mustRegister("skill-status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || model.SkillStatus(s).Valid()
	})

	return v
}

// validateStruct runs struct tags and flattens failures into a
// ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min", "max":
		return fmt.Sprintf("must be between %d and %d", model.MinProficiency, model.MaxProficiency)
	case "job-status":
		return "must be one of Applied, Interview, Offer, Rejected"
	case "skill-status":
		return "must be one of Learning, Learnt, Need to Learn"
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// parseDate accepts the date shapes browsers send. An empty string yields
// nil.
func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC().Truncate(time.Second)
			return &t, nil
		}
	}
	return nil, fieldError(field, "must be a date (YYYY-MM-DD or RFC 3339)")
}
