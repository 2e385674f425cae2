// Package inputval is the declarative validation step between decoded
// request bodies and the tracker service.
//
// Request structs carry `validate` tags (go-playground/validator); Validate
// reports every failing field by its JSON name so clients can point at the
// offending input. Nothing is written when validation fails.
package inputval

import (
	"fmt"
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stagetrack/internal/domain/errs"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failing field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// Result collects the field errors of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed.
func (r *Result) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// First returns the first error, or "" when there are none.
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].String()
}

// All joins every error with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}

// Err converts the result into an *errs.ValidationError, or nil.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	ve := &errs.ValidationError{}
	for _, e := range r.Errors {
		ve.Add(e.Field, e.Message)
	}
	return ve
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks v against its `validate` tags.
func Validate(v any) *Result {
	res := &Result{}
	err := instance().Struct(v)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return res
}

// fieldPath drops the root struct name: "createTask.stages[0].id" -> "stages[0].id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "emailaddr", "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// IsValidEmail reports whether s is a bare addr-spec (no display name)
// with a non-empty local part and domain and no stray dots.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	for _, part := range []string{s[:at], s[at+1:]} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}
