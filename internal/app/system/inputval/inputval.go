// internal/app/system/inputval/inputval.go

// Package inputval validates operation input structs via `validate` tags
// before anything touches the store. Supported rules: required, max=N, email.
// The `label` tag supplies the human-readable field name used in messages.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures for one input struct.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "" when validation passed.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Validate checks every exported string field of input against its
// `validate` tag. Non-struct input yields an empty Result.
func Validate(input interface{}) Result {
	var res Result

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return res
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || field.Type.Kind() != reflect.String {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		value := v.Field(i).String()

		for _, rule := range strings.Split(tag, ",") {
			switch {
			case rule == "required":
				if strings.TrimSpace(value) == "" {
					res.Errors = append(res.Errors, FieldError{
						Field:   field.Name,
						Message: label + " is required.",
					})
				}
			case strings.HasPrefix(rule, "max="):
				n, err := strconv.Atoi(strings.TrimPrefix(rule, "max="))
				if err == nil && len(value) > n {
					res.Errors = append(res.Errors, FieldError{
						Field:   field.Name,
						Message: fmt.Sprintf("%s must be at most %d characters.", label, n),
					})
				}
			case rule == "email":
				if value != "" && !IsValidEmail(value) {
					res.Errors = append(res.Errors, FieldError{
						Field:   field.Name,
						Message: label + " is not a valid email address.",
					})
				}
			}
		}
	}
	return res
}

// IsValidEmail reports whether s is a plausible bare email address.
// Display-name forms ("Name <a@b>") are rejected; single-label domains are
// allowed so dev/test addresses like admin@mailserver work.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	return validDotAtom(local) && validDotAtom(domain)
}

// validDotAtom rejects leading/trailing dots and consecutive dots.
func validDotAtom(part string) bool {
	if part == "" || strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") {
		return false
	}
	return !strings.Contains(part, "..")
}
