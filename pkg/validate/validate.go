// Package validate checks request structs against `validate` struct tags.
//
// Supported rules (comma-separated):
//
//	required            field must not be zero/empty (nil pointers are empty)
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	url                 valid http/https URL
//	date                parseable date ("2006-01-02", RFC 3339, …)
//	numeric             any number
//	integer             whole number
//	boolean             true/false/1/0/on/off
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gt=N gte=N lt=N lte=N
//	in=a,b,c            value must be one of the listed items
//
// A `msg` tag replaces the generated message for that field:
//
//	Email string `json:"email" validate:"required" msg:"Email is required."`
//
// Pointer fields are dereferenced; a nil pointer only fails `required`.
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Errors maps a field's JSON name to its first failing message.
type Errors map[string]string

// First returns the message of the first failing field in struct order,
// or "" when there are none.
func (e Errors) First(order []string) string {
	for _, name := range order {
		if msg, ok := e[name]; ok {
			return msg
		}
	}
	for _, msg := range e {
		return msg
	}
	return ""
}

// Struct validates all exported fields of v that carry a `validate` tag.
// It returns the errors and the JSON names of the checked fields in
// declaration order.
func Struct(v any) (Errors, []string) {
	errs := Errors{}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs, nil
	}
	rt := rv.Type()

	var order []string
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := jsonFieldName(field)
		order = append(order, name)
		rules := splitRules(tag)
		value := rv.Field(i)

		if isEmpty(value) {
			if hasRule(rules, "nullable") {
				continue
			}
			if hasRule(rules, "required") {
				errs[name] = message(field, fmt.Sprintf("The %s field is required.", name))
			}
			continue
		}

		for value.Kind() == reflect.Ptr {
			value = value.Elem()
		}

		for _, rule := range rules {
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = message(field, msg)
				break
			}
		}
	}

	return errs, order
}

// Valid reports whether v passes every rule.
func Valid(v any) bool {
	errs, _ := Struct(v)
	return len(errs) == 0
}

func message(f reflect.StructField, generated string) string {
	if custom := f.Tag.Get("msg"); custom != "" {
		return custom
	}
	return generated
}

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required", "nullable":
		// handled by Struct

	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
	case "date":
		if _, ok := v.Interface().(time.Time); ok {
			return ""
		}
		if _, err := ParseDate(raw); err != nil {
			return fmt.Sprintf("The %s is not a valid date.", field)
		}
	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}
	case "boolean":
		if v.Kind() != reflect.Bool {
			if _, ok := ParseBool(raw); !ok {
				return fmt.Sprintf("The %s field must be true or false.", field)
			}
		}

	case "min":
		n := parseFloat(param)
		if f, ok := number(v); ok {
			if f < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(len([]rune(raw))) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := parseFloat(param)
		if f, ok := number(v); ok {
			if f > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(len([]rune(raw))) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if f, _ := number(v); f <= parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if f, _ := number(v); f < parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lt":
		if f, _ := number(v); f >= parseFloat(param) {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if f, _ := number(v); f > parseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	case "in":
		for _, allowed := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var dateLayouts = []string{
	"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05", "02/01/2006",
}

// ParseDate accepts the date layouts HTML forms and JSON clients send.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date", s)
}

// ParseBool accepts checkbox-style values as well as true/false.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true, true
	case "false", "0", "off", "no", "":
		return false, true
	}
	return false, false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		return v.IsZero()
	}
	return false
}

// number reads ints, uints, floats and anything exposing InexactFloat64
// (decimal.Decimal).
func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	if f, ok := v.Interface().(interface{ InexactFloat64() float64 }); ok {
		return f.InexactFloat64(), true
	}
	return 0, false
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return f.Name
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits the tag on commas, keeping the values of a trailing
// in=a,b,c together.
func splitRules(tag string) []string {
	var rules []string
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n := len(rules); n > 0 && strings.HasPrefix(rules[n-1], "in=") && !isRuleName(part) {
			rules[n-1] += "," + part
			continue
		}
		rules = append(rules, part)
	}
	return rules
}

func isRuleName(s string) bool {
	key, _, _ := strings.Cut(s, "=")
	switch key {
	case "required", "nullable", "email", "url", "date", "numeric", "integer",
		"boolean", "min", "max", "gt", "gte", "lt", "lte", "in":
		return true
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}
