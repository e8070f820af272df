// Package casing converts identifiers and map keys between the camelCase
// names used on the wire and the snake_case names used for columns.
//
//	casing.CamelToSnake("shoppingCartId")  // → "shopping_cart_id"
//	casing.SnakeToCamel("unit_price")      // → "unitPrice"
//
//	casing.ConvertKeys(row, casing.SnakeToCamel)
package casing

import (
	"reflect"
	"strings"
	"unicode"
)

// Converter maps one identifier to another.
type Converter func(string) string

// CamelToSnake converts camelCase or PascalCase to snake_case.
// Acronyms stay together: "orderID" → "order_id", "URLPath" → "url_path".
func CamelToSnake(s string) string {
	tokens := tokenize(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}
	return strings.Join(tokens, "_")
}

// SnakeToCamel converts snake_case (or kebab-case) to camelCase.
// Input that is already camelCase is returned unchanged.
func SnakeToCamel(s string) string {
	tokens := tokenize(s)
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for i, t := range tokens {
		if i == 0 {
			b.WriteString(lowerFirst(t))
			continue
		}
		b.WriteString(upperFirst(t))
	}
	return b.String()
}

// ConvertKeys returns a copy of v with every map key passed through fn.
// Nested maps and slices are converted recursively; other values are shared.
func ConvertKeys(v any, fn Converter) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fn(k)] = ConvertKeys(val, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = ConvertKeys(val, fn)
		}
		return out
	default:
		return v
	}
}

// ConvertMap is ConvertKeys for the common top-level map case.
func ConvertMap(m map[string]any, fn Converter) map[string]any {
	if m == nil {
		return nil
	}
	return ConvertKeys(m, fn).(map[string]any)
}

// Changes builds a column → value map from the non-nil pointer fields of the
// struct v. Keys are the snake_case form of each field's JSON name, so
//
//	type in struct {
//	    FirstName *string `json:"firstName"`
//	    Email     *string `json:"email"`
//	}
//
// with only FirstName set yields {"first_name": "..."}.
// Non-pointer fields are always included. Fields tagged json:"-" are skipped.
func Changes(v any) map[string]any {
	out := map[string]any{}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := jsonName(field)
		if name == "-" {
			continue
		}

		value := rv.Field(i)
		if value.Kind() == reflect.Ptr {
			if value.IsNil() {
				continue
			}
			value = value.Elem()
		}
		out[CamelToSnake(name)] = value.Interface()
	}

	return out
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "-"
	}
	if idx := strings.IndexByte(tag, ','); idx != -1 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

// tokenize splits an identifier on separators and case transitions.
//
//	"OrderID"        → ["Order", "ID"]
//	"shoppingCartId" → ["shopping", "Cart", "Id"]
//	"XMLParser"      → ["XML", "Parser"]
//	"unit_price"     → ["unit", "price"]
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			continue
		}

		if i > 0 && startsToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if isSeparator(prev) {
		return false
	}

	upper := unicode.IsUpper(r)
	prevUpper := unicode.IsUpper(prev)

	// lower → Upper: "orderID" splits before 'I'
	if upper && !prevUpper {
		return true
	}
	// end of an acronym: "XMLParser" splits before 'P'
	nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	if upper && prevUpper && nextLower {
		return true
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if isAllUpper(s) {
		return strings.ToLower(s)
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
