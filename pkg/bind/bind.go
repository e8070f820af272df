// Package bind fills a typed input struct from a JSON or form request body
// and validates it.
//
// Keys are matched against each field's json name and may arrive in
// camelCase or snake_case ("firstName" and "first_name" both fill FirstName).
// String values are converted to the field's type, so form posts and JSON
// bodies bind the same struct:
//
//	type addItemInput struct {
//	    ProductID uint `json:"productId" validate:"required"`
//	    Quantity  int  `json:"quantity"  validate:"required,gte=1"`
//	}
package bind

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/kashvishop/storefront/config"
	"github.com/kashvishop/storefront/pkg/casing"
	"github.com/kashvishop/storefront/pkg/validate"
)

const defaultMaxBodyBytes = 4 << 20

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBodyBytes
	}
	return n
}

// Request decodes r's body into dest and runs validation.
// It returns (errs, order, nil) on validation failures, and a non-nil error
// when the body is malformed, too large or holds a value of the wrong type.
func Request(r *http.Request, dest any) (validate.Errors, []string, error) {
	values, err := decode(r)
	if err != nil {
		return nil, nil, err
	}
	if err := Values(values, dest); err != nil {
		return nil, nil, err
	}

	errs, order := validate.Struct(dest)
	return errs, order, nil
}

func decode(r *http.Request) (map[string]any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes()); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, tooLarge(err, "invalid form body")
		}
		values := make(map[string]any, len(r.PostForm))
		for key, vals := range r.PostForm {
			if len(vals) > 0 {
				values[key] = vals[0]
			}
		}
		return values, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, tooLarge(err, "invalid body")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return map[string]any{}, nil
	}

	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return values, nil
}

func tooLarge(err error, fallback string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
	}
	return fmt.Errorf("%s: %w", fallback, err)
}

// Values copies values into the struct dest points to. Keys are normalised
// to camelCase first; unknown keys are ignored.
func Values(values map[string]any, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.New("bind: destination must be a non-nil pointer to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	normalised := casing.ConvertMap(values, casing.SnakeToCamel)

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonName(field)
		if name == "-" {
			continue
		}

		v, ok := normalised[casing.SnakeToCamel(name)]
		if !ok || v == nil {
			continue
		}
		if err := assign(rv.Field(i), v); err != nil {
			return fmt.Errorf("The %s field is invalid.", name)
		}
	}
	return nil
}

func assign(field reflect.Value, v any) error {
	if s, ok := v.(string); ok {
		return fromString(field, s)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, field.Addr().Interface())
}

var textUnmarshaler = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

func fromString(field reflect.Value, s string) error {
	s = strings.TrimSpace(s)

	if field.Kind() == reflect.Ptr {
		if s == "" {
			return nil
		}
		elem := reflect.New(field.Type().Elem())
		if err := fromString(elem.Elem(), s); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if field.Addr().Type().Implements(textUnmarshaler) {
		if s == "" {
			return nil
		}
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseUint(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, ok := validate.ParseBool(s)
		if !ok {
			return fmt.Errorf("not a boolean: %q", s)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
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
