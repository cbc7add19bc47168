// Package validate checks struct fields against rules in a `validate` tag.
//
// Supported rules (comma-separated):
//
//	required         field must not be zero/empty
//	nullable         if empty, skip the remaining rules for this field
//	email            valid email address
//	objectid         24-character hex document id
//	min=N / max=N    string: char length | number: value | slice: length
//	gte=N / lte=N    number bounds
//	in=a|b|c         value must be one of the listed items
//	dive             validate every element of a slice of structs
//
// Example:
//
//	type Input struct {
//	    Email string      `json:"email"  validate:"required,email"`
//	    Sort  string      `json:"sort"   validate:"nullable,in=newest|rating"`
//	    Items []LineInput `json:"items"  validate:"required,min=1,dive"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of field path → error message; empty map means no errors.
// Nested slice elements are reported as "items[1].quantity".
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	walk(reflect.ValueOf(v), "", errs)
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func walk(rv reflect.Value, prefix string, errs map[string]string) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := prefix + jsonFieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		failed := false
		for _, rule := range rules {
			if rule == "nullable" || rule == "dive" {
				continue
			}
			if msg := apply(rule, name, value); msg != "" {
				errs[name] = msg
				failed = true
				break
			}
		}

		if !failed && hasRule(rules, "dive") && value.Kind() == reflect.Slice {
			for j := 0; j < value.Len(); j++ {
				walk(value.Index(j), fmt.Sprintf("%s[%d].", name, j), errs)
			}
		}
	}
}

func apply(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	raw := v
	v = deref(v)

	switch key {
	case "required":
		// A set pointer satisfies required even when it points at a zero value.
		if raw.Kind() == reflect.Ptr {
			if raw.IsNil() {
				return fmt.Sprintf("The %s field is required.", field)
			}
		} else if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(asString(v)) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "objectid":
		if !objectIDRE.MatchString(asString(v)) {
			return fmt.Sprintf("The %s must be a valid id.", field)
		}
	case "min":
		n := parseFloat(param)
		switch {
		case isNumeric(v) && toFloat(v) < n:
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		case v.Kind() == reflect.String && float64(len([]rune(v.String()))) < n:
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		case v.Kind() == reflect.Slice && float64(v.Len()) < n:
			return fmt.Sprintf("The %s must have at least %s items.", field, param)
		}
	case "max":
		n := parseFloat(param)
		switch {
		case isNumeric(v) && toFloat(v) > n:
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		case v.Kind() == reflect.String && float64(len([]rune(v.String()))) > n:
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		case v.Kind() == reflect.Slice && float64(v.Len()) > n:
			return fmt.Sprintf("The %s must not have more than %s items.", field, param)
		}
	case "gte":
		if isNumeric(v) && toFloat(v) < parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if isNumeric(v) && toFloat(v) > parseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "in":
		raw := asString(v)
		for _, allowed := range strings.Split(param, "|") {
			if raw == strings.TrimSpace(allowed) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

var (
	emailRE    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	objectIDRE = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

func deref(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	return v
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
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return 0
}

func asString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if !v.IsValid() {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
