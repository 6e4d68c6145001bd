package dispatch

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// ValidateBody checks body against validator. Every required key must be
// present, every present key must be declared, and every value must have
// the declared type. A nil body is treated as empty.
func ValidateBody(body any, validator domain.BodyValidator, required []string) *domain.Error {
	fields, ok := asFields(body)
	if !ok {
		return domain.NewError(domain.KindValidation, "Body is not the valid type. Should be: map, was %s", typeName(body))
	}

	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return domain.NewError(domain.KindValidation, "Argument %s must be specified.", key)
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		want, ok := validator[key]
		if !ok {
			return domain.NewError(domain.KindValidation, "%s is not a valid argument.", key)
		}
		if !matches(fields[key], want) {
			return domain.NewError(domain.KindValidation,
				"%s is not the valid type. Should be: %s, was %s", key, want, typeName(fields[key]))
		}
	}
	return nil
}

func asFields(body any) (map[string]any, bool) {
	switch b := body.(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		return b, true
	default:
		v := reflect.ValueOf(body)
		if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	}
}

func matches(value any, want domain.ValueType) bool {
	if value == nil {
		return false
	}
	v := reflect.ValueOf(value)
	switch want {
	case domain.TypeString:
		return v.Kind() == reflect.String
	case domain.TypeBoolean:
		return v.Kind() == reflect.Bool
	case domain.TypeInteger:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		case reflect.Float32, reflect.Float64:
			// Decoded JSON numbers arrive as float64.
			f := v.Float()
			return f == math.Trunc(f)
		}
		return false
	case domain.TypeNumber:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	case domain.TypeList:
		return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
	case domain.TypeMap:
		return v.Kind() == reflect.Map
	default:
		return false
	}
}

func typeName(value any) string {
	if value == nil {
		return "null"
	}
	return fmt.Sprintf("%T", value)
}
