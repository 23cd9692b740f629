package mcp

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// bindArguments decodes raw tool arguments into target using json tags.
// MCP clients are loose with types: numbers arrive as float64, and some
// clients send arrays or numbers JSON-encoded inside strings, so string
// values that look like JSON are decoded before binding.
func bindArguments[T any](rawArgs map[string]interface{}, target *T) error {
	jsonStringHook := func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return data, nil
		}

		if t.Kind() == reflect.Slice && strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
			slicePtr := reflect.New(t)
			if err := json.Unmarshal([]byte(raw), slicePtr.Interface()); err == nil {
				return slicePtr.Elem().Interface(), nil
			}
		}

		if t.Kind() >= reflect.Int && t.Kind() <= reflect.Float64 {
			var num json.Number
			if err := json.Unmarshal([]byte(raw), &num); err == nil {
				// mapstructure handles the number conversion
				return num, nil
			}
		}

		return data, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       jsonStringHook,
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(rawArgs)
}
