package tools

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Args is the argument bag of a tool call as decoded from JSON.
type Args map[string]any

// Decode fills out from the bag. Input is weakly typed: JSON numbers arrive
// as float64 and "3", 3 and 3.0 all decode into an int field.
func (a Args) Decode(out any) error {
	if len(a) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return strings.EqualFold(mapKey, fieldName)
		},
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(a))
}

// Missing reports whether a required argument is absent. JSON null and the
// empty string count as absent.
func (a Args) Missing(name string) bool {
	v, ok := a[name]
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}
