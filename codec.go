package locality

import (
	"encoding/json"
	"fmt"
)

// DecodeSettings overlays the JSON object in data onto DefaultSettings.
// Keys missing from data keep their defaults; unknown keys are ignored.
// The result is validated.
func DecodeSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// EncodeValues returns every setting as a JSON-encoded value keyed by its
// setting key. Used by row-per-key stores.
func EncodeValues(s Settings) (map[string]string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = string(v)
	}
	return out, nil
}

// DecodeValues is the inverse of EncodeValues, with DecodeSettings'
// merge-on-load semantics.
func DecodeValues(values map[string]string) (Settings, error) {
	raw := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		if !json.Valid([]byte(v)) {
			return Settings{}, fmt.Errorf("decode %s: invalid JSON value %q", k, v)
		}
		raw[k] = json.RawMessage(v)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return Settings{}, err
	}
	return DecodeSettings(data)
}
