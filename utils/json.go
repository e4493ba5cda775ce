package utils

import (
	"encoding/json"
)

// Marshal generic struct to JSON
func MarshalToJSON[T any](input T) (string, error) {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// Unmarshal JSON to generic struct
func UnmarshalFromJSON[T any](data []byte, output *T) error {
	return json.Unmarshal(data, output)
}

// DecodeRow converts a column->value row map into a typed struct by a JSON
// round trip. Columns returned by the store as []byte (jsonb) are inlined as
// raw JSON so nested documents decode into their Go shapes.
func DecodeRow(row map[string]any, output any) error {
	normalized := make(map[string]json.RawMessage, len(row))
	for col, val := range row {
		switch v := val.(type) {
		case []byte:
			if json.Valid(v) {
				normalized[col] = json.RawMessage(v)
				continue
			}
			b, err := json.Marshal(string(v))
			if err != nil {
				return err
			}
			normalized[col] = b
		case string:
			// jsonb columns surface as strings through some drivers.
			if json.Valid([]byte(v)) && looksLikeDocument(v) {
				normalized[col] = json.RawMessage(v)
				continue
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			normalized[col] = b
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return err
			}
			normalized[col] = b
		}
	}

	b, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, output)
}

func looksLikeDocument(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
