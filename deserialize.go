package eventsource

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"
)

var errNotObject = errors.New("top-level JSON value is not an object")

// DeserializeData decodes a serialized data payload.
// A nil payload yields a nil map, not an empty one. Numbers are returned as
// json.Number.
func DeserializeData(serialized []byte) (map[string]any, error) {
	return deserialize("data", serialized)
}

// DeserializeMetadata decodes a serialized metadata payload.
// A nil payload yields a nil map, not an empty one.
func DeserializeMetadata(serialized []byte) (map[string]any, error) {
	return deserialize("metadata", serialized)
}

func deserialize(field string, serialized []byte) (map[string]any, error) {
	if serialized == nil {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(serialized)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, &DeserializationError{Field: field, Err: errors.New("invalid JSON")}
		}
		return nil, &DeserializationError{Field: field, Err: errNotObject}
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	// Numbers stay json.Number so integers beyond 2^53 keep every digit
	decoder.UseNumber()

	result := map[string]any{}
	if err := decoder.Decode(&result); err != nil {
		return nil, &DeserializationError{Field: field, Err: err}
	}
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); err != io.EOF {
		return nil, &DeserializationError{Field: field, Err: errors.New("unexpected data after top-level object")}
	}

	return result, nil
}

// UTCCoerce converts t to UTC without changing the instant it represents.
func UTCCoerce(t time.Time) time.Time {
	return t.UTC()
}
