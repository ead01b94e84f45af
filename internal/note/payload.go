package note

import (
	"errors"
	"fmt"
)

// DefaultMarkdownKey is the payload key holding the raw markdown
const DefaultMarkdownKey = "markdown"

var (
	// ErrMissingField is returned when the payload has no markdown value
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is returned when the markdown value is not text
	ErrInvalidField = errors.New("invalid field")
)

// Payload is the validated form of an update payload
type Payload struct {
	Markdown string
}

// DecodePayload extracts the markdown field stored under key.
// Other keys are ignored. A missing or null value yields ErrMissingField;
// a value that is neither a string nor a byte slice yields ErrInvalidField.
func DecodePayload(raw map[string]any, key string) (Payload, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return Payload{}, fmt.Errorf("payload %q: %w", key, ErrMissingField)
	}

	switch md := v.(type) {
	case string:
		return Payload{Markdown: md}, nil
	case []byte:
		return Payload{Markdown: string(md)}, nil
	default:
		return Payload{}, fmt.Errorf("payload %q has type %T: %w", key, v, ErrInvalidField)
	}
}
