package model

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Attrs is an arbitrary caller-defined key/value mapping attached to an
// entity. Values can be anything JSON can represent (strings, numbers,
// booleans, nested mappings, sequences, null).
type Attrs map[string]any

// Encode serializes the mapping to its canonical JSON text form for
// storage. A nil mapping encodes as an empty object.
func (a Attrs) Encode() (string, error) {
	if a == nil {
		a = Attrs{}
	}
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encoding attrs: %w", err)
	}
	return string(data), nil
}

// DecodeAttrs parses stored attrs text back into a mapping. A corrupt
// record never fails a read: the error is logged and an empty mapping
// is returned instead.
func DecodeAttrs(text string) Attrs {
	if text == "" {
		return Attrs{}
	}
	var a Attrs
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		slog.Warn("invalid attrs text, defaulting to empty mapping", "error", err)
		return Attrs{}
	}
	if a == nil {
		return Attrs{}
	}
	return a
}
