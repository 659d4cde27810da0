package api

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// Document is a raw JSON response body. The zero value represents an empty body.
type Document json.RawMessage

// Get returns the value at path using gjson path syntax ("players.#.name").
func (d Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d, path)
}

// Decode unmarshals the document into v.
func (d Document) Decode(v any) error {
	if len(d) == 0 {
		return errors.New("api: decode of empty document")
	}
	return json.Unmarshal(d, v)
}

// IsEmpty reports whether the server sent no body.
func (d Document) IsEmpty() bool {
	return len(d) == 0
}

func (d Document) String() string {
	if len(d) == 0 {
		return "null"
	}
	return string(d)
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	if d == nil {
		return errors.New("api: UnmarshalJSON on nil Document")
	}
	*d = append((*d)[0:0], data...)
	return nil
}
