package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Envelope is the response wrapper every backend endpoint returns. Older
// endpoints answer with ok/error instead of success/message. List endpoints
// instantiate T as a slice and may fill either data or data_list.
type Envelope[T any] struct {
	Success  bool   `json:"success"`
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	Error    string `json:"error"`
	Data     T      `json:"data"`
	DataList T      `json:"data_list"`
}

func (e Envelope[T]) Succeeded() bool {
	return e.Success || e.OK
}

// Text returns message, falling back to error.
func (e Envelope[T]) Text() string {
	if m := strings.TrimSpace(e.Message); m != "" {
		return m
	}
	return strings.TrimSpace(e.Error)
}

// List decodes a JSON array, a single object, or null into a slice. Some
// list endpoints collapse a one-element result into a bare object.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case data[0] == '{':
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*l = List[T]{one}
		return nil
	}
	var many []T
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// Items returns the list payload of a list envelope, preferring data.
func Items[T any](e Envelope[List[T]]) []T {
	if len(e.Data) > 0 {
		return e.Data
	}
	return e.DataList
}
