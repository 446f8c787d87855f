package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// OptionalString distinguishes an absent JSON key from an explicit value.
// Set is true when the key was present; Value is nil for JSON null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("must be a string")
	}
	o.Value = &s
	return nil
}

// Ptr returns the value to store when Set: nil when absent, "" for null.
func (o OptionalString) Ptr() *string {
	if !o.Set {
		return nil
	}
	if o.Value == nil {
		empty := ""
		return &empty
	}
	return o.Value
}

// TagList accepts either a delimited string or a list of strings and keeps
// the normalized comma-joined form.
type TagList struct {
	Set   bool
	Value string
}

func (t *TagList) UnmarshalJSON(data []byte) error {
	t.Set = true
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		t.Value = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("tags must be a string or a list of strings")
		}
		t.Value = JoinTags(list)
		return nil
	default:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("tags must be a string or a list of strings")
		}
		t.Value = NormalizeTags(s)
		return nil
	}
}

// Ptr returns nil when tags were not supplied.
func (t TagList) Ptr() *string {
	if !t.Set {
		return nil
	}
	v := t.Value
	return &v
}

// NormalizeTags splits a comma-delimited string and rejoins the trimmed,
// non-empty parts.
func NormalizeTags(s string) string {
	return JoinTags(strings.Split(s, ","))
}

func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = SanitizeInput(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return strings.Join(out, ",")
}
