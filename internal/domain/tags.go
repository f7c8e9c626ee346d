package domain

import (
	"encoding/json"
	"strings"
)

// Tags accepts either a JSON array of strings or a single comma-separated
// string. Either form decodes to a trimmed slice with empty entries dropped.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = normalizeTags(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = normalizeTags(strings.Split(s, ","))
	return nil
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
