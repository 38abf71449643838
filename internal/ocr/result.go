package ocr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the decoded /api/ocr-summarize response.
type Result struct {
	DetectedText string
	Bullets      []string
	NextActions  []string
	Tags         map[string][]string
}

// FirstTag returns the first value of the first key present in Tags.
func (r Result) FirstTag(keys ...string) string {
	for _, key := range keys {
		if values := r.Tags[key]; len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// decodeResult decodes body field by field. Missing or mistyped fields are
// left empty; only a body that is not a JSON object is an error.
func decodeResult(body []byte) (Result, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	res := Result{
		Bullets:     []string{},
		NextActions: []string{},
		Tags:        map[string][]string{},
	}

	_ = json.Unmarshal(top["full_text"], &res.DetectedText)

	var summary map[string]json.RawMessage
	if json.Unmarshal(top["summary"], &summary) == nil {
		res.Bullets = decodeStrings(summary["bullets"])
		res.NextActions = decodeStrings(summary["next_actions"])
	}

	var tags map[string]json.RawMessage
	if json.Unmarshal(top["tags"], &tags) == nil {
		for key, raw := range tags {
			if values := decodeTagValues(raw); len(values) > 0 {
				res.Tags[key] = values
			}
		}
	}

	return res, nil
}

// decodeStrings keeps the non-blank string elements of a JSON array and
// drops the rest, nulls included.
func decodeStrings(raw json.RawMessage) []string {
	out := []string{}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, item := range items {
		if s, ok := decodeString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// decodeString accepts a JSON string that is not blank. null decodes into a
// nil pointer without error, so it is rejected here.
func decodeString(raw json.RawMessage) (string, bool) {
	var s *string
	if json.Unmarshal(raw, &s) != nil || s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}

func decodeTagValues(raw json.RawMessage) []string {
	if single, ok := decodeString(raw); ok {
		return []string{single}
	}
	return decodeStrings(raw)
}
