package client

import (
	"encoding/json"
	"strings"
)

// errorBody is the error envelope of the API. detail is either a string or
// a list whose items are strings or objects with a msg field.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type detailItem struct {
	Msg string `json:"msg"`
	Loc []any  `json:"loc"`
}

// parseDetail extracts human-readable messages from an error response body.
// Unknown shapes yield nil.
func parseDetail(body []byte) []string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(eb.Detail, &items); err != nil {
		return nil
	}

	var out []string
	for _, raw := range items {
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
			continue
		}
		var it detailItem
		if err := json.Unmarshal(raw, &it); err == nil && it.Msg != "" {
			out = append(out, withField(it))
		}
	}
	return out
}

// withField prefixes the message with the offending field when the server
// reports one, e.g. "average_check: value too large".
func withField(it detailItem) string {
	if len(it.Loc) == 0 {
		return it.Msg
	}
	field, ok := it.Loc[len(it.Loc)-1].(string)
	if !ok || field == "body" || strings.TrimSpace(field) == "" {
		return it.Msg
	}
	return field + ": " + it.Msg
}
