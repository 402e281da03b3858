// Package service implements the gateway operations on top of the registry
// client: metadata dictionaries, search, browsing, act details, change
// tracking and the pure legal-date and comparison helpers.
package service

import (
	"fmt"
	"strings"
)

// Detail levels for act formatting.
const (
	DetailMinimal  = "minimal"
	DetailStandard = "standard"
	DetailFull     = "full"
)

// FormatAct normalises a raw registry act record into the snake_case shape
// used across result sets and tool responses. Minimal keeps the identifying
// fields; standard adds the lifecycle fields; full adds keywords and change
// tracking.
func FormatAct(raw map[string]any, detail string) map[string]any {
	act := map[string]any{
		"eli":       actELI(raw),
		"title":     raw["title"],
		"status":    raw["status"],
		"publisher": raw["publisher"],
		"year":      raw["year"],
		"pos":       raw["pos"],
	}
	if detail == DetailMinimal {
		return act
	}

	act["type"] = raw["type"]
	act["promulgation_date"] = raw["promulgation"]
	act["effective_date"] = raw["entryIntoForce"]
	act["in_force"] = raw["inForce"]

	if detail == DetailFull {
		act["keywords"] = raw["keywords"]
		act["announcement_date"] = raw["announcementDate"]
		act["change_date"] = raw["changeDate"]
	}
	return act
}

// FormatActs normalises a list of raw records.
func FormatActs(items []any, detail string) []map[string]any {
	acts := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if raw, ok := item.(map[string]any); ok {
			acts = append(acts, FormatAct(raw, detail))
		}
	}
	return acts
}

// actELI returns the registry identifier of a raw record, deriving it from
// the address fields when the ELI field is absent.
func actELI(raw map[string]any) string {
	if eli, ok := raw["ELI"].(string); ok && eli != "" {
		return eli
	}
	if eli, ok := raw["eli"].(string); ok && eli != "" {
		return eli
	}
	publisher, _ := raw["publisher"].(string)
	if publisher == "" {
		return ""
	}
	return fmt.Sprintf("%s/%v/%v", publisher, raw["year"], raw["pos"])
}

// itemsOf extracts the record list from a registry list response.
func itemsOf(response map[string]any) []any {
	if items, ok := response["items"].([]any); ok {
		return items
	}
	return nil
}

// totalCountOf extracts the total match count from a registry list
// response, falling back to the item count.
func totalCountOf(response map[string]any) int {
	for _, key := range []string{"totalCount", "count"} {
		if v, ok := response[key]; ok {
			switch n := v.(type) {
			case float64:
				return int(n)
			case int:
				return n
			}
		}
	}
	return len(itemsOf(response))
}

// normalizeDetail maps a user-supplied detail level onto a known one.
func normalizeDetail(detail string) string {
	switch strings.ToLower(strings.TrimSpace(detail)) {
	case DetailMinimal:
		return DetailMinimal
	case DetailFull:
		return DetailFull
	default:
		return DetailStandard
	}
}
