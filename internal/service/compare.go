package service

import (
	"fmt"
	"sort"
)

// CompareActs builds a field-by-field comparison of two act records as
// formatted by FormatAct at full detail. Missing values render as "N/A".
// The differences list is phrased in Polish for direct display.
func CompareActs(a, b map[string]any) map[string]any {
	comparison := map[string]any{}
	for _, field := range []string{"title", "type", "status", "promulgation_date", "effective_date", "in_force"} {
		comparison[field+"_a"] = displayValue(a[field])
		comparison[field+"_b"] = displayValue(b[field])
	}

	var differences []string
	diff := func(field, label string) {
		va, vb := displayValue(a[field]), displayValue(b[field])
		if va != vb {
			differences = append(differences, fmt.Sprintf("Różne %s: %q vs %q", label, va, vb))
		}
	}
	diff("type", "typy aktów")
	diff("status", "statusy")
	diff("promulgation_date", "daty ogłoszenia")
	diff("effective_date", "daty wejścia w życie")
	diff("in_force", "oznaczenia obowiązywania")

	keywordsA := keywordSet(a["keywords"])
	keywordsB := keywordSet(b["keywords"])

	comparison["common_keywords"] = sortedKeys(intersect(keywordsA, keywordsB))
	comparison["keywords_only_a"] = sortedKeys(subtract(keywordsA, keywordsB))
	comparison["keywords_only_b"] = sortedKeys(subtract(keywordsB, keywordsA))
	comparison["differences"] = differences
	return comparison
}

func displayValue(v any) string {
	if v == nil {
		return "N/A"
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return "N/A"
		}
		return s
	}
	return fmt.Sprintf("%v", v)
}

func keywordSet(v any) map[string]bool {
	out := map[string]bool{}
	items, ok := v.([]any)
	if !ok {
		if strs, ok := v.([]string); ok {
			for _, s := range strs {
				out[s] = true
			}
		}
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out[s] = true
		}
	}
	return out
}

func intersect(a, b map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func subtract(a, b map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
