package tools

import (
	"context"
	"fmt"

	"sejmlex/internal/store"
)

func registerStoreTools(registry *Registry, deps Deps) {
	registry.Register(&Tool{
		Name:        "filter_results",
		Description: "Filtruje, sortuje i przycina zapamiętany zbiór wyników (rs_N) bez ponownego zapytania. Wynik zapisywany jako nowy zbiór.",
		InputSchema: schema(map[string]any{
			"result_set_id": prop("string", "Identyfikator zbioru, np. rs_1"),
			"pattern":       prop("string", "Wyrażenie regularne (bez rozróżniania wielkości liter)"),
			"field":         prop("string", "Pole dopasowania wzorca: title | eli | status | type | publisher"),
			"type_equals":   prop("string", "Dokładny typ aktu"),
			"status_equals": prop("string", "Dokładny status"),
			"year_equals":   prop("integer", "Dokładny rok"),
			"date_field":    prop("string", "promulgation_date | effective_date"),
			"date_from":     prop("string", "Data od (YYYY-MM-DD)"),
			"date_to":       prop("string", "Data do (YYYY-MM-DD)"),
			"sort_by":       prop("string", "Pole sortowania"),
			"sort_desc":     prop("boolean", "Sortuj malejąco"),
			"limit":         prop("integer", "Maksymalna liczba wyników"),
		}, "result_set_id"),
		zeroData: func() any {
			return map[string]any{"results": []any{}, "count": 0, "original_count": 0, "result_set_id": nil}
		},
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			id := argString(args, "result_set_id", "")
			set, err := deps.Results.Get(id)
			if err != nil {
				return nil, err
			}

			filter := store.Filter{
				Type:      argString(args, "type_equals", ""),
				Status:    argString(args, "status_equals", ""),
				Year:      argInt(args, "year_equals", 0),
				Pattern:   argString(args, "pattern", ""),
				Field:     argString(args, "field", "title"),
				DateFrom:  argString(args, "date_from", ""),
				DateTo:    argString(args, "date_to", ""),
				DateField: argString(args, "date_field", ""),
				SortBy:    argString(args, "sort_by", ""),
				Limit:     argInt(args, "limit", 0),
			}
			if argBool(args, "sort_desc", false) {
				filter.SortOrder = "desc"
			}

			filtered, err := filter.Apply(set.Results)
			if err != nil {
				return nil, err
			}

			var newID any
			storedID := ""
			if len(filtered) > 0 {
				storedID = deps.Results.Store(filtered, fmt.Sprintf("filtered(%s): %s", set.ID, set.Description))
				newID = storedID
			}

			return &Result{
				Data: map[string]any{
					"results":              filtered,
					"count":                len(filtered),
					"original_count":       len(set.Results),
					"result_set_id":        newID,
					"source_result_set_id": set.ID,
					"filters_applied":      filtersApplied(filter),
				},
				Hints: searchHints(filtered, storedID, false, len(filtered)),
			}, nil
		},
	})

	registry.Register(&Tool{
		Name:        "list_result_sets",
		Description: "Wymienia zapamiętane zbiory wyników z bieżącej sesji.",
		InputSchema: schema(map[string]any{}),
		zeroData:    func() any { return map[string]any{"result_sets": []any{}, "count": 0} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			sets := deps.Results.List()
			var hints []Hint
			if len(sets) > 0 {
				hints = append(hints, Hint{
					Message:    fmt.Sprintf("Zawęź dowolny zbiór, np. %s.", sets[0].ID),
					Tool:       "filter_results",
					Parameters: map[string]any{"result_set_id": sets[0].ID},
				})
			}
			return &Result{
				Data: map[string]any{
					"result_sets": sets,
					"count":       len(sets),
				},
				Hints: hints,
			}, nil
		},
	})

	registry.Register(&Tool{
		Name:        "list_loaded_documents",
		Description: "Wymienia akty, których treść jest załadowana w pamięci.",
		InputSchema: schema(map[string]any{}),
		zeroData:    func() any { return map[string]any{"documents": []any{}, "count": 0} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			documents := deps.Docs.List()
			var hints []Hint
			if len(documents) > 0 {
				hints = append(hints,
					Hint{
						Message:    fmt.Sprintf("Odczytaj treść aktu %s.", documents[0].ELI),
						Tool:       "read_act_content",
						Parameters: map[string]any{"eli": documents[0].ELI},
					},
					Hint{
						Message:    "Przeszukaj załadowany tekst po frazie.",
						Tool:       "search_in_act",
						Parameters: map[string]any{"eli": documents[0].ELI},
					},
				)
			}
			return &Result{
				Data: map[string]any{
					"documents": documents,
					"count":     len(documents),
				},
				Hints: hints,
			}, nil
		},
	})
}

// filtersApplied reports which pipeline stages were active, for response
// transparency.
func filtersApplied(f store.Filter) map[string]any {
	applied := map[string]any{}
	if f.Type != "" {
		applied["type_equals"] = f.Type
	}
	if f.Status != "" {
		applied["status_equals"] = f.Status
	}
	if f.Year != 0 {
		applied["year_equals"] = f.Year
	}
	if f.Pattern != "" {
		applied["pattern"] = f.Pattern
		applied["field"] = f.Field
	}
	if f.DateField != "" {
		applied["date_field"] = f.DateField
	}
	if f.DateFrom != "" {
		applied["date_from"] = f.DateFrom
	}
	if f.DateTo != "" {
		applied["date_to"] = f.DateTo
	}
	if f.SortBy != "" {
		applied["sort_by"] = f.SortBy
		applied["sort_desc"] = f.SortOrder == "desc"
	}
	if f.Limit > 0 {
		applied["limit"] = f.Limit
	}
	return applied
}
