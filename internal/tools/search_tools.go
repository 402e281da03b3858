package tools

import (
	"context"

	"sejmlex/internal/service"
)

func registerMetadataTool(registry *Registry, deps Deps) {
	registry.Register(&Tool{
		Name:        "get_system_metadata",
		Description: "Słowniki rejestru ELI: słowa kluczowe, wydawcy, statusy, typy aktów, instytucje. Kategoria 'all' zwraca wszystkie.",
		InputSchema: schema(map[string]any{
			"category": prop("string", "keywords | publishers | statuses | types | institutions | all"),
		}),
		zeroData: func() any { return map[string]any{"category": "", "metadata": map[string]any{}} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			category := argString(args, "category", "all")
			metadata, err := deps.Metadata.Get(ctx, category)
			if err != nil {
				return nil, err
			}
			return &Result{
				Data:     map[string]any{"category": category, "metadata": metadata},
				Hints:    metadataHints(category),
				Metadata: map[string]any{"category": category},
			}, nil
		},
	})
}

func registerSearchTools(registry *Registry, deps Deps) {
	listZero := func() any {
		return map[string]any{"results": []any{}, "count": 0, "total_count": 0, "result_set_id": nil}
	}

	registry.Register(&Tool{
		Name:        "search_legal_acts",
		Description: "Wyszukuje akty prawne. Słowa kluczowe łączone spójnikiem I (AND). Wyniki zapisywane jako zbiór rs_N do dalszego filtrowania.",
		InputSchema: schema(map[string]any{
			"publisher":     prop("string", "Wydawca, np. DU (Dziennik Ustaw) lub MP (Monitor Polski)"),
			"year":          prop("integer", "Rok publikacji"),
			"keywords":      arrayProp("string", "Słowa kluczowe (AND)"),
			"title":         prop("string", "Fragment tytułu"),
			"act_type":      prop("string", "Typ aktu, np. Ustawa"),
			"date_from":     prop("string", "Wejście w życie od (YYYY-MM-DD)"),
			"date_to":       prop("string", "Wejście w życie do (YYYY-MM-DD)"),
			"pub_date_from": prop("string", "Publikacja od (YYYY-MM-DD)"),
			"pub_date_to":   prop("string", "Publikacja do (YYYY-MM-DD)"),
			"in_force":      prop("boolean", "Tylko akty obowiązujące"),
			"limit":         prop("integer", "Limit wyników (domyślnie 20)"),
			"offset":        prop("integer", "Przesunięcie stronicowania"),
			"detail_level":  prop("string", "minimal | standard | full"),
		}),
		zeroData: listZero,
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			req := service.SearchRequest{
				Publisher:   argString(args, "publisher", "DU"),
				Year:        argInt(args, "year", 0),
				Keywords:    argStrings(args, "keywords"),
				Title:       argString(args, "title", ""),
				Type:        argString(args, "act_type", ""),
				DateFrom:    argString(args, "date_from", ""),
				DateTo:      argString(args, "date_to", ""),
				PubDateFrom: argString(args, "pub_date_from", ""),
				PubDateTo:   argString(args, "pub_date_to", ""),
				InForce:     argBool(args, "in_force", false),
				Limit:       argInt(args, "limit", 0),
				Offset:      argInt(args, "offset", 0),
				Detail:      argString(args, "detail_level", ""),
			}
			result, err := deps.Search.Search(ctx, req)
			if err != nil {
				return nil, err
			}
			return listResult(deps, result, argInt(args, "limit", 0)), nil
		},
	})

	registry.Register(&Tool{
		Name:        "browse_acts",
		Description: "Przegląda akty jednego wydawcy z danego roku, pozycja po pozycji.",
		InputSchema: schema(map[string]any{
			"publisher":    prop("string", "Wydawca, np. DU"),
			"year":         prop("integer", "Rok publikacji"),
			"limit":        prop("integer", "Limit wyników (domyślnie 20)"),
			"detail_level": prop("string", "minimal | standard | full"),
		}, "publisher", "year"),
		zeroData: listZero,
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			publisher := argString(args, "publisher", "")
			year := argInt(args, "year", 0)
			if publisher == "" {
				return nil, &service.InvalidArgumentError{Field: "publisher", Reason: "required"}
			}
			if year == 0 {
				return nil, &service.InvalidArgumentError{Field: "year", Reason: "required"}
			}
			result, err := deps.Search.Browse(ctx, publisher, year, argString(args, "detail_level", ""))
			if err != nil {
				return nil, err
			}
			return listResult(deps, result, argInt(args, "limit", 0)), nil
		},
	})

	registry.Register(&Tool{
		Name:        "track_legal_changes",
		Description: "Akty opublikowane w zadanym oknie czasowym. Puste date_to oznacza dziś.",
		InputSchema: schema(map[string]any{
			"date_from": prop("string", "Początek okna (YYYY-MM-DD)"),
			"date_to":   prop("string", "Koniec okna (YYYY-MM-DD), domyślnie dziś"),
			"publisher": prop("string", "Wydawca, domyślnie DU"),
			"keywords":  arrayProp("string", "Słowa kluczowe (AND)"),
		}, "date_from"),
		zeroData: listZero,
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			result, err := deps.Changes.Recent(ctx,
				argString(args, "date_from", ""),
				argString(args, "date_to", ""),
				argString(args, "publisher", "DU"),
				argStrings(args, "keywords"),
				argInt(args, "limit", 0),
			)
			if err != nil {
				return nil, err
			}
			return listResult(deps, result, argInt(args, "limit", 0)), nil
		},
	})
}

// listResult shapes a search-style result: applies the default cap, stores
// a non-empty list as a result set and attaches the follow-up hints.
func listResult(deps Deps, result *service.SearchResult, requestedLimit int) *Result {
	applied := requestedLimit
	if applied <= 0 {
		applied = DefaultLimit
	}

	acts := result.Acts
	truncated := len(acts) > applied
	if truncated {
		acts = acts[:applied]
	}

	var resultSetID any
	id := ""
	if len(acts) > 0 {
		id = deps.Results.Store(acts, result.Query)
		resultSetID = id
	}

	return &Result{
		Data: map[string]any{
			"results":       acts,
			"count":         len(acts),
			"total_count":   result.TotalCount,
			"result_set_id": resultSetID,
			"query":         result.Query,
			"was_truncated": truncated,
			"applied_limit": applied,
		},
		Hints:    searchHints(acts, id, truncated, result.TotalCount),
		Metadata: map[string]any{"query": result.Query},
	}
}
