package tools

import "fmt"

// Hints are deterministic functions of the response shape. Messages are in
// Polish, matching the language of the acts themselves.

func searchHints(acts []map[string]any, resultSetID string, truncated bool, totalCount int) []Hint {
	if len(acts) == 0 {
		return []Hint{
			{Message: "Brak wyników. Słowa kluczowe łączone są spójnikiem I (AND) - każde dodatkowe słowo zawęża wyniki. Spróbuj mniejszej liczby kryteriów."},
			{
				Message: "Sprawdź dostępne słowa kluczowe i typy aktów.",
				Tool:    "get_system_metadata",
				Parameters: map[string]any{
					"category": "keywords",
				},
			},
		}
	}

	hints := []Hint{}
	if eli, ok := acts[0]["eli"].(string); ok && eli != "" {
		hints = append(hints, Hint{
			Message:    fmt.Sprintf("Pobierz szczegóły pierwszego aktu (%s).", eli),
			Tool:       "get_act_details",
			Parameters: map[string]any{"eli": eli},
		})
	}
	if resultSetID != "" {
		hints = append(hints, Hint{
			Message:    fmt.Sprintf("Zawęź wyniki zbioru %s bez ponownego zapytania.", resultSetID),
			Tool:       "filter_results",
			Parameters: map[string]any{"result_set_id": resultSetID},
		})
	}
	if truncated {
		hints = append(hints, Hint{
			Message: fmt.Sprintf("Pokazano część z %d wyników. Użyj limit/offset albo filter_results, aby zobaczyć resztę.", totalCount),
		})
	}
	return hints
}

func actDetailsHints(eli string, isLoaded, justLoaded, hasHTML bool) []Hint {
	var hints []Hint
	if !isLoaded && hasHTML {
		hints = append(hints, Hint{
			Message:    "Załaduj treść aktu, aby czytać sekcje i przeszukiwać tekst.",
			Tool:       "get_act_details",
			Parameters: map[string]any{"eli": eli, "load_content": true},
		})
	}
	if isLoaded {
		hints = append(hints,
			Hint{
				Message:    "Treść załadowana. Odczytaj spis treści lub konkretną sekcję.",
				Tool:       "read_act_content",
				Parameters: map[string]any{"eli": eli},
			},
			Hint{
				Message:    "Przeszukaj pełny tekst aktu.",
				Tool:       "search_in_act",
				Parameters: map[string]any{"eli": eli},
			},
		)
	}
	if justLoaded {
		hints = append(hints, Hint{
			Message: "Treść pozostanie w pamięci przez 2 godziny od ostatniego użycia.",
		})
	}
	hints = append(hints, Hint{
		Message:    "Sprawdź powiązania aktu (akty zmieniające, uchylające, podstawy prawne).",
		Tool:       "analyze_act_relationships",
		Parameters: map[string]any{"eli": eli},
	})
	return hints
}

func metadataHints(category string) []Hint {
	return []Hint{
		{
			Message:    "Użyj słów kluczowych i typów z tego słownika jako kryteriów wyszukiwania.",
			Tool:       "search_legal_acts",
			Parameters: map[string]any{"keywords": []string{"..."}},
		},
	}
}

func contentHints(eli string, sectionCount int) []Hint {
	if sectionCount == 0 {
		return nil
	}
	return []Hint{
		{
			Message:    "Przeszukaj tekst aktu po frazie.",
			Tool:       "search_in_act",
			Parameters: map[string]any{"eli": eli},
		},
	}
}

func relationshipHints(eli string, counts map[string]int) []Hint {
	hints := []Hint{
		{
			Message:    "Pobierz szczegóły i treść powiązanych aktów.",
			Tool:       "get_act_details",
			Parameters: map[string]any{"load_content": true},
		},
	}
	if counts["Akty zmieniające"] > 0 || counts["Akty zmienione"] > 0 {
		hints = append(hints, Hint{
			Message:    "Akt ma powiązania nowelizacyjne. Prześledź zmiany w czasie.",
			Tool:       "track_legal_changes",
			Parameters: map[string]any{"keywords": []string{}},
		})
	}
	return hints
}

func dateHints(resultDate string) []Hint {
	return []Hint{
		{
			Message:    fmt.Sprintf("Użyj obliczonej daty %s jako kryterium wyszukiwania.", resultDate),
			Tool:       "search_legal_acts",
			Parameters: map[string]any{"date_from": resultDate},
		},
		{
			Message:    "Sprawdź akty opublikowane wokół tej daty.",
			Tool:       "track_legal_changes",
			Parameters: map[string]any{"date_from": resultDate},
		},
	}
}

func compareHints(eliA, eliB string) []Hint {
	return []Hint{
		{
			Message:    "Załaduj treść obu aktów, aby porównać przepisy szczegółowo.",
			Tool:       "get_act_details",
			Parameters: map[string]any{"eli": eliA, "load_content": true},
		},
		{
			Message:    "Porównaj powiązania obu aktów.",
			Tool:       "analyze_act_relationships",
			Parameters: map[string]any{"eli": eliB},
		},
	}
}
