package tools

import (
	"context"

	"sejmlex/internal/service"
)

func registerActTools(registry *Registry, deps Deps) {
	registry.Register(&Tool{
		Name:        "get_act_details",
		Description: "Szczegóły jednego aktu: metadane, struktura, dostępne formaty tekstu. Z load_content=true ładuje treść do pamięci.",
		InputSchema: schema(map[string]any{
			"eli":          prop("string", "Identyfikator aktu, np. DU/2023/100"),
			"load_content": prop("boolean", "Załaduj treść aktu do pamięci"),
		}, "eli"),
		zeroData: func() any { return map[string]any{"eli": "", "act": map[string]any{}, "is_loaded": false} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			publisher, year, position, err := ParseELI(argString(args, "eli", ""))
			if err != nil {
				return nil, err
			}
			loadContent := argBool(args, "load_content", false)

			details, err := deps.Acts.Details(ctx, publisher, year, position, loadContent)
			if err != nil {
				return nil, err
			}

			justLoaded := loadContent && details.IsLoaded && details.ContentSource != ""
			data := map[string]any{
				"eli":       details.ELI,
				"act":       details.Act,
				"toc":       details.TOC,
				"has_html":  details.HasHTML,
				"has_pdf":   details.HasPDF,
				"is_loaded": details.IsLoaded,
			}
			if details.ContentSource != "" {
				data["content_source"] = details.ContentSource
			}
			return &Result{
				Data:  data,
				Hints: actDetailsHints(details.ELI, details.IsLoaded, justLoaded, details.HasHTML),
			}, nil
		},
	})

	registry.Register(&Tool{
		Name:        "read_act_content",
		Description: "Czyta załadowany akt: bez parametru section zwraca spis treści, z parametrem - tekst wskazanej sekcji (np. 'Art. 5').",
		InputSchema: schema(map[string]any{
			"eli":     prop("string", "Identyfikator aktu"),
			"section": prop("string", "Identyfikator lub tytuł sekcji"),
		}, "eli"),
		zeroData: func() any { return map[string]any{"eli": "", "sections": []any{}} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			publisher, year, position, err := ParseELI(argString(args, "eli", ""))
			if err != nil {
				return nil, err
			}
			eli := FormatELI(publisher, year, position)

			section := argString(args, "section", "")
			if section == "" {
				toc, err := deps.Docs.TOC(eli)
				if err != nil {
					return nil, err
				}
				return &Result{
					Data: map[string]any{
						"eli":      eli,
						"sections": toc,
						"count":    len(toc),
					},
					Hints: contentHints(eli, len(toc)),
				}, nil
			}

			sec, text, err := deps.Docs.GetSection(eli, section)
			if err != nil {
				return nil, err
			}
			return &Result{
				Data: map[string]any{
					"eli":     eli,
					"section": sec,
					"content": text,
				},
				Hints: contentHints(eli, 1),
			}, nil
		},
	})

	registry.Register(&Tool{
		Name:        "search_in_act",
		Description: "Wyszukuje frazę w treści załadowanego aktu i zwraca trafienia z kontekstem oraz sekcją.",
		InputSchema: schema(map[string]any{
			"eli":           prop("string", "Identyfikator aktu"),
			"query":         prop("string", "Szukana fraza (dosłowna)"),
			"context_chars": prop("integer", "Liczba znaków kontekstu wokół trafienia (domyślnie 500)"),
		}, "eli", "query"),
		zeroData: func() any { return map[string]any{"eli": "", "matches": []any{}, "count": 0} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			publisher, year, position, err := ParseELI(argString(args, "eli", ""))
			if err != nil {
				return nil, err
			}
			eli := FormatELI(publisher, year, position)

			query := argString(args, "query", "")
			if query == "" {
				return nil, &service.InvalidArgumentError{Field: "query", Reason: "required"}
			}

			matches, err := deps.Docs.Search(eli, query, argInt(args, "context_chars", 500))
			if err != nil {
				return nil, err
			}
			return &Result{
				Data: map[string]any{
					"eli":     eli,
					"query":   query,
					"matches": matches,
					"count":   len(matches),
				},
			}, nil
		},
	})

	registry.Register(&Tool{
		Name:        "analyze_act_relationships",
		Description: "Graf powiązań aktu: akty zmieniające i zmienione, uchylające, podstawy prawne. Kategorie po polsku, jak w rejestrze.",
		InputSchema: schema(map[string]any{
			"eli":               prop("string", "Identyfikator aktu"),
			"relationship_type": prop("string", "Nazwa kategorii powiązań do wyodrębnienia (dosłownie)"),
		}, "eli"),
		zeroData: func() any { return map[string]any{"eli": "", "references": map[string]any{}, "counts": map[string]any{}} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			publisher, year, position, err := ParseELI(argString(args, "eli", ""))
			if err != nil {
				return nil, err
			}
			eli := FormatELI(publisher, year, position)

			references, counts, err := deps.Acts.Relationships(ctx, publisher, year, position)
			if err != nil {
				return nil, err
			}

			if want := argString(args, "relationship_type", ""); want != "" {
				filtered := map[string]any{}
				filteredCounts := map[string]int{}
				if entries, ok := references[want]; ok {
					filtered[want] = entries
					filteredCounts[want] = counts[want]
				}
				references = filtered
				counts = filteredCounts
			}
			return &Result{
				Data: map[string]any{
					"eli":        eli,
					"references": references,
					"counts":     counts,
				},
				Hints: relationshipHints(eli, counts),
			}, nil
		},
	})

	registry.Register(&Tool{
		Name:        "compare_acts",
		Description: "Porównuje metadane dwóch aktów: tytuły, typy, statusy, daty oraz część wspólną i różnice słów kluczowych.",
		InputSchema: schema(map[string]any{
			"eli_a": prop("string", "Pierwszy akt"),
			"eli_b": prop("string", "Drugi akt"),
		}, "eli_a", "eli_b"),
		zeroData: func() any { return map[string]any{"comparison": map[string]any{}} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			pubA, yearA, posA, err := ParseELI(argString(args, "eli_a", ""))
			if err != nil {
				return nil, err
			}
			pubB, yearB, posB, err := ParseELI(argString(args, "eli_b", ""))
			if err != nil {
				return nil, err
			}

			detailsA, err := deps.Acts.Details(ctx, pubA, yearA, posA, false)
			if err != nil {
				return nil, err
			}
			detailsB, err := deps.Acts.Details(ctx, pubB, yearB, posB, false)
			if err != nil {
				return nil, err
			}

			return &Result{
				Data: map[string]any{
					"eli_a":      detailsA.ELI,
					"eli_b":      detailsB.ELI,
					"comparison": service.CompareActs(detailsA.Act, detailsB.Act),
				},
				Hints: compareHints(detailsA.ELI, detailsB.ELI),
			}, nil
		},
	})
}
