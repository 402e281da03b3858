package tools

import (
	"context"
	"time"

	"sejmlex/internal/service"
)

func registerUtilityTools(registry *Registry, deps Deps) {
	registry.Register(&Tool{
		Name:        "calculate_legal_date",
		Description: "Oblicza terminy prawne: przesuwa datę bazową o lata, miesiące i dni (vacatio legis, terminy procesowe). Kierunek 'po' lub 'przed'.",
		InputSchema: schema(map[string]any{
			"base_date": prop("string", "Data bazowa: YYYY, YYYY-MM lub YYYY-MM-DD (domyślnie dziś)"),
			"years":     prop("integer", "Lata przesunięcia"),
			"months":    prop("integer", "Miesiące przesunięcia"),
			"days":      prop("integer", "Dni przesunięcia"),
			"direction": prop("string", "po (domyślnie) lub przed"),
		}),
		zeroData: func() any { return map[string]any{"base_date": "", "result_date": ""} },
		Handler: func(ctx context.Context, args map[string]any) (*Result, error) {
			base := argString(args, "base_date", "")
			if base == "" {
				base = time.Now().Format("2006-01-02")
			}
			legalDate, err := service.CalculateLegalDate(base,
				argInt(args, "years", 0),
				argInt(args, "months", 0),
				argInt(args, "days", 0),
				argString(args, "direction", ""),
			)
			if err != nil {
				return nil, err
			}
			return &Result{
				Data:  legalDate,
				Hints: dateHints(legalDate.ResultDate),
			}, nil
		},
	})
}
