package tools

import (
	"errors"
	"fmt"

	"sejmlex/internal/sejm"
	"sejmlex/internal/service"
	"sejmlex/internal/store"
)

// Error categories carried in metadata.error_category.
const (
	CategoryValidation   = "validation"
	CategoryNotFound     = "not_found"
	CategoryPrecondition = "precondition"
	CategoryUnavailable  = "unavailable"
	CategoryInternal     = "internal"
)

// Classify maps an error onto its category.
func Classify(err error) string {
	var (
		invalidELI    *InvalidELIError
		invalidFilter *store.InvalidFilterError
		invalidArg    *service.InvalidArgumentError
		actNotFound   *sejm.ActNotFoundError
		noContent     *service.ContentNotAvailableError
		noSection     *store.SectionNotFoundError
		notLoaded     *store.DocumentNotLoadedError
		noResultSet   *store.ResultSetNotFoundError
		unavailable   *sejm.APIUnavailableError
	)
	switch {
	case errors.As(err, &invalidELI), errors.As(err, &invalidFilter), errors.As(err, &invalidArg):
		return CategoryValidation
	case errors.As(err, &actNotFound), errors.As(err, &noContent), errors.As(err, &noSection):
		return CategoryNotFound
	case errors.As(err, &notLoaded), errors.As(err, &noResultSet):
		return CategoryPrecondition
	case errors.As(err, &unavailable):
		return CategoryUnavailable
	default:
		return CategoryInternal
	}
}

// userMessage phrases an error for the caller in Polish, keeping the
// underlying detail for diagnosis.
func userMessage(category string, err error) string {
	switch category {
	case CategoryValidation:
		return fmt.Sprintf("Nieprawidłowe dane wejściowe: %v", err)
	case CategoryNotFound:
		return fmt.Sprintf("Nie znaleziono: %v", err)
	case CategoryPrecondition:
		return fmt.Sprintf("Wymagany wcześniejszy krok: %v", err)
	case CategoryUnavailable:
		return fmt.Sprintf("API Sejmu jest chwilowo niedostępne: %v", err)
	default:
		return fmt.Sprintf("Błąd wewnętrzny: %v", err)
	}
}
