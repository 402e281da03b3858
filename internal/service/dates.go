package service

import (
	"fmt"
	"strings"
	"time"
)

// Directions for legal date arithmetic, as used in Polish legal language:
// "po" counts forward from the base event, "przed" counts backward.
const (
	DirectionAfter  = "po"
	DirectionBefore = "przed"
)

// LegalDate is the result of a vacatio-legis style calculation.
type LegalDate struct {
	BaseDate    string `json:"base_date"`
	ResultDate  string `json:"result_date"`
	Direction   string `json:"direction"`
	Description string `json:"description"`
}

// CalculateLegalDate offsets a base date by years, months and days in the
// given direction. The base accepts YYYY, YYYY-MM and YYYY-MM-DD; partial
// dates resolve to the first day of the period. Month arithmetic follows
// calendar normalisation, so an offset landing past a month end rolls over.
func CalculateLegalDate(base string, years, months, days int, direction string) (*LegalDate, error) {
	parsed, err := parseFlexibleDate(base)
	if err != nil {
		return nil, err
	}
	if years < 0 || months < 0 || days < 0 {
		return nil, &InvalidArgumentError{Field: "offset", Reason: "negative values not allowed"}
	}

	switch direction {
	case "", DirectionAfter:
		direction = DirectionAfter
	case DirectionBefore:
		years, months, days = -years, -months, -days
	default:
		return nil, &InvalidArgumentError{Field: "direction", Reason: direction}
	}

	result := parsed.AddDate(years, months, days)
	abs := func(n int) int {
		if n < 0 {
			return -n
		}
		return n
	}
	return &LegalDate{
		BaseDate:    parsed.Format("2006-01-02"),
		ResultDate:  result.Format("2006-01-02"),
		Direction:   direction,
		Description: describeOffset(abs(years), abs(months), abs(days), direction, parsed),
	}, nil
}

func parseFlexibleDate(base string) (time.Time, error) {
	base = strings.TrimSpace(base)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, base); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidArgumentError{Field: "base_date", Reason: base}
}

func describeOffset(years, months, days int, direction string, base time.Time) string {
	var parts []string
	if years > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", years, pluralYears(years)))
	}
	if months > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", months, pluralMonths(months)))
	}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", days, pluralDays(days)))
	}
	if len(parts) == 0 {
		parts = append(parts, "0 dni")
	}
	return fmt.Sprintf("%s %s %s", strings.Join(parts, ", "), direction, base.Format("2006-01-02"))
}

// Polish plural forms: 1 rok, 2-4 lata, 5+ lat, with the teens always in
// the genitive (12 lat, not 12 lata).
func pluralYears(n int) string {
	switch {
	case n == 1:
		return "rok"
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return "lata"
	default:
		return "lat"
	}
}

func pluralMonths(n int) string {
	switch {
	case n == 1:
		return "miesiąc"
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return "miesiące"
	default:
		return "miesięcy"
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "dzień"
	}
	return "dni"
}
