package tools

import (
	"fmt"
	"strconv"
	"strings"
)

const eliURLMarker = "api.sejm.gov.pl/eli/"

// InvalidELIError reports an act identifier that cannot be parsed.
type InvalidELIError struct {
	Value  string
	Reason string
}

func (e *InvalidELIError) Error() string {
	return fmt.Sprintf("invalid ELI %q: %s", e.Value, e.Reason)
}

// ParseELI splits an act identifier into publisher, year and position.
// Accepted forms are the bare "{publisher}/{year}/{position}" and full
// registry URLs containing the api.sejm.gov.pl/eli/ marker; other absolute
// URLs are rejected. A trailing slash is tolerated.
func ParseELI(eli string) (string, int, int, error) {
	value := strings.TrimSpace(eli)
	if value == "" {
		return "", 0, 0, &InvalidELIError{Value: eli, Reason: "empty"}
	}

	if idx := strings.Index(value, eliURLMarker); idx >= 0 {
		value = value[idx+len(eliURLMarker):]
	} else if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return "", 0, 0, &InvalidELIError{Value: eli, Reason: "not a registry URL"}
	}
	value = strings.TrimSuffix(value, "/")

	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return "", 0, 0, &InvalidELIError{Value: eli, Reason: "expected publisher/year/position"}
	}
	publisher := strings.TrimSpace(parts[0])
	if publisher == "" {
		return "", 0, 0, &InvalidELIError{Value: eli, Reason: "empty publisher"}
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", 0, 0, &InvalidELIError{Value: eli, Reason: "year is not a number"}
	}
	position, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return "", 0, 0, &InvalidELIError{Value: eli, Reason: "position is not a number"}
	}
	return publisher, year, position, nil
}

// FormatELI renders the canonical identifier.
func FormatELI(publisher string, year, position int) string {
	return fmt.Sprintf("%s/%d/%d", publisher, year, position)
}
