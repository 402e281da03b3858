package service

import "fmt"

// ContentNotAvailableError reports an act that publishes neither an HTML nor
// a PDF text.
type ContentNotAvailableError struct {
	ELI string
}

func (e *ContentNotAvailableError) Error() string {
	return fmt.Sprintf("no text available for %s", e.ELI)
}

// InvalidArgumentError reports a request argument outside the accepted
// domain, such as an unknown metadata category or a malformed date.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
