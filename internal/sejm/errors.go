package sejm

import "fmt"

// ActNotFoundError reports a 404 from the registry for a specific act.
type ActNotFoundError struct {
	ELI string
}

func (e *ActNotFoundError) Error() string {
	return fmt.Sprintf("act not found: %s", e.ELI)
}

// APIUnavailableError reports that the registry could not be reached: the
// circuit breaker is open, the request timed out, the connection failed, or
// the upstream answered 502/503.
type APIUnavailableError struct {
	Reason string
	Err    error
}

func (e *APIUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("registry unavailable: %s", e.Reason)
}

func (e *APIUnavailableError) Unwrap() error { return e.Err }

// APIError reports a non-2xx registry response that is neither a 404 nor a
// gateway failure.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry error %d on %s: %s", e.StatusCode, e.Path, e.Message)
}
