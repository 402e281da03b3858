package store

import "fmt"

// DocumentNotLoadedError reports access to an act whose text is not in the
// document store, either never loaded or already evicted.
type DocumentNotLoadedError struct {
	ELI string
}

func (e *DocumentNotLoadedError) Error() string {
	return fmt.Sprintf("Dokument %s nie jest załadowany. Użyj get_act_details(eli='%s', load_content=true)", e.ELI, e.ELI)
}

// ResultSetNotFoundError reports access to an unknown or expired result set.
type ResultSetNotFoundError struct {
	ID string
}

func (e *ResultSetNotFoundError) Error() string {
	return fmt.Sprintf("result set not found: %s", e.ID)
}

// SectionNotFoundError reports a section reference that matched nothing in
// a loaded document.
type SectionNotFoundError struct {
	ELI string
	Ref string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found in %s", e.Ref, e.ELI)
}

// InvalidFilterError reports a filter argument the pipeline cannot apply,
// such as a malformed regular expression.
type InvalidFilterError struct {
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter: %s", e.Reason)
}
