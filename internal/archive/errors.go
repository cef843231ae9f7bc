package archive

import "fmt"

// FetchError reports a failed HTTP call: a non-200 status (Status set) or a
// network-level failure (Err set). The current cycle gives up; the next
// scheduled tick retries.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that an expected HTML structure is absent, i.e. the
// source page changed shape or is malformed.
type ParseError struct {
	URL     string
	Missing string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: missing %s", e.URL, e.Missing)
}
