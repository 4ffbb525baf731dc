// Package profile extracts a FacultyProfile from one profile page.
package profile

import "fmt"

// FieldExtractionError describes why one field could not be read.
// Extract logs these and stores a fallback value; it never returns them.
type FieldExtractionError struct {
	URL     string
	Field   string
	Message string
	Cause   error
}

func (e *FieldExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.URL, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.URL, e.Field, e.Message)
}

func (e *FieldExtractionError) Unwrap() error {
	return e.Cause
}
