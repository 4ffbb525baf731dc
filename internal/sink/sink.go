// Package sink persists the finished batch of faculty profiles.
package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/faculty-digest/internal/types"
)

// Sink receives the ordered records of one run, exactly once.
type Sink interface {
	Save(ctx context.Context, profiles []types.FacultyProfile) error
	// Location describes where Save wrote, for the final report line.
	Location() string
}

// WriteError reports a failed write to a sink destination.
type WriteError struct {
	Location string
	Message  string
	Cause    error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("write to %s failed: %s: %v", e.Location, e.Message, e.Cause)
	}
	return fmt.Sprintf("write to %s failed: %s", e.Location, e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Multi fans one Save out to several sinks in order and stops at the first error.
type Multi []Sink

// Save calls Save on every sink.
func (m Multi) Save(ctx context.Context, profiles []types.FacultyProfile) error {
	for _, s := range m {
		if err := s.Save(ctx, profiles); err != nil {
			return err
		}
	}
	return nil
}

// Location joins the locations of every sink.
func (m Multi) Location() string {
	locations := make([]string, 0, len(m))
	for _, s := range m {
		locations = append(locations, s.Location())
	}
	return strings.Join(locations, ", ")
}
