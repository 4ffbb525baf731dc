// Package directory discovers profile links on the faculty directory page.
package directory

import (
	"fmt"
	"time"
)

// NavigationError means a required page or element never became available.
type NavigationError struct {
	URL      string
	Selector string
	Timeout  time.Duration
	Message  string
	Cause    error
}

func (e *NavigationError) Error() string {
	msg := fmt.Sprintf("navigation error for %s: %s", e.URL, e.Message)
	if e.Selector != "" {
		msg += fmt.Sprintf(" (selector %q", e.Selector)
		if e.Timeout > 0 {
			msg += fmt.Sprintf(", timeout %s", e.Timeout)
		}
		msg += ")"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

// LinkError describes one anchor that could not be turned into a profile URL.
type LinkError struct {
	Index   int
	Href    string
	Message string
	Cause   error
}

func (e *LinkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("anchor %d (%q): %s: %v", e.Index, e.Href, e.Message, e.Cause)
	}
	return fmt.Sprintf("anchor %d (%q): %s", e.Index, e.Href, e.Message)
}

func (e *LinkError) Unwrap() error {
	return e.Cause
}
