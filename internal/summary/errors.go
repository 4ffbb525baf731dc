package summary

import "fmt"

// SummarizationError wraps a failed call to the text-generation service.
type SummarizationError struct {
	Message string
	Cause   error
}

func (e *SummarizationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("summarization failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("summarization failed: %s", e.Message)
}

func (e *SummarizationError) Unwrap() error {
	return e.Cause
}
