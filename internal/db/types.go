package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents a scrape run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	DirectoryURL string     `json:"directory_url"`
	Status       string     `json:"status"`
	RecordCount  int        `json:"record_count"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// FacultyProfileRecord is a stored faculty profile row
type FacultyProfileRecord struct {
	ID           uuid.UUID `json:"id"`
	RunID        uuid.UUID `json:"run_id"`
	Position     int       `json:"position"`
	URL          string    `json:"url"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	BioState     string    `json:"bio_state"`
	Summary      string    `json:"summary"`
	SummaryError *string   `json:"summary_error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
