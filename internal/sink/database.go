package sink

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/faculty-digest/internal/db"
	"github.com/jonathan/faculty-digest/internal/types"
)

// ProfileStore is the subset of *db.DB used by DBSink.
type ProfileStore interface {
	CreateRun(ctx context.Context, directoryURL string) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, recordCount int) error
	UpsertFacultyProfile(ctx context.Context, runID uuid.UUID, position int, p *types.FacultyProfile) error
}

var _ ProfileStore = (*db.DB)(nil)

// DBSink mirrors a batch into PostgreSQL as one scrape run.
type DBSink struct {
	store        ProfileStore
	directoryURL string
	runID        uuid.UUID
}

// NewDBSink returns a sink recording runs of directoryURL in store.
func NewDBSink(store ProfileStore, directoryURL string) *DBSink {
	return &DBSink{store: store, directoryURL: directoryURL}
}

// RunID returns the ID of the run created by the last Save, or uuid.Nil.
func (s *DBSink) RunID() uuid.UUID {
	return s.runID
}

// Location names the database run.
func (s *DBSink) Location() string {
	if s.runID == uuid.Nil {
		return "database"
	}
	return fmt.Sprintf("database run %s", s.runID)
}

// Save creates a run, upserts every profile and marks the run completed.
// A failed upsert marks the run failed.
func (s *DBSink) Save(ctx context.Context, profiles []types.FacultyProfile) error {
	runID, err := s.store.CreateRun(ctx, s.directoryURL)
	if err != nil {
		return &WriteError{Location: "database", Message: "failed to create run", Cause: err}
	}
	s.runID = runID

	for i := range profiles {
		if err := s.store.UpsertFacultyProfile(ctx, runID, i, &profiles[i]); err != nil {
			_ = s.store.CompleteRun(ctx, runID, db.RunStatusFailed, i)
			return &WriteError{Location: s.Location(), Message: "failed to save profile", Cause: err}
		}
	}

	if err := s.store.CompleteRun(ctx, runID, db.RunStatusCompleted, len(profiles)); err != nil {
		return &WriteError{Location: s.Location(), Message: "failed to complete run", Cause: err}
	}
	return nil
}
