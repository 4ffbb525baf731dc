package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/faculty-digest/internal/types"
)

// UpsertFacultyProfile stores one profile of a run. A profile with the same
// URL in the same run is overwritten.
func (db *DB) UpsertFacultyProfile(ctx context.Context, runID uuid.UUID, position int, p *types.FacultyProfile) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO faculty_profiles
		   (id, run_id, position, url, name, email, bio, bio_state, summary, summary_error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (run_id, url) DO UPDATE SET
		   position = $3, name = $5, email = $6, bio = $7, bio_state = $8,
		   summary = $9, summary_error = $10, created_at = NOW()`,
		uuid.New(), runID, position, p.URL, p.Name, p.Email, p.Bio, string(p.BioState),
		p.Summary, nullIfEmpty(p.SummaryError),
	)
	if err != nil {
		return fmt.Errorf("failed to save faculty profile %s: %w", p.URL, err)
	}
	return nil
}

// ListFacultyProfiles returns a run's profiles in extraction order
func (db *DB) ListFacultyProfiles(ctx context.Context, runID uuid.UUID) ([]FacultyProfileRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, position, url, name, email, bio, bio_state, summary, summary_error, created_at
		 FROM faculty_profiles WHERE run_id = $1 ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list faculty profiles: %w", err)
	}
	defer rows.Close()

	var records []FacultyProfileRecord
	for rows.Next() {
		var r FacultyProfileRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.Position, &r.URL, &r.Name, &r.Email,
			&r.Bio, &r.BioState, &r.Summary, &r.SummaryError, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faculty profile: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list faculty profiles: %w", err)
	}
	return records, nil
}

// ToProfile converts a stored row back into a FacultyProfile
func (r *FacultyProfileRecord) ToProfile() types.FacultyProfile {
	p := types.NewFacultyProfile(r.URL)
	p.Name = r.Name
	p.Email = r.Email
	p.Bio = r.Bio
	p.BioState = types.BioState(r.BioState)
	p.Summary = r.Summary
	if r.SummaryError != nil {
		p.SummaryError = *r.SummaryError
	}
	return p
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
