package db

import (
	"testing"

	"github.com/jonathan/faculty-digest/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusConstants(t *testing.T) {
	assert.Equal(t, "running", RunStatusRunning)
	assert.Equal(t, "completed", RunStatusCompleted)
	assert.Equal(t, "failed", RunStatusFailed)
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS scrape_runs")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS faculty_profiles")
	assert.Contains(t, schemaSQL, "UNIQUE (run_id, url)")
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	got := nullIfEmpty("quota exceeded")
	require.NotNil(t, got)
	assert.Equal(t, "quota exceeded", *got)
}

func TestFacultyProfileRecord_ToProfile(t *testing.T) {
	msg := "quota exceeded"
	record := FacultyProfileRecord{
		URL:          "https://bit.vt.edu/people/jdoe.html",
		Name:         "Jane Doe",
		Email:        "jdoe@vt.edu",
		Bio:          types.BioFailedSentinel,
		BioState:     string(types.BioFailed),
		SummaryError: &msg,
	}

	p := record.ToProfile()

	assert.Equal(t, record.URL, p.URL)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, types.BioFailed, p.BioState)
	assert.Equal(t, msg, p.SummaryError)
	assert.Empty(t, p.Summary)
}
