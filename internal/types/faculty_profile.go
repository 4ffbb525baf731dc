// Package types provides type definitions for structured data used throughout the faculty-digest system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Bio sentinels. Both are non-empty so that a CSV consumer can tell
// "page has no biography" apart from "page structure was not recognized".
const (
	BioNoContentSentinel = "No biography available"
	BioFailedSentinel    = "Biography extraction failed"
)

// ParagraphSeparator joins biography paragraphs.
const ParagraphSeparator = "\n\n"

// BioState records how the Bio field was obtained.
type BioState string

const (
	// BioPending means extraction has not run yet
	BioPending BioState = ""
	// BioExtracted means at least one paragraph was found
	BioExtracted BioState = "extracted"
	// BioEmpty means the content container existed but held no paragraphs
	BioEmpty BioState = "empty"
	// BioFailed means the content container never appeared
	BioFailed BioState = "failed"
)

// FacultyProfile is one extracted personnel record.
// URL is its identity and is never changed after NewFacultyProfile.
type FacultyProfile struct {
	URL          string   `json:"url"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Bio          string   `json:"bio"`
	BioState     BioState `json:"bio_state"`
	Summary      string   `json:"summary,omitempty"`
	SummaryError string   `json:"summary_error,omitempty"`
}

// NewFacultyProfile creates an empty profile for url.
func NewFacultyProfile(url string) FacultyProfile {
	return FacultyProfile{URL: url}
}

// SetBioParagraphs stores paragraphs joined by a blank line, or the
// no-content sentinel when paragraphs is empty.
func (p *FacultyProfile) SetBioParagraphs(paragraphs []string) {
	if len(paragraphs) == 0 {
		p.Bio = BioNoContentSentinel
		p.BioState = BioEmpty
		return
	}
	p.Bio = strings.Join(paragraphs, ParagraphSeparator)
	p.BioState = BioExtracted
}

// MarkBioFailed stores the failed sentinel.
func (p *FacultyProfile) MarkBioFailed() {
	p.Bio = BioFailedSentinel
	p.BioState = BioFailed
}

// HasBio reports whether Bio holds real biography text rather than a sentinel.
func (p *FacultyProfile) HasBio() bool {
	return p.BioState == BioExtracted
}

// Paragraphs splits an extracted Bio back into its paragraphs.
func (p *FacultyProfile) Paragraphs() []string {
	if !p.HasBio() {
		return nil
	}
	return strings.Split(p.Bio, ParagraphSeparator)
}

// CSVHeader is the fixed column order of the output file.
var CSVHeader = []string{"name", "url", "email", "bio", "summary"}

// CSVRecord returns the profile's fields in CSVHeader order.
func (p *FacultyProfile) CSVRecord() []string {
	return []string{p.Name, p.URL, p.Email, p.Bio, p.Summary}
}
