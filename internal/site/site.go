// Package site holds the structure of the faculty directory this tool is built for.
// Every value here can be overridden through configuration.
package site

import "time"

const (
	// DirectoryURL is the listing page enumerating all profile links
	DirectoryURL = "https://bit.vt.edu/faculty/directory.html"
	// BaseOrigin is prepended to relative profile hrefs
	BaseOrigin = "https://bit.vt.edu"
)

// Directory page selectors
const (
	ListSelector = "div.vt-list-columns.vt-num-col-6"
	LinkSelector = "li a.vt-list-item-title-link"
)

// Profile page selectors
const (
	NameSelector      = "div.vt-bio-info h1.vt-bio-name"
	EmailSelector     = "div.vt-bio-email"
	EmailLinkSelector = "a"
	ContentSelector   = "div.vt-bodycol-content"
	TextBlockSelector = "div.vt-text"
	ParagraphSelector = "p"
)

const (
	// DefaultOutputFile is where the CSV sink writes when no path is configured
	DefaultOutputFile = "vt_faculty_details.csv"
	// DefaultUserAgent is sent by both the browser and the static fetcher
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Bounded waits
const (
	ListTimeout = 15 * time.Second
	NameTimeout = 5 * time.Second
	BioTimeout  = 10 * time.Second

	// SettleDelay is the pause after each profile load before any field is queried.
	// Client-rendered content is not queryable immediately after navigation.
	SettleDelay = 1 * time.Second
)

// SummaryTemperature is the sampling temperature for biography summaries.
const SummaryTemperature float32 = 0.5
