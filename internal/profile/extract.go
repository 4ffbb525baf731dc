package profile

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jonathan/faculty-digest/internal/fetch"
	"github.com/jonathan/faculty-digest/internal/site"
	"github.com/jonathan/faculty-digest/internal/types"
)

// Config holds the profile page selectors and bounded waits.
type Config struct {
	NameSelector      string
	EmailSelector     string
	EmailLinkSelector string
	ContentSelector   string
	TextBlockSelector string
	ParagraphSelector string

	NameTimeout time.Duration
	BioTimeout  time.Duration
	SettleDelay time.Duration

	Logger  *log.Logger
	Verbose bool
}

// DefaultConfig returns the configuration for bit.vt.edu profile pages.
func DefaultConfig() *Config {
	return &Config{
		NameSelector:      site.NameSelector,
		EmailSelector:     site.EmailSelector,
		EmailLinkSelector: site.EmailLinkSelector,
		ContentSelector:   site.ContentSelector,
		TextBlockSelector: site.TextBlockSelector,
		ParagraphSelector: site.ParagraphSelector,
		NameTimeout:       site.NameTimeout,
		BioTimeout:        site.BioTimeout,
		SettleDelay:       site.SettleDelay,
	}
}

// extractor carries one Extract call's state.
type extractor struct {
	nav    fetch.Navigator
	url    string
	cfg    *Config
	logger *log.Logger
}

// Extract loads url and reads name, email and biography.
//
// Each field is attempted independently and a failure in one never prevents
// the others. Extract never fails: a missing name or email is left empty, and
// a biography that cannot be located becomes types.BioFailedSentinel.
func Extract(ctx context.Context, nav fetch.Navigator, url string, cfg *Config) types.FacultyProfile {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	x := &extractor{nav: nav, url: url, cfg: cfg, logger: cfg.Logger}
	if x.logger == nil {
		x.logger = log.Default()
	}

	profile := types.NewFacultyProfile(url)

	if err := nav.Load(ctx, url); err != nil {
		x.warn(&FieldExtractionError{URL: url, Field: "page", Message: "failed to load", Cause: err})
		profile.MarkBioFailed()
		return profile
	}
	if err := pause(ctx, cfg.SettleDelay); err != nil {
		x.warn(&FieldExtractionError{URL: url, Field: "page", Message: "interrupted while settling", Cause: err})
		profile.MarkBioFailed()
		return profile
	}

	if name, ok := x.name(ctx); ok {
		profile.Name = name
	}
	if email, ok := x.email(ctx); ok {
		profile.Email = email
	}
	if paragraphs, ok := x.bio(ctx); ok {
		profile.SetBioParagraphs(paragraphs)
	} else {
		profile.MarkBioFailed()
	}

	return profile
}

// name waits for the name heading.
func (x *extractor) name(ctx context.Context) (string, bool) {
	result, err := x.nav.WaitFor(ctx, x.cfg.NameSelector, x.cfg.NameTimeout)
	if err != nil {
		x.warn(&FieldExtractionError{URL: x.url, Field: "name", Message: "lookup failed", Cause: err})
		return "", false
	}
	if !result.Found {
		x.warn(&FieldExtractionError{URL: x.url, Field: "name", Message: "heading not found within " + x.cfg.NameTimeout.String()})
		return "", false
	}
	return strings.TrimSpace(result.Element.Text()), true
}

// email looks the contact link up once, without waiting. Many profiles have
// no email, so absence is only reported in verbose mode.
func (x *extractor) email(ctx context.Context) (string, bool) {
	containers, err := x.nav.FindAll(ctx, x.cfg.EmailSelector)
	if err != nil {
		x.warn(&FieldExtractionError{URL: x.url, Field: "email", Message: "lookup failed", Cause: err})
		return "", false
	}
	if len(containers) == 0 {
		x.debugf("[EXTRACT] [%s] no email listed", x.url)
		return "", false
	}
	link, ok := containers[0].First(x.cfg.EmailLinkSelector)
	if !ok {
		x.debugf("[EXTRACT] [%s] email block has no link", x.url)
		return "", false
	}
	return strings.TrimSpace(link.Text()), true
}

// bio waits for the content container and collects non-empty paragraphs of
// every text block in document order. ok is false only when the container
// itself could not be located; an empty paragraph list is a valid result.
func (x *extractor) bio(ctx context.Context) ([]string, bool) {
	result, err := x.nav.WaitFor(ctx, x.cfg.ContentSelector, x.cfg.BioTimeout)
	if err != nil {
		x.warn(&FieldExtractionError{URL: x.url, Field: "bio", Message: "lookup failed", Cause: err})
		return nil, false
	}
	if !result.Found {
		x.warn(&FieldExtractionError{URL: x.url, Field: "bio", Message: "content container not found within " + x.cfg.BioTimeout.String()})
		return nil, false
	}

	blocks := result.Element.FindAll(x.cfg.TextBlockSelector)
	var paragraphs []string
	for _, block := range blocks {
		for _, p := range block.FindAll(x.cfg.ParagraphSelector) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
	}

	x.debugf("[EXTRACT] [%s] found %d text blocks, %d paragraphs", x.url, len(blocks), len(paragraphs))
	return paragraphs, true
}

func (x *extractor) warn(err error) {
	x.logger.Printf("[EXTRACT] Warning: %v", err)
}

func (x *extractor) debugf(format string, args ...any) {
	if x.cfg.Verbose {
		x.logger.Printf(format, args...)
	}
}

// pause sleeps for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
