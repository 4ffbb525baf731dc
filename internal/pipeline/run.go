// Package pipeline drives a full extraction run: discover links, extract and
// summarize each profile in order, then hand the batch to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jonathan/faculty-digest/internal/directory"
	"github.com/jonathan/faculty-digest/internal/fetch"
	"github.com/jonathan/faculty-digest/internal/profile"
	"github.com/jonathan/faculty-digest/internal/sink"
	"github.com/jonathan/faculty-digest/internal/types"
)

// ErrNoLinks is wrapped by Run when the directory yields no profile links.
var ErrNoLinks = errors.New("no profile links discovered")

// State is the driver's position in a run.
type State string

const (
	StateIdle        State = "idle"
	StateDiscovering State = "discovering"
	StateExtracting  State = "extracting"
	StateDone        State = "done"
)

// SummaryPolicy decides what happens to a profile whose summary fails.
type SummaryPolicy string

const (
	// PolicyAbort stops the run; nothing is written.
	PolicyAbort SummaryPolicy = "abort"
	// PolicySkip drops the profile and continues.
	PolicySkip SummaryPolicy = "skip"
	// PolicyKeep keeps the profile with an empty summary and SummaryError set.
	PolicyKeep SummaryPolicy = "keep"
)

// DefaultSummaryPolicy is used when Options.Policy is empty.
const DefaultSummaryPolicy = PolicySkip

// ParseSummaryPolicy validates a policy name.
func ParseSummaryPolicy(s string) (SummaryPolicy, error) {
	switch p := SummaryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAbort, PolicySkip, PolicyKeep:
		return p, nil
	case "":
		return DefaultSummaryPolicy, nil
	default:
		return "", fmt.Errorf("unknown summary policy %q (want abort, skip or keep)", s)
	}
}

// Summarizer produces a summary for one biography.
type Summarizer interface {
	Summarize(ctx context.Context, bio string) (string, error)
}

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	State   State                 `json:"state"`
	Index   int                   `json:"index,omitempty"`
	Total   int                   `json:"total,omitempty"`
	URL     string                `json:"url,omitempty"`
	Message string                `json:"message"`
	Profile *types.FacultyProfile `json:"profile,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for a Driver
type Options struct {
	Directory *directory.Config
	Profile   *profile.Config
	Policy    SummaryPolicy
	// MaxProfiles limits how many discovered links are processed; 0 means all.
	MaxProfiles int
	// Out receives the per-profile step lines. Defaults to io.Discard.
	Out        io.Writer
	Logger     *log.Logger
	Verbose    bool
	OnProgress ProgressCallback
}

// Result is the outcome of a completed run
type Result struct {
	Links    []string
	Profiles []types.FacultyProfile
	// Skipped lists URLs dropped under PolicySkip.
	Skipped  []string
	Location string
}

// Driver runs the Discovering, Extracting and Done states over one Navigator.
type Driver struct {
	nav        fetch.Navigator
	summarizer Summarizer
	sink       sink.Sink
	opts       Options
	logger     *log.Logger
	state      State
}

// NewDriver creates a Driver. summarizer may be nil, in which case profiles
// are saved without summaries.
func NewDriver(nav fetch.Navigator, summarizer Summarizer, out sink.Sink, opts *Options) *Driver {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Directory == nil {
		o.Directory = directory.DefaultConfig()
	}
	if o.Profile == nil {
		o.Profile = profile.DefaultConfig()
	}
	if o.Policy == "" {
		o.Policy = DefaultSummaryPolicy
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		nav:        nav,
		summarizer: summarizer,
		sink:       out,
		opts:       o,
		logger:     logger,
		state:      StateIdle,
	}
}

// State returns the current state.
func (d *Driver) State() State {
	return d.state
}

// Run executes one full run. The sink is written exactly once, at Done, and
// only if every earlier step succeeded. A directory with no profile links
// moves straight to Done without touching the sink and returns ErrNoLinks.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	d.enter(StateDiscovering, ProgressEvent{Message: "Discovering profile links"})

	links, err := directory.Discover(ctx, d.nav, d.opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("link discovery failed: %w", err)
	}
	if len(links) == 0 {
		d.enter(StateDone, ProgressEvent{Message: "No profile links found"})
		return nil, &directory.NavigationError{
			URL:     d.opts.Directory.DirectoryURL,
			Message: "no links found, check network access or page structure",
			Cause:   ErrNoLinks,
		}
	}
	if d.opts.MaxProfiles > 0 && len(links) > d.opts.MaxProfiles {
		links = links[:d.opts.MaxProfiles]
	}

	result := &Result{Links: links}
	total := len(links)

	d.enter(StateExtracting, ProgressEvent{Total: total, Message: fmt.Sprintf("Found %d profile links", total)})

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fmt.Fprintf(d.opts.Out, "Processing %d/%d: %s\n", i+1, total, link)
		p := profile.Extract(ctx, d.nav, link, d.opts.Profile)

		keep, err := d.summarize(ctx, &p)
		if err != nil {
			return nil, err
		}
		if !keep {
			result.Skipped = append(result.Skipped, link)
			continue
		}

		result.Profiles = append(result.Profiles, p)
		d.emit(ProgressEvent{
			State:   StateExtracting,
			Index:   i + 1,
			Total:   total,
			URL:     link,
			Message: "Extracted profile",
			Profile: &result.Profiles[len(result.Profiles)-1],
		})
	}

	if err := d.sink.Save(ctx, result.Profiles); err != nil {
		return nil, err
	}
	result.Location = d.sink.Location()

	d.enter(StateDone, ProgressEvent{
		Total:   len(result.Profiles),
		Message: fmt.Sprintf("Saved %d records to %s", len(result.Profiles), result.Location),
	})
	return result, nil
}

// summarize fills p.Summary and reports whether p should be kept.
func (d *Driver) summarize(ctx context.Context, p *types.FacultyProfile) (bool, error) {
	if d.summarizer == nil {
		return true, nil
	}

	summary, err := d.summarizer.Summarize(ctx, p.Bio)
	if err == nil {
		p.Summary = summary
		return true, nil
	}

	switch d.opts.Policy {
	case PolicyAbort:
		return false, fmt.Errorf("summarizing %s: %w", p.URL, err)
	case PolicyKeep:
		d.logger.Printf("[PIPELINE] Warning: keeping %s without summary: %v", p.URL, err)
		p.SummaryError = err.Error()
		return true, nil
	default:
		d.logger.Printf("[PIPELINE] Warning: skipping %s: %v", p.URL, err)
		return false, nil
	}
}

func (d *Driver) enter(state State, event ProgressEvent) {
	d.state = state
	event.State = state
	if d.opts.Verbose {
		d.logger.Printf("[PIPELINE] %s: %s", state, event.Message)
	}
	d.emit(event)
}

// emit calls the progress callback if configured
func (d *Driver) emit(event ProgressEvent) {
	if d.opts.OnProgress != nil {
		d.opts.OnProgress(event)
	}
}
