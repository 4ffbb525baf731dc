package fetch

import (
	"context"
	"fmt"
	"log"
	"time"
)

// StaticSession is a Navigator backed by plain HTTP requests. It does not run
// JavaScript, so it only suits server-rendered pages.
//
// A fetched document never changes, so WaitFor checks presence once and
// reports TimedOut immediately instead of sleeping out the bound.
type StaticSession struct {
	options *Options
	gate    gate
	logger  *log.Logger
	verbose bool

	root Element
}

// StaticOptions configures a StaticSession.
type StaticOptions struct {
	Fetch    *Options
	Robots   *RobotsGuard
	Throttle *Throttle
	Logger   *log.Logger
	Verbose  bool
}

// NewStaticSession creates an HTTP-backed Navigator.
func NewStaticSession(opts *StaticOptions) *StaticSession {
	if opts == nil {
		opts = &StaticOptions{}
	}
	fetchOpts := opts.Fetch
	if fetchOpts == nil {
		fetchOpts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &StaticSession{
		options: fetchOpts,
		gate:    gate{robots: opts.Robots, throttle: opts.Throttle},
		logger:  logger,
		verbose: opts.Verbose,
	}
}

// Load fetches url and parses it as the current page.
func (s *StaticSession) Load(ctx context.Context, url string) error {
	s.root = Element{}

	if err := s.gate.enter(ctx, url); err != nil {
		return err
	}

	result, err := URL(ctx, url, s.options)
	if err != nil {
		return err
	}

	root, err := ParseDocument(result.HTML)
	if err != nil {
		return &Error{URL: url, Message: "failed to parse page", Cause: err}
	}

	if s.verbose {
		s.logger.Printf("[FETCH] Loaded %s: %d bytes", url, len(result.HTML))
	}
	s.root = root
	return nil
}

// WaitFor reports whether selector is present on the current page.
func (s *StaticSession) WaitFor(ctx context.Context, selector string, _ time.Duration) (WaitResult, error) {
	if err := ctx.Err(); err != nil {
		return TimedOut(), err
	}
	if !s.root.Valid() {
		return TimedOut(), fmt.Errorf("wait for %q: no page loaded", selector)
	}
	el, ok := s.root.First(selector)
	if !ok {
		return TimedOut(), nil
	}
	return Found(el), nil
}

// FindAll returns all elements matching selector on the current page.
func (s *StaticSession) FindAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.root.Valid() {
		return nil, fmt.Errorf("find %q: no page loaded", selector)
	}
	return s.root.FindAll(selector), nil
}

// Close is a no-op; HTTP connections are pooled by net/http.
func (s *StaticSession) Close() error {
	s.root = Element{}
	return nil
}
