// Package fetch - browser.go provides a headless browser Navigator for client-rendered pages.
package fetch

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultNavigateTimeout bounds a single page navigation.
const DefaultNavigateTimeout = 60 * time.Second

// BrowserOptions configures a BrowserSession.
type BrowserOptions struct {
	Headless        bool
	UserAgent       string
	ExecPath        string // Chrome binary; chromedp's lookup is used when empty
	NavigateTimeout time.Duration
	Robots          *RobotsGuard
	Throttle        *Throttle
	Logger          *log.Logger
	Verbose         bool
}

// DefaultBrowserOptions returns headless defaults.
func DefaultBrowserOptions() *BrowserOptions {
	return &BrowserOptions{
		Headless:        true,
		UserAgent:       DefaultOptions().UserAgent,
		NavigateTimeout: DefaultNavigateTimeout,
	}
}

// BrowserSession is a Navigator driving one Chrome tab for its whole lifetime.
// Queries run against a snapshot of the rendered DOM taken at query time.
type BrowserSession struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        *BrowserOptions
	gate        gate
	logger      *log.Logger
	closed      bool
}

// NewBrowserSession starts Chrome and opens a tab. Requires Chrome/Chromium to be installed.
// The returned session must be closed.
func NewBrowserSession(ctx context.Context, opts *BrowserOptions) (*BrowserSession, error) {
	if opts == nil {
		opts = DefaultBrowserOptions()
	}
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = DefaultNavigateTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	if opts.Verbose {
		logger.Printf("[BROWSER] Starting browser (headless=%v)", opts.Headless)
	}

	// An empty Run launches the browser and the tab.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, &Error{URL: "about:blank", Message: "failed to start browser", Cause: err}
	}

	return &BrowserSession{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
		gate:        gate{robots: opts.Robots, throttle: opts.Throttle},
		logger:      logger,
	}, nil
}

// bind derives a context that runs on the tab but is also cancelled with ctx.
func (s *BrowserSession) bind(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		cancelParent := cancel
		cancel = func() {
			cancelTimeout()
			cancelParent()
		}
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

// Load navigates the tab to url and waits for the load event.
func (s *BrowserSession) Load(ctx context.Context, url string) error {
	if s.closed {
		return &Error{URL: url, Message: "browser session is closed"}
	}
	if err := validateURL(url); err != nil {
		return err
	}
	if err := s.gate.enter(ctx, url); err != nil {
		return err
	}

	runCtx, done := s.bind(ctx, s.opts.NavigateTimeout)
	defer done()

	if s.opts.Verbose {
		s.logger.Printf("[BROWSER] Navigating to %s", url)
	}
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return &Error{URL: url, Message: "navigation failed", Cause: err}
	}
	return nil
}

// WaitFor polls the live DOM until selector is present or timeout elapses.
func (s *BrowserSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) (WaitResult, error) {
	if s.closed {
		return TimedOut(), errors.New("browser session is closed")
	}

	waitCtx, done := s.bind(ctx, timeout)
	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	timedOut := errors.Is(waitCtx.Err(), context.DeadlineExceeded)
	done()

	if err != nil {
		if ctx.Err() != nil {
			return TimedOut(), ctx.Err()
		}
		if timedOut {
			return TimedOut(), nil
		}
		return TimedOut(), &Error{URL: s.location(), Message: "wait for " + selector + " failed", Cause: err}
	}

	root, err := s.snapshot(ctx)
	if err != nil {
		return TimedOut(), err
	}
	el, ok := root.First(selector)
	if !ok {
		// removed again between the wait and the snapshot
		return TimedOut(), nil
	}
	return Found(el), nil
}

// FindAll returns every element matching selector in the current DOM.
func (s *BrowserSession) FindAll(ctx context.Context, selector string) ([]Element, error) {
	if s.closed {
		return nil, errors.New("browser session is closed")
	}
	root, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return root.FindAll(selector), nil
}

// snapshot serializes the rendered DOM and parses it for querying.
func (s *BrowserSession) snapshot(ctx context.Context) (Element, error) {
	runCtx, done := s.bind(ctx, s.opts.NavigateTimeout)
	defer done()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return Element{}, &Error{URL: s.location(), Message: "failed to read rendered HTML", Cause: err}
	}
	if s.opts.Verbose {
		s.logger.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	return ParseDocument(html)
}

// location returns the tab's URL for error messages.
func (s *BrowserSession) location() string {
	runCtx, done := s.bind(context.Background(), 5*time.Second)
	defer done()

	var loc string
	if err := chromedp.Run(runCtx, chromedp.Location(&loc)); err != nil {
		return ""
	}
	return loc
}

// Close shuts the browser down. It is safe to call more than once.
func (s *BrowserSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := chromedp.Cancel(s.tabCtx)
	s.cancelTab()
	s.cancelAlloc()

	if err != nil && !errors.Is(err, context.Canceled) {
		return &Error{Message: "failed to close browser", Cause: err}
	}
	if s.opts.Verbose {
		s.logger.Printf("[BROWSER] Browser closed")
	}
	return nil
}
