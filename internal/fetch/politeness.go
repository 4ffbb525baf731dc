package fetch

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// Throttle enforces a minimum interval between page loads.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle returns a Throttle allowing one load per interval.
// A non-positive interval disables pacing.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next load is allowed.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// RobotsGuard answers robots.txt queries, fetching each host's file once.
type RobotsGuard struct {
	userAgent string
	client    *http.Client

	mu    sync.Mutex
	cache map[string]*robotstxt.Group
}

// NewRobotsGuard creates a guard for userAgent. client may be nil.
func NewRobotsGuard(userAgent string, client *http.Client) *RobotsGuard {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &RobotsGuard{
		userAgent: userAgent,
		client:    client,
		cache:     make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether target may be fetched. An unreachable or
// unparseable robots.txt allows everything.
func (g *RobotsGuard) Allowed(ctx context.Context, target string) bool {
	if g == nil {
		return true
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}

	g.mu.Lock()
	group, cached := g.cache[u.Host]
	g.mu.Unlock()

	if !cached {
		group = g.load(ctx, u)
		g.mu.Lock()
		g.cache[u.Host] = group
		g.mu.Unlock()
	}

	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (g *RobotsGuard) load(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(g.userAgent)
}

// gate applies robots and pacing before a load.
type gate struct {
	robots   *RobotsGuard
	throttle *Throttle
}

func (g gate) enter(ctx context.Context, target string) error {
	if !g.robots.Allowed(ctx, target) {
		return &Error{URL: target, Message: "disallowed by robots.txt"}
	}
	if err := g.throttle.Wait(ctx); err != nil {
		return &Error{URL: target, Message: "rate limiter wait aborted", Cause: err}
	}
	return nil
}
