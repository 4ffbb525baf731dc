package directory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/faculty-digest/internal/fetch"
	"github.com/jonathan/faculty-digest/internal/site"
)

var errEmptyHref = errors.New("empty href")

// Config describes where the directory lives and how its links are laid out.
type Config struct {
	DirectoryURL string
	BaseOrigin   string
	ListSelector string
	LinkSelector string
	ListTimeout  time.Duration
	Logger       *log.Logger
	Verbose      bool
}

// DefaultConfig returns the configuration for the bit.vt.edu directory.
func DefaultConfig() *Config {
	return &Config{
		DirectoryURL: site.DirectoryURL,
		BaseOrigin:   site.BaseOrigin,
		ListSelector: site.ListSelector,
		LinkSelector: site.LinkSelector,
		ListTimeout:  site.ListTimeout,
	}
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// Discover loads the directory page and returns the absolute profile URLs in
// document order, without duplicates.
//
// If the list container does not appear within ListTimeout, Discover returns a
// *NavigationError and no links. Anchors whose href cannot be read are skipped
// with a warning; they never fail the batch.
func Discover(ctx context.Context, nav fetch.Navigator, cfg *Config) ([]string, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.logger()

	if err := nav.Load(ctx, cfg.DirectoryURL); err != nil {
		return nil, &NavigationError{
			URL:     cfg.DirectoryURL,
			Message: "failed to load directory page",
			Cause:   err,
		}
	}

	result, err := nav.WaitFor(ctx, cfg.ListSelector, cfg.ListTimeout)
	if err != nil {
		return nil, &NavigationError{
			URL:      cfg.DirectoryURL,
			Selector: cfg.ListSelector,
			Timeout:  cfg.ListTimeout,
			Message:  "waiting for link list failed",
			Cause:    err,
		}
	}
	if !result.Found {
		return nil, &NavigationError{
			URL:      cfg.DirectoryURL,
			Selector: cfg.ListSelector,
			Timeout:  cfg.ListTimeout,
			Message:  "link list did not appear",
		}
	}

	anchors := result.Element.FindAll(cfg.LinkSelector)
	links := make([]string, 0, len(anchors))
	seen := make(map[string]bool, len(anchors))

	for i, anchor := range anchors {
		link, err := readLink(i, anchor, cfg.BaseOrigin)
		if err != nil {
			logger.Printf("[DISCOVER] Warning: skipping %v", err)
			continue
		}
		if seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)

		if cfg.Verbose {
			logger.Printf("[DISCOVER] Found link: %s", link)
		}
	}

	return links, nil
}

func readLink(index int, anchor fetch.Element, baseOrigin string) (string, error) {
	href, ok := anchor.Attr("href")
	if !ok {
		return "", &LinkError{Index: index, Message: "missing href attribute"}
	}
	link, err := NormalizeLink(baseOrigin, href)
	if err != nil {
		return "", &LinkError{Index: index, Href: href, Message: "unreadable href", Cause: err}
	}
	return link, nil
}

// NormalizeLink makes href absolute. Hrefs that already carry a scheme are
// returned unchanged; anything else is resolved against baseOrigin.
func NormalizeLink(baseOrigin, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", errEmptyHref
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return href, nil
	}

	base, err := url.Parse(baseOrigin)
	if err != nil {
		return "", err
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base origin %q must have scheme and host", baseOrigin)
	}
	return base.ResolveReference(ref).String(), nil
}
