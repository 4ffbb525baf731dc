package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func profilePage(name, email, bio string) string {
	return fmt.Sprintf(`<html><body>
<div class="vt-bio-info"><h1 class="vt-bio-name">%s</h1></div>
<div class="vt-bio-email"><a href="mailto:%s">%s</a></div>
<div class="vt-bodycol-content"><div class="vt-text"><p>%s</p></div></div>
</body></html>`, name, email, email, bio)
}

func directoryPage(paths ...string) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div class="vt-list-columns vt-num-col-6"><ul>`)
	for _, p := range paths {
		fmt.Fprintf(&sb, `<li><a class="vt-list-item-title-link" href="%s">x</a></li>`, p)
	}
	sb.WriteString(`</ul></div></body></html>`)
	return sb.String()
}

func serveSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func facultySite(t *testing.T) *httptest.Server {
	return serveSite(t, map[string]string{
		"/faculty/directory.html": directoryPage("/people/a.html", "/people/b.html", "/people/c.html"),
		"/people/a.html":          profilePage("Ann Lee", "ann@vt.edu", "Ann builds robots."),
		"/people/b.html":          profilePage("Bo Chen", "bo@vt.edu", "Bo studies proteins."),
		"/people/c.html":          profilePage("Cy Park", "cy@vt.edu", "Cy models climate."),
	})
}

// siteConfig writes a config file pointing the static renderer at server
// with short waits.
func siteConfig(t *testing.T, server *httptest.Server) string {
	t.Helper()
	content := fmt.Sprintf(`{
	"directory_url": %q,
	"base_origin": %q,
	"renderer": "static",
	"list_timeout": "200ms",
	"name_timeout": "200ms",
	"bio_timeout": "200ms",
	"settle_delay": "1ms"
}`, server.URL+"/faculty/directory.html", server.URL)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// clearEnv unsets the variables that would otherwise leak host settings into
// a command under test.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"FACULTY_DIRECTORY_URL", "FACULTY_BASE_ORIGIN", "FACULTY_OUTPUT", "FACULTY_RENDERER",
		"FACULTY_PROVIDER", "FACULTY_MODEL", "FACULTY_API_KEY", "FACULTY_ENDPOINT",
		"FACULTY_SUMMARY_POLICY", "FACULTY_MAX_PROFILES", "FACULTY_VERBOSE",
		"FACULTY_DATABASE_URL", "DATABASE_URL",
		"FACULTY_GEMINI_API_KEY", "GEMINI_API_KEY",
		"FACULTY_OPENAI_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// executeCommand runs the CLI in-process and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// readCSV returns the rows of a file written by the CSV sink, BOM removed.
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")), "missing UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	return rows
}
