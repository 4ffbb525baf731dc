package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_MissingAPIKey(t *testing.T) {
	clearEnv(t)
	server := facultySite(t)
	output := filepath.Join(t.TempDir(), "out.csv")

	_, _, err := executeCommand(t, "run", "--config", siteConfig(t, server), "--output", output)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY environment variable or --api-key flag is required")
	assert.NoFileExists(t, output)
}

func TestRunCommand_MissingOpenAIKey(t *testing.T) {
	clearEnv(t)
	server := facultySite(t)

	_, _, err := executeCommand(t, "run", "--config", siteConfig(t, server), "--provider", "openai")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestRunCommand_InvalidPolicy(t *testing.T) {
	clearEnv(t)

	_, _, err := executeCommand(t, "run", "--renderer", "static", "--summary-policy", "retry", "--skip-summary")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "'summary_policy' failed oneof=abort skip keep")
}

func TestRunCommand_SkipSummary(t *testing.T) {
	clearEnv(t)
	server := facultySite(t)
	output := filepath.Join(t.TempDir(), "faculty.csv")

	stdout, _, err := executeCommand(t, "run",
		"--config", siteConfig(t, server),
		"--output", output,
		"--skip-summary")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Processing 1/3: "+server.URL+"/people/a.html")
	assert.Contains(t, stdout, "Processing 3/3: "+server.URL+"/people/c.html")
	assert.Contains(t, stdout, "Saved 3 records to "+output)

	rows := readCSV(t, output)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"name", "url", "email", "bio", "summary"}, rows[0])
	assert.Equal(t, []string{"Ann Lee", server.URL + "/people/a.html", "ann@vt.edu", "Ann builds robots.", ""}, rows[1])
	assert.Equal(t, "Bo Chen", rows[2][0])
	assert.Equal(t, "Cy Park", rows[3][0])
}

func TestRunCommand_MaxProfiles(t *testing.T) {
	clearEnv(t)
	server := facultySite(t)
	output := filepath.Join(t.TempDir(), "faculty.csv")

	stdout, _, err := executeCommand(t, "run",
		"--config", siteConfig(t, server),
		"--output", output,
		"--max-profiles", "2",
		"--skip-summary")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Processing 2/2")
	assert.NotContains(t, stdout, "/people/c.html")
	assert.Len(t, readCSV(t, output), 3)
}

func TestRunCommand_OpenAICompatibleEndpoint(t *testing.T) {
	clearEnv(t)
	var models []string
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Works on applied research."}, "finish_reason": "stop"}]
		}`))
	}))
	t.Cleanup(llmServer.Close)

	server := facultySite(t)
	output := filepath.Join(t.TempDir(), "faculty.csv")

	stdout, _, err := executeCommand(t, "run",
		"--config", siteConfig(t, server),
		"--output", output,
		"--provider", "openai",
		"--model", "local-model",
		"--api-key", "test-key",
		"--endpoint", llmServer.URL+"/v1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Saved 3 records to "+output)
	assert.Equal(t, []string{"local-model", "local-model", "local-model"}, models)

	rows := readCSV(t, output)
	require.Len(t, rows, 4)
	for _, row := range rows[1:] {
		assert.Equal(t, "Works on applied research.", row[4])
	}
}

func TestRunCommand_SummaryFailureSkipsProfiles(t *testing.T) {
	clearEnv(t)
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	}))
	t.Cleanup(llmServer.Close)

	server := facultySite(t)
	output := filepath.Join(t.TempDir(), "faculty.csv")

	stdout, stderr, err := executeCommand(t, "run",
		"--config", siteConfig(t, server),
		"--output", output,
		"--provider", "openai",
		"--api-key", "test-key",
		"--endpoint", llmServer.URL+"/v1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Saved 0 records to "+output)
	assert.Contains(t, stderr, "[PIPELINE] Warning: skipping")
	assert.Len(t, readCSV(t, output), 1, "header only")
}

func TestRunCommand_SummaryFailureAborts(t *testing.T) {
	clearEnv(t)
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(llmServer.Close)

	server := facultySite(t)
	output := filepath.Join(t.TempDir(), "faculty.csv")

	_, _, err := executeCommand(t, "run",
		"--config", siteConfig(t, server),
		"--output", output,
		"--provider", "openai",
		"--api-key", "test-key",
		"--endpoint", llmServer.URL+"/v1",
		"--summary-policy", "abort")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizing "+server.URL+"/people/a.html")
	assert.NoFileExists(t, output)
}

func TestRunCommand_NoLinks(t *testing.T) {
	clearEnv(t)
	server := serveSite(t, map[string]string{
		"/faculty/directory.html": directoryPage(),
	})
	output := filepath.Join(t.TempDir(), "faculty.csv")

	_, _, err := executeCommand(t, "run",
		"--config", siteConfig(t, server),
		"--output", output,
		"--skip-summary")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile links discovered")
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCommand_VerbosePrintsSummary(t *testing.T) {
	clearEnv(t)
	server := facultySite(t)
	output := filepath.Join(t.TempDir(), "faculty.csv")

	stdout, _, err := executeCommand(t, "run",
		"--config", siteConfig(t, server),
		"--output", output,
		"--skip-summary",
		"-v")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Loaded config from:")
	assert.Contains(t, stdout, "FACULTY PROFILE")
	assert.Contains(t, stdout, "RUN SUMMARY")
}
