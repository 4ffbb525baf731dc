// Package summary turns a faculty biography into a short research summary
// using an LLM.
package summary

import (
	"context"
	"log"

	"github.com/jonathan/faculty-digest/internal/llm"
	"github.com/jonathan/faculty-digest/internal/prompts"
)

const (
	promptFile = "summary.json"
	promptKey  = "summarize-faculty-bio"
)

// Options configures a Generator.
type Options struct {
	// Tier selects the model; defaults to llm.TierStandard.
	Tier    llm.ModelTier
	Logger  *log.Logger
	Verbose bool
}

// Generator summarizes biographies with a single LLM call each.
type Generator struct {
	client   llm.Client
	tier     llm.ModelTier
	template *prompts.Template
	logger   *log.Logger
	verbose  bool
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.Client, opts *Options) (*Generator, error) {
	if client == nil {
		return nil, &SummarizationError{Message: "LLM client is required"}
	}
	if opts == nil {
		opts = &Options{}
	}

	template, err := prompts.Lookup(promptFile, promptKey)
	if err != nil {
		return nil, &SummarizationError{Message: "failed to load prompt", Cause: err}
	}
	// The prompt may only depend on the biography
	if _, err := template.Render(map[string]string{"Bio": ""}); err != nil {
		return nil, &SummarizationError{Message: "unusable prompt", Cause: err}
	}

	tier := opts.Tier
	if tier == "" {
		tier = llm.TierStandard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Generator{
		client:   client,
		tier:     tier,
		template: template,
		logger:   logger,
		verbose:  opts.Verbose,
	}, nil
}

// BuildPrompt renders the summarization prompt for bio. Sentinel
// biographies are passed through like any other text.
func (g *Generator) BuildPrompt(bio string) (string, error) {
	return g.template.Render(map[string]string{"Bio": bio})
}

// Summarize returns the model's summary of bio. It makes exactly one
// request; any failure is returned as a *SummarizationError.
func (g *Generator) Summarize(ctx context.Context, bio string) (string, error) {
	prompt, err := g.BuildPrompt(bio)
	if err != nil {
		return "", &SummarizationError{Message: "failed to build prompt", Cause: err}
	}

	if g.verbose {
		g.logger.Printf("[SUMMARY] Requesting summary from %s (%d chars)", g.client.GetModel(g.tier), len(prompt))
	}

	text, err := g.client.GenerateContent(ctx, prompt, g.tier)
	if err != nil {
		return "", &SummarizationError{Message: "failed to generate content from LLM", Cause: err}
	}

	text = llm.CleanText(text)
	if text == "" {
		return "", &SummarizationError{Message: "model returned an empty summary"}
	}
	return text, nil
}
