package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-digest/internal/config"
	"github.com/jonathan/faculty-digest/internal/llm"
	"github.com/jonathan/faculty-digest/internal/observability"
	"github.com/jonathan/faculty-digest/internal/pipeline"
	"github.com/jonathan/faculty-digest/internal/summary"
)

type runFlags struct {
	commonFlags
	output        string
	databaseURL   string
	maxProfiles   int
	provider      string
	model         string
	temperature   float32
	apiKey        string
	endpoint      string
	summaryPolicy string
	skipSummary   bool
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full extraction pipeline end-to-end",
		Long: `Discovers every profile link on the directory page, extracts name, email and
biography from each profile in order, summarizes each biography and writes
the batch to a CSV file (and to PostgreSQL when a database URL is set).

Configuration can be loaded from a JSON file using --config. FACULTY_*
environment variables override the file and command-line flags override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipelineCmd(cmd, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "CSV output path (default "+config.Defaults().Output+")")
	cmd.Flags().IntVar(&f.maxProfiles, "max-profiles", 0, "Process at most this many profiles (0 means all)")

	// Database URL for the optional run mirror
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider: gemini or openai")
	cmd.Flags().StringVar(&f.model, "model", "", "Override the provider's default model")
	cmd.Flags().Float32Var(&f.temperature, "temperature", 0, "Sampling temperature for summaries")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "Base URL of an OpenAI-compatible API")
	cmd.Flags().StringVar(&f.summaryPolicy, "summary-policy", "", "On summary failure: abort, skip or keep")
	cmd.Flags().BoolVar(&f.skipSummary, "skip-summary", false, "Write profiles without calling the LLM")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY / OPENAI_API_KEY
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "LLM API key (optional, defaults to the provider's env var)")

	return cmd
}

func (f *runFlags) overrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("output") {
			cfg.Output = f.output
		}
		if flags.Changed("db-url") {
			cfg.DatabaseURL = f.databaseURL
		}
		if flags.Changed("max-profiles") {
			cfg.MaxProfiles = f.maxProfiles
		}
		if flags.Changed("provider") {
			cfg.Provider = f.provider
		}
		if flags.Changed("model") {
			cfg.Model = f.model
		}
		if flags.Changed("temperature") {
			cfg.Temperature = config.Float32(f.temperature)
		}
		if flags.Changed("endpoint") {
			cfg.Endpoint = f.endpoint
		}
		if flags.Changed("summary-policy") {
			cfg.SummaryPolicy = f.summaryPolicy
		}
		if flags.Changed("api-key") {
			cfg.APIKey = f.apiKey
		}
	}
}

func runPipelineCmd(cmd *cobra.Command, f *runFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := f.load(cmd, f.overrides(cmd))
	if err != nil {
		return err
	}
	policy, err := pipeline.ParseSummaryPolicy(cfg.SummaryPolicy)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	var summarizer pipeline.Summarizer
	if !f.skipSummary {
		client, err := newLLMClient(cmd, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		generator, err := summary.NewGenerator(client, &summary.Options{
			Logger:  logger,
			Verbose: cfg.Verbose,
		})
		if err != nil {
			return err
		}
		summarizer = generator
	}

	nav, err := openNavigator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = nav.Close() }()

	records, closeSink := openSink(ctx, cfg, logger)
	defer closeSink()

	printer := observability.NewPrinter(out)
	driver := pipeline.NewDriver(nav, summarizer, records, &pipeline.Options{
		Directory:   directoryConfig(cfg, logger),
		Profile:     profileConfig(cfg, logger),
		Policy:      policy,
		MaxProfiles: cfg.MaxProfiles,
		Out:         out,
		Logger:      logger,
		Verbose:     cfg.Verbose,
		OnProgress: func(event pipeline.ProgressEvent) {
			if cfg.Verbose && event.Profile != nil {
				printer.PrintProfile(event.Profile)
			}
		},
	})

	result, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintRunSummary(len(result.Links), result.Profiles, result.Skipped)
	}
	_, _ = fmt.Fprintf(out, "Saved %d records to %s\n", len(result.Profiles), result.Location)
	return nil
}

func newLLMClient(cmd *cobra.Command, cfg *config.Config) (llm.Client, error) {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		envVar := "GEMINI_API_KEY"
		if cfg.Provider == string(llm.ProviderOpenAI) {
			envVar = "OPENAI_API_KEY"
		}
		return nil, fmt.Errorf("%s environment variable or --api-key flag is required (or pass --skip-summary)", envVar)
	}

	llmConfig, err := llm.ConfigFor(llm.Provider(cfg.Provider))
	if err != nil {
		return nil, err
	}
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model)
	}
	if cfg.Temperature != nil {
		llmConfig = llmConfig.WithTemperature(*cfg.Temperature)
	}
	llmConfig.BaseURL = cfg.Endpoint

	return llm.NewClient(cmd.Context(), llmConfig, apiKey)
}
