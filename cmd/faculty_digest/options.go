package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-digest/internal/config"
	"github.com/jonathan/faculty-digest/internal/db"
	"github.com/jonathan/faculty-digest/internal/directory"
	"github.com/jonathan/faculty-digest/internal/fetch"
	"github.com/jonathan/faculty-digest/internal/profile"
	"github.com/jonathan/faculty-digest/internal/sink"
	"github.com/jonathan/faculty-digest/internal/site"
)

// commonFlags are shared by every command that opens a page.
type commonFlags struct {
	configPath      string
	directoryURL    string
	baseOrigin      string
	renderer        string
	headed          bool
	chromePath      string
	userAgent       string
	respectRobots   bool
	requestInterval time.Duration
	verbose         bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	// Config file flag (processed first)
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	cmd.Flags().StringVar(&f.directoryURL, "directory-url", "", "Faculty directory page (default "+site.DirectoryURL+")")
	cmd.Flags().StringVar(&f.baseOrigin, "base-origin", "", "Origin prepended to relative profile links (default "+site.BaseOrigin+")")
	cmd.Flags().StringVar(&f.renderer, "renderer", "", "Page renderer: browser (headless Chrome) or static (plain HTTP, no JavaScript)")
	cmd.Flags().BoolVar(&f.headed, "headed", false, "Show the Chrome window instead of running headless")
	cmd.Flags().StringVar(&f.chromePath, "chrome-path", "", "Path to the Chrome/Chromium binary")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "", "User-Agent sent with every page load")
	cmd.Flags().BoolVar(&f.respectRobots, "respect-robots", false, "Skip pages disallowed by robots.txt")
	cmd.Flags().DurationVar(&f.requestInterval, "request-interval", 0, "Minimum time between page loads")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")
}

// apply copies explicitly set flags over cfg.
func (f *commonFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("directory-url") {
		cfg.DirectoryURL = f.directoryURL
	}
	if flags.Changed("base-origin") {
		cfg.BaseOrigin = f.baseOrigin
	}
	if flags.Changed("renderer") {
		cfg.Renderer = f.renderer
	}
	if flags.Changed("headed") {
		cfg.Headed = f.headed
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = f.chromePath
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = f.userAgent
	}
	if flags.Changed("respect-robots") {
		cfg.RespectRobots = f.respectRobots
	}
	if flags.Changed("request-interval") {
		cfg.RequestInterval = config.Duration(f.requestInterval)
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
}

// load builds the effective configuration: defaults, then the config file,
// then the environment, then explicitly set flags.
func (f *commonFlags) load(cmd *cobra.Command, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	f.apply(cmd, cfg)
	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Verbose && f.configPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded config from: %s\n", f.configPath)
	}
	return cfg, nil
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "", log.LstdFlags)
}

// openNavigator starts the configured renderer. The caller closes it.
func openNavigator(ctx context.Context, cfg *config.Config, logger *log.Logger) (fetch.Navigator, error) {
	var robots *fetch.RobotsGuard
	if cfg.RespectRobots {
		robots = fetch.NewRobotsGuard(cfg.UserAgent, nil)
	}
	var throttle *fetch.Throttle
	if cfg.RequestInterval > 0 {
		throttle = fetch.NewThrottle(cfg.RequestInterval.Std())
	}

	if cfg.Renderer == config.RendererStatic {
		return fetch.NewStaticSession(&fetch.StaticOptions{
			Fetch: &fetch.Options{
				Timeout:   fetch.DefaultTimeout,
				UserAgent: cfg.UserAgent,
			},
			Robots:   robots,
			Throttle: throttle,
			Logger:   logger,
			Verbose:  cfg.Verbose,
		}), nil
	}

	session, err := fetch.NewBrowserSession(ctx, &fetch.BrowserOptions{
		Headless:        !cfg.Headed,
		UserAgent:       cfg.UserAgent,
		ExecPath:        cfg.ChromePath,
		NavigateTimeout: fetch.DefaultNavigateTimeout,
		Robots:          robots,
		Throttle:        throttle,
		Logger:          logger,
		Verbose:         cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start browser (use --renderer static to run without Chrome): %w", err)
	}
	return session, nil
}

func directoryConfig(cfg *config.Config, logger *log.Logger) *directory.Config {
	dc := directory.DefaultConfig()
	dc.DirectoryURL = cfg.DirectoryURL
	dc.BaseOrigin = cfg.BaseOrigin
	dc.ListTimeout = cfg.ListTimeout.Std()
	dc.Logger = logger
	dc.Verbose = cfg.Verbose
	return dc
}

func profileConfig(cfg *config.Config, logger *log.Logger) *profile.Config {
	pc := profile.DefaultConfig()
	pc.NameTimeout = cfg.NameTimeout.Std()
	pc.BioTimeout = cfg.BioTimeout.Std()
	pc.SettleDelay = cfg.SettleDelay.Std()
	pc.Logger = logger
	pc.Verbose = cfg.Verbose
	return pc
}

// openSink returns the CSV sink, mirrored into PostgreSQL when a database URL
// is configured. An unreachable database only disables the mirror. The
// returned cleanup func is never nil.
func openSink(ctx context.Context, cfg *config.Config, logger *log.Logger) (sink.Sink, func()) {
	csvSink := sink.NewCSVSink(cfg.Output)
	if cfg.DatabaseURL == "" {
		return csvSink, func() {}
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Printf("[PIPELINE] Warning: database mirror disabled: %v", err)
		return csvSink, func() {}
	}
	if err := database.EnsureSchema(ctx); err != nil {
		logger.Printf("[PIPELINE] Warning: database mirror disabled: %v", err)
		database.Close()
		return csvSink, func() {}
	}
	return sink.Multi{csvSink, sink.NewDBSink(database, cfg.DirectoryURL)}, database.Close
}
