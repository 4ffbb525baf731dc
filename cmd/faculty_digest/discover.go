package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-digest/internal/directory"
	"github.com/jonathan/faculty-digest/internal/observability"
)

func newDiscoverCmd() *cobra.Command {
	f := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the profile links on the directory page",
		Long:  "Loads the directory page and prints every absolute profile URL in page order, without visiting any profile.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiscoverCmd(cmd, f)
		},
	}
	f.register(cmd)
	return cmd
}

func runDiscoverCmd(cmd *cobra.Command, f *commonFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := f.load(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	nav, err := openNavigator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = nav.Close() }()

	links, err := directory.Discover(ctx, nav, directoryConfig(cfg, logger))
	if err != nil {
		return fmt.Errorf("link discovery failed: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(out).PrintLinks(links)
	}
	for _, link := range links {
		_, _ = fmt.Fprintln(out, link)
	}
	_, _ = fmt.Fprintf(out, "Found %d profile links\n", len(links))
	return nil
}
