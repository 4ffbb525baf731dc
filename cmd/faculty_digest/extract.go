package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-digest/internal/observability"
	"github.com/jonathan/faculty-digest/internal/profile"
	"github.com/jonathan/faculty-digest/internal/schemas"
)

func newExtractCmd() *cobra.Command {
	f := &commonFlags{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "extract <profile-url>",
		Short: "Extract a single faculty profile",
		Long:  "Loads one profile page and prints its name, email and biography. No summary is generated.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtractCmd(cmd, f, args[0], asJSON)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the profile as JSON")
	return cmd
}

func runExtractCmd(cmd *cobra.Command, f *commonFlags, url string, asJSON bool) error {
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

	p := profile.Extract(ctx, nav, url, profileConfig(cfg, logger))

	if asJSON {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		if err := schemas.Validate(schemas.FacultyProfile, data); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	observability.NewPrinter(out).PrintProfile(&p)
	return nil
}
