package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"plinth/internal/diag"
	"plinth/internal/diagfmt"
)

type outputOptions struct {
	format    string
	withNotes bool
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return outputOptions{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return outputOptions{}, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "pretty", "json":
	default:
		return outputOptions{}, fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
	return outputOptions{format: format, withNotes: withNotes}, nil
}

func newBag(cmd *cobra.Command) *diag.Bag {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil || maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	return diag.NewBag(maxDiagnostics)
}

// printDiagnostics writes bag to the command's stderr (pretty) or stdout (json).
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, sources diagfmt.Sources, opts outputOptions) error {
	bag.Sort()
	bag.Dedup()
	if opts.format == "json" {
		return diagfmt.JSON(cmd.OutOrStdout(), bag, sources, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     opts.withNotes,
		})
	}
	if bag.Len() == 0 {
		return nil
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, sources, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		ShowNotes: opts.withNotes,
	})
	return nil
}
