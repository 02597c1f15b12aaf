package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"plinth/internal/diag"
	"plinth/internal/project"
)

var orderCmd = &cobra.Command{
	Use:   "order [modules.toml]",
	Short: "Print modules in dependency order",
	Long:  `Print every module after the modules it imports, or the batches of modules that can be checked together with --waves`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOrder,
}

func init() {
	addOutputFlags(orderCmd)
	orderCmd.Flags().Bool("waves", false, "group modules into batches that only import earlier batches")
}

type orderPayload struct {
	Sequence []string   `json:"sequence"`
	Waves    [][]string `json:"waves,omitempty"`
}

func runOrder(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	withWaves, err := cmd.Flags().GetBool("waves")
	if err != nil {
		return fmt.Errorf("failed to get waves flag: %w", err)
	}

	bag := newBag(cmd)
	in, err := loadProject(args, bag)
	if err != nil {
		if bag.Len() > 0 {
			_ = printDiagnostics(cmd, bag, nil, opts)
		}
		return err
	}

	payload := orderPayload{}
	payload.Sequence, err = in.modules.Sequence()
	if err == nil && withWaves {
		payload.Waves, err = in.modules.Waves()
	}
	if err != nil {
		var cycle *project.ImportCycleError
		if errors.As(err, &cycle) {
			cycle.Report(diag.BagReporter{Bag: bag}, in.modules)
			if printErr := printDiagnostics(cmd, bag, in.sources(), opts); printErr != nil {
				return printErr
			}
			if opts.format == "pretty" {
				fmt.Fprint(cmd.ErrOrStderr(), color.RedString(cycle.Diagram()))
			}
		}
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	renderOrder(cmd.OutOrStdout(), payload)
	return nil
}

func renderOrder(out io.Writer, payload orderPayload) {
	if payload.Waves == nil {
		for _, name := range payload.Sequence {
			fmt.Fprintln(out, name)
		}
		return
	}
	for i, wave := range payload.Waves {
		fmt.Fprintf(out, "%s %s\n", color.CyanString("wave %d:", i+1), strings.Join(wave, " "))
	}
}
