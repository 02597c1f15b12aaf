package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [modules.toml]",
	Short: "Check every module after the modules it imports",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addOutputFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}

	bag := newBag(cmd)
	in, err := loadProject(args, bag)
	if err != nil {
		if bag.Len() > 0 {
			_ = printDiagnostics(cmd, bag, nil, opts)
		}
		return err
	}

	res, analyzeErr := analyzeProject(cmd, in, bag)
	if err := printDiagnostics(cmd, bag, in.sources(), opts); err != nil {
		return err
	}
	if analyzeErr != nil {
		return analyzeErr
	}
	if bag.HasErrors() {
		return fmt.Errorf("check failed")
	}

	if opts.format == "pretty" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d modules\n", color.GreenString("checked"), res.Checked.Len())
	}
	return nil
}
