package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plinth/internal/diag"
	"plinth/internal/driver"
	"plinth/internal/observ"
)

// analyzeProject checks every module of in with the declaration checker,
// honouring --jobs, --ui, --timings and the order cache.
func analyzeProject(cmd *cobra.Command, in *projectInput, bag *diag.Bag) (*driver.Result, error) {
	flags := cmd.Root().PersistentFlags()
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	mode, err := readUIMode(cmd)
	if err != nil {
		return nil, err
	}

	reporter := diag.BagReporter{Bag: bag}
	opts := driver.Options{
		Jobs:     jobs,
		Reporter: reporter,
		Cache:    openCache(cmd),
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	checker := driver.DeclarationChecker{Reporter: reporter}

	var res *driver.Result
	if shouldUseTUI(mode) && in.modules.Len() > 0 {
		res, err = runAnalyzeWithUI(cmd.Context(), "checking "+in.listing, in.modules, checker, opts)
	} else {
		res, err = driver.Analyze(cmd.Context(), in.modules, checker, opts)
	}

	if opts.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	return res, err
}
