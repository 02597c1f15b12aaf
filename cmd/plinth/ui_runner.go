package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"plinth/internal/driver"
	"plinth/internal/project"
	"plinth/internal/ui"
)

type analyzeOutcome struct {
	result *driver.Result
	err    error
}

// runAnalyzeWithUI runs driver.Analyze while a progress view renders its events.
func runAnalyzeWithUI(ctx context.Context, title string, parsed *project.ParsedModules, checker driver.Checker, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Analyze(ctx, parsed, checker, optsCopy)
		outcomeCh <- analyzeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, parsed.Names(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
