package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tsolve/internal/fixture"
	"tsolve/internal/ui"
)

type runOutcome struct {
	results []*fixture.Result
	err     error
}

// runWithUI runs the fixtures while a progress view renders their events.
func runWithUI(ctx context.Context, args []string, opts fixture.Options) ([]*fixture.Result, error) {
	files, err := fixture.Expand(args)
	if err != nil {
		return nil, err
	}
	events := make(chan fixture.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = fixture.ChannelSink{Ch: events}
		results, err := fixture.Run(ctx, files, optsCopy)
		outcomeCh <- runOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewRunModel("fixtures", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
