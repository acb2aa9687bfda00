package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cla7aye15I4nd/TypePython/internal/driver"
	"github.com/cla7aye15I4nd/TypePython/internal/pipeline"
	"github.com/cla7aye15I4nd/TypePython/internal/ui"
)

type buildOutcome struct {
	result *driver.Result
	err    error
}

// runBuildWithUI runs the build in a goroutine and renders its progress
// events until the build finishes.
func runBuildWithUI(ctx context.Context, title string, cfg driver.Config) (*driver.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		cfgCopy := cfg
		cfgCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Build(ctx, cfgCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// The build keeps emitting; drain so it can finish.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
