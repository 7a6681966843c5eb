package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"treelower/internal/ast"
	"treelower/internal/driver"
	"treelower/internal/ui"
)

type lowerOutcome struct {
	result *driver.Result
	err    error
}

// lowerWithUI runs driver.LowerFiles while a progress view renders on stderr.
func lowerWithUI(ctx context.Context, title string, files []*ast.File, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.FileEvent, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LowerFiles(ctx, files, opts)
		outcomeCh <- lowerOutcome{result: res, err: err}
		close(events)
	}()

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// The view may quit before the channel closes; keep draining so the
	// workers never block on a full channel.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
