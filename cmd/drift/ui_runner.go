package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"drift/internal/driver"
	"drift/internal/source"
	"drift/internal/ui"
)

type resolveOutcome struct {
	fset    *source.FileSet
	results []*driver.ResolveResult
	err     error
}

// runResolveDirWithUI resolves a directory while rendering a progress TUI.
// Resolution runs in a goroutine; phase events stream into the Bubble Tea
// model through a buffered channel.
func runResolveDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.ResolveOptions) (*source.FileSet, []*driver.ResolveResult, error) {
	events := make(chan driver.PhaseEvent, 256)
	outcomeCh := make(chan resolveOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Observer = func(ev driver.PhaseEvent) {
			events <- ev
		}
		fset, results, err := driver.ResolveDir(ctx, dir, optsCopy)
		outcomeCh <- resolveOutcome{fset: fset, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fset, outcome.results, uiErr
	}
	return outcome.fset, outcome.results, outcome.err
}
