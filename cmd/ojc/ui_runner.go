package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ojc/internal/driver"
	"ojc/internal/ui"
)

// runWithUI runs work with a progress view on stdout. work receives the
// sink to hand to the session; the view closes when work returns.
func runWithUI(ctx context.Context, title string, files []string, work func(context.Context, driver.ProgressSink) error) error {
	events := make(chan driver.Event, 256)
	done := make(chan error, 1)

	go func() {
		err := work(ctx, driver.ChannelSink{Ch: events})
		close(events)
		done <- err
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// окно закрылось раньше: дочитываем события, чтобы work не встал
		go func() {
			for range events {
			}
		}()
	}
	err := <-done
	if err != nil {
		return err
	}
	return uiErr
}
