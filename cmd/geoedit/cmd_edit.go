package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geoedit/internal/edit"
	"geoedit/internal/metrics"
	"geoedit/internal/tui"
)

// newEditService builds an edit service from the loaded configuration and
// attaches metrics to it.
func newEditService() (*edit.Service, *metrics.Metrics) {
	svc := edit.NewService(edit.WithLogger(logger), edit.WithHistoryLimit(cfg.History.Limit))
	m := metrics.New()
	m.Attach(svc)
	return svc, m
}

func runEditor(cmd *cobra.Command, args []string) error {
	svc, m := newEditService()
	opts := tui.Options{
		Editor:    svc,
		Step:      cfg.Editor.Step,
		Tolerance: cfg.Editor.Tolerance,
		Logger:    logger,
	}

	var model tea.Model
	if len(args) > 0 {
		model = tui.NewWithPath(args[0], opts)
	} else {
		model = tui.New(opts)
	}
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if svc.IsStarted() {
		err = errors.Join(err, svc.Stop())
	}
	return errors.Join(err, m.WriteFile(cfg.Metrics.File))
}
