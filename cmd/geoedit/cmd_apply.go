package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"geoedit/internal/geom"
	"geoedit/internal/script"
)

func runApply(cmd *cobra.Command, args []string) error {
	g, err := geom.Load(args[0])
	if err != nil {
		return err
	}
	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	before := g.Clone()
	svc, m := newEditService()
	if err := svc.Start(g); err != nil {
		return err
	}
	n, runErr := script.NewRunner(svc).Run(f)
	// an unterminated begin still counts
	err = errors.Join(runErr, svc.Stop(), m.WriteFile(cfg.Metrics.File))
	logger.Info("script applied", "file", args[0], "script", args[1], "commands", n,
		"changed", !g.EqualsWithin(before, cfg.Editor.Tolerance), "error", runErr)
	if err != nil {
		return err
	}
	if vErr := g.Validate(); vErr != nil {
		logger.Warn("edited geometry is not valid", "error", vErr)
	}
	if outPath != "" {
		return geom.Save(outPath, g)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), geom.FormatWKT(g))
	return err
}
