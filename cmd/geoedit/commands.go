package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"geoedit/internal/config"
	"geoedit/internal/logging"
)

// --- Global Command Variables ---
var (
	configPath string
	logLevel   string
	outPath    string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "geoedit [file]",
		Short: "Edit vector geometries in the terminal",
		Long: `geoedit opens a WKT, GeoJSON, CSV or KML file in a terminal vertex
editor with undo and redo. Without a file, open one from the sidebar or
paste WKT.`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLog()
		},
		SilenceUsage: true,
		RunE:         runEditor, // Defined in cmd_edit.go
	}

	indexCmd = &cobra.Command{
		Use:   "index <file> <index>...",
		Short: "Describe geometry indices: vertex, edge, siblings and adjacency",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runIndex, // Defined in cmd_index.go
	}

	applyCmd = &cobra.Command{
		Use:   "apply <file> <script>",
		Short: "Run an edit script against a geometry and write the result",
		Long: `apply runs one command per line (move, insert, remove, add, begin,
end, undo, redo) and writes the edited geometry as WKT, or to --out in the
format its extension names.`,
		Args: cobra.ExactArgs(2),
		RunE: runApply, // Defined in cmd_apply.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default geoedit.yaml in . or $HOME/.config/geoedit)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	applyCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the result here (.wkt, .geojson) instead of stdout")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(applyCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	l, closeFn, err := logging.Open(c.Log.File, c.Log.Level, c.Log.Format)
	if err != nil {
		return err
	}
	cfg, logger, closeLog = c, l, closeFn
	logger.Debug("configuration loaded", "command", cmd.Name(), "history_limit", c.History.Limit)
	return nil
}
