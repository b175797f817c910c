package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ev-priority/internal/config"
)

var (
	cfg        *config.Config
	sourcePath string
)

var rootCmd = &cobra.Command{
	Use:   "ev-priority",
	Short: "EV charging station placement priorities for London boroughs",
	Long:  "Loads predicted charging-station priority scores, labels them High, Medium or Low, ranks boroughs and serves the results as tables, maps and a JSON API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if sourcePath != "" {
			c.Source.Path = sourcePath
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourcePath, "source", "", "predictions file (csv, xlsx or sqlite); overrides source.path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
