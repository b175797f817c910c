package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ev-priority/internal/export"
	"github.com/sells-group/ev-priority/internal/model"
	"github.com/sells-group/ev-priority/internal/priority"
)

var (
	topLabel  string
	topLimit  int
	topFormat string
	topOutput string
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank boroughs within one priority label",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("report"); err != nil {
			return err
		}
		label, err := model.ParseLabel(topLabel)
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(topFormat)
		if err != nil {
			return err
		}
		if topLimit < 0 {
			return eris.Errorf("top: --limit must be >= 0, got %d", topLimit)
		}

		env, _, err := loadEnv(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		n := topLimit
		if n == 0 {
			n = env.TopN
		}
		rows := priority.TopN(env.Dataset.Records(), label, n)

		w, closeFn, err := openOutput(topOutput, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := export.WriteTable(w, rows, format); err != nil {
			_ = closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return eris.Wrap(err, "top: close output")
		}

		zap.L().Debug("top boroughs",
			zap.String("label", string(label)),
			zap.Int("rows", len(rows)),
		)
		return nil
	},
}

func init() {
	topCmd.Flags().StringVar(&topLabel, "label", "", "priority label: high, medium or low (required)")
	topCmd.Flags().IntVar(&topLimit, "limit", 0, "number of boroughs, at most 10 (default from config)")
	topCmd.Flags().StringVar(&topFormat, "format", "table", "output format: table, csv, json or yaml")
	topCmd.Flags().StringVar(&topOutput, "output", "", "write to file instead of stdout")
	_ = topCmd.MarkFlagRequired("label")
	rootCmd.AddCommand(topCmd)
}
